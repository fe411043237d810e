package schema

// ExportQueries maps logical export names to read-only SQL. The named
// views flatten the layout tables into the shapes the CSV templates
// consume; the esocial_* entries expose each table verbatim.
var ExportQueries = map[string]string{
	"funcionarios": `
		SELECT
			s2200.cpf_trabalhador AS cpf,
			s2200.nome_trabalhador AS nome,
			'' AS pis,
			s2200.sexo,
			s2200.raca_cor,
			s2200.estado_civil,
			s2200.grau_instrucao,
			s2200.data_nascimento,
			'' AS ctps_numero,
			'' AS ctps_serie,
			'' AS ctps_uf,
			s2200.matricula,
			s2200.dt_adm AS data_admissao,
			s2200.tp_admissao AS tipo_admissao,
			s2200.tp_reg_jor AS tipo_regime_jornada,
			s2200.nat_atividade AS natureza_atividade,
			s2200.cod_categoria,
			s2200.tipo_contrato,
			s2200.duracao_contrato,
			s2200.cnpj_empregador
		FROM esocial_s2200 s2200`,

	"cargos": `
		SELECT
			codigo,
			descricao,
			cbo,
			inicio_validade,
			fim_validade,
			cnpj_empregador
		FROM esocial_s1030`,

	"lotacoes": `
		SELECT
			codigo,
			descricao,
			tipo_lotacao,
			tipo_inscricao,
			nr_inscricao,
			inicio_validade,
			fim_validade,
			cnpj_empregador
		FROM esocial_s1020`,

	"remuneracoes": `
		SELECT
			periodo_apuracao,
			cpf_trabalhador,
			matricula,
			categoria,
			estabelecimento,
			codigo_rubrica,
			descricao_rubrica,
			valor_rubrica,
			tipo_rubrica,
			cnpj_empregador
		FROM esocial_s1200`,

	"afastamentos": `
		SELECT
			cpf_trabalhador,
			matricula,
			data_inicio,
			data_fim,
			codigo_motivo,
			descricao_motivo,
			cnpj_empregador
		FROM esocial_s2230`,

	"esocial_s1020":       "SELECT * FROM esocial_s1020",
	"esocial_s1030":       "SELECT * FROM esocial_s1030",
	"esocial_s1200":       "SELECT * FROM esocial_s1200",
	"esocial_s2200":       "SELECT * FROM esocial_s2200",
	"esocial_s2205":       "SELECT * FROM esocial_s2205",
	"esocial_s2206":       "SELECT * FROM esocial_s2206",
	"esocial_s2230":       "SELECT * FROM esocial_s2230",
	"esocial_dependentes": "SELECT * FROM esocial_dependentes",
}
