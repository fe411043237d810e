package export

import (
	"encoding/json"
	"fmt"
	"os"

	"esocialetl/internal/resolve"
)

// Filter restricts which source rows feed a template.
type Filter struct {
	// Column/Equals keeps rows whose column value is one of Equals.
	Column string   `json:"column,omitempty"`
	Equals []string `json:"equals,omitempty"`

	// RequirePath keeps rows whose payload contains the element path.
	RequirePath []string `json:"require_path,omitempty"`
}

// TemplateSpec binds one destination CSV to a source query and its column
// mappings. Field.Column carries the destination header label.
type TemplateSpec struct {
	File   string             `json:"file"`
	Source string             `json:"source"`
	Filter *Filter            `json:"filter,omitempty"`
	Fields []resolve.FieldDef `json:"fields"`
}

// LoadTemplates reads an external template mapping document, replacing
// the built-in defaults wholesale.
func LoadTemplates(path string) ([]TemplateSpec, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read templates file: %w", err)
	}
	var specs []TemplateSpec
	if err := json.Unmarshal(raw, &specs); err != nil {
		return nil, fmt.Errorf("decode templates file %s: %w", path, err)
	}
	for _, s := range specs {
		if s.File == "" || s.Source == "" {
			return nil, fmt.Errorf("templates file %s: every entry needs file and source", path)
		}
	}
	return specs, nil
}

func col(label, column string) resolve.FieldDef {
	return resolve.FieldDef{Column: label, RecordColumn: column}
}

func date(label, column string) resolve.FieldDef {
	return resolve.FieldDef{Column: label, RecordColumn: column, Format: "date"}
}

func dec(label, column string) resolve.FieldDef {
	return resolve.FieldDef{Column: label, RecordColumn: column, Format: "decimal"}
}

func js(label string, path ...string) resolve.FieldDef {
	return resolve.FieldDef{Column: label, Path: path}
}

func jdate(label string, path ...string) resolve.FieldDef {
	return resolve.FieldDef{Column: label, Path: path, Format: "date"}
}

// DefaultTemplates returns the nine built-in destination templates in
// their fixed output order.
func DefaultTemplates() []TemplateSpec {
	return []TemplateSpec{
		{
			File:   "01_CONVTRABALHADOR.csv",
			Source: "esocial_s2200",
			Fields: []resolve.FieldDef{
				col("1 A-ID do empregador", "cnpj_empregador"),
				{
					Column: "2 B-Código referência", RecordColumn: "cnpj_empregador",
					Alternatives: [][]string{{"ideEmpregador", "nrInsc"}},
				},
				{
					Column: "3 C-CPF trabalhador", RecordColumn: "cpf_trabalhador",
					Path:         []string{"trabalhador", "cpfTrab"},
					Alternatives: [][]string{{"ideTrabalhador", "cpfTrab"}, {"cpfTrab"}},
				},
				{
					Column: "4 D-Nome trabalhador", RecordColumn: "nome_trabalhador",
					Path:         []string{"trabalhador", "nmTrab"},
					Alternatives: [][]string{{"dadosTrabalhador", "nmTrab"}, {"nmTrab"}},
				},
				date("5 E-Data nascimento trabalhador", "data_nascimento"),
				col("6 F-Apelido trabalhador", "nome_social"),
				col("7 G-Nome social trabalhador", "nome_social"),
				col("8 H-Nome mae trabalhador", "nm_mae"),
				col("9 I-Nome pai trabalhador", "nm_pai"),
				col("10 J-Sexo trabalhador", "sexo"),
				col("11 K-Grau de instrução", "grau_instrucao"),
				col("12 L-Raça/Cor do trabalhador", "raca_cor"),
				col("13 M-Estado civil do trabalhador", "estado_civil"),
				col("14 N-Indicativo de deficiência", "def_fisica"),
				col("15 O-Indicativo de deficiência física", "def_fisica"),
				col("16 P-Indicativo de deficiência visual", "def_visual"),
				col("17 Q-Indicativo de deficiência auditiva", "def_auditiva"),
				col("18 R-Indicativo de deficiência mental", "def_mental"),
				col("19 S-Indicativo de deficiência intelectual", "def_intelectual"),
				col("20 T-Trabalhador reabilitado ou adaptado", "reab_readap"),
				col("21 U-Trabalhador faz parte de cota de deficiente", "info_cota"),
				js("22 V-Tipo sanguíneo", "trabalhador", "tipoSangue"),
				js("23 W-Nome da cidade de  nascimento", "nascimento", "nmCid"),
				col("24 X-UF da cidade de nascimento", "uf_nasc"),
				col("25 Y-Código do país de nascimento", "pais_nasc"),
				js("26 Z-Nome do país de nascimento", "nascimento", "paisNascto"),
				col("27 AA-Código de país de nacionalidade", "pais_nac"),
				js("28 AB-Nome do país denacionalidade", "nascimento", "paisNac"),
				js("29 AC-Código RAIS do país", "nascimento", "codRais"),
				js("30 AD-É aposentado", "trabalhador", "aposentado"),
				jdate("31 AE-Data de aposentaria", "trabalhador", "dtAposent"),
				js("32 AF-Reside no país", "trabalhador", "residePais"),
				col("33 AG-Código do tipo de logradouro", "tp_lograd"),
				col("34 AH-Endereço do trabalhador", "dsc_lograd"),
				col("35 AI-Número de endereço do trabalhador", "nr_lograd"),
				col("36 AJ-Complemento do endereço de trabalhador", "complemento"),
				col("37 AK-CEP do trabalhador", "cep"),
				col("38 AL-Bairro do trabalhador", "bairro"),
				col("39 AM-Código da cidade de residência do trabalhador", "cod_munic"),
				col("40 NA-Nome da cidade de residência do trabalhador", "nm_cidade"),
				col("41 AO-UF de residência", "uf_resid"),
				js("42 AP-Referência do endereço do trabalhador", "endereco", "brasil", "referencia"),
				col("43 AQ-Telefone", "fone_princ"),
				col("44 AR-Telefone 2", "fone_alt"),
				col("45 AS-Email", "email_princ"),
				col("46 AT-Email alternativo", "email_alt"),
				col("47 AU-Contato de emergência", "contato_emerg"),
				col("48 AV-Telefone do contato de emergência", "fone_emerg"),
				col("49 AW-Parentesco do contato para emergência", "parentesco_emerg"),
				js("50 AX-Peso", "trabalhador", "peso"),
				js("51 AY-Altura", "trabalhador", "altura"),
				js("52 AZ-Calça", "trabalhador", "tamanhoCalca"),
				js("53 BA-Camisa", "trabalhador", "tamanhoCamisa"),
				js("54 BB-Calçado", "trabalhador", "tamanhoCalcado"),
				js("55 BC-Número do CNS", "documentos", "cns", "nrCns"),
				col("56 BD-Número do RG", "nr_rg"),
				col("57 BE-Órgão emissor do RG", "orgao_emissor_rg"),
				date("58 BF-Data de emissão do RG", "dt_exped_rg"),
				col("59 BG-UF de emissão do RG", "uf_rg"),
				col("60 BH-Número do RNE", "nr_rne"),
				col("61 BI-Órgão emissor do RNE", "orgao_emissor_rne"),
				col("62 BJ-UF de emissão do RNE", "uf_rne"),
				date("63 BK-Data de emissão do RNE", "dt_exped_rne"),
				date("64 BL-Data da chegada no país", "dt_chegada"),
				col("65 BM-Classificação estrangeiro", "class_trab_estrang"),
				col("66 BN-Estrangeiro casado com brasileiro", "casado_br"),
				col("67 BO-Estrangeiro com filhos brasileiros", "filhos_br"),
				col("68 BP-Número do passaporte", "nr_passaporte"),
				col("69 BQ-País de origem do passaporte", "pais_origem_passaporte"),
				date("70 BR-Data de emissão do passaporte", "dt_exped_passaporte"),
				date("71 BS-Data de validade do passaporte", "dt_valid_passaporte"),
				col("72 BT-Número do RIC", "nr_ric"),
				col("73 BU-Órgão emissor do RIC", "orgao_emissor_ric"),
				col("74 BV-UF de emissão do RIC", "uf_ric"),
				date("75 BW-Data de emissão do RIC", "dt_exped_ric"),
				col("76 BXPIS", "nis_trabalhador"),
				jdate("77 BY-Data de emissão do PIS", "documentos", "pis", "dtExped"),
				col("78 BZ-Número da CTPS", "nr_ctps"),
				col("79 CA-Série da CTPS", "serie_ctps"),
				col("80 CB-UF da CTPS", "uf_ctps"),
				date("81 CC-Data de emissão da CTPS", "dt_exped_ctps"),
				col("82 CD-Número do título de eleitor", "nr_titulo"),
				col("83 CE-Zona do título de eleitor", "zona_titulo"),
				col("84 CF-Seção do título de eleitor", "secao_titulo"),
				col("85 CG-Código da cidade do título de eleitor", "cod_munic_titulo"),
				col("86 CH-Nome da cidade do título de eleitor", "nm_cidade_titulo"),
				col("87 CI-UF do título de eleitor", "uf_titulo"),
				date("88 CJ-Data de emissão do título de eleitor", "dt_exped_titulo"),
				col("89 CK-Número da CNH", "nr_reg_cnh"),
				col("90 CL-Categoria da CNH", "categoria_cnh"),
				col("91 CM-UF da CNH", "uf_cnh"),
				date("92 CN-Data de emissão da CNH", "dt_exped_cnh"),
				date("93 CO-Data de emissão da primeira CNH", "dt_pri_hab"),
				date("94 CP-Data de validade da CNH", "dt_valid_cnh"),
				col("95 CQ-Número do certificado de alistamento militar", "nr_certidao"),
				date("96 CR-Data de expedição da CAM", "dt_exped_certidao"),
				col("97 CS-Região militar", "regiao_militar"),
				col("98 CT-Tipo de certificado militar", "tipo_certidao"),
				col("99 CU-Número do certificado militar", "nr_certidao2"),
				col("100 CV-Número de série do certificado militar", "nr_serie"),
				date("101 CW-Data de expedição do certificado militar", "dt_exped_certidao2"),
				col("102 CX-Categoria do certificado militar", "categoria_certidao"),
				col("103 CY-Observações sobre a situação militar", "observacao_def"),
				js("104 CZ-Profissão", "trabalhador", "profissao"),
				col("105 DA-Número de registro no conselho de classe", "nr_registro_conselho"),
				col("106 DB-Órgão emissor do registro de classe", "orgao_emissor_conselho"),
				col("107 DC-UF do conselho de classe", "uf_conselho"),
				date("108 DD-Data de emissão do registro no conselho", "dt_exped_conselho"),
				date("109 DE-Data de vencimento do registro no conselho", "dt_validade_conselho"),
				js("110 DF-Observações gerais", "trabalhador", "observacoes"),
				col("111 DG-País de residência no exterior", "pais_resid"),
				col("112 DH-Bairro de residência no exterior", "bairro_ext"),
				col("113 DI-Endereço de residência no exterior", "dsc_lograd_ext"),
				col("114 DJ-Número de residência no exterior", "nr_lograd_ext"),
				col("115 DK-Complemento no endereço de residência no exterior", "complemento_ext"),
				col("116 DL-Cidade de residência no exterior", "nm_cidade_ext"),
				js("117 DM-UF de residência no exterior", "endereco", "exterior", "uf"),
				col("118 DN-CEP de residência no exterior", "cod_postal_ext"),
				{Column: "119 DO-Cadastrado em", RecordColumn: "data_importacao", Format: "datetime"},
				col("120 DP-Categoria", "cod_categoria"),
				date("121 DQ-Data de desligamento", "dt_deslig"),
				js("122 DR-Tipo pessoa origem", "sucessaoVinc", "origem"),
				js("123 DS-Tipo pessoa destino", "sucessaoVinc", "destino"),
				date("124 DT-Início de validade", "dt_adm"),
				js("125 DU-Forma de pagamento", "banco", "formaPagamento"),
				js("126 DV-Código do banco para pagamento pessoa", "banco", "codBanco"),
				js("127 DW-Agência sem dígito", "banco", "nrAgencia"),
				js("128 DX-Dígito da agência", "banco", "dvAgencia"),
				js("129 DY-Conta bancária sem dígito", "banco", "nrConta"),
				js("130 DZ-Dígito da conta", "banco", "dvConta"),
				js("131 EA-Tipo de conta", "banco", "tpConta"),
				js("132 EB-Tipo de operação", "banco", "tpOperacao"),
			},
		},
		{
			File:   "02_CONVCONTRATO.csv",
			Source: "esocial_s2200",
			Fields: []resolve.FieldDef{
				col("1 A-ID do empregador", "cnpj_empregador"),
				js("2 B-Código do estabelecimento", "localTrabGeral", "nrInsc"),
				col("3 C-Código do trabalhador", "cpf_trabalhador"),
				col("4 D-Nome do trabalhador", "nome_trabalhador"),
				js("5 E-Código de lotação tributária", "codLotacao"),
				col("6 F-Número de registro", "matricula"),
				col("7 G-Código do contrato", "matricula"),
				col("8 H-Matrícula no eSocial", "matricula"),
				col("10 J-Código da categoria do trabalhador", "cod_categoria"),
				col("12 L-Tipo de regime trabalhista", "tp_reg_trab"),
				col("13 M-Tipo de regime previdenciário", "tp_reg_prev"),
				date("15 O-Data de admissão", "dt_adm"),
				js("18 R-Optante para FGTS", "FGTS", "opcFGTS"),
				date("19 S-Data de opção do FGTS", "dt_opc_fgts"),
				col("20 T-Código de motivo de admissão", "tp_admissao"),
				col("21 U-Tipo de admissão", "tp_admissao"),
				col("23 W-Indicativo de admissão", "ind_admissao"),
				col("24 X-Natureza da atividade", "nat_atividade"),
				col("28 AB-Tipo de contrato de trabalho", "tipo_contrato"),
				col("29 AC-Cláusula assecuratória rescisão antecipada prazo deter", "clau_assec"),
				date("32 AF-Data de vencimento prazo determinado", "duracao_contrato"),
				col("33 AG-Fato que determina o fim do prazo determinado", "obj_det"),
				col("36 AJ-Código do cargo", "cbo_cargo"),
				col("37 AK-Código da função", "cbo_funcao"),
				col("38 AL-Tipo de salário", "und_sal_fixo"),
				dec("40 AN-Valor do salário", "salario_contratual"),
				col("43 AQ-CNPJ do sindicato da categoria", "cnpj_sind_categ_prof"),
				js("48 AV-Código da jornada de trabalho", "horContratual", "tpJornada"),
				date("51 AY-Data de entrada por transferência", "transf_dt_transf"),
				col("53 BA-Código anterior do colaborador", "transf_matric_ant"),
				date("54 BB-Data de desligamento", "dt_deslig"),
				col("76 BX-CPF do colaborador substituto", "cpf_trab_subst"),
				col("78 BZ-Tipo de regime da jornada", "tp_reg_jor"),
				{Column: "79 CA-Cadastrado em", RecordColumn: "data_importacao", Format: "datetime"},
				col("80 CB-Hipótese legal para contratação do temporário", "hip_leg"),
				col("81 CC-Justificativa para a contratação do temporário", "just_contr"),
			},
		},
		{
			File:   "03_CONVCONTRATOALT.csv",
			Source: "esocial_s2205",
			Fields: []resolve.FieldDef{
				col("1 A-ID do empregador", "cnpj_empregador"),
				col("2 B-Nome do trabalhador", "nome_trabalhador"),
				col("3 C -Código do contrato", "matricula"),
				js("4 D-Tipo de transferência", "altContratual", "tpRegJor"),
				{Column: "5 E-Data da alteração", RecordColumn: "data_alteracao",
					Path: []string{"alteracao", "dtAlteracao"}, Format: "date"},
				{Column: "6 F-Alteração registrada em", RecordColumn: "data_importacao", Format: "datetime"},
				js("7 G-ID do novo empregador", "altContratual", "infoContrato", "codCateg"),
				js("8 H-Código do novo estabelecimento", "localTrabGeral", "nrInsc"),
				js("9 I-Código do novo departamento", "localTrabGeral", "descComp"),
				js("10 J-Código do novo cargo", "infoContrato", "codCargo"),
				{Column: "11 K-Valor do novo salário",
					Path: []string{"remuneracao", "vrSalFx"}, Format: "decimal"},
				js("12 L-Tipo do novo salário", "remuneracao", "undSalFixo"),
				js("13 M-Código do motivo de reajuste", "infoContrato", "motivoReajuste"),
				js("14 N-Código da nova jornada de trabalho", "horContratual", "tpJornada"),
				js("15 O-Código do novo sindicato", "sindicato", "cnpjSindicato"),
			},
		},
		{
			File:   "04_CONVDEPENDENTE.csv",
			Source: "esocial_dependentes",
			Fields: []resolve.FieldDef{
				col("1 A-ID do empregador", "cnpj_empregador"),
				col("2 B  - Código do trabalhador", "cpf_trabalhador"),
				col("3 C  - Código do tipo de dependente", "tipo_dependente"),
				col("4 D  - Código do dependente", "cpf_dependente"),
				col("5 E  - Nome do dependente", "nome_dependente"),
				jdate("6 F  - Início da vigência", "dtIniVig"),
				jdate("7 G  - Término da vigência", "dtFimVig"),
				col("8 H  - Sexo do dependente", "sexo_dependente"),
				date("9 I  - Data de nascimento do dependente", "data_nascimento"),
				js("10 J  - Nome da mãe", "nmMae"),
				col("11 K  - CPF do dependente", "cpf_dependente"),
				col("12 L  - Paga salário família", "dep_sf"),
				jdate("13 M  - Data de baixa do salário  família", "dtBaixaSF"),
				col("14 N  - Dependente para IRRF", "dep_irrf"),
				jdate("15 O  - Data de baixa de dependente para IRRF", "dtBaixaIRRF"),
				js("16 P  - Filho deficiente recebe salário família", "defSF"),
				js("17 Q  - Código da cidade de nascimento", "codMunic"),
				js("18 R  - Número da certidão de nascimento do dependente", "numCert"),
				js("19 S  - Nome do cartório de registro", "nmCartorio"),
				js("20 T  - Número de registro", "numReg"),
				js("21 U  - Número no livro de registro", "numLivro"),
				js("22 V  - Número na folha de registro", "numFolha"),
				jdate("23 W  - Data de registro em cartório", "dtRegCartorio"),
				jdate("24 X  - Data de entrega do documento", "dtEntDoc"),
				js("25 Y  - Endereço do dependente", "endDep"),
				js("26 Z  - Número de endereço", "numEnd"),
				js("27 AA  - Bairro", "bairro"),
				js("28 AB  - Código da cidade", "codMunic"),
				js("29 AC  - CEP do dependente", "cep"),
				js("30 AD  - Telefone 1 do dependente", "fone1"),
				js("31 AE  - Telefone 2 do dependente", "fone2"),
				col("32 AF  - Observações", "descr_dep"),
				jdate("33 AG  - Data de registro", "dtRegistro"),
				js("34 AH  - Número do cartão nacional de saúde", "numCNS"),
				js("35 AI  - Número da declaração de nascimento vivo", "numDNV"),
				js("36 AJ  - Número do RG do dependente", "numRG"),
				js("37 AK  - Origem", "origem"),
				js("38 AL  - Destino", "destino"),
			},
		},
		{
			File:   "05_FERIAS.csv",
			Source: "esocial_s2230",
			Filter: &Filter{Column: "codigo_motivo", Equals: []string{"15"}},
			Fields: []resolve.FieldDef{
				col("1 A-ID do empregador", "cnpj_empregador"),
				col("2 B - Nome do trabalhador", "cpf_trabalhador"),
				col("3 C - Código do contrato", "matricula"),
				jdate("4 D - Início do período aquisitivo", "perAquis", "dtInicio"),
				jdate("5 E - Término do período aquisitivo", "perAquis", "dtFim"),
				js("16 P - Tipo de férias", "iniAfastamento", "indFeriasColetivas"),
				date("18 R - Início de gozo", "data_inicio"),
				date("19 S - Término de gozo", "data_fim"),
				js("20 T - Quantidade de dias de gozo de férias", "iniAfastamento", "qtdDiasFerias"),
				jdate("22 V - Data do pagamento das férias", "iniAfastamento", "dtPagtoFerias"),
			},
		},
		{
			File:   "06_CONVFICHA.csv",
			Source: "esocial_s1200",
			Fields: []resolve.FieldDef{
				col("1 A-ID do empregador", "cnpj_empregador"),
				col("2 B-Código do estabelecimento", "estabelecimento"),
				col("10 J-Código do contrato", "matricula"),
				col("25 Y  - Sigla da rubrica", "codigo_rubrica"),
				col("26 Z  - Sigla da rubrica para o recibo", "codigo_rubrica"),
				col("27 AA  - Descrição da rubrica para o recibo", "descricao_rubrica"),
				{Column: "28 AB  - Razão ou qtde", Path: []string{"qtdRubr"},
					Default: "1", Format: "decimal"},
				dec("29 AC  - Valor da rubrica", "valor_rubrica"),
				{Column: "30 AD  - Classe da rubrica", RecordColumn: "tipo_rubrica", Default: "M"},
				col("31 AE  - Período de referência", "periodo_apuracao"),
			},
		},
		{
			File:   "07_CARGOS.csv",
			Source: "esocial_s1030",
			Fields: []resolve.FieldDef{
				col("1 A-ID do empregador", "cnpj_empregador"),
				col("2 B-Código do cargo", "codigo"),
				col("3 C-Nome do cargo", "descricao"),
				col("4 D-ID do tipo de código", "nivel_cargo"),
				col("5 E-ID do nível organizacional", "nivel_cargo"),
				col("6 F-Código do CBO", "cbo"),
				date("7 G-Início da validade", "inicio_validade"),
				date("8 H-Término da validade", "fim_validade"),
				col("9 I-Descrição sumária", "desc_sumaria"),
				col("10 J-Permite acúmulo de cargo", "permite_acumulo"),
				col("11 L-Permite contagem especial do acúmulo de cargo", "permite_contagem_esp"),
				col("12 M-Cargo de dedicação exclusiva", "dedicacao_exclusiva"),
				col("13 N-Número da Lei que criou e/ou extinguiu e/ou restruturou o", "num_lei"),
				date("14 O-Data da Lei que criou e/ou extinguiu e/ou restruturou o ca", "dt_lei"),
				col("15 P-Situação gerada pela Lei", "situacao_lei"),
				col("16 Q-O cargo tem função", "tem_funcao"),
			},
		},
		{
			File:   "08_CONVAFASTAMENTO.csv",
			Source: "esocial_s2230",
			Fields: []resolve.FieldDef{
				col("1 A-ID do empregador", "cnpj_empregador"),
				col("2-Nome do trabalhador", "cpf_trabalhador"),
				col("3-Código do contrato", "matricula"),
				{Column: "4-Código do motivo de afastamento", RecordColumn: "codigo_motivo",
					Path: []string{"iniAfastamento", "codMotAfast"}},
				{Column: "5-Data inicial de afastamento", RecordColumn: "data_inicio",
					Path: []string{"iniAfastamento", "dtIniAfast"}, Format: "date"},
				{Column: "6-Data final de afastamento", RecordColumn: "data_fim",
					Path: []string{"fimAfastamento", "dtTermAfast"}, Format: "date"},
				js("7-Observações do afastamento", "iniAfastamento", "observacao"),
				col("8-Descrição do motivo de afastamento", "descricao_motivo"),
			},
		},
		{
			File:   "09_CONVATESTADO.csv",
			Source: "esocial_s2230",
			Filter: &Filter{RequirePath: []string{"infoAtestado"}},
			Fields: []resolve.FieldDef{
				col("1 - ID do empregador", "cnpj_empregador"),
				jdate("2 - Data da consulta", "infoAtestado", "dtDiagnostico"),
				jdate("4 - Data inicial", "iniAfastamento", "dtIniAfast"),
				jdate("6 - Data final", "fimAfastamento", "dtTermAfast"),
				js("8 - Qtde de dias do atestado", "infoAtestado", "qtdDiasAfast"),
				col("9 - Código de identificação do contrato", "matricula"),
				js("10 - Código CID", "infoAtestado", "codCID"),
				js("11 - MedicoTpCons", "infoAtestado", "tpConsulta"),
				js("12 - Número de inscrição do médico", "emitente", "nrOC"),
				js("13 - UF do CRM do médico", "emitente", "ufOC"),
			},
		},
	}
}
