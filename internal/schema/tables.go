// Package schema holds the built-in eSocial table specs and export
// queries. This is configuration expressed as data; external JSON can
// replace it table-for-table without code changes.
package schema

import "esocialetl/internal/storage"

// Shared column names every layout table carries.
const (
	ColJSONData   = "json_data"
	ColImportedAt = "data_importacao"
)

func text(names ...string) []storage.ColumnSpec {
	out := make([]storage.ColumnSpec, 0, len(names))
	for _, n := range names {
		out = append(out, storage.ColumnSpec{Name: n, Type: "text"})
	}
	return out
}

func real(name string) storage.ColumnSpec {
	return storage.ColumnSpec{Name: name, Type: "real"}
}

func withShared(cols []storage.ColumnSpec) []storage.ColumnSpec {
	return append(cols, storage.ColumnSpec{Name: ColJSONData, Type: "text"},
		storage.ColumnSpec{Name: ColImportedAt, Type: "text"})
}

func pk() *storage.PrimaryKeySpec {
	return &storage.PrimaryKeySpec{Name: "id", Type: "serial"}
}

// Tables returns the table specs for the seven normalized layouts plus
// the dependents table. The map key is the layout code (or "dependentes").
func Tables() map[string]storage.TableSpec {
	return map[string]storage.TableSpec{
		"S-1020": {
			Name:       "esocial_s1020",
			PrimaryKey: pk(),
			Columns: withShared(text(
				"codigo", "cod_lotacao", "descricao", "desc_lotacao", "tipo_lotacao",
				"tipo_inscricao", "nr_inscricao",
				"inicio_validade", "fim_validade", "nova_ini_valid", "nova_fim_valid",
				"fpas", "cod_tercs", "cod_tercs_susp",
				"proc_jud_terceiros_cod_susp", "proc_jud_terceiros_cod_terc", "proc_jud_terceiros_nr_proc_jud",
				"proc_jud_terceiro_cod_susp", "proc_jud_terceiro_cod_terc", "proc_jud_terceiro_nr_proc_jud",
				"tp_insc_contrat", "nr_insc_contrat", "tp_insc_prop", "nr_insc_prop",
				"aliq_rat", "fap",
				"cnpj_empregador",
			)),
			Indexes: []storage.IndexSpec{
				{Name: "idx_s1020_codigo", Columns: []string{"codigo"}},
				{Name: "idx_s1020_cnpj", Columns: []string{"cnpj_empregador"}},
			},
		},
		"S-1030": {
			Name:       "esocial_s1030",
			PrimaryKey: pk(),
			Columns: withShared(text(
				"tipo_ambiente", "processo_emissor", "versao_processo", "tipo_inscricao",
				"codigo", "inicio_validade", "fim_validade",
				"descricao", "cbo", "cargo_publico",
				"nivel_cargo", "desc_sumaria", "dt_criacao", "dt_extincao", "situacao",
				"permite_acumulo", "permite_contagem_esp", "dedicacao_exclusiva",
				"num_lei", "dt_lei", "situacao_lei", "tem_funcao",
				"cnpj_empregador",
			)),
			Indexes: []storage.IndexSpec{
				{Name: "idx_s1030_codigo", Columns: []string{"codigo"}},
				{Name: "idx_s1030_cnpj", Columns: []string{"cnpj_empregador"}},
			},
		},
		"S-1200": {
			Name:       "esocial_s1200",
			PrimaryKey: pk(),
			Columns: withShared(append(text(
				"periodo_apuracao", "cpf_trabalhador", "matricula", "categoria",
				"estabelecimento", "codigo_rubrica", "descricao_rubrica",
			), real("valor_rubrica"), storage.ColumnSpec{Name: "tipo_rubrica", Type: "text"},
				storage.ColumnSpec{Name: "cnpj_empregador", Type: "text"})),
			Indexes: []storage.IndexSpec{
				{Name: "idx_s1200_periodo", Columns: []string{"periodo_apuracao"}},
				{Name: "idx_s1200_cpf", Columns: []string{"cpf_trabalhador"}},
				{Name: "idx_s1200_matricula", Columns: []string{"matricula"}},
				{Name: "idx_s1200_cnpj", Columns: []string{"cnpj_empregador"}},
			},
		},
		"S-2200": {
			Name:       "esocial_s2200",
			PrimaryKey: pk(),
			Columns: withShared(append(text(
				// worker
				"cpf_trabalhador", "nome_trabalhador", "sexo", "raca_cor",
				"estado_civil", "grau_instrucao", "nome_social",
				// birth
				"data_nascimento", "nm_mae", "nm_pai", "uf_nasc", "pais_nasc", "pais_nac",
				// address (Brazil)
				"tp_lograd", "dsc_lograd", "nr_lograd", "complemento", "cep",
				"bairro", "cod_munic", "nm_cidade", "uf_resid",
				// address (abroad)
				"pais_resid", "bairro_ext", "dsc_lograd_ext", "nr_lograd_ext",
				"complemento_ext", "nm_cidade_ext", "cod_postal_ext",
				// immigrant
				"tmp_resid", "cond_ing",
				// disability
				"def_fisica", "def_visual", "def_auditiva", "def_mental",
				"def_intelectual", "reab_readap", "info_cota", "observacao_def",
				// contact
				"fone_princ", "fone_alt", "email_princ", "email_alt",
				"contato_emerg", "fone_emerg", "parentesco_emerg",
				// documents
				"nis_trabalhador", "nr_rg", "orgao_emissor_rg", "dt_exped_rg", "uf_rg",
				"nr_ctps", "serie_ctps", "uf_ctps", "dt_exped_ctps",
				"nr_reg_cnh", "categoria_cnh", "uf_cnh", "dt_exped_cnh",
				"dt_pri_hab", "dt_valid_cnh",
				"nr_rne", "orgao_emissor_rne", "uf_rne", "dt_exped_rne",
				"nr_passaporte", "pais_origem_passaporte", "dt_exped_passaporte", "dt_valid_passaporte",
				"nr_ric", "orgao_emissor_ric", "uf_ric", "dt_exped_ric",
				"nr_titulo", "zona_titulo", "secao_titulo", "cod_munic_titulo",
				"nm_cidade_titulo", "uf_titulo", "dt_exped_titulo",
				"nr_certidao", "dt_exped_certidao", "regiao_militar", "tipo_certidao",
				"nr_certidao2", "nr_serie", "dt_exped_certidao2", "categoria_certidao",
				"nr_registro_conselho", "orgao_emissor_conselho", "uf_conselho",
				"dt_exped_conselho", "dt_validade_conselho",
				// foreigner
				"dt_chegada", "class_trab_estrang", "casado_br", "filhos_br",
				// employment bond
				"matricula", "tp_reg_trab", "tp_reg_prev", "cad_ini",
				// CLT contract
				"dt_adm", "tp_admissao", "ind_admissao", "nr_proc_trab",
				"tp_reg_jor", "nat_atividade", "dt_base", "cnpj_sind_categ_prof",
				"mat_anot_jud", "dt_opc_fgts",
				// temporary work
				"hip_leg", "just_contr", "tp_insc_estab", "nr_insc_estab", "cpf_trab_subst",
				// statutory
				"tp_prov", "dt_exercicio", "tp_plan_rp", "ind_teto_rgps",
				"ind_abono_perm", "dt_ini_abono",
				// contract
				"nm_cargo", "cbo_cargo", "dt_ingr_cargo", "nm_funcao", "cbo_funcao",
				"acum_cargo", "cod_categoria",
			), real("salario_contratual"), storage.ColumnSpec{Name: "und_sal_fixo", Type: "text"},
				storage.ColumnSpec{Name: "tipo_contrato", Type: "text"},
				storage.ColumnSpec{Name: "duracao_contrato", Type: "text"},
				storage.ColumnSpec{Name: "clau_assec", Type: "text"},
				storage.ColumnSpec{Name: "obj_det", Type: "text"},
				storage.ColumnSpec{Name: "sucessao_tp_insc", Type: "text"},
				storage.ColumnSpec{Name: "sucessao_nr_insc", Type: "text"},
				storage.ColumnSpec{Name: "sucessao_matric_ant", Type: "text"},
				storage.ColumnSpec{Name: "sucessao_dt_transf", Type: "text"},
				storage.ColumnSpec{Name: "sucessao_observacao", Type: "text"},
				storage.ColumnSpec{Name: "cpf_substituido", Type: "text"},
				storage.ColumnSpec{Name: "transf_matric_ant", Type: "text"},
				storage.ColumnSpec{Name: "transf_dt_transf", Type: "text"},
				storage.ColumnSpec{Name: "cpf_ant", Type: "text"},
				storage.ColumnSpec{Name: "mudanca_matric_ant", Type: "text"},
				storage.ColumnSpec{Name: "dt_alt_cpf", Type: "text"},
				storage.ColumnSpec{Name: "mudanca_observacao", Type: "text"},
				storage.ColumnSpec{Name: "dt_ini_afast", Type: "text"},
				storage.ColumnSpec{Name: "cod_mot_afast", Type: "text"},
				storage.ColumnSpec{Name: "dt_deslig", Type: "text"},
				storage.ColumnSpec{Name: "dt_ini_cessao", Type: "text"},
				storage.ColumnSpec{Name: "cnpj_empregador", Type: "text"})),
			Indexes: []storage.IndexSpec{
				{Name: "idx_s2200_cpf", Columns: []string{"cpf_trabalhador"}},
				{Name: "idx_s2200_matricula", Columns: []string{"matricula"}},
				{Name: "idx_s2200_cnpj", Columns: []string{"cnpj_empregador"}},
			},
		},
		"dependentes": {
			Name:       "esocial_dependentes",
			PrimaryKey: pk(),
			Columns: withShared(text(
				"cpf_trabalhador", "matricula", "nome_dependente", "cpf_dependente",
				"tipo_dependente", "sexo_dependente", "data_nascimento",
				"dep_irrf", "dep_sf", "inc_trab", "descr_dep", "cnpj_empregador",
			)),
		},
		"S-2205": {
			Name:       "esocial_s2205",
			PrimaryKey: pk(),
			Columns: withShared(text(
				"cpf_trabalhador", "nome_trabalhador", "data_alteracao", "sexo",
				"raca_cor", "estado_civil", "grau_instrucao", "data_nascimento",
				"cnpj_empregador", "matricula",
			)),
			Indexes: []storage.IndexSpec{
				{Name: "idx_s2205_cpf", Columns: []string{"cpf_trabalhador"}},
				{Name: "idx_s2205_matricula", Columns: []string{"matricula"}},
				{Name: "idx_s2205_data_alt", Columns: []string{"data_alteracao"}},
			},
		},
		"S-2206": {
			Name:       "esocial_s2206",
			PrimaryKey: pk(),
			Columns: withShared(append(text(
				"cpf_trabalhador", "matricula", "data_alteracao",
				"cod_cargo", "cod_funcao", "cod_lotacao",
			), real("salario_contratual"),
				storage.ColumnSpec{Name: "tipo_contrato", Type: "text"},
				storage.ColumnSpec{Name: "duracao_contrato", Type: "text"},
				storage.ColumnSpec{Name: "cnpj_empregador", Type: "text"})),
			// Contract changes arrive re-sent with corrections; the natural
			// key makes reprocessing update in place.
			Constraints: []storage.ConstraintSpec{
				{Kind: "unique", Columns: []string{"cpf_trabalhador", "matricula", "data_alteracao"}},
			},
			Indexes: []storage.IndexSpec{
				{Name: "idx_s2206_cpf", Columns: []string{"cpf_trabalhador"}},
				{Name: "idx_s2206_matricula", Columns: []string{"matricula"}},
				{Name: "idx_s2206_data_alt", Columns: []string{"data_alteracao"}},
			},
		},
		"S-2230": {
			Name:       "esocial_s2230",
			PrimaryKey: pk(),
			Columns: withShared(text(
				"cpf_trabalhador", "matricula", "data_inicio", "data_fim",
				"codigo_motivo", "descricao_motivo", "cnpj_empregador",
			)),
			Indexes: []storage.IndexSpec{
				{Name: "idx_s2230_cpf", Columns: []string{"cpf_trabalhador"}},
				{Name: "idx_s2230_matricula", Columns: []string{"matricula"}},
				{Name: "idx_s2230_data_inicio", Columns: []string{"data_inicio"}},
			},
		},
	}
}

// AdHocTable builds a minimal spec for an unmapped evt* layout so future
// event types are stored instead of dropped.
func AdHocTable(code string) storage.TableSpec {
	return storage.TableSpec{
		Name:       adHocTableName(code),
		PrimaryKey: pk(),
		Columns:    withShared(text("cnpj_empregador")),
	}
}

func adHocTableName(code string) string {
	name := make([]rune, 0, len(code))
	for _, r := range code {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			name = append(name, r)
		case r >= 'A' && r <= 'Z':
			name = append(name, r+('a'-'A'))
		default:
			name = append(name, '_')
		}
	}
	return "esocial_" + string(name)
}

// TableList returns all built-in specs in a deterministic order.
func TableList() []storage.TableSpec {
	m := Tables()
	order := []string{"S-1020", "S-1030", "S-1200", "S-2200", "dependentes", "S-2205", "S-2206", "S-2230"}
	out := make([]storage.TableSpec, 0, len(order))
	for _, k := range order {
		out = append(out, m[k])
	}
	return out
}
