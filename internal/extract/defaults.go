package extract

// Built-in extraction specs for the layouts the pipeline normalizes.
// An external layouts file can replace these wholesale; the engine does
// not treat them specially.

func col(name string, paths ...[]string) FieldDef {
	return FieldDef{Column: name, Paths: paths}
}

func evt(name string, paths ...[]string) FieldDef {
	return FieldDef{Column: name, Paths: paths, FromEvent: true}
}

func p(segments ...string) []string { return segments }

// leaveReasons maps S-2230 absence reason codes to their descriptions.
var leaveReasons = map[string]string{
	"01": "Acidente/Doença do trabalho",
	"03": "Acidente/Doença não relacionada ao trabalho",
	"05": "Afastamento/Licença prevista em regime próprio, sem remuneração",
	"06": "Aposentadoria por invalidez",
	"07": "Acompanhamento de membro da família enfermo",
	"08": "Afastamento/Licença prevista em regime próprio, com remuneração",
	"10": "Licença-maternidade",
	"11": "Licença-maternidade - (prorrogação)",
	"12": "Licença-paternidade",
	"13": "Licença-paternidade - (prorrogação)",
	"14": "Licença remunerada prevista em CCT/ACT",
	"15": "Serviço militar obrigatório",
	"16": "Sustação do contrato de trabalho em virtude de inquérito",
	"17": "Aposentadoria por invalidez",
	"18": "Afastamento pelo INSS por acidente ou doença",
	"19": "Afastamento sem remuneração",
	"20": "Férias",
	"21": "Férias coletivas",
	"22": "Licença-prêmio",
	"23": "Mandato eleitoral",
	"24": "Mandato sindical",
	"25": "Suspensão temporária do contrato",
}

// DefaultSpecs returns the built-in layout extraction specs.
func DefaultSpecs() []LayoutSpec {
	return []LayoutSpec{
		s1020Spec(),
		s1030Spec(),
		s1200Spec(),
		s2200Spec(),
		s2205Spec(),
		s2206Spec(),
		s2230Spec(),
	}
}

func s1020Spec() LayoutSpec {
	return LayoutSpec{
		Code:  "S-1020",
		Event: "evtTabLotacao",
		Table: "esocial_s1020",
		Steps: []Step{{Names: []string{"inclusao", "alteracao", "exclusao"}}},
		Fields: []FieldDef{
			col("codigo", p("ideLotacao", "codLotacao")),
			col("cod_lotacao", p("ideLotacao", "codLotacao")),
			col("descricao", p("dadosLotacao", "descLotacao")),
			col("desc_lotacao", p("dadosLotacao", "descLotacao")),
			col("tipo_lotacao", p("dadosLotacao", "tpLotacao")),
			col("tipo_inscricao", p("dadosLotacao", "tpInsc")),
			col("nr_inscricao", p("dadosLotacao", "nrInsc")),
			col("inicio_validade", p("ideLotacao", "iniValid")),
			col("fim_validade", p("ideLotacao", "fimValid")),
			col("nova_ini_valid", p("novaValidade", "iniValid")),
			col("nova_fim_valid", p("novaValidade", "fimValid")),
			col("fpas", p("fpasLotacao", "fpas")),
			col("cod_tercs", p("fpasLotacao", "codTercs")),
			col("cod_tercs_susp", p("fpasLotacao", "codTercsSusp")),
			col("proc_jud_terceiros_cod_susp", p("infoProcJudTerceiros", "codSusp")),
			col("proc_jud_terceiros_cod_terc", p("infoProcJudTerceiros", "codTerc")),
			col("proc_jud_terceiros_nr_proc_jud", p("infoProcJudTerceiros", "nrProcJud")),
			col("proc_jud_terceiro_cod_susp", p("procJudTerceiro", "codSusp")),
			col("proc_jud_terceiro_cod_terc", p("procJudTerceiro", "codTerc")),
			col("proc_jud_terceiro_nr_proc_jud", p("procJudTerceiro", "nrProcJud")),
			col("tp_insc_contrat", p("infoEmprParcial", "tpInscContrat")),
			col("nr_insc_contrat", p("infoEmprParcial", "nrInscContrat")),
			col("tp_insc_prop", p("infoEmprParcial", "tpInscProp")),
			col("nr_insc_prop", p("infoEmprParcial", "nrInscProp")),
			col("aliq_rat", p("dadosOpPort", "aliqRat")),
			col("fap", p("dadosOpPort", "fap")),
			evt("cnpj_empregador", p("ideEmpregador", "nrInsc")),
		},
	}
}

func s1030Spec() LayoutSpec {
	return LayoutSpec{
		Code:  "S-1030",
		Event: "evtTabCargo",
		Table: "esocial_s1030",
		Steps: []Step{{Names: []string{"inclusao", "alteracao", "exclusao"}}},
		Fields: []FieldDef{
			evt("tipo_ambiente", p("ideEvento", "tpAmb")),
			evt("processo_emissor", p("ideEvento", "procEmi")),
			evt("versao_processo", p("ideEvento", "verProc")),
			evt("tipo_inscricao", p("ideEmpregador", "tpInsc")),
			col("codigo", p("ideCargo", "codCargo")),
			col("inicio_validade", p("ideCargo", "iniValid")),
			col("fim_validade", p("ideCargo", "fimValid")),
			col("descricao", p("dadosCargo", "nmCargo")),
			col("cbo", p("dadosCargo", "codCBO")),
			col("cargo_publico", p("dadosCargo", "cargoPublico")),
			col("nivel_cargo", p("dadosCargo", "nivelCargo")),
			col("desc_sumaria", p("dadosCargo", "descSumar")),
			col("dt_criacao", p("dadosCargo", "dtCriacao")),
			col("dt_extincao", p("dadosCargo", "dtExtincao")),
			col("situacao", p("dadosCargo", "situacao")),
			col("permite_acumulo", p("dadosCargo", "permiteAcumulo")),
			col("permite_contagem_esp", p("dadosCargo", "permiteContagemEspecial")),
			col("dedicacao_exclusiva", p("dadosCargo", "dedicacaoExclusiva")),
			col("num_lei", p("dadosCargo", "numLei")),
			col("dt_lei", p("dadosCargo", "dtLei")),
			col("situacao_lei", p("dadosCargo", "situacaoLei")),
			col("tem_funcao", p("dadosCargo", "temFuncao")),
			evt("cnpj_empregador", p("ideEmpregador", "nrInsc")),
		},
	}
}

func s1200Spec() LayoutSpec {
	return LayoutSpec{
		Code:  "S-1200",
		Event: "evtRemun",
		Table: "esocial_s1200",
		Steps: []Step{
			{Names: []string{"dmDev"}, Capture: []FieldDef{
				col("ideDmDev", p("ideDmDev")),
				col("codCateg", p("codCateg")),
			}},
			{Names: []string{"ideEstabLot"}, Capture: []FieldDef{
				col("nrInscEstab", p("nrInsc")),
			}},
			{Names: []string{"remunPerApur"}, Capture: []FieldDef{
				col("matricula", p("matricula")),
			}},
			{Names: []string{"itensRemun"}},
		},
		Fields: []FieldDef{
			evt("periodo_apuracao", p("ideEvento", "perApur")),
			evt("cpf_trabalhador", p("ideTrabalhador", "cpfTrab")),
			col("matricula", p("matricula")),
			col("categoria", p("codCateg")),
			col("estabelecimento", p("nrInscEstab")),
			// the payslip item tag carries the code as cod or codRubr
			col("codigo_rubrica", p("cod"), p("codRubr")),
			col("descricao_rubrica", p("ideTabRubr"), p("cod"), p("codRubr")),
			FieldDef{Column: "valor_rubrica", Paths: [][]string{p("vrRubr")}, Number: true},
			FieldDef{Column: "tipo_rubrica", Const: "M"},
			evt("cnpj_empregador", p("ideEmpregador", "nrInsc")),
		},
	}
}

func s2200Spec() LayoutSpec {
	return LayoutSpec{
		Code:  "S-2200",
		Event: "evtAdmissao",
		Table: "esocial_s2200",
		Fields: []FieldDef{
			col("cpf_trabalhador", p("trabalhador", "cpfTrab")),
			col("nome_trabalhador", p("trabalhador", "nmTrab")),
			col("sexo", p("trabalhador", "sexo")),
			col("raca_cor", p("trabalhador", "racaCor")),
			col("estado_civil", p("trabalhador", "estCiv")),
			col("grau_instrucao", p("trabalhador", "grauInstr")),
			col("nome_social", p("trabalhador", "nmSoc")),

			col("data_nascimento", p("nascimento", "dtNascto")),
			col("nm_mae", p("nascimento", "nmMae")),
			col("nm_pai", p("nascimento", "nmPai")),
			col("uf_nasc", p("nascimento", "uf")),
			col("pais_nasc", p("nascimento", "paisNascto")),
			col("pais_nac", p("nascimento", "paisNac")),

			col("tp_lograd", p("endereco", "brasil", "tpLograd")),
			col("dsc_lograd", p("endereco", "brasil", "dscLograd")),
			col("nr_lograd", p("endereco", "brasil", "nrLograd")),
			col("complemento", p("endereco", "brasil", "complemento")),
			col("cep", p("endereco", "brasil", "cep")),
			col("bairro", p("endereco", "brasil", "bairro")),
			col("cod_munic", p("endereco", "brasil", "codMunic")),
			col("nm_cidade", p("endereco", "brasil", "nmCid")),
			col("uf_resid", p("endereco", "brasil", "uf")),

			col("pais_resid", p("endereco", "exterior", "paisResid")),
			col("bairro_ext", p("endereco", "exterior", "bairro")),
			col("dsc_lograd_ext", p("endereco", "exterior", "dscLograd")),
			col("nr_lograd_ext", p("endereco", "exterior", "nrLograd")),
			col("complemento_ext", p("endereco", "exterior", "complemento")),
			col("nm_cidade_ext", p("endereco", "exterior", "nmCid")),
			col("cod_postal_ext", p("endereco", "exterior", "codPostal")),

			col("tmp_resid", p("trabImig", "tmpResid")),
			col("cond_ing", p("trabImig", "condIng")),

			col("def_fisica", p("infoDeficiencia", "defFisica")),
			col("def_visual", p("infoDeficiencia", "defVisual")),
			col("def_auditiva", p("infoDeficiencia", "defAuditiva")),
			col("def_mental", p("infoDeficiencia", "defMental")),
			col("def_intelectual", p("infoDeficiencia", "defIntelectual")),
			col("reab_readap", p("infoDeficiencia", "reabReadap")),
			col("info_cota", p("infoDeficiencia", "infoCota")),
			col("observacao_def", p("infoDeficiencia", "observacao")),

			col("fone_princ", p("contato", "fonePrinc")),
			col("fone_alt", p("contato", "foneAlternativo")),
			col("email_princ", p("contato", "emailPrinc")),
			col("email_alt", p("contato", "emailAlternativo")),
			col("contato_emerg", p("contato", "contatoEmergencia")),
			col("fone_emerg", p("contato", "foneEmergencia")),
			col("parentesco_emerg", p("contato", "parentescoEmergencia")),

			col("nis_trabalhador", p("trabalhador", "nisTrab")),
			col("nr_rg", p("documentos", "rg", "nrRg")),
			col("orgao_emissor_rg", p("documentos", "rg", "orgaoEmissor")),
			col("dt_exped_rg", p("documentos", "rg", "dtExped")),
			col("uf_rg", p("documentos", "rg", "uf")),
			col("nr_ctps", p("documentos", "ctps", "nrCtps")),
			col("serie_ctps", p("documentos", "ctps", "serieCtps")),
			col("uf_ctps", p("documentos", "ctps", "ufCtps")),
			col("dt_exped_ctps", p("documentos", "ctps", "dtExped")),
			col("nr_reg_cnh", p("documentos", "cnh", "nrRegCnh")),
			col("categoria_cnh", p("documentos", "cnh", "categoriaCnh")),
			col("uf_cnh", p("documentos", "cnh", "ufCnh")),
			col("dt_exped_cnh", p("documentos", "cnh", "dtExped")),
			col("dt_pri_hab", p("documentos", "cnh", "dtPriHab")),
			col("dt_valid_cnh", p("documentos", "cnh", "dtValid")),
			col("nr_rne", p("documentos", "rne", "nrRne")),
			col("orgao_emissor_rne", p("documentos", "rne", "orgaoEmissor")),
			col("uf_rne", p("documentos", "rne", "uf")),
			col("dt_exped_rne", p("documentos", "rne", "dtExped")),
			col("nr_passaporte", p("documentos", "passaporte", "nrPassaporte")),
			col("pais_origem_passaporte", p("documentos", "passaporte", "paisOrigem")),
			col("dt_exped_passaporte", p("documentos", "passaporte", "dtExped")),
			col("dt_valid_passaporte", p("documentos", "passaporte", "dtValid")),
			col("nr_ric", p("documentos", "ric", "nrRic")),
			col("orgao_emissor_ric", p("documentos", "ric", "orgaoEmissor")),
			col("uf_ric", p("documentos", "ric", "uf")),
			col("dt_exped_ric", p("documentos", "ric", "dtExped")),
			col("nr_titulo", p("tituloEleitor", "nrTitulo")),
			col("zona_titulo", p("tituloEleitor", "zona")),
			col("secao_titulo", p("tituloEleitor", "secao")),
			col("cod_munic_titulo", p("tituloEleitor", "codMunic")),
			col("nm_cidade_titulo", p("tituloEleitor", "nmCid")),
			col("uf_titulo", p("tituloEleitor", "uf")),
			col("dt_exped_titulo", p("tituloEleitor", "dtExped")),
			col("nr_certidao", p("certidaoMilitar", "nrCertidao")),
			col("dt_exped_certidao", p("certidaoMilitar", "dtExped")),
			col("regiao_militar", p("certidaoMilitar", "regiaoMilitar")),
			col("tipo_certidao", p("certidaoMilitar", "tipoCertidao")),
			col("nr_certidao2", p("certidaoMilitar", "nrCertidao2")),
			col("nr_serie", p("certidaoMilitar", "nrSerie")),
			col("dt_exped_certidao2", p("certidaoMilitar", "dtExped2")),
			col("categoria_certidao", p("certidaoMilitar", "categoria")),
			col("nr_registro_conselho", p("conselho", "nrRegistro")),
			col("orgao_emissor_conselho", p("conselho", "orgaoEmissor")),
			col("uf_conselho", p("conselho", "uf")),
			col("dt_exped_conselho", p("conselho", "dtExped")),
			col("dt_validade_conselho", p("conselho", "dtValidade")),

			col("dt_chegada", p("trabEstrangeiro", "dtChegada")),
			col("class_trab_estrang", p("trabEstrangeiro", "classTrabEstrang")),
			col("casado_br", p("trabEstrangeiro", "casadoBr")),
			col("filhos_br", p("trabEstrangeiro", "filhosBr")),

			col("matricula", p("vinculo", "matricula")),
			col("tp_reg_trab", p("vinculo", "tpRegTrab")),
			col("tp_reg_prev", p("vinculo", "tpRegPrev")),
			col("cad_ini", p("vinculo", "cadIni")),

			col("dt_adm", p("infoCeletista", "dtAdm")),
			col("tp_admissao", p("infoCeletista", "tpAdmissao")),
			col("ind_admissao", p("infoCeletista", "indAdmissao")),
			col("nr_proc_trab", p("infoCeletista", "nrProcTrab")),
			col("tp_reg_jor", p("infoCeletista", "tpRegJor")),
			col("nat_atividade", p("infoCeletista", "natAtividade")),
			col("dt_base", p("infoCeletista", "dtBase")),
			col("cnpj_sind_categ_prof", p("infoCeletista", "cnpjSindCategProf")),
			col("mat_anot_jud", p("infoCeletista", "matAnotJud")),
			col("dt_opc_fgts", p("FGTS", "dtOpcFGTS")),

			col("hip_leg", p("trabTemporario", "hipLeg")),
			col("just_contr", p("trabTemporario", "justContr")),
			col("tp_insc_estab", p("trabTemporario", "tpInscEstab")),
			col("nr_insc_estab", p("trabTemporario", "nrInscEstab")),
			col("cpf_trab_subst", p("trabTemporario", "cpfTrabSubst")),

			col("tp_prov", p("infoEstatutario", "tpProv")),
			col("dt_exercicio", p("infoEstatutario", "dtExercicio")),
			col("tp_plan_rp", p("infoEstatutario", "tpPlanRP")),
			col("ind_teto_rgps", p("infoEstatutario", "indTetoRGPS")),
			col("ind_abono_perm", p("infoEstatutario", "indAbonoPerm")),
			col("dt_ini_abono", p("infoEstatutario", "dtIniAbono")),

			col("nm_cargo", p("infoContrato", "nmCargo")),
			col("cbo_cargo", p("infoContrato", "CBOCargo")),
			col("dt_ingr_cargo", p("infoContrato", "dtIngrCargo")),
			col("nm_funcao", p("infoContrato", "nmFuncao")),
			col("cbo_funcao", p("infoContrato", "CBOFuncao")),
			col("acum_cargo", p("infoContrato", "acumCargo")),
			col("cod_categoria", p("infoContrato", "codCateg")),
			FieldDef{Column: "salario_contratual", Paths: [][]string{p("remuneracao", "vrSalFx")}, Number: true},
			col("und_sal_fixo", p("remuneracao", "undSalFixo")),
			col("tipo_contrato", p("duracao", "tpContr")),
			col("duracao_contrato", p("duracao", "dtTerm")),
			col("clau_assec", p("duracao", "clauAssec")),
			col("obj_det", p("duracao", "objDet")),

			col("sucessao_tp_insc", p("sucessaoVinc", "tpInsc")),
			col("sucessao_nr_insc", p("sucessaoVinc", "nrInsc")),
			col("sucessao_matric_ant", p("sucessaoVinc", "matricAnt")),
			col("sucessao_dt_transf", p("sucessaoVinc", "dtTransf")),
			col("sucessao_observacao", p("sucessaoVinc", "observacao")),

			col("cpf_substituido", p("transfDom", "cpfSubstituido")),
			col("transf_matric_ant", p("transfDom", "matricAnt")),
			col("transf_dt_transf", p("transfDom", "dtTransf")),

			col("cpf_ant", p("mudancaCPF", "cpfAnt")),
			col("mudanca_matric_ant", p("mudancaCPF", "matricAnt")),
			col("dt_alt_cpf", p("mudancaCPF", "dtAltCPF")),
			col("mudanca_observacao", p("mudancaCPF", "observacao")),

			col("dt_ini_afast", p("afastamento", "dtIniAfast")),
			col("cod_mot_afast", p("afastamento", "codMotAfast")),
			col("dt_deslig", p("desligamento", "dtDeslig")),
			col("dt_ini_cessao", p("cessao", "dtIniCessao")),

			col("cnpj_empregador", p("ideEmpregador", "nrInsc")),
		},
		Children: []ChildSpec{{
			Table: "esocial_dependentes",
			Steps: []Step{{Names: []string{"dependente"}}},
			Fields: []FieldDef{
				col("nome_dependente", p("nmDep")),
				col("cpf_dependente", p("cpfDep")),
				col("data_nascimento", p("dtNascto")),
				col("tipo_dependente", p("tpDep")),
				col("sexo_dependente", p("sexoDep")),
				col("dep_irrf", p("depIRRF")),
				col("dep_sf", p("depSF")),
				col("inc_trab", p("incTrab")),
				col("descr_dep", p("descrDep")),
			},
			Parent: map[string]string{
				"cpf_trabalhador": "cpf_trabalhador",
				"matricula":       "matricula",
				"cnpj_empregador": "cnpj_empregador",
			},
		}},
	}
}

func s2205Spec() LayoutSpec {
	return LayoutSpec{
		Code:  "S-2205",
		Event: "evtAltCadastral",
		Table: "esocial_s2205",
		Fields: []FieldDef{
			col("cpf_trabalhador", p("ideTrabalhador", "cpfTrab")),
			col("nome_trabalhador", p("alteracao", "dadosTrabalhador", "nmTrab")),
			col("data_alteracao", p("alteracao", "dtAlteracao")),
			col("sexo", p("alteracao", "dadosTrabalhador", "sexo")),
			col("raca_cor", p("alteracao", "dadosTrabalhador", "racaCor")),
			col("estado_civil", p("alteracao", "dadosTrabalhador", "estCiv")),
			col("grau_instrucao", p("alteracao", "dadosTrabalhador", "grauInstr")),
			col("data_nascimento", p("alteracao", "dadosTrabalhador", "nascimento", "dtNascto")),
			col("cnpj_empregador", p("ideEmpregador", "nrInsc")),
			col("matricula", p("matricula")),
		},
	}
}

func s2206Spec() LayoutSpec {
	return LayoutSpec{
		Code:  "S-2206",
		Event: "evtAltContratual",
		Table: "esocial_s2206",
		Fields: []FieldDef{
			col("cpf_trabalhador", p("ideVinculo", "cpfTrab"), p("ideTrabalhador", "cpfTrab")),
			col("matricula", p("ideVinculo", "matricula"), p("ideTrabalhador", "matricula")),
			col("data_alteracao", p("altContratual", "dtAlteracao")),
			col("cod_cargo", p("infoContrato", "codCargo"), p("infoContrato", "CBOCargo")),
			col("cod_funcao", p("infoContrato", "codFuncao")),
			FieldDef{Column: "cod_lotacao"},
			FieldDef{Column: "salario_contratual", Paths: [][]string{p("remuneracao", "vrSalFx")}, Number: true},
			col("tipo_contrato", p("infoContrato", "duracao", "tpContr")),
			FieldDef{Column: "duracao_contrato"},
			col("cnpj_empregador", p("ideEmpregador", "nrInsc")),
		},
	}
}

func s2230Spec() LayoutSpec {
	return LayoutSpec{
		Code:        "S-2230",
		Event:       "evtAfastTemp",
		Table:       "esocial_s2230",
		RequirePath: p("infoAfastamento", "iniAfastamento", "dtIniAfast"),
		Fields: []FieldDef{
			col("cpf_trabalhador", p("cpfTrab")),
			col("matricula", p("matricula")),
			col("data_inicio", p("iniAfastamento", "dtIniAfast")),
			col("data_fim", p("fimAfastamento", "dtTermAfast")),
			col("codigo_motivo", p("iniAfastamento", "codMotAfast")),
			FieldDef{
				Column:        "descricao_motivo",
				LookupFrom:    "codigo_motivo",
				Lookup:        leaveReasons,
				LookupDefault: "Motivo não especificado",
			},
			col("cnpj_empregador", p("nrInsc")),
		},
	}
}
