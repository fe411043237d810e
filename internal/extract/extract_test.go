package extract

import (
	"strings"
	"testing"
	"time"

	"esocialetl/internal/tree"
)

func mustSet(t *testing.T) *Set {
	t.Helper()
	set, err := Compile(DefaultSpecs())
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	set.SetClock(func() time.Time { return time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC) })
	return set
}

func mustEvent(t *testing.T, doc, name string) tree.Tree {
	t.Helper()
	parsed, err := tree.Parse(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	v, ok := tree.FindFirst(parsed, name)
	if !ok {
		t.Fatalf("event %s not found", name)
	}
	ev, ok := v.(tree.Tree)
	if !ok {
		t.Fatalf("event %s is not an element", name)
	}
	return ev
}

func TestExtractLeaveEvent(t *testing.T) {
	doc := `<eSocial xmlns="http://www.esocial.gov.br/schema/evt/evtAfastTemp/v_S_01_00_00">
  <evtAfastTemp>
    <ideEmpregador><tpInsc>1</tpInsc><nrInsc>11222333000181</nrInsc></ideEmpregador>
    <ideVinculo><cpfTrab>52998224725</cpfTrab><matricula>M001</matricula></ideVinculo>
    <infoAfastamento>
      <iniAfastamento><dtIniAfast>2024-02-01</dtIniAfast><codMotAfast>20</codMotAfast></iniAfastamento>
      <fimAfastamento><dtTermAfast>2024-02-20</dtTermAfast></fimAfastamento>
    </infoAfastamento>
  </evtAfastTemp>
</eSocial>`

	set := mustSet(t)
	recs, err := set.Extract("S-2230", mustEvent(t, doc, "evtAfastTemp"))
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	rows := recs["esocial_s2230"]
	if len(rows) != 1 {
		t.Fatalf("rows = %d, want 1", len(rows))
	}
	r := rows[0]
	if r["cpf_trabalhador"] != "52998224725" || r["matricula"] != "M001" {
		t.Errorf("identity fields = %v / %v", r["cpf_trabalhador"], r["matricula"])
	}
	if r["data_inicio"] != "2024-02-01" || r["data_fim"] != "2024-02-20" {
		t.Errorf("dates = %v / %v", r["data_inicio"], r["data_fim"])
	}
	if r["codigo_motivo"] != "20" || r["descricao_motivo"] != "Férias" {
		t.Errorf("reason = %v / %v", r["codigo_motivo"], r["descricao_motivo"])
	}
	if r["cnpj_empregador"] != "11222333000181" {
		t.Errorf("cnpj = %v", r["cnpj_empregador"])
	}
	if r["data_importacao"] != "2024-03-01T10:00:00Z" {
		t.Errorf("stamp = %v", r["data_importacao"])
	}
}

func TestExtractLeaveEventWithoutStartYieldsNothing(t *testing.T) {
	doc := `<evtAfastTemp><ideVinculo><cpfTrab>52998224725</cpfTrab></ideVinculo></evtAfastTemp>`
	set := mustSet(t)
	recs, err := set.Extract("S-2230", mustEvent(t, doc, "evtAfastTemp"))
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if len(recs["esocial_s2230"]) != 0 {
		t.Fatalf("rows = %v, want none", recs["esocial_s2230"])
	}
}

func TestExtractPayrollItems(t *testing.T) {
	doc := `<evtRemun>
  <ideEvento><perApur>2024-02</perApur></ideEvento>
  <ideEmpregador><nrInsc>11222333000181</nrInsc></ideEmpregador>
  <ideTrabalhador><cpfTrab>52998224725</cpfTrab></ideTrabalhador>
  <dmDev>
    <ideDmDev>1</ideDmDev>
    <codCateg>101</codCateg>
    <infoPerApur>
      <ideEstabLot>
        <nrInsc>11222333000181</nrInsc>
        <codLotacao>LOT01</codLotacao>
        <remunPerApur>
          <matricula>M001</matricula>
          <itensRemun><codRubr>1000</codRubr><ideTabRubr>SALARIO</ideTabRubr><vrRubr>2500,75</vrRubr></itensRemun>
          <itensRemun><codRubr>1810</codRubr><vrRubr>300.10</vrRubr></itensRemun>
        </remunPerApur>
      </ideEstabLot>
    </infoPerApur>
  </dmDev>
</evtRemun>`

	set := mustSet(t)
	recs, err := set.Extract("S-1200", mustEvent(t, doc, "evtRemun"))
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	rows := recs["esocial_s1200"]
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(rows))
	}
	first := rows[0]
	if first["periodo_apuracao"] != "2024-02" || first["cpf_trabalhador"] != "52998224725" {
		t.Errorf("event context = %v / %v", first["periodo_apuracao"], first["cpf_trabalhador"])
	}
	if first["matricula"] != "M001" || first["categoria"] != "101" || first["estabelecimento"] != "11222333000181" {
		t.Errorf("captured context = %v / %v / %v", first["matricula"], first["categoria"], first["estabelecimento"])
	}
	if first["codigo_rubrica"] != "1000" || first["descricao_rubrica"] != "SALARIO" {
		t.Errorf("rubrica = %v / %v", first["codigo_rubrica"], first["descricao_rubrica"])
	}
	if first["valor_rubrica"] != 2500.75 {
		t.Errorf("valor = %v", first["valor_rubrica"])
	}
	if first["tipo_rubrica"] != "M" {
		t.Errorf("tipo = %v", first["tipo_rubrica"])
	}

	second := rows[1]
	if second["codigo_rubrica"] != "1810" || second["descricao_rubrica"] != "1810" {
		t.Errorf("fallback description = %v / %v", second["codigo_rubrica"], second["descricao_rubrica"])
	}
	if second["valor_rubrica"] != 300.10 {
		t.Errorf("valor = %v", second["valor_rubrica"])
	}
}

func TestExtractAdmissionWithDependents(t *testing.T) {
	doc := `<evtAdmissao>
  <ideEmpregador><nrInsc>11222333000181</nrInsc></ideEmpregador>
  <trabalhador>
    <cpfTrab>52998224725</cpfTrab>
    <nmTrab>Maria Souza</nmTrab>
    <nascimento><dtNascto>1990-05-12</dtNascto></nascimento>
    <dependente><nmDep>Ana Souza</nmDep><dtNascto>2015-08-01</dtNascto><tpDep>03</tpDep></dependente>
    <dependente><nmDep>Pedro Souza</nmDep><tpDep>03</tpDep></dependente>
  </trabalhador>
  <vinculo>
    <matricula>M001</matricula>
    <infoContrato>
      <nmCargo>Analista</nmCargo>
      <remuneracao><vrSalFx>3500,00</vrSalFx><undSalFixo>5</undSalFixo></remuneracao>
    </infoContrato>
  </vinculo>
</evtAdmissao>`

	set := mustSet(t)
	recs, err := set.Extract("S-2200", mustEvent(t, doc, "evtAdmissao"))
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	workers := recs["esocial_s2200"]
	if len(workers) != 1 {
		t.Fatalf("workers = %d, want 1", len(workers))
	}
	w := workers[0]
	if w["nome_trabalhador"] != "Maria Souza" || w["data_nascimento"] != "1990-05-12" {
		t.Errorf("worker = %v / %v", w["nome_trabalhador"], w["data_nascimento"])
	}
	if w["salario_contratual"] != 3500.0 {
		t.Errorf("salario = %v", w["salario_contratual"])
	}
	if !strings.Contains(w["json_data"].(string), `"evtAdmissao"`) {
		t.Errorf("payload must be wrapped under the event name: %s", w["json_data"])
	}

	deps := recs["esocial_dependentes"]
	if len(deps) != 2 {
		t.Fatalf("dependents = %d, want 2", len(deps))
	}
	for _, d := range deps {
		if d["cpf_trabalhador"] != "52998224725" || d["matricula"] != "M001" || d["cnpj_empregador"] != "11222333000181" {
			t.Errorf("parent context missing: %v", d)
		}
	}
	if deps[0]["nome_dependente"] != "Ana Souza" || deps[1]["nome_dependente"] != "Pedro Souza" {
		t.Errorf("dependent order = %v / %v", deps[0]["nome_dependente"], deps[1]["nome_dependente"])
	}
}

func TestExtractRosterBlocks(t *testing.T) {
	doc := `<evtTabCargo>
  <ideEvento><tpAmb>1</tpAmb><procEmi>1</procEmi><verProc>2.0</verProc></ideEvento>
  <ideEmpregador><tpInsc>1</tpInsc><nrInsc>11222333000181</nrInsc></ideEmpregador>
  <infoCargo>
    <inclusao>
      <ideCargo><codCargo>25-41</codCargo><iniValid>2024-01</iniValid></ideCargo>
      <dadosCargo><nmCargo>Engenheiro</nmCargo><codCBO>214205</codCBO></dadosCargo>
    </inclusao>
    <alteracao>
      <ideCargo><codCargo>30</codCargo><iniValid>2024-02</iniValid></ideCargo>
      <dadosCargo><nmCargo>Tecnico</nmCargo><codCBO>3132</codCBO></dadosCargo>
    </alteracao>
  </infoCargo>
</evtTabCargo>`

	set := mustSet(t)
	recs, err := set.Extract("S-1030", mustEvent(t, doc, "evtTabCargo"))
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	rows := recs["esocial_s1030"]
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(rows))
	}
	if rows[0]["codigo"] != "25-41" || rows[0]["descricao"] != "Engenheiro" {
		t.Errorf("inclusao row = %v / %v", rows[0]["codigo"], rows[0]["descricao"])
	}
	if rows[1]["codigo"] != "30" || rows[1]["tipo_ambiente"] != "1" {
		t.Errorf("alteracao row = %v / %v", rows[1]["codigo"], rows[1]["tipo_ambiente"])
	}
}

func TestExtractContractChangeFallbackKeys(t *testing.T) {
	doc := `<evtAltContratual>
  <ideEmpregador><nrInsc>11222333000181</nrInsc></ideEmpregador>
  <ideTrabalhador><cpfTrab>52998224725</cpfTrab><matricula>M009</matricula></ideTrabalhador>
  <altContratual>
    <dtAlteracao>2024-02-15</dtAlteracao>
    <vinculo>
      <infoContrato>
        <CBOCargo>214205</CBOCargo>
        <remuneracao><vrSalFx>4200,00</vrSalFx></remuneracao>
        <duracao><tpContr>1</tpContr></duracao>
      </infoContrato>
    </vinculo>
  </altContratual>
</evtAltContratual>`

	set := mustSet(t)
	recs, err := set.Extract("S-2206", mustEvent(t, doc, "evtAltContratual"))
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	rows := recs["esocial_s2206"]
	if len(rows) != 1 {
		t.Fatalf("rows = %d, want 1", len(rows))
	}
	r := rows[0]
	if r["cpf_trabalhador"] != "52998224725" || r["matricula"] != "M009" {
		t.Errorf("identity without ideVinculo = %v / %v", r["cpf_trabalhador"], r["matricula"])
	}
	if r["cod_cargo"] != "214205" {
		t.Errorf("cod_cargo fallback = %v", r["cod_cargo"])
	}
	if r["salario_contratual"] != 4200.0 || r["tipo_contrato"] != "1" {
		t.Errorf("contract = %v / %v", r["salario_contratual"], r["tipo_contrato"])
	}
}

func TestExtractUnknownCode(t *testing.T) {
	set := mustSet(t)
	if _, err := set.Extract("evtTabRubrica", tree.Tree{}); err == nil {
		t.Fatal("expected error for unmapped layout")
	}
	if set.Known("evtTabRubrica") {
		t.Fatal("ad-hoc code must not be known")
	}
}

func TestCompileRejectsDuplicates(t *testing.T) {
	specs := []LayoutSpec{
		{Code: "S-1020", Table: "a"},
		{Code: "S-1020", Table: "b"},
	}
	if _, err := Compile(specs); err == nil {
		t.Fatal("expected duplicate code error")
	}
}

func TestExtractMissingBlocksFallsBackToParent(t *testing.T) {
	doc := `<evtTabLotacao>
  <ideEvento><tpAmb>1</tpAmb></ideEvento>
  <ideEmpregador><tpInsc>1</tpInsc><nrInsc>11222333000181</nrInsc></ideEmpregador>
  <infoLotacao></infoLotacao>
</evtTabLotacao>`

	set := mustSet(t)
	recs, err := set.Extract("S-1020", mustEvent(t, doc, "evtTabLotacao"))
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	rows := recs["esocial_s1020"]
	if len(rows) != 1 {
		t.Fatalf("rows = %d, want one parent-only record", len(rows))
	}
	rec := rows[0]
	if rec["cnpj_empregador"] != "11222333000181" {
		t.Errorf("cnpj_empregador = %v", rec["cnpj_empregador"])
	}
	if rec["codigo"] != "" {
		t.Errorf("codigo = %v, want blank without an inclusao block", rec["codigo"])
	}
	j, _ := rec["json_data"].(string)
	if !strings.Contains(j, "evtTabLotacao") || !strings.Contains(j, "ideEmpregador") {
		t.Errorf("json_data = %q, want the full wrapped event", j)
	}
	if rec["data_importacao"] != "2024-03-01T10:00:00Z" {
		t.Errorf("data_importacao = %v", rec["data_importacao"])
	}
}
