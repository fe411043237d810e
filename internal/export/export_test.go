package export

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"esocialetl/internal/config"
	"esocialetl/internal/resolve"
	"esocialetl/internal/schema"
	"esocialetl/internal/storage"
)

type fakeRepo struct {
	rows map[string][]map[string]any
	errs map[string]error
}

func (f *fakeRepo) Close() {}

func (f *fakeRepo) EnsureTables(context.Context, []storage.TableSpec) error { return nil }

func (f *fakeRepo) InsertRows(context.Context, storage.TableSpec, []map[string]any) (int64, error) {
	return 0, nil
}

func (f *fakeRepo) Query(_ context.Context, q string, _ ...any) ([]map[string]any, error) {
	for src, err := range f.errs {
		if strings.Contains(q, src) {
			return nil, err
		}
	}
	for src, rows := range f.rows {
		if strings.Contains(q, src) {
			return rows, nil
		}
	}
	return nil, nil
}

func (f *fakeRepo) Tables(context.Context) ([]string, error) { return nil, nil }

func (f *fakeRepo) Count(context.Context, string) (int64, error) { return 0, nil }

type quietLog struct{}

func (quietLog) Printf(string, ...any) {}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	if len(b) < 3 || b[0] != 0xEF || b[1] != 0xBB || b[2] != 0xBF {
		t.Fatalf("%s does not start with a UTF-8 BOM", path)
	}
	var out [][]string
	for _, line := range strings.Split(strings.TrimRight(string(b[3:]), "\n"), "\n") {
		out = append(out, strings.Split(line, ";"))
	}
	return out
}

func TestReadHeader(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "T.csv")
	content := "\xEF\xBB\xBFCol A; Col B ;Col C\ndata;;number.2\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cols, formats, err := ReadHeader(path)
	if err != nil {
		t.Fatalf("ReadHeader: %v", err)
	}
	want := []string{"Col A", "Col B", "Col C"}
	if len(cols) != len(want) {
		t.Fatalf("cols=%v, want %v", cols, want)
	}
	for i := range want {
		if cols[i] != want[i] {
			t.Errorf("cols[%d]=%q, want %q", i, cols[i], want[i])
		}
	}
	if formats["Col A"] != "data" || formats["Col C"] != "number.2" {
		t.Errorf("formats=%v, want data and number.2 hints", formats)
	}
	if _, ok := formats["Col B"]; ok {
		t.Errorf("blank hint should be absent, got %v", formats)
	}
}

func TestReadHeaderEmptyFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "vazio.csv")
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	if _, _, err := ReadHeader(path); err == nil {
		t.Fatal("ReadHeader on empty file: want error")
	}
}

func TestWriteCSVHeaderOnly(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "sub", "out.csv")
	if err := WriteCSV(path, []string{"A", "B"}, nil); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}
	got := readCSV(t, path)
	if len(got) != 1 || got[0][0] != "A" || got[0][1] != "B" {
		t.Fatalf("content=%v, want header only", got)
	}
}

func TestExportAll(t *testing.T) {
	t.Parallel()

	repo := &fakeRepo{rows: map[string][]map[string]any{
		"esocial_s2230": {
			{
				"cnpj_empregador": "11222333000181",
				"cpf_trabalhador": "52998224725",
				"matricula":       "M001",
				"codigo_motivo":   "15",
				"descricao_motivo": "Férias",
				"data_inicio":     "2023-07-01",
				"data_fim":        "2023-07-30",
				"json_data":       `{"evtAfastTemp":{"infoAfastamento":{"iniAfastamento":{"dtIniAfast":{"_text":"2023-07-01"},"qtdDiasFerias":{"_text":"30"}}}}}`,
			},
			{
				"cnpj_empregador": "11222333000181",
				"cpf_trabalhador": "52998224725",
				"matricula":       "M001",
				"codigo_motivo":   "01",
				"descricao_motivo": "Acidente/doença do trabalho",
				"data_inicio":     "2023-09-10",
				"data_fim":        "2023-09-12",
				"json_data":       `{"evtAfastTemp":{"infoAfastamento":{"iniAfastamento":{"dtIniAfast":{"_text":"2023-09-10"},"codMotAfast":{"_text":"01"}}}}}`,
			},
		},
	}}

	outDir := t.TempDir()
	ex := New(repo, "", outDir, nil, quietLog{})
	specs := []TemplateSpec{
		{
			File:   "08_CONVAFASTAMENTO.csv",
			Source: "esocial_s2230",
			Fields: []resolve.FieldDef{
				col("1 A-ID do empregador", "cnpj_empregador"),
				{Column: "5-Data inicial de afastamento", RecordColumn: "data_inicio", Format: "date"},
				col("8-Descrição do motivo de afastamento", "descricao_motivo"),
			},
		},
		{
			File:   "05_FERIAS.csv",
			Source: "esocial_s2230",
			Filter: &Filter{Column: "codigo_motivo", Equals: []string{"15"}},
			Fields: []resolve.FieldDef{
				col("3 C - Código do contrato", "matricula"),
				js("20 T - Quantidade de dias de gozo de férias", "iniAfastamento", "qtdDiasFerias"),
			},
		},
	}

	stats, err := ex.ExportAll(context.Background(), specs)
	if err != nil {
		t.Fatalf("ExportAll: %v", err)
	}
	if stats.Written != 2 || stats.Failed != 0 {
		t.Fatalf("stats=%+v, want 2 written", stats)
	}

	// Both leave rows land in the general file, dates rendered DD/MM/YYYY.
	af := readCSV(t, filepath.Join(outDir, "08_CONVAFASTAMENTO.csv"))
	if len(af) != 3 {
		t.Fatalf("afastamentos rows=%d, want header+2", len(af))
	}
	header := af[0]
	if header[0] != "1 A-ID do empregador" || len(header) != len(FallbackColumns("08_CONVAFASTAMENTO.csv")) {
		t.Fatalf("header=%v, want built-in template columns", header)
	}
	if af[1][4] != "01/07/2023" {
		t.Errorf("data inicial=%q, want 01/07/2023", af[1][4])
	}
	if af[2][7] != "Acidente/doença do trabalho" {
		t.Errorf("descricao=%q", af[2][7])
	}

	// The vacation file keeps only the codigo_motivo=15 row and resolves
	// the day count from the stored payload.
	fe := readCSV(t, filepath.Join(outDir, "05_FERIAS.csv"))
	if len(fe) != 2 {
		t.Fatalf("ferias rows=%d, want header+1", len(fe))
	}
	if fe[1][2] != "M001" {
		t.Errorf("matricula=%q, want M001", fe[1][2])
	}
	if fe[1][19] != "30" {
		t.Errorf("dias de gozo=%q, want 30", fe[1][19])
	}
}

func TestExportAllFailureIsolation(t *testing.T) {
	t.Parallel()

	repo := &fakeRepo{
		rows: map[string][]map[string]any{
			"esocial_s1030": {{"cnpj_empregador": "11222333000181", "codigo": "C1", "descricao": "Analista"}},
		},
		errs: map[string]error{"esocial_s2230": errors.New("tabela corrompida")},
	}

	outDir := t.TempDir()
	ex := New(repo, "", outDir, nil, quietLog{})
	specs := []TemplateSpec{
		{File: "08_CONVAFASTAMENTO.csv", Source: "esocial_s2230",
			Fields: []resolve.FieldDef{col("1 A-ID do empregador", "cnpj_empregador")}},
		{File: "07_CARGOS.csv", Source: "esocial_s1030",
			Fields: []resolve.FieldDef{col("2 B-Código do cargo", "codigo"), col("3 C-Nome do cargo", "descricao")}},
	}

	stats, err := ex.ExportAll(context.Background(), specs)
	if err != nil {
		t.Fatalf("ExportAll: %v", err)
	}
	if stats.Failed != 1 || stats.Written != 1 {
		t.Fatalf("stats=%+v, want 1 failed and 1 written", stats)
	}

	// The broken template still leaves a header-only file behind.
	af := readCSV(t, filepath.Join(outDir, "08_CONVAFASTAMENTO.csv"))
	if len(af) != 1 {
		t.Fatalf("failed template rows=%d, want header only", len(af))
	}
	cg := readCSV(t, filepath.Join(outDir, "07_CARGOS.csv"))
	if len(cg) != 2 || cg[1][1] != "C1" || cg[1][2] != "Analista" {
		t.Fatalf("cargos=%v, want one mapped row", cg)
	}
}

func TestExportAllPhysicalTemplateHints(t *testing.T) {
	t.Parallel()

	tplDir := t.TempDir()
	tpl := "\xEF\xBB\xBF2 B-Código do cargo;7 G-Início da validade\n;data\n"
	if err := os.WriteFile(filepath.Join(tplDir, "07_CARGOS.csv"), []byte(tpl), 0o644); err != nil {
		t.Fatal(err)
	}

	repo := &fakeRepo{rows: map[string][]map[string]any{
		"esocial_s1030": {{"codigo": "C9", "inicio_validade": "2023-01"}},
	}}
	outDir := t.TempDir()
	ex := New(repo, tplDir, outDir, nil, quietLog{})
	specs := []TemplateSpec{{
		File:   "07_CARGOS.csv",
		Source: "esocial_s1030",
		Fields: []resolve.FieldDef{
			col("2 B-Código do cargo", "codigo"),
			col("7 G-Início da validade", "inicio_validade"),
		},
	}}

	if _, err := ex.ExportAll(context.Background(), specs); err != nil {
		t.Fatalf("ExportAll: %v", err)
	}
	got := readCSV(t, filepath.Join(outDir, "07_CARGOS.csv"))
	if len(got) != 2 || len(got[0]) != 2 {
		t.Fatalf("content=%v, want the physical template's two columns", got)
	}
	if got[1][0] != "C9" {
		t.Errorf("codigo=%q, want C9", got[1][0])
	}
}

func TestDefaultTemplates(t *testing.T) {
	t.Parallel()

	specs := DefaultTemplates()
	if len(specs) != 9 {
		t.Fatalf("len=%d, want 9 templates", len(specs))
	}
	seen := map[string]bool{}
	for _, s := range specs {
		if seen[s.File] {
			t.Errorf("duplicate template %s", s.File)
		}
		seen[s.File] = true
		if _, ok := schema.ExportQueries[s.Source]; !ok {
			t.Errorf("%s: source %q has no query", s.File, s.Source)
		}
		cols := FallbackColumns(s.File)
		if cols == nil {
			t.Errorf("%s: no built-in columns", s.File)
			continue
		}
		known := map[string]bool{}
		for _, c := range cols {
			known[c] = true
		}
		for _, f := range s.Fields {
			if !known[f.Column] {
				t.Errorf("%s: field %q not in the template columns", s.File, f.Column)
			}
		}
	}
}

func TestExportAllCustomDelimiterNoBOM(t *testing.T) {
	t.Parallel()

	repo := &fakeRepo{rows: map[string][]map[string]any{
		"esocial_s1030": {{"codigo": "C1"}},
	}}
	outDir := t.TempDir()
	opts := config.Options{"comma": ",", "bom": false}
	ex := New(repo, "", outDir, opts, quietLog{})
	specs := []TemplateSpec{{
		File:   "07_CARGOS.csv",
		Source: "esocial_s1030",
		Fields: []resolve.FieldDef{col("2 B-Código do cargo", "codigo")},
	}}

	if _, err := ex.ExportAll(context.Background(), specs); err != nil {
		t.Fatalf("ExportAll: %v", err)
	}
	b, err := os.ReadFile(filepath.Join(outDir, "07_CARGOS.csv"))
	if err != nil {
		t.Fatal(err)
	}
	if strings.HasPrefix(string(b), "\xEF\xBB\xBF") {
		t.Error("bom=false still wrote a BOM")
	}
	first := strings.SplitN(string(b), "\n", 2)[0]
	if !strings.Contains(first, ",") || strings.Contains(first, ";") {
		t.Errorf("header=%q, want comma delimited", first)
	}
}
