package mssql

import (
	"strings"
	"testing"

	"esocialetl/internal/storage"
)

func TestBuildCreateTableSQLKeyWidths(t *testing.T) {
	spec := storage.TableSpec{
		Name:       "esocial_s2206",
		PrimaryKey: &storage.PrimaryKeySpec{Name: "id", Type: "serial"},
		Columns: []storage.ColumnSpec{
			{Name: "cpf_trabalhador", Type: "text"},
			{Name: "descricao", Type: "text"},
			{Name: "salario_contratual", Type: "real"},
		},
		Constraints: []storage.ConstraintSpec{
			{Kind: "unique", Columns: []string{"cpf_trabalhador"}},
		},
	}
	got, err := buildCreateTableSQL(spec)
	if err != nil {
		t.Fatalf("buildCreateTableSQL: %v", err)
	}
	for _, want := range []string{
		"IF OBJECT_ID('esocial_s2206', 'U') IS NULL CREATE TABLE esocial_s2206",
		"[id] BIGINT IDENTITY(1,1) PRIMARY KEY",
		"[cpf_trabalhador] NVARCHAR(450)",
		"[descricao] NVARCHAR(MAX)",
		"[salario_contratual] FLOAT",
		"UNIQUE ([cpf_trabalhador])",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("missing %q in:\n%s", want, got)
		}
	}
}

func TestBuildUpsertSQL(t *testing.T) {
	cols := []string{"cpf_trabalhador", "matricula", "salario_contratual"}
	keyCols := []string{"cpf_trabalhador", "matricula"}
	keys := map[string]bool{"cpf_trabalhador": true, "matricula": true}

	updateSQL, insertSQL := buildUpsertSQL("esocial_s2206", cols, keyCols, keys)

	if !strings.HasPrefix(updateSQL, "UPDATE esocial_s2206 WITH (UPDLOCK, HOLDLOCK) SET [salario_contratual] = @p1") {
		t.Errorf("update: %s", updateSQL)
	}
	if !strings.Contains(updateSQL, "WHERE [cpf_trabalhador] = @p2 AND [matricula] = @p3") {
		t.Errorf("update where clause: %s", updateSQL)
	}

	if !strings.Contains(insertSQL, "INSERT INTO esocial_s2206 ([cpf_trabalhador], [matricula], [salario_contratual]) SELECT @p1, @p2, @p3") {
		t.Errorf("insert: %s", insertSQL)
	}
	if !strings.Contains(insertSQL, "WHERE NOT EXISTS (SELECT 1 FROM esocial_s2206 WITH (UPDLOCK, HOLDLOCK) WHERE [cpf_trabalhador] = @p4 AND [matricula] = @p5)") {
		t.Errorf("insert guard: %s", insertSQL)
	}
}

func TestIdentEscaping(t *testing.T) {
	if got := msIdent("odd]name"); got != "[odd]]name]" {
		t.Fatalf("msIdent = %q", got)
	}
}
