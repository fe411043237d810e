package postgres

import (
	"strings"
	"testing"

	"esocialetl/internal/storage"
)

func TestBuildCreateTableSQL(t *testing.T) {
	spec := storage.TableSpec{
		Name:       "esocial_s1200",
		PrimaryKey: &storage.PrimaryKeySpec{Name: "id", Type: "serial"},
		Columns: []storage.ColumnSpec{
			{Name: "cpf_trabalhador", Type: "text"},
			{Name: "valor_rubrica", Type: "real"},
		},
	}
	got, err := buildCreateTableSQL(spec)
	if err != nil {
		t.Fatalf("buildCreateTableSQL: %v", err)
	}
	for _, want := range []string{
		"CREATE TABLE IF NOT EXISTS esocial_s1200",
		`"id" BIGSERIAL PRIMARY KEY`,
		`"valor_rubrica" DOUBLE PRECISION`,
	} {
		if !strings.Contains(got, want) {
			t.Errorf("missing %q in:\n%s", want, got)
		}
	}
}

func TestBuildInsertSQLPlaceholderNumbering(t *testing.T) {
	cols := []string{"cpf_trabalhador", "matricula"}
	rows := [][]any{{"52998224725", "M001"}, {"52998224725", "M002"}}
	sqlText, args := buildInsertSQL("esocial_s2230", cols, rows, nil)

	if !strings.Contains(sqlText, "($1, $2), ($3, $4)") {
		t.Errorf("placeholder numbering wrong: %s", sqlText)
	}
	if len(args) != 4 {
		t.Errorf("args = %d, want 4", len(args))
	}
	if strings.Contains(sqlText, "ON CONFLICT") {
		t.Errorf("plain insert must not upsert: %s", sqlText)
	}
}

func TestBuildInsertSQLUpsert(t *testing.T) {
	cols := []string{"cpf_trabalhador", "matricula", "data_alteracao", "salario_contratual"}
	uq := &storage.ConstraintSpec{Kind: "unique", Columns: []string{"cpf_trabalhador", "matricula", "data_alteracao"}}
	sqlText, _ := buildInsertSQL("esocial_s2206", cols, [][]any{{"52998224725", "M001", "2024-03-01", 3500.0}}, uq)

	if !strings.Contains(sqlText, `ON CONFLICT ("cpf_trabalhador", "matricula", "data_alteracao") DO UPDATE SET`) {
		t.Errorf("missing conflict clause: %s", sqlText)
	}
	if !strings.Contains(sqlText, `"salario_contratual" = EXCLUDED."salario_contratual"`) {
		t.Errorf("missing excluded assignment: %s", sqlText)
	}
	if strings.Contains(sqlText, `"matricula" = EXCLUDED.`) {
		t.Errorf("key column leaked into update set: %s", sqlText)
	}
}
