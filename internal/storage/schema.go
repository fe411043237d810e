// The TableSpec types live here so backend packages can consume them
// without importing the packages that produce rows.
package storage

// TableSpec describes one destination table. Specs are data: the built-in
// eSocial set lives in internal/schema and external JSON config can
// replace it.
type TableSpec struct {
	Name        string           `json:"name"`
	PrimaryKey  *PrimaryKeySpec  `json:"primary_key,omitempty"`
	Columns     []ColumnSpec     `json:"columns"`
	Constraints []ConstraintSpec `json:"constraints,omitempty"`
	Indexes     []IndexSpec      `json:"indexes,omitempty"`
}

type PrimaryKeySpec struct {
	Name string `json:"name"`
	Type string `json:"type"` // e.g. serial / int identity
}

type ColumnSpec struct {
	Name    string `json:"name"`
	Type    string `json:"type"`
	NotNull bool   `json:"not_null,omitempty"`
}

// ConstraintSpec declares a table constraint. Backends decide write
// behavior from it: a "unique" constraint turns batch writes into upserts
// keyed on its columns.
type ConstraintSpec struct {
	Kind    string   `json:"kind"` // "unique"
	Columns []string `json:"columns"`
}

type IndexSpec struct {
	Name    string   `json:"name"`
	Columns []string `json:"columns"`
}

// UniqueConstraint returns the first declared unique constraint, or nil.
// Writes against a table with one are upserts; insert-append otherwise.
func (t TableSpec) UniqueConstraint() *ConstraintSpec {
	for i := range t.Constraints {
		if t.Constraints[i].Kind == "unique" {
			return &t.Constraints[i]
		}
	}
	return nil
}

// ColumnNames returns the declared column names in declaration order.
func (t TableSpec) ColumnNames() []string {
	out := make([]string, 0, len(t.Columns))
	for _, c := range t.Columns {
		out = append(out, c.Name)
	}
	return out
}

// ColumnSet returns the declared column names as a lookup set.
func (t TableSpec) ColumnSet() map[string]bool {
	out := make(map[string]bool, len(t.Columns))
	for _, c := range t.Columns {
		out[c.Name] = true
	}
	return out
}
