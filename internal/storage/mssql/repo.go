package mssql

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/microsoft/go-mssqldb"

	"esocialetl/internal/storage"
)

// Repo implements storage.Repository for Microsoft SQL Server.
//
// SQL Server has no ON CONFLICT clause, so tables with a declared unique
// constraint are written row by row inside one transaction: UPDATE the
// existing row by key, then INSERT ... WHERE NOT EXISTS. Plain tables use
// multi-row inserts like the other backends.
//
// Concurrency:
//   - The update/insert pair runs with UPDLOCK + HOLDLOCK hints so
//     concurrent writers for the same key serialize cleanly.
type Repo struct {
	db *sql.DB
}

func init() {
	storage.Register("mssql", New)
}

func New(ctx context.Context, cfg storage.Config) (storage.Repository, error) {
	db, err := sql.Open("sqlserver", cfg.DSN)
	if err != nil {
		return nil, err
	}

	// Conservative defaults for bursty batch loads.
	db.SetMaxOpenConns(64)
	db.SetMaxIdleConns(64)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Repo{db: db}, nil
}

func (r *Repo) Close() {
	if r == nil || r.db == nil {
		return
	}
	_ = r.db.Close()
}

func (r *Repo) EnsureTables(ctx context.Context, tables []storage.TableSpec) error {
	for _, t := range tables {
		ddl, err := buildCreateTableSQL(t)
		if err != nil {
			return err
		}
		if _, err := r.db.ExecContext(ctx, ddl); err != nil {
			return fmt.Errorf("mssql: create table %s: %w", t.Name, err)
		}
		for _, ix := range t.Indexes {
			stmt := fmt.Sprintf(
				"IF NOT EXISTS (SELECT 1 FROM sys.indexes WHERE name = '%s' AND object_id = OBJECT_ID('%s')) CREATE INDEX %s ON %s (%s);",
				ix.Name, t.Name, msIdent(ix.Name), t.Name, joinIdents(ix.Columns))
			if _, err := r.db.ExecContext(ctx, stmt); err != nil {
				return fmt.Errorf("mssql: create index %s on %s: %w", ix.Name, t.Name, err)
			}
		}
	}
	return nil
}

func (r *Repo) InsertRows(ctx context.Context, spec storage.TableSpec, rows []map[string]any) (int64, error) {
	if len(rows) == 0 {
		return 0, nil
	}

	ordered, err := storage.OrderRows(spec, rows)
	if err != nil {
		return 0, err
	}
	cols := spec.ColumnNames()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback() }()

	var affected int64
	if uq := spec.UniqueConstraint(); uq != nil {
		affected, err = upsertRows(ctx, tx, spec.Name, cols, ordered, uq)
	} else {
		affected, err = insertPlain(ctx, tx, spec.Name, cols, ordered)
	}
	if err != nil {
		return 0, fmt.Errorf("mssql: write %s: %w", spec.Name, err)
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return affected, nil
}

func insertPlain(ctx context.Context, tx *sql.Tx, table string, cols []string, rows [][]any) (int64, error) {
	// 2100-parameter limit; stay below it per statement.
	chunk := 1
	if len(cols) > 0 {
		chunk = 2000 / len(cols)
	}
	if chunk < 1 {
		chunk = 1
	}

	var affected int64
	for start := 0; start < len(rows); start += chunk {
		end := start + chunk
		if end > len(rows) {
			end = len(rows)
		}
		part := rows[start:end]

		var b strings.Builder
		b.WriteString("INSERT INTO ")
		b.WriteString(table)
		b.WriteString(" (")
		b.WriteString(joinIdents(cols))
		b.WriteString(") VALUES ")

		args := make([]any, 0, len(part)*len(cols))
		p := 1
		for i, row := range part {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString("(")
			for j := range cols {
				if j > 0 {
					b.WriteString(", ")
				}
				fmt.Fprintf(&b, "@p%d", p)
				args = append(args, row[j])
				p++
			}
			b.WriteString(")")
		}

		res, err := tx.ExecContext(ctx, b.String(), args...)
		if err != nil {
			return 0, err
		}
		n, _ := res.RowsAffected()
		affected += n
	}
	return affected, nil
}

func upsertRows(ctx context.Context, tx *sql.Tx, table string, cols []string, rows [][]any, uq *storage.ConstraintSpec) (int64, error) {
	keyIdx := make([]int, 0, len(uq.Columns))
	keys := make(map[string]bool, len(uq.Columns))
	for _, k := range uq.Columns {
		keys[k] = true
		found := -1
		for i, c := range cols {
			if c == k {
				found = i
				break
			}
		}
		if found < 0 {
			return 0, fmt.Errorf("unique column %q not in table columns", k)
		}
		keyIdx = append(keyIdx, found)
	}

	updateSQL, insertSQL := buildUpsertSQL(table, cols, uq.Columns, keys)

	var affected int64
	for _, row := range rows {
		args := make([]any, 0, len(cols)+len(keyIdx))
		p := 1
		named := func(v any) {
			args = append(args, sql.Named(fmt.Sprintf("p%d", p), v))
			p++
		}
		// UPDATE: set values then key values.
		for i, c := range cols {
			if keys[c] {
				continue
			}
			named(row[i])
		}
		for _, i := range keyIdx {
			named(row[i])
		}
		res, err := tx.ExecContext(ctx, updateSQL, args...)
		if err != nil {
			return 0, err
		}
		if n, _ := res.RowsAffected(); n > 0 {
			affected += n
			continue
		}

		args = args[:0]
		p = 1
		for i := range cols {
			named(row[i])
		}
		for _, i := range keyIdx {
			named(row[i])
		}
		res, err = tx.ExecContext(ctx, insertSQL, args...)
		if err != nil {
			return 0, err
		}
		n, _ := res.RowsAffected()
		affected += n
	}
	return affected, nil
}

// buildUpsertSQL renders the UPDATE and guarded INSERT statements used for
// tables with a declared unique constraint.
func buildUpsertSQL(table string, cols []string, keyCols []string, keys map[string]bool) (updateSQL, insertSQL string) {
	var u strings.Builder
	u.WriteString("UPDATE ")
	u.WriteString(table)
	u.WriteString(" WITH (UPDLOCK, HOLDLOCK) SET ")
	p := 1
	first := true
	for _, c := range cols {
		if keys[c] {
			continue
		}
		if !first {
			u.WriteString(", ")
		}
		first = false
		fmt.Fprintf(&u, "%s = @p%d", msIdent(c), p)
		p++
	}
	u.WriteString(" WHERE ")
	for i, k := range keyCols {
		if i > 0 {
			u.WriteString(" AND ")
		}
		fmt.Fprintf(&u, "%s = @p%d", msIdent(k), p)
		p++
	}
	updateSQL = u.String()

	var b strings.Builder
	b.WriteString("INSERT INTO ")
	b.WriteString(table)
	b.WriteString(" (")
	b.WriteString(joinIdents(cols))
	b.WriteString(") SELECT ")
	p = 1
	for i := range cols {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "@p%d", p)
		p++
	}
	b.WriteString(" WHERE NOT EXISTS (SELECT 1 FROM ")
	b.WriteString(table)
	b.WriteString(" WITH (UPDLOCK, HOLDLOCK) WHERE ")
	for i, k := range keyCols {
		if i > 0 {
			b.WriteString(" AND ")
		}
		fmt.Fprintf(&b, "%s = @p%d", msIdent(k), p)
		p++
	}
	b.WriteString(")")
	insertSQL = b.String()
	return updateSQL, insertSQL
}

func (r *Repo) Query(ctx context.Context, q string, args ...any) ([]map[string]any, error) {
	if err := storage.CheckReadOnly(q); err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	var out []map[string]any
	for rows.Next() {
		vals := make([]any, len(cols))
		scan := make([]any, len(cols))
		for i := range vals {
			scan[i] = &vals[i]
		}
		if err := rows.Scan(scan...); err != nil {
			return nil, err
		}
		rec := make(map[string]any, len(cols))
		for i, c := range cols {
			v := vals[i]
			if b, ok := v.([]byte); ok {
				v = string(b)
			}
			rec[c] = v
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (r *Repo) Tables(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT name FROM sys.tables ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		out = append(out, name)
	}
	return out, rows.Err()
}

func (r *Repo) Count(ctx context.Context, table string) (int64, error) {
	var n int64
	q := fmt.Sprintf(`SELECT COUNT(*) FROM %s`, msIdent(table))
	if err := r.db.QueryRowContext(ctx, q).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func msIdent(id string) string {
	return "[" + strings.ReplaceAll(id, "]", "]]") + "]"
}

func joinIdents(cols []string) string {
	out := make([]string, 0, len(cols))
	for _, c := range cols {
		out = append(out, msIdent(c))
	}
	return strings.Join(out, ", ")
}

func buildCreateTableSQL(t storage.TableSpec) (string, error) {
	if strings.TrimSpace(t.Name) == "" {
		return "", fmt.Errorf("table name is empty")
	}

	// Columns in unique constraints or indexes cannot be NVARCHAR(MAX):
	// SQL Server caps key widths, so those render as NVARCHAR(450).
	keyed := map[string]bool{}
	for _, con := range t.Constraints {
		for _, c := range con.Columns {
			keyed[c] = true
		}
	}
	for _, ix := range t.Indexes {
		for _, c := range ix.Columns {
			keyed[c] = true
		}
	}

	var parts []string
	if t.PrimaryKey != nil {
		parts = append(parts, fmt.Sprintf(`%s BIGINT IDENTITY(1,1) PRIMARY KEY`, msIdent(t.PrimaryKey.Name)))
	}
	for _, c := range t.Columns {
		typ := msType(c.Type)
		if keyed[c.Name] && typ == "NVARCHAR(MAX)" {
			typ = "NVARCHAR(450)"
		}
		col := fmt.Sprintf("%s %s", msIdent(c.Name), typ)
		if c.NotNull {
			col += " NOT NULL"
		}
		parts = append(parts, col)
	}
	for _, con := range t.Constraints {
		if con.Kind != "unique" {
			return "", fmt.Errorf("%s unsupported constraint kind: %s", t.Name, con.Kind)
		}
		parts = append(parts, fmt.Sprintf("UNIQUE (%s)", joinIdents(con.Columns)))
	}

	return fmt.Sprintf(
		"IF OBJECT_ID('%s', 'U') IS NULL CREATE TABLE %s (\n  %s\n);",
		t.Name, t.Name, strings.Join(parts, ",\n  ")), nil
}

func msType(t string) string {
	switch strings.ToLower(strings.TrimSpace(t)) {
	case "", "text":
		return "NVARCHAR(MAX)"
	case "real", "float", "double":
		return "FLOAT"
	case "int", "integer":
		return "INT"
	case "bigint":
		return "BIGINT"
	default:
		return t
	}
}
