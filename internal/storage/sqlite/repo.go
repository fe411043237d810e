package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"esocialetl/internal/storage"
)

// Repo implements storage.Repository for SQLite.
//
// Key design points:
//   - modernc.org/sqlite gives TEXT affinity to anything declared TEXT,
//     so timestamps are stored as strings and parsed on the way out.
//   - Upserts use ON CONFLICT ... DO UPDATE with excluded.* values, which
//     requires a UNIQUE constraint matching the declared columns.
type Repo struct {
	db *sql.DB
}

func init() {
	storage.Register("sqlite", New)
}

func New(ctx context.Context, cfg storage.Config) (storage.Repository, error) {
	db, err := sql.Open("sqlite", cfg.DSN)
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Repo{db: db}, nil
}

func (r *Repo) Close() { _ = r.db.Close() }

// EnsureTables creates tables, unique constraints and indexes.
//
// Important:
//   - DDL is CREATE ... IF NOT EXISTS throughout, so startup is idempotent.
//   - Declared unique constraints are part of the table DDL; they are what
//     makes InsertRows upsert.
func (r *Repo) EnsureTables(ctx context.Context, tables []storage.TableSpec) error {
	for _, t := range tables {
		ddl, err := buildCreateTableSQL(t)
		if err != nil {
			return err
		}
		if _, err := r.db.ExecContext(ctx, ddl); err != nil {
			return fmt.Errorf("create table %s: %w", t.Name, err)
		}
		for _, ix := range t.Indexes {
			stmt, err := buildCreateIndexSQL(t.Name, ix)
			if err != nil {
				return err
			}
			if _, err := r.db.ExecContext(ctx, stmt); err != nil {
				return fmt.Errorf("create index %s on %s: %w", ix.Name, t.Name, err)
			}
		}
	}
	return nil
}

// InsertRows writes one batch inside a single transaction.
//
// Chunking keeps the bound-parameter count under the SQLite limit for
// wide layout tables.
func (r *Repo) InsertRows(ctx context.Context, spec storage.TableSpec, rows []map[string]any) (int64, error) {
	if len(rows) == 0 {
		return 0, nil
	}

	ordered, err := storage.OrderRows(spec, rows)
	if err != nil {
		return 0, err
	}
	cols := spec.ColumnNames()
	uq := spec.UniqueConstraint()

	// time.Time binds as driver-dependent text; store the canonical form.
	for _, row := range ordered {
		for i, v := range row {
			if ts, ok := v.(time.Time); ok {
				row[i] = FormatTime(ts)
			}
		}
	}

	// Rows per statement, bounded so cols*chunk stays well under the
	// default variable limit.
	chunk := 1
	if len(cols) > 0 {
		chunk = 8000 / len(cols)
	}
	if chunk < 1 {
		chunk = 1
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback() }()

	var affected int64
	for start := 0; start < len(ordered); start += chunk {
		end := start + chunk
		if end > len(ordered) {
			end = len(ordered)
		}
		stmt, args := buildInsertSQL(spec.Name, cols, ordered[start:end], uq)
		res, err := tx.ExecContext(ctx, stmt, args...)
		if err != nil {
			return 0, fmt.Errorf("insert into %s: %w", spec.Name, err)
		}
		n, _ := res.RowsAffected()
		affected += n
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return affected, nil
}

// Query runs a read-only statement and materializes rows as maps.
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
			// TEXT scans as []byte with some drivers; keep exports stable.
			if b, ok := v.([]byte); ok {
				v = string(b)
			}
			// Timestamp columns may hold values written by other tools in
			// the space-separated format; hand them out canonicalized.
			if c == "data_importacao" {
				if s, ok := v.(string); ok {
					if ts, err := ParseTime(s); err == nil {
						v = FormatTime(ts)
					}
				}
			}
			rec[c] = v
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (r *Repo) Tables(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT name FROM sqlite_master WHERE type='table' AND name NOT LIKE 'sqlite_%' ORDER BY name`)
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
	q := fmt.Sprintf(`SELECT COUNT(*) FROM %s`, sqlIdent(table))
	if err := r.db.QueryRowContext(ctx, q).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func sqlIdent(id string) string {
	// SQLite supports "quoted identifiers"
	return `"` + strings.ReplaceAll(id, `"`, `""`) + `"`
}

func buildCreateTableSQL(t storage.TableSpec) (string, error) {
	if strings.TrimSpace(t.Name) == "" {
		return "", fmt.Errorf("table name is empty")
	}

	var parts []string

	if t.PrimaryKey != nil {
		// "INTEGER PRIMARY KEY" is special in sqlite: it becomes the rowid
		// and auto-generates values.
		parts = append(parts, fmt.Sprintf(`%s INTEGER PRIMARY KEY AUTOINCREMENT`, sqlIdent(t.PrimaryKey.Name)))
	}

	for _, c := range t.Columns {
		col := fmt.Sprintf("%s %s", sqlIdent(c.Name), sqliteType(c.Type))
		if c.NotNull {
			col += " NOT NULL"
		}
		parts = append(parts, col)
	}

	for _, con := range t.Constraints {
		if con.Kind != "unique" {
			return "", fmt.Errorf("%s unsupported constraint kind: %s", t.Name, con.Kind)
		}
		var cols []string
		for _, c := range con.Columns {
			cols = append(cols, sqlIdent(c))
		}
		parts = append(parts, fmt.Sprintf("UNIQUE (%s)", strings.Join(cols, ", ")))
	}

	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (\n  %s\n);", t.Name, strings.Join(parts, ",\n  ")), nil
}

func buildCreateIndexSQL(table string, ix storage.IndexSpec) (string, error) {
	if ix.Name == "" || len(ix.Columns) == 0 {
		return "", fmt.Errorf("index on %s: name and columns are required", table)
	}
	cols := make([]string, 0, len(ix.Columns))
	for _, c := range ix.Columns {
		cols = append(cols, sqlIdent(c))
	}
	return fmt.Sprintf("CREATE INDEX IF NOT EXISTS %s ON %s (%s);",
		sqlIdent(ix.Name), table, strings.Join(cols, ", ")), nil
}

// sqliteType maps generic column types onto SQLite affinities.
func sqliteType(t string) string {
	switch strings.ToLower(strings.TrimSpace(t)) {
	case "", "text":
		return "TEXT"
	case "real", "float", "double":
		return "REAL"
	case "int", "integer", "bigint":
		return "INTEGER"
	default:
		return t
	}
}

// buildInsertSQL constructs one multi-row INSERT and its args.
//
// With a unique constraint, the statement becomes an upsert where every
// non-key column takes the incoming (excluded) value, so reprocessing the
// same event updates the stored row instead of duplicating it.
func buildInsertSQL(table string, cols []string, rows [][]any, uq *storage.ConstraintSpec) (string, []any) {
	colList := make([]string, 0, len(cols))
	for _, c := range cols {
		colList = append(colList, sqlIdent(c))
	}
	placeholders := "(" + strings.TrimRight(strings.Repeat("?,", len(cols)), ",") + ")"

	var b strings.Builder
	b.WriteString("INSERT INTO ")
	b.WriteString(table)
	b.WriteString(" (")
	b.WriteString(strings.Join(colList, ", "))
	b.WriteString(") VALUES ")

	args := make([]any, 0, len(rows)*len(cols))
	for i, row := range rows {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(placeholders)
		args = append(args, row...)
	}

	if uq != nil {
		keys := make(map[string]bool, len(uq.Columns))
		conflict := make([]string, 0, len(uq.Columns))
		for _, c := range uq.Columns {
			keys[c] = true
			conflict = append(conflict, sqlIdent(c))
		}
		b.WriteString(" ON CONFLICT (")
		b.WriteString(strings.Join(conflict, ", "))
		b.WriteString(") DO UPDATE SET ")
		first := true
		for _, c := range cols {
			if keys[c] {
				continue
			}
			if !first {
				b.WriteString(", ")
			}
			first = false
			b.WriteString(sqlIdent(c))
			b.WriteString(" = excluded.")
			b.WriteString(sqlIdent(c))
		}
	}

	return b.String(), args
}

// FormatTime formats a timestamp for storage as RFC3339Nano in UTC.
// TEXT storage round-trips reliably with modernc.org/sqlite.
func FormatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

// ParseTime parses timestamps read back from SQLite.
//
// Supported formats:
//   - RFC3339Nano (what we write)
//   - RFC3339
//   - "2006-01-02 15:04:05" (interpreted as UTC; written by other tools)
func ParseTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty time string")
	}

	layouts := []string{
		time.RFC3339Nano,
		time.RFC3339,
		"2006-01-02 15:04:05",
	}
	for _, layout := range layouts {
		if layout == "2006-01-02 15:04:05" {
			if ts, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
				return ts.UTC(), nil
			}
			continue
		}
		if ts, err := time.Parse(layout, s); err == nil {
			return ts.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unsupported time format: %q", s)
}
