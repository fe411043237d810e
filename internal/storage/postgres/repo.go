package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"esocialetl/internal/storage"
)

// Repo implements storage.Repository for Postgres.
//
// The eSocial tables are small by Postgres standards; a plain pool with
// multi-row inserts is enough. Upserts use ON CONFLICT ... DO UPDATE with
// EXCLUDED values, matching the SQLite backend behavior.
type Repo struct {
	pool *pgxpool.Pool
}

func init() {
	storage.Register("postgres", New)
}

func New(ctx context.Context, cfg storage.Config) (storage.Repository, error) {
	pool, err := pgxpool.New(ctx, cfg.DSN)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return &Repo{pool: pool}, nil
}

func (r *Repo) Close() { r.pool.Close() }

func (r *Repo) EnsureTables(ctx context.Context, tables []storage.TableSpec) error {
	for _, t := range tables {
		ddl, err := buildCreateTableSQL(t)
		if err != nil {
			return err
		}
		if _, err := r.pool.Exec(ctx, ddl); err != nil {
			return fmt.Errorf("create table %s: %w", t.Name, err)
		}
		for _, ix := range t.Indexes {
			stmt := fmt.Sprintf("CREATE INDEX IF NOT EXISTS %s ON %s (%s);",
				pgIdent(ix.Name), t.Name, joinIdents(ix.Columns))
			if _, err := r.pool.Exec(ctx, stmt); err != nil {
				return fmt.Errorf("create index %s on %s: %w", ix.Name, t.Name, err)
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
	uq := spec.UniqueConstraint()

	// Keep parameter counts comfortably below the wire-protocol limit.
	chunk := 1
	if len(cols) > 0 {
		chunk = 8000 / len(cols)
	}
	if chunk < 1 {
		chunk = 1
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var affected int64
	for start := 0; start < len(ordered); start += chunk {
		end := start + chunk
		if end > len(ordered) {
			end = len(ordered)
		}
		stmt, args := buildInsertSQL(spec.Name, cols, ordered[start:end], uq)
		cmd, err := tx.Exec(ctx, stmt, args...)
		if err != nil {
			return 0, fmt.Errorf("insert into %s: %w", spec.Name, err)
		}
		affected += cmd.RowsAffected()
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, err
	}
	return affected, nil
}

func (r *Repo) Query(ctx context.Context, q string, args ...any) ([]map[string]any, error) {
	if err := storage.CheckReadOnly(q); err != nil {
		return nil, err
	}

	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	descs := rows.FieldDescriptions()
	var out []map[string]any
	for rows.Next() {
		vals, err := rows.Values()
		if err != nil {
			return nil, err
		}
		rec := make(map[string]any, len(descs))
		for i, d := range descs {
			v := vals[i]
			if b, ok := v.([]byte); ok {
				v = string(b)
			}
			rec[string(d.Name)] = v
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (r *Repo) Tables(ctx context.Context) ([]string, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT tablename FROM pg_tables WHERE schemaname = current_schema() ORDER BY tablename`)
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
	q := fmt.Sprintf(`SELECT COUNT(*) FROM %s`, pgIdent(table))
	if err := r.pool.QueryRow(ctx, q).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func pgIdent(id string) string {
	return `"` + strings.ReplaceAll(id, `"`, `""`) + `"`
}

func joinIdents(cols []string) string {
	out := make([]string, 0, len(cols))
	for _, c := range cols {
		out = append(out, pgIdent(c))
	}
	return strings.Join(out, ", ")
}

func buildCreateTableSQL(t storage.TableSpec) (string, error) {
	if strings.TrimSpace(t.Name) == "" {
		return "", fmt.Errorf("table name is empty")
	}

	var parts []string
	if t.PrimaryKey != nil {
		parts = append(parts, fmt.Sprintf(`%s BIGSERIAL PRIMARY KEY`, pgIdent(t.PrimaryKey.Name)))
	}
	for _, c := range t.Columns {
		col := fmt.Sprintf("%s %s", pgIdent(c.Name), pgType(c.Type))
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

	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (\n  %s\n);", t.Name, strings.Join(parts, ",\n  ")), nil
}

func pgType(t string) string {
	switch strings.ToLower(strings.TrimSpace(t)) {
	case "", "text":
		return "TEXT"
	case "real", "float", "double":
		return "DOUBLE PRECISION"
	case "int", "integer":
		return "INTEGER"
	case "bigint":
		return "BIGINT"
	default:
		return t
	}
}

// buildInsertSQL constructs a single INSERT statement and its args.
//
// Why this exists:
//   - It is pure and deterministic, so we can unit test correctness
//     (especially ON CONFLICT behavior and placeholder numbering) without
//     a database.
func buildInsertSQL(table string, cols []string, rows [][]any, uq *storage.ConstraintSpec) (string, []any) {
	var b strings.Builder
	b.WriteString("INSERT INTO ")
	b.WriteString(table)
	b.WriteString(" (")
	b.WriteString(joinIdents(cols))
	b.WriteString(") VALUES ")

	args := make([]any, 0, len(rows)*len(cols))
	p := 1
	for i, row := range rows {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString("(")
		for j := range cols {
			if j > 0 {
				b.WriteString(", ")
			}
			b.WriteString(fmt.Sprintf("$%d", p))
			args = append(args, row[j])
			p++
		}
		b.WriteString(")")
	}

	if uq != nil {
		keys := make(map[string]bool, len(uq.Columns))
		for _, c := range uq.Columns {
			keys[c] = true
		}
		b.WriteString(" ON CONFLICT (")
		b.WriteString(joinIdents(uq.Columns))
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
			b.WriteString(pgIdent(c))
			b.WriteString(" = EXCLUDED.")
			b.WriteString(pgIdent(c))
		}
	}

	b.WriteString(";")
	return b.String(), args
}
