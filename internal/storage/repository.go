package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
)

// Config is the minimal configuration needed to create a repository.
//
// When to use:
//   - Use Config when constructing a Repository via New.
//
// Edge cases:
//   - Kind must be non-empty and must match a registered backend kind.
//   - DSN is passed through to the backend factory; validation is backend-specific.
//
// Errors:
//   - New returns an error if Kind is empty or unsupported.
type Config struct {
	Kind string
	DSN  string
}

// ErrReadOnly reports a Query call whose statement is not read-only.
var ErrReadOnly = errors.New("storage: query must be read-only (select, pragma or explain)")

// Repository is a backend-agnostic interface for the eSocial store.
//
// IMPORTANT: This interface is intentionally minimal and focused on the
// operations the ingest pipeline and the template exporter need. Each
// backend implements these semantics in its own idiomatic way (Postgres
// ON CONFLICT, SQLite excluded.*, MSSQL update-then-insert).
type Repository interface {
	// Close releases backend resources. Treat as "call once" at shutdown.
	Close()

	// EnsureTables creates tables, constraints and indexes as needed.
	// Idempotent; safe to run on every invocation.
	EnsureTables(ctx context.Context, tables []TableSpec) error

	// InsertRows writes one batch of records to spec's table in a single
	// transaction.
	//
	// Write behavior is derived from the table spec:
	//   - With a declared unique constraint, rows upsert on its columns
	//     and every non-key column is overwritten by the incoming value.
	//   - Without one, rows are appended.
	//
	// Errors:
	//   - A row key absent from spec.Columns fails the whole batch. The
	//     schema is the contract; silently dropping values would corrupt
	//     exports downstream.
	InsertRows(ctx context.Context, spec TableSpec, rows []map[string]any) (int64, error)

	// Query runs a read-only statement and materializes the result.
	//
	// Errors:
	//   - ErrReadOnly when the statement is not select/pragma/explain.
	Query(ctx context.Context, q string, args ...any) ([]map[string]any, error)

	// Tables lists user table names.
	Tables(ctx context.Context) ([]string, error)

	// Count returns the row count of a table.
	Count(ctx context.Context, table string) (int64, error)
}

// ---- backend factories ----

type factory func(ctx context.Context, cfg Config) (Repository, error)

var (
	regMu     sync.RWMutex
	factories = map[string]factory{}
)

// Register registers a backend under a kind (e.g. "sqlite", "postgres").
//
// When to use:
//   - Call Register from an init() function in a backend package.
//   - The `kind` string becomes the lookup key used by New.
//
// Panics:
//   - If kind is empty.
//   - If f is nil.
//   - If kind is already registered. This is intentional to fail fast and
//     avoid ambiguous backend selection.
func Register(kind string, f factory) {
	regMu.Lock()
	defer regMu.Unlock()

	if kind == "" {
		panic("storage: Register called with empty kind")
	}
	if f == nil {
		panic("storage: Register called with nil factory")
	}
	if _, exists := factories[kind]; exists {
		panic(fmt.Sprintf("storage: factory already registered for kind=%q", kind))
	}

	factories[kind] = f
}

// New constructs a Repository using the registered backend factory.
//
// Concurrency:
//   - Safe for concurrent use with Register. New takes a read lock while
//     selecting the factory.
//
// Errors:
//   - Returns an error if cfg.Kind is empty or unsupported.
//   - Returns whatever error the registered factory returns.
func New(ctx context.Context, cfg Config) (Repository, error) {
	if cfg.Kind == "" {
		return nil, fmt.Errorf("storage: missing Kind")
	}

	regMu.RLock()
	f := factories[cfg.Kind]
	regMu.RUnlock()

	if f == nil {
		return nil, fmt.Errorf("unsupported storage.kind=%s", cfg.Kind)
	}
	return f(ctx, cfg)
}

// CheckReadOnly validates that a statement is read-only by its leading
// keyword. Shared by every backend so the guard cannot drift.
func CheckReadOnly(q string) error {
	s := strings.TrimSpace(q)
	if s == "" {
		return ErrReadOnly
	}
	first := strings.ToLower(strings.Fields(s)[0])
	switch first {
	case "select", "pragma", "explain":
		return nil
	default:
		return ErrReadOnly
	}
}

// OrderRows aligns record maps to a spec's column order for bulk insert.
// Missing declared columns become nil; unknown keys fail the batch.
func OrderRows(spec TableSpec, rows []map[string]any) ([][]any, error) {
	cols := spec.ColumnNames()
	set := spec.ColumnSet()

	out := make([][]any, 0, len(rows))
	for i, rec := range rows {
		for k := range rec {
			if !set[k] {
				return nil, fmt.Errorf("storage: table %s: row %d has unknown column %q", spec.Name, i, k)
			}
		}
		vals := make([]any, len(cols))
		for j, c := range cols {
			vals[j] = rec[c]
		}
		out = append(out, vals)
	}
	return out, nil
}
