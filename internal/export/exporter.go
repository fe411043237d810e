// Package export renders the normalized event tables into the destination
// system's semicolon CSV templates. Each template resolves its columns
// against a source query's rows plus their stored event payloads; one
// broken template never stops the others.
package export

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"esocialetl/internal/config"
	"esocialetl/internal/metrics"
	"esocialetl/internal/resolve"
	"esocialetl/internal/schema"
	"esocialetl/internal/storage"
	"esocialetl/internal/tree"
)

type Logger interface {
	Printf(format string, v ...any)
}

type Exporter struct {
	repo         storage.Repository
	templatesDir string
	outDir       string
	comma        rune
	bom          bool
	log          Logger
}

// New binds an exporter to a repository. opts may carry "comma" (one
// character delimiter) and "bom"; the defaults match what the destination
// system imports.
func New(repo storage.Repository, templatesDir, outDir string, opts config.Options, log Logger) *Exporter {
	return &Exporter{
		repo:         repo,
		templatesDir: templatesDir,
		outDir:       outDir,
		comma:        opts.Rune("comma", ';'),
		bom:          opts.Bool("bom", true),
		log:          log,
	}
}

// Stats summarizes one export run.
type Stats struct {
	Templates int
	Written   int
	Failed    int
	Rows      int
}

// ExportAll renders every template spec. A failing template is logged,
// left as a header-only file and counted; the run keeps going. The error
// return is only non-nil when the context is cancelled.
func (e *Exporter) ExportAll(ctx context.Context, specs []TemplateSpec) (Stats, error) {
	stats := Stats{Templates: len(specs)}
	for _, spec := range specs {
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		cols, formats := e.columns(spec)
		outPath := filepath.Join(e.outDir, spec.File)

		rows, err := e.render(ctx, spec, cols, formats)
		if err != nil {
			e.log.Printf("export %s: %v", spec.File, err)
			stats.Failed++
			metrics.IncCounter(metrics.TemplatesTotal, 1, metrics.Labels{"status": "failed"})
			e.writeEmpty(outPath, cols)
			continue
		}
		if err := WriteCSVWith(outPath, cols, rows, e.comma, e.bom); err != nil {
			e.log.Printf("export %s: write: %v", spec.File, err)
			stats.Failed++
			metrics.IncCounter(metrics.TemplatesTotal, 1, metrics.Labels{"status": "failed"})
			continue
		}
		stats.Written++
		stats.Rows += len(rows)
		metrics.IncCounter(metrics.TemplatesTotal, 1, metrics.Labels{"status": "ok"})
		metrics.IncCounter(metrics.ExportRows, float64(len(rows)), metrics.Labels{"template": spec.File})
		e.log.Printf("export %s: %d rows", spec.File, len(rows))
	}
	return stats, nil
}

// columns reads the physical template header when present, otherwise the
// built-in column list. The map gives the destination labels authority
// over what the CSV looks like; mappings only fill cells in.
func (e *Exporter) columns(spec TemplateSpec) ([]string, map[string]string) {
	if e.templatesDir != "" {
		path := filepath.Join(e.templatesDir, spec.File)
		if cols, formats, err := ReadHeader(path); err == nil {
			return cols, formats
		} else if !os.IsNotExist(err) {
			e.log.Printf("export %s: template header: %v", spec.File, err)
		}
	}
	if cols := FallbackColumns(spec.File); cols != nil {
		return cols, nil
	}
	var cols []string
	for _, f := range spec.Fields {
		cols = append(cols, f.Column)
	}
	return cols, nil
}

func (e *Exporter) render(ctx context.Context, spec TemplateSpec, cols []string, formats map[string]string) ([][]string, error) {
	q, ok := schema.ExportQueries[spec.Source]
	if !ok {
		q = "SELECT * FROM " + spec.Source
	}
	recs, err := e.repo.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", spec.Source, err)
	}

	byColumn := make(map[string]resolve.FieldDef, len(spec.Fields))
	for _, f := range spec.Fields {
		byColumn[f.Column] = f
	}

	rows := make([][]string, 0, len(recs))
	for _, rec := range recs {
		payload := decodePayload(rec)
		if !keep(spec.Filter, rec, payload) {
			continue
		}
		row := make([]string, len(cols))
		for i, label := range cols {
			def, ok := byColumn[label]
			if !ok {
				continue
			}
			raw := resolve.Value(rec, payload, def)
			v := resolve.Display(raw, def.Format)
			if hint, ok := formats[label]; ok {
				v = resolve.ApplyHint(v, hint)
			}
			row[i] = v
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func decodePayload(rec map[string]any) tree.Tree {
	raw, _ := rec[schema.ColJSONData].(string)
	if raw == "" {
		if b, ok := rec[schema.ColJSONData].([]byte); ok {
			raw = string(b)
		}
	}
	if raw == "" {
		return nil
	}
	t, err := tree.FromJSON([]byte(raw))
	if err != nil {
		return nil
	}
	return t
}

func keep(f *Filter, rec map[string]any, payload tree.Tree) bool {
	if f == nil {
		return true
	}
	if f.Column != "" {
		v := resolve.Value(rec, nil, resolve.FieldDef{Column: f.Column})
		match := false
		for _, want := range f.Equals {
			if v == want {
				match = true
				break
			}
		}
		if !match {
			return false
		}
	}
	if len(f.RequirePath) > 0 {
		if payload == nil {
			return false
		}
		cur := payload
		for _, seg := range f.RequirePath {
			v, ok := tree.FindFirst(cur, seg)
			if !ok {
				return false
			}
			if t, ok := v.(tree.Tree); ok {
				cur = t
			} else if list := tree.List(v); len(list) > 0 {
				if t, ok := list[0].(tree.Tree); ok {
					cur = t
				}
			}
		}
	}
	return true
}

// writeEmpty leaves a header-only file so the destination system's import
// job always finds the full set.
func (e *Exporter) writeEmpty(path string, cols []string) {
	if err := WriteCSVWith(path, cols, nil, e.comma, e.bom); err != nil {
		e.log.Printf("export %s: empty file: %v", filepath.Base(path), err)
	}
}
