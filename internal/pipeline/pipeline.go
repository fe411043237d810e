// Package pipeline orchestrates one ETL run: scan the input directory,
// parse and identify each eSocial file, extract its records into the
// store in batches, then render the CSV templates. Files are isolated
// from each other; only storage and context errors abort a run.
package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"esocialetl/internal/config"
	"esocialetl/internal/export"
	"esocialetl/internal/extract"
	"esocialetl/internal/layout"
	"esocialetl/internal/metrics"
	"esocialetl/internal/schema"
	"esocialetl/internal/storage"
	"esocialetl/internal/tree"
	"esocialetl/internal/validate"
)

type Logger interface {
	Printf(format string, v ...any)
}

type nopLogger struct{}

func (nopLogger) Printf(string, ...any) {}

// File outcomes, also used as the metrics status label.
const (
	statusOK      = "ok"
	statusFailed  = "failed"
	statusSkipped = "skipped"
)

// Stats summarizes one run.
type Stats struct {
	Files     int
	Processed int
	Failed    int
	Skipped   int
	Rows      int64
	Batches   int

	Export export.Stats
}

type Pipeline struct {
	cfg  config.Config
	repo storage.Repository
	set  *extract.Set
	log  Logger
	now  func() time.Time
}

// New compiles the layout specs (built-in, or the external layouts file
// when configured) and binds the pipeline to a repository.
func New(cfg config.Config, repo storage.Repository, log Logger) (*Pipeline, error) {
	if log == nil {
		log = nopLogger{}
	}
	specs := extract.DefaultSpecs()
	if cfg.LayoutsFile != "" {
		var err error
		if specs, err = extract.LoadSpecs(cfg.LayoutsFile); err != nil {
			return nil, err
		}
	}
	set, err := extract.Compile(specs)
	if err != nil {
		return nil, err
	}
	return &Pipeline{cfg: cfg, repo: repo, set: set, log: log, now: time.Now}, nil
}

// SetClock replaces the timestamp source used for raw ad-hoc records and
// for extraction stamps. Tests use it to pin data_importacao.
func (p *Pipeline) SetClock(now func() time.Time) {
	p.now = now
	p.set.SetClock(now)
}

// Run ingests then exports.
func Run(ctx context.Context, cfg config.Config, repo storage.Repository, log Logger) (Stats, error) {
	p, err := New(cfg, repo, log)
	if err != nil {
		return Stats{}, err
	}
	return p.Run(ctx)
}

func (p *Pipeline) Run(ctx context.Context) (Stats, error) {
	stats, err := p.Ingest(ctx)
	if err != nil {
		return stats, err
	}
	stats.Export, err = p.Export(ctx)
	return stats, err
}

// Ingest processes every *.xml under the input directory. Per-file
// problems are logged and counted; the returned error is reserved for
// storage failures and cancellation.
func (p *Pipeline) Ingest(ctx context.Context) (Stats, error) {
	var stats Stats
	if err := p.repo.EnsureTables(ctx, schema.TableList()); err != nil {
		return stats, fmt.Errorf("ensure tables: %w", err)
	}

	paths, err := listXML(p.cfg.Input.Dir)
	if err != nil {
		return stats, err
	}
	if len(paths) == 0 {
		p.log.Printf("ingest: no xml files in %s", p.cfg.Input.Dir)
	}

	b := newBatcher(p.repo, p.cfg.Runtime.BatchSize)
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		start := p.now()
		status, err := p.ingestFile(ctx, path, b)
		stats.Files++
		switch status {
		case statusOK:
			stats.Processed++
		case statusSkipped:
			stats.Skipped++
		default:
			stats.Failed++
		}
		metrics.IncCounter(metrics.FilesTotal, 1, metrics.Labels{"status": status})
		metrics.ObserveHistogram(metrics.FileSeconds, time.Since(start).Seconds(), metrics.Labels{"status": status})
		if err != nil {
			return stats, err
		}
	}
	if err := b.flushAll(ctx); err != nil {
		return stats, err
	}
	stats.Rows = b.rows
	stats.Batches = b.batches
	p.log.Printf("ingest: %d files (%d ok, %d failed, %d skipped), %d rows in %d batches",
		stats.Files, stats.Processed, stats.Failed, stats.Skipped, stats.Rows, stats.Batches)
	p.reportMissingLayouts(ctx)
	return stats, nil
}

// reportMissingLayouts warns for each mandatory layout whose table holds
// no rows after a run. Every standard layout feeds at least one template,
// so an empty table means an empty CSV downstream.
func (p *Pipeline) reportMissingLayouts(ctx context.Context) {
	names, err := p.repo.Tables(ctx)
	if err != nil {
		p.log.Printf("ingest: list tables: %v", err)
		return
	}
	existing := make(map[string]bool, len(names))
	for _, n := range names {
		existing[n] = true
	}

	tables := schema.Tables()
	for _, code := range layout.KnownCodes() {
		spec, ok := tables[code]
		if !ok {
			continue
		}
		if !existing[spec.Name] {
			p.log.Printf("ingest: layout %s: no records ingested (table %s missing)", code, spec.Name)
			continue
		}
		n, err := p.repo.Count(ctx, spec.Name)
		if err != nil {
			p.log.Printf("ingest: count %s: %v", spec.Name, err)
			continue
		}
		if n == 0 {
			p.log.Printf("ingest: layout %s: no records ingested", code)
		}
	}
}

// ingestFile handles one file and reports its outcome. A non-nil error
// means storage is broken and the run must stop.
func (p *Pipeline) ingestFile(ctx context.Context, path string, b *batcher) (string, error) {
	name := filepath.Base(path)

	// Filename prefilter: a file naming no known layout is skipped without
	// being opened at all.
	if p.cfg.Input.FilterByLayout && filenameCode(name) == "" {
		p.log.Printf("ingest %s: name matches no known layout", name)
		return statusSkipped, nil
	}

	fi, err := os.Stat(path)
	if err != nil {
		p.log.Printf("ingest %s: %v", name, err)
		return statusFailed, nil
	}
	if min := p.cfg.Input.MinFileBytes; min > 0 && fi.Size() < int64(min) {
		p.log.Printf("ingest %s: %d bytes, below minimum %d", name, fi.Size(), min)
		return statusSkipped, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		p.log.Printf("ingest %s: %v", name, err)
		return statusFailed, nil
	}
	doc, err := tree.ParseBytes(raw)
	if err != nil {
		p.log.Printf("ingest %s: parse: %v", name, err)
		return statusFailed, nil
	}

	code, ev, err := layout.Identify(doc)
	if err != nil {
		p.log.Printf("ingest %s: %v", name, err)
		return statusSkipped, nil
	}
	if p.cfg.Input.FilterByLayout {
		if named := filenameCode(name); named != "" && named != code {
			p.log.Printf("ingest %s: name says %s, content is %s", name, named, code)
			return statusSkipped, nil
		}
	}

	if !p.set.Known(code) {
		if err := p.storeRaw(ctx, code, ev, b); err != nil {
			return statusFailed, err
		}
		p.log.Printf("ingest %s: no extraction for layout %s, stored raw payload", name, code)
		return statusSkipped, nil
	}

	recs, err := p.set.Extract(code, ev)
	if err != nil {
		p.log.Printf("ingest %s: extract: %v", name, err)
		return statusFailed, nil
	}

	total := 0
	for _, table := range sortedKeys(recs) {
		rows := recs[table]
		for _, rec := range rows {
			validate.Sanitize(code, rec, p.log)
		}
		if err := b.add(ctx, table, rows); err != nil {
			return statusFailed, err
		}
		total += len(rows)
	}
	p.log.Printf("ingest %s: layout %s, %d records", name, code, total)
	return statusOK, nil
}

// storeRaw keeps an unmapped evt* event in its ad-hoc table so newer
// layout revisions are stored rather than dropped.
func (p *Pipeline) storeRaw(ctx context.Context, code string, ev tree.Tree, b *batcher) error {
	raw, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal raw event: %w", err)
	}
	rec := map[string]any{
		"cnpj_empregador":    employerID(ev),
		schema.ColJSONData:   string(raw),
		schema.ColImportedAt: p.now().UTC().Format(time.RFC3339),
	}
	return b.addSpec(ctx, schema.AdHocTable(code), []map[string]any{rec})
}

// Export renders the CSV templates from whatever the store holds.
func (p *Pipeline) Export(ctx context.Context) (export.Stats, error) {
	specs := export.DefaultTemplates()
	if p.cfg.TemplatesFile != "" {
		var err error
		if specs, err = export.LoadTemplates(p.cfg.TemplatesFile); err != nil {
			return export.Stats{}, err
		}
	}
	ex := export.New(p.repo, p.cfg.Export.TemplatesDir, p.cfg.Export.OutputDir, p.cfg.Export.Options, p.log)
	stats, err := ex.ExportAll(ctx, specs)
	if err == nil {
		p.log.Printf("export: %d/%d templates written, %d rows", stats.Written, stats.Templates, stats.Rows)
	}
	return stats, err
}

// listXML collects every *.xml under dir, descending into subdirectories.
func listXML(dir string) ([]string, error) {
	var out []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if strings.EqualFold(filepath.Ext(d.Name()), ".xml") {
			out = append(out, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("read input dir: %w", err)
	}
	sort.Strings(out)
	return out, nil
}

// filenameCode returns the first known layout code a file name mentions,
// or "" when the name is silent about layouts.
func filenameCode(name string) string {
	for _, code := range layout.KnownCodes() {
		if layout.MatchesFilename(name, code) {
			return code
		}
	}
	return ""
}

// employerID reads ideEmpregador/nrInsc, normally a direct child of the
// event element. Nonstandard nesting falls back to a descendant search.
func employerID(ev tree.Tree) string {
	if v, ok := ev.Walk("ideEmpregador", "nrInsc"); ok {
		s, _ := tree.Text(v)
		return strings.TrimSpace(s)
	}
	var cur any = ev
	for _, seg := range []string{"ideEmpregador", "nrInsc"} {
		t, ok := cur.(tree.Tree)
		if !ok {
			return ""
		}
		if cur, ok = tree.FindFirst(t, seg); !ok {
			return ""
		}
	}
	s, _ := tree.Text(cur)
	return strings.TrimSpace(s)
}

func sortedKeys(recs extract.Records) []string {
	out := make([]string, 0, len(recs))
	for k := range recs {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// batcher buffers records per table and writes them in InsertRows
// batches. Built-in tables are ensured up front; ad-hoc specs are
// ensured the first time they appear.
type batcher struct {
	repo    storage.Repository
	size    int
	specs   map[string]storage.TableSpec
	buf     map[string][]map[string]any
	rows    int64
	batches int
}

func newBatcher(repo storage.Repository, size int) *batcher {
	if size <= 0 {
		size = config.DefaultBatchSize
	}
	specs := make(map[string]storage.TableSpec)
	for _, ts := range schema.TableList() {
		specs[ts.Name] = ts
	}
	return &batcher{
		repo:  repo,
		size:  size,
		specs: specs,
		buf:   make(map[string][]map[string]any),
	}
}

func (b *batcher) add(ctx context.Context, table string, rows []map[string]any) error {
	spec, ok := b.specs[table]
	if !ok {
		return fmt.Errorf("no table spec for %s", table)
	}
	return b.addSpec(ctx, spec, rows)
}

func (b *batcher) addSpec(ctx context.Context, spec storage.TableSpec, rows []map[string]any) error {
	if len(rows) == 0 {
		return nil
	}
	if _, ok := b.specs[spec.Name]; !ok {
		if err := b.repo.EnsureTables(ctx, []storage.TableSpec{spec}); err != nil {
			return fmt.Errorf("ensure %s: %w", spec.Name, err)
		}
		b.specs[spec.Name] = spec
	}
	b.buf[spec.Name] = append(b.buf[spec.Name], rows...)
	if len(b.buf[spec.Name]) >= b.size {
		return b.flush(ctx, spec.Name)
	}
	return nil
}

func (b *batcher) flush(ctx context.Context, table string) error {
	rows := b.buf[table]
	if len(rows) == 0 {
		return nil
	}
	n, err := b.repo.InsertRows(ctx, b.specs[table], rows)
	if err != nil {
		return fmt.Errorf("insert %s: %w", table, err)
	}
	b.buf[table] = nil
	b.rows += n
	b.batches++
	metrics.IncCounter(metrics.RowsTotal, float64(n), metrics.Labels{"table": table})
	metrics.IncCounter(metrics.BatchesTotal, 1, nil)
	return nil
}

func (b *batcher) flushAll(ctx context.Context) error {
	tables := make([]string, 0, len(b.buf))
	for t := range b.buf {
		tables = append(tables, t)
	}
	sort.Strings(tables)
	for _, t := range tables {
		if err := b.flush(ctx, t); err != nil {
			return err
		}
	}
	return nil
}
