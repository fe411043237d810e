// Package metrics defines the minimal backend abstraction the pipeline
// reports into. The core never imports a vendor SDK; backends live in
// subpackages and are selected at startup.
package metrics

// Labels tag a single observation.
type Labels map[string]string

// Backend receives counter increments and histogram samples. Backends
// must tolerate metric names they do not know.
type Backend interface {
	IncCounter(name string, delta float64, labels Labels)
	ObserveHistogram(name string, value float64, labels Labels)
}

// Metric names emitted by the pipeline and exporter.
const (
	FilesTotal     = "esocial_files_total"      // labels: status=ok|failed|skipped
	RowsTotal      = "esocial_rows_total"       // labels: table
	BatchesTotal   = "esocial_batches_total"    // no labels
	TemplatesTotal = "esocial_templates_total"  // labels: status=ok|failed
	FileSeconds    = "esocial_file_seconds"     // labels: status
	ExportRows     = "esocial_export_rows_total" // labels: template
)

// Nop discards everything. It is the default backend so callers never
// nil-check.
type Nop struct{}

func (Nop) IncCounter(string, float64, Labels)       {}
func (Nop) ObserveHistogram(string, float64, Labels) {}

var backend Backend = Nop{}

// SetBackend installs the process-wide backend. Pass nil to restore the
// no-op backend.
func SetBackend(b Backend) {
	if b == nil {
		backend = Nop{}
		return
	}
	backend = b
}

// Default returns the installed backend.
func Default() Backend { return backend }

// IncCounter forwards to the installed backend.
func IncCounter(name string, delta float64, labels Labels) {
	backend.IncCounter(name, delta, labels)
}

// ObserveHistogram forwards to the installed backend.
func ObserveHistogram(name string, value float64, labels Labels) {
	backend.ObserveHistogram(name, value, labels)
}
