package metrics

import "testing"

type recording struct {
	counters   map[string]float64
	histograms map[string][]float64
}

func (r *recording) IncCounter(name string, delta float64, _ Labels) {
	r.counters[name] += delta
}

func (r *recording) ObserveHistogram(name string, value float64, _ Labels) {
	r.histograms[name] = append(r.histograms[name], value)
}

func TestSetBackendForwarding(t *testing.T) {
	r := &recording{counters: map[string]float64{}, histograms: map[string][]float64{}}
	SetBackend(r)
	t.Cleanup(func() { SetBackend(nil) })

	IncCounter(FilesTotal, 2, Labels{"status": "ok"})
	ObserveHistogram(FileSeconds, 0.25, nil)

	if r.counters[FilesTotal] != 2 {
		t.Errorf("counter=%v, want 2", r.counters[FilesTotal])
	}
	if len(r.histograms[FileSeconds]) != 1 {
		t.Errorf("histogram samples=%v, want 1", r.histograms[FileSeconds])
	}
}

func TestNilBackendRestoresNop(t *testing.T) {
	SetBackend(nil)
	if _, ok := Default().(Nop); !ok {
		t.Fatalf("Default()=%T, want Nop", Default())
	}
	// Nop must swallow everything without panicking.
	IncCounter(RowsTotal, 1, nil)
	ObserveHistogram(FileSeconds, 1, nil)
}
