package datadog

import (
	"context"
	"errors"
	"net/http"
	"os"
	"sort"
	"sync"
	"testing"
	"time"

	"esocialetl/internal/metrics"

	"github.com/DataDog/datadog-api-client-go/v2/api/datadogV2"
)

// fakeSubmitter captures payloads submitted by Backend.Flush().
type fakeSubmitter struct {
	mu       sync.Mutex
	payloads []datadogV2.MetricPayload
	err      error
}

func (f *fakeSubmitter) SubmitMetrics(ctx context.Context, body datadogV2.MetricPayload, params ...datadogV2.SubmitMetricsOptionalParameters) (datadogV2.IntakePayloadAccepted, *http.Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.payloads = append(f.payloads, body)
	return datadogV2.IntakePayloadAccepted{}, nil, f.err
}

func (f *fakeSubmitter) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.payloads)
}

func (f *fakeSubmitter) last() (datadogV2.MetricPayload, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.payloads) == 0 {
		return datadogV2.MetricPayload{}, false
	}
	return f.payloads[len(f.payloads)-1], true
}

func testOptions(fs *fakeSubmitter) Options {
	return Options{
		JobName:    "job1",
		FlushEvery: 24 * time.Hour,
		submitter:  fs,
		now:        func() time.Time { return time.Unix(1000, 0) },
		newTicker:  func(d time.Duration) *time.Ticker { return time.NewTicker(24 * time.Hour) },
	}
}

func contains(ss []string, want string) bool {
	for _, s := range ss {
		if s == want {
			return true
		}
	}
	return false
}

func TestResolveEnvTag(t *testing.T) {
	oldENV := os.Getenv("ENV")
	oldDDENV := os.Getenv("DD_ENV")
	t.Cleanup(func() {
		os.Setenv("ENV", oldENV)
		os.Setenv("DD_ENV", oldDDENV)
	})

	os.Setenv("ENV", "prod")
	os.Setenv("DD_ENV", "staging")
	if got := resolveEnvTag(); got != "env:prod" {
		t.Errorf("resolveEnvTag()=%q, want env:prod (ENV wins)", got)
	}

	os.Setenv("ENV", "  ")
	if got := resolveEnvTag(); got != "env:staging" {
		t.Errorf("resolveEnvTag()=%q, want env:staging", got)
	}

	os.Setenv("ENV", "")
	os.Setenv("DD_ENV", "")
	if got := resolveEnvTag(); got != "env:unknown" {
		t.Errorf("resolveEnvTag()=%q, want env:unknown", got)
	}
}

func TestWithTags(t *testing.T) {
	base := []string{"env:test", "job:j"}
	got := withTags(base, "table:esocial_s2200")
	if len(got) != 3 || got[2] != "table:esocial_s2200" {
		t.Fatalf("withTags=%v", got)
	}
	if len(base) != 2 {
		t.Fatalf("base mutated: %v", base)
	}
}

func TestPercentileNearestRank(t *testing.T) {
	s := []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
	cases := []struct {
		p    float64
		want float64
	}{
		{0, 1},
		{0.5, 6},
		{1, 10},
	}
	for _, tc := range cases {
		if got := percentileNearestRank(s, tc.p); got != tc.want {
			t.Errorf("percentile(%v)=%v, want %v", tc.p, got, tc.want)
		}
	}
	if got := percentileNearestRank(nil, 0.5); got != 0 {
		t.Errorf("percentile(empty)=%v, want 0", got)
	}
}

func TestFlushSubmitsAndResets(t *testing.T) {
	fs := &fakeSubmitter{}
	b, err := NewBackend(context.Background(), testOptions(fs))
	if err != nil {
		t.Fatalf("NewBackend: %v", err)
	}
	defer func() { _ = b.Close() }()

	b.IncCounter(metrics.FilesTotal, 2, metrics.Labels{"status": "ok"})
	b.IncCounter(metrics.RowsTotal, 40, metrics.Labels{"table": "esocial_s2200"})
	b.IncCounter(metrics.BatchesTotal, 1, nil)
	b.IncCounter(metrics.TemplatesTotal, 9, metrics.Labels{"status": "ok"})
	b.IncCounter(metrics.ExportRows, 12, metrics.Labels{"template": "07_CARGOS.csv"})
	b.ObserveHistogram(metrics.FileSeconds, 0.5, metrics.Labels{"status": "ok"})

	if err := b.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	if fs.count() != 1 {
		t.Fatalf("submit calls=%d, want 1", fs.count())
	}
	if len(b.fileCounts) != 0 || len(b.rowCounts) != 0 || b.batchCount != 0 ||
		len(b.templateCounts) != 0 || len(b.exportRows) != 0 || len(b.fileDur) != 0 {
		t.Fatalf("buffers not reset after Flush")
	}

	payload, ok := fs.last()
	if !ok {
		t.Fatalf("missing payload")
	}
	var names []string
	for _, s := range payload.Series {
		names = append(names, s.Metric)
	}
	sort.Strings(names)

	want := []string{
		"esocial.files.total",
		"esocial.rows.total",
		"esocial.batches.total",
		"esocial.templates.total",
		"esocial.export.rows.total",
		"esocial.file_seconds.p50",
		"esocial.file_seconds.samples",
	}
	for _, w := range want {
		if !contains(names, w) {
			t.Fatalf("payload missing metric %q; got=%v", w, names)
		}
	}
}

func TestFlushNoDataDoesNotSubmit(t *testing.T) {
	fs := &fakeSubmitter{}
	b, err := NewBackend(context.Background(), testOptions(fs))
	if err != nil {
		t.Fatalf("NewBackend: %v", err)
	}
	defer func() { _ = b.Close() }()

	if err := b.Flush(); err != nil {
		t.Fatalf("Flush empty: %v", err)
	}
	if fs.count() != 0 {
		t.Fatalf("submit calls=%d, want 0", fs.count())
	}
}

func TestFlushReturnsSubmitError(t *testing.T) {
	fs := &fakeSubmitter{err: errors.New("intake down")}
	b, err := NewBackend(context.Background(), testOptions(fs))
	if err != nil {
		t.Fatalf("NewBackend: %v", err)
	}
	b.IncCounter(metrics.FilesTotal, 1, metrics.Labels{"status": "failed"})
	if err := b.Flush(); err == nil {
		t.Fatal("Flush: want submit error")
	}
	// Buffers reset regardless of the submit outcome.
	if len(b.fileCounts) != 0 {
		t.Fatal("buffers not reset after failed Flush")
	}
	close(b.stopCh)
	<-b.doneCh
}

func TestLoopAndClose(t *testing.T) {
	fs := &fakeSubmitter{}
	opts := testOptions(fs)
	opts.FlushEvery = time.Millisecond
	opts.newTicker = time.NewTicker

	b, err := NewBackend(context.Background(), opts)
	if err != nil {
		t.Fatalf("NewBackend: %v", err)
	}
	b.IncCounter(metrics.FilesTotal, 1, metrics.Labels{"status": "ok"})

	deadline := time.Now().Add(2 * time.Second)
	for fs.count() == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if fs.count() == 0 {
		t.Fatal("flush loop never submitted")
	}
	if err := b.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
}

func TestCounterAndHistogramEdgeCases(t *testing.T) {
	fs := &fakeSubmitter{}
	b, err := NewBackend(context.Background(), testOptions(fs))
	if err != nil {
		t.Fatalf("NewBackend: %v", err)
	}
	defer func() { _ = b.Close() }()

	b.IncCounter(metrics.FilesTotal, 0, metrics.Labels{"status": "ok"})
	b.IncCounter(metrics.FilesTotal, -1, metrics.Labels{"status": "ok"})
	b.IncCounter(metrics.RowsTotal, 5, nil)
	b.IncCounter("unknown_counter", 5, nil)
	b.ObserveHistogram(metrics.FileSeconds, -0.1, metrics.Labels{"status": "ok"})
	b.ObserveHistogram("unknown_histogram", 1, nil)

	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.fileCounts) != 0 || len(b.rowCounts) != 0 || len(b.fileDur) != 0 {
		t.Fatalf("edge-case observations should be dropped: %+v", b)
	}
}

func TestConcurrentAccess(t *testing.T) {
	fs := &fakeSubmitter{}
	b, err := NewBackend(context.Background(), testOptions(fs))
	if err != nil {
		t.Fatalf("NewBackend: %v", err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				b.IncCounter(metrics.RowsTotal, 1, metrics.Labels{"table": "esocial_s2230"})
				b.ObserveHistogram(metrics.FileSeconds, 0.01, metrics.Labels{"status": "ok"})
				_ = b.Flush()
			}
		}()
	}
	wg.Wait()
	if err := b.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
}

func TestParseTagsCSV(t *testing.T) {
	cases := []struct {
		in   string
		want int
	}{
		{"", 0},
		{"env:prod", 1},
		{"env:prod, service:etl ,", 2},
	}
	for _, tc := range cases {
		if got := ParseTagsCSV(tc.in); len(got) != tc.want {
			t.Errorf("ParseTagsCSV(%q)=%v, want %d tags", tc.in, got, tc.want)
		}
	}
}
