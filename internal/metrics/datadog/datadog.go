// Package datadog implements a Datadog backend for internal/metrics.
//
// Observations are buffered in memory and submitted on a flush ticker,
// with one final flush on Close, so long imports show up as a time
// series instead of a single spike at exit.
package datadog

import (
	"context"
	"net/http"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"esocialetl/internal/metrics"

	dd "github.com/DataDog/datadog-api-client-go/v2/api/datadog"
	"github.com/DataDog/datadog-api-client-go/v2/api/datadogV2"
)

// Options controls Datadog backend configuration.
type Options struct {
	// JobName becomes tag "job:<name>" on every metric. Defaults to
	// "esocial_etl".
	JobName string

	// Tags are extra Datadog tags (e.g. []string{"env:prod"}).
	Tags []string

	// FlushEvery controls the submission interval. <= 0 means 60s.
	FlushEvery time.Duration

	// Unexported test seams. Production code never sets them.
	now       func() time.Time
	newTicker func(d time.Duration) *time.Ticker
	submitter metricsSubmitter
}

// metricsSubmitter lets tests stub out the concrete Datadog MetricsApi.
type metricsSubmitter interface {
	SubmitMetrics(ctx context.Context, body datadogV2.MetricPayload, params ...datadogV2.SubmitMetricsOptionalParameters) (datadogV2.IntakePayloadAccepted, *http.Response, error)
}

// Backend implements metrics.Backend for Datadog.
type Backend struct {
	api metricsSubmitter
	ctx context.Context

	flushEvery time.Duration
	stopCh     chan struct{}
	doneCh     chan struct{}

	baseTags []string

	now       func() time.Time
	newTicker func(d time.Duration) *time.Ticker

	mu sync.Mutex

	fileCounts     map[string]float64 // status -> files
	rowCounts      map[string]float64 // table -> rows
	templateCounts map[string]float64 // status -> templates
	exportRows     map[string]float64 // template -> rows
	batchCount     float64
	fileDur        map[string][]float64 // status -> parse+store seconds
}

func resolveEnvTag() string {
	if v := strings.TrimSpace(os.Getenv("ENV")); v != "" {
		return "env:" + v
	}
	if v := strings.TrimSpace(os.Getenv("DD_ENV")); v != "" {
		return "env:" + v
	}
	return "env:unknown"
}

// NewBackend constructs a Datadog backend using the official client and
// starts its flush loop.
func NewBackend(parent context.Context, opts Options) (*Backend, error) {
	job := opts.JobName
	if job == "" {
		job = "esocial_etl"
	}
	flushEvery := opts.FlushEvery
	if flushEvery <= 0 {
		flushEvery = 60 * time.Second
	}

	baseTags := make([]string, 0, 2+len(opts.Tags))
	baseTags = append(baseTags, resolveEnvTag(), "job:"+job)
	baseTags = append(baseTags, opts.Tags...)

	nowFn := opts.now
	if nowFn == nil {
		nowFn = time.Now
	}
	newTicker := opts.newTicker
	if newTicker == nil {
		newTicker = time.NewTicker
	}
	submitter := opts.submitter
	if submitter == nil {
		cfg := dd.NewConfiguration()
		submitter = datadogV2.NewMetricsApi(dd.NewAPIClient(cfg))
	}

	b := &Backend{
		api:        submitter,
		ctx:        dd.NewDefaultContext(parent),
		flushEvery: flushEvery,
		stopCh:     make(chan struct{}),
		doneCh:     make(chan struct{}),
		baseTags:   baseTags,
		now:        nowFn,
		newTicker:  newTicker,

		fileCounts:     make(map[string]float64),
		rowCounts:      make(map[string]float64),
		templateCounts: make(map[string]float64),
		exportRows:     make(map[string]float64),
		fileDur:        make(map[string][]float64),
	}
	go b.loop()
	return b, nil
}

func (b *Backend) loop() {
	defer close(b.doneCh)
	t := b.newTicker(b.flushEvery)
	defer t.Stop()
	for {
		select {
		case <-t.C:
			_ = b.Flush()
		case <-b.stopCh:
			return
		}
	}
}

// Close stops the flush loop and performs one final Flush. Close must be
// called at most once.
func (b *Backend) Close() error {
	close(b.stopCh)
	<-b.doneCh
	return b.Flush()
}

// IncCounter implements metrics.Backend.
func (b *Backend) IncCounter(name string, delta float64, labels metrics.Labels) {
	if delta <= 0 {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	switch name {
	case metrics.FilesTotal:
		b.fileCounts[labelOr(labels, "status", "unknown")] += delta
	case metrics.RowsTotal:
		table := labels["table"]
		if table == "" {
			return
		}
		b.rowCounts[table] += delta
	case metrics.BatchesTotal:
		b.batchCount += delta
	case metrics.TemplatesTotal:
		b.templateCounts[labelOr(labels, "status", "unknown")] += delta
	case metrics.ExportRows:
		template := labels["template"]
		if template == "" {
			return
		}
		b.exportRows[template] += delta
	default:
		// Unknown counters are dropped.
	}
}

// ObserveHistogram implements metrics.Backend.
func (b *Backend) ObserveHistogram(name string, value float64, labels metrics.Labels) {
	if value < 0 {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	switch name {
	case metrics.FileSeconds:
		status := labelOr(labels, "status", "unknown")
		b.fileDur[status] = append(b.fileDur[status], value)
	default:
		// Unknown histograms are dropped.
	}
}

func labelOr(labels metrics.Labels, key, fallback string) string {
	if v := labels[key]; v != "" {
		return v
	}
	return fallback
}

type snapshot struct {
	fileCounts     map[string]float64
	rowCounts      map[string]float64
	templateCounts map[string]float64
	exportRows     map[string]float64
	batchCount     float64
	fileDur        map[string][]float64
}

// snapshotAndReset detaches the buffered state under the lock; payload
// building and submission happen outside it.
func (b *Backend) snapshotAndReset() snapshot {
	b.mu.Lock()
	defer b.mu.Unlock()

	s := snapshot{
		fileCounts:     b.fileCounts,
		rowCounts:      b.rowCounts,
		templateCounts: b.templateCounts,
		exportRows:     b.exportRows,
		batchCount:     b.batchCount,
		fileDur:        b.fileDur,
	}
	b.fileCounts = make(map[string]float64)
	b.rowCounts = make(map[string]float64)
	b.templateCounts = make(map[string]float64)
	b.exportRows = make(map[string]float64)
	b.batchCount = 0
	b.fileDur = make(map[string][]float64)
	return s
}

func (s snapshot) isEmpty() bool {
	return len(s.fileCounts) == 0 &&
		len(s.rowCounts) == 0 &&
		len(s.templateCounts) == 0 &&
		len(s.exportRows) == 0 &&
		s.batchCount == 0 &&
		len(s.fileDur) == 0
}

// Flush submits buffered metrics and resets the buffers. Buffers reset
// even when submission fails; reporting never blocks the import.
func (b *Backend) Flush() error {
	snap := b.snapshotAndReset()
	if snap.isEmpty() {
		return nil
	}
	payload := datadogV2.MetricPayload{Series: b.buildSeries(snap, b.now().Unix())}
	_, _, err := b.api.SubmitMetrics(b.ctx, payload, *datadogV2.NewSubmitMetricsOptionalParameters())
	return err
}

// buildSeries is pure; it centralizes naming and tagging.
func (b *Backend) buildSeries(s snapshot, nowUnix int64) []datadogV2.MetricSeries {
	series := make([]datadogV2.MetricSeries, 0, 16)

	for status, v := range s.fileCounts {
		if v != 0 {
			series = append(series, countSeries("esocial.files.total", v, withTags(b.baseTags, "status:"+status), nowUnix))
		}
	}
	for table, v := range s.rowCounts {
		if v != 0 {
			series = append(series, countSeries("esocial.rows.total", v, withTags(b.baseTags, "table:"+table), nowUnix))
		}
	}
	if s.batchCount != 0 {
		series = append(series, countSeries("esocial.batches.total", s.batchCount, b.baseTags, nowUnix))
	}
	for status, v := range s.templateCounts {
		if v != 0 {
			series = append(series, countSeries("esocial.templates.total", v, withTags(b.baseTags, "status:"+status), nowUnix))
		}
	}
	for template, v := range s.exportRows {
		if v != 0 {
			series = append(series, countSeries("esocial.export.rows.total", v, withTags(b.baseTags, "template:"+template), nowUnix))
		}
	}
	for status, samples := range s.fileDur {
		addPercentiles(&series, withTags(b.baseTags, "status:"+status), "esocial.file_seconds", samples, nowUnix)
	}
	return series
}

// addPercentiles appends the fixed percentile gauges for a sample set.
// It sorts a copy and never mutates the input.
func addPercentiles(series *[]datadogV2.MetricSeries, tags []string, prefix string, samples []float64, nowUnix int64) {
	if len(samples) == 0 {
		return
	}
	cp := append([]float64(nil), samples...)
	sort.Float64s(cp)

	*series = append(*series, gaugeSeries(prefix+".p50", percentileNearestRank(cp, 0.50), tags, nowUnix))
	*series = append(*series, gaugeSeries(prefix+".p90", percentileNearestRank(cp, 0.90), tags, nowUnix))
	*series = append(*series, gaugeSeries(prefix+".p95", percentileNearestRank(cp, 0.95), tags, nowUnix))
	*series = append(*series, gaugeSeries(prefix+".p99", percentileNearestRank(cp, 0.99), tags, nowUnix))
	*series = append(*series, gaugeSeries(prefix+".max", cp[len(cp)-1], tags, nowUnix))
	*series = append(*series, gaugeSeries(prefix+".samples", float64(len(cp)), tags, nowUnix))
}

func countSeries(metric string, value float64, tags []string, nowUnix int64) datadogV2.MetricSeries {
	return datadogV2.MetricSeries{
		Metric: metric,
		Type:   datadogV2.METRICINTAKETYPE_COUNT.Ptr(),
		Points: []datadogV2.MetricPoint{
			{Timestamp: dd.PtrInt64(nowUnix), Value: dd.PtrFloat64(value)},
		},
		Tags: tags,
	}
}

func gaugeSeries(metric string, value float64, tags []string, nowUnix int64) datadogV2.MetricSeries {
	return datadogV2.MetricSeries{
		Metric: metric,
		Type:   datadogV2.METRICINTAKETYPE_GAUGE.Ptr(),
		Points: []datadogV2.MetricPoint{
			{Timestamp: dd.PtrInt64(nowUnix), Value: dd.PtrFloat64(value)},
		},
		Tags: tags,
	}
}

func withTags(base []string, extras ...string) []string {
	out := make([]string, 0, len(base)+len(extras))
	out = append(out, base...)
	out = append(out, extras...)
	return out
}

func percentileNearestRank(s []float64, p float64) float64 {
	n := len(s)
	if n == 0 {
		return 0
	}
	if p <= 0 {
		return s[0]
	}
	if p >= 1 {
		return s[n-1]
	}
	idx := int(p*float64(n-1) + 0.5)
	if idx < 0 {
		idx = 0
	}
	if idx >= n {
		idx = n - 1
	}
	return s[idx]
}

var _ metrics.Backend = (*Backend)(nil)

// ParseTagsCSV parses comma-separated tags like "env:prod,service:etl".
func ParseTagsCSV(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
