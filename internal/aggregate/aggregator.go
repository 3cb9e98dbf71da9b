package aggregate

import (
	"fmt"
	"math"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"

	"github.com/wesleyorama2/jmdash/internal/config"
	"github.com/wesleyorama2/jmdash/internal/dataset"
)

// Histogram range in milliseconds: 1ms to 1 hour, 3 significant figures.
const (
	histogramMin     = 1
	histogramMax     = 3_600_000
	histogramSigFigs = 3
)

// top5 is the number of error columns per sampler in the top errors table.
const top5 = 5

// Config contains the APDEX thresholds used while aggregating.
type Config struct {
	// SatisfiedThreshold is T (default: 500ms)
	SatisfiedThreshold time.Duration

	// ToleratedThreshold is F (default: 1500ms)
	ToleratedThreshold time.Duration
}

// ConfigFrom builds an aggregation config from the report configuration.
func ConfigFrom(c *config.ReportConfig) Config {
	return Config{
		SatisfiedThreshold: c.Apdex.SatisfiedThreshold.GetDuration(config.DefaultSatisfiedThreshold),
		ToleratedThreshold: c.Apdex.ToleratedThreshold.GetDuration(config.DefaultToleratedThreshold),
	}
}

// labelStats accumulates the samples of one label (or of the whole run).
type labelStats struct {
	label        string
	isController bool

	hist       *hdrhistogram.Histogram
	count      int64
	failed     int64
	sum        int64
	min        int64
	max        int64
	bytes      int64
	sentBytes  int64
	satisfied  int64
	tolerating int64
	firstStart int64
	lastEnd    int64

	errors map[string]int64
}

func newLabelStats(label string, isController bool) *labelStats {
	return &labelStats{
		label:        label,
		isController: isController,
		hist:         hdrhistogram.New(histogramMin, histogramMax, histogramSigFigs),
		min:          math.MaxInt64,
		firstStart:   math.MaxInt64,
		errors:       make(map[string]int64),
	}
}

func (l *labelStats) add(s Sample, satisfiedMs, toleratedMs int64) {
	l.count++
	l.sum += s.Elapsed
	l.bytes += s.Bytes
	l.sentBytes += s.SentBytes
	if s.Elapsed < l.min {
		l.min = s.Elapsed
	}
	if s.Elapsed > l.max {
		l.max = s.Elapsed
	}
	if s.Timestamp < l.firstStart {
		l.firstStart = s.Timestamp
	}
	if s.End() > l.lastEnd {
		l.lastEnd = s.End()
	}

	// Values above the histogram range are clamped to its maximum.
	v := s.Elapsed
	if v > histogramMax {
		v = histogramMax
	}
	_ = l.hist.RecordValue(v)

	if !s.Success {
		l.failed++
		l.errors[errorType(s)]++
		return
	}
	switch {
	case s.Elapsed <= satisfiedMs:
		l.satisfied++
	case s.Elapsed <= toleratedMs:
		l.tolerating++
	}
}

// apdex returns (satisfied + tolerating/2) / count. Failed samples count as frustrated.
func (l *labelStats) apdex() float64 {
	if l.count == 0 {
		return 0
	}
	return (float64(l.satisfied) + float64(l.tolerating)/2) / float64(l.count)
}

func (l *labelStats) windowSeconds() float64 {
	if l.count == 0 || l.lastEnd <= l.firstStart {
		return 0
	}
	return float64(l.lastEnd-l.firstStart) / 1000
}

// statisticsRow returns the row in dataset.StatisticsTitles order.
func (l *labelStats) statisticsRow() dataset.RowData {
	var errorPct, mean float64
	minV, maxV := l.min, l.max
	if l.count > 0 {
		errorPct = float64(l.failed) / float64(l.count) * 100
		mean = float64(l.sum) / float64(l.count)
	} else {
		minV, maxV = 0, 0
	}

	var throughput, received, sent float64
	if window := l.windowSeconds(); window > 0 {
		throughput = float64(l.count) / window
		received = float64(l.bytes) / 1024 / window
		sent = float64(l.sentBytes) / 1024 / window
	}

	return dataset.RowData{
		IsController: l.isController,
		Data: dataset.Values(
			l.label,
			l.count,
			l.failed,
			errorPct,
			mean,
			minV,
			maxV,
			l.hist.ValueAtQuantile(50),
			l.hist.ValueAtQuantile(90),
			l.hist.ValueAtQuantile(95),
			l.hist.ValueAtQuantile(99),
			throughput,
			received,
			sent,
		),
	}
}

// topErrors returns the n most frequent error types, most frequent first.
func (l *labelStats) topErrors(n int) []errorCount {
	counts := make([]errorCount, 0, len(l.errors))
	for kind, count := range l.errors {
		counts = append(counts, errorCount{kind: kind, count: count})
	}
	sortErrorCounts(counts)
	if len(counts) > n {
		counts = counts[:n]
	}
	return counts
}

type errorCount struct {
	kind  string
	count int64
}

func sortErrorCounts(counts []errorCount) {
	sort.Slice(counts, func(i, j int) bool {
		if counts[i].count != counts[j].count {
			return counts[i].count > counts[j].count
		}
		return counts[i].kind < counts[j].kind
	})
}

// errorType names the failure of a sample: "code/message", or the assertion failure
// message when the response code itself was successful.
func errorType(s Sample) string {
	if isSuccessCode(s.ResponseCode) && s.FailureMessage != "" {
		return s.FailureMessage
	}
	if s.ResponseMessage == "" {
		return s.ResponseCode
	}
	return s.ResponseCode + "/" + s.ResponseMessage
}

func isSuccessCode(code string) bool {
	n, err := strconv.Atoi(code)
	return err == nil && n >= 200 && n < 400
}

// Aggregator accumulates samples and produces dashboard tables.
//
// Controller samples get their own rows but are left out of the Total row, the error
// tables and the pass/fail summary, so that requests are not counted twice.
type Aggregator struct {
	config Config
	labels map[string]*labelStats
	order  []string
	total  *labelStats
}

// New creates an aggregator.
func New(cfg Config) *Aggregator {
	if cfg.SatisfiedThreshold <= 0 {
		cfg.SatisfiedThreshold = config.DefaultSatisfiedThreshold
	}
	if cfg.ToleratedThreshold <= 0 {
		cfg.ToleratedThreshold = config.DefaultToleratedThreshold
	}
	return &Aggregator{
		config: cfg,
		labels: make(map[string]*labelStats),
		total:  newLabelStats(dataset.TotalLabel, false),
	}
}

// Add records one sample.
func (a *Aggregator) Add(s Sample) {
	satisfied := a.config.SatisfiedThreshold.Milliseconds()
	tolerated := a.config.ToleratedThreshold.Milliseconds()

	stats, ok := a.labels[s.Label]
	if !ok {
		stats = newLabelStats(s.Label, s.IsController())
		a.labels[s.Label] = stats
		a.order = append(a.order, s.Label)
	}
	stats.add(s, satisfied, tolerated)

	if !stats.isController {
		a.total.add(s, satisfied, tolerated)
	}
}

// Count returns the number of samples in the Total row.
func (a *Aggregator) Count() int64 {
	return a.total.count
}

// Dashboard builds every dashboard table from the recorded samples.
func (a *Aggregator) Dashboard(title string) *dataset.Dashboard {
	dash := &dataset.Dashboard{
		Title:           title,
		RequestsSummary: dataset.NewPassFailSummary(a.total.count, a.total.failed),
		Apdex:           a.apdexTable(),
		Statistics:      a.statisticsTable(),
		Errors:          a.errorsTable(),
		Top5Errors:      a.top5ErrorsTable(),
	}
	if a.total.count > 0 {
		dash.TestStart = time.UnixMilli(a.total.firstStart).UTC()
		dash.TestEnd = time.UnixMilli(a.total.lastEnd).UTC()
	}
	return dash
}

func (a *Aggregator) each(fn func(*labelStats)) {
	for _, label := range a.order {
		fn(a.labels[label])
	}
}

func (a *Aggregator) apdexTable() *dataset.ReportDataset {
	t := a.config.SatisfiedThreshold.Milliseconds()
	f := a.config.ToleratedThreshold.Milliseconds()

	ds := &dataset.ReportDataset{
		Titles:                            append([]string(nil), dataset.ApdexTitles...),
		SupportsControllersDiscrimination: true,
		Overall:                           &dataset.RowData{Data: dataset.Values(a.total.apdex(), t, f, dataset.TotalLabel)},
		Items:                             []dataset.RowData{},
	}
	a.each(func(l *labelStats) {
		ds.Items = append(ds.Items, dataset.RowData{
			IsController: l.isController,
			Data:         dataset.Values(l.apdex(), t, f, l.label),
		})
	})
	return ds
}

func (a *Aggregator) statisticsTable() *dataset.ReportDataset {
	overall := a.total.statisticsRow()
	ds := &dataset.ReportDataset{
		Titles:                            append([]string(nil), dataset.StatisticsTitles...),
		SupportsControllersDiscrimination: true,
		Overall:                           &overall,
		Items:                             []dataset.RowData{},
	}
	a.each(func(l *labelStats) {
		ds.Items = append(ds.Items, l.statisticsRow())
	})
	return ds
}

func (a *Aggregator) errorsTable() *dataset.ReportDataset {
	ds := &dataset.ReportDataset{
		Titles: append([]string(nil), dataset.ErrorsTitles...),
		Items:  []dataset.RowData{},
	}

	counts := a.total.topErrors(len(a.total.errors))
	for _, c := range counts {
		inErrors := float64(c.count) / float64(a.total.failed) * 100
		inAll := float64(c.count) / float64(a.total.count) * 100
		ds.Items = append(ds.Items, dataset.RowData{Data: dataset.Values(c.kind, c.count, inErrors, inAll)})
	}
	return ds
}

func (a *Aggregator) top5ErrorsTable() *dataset.ReportDataset {
	ds := &dataset.ReportDataset{
		Titles: dataset.Top5ErrorsTitles(),
		Items:  []dataset.RowData{},
	}
	overall := top5Row(a.total)
	ds.Overall = &overall

	a.each(func(l *labelStats) {
		if l.isController || l.failed == 0 {
			return
		}
		ds.Items = append(ds.Items, top5Row(l))
	})
	return ds
}

func top5Row(l *labelStats) dataset.RowData {
	values := []interface{}{l.label, l.count, l.failed}
	top := l.topErrors(top5)
	for i := 0; i < top5; i++ {
		if i < len(top) {
			values = append(values, top[i].kind, top[i].count)
		} else {
			values = append(values, "", "")
		}
	}
	return dataset.RowData{Data: dataset.Values(values...)}
}

// AggregateFile reads a JTL file and returns its dashboard. The title defaults to the
// file name.
func AggregateFile(path string, cfg Config, title string) (*dataset.Dashboard, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open results file: %w", err)
	}
	defer f.Close()

	agg := New(cfg)
	if err := ReadJTL(f, func(s Sample) error {
		agg.Add(s)
		return nil
	}); err != nil {
		return nil, fmt.Errorf("failed to read results file: %w", err)
	}

	if title == "" {
		title = strings.TrimSuffix(path[strings.LastIndexAny(path, `/\`)+1:], ".jtl")
	}
	return agg.Dashboard(title), nil
}
