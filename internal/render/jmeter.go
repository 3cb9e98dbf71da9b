package render

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/wesleyorama2/jmdash/internal/dataset"
)

// StatisticsHeader is the grouping row of the statistics table.
func StatisticsHeader() []HeaderCell {
	return []HeaderCell{
		{Label: "Requests", Span: 1},
		{Label: "Executions", Span: 3},
		{Label: "Response Times (ms)", Span: 7},
		{Label: "Throughput", Span: 1},
		{Label: "Network (KB/sec)", Span: 2},
	}
}

// StatisticsSpec presents the statistics table.
func StatisticsSpec() TableSpec {
	return TableSpec{
		ID:          dataset.SectionStatistics,
		Formatter:   statisticsFormatter,
		DefaultSort: []SortKey{{Column: 0, Direction: Ascending}},
		SeriesIndex: 0,
		Header:      StatisticsHeader,
	}
}

// ApdexSpec presents the APDEX table. The label is the last column.
func ApdexSpec() TableSpec {
	return TableSpec{
		ID:          dataset.SectionApdex,
		Formatter:   apdexFormatter,
		DefaultSort: []SortKey{{Column: 0, Direction: Ascending}},
		SeriesIndex: 3,
	}
}

// ErrorsSpec presents the errors table, most frequent error first.
func ErrorsSpec() TableSpec {
	return TableSpec{
		ID:          dataset.SectionErrors,
		Formatter:   errorsFormatter,
		DefaultSort: []SortKey{{Column: 1, Direction: Descending}},
		SeriesIndex: NoSeries,
	}
}

// Top5ErrorsSpec presents the top 5 errors by sampler table with raw values.
func Top5ErrorsSpec() TableSpec {
	return TableSpec{
		ID:          dataset.SectionTop5Errors,
		DefaultSort: []SortKey{{Column: 0, Direction: Ascending}},
		SeriesIndex: 0,
	}
}

// Dashboard renders every present table of d in page order: APDEX, statistics,
// errors, top 5 errors.
func (r *Renderer) Dashboard(d *dataset.Dashboard) ([]*Table, error) {
	if d == nil {
		return nil, fmt.Errorf("dashboard cannot be nil")
	}

	sections := []struct {
		ds   *dataset.ReportDataset
		spec TableSpec
	}{
		{d.Apdex, ApdexSpec()},
		{d.Statistics, StatisticsSpec()},
		{d.Errors, ErrorsSpec()},
		{d.Top5Errors, Top5ErrorsSpec()},
	}

	var tables []*Table
	for _, s := range sections {
		if s.ds == nil {
			continue
		}
		table, err := r.Table(s.ds, s.spec)
		if err != nil {
			return nil, fmt.Errorf("failed to render %s: %w", s.spec.ID, err)
		}
		tables = append(tables, table)
	}
	return tables, nil
}

// statisticsFormatter: error percentage with a percent sign, average, percentiles,
// throughput and network rates with two decimals. Min and max stay raw.
func statisticsFormatter(col int, v dataset.Value) string {
	switch col {
	case 3:
		return FormatPercent(v)
	case 4, 7, 8, 9, 10, 11, 12, 13:
		return FormatFixed(v, 2)
	}
	return v.String()
}

func apdexFormatter(col int, v dataset.Value) string {
	switch col {
	case 0:
		return FormatFixed(v, 3)
	case 1, 2:
		if ms, ok := v.Float(); ok {
			return FormatDuration(ms)
		}
	}
	return v.String()
}

func errorsFormatter(col int, v dataset.Value) string {
	switch col {
	case 2, 3:
		return FormatPercent(v)
	}
	return v.String()
}

// FormatFixed formats a number with the given decimals; non-numbers are returned raw.
func FormatFixed(v dataset.Value, decimals int) string {
	n, ok := v.Float()
	if !ok {
		return v.String()
	}
	return strconv.FormatFloat(n, 'f', decimals, 64)
}

// FormatPercent formats a number with two decimals and a percent sign.
func FormatPercent(v dataset.Value) string {
	if !v.IsNumber() {
		return v.String()
	}
	return FormatFixed(v, 2) + "%"
}

// FormatDuration formats milliseconds as "1 hour 2 min 3 sec 400 ms", omitting zero parts.
func FormatDuration(ms float64) string {
	total := int64(math.Round(ms))
	if total <= 0 {
		return "0 ms"
	}

	units := []struct {
		name string
		size int64
	}{
		{"day", 24 * 60 * 60 * 1000},
		{"hour", 60 * 60 * 1000},
		{"min", 60 * 1000},
		{"sec", 1000},
		{"ms", 1},
	}

	var parts []string
	for _, u := range units {
		if n := total / u.size; n > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", n, u.name))
			total -= n * u.size
		}
	}
	return strings.Join(parts, " ")
}
