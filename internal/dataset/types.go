// Package dataset provides the data model of a JMeter dashboard and the loaders for it.
package dataset

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"time"
)

// TotalLabel is the label JMeter uses for the overall row of a table.
const TotalLabel = "Total"

// Value is a single cell of a row: either a string or a number.
type Value struct {
	str   string
	num   float64
	isNum bool
}

// String returns a string value.
func String(s string) Value {
	return Value{str: s}
}

// Number returns a numeric value.
func Number(n float64) Value {
	return Value{num: n, isNum: true}
}

// Values builds a row from Go values. Ints and floats become numbers, everything else
// is formatted as a string.
func Values(in ...interface{}) []Value {
	out := make([]Value, len(in))
	for i, v := range in {
		switch x := v.(type) {
		case Value:
			out[i] = x
		case int:
			out[i] = Number(float64(x))
		case int64:
			out[i] = Number(float64(x))
		case float64:
			out[i] = Number(x)
		case string:
			out[i] = String(x)
		default:
			out[i] = String(fmt.Sprint(x))
		}
	}
	return out
}

// IsNumber reports whether the value holds a number.
func (v Value) IsNumber() bool {
	return v.isNum
}

// Float returns the numeric value and whether the value is a number.
func (v Value) Float() (float64, bool) {
	return v.num, v.isNum
}

// String returns the raw display form: strings verbatim, numbers in shortest form.
func (v Value) String() string {
	if !v.isNum {
		return v.str
	}
	if math.IsNaN(v.num) {
		return "NaN"
	}
	return strconv.FormatFloat(v.num, 'f', -1, 64)
}

// MarshalJSON implements json.Marshaler.
func (v Value) MarshalJSON() ([]byte, error) {
	if v.isNum {
		if math.IsNaN(v.num) || math.IsInf(v.num, 0) {
			return json.Marshal(v.String())
		}
		return json.Marshal(v.num)
	}
	return json.Marshal(v.str)
}

// UnmarshalJSON implements json.Unmarshaler. null decodes to the empty string.
func (v *Value) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*v = String("")
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*v = String(s)
		return nil
	}
	if bytes.Equal(b, []byte("true")) || bytes.Equal(b, []byte("false")) {
		*v = String(string(b))
		return nil
	}
	n, err := strconv.ParseFloat(string(b), 64)
	if err != nil {
		return fmt.Errorf("invalid cell value %s: %w", string(b), err)
	}
	*v = Number(n)
	return nil
}

// RowData is one row of a table.
type RowData struct {
	Data         []Value `json:"data" yaml:"data"`
	IsController bool    `json:"isController" yaml:"isController"`
}

// Label returns the string at the given column, or "" if out of range.
func (r RowData) Label(col int) string {
	if col < 0 || col >= len(r.Data) {
		return ""
	}
	return r.Data[col].String()
}

// ReportDataset is the payload of a single dashboard table.
type ReportDataset struct {
	Titles                            []string  `json:"titles"`
	Overall                           *RowData  `json:"overall,omitempty"`
	Items                             []RowData `json:"items"`
	SupportsControllersDiscrimination bool      `json:"supportsControllersDiscrimination"`
}

// Validate checks that every non-empty row has one cell per title.
func (d *ReportDataset) Validate() error {
	if d == nil {
		return fmt.Errorf("dataset cannot be nil")
	}
	if d.Overall != nil && len(d.Overall.Data) > 0 && len(d.Overall.Data) != len(d.Titles) {
		return fmt.Errorf("overall row has %d cells, expected %d", len(d.Overall.Data), len(d.Titles))
	}
	for i, item := range d.Items {
		if len(item.Data) == 0 {
			continue
		}
		if len(item.Data) != len(d.Titles) {
			return fmt.Errorf("item %d has %d cells, expected %d", i, len(item.Data), len(d.Titles))
		}
	}
	return nil
}

// summaryTolerance is the allowed drift of okPercent+koPercent from 100.
const summaryTolerance = 0.01

// PassFailSummary is the input of the requests summary pie chart.
type PassFailSummary struct {
	OkPercent float64 `json:"okPercent" yaml:"okPercent"`
	KoPercent float64 `json:"koPercent" yaml:"koPercent"`
}

// NewPassFailSummary computes the percentages from sample counts. With no samples the
// summary is 100% pass.
func NewPassFailSummary(total, failed int64) PassFailSummary {
	if total <= 0 {
		return PassFailSummary{OkPercent: 100}
	}
	if failed < 0 {
		failed = 0
	}
	if failed > total {
		failed = total
	}
	ko := float64(failed) / float64(total) * 100
	return PassFailSummary{OkPercent: 100 - ko, KoPercent: ko}
}

// Validate checks that both percentages are in range and sum to 100.
func (s PassFailSummary) Validate() error {
	if s.OkPercent < 0 || s.KoPercent < 0 {
		return fmt.Errorf("percentages cannot be negative (ok=%v, ko=%v)", s.OkPercent, s.KoPercent)
	}
	if math.Abs(s.OkPercent+s.KoPercent-100) > summaryTolerance {
		return fmt.Errorf("okPercent + koPercent must be 100, got %v", s.OkPercent+s.KoPercent)
	}
	return nil
}

// Dashboard groups all tables of one report.
type Dashboard struct {
	Title           string          `json:"title,omitempty"`
	TestStart       time.Time       `json:"testStart,omitempty"`
	TestEnd         time.Time       `json:"testEnd,omitempty"`
	RequestsSummary PassFailSummary `json:"requestsSummary"`
	Apdex           *ReportDataset  `json:"apdexTable,omitempty"`
	Statistics      *ReportDataset  `json:"statisticsTable,omitempty"`
	Errors          *ReportDataset  `json:"errorsTable,omitempty"`
	Top5Errors      *ReportDataset  `json:"top5ErrorsBySamplerTable,omitempty"`
}

// Validate validates the summary and every present table.
func (d *Dashboard) Validate() error {
	if d == nil {
		return fmt.Errorf("dashboard cannot be nil")
	}
	if err := d.RequestsSummary.Validate(); err != nil {
		return fmt.Errorf("requestsSummary: %w", err)
	}
	for name, table := range d.Tables() {
		if err := table.Validate(); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}
	return nil
}

// Tables returns the present tables keyed by their dashboard ID.
func (d *Dashboard) Tables() map[string]*ReportDataset {
	tables := make(map[string]*ReportDataset)
	if d.Apdex != nil {
		tables[SectionApdex] = d.Apdex
	}
	if d.Statistics != nil {
		tables[SectionStatistics] = d.Statistics
	}
	if d.Errors != nil {
		tables[SectionErrors] = d.Errors
	}
	if d.Top5Errors != nil {
		tables[SectionTop5Errors] = d.Top5Errors
	}
	return tables
}

// Duration returns the length of the test window, or zero if unknown.
func (d *Dashboard) Duration() time.Duration {
	if d.TestStart.IsZero() || d.TestEnd.IsZero() || d.TestEnd.Before(d.TestStart) {
		return 0
	}
	return d.TestEnd.Sub(d.TestStart)
}
