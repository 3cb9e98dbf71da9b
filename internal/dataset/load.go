package dataset

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/tidwall/gjson"
	"gopkg.in/yaml.v3"
)

// Section IDs of a dashboard. They double as the default gjson paths and as the HTML
// element IDs of the rendered tables.
const (
	SectionRequestsSummary = "requestsSummary"
	SectionApdex           = "apdexTable"
	SectionStatistics      = "statisticsTable"
	SectionErrors          = "errorsTable"
	SectionTop5Errors      = "top5ErrorsBySamplerTable"
)

// DefaultSections maps every section ID to the gjson path it is read from.
func DefaultSections() map[string]string {
	return map[string]string{
		SectionRequestsSummary: SectionRequestsSummary,
		SectionApdex:           SectionApdex,
		SectionStatistics:      SectionStatistics,
		SectionErrors:          SectionErrors,
		SectionTop5Errors:      SectionTop5Errors,
	}
}

// LoadDashboard reads a dashboard file. The format is determined by extension:
//   - .yaml, .yml -> YAML
//   - anything else -> JSON
//
// A JMeter statistics.json file is detected by content and imported as a dashboard
// holding only the statistics table and the requests summary.
func LoadDashboard(path string, sections map[string]string) (*Dashboard, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read dashboard file: %w", err)
	}

	return ParseDashboard(data, path, sections)
}

// ParseDashboard parses dashboard data. sections overrides the default gjson path of
// individual sections; nil uses the defaults.
func ParseDashboard(data []byte, path string, sections map[string]string) (*Dashboard, error) {
	jsonData, err := ToJSON(data, path)
	if err != nil {
		return nil, err
	}

	if !gjson.ValidBytes(jsonData) {
		return nil, fmt.Errorf("failed to parse dashboard: invalid JSON")
	}

	if IsStatisticsFile(jsonData) {
		return ImportStatistics(jsonData)
	}

	paths := DefaultSections()
	for id, p := range sections {
		if p != "" {
			paths[id] = p
		}
	}

	dash := &Dashboard{
		Title: gjson.GetBytes(jsonData, "title").String(),
	}
	dash.TestStart = parseTimestamp(gjson.GetBytes(jsonData, "testStart"))
	dash.TestEnd = parseTimestamp(gjson.GetBytes(jsonData, "testEnd"))

	tables := []struct {
		id     string
		target **ReportDataset
	}{
		{SectionApdex, &dash.Apdex},
		{SectionStatistics, &dash.Statistics},
		{SectionErrors, &dash.Errors},
		{SectionTop5Errors, &dash.Top5Errors},
	}
	for _, t := range tables {
		ds, err := extractDataset(jsonData, paths[t.id])
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", t.id, err)
		}
		*t.target = ds
	}

	summary, ok := extractSummary(jsonData, paths[SectionRequestsSummary])
	if !ok {
		summary = summaryFromStatistics(dash.Statistics)
	}
	dash.RequestsSummary = summary

	return dash, nil
}

// ToJSON converts YAML input to JSON; JSON input is returned unchanged.
func ToJSON(data []byte, path string) ([]byte, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".yaml" && ext != ".yml" {
		return data, nil
	}

	var doc interface{}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse YAML dashboard: %w", err)
	}
	out, err := json.Marshal(normalizeYAML(doc))
	if err != nil {
		return nil, fmt.Errorf("failed to convert YAML dashboard: %w", err)
	}
	return out, nil
}

// normalizeYAML turns map[interface{}]interface{} nodes into map[string]interface{} so
// the document can be marshaled as JSON.
func normalizeYAML(v interface{}) interface{} {
	switch x := v.(type) {
	case map[string]interface{}:
		for k, val := range x {
			x[k] = normalizeYAML(val)
		}
		return x
	case map[interface{}]interface{}:
		m := make(map[string]interface{}, len(x))
		for k, val := range x {
			m[fmt.Sprint(k)] = normalizeYAML(val)
		}
		return m
	case []interface{}:
		for i, val := range x {
			x[i] = normalizeYAML(val)
		}
		return x
	default:
		return v
	}
}

func extractDataset(data []byte, path string) (*ReportDataset, error) {
	if path == "" {
		return nil, nil
	}
	result := gjson.GetBytes(data, path)
	if !result.Exists() || result.Type == gjson.Null {
		return nil, nil
	}
	if !result.IsObject() {
		return nil, fmt.Errorf("expected an object at %q", path)
	}

	var ds ReportDataset
	if err := json.Unmarshal([]byte(result.Raw), &ds); err != nil {
		return nil, err
	}
	return &ds, nil
}

func extractSummary(data []byte, path string) (PassFailSummary, bool) {
	if path == "" {
		return PassFailSummary{}, false
	}
	result := gjson.GetBytes(data, path)
	if !result.IsObject() {
		return PassFailSummary{}, false
	}

	ok := firstOf(result, "okPercent", "OkPercent")
	ko := firstOf(result, "koPercent", "KoPercent")
	if !ok.Exists() && !ko.Exists() {
		return PassFailSummary{}, false
	}

	summary := PassFailSummary{OkPercent: ok.Float(), KoPercent: ko.Float()}
	switch {
	case !ok.Exists():
		summary.OkPercent = 100 - summary.KoPercent
	case !ko.Exists():
		summary.KoPercent = 100 - summary.OkPercent
	}
	return summary, true
}

func firstOf(r gjson.Result, keys ...string) gjson.Result {
	for _, k := range keys {
		if v := r.Get(k); v.Exists() {
			return v
		}
	}
	return gjson.Result{}
}

// summaryFromStatistics derives the pass/fail split from the overall row of the
// statistics table (#Samples at column 1, FAIL at column 2).
func summaryFromStatistics(ds *ReportDataset) PassFailSummary {
	if ds == nil || ds.Overall == nil || len(ds.Overall.Data) < 3 {
		return NewPassFailSummary(0, 0)
	}
	total, okTotal := ds.Overall.Data[1].Float()
	failed, okFailed := ds.Overall.Data[2].Float()
	if !okTotal || !okFailed {
		return NewPassFailSummary(0, 0)
	}
	return NewPassFailSummary(int64(total), int64(failed))
}

// parseTimestamp accepts RFC3339 strings or epoch milliseconds.
func parseTimestamp(r gjson.Result) time.Time {
	switch r.Type {
	case gjson.Number:
		return time.UnixMilli(r.Int())
	case gjson.String:
		if t, err := time.Parse(time.RFC3339, r.String()); err == nil {
			return t
		}
	}
	return time.Time{}
}
