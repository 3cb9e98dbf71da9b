// Package config provides configuration parsing and validation for dashboard rendering.
package config

import (
	"time"
)

// ReportConfig is the root configuration of a dashboard report.
//
// Example YAML:
//
//	title: "Checkout load test"
//	render:
//	  showControllersOnly: false
//	  seriesFilter: "^2\\."
//	  filtersOnlySampleSeries: true
//	apdex:
//	  satisfiedThreshold: 500ms
//	  toleratedThreshold: 1500ms
//	sections:
//	  statisticsTable: "dashboard.tables.statistics"
//	output:
//	  format: html
//	  path: report.html
type ReportConfig struct {
	// Title of the report (overrides the title found in the dashboard file)
	Title string `json:"title,omitempty" yaml:"title,omitempty"`

	// Render holds the row filters applied to every table
	Render RenderConfig `json:"render,omitempty" yaml:"render,omitempty"`

	// Apdex thresholds used when aggregating raw results
	Apdex ApdexConfig `json:"apdex,omitempty" yaml:"apdex,omitempty"`

	// Sections overrides the gjson path each dashboard section is read from
	Sections map[string]string `json:"sections,omitempty" yaml:"sections,omitempty"`

	// Output controls where and how the report is written
	Output OutputConfig `json:"output,omitempty" yaml:"output,omitempty"`
}

// RenderConfig is the set of knobs the hosting page exposes to the table renderer.
type RenderConfig struct {
	// ShowControllersOnly keeps only controller rows in tables that support the distinction
	ShowControllersOnly bool `json:"showControllersOnly,omitempty" yaml:"showControllersOnly,omitempty"`

	// SeriesFilter is a regular expression matched against the series column; empty disables it
	SeriesFilter string `json:"seriesFilter,omitempty" yaml:"seriesFilter,omitempty"`

	// FiltersOnlySampleSeries bypasses the series filter for tables without controller rows
	FiltersOnlySampleSeries bool `json:"filtersOnlySampleSeries,omitempty" yaml:"filtersOnlySampleSeries,omitempty"`
}

// ApdexConfig holds the APDEX satisfaction thresholds.
type ApdexConfig struct {
	// SatisfiedThreshold is T, the toleration threshold (default: 500ms)
	SatisfiedThreshold Duration `json:"satisfiedThreshold,omitempty" yaml:"satisfiedThreshold,omitempty"`

	// ToleratedThreshold is F, the frustration threshold (default: 1500ms)
	ToleratedThreshold Duration `json:"toleratedThreshold,omitempty" yaml:"toleratedThreshold,omitempty"`
}

// OutputConfig controls report output.
type OutputConfig struct {
	// Format is one of "html", "xlsx", "json"
	Format string `json:"format,omitempty" yaml:"format,omitempty"`

	// Path is the output file; empty means a generated name (or stdout for json)
	Path string `json:"path,omitempty" yaml:"path,omitempty"`
}

// Output formats.
const (
	FormatHTML = "html"
	FormatXLSX = "xlsx"
	FormatJSON = "json"
)

// Default APDEX thresholds, as used by JMeter.
const (
	DefaultSatisfiedThreshold = 500 * time.Millisecond
	DefaultToleratedThreshold = 1500 * time.Millisecond
)

// Duration is a time.Duration that can be unmarshaled from JSON/YAML strings.
type Duration time.Duration

// GetDuration returns the duration or a default if empty.
func (d Duration) GetDuration(defaultValue time.Duration) time.Duration {
	if d == 0 {
		return defaultValue
	}
	return time.Duration(d)
}

// MarshalJSON implements json.Marshaler.
func (d Duration) MarshalJSON() ([]byte, error) {
	return []byte(`"` + time.Duration(d).String() + `"`), nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *Duration) UnmarshalJSON(b []byte) error {
	s := string(b)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}

	if s == "" || s == "null" {
		*d = 0
		return nil
	}

	dur, err := ParseDurationString(s)
	if err != nil {
		return err
	}
	*d = Duration(dur)
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}

	dur, err := ParseDurationString(s)
	if err != nil {
		return err
	}
	*d = Duration(dur)
	return nil
}

// String returns the duration as a string.
func (d Duration) String() string {
	return time.Duration(d).String()
}
