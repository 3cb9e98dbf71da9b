package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestParseDurationString(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected time.Duration
		wantErr  bool
	}{
		{name: "milliseconds", input: "500ms", expected: 500 * time.Millisecond},
		{name: "fractional seconds", input: "1.5s", expected: 1500 * time.Millisecond},
		{name: "integer as milliseconds", input: "1500", expected: 1500 * time.Millisecond},
		{name: "empty string", input: "", expected: 0},
		{name: "invalid format", input: "abc", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDurationString(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Errorf("ParseDurationString(%q) expected error", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseDurationString(%q) unexpected error: %v", tt.input, err)
			}
			if got != tt.expected {
				t.Errorf("ParseDurationString(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestParseConfig_YAML(t *testing.T) {
	yamlData := `
title: "Checkout"
render:
  showControllersOnly: true
  seriesFilter: "^2\\."
  filtersOnlySampleSeries: true
apdex:
  satisfiedThreshold: 300ms
  toleratedThreshold: 1200
sections:
  statisticsTable: "dashboard.statistics"
output:
  format: XLSX
  path: out.xlsx
`
	cfg, err := ParseConfig([]byte(yamlData), "report.yaml")
	if err != nil {
		t.Fatalf("ParseConfig failed: %v", err)
	}

	if cfg.Title != "Checkout" {
		t.Errorf("Title = %q, want %q", cfg.Title, "Checkout")
	}
	if !cfg.Render.ShowControllersOnly || !cfg.Render.FiltersOnlySampleSeries {
		t.Errorf("render flags not parsed: %+v", cfg.Render)
	}
	if cfg.Render.SeriesFilter != `^2\.` {
		t.Errorf("SeriesFilter = %q, want %q", cfg.Render.SeriesFilter, `^2\.`)
	}
	if time.Duration(cfg.Apdex.SatisfiedThreshold) != 300*time.Millisecond {
		t.Errorf("SatisfiedThreshold = %v", cfg.Apdex.SatisfiedThreshold)
	}
	if time.Duration(cfg.Apdex.ToleratedThreshold) != 1200*time.Millisecond {
		t.Errorf("ToleratedThreshold = %v", cfg.Apdex.ToleratedThreshold)
	}
	if cfg.Sections["statisticsTable"] != "dashboard.statistics" {
		t.Errorf("Sections = %v", cfg.Sections)
	}

	ApplyDefaults(cfg)
	if cfg.Output.Format != FormatXLSX {
		t.Errorf("Output.Format = %q, want %q", cfg.Output.Format, FormatXLSX)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() unexpected error: %v", err)
	}
}

func TestParseConfig_JSON(t *testing.T) {
	jsonData := `{"title": "JSON", "render": {"seriesFilter": "login"}, "apdex": {"satisfiedThreshold": "1s"}}`

	cfg, err := ParseConfig([]byte(jsonData), "report.json")
	if err != nil {
		t.Fatalf("ParseConfig failed: %v", err)
	}
	if cfg.Render.SeriesFilter != "login" {
		t.Errorf("SeriesFilter = %q", cfg.Render.SeriesFilter)
	}
	if time.Duration(cfg.Apdex.SatisfiedThreshold) != time.Second {
		t.Errorf("SatisfiedThreshold = %v", cfg.Apdex.SatisfiedThreshold)
	}
}

func TestParseConfig_Invalid(t *testing.T) {
	if _, err := ParseConfig([]byte(`{"title": `), "bad.json"); err == nil {
		t.Error("expected error for invalid JSON")
	}
	if _, err := ParseConfig([]byte("apdex:\n  satisfiedThreshold: soon\n"), "bad.yaml"); err == nil {
		t.Error("expected error for invalid duration")
	}
}

func TestLoadConfig(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "report.yaml")
	if err := os.WriteFile(path, []byte("title: From file\n"), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Title != "From file" {
		t.Errorf("Title = %q", cfg.Title)
	}
}

func TestLoadConfig_NotFound(t *testing.T) {
	if _, err := LoadConfig("/nonexistent/report.yaml"); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := DefaultConfig()

	if time.Duration(cfg.Apdex.SatisfiedThreshold) != DefaultSatisfiedThreshold {
		t.Errorf("SatisfiedThreshold = %v", cfg.Apdex.SatisfiedThreshold)
	}
	if time.Duration(cfg.Apdex.ToleratedThreshold) != DefaultToleratedThreshold {
		t.Errorf("ToleratedThreshold = %v", cfg.Apdex.ToleratedThreshold)
	}
	if cfg.Output.Format != FormatHTML {
		t.Errorf("Output.Format = %q", cfg.Output.Format)
	}
}

func TestCompileSeriesFilter(t *testing.T) {
	re, err := RenderConfig{}.CompileSeriesFilter()
	if err != nil || re != nil {
		t.Errorf("empty filter should compile to nil, got %v, %v", re, err)
	}

	re, err = RenderConfig{SeriesFilter: `^2\.`}.CompileSeriesFilter()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !re.MatchString("2.1 Open session") || re.MatchString("1.1 Homepage") {
		t.Errorf("filter matched unexpectedly")
	}

	re, err = RenderConfig{SeriesFilter: "login"}.CompileSeriesFilter()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !re.MatchString("User LOGIN") {
		t.Error("filter should be case-insensitive")
	}

	_, err = RenderConfig{SeriesFilter: "(unclosed"}.CompileSeriesFilter()
	var filterErr *FilterError
	if !errors.As(err, &filterErr) {
		t.Fatalf("expected FilterError, got %v", err)
	}
	if !strings.Contains(err.Error(), "(unclosed") {
		t.Errorf("error should name the pattern, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	cfg := &ReportConfig{
		Render:   RenderConfig{SeriesFilter: "[bad"},
		Apdex:    ApdexConfig{SatisfiedThreshold: Duration(time.Second), ToleratedThreshold: Duration(time.Millisecond)},
		Output:   OutputConfig{Format: "pdf"},
		Sections: map[string]string{"statisticsTable": " "},
	}

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected validation errors")
	}
	errs, ok := err.(*ValidationErrors)
	if !ok {
		t.Fatalf("expected *ValidationErrors, got %T", err)
	}
	if len(errs.Errors) != 4 {
		t.Errorf("len(Errors) = %d, want 4: %v", len(errs.Errors), errs)
	}
	if !strings.Contains(err.Error(), "4 validation errors") {
		t.Errorf("Error string should mention count, got: %v", err)
	}
}

func TestValidationError_Single(t *testing.T) {
	err := &ValidationError{Field: "render.seriesFilter", Message: "bad"}
	if !strings.Contains(err.Error(), "render.seriesFilter") {
		t.Errorf("Error should contain field name, got: %v", err)
	}

	err = &ValidationError{Message: "bad"}
	if err.Error() != "validation error: bad" {
		t.Errorf("unexpected message: %v", err)
	}
}
