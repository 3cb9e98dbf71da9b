package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/wesleyorama2/jmdash/internal/config"
)

var (
	dashboardFile = filepath.Join("..", "dataset", "testdata", "dashboard.json")
	yamlFile      = filepath.Join("..", "dataset", "testdata", "dashboard.yaml")
	resultsFile   = filepath.Join("..", "aggregate", "testdata", "results.jtl")
)

// execute runs the command tree with args and returns stdout, stderr and the error.
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	cmd := NewRootCmd()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

type renderedDoc struct {
	Title   string              `json:"title"`
	Filters config.RenderConfig `json:"filters"`
	Tables  []struct {
		ID   string     `json:"id"`
		Rows [][]string `json:"rows"`
	} `json:"tables"`
}

func renderJSON(t *testing.T, args ...string) renderedDoc {
	t.Helper()
	stdout, stderr, err := execute(t, append([]string{"render", "--format", "json", "-o", "-"}, args...)...)
	if err != nil {
		t.Fatalf("render failed: %v\n%s", err, stderr)
	}
	var doc renderedDoc
	if err := json.Unmarshal([]byte(stdout), &doc); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, stdout)
	}
	return doc
}

func statisticsLabels(doc renderedDoc) []string {
	for _, table := range doc.Tables {
		if table.ID != "statisticsTable" {
			continue
		}
		labels := []string{}
		for _, row := range table.Rows {
			labels = append(labels, row[0])
		}
		return labels
	}
	return nil
}

func TestRootHelp(t *testing.T) {
	stdout, _, err := execute(t, "--help")
	if err != nil {
		t.Fatalf("help failed: %v", err)
	}
	for _, sub := range []string{"render", "summary", "validate", "serve"} {
		if !strings.Contains(stdout, sub) {
			t.Errorf("help does not list %s", sub)
		}
	}
}

func TestRender_HTMLFile(t *testing.T) {
	out := filepath.Join(t.TempDir(), "report.html")

	_, stderr, err := execute(t, "render", dashboardFile, "-o", out)
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}

	content, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("report not written: %v", err)
	}
	if !strings.Contains(string(content), "Checkout load test") {
		t.Error("report does not contain the dashboard title")
	}
	if !strings.Contains(stderr, "report written") {
		t.Errorf("expected a log line for the written report, got %q", stderr)
	}
}

func TestRender_XLSXFile(t *testing.T) {
	out := filepath.Join(t.TempDir(), "report.xlsx")

	if _, _, err := execute(t, "render", dashboardFile, "--format", "XLSX", "-o", out); err != nil {
		t.Fatalf("render failed: %v", err)
	}
	info, err := os.Stat(out)
	if err != nil || info.Size() == 0 {
		t.Fatalf("workbook not written: %v", err)
	}
}

func TestRender_Filters(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want []string
	}{
		{"none", nil, []string{"1.1 Homepage", "2.1 Open session", "Checkout flow"}},
		{"controllers only", []string{"--controllers-only"}, []string{"Checkout flow"}},
		{"series filter", []string{"--series-filter", "SESSION"}, []string{"2.1 Open session"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := renderJSON(t, append([]string{dashboardFile}, tt.args...)...)
			got := statisticsLabels(doc)
			if strings.Join(got, "|") != strings.Join(tt.want, "|") {
				t.Errorf("labels = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRender_Environment(t *testing.T) {
	t.Setenv("JMDASH_SERIES_FILTER", "homepage")
	t.Setenv("JMDASH_TITLE", "From env")

	doc := renderJSON(t, dashboardFile)
	if doc.Title != "From env" {
		t.Errorf("title = %q, want From env", doc.Title)
	}
	if doc.Filters.SeriesFilter != "homepage" {
		t.Errorf("series filter = %q, want homepage", doc.Filters.SeriesFilter)
	}

	doc = renderJSON(t, dashboardFile, "--series-filter", "open")
	if doc.Filters.SeriesFilter != "open" {
		t.Errorf("flag should win over the environment, got %q", doc.Filters.SeriesFilter)
	}
}

func TestRender_ConfigFile(t *testing.T) {
	cfgPath := writeFile(t, "jmdash.yaml", `
title: "From config"
render:
  showControllersOnly: true
`)

	doc := renderJSON(t, dashboardFile, "--config", cfgPath)
	if doc.Title != "From config" {
		t.Errorf("title = %q, want From config", doc.Title)
	}
	if got := statisticsLabels(doc); len(got) != 1 {
		t.Errorf("controllers only from config should keep one row, got %v", got)
	}

	doc = renderJSON(t, dashboardFile, "--config", cfgPath, "--controllers-only=false")
	if got := statisticsLabels(doc); len(got) != 3 {
		t.Errorf("flag should override the config file, got %v", got)
	}
}

func TestRender_YAMLWithSections(t *testing.T) {
	cfgPath := writeFile(t, "jmdash.yaml", `
sections:
  statisticsTable: report.tables.stats
  requestsSummary: report.summary
`)

	doc := renderJSON(t, yamlFile, "--config", cfgPath)
	if got := statisticsLabels(doc); len(got) != 1 || got[0] != "A" {
		t.Errorf("labels = %v, want [A]", got)
	}
}

func TestRender_JTL(t *testing.T) {
	doc := renderJSON(t, resultsFile, "--apdex-satisfied", "250")
	if doc.Title != "results" {
		t.Errorf("title = %q, want the file name", doc.Title)
	}
	if got := statisticsLabels(doc); len(got) != 3 {
		t.Errorf("expected three aggregated labels, got %v", got)
	}
}

func TestRender_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"missing input", []string{"render"}, "accepts 1 arg"},
		{"bad filter", []string{"render", dashboardFile, "--series-filter", "("}, "invalid series filter"},
		{"bad format", []string{"render", dashboardFile, "--format", "pdf"}, "unsupported format"},
		{"bad threshold", []string{"render", resultsFile, "--apdex-tolerated", "soon"}, "invalid --apdex-tolerated"},
		{"missing file", []string{"render", "nope.json"}, "no such file"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := execute(t, tt.args...)
			if err == nil {
				t.Fatal("expected an error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %q, want it to contain %q", err.Error(), tt.want)
			}
		})
	}
}

func TestSummary(t *testing.T) {
	stdout, _, err := execute(t, "summary", dashboardFile, "--no-color", "--tables")
	if err != nil {
		t.Fatalf("summary failed: %v", err)
	}

	for _, want := range []string{"Checkout load test", "PASS:          96.50%", "Samples:       523", "Statistics", "Top 5 Errors by sampler"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("summary does not contain %q:\n%s", want, stdout)
		}
	}
}

func TestValidate(t *testing.T) {
	stdout, _, err := execute(t, "validate", dashboardFile, "--no-color")
	if err != nil {
		t.Fatalf("validate failed: %v\n%s", err, stdout)
	}
	if !strings.Contains(stdout, "is valid") {
		t.Errorf("unexpected output: %s", stdout)
	}
}

func TestValidate_Invalid(t *testing.T) {
	path := writeFile(t, "bad.json", `{
  "requestsSummary": {"okPercent": 90, "koPercent": 20},
  "statisticsTable": {"titles": ["Label", "#Samples"], "items": [{"data": ["A"], "isController": false}]}
}`)

	stdout, _, err := execute(t, "validate", path, "--no-color", "--series-filter", "[")
	if err == nil {
		t.Fatalf("expected validation to fail:\n%s", stdout)
	}
	if !strings.Contains(stdout, "is invalid") || !strings.Contains(stdout, "config:") {
		t.Errorf("issues not listed:\n%s", stdout)
	}
}

func TestIsResultsFile(t *testing.T) {
	tests := []struct {
		path     string
		expected bool
	}{
		{"results.jtl", true},
		{"RESULTS.CSV", true},
		{"dashboard.json", false},
		{"dashboard.yaml", false},
		{"statistics", false},
	}
	for _, tt := range tests {
		if got := isResultsFile(tt.path); got != tt.expected {
			t.Errorf("isResultsFile(%q) = %v, want %v", tt.path, got, tt.expected)
		}
	}
}
