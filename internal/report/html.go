// Package report writes rendered dashboards as HTML pages, XLSX workbooks and JSON.
package report

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
	"os"
	"strings"
	"time"

	"github.com/Masterminds/sprig/v3"
	"github.com/google/uuid"

	"github.com/wesleyorama2/jmdash/internal/chart"
	"github.com/wesleyorama2/jmdash/internal/config"
	"github.com/wesleyorama2/jmdash/internal/dataset"
	"github.com/wesleyorama2/jmdash/internal/render"
)

// DefaultEchartsURL is the echarts build loaded by generated pages.
const DefaultEchartsURL = "https://go-echarts.github.io/go-echarts-assets/assets/echarts.min.js"

// sectionTitles are the headings of the dashboard tables.
var sectionTitles = map[string]string{
	dataset.SectionApdex:      "APDEX (Application Performance Index)",
	dataset.SectionStatistics: "Statistics",
	dataset.SectionErrors:     "Errors",
	dataset.SectionTop5Errors: "Top 5 Errors by sampler",
}

// Options controls report generation.
type Options struct {
	// Render holds the row filters applied to every table
	Render config.RenderConfig

	// Title overrides the dashboard title
	Title string

	// EchartsURL overrides DefaultEchartsURL
	EchartsURL string
}

// ReportData contains all data needed to render a report.
type ReportData struct {
	ID          string
	Title       string
	GeneratedAt time.Time
	Dashboard   *dataset.Dashboard
	Filters     config.RenderConfig
	Tables      []*render.Table
	Chart       *chart.Snippet
	EchartsURL  string
}

// Prepare validates d and renders its tables and chart with the options.
func Prepare(d *dataset.Dashboard, o Options) (*ReportData, error) {
	if d == nil {
		return nil, fmt.Errorf("dashboard cannot be nil")
	}
	if err := d.Validate(); err != nil {
		return nil, fmt.Errorf("invalid dashboard: %w", err)
	}

	r, err := render.NewRenderer(o.Render)
	if err != nil {
		return nil, err
	}
	tables, err := r.Dashboard(d)
	if err != nil {
		return nil, err
	}

	snippet, err := chart.RenderSnippet(d.RequestsSummary, chart.Options{})
	if err != nil {
		return nil, fmt.Errorf("failed to render requests summary: %w", err)
	}

	title := o.Title
	if title == "" {
		title = d.Title
	}
	echartsURL := o.EchartsURL
	if echartsURL == "" {
		echartsURL = DefaultEchartsURL
	}

	return &ReportData{
		ID:          uuid.NewString(),
		Title:       title,
		GeneratedAt: time.Now(),
		Dashboard:   d,
		Filters:     r.Config(),
		Tables:      tables,
		Chart:       snippet,
		EchartsURL:  echartsURL,
	}, nil
}

// GenerateHTML generates an HTML report and writes it to a file.
func GenerateHTML(d *dataset.Dashboard, outputPath string, o Options) error {
	html, err := GenerateHTMLString(d, o)
	if err != nil {
		return fmt.Errorf("failed to generate HTML: %w", err)
	}

	if err := os.WriteFile(outputPath, []byte(html), 0644); err != nil {
		return fmt.Errorf("failed to write HTML file: %w", err)
	}

	return nil
}

// GenerateHTMLString generates an HTML report and returns it as a string.
func GenerateHTMLString(d *dataset.Dashboard, o Options) (string, error) {
	var buf bytes.Buffer
	if err := WriteHTML(&buf, d, o); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// WriteHTML renders the HTML report to w.
func WriteHTML(w io.Writer, d *dataset.Dashboard, o Options) error {
	data, err := Prepare(d, o)
	if err != nil {
		return err
	}

	tmpl, err := template.New("report").Funcs(templateFuncs()).Parse(htmlTemplate)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}

	if err := tmpl.Execute(w, data); err != nil {
		return fmt.Errorf("failed to execute template: %w", err)
	}
	return nil
}

// templateFuncs returns the sprig functions plus the report helpers.
func templateFuncs() template.FuncMap {
	funcs := sprig.HtmlFuncMap()
	funcs["sectionTitle"] = sectionTitle
	funcs["rawAt"] = rawAt
	funcs["sortList"] = sortList
	funcs["formatDuration"] = formatDuration
	return funcs
}

func sectionTitle(id string) string {
	if title, ok := sectionTitles[id]; ok {
		return title
	}
	return id
}

// rawAt returns the raw value of a cell, used as the sort key of the page script.
func rawAt(row render.Row, col int) string {
	if col < 0 || col >= len(row.Raw) {
		return ""
	}
	return row.Raw[col].String()
}

// sortList encodes a sort specification as "col:dir,col:dir".
func sortList(keys []render.SortKey) string {
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%d:%d", k.Column, k.Direction)
	}
	return strings.Join(parts, ",")
}

// formatDuration formats the test window in a human-readable way.
func formatDuration(d time.Duration) string {
	if d <= 0 {
		return "n/a"
	}
	if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
	if d < time.Hour {
		mins := int(d.Minutes())
		secs := int(d.Seconds()) % 60
		if secs == 0 {
			return fmt.Sprintf("%dm", mins)
		}
		return fmt.Sprintf("%dm %ds", mins, secs)
	}
	hours := int(d.Hours())
	mins := int(d.Minutes()) % 60
	if mins == 0 {
		return fmt.Sprintf("%dh", hours)
	}
	return fmt.Sprintf("%dh %dm", hours, mins)
}
