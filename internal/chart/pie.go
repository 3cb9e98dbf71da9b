// Package chart renders the requests summary pie chart of a dashboard.
package chart

import (
	"fmt"
	"html/template"
	"io"
	"math"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/wesleyorama2/jmdash/internal/dataset"
)

// Slice labels and colors, as on the JMeter dashboard.
const (
	PassLabel = "PASS"
	FailLabel = "FAIL"
	PassColor = "#9ACD32"
	FailColor = "#FF6347"
)

// DefaultChartID is the element ID of the requests summary chart.
const DefaultChartID = "requestsSummary"

// Options controls the size and identity of the chart.
type Options struct {
	ChartID string
	Title   string
	Width   string
	Height  string
}

func (o *Options) applyDefaults() {
	if o.ChartID == "" {
		o.ChartID = DefaultChartID
	}
	if o.Width == "" {
		o.Width = "480px"
	}
	if o.Height == "" {
		o.Height = "320px"
	}
}

// Snippet is a chart ready to be embedded in a page that already loads echarts.
type Snippet struct {
	Element template.HTML
	Script  template.HTML
}

// Slice is one slice of the pie.
type Slice struct {
	Label   string
	Percent float64
	Color   string
}

// Slices maps a summary to its two slices, failures first.
func Slices(summary dataset.PassFailSummary) []Slice {
	return []Slice{
		{Label: FailLabel, Percent: round2(summary.KoPercent), Color: FailColor},
		{Label: PassLabel, Percent: round2(summary.OkPercent), Color: PassColor},
	}
}

// NewRequestsSummaryPie builds the pass/fail pie chart. The summary must sum to 100.
func NewRequestsSummaryPie(summary dataset.PassFailSummary, o Options) (*charts.Pie, error) {
	if err := summary.Validate(); err != nil {
		return nil, fmt.Errorf("invalid requests summary: %w", err)
	}
	o.applyDefaults()

	pie := charts.NewPie()
	pie.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			ChartID: o.ChartID,
			Width:   o.Width,
			Height:  o.Height,
		}),
		charts.WithTitleOpts(opts.Title{Title: o.Title}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Bottom: "0"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "item", Formatter: "{b}: {d}%"}),
		charts.WithAnimation(false),
	)

	data := make([]opts.PieData, 0, 2)
	for _, s := range Slices(summary) {
		data = append(data, opts.PieData{
			Name:      s.Label,
			Value:     s.Percent,
			ItemStyle: &opts.ItemStyle{Color: s.Color},
		})
	}

	pie.AddSeries("Requests", data).
		SetSeriesOptions(
			charts.WithLabelOpts(opts.Label{Show: opts.Bool(true), Formatter: "{b}\n{d}%"}),
			charts.WithPieChartOpts(opts.PieChart{Radius: "70%"}),
		)

	return pie, nil
}

// RenderSnippet renders the chart for embedding in a page that loads echarts itself.
func RenderSnippet(summary dataset.PassFailSummary, o Options) (*Snippet, error) {
	o.applyDefaults()
	pie, err := NewRequestsSummaryPie(summary, o)
	if err != nil {
		return nil, err
	}
	pie.Validate()

	element := fmt.Sprintf(`<div class="chart" id="%s" style="width:%s;height:%s;"></div>`,
		template.HTMLEscapeString(o.ChartID), template.HTMLEscapeString(o.Width), template.HTMLEscapeString(o.Height))
	script := fmt.Sprintf(`<script type="text/javascript">
(function() {
  var chart = echarts.init(document.getElementById(%q), null, {renderer: "canvas"});
  chart.setOption(%s);
  window.addEventListener("resize", function() { chart.resize(); });
})();
</script>`, o.ChartID, string(pie.JSONNotEscaped()))

	return &Snippet{
		Element: template.HTML(element),
		Script:  template.HTML(script),
	}, nil
}

// RenderPage writes a standalone HTML page holding only the chart.
func RenderPage(w io.Writer, summary dataset.PassFailSummary, o Options) error {
	pie, err := NewRequestsSummaryPie(summary, o)
	if err != nil {
		return err
	}

	page := components.NewPage()
	page.SetPageTitle(pageTitle(o.Title))
	page.AddCharts(pie)
	if err := page.Render(w); err != nil {
		return fmt.Errorf("failed to render chart page: %w", err)
	}
	return nil
}

func pageTitle(title string) string {
	if title == "" {
		return "Requests summary"
	}
	return title
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
