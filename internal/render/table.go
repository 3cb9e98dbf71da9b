// Package render turns dashboard datasets into filtered, formatted and sorted tables.
//
// A Table is the display model of one dashboard table: an optional grouping header row,
// the titles row, an optional overall row and the regular rows that passed the filters
// configured by config.RenderConfig.
package render

import (
	"fmt"
	"regexp"

	"github.com/wesleyorama2/jmdash/internal/config"
	"github.com/wesleyorama2/jmdash/internal/dataset"
)

// NoSeries disables the series filter for a table.
const NoSeries = -1

// Formatter converts a raw cell value of the given column into its display text.
// It must be free of side effects.
type Formatter func(col int, v dataset.Value) string

// HeaderCell is one cell of the grouping header row.
type HeaderCell struct {
	Label string `json:"label"`
	Span  int    `json:"span"`
}

// HeaderDecorator returns the grouping header row inserted above the titles.
type HeaderDecorator func() []HeaderCell

// Sort directions.
const (
	Ascending  = 0
	Descending = 1
)

// SortKey is one column of a sort specification.
type SortKey struct {
	Column    int `json:"column"`
	Direction int `json:"direction"`
}

// TableSpec describes how a dataset is presented.
type TableSpec struct {
	ID          string
	Formatter   Formatter
	DefaultSort []SortKey
	SeriesIndex int
	Header      HeaderDecorator
}

// Row is a rendered row with its display cells and the raw values used for sorting.
type Row struct {
	Cells        []string        `json:"cells"`
	Raw          []dataset.Value `json:"raw"`
	IsController bool            `json:"isController"`
}

// Table is the display model of a dataset.
type Table struct {
	ID          string       `json:"id"`
	GroupHeader []HeaderCell `json:"groupHeader,omitempty"`
	Titles      []string     `json:"titles"`
	Overall     *Row         `json:"overall,omitempty"`
	Rows        []Row        `json:"rows"`
	Sort        []SortKey    `json:"sort,omitempty"`
}

// HeaderCellCount returns the number of header cells, grouping row included.
func (t *Table) HeaderCellCount() int {
	return len(t.Titles) + len(t.GroupHeader)
}

// Renderer builds tables with a fixed, compiled RenderConfig.
type Renderer struct {
	config config.RenderConfig
	filter *regexp.Regexp
}

// NewRenderer compiles the series filter of cfg. A malformed filter is reported as a
// *config.FilterError.
func NewRenderer(cfg config.RenderConfig) (*Renderer, error) {
	re, err := cfg.CompileSeriesFilter()
	if err != nil {
		return nil, err
	}
	return &Renderer{config: cfg, filter: re}, nil
}

// Config returns the configuration the renderer was built with.
func (r *Renderer) Config() config.RenderConfig {
	return r.config
}

// Build renders a single dataset with cfg.
func Build(ds *dataset.ReportDataset, spec TableSpec, cfg config.RenderConfig) (*Table, error) {
	r, err := NewRenderer(cfg)
	if err != nil {
		return nil, err
	}
	return r.Table(ds, spec)
}

// Table renders ds according to spec. Items keep their original order; use
// Table.SortedRows for the initial sort.
func (r *Renderer) Table(ds *dataset.ReportDataset, spec TableSpec) (*Table, error) {
	if ds == nil {
		return nil, fmt.Errorf("dataset cannot be nil")
	}

	table := &Table{
		ID:     spec.ID,
		Titles: append([]string(nil), ds.Titles...),
		Sort:   append([]SortKey(nil), spec.DefaultSort...),
		Rows:   []Row{},
	}

	if spec.Header != nil {
		table.GroupHeader = spec.Header()
	}

	if ds.Overall != nil && len(ds.Overall.Data) > 0 {
		row := formatRow(*ds.Overall, spec.Formatter)
		table.Overall = &row
	}

	for _, item := range ds.Items {
		if len(item.Data) == 0 {
			continue
		}
		if !r.matchesSeries(ds, item, spec.SeriesIndex) {
			continue
		}
		if !r.matchesController(ds, item) {
			continue
		}
		table.Rows = append(table.Rows, formatRow(item, spec.Formatter))
	}

	return table, nil
}

// matchesSeries applies the series filter. It is bypassed when FiltersOnlySampleSeries
// is set and the dataset has no controller rows to tell apart.
func (r *Renderer) matchesSeries(ds *dataset.ReportDataset, item dataset.RowData, seriesIndex int) bool {
	if r.filter == nil || seriesIndex == NoSeries {
		return true
	}
	if r.config.FiltersOnlySampleSeries && !ds.SupportsControllersDiscrimination {
		return true
	}
	return r.filter.MatchString(item.Label(seriesIndex))
}

func (r *Renderer) matchesController(ds *dataset.ReportDataset, item dataset.RowData) bool {
	if !r.config.ShowControllersOnly || !ds.SupportsControllersDiscrimination {
		return true
	}
	return item.IsController
}

func formatRow(item dataset.RowData, formatter Formatter) Row {
	row := Row{
		Cells:        make([]string, len(item.Data)),
		Raw:          append([]dataset.Value(nil), item.Data...),
		IsController: item.IsController,
	}
	for i, v := range item.Data {
		if formatter != nil {
			row.Cells[i] = formatter(i, v)
		} else {
			row.Cells[i] = v.String()
		}
	}
	return row
}
