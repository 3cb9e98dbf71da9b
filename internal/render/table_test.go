package render

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wesleyorama2/jmdash/internal/config"
	"github.com/wesleyorama2/jmdash/internal/dataset"
)

func labelsOf(rows []Row) []string {
	labels := make([]string, len(rows))
	for i, r := range rows {
		labels[i] = r.Cells[0]
	}
	return labels
}

func sessionDataset(supportsControllers bool) *dataset.ReportDataset {
	return &dataset.ReportDataset{
		Titles:                            []string{"Label", "#Samples"},
		SupportsControllersDiscrimination: supportsControllers,
		Items: []dataset.RowData{
			{Data: dataset.Values("1.1 Homepage", 10)},
			{Data: dataset.Values("2.1 Open session", 20)},
			{Data: dataset.Values("2 Session flow", 30), IsController: true},
			{Data: nil},
		},
	}
}

func TestBuild_OverallAndEmptyRows(t *testing.T) {
	ds := &dataset.ReportDataset{
		Titles:  []string{"Label", "#Samples"},
		Overall: &dataset.RowData{Data: dataset.Values("Total", 523)},
		Items: []dataset.RowData{
			{Data: dataset.Values("A", 10)},
			{Data: []dataset.Value{}},
		},
	}

	table, err := Build(ds, TableSpec{ID: "t", SeriesIndex: 0}, config.RenderConfig{})
	require.NoError(t, err)

	require.NotNil(t, table.Overall)
	assert.Equal(t, []string{"Total", "523"}, table.Overall.Cells)
	require.Len(t, table.Rows, 1)
	assert.Equal(t, []string{"A", "10"}, table.Rows[0].Cells)
	assert.Nil(t, table.GroupHeader)
	assert.Equal(t, 2, table.HeaderCellCount())
}

func TestBuild_NoOverall(t *testing.T) {
	table, err := Build(sessionDataset(false), TableSpec{}, config.RenderConfig{})
	require.NoError(t, err)
	assert.Nil(t, table.Overall)
	assert.Len(t, table.Rows, 3)
}

func TestBuild_NilDataset(t *testing.T) {
	_, err := Build(nil, TableSpec{}, config.RenderConfig{})
	assert.Error(t, err)
}

func TestBuild_InvalidSeriesFilter(t *testing.T) {
	_, err := Build(sessionDataset(true), TableSpec{}, config.RenderConfig{SeriesFilter: "(["})
	var filterErr *config.FilterError
	assert.True(t, errors.As(err, &filterErr), "expected FilterError, got %v", err)
}

func TestBuild_Filters(t *testing.T) {
	tests := []struct {
		name                string
		cfg                 config.RenderConfig
		supportsControllers bool
		seriesIndex         int
		expected            []string
	}{
		{
			name:                "no filters keeps every non-empty row in order",
			cfg:                 config.RenderConfig{},
			supportsControllers: true,
			expected:            []string{"1.1 Homepage", "2.1 Open session", "2 Session flow"},
		},
		{
			name:                "series filter keeps matching labels",
			cfg:                 config.RenderConfig{SeriesFilter: `^2\.`},
			supportsControllers: true,
			expected:            []string{"2.1 Open session"},
		},
		{
			name:                "series filter is case-insensitive",
			cfg:                 config.RenderConfig{SeriesFilter: "homepage"},
			supportsControllers: true,
			expected:            []string{"1.1 Homepage"},
		},
		{
			name:                "filters only sample series bypasses tables without controllers",
			cfg:                 config.RenderConfig{SeriesFilter: `^2\.`, FiltersOnlySampleSeries: true},
			supportsControllers: false,
			expected:            []string{"1.1 Homepage", "2.1 Open session", "2 Session flow"},
		},
		{
			name:                "filters only sample series still filters tables with controllers",
			cfg:                 config.RenderConfig{SeriesFilter: `^2\.`, FiltersOnlySampleSeries: true},
			supportsControllers: true,
			expected:            []string{"2.1 Open session"},
		},
		{
			name:                "controllers only",
			cfg:                 config.RenderConfig{ShowControllersOnly: true},
			supportsControllers: true,
			expected:            []string{"2 Session flow"},
		},
		{
			name:                "controllers only is ignored without discrimination support",
			cfg:                 config.RenderConfig{ShowControllersOnly: true},
			supportsControllers: false,
			expected:            []string{"1.1 Homepage", "2.1 Open session", "2 Session flow"},
		},
		{
			name:                "both filters combine with AND",
			cfg:                 config.RenderConfig{ShowControllersOnly: true, SeriesFilter: `^2`},
			supportsControllers: true,
			expected:            []string{"2 Session flow"},
		},
		{
			name:                "no series column disables the series filter",
			cfg:                 config.RenderConfig{SeriesFilter: "nothing matches this"},
			supportsControllers: true,
			seriesIndex:         NoSeries,
			expected:            []string{"1.1 Homepage", "2.1 Open session", "2 Session flow"},
		},
		{
			name:                "series column out of range matches the empty string",
			cfg:                 config.RenderConfig{SeriesFilter: "^$"},
			supportsControllers: true,
			seriesIndex:         7,
			expected:            []string{"1.1 Homepage", "2.1 Open session", "2 Session flow"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table, err := Build(sessionDataset(tt.supportsControllers), TableSpec{SeriesIndex: tt.seriesIndex}, tt.cfg)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, labelsOf(table.Rows))

			if tt.cfg.ShowControllersOnly && tt.supportsControllers {
				for _, row := range table.Rows {
					assert.True(t, row.IsController)
				}
			}
		})
	}
}

func TestBuild_EmptyFilterKeepsAllNonEmptyItems(t *testing.T) {
	ds := &dataset.ReportDataset{Titles: []string{"Label"}}
	for i := 0; i < 50; i++ {
		if i%5 == 0 {
			ds.Items = append(ds.Items, dataset.RowData{})
			continue
		}
		ds.Items = append(ds.Items, dataset.RowData{Data: dataset.Values(i)})
	}

	table, err := Build(ds, TableSpec{}, config.RenderConfig{FiltersOnlySampleSeries: true})
	require.NoError(t, err)
	assert.Len(t, table.Rows, 40)
}

func TestBuild_FormatterAndHeader(t *testing.T) {
	ds := &dataset.ReportDataset{
		Titles:  []string{"Label", "Rate"},
		Overall: &dataset.RowData{Data: dataset.Values("Total", 0.5)},
		Items:   []dataset.RowData{{Data: dataset.Values("A", 0.25)}},
	}
	spec := TableSpec{
		Formatter: func(col int, v dataset.Value) string {
			if col == 1 {
				return FormatPercent(v)
			}
			return v.String()
		},
		Header: func() []HeaderCell { return []HeaderCell{{Label: "Group", Span: 2}} },
	}

	table, err := Build(ds, spec, config.RenderConfig{})
	require.NoError(t, err)
	assert.Equal(t, "0.50%", table.Overall.Cells[1])
	assert.Equal(t, "0.25%", table.Rows[0].Cells[1])
	assert.Equal(t, 0.25, mustFloat(t, table.Rows[0].Raw[1]))
	assert.Equal(t, []HeaderCell{{Label: "Group", Span: 2}}, table.GroupHeader)
	assert.Equal(t, 3, table.HeaderCellCount())
}

func mustFloat(t *testing.T, v dataset.Value) float64 {
	t.Helper()
	n, ok := v.Float()
	require.True(t, ok)
	return n
}

func TestSortedRows(t *testing.T) {
	ds := &dataset.ReportDataset{
		Titles: []string{"Label", "Count"},
		Items: []dataset.RowData{
			{Data: dataset.Values("b", 10)},
			{Data: dataset.Values("A", 2)},
			{Data: dataset.Values("c", 10)},
			{Data: dataset.Values("B", "n/a")},
		},
	}

	table, err := Build(ds, TableSpec{DefaultSort: []SortKey{{Column: 0, Direction: Ascending}}}, config.RenderConfig{})
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "b", "B", "c"}, labelsOf(table.SortedRows()))
	assert.Equal(t, []string{"b", "A", "c", "B"}, labelsOf(table.Rows), "Rows keep the original order")

	table.Sort = []SortKey{{Column: 1, Direction: Descending}, {Column: 0, Direction: Ascending}}
	assert.Equal(t, []string{"B", "b", "c", "A"}, labelsOf(table.SortedRows()))

	table.Sort = []SortKey{{Column: 9, Direction: Ascending}}
	assert.Equal(t, []string{"b", "A", "c", "B"}, labelsOf(table.SortedRows()))
}

func TestCompareValues(t *testing.T) {
	tests := []struct {
		a, b     dataset.Value
		expected int
	}{
		{dataset.Number(1), dataset.Number(2), -1},
		{dataset.Number(10), dataset.Number(2), 1},
		{dataset.Number(3), dataset.Number(3), 0},
		{dataset.Number(100), dataset.String("a"), -1},
		{dataset.String("a"), dataset.Number(100), 1},
		{dataset.String("abc"), dataset.String("ABD"), -1},
		{dataset.String("X"), dataset.String("x"), 0},
	}

	for _, tc := range tests {
		if got := CompareValues(tc.a, tc.b); got != tc.expected {
			t.Errorf("CompareValues(%v, %v) = %d, expected %d", tc.a, tc.b, got, tc.expected)
		}
	}
}
