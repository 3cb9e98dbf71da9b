package report

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/wesleyorama2/jmdash/internal/config"
	"github.com/wesleyorama2/jmdash/internal/dataset"
)

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	err := WriteJSON(&buf, loadSampleDashboard(t), Options{Render: config.RenderConfig{SeriesFilter: "homepage"}})
	require.NoError(t, err)

	var doc Document
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))

	assert.NotEmpty(t, doc.ID)
	assert.Equal(t, "Checkout load test", doc.Title)
	require.NotNil(t, doc.TestStart)
	assert.Equal(t, "homepage", doc.Filters.SeriesFilter)
	assert.InDelta(t, 3.5, doc.RequestsSummary.KoPercent, 0.001)
	require.Len(t, doc.Tables, 4)

	stats := doc.Tables[1]
	assert.Equal(t, dataset.SectionStatistics, stats.ID)
	assert.Equal(t, "Statistics", stats.Title)
	assert.Len(t, stats.GroupHeader, 5)
	assert.Equal(t, "Total", stats.Overall[0])
	require.Len(t, stats.Rows, 1, "case-insensitive series filter")
	assert.Equal(t, "1.1 Homepage", stats.Rows[0][0])

	errorsTable := doc.Tables[2]
	assert.Len(t, errorsTable.Rows, 2)
	assert.Equal(t, "12", errorsTable.Rows[0][1])
}

func TestGenerateXLSX(t *testing.T) {
	outputPath := filepath.Join(t.TempDir(), "dashboard.xlsx")
	require.NoError(t, GenerateXLSX(loadSampleDashboard(t), outputPath, Options{}))

	f, err := excelize.OpenFile(outputPath)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Summary", "APDEX", "Statistics", "Errors", "Top 5 Errors"}, f.GetSheetList())

	title, err := f.GetCellValue("Summary", "B1")
	require.NoError(t, err)
	assert.Equal(t, "Checkout load test", title)

	rows, err := f.GetRows("Statistics")
	require.NoError(t, err)
	require.Len(t, rows, 2+1+3, "group header, titles, overall and three rows")
	assert.Equal(t, "Requests", rows[0][0])
	assert.Equal(t, "Label", rows[1][0])
	assert.Equal(t, "Total", rows[2][0])
	assert.Equal(t, "3.44%", rows[2][3])

	merged, err := f.GetMergeCells("Statistics")
	require.NoError(t, err)
	assert.Len(t, merged, 3, "every group spanning more than one column is merged")
}

func TestWrite_Formats(t *testing.T) {
	dash := loadSampleDashboard(t)

	for _, format := range []string{config.FormatHTML, config.FormatJSON, config.FormatXLSX} {
		var buf bytes.Buffer
		require.NoError(t, Write(&buf, dash, format, Options{}), format)
		assert.NotZero(t, buf.Len(), format)
	}

	var buf bytes.Buffer
	assert.Error(t, Write(&buf, dash, "pdf", Options{}))
	assert.Error(t, Generate(dash, "pdf", filepath.Join(t.TempDir(), "x.pdf"), Options{}))
}

func TestDefaultPath(t *testing.T) {
	assert.Equal(t, "dashboard.html", DefaultPath(""))
	assert.Equal(t, "dashboard.xlsx", DefaultPath(config.FormatXLSX))
}
