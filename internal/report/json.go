package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/wesleyorama2/jmdash/internal/config"
	"github.com/wesleyorama2/jmdash/internal/dataset"
	"github.com/wesleyorama2/jmdash/internal/render"
)

// Document is the JSON form of a rendered report.
type Document struct {
	ID              string                  `json:"id"`
	Title           string                  `json:"title,omitempty"`
	GeneratedAt     time.Time               `json:"generatedAt"`
	TestStart       *time.Time              `json:"testStart,omitempty"`
	TestEnd         *time.Time              `json:"testEnd,omitempty"`
	RequestsSummary dataset.PassFailSummary `json:"requestsSummary"`
	Filters         config.RenderConfig     `json:"filters"`
	Tables          []TableDocument         `json:"tables"`
}

// TableDocument is one table, rows in their initial sort order.
type TableDocument struct {
	ID          string              `json:"id"`
	Title       string              `json:"title"`
	GroupHeader []render.HeaderCell `json:"groupHeader,omitempty"`
	Titles      []string            `json:"titles"`
	Overall     []string            `json:"overall,omitempty"`
	Rows        [][]string          `json:"rows"`
}

// NewDocument converts prepared report data to its JSON form.
func NewDocument(data *ReportData) *Document {
	doc := &Document{
		ID:              data.ID,
		Title:           data.Title,
		GeneratedAt:     data.GeneratedAt,
		RequestsSummary: data.Dashboard.RequestsSummary,
		Filters:         data.Filters,
		Tables:          make([]TableDocument, 0, len(data.Tables)),
	}
	if t := data.Dashboard.TestStart; !t.IsZero() {
		doc.TestStart = &t
	}
	if t := data.Dashboard.TestEnd; !t.IsZero() {
		doc.TestEnd = &t
	}

	for _, table := range data.Tables {
		td := TableDocument{
			ID:          table.ID,
			Title:       sectionTitle(table.ID),
			GroupHeader: table.GroupHeader,
			Titles:      table.Titles,
			Rows:        make([][]string, 0, len(table.Rows)),
		}
		if table.Overall != nil {
			td.Overall = table.Overall.Cells
		}
		for _, row := range table.SortedRows() {
			td.Rows = append(td.Rows, row.Cells)
		}
		doc.Tables = append(doc.Tables, td)
	}
	return doc
}

// WriteJSON renders the report as indented JSON to w.
func WriteJSON(w io.Writer, d *dataset.Dashboard, o Options) error {
	data, err := Prepare(d, o)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(NewDocument(data)); err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	return nil
}

// GenerateJSON writes the JSON report to a file.
func GenerateJSON(d *dataset.Dashboard, outputPath string, o Options) error {
	f, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create JSON file: %w", err)
	}
	defer f.Close()

	if err := WriteJSON(f, d, o); err != nil {
		return err
	}
	return f.Close()
}
