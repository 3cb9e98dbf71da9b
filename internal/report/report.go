package report

import (
	"fmt"
	"io"

	"github.com/wesleyorama2/jmdash/internal/config"
	"github.com/wesleyorama2/jmdash/internal/dataset"
)

// Generate writes the report in the given format to outputPath.
func Generate(d *dataset.Dashboard, format, outputPath string, o Options) error {
	switch format {
	case config.FormatHTML, "":
		return GenerateHTML(d, outputPath, o)
	case config.FormatXLSX:
		return GenerateXLSX(d, outputPath, o)
	case config.FormatJSON:
		return GenerateJSON(d, outputPath, o)
	default:
		return fmt.Errorf("unsupported output format: %s", format)
	}
}

// Write renders the report in the given format to w.
func Write(w io.Writer, d *dataset.Dashboard, format string, o Options) error {
	switch format {
	case config.FormatHTML, "":
		return WriteHTML(w, d, o)
	case config.FormatXLSX:
		return WriteXLSX(w, d, o)
	case config.FormatJSON:
		return WriteJSON(w, d, o)
	default:
		return fmt.Errorf("unsupported output format: %s", format)
	}
}

// DefaultPath returns the output file name used when none is configured.
func DefaultPath(format string) string {
	if format == "" {
		format = config.FormatHTML
	}
	return "dashboard." + format
}
