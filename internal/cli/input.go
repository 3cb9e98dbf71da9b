package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/wesleyorama2/jmdash/internal/aggregate"
	"github.com/wesleyorama2/jmdash/internal/config"
	"github.com/wesleyorama2/jmdash/internal/dataset"
	"github.com/wesleyorama2/jmdash/internal/output"
)

// isResultsFile reports whether path is a raw JTL results file rather than dashboard
// data.
func isResultsFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jtl", ".csv":
		return true
	}
	return false
}

// loadDashboard reads the input file: JTL results are aggregated, anything else is
// parsed as dashboard data.
func loadDashboard(path string, cfg *config.ReportConfig, logger output.Logger) (*dataset.Dashboard, error) {
	logger.LogLoadStart(path)

	var (
		dash *dataset.Dashboard
		err  error
	)
	if isResultsFile(path) {
		dash, err = aggregate.AggregateFile(path, aggregate.ConfigFrom(cfg), cfg.Title)
		if err != nil {
			return nil, err
		}
		if dash.Statistics != nil && dash.Statistics.Overall != nil {
			samples, _ := dash.Statistics.Overall.Data[1].Float()
			logger.LogAggregateComplete(path, int64(samples))
		}
	} else {
		dash, err = dataset.LoadDashboard(path, cfg.Sections)
		if err != nil {
			return nil, err
		}
	}

	if cfg.Title != "" {
		dash.Title = cfg.Title
	}
	if err := dash.Validate(); err != nil {
		return nil, fmt.Errorf("invalid dashboard %s: %w", path, err)
	}

	logger.LogLoadComplete(path, len(dash.Tables()))
	return dash, nil
}
