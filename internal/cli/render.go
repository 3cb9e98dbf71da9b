package cli

import (
	"github.com/spf13/cobra"

	"github.com/wesleyorama2/jmdash/internal/config"
	"github.com/wesleyorama2/jmdash/internal/report"
)

func newRenderCmd(s *settings) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "render <input>",
		Short: "Render a dashboard to HTML, XLSX or JSON",
		Long: `Render the dashboard tables and the requests summary chart.

The input is a dashboard data file (.json, .yaml), a JMeter statistics.json
file, or a raw results file (.jtl, .csv) which is aggregated first.

Examples:
  jmdash render dashboard.json
  jmdash render results.jtl --series-filter '^checkout' --format xlsx -o checkout.xlsx
  jmdash render dashboard.json --format json -o -`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd, s, args[0])
		},
	}

	cmd.Flags().StringP("format", "f", "", "Output format: html, xlsx, json (default html)")
	cmd.Flags().StringP("output", "o", "", "Output file, - for stdout (default dashboard.<format>)")
	s.bindFlags(cmd.Flags(), keyFormat, keyOutput)
	return cmd
}

func runRender(cmd *cobra.Command, s *settings, input string) error {
	logger := s.Logger(cmd.ErrOrStderr())

	cfg, err := s.ReportConfig()
	if err != nil {
		return err
	}

	dash, err := loadDashboard(input, cfg, logger)
	if err != nil {
		return err
	}

	opts := report.Options{Render: cfg.Render, Title: cfg.Title}
	path := cfg.Output.Path
	if path == "-" {
		return report.Write(cmd.OutOrStdout(), dash, cfg.Output.Format, opts)
	}
	if path == "" {
		path = report.DefaultPath(cfg.Output.Format)
	}

	if err := report.Generate(dash, cfg.Output.Format, path, opts); err != nil {
		return err
	}
	logger.LogReportWritten(path, formatName(cfg.Output.Format))
	return nil
}

func formatName(format string) string {
	if format == "" {
		return config.FormatHTML
	}
	return format
}
