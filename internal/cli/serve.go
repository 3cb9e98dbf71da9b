package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/wesleyorama2/jmdash/internal/server"
)

func newServeCmd(s *settings) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve <input>",
		Short: "Serve the dashboard over HTTP",
		Long: `Serve the dashboard page, its tables as JSON and the workbook download.
The row filters given on the command line are the defaults; each request
can override them with the controllersOnly, seriesFilter and
filtersOnlySampleSeries query parameters.

Endpoints:
  /                   dashboard page
  /report.json        rendered tables as JSON
  /report.xlsx        rendered tables as an XLSX workbook
  /chart              requests summary chart page
  /api/summary        pass/fail summary
  /api/tables[/:id]   rendered tables
  /health             liveness`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, s, args[0])
		},
	}

	cmd.Flags().String("addr", ":8080", "Listen address")
	s.bindFlags(cmd.Flags(), keyAddr)
	return cmd
}

func runServe(cmd *cobra.Command, s *settings, input string) error {
	logger := s.Logger(cmd.ErrOrStderr())

	cfg, err := s.ReportConfig()
	if err != nil {
		return err
	}

	dash, err := loadDashboard(input, cfg, logger)
	if err != nil {
		return err
	}

	if s.LogLevel() != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	srv, err := server.New(dash, server.Config{
		Addr:     s.Addr(),
		Title:    cfg.Title,
		Defaults: cfg.Render,
		Logger:   logger,
	})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return srv.Run(ctx)
}
