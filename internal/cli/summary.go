package cli

import (
	"github.com/spf13/cobra"

	"github.com/wesleyorama2/jmdash/internal/dataset"
	"github.com/wesleyorama2/jmdash/internal/output"
	"github.com/wesleyorama2/jmdash/internal/render"
)

var tableHeadings = map[string]string{
	dataset.SectionApdex:      "APDEX",
	dataset.SectionStatistics: "Statistics",
	dataset.SectionErrors:     "Errors",
	dataset.SectionTop5Errors: "Top 5 Errors by sampler",
}

func newSummaryCmd(s *settings) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "summary <input>",
		Short: "Print the dashboard summary in the terminal",
		Long: `Print the pass/fail summary of a dashboard and, with --tables, every
table after filtering and sorting.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSummary(cmd, s, args[0])
		},
	}

	cmd.Flags().Bool("tables", false, "Also print the dashboard tables")
	s.bindFlags(cmd.Flags(), keyTables)
	return cmd
}

func runSummary(cmd *cobra.Command, s *settings, input string) error {
	cfg, err := s.ReportConfig()
	if err != nil {
		return err
	}

	dash, err := loadDashboard(input, cfg, s.Logger(cmd.ErrOrStderr()))
	if err != nil {
		return err
	}

	console := output.NewConsole(output.ConsoleConfig{Writer: cmd.OutOrStdout(), NoColor: s.NoColor()})
	console.PrintSummary(dash)

	if !s.ShowTables() {
		return nil
	}

	r, err := render.NewRenderer(cfg.Render)
	if err != nil {
		return err
	}
	tables, err := r.Dashboard(dash)
	if err != nil {
		return err
	}
	return console.PrintTables(tables, tableHeadings)
}
