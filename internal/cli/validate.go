package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/wesleyorama2/jmdash/internal/config"
	"github.com/wesleyorama2/jmdash/internal/dataset"
	"github.com/wesleyorama2/jmdash/internal/output"
)

func newValidateCmd(s *settings) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <input>",
		Short: "Validate a dashboard data file and the report configuration",
		Long: `Check a dashboard data file against the dashboard schema, check that every
row has one cell per title and that the requests summary adds up to 100%.
The report configuration (file, flags and environment) is checked too.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(cmd, s, args[0])
		},
	}
}

func runValidate(cmd *cobra.Command, s *settings, input string) error {
	console := output.NewConsole(output.ConsoleConfig{Writer: cmd.OutOrStdout(), NoColor: s.NoColor()})
	var issues []string

	cfg, err := s.ReportConfig()
	if err != nil {
		var verrs *config.ValidationErrors
		if errors.As(err, &verrs) {
			for _, e := range verrs.Errors {
				issues = append(issues, "config: "+e.Error())
			}
		} else {
			issues = append(issues, "config: "+err.Error())
		}
		cfg = config.DefaultConfig()
	}

	if isResultsFile(input) {
		if _, err := loadDashboard(input, cfg, output.NewNoopLogger()); err != nil {
			issues = append(issues, err.Error())
		}
	} else {
		issues = append(issues, validateDashboardFile(input, cfg)...)
	}

	if len(issues) > 0 {
		console.PrintWarning(fmt.Sprintf("%s is invalid:", input))
		for _, issue := range issues {
			console.PrintIssue(issue)
		}
		return fmt.Errorf("validation failed with %d issue(s)", len(issues))
	}

	console.PrintOK(fmt.Sprintf("%s is valid", input))
	return nil
}

// validateDashboardFile runs the schema check, then the structural check of every table.
// The schema only applies to files laid out like the dashboard data (no custom section
// paths, not a statistics.json file).
func validateDashboardFile(path string, cfg *config.ReportConfig) []string {
	data, err := os.ReadFile(path)
	if err != nil {
		return []string{fmt.Sprintf("failed to read file: %v", err)}
	}

	var issues []string
	if len(cfg.Sections) == 0 {
		jsonData, err := dataset.ToJSON(data, path)
		if err != nil {
			return []string{err.Error()}
		}
		if !dataset.IsStatisticsFile(jsonData) {
			if err := dataset.ValidateSchema(data, path); err != nil {
				var schemaErrs dataset.SchemaErrors
				if errors.As(err, &schemaErrs) {
					for _, e := range schemaErrs {
						issues = append(issues, e.Error())
					}
				} else {
					issues = append(issues, err.Error())
				}
			}
		}
	}

	dash, err := dataset.ParseDashboard(data, path, cfg.Sections)
	if err != nil {
		return append(issues, err.Error())
	}
	if err := dash.Validate(); err != nil {
		issues = append(issues, err.Error())
	}
	return issues
}
