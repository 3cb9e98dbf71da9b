package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var version = "0.1.0"

// envPrefix prefixes the environment variables read by every command, e.g.
// JMDASH_SERIES_FILTER.
const envPrefix = "JMDASH"

// NewRootCmd builds the command tree with its own settings.
func NewRootCmd() *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	s := &settings{v: v}

	root := &cobra.Command{
		Use:     "jmdash",
		Short:   "Render JMeter dashboard tables and charts",
		Version: version,
		Long: `jmdash renders the tables and the requests summary chart of a JMeter
dashboard. It reads a dashboard data file (JSON or YAML), a JMeter
statistics.json file or a raw JTL results file, applies the configured
row filters and writes an HTML page, an XLSX workbook or JSON.`,
		SilenceUsage: true,
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Help()
		},
	}

	pf := root.PersistentFlags()
	pf.StringP("config", "c", "", "Report configuration file (YAML or JSON)")
	pf.String("log-level", "info", "Log level: debug, info, warn, error")
	pf.Bool("no-color", false, "Disable colored output")
	pf.String("title", "", "Report title (overrides the dashboard title)")
	pf.Bool("controllers-only", false, "Keep only transaction controller rows")
	pf.String("series-filter", "", "Case-insensitive regular expression matched against row labels")
	pf.Bool("filters-only-sample-series", false, "Apply the series filter only to tables that distinguish controllers")
	pf.String("apdex-satisfied", "", "APDEX satisfied threshold for JTL input (e.g. 500ms)")
	pf.String("apdex-tolerated", "", "APDEX tolerated threshold for JTL input (e.g. 1500ms)")
	s.bindFlags(pf, keyConfig, keyLogLevel, keyNoColor, keyTitle, keyControllersOnly,
		keySeriesFilter, keyFiltersOnlySampleSeries, keyApdexSatisfied, keyApdexTolerated)

	root.AddCommand(newRenderCmd(s))
	root.AddCommand(newSummaryCmd(s))
	root.AddCommand(newValidateCmd(s))
	root.AddCommand(newServeCmd(s))
	return root
}

// Execute runs the root command. This is called by main.main().
func Execute() error {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return err
	}
	return nil
}
