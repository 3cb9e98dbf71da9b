package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/wesleyorama2/jmdash/internal/config"
	"github.com/wesleyorama2/jmdash/internal/output"
)

// Settings keys. Each is bound to the flag of the same name and to the environment
// variable JMDASH_<KEY>.
const (
	keyConfig                  = "config"
	keyLogLevel                = "log-level"
	keyNoColor                 = "no-color"
	keyTitle                   = "title"
	keyControllersOnly         = "controllers-only"
	keySeriesFilter            = "series-filter"
	keyFiltersOnlySampleSeries = "filters-only-sample-series"
	keyApdexSatisfied          = "apdex-satisfied"
	keyApdexTolerated          = "apdex-tolerated"
	keyFormat                  = "format"
	keyOutput                  = "output"
	keyAddr                    = "addr"
	keyTables                  = "tables"
)

// settings resolves flags, environment and the configuration file.
type settings struct {
	v *viper.Viper
}

func (s *settings) bindFlags(fs *pflag.FlagSet, keys ...string) {
	for _, key := range keys {
		if err := s.v.BindPFlag(key, fs.Lookup(key)); err != nil {
			panic(fmt.Sprintf("failed to bind flag %s: %v", key, err))
		}
	}
}

func (s *settings) ConfigFile() string { return s.v.GetString(keyConfig) }

func (s *settings) LogLevel() string { return s.v.GetString(keyLogLevel) }

func (s *settings) NoColor() bool { return s.v.GetBool(keyNoColor) }

func (s *settings) Addr() string { return s.v.GetString(keyAddr) }

func (s *settings) ShowTables() bool { return s.v.GetBool(keyTables) }

func (s *settings) Logger(w io.Writer) output.Logger {
	return output.NewLoggerTo(w, s.LogLevel())
}

// ReportConfig loads the configuration file, if any, and applies flag and environment
// overrides on top of it. Only settings that were explicitly given override the file.
func (s *settings) ReportConfig() (*config.ReportConfig, error) {
	cfg := &config.ReportConfig{}
	if path := s.ConfigFile(); path != "" {
		loaded, err := config.LoadConfig(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if s.v.IsSet(keyTitle) {
		cfg.Title = s.v.GetString(keyTitle)
	}
	if s.v.IsSet(keyControllersOnly) {
		cfg.Render.ShowControllersOnly = s.v.GetBool(keyControllersOnly)
	}
	if s.v.IsSet(keySeriesFilter) {
		cfg.Render.SeriesFilter = s.v.GetString(keySeriesFilter)
	}
	if s.v.IsSet(keyFiltersOnlySampleSeries) {
		cfg.Render.FiltersOnlySampleSeries = s.v.GetBool(keyFiltersOnlySampleSeries)
	}
	if s.v.IsSet(keyFormat) {
		cfg.Output.Format = strings.ToLower(s.v.GetString(keyFormat))
	}
	if s.v.IsSet(keyOutput) {
		cfg.Output.Path = s.v.GetString(keyOutput)
	}

	thresholds := []struct {
		key string
		dst *config.Duration
	}{
		{keyApdexSatisfied, &cfg.Apdex.SatisfiedThreshold},
		{keyApdexTolerated, &cfg.Apdex.ToleratedThreshold},
	}
	for _, t := range thresholds {
		if !s.v.IsSet(t.key) {
			continue
		}
		d, err := config.ParseDurationString(s.v.GetString(t.key))
		if err != nil {
			return nil, fmt.Errorf("invalid --%s: %w", t.key, err)
		}
		*t.dst = config.Duration(d)
	}

	config.ApplyDefaults(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
