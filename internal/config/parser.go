package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// LoadConfig loads a report configuration from a file.
//
// The file format is determined by extension:
//   - .yaml, .yml -> YAML
//   - .json -> JSON
//
// Returns the parsed ReportConfig or an error if parsing fails.
func LoadConfig(path string) (*ReportConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return ParseConfig(data, path)
}

// ParseConfig parses configuration data.
//
// The format is determined by the file extension in path, or defaults to YAML
// if the path is empty or has an unknown extension.
func ParseConfig(data []byte, path string) (*ReportConfig, error) {
	var config ReportConfig

	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".json":
		if err := json.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("failed to parse JSON config: %w", err)
		}
	case ".yaml", ".yml", "":
		if err := yaml.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("failed to parse YAML config: %w", err)
		}
	default:
		if err := yaml.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("failed to parse config (unknown format %s): %w", ext, err)
		}
	}

	return &config, nil
}

// ParseDurationString parses a duration string.
//
// Supported formats:
//   - Standard Go duration: "500ms", "1.5s", "2m"
//   - Integer milliseconds: "500" (the unit JMeter uses for thresholds)
func ParseDurationString(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}

	d, err := time.ParseDuration(s)
	if err == nil {
		return d, nil
	}

	if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.Duration(ms) * time.Millisecond, nil
	}

	return 0, fmt.Errorf("invalid duration format: %s", s)
}

// ApplyDefaults applies default values to a ReportConfig.
func ApplyDefaults(config *ReportConfig) {
	if config.Apdex.SatisfiedThreshold == 0 {
		config.Apdex.SatisfiedThreshold = Duration(DefaultSatisfiedThreshold)
	}
	if config.Apdex.ToleratedThreshold == 0 {
		config.Apdex.ToleratedThreshold = Duration(DefaultToleratedThreshold)
	}
	if config.Output.Format == "" {
		config.Output.Format = FormatHTML
	}
	config.Output.Format = strings.ToLower(config.Output.Format)
}

// DefaultConfig returns a configuration with all defaults applied.
func DefaultConfig() *ReportConfig {
	config := &ReportConfig{}
	ApplyDefaults(config)
	return config
}
