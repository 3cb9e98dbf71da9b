package config

import (
	"fmt"
	"regexp"
	"strings"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation error on field '%s': %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors struct {
	Errors []*ValidationError
}

func (e *ValidationErrors) Error() string {
	if len(e.Errors) == 0 {
		return "no validation errors"
	}
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d validation errors:\n", len(e.Errors)))
	for i, err := range e.Errors {
		sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, err.Error()))
	}
	return sb.String()
}

// Add adds an error to the collection.
func (e *ValidationErrors) Add(field, message string) {
	e.Errors = append(e.Errors, &ValidationError{Field: field, Message: message})
}

// HasErrors returns true if there are any errors.
func (e *ValidationErrors) HasErrors() bool {
	return len(e.Errors) > 0
}

// FilterError reports a series filter that is not a valid regular expression.
type FilterError struct {
	Pattern string
	Err     error
}

func (e *FilterError) Error() string {
	return fmt.Sprintf("invalid series filter %q: %v", e.Pattern, e.Err)
}

func (e *FilterError) Unwrap() error {
	return e.Err
}

// CompileSeriesFilter compiles the series filter. Matching is case-insensitive.
// It returns nil when the filter is empty.
func (c RenderConfig) CompileSeriesFilter() (*regexp.Regexp, error) {
	if c.SeriesFilter == "" {
		return nil, nil
	}
	re, err := regexp.Compile("(?i)" + c.SeriesFilter)
	if err != nil {
		return nil, &FilterError{Pattern: c.SeriesFilter, Err: err}
	}
	return re, nil
}

// Validate validates the entire report configuration.
//
// Returns nil if valid, or a ValidationErrors containing all validation errors.
func (c *ReportConfig) Validate() error {
	errs := &ValidationErrors{}

	if _, err := c.Render.CompileSeriesFilter(); err != nil {
		errs.Add("render.seriesFilter", err.Error())
	}

	validateApdex(&c.Apdex, errs)
	validateOutput(&c.Output, errs)

	for id, path := range c.Sections {
		if strings.TrimSpace(path) == "" {
			errs.Add(fmt.Sprintf("sections.%s", id), "path cannot be empty")
		}
	}

	if errs.HasErrors() {
		return errs
	}
	return nil
}

func validateApdex(a *ApdexConfig, errs *ValidationErrors) {
	if a.SatisfiedThreshold < 0 {
		errs.Add("apdex.satisfiedThreshold", "must not be negative")
	}
	if a.ToleratedThreshold < 0 {
		errs.Add("apdex.toleratedThreshold", "must not be negative")
	}
	if a.SatisfiedThreshold > 0 && a.ToleratedThreshold > 0 && a.ToleratedThreshold < a.SatisfiedThreshold {
		errs.Add("apdex.toleratedThreshold", fmt.Sprintf("must be >= satisfiedThreshold (%s)", a.SatisfiedThreshold))
	}
}

func validateOutput(o *OutputConfig, errs *ValidationErrors) {
	switch strings.ToLower(o.Format) {
	case "", FormatHTML, FormatXLSX, FormatJSON:
	default:
		errs.Add("output.format", fmt.Sprintf("unsupported format '%s' (expected html, xlsx or json)", o.Format))
	}
}
