package dataset

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed dashboard.schema.json
var dashboardSchemaJSON string

const dashboardSchemaURL = "dashboard.schema.json"

var (
	dashboardSchema     *jsonschema.Schema
	dashboardSchemaErr  error
	dashboardSchemaOnce sync.Once
)

// SchemaErrors is a collection of schema violations.
type SchemaErrors []error

// Error implements the error interface for SchemaErrors.
func (se SchemaErrors) Error() string {
	if len(se) == 0 {
		return ""
	}

	var sb strings.Builder
	for i, err := range se {
		if i > 0 {
			sb.WriteString("; ")
		}
		sb.WriteString(err.Error())
	}
	return sb.String()
}

func compiledSchema() (*jsonschema.Schema, error) {
	dashboardSchemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource(dashboardSchemaURL, strings.NewReader(dashboardSchemaJSON)); err != nil {
			dashboardSchemaErr = fmt.Errorf("invalid schema: %w", err)
			return
		}
		dashboardSchema, dashboardSchemaErr = compiler.Compile(dashboardSchemaURL)
	})
	return dashboardSchema, dashboardSchemaErr
}

// ValidateSchema checks a dashboard document (JSON, or YAML when path says so) against
// the dashboard JSON schema. It returns SchemaErrors listing every violation.
func ValidateSchema(data []byte, path string) error {
	schema, err := compiledSchema()
	if err != nil {
		return err
	}

	jsonData, err := ToJSON(data, path)
	if err != nil {
		return err
	}

	var doc interface{}
	dec := json.NewDecoder(bytes.NewReader(jsonData))
	dec.UseNumber()
	if err := dec.Decode(&doc); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}

	if err := schema.Validate(doc); err != nil {
		if validationErr, ok := err.(*jsonschema.ValidationError); ok {
			return collectSchemaErrors(validationErr)
		}
		return SchemaErrors{err}
	}
	return nil
}

// collectSchemaErrors flattens the leaf causes of a validation error.
func collectSchemaErrors(err *jsonschema.ValidationError) SchemaErrors {
	if len(err.Causes) == 0 {
		return SchemaErrors{fmt.Errorf("validation error at %s: %s", locationOf(err), err.Message)}
	}

	var errs SchemaErrors
	for _, cause := range err.Causes {
		errs = append(errs, collectSchemaErrors(cause)...)
	}
	return errs
}

func locationOf(err *jsonschema.ValidationError) string {
	if err.InstanceLocation == "" {
		return "/"
	}
	return err.InstanceLocation
}
