// Package aggregate computes dashboard tables from a raw JMeter results (JTL) file.
package aggregate

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// controllerMessagePrefix is the response message JMeter writes for transaction
// controller samples.
const controllerMessagePrefix = "Number of samples in transaction"

// Sample is one line of a JTL file.
type Sample struct {
	Timestamp       int64 // start, epoch milliseconds
	Elapsed         int64 // milliseconds
	Label           string
	ResponseCode    string
	ResponseMessage string
	Success         bool
	FailureMessage  string
	Bytes           int64
	SentBytes       int64
}

// End returns the end time of the sample in epoch milliseconds.
func (s Sample) End() int64 {
	return s.Timestamp + s.Elapsed
}

// IsController reports whether the sample was produced by a transaction controller.
func (s Sample) IsController() bool {
	return strings.HasPrefix(s.ResponseMessage, controllerMessagePrefix)
}

var requiredColumns = []string{"timeStamp", "elapsed", "label", "success"}

// ReadJTL reads a CSV JTL file with a header line and calls fn for every sample.
func ReadJTL(r io.Reader, fn func(Sample) error) error {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("empty results file")
		}
		return fmt.Errorf("failed to read header: %w", err)
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.TrimSpace(name)] = i
	}
	for _, name := range requiredColumns {
		if _, ok := columns[name]; !ok {
			return fmt.Errorf("missing required column %q", name)
		}
	}

	line := 1
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			return nil
		}
		line++
		if err != nil {
			return fmt.Errorf("line %d: %w", line, err)
		}

		sample, err := parseSample(record, columns)
		if err != nil {
			return fmt.Errorf("line %d: %w", line, err)
		}
		if err := fn(sample); err != nil {
			return err
		}
	}
}

func parseSample(record []string, columns map[string]int) (Sample, error) {
	field := func(name string) string {
		i, ok := columns[name]
		if !ok || i >= len(record) {
			return ""
		}
		return record[i]
	}

	ts, err := strconv.ParseInt(field("timeStamp"), 10, 64)
	if err != nil {
		return Sample{}, fmt.Errorf("invalid timeStamp %q: expected epoch milliseconds", field("timeStamp"))
	}
	elapsed, err := strconv.ParseInt(field("elapsed"), 10, 64)
	if err != nil {
		return Sample{}, fmt.Errorf("invalid elapsed %q", field("elapsed"))
	}
	if elapsed < 0 {
		elapsed = 0
	}

	return Sample{
		Timestamp:       ts,
		Elapsed:         elapsed,
		Label:           field("label"),
		ResponseCode:    field("responseCode"),
		ResponseMessage: field("responseMessage"),
		Success:         strings.EqualFold(field("success"), "true"),
		FailureMessage:  field("failureMessage"),
		Bytes:           parseOptionalInt(field("bytes")),
		SentBytes:       parseOptionalInt(field("sentBytes")),
	}, nil
}

func parseOptionalInt(s string) int64 {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0
	}
	return n
}
