package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/wesleyorama2/jmdash/internal/aggregate"
	"github.com/wesleyorama2/jmdash/internal/config"
	"github.com/wesleyorama2/jmdash/internal/report"
)

func main() {
	outputPath := "sample-dashboard.html"
	if len(os.Args) > 1 {
		outputPath = os.Args[1]
	}

	agg := aggregate.New(aggregate.Config{})
	for _, s := range createSampleResults(120) {
		agg.Add(s)
	}
	dash := agg.Dashboard("Checkout Load Test - sample")

	format := strings.TrimPrefix(strings.ToLower(filepath.Ext(outputPath)), ".")
	opts := report.Options{Render: config.RenderConfig{}}
	if err := report.Generate(dash, format, outputPath, opts); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Sample report generated: %s (%d samples)\n", outputPath, agg.Count())
}

type sampler struct {
	label    string
	base     int64 // milliseconds
	failMod  int   // every failMod-th request fails, 0 never
	code     string
	message  string
	received int64
}

var samplers = []sampler{
	{label: "1.1 Homepage", base: 40, failMod: 97, code: "500", message: "Internal Server Error", received: 18432},
	{label: "1.2 Search", base: 85, failMod: 53, code: "Non HTTP response code: java.net.SocketTimeoutException", message: "Read timed out", received: 9216},
	{label: "2.1 Open session", base: 120, failMod: 41, code: "401", message: "Unauthorized", received: 2048},
	{label: "2.2 Add to cart", base: 65, received: 1536},
	{label: "2.3 Pay", base: 210, failMod: 29, code: "200", message: "OK", received: 3072},
}

// createSampleResults produces one iteration per virtual user and second, ramping
// up for the first 20 seconds and down for the last 20. Each iteration runs every
// sampler inside a "Checkout flow" transaction controller.
func createSampleResults(seconds int) []aggregate.Sample {
	baseTime := time.Now().Add(-time.Duration(seconds) * time.Second).UnixMilli()
	rampUpEnd := 20
	steadyEnd := seconds - 20

	var results []aggregate.Sample
	n := 0
	for i := 0; i < seconds; i++ {
		var vus int
		switch {
		case i < rampUpEnd:
			vus = 1 + i*10/rampUpEnd
		case i < steadyEnd:
			vus = 10
		default:
			vus = 1 + (seconds-i)*10/rampUpEnd
		}

		for vu := 0; vu < vus; vu++ {
			start := baseTime + int64(i)*1000 + int64(vu)*37
			at := start
			failing := 0
			for _, sp := range samplers {
				n++
				s := aggregate.Sample{
					Timestamp:       at,
					Elapsed:         sp.base + int64((n*7)%(int(sp.base)+1)),
					Label:           sp.label,
					ResponseCode:    "200",
					ResponseMessage: "OK",
					Success:         true,
					Bytes:           sp.received,
					SentBytes:       512,
				}
				if sp.failMod > 0 && n%sp.failMod == 0 {
					s.Success = false
					s.ResponseCode = sp.code
					s.ResponseMessage = sp.message
					if sp.code == "200" {
						s.FailureMessage = "Test failed: text expected to contain /order confirmed/"
					}
					failing++
				}
				results = append(results, s)
				at = s.End()
			}

			results = append(results, aggregate.Sample{
				Timestamp:       start,
				Elapsed:         at - start,
				Label:           "Checkout flow",
				ResponseCode:    "200",
				ResponseMessage: fmt.Sprintf("Number of samples in transaction : %d, number of failing samples : %d", len(samplers), failing),
				Success:         failing == 0,
			})
		}
	}
	return results
}
