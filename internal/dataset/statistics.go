package dataset

import (
	"fmt"

	"github.com/tidwall/gjson"
)

// Column titles of the standard JMeter dashboard tables.
var (
	StatisticsTitles = []string{
		"Label", "#Samples", "FAIL", "Error %", "Average", "Min", "Max", "Median",
		"90th pct", "95th pct", "99th pct", "Transactions/s", "Received", "Sent",
	}
	ApdexTitles = []string{
		"Apdex", "T (Toleration threshold)", "F (Frustration threshold)", "Label",
	}
	ErrorsTitles = []string{
		"Type of error", "Number of errors", "% in errors", "% in all samples",
	}
)

// Top5ErrorsTitles returns the titles of the top 5 errors by sampler table.
func Top5ErrorsTitles() []string {
	titles := []string{"Sample", "#Samples", "#Errors"}
	for i := 0; i < 5; i++ {
		titles = append(titles, "Error", "#Errors")
	}
	return titles
}

// statisticsFields are the statistics.json keys in StatisticsTitles order, after Label.
var statisticsFields = []string{
	"sampleCount", "errorCount", "errorPct", "meanResTime", "minResTime", "maxResTime",
	"medianResTime", "pct1ResTime", "pct2ResTime", "pct3ResTime", "throughput",
	"receivedKBytesPerSec", "sentKBytesPerSec",
}

// IsStatisticsFile reports whether data looks like a JMeter statistics.json file.
func IsStatisticsFile(data []byte) bool {
	return gjson.GetBytes(data, TotalLabel+".sampleCount").Exists()
}

// ImportStatistics converts a JMeter statistics.json document into a dashboard with the
// statistics table and the requests summary. Transactions keep the file order.
//
// statistics.json does not say which transactions are controllers, so the table does
// not support controller discrimination.
func ImportStatistics(data []byte) (*Dashboard, error) {
	root := gjson.ParseBytes(data)
	if !root.IsObject() {
		return nil, fmt.Errorf("statistics file must be a JSON object")
	}

	ds := &ReportDataset{Titles: append([]string(nil), StatisticsTitles...)}

	var parseErr error
	root.ForEach(func(key, value gjson.Result) bool {
		if !value.IsObject() {
			parseErr = fmt.Errorf("transaction %q is not an object", key.String())
			return false
		}
		label := value.Get("transaction").String()
		if label == "" {
			label = key.String()
		}

		row := RowData{Data: make([]Value, 0, len(StatisticsTitles))}
		row.Data = append(row.Data, String(label))
		for _, field := range statisticsFields {
			row.Data = append(row.Data, Number(value.Get(field).Float()))
		}

		if key.String() == TotalLabel {
			ds.Overall = &row
		} else {
			ds.Items = append(ds.Items, row)
		}
		return true
	})
	if parseErr != nil {
		return nil, parseErr
	}

	total := root.Get(TotalLabel)
	return &Dashboard{
		Title:           "Statistics",
		RequestsSummary: NewPassFailSummary(total.Get("sampleCount").Int(), total.Get("errorCount").Int()),
		Statistics:      ds,
	}, nil
}
