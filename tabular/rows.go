// Package tabular flattens canonical activities into one row per
// time-series sample. It is write-only: there is no tabular decoder. Two
// sinks share the same row extraction, a CSV text file and a parquet file.
package tabular

import (
	"time"

	"github.com/bcarlson/sportconv/model"
)

// sampleRow is one flattened time-series sample. Metric cells hold NaN when
// the sample did not record that metric.
type sampleRow struct {
	Time          time.Time
	ElapsedS      float64
	ActivityIndex int
	Metrics       map[string]float64
}

// collectRows flattens every set-level series in activity order. Aggregate
// telemetry does not contribute rows; an input with no series produces none.
func collectRows(acts []model.Activity) []sampleRow {
	var rows []sampleRow
	for ai, act := range acts {
		for _, seg := range act.Segments {
			for _, set := range seg.Sets {
				if set.Series == nil {
					continue
				}
				for i, ts := range set.Series.Timestamps() {
					row := sampleRow{
						Time:          ts,
						ActivityIndex: ai,
						Metrics:       make(map[string]float64, len(model.SampleMetrics)),
					}
					if !act.StartTime.IsZero() && !ts.Before(act.StartTime) {
						row.ElapsedS = ts.Sub(act.StartTime).Seconds()
					}
					for _, name := range model.SampleMetrics {
						row.Metrics[name] = model.Unset
						if v, ok := set.Series.Value(name, i); ok {
							row.Metrics[name] = v
						}
					}
					rows = append(rows, row)
				}
			}
		}
	}
	return rows
}
