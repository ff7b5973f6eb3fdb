package model

import (
	"fmt"
	"math"
	"sort"
	"time"
)

// Per-sample metric names. These are the column names of the columnar
// TimeSeries and of the tabular export.
const (
	MetricHeartRate   = "heart_rate_bpm"
	MetricPower       = "power_w"
	MetricCadence     = "cadence_rpm"
	MetricSpeed       = "speed_mps"
	MetricDistance    = "distance_m"
	MetricAltitude    = "altitude_m"
	MetricTemperature = "temperature_c"
)

// SampleMetrics lists every modeled per-sample metric in canonical column
// order.
var SampleMetrics = []string{
	MetricHeartRate,
	MetricPower,
	MetricCadence,
	MetricSpeed,
	MetricDistance,
	MetricAltitude,
	MetricTemperature,
}

// Unset marks a sample slot with no recorded value inside a metric column.
var Unset = math.NaN()

// IsUnset reports whether a column cell holds no recorded value.
func IsUnset(v float64) bool { return math.IsNaN(v) }

// TimeSeries is columnar per-sample data: one value array per metric, all
// exactly as long as the shared timestamp array. The length invariant is
// enforced at construction; a TimeSeries that exists is valid.
type TimeSeries struct {
	timestamps []time.Time
	columns    map[string][]float64
}

// NewTimeSeries builds a series from a timestamp array and metric columns.
// Construction fails when any column length differs from the timestamp
// count.
func NewTimeSeries(timestamps []time.Time, columns map[string][]float64) (*TimeSeries, error) {
	for name, col := range columns {
		if len(col) != len(timestamps) {
			return nil, fmt.Errorf("time series column %q has %d values for %d timestamps", name, len(col), len(timestamps))
		}
	}
	cp := make(map[string][]float64, len(columns))
	for name, col := range columns {
		cp[name] = col
	}
	return &TimeSeries{timestamps: timestamps, columns: cp}, nil
}

// Len returns the sample count.
func (ts *TimeSeries) Len() int {
	if ts == nil {
		return 0
	}
	return len(ts.timestamps)
}

// Timestamps returns the shared timestamp array.
func (ts *TimeSeries) Timestamps() []time.Time { return ts.timestamps }

// MetricNames returns the recorded metric names in deterministic order.
func (ts *TimeSeries) MetricNames() []string {
	if ts == nil {
		return nil
	}
	names := make([]string, 0, len(ts.columns))
	for name := range ts.columns {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Column returns the value array for one metric.
func (ts *TimeSeries) Column(name string) ([]float64, bool) {
	if ts == nil {
		return nil, false
	}
	col, ok := ts.columns[name]
	return col, ok
}

// Value returns the metric value at sample index i, or ok=false when the
// metric is absent or the cell is unset.
func (ts *TimeSeries) Value(name string, i int) (float64, bool) {
	col, ok := ts.columns[name]
	if !ok || i < 0 || i >= len(col) || IsUnset(col[i]) {
		return 0, false
	}
	return col[i], true
}

// Slice returns the sub-series for sample indexes [i, j). The returned
// series shares the underlying arrays; the invariant holds by construction.
func (ts *TimeSeries) Slice(i, j int) *TimeSeries {
	if ts == nil || i < 0 || j > len(ts.timestamps) || i >= j {
		return nil
	}
	cols := make(map[string][]float64, len(ts.columns))
	for name, col := range ts.columns {
		cols[name] = col[i:j]
	}
	return &TimeSeries{timestamps: ts.timestamps[i:j], columns: cols}
}

// IndexAtOrAfter returns the first sample index whose timestamp is not
// before t.
func (ts *TimeSeries) IndexAtOrAfter(t time.Time) int {
	return sort.Search(len(ts.timestamps), func(i int) bool {
		return !ts.timestamps[i].Before(t)
	})
}

// SeriesBuilder assembles a TimeSeries in one pass over per-sample source
// records. Memory stays proportional to sample count times distinct metric
// count; no per-sample objects are materialized.
type SeriesBuilder struct {
	timestamps []time.Time
	columns    map[string][]float64
}

func NewSeriesBuilder() *SeriesBuilder {
	return &SeriesBuilder{columns: make(map[string][]float64)}
}

// StartSample opens the next sample row at timestamp t. Columns not written
// before the next StartSample keep an unset cell for this row.
func (b *SeriesBuilder) StartSample(t time.Time) {
	b.timestamps = append(b.timestamps, t)
}

// Set records a metric value for the current sample row.
func (b *SeriesBuilder) Set(metric string, v float64) {
	if len(b.timestamps) == 0 {
		return
	}
	col := b.columns[metric]
	for len(col) < len(b.timestamps)-1 {
		col = append(col, Unset)
	}
	if len(col) == len(b.timestamps) {
		col[len(col)-1] = v
	} else {
		col = append(col, v)
	}
	b.columns[metric] = col
}

// Len returns the number of sample rows started so far.
func (b *SeriesBuilder) Len() int { return len(b.timestamps) }

// Series finishes the build, padding trailing unset cells so every column
// satisfies the length invariant.
func (b *SeriesBuilder) Series() (*TimeSeries, error) {
	if len(b.timestamps) == 0 {
		return nil, nil
	}
	for name, col := range b.columns {
		for len(col) < len(b.timestamps) {
			col = append(col, Unset)
		}
		b.columns[name] = col
	}
	return NewTimeSeries(b.timestamps, b.columns)
}
