package model

import (
	"encoding/json"
	"math"
	"testing"
	"time"

	"gopkg.in/yaml.v3"
)

func stamps(n int) []time.Time {
	base := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	out := make([]time.Time, n)
	for i := range out {
		out[i] = base.Add(time.Duration(i) * time.Second)
	}
	return out
}

func TestNewTimeSeriesRejectsMismatchedLengths(t *testing.T) {
	_, err := NewTimeSeries(stamps(3), map[string][]float64{
		MetricHeartRate: {120, 125, 130},
		MetricPower:     {200, 210},
	})
	if err == nil {
		t.Fatal("expected construction to fail on length mismatch")
	}
}

func TestNewTimeSeriesAcceptsEqualLengths(t *testing.T) {
	ts, err := NewTimeSeries(stamps(2), map[string][]float64{
		MetricHeartRate: {120, Unset},
	})
	if err != nil {
		t.Fatalf("construction failed: %v", err)
	}
	if ts.Len() != 2 {
		t.Fatalf("Len = %d, want 2", ts.Len())
	}
	if v, ok := ts.Value(MetricHeartRate, 0); !ok || v != 120 {
		t.Fatalf("Value(0) = %v, %v", v, ok)
	}
	if _, ok := ts.Value(MetricHeartRate, 1); ok {
		t.Fatal("unset cell reported as recorded")
	}
}

func TestSeriesBuilderPadsSparseColumns(t *testing.T) {
	b := NewSeriesBuilder()
	times := stamps(3)

	b.StartSample(times[0])
	b.Set(MetricHeartRate, 118)

	b.StartSample(times[1])
	b.Set(MetricPower, 250)

	b.StartSample(times[2])
	b.Set(MetricHeartRate, 121)
	b.Set(MetricPower, 260)

	ts, err := b.Series()
	if err != nil {
		t.Fatalf("Series: %v", err)
	}

	for _, name := range ts.MetricNames() {
		col, _ := ts.Column(name)
		if len(col) != ts.Len() {
			t.Fatalf("column %q length %d != %d samples", name, len(col), ts.Len())
		}
	}
	if _, ok := ts.Value(MetricPower, 0); ok {
		t.Fatal("padding cell reported as recorded")
	}
	if _, ok := ts.Value(MetricHeartRate, 1); ok {
		t.Fatal("skipped cell reported as recorded")
	}
	if v, _ := ts.Value(MetricPower, 2); v != 260 {
		t.Fatalf("Value(power, 2) = %v, want 260", v)
	}
}

func TestSliceAndIndexAtOrAfter(t *testing.T) {
	times := stamps(5)
	ts, err := NewTimeSeries(times, map[string][]float64{
		MetricSpeed: {1, 2, 3, 4, 5},
	})
	if err != nil {
		t.Fatalf("construction failed: %v", err)
	}

	i := ts.IndexAtOrAfter(times[2])
	if i != 2 {
		t.Fatalf("IndexAtOrAfter = %d, want 2", i)
	}
	if got := ts.IndexAtOrAfter(times[4].Add(time.Minute)); got != 5 {
		t.Fatalf("IndexAtOrAfter past end = %d, want 5", got)
	}

	sub := ts.Slice(1, 4)
	if sub.Len() != 3 {
		t.Fatalf("slice Len = %d, want 3", sub.Len())
	}
	if v, _ := sub.Value(MetricSpeed, 0); v != 2 {
		t.Fatalf("slice first value = %v, want 2", v)
	}
	if ts.Slice(3, 3) != nil {
		t.Fatal("empty slice should be nil")
	}
	if ts.Slice(-1, 2) != nil {
		t.Fatal("negative start should be nil")
	}
}

func TestTimeSeriesYAMLRoundTrip(t *testing.T) {
	ts, err := NewTimeSeries(stamps(3), map[string][]float64{
		MetricHeartRate: {120, Unset, 130},
		MetricAltitude:  {12.5, 13.0, Unset},
	})
	if err != nil {
		t.Fatalf("construction failed: %v", err)
	}

	out, err := yaml.Marshal(ts)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var back TimeSeries
	if err := yaml.Unmarshal(out, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if back.Len() != 3 {
		t.Fatalf("Len = %d, want 3", back.Len())
	}
	if v, ok := back.Value(MetricHeartRate, 0); !ok || v != 120 {
		t.Fatalf("hr[0] = %v, %v", v, ok)
	}
	if _, ok := back.Value(MetricHeartRate, 1); ok {
		t.Fatal("unset cell survived round trip as recorded")
	}
	if v, ok := back.Value(MetricAltitude, 1); !ok || v != 13.0 {
		t.Fatalf("alt[1] = %v, %v", v, ok)
	}
}

func TestTimeSeriesUnmarshalEnforcesInvariant(t *testing.T) {
	doc := `
timestamps:
  - 2026-03-14T09:00:00Z
  - 2026-03-14T09:00:01Z
metrics:
  heart_rate_bpm: [120]
`
	var ts TimeSeries
	if err := yaml.Unmarshal([]byte(doc), &ts); err == nil {
		t.Fatal("expected unmarshal to fail on length mismatch")
	}
}

func TestTimeSeriesJSONNeverEmitsNaN(t *testing.T) {
	ts, err := NewTimeSeries(stamps(2), map[string][]float64{
		MetricPower: {Unset, 240},
	})
	if err != nil {
		t.Fatalf("construction failed: %v", err)
	}
	out, err := json.Marshal(ts)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var back TimeSeries
	if err := json.Unmarshal(out, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	col, _ := back.Column(MetricPower)
	if !math.IsNaN(col[0]) || col[1] != 240 {
		t.Fatalf("round-tripped column = %v", col)
	}
}
