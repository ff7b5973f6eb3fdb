package tcx

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/bcarlson/sportconv/diag"
	"github.com/bcarlson/sportconv/model"
)

func sampleActivity(t *testing.T) model.Activity {
	t.Helper()
	start := time.Date(2026, 5, 10, 9, 0, 0, 0, time.UTC)

	b := model.NewSeriesBuilder()
	for i := 0; i < 3; i++ {
		b.StartSample(start.Add(time.Duration(i) * time.Second))
		b.Set(model.MetricHeartRate, float64(140+i))
		b.Set(model.MetricPower, float64(200+i))
		b.Set(model.MetricSpeed, 5.5)
		b.Set(model.MetricDistance, float64(i)*5.5)
	}
	series, err := b.Series()
	require.NoError(t, err)

	return model.Activity{
		StartTime:    start,
		TotalSeconds: 1800,
		Sport:        model.SportRunning,
		Telemetry:    model.Telemetry{AvgHeartRate: model.Float(141)},
		Segments: []model.Segment{{
			Sport:        model.SportRunning,
			StartTime:    start,
			TotalSeconds: 1800,
			Sets: []model.Set{{
				StartTime: start,
				Seconds:   1800,
				DistanceM: 5000,
				Telemetry: model.Telemetry{
					AvgHeartRate: model.Float(141),
					MaxHeartRate: model.Float(152),
					Calories:     model.Float(320),
				},
				Series: series,
			}},
		}},
		Route: model.NewRoute([]model.RoutePoint{
			{Lat: 47.60, Lon: -122.33, ElevationM: model.Float(20), Time: start},
			{Lat: 47.601, Lon: -122.331, ElevationM: model.Float(21), Time: start.Add(time.Second)},
		}),
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	c := diag.NewCollector()
	out, err := Encode([]model.Activity{sampleActivity(t)}, c)
	require.NoError(t, err)
	require.False(t, c.HasErrors())
	require.Contains(t, string(out), `Sport="Running"`)

	back, err := Decode(out, diag.NewCollector())
	require.NoError(t, err)
	require.Len(t, back, 1)

	act := back[0]
	require.Equal(t, model.SportRunning, act.Sport)
	require.True(t, act.StartTime.Equal(sampleActivity(t).StartTime))
	require.Len(t, act.Segments, 1)
	require.Len(t, act.Segments[0].Sets, 1)

	set := act.Segments[0].Sets[0]
	require.Equal(t, 1800.0, set.Seconds)
	require.Equal(t, 5000.0, set.DistanceM)
	require.NotNil(t, set.Series)
	require.Equal(t, 3, set.Series.Len())

	hr, ok := set.Series.Value(model.MetricHeartRate, 1)
	require.True(t, ok)
	require.Equal(t, 141.0, hr)
	watts, ok := set.Series.Value(model.MetricPower, 2)
	require.True(t, ok)
	require.Equal(t, 202.0, watts)

	require.NotNil(t, act.Route)
	require.Len(t, act.Route.Points, 2)
	require.InDelta(t, 47.60, act.Route.Points[0].Lat, 1e-9)
}

func TestEncodeZeroSegmentsMinimalOutput(t *testing.T) {
	c := diag.NewCollector()
	out, err := Encode([]model.Activity{{
		StartTime: time.Date(2026, 5, 10, 9, 0, 0, 0, time.UTC),
		Sport:     model.SportRunning,
	}}, c)
	require.NoError(t, err)
	require.Contains(t, string(out), "<TrainingCenterDatabase")
	require.Equal(t, 1, diag.Count(c.Items(), diag.SeverityWarning))
	require.Equal(t, diag.CategoryEncodeUnsupported, c.Items()[0].Category)
}

func TestEncodeMultisportSplits(t *testing.T) {
	start := time.Date(2026, 5, 10, 7, 0, 0, 0, time.UTC)
	act := model.Activity{
		StartTime:    start,
		TotalSeconds: 4890,
		Sport:        model.SportMultisport,
		Segments: []model.Segment{
			{
				Sport:        model.SportSwimming,
				StartTime:    start,
				TotalSeconds: 1200,
				Transition:   &model.Transition{Seconds: 90},
			},
			{
				Sport:        model.SportCycling,
				StartTime:    start.Add(22 * time.Minute),
				TotalSeconds: 3600,
			},
		},
	}

	c := diag.NewCollector()
	out, err := Encode([]model.Activity{act}, c)
	require.NoError(t, err)

	doc := string(out)
	require.Equal(t, 2, strings.Count(doc, "<Activity "))
	require.Contains(t, doc, `Sport="Other"`) // swimming has no word in this format
	require.Contains(t, doc, `Sport="Biking"`)

	warned := false
	for _, d := range c.Items() {
		if d.Category == diag.CategoryEncodeUnsupported && strings.Contains(d.Message, "transition") {
			warned = true
		}
	}
	require.True(t, warned, "dropped transition must be reported")
}

func TestEncodeReportsSwimLengthLoss(t *testing.T) {
	start := time.Date(2026, 5, 10, 6, 0, 0, 0, time.UTC)
	act := model.Activity{
		StartTime:    start,
		TotalSeconds: 300,
		Sport:        model.SportSwimming,
		Segments: []model.Segment{{
			Sport:        model.SportSwimming,
			StartTime:    start,
			TotalSeconds: 300,
			Sets: []model.Set{{
				StartTime: start,
				Seconds:   300,
				SwimLengths: []model.SwimLength{
					{Index: 1, Stroke: model.StrokeFreestyle, Seconds: 30, Swolf: model.Int(45), Active: true},
				},
			}},
		}},
	}

	c := diag.NewCollector()
	_, err := Encode([]model.Activity{act}, c)
	require.NoError(t, err)

	found := 0
	for _, d := range c.Items() {
		if d.Category == diag.CategoryEncodeUnsupported {
			found++
		}
	}
	require.Equal(t, 1, found)
}

func TestDecodeMissingStartTimeIsErrorButPartial(t *testing.T) {
	doc := `<?xml version="1.0"?>
<TrainingCenterDatabase>
  <Activities>
    <Activity Sport="Biking">
      <Id></Id>
      <Lap>
        <TotalTimeSeconds>600</TotalTimeSeconds>
        <DistanceMeters>4000</DistanceMeters>
      </Lap>
    </Activity>
  </Activities>
</TrainingCenterDatabase>`

	c := diag.NewCollector()
	acts, err := Decode([]byte(doc), c)
	require.NoError(t, err)
	require.Len(t, acts, 1)
	require.True(t, acts[0].StartTime.IsZero())
	require.Equal(t, 600.0, acts[0].TotalSeconds)
	require.True(t, c.HasErrors())
	require.Equal(t, diag.CategoryDecodeError, c.Items()[0].Category)
}

func TestDecodeUnknownSportWarnsOnce(t *testing.T) {
	doc := `<?xml version="1.0"?>
<TrainingCenterDatabase>
  <Activities>
    <Activity Sport="Curling">
      <Id>2026-05-10T09:00:00Z</Id>
      <Lap StartTime="2026-05-10T09:00:00Z">
        <TotalTimeSeconds>600</TotalTimeSeconds>
      </Lap>
    </Activity>
  </Activities>
</TrainingCenterDatabase>`

	c := diag.NewCollector()
	acts, err := Decode([]byte(doc), c)
	require.NoError(t, err)
	require.Equal(t, model.SportOther, acts[0].Sport)
	require.Equal(t, 1, diag.Count(c.Items(), diag.SeverityWarning))
	require.Equal(t, diag.CategoryMappingGap, c.Items()[0].Category)
}
