package tcx

import (
	"encoding/xml"
	"fmt"
	"time"

	"github.com/bcarlson/sportconv/diag"
	"github.com/bcarlson/sportconv/model"
	"github.com/bcarlson/sportconv/vocab"
)

// Decode parses a lap-structured XML document into canonical activities.
// Missing optional fields are simply absent; a missing start time is an
// error diagnostic but still yields a best-effort partial model.
func Decode(data []byte, c *diag.Collector) ([]model.Activity, error) {
	var db trainingCenterDatabase
	if err := xml.Unmarshal(data, &db); err != nil {
		c.Error(diag.CategoryDecodeError, "file", "parse document: %v", err)
		return nil, fmt.Errorf("parse document: %w", err)
	}

	out := make([]model.Activity, 0, len(db.Activities.Activity))
	for i, a := range db.Activities.Activity {
		out = append(out, decodeActivity(i, a, c))
	}
	if len(out) == 0 {
		c.Error(diag.CategoryDecodeError, "file", "document contains no activities")
		return nil, fmt.Errorf("document contains no activities")
	}
	return out, nil
}

func decodeActivity(idx int, a activity, c *diag.Collector) model.Activity {
	path := fmt.Sprintf("activity[%d]", idx)

	sport, ok := vocab.SportFromTCX(a.Sport)
	if !ok {
		sport = model.SportOther
		c.WarnOnce("tcx_sport:"+a.Sport, diag.CategoryMappingGap, path+".sport",
			"unmapped sport name %q, classified as other", a.Sport)
	}

	act := model.Activity{Sport: sport, Notes: a.Notes}
	seg := model.Segment{Sport: sport}

	var points []model.RoutePoint
	for li, l := range a.Laps {
		set, lapPoints := decodeLap(li, l, c, path)
		seg.TotalSeconds += set.Seconds
		act.TotalSeconds += set.Seconds
		seg.Sets = append(seg.Sets, set)
		points = append(points, lapPoints...)
	}

	act.StartTime = activityStart(a, seg, c, path)
	seg.StartTime = act.StartTime
	seg.Telemetry = rollupTelemetry(seg.Sets)
	act.Telemetry = seg.Telemetry
	act.Segments = []model.Segment{seg}
	act.Route = model.NewRoute(points)
	return act
}

// activityStart prefers the Id element, then the first lap's StartTime
// attribute, then the first trackpoint. Start time is structurally required,
// so exhausting all three is an error.
func activityStart(a activity, seg model.Segment, c *diag.Collector, path string) time.Time {
	if ts, ok := parseTime(a.ID); ok {
		return ts
	}
	for _, l := range a.Laps {
		if ts, ok := parseTime(l.StartTime); ok {
			return ts
		}
	}
	for _, set := range seg.Sets {
		if !set.StartTime.IsZero() {
			return set.StartTime
		}
	}
	c.Error(diag.CategoryDecodeError, path+".start_time", "activity has no start time")
	return time.Time{}
}

func decodeLap(idx int, l lap, c *diag.Collector, activityPath string) (model.Set, []model.RoutePoint) {
	path := fmt.Sprintf("%s.lap[%d]", activityPath, idx)

	set := model.Set{
		Seconds:   l.TotalTimeSeconds,
		DistanceM: l.DistanceMeters,
	}
	if ts, ok := parseTime(l.StartTime); ok {
		set.StartTime = ts
	} else if l.StartTime != "" {
		c.Warn(diag.CategoryDecodeError, path+".start_time",
			"unparseable lap start time %q", l.StartTime)
	}

	if l.AverageHeartRate != nil && l.AverageHeartRate.Value > 0 {
		set.Telemetry.AvgHeartRate = model.Float(float64(l.AverageHeartRate.Value))
	}
	if l.MaximumHeartRate != nil && l.MaximumHeartRate.Value > 0 {
		set.Telemetry.MaxHeartRate = model.Float(float64(l.MaximumHeartRate.Value))
	}
	if l.Cadence != nil && *l.Cadence > 0 {
		set.Telemetry.AvgCadence = model.Float(float64(*l.Cadence))
	}
	if l.MaximumSpeed != nil && *l.MaximumSpeed > 0 {
		set.Telemetry.MaxSpeed = model.Float(*l.MaximumSpeed)
	}
	if l.Calories > 0 {
		set.Telemetry.Calories = model.Float(float64(l.Calories))
	}

	if l.Track == nil || len(l.Track.Trackpoints) == 0 {
		return set, nil
	}

	b := model.NewSeriesBuilder()
	var points []model.RoutePoint
	for ti, tp := range l.Track.Trackpoints {
		ts, ok := parseTime(tp.Time)
		if !ok {
			c.WarnOnce("tcx_bad_trackpoint_time", diag.CategoryDecodeError,
				fmt.Sprintf("%s.trackpoint[%d].time", path, ti),
				"unparseable trackpoint time %q, sample dropped", tp.Time)
			continue
		}
		b.StartSample(ts)
		if tp.HeartRateBpm != nil && tp.HeartRateBpm.Value > 0 {
			b.Set(model.MetricHeartRate, float64(tp.HeartRateBpm.Value))
		}
		if tp.Cadence != nil {
			b.Set(model.MetricCadence, float64(*tp.Cadence))
		}
		if tp.AltitudeMeters != nil {
			b.Set(model.MetricAltitude, *tp.AltitudeMeters)
		}
		if tp.DistanceMeters != nil {
			b.Set(model.MetricDistance, *tp.DistanceMeters)
		}
		if tp.Extensions != nil && tp.Extensions.TPX != nil {
			if tp.Extensions.TPX.Speed != nil {
				b.Set(model.MetricSpeed, *tp.Extensions.TPX.Speed)
			}
			if tp.Extensions.TPX.Watts != nil {
				b.Set(model.MetricPower, *tp.Extensions.TPX.Watts)
			}
		}
		if tp.Position != nil {
			pt := model.RoutePoint{
				Lat:  tp.Position.LatitudeDegrees,
				Lon:  tp.Position.LongitudeDegrees,
				Time: ts,
			}
			if tp.AltitudeMeters != nil {
				pt.ElevationM = model.Float(*tp.AltitudeMeters)
			}
			points = append(points, pt)
		}
	}

	if b.Len() > 0 {
		series, err := b.Series()
		if err != nil {
			c.Error(diag.CategoryDecodeError, path, "assemble sample series: %v", err)
		} else {
			set.Series = series
			if set.StartTime.IsZero() {
				set.StartTime = series.Timestamps()[0]
			}
		}
	}
	return set, points
}

// rollupTelemetry aggregates per-set telemetry to the segment: additive
// fields sum, peaks take the maximum, averages are left to the source's own
// aggregates.
func rollupTelemetry(sets []model.Set) model.Telemetry {
	t := model.Telemetry{}
	for _, set := range sets {
		addInto(&t.Calories, set.Telemetry.Calories)
		peakInto(&t.MaxHeartRate, set.Telemetry.MaxHeartRate)
		peakInto(&t.MaxSpeed, set.Telemetry.MaxSpeed)
	}
	return t
}

func addInto(dst **float64, v *float64) {
	if v == nil {
		return
	}
	if *dst == nil {
		*dst = model.Float(*v)
		return
	}
	**dst += *v
}

func peakInto(dst **float64, v *float64) {
	if v == nil {
		return
	}
	if *dst == nil || *v > **dst {
		*dst = model.Float(*v)
	}
}

func parseTime(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	ts, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, false
	}
	return ts.UTC(), true
}
