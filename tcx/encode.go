package tcx

import (
	"encoding/xml"
	"fmt"
	"math"
	"time"

	"github.com/bcarlson/sportconv/diag"
	"github.com/bcarlson/sportconv/model"
	"github.com/bcarlson/sportconv/vocab"
)

// Encode projects canonical activities into a lap-structured XML document.
// Encoding is total over well-formed activities: an activity with no
// segments still produces a minimal valid document, with a warning.
func Encode(acts []model.Activity, c *diag.Collector) ([]byte, error) {
	db := trainingCenterDatabase{Namespace: databaseNamespace}

	for i, act := range acts {
		db.Activities.Activity = append(db.Activities.Activity, encodeActivity(i, act, c)...)
	}

	body, err := xml.MarshalIndent(db, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal document: %w", err)
	}
	return append([]byte(xml.Header), append(body, '\n')...), nil
}

// encodeActivity returns one document activity per non-transition segment.
// The format has no multisport container, so a multisport activity splits
// into consecutive single-sport entries and its transitions are dropped.
func encodeActivity(idx int, act model.Activity, c *diag.Collector) []activity {
	path := fmt.Sprintf("activity[%d]", idx)

	if len(act.Segments) == 0 {
		c.Warn(diag.CategoryEncodeUnsupported, path,
			"activity has no segments, emitting minimal document")
		return []activity{{
			Sport: vocab.TCXSport(act.Sport),
			ID:    formatTime(act.StartTime),
			Notes: act.Notes,
		}}
	}

	route := routeIndex(act.Route)

	var out []activity
	for si, seg := range act.Segments {
		if seg.Sport == model.SportTransition {
			c.WarnOnce("tcx_transition_segment", diag.CategoryEncodeUnsupported,
				fmt.Sprintf("%s.segment[%d]", path, si),
				"standalone transition segments cannot be represented, dropped")
			continue
		}
		if seg.Transition != nil {
			c.WarnOnce("tcx_transition", diag.CategoryEncodeUnsupported,
				fmt.Sprintf("%s.segment[%d].transition", path, si),
				"transitions cannot be represented, dropped")
		}

		a := activity{
			Sport: vocab.TCXSport(seg.Sport),
			ID:    formatTime(segmentStart(act, seg)),
		}
		if si == 0 {
			a.Notes = act.Notes
		}

		if len(seg.Sets) == 0 {
			a.Laps = []lap{segmentLap(seg)}
		}
		for _, set := range seg.Sets {
			a.Laps = append(a.Laps, encodeSet(set, route, c, path))
		}
		out = append(out, a)
	}

	if len(out) == 0 {
		c.Warn(diag.CategoryEncodeUnsupported, path,
			"no representable segments, emitting minimal document")
		out = []activity{{
			Sport: vocab.TCXSport(model.SportOther),
			ID:    formatTime(act.StartTime),
		}}
	}
	return out
}

// segmentLap synthesizes a single lap for a segment that carries no sets, so
// segment-level duration and telemetry are not lost.
func segmentLap(seg model.Segment) lap {
	l := lap{
		StartTime:        formatTime(seg.StartTime),
		TotalTimeSeconds: seg.TotalSeconds,
		TriggerMethod:    "Manual",
	}
	fillLapTelemetry(&l, seg.Telemetry)
	return l
}

func encodeSet(set model.Set, route map[int64]model.RoutePoint, c *diag.Collector, path string) lap {
	l := lap{
		StartTime:        formatTime(set.StartTime),
		TotalTimeSeconds: set.Seconds,
		DistanceMeters:   set.DistanceM,
		TriggerMethod:    "Manual",
	}
	fillLapTelemetry(&l, set.Telemetry)

	if len(set.SwimLengths) > 0 {
		c.WarnOnce("tcx_swim_lengths", diag.CategoryEncodeUnsupported, path,
			"per-length swim detail cannot be represented, dropped")
	}

	if set.Series == nil || set.Series.Len() == 0 {
		return l
	}

	tr := track{Trackpoints: make([]trackpoint, 0, set.Series.Len())}
	for i, ts := range set.Series.Timestamps() {
		tr.Trackpoints = append(tr.Trackpoints, encodePoint(set.Series, i, ts, route, c, path))
	}
	l.Track = &tr
	return l
}

func encodePoint(series *model.TimeSeries, i int, ts time.Time, route map[int64]model.RoutePoint, c *diag.Collector, path string) trackpoint {
	tp := trackpoint{Time: formatTime(ts)}

	if v, ok := series.Value(model.MetricHeartRate, i); ok {
		tp.HeartRateBpm = &heartRate{Value: int(math.Round(v))}
	}
	if v, ok := series.Value(model.MetricCadence, i); ok {
		cad := int(math.Round(v))
		tp.Cadence = &cad
	}
	if v, ok := series.Value(model.MetricAltitude, i); ok {
		tp.AltitudeMeters = model.Float(v)
	}
	if v, ok := series.Value(model.MetricDistance, i); ok {
		tp.DistanceMeters = model.Float(v)
	}
	if _, ok := series.Value(model.MetricTemperature, i); ok {
		c.WarnOnce("tcx_temperature", diag.CategoryEncodeUnsupported, path,
			"temperature samples cannot be represented, dropped")
	}

	var ext tpx
	if v, ok := series.Value(model.MetricSpeed, i); ok {
		ext.Speed = model.Float(v)
	}
	if v, ok := series.Value(model.MetricPower, i); ok {
		ext.Watts = model.Float(v)
	}
	if ext.Speed != nil || ext.Watts != nil {
		ext.Namespace = extensionNamespace
		tp.Extensions = &extensions{TPX: &ext}
	}

	if pt, ok := route[ts.UnixNano()]; ok {
		tp.Position = &position{LatitudeDegrees: pt.Lat, LongitudeDegrees: pt.Lon}
		if tp.AltitudeMeters == nil && pt.ElevationM != nil {
			tp.AltitudeMeters = model.Float(*pt.ElevationM)
		}
	}
	return tp
}

func fillLapTelemetry(l *lap, t model.Telemetry) {
	if t.AvgHeartRate != nil {
		l.AverageHeartRate = &heartRate{Value: int(math.Round(*t.AvgHeartRate))}
	}
	if t.MaxHeartRate != nil {
		l.MaximumHeartRate = &heartRate{Value: int(math.Round(*t.MaxHeartRate))}
	}
	if t.AvgCadence != nil {
		cad := int(math.Round(*t.AvgCadence))
		l.Cadence = &cad
	}
	if t.MaxSpeed != nil {
		l.MaximumSpeed = model.Float(*t.MaxSpeed)
	}
	if t.Calories != nil {
		l.Calories = int(math.Round(*t.Calories))
	}
}

func routeIndex(route *model.Route) map[int64]model.RoutePoint {
	if route == nil {
		return nil
	}
	idx := make(map[int64]model.RoutePoint, len(route.Points))
	for _, pt := range route.Points {
		if !pt.Time.IsZero() {
			idx[pt.Time.UnixNano()] = pt
		}
	}
	return idx
}

func segmentStart(act model.Activity, seg model.Segment) time.Time {
	if !seg.StartTime.IsZero() {
		return seg.StartTime
	}
	return act.StartTime
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
