package gpx

import (
	"encoding/xml"
	"fmt"

	"github.com/bcarlson/sportconv/diag"
	"github.com/bcarlson/sportconv/model"
	"github.com/bcarlson/sportconv/vocab"
)

// Encode projects canonical activities into a track document, one track per
// activity. An activity with no positional data cannot become a track: when
// no activity in the batch has any, encoding fails outright.
func Encode(acts []model.Activity, c *diag.Collector) ([]byte, error) {
	doc := gpxFile{
		Version:   gpxVersion,
		Creator:   gpxCreator,
		Namespace: gpxNamespace,
	}

	for i, act := range acts {
		path := fmt.Sprintf("activity[%d]", i)

		if act.Route == nil || len(act.Route.Points) == 0 {
			c.Error(diag.CategoryEncodeUnsupported, path, "no positions")
			continue
		}
		if doc.Metadata == nil && !act.StartTime.IsZero() {
			doc.Metadata = &metadata{Time: formatTime(act.StartTime)}
		}
		reportDroppedTelemetry(act, c, path)
		doc.Tracks = append(doc.Tracks, encodeTrack(act))
	}

	if len(doc.Tracks) == 0 {
		return nil, fmt.Errorf("no positions")
	}

	body, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal document: %w", err)
	}
	return append([]byte(xml.Header), append(body, '\n')...), nil
}

func encodeTrack(act model.Activity) track {
	trk := track{
		Name: act.Notes,
		Type: vocab.GPXType(act.Sport),
	}

	segments := splitBySegments(act)
	for _, points := range segments {
		seg := trackSegment{Points: make([]trackPoint, 0, len(points))}
		for _, pt := range points {
			tp := trackPoint{Lat: pt.Lat, Lon: pt.Lon, Time: formatTime(pt.Time)}
			if pt.ElevationM != nil {
				tp.Elevation = model.Float(*pt.ElevationM)
			}
			seg.Points = append(seg.Points, tp)
		}
		trk.Segments = append(trk.Segments, seg)
	}
	return trk
}

// splitBySegments partitions route points into one point run per
// non-transition segment using segment start times as boundaries. Activities
// without usable boundaries keep the route as a single run.
func splitBySegments(act model.Activity) [][]model.RoutePoint {
	points := act.Route.Points

	var boundaries []model.Segment
	for _, seg := range act.Segments {
		if seg.Sport != model.SportTransition && !seg.StartTime.IsZero() {
			boundaries = append(boundaries, seg)
		}
	}
	if len(boundaries) < 2 {
		return [][]model.RoutePoint{points}
	}

	runs := make([][]model.RoutePoint, len(boundaries))
	for _, pt := range points {
		slot := 0
		for i := len(boundaries) - 1; i > 0; i-- {
			if !pt.Time.IsZero() && !pt.Time.Before(boundaries[i].StartTime) {
				slot = i
				break
			}
		}
		runs[slot] = append(runs[slot], pt)
	}

	out := make([][]model.RoutePoint, 0, len(runs))
	for _, run := range runs {
		if len(run) > 0 {
			out = append(out, run)
		}
	}
	if len(out) == 0 {
		return [][]model.RoutePoint{points}
	}
	return out
}

// reportDroppedTelemetry emits one warning when the activity carries metrics
// the track format has no home for.
func reportDroppedTelemetry(act model.Activity, c *diag.Collector, path string) {
	if !act.Telemetry.Empty() {
		c.WarnOnce("gpx_telemetry", diag.CategoryEncodeUnsupported, path,
			"physiological metrics cannot be represented, dropped")
		return
	}
	for _, seg := range act.Segments {
		if !seg.Telemetry.Empty() {
			c.WarnOnce("gpx_telemetry", diag.CategoryEncodeUnsupported, path,
				"physiological metrics cannot be represented, dropped")
			return
		}
		for _, set := range seg.Sets {
			if !set.Telemetry.Empty() || nonPositionalSeries(set.Series) {
				c.WarnOnce("gpx_telemetry", diag.CategoryEncodeUnsupported, path,
					"physiological metrics cannot be represented, dropped")
				return
			}
		}
	}
}

func nonPositionalSeries(series *model.TimeSeries) bool {
	if series == nil {
		return false
	}
	for _, name := range series.MetricNames() {
		if name != model.MetricAltitude && name != model.MetricDistance {
			return true
		}
	}
	return false
}
