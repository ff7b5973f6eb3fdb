package gpx

import (
	"encoding/xml"
	"fmt"
	"time"

	"github.com/bcarlson/sportconv/diag"
	"github.com/bcarlson/sportconv/model"
	"github.com/bcarlson/sportconv/vocab"
)

// Decode parses a track document into canonical activities, one per track.
// Sport classification comes from the track's type element when it maps;
// a track with no recognizable type is classified as other.
func Decode(data []byte, c *diag.Collector) ([]model.Activity, error) {
	var doc gpxFile
	if err := xml.Unmarshal(data, &doc); err != nil {
		c.Error(diag.CategoryDecodeError, "file", "parse document: %v", err)
		return nil, fmt.Errorf("parse document: %w", err)
	}
	if len(doc.Tracks) == 0 {
		c.Error(diag.CategoryDecodeError, "file", "document contains no tracks")
		return nil, fmt.Errorf("document contains no tracks")
	}

	out := make([]model.Activity, 0, len(doc.Tracks))
	for i, trk := range doc.Tracks {
		out = append(out, decodeTrack(i, trk, c))
	}
	return out, nil
}

func decodeTrack(idx int, trk track, c *diag.Collector) model.Activity {
	path := fmt.Sprintf("track[%d]", idx)

	act := model.Activity{Sport: trackSport(trk, c, path), Notes: trk.Name}
	seg := model.Segment{Sport: act.Sport}

	var points []model.RoutePoint
	for si, ts := range trk.Segments {
		set, segPoints := decodeTrackSegment(si, ts, c, path)
		seg.Sets = append(seg.Sets, set)
		seg.TotalSeconds += set.Seconds
		points = append(points, segPoints...)
	}

	for _, set := range seg.Sets {
		if !set.StartTime.IsZero() {
			act.StartTime = set.StartTime
			break
		}
	}
	if act.StartTime.IsZero() {
		c.Error(diag.CategoryDecodeError, path+".start_time",
			"track has no timestamped points, start time unknown")
	}

	seg.StartTime = act.StartTime
	act.TotalSeconds = seg.TotalSeconds
	act.Segments = []model.Segment{seg}
	act.Route = model.NewRoute(points)
	return act
}

func trackSport(trk track, c *diag.Collector, path string) model.Sport {
	for _, name := range []string{trk.Type, trk.Name} {
		if name == "" {
			continue
		}
		if sport, ok := vocab.SportFromGPXType(name); ok {
			return sport
		}
	}
	if trk.Type != "" {
		c.WarnOnce("gpx_type:"+trk.Type, diag.CategoryMappingGap, path+".type",
			"unmapped track type %q, classified as other", trk.Type)
	}
	return model.SportOther
}

func decodeTrackSegment(idx int, ts trackSegment, c *diag.Collector, trackPath string) (model.Set, []model.RoutePoint) {
	path := fmt.Sprintf("%s.segment[%d]", trackPath, idx)

	b := model.NewSeriesBuilder()
	points := make([]model.RoutePoint, 0, len(ts.Points))

	var (
		first, last time.Time
		prevOK      bool
		prevLat     float64
		prevLon     float64
		distance    float64
	)
	for pi, pt := range ts.Points {
		stamp, hasTime := parseTime(pt.Time)
		if pt.Time != "" && !hasTime {
			c.WarnOnce("gpx_bad_point_time", diag.CategoryDecodeError,
				fmt.Sprintf("%s.point[%d].time", path, pi),
				"unparseable point time %q", pt.Time)
		}
		if prevOK {
			distance += haversineMeters(prevLat, prevLon, pt.Lat, pt.Lon)
		}
		prevLat, prevLon, prevOK = pt.Lat, pt.Lon, true

		if hasTime {
			if first.IsZero() {
				first = stamp
			}
			last = stamp
			b.StartSample(stamp)
			if pt.Elevation != nil {
				b.Set(model.MetricAltitude, *pt.Elevation)
			}
			b.Set(model.MetricDistance, distance)
		}

		rp := model.RoutePoint{Lat: pt.Lat, Lon: pt.Lon, Time: stamp}
		if pt.Elevation != nil {
			rp.ElevationM = model.Float(*pt.Elevation)
		}
		points = append(points, rp)
	}

	set := model.Set{StartTime: first, DistanceM: distance}
	if !first.IsZero() && last.After(first) {
		set.Seconds = last.Sub(first).Seconds()
	}
	if b.Len() > 0 {
		series, err := b.Series()
		if err != nil {
			c.Error(diag.CategoryDecodeError, path, "assemble sample series: %v", err)
		} else {
			set.Series = series
		}
	}
	return set, points
}
