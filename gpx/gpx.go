// Package gpx reads and writes the track-primary XML format. The format
// carries position, elevation and time only; physiological metrics do not
// survive and are reported as loss on encode.
package gpx

import (
	"encoding/xml"
	"math"
	"time"
)

const (
	gpxNamespace = "http://www.topografix.com/GPX/1/1"
	gpxVersion   = "1.1"
	gpxCreator   = "sportconv"
)

type gpxFile struct {
	XMLName   xml.Name  `xml:"gpx"`
	Version   string    `xml:"version,attr"`
	Creator   string    `xml:"creator,attr"`
	Namespace string    `xml:"xmlns,attr,omitempty"`
	Metadata  *metadata `xml:"metadata,omitempty"`
	Tracks    []track   `xml:"trk"`
}

type metadata struct {
	Time string `xml:"time,omitempty"`
}

type track struct {
	Name     string         `xml:"name,omitempty"`
	Type     string         `xml:"type,omitempty"`
	Segments []trackSegment `xml:"trkseg"`
}

type trackSegment struct {
	Points []trackPoint `xml:"trkpt"`
}

type trackPoint struct {
	Lat       float64  `xml:"lat,attr"`
	Lon       float64  `xml:"lon,attr"`
	Elevation *float64 `xml:"ele,omitempty"`
	Time      string   `xml:"time,omitempty"`
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
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

// haversineMeters is the great-circle distance between two positions.
func haversineMeters(lat1, lon1, lat2, lon2 float64) float64 {
	const earthRadius = 6371000.0

	dLat := (lat2 - lat1) * math.Pi / 180
	dLon := (lon2 - lon1) * math.Pi / 180
	lat1Rad := lat1 * math.Pi / 180
	lat2Rad := lat2 * math.Pi / 180

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1Rad)*math.Cos(lat2Rad)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadius * c
}
