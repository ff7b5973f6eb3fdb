package model

import "time"

// RoutePoint is one recorded GPS position.
type RoutePoint struct {
	Lat        float64    `json:"lat" yaml:"lat"`
	Lon        float64    `json:"lon" yaml:"lon"`
	ElevationM *float64   `json:"elevation_m,omitempty" yaml:"elevation_m,omitempty"`
	Time       time.Time  `json:"time,omitempty" yaml:"time,omitempty"`
	Telemetry  *Telemetry `json:"telemetry,omitempty" yaml:"telemetry,omitempty"`
}

// BoundingBox is the smallest lat/lon rectangle containing a route.
type BoundingBox struct {
	MinLat float64 `json:"min_lat" yaml:"min_lat"`
	MinLon float64 `json:"min_lon" yaml:"min_lon"`
	MaxLat float64 `json:"max_lat" yaml:"max_lat"`
	MaxLon float64 `json:"max_lon" yaml:"max_lon"`
}

// Route is an ordered GPS track plus aggregates derived once at
// construction. Nothing recomputes them later; NewRoute is the only way the
// aggregates are produced.
type Route struct {
	Points   []RoutePoint `json:"points" yaml:"points"`
	AscentM  float64      `json:"ascent_m" yaml:"ascent_m"`
	DescentM float64      `json:"descent_m" yaml:"descent_m"`
	Bounds   BoundingBox  `json:"bounds" yaml:"bounds"`
}

// NewRoute builds a route and computes total ascent, total descent and the
// bounding box in a single pass.
func NewRoute(points []RoutePoint) *Route {
	if len(points) == 0 {
		return nil
	}
	r := &Route{
		Points: points,
		Bounds: BoundingBox{
			MinLat: points[0].Lat,
			MaxLat: points[0].Lat,
			MinLon: points[0].Lon,
			MaxLon: points[0].Lon,
		},
	}
	var lastElev *float64
	for i := range points {
		p := &points[i]
		if p.Lat < r.Bounds.MinLat {
			r.Bounds.MinLat = p.Lat
		}
		if p.Lat > r.Bounds.MaxLat {
			r.Bounds.MaxLat = p.Lat
		}
		if p.Lon < r.Bounds.MinLon {
			r.Bounds.MinLon = p.Lon
		}
		if p.Lon > r.Bounds.MaxLon {
			r.Bounds.MaxLon = p.Lon
		}
		if p.ElevationM != nil {
			if lastElev != nil {
				delta := *p.ElevationM - *lastElev
				if delta > 0 {
					r.AscentM += delta
				} else {
					r.DescentM -= delta
				}
			}
			lastElev = p.ElevationM
		}
	}
	return r
}
