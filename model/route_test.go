package model

import (
	"testing"
	"time"
)

func TestNewRouteComputesAggregates(t *testing.T) {
	base := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	route := NewRoute([]RoutePoint{
		{Lat: 47.60, Lon: -122.33, ElevationM: Float(100), Time: base},
		{Lat: 47.61, Lon: -122.32, ElevationM: Float(130), Time: base.Add(time.Minute)},
		{Lat: 47.62, Lon: -122.35, ElevationM: Float(110), Time: base.Add(2 * time.Minute)},
		{Lat: 47.59, Lon: -122.34, ElevationM: Float(125), Time: base.Add(3 * time.Minute)},
	})

	if route.AscentM != 45 {
		t.Fatalf("AscentM = %v, want 45", route.AscentM)
	}
	if route.DescentM != 20 {
		t.Fatalf("DescentM = %v, want 20", route.DescentM)
	}
	b := route.Bounds
	if b.MinLat != 47.59 || b.MaxLat != 47.62 || b.MinLon != -122.35 || b.MaxLon != -122.32 {
		t.Fatalf("bounds = %+v", b)
	}
}

func TestNewRouteEmpty(t *testing.T) {
	if NewRoute(nil) != nil {
		t.Fatal("empty route should be nil")
	}
}

func TestNewRouteIgnoresMissingElevation(t *testing.T) {
	route := NewRoute([]RoutePoint{
		{Lat: 1, Lon: 1, ElevationM: Float(10)},
		{Lat: 2, Lon: 2},
		{Lat: 3, Lon: 3, ElevationM: Float(25)},
	})
	if route.AscentM != 15 {
		t.Fatalf("AscentM = %v, want 15 across the elevation gap", route.AscentM)
	}
}
