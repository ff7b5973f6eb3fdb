// Package model holds the canonical in-memory activity representation that
// every decoder produces and every encoder consumes. Entities are built once
// per conversion run and treated as immutable afterwards.
package model

import (
	"fmt"
	"time"
)

// Sport is the canonical activity classification.
type Sport string

const (
	SportRunning    Sport = "running"
	SportCycling    Sport = "cycling"
	SportSwimming   Sport = "swimming"
	SportWalking    Sport = "walking"
	SportHiking     Sport = "hiking"
	SportRowing     Sport = "rowing"
	SportTransition Sport = "transition"
	SportMultisport Sport = "multisport"
	SportOther      Sport = "other"
)

// Stroke is the canonical swim stroke classification.
type Stroke string

const (
	StrokeFreestyle    Stroke = "freestyle"
	StrokeBackstroke   Stroke = "backstroke"
	StrokeBreaststroke Stroke = "breaststroke"
	StrokeButterfly    Stroke = "butterfly"
	StrokeDrill        Stroke = "drill"
	StrokeMixed        Stroke = "mixed"
	StrokeIM           Stroke = "im"
	StrokeUnknown      Stroke = "unknown"
)

// Activity is one imported or exported unit of work.
type Activity struct {
	StartTime    time.Time    `json:"start_time" yaml:"start_time"`
	TotalSeconds float64      `json:"total_seconds" yaml:"total_seconds"`
	Sport        Sport        `json:"sport" yaml:"sport"`
	Segments     []Segment    `json:"segments,omitempty" yaml:"segments,omitempty"`
	Telemetry    Telemetry    `json:"telemetry,omitempty" yaml:"telemetry,omitempty"`
	Route        *Route       `json:"route,omitempty" yaml:"route,omitempty"`
	Devices      []DeviceInfo `json:"devices,omitempty" yaml:"devices,omitempty"`
	Notes        string       `json:"notes,omitempty" yaml:"notes,omitempty"`
}

// Multisport reports whether the activity spans more than one sport.
func (a *Activity) Multisport() bool {
	seen := make(map[Sport]struct{}, 2)
	for _, seg := range a.Segments {
		if seg.Sport == SportTransition {
			continue
		}
		seen[seg.Sport] = struct{}{}
	}
	return len(seen) > 1
}

// CheckInvariants verifies the structural invariants every decoder must
// produce: non-negative durations and monotonically non-decreasing segment
// start times.
func (a *Activity) CheckInvariants() error {
	if a.TotalSeconds < 0 {
		return fmt.Errorf("activity duration is negative: %g", a.TotalSeconds)
	}
	var prev time.Time
	for i, seg := range a.Segments {
		if seg.TotalSeconds < 0 {
			return fmt.Errorf("segment %d duration is negative: %g", i+1, seg.TotalSeconds)
		}
		if !seg.StartTime.IsZero() {
			if !prev.IsZero() && seg.StartTime.Before(prev) {
				return fmt.Errorf("segment %d start time precedes segment %d", i+1, i)
			}
			prev = seg.StartTime
		}
		for j, set := range seg.Sets {
			if set.Seconds < 0 {
				return fmt.Errorf("segment %d set %d duration is negative: %g", i+1, j+1, set.Seconds)
			}
		}
	}
	return nil
}

// Segment is a contiguous single-sport portion of an activity, at lap or
// session granularity. Its sport may differ from the activity's primary
// classification in the multisport case.
type Segment struct {
	Sport        Sport       `json:"sport" yaml:"sport"`
	StartTime    time.Time   `json:"start_time,omitempty" yaml:"start_time,omitempty"`
	TotalSeconds float64     `json:"total_seconds" yaml:"total_seconds"`
	Sets         []Set       `json:"sets,omitempty" yaml:"sets,omitempty"`
	Transition   *Transition `json:"transition,omitempty" yaml:"transition,omitempty"`
	Telemetry    Telemetry   `json:"telemetry,omitempty" yaml:"telemetry,omitempty"`
}

// Transition is the gap between this segment and the next one in a
// multisport activity.
type Transition struct {
	Seconds   float64   `json:"seconds" yaml:"seconds"`
	Telemetry Telemetry `json:"telemetry,omitempty" yaml:"telemetry,omitempty"`
}

// Set is one exercise unit inside a segment: an interval, a lap, or a pool
// swim block.
type Set struct {
	StartTime   time.Time    `json:"start_time,omitempty" yaml:"start_time,omitempty"`
	Seconds     float64      `json:"seconds" yaml:"seconds"`
	DistanceM   float64      `json:"distance_m,omitempty" yaml:"distance_m,omitempty"`
	Telemetry   Telemetry    `json:"telemetry,omitempty" yaml:"telemetry,omitempty"`
	SwimLengths []SwimLength `json:"swim_lengths,omitempty" yaml:"swim_lengths,omitempty"`
	Series      *TimeSeries  `json:"time_series,omitempty" yaml:"time_series,omitempty"`
}

// SwimLength is one traversal of the pool inside a swimming set. Index is
// 1-based and sequential regardless of source numbering.
type SwimLength struct {
	Index       int     `json:"index" yaml:"index"`
	Stroke      Stroke  `json:"stroke" yaml:"stroke"`
	Seconds     float64 `json:"seconds" yaml:"seconds"`
	StrokeCount *int    `json:"stroke_count,omitempty" yaml:"stroke_count,omitempty"`
	Swolf       *int    `json:"swolf,omitempty" yaml:"swolf,omitempty"`
	Active      bool    `json:"active" yaml:"active"`
}

// Telemetry is a sparse bag of aggregate metrics. A nil field means "not
// recorded", which is distinct from zero.
type Telemetry struct {
	AvgHeartRate *float64 `json:"avg_heart_rate_bpm,omitempty" yaml:"avg_heart_rate_bpm,omitempty"`
	MaxHeartRate *float64 `json:"max_heart_rate_bpm,omitempty" yaml:"max_heart_rate_bpm,omitempty"`
	AvgPower     *float64 `json:"avg_power_w,omitempty" yaml:"avg_power_w,omitempty"`
	MaxPower     *float64 `json:"max_power_w,omitempty" yaml:"max_power_w,omitempty"`
	AvgCadence   *float64 `json:"avg_cadence_rpm,omitempty" yaml:"avg_cadence_rpm,omitempty"`
	MaxCadence   *float64 `json:"max_cadence_rpm,omitempty" yaml:"max_cadence_rpm,omitempty"`
	AvgSpeed     *float64 `json:"avg_speed_mps,omitempty" yaml:"avg_speed_mps,omitempty"`
	MaxSpeed     *float64 `json:"max_speed_mps,omitempty" yaml:"max_speed_mps,omitempty"`
	AscentM      *float64 `json:"ascent_m,omitempty" yaml:"ascent_m,omitempty"`
	DescentM     *float64 `json:"descent_m,omitempty" yaml:"descent_m,omitempty"`
	AvgTempC     *float64 `json:"avg_temperature_c,omitempty" yaml:"avg_temperature_c,omitempty"`
	Calories     *float64 `json:"calories,omitempty" yaml:"calories,omitempty"`
}

// Empty reports whether no metric was recorded at all.
func (t Telemetry) Empty() bool {
	return t.AvgHeartRate == nil && t.MaxHeartRate == nil &&
		t.AvgPower == nil && t.MaxPower == nil &&
		t.AvgCadence == nil && t.MaxCadence == nil &&
		t.AvgSpeed == nil && t.MaxSpeed == nil &&
		t.AscentM == nil && t.DescentM == nil &&
		t.AvgTempC == nil && t.Calories == nil
}

// DeviceInfo describes one recording device that contributed to the activity.
type DeviceInfo struct {
	Manufacturer string `json:"manufacturer,omitempty" yaml:"manufacturer,omitempty"`
	Product      string `json:"product,omitempty" yaml:"product,omitempty"`
	SerialNumber uint32 `json:"serial_number,omitempty" yaml:"serial_number,omitempty"`
}

// Float returns a pointer to v. Decoders use it to mark a metric as recorded.
func Float(v float64) *float64 { return &v }

// Int returns a pointer to v.
func Int(v int) *int { return &v }
