// Package units converts device-native encodings to canonical units. Every
// function is pure and total over its numeric domain; callers decide which
// unit a source field is in and report diagnostics for clamped inputs.
package units

import (
	"math"
	"time"
)

// Semicircle encoding maps the full ±180° circle onto the signed 32-bit range.
const degreesPerSemicircle = 180.0 / 2147483648.0 // 2^31

// Degrees converts a semicircle-encoded angle to decimal degrees. Inputs
// outside the signed 32-bit domain are clamped to the nearest bound; the
// caller should emit a warning diagnostic when clamped is true.
func Degrees(raw int64) (deg float64, clamped bool) {
	if raw > math.MaxInt32 {
		return float64(math.MaxInt32) * degreesPerSemicircle, true
	}
	if raw < math.MinInt32 {
		return float64(math.MinInt32) * degreesPerSemicircle, true
	}
	return float64(raw) * degreesPerSemicircle, false
}

// Semicircles converts decimal degrees back to the semicircle encoding,
// rounding to the nearest representable value. Degrees outside ±180 are
// clamped to the encoding domain.
func Semicircles(deg float64) int32 {
	raw := math.Round(deg / degreesPerSemicircle)
	if raw > math.MaxInt32 {
		return math.MaxInt32
	}
	if raw < math.MinInt32 {
		return math.MinInt32
	}
	return int32(raw)
}

// DeviceEpoch is the device-log timestamp epoch. Tick counts in the binary
// format are seconds since this instant, not since the Unix epoch.
var DeviceEpoch = time.Date(1989, 12, 31, 0, 0, 0, 0, time.UTC)

// DeviceTime converts a tick count since DeviceEpoch to a UTC timestamp.
func DeviceTime(ticks uint32) time.Time {
	return DeviceEpoch.Add(time.Duration(ticks) * time.Second)
}

// DeviceTicks is the inverse of DeviceTime. Times before the epoch or beyond
// the 32-bit tick range are unrepresentable; ok is false and the caller
// should emit an error diagnostic.
func DeviceTicks(t time.Time) (ticks uint32, ok bool) {
	delta := t.Sub(DeviceEpoch)
	if delta < 0 {
		return 0, false
	}
	secs := int64(delta / time.Second)
	if secs > math.MaxUint32 {
		return 0, false
	}
	return uint32(secs), true
}

// IsDeviceEpoch reports whether a decoded timestamp is the epoch itself,
// which devices use as a "not recorded" placeholder.
func IsDeviceEpoch(t time.Time) bool {
	return t.Equal(DeviceEpoch)
}

// Linear unit conversions. Scaling factors only; which unit a field carries
// is declared by the source format, never inferred here.
const (
	MetersPerYard     = 0.9144
	MetersPerMile     = 1609.344
	KilogramsPerPound = 0.45359237
)

func MetersFromYards(y float64) float64 { return y * MetersPerYard }

func YardsFromMeters(m float64) float64 { return m / MetersPerYard }

func MetersFromMiles(mi float64) float64 { return mi * MetersPerMile }

// MetersPerSecondFromKPH converts km/h to m/s.
func MetersPerSecondFromKPH(kph float64) float64 { return kph / 3.6 }

// MetersPerSecondFromMPH converts miles/h to m/s.
func MetersPerSecondFromMPH(mph float64) float64 { return mph * MetersPerMile / 3600.0 }

func KilogramsFromPounds(lb float64) float64 { return lb * KilogramsPerPound }
