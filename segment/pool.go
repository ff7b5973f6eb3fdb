package segment

import (
	"math"

	"github.com/bcarlson/sportconv/diag"
)

// Pool length tolerance bands, in the source's declared distance unit.
// Measured lap distances wobble with wall push-off and turn detection, so a
// band rather than an exact match decides the pool size.
var poolBands = []struct {
	Length     float64
	Tolerance  float64
	Confidence float64
}{
	{50, 2.0, 0.9},
	{33.33, 1.5, 0.8},
	{25, 1.5, 0.9},
	{22.86, 1.0, 0.8}, // 25 yd expressed in meters
}

// DefaultPoolLength is used when no band matches the measured average lap
// distance.
const DefaultPoolLength = 25.0

// PoolLength is a classified pool configuration.
type PoolLength struct {
	Length     float64
	Confidence float64
	Inferred   bool
}

// ClassifyPoolLength classifies the pool from a measured average
// distance-per-lap. When no tolerance band matches, the default is returned
// and a warning carries the guessed value and confidence so downstream
// consumers know it was not measured.
func ClassifyPoolLength(avgLapDistance float64, c *diag.Collector, path string) PoolLength {
	if avgLapDistance > 0 {
		for _, band := range poolBands {
			if math.Abs(avgLapDistance-band.Length) <= band.Tolerance {
				return PoolLength{Length: band.Length, Confidence: band.Confidence, Inferred: true}
			}
		}
	}
	guess := PoolLength{Length: DefaultPoolLength, Confidence: 0.25, Inferred: true}
	c.Warn(diag.CategoryInferenceUncertain, path,
		"no pool length band matches average lap distance %.2f, guessing %.0f (confidence %.2f)",
		avgLapDistance, guess.Length, guess.Confidence)
	return guess
}
