package fitdec

import (
	"math"
	"time"

	"github.com/bcarlson/sportconv/model"
	"github.com/bcarlson/sportconv/units"
)

// The binary format marks "not recorded" with all-ones sentinels per base
// type. These helpers fold sentinels to zero so callers can treat zero as
// absent for count-like fields, and to (value, ok) pairs where zero is a
// legitimate reading.

func validU8(v uint8) uint8 {
	if v == math.MaxUint8 {
		return 0
	}
	return v
}

func validU16(v uint16) uint16 {
	if v == math.MaxUint16 {
		return 0
	}
	return v
}

func validU32(v uint32) uint32 {
	if v == math.MaxUint32 {
		return 0
	}
	return v
}

func validTimeOrZero(t time.Time) time.Time {
	if t.IsZero() || units.IsDeviceEpoch(t) {
		return time.Time{}
	}
	return t
}

// cadenceFromAny handles the profile quirk that cadence getters return
// different integer widths depending on which field was recorded.
func cadenceFromAny(v any) float64 {
	switch x := v.(type) {
	case uint8:
		if x == math.MaxUint8 {
			return 0
		}
		return float64(x)
	case uint16:
		if x == math.MaxUint16 {
			return 0
		}
		return float64(x)
	case float64:
		return safePositive(x)
	default:
		return 0
	}
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func safePositive(v float64) float64 {
	if !isFinite(v) || v <= 0 {
		return 0
	}
	return v
}

// seriesColumn fetches a metric column, tolerating a nil series.
func seriesColumn(series *model.TimeSeries, name string) []float64 {
	if series == nil {
		return nil
	}
	col, _ := series.Column(name)
	return col
}

// columnAvg averages the recorded cells of a metric column.
func columnAvg(col []float64) float64 {
	total := 0.0
	count := 0
	for _, v := range col {
		if math.IsNaN(v) {
			continue
		}
		total += v
		count++
	}
	if count == 0 {
		return 0
	}
	return total / float64(count)
}

// columnMax returns the largest recorded cell of a metric column.
func columnMax(col []float64) float64 {
	best := 0.0
	found := false
	for _, v := range col {
		if math.IsNaN(v) {
			continue
		}
		if !found || v > best {
			best = v
			found = true
		}
	}
	return best
}
