package segment

import (
	"fmt"
	"math"

	"github.com/bcarlson/sportconv/diag"
	"github.com/bcarlson/sportconv/model"
)

// RawLength is one per-length source record before renumbering.
type RawLength struct {
	SourceIndex int
	Stroke      model.Stroke
	Seconds     float64
	StrokeCount *int
	SourceSwolf *int
	Active      bool
}

// swolfTolerance is the allowed disagreement between a source-supplied SWOLF
// and the derived one before a consistency warning fires. Devices round
// length duration before summing, so off-by-one is normal.
const swolfTolerance = 1

// DeriveLengths renumbers source lengths sequentially (1-based, regardless
// of source numbering) and derives SWOLF where duration and stroke count are
// both present. A source SWOLF that disagrees with the derived value beyond
// tolerance is kept, with a warning; source data always wins over
// derivation.
func DeriveLengths(raws []RawLength, c *diag.Collector, path string) []model.SwimLength {
	if len(raws) == 0 {
		return nil
	}
	out := make([]model.SwimLength, 0, len(raws))
	for i, raw := range raws {
		length := model.SwimLength{
			Index:       i + 1,
			Stroke:      raw.Stroke,
			Seconds:     raw.Seconds,
			StrokeCount: raw.StrokeCount,
			Active:      raw.Active,
		}

		var derived *int
		if raw.Seconds > 0 && raw.StrokeCount != nil {
			v := int(math.Round(raw.Seconds)) + *raw.StrokeCount
			derived = &v
		}

		switch {
		case raw.SourceSwolf != nil && derived != nil:
			if abs(*raw.SourceSwolf-*derived) > swolfTolerance {
				c.Warn(diag.CategoryConsistencyViolation, lengthPath(path, i+1),
					"source swolf %d disagrees with derived %d, keeping source value",
					*raw.SourceSwolf, *derived)
			}
			length.Swolf = raw.SourceSwolf
		case raw.SourceSwolf != nil:
			length.Swolf = raw.SourceSwolf
		case derived != nil:
			length.Swolf = derived
		}

		out = append(out, length)
	}
	return out
}

func lengthPath(path string, index int) string {
	return fmt.Sprintf("%s.length[%d]", path, index)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
