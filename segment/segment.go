// Package segment infers structure the source format leaves implicit:
// multisport session grouping, pool length classification, and per-length
// SWOLF derivation. Every function is a single pass over a flat input slice
// and produces its whole result at once, so inference is replayable against
// literal fixtures.
package segment

import (
	"fmt"
	"time"

	"github.com/bcarlson/sportconv/diag"
	"github.com/bcarlson/sportconv/model"
)

// SessionSummary is one source-level session before grouping.
type SessionSummary struct {
	Sport        model.Sport
	StartTime    time.Time
	TotalSeconds float64
	Sets         []model.Set
	Telemetry    model.Telemetry
}

// Group turns an ordered session list into activities. Consecutive sessions
// become one multisport activity when there is more than one session and at
// least two non-transition sessions carry different sports. Transition
// sessions fold into the preceding segment; an orphan transition with no
// preceding segment becomes its own zero-telemetry segment with a warning.
// The single-sport path produces one activity with one segment per session
// and no Transition objects.
func Group(sessions []SessionSummary, c *diag.Collector) []model.Activity {
	if len(sessions) == 0 {
		return nil
	}

	if !isMultisport(sessions) {
		return []model.Activity{buildActivity(sessions, false, c)}
	}
	return []model.Activity{buildActivity(sessions, true, c)}
}

func isMultisport(sessions []SessionSummary) bool {
	if len(sessions) < 2 {
		return false
	}
	var first model.Sport
	seenFirst := false
	for _, s := range sessions {
		if s.Sport == model.SportTransition {
			continue
		}
		if !seenFirst {
			first = s.Sport
			seenFirst = true
			continue
		}
		if s.Sport != first {
			return true
		}
	}
	return false
}

func buildActivity(sessions []SessionSummary, multisport bool, c *diag.Collector) model.Activity {
	act := model.Activity{
		StartTime: sessions[0].StartTime,
	}

	for i, s := range sessions {
		act.TotalSeconds += s.TotalSeconds

		if s.Sport == model.SportTransition && multisport {
			if len(act.Segments) == 0 {
				// No neighbor to attach to; keep it visible as its own
				// zero-telemetry segment rather than dropping time.
				c.Warn(diag.CategoryInferenceUncertain, sessionPath(i),
					"transition session has no preceding segment, kept as standalone segment")
				act.Segments = append(act.Segments, model.Segment{
					Sport:        model.SportTransition,
					StartTime:    s.StartTime,
					TotalSeconds: s.TotalSeconds,
				})
				continue
			}
			prev := &act.Segments[len(act.Segments)-1]
			if prev.Transition != nil {
				c.Warn(diag.CategoryInferenceUncertain, sessionPath(i),
					"consecutive transition sessions, kept as standalone segment")
				act.Segments = append(act.Segments, model.Segment{
					Sport:        model.SportTransition,
					StartTime:    s.StartTime,
					TotalSeconds: s.TotalSeconds,
				})
				continue
			}
			prev.Transition = &model.Transition{
				Seconds:   s.TotalSeconds,
				Telemetry: s.Telemetry,
			}
			continue
		}

		act.Segments = append(act.Segments, model.Segment{
			Sport:        s.Sport,
			StartTime:    s.StartTime,
			TotalSeconds: s.TotalSeconds,
			Sets:         s.Sets,
			Telemetry:    s.Telemetry,
		})
	}

	if multisport {
		// A trailing transition attached to the final segment leads nowhere.
		last := &act.Segments[len(act.Segments)-1]
		if last.Transition != nil {
			c.Warn(diag.CategoryInferenceUncertain, sessionPath(len(sessions)-1),
				"transition session has no following segment, kept as standalone segment")
			trailing := model.Segment{
				Sport:        model.SportTransition,
				TotalSeconds: last.Transition.Seconds,
			}
			last.Transition = nil
			act.Segments = append(act.Segments, trailing)
		}
		act.Sport = model.SportMultisport
	} else {
		act.Sport = primarySport(act.Segments)
	}
	return act
}

func primarySport(segments []model.Segment) model.Sport {
	for _, seg := range segments {
		if seg.Sport != model.SportTransition {
			return seg.Sport
		}
	}
	return model.SportOther
}

func sessionPath(i int) string {
	return fmt.Sprintf("session[%d]", i)
}
