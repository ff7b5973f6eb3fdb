// Package summary renders a human-readable digest of converted activities
// for the CLI report. It is display-only: nothing here feeds back into the
// model or the encoders.
package summary

import (
	"fmt"
	"math"
	"strings"

	"github.com/bcarlson/sportconv/model"
)

// Describe turns one activity into a short multi-line report block.
func Describe(a *model.Activity) string {
	if a == nil {
		return ""
	}

	var b strings.Builder

	fmt.Fprintf(&b, "Activity: %s\n", a.Sport)
	if !a.StartTime.IsZero() {
		fmt.Fprintf(&b, "Start: %s\n", a.StartTime.Format("2006-01-02 15:04:05"))
	}

	dist := totalDistance(a)
	line := fmt.Sprintf("Duration %s", formatDuration(a.TotalSeconds))
	if dist > 0 {
		line += fmt.Sprintf(" | Distance %.1f km", dist/1000.0)
	}
	if a.Route != nil {
		line += fmt.Sprintf(" | Elevation +%.0f/-%.0f m", a.Route.AscentM, a.Route.DescentM)
	}
	b.WriteString(line)
	b.WriteByte('\n')

	if t := telemetryLine(a.Telemetry); t != "" {
		b.WriteString(t)
		b.WriteByte('\n')
	}

	if a.Multisport() {
		b.WriteString("Legs\n")
		for _, seg := range a.Segments {
			fmt.Fprintf(&b, "- %s: %s\n", seg.Sport, formatDuration(seg.TotalSeconds))
			if seg.Transition != nil {
				fmt.Fprintf(&b, "- transition: %s\n", formatDuration(seg.Transition.Seconds))
			}
		}
	}

	if lengths, avgSwolf := swimStats(a); lengths > 0 {
		if avgSwolf > 0 {
			fmt.Fprintf(&b, "Swim: %d lengths | avg SWOLF %d\n", lengths, avgSwolf)
		} else {
			fmt.Fprintf(&b, "Swim: %d lengths\n", lengths)
		}
	}

	for _, d := range a.Devices {
		if d.Manufacturer == "" && d.Product == "" {
			continue
		}
		fmt.Fprintf(&b, "Device: %s\n", strings.TrimSpace(d.Manufacturer+" "+d.Product))
	}

	return strings.TrimSpace(b.String())
}

func telemetryLine(t model.Telemetry) string {
	var parts []string
	if t.AvgHeartRate != nil {
		p := fmt.Sprintf("HR %.0f avg", *t.AvgHeartRate)
		if t.MaxHeartRate != nil {
			p += fmt.Sprintf(" / %.0f max bpm", *t.MaxHeartRate)
		} else {
			p += " bpm"
		}
		parts = append(parts, p)
	}
	if t.AvgPower != nil {
		p := fmt.Sprintf("Power %.0f avg", *t.AvgPower)
		if t.MaxPower != nil {
			p += fmt.Sprintf(" / %.0f max W", *t.MaxPower)
		} else {
			p += " W"
		}
		parts = append(parts, p)
	}
	if t.AvgSpeed != nil {
		parts = append(parts, fmt.Sprintf("Speed %.1f km/h avg", mpsToKmh(*t.AvgSpeed)))
	}
	if t.Calories != nil {
		parts = append(parts, fmt.Sprintf("%.0f kcal", *t.Calories))
	}
	return strings.Join(parts, " | ")
}

func totalDistance(a *model.Activity) float64 {
	var total float64
	for _, seg := range a.Segments {
		for _, set := range seg.Sets {
			total += set.DistanceM
		}
	}
	return total
}

func swimStats(a *model.Activity) (lengths, avgSwolf int) {
	var swolfSum, swolfN int
	for _, seg := range a.Segments {
		for _, set := range seg.Sets {
			for _, l := range set.SwimLengths {
				if !l.Active {
					continue
				}
				lengths++
				if l.Swolf != nil {
					swolfSum += *l.Swolf
					swolfN++
				}
			}
		}
	}
	if swolfN > 0 {
		avgSwolf = int(math.Round(float64(swolfSum) / float64(swolfN)))
	}
	return lengths, avgSwolf
}

func formatDuration(seconds float64) string {
	if seconds <= 0 {
		return "0s"
	}
	s := int(math.Round(seconds))
	h := s / 3600
	m := (s % 3600) / 60
	sec := s % 60
	if h > 0 {
		return fmt.Sprintf("%dh%02dm%02ds", h, m, sec)
	}
	if m > 0 {
		return fmt.Sprintf("%dm%02ds", m, sec)
	}
	return fmt.Sprintf("%ds", sec)
}

func mpsToKmh(v float64) float64 {
	if v <= 0 {
		return 0
	}
	return v * 3.6
}
