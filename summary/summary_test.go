package summary

import (
	"strings"
	"testing"
	"time"

	"github.com/bcarlson/sportconv/model"
)

func TestDescribeSingleSport(t *testing.T) {
	a := &model.Activity{
		StartTime:    time.Date(2026, 5, 10, 9, 0, 0, 0, time.UTC),
		TotalSeconds: 3725,
		Sport:        model.SportCycling,
		Telemetry: model.Telemetry{
			AvgHeartRate: model.Float(141),
			MaxHeartRate: model.Float(168),
			AvgPower:     model.Float(210),
			AvgSpeed:     model.Float(8.33),
		},
		Segments: []model.Segment{{
			Sport:        model.SportCycling,
			TotalSeconds: 3725,
			Sets:         []model.Set{{Seconds: 3725, DistanceM: 31000}},
		}},
	}

	out := Describe(a)
	for _, want := range []string{
		"Activity: cycling",
		"Start: 2026-05-10 09:00:00",
		"Duration 1h02m05s",
		"Distance 31.0 km",
		"HR 141 avg / 168 max bpm",
		"Power 210 avg W",
		"Speed 30.0 km/h avg",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in:\n%s", want, out)
		}
	}
	if strings.Contains(out, "Legs") {
		t.Errorf("single-sport activity must not print a legs section:\n%s", out)
	}
}

func TestDescribeMultisportAndSwim(t *testing.T) {
	start := time.Date(2026, 5, 10, 7, 0, 0, 0, time.UTC)
	a := &model.Activity{
		StartTime:    start,
		TotalSeconds: 4890,
		Sport:        model.SportMultisport,
		Segments: []model.Segment{
			{
				Sport:        model.SportSwimming,
				StartTime:    start,
				TotalSeconds: 1200,
				Transition:   &model.Transition{Seconds: 90},
				Sets: []model.Set{{
					Seconds: 1200,
					SwimLengths: []model.SwimLength{
						{Index: 1, Stroke: model.StrokeFreestyle, Seconds: 30, Swolf: model.Int(44), Active: true},
						{Index: 2, Stroke: model.StrokeFreestyle, Seconds: 32, Swolf: model.Int(48), Active: true},
						{Index: 3, Stroke: model.StrokeUnknown, Seconds: 20, Active: false},
					},
				}},
			},
			{
				Sport:        model.SportCycling,
				StartTime:    start.Add(22 * time.Minute),
				TotalSeconds: 3600,
			},
		},
	}

	out := Describe(a)
	for _, want := range []string{
		"Activity: multisport",
		"Legs",
		"- swimming: 20m00s",
		"- transition: 1m30s",
		"- cycling: 1h00m00s",
		"Swim: 2 lengths | avg SWOLF 46",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in:\n%s", want, out)
		}
	}
}

func TestDescribeNil(t *testing.T) {
	if Describe(nil) != "" {
		t.Fatal("nil activity must render empty")
	}
}
