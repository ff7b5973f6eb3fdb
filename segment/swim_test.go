package segment

import (
	"testing"

	"github.com/bcarlson/sportconv/diag"
	"github.com/bcarlson/sportconv/model"
)

func TestDeriveLengthsComputesSwolf(t *testing.T) {
	c := diag.NewCollector()
	out := DeriveLengths([]RawLength{
		{SourceIndex: 7, Stroke: model.StrokeFreestyle, Seconds: 30, StrokeCount: model.Int(15), Active: true},
	}, c, "session[0].set[0]")

	if len(out) != 1 {
		t.Fatalf("got %d lengths, want 1", len(out))
	}
	l := out[0]
	if l.Index != 1 {
		t.Fatalf("index = %d, want renumbered 1", l.Index)
	}
	if l.Swolf == nil || *l.Swolf != 45 {
		t.Fatalf("swolf = %v, want 45", l.Swolf)
	}
	if c.Len() != 0 {
		t.Fatalf("derivation emitted %d diagnostics", c.Len())
	}
}

func TestDeriveLengthsKeepsConflictingSourceSwolf(t *testing.T) {
	c := diag.NewCollector()
	out := DeriveLengths([]RawLength{
		{Stroke: model.StrokeFreestyle, Seconds: 30, StrokeCount: model.Int(15), SourceSwolf: model.Int(50), Active: true},
	}, c, "session[0].set[0]")

	if *out[0].Swolf != 50 {
		t.Fatalf("swolf = %d, want source value 50", *out[0].Swolf)
	}
	items := c.Items()
	if len(items) != 1 {
		t.Fatalf("got %d diagnostics, want exactly 1", len(items))
	}
	if items[0].Category != diag.CategoryConsistencyViolation || items[0].Severity != diag.SeverityWarning {
		t.Fatalf("diagnostic = %+v", items[0])
	}
}

func TestDeriveLengthsToleratesOffByOne(t *testing.T) {
	c := diag.NewCollector()
	out := DeriveLengths([]RawLength{
		{Stroke: model.StrokeFreestyle, Seconds: 30.4, StrokeCount: model.Int(15), SourceSwolf: model.Int(46), Active: true},
	}, c, "session[0].set[0]")

	if *out[0].Swolf != 46 {
		t.Fatalf("swolf = %d, want source value", *out[0].Swolf)
	}
	if c.Len() != 0 {
		t.Fatalf("within-tolerance disagreement emitted %d diagnostics", c.Len())
	}
}

func TestDeriveLengthsRenumbersSequentially(t *testing.T) {
	c := diag.NewCollector()
	out := DeriveLengths([]RawLength{
		{SourceIndex: 12, Seconds: 28, Active: true},
		{SourceIndex: 3, Seconds: 14, Active: false},
		{SourceIndex: 44, Seconds: 31, StrokeCount: model.Int(18), Active: true},
	}, c, "session[0].set[0]")

	for i, l := range out {
		if l.Index != i+1 {
			t.Fatalf("length %d has index %d", i, l.Index)
		}
	}
	if out[0].Swolf != nil {
		t.Fatal("swolf derived without stroke count")
	}
	if out[2].Swolf == nil || *out[2].Swolf != 49 {
		t.Fatalf("swolf = %v, want 49", out[2].Swolf)
	}
}

func TestDeriveLengthsEmpty(t *testing.T) {
	if got := DeriveLengths(nil, diag.NewCollector(), "p"); got != nil {
		t.Fatalf("DeriveLengths(nil) = %v", got)
	}
}
