package vocab

import (
	"testing"

	"github.com/bcarlson/sportconv/diag"
	"github.com/bcarlson/sportconv/model"
)

func TestResolveSportExactMatch(t *testing.T) {
	c := diag.NewCollector()
	cases := map[uint8]model.Sport{
		1:  model.SportRunning,
		2:  model.SportCycling,
		3:  model.SportTransition,
		5:  model.SportSwimming,
		18: model.SportMultisport,
	}
	for code, want := range cases {
		if got := ResolveSport(code, 0, c, "session[0].sport"); got != want {
			t.Fatalf("ResolveSport(%d) = %v, want %v", code, got, want)
		}
	}
	if c.Len() != 0 {
		t.Fatalf("exact matches emitted %d diagnostics", c.Len())
	}
}

func TestResolveSportSubClassificationFallback(t *testing.T) {
	c := diag.NewCollector()
	// Code 254 is not a primary sport; sub-code 1 (treadmill) resolves it.
	if got := ResolveSport(254, 1, c, "session[0].sport"); got != model.SportRunning {
		t.Fatalf("fallback = %v, want running", got)
	}
	if c.Len() != 0 {
		t.Fatalf("fallback emitted %d diagnostics", c.Len())
	}
}

func TestResolveSportUnmappedWarnsOnce(t *testing.T) {
	c := diag.NewCollector()
	for i := 0; i < 3; i++ {
		if got := ResolveSport(200, 200, c, "session[0].sport"); got != model.SportOther {
			t.Fatalf("unmapped code = %v, want other", got)
		}
	}
	items := c.Items()
	if len(items) != 1 {
		t.Fatalf("got %d diagnostics, want exactly 1", len(items))
	}
	if items[0].Category != diag.CategoryMappingGap || items[0].Severity != diag.SeverityWarning {
		t.Fatalf("diagnostic = %+v", items[0])
	}

	// A distinct unmapped code gets its own warning.
	ResolveSport(201, 200, c, "session[1].sport")
	if c.Len() != 2 {
		t.Fatalf("got %d diagnostics after second code, want 2", c.Len())
	}
}

func TestResolveStroke(t *testing.T) {
	c := diag.NewCollector()
	if got := ResolveStroke(0, c, "length[0]"); got != model.StrokeFreestyle {
		t.Fatalf("stroke 0 = %v", got)
	}
	if got := ResolveStroke(3, c, "length[1]"); got != model.StrokeButterfly {
		t.Fatalf("stroke 3 = %v", got)
	}
	if c.Len() != 0 {
		t.Fatal("mapped strokes emitted diagnostics")
	}

	if got := ResolveStroke(99, c, "length[2]"); got != model.StrokeUnknown {
		t.Fatalf("unmapped stroke = %v", got)
	}
	ResolveStroke(99, c, "length[3]")
	if c.Len() != 1 {
		t.Fatalf("got %d diagnostics for repeated unmapped stroke, want 1", c.Len())
	}
}

func TestExportUsesFirstSynonym(t *testing.T) {
	if got := TCXSport(model.SportCycling); got != "Biking" {
		t.Fatalf("TCXSport(cycling) = %q", got)
	}
	if got := TCXSport(model.SportSwimming); got != "Other" {
		t.Fatalf("TCXSport(swimming) = %q, want Other", got)
	}
	if got := GPXType(model.SportCycling); got != "cycling" {
		t.Fatalf("GPXType(cycling) = %q, want first synonym", got)
	}
}

func TestImportAcceptsAllSynonyms(t *testing.T) {
	for _, name := range []string{"cycling", "biking", "ride", "RIDE"} {
		sport, ok := SportFromGPXType(name)
		if !ok || sport != model.SportCycling {
			t.Fatalf("SportFromGPXType(%q) = %v, %v", name, sport, ok)
		}
	}
	if _, ok := SportFromGPXType("snowboarding"); ok {
		t.Fatal("unknown type unexpectedly mapped")
	}
	if sport, ok := SportFromTCX("Running"); !ok || sport != model.SportRunning {
		t.Fatalf("SportFromTCX(Running) = %v, %v", sport, ok)
	}
}

func TestFallbackTableVersioned(t *testing.T) {
	if FallbackTableVersion() < 1 {
		t.Fatalf("fallback table version = %d", FallbackTableVersion())
	}
}
