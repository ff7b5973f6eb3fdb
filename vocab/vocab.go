// Package vocab maps source-format classification codes to the canonical
// vocabulary and back. The tables are plain ordered data plus one pure
// resolution function per direction, so mappings stay testable as data
// rather than code.
package vocab

import (
	"strconv"
	"strings"

	"github.com/bcarlson/sportconv/diag"
	"github.com/bcarlson/sportconv/model"
)

// sportCodes maps the device-log sport enum to the canonical sport. Codes
// carried by the binary format but absent here fall through to the
// sub-classification table.
var sportCodes = []struct {
	Code  uint8
	Sport model.Sport
}{
	{1, model.SportRunning},
	{2, model.SportCycling},
	{3, model.SportTransition},
	{5, model.SportSwimming},
	{11, model.SportWalking},
	{15, model.SportRowing},
	{17, model.SportHiking},
	{18, model.SportMultisport},
}

// strokeCodes maps the device-log swim stroke enum to canonical strokes.
var strokeCodes = []struct {
	Code   uint8
	Stroke model.Stroke
}{
	{0, model.StrokeFreestyle},
	{1, model.StrokeBackstroke},
	{2, model.StrokeBreaststroke},
	{3, model.StrokeButterfly},
	{4, model.StrokeDrill},
	{5, model.StrokeMixed},
	{6, model.StrokeIM},
}

// Export synonym tables. The first listed synonym per canonical value is the
// one written, so export is deterministic. Later synonyms are accepted on
// import only.
var tcxSportNames = []struct {
	Sport model.Sport
	Names []string
}{
	{model.SportRunning, []string{"Running"}},
	{model.SportCycling, []string{"Biking"}},
	{model.SportOther, []string{"Other"}},
}

var gpxTypeNames = []struct {
	Sport model.Sport
	Names []string
}{
	{model.SportRunning, []string{"running", "run"}},
	{model.SportCycling, []string{"cycling", "biking", "ride"}},
	{model.SportSwimming, []string{"swimming", "swim"}},
	{model.SportWalking, []string{"walking", "walk"}},
	{model.SportHiking, []string{"hiking", "hike"}},
	{model.SportRowing, []string{"rowing", "row"}},
	{model.SportMultisport, []string{"multisport", "triathlon"}},
	{model.SportOther, []string{"other"}},
}

// ResolveSport classifies a primary sport code, falling back to the
// sub-classification table, then to Other with a warning naming the unmapped
// code. The warning is emitted once per distinct code per run.
func ResolveSport(code, subCode uint8, c *diag.Collector, path string) model.Sport {
	for _, entry := range sportCodes {
		if entry.Code == code {
			return entry.Sport
		}
	}
	if sport, ok := subSportFallback(subCode); ok {
		return sport
	}
	if c != nil {
		c.WarnOnce(warnKeySport(code, subCode), diag.CategoryMappingGap, path,
			"unmapped sport code %d (sub-code %d), classified as %s", code, subCode, model.SportOther)
	}
	return model.SportOther
}

func warnKeySport(code, subCode uint8) string {
	return "sport:" + strconv.Itoa(int(code)) + ":" + strconv.Itoa(int(subCode))
}

// ResolveStroke classifies a swim stroke code, defaulting to Unknown with a
// once-per-code warning.
func ResolveStroke(code uint8, c *diag.Collector, path string) model.Stroke {
	for _, entry := range strokeCodes {
		if entry.Code == code {
			return entry.Stroke
		}
	}
	if c != nil {
		c.WarnOnce("stroke:"+strconv.Itoa(int(code)), diag.CategoryMappingGap, path,
			"unmapped stroke code %d, classified as %s", code, model.StrokeUnknown)
	}
	return model.StrokeUnknown
}

// TCXSport returns the sport string written to TCX output: the first listed
// synonym, with Other covering every sport the format has no word for.
func TCXSport(s model.Sport) string {
	for _, entry := range tcxSportNames {
		if entry.Sport == s {
			return entry.Names[0]
		}
	}
	return "Other"
}

// SportFromTCX maps a TCX sport attribute back to the canonical vocabulary.
func SportFromTCX(name string) (model.Sport, bool) {
	for _, entry := range tcxSportNames {
		for _, n := range entry.Names {
			if n == name {
				return entry.Sport, true
			}
		}
	}
	return model.SportOther, false
}

// GPXType returns the track type string written to GPX output.
func GPXType(s model.Sport) string {
	for _, entry := range gpxTypeNames {
		if entry.Sport == s {
			return entry.Names[0]
		}
	}
	return "other"
}

// SportFromGPXType maps a GPX track type to the canonical vocabulary.
// Matching is case-insensitive; GPX has no fixed sport vocabulary.
func SportFromGPXType(name string) (model.Sport, bool) {
	lower := strings.ToLower(strings.TrimSpace(name))
	for _, entry := range gpxTypeNames {
		for _, n := range entry.Names {
			if n == lower {
				return entry.Sport, true
			}
		}
	}
	return model.SportOther, false
}
