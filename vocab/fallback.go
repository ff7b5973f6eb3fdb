package vocab

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/bcarlson/sportconv/model"
)

// The sub-sport fallback table ships as a versioned data file so new device
// firmware codes can be mapped without a code change.
//
//go:embed subsport_fallback.yaml
var subSportFallbackYAML []byte

type fallbackFile struct {
	Version int `yaml:"version"`
	Entries []struct {
		Code  uint8       `yaml:"code"`
		Sport model.Sport `yaml:"sport"`
	} `yaml:"entries"`
}

var subSportTable = mustLoadFallback()

func mustLoadFallback() map[uint8]model.Sport {
	var file fallbackFile
	if err := yaml.Unmarshal(subSportFallbackYAML, &file); err != nil {
		panic(fmt.Sprintf("vocab: bad embedded fallback table: %v", err))
	}
	table := make(map[uint8]model.Sport, len(file.Entries))
	for _, e := range file.Entries {
		table[e.Code] = e.Sport
	}
	return table
}

// FallbackTableVersion reports the version of the embedded sub-sport table.
func FallbackTableVersion() int {
	var file fallbackFile
	_ = yaml.Unmarshal(subSportFallbackYAML, &file)
	return file.Version
}

func subSportFallback(subCode uint8) (model.Sport, bool) {
	sport, ok := subSportTable[subCode]
	return sport, ok
}
