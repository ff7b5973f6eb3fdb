// Package canonical persists the in-memory activity model as YAML, the
// project's own interchange form. Unlike the device formats it is lossless:
// everything the model holds survives a round trip.
package canonical

import (
	"fmt"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/bcarlson/sportconv/diag"
	"github.com/bcarlson/sportconv/model"
)

// FormatVersion is bumped whenever the document layout changes shape.
const FormatVersion = 1

// Document is the on-disk envelope around a batch of activities.
type Document struct {
	FormatVersion int              `yaml:"format_version"`
	GeneratedAt   time.Time        `yaml:"generated_at,omitempty"`
	Activities    []model.Activity `yaml:"activities"`
}

// Encode serializes activities into a versioned document. Encoding is total:
// an empty batch produces a valid document with an empty activity list and a
// warning.
func Encode(acts []model.Activity, c *diag.Collector) ([]byte, error) {
	if len(acts) == 0 {
		c.Warn(diag.CategoryEncodeUnsupported, "file", "no activities, emitting empty document")
	}
	doc := Document{
		FormatVersion: FormatVersion,
		GeneratedAt:   time.Now().UTC().Truncate(time.Second),
		Activities:    acts,
	}
	out, err := yaml.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("marshal document: %w", err)
	}
	return out, nil
}

// Decode parses a canonical document and checks the structural invariants
// the rest of the pipeline assumes.
func Decode(data []byte, c *diag.Collector) ([]model.Activity, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		c.Error(diag.CategoryDecodeError, "file", "parse document: %v", err)
		return nil, fmt.Errorf("parse document: %w", err)
	}
	if doc.FormatVersion > FormatVersion {
		c.Warn(diag.CategoryDecodeError, "format_version",
			"document version %d is newer than supported version %d, decoding best-effort",
			doc.FormatVersion, FormatVersion)
	}
	for i := range doc.Activities {
		if err := doc.Activities[i].CheckInvariants(); err != nil {
			c.Error(diag.CategoryValidationFailure, fmt.Sprintf("activities[%d]", i), "%v", err)
		}
	}
	return doc.Activities, nil
}
