package diag

import (
	"fmt"

	"github.com/google/uuid"
)

// Severity classifies a diagnostic as recoverable loss or hard failure.
type Severity string

const (
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Category is a stable machine-readable diagnostic code. Codes are part of
// the output contract and must not be renamed.
type Category string

const (
	CategoryDecodeError          Category = "decode_error"
	CategoryMappingGap           Category = "mapping_gap"
	CategoryInferenceUncertain   Category = "inference_uncertain"
	CategoryConsistencyViolation Category = "consistency_violation"
	CategoryEncodeUnsupported    Category = "encode_unsupported"
	CategoryValidationFailure    Category = "validation_failure"
)

// Diagnostic records one piece of information that was lost, guessed, or
// rejected during a conversion run.
type Diagnostic struct {
	Severity Severity `json:"severity" yaml:"severity"`
	Category Category `json:"category" yaml:"category"`
	Message  string   `json:"message" yaml:"message"`
	Path     string   `json:"path,omitempty" yaml:"path,omitempty"`
	RunID    string   `json:"run_id,omitempty" yaml:"run_id,omitempty"`
}

func (d Diagnostic) String() string {
	if d.Path != "" {
		return fmt.Sprintf("%s [%s] %s: %s", d.Severity, d.Category, d.Path, d.Message)
	}
	return fmt.Sprintf("%s [%s] %s", d.Severity, d.Category, d.Message)
}

// Collector is the ordered, append-only diagnostic accumulator shared by one
// conversion run. Emission order matches source encounter order; nothing is
// ever removed or reordered. A Collector is not safe for concurrent use:
// each run owns exactly one.
type Collector struct {
	runID string
	items []Diagnostic
	seen  map[string]struct{}
}

// NewCollector starts an empty accumulator attributed to a fresh run ID.
func NewCollector() *Collector {
	return &Collector{
		runID: uuid.NewString(),
		seen:  make(map[string]struct{}),
	}
}

// RunID identifies the conversion run this collector belongs to.
func (c *Collector) RunID() string { return c.runID }

// Warn appends a warning diagnostic.
func (c *Collector) Warn(cat Category, path, format string, args ...any) {
	c.append(SeverityWarning, cat, path, format, args...)
}

// Error appends an error diagnostic.
func (c *Collector) Error(cat Category, path, format string, args ...any) {
	c.append(SeverityError, cat, path, format, args...)
}

// WarnOnce appends a warning diagnostic unless the same key was already
// reported during this run. Decoders use it to report an unmapped source
// field once per distinct field name instead of once per sample.
func (c *Collector) WarnOnce(key string, cat Category, path, format string, args ...any) {
	if _, ok := c.seen[key]; ok {
		return
	}
	c.seen[key] = struct{}{}
	c.append(SeverityWarning, cat, path, format, args...)
}

func (c *Collector) append(sev Severity, cat Category, path, format string, args ...any) {
	c.items = append(c.items, Diagnostic{
		Severity: sev,
		Category: cat,
		Message:  fmt.Sprintf(format, args...),
		Path:     path,
		RunID:    c.runID,
	})
}

// Merge appends already-built diagnostics, preserving their order. Their run
// attribution is kept if set, otherwise stamped with this collector's run.
func (c *Collector) Merge(items []Diagnostic) {
	for _, d := range items {
		if d.RunID == "" {
			d.RunID = c.runID
		}
		c.items = append(c.items, d)
	}
}

// Items returns the accumulated diagnostics in emission order. The returned
// slice is a copy; the accumulator itself stays append-only.
func (c *Collector) Items() []Diagnostic {
	out := make([]Diagnostic, len(c.items))
	copy(out, c.items)
	return out
}

func (c *Collector) Len() int { return len(c.items) }

// HasErrors reports whether any error-severity diagnostic was emitted.
func (c *Collector) HasErrors() bool {
	for _, d := range c.items {
		if d.Severity == SeverityError {
			return true
		}
	}
	return false
}

// HasWarnings reports whether any warning-severity diagnostic was emitted.
func (c *Collector) HasWarnings() bool {
	for _, d := range c.items {
		if d.Severity == SeverityWarning {
			return true
		}
	}
	return false
}

// Count returns how many diagnostics of the given severity were emitted.
func Count(items []Diagnostic, sev Severity) int {
	n := 0
	for _, d := range items {
		if d.Severity == sev {
			n++
		}
	}
	return n
}
