// Package validate defines the contract to the external schema validator
// and merges its findings into the run's diagnostic stream.
package validate

import (
	"fmt"

	"github.com/bcarlson/sportconv/diag"
	"github.com/bcarlson/sportconv/model"
)

// Result is what a validator reports for one activity.
type Result struct {
	Valid    bool
	Errors   []string
	Warnings []string
}

// Validator is the external schema validation service. The pipeline calls it
// only when the caller asks for validation.
type Validator interface {
	Validate(act *model.Activity) Result
}

// Merge folds a validation result into the collector under the validator's
// severity model: rejected models are errors, everything else a warning.
func Merge(r Result, c *diag.Collector, path string) {
	for _, msg := range r.Errors {
		c.Error(diag.CategoryValidationFailure, path, "%s", msg)
	}
	for _, msg := range r.Warnings {
		c.Warn(diag.CategoryValidationFailure, path, "%s", msg)
	}
}

// Structural checks the model invariants the rest of the pipeline assumes.
// It stands in when no external validator is configured.
type Structural struct{}

func (Structural) Validate(act *model.Activity) Result {
	r := Result{Valid: true}
	if err := act.CheckInvariants(); err != nil {
		r.Valid = false
		r.Errors = append(r.Errors, err.Error())
	}
	for si, seg := range act.Segments {
		for xi, set := range seg.Sets {
			for li, l := range set.SwimLengths {
				if l.Index != li+1 {
					r.Valid = false
					r.Errors = append(r.Errors, fmt.Sprintf(
						"segment[%d].set[%d]: swim length %d has index %d, want sequential 1-based numbering",
						si, xi, li, l.Index))
				}
			}
		}
	}
	return r
}
