package diag

// Outcome classifies a finished conversion run. The numeric values double as
// CLI exit codes.
type Outcome int

const (
	// OutcomeOK means the run succeeded with no information loss.
	OutcomeOK Outcome = 0
	// OutcomeLoss means the run succeeded but some data was lost or guessed.
	OutcomeLoss Outcome = 1
	// OutcomeFailed means decode or validation failed.
	OutcomeFailed Outcome = 2
	// OutcomeBlocked means strict mode turned a lossy success into a failure.
	OutcomeBlocked Outcome = 3
)

func (o Outcome) String() string {
	switch o {
	case OutcomeOK:
		return "ok"
	case OutcomeLoss:
		return "ok (with loss)"
	case OutcomeFailed:
		return "failed"
	case OutcomeBlocked:
		return "blocked by strict mode"
	default:
		return "unknown"
	}
}

// ExitCode maps the outcome to the CLI exit code contract.
func (o Outcome) ExitCode() int { return int(o) }

// Success reports whether the run produced a usable result.
func (o Outcome) Success() bool { return o == OutcomeOK || o == OutcomeLoss }

// Evaluate classifies a finished run from its diagnostic list. Strict mode is
// a post-pass: it changes the classification, never the diagnostics.
func Evaluate(items []Diagnostic, strict bool) Outcome {
	hasError := false
	hasWarning := false
	for _, d := range items {
		switch d.Severity {
		case SeverityError:
			hasError = true
		case SeverityWarning:
			hasWarning = true
		}
	}
	switch {
	case hasError:
		return OutcomeFailed
	case hasWarning && strict:
		return OutcomeBlocked
	case hasWarning:
		return OutcomeLoss
	default:
		return OutcomeOK
	}
}
