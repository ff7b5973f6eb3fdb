// Package convert wires the decoders, inference layers and encoders into
// whole conversion runs. A run is a pure function from source bytes to
// output bytes plus diagnostics: no state is shared between runs, so batches
// parallelize with zero coordination.
package convert

import (
	"fmt"

	"github.com/bcarlson/sportconv/canonical"
	"github.com/bcarlson/sportconv/diag"
	"github.com/bcarlson/sportconv/fitdec"
	"github.com/bcarlson/sportconv/gpx"
	"github.com/bcarlson/sportconv/model"
	"github.com/bcarlson/sportconv/tabular"
	"github.com/bcarlson/sportconv/tcx"
	"github.com/bcarlson/sportconv/validate"
)

// Options configures one conversion run.
type Options struct {
	// From is the source format. Empty means detect from InputName and
	// content.
	From Format
	// To is the target format.
	To Format
	// Strict turns any loss warning into a blocked run.
	Strict bool
	// InputName is used for format detection only; it may be empty.
	InputName string
	// Validator, when set, checks every produced activity and its findings
	// join the run's diagnostics.
	Validator validate.Validator
}

// Result is everything one run produced. Diagnostics are always populated,
// even when the run failed.
type Result struct {
	Output      []byte
	Activities  []model.Activity
	Diagnostics []diag.Diagnostic
	Outcome     diag.Outcome
	RunID       string
}

// Run converts one source file. The returned error reports hard failures
// (unusable input, unsupported direction); the Result is non-nil either way
// so callers can inspect diagnostics.
func Run(data []byte, opts Options) (*Result, error) {
	c := diag.NewCollector()
	res := &Result{RunID: c.RunID()}

	from := opts.From
	if from == "" {
		detected, ok := DetectFormat(opts.InputName, data)
		if !ok {
			c.Error(diag.CategoryDecodeError, "file", "cannot detect source format")
			return finish(res, c, opts.Strict), fmt.Errorf("cannot detect source format")
		}
		from = detected
	}

	if !from.Decodable() {
		c.Error(diag.CategoryDecodeError, "file", "%s is a write-only target format", from)
		return finish(res, c, opts.Strict), fmt.Errorf("%s is a write-only target format", from)
	}
	if !opts.To.Encodable() {
		if opts.To == FormatFIT {
			c.Error(diag.CategoryEncodeUnsupported, "file", "the binary device log is a read-only source format")
			return finish(res, c, opts.Strict), fmt.Errorf("the binary device log is a read-only source format")
		}
		c.Error(diag.CategoryEncodeUnsupported, "file", "no target format selected")
		return finish(res, c, opts.Strict), fmt.Errorf("no target format selected")
	}

	acts, err := decode(from, data, c)
	if err != nil {
		return finish(res, c, opts.Strict), fmt.Errorf("decode %s: %w", from, err)
	}
	res.Activities = acts

	if opts.Validator != nil {
		for i := range acts {
			r := opts.Validator.Validate(&acts[i])
			validate.Merge(r, c, fmt.Sprintf("activity[%d]", i))
		}
	}

	out, err := encode(opts.To, acts, c)
	if err != nil {
		return finish(res, c, opts.Strict), fmt.Errorf("encode %s: %w", opts.To, err)
	}
	res.Output = out

	return finish(res, c, opts.Strict), nil
}

func decode(from Format, data []byte, c *diag.Collector) ([]model.Activity, error) {
	switch from {
	case FormatFIT:
		return fitdec.Decode(data, c)
	case FormatTCX:
		return tcx.Decode(data, c)
	case FormatGPX:
		return gpx.Decode(data, c)
	case FormatYAML:
		return canonical.Decode(data, c)
	default:
		return nil, fmt.Errorf("no decoder for %s", from)
	}
}

func encode(to Format, acts []model.Activity, c *diag.Collector) ([]byte, error) {
	switch to {
	case FormatTCX:
		return tcx.Encode(acts, c)
	case FormatGPX:
		return gpx.Encode(acts, c)
	case FormatYAML:
		return canonical.Encode(acts, c)
	case FormatCSV:
		return tabular.EncodeCSV(acts, c)
	case FormatParquet:
		return tabular.EncodeParquet(acts, c)
	default:
		return nil, fmt.Errorf("no encoder for %s", to)
	}
}

func finish(res *Result, c *diag.Collector, strict bool) *Result {
	res.Diagnostics = c.Items()
	res.Outcome = diag.Evaluate(res.Diagnostics, strict)
	return res
}
