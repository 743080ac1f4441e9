// Package backend implements the C9 backend optimization driver: the
// pattern detector, recursion limiter, pre-codegen validator, and
// timeout-guarded emission wrapper. Driver.Run runs the first three in
// a fixed order and aggregates their findings into one Report instead
// of each writing independently to stderr; the emission wrapper,
// RunEmission, is a separate entry point that Driver.Run does not call.
package backend

import "github.com/cm-lang/cmc/internal/mir"

// Report aggregates every C9 sub-component's findings for one
// compilation. A non-nil ValidationErr means the module was rejected;
// Driver.Run still returns the partial Report alongside the error so
// callers can print the pattern/recursion advisories that ran before
// validation failed.
type Report struct {
	Patterns      PatternReport
	Recursion     RecursionReport
	ValidationErr error
}

// Driver runs the backend's advisory and gating passes in a fixed
// order: pattern detection, then recursion limiting, then validation.
type Driver struct {
	BareMetal bool // UEFI/bare-metal targets bypass the pre-codegen validator
}

// Run executes the pattern detector, recursion limiter, and
// pre-codegen validator against prog at the given optimization level.
func (d *Driver) Run(prog *mir.Program, level int) (*Report, error) {
	report := &Report{
		Patterns:  DetectPatterns(prog),
		Recursion: LimitRecursion(prog, level),
	}
	if err := Validate(prog, d.BareMetal); err != nil {
		report.ValidationErr = err
		return report, err
	}
	return report, nil
}

// Advisories renders the pattern and recursion advisories as colored
// lines, in pattern-then-recursion order.
func (r *Report) Advisories() []string {
	var lines []string
	lines = append(lines, r.Patterns.Advisories()...)
	lines = append(lines, r.Recursion.Advisories()...)
	return lines
}
