package backend

import (
	"strings"

	"github.com/cm-lang/cmc/internal/mir"
)

// PatternReport tallies the backend's informational function-shape
// classification.
// It never changes what the driver does with the user's chosen
// optimization level; earlier implementations downgraded
// automatically on a complex-closure finding, the current contract
// only reports it.
type PatternReport struct {
	ClosureCount       int
	IteratorCount      int
	LambdaCount        int
	MapFilterCount     int
	IterClosurePattern bool
	ComplexClosures    bool
}

var patternSubstrings = []string{"closure", "$_", "iter", "lambda", "map", "filter", "fold", "reduce"}

// DetectPatterns classifies every function in prog by name substring
// and tallies the spec's four named counters.
func DetectPatterns(prog *mir.Program) PatternReport {
	var r PatternReport
	for _, fn := range prog.Functions {
		name := strings.ToLower(fn.Name)
		switch {
		case strings.Contains(name, "closure"):
			r.ClosureCount++
		case strings.Contains(name, "lambda"):
			r.LambdaCount++
		}
		if strings.Contains(name, "iter") {
			r.IteratorCount++
		}
		if strings.Contains(name, "map") || strings.Contains(name, "filter") ||
			strings.Contains(name, "fold") || strings.Contains(name, "reduce") || strings.Contains(name, "$_") {
			r.MapFilterCount++
		}
	}
	r.IterClosurePattern = r.IteratorCount > 0 && r.ClosureCount > 0 && r.MapFilterCount > 0
	r.ComplexClosures = r.ClosureCount > 5 || r.LambdaCount > 3
	return r
}

// Advisories renders the report's findings as the colored `[MIR_PATTERN]`
// lines the driver's Report aggregates; an empty slice means nothing
// noteworthy was found.
func (r PatternReport) Advisories() []string {
	var lines []string
	if r.IterClosurePattern {
		lines = append(lines, patternTag("iterator/closure/map-filter combination detected"))
	}
	if r.ComplexClosures {
		lines = append(lines, patternTag("complex closure pattern (consider a lower optimization level)"))
	}
	return lines
}
