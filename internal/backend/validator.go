package backend

import (
	"fmt"

	"github.com/cm-lang/cmc/internal/mir"
)

// complexityThreshold and maxHugeFunctions are the spec's pre-codegen
// validator gate values.
const (
	complexityThreshold = 100000
	hugeFunctionInstrs   = 10000
	maxHugeFunctions     = 5
)

// ValidationError reports why the pre-codegen validator rejected a
// module; the total complexity and the offending names are kept on the struct so the
// driver's report can surface specifics rather than a bare message.
type ValidationError struct {
	Reason           string
	TotalComplexity  int
	InfiniteLoopIn   string
	HugeFunctions    []string
}

func (e *ValidationError) Error() string { return e.Reason }

// Validate runs the pre-codegen complexity and infinite-loop gate.
// bareMetal targets intentionally contain busy-loops (UEFI firmware
// idioms) and bypass this validator entirely
func Validate(prog *mir.Program, bareMetal bool) error {
	if bareMetal {
		return nil
	}

	total := 0
	var huge []string
	for _, fn := range prog.Functions {
		if blk := selfLoopBlock(fn); blk != "" {
			return &ValidationError{
				Reason:         fmt.Sprintf("obvious infinite loop in %s: block %s jumps unconditionally to itself", fn.Name, blk),
				InfiniteLoopIn: fn.Name,
			}
		}
		score := complexityScore(fn)
		total += score
		if instructionCount(fn) > hugeFunctionInstrs {
			huge = append(huge, fn.Name)
		}
	}

	if len(huge) > maxHugeFunctions {
		return &ValidationError{
			Reason:        fmt.Sprintf("%d functions each exceed %d instructions (limit %d)", len(huge), hugeFunctionInstrs, maxHugeFunctions),
			HugeFunctions: huge,
		}
	}
	if total > complexityThreshold {
		return &ValidationError{
			Reason:          fmt.Sprintf("total module complexity %d exceeds threshold %d", total, complexityThreshold),
			TotalComplexity: total,
		}
	}
	return nil
}

// selfLoopBlock reports the label of the first basic block found to
// unconditionally jump to itself, the gate's "obvious infinite loop"
// signature; it returns "" when none is found.
func selfLoopBlock(fn *mir.Function) string {
	for _, blk := range fn.Blocks {
		if j, ok := blk.Term.(mir.Jump); ok && j.Target == blk.Label {
			return blk.Label
		}
	}
	return ""
}

// complexityScore sums, over every basic block, instr_count * (2 if
// the block ends in a conditional branch else 1), scaled by (1 +
// estimated loop depth). This basic-block IR has no phi nodes, so the
// phi_count term from the complexity formula is always zero here.
func complexityScore(fn *mir.Function) int {
	depth := estimateLoopDepth(fn)
	total := 0
	for _, blk := range fn.Blocks {
		weight := 1
		if _, ok := blk.Term.(mir.Branch); ok {
			weight = 2
		}
		total += len(blk.Instrs) * weight
	}
	return total * (1 + depth)
}

// estimateLoopDepth counts back-edges (each jump or branch arm pointing
// at a block at or before the current one in the function's block
// list; a block targeted by several back-edges counts once per edge), a cheap
// over-approximation of true loop nesting depth that doesn't require
// dominator analysis.
func estimateLoopDepth(fn *mir.Function) int {
	order := map[string]int{}
	for i, b := range fn.Blocks {
		order[b.Label] = i
	}
	depth := 0
	for i, b := range fn.Blocks {
		for _, target := range successors(b.Term) {
			if order[target] <= i {
				depth++
			}
		}
	}
	return depth
}

func successors(t mir.Terminator) []string {
	switch term := t.(type) {
	case mir.Jump:
		return []string{term.Target}
	case mir.Branch:
		return []string{term.Then, term.Else}
	default:
		return nil
	}
}
