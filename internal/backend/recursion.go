package backend

import (
	"fmt"
	"sort"
	"strings"

	"github.com/cm-lang/cmc/internal/mir"
)

// RecursionReport records which functions the recursion limiter marked
// non-inlinable, and why.
type RecursionReport struct {
	Cycles       [][]string // each inner slice is one call-graph cycle, in visit order
	NonInlinable map[string]string // function name -> reason
}

// noInlineAttr is the hint-only attribute the backend driver sets;
// codegen may still choose to inline anyway, this is advisory like the
// pattern detector, never a correctness requirement.
const noInlineAttr = "noinline"

// LimitRecursion builds prog's call graph, marks every function
// reachable in a cycle as not-inlinable (a DFS cycle, not necessarily
// direct self-recursion), and applies the optimization level's
// size-based and closure/iterator-specific inlining thresholds.
func LimitRecursion(prog *mir.Program, level int) RecursionReport {
	graph := buildCallGraph(prog)
	report := RecursionReport{NonInlinable: map[string]string{}}

	cycles := findCycles(graph)
	report.Cycles = cycles
	for _, cycle := range cycles {
		for _, name := range cycle {
			report.NonInlinable[name] = "part of a call-graph cycle"
		}
	}

	threshold := 0
	switch {
	case level >= 3:
		threshold = 50
	case level == 2:
		threshold = 100
	}

	byName := map[string]*mir.Function{}
	for _, fn := range prog.Functions {
		byName[fn.Name] = fn
	}

	for _, fn := range prog.Functions {
		if _, already := report.NonInlinable[fn.Name]; already {
			markNonInlinable(fn, report.NonInlinable[fn.Name])
			continue
		}
		if threshold > 0 {
			if n := instructionCount(fn); n > threshold {
				reason := fmt.Sprintf("%d instructions exceeds the O%d inline threshold of %d", n, level, threshold)
				report.NonInlinable[fn.Name] = reason
				markNonInlinable(fn, reason)
				continue
			}
		}
		if looksLikeClosureOrIterator(fn.Name) && countCalls(fn) > 5 {
			reason := "closure/iterator-shaped name with more than 5 call sites"
			report.NonInlinable[fn.Name] = reason
			markNonInlinable(fn, reason)
		}
	}

	return report
}

func markNonInlinable(fn *mir.Function, reason string) {
	if fn.Attrs == nil {
		fn.Attrs = map[string][]string{}
	}
	fn.Attrs[noInlineAttr] = []string{reason}
}

func instructionCount(fn *mir.Function) int {
	n := 0
	for _, blk := range fn.Blocks {
		n += len(blk.Instrs)
	}
	return n
}

func looksLikeClosureOrIterator(name string) bool {
	lower := strings.ToLower(name)
	return strings.Contains(lower, "closure") || strings.Contains(lower, "iter") || strings.Contains(lower, "lambda")
}

// findCycles runs a DFS over graph and returns every simple cycle
// discovered (a node visited while still on the current recursion
// stack), the classic white/gray/black coloring.
func findCycles(graph map[string][]string) [][]string {
	const (
		white = 0
		gray  = 1
		black = 2
	)
	color := map[string]int{}
	var stack []string
	var cycles [][]string

	var names []string
	for n := range graph {
		names = append(names, n)
	}
	sort.Strings(names)

	var visit func(node string)
	visit = func(node string) {
		color[node] = gray
		stack = append(stack, node)
		for _, next := range graph[node] {
			switch color[next] {
			case white:
				if _, ok := graph[next]; ok {
					visit(next)
				}
			case gray:
				idx := indexOf(stack, next)
				if idx >= 0 {
					cycle := append([]string(nil), stack[idx:]...)
					cycles = append(cycles, cycle)
				}
			}
		}
		stack = stack[:len(stack)-1]
		color[node] = black
	}

	for _, n := range names {
		if color[n] == white {
			visit(n)
		}
	}
	return cycles
}

func indexOf(s []string, v string) int {
	for i, x := range s {
		if x == v {
			return i
		}
	}
	return -1
}

// Advisories renders each detected call cycle as a `[RECURSION]` line;
// functions marked non-inlinable for size or closure use are not listed.
func (r RecursionReport) Advisories() []string {
	var lines []string
	for _, cycle := range r.Cycles {
		lines = append(lines, recursionTag(fmt.Sprintf("call cycle: %s", strings.Join(cycle, " -> "))))
	}
	return lines
}
