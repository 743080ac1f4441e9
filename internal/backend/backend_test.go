package backend

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/cm-lang/cmc/internal/ast"
	"github.com/cm-lang/cmc/internal/mir"
)

func blk(label string, term mir.Terminator, instrs ...mir.Instruction) *mir.BasicBlock {
	return &mir.BasicBlock{Label: label, Instrs: instrs, Term: term}
}

func TestDetectPatternsFlagsIterClosurePattern(t *testing.T) {
	prog := &mir.Program{Functions: []*mir.Function{
		{Name: "make_closure_1", Blocks: []*mir.BasicBlock{blk("entry", mir.Ret{})}},
		{Name: "iter_next", Blocks: []*mir.BasicBlock{blk("entry", mir.Ret{})}},
		{Name: "list_map", Blocks: []*mir.BasicBlock{blk("entry", mir.Ret{})}},
	}}
	r := DetectPatterns(prog)
	if !r.IterClosurePattern {
		t.Fatalf("want iterator+closure+map combination flagged")
	}
}

func TestDetectPatternsFlagsComplexClosures(t *testing.T) {
	prog := &mir.Program{}
	for i := 0; i < 6; i++ {
		prog.Functions = append(prog.Functions, &mir.Function{Name: "closure_x", Blocks: []*mir.BasicBlock{blk("entry", mir.Ret{})}})
	}
	r := DetectPatterns(prog)
	if !r.ComplexClosures {
		t.Fatalf("want complex closure pattern flagged at closure_count > 5")
	}
}

func TestLimitRecursionMarksCycleNonInlinable(t *testing.T) {
	a := &mir.Function{Name: "a", Blocks: []*mir.BasicBlock{blk("entry", mir.Ret{}, mir.Call{Callee: "b"})}}
	b := &mir.Function{Name: "b", Blocks: []*mir.BasicBlock{blk("entry", mir.Ret{}, mir.Call{Callee: "a"})}}
	prog := &mir.Program{Functions: []*mir.Function{a, b}}
	report := LimitRecursion(prog, 0)
	if len(report.Cycles) == 0 {
		t.Fatalf("want a cycle detected between a and b")
	}
	if a.Attrs[noInlineAttr] == nil || b.Attrs[noInlineAttr] == nil {
		t.Fatalf("want both cyclic functions marked non-inlinable")
	}
}

func TestLimitRecursionAppliesSizeThresholdAtO3(t *testing.T) {
	var instrs []mir.Instruction
	for i := 0; i < 60; i++ {
		instrs = append(instrs, mir.Assign{Dest: "x", Value: &ast.IntLit{Value: int64(i)}})
	}
	big := &mir.Function{Name: "big", Blocks: []*mir.BasicBlock{blk("entry", mir.Ret{}, instrs...)}}
	prog := &mir.Program{Functions: []*mir.Function{big}}
	LimitRecursion(prog, 3)
	if big.Attrs[noInlineAttr] == nil {
		t.Fatalf("want a >50-instruction function marked non-inlinable at O3")
	}
}

func TestValidateRejectsSelfLoop(t *testing.T) {
	fn := &mir.Function{Name: "spin", Blocks: []*mir.BasicBlock{blk("loop", mir.Jump{Target: "loop"})}}
	prog := &mir.Program{Functions: []*mir.Function{fn}}
	err := Validate(prog, false)
	if err == nil {
		t.Fatalf("want an obvious-infinite-loop rejection")
	}
}

func TestValidateBypassedForBareMetal(t *testing.T) {
	fn := &mir.Function{Name: "spin", Blocks: []*mir.BasicBlock{blk("loop", mir.Jump{Target: "loop"})}}
	prog := &mir.Program{Functions: []*mir.Function{fn}}
	if err := Validate(prog, true); err != nil {
		t.Fatalf("want bare-metal targets to bypass the validator, got %v", err)
	}
}

func TestDriverRunAggregatesAndStopsOnValidationFailure(t *testing.T) {
	fn := &mir.Function{Name: "main", Blocks: []*mir.BasicBlock{blk("loop", mir.Jump{Target: "loop"})}}
	prog := &mir.Program{Functions: []*mir.Function{fn}}
	d := &Driver{}
	report, err := d.Run(prog, 1)
	if err == nil {
		t.Fatalf("want validation to reject the self-looping module")
	}
	if report.ValidationErr == nil {
		t.Fatalf("want the report to retain the validation error")
	}
}

func TestRunEmissionReturnsWrittenBytes(t *testing.T) {
	data, err := RunEmission(func(w *countingBuffer) error {
		w.Write([]byte("object code"))
		return nil
	}, time.Second, 1024)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !bytes.Equal(data, []byte("object code")) {
		t.Fatalf("want emitted bytes round-tripped, got %q", data)
	}
}

func TestRunEmissionTimesOut(t *testing.T) {
	_, err := RunEmission(func(w *countingBuffer) error {
		time.Sleep(200 * time.Millisecond)
		return nil
	}, 20*time.Millisecond, 1024)
	if err == nil {
		t.Fatalf("want a deadline-exceeded error")
	}
}

func TestRunEmissionPropagatesEmitError(t *testing.T) {
	want := errors.New("codegen failed")
	_, err := RunEmission(func(w *countingBuffer) error { return want }, time.Second, 1024)
	if err != want {
		t.Fatalf("want the emit function's error propagated, got %v", err)
	}
}
