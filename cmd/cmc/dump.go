package main

import (
	"fmt"
	"strings"

	"github.com/cm-lang/cmc/internal/ast"
	"github.com/cm-lang/cmc/internal/hir"
	"github.com/cm-lang/cmc/internal/mir"
	"github.com/cm-lang/cmc/internal/pipeline"
)

// renderStage prints whichever pipeline stage the --ast|--hir|--mir|
// --mir-opt flags asked for against a Result that stopped early there
// (internal/pipeline.Pipeline.Compile never runs stages past the
// requested dump point).
func renderStage(dumps pipeline.Dumps, res *pipeline.Result) string {
	switch {
	case dumps.AST && res.AST != nil:
		return ast.Dump(res.AST.Declarations)
	case dumps.HIR && res.HIR != nil:
		return dumpHIR(res.HIR)
	case (dumps.MIR || dumps.MIROpt) && res.MIR != nil:
		return dumpMIR(res.MIR)
	default:
		return ""
	}
}

func dumpHIR(prog *hir.Program) string {
	var b strings.Builder
	for _, fn := range prog.Functions {
		fmt.Fprintf(&b, "func %s(", fn.Name)
		for i, p := range fn.Params {
			if i > 0 {
				b.WriteString(", ")
			}
			fmt.Fprintf(&b, "%s", p.Name)
		}
		b.WriteString(") {\n")
		dumpHIRBlock(&b, fn.Body, 1)
		b.WriteString("}\n")
	}
	for _, s := range prog.Structs {
		fmt.Fprintf(&b, "struct %s (size=%d align=%d)\n", s.Name, s.Size, s.Alignment)
	}
	for _, e := range prog.Enums {
		fmt.Fprintf(&b, "enum %s\n", e.Name)
	}
	return b.String()
}

func dumpHIRBlock(b *strings.Builder, blk *hir.Block, depth int) {
	if blk == nil {
		return
	}
	indent := strings.Repeat("  ", depth)
	for _, s := range blk.Stmts {
		fmt.Fprintf(b, "%s%T\n", indent, s)
	}
}

func dumpMIR(prog *mir.Program) string {
	var b strings.Builder
	for _, fn := range prog.Functions {
		fmt.Fprintf(&b, "func %s {\n", fn.Name)
		for _, blk := range fn.Blocks {
			fmt.Fprintf(&b, "%s:\n", blk.Label)
			for _, instr := range blk.Instrs {
				fmt.Fprintf(&b, "  %s\n", dumpInstr(instr))
			}
			fmt.Fprintf(&b, "  %s\n", dumpTerm(blk.Term))
		}
		b.WriteString("}\n")
	}
	return b.String()
}

func dumpInstr(instr mir.Instruction) string {
	switch in := instr.(type) {
	case mir.Assign:
		return fmt.Sprintf("%s = %s", in.Dest, exprString(in.Value))
	case mir.ExprInstr:
		return exprString(in.X)
	case mir.Call:
		return fmt.Sprintf("%s = call %s(...)", in.Dest, in.Callee)
	case mir.Store:
		return fmt.Sprintf("store %s = %s", exprString(in.Target), exprString(in.Value))
	case mir.InlineAsm:
		return "asm { ... }"
	default:
		return fmt.Sprintf("%T", instr)
	}
}

func dumpTerm(term mir.Terminator) string {
	switch t := term.(type) {
	case mir.Jump:
		return "jump " + t.Target
	case mir.Branch:
		return fmt.Sprintf("branch %s ? %s : %s", exprString(t.Cond), t.Then, t.Else)
	case mir.Ret:
		return "ret " + exprString(t.Value)
	default:
		return fmt.Sprintf("%T", term)
	}
}

func exprString(e ast.Expr) string {
	if e == nil {
		return "<none>"
	}
	return e.String()
}
