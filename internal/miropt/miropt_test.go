package miropt

import (
	"testing"

	"github.com/cm-lang/cmc/internal/ast"
	"github.com/cm-lang/cmc/internal/mir"
)

func fn(blocks ...*mir.BasicBlock) *mir.Function {
	return &mir.Function{Name: "f", Entry: blocks[0].Label, Blocks: blocks, MustLabels: map[string]bool{}}
}

func TestConstantFoldingRewritesArithmetic(t *testing.T) {
	b := &mir.BasicBlock{
		Label: "entry",
		Instrs: []mir.Instruction{
			mir.Assign{Dest: "x", Value: &ast.BinaryExpr{Op: "+", Left: intLit(2), Right: intLit(3)}},
		},
		Term: mir.Ret{},
	}
	f := fn(b)
	p := exprPass{name: "constant-folding", transform: constFold}
	if !p.RunFunction(f) {
		t.Fatalf("want change")
	}
	got := f.Blocks[0].Instrs[0].(mir.Assign).Value.(*ast.IntLit).Value
	if got != 5 {
		t.Fatalf("want 5, got %d", got)
	}
}

func TestAlgebraicSimplificationDropsIdentityAdd(t *testing.T) {
	b := &mir.BasicBlock{
		Label:  "entry",
		Instrs: []mir.Instruction{mir.Assign{Dest: "x", Value: &ast.BinaryExpr{Op: "+", Left: &ast.Ident{Name: "y"}, Right: intLit(0)}}},
		Term:   mir.Ret{},
	}
	f := fn(b)
	p := exprPass{name: "algebraic-simplification", transform: algebraicSimplify}
	p.RunFunction(f)
	got := f.Blocks[0].Instrs[0].(mir.Assign).Value.(*ast.Ident).Name
	if got != "y" {
		t.Fatalf("want bare y, got %s", got)
	}
}

func TestStrengthReductionRewritesPowerOfTwoMultiply(t *testing.T) {
	b := &mir.BasicBlock{
		Label:  "entry",
		Instrs: []mir.Instruction{mir.Assign{Dest: "x", Value: &ast.BinaryExpr{Op: "*", Left: &ast.Ident{Name: "y"}, Right: intLit(8)}}},
		Term:   mir.Ret{},
	}
	f := fn(b)
	p := exprPass{name: "strength-reduction", transform: strengthReduce}
	p.RunFunction(f)
	bin := f.Blocks[0].Instrs[0].(mir.Assign).Value.(*ast.BinaryExpr)
	if bin.Op != "<<" || bin.Right.(*ast.IntLit).Value != 3 {
		t.Fatalf("want y << 3, got %s %v", bin.Op, bin.Right)
	}
}

func TestCastSimplificationCollapsesRedundantCast(t *testing.T) {
	i32 := &ast.PrimitiveType{Kind: ast.PrimI32}
	inner := &ast.CastExpr{Operand: &ast.Ident{Name: "x"}, Target: i32}
	outer := &ast.CastExpr{Operand: inner, Target: i32}
	b := &mir.BasicBlock{Label: "entry", Instrs: []mir.Instruction{mir.ExprInstr{X: outer}}, Term: mir.Ret{}}
	f := fn(b)
	p := exprPass{name: "cast-simplification", transform: castSimplify}
	p.RunFunction(f)
	got := f.Blocks[0].Instrs[0].(mir.ExprInstr).X.(*ast.CastExpr)
	if _, redundant := got.Operand.(*ast.CastExpr); redundant {
		t.Fatalf("want collapsed single cast, got nested cast")
	}
}

func TestDeadInstructionElimDropsBareIdentExprStmt(t *testing.T) {
	b := &mir.BasicBlock{
		Label: "entry",
		Instrs: []mir.Instruction{
			mir.ExprInstr{X: &ast.Ident{Name: "x"}},
			mir.Assign{Dest: "y", Value: intLit(1)},
		},
		Term: mir.Ret{},
	}
	f := fn(b)
	deadInstructionElim{}.RunFunction(f)
	if len(f.Blocks[0].Instrs) != 1 {
		t.Fatalf("want the bare-ident ExprInstr dropped, got %d instrs", len(f.Blocks[0].Instrs))
	}
}

func TestDeadInstructionElimSparesMustBlock(t *testing.T) {
	b := &mir.BasicBlock{Label: "entry", Instrs: []mir.Instruction{mir.ExprInstr{X: &ast.Ident{Name: "x"}}}, Term: mir.Ret{}}
	f := fn(b)
	f.MustLabels["entry"] = true
	deadInstructionElim{}.RunFunction(f)
	if len(f.Blocks[0].Instrs) != 1 {
		t.Fatalf("must-block instructions must be left untouched")
	}
}

func TestLoadAfterStoreForwardingPropagatesCopy(t *testing.T) {
	b := &mir.BasicBlock{
		Label: "entry",
		Instrs: []mir.Instruction{
			mir.Assign{Dest: "x", Value: intLit(7)},
			mir.Assign{Dest: "y", Value: &ast.Ident{Name: "x"}},
		},
		Term: mir.Ret{},
	}
	f := fn(b)
	loadAfterStoreForwarding{}.RunFunction(f)
	got := f.Blocks[0].Instrs[1].(mir.Assign).Value.(*ast.IntLit).Value
	if got != 7 {
		t.Fatalf("want y forwarded to literal 7, got %v", f.Blocks[0].Instrs[1])
	}
}

func TestDeadStoreElimRemovesOverwrittenAssignWithNoInterveningRead(t *testing.T) {
	b := &mir.BasicBlock{
		Label: "entry",
		Instrs: []mir.Instruction{
			mir.Assign{Dest: "x", Value: intLit(1)},
			mir.Assign{Dest: "x", Value: intLit(2)},
		},
		Term: mir.Ret{Value: &ast.Ident{Name: "x"}},
	}
	f := fn(b)
	deadStoreElim{}.RunFunction(f)
	if len(f.Blocks[0].Instrs) != 1 {
		t.Fatalf("want first dead store removed, got %d instrs", len(f.Blocks[0].Instrs))
	}
	if f.Blocks[0].Instrs[0].(mir.Assign).Value.(*ast.IntLit).Value != 2 {
		t.Fatalf("want surviving store to be the second one")
	}
}

func TestDeadStoreElimKeepsStoreReadBeforeOverwrite(t *testing.T) {
	b := &mir.BasicBlock{
		Label: "entry",
		Instrs: []mir.Instruction{
			mir.Assign{Dest: "x", Value: intLit(1)},
			mir.Assign{Dest: "y", Value: &ast.Ident{Name: "x"}},
			mir.Assign{Dest: "x", Value: intLit(2)},
		},
		Term: mir.Ret{},
	}
	f := fn(b)
	deadStoreElim{}.RunFunction(f)
	if len(f.Blocks[0].Instrs) != 3 {
		t.Fatalf("want all three stores kept (x was read before reassignment), got %d", len(f.Blocks[0].Instrs))
	}
}

func TestTrivialJumpMergeFoldsSoleSuccessor(t *testing.T) {
	entry := &mir.BasicBlock{Label: "entry", Term: mir.Jump{Target: "mid"}}
	mid := &mir.BasicBlock{Label: "mid", Term: mir.Jump{Target: "end"}}
	end := &mir.BasicBlock{Label: "end", Instrs: []mir.Instruction{mir.Assign{Dest: "x", Value: intLit(1)}}, Term: mir.Ret{}}
	f := fn(entry, mid, end)
	trivialJumpMerge{}.RunFunction(f)
	if entry.Term.(mir.Jump).Target != "end" {
		t.Fatalf("want entry to jump straight to end, got %v", entry.Term)
	}
	for _, b := range f.Blocks {
		if b.Label == "mid" {
			t.Fatalf("want mid block removed after merge")
		}
	}
}

func TestSelectSimplifyCollapsesIdenticalArms(t *testing.T) {
	entry := &mir.BasicBlock{Label: "entry", Term: mir.Branch{Cond: &ast.Ident{Name: "c"}, Then: "then", Else: "else"}}
	then := &mir.BasicBlock{Label: "then", Instrs: []mir.Instruction{mir.Assign{Dest: "x", Value: intLit(9)}}, Term: mir.Jump{Target: "join"}}
	els := &mir.BasicBlock{Label: "else", Instrs: []mir.Instruction{mir.Assign{Dest: "x", Value: intLit(9)}}, Term: mir.Jump{Target: "join"}}
	join := &mir.BasicBlock{Label: "join", Term: mir.Ret{Value: &ast.Ident{Name: "x"}}}
	f := fn(entry, then, els, join)
	sel := selectSimplify{}
	if !sel.RunFunction(f) {
		t.Fatalf("want change")
	}
	if _, isJump := entry.Term.(mir.Jump); !isJump {
		t.Fatalf("want entry's branch collapsed to a jump, got %T", entry.Term)
	}
	if len(entry.Instrs) != 1 {
		t.Fatalf("want the shared assignment hoisted into entry, got %d instrs", len(entry.Instrs))
	}
}

func TestManagerRunsPassesToFixpoint(t *testing.T) {
	b := &mir.BasicBlock{
		Label: "entry",
		Instrs: []mir.Instruction{
			mir.Assign{Dest: "x", Value: &ast.BinaryExpr{Op: "+", Left: intLit(1), Right: intLit(1)}},
			mir.ExprInstr{X: &ast.Ident{Name: "x"}},
		},
		Term: mir.Ret{},
	}
	f := fn(b)
	m := NewManager(0)
	m.RunUntilFixpoint(f)
	if len(f.Blocks[0].Instrs) != 1 {
		t.Fatalf("want const-folded assign kept and the bare-ident ExprInstr eliminated, got %v", f.Blocks[0].Instrs)
	}
	if f.Blocks[0].Instrs[0].(mir.Assign).Value.(*ast.IntLit).Value != 2 {
		t.Fatalf("want folded to literal 2")
	}
}

func TestAddStandardPassesScalesWithLevel(t *testing.T) {
	if len(AddStandardPasses(0)) >= len(AddStandardPasses(3)) {
		t.Fatalf("want level 3 to register more passes than level 0")
	}
}
