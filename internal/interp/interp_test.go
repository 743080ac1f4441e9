package interp

import (
	"bytes"
	"testing"

	"github.com/cm-lang/cmc/internal/ast"
	"github.com/cm-lang/cmc/internal/hir"
	"github.com/cm-lang/cmc/internal/mir"
)

func blk(label string, term mir.Terminator, instrs ...mir.Instruction) *mir.BasicBlock {
	return &mir.BasicBlock{Label: label, Instrs: instrs, Term: term}
}

func ident(name string) *ast.Ident { return &ast.Ident{Name: name} }
func intLit(v int64) *ast.IntLit   { return &ast.IntLit{Value: v} }

func TestRunEvaluatesArithmeticMain(t *testing.T) {
	mul := &ast.BinaryExpr{Op: "*", Left: intLit(3), Right: intLit(4)}
	add := &ast.BinaryExpr{Op: "+", Left: intLit(2), Right: mul}
	main := &mir.Function{
		Name:  "main",
		Entry: "entry",
		Blocks: []*mir.BasicBlock{
			blk("entry", mir.Ret{Value: add}),
		},
	}
	prog := &mir.Program{Functions: []*mir.Function{main}}
	it := New(prog, &bytes.Buffer{})

	v, err := it.Run()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	iv, ok := v.(*IntValue)
	if !ok || iv.Value != 14 {
		t.Fatalf("want 14, got %v", v)
	}
}

func TestRunDispatchesMethodCall(t *testing.T) {
	point := &hir.Struct{Name: "Point", Fields: []hir.Field{{Name: "x"}, {Name: "y"}}}
	sumFn := &mir.Function{
		Name:   "Point__sum",
		Entry:  "entry",
		Params: []hir.Param{{Name: "self"}},
		Blocks: []*mir.BasicBlock{
			blk("entry", mir.Ret{Value: &ast.BinaryExpr{
				Op:   "+",
				Left: &ast.FieldExpr{Target: ident("self"), Field: "x"},
				Right: &ast.FieldExpr{Target: ident("self"), Field: "y"},
			}}),
		},
	}
	makePoint := &ast.StructLiteralExpr{
		TypeName: "Point",
		Fields: []ast.StructFieldInit{
			{Name: "x", Value: intLit(3)},
			{Name: "y", Value: intLit(4)},
		},
	}
	callSum := &ast.CallExpr{Callee: &ast.FieldExpr{Target: ident("p"), Field: "sum"}}
	main := &mir.Function{
		Name:  "main",
		Entry: "entry",
		Blocks: []*mir.BasicBlock{
			blk("entry", mir.Ret{Value: callSum}, mir.Assign{Dest: "p", Value: makePoint}),
		},
	}
	prog := &mir.Program{Functions: []*mir.Function{main, sumFn}, Structs: []*hir.Struct{point}}
	it := New(prog, &bytes.Buffer{})

	v, err := it.Run()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	iv, ok := v.(*IntValue)
	if !ok || iv.Value != 7 {
		t.Fatalf("want 7, got %v", v)
	}
}

func TestRunConstructsAndMatchesEnumVariant(t *testing.T) {
	option := &hir.Enum{Name: "Option", Variants: []hir.EnumVariant{
		{Name: "Some", Tag: 0, Fields: []hir.Type{}},
		{Name: "None", Tag: 1},
	}}
	makeSome := &ast.CallExpr{Callee: ident("Some"), Args: []ast.Expr{intLit(5)}}
	m := &ast.MatchExpr{
		Scrutinee: ident("o"),
		Arms: []ast.MatchArm{
			{
				Pattern: &ast.VariantPattern{Variant: "Some", Binding: "n", HasBinding: true},
				Body:    &ast.BlockExpr{Tail: &ast.BinaryExpr{Op: "+", Left: ident("n"), Right: intLit(1)}},
			},
			{
				Pattern: &ast.WildcardPattern{},
				Body:    &ast.BlockExpr{Tail: intLit(0)},
			},
		},
	}
	main := &mir.Function{
		Name:  "main",
		Entry: "entry",
		Blocks: []*mir.BasicBlock{
			blk("entry", mir.Ret{Value: m}, mir.Assign{Dest: "o", Value: makeSome}),
		},
	}
	prog := &mir.Program{Functions: []*mir.Function{main}, Enums: []*hir.Enum{option}}
	it := New(prog, &bytes.Buffer{})

	v, err := it.Run()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	iv, ok := v.(*IntValue)
	if !ok || iv.Value != 6 {
		t.Fatalf("want 6, got %v", v)
	}
}

// TestRunLoopsViaBranchAndJump sums 0..4 using a hand-built
// cond/body/end CFG shaped the way internal/mir/cfg.go's lowerWhile
// emits one, exercising Jump/Branch dispatch across repeated visits to
// the same block.
func TestRunLoopsViaBranchAndJump(t *testing.T) {
	main := &mir.Function{
		Name:  "main",
		Entry: "init",
		Blocks: []*mir.BasicBlock{
			blk("init", mir.Jump{Target: "cond"},
				mir.Assign{Dest: "sum", Value: intLit(0)},
				mir.Assign{Dest: "i", Value: intLit(0)},
			),
			blk("cond", mir.Branch{
				Cond: &ast.BinaryExpr{Op: "<", Left: ident("i"), Right: intLit(5)},
				Then: "body", Else: "end",
			}),
			blk("body", mir.Jump{Target: "cond"},
				mir.Assign{Dest: "sum", Value: &ast.BinaryExpr{Op: "+", Left: ident("sum"), Right: ident("i")}},
				mir.Assign{Dest: "i", Value: &ast.BinaryExpr{Op: "+", Left: ident("i"), Right: intLit(1)}},
			),
			blk("end", mir.Ret{Value: ident("sum")}),
		},
	}
	prog := &mir.Program{Functions: []*mir.Function{main}}
	it := New(prog, &bytes.Buffer{})

	v, err := it.Run()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	iv, ok := v.(*IntValue)
	if !ok || iv.Value != 10 {
		t.Fatalf("want 10, got %v", v)
	}
}

func TestExecStoreMutatesStructFieldInPlace(t *testing.T) {
	makePoint := &ast.StructLiteralExpr{
		TypeName: "Point",
		Fields:   []ast.StructFieldInit{{Name: "x", Value: intLit(1)}},
	}
	main := &mir.Function{
		Name:  "main",
		Entry: "entry",
		Blocks: []*mir.BasicBlock{
			blk("entry", mir.Ret{Value: &ast.FieldExpr{Target: ident("p"), Field: "x"}},
				mir.Assign{Dest: "p", Value: makePoint},
				mir.Store{Target: &ast.FieldExpr{Target: ident("p"), Field: "x"}, Value: intLit(99)},
			),
		},
	}
	prog := &mir.Program{Functions: []*mir.Function{main}}
	it := New(prog, &bytes.Buffer{})

	v, err := it.Run()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	iv, ok := v.(*IntValue)
	if !ok || iv.Value != 99 {
		t.Fatalf("want the store to overwrite the field in place, got %v", v)
	}
}

func TestBuiltinPrintlnWritesToConfiguredWriter(t *testing.T) {
	main := &mir.Function{
		Name:  "main",
		Entry: "entry",
		Blocks: []*mir.BasicBlock{
			blk("entry", mir.Ret{},
				mir.Call{Callee: "println", Args: []ast.Expr{&ast.StringLit{Value: "hi"}}},
			),
		},
	}
	prog := &mir.Program{Functions: []*mir.Function{main}}
	var buf bytes.Buffer
	it := New(prog, &buf)

	if _, err := it.Run(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if buf.String() != "hi\n" {
		t.Fatalf("want %q, got %q", "hi\n", buf.String())
	}
}

func TestUndefinedIdentifierIsAnError(t *testing.T) {
	main := &mir.Function{
		Name:  "main",
		Entry: "entry",
		Blocks: []*mir.BasicBlock{
			blk("entry", mir.Ret{Value: ident("nope")}),
		},
	}
	prog := &mir.Program{Functions: []*mir.Function{main}}
	it := New(prog, &bytes.Buffer{})

	if _, err := it.Run(); err == nil {
		t.Fatalf("want an error for an undefined identifier")
	}
}
