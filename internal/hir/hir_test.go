package hir

import (
	"testing"

	"github.com/cm-lang/cmc/internal/ast"
)

func fn(name string, body *ast.BlockExpr) *ast.FunctionDecl {
	return &ast.FunctionDecl{Name: name, Body: body, DeclAttrs: &ast.DeclAttrs{}}
}

func TestNamespaceFlattening(t *testing.T) {
	inner := fn("helper", &ast.BlockExpr{})
	ns := &ast.NamespaceDecl{
		Path:         "Math",
		Declarations: []ast.Decl{inner},
		DeclAttrs:    &ast.DeclAttrs{},
	}
	prog := &ast.Program{Declarations: []ast.Decl{ns}}

	out, err := Lower(prog)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out.Functions) != 1 || out.Functions[0].Name != "Math::helper" {
		t.Fatalf("want flattened name Math::helper, got %+v", out.Functions)
	}
}

func TestMatchWithBindingExtractsPayload(t *testing.T) {
	match := &ast.MatchStmt{
		Scrutinee: &ast.Ident{Name: "opt"},
		Arms: []ast.MatchArm{
			{Pattern: &ast.VariantPattern{Variant: "Some", HasBinding: true, Binding: "v"}, Body: &ast.BlockExpr{}},
			{Pattern: &ast.WildcardPattern{}, Body: &ast.BlockExpr{}},
		},
	}
	body := &ast.BlockExpr{Stmts: []ast.Stmt{match}}
	prog := &ast.Program{Declarations: []ast.Decl{fn("use_opt", body)}}

	out, err := Lower(prog)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	sw, ok := out.Functions[0].Body.Stmts[0].(*Switch)
	if !ok {
		t.Fatalf("want Switch, got %T", out.Functions[0].Body.Stmts[0])
	}
	if len(sw.Arms) != 1 {
		t.Fatalf("want one conditional arm (wildcard becomes Default), got %d", len(sw.Arms))
	}
	if sw.Default == nil {
		t.Fatalf("want trailing wildcard arm to become Default")
	}
	let, ok := sw.Arms[0].Body.Stmts[0].(*Let)
	if !ok || let.Name != "v" {
		t.Fatalf("want payload-extraction Let named v, got %+v", sw.Arms[0].Body.Stmts[0])
	}
}

func TestDeferPreservedAsDedicatedNode(t *testing.T) {
	body := &ast.BlockExpr{Stmts: []ast.Stmt{
		&ast.DeferStmt{Call: &ast.CallExpr{Callee: &ast.Ident{Name: "cleanup"}}},
		&ast.ReturnStmt{},
	}}
	prog := &ast.Program{Declarations: []ast.Decl{fn("work", body)}}

	out, _ := Lower(prog)
	if _, ok := out.Functions[0].Body.Stmts[0].(*Defer); !ok {
		t.Fatalf("want Defer preserved in order, got %T", out.Functions[0].Body.Stmts[0])
	}
}

func TestMustBlockPreserved(t *testing.T) {
	body := &ast.BlockExpr{Stmts: []ast.Stmt{
		&ast.MustBlockStmt{Body: &ast.BlockStmt{Stmts: []ast.Stmt{&ast.ReturnStmt{}}}},
	}}
	prog := &ast.Program{Declarations: []ast.Decl{fn("critical", body)}}

	out, _ := Lower(prog)
	mb, ok := out.Functions[0].Body.Stmts[0].(*MustBlock)
	if !ok {
		t.Fatalf("want MustBlock, got %T", out.Functions[0].Body.Stmts[0])
	}
	if len(mb.Body.Stmts) != 1 {
		t.Fatalf("want must-block body lowered through, got %d stmts", len(mb.Body.Stmts))
	}
}

func TestForInArrayDesugarsToIndexLoop(t *testing.T) {
	body := &ast.BlockExpr{Stmts: []ast.Stmt{
		&ast.ForInStmt{
			Var:      "x",
			Iterable: &ast.ArrayLiteralExpr{Elements: []ast.Expr{&ast.IntLit{Raw: "1"}, &ast.IntLit{Raw: "2"}}},
			Body:     &ast.BlockStmt{},
		},
	}}
	prog := &ast.Program{Declarations: []ast.Decl{fn("sum_all", body)}}

	out, _ := Lower(prog)
	forStmt, ok := out.Functions[0].Body.Stmts[0].(*For)
	if !ok {
		t.Fatalf("want index-based For for an array literal, got %T", out.Functions[0].Body.Stmts[0])
	}
	if forStmt.Init == nil || forStmt.Cond == nil || forStmt.Post == nil {
		t.Fatalf("want fully populated three-clause loop, got %+v", forStmt)
	}
}

func TestForInIteratorProtocolForNonArray(t *testing.T) {
	body := &ast.BlockExpr{Stmts: []ast.Stmt{
		&ast.ForInStmt{Var: "x", Iterable: &ast.Ident{Name: "stream"}, Body: &ast.BlockStmt{}},
	}}
	prog := &ast.Program{Declarations: []ast.Decl{fn("drain", body)}}

	out, _ := Lower(prog)
	wrap, ok := out.Functions[0].Body.Stmts[0].(*If)
	if !ok {
		t.Fatalf("want iterator-protocol wrapper If, got %T", out.Functions[0].Body.Stmts[0])
	}
	if len(wrap.Then.Stmts) != 2 {
		t.Fatalf("want init Let + While, got %d stmts", len(wrap.Then.Stmts))
	}
	if _, ok := wrap.Then.Stmts[1].(*While); !ok {
		t.Fatalf("want second statement to be the hasNext()-guarded While, got %T", wrap.Then.Stmts[1])
	}
}

func TestCompoundAssignDesugarsToReadModifyWrite(t *testing.T) {
	body := &ast.BlockExpr{Stmts: []ast.Stmt{
		&ast.AssignStmt{Target: &ast.Ident{Name: "x"}, Op: "+=", Value: &ast.IntLit{Raw: "1", Value: 1}},
	}}
	prog := &ast.Program{Declarations: []ast.Decl{fn("inc", body)}}

	out, _ := Lower(prog)
	assign, ok := out.Functions[0].Body.Stmts[0].(*Assign)
	if !ok {
		t.Fatalf("want Assign, got %T", out.Functions[0].Body.Stmts[0])
	}
	bin, ok := assign.Value.(*ast.BinaryExpr)
	if !ok || bin.Op != "+" {
		t.Fatalf("want desugared binary +, got %+v", assign.Value)
	}
}

func TestSizeofResolvedToLiteral(t *testing.T) {
	body := &ast.BlockExpr{Stmts: []ast.Stmt{
		&ast.ReturnStmt{Value: &ast.SizeofExpr{Target: &ast.PrimitiveType{Kind: ast.PrimI64}}},
	}}
	prog := &ast.Program{Declarations: []ast.Decl{fn("sz", body)}}

	out, _ := Lower(prog)
	ret, ok := out.Functions[0].Body.Stmts[0].(*Return)
	if !ok {
		t.Fatalf("want Return, got %T", out.Functions[0].Body.Stmts[0])
	}
	lit, ok := ret.Value.(*ast.IntLit)
	if !ok || lit.Value != 8 {
		t.Fatalf("want sizeof(i64) folded to literal 8, got %+v", ret.Value)
	}
}

func TestStructLayoutPacksFieldsWithPadding(t *testing.T) {
	s := &ast.StructDecl{
		Name: "Mixed",
		Fields: []ast.FieldDecl{
			{Name: "flag", Type: &ast.PrimitiveType{Kind: ast.PrimBool}},
			{Name: "count", Type: &ast.PrimitiveType{Kind: ast.PrimI32}},
		},
		DeclAttrs: &ast.DeclAttrs{},
	}
	prog := &ast.Program{Declarations: []ast.Decl{s}}

	out, _ := Lower(prog)
	if len(out.Structs) != 1 {
		t.Fatalf("want one lowered struct, got %d", len(out.Structs))
	}
	layout := out.Structs[0]
	if layout.Fields[1].Offset != 4 {
		t.Fatalf("want count padded to offset 4 after a 1-byte bool, got %d", layout.Fields[1].Offset)
	}
	if layout.Size != 8 {
		t.Fatalf("want struct size rounded up to 8, got %d", layout.Size)
	}
}
