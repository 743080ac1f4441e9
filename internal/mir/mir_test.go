package mir

import (
	"testing"

	"github.com/cm-lang/cmc/internal/ast"
	"github.com/cm-lang/cmc/internal/hir"
)

func TestMangleNamesInstantiation(t *testing.T) {
	got := mangle("identity", []string{"T"}, []ast.Type{&ast.PrimitiveType{Kind: ast.PrimI32}})
	if got != "identity__T=i32" {
		t.Fatalf("want identity__T=i32, got %s", got)
	}
}

func TestMonomorphizeExpandsCallSite(t *testing.T) {
	identity := &hir.Function{
		Name:     "identity",
		Generics: []string{"T"},
		Params:   []hir.Param{{Name: "x", Type: &ast.NamedType{Name: "T"}}},
		Body:     &hir.Block{Stmts: []hir.Stmt{&hir.Return{Value: &ast.Ident{Name: "x"}}}},
	}
	main := &hir.Function{
		Name: "main",
		Body: &hir.Block{Stmts: []hir.Stmt{
			&hir.ExprStmt{X: &ast.CallExpr{
				Callee:   &ast.Ident{Name: "identity"},
				Args:     []ast.Expr{&ast.IntLit{Value: 1, Raw: "1"}},
				TypeArgs: []ast.Type{&ast.PrimitiveType{Kind: ast.PrimI32}},
			}},
		}},
	}
	byName := map[string]*hir.Function{"identity": identity, "main": main}

	out, err := monomorphize(byName)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var found bool
	for _, f := range out {
		if f.Name == "identity__T=i32" {
			found = true
		}
	}
	if !found {
		t.Fatalf("want identity__T=i32 instantiated, got %v", names(out))
	}
}

func names(fns []*hir.Function) []string {
	out := make([]string, len(fns))
	for i, f := range fns {
		out[i] = f.Name
	}
	return out
}

func TestLowerFunctionBuildsBranchingCFG(t *testing.T) {
	f := &hir.Function{
		Name: "max",
		Body: &hir.Block{Stmts: []hir.Stmt{
			&hir.If{
				Cond: &ast.BinaryExpr{Op: ">", Left: &ast.Ident{Name: "a"}, Right: &ast.Ident{Name: "b"}},
				Then: &hir.Block{Stmts: []hir.Stmt{&hir.Return{Value: &ast.Ident{Name: "a"}}}},
				Else: &hir.Return{Value: &ast.Ident{Name: "b"}},
			},
		}},
	}
	mf := lowerFunction(f)
	if len(mf.Blocks) < 3 {
		t.Fatalf("want at least entry+then+else blocks, got %d", len(mf.Blocks))
	}
	entry := mf.Blocks[0]
	if _, ok := entry.Term.(Branch); !ok {
		t.Fatalf("want entry block to end in a Branch, got %T", entry.Term)
	}
}

func TestDeferLIFOBeforeReturn(t *testing.T) {
	f := &hir.Function{
		Name: "work",
		Body: &hir.Block{Stmts: []hir.Stmt{
			&hir.Defer{Call: &ast.CallExpr{Callee: &ast.Ident{Name: "first"}}},
			&hir.Defer{Call: &ast.CallExpr{Callee: &ast.Ident{Name: "second"}}},
			&hir.Return{},
		}},
	}
	mf := lowerFunction(f)
	entry := mf.Blocks[0]
	var calls []string
	for _, instr := range entry.Instrs {
		if c, ok := instr.(Call); ok {
			calls = append(calls, c.Callee)
		}
	}
	if len(calls) != 2 || calls[0] != "second" || calls[1] != "first" {
		t.Fatalf("want deferred calls in LIFO order [second, first], got %v", calls)
	}
}

func TestBuildVTablesOrdersMethodsByInterfaceDeclaration(t *testing.T) {
	decls := []ast.Decl{
		&ast.InterfaceDecl{
			Name:      "Shape",
			Methods:   []ast.MethodSig{{Name: "area"}, {Name: "perimeter"}},
			DeclAttrs: &ast.DeclAttrs{},
		},
		&ast.ImplDecl{
			TargetType:    &ast.NamedType{Name: "Circle"},
			InterfaceName: "Shape",
			Methods: []*ast.FunctionDecl{
				{Name: "perimeter", DeclAttrs: &ast.DeclAttrs{}},
				{Name: "area", DeclAttrs: &ast.DeclAttrs{}},
			},
			DeclAttrs: &ast.DeclAttrs{},
		},
	}
	tables := buildVTables(decls)
	if len(tables) != 1 {
		t.Fatalf("want one vtable, got %d", len(tables))
	}
	vt := tables[0]
	if vt.Methods[0] != "Circle__area" || vt.Methods[1] != "Circle__perimeter" {
		t.Fatalf("want [Circle__area, Circle__perimeter] in interface declaration order, got %v", vt.Methods)
	}
}
