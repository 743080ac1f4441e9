package target

import (
	"testing"

	"github.com/cm-lang/cmc/internal/ast"
	"github.com/cm-lang/cmc/internal/config"
	"github.com/cm-lang/cmc/internal/sourcemap"
)

func fn(name string, attrs ...ast.Attribute) *ast.FunctionDecl {
	return &ast.FunctionDecl{
		Name:      name,
		DeclAttrs: &ast.DeclAttrs{Attributes: attrs, Span: sourcemap.Span{}},
	}
}

func TestEvalORWithinOneAttribute(t *testing.T) {
	if !Eval([]string{"wasm", "js"}, config.TargetJS) {
		t.Fatal("want js to match the js|wasm OR set")
	}
}

func TestEvalNegation(t *testing.T) {
	if Eval([]string{"!native"}, config.TargetNative) {
		t.Fatal("want !native to fail on native target")
	}
	if !Eval([]string{"!native"}, config.TargetWasm) {
		t.Fatal("want !native to pass on wasm target")
	}
}

func TestJSMatchesWeb(t *testing.T) {
	if !matches("js", config.TargetWeb) {
		t.Fatal("want js atom to match Web target")
	}
}

func TestActiveAlwaysMatches(t *testing.T) {
	if !matches("active", config.TargetWasm) {
		t.Fatal("want active to always match")
	}
}

func TestKeepAndsMultipleTargetAttributes(t *testing.T) {
	d := fn("f",
		ast.Attribute{Name: "target", Args: []string{"native"}},
		ast.Attribute{Name: "target", Args: []string{"wasm"}},
	)
	if Keep(d, config.TargetNative) {
		t.Fatal("want AND of disjoint target attributes to exclude the declaration")
	}
}

func TestFilterPrunesDeclAndKeepsOthers(t *testing.T) {
	prog := &ast.Program{Declarations: []ast.Decl{
		fn("nativeOnly", ast.Attribute{Name: "target", Args: []string{"native"}}),
		fn("always"),
	}}
	out := target(prog)
	if len(out.Declarations) != 1 {
		t.Fatalf("want 1 surviving decl, got %d", len(out.Declarations))
	}
	if out.Declarations[0].(*ast.FunctionDecl).Name != "always" {
		t.Fatalf("want 'always' to survive, got %s", out.Declarations[0].(*ast.FunctionDecl).Name)
	}
}

func target(prog *ast.Program) *ast.Program {
	return Filter(prog, config.TargetWasm)
}

func TestFilterDescendsIntoImplMethods(t *testing.T) {
	impl := &ast.ImplDecl{
		TargetType: &ast.NamedType{Name: "T"},
		Methods: []*ast.FunctionDecl{
			fn("onlyNative", ast.Attribute{Name: "target", Args: []string{"native"}}),
			fn("always"),
		},
		DeclAttrs: &ast.DeclAttrs{},
	}
	prog := &ast.Program{Declarations: []ast.Decl{impl}}
	out := Filter(prog, config.TargetWasm)
	got := out.Declarations[0].(*ast.ImplDecl)
	if len(got.Methods) != 1 || got.Methods[0].Name != "always" {
		t.Fatalf("want only 'always' method to survive, got %+v", got.Methods)
	}
}
