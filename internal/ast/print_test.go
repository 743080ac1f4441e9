package ast

import (
	"strings"
	"testing"

	"github.com/cm-lang/cmc/internal/sourcemap"
)

func TestDumpFunctionWithBody(t *testing.T) {
	fn := &FunctionDecl{
		Name: "add",
		Params: []Param{
			{Name: "a", Type: &PrimitiveType{Kind: PrimI32}},
			{Name: "b", Type: &PrimitiveType{Kind: PrimI32}},
		},
		ReturnType: &PrimitiveType{Kind: PrimI32},
		Body: &BlockExpr{
			Stmts: []Stmt{
				&ReturnStmt{Value: &BinaryExpr{Op: "+", Left: &Ident{Name: "a"}, Right: &Ident{Name: "b"}}},
			},
		},
		DeclAttrs: &DeclAttrs{},
	}
	out := Dump([]Decl{fn})
	if !strings.Contains(out, "func add(a: i32, b: i32) -> i32") {
		t.Fatalf("missing function signature in dump: %q", out)
	}
	if !strings.Contains(out, "return (a + b);") {
		t.Fatalf("missing return statement in dump: %q", out)
	}
}

func TestDumpMatchStmtArms(t *testing.T) {
	ms := &MatchStmt{
		Scrutinee: &Ident{Name: "x"},
		Arms: []MatchArm{
			{Pattern: &VariantPattern{Variant: "A", HasBinding: true, Binding: "n"}, Body: &BlockExpr{}},
			{Pattern: &WildcardPattern{}, Body: &BlockExpr{}},
		},
	}
	var b strings.Builder
	dumpStmt(&b, ms, 0)
	out := b.String()
	if !strings.Contains(out, "A(n) =>") {
		t.Fatalf("missing variant arm: %q", out)
	}
	if !strings.Contains(out, "_ =>") {
		t.Fatalf("missing wildcard arm: %q", out)
	}
}

func TestDeclAttrsFlatGenericNames(t *testing.T) {
	attrs := &DeclAttrs{
		Generics: []GenericParam{{Name: "T"}, {Name: "U", Constraint: SingleConstraint{Interface: "Comparable"}}},
		Where:    []GenericParam{{Name: "V"}},
	}
	got := attrs.FlatGenericNames()
	want := []string{"T", "U", "V"}
	if len(got) != len(want) {
		t.Fatalf("want %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("want %v, got %v", want, got)
		}
	}
}

func TestDeclAttrsHasAttribute(t *testing.T) {
	attrs := &DeclAttrs{Attributes: []Attribute{{Name: "target", Args: []string{"native"}}}}
	args, ok := attrs.HasAttribute("target")
	if !ok || len(args) != 1 || args[0] != "native" {
		t.Fatalf("expected target attribute with arg native, got %v %v", ok, args)
	}
	if _, ok := attrs.HasAttribute("inline"); ok {
		t.Fatalf("did not expect inline attribute")
	}
}

func TestTypeStrings(t *testing.T) {
	span := sourcemap.Span{}
	ptr := &PointerType{Elem: &PrimitiveType{Kind: PrimI32, Span: span}, Span: span}
	if ptr.String() != "*i32" {
		t.Fatalf("want *i32, got %s", ptr.String())
	}
	named := &NamedType{Name: "Box", TypeArgs: []Type{&PrimitiveType{Kind: PrimI32}}}
	if named.String() != "Box<i32>" {
		t.Fatalf("want Box<i32>, got %s", named.String())
	}
	arr := &ArrayType{Elem: &PrimitiveType{Kind: PrimU8}, Size: &IntLit{Raw: "4"}}
	if arr.String() != "[u8; 4]" {
		t.Fatalf("want [u8; 4], got %s", arr.String())
	}
}
