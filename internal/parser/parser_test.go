package parser

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/cm-lang/cmc/internal/ast"
	"github.com/cm-lang/cmc/internal/lexer"
)

func parseSource(t *testing.T, src string) *ast.Program {
	t.Helper()
	l := lexer.New(src, "test.cm")
	p := New(l, "test.cm")
	prog := p.ParseProgram()
	if len(p.Errors()) != 0 {
		t.Fatalf("unexpected parser errors: %v", p.Errors())
	}
	return prog
}

func TestParseHelloWorldFunction(t *testing.T) {
	prog := parseSource(t, `
func main() -> int {
	return 0;
}`)
	if len(prog.Declarations) != 1 {
		t.Fatalf("want 1 decl, got %d", len(prog.Declarations))
	}
	fn, ok := prog.Declarations[0].(*ast.FunctionDecl)
	if !ok {
		t.Fatalf("want *ast.FunctionDecl, got %T", prog.Declarations[0])
	}
	if fn.Name != "main" {
		t.Fatalf("want main, got %s", fn.Name)
	}
	if len(fn.Body.Stmts) != 1 {
		t.Fatalf("want 1 stmt, got %d", len(fn.Body.Stmts))
	}
}

func TestParseGenericIdentityFunction(t *testing.T) {
	prog := parseSource(t, `
func identity<T>(x: T) -> T {
	return x;
}`)
	fn := prog.Declarations[0].(*ast.FunctionDecl)
	if len(fn.Generics) != 1 || fn.Generics[0].Name != "T" {
		t.Fatalf("want generic param T, got %+v", fn.Generics)
	}
}

func TestParseNestedGenericType(t *testing.T) {
	prog := parseSource(t, `
func wrap(x: Box<Box<int>>) -> int {
	return 0;
}`)
	fn := prog.Declarations[0].(*ast.FunctionDecl)
	arg := fn.Params[0].Type.(*ast.NamedType)
	if arg.Name != "Box" || len(arg.TypeArgs) != 1 {
		t.Fatalf("want Box<...>, got %s", arg.String())
	}
	inner := arg.TypeArgs[0].(*ast.NamedType)
	if inner.Name != "Box" {
		t.Fatalf("want inner Box, got %s", inner.String())
	}
}

func TestParseMatchWithBinding(t *testing.T) {
	prog := parseSource(t, `
enum Option {
	Some(int),
	None,
}

func unwrap(o: Option) -> int {
	match o {
		Some(n) => { return n; },
		None => { return 0; },
	}
	return -1;
}`)
	if len(prog.Declarations) != 2 {
		t.Fatalf("want 2 decls, got %d", len(prog.Declarations))
	}
	fn := prog.Declarations[1].(*ast.FunctionDecl)
	ms, ok := fn.Body.Stmts[0].(*ast.MatchStmt)
	if !ok {
		t.Fatalf("want *ast.MatchStmt, got %T", fn.Body.Stmts[0])
	}
	if len(ms.Arms) != 2 {
		t.Fatalf("want 2 arms, got %d", len(ms.Arms))
	}
	vp, ok := ms.Arms[0].Pattern.(*ast.VariantPattern)
	if !ok || vp.Variant != "Some" || !vp.HasBinding || vp.Binding != "n" {
		t.Fatalf("want Some(n) pattern, got %+v", ms.Arms[0].Pattern)
	}
}

func TestParseDeferLIFOOrderPreserved(t *testing.T) {
	prog := parseSource(t, `
func cleanup() -> void {
	defer close(a);
	defer close(b);
}`)
	fn := prog.Declarations[0].(*ast.FunctionDecl)
	if len(fn.Body.Stmts) != 2 {
		t.Fatalf("want 2 defer stmts, got %d", len(fn.Body.Stmts))
	}
	d0 := fn.Body.Stmts[0].(*ast.DeferStmt)
	d1 := fn.Body.Stmts[1].(*ast.DeferStmt)
	c0 := d0.Call.(*ast.CallExpr).Args[0].(*ast.Ident).Name
	c1 := d1.Call.(*ast.CallExpr).Args[0].(*ast.Ident).Name
	if c0 != "a" || c1 != "b" {
		t.Fatalf("want defer(a) then defer(b) in source order, got %s then %s", c0, c1)
	}
}

func TestParseMustBlockPreserved(t *testing.T) {
	prog := parseSource(t, `
func critical() -> void {
	must {
		let x = 1;
	}
}`)
	fn := prog.Declarations[0].(*ast.FunctionDecl)
	mb, ok := fn.Body.Stmts[0].(*ast.MustBlockStmt)
	if !ok {
		t.Fatalf("want *ast.MustBlockStmt, got %T", fn.Body.Stmts[0])
	}
	if len(mb.Body.Stmts) != 1 {
		t.Fatalf("want 1 stmt inside must block, got %d", len(mb.Body.Stmts))
	}
}

func TestParseStructLiteralOutsideControlHeader(t *testing.T) {
	prog := parseSource(t, `
func origin() -> Point {
	return Point{x: 0, y: 0};
}`)
	fn := prog.Declarations[0].(*ast.FunctionDecl)
	ret := fn.Body.Stmts[0].(*ast.ReturnStmt)
	lit, ok := ret.Value.(*ast.StructLiteralExpr)
	if !ok {
		t.Fatalf("want *ast.StructLiteralExpr, got %T", ret.Value)
	}
	if lit.TypeName != "Point" || len(lit.Fields) != 2 {
		t.Fatalf("want Point{x,y}, got %+v", lit)
	}
}

func TestParseStructImplInterface(t *testing.T) {
	prog := parseSource(t, `
interface Shape {
	func area() -> f64;
}

struct Circle {
	radius: f64,
}

impl Shape for Circle {
	func area() -> f64 {
		return 0.0;
	}
}`)
	if len(prog.Declarations) != 3 {
		t.Fatalf("want 3 decls, got %d", len(prog.Declarations))
	}
	impl := prog.Declarations[2].(*ast.ImplDecl)
	if impl.InterfaceName != "Shape" {
		t.Fatalf("want Shape, got %s", impl.InterfaceName)
	}
	target := impl.TargetType.(*ast.NamedType)
	if target.Name != "Circle" {
		t.Fatalf("want Circle, got %s", target.Name)
	}
	if len(impl.Methods) != 1 || impl.Methods[0].Name != "area" {
		t.Fatalf("want method area, got %+v", impl.Methods)
	}
}

func TestParseConstGenericConstraint(t *testing.T) {
	prog := parseSource(t, `
func sumArray<const N: int>(a: [int; N]) -> int {
	return 0;
}`)
	fn := prog.Declarations[0].(*ast.FunctionDecl)
	if len(fn.Generics) != 1 {
		t.Fatalf("want 1 generic, got %d", len(fn.Generics))
	}
	cc, ok := fn.Generics[0].Constraint.(ast.ConstConstraint)
	if !ok {
		t.Fatalf("want ast.ConstConstraint, got %T", fn.Generics[0].Constraint)
	}
	if cc.ValueType.String() != "int" {
		// The grammar's primitive-int keyword is spelled i32/i64/etc; a
		// bare `int` parses as a NamedType reference instead.
		if _, ok := cc.ValueType.(*ast.NamedType); !ok {
			t.Fatalf("want a named or primitive value type, got %T", cc.ValueType)
		}
	}
}

func TestParseWhereClauseOrConstraint(t *testing.T) {
	prog := parseSource(t, `
func pick<T>(x: T) -> T where T: Comparable | Printable {
	return x;
}`)
	fn := prog.Declarations[0].(*ast.FunctionDecl)
	if len(fn.Where) != 1 {
		t.Fatalf("want 1 where-clause entry, got %d", len(fn.Where))
	}
	oc, ok := fn.Where[0].Constraint.(ast.OrConstraint)
	if !ok || len(oc.Interfaces) != 2 {
		t.Fatalf("want OrConstraint with 2 interfaces, got %+v", fn.Where[0].Constraint)
	}
}

func TestParserRecoversFromUnexpectedToken(t *testing.T) {
	l := lexer.New("@@@ func ok() -> void {}", "test.cm")
	p := New(l, "test.cm")
	prog := p.ParseProgram()
	if len(p.Errors()) == 0 {
		t.Fatalf("expected at least one parser error")
	}
	found := false
	for _, d := range prog.Declarations {
		if fn, ok := d.(*ast.FunctionDecl); ok && fn.Name == "ok" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected parser to recover and still parse ok(), decls: %+v", prog.Declarations)
	}
}

// TestParseIsDeterministic dumps the same source through two independent
// parses and diffs the outlines, guarding against parser state leaking
// across runs (e.g. an un-reset generic-param table or span counter).
func TestParseIsDeterministic(t *testing.T) {
	src := `
struct Pair<T> {
	left: T,
	right: T,
}

func swap<T>(p: Pair<T>) -> Pair<T> {
	return Pair<T> { left: p.right, right: p.left };
}`
	first := ast.Dump(parseSource(t, src).Declarations)
	second := ast.Dump(parseSource(t, src).Declarations)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("dump differs between identical parses (-first +second):\n%s", diff)
	}
}
