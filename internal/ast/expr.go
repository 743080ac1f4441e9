package ast

import (
	"strconv"
	"strings"

	"github.com/cm-lang/cmc/internal/sourcemap"
)

// Ident is a bare identifier reference.
type Ident struct {
	Name string
	Span sourcemap.Span
}

// IntLit is an integer literal; Raw preserves the source text (base
// prefix, digit grouping) for diagnostics.
type IntLit struct {
	Value int64
	Raw   string
	Span  sourcemap.Span
}

// FloatLit is a floating-point literal.
type FloatLit struct {
	Value float64
	Raw   string
	Span  sourcemap.Span
}

// StringLit is a (possibly raw) string literal with escapes already
// resolved by the lexer.
type StringLit struct {
	Value string
	Raw   bool
	Span  sourcemap.Span
}

// CharLit is a single-character literal.
type CharLit struct {
	Value rune
	Span  sourcemap.Span
}

// BoolLit is `true`/`false`.
type BoolLit struct {
	Value bool
	Span  sourcemap.Span
}

// NullLit is the `null` literal.
type NullLit struct{ Span sourcemap.Span }

// BinaryExpr is any two-operand operator application, including the
// overloadable operators resolved against interface impls in HIR.
type BinaryExpr struct {
	Op          string
	Left, Right Expr
	Span        sourcemap.Span
}

// UnaryExpr is a prefix (`-x`, `!x`, `&x`, `*x`) or postfix (`x++`)
// single-operand application.
type UnaryExpr struct {
	Op      string
	Operand Expr
	Prefix  bool
	Span    sourcemap.Span
}

// CallExpr is a function/method call with optional explicit type
// arguments (`identity<int>(5)`).
type CallExpr struct {
	Callee   Expr
	Args     []Expr
	TypeArgs []Type
	Span     sourcemap.Span
}

// IndexExpr is `a[i]`.
type IndexExpr struct {
	Array, Index Expr
	Span         sourcemap.Span
}

// FieldExpr is `x.field` (or, post-parse, `x->field`; both normalize to
// this single node since pointee layout is a later-phase concern).
type FieldExpr struct {
	Target Expr
	Field  string
	Span   sourcemap.Span
}

// StructFieldInit is one `name: value` entry of a struct literal.
type StructFieldInit struct {
	Name  string
	Value Expr
}

// StructLiteralExpr constructs a struct value: `Point{x: 1, y: 2}`.
type StructLiteralExpr struct {
	TypeName string
	Fields   []StructFieldInit
	Span     sourcemap.Span
}

// ArrayLiteralExpr is `[1, 2, 3]`.
type ArrayLiteralExpr struct {
	Elements []Expr
	Span     sourcemap.Span
}

// MatchArm is one `pattern [if guard] => body` arm shared by MatchExpr
// and MatchStmt.
type MatchArm struct {
	Pattern Pattern
	Guard   Expr // nil when the arm has no guard
	Body    *BlockExpr
}

// MatchExpr is match used in expression position: its value is the
// value of whichever arm's body executes.
type MatchExpr struct {
	Scrutinee Expr
	Arms      []MatchArm
	Span      sourcemap.Span
}

// MoveExpr marks an explicit ownership transfer, `move(x)`.
type MoveExpr struct {
	Operand Expr
	Span    sourcemap.Span
}

// CastExpr is `x as T`.
type CastExpr struct {
	Operand Expr
	Target  Type
	Span    sourcemap.Span
}

// SizeofExpr is `sizeof(T)`.
type SizeofExpr struct {
	Target Type
	Span   sourcemap.Span
}

// AlignofExpr is `alignof(T)`.
type AlignofExpr struct {
	Target Type
	Span   sourcemap.Span
}

// BlockExpr sequences statements and yields the value of a trailing
// expression statement, if any (nil Tail means the block has unit
// value). Function bodies, if/while/for bodies, and match-arm bodies
// all share this shape.
type BlockExpr struct {
	Stmts []Stmt
	Tail  Expr
	Span  sourcemap.Span
}

func (e *Ident) exprNode()            {}
func (e *IntLit) exprNode()           {}
func (e *FloatLit) exprNode()         {}
func (e *StringLit) exprNode()        {}
func (e *CharLit) exprNode()          {}
func (e *BoolLit) exprNode()          {}
func (e *NullLit) exprNode()          {}
func (e *BinaryExpr) exprNode()       {}
func (e *UnaryExpr) exprNode()        {}
func (e *CallExpr) exprNode()         {}
func (e *IndexExpr) exprNode()        {}
func (e *FieldExpr) exprNode()        {}
func (e *StructLiteralExpr) exprNode() {}
func (e *ArrayLiteralExpr) exprNode() {}
func (e *MatchExpr) exprNode()        {}
func (e *MoveExpr) exprNode()         {}
func (e *CastExpr) exprNode()         {}
func (e *SizeofExpr) exprNode()       {}
func (e *AlignofExpr) exprNode()      {}
func (e *BlockExpr) exprNode()        {}

func (e *Ident) Position() sourcemap.Span             { return e.Span }
func (e *IntLit) Position() sourcemap.Span            { return e.Span }
func (e *FloatLit) Position() sourcemap.Span          { return e.Span }
func (e *StringLit) Position() sourcemap.Span         { return e.Span }
func (e *CharLit) Position() sourcemap.Span           { return e.Span }
func (e *BoolLit) Position() sourcemap.Span           { return e.Span }
func (e *NullLit) Position() sourcemap.Span           { return e.Span }
func (e *BinaryExpr) Position() sourcemap.Span        { return e.Span }
func (e *UnaryExpr) Position() sourcemap.Span         { return e.Span }
func (e *CallExpr) Position() sourcemap.Span          { return e.Span }
func (e *IndexExpr) Position() sourcemap.Span         { return e.Span }
func (e *FieldExpr) Position() sourcemap.Span         { return e.Span }
func (e *StructLiteralExpr) Position() sourcemap.Span { return e.Span }
func (e *ArrayLiteralExpr) Position() sourcemap.Span  { return e.Span }
func (e *MatchExpr) Position() sourcemap.Span         { return e.Span }
func (e *MoveExpr) Position() sourcemap.Span          { return e.Span }
func (e *CastExpr) Position() sourcemap.Span          { return e.Span }
func (e *SizeofExpr) Position() sourcemap.Span        { return e.Span }
func (e *AlignofExpr) Position() sourcemap.Span       { return e.Span }
func (e *BlockExpr) Position() sourcemap.Span         { return e.Span }

func (e *Ident) String() string    { return e.Name }
func (e *IntLit) String() string   { return e.Raw }
func (e *FloatLit) String() string { return e.Raw }
func (e *StringLit) String() string {
	if e.Raw {
		return `r"` + e.Value + `"`
	}
	return strconv.Quote(e.Value)
}
func (e *CharLit) String() string { return "'" + string(e.Value) + "'" }
func (e *BoolLit) String() string {
	if e.Value {
		return "true"
	}
	return "false"
}
func (e *NullLit) String() string { return "null" }
func (e *BinaryExpr) String() string {
	return "(" + e.Left.String() + " " + e.Op + " " + e.Right.String() + ")"
}
func (e *UnaryExpr) String() string {
	if e.Prefix {
		return e.Op + e.Operand.String()
	}
	return e.Operand.String() + e.Op
}
func (e *CallExpr) String() string {
	args := make([]string, len(e.Args))
	for i, a := range e.Args {
		args[i] = a.String()
	}
	targs := ""
	if len(e.TypeArgs) > 0 {
		ta := make([]string, len(e.TypeArgs))
		for i, t := range e.TypeArgs {
			ta[i] = t.String()
		}
		targs = "<" + strings.Join(ta, ", ") + ">"
	}
	return e.Callee.String() + targs + "(" + strings.Join(args, ", ") + ")"
}
func (e *IndexExpr) String() string { return e.Array.String() + "[" + e.Index.String() + "]" }
func (e *FieldExpr) String() string { return e.Target.String() + "." + e.Field }
func (e *StructLiteralExpr) String() string {
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = f.Name + ": " + f.Value.String()
	}
	return e.TypeName + "{" + strings.Join(parts, ", ") + "}"
}
func (e *ArrayLiteralExpr) String() string {
	parts := make([]string, len(e.Elements))
	for i, el := range e.Elements {
		parts[i] = el.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
func (e *MatchExpr) String() string {
	return "match " + e.Scrutinee.String() + " { " + strconv.Itoa(len(e.Arms)) + " arms }"
}
func (e *MoveExpr) String() string   { return "move(" + e.Operand.String() + ")" }
func (e *CastExpr) String() string   { return e.Operand.String() + " as " + e.Target.String() }
func (e *SizeofExpr) String() string { return "sizeof(" + e.Target.String() + ")" }
func (e *AlignofExpr) String() string { return "alignof(" + e.Target.String() + ")" }
func (e *BlockExpr) String() string {
	return "{ " + strconv.Itoa(len(e.Stmts)) + " stmts }"
}
