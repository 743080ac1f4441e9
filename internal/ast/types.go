package ast

import (
	"strings"

	"github.com/cm-lang/cmc/internal/sourcemap"
)

// Type is the sum of every type expression the grammar accepts. Every
// variant carries qualifiers via the embedded Qualifiers struct (is_const).
type Type interface {
	Node
	typeNode()
	Quals() *Qualifiers
}

// Qualifiers carries type-level qualifiers; currently just is_const.
type Qualifiers struct {
	IsConst bool
}

func (q *Qualifiers) Quals() *Qualifiers { return q }

// PrimKind enumerates the language's primitive type kinds.
type PrimKind int

const (
	PrimBool PrimKind = iota
	PrimI8
	PrimI16
	PrimI32
	PrimI64
	PrimIsize
	PrimU8
	PrimU16
	PrimU32
	PrimU64
	PrimUsize
	PrimF32
	PrimF64
	PrimChar
	PrimString
	PrimCString
	PrimVoid
	PrimNull
	PrimInferred
)

var primNames = map[PrimKind]string{
	PrimBool: "bool", PrimI8: "i8", PrimI16: "i16", PrimI32: "i32", PrimI64: "i64",
	PrimIsize: "isize", PrimU8: "u8", PrimU16: "u16", PrimU32: "u32", PrimU64: "u64",
	PrimUsize: "usize", PrimF32: "f32", PrimF64: "f64", PrimChar: "char",
	PrimString: "string", PrimCString: "cstring", PrimVoid: "void", PrimNull: "null",
	PrimInferred: "_",
}

func (k PrimKind) String() string { return primNames[k] }

// PrimitiveType is a primitive numeric/boolean/text type.
type PrimitiveType struct {
	Kind PrimKind
	Qualifiers
	Span sourcemap.Span
}

// PointerType is `*T`.
type PointerType struct {
	Elem Type
	Qualifiers
	Span sourcemap.Span
}

// ReferenceType is `&T`.
type ReferenceType struct {
	Elem Type
	Qualifiers
	Span sourcemap.Span
}

// ArrayType is `[T; N]` (fixed size) or `[T]` (slice). Size is nil for a
// slice, an *IntLit for a compile-time-literal size, or an *Ident for a
// generic const parameter name.
type ArrayType struct {
	Elem Type
	Size Expr
	Qualifiers
	Span sourcemap.Span
}

// FunctionPointerType is `fn(params) -> Return`.
type FunctionPointerType struct {
	Params []Type
	Return Type
	Qualifiers
	Span sourcemap.Span
}

// NamedType is a (possibly generic) reference to a struct/enum/interface
// /typedef by name, e.g. `Box<int>`.
type NamedType struct {
	Name     string
	TypeArgs []Type
	Qualifiers
	Span sourcemap.Span
}

// UnionVariant is one tagged-union arm: a tag name plus its field types.
type UnionVariant struct {
	Tag    string
	Fields []Type
}

// UnionType is a sum type: `union { A(int), B(string, bool), C }`.
type UnionType struct {
	Variants []UnionVariant
	Qualifiers
	Span sourcemap.Span
}

// LiteralUnionType is a string-tag union, e.g. `"a" | "b" | "c"`.
type LiteralUnionType struct {
	Tags []string
	Qualifiers
	Span sourcemap.Span
}

// TypeAliasType refers to a typedef by name without instantiation.
type TypeAliasType struct {
	Name string
	Qualifiers
	Span sourcemap.Span
}

// ErrorType marks a type that failed to parse; downstream passes
// short-circuit on it rather than raising further diagnostics
//.
type ErrorType struct {
	Qualifiers
	Span sourcemap.Span
}

func (t *PrimitiveType) typeNode()       {}
func (t *PointerType) typeNode()         {}
func (t *ReferenceType) typeNode()       {}
func (t *ArrayType) typeNode()           {}
func (t *FunctionPointerType) typeNode() {}
func (t *NamedType) typeNode()           {}
func (t *UnionType) typeNode()           {}
func (t *LiteralUnionType) typeNode()    {}
func (t *TypeAliasType) typeNode()       {}
func (t *ErrorType) typeNode()           {}

func (t *PrimitiveType) Position() sourcemap.Span       { return t.Span }
func (t *PointerType) Position() sourcemap.Span         { return t.Span }
func (t *ReferenceType) Position() sourcemap.Span       { return t.Span }
func (t *ArrayType) Position() sourcemap.Span           { return t.Span }
func (t *FunctionPointerType) Position() sourcemap.Span { return t.Span }
func (t *NamedType) Position() sourcemap.Span           { return t.Span }
func (t *UnionType) Position() sourcemap.Span           { return t.Span }
func (t *LiteralUnionType) Position() sourcemap.Span    { return t.Span }
func (t *TypeAliasType) Position() sourcemap.Span       { return t.Span }
func (t *ErrorType) Position() sourcemap.Span           { return t.Span }

func (t *PrimitiveType) String() string { return t.Kind.String() }
func (t *PointerType) String() string   { return "*" + t.Elem.String() }
func (t *ReferenceType) String() string { return "&" + t.Elem.String() }
func (t *ArrayType) String() string {
	if t.Size == nil {
		return "[" + t.Elem.String() + "]"
	}
	return "[" + t.Elem.String() + "; " + t.Size.String() + "]"
}
func (t *FunctionPointerType) String() string {
	parts := make([]string, len(t.Params))
	for i, p := range t.Params {
		parts[i] = p.String()
	}
	return "fn(" + strings.Join(parts, ", ") + ") -> " + t.Return.String()
}
func (t *NamedType) String() string {
	if len(t.TypeArgs) == 0 {
		return t.Name
	}
	parts := make([]string, len(t.TypeArgs))
	for i, a := range t.TypeArgs {
		parts[i] = a.String()
	}
	return t.Name + "<" + strings.Join(parts, ", ") + ">"
}
func (t *UnionType) String() string {
	parts := make([]string, len(t.Variants))
	for i, v := range t.Variants {
		if len(v.Fields) == 0 {
			parts[i] = v.Tag
			continue
		}
		fieldStrs := make([]string, len(v.Fields))
		for j, f := range v.Fields {
			fieldStrs[j] = f.String()
		}
		parts[i] = v.Tag + "(" + strings.Join(fieldStrs, ", ") + ")"
	}
	return "union { " + strings.Join(parts, ", ") + " }"
}
func (t *LiteralUnionType) String() string {
	quoted := make([]string, len(t.Tags))
	for i, tag := range t.Tags {
		quoted[i] = `"` + tag + `"`
	}
	return strings.Join(quoted, " | ")
}
func (t *TypeAliasType) String() string { return t.Name }
func (t *ErrorType) String() string     { return "<error-type>" }
