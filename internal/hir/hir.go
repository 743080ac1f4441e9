// Package hir defines the high-level intermediate representation
// produced by lowering internal/ast's Program: syntactic sugar is
// collapsed while names and types are preserved. Node shape follows
// the same Node-interface idiom as internal/ast (String()/Position(),
// marker methods, one struct per concrete form).
package hir

import (
	"github.com/cm-lang/cmc/internal/ast"
	"github.com/cm-lang/cmc/internal/sourcemap"
)

// Type and Expr are carried through from the AST unchanged: HIR
// lowering is name-preserving and type-preserving (it rewrites
// control-flow sugar, not the type or expression grammar), so no
// parallel type/expression hierarchy is introduced here.
type Type = ast.Type
type Expr = ast.Expr

// Node is the base interface implemented by every HIR node.
type Node interface {
	Position() sourcemap.Span
}

// Stmt is any HIR statement.
type Stmt interface {
	Node
	hirStmtNode()
}

// Program is the fully lowered translation unit.
type Program struct {
	Functions []*Function
	Structs   []*Struct
	Enums     []*Enum
	Typedefs  []*Typedef
	Globals   []*Global
}

// Param is one lowered function parameter.
type Param struct {
	Name string
	Type Type
}

// Function is a lowered function body, already flattened of namespace
// prefixes (NS::inner::fn style fully-qualified names).
type Function struct {
	Name       string
	Params     []Param
	ReturnType Type
	Body       *Block
	IsExport   bool
	Generics   []string             // flat generic parameter names, for MIR monomorphization
	Attrs      map[string][]string // attribute name -> args, carried through for the backend driver
}

// Field is one struct field, with its computed layout offset filled in
// by the layout pass.
type Field struct {
	Name   string
	Type   Type
	Offset int
}

// Struct is a lowered struct type with field offsets and total size
// computed by the layout pass.
type Struct struct {
	Name      string
	Fields    []Field
	Size      int
	Alignment int
}

// EnumVariant is one tagged-union arm with its payload field types.
type EnumVariant struct {
	Name   string
	Tag    int32
	Fields []Type
}

// Enum is a lowered tagged union; PayloadSize/Alignment describe the
// union region that follows the int32 tag.
type Enum struct {
	Name          string
	Variants      []EnumVariant
	PayloadSize   int
	PayloadAlign  int
}

// Typedef aliases a name to an existing type.
type Typedef struct {
	Name   string
	Target Type
}

// Global is a module-scope variable.
type Global struct {
	Name string
	Type Type
	Init Expr
}

// Block is a sequence of statements with no expression-position tail
// value (function and loop bodies).
type Block struct {
	Stmts []Stmt
	Span  sourcemap.Span
}

func (b *Block) Position() sourcemap.Span { return b.Span }
