package ast

import (
	"strconv"
	"strings"

	"github.com/cm-lang/cmc/internal/sourcemap"
)

// Program is the parse result of one translation unit: a flat
// declaration list plus the (already-preprocessed, unified) filename
// it came from.
type Program struct {
	Declarations []Decl
	Filename     string
}

func (p *Program) String() string {
	parts := make([]string, len(p.Declarations))
	for i, d := range p.Declarations {
		parts[i] = d.String()
	}
	return strings.Join(parts, "\n")
}

// Param is one function parameter.
type Param struct {
	Name string
	Type Type
}

// FunctionDecl is a top-level, impl-member, or extern-block function.
type FunctionDecl struct {
	Name       string
	Params     []Param
	ReturnType Type
	Body       *BlockExpr // nil for extern/interface-signature declarations
	*DeclAttrs
}

// FieldDecl is one struct field.
type FieldDecl struct {
	Name string
	Type Type
}

// StructDecl declares a struct type.
type StructDecl struct {
	Name   string
	Fields []FieldDecl
	*DeclAttrs
}

// MethodSig is one interface method signature. Operator is non-empty
// when the method overloads an operator, e.g.
// "+" for `op_add`.
type MethodSig struct {
	Name       string
	Params     []Param
	ReturnType Type
	Operator   string
}

// InterfaceDecl declares an interface (a fixed-order method set lowered
// to a vtable struct in MIR).
type InterfaceDecl struct {
	Name    string
	Methods []MethodSig
	*DeclAttrs
}

// ImplDecl implements an interface for a concrete type, or simply adds
// inherent methods when InterfaceName is empty.
type ImplDecl struct {
	TargetType    Type
	InterfaceName string
	Methods       []*FunctionDecl
	Constructors  []*FunctionDecl
	Destructor    *FunctionDecl
	*DeclAttrs
}

// EnumVariant is one tagged-union arm of an enum declaration. Fields is
// empty for a unit variant.
type EnumVariant struct {
	Name   string
	Fields []Type
}

// EnumDecl declares a tagged-union (enum) type.
type EnumDecl struct {
	Name     string
	Variants []EnumVariant
	*DeclAttrs
}

// TypedefDecl introduces a name alias for an existing type.
type TypedefDecl struct {
	Name   string
	Target Type
	*DeclAttrs
}

// GlobalVarDecl declares a module-scope variable.
type GlobalVarDecl struct {
	Name string
	Type Type
	Init Expr
	*DeclAttrs
}

// UseDecl is a `use path::to::name;` alias brought into scope. Imports
// themselves are resolved away during preprocessing; UseDecl covers
// the namespace-qualification form that survives into the AST.
type UseDecl struct {
	Path string
	*DeclAttrs
}

// ImportDecl is a vestigial placeholder retained where an import
// directive leaves a traceable marker after preprocessor splicing
//; it carries no
// executable semantics of its own.
type ImportDecl struct {
	Raw string
	*DeclAttrs
}

// ExternBlockDecl groups `extern "ABI" { ... }` foreign declarations.
type ExternBlockDecl struct {
	ABI   string
	Decls []*FunctionDecl
	*DeclAttrs
}

// ModuleDecl names the enclosing namespace module for everything below
// it in the file.
type ModuleDecl struct {
	Path string
	*DeclAttrs
}

// NamespaceDecl is the block form `namespace NS { ... }` produced by the
// import preprocessor when wrapping an aliased or wildcard-imported
// module's body. HIR lowering flattens it away by prefixing every
// nested declaration's name with "NS::".
type NamespaceDecl struct {
	Path         string
	Declarations []Decl
	*DeclAttrs
}

// MacroDecl is an inert record of a macro definition. Macro expansion
// is explicitly out of scope; this node exists so a source file
// containing one still parses and round-trips.
type MacroDecl struct {
	Name string
	Body string
	*DeclAttrs
}

// TemplateDecl is an inert record of a template definition, kept for
// the same reason as MacroDecl.
type TemplateDecl struct {
	Name string
	Body string
	*DeclAttrs
}

func (d *FunctionDecl) declNode()    {}
func (d *StructDecl) declNode()      {}
func (d *InterfaceDecl) declNode()   {}
func (d *ImplDecl) declNode()        {}
func (d *EnumDecl) declNode()        {}
func (d *TypedefDecl) declNode()     {}
func (d *GlobalVarDecl) declNode()   {}
func (d *UseDecl) declNode()         {}
func (d *ImportDecl) declNode()      {}
func (d *ExternBlockDecl) declNode() {}
func (d *ModuleDecl) declNode()      {}
func (d *NamespaceDecl) declNode()   {}
func (d *MacroDecl) declNode()       {}
func (d *TemplateDecl) declNode()    {}

func (d *FunctionDecl) Position() sourcemap.Span    { return d.DeclAttrs.Span }
func (d *StructDecl) Position() sourcemap.Span      { return d.DeclAttrs.Span }
func (d *InterfaceDecl) Position() sourcemap.Span   { return d.DeclAttrs.Span }
func (d *ImplDecl) Position() sourcemap.Span        { return d.DeclAttrs.Span }
func (d *EnumDecl) Position() sourcemap.Span        { return d.DeclAttrs.Span }
func (d *TypedefDecl) Position() sourcemap.Span     { return d.DeclAttrs.Span }
func (d *GlobalVarDecl) Position() sourcemap.Span   { return d.DeclAttrs.Span }
func (d *UseDecl) Position() sourcemap.Span         { return d.DeclAttrs.Span }
func (d *ImportDecl) Position() sourcemap.Span      { return d.DeclAttrs.Span }
func (d *ExternBlockDecl) Position() sourcemap.Span { return d.DeclAttrs.Span }
func (d *ModuleDecl) Position() sourcemap.Span      { return d.DeclAttrs.Span }
func (d *NamespaceDecl) Position() sourcemap.Span   { return d.DeclAttrs.Span }
func (d *MacroDecl) Position() sourcemap.Span       { return d.DeclAttrs.Span }
func (d *TemplateDecl) Position() sourcemap.Span    { return d.DeclAttrs.Span }

func (d *FunctionDecl) String() string {
	parts := make([]string, len(d.Params))
	for i, p := range d.Params {
		parts[i] = p.Name + ": " + p.Type.String()
	}
	sig := "func " + d.Name + "(" + strings.Join(parts, ", ") + ")"
	if d.ReturnType != nil {
		sig += " -> " + d.ReturnType.String()
	}
	return sig
}
func (d *StructDecl) String() string    { return "struct " + d.Name }
func (d *InterfaceDecl) String() string { return "interface " + d.Name }
func (d *ImplDecl) String() string {
	if d.InterfaceName != "" {
		return "impl " + d.InterfaceName + " for " + d.TargetType.String()
	}
	return "impl " + d.TargetType.String()
}
func (d *EnumDecl) String() string      { return "enum " + d.Name }
func (d *TypedefDecl) String() string   { return "typedef " + d.Name + " = " + d.Target.String() }
func (d *GlobalVarDecl) String() string { return "let " + d.Name + ": " + d.Type.String() }
func (d *UseDecl) String() string       { return "use " + d.Path + ";" }
func (d *ImportDecl) String() string    { return "// import " + d.Raw }
func (d *ExternBlockDecl) String() string {
	return `extern "` + d.ABI + `" { ` + strconv.Itoa(len(d.Decls)) + ` fns }`
}
func (d *ModuleDecl) String() string   { return "module " + d.Path + ";" }
func (d *NamespaceDecl) String() string {
	return "namespace " + d.Path + " { " + strconv.Itoa(len(d.Declarations)) + " decls }"
}
func (d *MacroDecl) String() string    { return "macro " + d.Name }
func (d *TemplateDecl) String() string { return "template " + d.Name }
