// Package ast defines the abstract syntax tree produced by the parser.
// The Node shape and the exprNode()/stmtNode() marker-method idiom
// give a Node interface with String()/Position(), Expr/Stmt/Type/
// Pattern sub-interfaces, and one struct per concrete form, covering
// Cm's declaration/statement/expression grammar.
package ast

import "github.com/cm-lang/cmc/internal/sourcemap"

// Node is the base interface implemented by every AST node.
type Node interface {
	String() string
	Position() sourcemap.Span
}

// Decl is any top-level or namespace-level declaration.
type Decl interface {
	Node
	declNode()
	Attrs() *DeclAttrs
}

// Stmt is any statement.
type Stmt interface {
	Node
	stmtNode()
}

// Expr is any expression.
type Expr interface {
	Node
	exprNode()
}

// Pattern is any match-arm pattern.
type Pattern interface {
	Node
	patternNode()
}

// Visibility controls whether a declaration is re-exportable from the
// module that defines it.
type Visibility int

const (
	VisibilityPrivate Visibility = iota
	VisibilityExport
)

// Attribute is a #[name(arg, ...)] annotation attached to a declaration.
type Attribute struct {
	Name string
	Args []string
}

// GenericParam is one entry of a declaration's generic_params list
//: a name plus an optional constraint.
type GenericParam struct {
	Name       string
	Constraint Constraint // nil when unconstrained
}

// Constraint is the sum of generic-parameter constraint forms: a single
// interface, an OR of interfaces, an AND of interfaces, or a
// const-value parameter (`T: const Type`).
type Constraint interface {
	constraintNode()
}

type SingleConstraint struct{ Interface string }
type OrConstraint struct{ Interfaces []string }
type AndConstraint struct{ Interfaces []string }
type ConstConstraint struct{ ValueType Type }

func (SingleConstraint) constraintNode() {}
func (OrConstraint) constraintNode()     {}
func (AndConstraint) constraintNode()    {}
func (ConstConstraint) constraintNode()  {}

// DeclAttrs holds the fields common to every declaration kind: source
// attributes, visibility, and the generic-parameter projection pair
//.
type DeclAttrs struct {
	Attributes []Attribute
	Visibility Visibility
	Generics   []GenericParam
	Where      []GenericParam // extra constraints from a trailing where-clause
	Span       sourcemap.Span
}

func (d *DeclAttrs) Attrs() *DeclAttrs { return d }

// FlatGenericNames projects GenericParams (plus Where) to their bare
// names, the "generic_params" flat list the spec requires kept in sync
// with "generic_params_v2" (Generics here).
func (d *DeclAttrs) FlatGenericNames() []string {
	names := make([]string, 0, len(d.Generics)+len(d.Where))
	for _, g := range d.Generics {
		names = append(names, g.Name)
	}
	for _, g := range d.Where {
		names = append(names, g.Name)
	}
	return names
}

// HasAttribute reports whether a named attribute is present and returns
// its argument list.
func (d *DeclAttrs) HasAttribute(name string) ([]string, bool) {
	for _, a := range d.Attributes {
		if a.Name == name {
			return a.Args, true
		}
	}
	return nil, false
}
