package ast

import (
	"strings"

	"github.com/cm-lang/cmc/internal/sourcemap"
)

// WildcardPattern is `_`.
type WildcardPattern struct{ Span sourcemap.Span }

// LiteralPattern matches an exact literal value.
type LiteralPattern struct {
	Value Expr
	Span  sourcemap.Span
}

// IdentPattern binds the scrutinee (or payload) to a name.
type IdentPattern struct {
	Name string
	Span sourcemap.Span
}

// VariantPattern matches an enum variant, optionally binding its single
// payload, e.g. `A(n)` or the unit form `B`.
type VariantPattern struct {
	Variant    string
	Binding    string
	HasBinding bool
	Span       sourcemap.Span
}

// RangePattern matches an inclusive or exclusive numeric range.
type RangePattern struct {
	Low, High Expr
	Inclusive bool
	Span      sourcemap.Span
}

// OrPattern matches if any alternative matches.
type OrPattern struct {
	Alternatives []Pattern
	Span         sourcemap.Span
}

func (p *WildcardPattern) patternNode() {}
func (p *LiteralPattern) patternNode()  {}
func (p *IdentPattern) patternNode()    {}
func (p *VariantPattern) patternNode()  {}
func (p *RangePattern) patternNode()    {}
func (p *OrPattern) patternNode()       {}

func (p *WildcardPattern) Position() sourcemap.Span { return p.Span }
func (p *LiteralPattern) Position() sourcemap.Span  { return p.Span }
func (p *IdentPattern) Position() sourcemap.Span    { return p.Span }
func (p *VariantPattern) Position() sourcemap.Span  { return p.Span }
func (p *RangePattern) Position() sourcemap.Span    { return p.Span }
func (p *OrPattern) Position() sourcemap.Span       { return p.Span }

func (p *WildcardPattern) String() string { return "_" }
func (p *LiteralPattern) String() string  { return p.Value.String() }
func (p *IdentPattern) String() string    { return p.Name }
func (p *VariantPattern) String() string {
	if p.HasBinding {
		return p.Variant + "(" + p.Binding + ")"
	}
	return p.Variant
}
func (p *RangePattern) String() string {
	op := ".."
	if p.Inclusive {
		op = "..="
	}
	return p.Low.String() + op + p.High.String()
}
func (p *OrPattern) String() string {
	parts := make([]string, len(p.Alternatives))
	for i, a := range p.Alternatives {
		parts[i] = a.String()
	}
	return strings.Join(parts, " | ")
}
