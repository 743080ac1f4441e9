package hir

import "github.com/cm-lang/cmc/internal/ast"

// variantTagField is the conventional discriminant field name HIR
// pattern-matching compares against: the test is `scrutinee.__tag ==
// "Variant"`, a comparison with the variant's name as a string literal,
// which MIR passes through unchanged (the interpreter's EnumValue
// answers `__tag` with its variant name).
const variantTagField = "__tag"

// variantPayloadField is the conventional single-payload field name
// used when a VariantPattern binds its payload.
const variantPayloadField = "__payload"

// lowerMatchStmt desugars match used in statement position into a
// Switch: pattern-derived conditions ANDed with any arm guard, with a
// payload-extraction Let prepended to an arm's body for a
// `Variant(binding)` pattern. A trailing wildcard arm (with no guard)
// becomes the Switch's Default rather than one more conditional arm.
func (l *lowerer) lowerMatchStmt(s *ast.MatchStmt) *Switch {
	scrutinee := l.lowerExpr(s.Scrutinee)
	out := &Switch{Span: s.Span}

	for i, arm := range s.Arms {
		body := l.lowerMatchArmBody(arm, scrutinee)
		if i == len(s.Arms)-1 {
			if _, isWildcard := arm.Pattern.(*ast.WildcardPattern); isWildcard && arm.Guard == nil {
				out.Default = body
				continue
			}
		}
		cond := patternCond(arm.Pattern, scrutinee)
		if arm.Guard != nil {
			cond = &ast.BinaryExpr{Op: "&&", Left: cond, Right: l.lowerExpr(arm.Guard)}
		}
		out.Arms = append(out.Arms, SwitchArm{Cond: cond, Body: body})
	}
	return out
}

// lowerMatchArmBody lowers an arm's body, prepending a payload-binding
// Let when the arm's pattern captures a variant payload.
func (l *lowerer) lowerMatchArmBody(arm ast.MatchArm, scrutinee ast.Expr) *Block {
	var stmts []Stmt
	if vp, ok := arm.Pattern.(*ast.VariantPattern); ok && vp.HasBinding {
		stmts = append(stmts, &Let{
			Name: vp.Binding,
			Init: &ast.FieldExpr{Target: scrutinee, Field: variantPayloadField},
			Span: arm.Body.Span,
		})
	}
	if ip, ok := arm.Pattern.(*ast.IdentPattern); ok {
		stmts = append(stmts, &Let{Name: ip.Name, Init: scrutinee, Span: arm.Body.Span})
	}
	for _, s := range arm.Body.Stmts {
		stmts = append(stmts, l.lowerStmt(s)...)
	}
	if arm.Body.Tail != nil {
		stmts = append(stmts, &ExprStmt{X: l.lowerExpr(arm.Body.Tail), Span: arm.Body.Tail.Position()})
	}
	return &Block{Stmts: stmts, Span: arm.Body.Span}
}

// patternCond builds the boolean test for a single pattern against the
// scrutinee: equality for literals, tag comparison for variants,
// inclusive/exclusive bounds for ranges, OR across OrPattern
// alternatives, and an unconditional true for wildcards/bindings
// (bindings always match; their job is capture, not a test).
func patternCond(p ast.Pattern, scrutinee ast.Expr) ast.Expr {
	switch pat := p.(type) {
	case *ast.WildcardPattern:
		return &ast.BoolLit{Value: true, Span: pat.Span}
	case *ast.IdentPattern:
		return &ast.BoolLit{Value: true, Span: pat.Span}
	case *ast.LiteralPattern:
		return &ast.BinaryExpr{Op: "==", Left: scrutinee, Right: pat.Value, Span: pat.Span}
	case *ast.VariantPattern:
		return &ast.BinaryExpr{
			Op:   "==",
			Left: &ast.FieldExpr{Target: scrutinee, Field: variantTagField, Span: pat.Span},
			Right: &ast.StringLit{Value: pat.Variant, Span: pat.Span},
			Span: pat.Span,
		}
	case *ast.RangePattern:
		lowOp := ">="
		highOp := "<"
		if pat.Inclusive {
			highOp = "<="
		}
		return &ast.BinaryExpr{
			Op:   "&&",
			Left: &ast.BinaryExpr{Op: lowOp, Left: scrutinee, Right: pat.Low, Span: pat.Span},
			Right: &ast.BinaryExpr{Op: highOp, Left: scrutinee, Right: pat.High, Span: pat.Span},
			Span: pat.Span,
		}
	case *ast.OrPattern:
		if len(pat.Alternatives) == 0 {
			return &ast.BoolLit{Value: false, Span: pat.Span}
		}
		cond := patternCond(pat.Alternatives[0], scrutinee)
		for _, alt := range pat.Alternatives[1:] {
			cond = &ast.BinaryExpr{Op: "||", Left: cond, Right: patternCond(alt, scrutinee), Span: pat.Span}
		}
		return cond
	default:
		return &ast.BoolLit{Value: true}
	}
}
