package interp

import (
	"fmt"

	"github.com/cm-lang/cmc/internal/ast"
)

// evalMatch evaluates an expression-position match directly against
// runtime values. (internal/hir/match.go only desugars match used in
// statement position into a Switch of patternCond tests; an
// expression-position match survives HIR lowering untouched, so the
// tree-walker needs its own pattern matcher rather than relying on
// the desugared __tag/__payload field comparisons Switch arms use.)
func (it *Interp) evalMatch(env *Environment, ex *ast.MatchExpr) (Value, error) {
	scrutinee, err := it.evalExpr(env, ex.Scrutinee)
	if err != nil {
		return nil, err
	}
	for _, arm := range ex.Arms {
		armEnv := NewChildEnvironment(env)
		matched, err := it.matchPattern(armEnv, arm.Pattern, scrutinee)
		if err != nil {
			return nil, err
		}
		if !matched {
			continue
		}
		if arm.Guard != nil {
			g, err := it.evalExpr(armEnv, arm.Guard)
			if err != nil {
				return nil, err
			}
			if !truthy(g) {
				continue
			}
		}
		return it.evalBlockExpr(armEnv, arm.Body)
	}
	return nil, fmt.Errorf("interp: match fell through with no arm matching %s", scrutinee.String())
}

// matchPattern reports whether p matches v, defining any bindings the
// pattern captures directly into env.
func (it *Interp) matchPattern(env *Environment, p ast.Pattern, v Value) (bool, error) {
	switch pat := p.(type) {
	case *ast.WildcardPattern:
		return true, nil
	case *ast.IdentPattern:
		env.Define(pat.Name, v)
		return true, nil
	case *ast.LiteralPattern:
		lit, err := it.evalExpr(env, pat.Value)
		if err != nil {
			return false, err
		}
		return valuesEqual(v, lit), nil
	case *ast.VariantPattern:
		ev, ok := v.(*EnumValue)
		if !ok {
			return false, nil
		}
		if ev.VariantName != pat.Variant {
			return false, nil
		}
		if pat.HasBinding {
			env.Define(pat.Binding, ev.Payload)
		}
		return true, nil
	case *ast.RangePattern:
		low, err := it.evalExpr(env, pat.Low)
		if err != nil {
			return false, err
		}
		high, err := it.evalExpr(env, pat.High)
		if err != nil {
			return false, err
		}
		return inRange(v, low, high, pat.Inclusive)
	case *ast.OrPattern:
		for _, alt := range pat.Alternatives {
			ok, err := it.matchPattern(env, alt, v)
			if err != nil {
				return false, err
			}
			if ok {
				return true, nil
			}
		}
		return false, nil
	default:
		return false, fmt.Errorf("interp: unhandled pattern %T", p)
	}
}

func inRange(v, low, high Value, inclusive bool) (bool, error) {
	n, ok := v.(*IntValue)
	if !ok {
		return false, fmt.Errorf("interp: range pattern against non-int value %s", v.Type())
	}
	l, lok := low.(*IntValue)
	h, hok := high.(*IntValue)
	if !lok || !hok {
		return false, fmt.Errorf("interp: range pattern bounds must be int literals")
	}
	if inclusive {
		return n.Value >= l.Value && n.Value <= h.Value, nil
	}
	return n.Value >= l.Value && n.Value < h.Value, nil
}
