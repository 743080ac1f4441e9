package interp

import (
	"fmt"

	"github.com/cm-lang/cmc/internal/ast"
)

func (it *Interp) evalUnary(env *Environment, ex *ast.UnaryExpr) (Value, error) {
	v, err := it.evalExpr(env, ex.Operand)
	if err != nil {
		return nil, err
	}
	switch ex.Op {
	case "-":
		switch n := v.(type) {
		case *IntValue:
			return &IntValue{Value: -n.Value}, nil
		case *FloatValue:
			return &FloatValue{Value: -n.Value}, nil
		}
	case "!":
		if b, ok := v.(*BoolValue); ok {
			return &BoolValue{Value: !b.Value}, nil
		}
	case "&", "*":
		// Pointer take-address/deref is a no-op at this value
		// representation: structs and arrays are already held by
		// pointer (see value.go), so a reference to one is itself.
		return v, nil
	case "++", "--":
		n, ok := v.(*IntValue)
		if !ok {
			return nil, fmt.Errorf("interp: %s applied to non-int %s", ex.Op, v.Type())
		}
		delta := int64(1)
		if ex.Op == "--" {
			delta = -1
		}
		updated := &IntValue{Value: n.Value + delta}
		if id, ok := ex.Operand.(*ast.Ident); ok {
			env.Set(id.Name, updated)
		}
		if ex.Prefix {
			return updated, nil
		}
		return n, nil
	}
	return nil, fmt.Errorf("interp: unhandled unary operator %q on %s", ex.Op, v.Type())
}

func (it *Interp) evalBinary(env *Environment, ex *ast.BinaryExpr) (Value, error) {
	if ex.Op == "&&" {
		l, err := it.evalExpr(env, ex.Left)
		if err != nil {
			return nil, err
		}
		if !truthy(l) {
			return &BoolValue{Value: false}, nil
		}
		r, err := it.evalExpr(env, ex.Right)
		if err != nil {
			return nil, err
		}
		return &BoolValue{Value: truthy(r)}, nil
	}
	if ex.Op == "||" {
		l, err := it.evalExpr(env, ex.Left)
		if err != nil {
			return nil, err
		}
		if truthy(l) {
			return &BoolValue{Value: true}, nil
		}
		r, err := it.evalExpr(env, ex.Right)
		if err != nil {
			return nil, err
		}
		return &BoolValue{Value: truthy(r)}, nil
	}

	l, err := it.evalExpr(env, ex.Left)
	if err != nil {
		return nil, err
	}
	r, err := it.evalExpr(env, ex.Right)
	if err != nil {
		return nil, err
	}

	if ex.Op == "==" || ex.Op == "!=" {
		eq := valuesEqual(l, r)
		if ex.Op == "!=" {
			eq = !eq
		}
		return &BoolValue{Value: eq}, nil
	}

	switch a := l.(type) {
	case *IntValue:
		b, ok := r.(*IntValue)
		if !ok {
			return nil, fmt.Errorf("interp: operand type mismatch for %q: int vs %s", ex.Op, r.Type())
		}
		return intBinop(ex.Op, a.Value, b.Value)
	case *FloatValue:
		b, ok := r.(*FloatValue)
		if !ok {
			return nil, fmt.Errorf("interp: operand type mismatch for %q: float vs %s", ex.Op, r.Type())
		}
		return floatBinop(ex.Op, a.Value, b.Value)
	case *StringValue:
		b, ok := r.(*StringValue)
		if !ok {
			return nil, fmt.Errorf("interp: operand type mismatch for %q: string vs %s", ex.Op, r.Type())
		}
		if ex.Op == "+" {
			return &StringValue{Value: a.Value + b.Value}, nil
		}
		return nil, fmt.Errorf("interp: unsupported string operator %q", ex.Op)
	default:
		return nil, fmt.Errorf("interp: unsupported operand type %s for %q", l.Type(), ex.Op)
	}
}

func intBinop(op string, a, b int64) (Value, error) {
	switch op {
	case "+":
		return &IntValue{Value: a + b}, nil
	case "-":
		return &IntValue{Value: a - b}, nil
	case "*":
		return &IntValue{Value: a * b}, nil
	case "/":
		if b == 0 {
			return nil, fmt.Errorf("interp: integer division by zero")
		}
		return &IntValue{Value: a / b}, nil
	case "%":
		if b == 0 {
			return nil, fmt.Errorf("interp: integer modulo by zero")
		}
		return &IntValue{Value: a % b}, nil
	case "&":
		return &IntValue{Value: a & b}, nil
	case "|":
		return &IntValue{Value: a | b}, nil
	case "^":
		return &IntValue{Value: a ^ b}, nil
	case "<<":
		return &IntValue{Value: a << uint(b)}, nil
	case ">>":
		return &IntValue{Value: a >> uint(b)}, nil
	case "<":
		return &BoolValue{Value: a < b}, nil
	case "<=":
		return &BoolValue{Value: a <= b}, nil
	case ">":
		return &BoolValue{Value: a > b}, nil
	case ">=":
		return &BoolValue{Value: a >= b}, nil
	default:
		return nil, fmt.Errorf("interp: unhandled int operator %q", op)
	}
}

func floatBinop(op string, a, b float64) (Value, error) {
	switch op {
	case "+":
		return &FloatValue{Value: a + b}, nil
	case "-":
		return &FloatValue{Value: a - b}, nil
	case "*":
		return &FloatValue{Value: a * b}, nil
	case "/":
		return &FloatValue{Value: a / b}, nil
	case "<":
		return &BoolValue{Value: a < b}, nil
	case "<=":
		return &BoolValue{Value: a <= b}, nil
	case ">":
		return &BoolValue{Value: a > b}, nil
	case ">=":
		return &BoolValue{Value: a >= b}, nil
	default:
		return nil, fmt.Errorf("interp: unhandled float operator %q", op)
	}
}

func valuesEqual(l, r Value) bool {
	switch a := l.(type) {
	case *IntValue:
		b, ok := r.(*IntValue)
		return ok && a.Value == b.Value
	case *FloatValue:
		b, ok := r.(*FloatValue)
		return ok && a.Value == b.Value
	case *StringValue:
		b, ok := r.(*StringValue)
		return ok && a.Value == b.Value
	case *CharValue:
		b, ok := r.(*CharValue)
		return ok && a.Value == b.Value
	case *BoolValue:
		b, ok := r.(*BoolValue)
		return ok && a.Value == b.Value
	case *UnitValue:
		_, ok := r.(*UnitValue)
		return ok
	default:
		return l == r
	}
}
