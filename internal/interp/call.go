package interp

import (
	"fmt"

	"github.com/cm-lang/cmc/internal/ast"
)

// evalCall resolves and invokes a call expression that survived
// embedded in an ordinary expression tree (no HIR/MIR pass rewrites a
// method call to a free-function call anywhere upstream: a `shape
// .area()` CallExpr keeps its *ast.FieldExpr callee all the way
// through MIR). Dynamic dispatch is therefore this function's job:
// evaluate the receiver, read its runtime type name, and resolve
// `TypeName__MethodName` — the exact mangling internal/hir/lower.go's
// lowerImplMethod already produces, so no vtable lookup is needed at
// all at this stage.
func (it *Interp) evalCall(env *Environment, ex *ast.CallExpr) (Value, error) {
	args := make([]Value, len(ex.Args))
	for i, a := range ex.Args {
		v, err := it.evalExpr(env, a)
		if err != nil {
			return nil, err
		}
		args[i] = v
	}

	switch callee := ex.Callee.(type) {
	case *ast.Ident:
		return it.invokeNamed(env, callee.Name, args)
	case *ast.FieldExpr:
		recv, err := it.evalExpr(env, callee.Target)
		if err != nil {
			return nil, err
		}
		name := recv.Type() + "__" + callee.Field
		fn, ok := it.funcs[name]
		if !ok {
			return nil, fmt.Errorf("interp: no method %s on %s", callee.Field, recv.Type())
		}
		return it.call(fn, append([]Value{recv}, args...), it.rootOf(env))
	default:
		return nil, fmt.Errorf("interp: unsupported call target %T", ex.Callee)
	}
}

// evalCallByName runs an already-resolved MIR Call instruction, whose
// Callee is a plain string produced by ctorName (internal/mir/expr.go)
// rather than an AST callee expression.
func (it *Interp) evalCallByName(env *Environment, name string, argExprs []ast.Expr) (Value, error) {
	args := make([]Value, len(argExprs))
	for i, a := range argExprs {
		v, err := it.evalExpr(env, a)
		if err != nil {
			return nil, err
		}
		args[i] = v
	}
	return it.invokeNamed(env, name, args)
}

// invokeNamed dispatches a bare name to a builtin, an enum variant
// constructor, or a plain MIR function, in that priority order.
func (it *Interp) invokeNamed(env *Environment, name string, args []Value) (Value, error) {
	if bf, ok := builtins[name]; ok {
		return bf(it, args)
	}
	if enumName, ok := it.variantOwner[name]; ok {
		return it.constructVariant(enumName, name, args)
	}
	fn, ok := it.funcs[name]
	if !ok {
		return nil, fmt.Errorf("interp: call to undefined function %q", name)
	}
	return it.call(fn, args, it.rootOf(env))
}

// constructVariant builds a tagged-union value. A nullary variant gets
// a UnitValue payload; a single-field variant keeps its payload
// unwrapped; a multi-field variant packs its fields into an
// ArrayValue, since EnumValue.Payload is declared singular.
func (it *Interp) constructVariant(enumName, variant string, args []Value) (Value, error) {
	var payload Value
	switch len(args) {
	case 0:
		payload = &UnitValue{}
	case 1:
		payload = args[0]
	default:
		payload = &ArrayValue{Elements: args}
	}
	return &EnumValue{TypeName: enumName, VariantName: variant, Payload: payload}, nil
}

// rootOf walks to the outermost (global) scope so a nested call
// started from inside a block expression still resolves globals,
// without leaking the caller's locals into the callee.
func (it *Interp) rootOf(env *Environment) *Environment {
	for env.parent != nil {
		env = env.parent
	}
	return env
}
