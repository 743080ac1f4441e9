package mir

import "github.com/cm-lang/cmc/internal/ast"

// ctorName/ctorArgs pull the callee name and argument list out of a
// `T(args)` constructor-call expression stripped into hir.Let.CtorCall,
// or out of a plain defer'd call expression; both are always a
// *ast.CallExpr with an *ast.Ident (or *ast.FieldExpr for an impl
// method call) callee by construction at this point in the pipeline.
func ctorName(e ast.Expr) string {
	call, ok := e.(*ast.CallExpr)
	if !ok {
		return ""
	}
	switch callee := call.Callee.(type) {
	case *ast.Ident:
		return callee.Name
	case *ast.FieldExpr:
		return callee.Target.String() + "__" + callee.Field
	default:
		return call.Callee.String()
	}
}

func ctorArgs(e ast.Expr) []ast.Expr {
	call, ok := e.(*ast.CallExpr)
	if !ok {
		return nil
	}
	return call.Args
}

// identName returns a bare identifier's name, or "" if the expression
// is not a simple identifier (e.g. a field or index assignment target,
// which MIR lowers to a Store through the full lvalue expression
// rather than a named Assign).
func identName(e ast.Expr) string {
	if id, ok := e.(*ast.Ident); ok {
		return id.Name
	}
	return ""
}
