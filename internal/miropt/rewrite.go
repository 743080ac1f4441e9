// Package miropt implements the C7 MIR optimizer: a fixpoint pass
// manager over the C6 basic-block IR, grounded on go-corset's
// pass-registry/constant-propagation idiom (its internal IR
// optimization package runs a list of rewrite passes to a fixpoint
// over a constraint IR the same way this package does over MIR).
package miropt

import "github.com/cm-lang/cmc/internal/ast"

// rewriteExpr applies f to e and every subexpression, bottom-up: f
// sees each node only after its children have already been rewritten.
// Every expression-level pass (exprPass) in this package is one such f.
func rewriteExpr(e ast.Expr, f func(ast.Expr) ast.Expr) ast.Expr {
	if e == nil {
		return nil
	}
	switch ex := e.(type) {
	case *ast.BinaryExpr:
		ex = &ast.BinaryExpr{Op: ex.Op, Left: rewriteExpr(ex.Left, f), Right: rewriteExpr(ex.Right, f), Span: ex.Span}
		return f(ex)
	case *ast.UnaryExpr:
		ex = &ast.UnaryExpr{Op: ex.Op, Operand: rewriteExpr(ex.Operand, f), Prefix: ex.Prefix, Span: ex.Span}
		return f(ex)
	case *ast.CallExpr:
		args := make([]ast.Expr, len(ex.Args))
		for i, a := range ex.Args {
			args[i] = rewriteExpr(a, f)
		}
		nc := &ast.CallExpr{Callee: rewriteExpr(ex.Callee, f), Args: args, TypeArgs: ex.TypeArgs, Span: ex.Span}
		return f(nc)
	case *ast.IndexExpr:
		ni := &ast.IndexExpr{Array: rewriteExpr(ex.Array, f), Index: rewriteExpr(ex.Index, f), Span: ex.Span}
		return f(ni)
	case *ast.FieldExpr:
		nf := &ast.FieldExpr{Target: rewriteExpr(ex.Target, f), Field: ex.Field, Span: ex.Span}
		return f(nf)
	case *ast.CastExpr:
		nc := &ast.CastExpr{Operand: rewriteExpr(ex.Operand, f), Target: ex.Target, Span: ex.Span}
		return f(nc)
	case *ast.StructLiteralExpr:
		fields := make([]ast.StructFieldInit, len(ex.Fields))
		for i, fl := range ex.Fields {
			fields[i] = ast.StructFieldInit{Name: fl.Name, Value: rewriteExpr(fl.Value, f)}
		}
		ns := &ast.StructLiteralExpr{TypeName: ex.TypeName, Fields: fields, Span: ex.Span}
		return f(ns)
	case *ast.ArrayLiteralExpr:
		elems := make([]ast.Expr, len(ex.Elements))
		for i, el := range ex.Elements {
			elems[i] = rewriteExpr(el, f)
		}
		na := &ast.ArrayLiteralExpr{Elements: elems, Span: ex.Span}
		return f(na)
	case *ast.MoveExpr:
		nm := &ast.MoveExpr{Operand: rewriteExpr(ex.Operand, f), Span: ex.Span}
		return f(nm)
	default:
		return f(e)
	}
}
