package backend

import (
	"github.com/cm-lang/cmc/internal/ast"
	"github.com/cm-lang/cmc/internal/mir"
)

// buildCallGraph maps every function name to the names it directly
// calls, both through a lowered mir.Call instruction and through any
// ast.CallExpr still embedded in an ordinary expression position.
func buildCallGraph(prog *mir.Program) map[string][]string {
	graph := make(map[string][]string, len(prog.Functions))
	for _, fn := range prog.Functions {
		graph[fn.Name] = calleesOf(fn)
	}
	return graph
}

func calleesOf(fn *mir.Function) []string {
	var out []string
	visit := func(e ast.Expr) {
		walkExpr(e, func(x ast.Expr) {
			if call, ok := x.(*ast.CallExpr); ok {
				if id, ok := call.Callee.(*ast.Ident); ok {
					out = append(out, id.Name)
				}
			}
		})
	}
	for _, blk := range fn.Blocks {
		for _, instr := range blk.Instrs {
			switch in := instr.(type) {
			case mir.Call:
				out = append(out, in.Callee)
				for _, a := range in.Args {
					visit(a)
				}
			case mir.Assign:
				visit(in.Value)
			case mir.ExprInstr:
				visit(in.X)
			case mir.Store:
				visit(in.Target)
				visit(in.Value)
			}
		}
		switch t := blk.Term.(type) {
		case mir.Branch:
			visit(t.Cond)
		case mir.Ret:
			visit(t.Value)
		}
	}
	return out
}

func walkExpr(e ast.Expr, visit func(ast.Expr)) {
	if e == nil {
		return
	}
	visit(e)
	switch ex := e.(type) {
	case *ast.BinaryExpr:
		walkExpr(ex.Left, visit)
		walkExpr(ex.Right, visit)
	case *ast.UnaryExpr:
		walkExpr(ex.Operand, visit)
	case *ast.CallExpr:
		walkExpr(ex.Callee, visit)
		for _, a := range ex.Args {
			walkExpr(a, visit)
		}
	case *ast.IndexExpr:
		walkExpr(ex.Array, visit)
		walkExpr(ex.Index, visit)
	case *ast.FieldExpr:
		walkExpr(ex.Target, visit)
	case *ast.StructLiteralExpr:
		for _, f := range ex.Fields {
			walkExpr(f.Value, visit)
		}
	case *ast.ArrayLiteralExpr:
		for _, el := range ex.Elements {
			walkExpr(el, visit)
		}
	case *ast.CastExpr:
		walkExpr(ex.Operand, visit)
	case *ast.MoveExpr:
		walkExpr(ex.Operand, visit)
	}
}

// countCalls reports how many call sites (direct or embedded) occur
// within fn's body, used by the recursion limiter's
// closure/iterator-specific inlining rule.
func countCalls(fn *mir.Function) int {
	return len(calleesOf(fn))
}
