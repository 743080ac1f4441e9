package mir

import (
	"fmt"
	"strings"

	"github.com/cm-lang/cmc/internal/ast"
	"github.com/cm-lang/cmc/internal/hir"
)

type instReq struct {
	name     string
	typeArgs []ast.Type
}

// mangle produces the deterministic "fn__T=Concrete" instantiation
// name monomorphization assigns a generic function's concrete
// expansion.
func mangle(name string, generics []string, typeArgs []ast.Type) string {
	if len(generics) == 0 || len(typeArgs) == 0 {
		return name
	}
	parts := make([]string, 0, len(generics))
	for i, g := range generics {
		arg := "?"
		if i < len(typeArgs) {
			arg = typeArgs[i].String()
		}
		parts = append(parts, g+"="+arg)
	}
	return name + "__" + strings.Join(parts, "_")
}

// monomorphize expands every concrete instantiation of a generic
// function reached (transitively) from a call site carrying explicit
// type arguments, via a fixpoint work-list so instantiations
// discovered inside a newly generated body are themselves processed.
// Two call sites instantiating the same function at the same concrete
// types collapse to one mangled name; a genuine collision between an
// unrelated declared function and a mangled name is a fatal internal
// error (the spec's stated failure mode for this case).
func monomorphize(byName map[string]*hir.Function) ([]*hir.Function, error) {
	var out []*hir.Function
	seen := map[string]bool{}
	var worklist []instReq

	for _, f := range byName {
		if len(f.Generics) == 0 {
			out = append(out, f)
			discoverCallSites(f.Body, byName, &worklist)
		}
	}

	for len(worklist) > 0 {
		req := worklist[0]
		worklist = worklist[1:]
		orig, ok := byName[req.name]
		if !ok || len(orig.Generics) == 0 {
			continue
		}
		mangled := mangle(req.name, orig.Generics, req.typeArgs)
		if seen[mangled] {
			continue
		}
		if existing, ok := byName[mangled]; ok && existing != orig {
			return nil, fmt.Errorf("MIR monomorphization: name collision on %q", mangled)
		}
		seen[mangled] = true

		subst := map[string]ast.Type{}
		for i, g := range orig.Generics {
			if i < len(req.typeArgs) {
				subst[g] = req.typeArgs[i]
			}
		}
		inst := instantiate(orig, mangled, subst)
		out = append(out, inst)
		discoverCallSites(inst.Body, byName, &worklist)
	}
	return out, nil
}

// instantiate produces one concrete copy of a generic function with
// its generic parameter types substituted in the signature; the body
// is shared structurally (statements contain no standalone Type nodes
// once sizeof/alignof has already been folded in C5) except where a
// nested call site itself supplies type arguments, which the
// work-list's subsequent discoverCallSites pass picks up.
func instantiate(orig *hir.Function, mangled string, subst map[string]ast.Type) *hir.Function {
	params := make([]hir.Param, len(orig.Params))
	for i, p := range orig.Params {
		params[i] = hir.Param{Name: p.Name, Type: substType(p.Type, subst)}
	}
	return &hir.Function{
		Name:       mangled,
		Params:     params,
		ReturnType: substType(orig.ReturnType, subst),
		Body:       orig.Body,
		IsExport:   orig.IsExport,
		Attrs:      orig.Attrs,
	}
}

func substType(t ast.Type, subst map[string]ast.Type) ast.Type {
	if t == nil {
		return nil
	}
	if named, ok := t.(*ast.NamedType); ok && len(named.TypeArgs) == 0 {
		if repl, ok := subst[named.Name]; ok {
			return repl
		}
	}
	return t
}

// discoverCallSites scans a function body for calls supplying explicit
// type arguments against a known generic function, queueing each
// distinct instantiation request.
func discoverCallSites(b *hir.Block, byName map[string]*hir.Function, worklist *[]instReq) {
	if b == nil {
		return
	}
	for _, s := range b.Stmts {
		walkStmtExprs(s, func(e ast.Expr) {
			call, ok := e.(*ast.CallExpr)
			if !ok || len(call.TypeArgs) == 0 {
				return
			}
			id, ok := call.Callee.(*ast.Ident)
			if !ok {
				return
			}
			if target, ok := byName[id.Name]; ok && len(target.Generics) > 0 {
				*worklist = append(*worklist, instReq{name: id.Name, typeArgs: call.TypeArgs})
			}
		})
	}
}

// walkStmtExprs visits every expression reachable from one HIR
// statement, recursing into nested blocks, calling visit on each
// (innermost expressions first is not required here — callers only
// care about CallExpr membership, not evaluation order).
func walkStmtExprs(s hir.Stmt, visit func(ast.Expr)) {
	switch st := s.(type) {
	case *hir.Let:
		walkExpr(st.Init, visit)
	case *hir.Return:
		walkExpr(st.Value, visit)
	case *hir.ExprStmt:
		walkExpr(st.X, visit)
	case *hir.Assign:
		walkExpr(st.Target, visit)
		walkExpr(st.Value, visit)
	case *hir.If:
		walkExpr(st.Cond, visit)
		walkBlockExprs(st.Then, visit)
		if st.Else != nil {
			walkStmtExprs(st.Else, visit)
		}
	case *hir.While:
		walkExpr(st.Cond, visit)
		walkBlockExprs(st.Body, visit)
	case *hir.For:
		if st.Init != nil {
			walkStmtExprs(st.Init, visit)
		}
		walkExpr(st.Cond, visit)
		if st.Post != nil {
			walkStmtExprs(st.Post, visit)
		}
		walkBlockExprs(st.Body, visit)
	case *hir.Switch:
		for _, arm := range st.Arms {
			walkExpr(arm.Cond, visit)
			walkBlockExprs(arm.Body, visit)
		}
		walkBlockExprs(st.Default, visit)
	case *hir.Defer:
		walkExpr(st.Call, visit)
	case *hir.MustBlock:
		walkBlockExprs(st.Body, visit)
	}
}

func walkBlockExprs(b *hir.Block, visit func(ast.Expr)) {
	if b == nil {
		return
	}
	for _, s := range b.Stmts {
		walkStmtExprs(s, visit)
	}
}

// walkExpr visits e and recurses into its subexpressions.
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
