package hir

import (
	"strings"

	"github.com/cm-lang/cmc/internal/ast"
)

// Lower is the C5 entry point: it takes a (already target-filtered) AST
// program and produces the HIR form — namespaces flattened into
// fully-qualified names, for-in/match/compound-assignment sugar
// desugared, defer/must blocks preserved as dedicated nodes, and
// sizeof/alignof resolved to literal constants.
func Lower(prog *ast.Program) (*Program, error) {
	flat := flattenDecls(prog.Declarations, "")

	l := &lowerer{layout: NewLayoutTable(flat)}
	for _, d := range flat {
		if e, ok := d.(*ast.EnumDecl); ok {
			l.enums = append(l.enums, e.Name)
		}
		if s, ok := d.(*ast.StructDecl); ok {
			l.structs = append(l.structs, s.Name)
		}
	}

	out := &Program{}
	for _, d := range flat {
		switch decl := d.(type) {
		case *ast.FunctionDecl:
			if decl.Body == nil {
				continue // extern/interface signature, nothing to lower
			}
			out.Functions = append(out.Functions, l.lowerFunction(decl))
		case *ast.StructDecl:
			out.Structs = append(out.Structs, l.layout.structLayout(decl.Name))
		case *ast.EnumDecl:
			out.Enums = append(out.Enums, l.layout.EnumLayout(decl))
		case *ast.TypedefDecl:
			out.Typedefs = append(out.Typedefs, &Typedef{Name: decl.Name, Target: decl.Target})
		case *ast.GlobalVarDecl:
			out.Globals = append(out.Globals, &Global{Name: decl.Name, Type: decl.Type, Init: l.lowerExpr(decl.Init)})
		case *ast.ImplDecl:
			for _, m := range decl.Methods {
				if m.Body == nil {
					continue
				}
				out.Functions = append(out.Functions, l.lowerImplMethod(decl, m))
			}
			for _, c := range decl.Constructors {
				if c.Body == nil {
					continue
				}
				out.Functions = append(out.Functions, l.lowerImplMethod(decl, c))
			}
		}
	}
	return out, nil
}

// flattenDecls walks declarations in order, prefixing every nested
// NamespaceDecl's contents with "NS::" (recursively for nested
// namespaces), and splicing the result into one flat list.
func flattenDecls(decls []ast.Decl, prefix string) []ast.Decl {
	out := make([]ast.Decl, 0, len(decls))
	for _, d := range decls {
		ns, ok := d.(*ast.NamespaceDecl)
		if !ok {
			if prefix != "" {
				prefixDeclName(d, prefix)
			}
			out = append(out, d)
			continue
		}
		out = append(out, flattenDecls(ns.Declarations, prefix+ns.Path+"::")...)
	}
	return out
}

func prefixDeclName(d ast.Decl, prefix string) {
	switch decl := d.(type) {
	case *ast.FunctionDecl:
		decl.Name = prefix + decl.Name
	case *ast.StructDecl:
		decl.Name = prefix + decl.Name
	case *ast.EnumDecl:
		decl.Name = prefix + decl.Name
	case *ast.TypedefDecl:
		decl.Name = prefix + decl.Name
	case *ast.GlobalVarDecl:
		decl.Name = prefix + decl.Name
	case *ast.InterfaceDecl:
		decl.Name = prefix + decl.Name
	}
}

// lowerer carries the per-program lookup state used by statement
// desugaring (constructor detection, layout computation).
type lowerer struct {
	layout  *LayoutTable
	structs []string
	enums   []string
}

func (l *lowerer) isStruct(name string) bool {
	for _, s := range l.structs {
		if s == name {
			return true
		}
	}
	return false
}

func attrMap(attrs *ast.DeclAttrs) map[string][]string {
	if attrs == nil {
		return nil
	}
	m := map[string][]string{}
	for _, a := range attrs.Attributes {
		m[a.Name] = a.Args
	}
	return m
}

func (l *lowerer) lowerFunction(d *ast.FunctionDecl) *Function {
	return &Function{
		Name:       d.Name,
		Params:     lowerParams(d.Params),
		ReturnType: d.ReturnType,
		Body:       l.lowerBlockExpr(d.Body),
		IsExport:   d.Visibility == ast.VisibilityExport,
		Generics:   d.FlatGenericNames(),
		Attrs:      attrMap(d.DeclAttrs),
	}
}

// lowerImplMethod flattens an impl method/constructor to a free
// function named "Type__method" (or "Type__ctor" / "Type__ctor_N" for
// overloaded constructors), the same dispatchable-name convention the
// MIR monomorphizer extends for generics and interface vtables.
func (l *lowerer) lowerImplMethod(impl *ast.ImplDecl, m *ast.FunctionDecl) *Function {
	target := impl.TargetType.String()
	name := target + "__" + m.Name
	if m.Name == "" {
		name = target + "__ctor"
	}
	fn := l.lowerFunction(m)
	fn.Name = name
	return fn
}

func lowerParams(ps []ast.Param) []Param {
	out := make([]Param, len(ps))
	for i, p := range ps {
		out[i] = Param{Name: p.Name, Type: p.Type}
	}
	return out
}

// lowerBlockExpr lowers a BlockExpr (used for function/arm bodies,
// which may carry a trailing tail expression) into a Block: the tail
// expression, if present, becomes a synthetic ExprStmt.
func (l *lowerer) lowerBlockExpr(b *ast.BlockExpr) *Block {
	if b == nil {
		return &Block{}
	}
	out := &Block{Span: b.Span}
	for _, s := range b.Stmts {
		out.Stmts = append(out.Stmts, l.lowerStmt(s)...)
	}
	if b.Tail != nil {
		out.Stmts = append(out.Stmts, &ExprStmt{X: l.lowerExpr(b.Tail), Span: b.Tail.Position()})
	}
	return out
}

func (l *lowerer) lowerBlockStmt(b *ast.BlockStmt) *Block {
	if b == nil {
		return &Block{}
	}
	out := &Block{Span: b.Span}
	for _, s := range b.Stmts {
		out.Stmts = append(out.Stmts, l.lowerStmt(s)...)
	}
	return out
}

// lowerStmt returns a slice since for-in/match desugaring sometimes
// needs to emit more than one HIR statement in place of one AST
// statement (e.g. a payload-extraction Let ahead of a loop body).
func (l *lowerer) lowerStmt(s ast.Stmt) []Stmt {
	switch st := s.(type) {
	case *ast.LetStmt:
		return []Stmt{l.lowerLet(st)}
	case *ast.ReturnStmt:
		return []Stmt{&Return{Value: l.lowerExpr(st.Value), Span: st.Span}}
	case *ast.ExprStmt:
		return []Stmt{&ExprStmt{X: l.lowerExpr(st.X), Span: st.Span}}
	case *ast.AssignStmt:
		return []Stmt{l.lowerAssign(st)}
	case *ast.IfStmt:
		return []Stmt{&If{
			Cond: l.lowerExpr(st.Cond),
			Then: l.lowerBlockStmt(st.Then),
			Else: l.lowerElse(st.Else),
			Span: st.Span,
		}}
	case *ast.WhileStmt:
		return []Stmt{&While{Cond: l.lowerExpr(st.Cond), Body: l.lowerBlockStmt(st.Body), Span: st.Span}}
	case *ast.ForStmt:
		return []Stmt{l.lowerFor(st)}
	case *ast.ForInStmt:
		return []Stmt{l.lowerForIn(st)}
	case *ast.BlockStmt:
		// A bare nested block used as one statement: preserve scoping by
		// wrapping in an always-true If rather than inlining its
		// statements into the parent (which would change shadowing).
		return []Stmt{&If{Cond: &ast.BoolLit{Value: true, Span: st.Span}, Then: l.lowerBlockStmt(st), Span: st.Span}}
	case *ast.BreakStmt:
		return []Stmt{&Break{Span: st.Span}}
	case *ast.ContinueStmt:
		return []Stmt{&Continue{Span: st.Span}}
	case *ast.DeferStmt:
		return []Stmt{&Defer{Call: l.lowerExpr(st.Call), Span: st.Span}}
	case *ast.MustBlockStmt:
		return []Stmt{&MustBlock{Body: l.lowerBlockStmt(st.Body), Span: st.Span}}
	case *ast.MatchStmt:
		return []Stmt{l.lowerMatchStmt(st)}
	case *ast.AsmStmt:
		return []Stmt{lowerAsm(st)}
	default:
		return nil
	}
}

func (l *lowerer) lowerElse(e ast.Stmt) Stmt {
	switch et := e.(type) {
	case nil:
		return nil
	case *ast.BlockStmt:
		return &If{Cond: &ast.BoolLit{Value: true, Span: et.Span}, Then: l.lowerBlockStmt(et), Span: et.Span}
	case *ast.IfStmt:
		stmts := l.lowerStmt(et)
		if len(stmts) == 0 {
			return nil
		}
		return stmts[0]
	default:
		return nil
	}
}

// lowerLet detects the `let x = T(args)` constructor-call form,
// stripping the call from Init into CtorCall so the MIR lowerer can
// emit a separate post-declaration T__ctor call.
func (l *lowerer) lowerLet(s *ast.LetStmt) *Let {
	out := &Let{Name: s.Name, Type: s.Type, Span: s.Span}
	if call, ok := s.Init.(*ast.CallExpr); ok {
		if id, ok := call.Callee.(*ast.Ident); ok && l.isStruct(id.Name) {
			lowered := l.lowerExpr(call)
			out.CtorCall = &lowered
			return out
		}
	}
	out.Init = l.lowerExpr(s.Init)
	return out
}

// lowerAssign desugars compound assignment (`x += y`) into a plain
// assignment of an explicit binary read (`x = x + y`).
func (l *lowerer) lowerAssign(s *ast.AssignStmt) *Assign {
	target := l.lowerExpr(s.Target)
	value := l.lowerExpr(s.Value)
	if s.Op == "=" || s.Op == "" {
		return &Assign{Target: target, Value: value, Span: s.Span}
	}
	op := strings.TrimSuffix(s.Op, "=")
	return &Assign{
		Target: target,
		Value:  &ast.BinaryExpr{Op: op, Left: target, Right: value, Span: s.Span},
		Span:   s.Span,
	}
}

// lowerFor passes a C-style for-loop through structurally, lowering
// each clause.
func (l *lowerer) lowerFor(s *ast.ForStmt) *For {
	out := &For{Span: s.Span, Body: l.lowerBlockStmt(s.Body)}
	if s.Init != nil {
		if stmts := l.lowerStmt(s.Init); len(stmts) > 0 {
			out.Init = stmts[0]
		}
	}
	out.Cond = l.lowerExpr(s.Cond)
	if s.Post != nil {
		if stmts := l.lowerStmt(s.Post); len(stmts) > 0 {
			out.Post = stmts[0]
		}
	}
	return out
}

// lowerForIn desugars `for x in iterable { body }`. The choice is made
// syntactically, since HIR lowering runs before type checking assigns
// concrete types: an array literal or an index expression lowers to an
// index-based three-clause loop; any other iterable, including an
// identifier bound to an array or slice, lowers to the
// iterator-protocol form, calling the conventional `.hasNext()`/`.next()`
// pair on a hidden cursor local.
func (l *lowerer) lowerForIn(s *ast.ForInStmt) Stmt {
	body := l.lowerBlockStmt(s.Body)
	iterable := l.lowerExpr(s.Iterable)

	if isArrayLike(s.Iterable) {
		idxName := "__idx_" + s.Var
		lenExpr := &ast.CallExpr{Callee: &ast.Ident{Name: "len"}, Args: []ast.Expr{s.Iterable}}
		init := &Let{Name: idxName, Init: &ast.IntLit{Value: 0, Raw: "0"}, Span: s.Span}
		cond := &ast.BinaryExpr{Op: "<", Left: &ast.Ident{Name: idxName}, Right: lenExpr}
		post := &Assign{
			Target: &ast.Ident{Name: idxName},
			Value:  &ast.BinaryExpr{Op: "+", Left: &ast.Ident{Name: idxName}, Right: &ast.IntLit{Value: 1, Raw: "1"}},
		}
		elem := &Let{Name: s.Var, Init: &ast.IndexExpr{Array: s.Iterable, Index: &ast.Ident{Name: idxName}}, Span: s.Span}
		body.Stmts = append([]Stmt{elem}, body.Stmts...)
		return &For{Init: init, Cond: cond, Post: post, Body: body, Span: s.Span}
	}

	cursor := "__iter_" + s.Var
	init := &Let{Name: cursor, Init: iterable, Span: s.Span}
	hasNext := &ast.CallExpr{Callee: &ast.FieldExpr{Target: &ast.Ident{Name: cursor}, Field: "hasNext"}}
	next := &ast.CallExpr{Callee: &ast.FieldExpr{Target: &ast.Ident{Name: cursor}, Field: "next"}}
	elem := &Let{Name: s.Var, Init: next, Span: s.Span}
	body.Stmts = append([]Stmt{elem}, body.Stmts...)
	whileLoop := &While{Cond: hasNext, Body: body, Span: s.Span}
	return &If{
		Cond: &ast.BoolLit{Value: true, Span: s.Span},
		Then: &Block{Stmts: []Stmt{init, whileLoop}, Span: s.Span},
		Span: s.Span,
	}
}

func isArrayLike(e ast.Expr) bool {
	switch e.(type) {
	case *ast.ArrayLiteralExpr, *ast.IndexExpr:
		return true
	}
	return false
}

// lowerExpr recurses through an expression tree resolving sizeof/
// alignof to literal constants; all other forms pass through
// structurally (HIR keeps the AST expression grammar, per this
// package's aliasing of Expr to ast.Expr).
func (l *lowerer) lowerExpr(e ast.Expr) ast.Expr {
	if e == nil {
		return nil
	}
	switch ex := e.(type) {
	case *ast.SizeofExpr:
		return &ast.IntLit{Value: int64(l.layout.SizeOf(ex.Target)), Raw: "", Span: ex.Span}
	case *ast.AlignofExpr:
		return &ast.IntLit{Value: int64(l.layout.AlignOf(ex.Target)), Raw: "", Span: ex.Span}
	case *ast.BinaryExpr:
		return &ast.BinaryExpr{Op: ex.Op, Left: l.lowerExpr(ex.Left), Right: l.lowerExpr(ex.Right), Span: ex.Span}
	case *ast.UnaryExpr:
		return &ast.UnaryExpr{Op: ex.Op, Operand: l.lowerExpr(ex.Operand), Prefix: ex.Prefix, Span: ex.Span}
	case *ast.CallExpr:
		args := make([]ast.Expr, len(ex.Args))
		for i, a := range ex.Args {
			args[i] = l.lowerExpr(a)
		}
		return &ast.CallExpr{Callee: l.lowerExpr(ex.Callee), Args: args, TypeArgs: ex.TypeArgs, Span: ex.Span}
	case *ast.IndexExpr:
		return &ast.IndexExpr{Array: l.lowerExpr(ex.Array), Index: l.lowerExpr(ex.Index), Span: ex.Span}
	case *ast.FieldExpr:
		return &ast.FieldExpr{Target: l.lowerExpr(ex.Target), Field: ex.Field, Span: ex.Span}
	case *ast.StructLiteralExpr:
		fields := make([]ast.StructFieldInit, len(ex.Fields))
		for i, f := range ex.Fields {
			fields[i] = ast.StructFieldInit{Name: f.Name, Value: l.lowerExpr(f.Value)}
		}
		return &ast.StructLiteralExpr{TypeName: ex.TypeName, Fields: fields, Span: ex.Span}
	case *ast.ArrayLiteralExpr:
		elems := make([]ast.Expr, len(ex.Elements))
		for i, el := range ex.Elements {
			elems[i] = l.lowerExpr(el)
		}
		return &ast.ArrayLiteralExpr{Elements: elems, Span: ex.Span}
	case *ast.CastExpr:
		return &ast.CastExpr{Operand: l.lowerExpr(ex.Operand), Target: ex.Target, Span: ex.Span}
	case *ast.MoveExpr:
		return &ast.MoveExpr{Operand: l.lowerExpr(ex.Operand), Span: ex.Span}
	case *ast.BlockExpr:
		lowered := l.lowerBlockExpr(ex)
		stmts := make([]ast.Stmt, 0, len(lowered.Stmts))
		for _, s := range lowered.Stmts {
			if es, ok := s.(*ExprStmt); ok {
				stmts = append(stmts, &ast.ExprStmt{X: es.X, Span: es.Span})
				continue
			}
		}
		return &ast.BlockExpr{Stmts: stmts, Span: ex.Span}
	default:
		return e
	}
}
