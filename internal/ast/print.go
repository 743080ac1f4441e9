package ast

import (
	"fmt"
	"strings"
)

// Dump renders a declaration list as an indented outline, used by the
// `cmc check --ast` diagnostic path rather than for golden-file
// testing.
func Dump(decls []Decl) string {
	var b strings.Builder
	for _, d := range decls {
		dumpDecl(&b, d, 0)
	}
	return b.String()
}

func indent(b *strings.Builder, depth int) {
	for i := 0; i < depth; i++ {
		b.WriteString("  ")
	}
}

func dumpDecl(b *strings.Builder, d Decl, depth int) {
	indent(b, depth)
	fmt.Fprintln(b, d.String())
	switch decl := d.(type) {
	case *FunctionDecl:
		if decl.Body != nil {
			dumpBlockExpr(b, decl.Body, depth+1)
		}
	case *ImplDecl:
		for _, m := range decl.Methods {
			dumpDecl(b, m, depth+1)
		}
		for _, c := range decl.Constructors {
			dumpDecl(b, c, depth+1)
		}
		if decl.Destructor != nil {
			dumpDecl(b, decl.Destructor, depth+1)
		}
	case *ExternBlockDecl:
		for _, f := range decl.Decls {
			dumpDecl(b, f, depth+1)
		}
	}
}

func dumpBlockExpr(b *strings.Builder, block *BlockExpr, depth int) {
	for _, s := range block.Stmts {
		dumpStmt(b, s, depth)
	}
	if block.Tail != nil {
		indent(b, depth)
		fmt.Fprintln(b, block.Tail.String())
	}
}

func dumpStmt(b *strings.Builder, s Stmt, depth int) {
	indent(b, depth)
	fmt.Fprintln(b, s.String())
	switch stmt := s.(type) {
	case *IfStmt:
		dumpBlockExpr(b, &BlockExpr{Stmts: stmt.Then.Stmts}, depth+1)
		if stmt.Else != nil {
			dumpStmt(b, stmt.Else, depth+1)
		}
	case *WhileStmt:
		dumpBlockExpr(b, &BlockExpr{Stmts: stmt.Body.Stmts}, depth+1)
	case *ForStmt:
		dumpBlockExpr(b, &BlockExpr{Stmts: stmt.Body.Stmts}, depth+1)
	case *ForInStmt:
		dumpBlockExpr(b, &BlockExpr{Stmts: stmt.Body.Stmts}, depth+1)
	case *BlockStmt:
		dumpBlockExpr(b, &BlockExpr{Stmts: stmt.Stmts}, depth+1)
	case *MustBlockStmt:
		dumpBlockExpr(b, &BlockExpr{Stmts: stmt.Body.Stmts}, depth+1)
	case *MatchStmt:
		for _, arm := range stmt.Arms {
			indent(b, depth+1)
			fmt.Fprintln(b, arm.Pattern.String(), "=>")
			dumpBlockExpr(b, arm.Body, depth+2)
		}
	}
}
