package parser

import (
	"github.com/cm-lang/cmc/internal/ast"
	"github.com/cm-lang/cmc/internal/lexer"
)

var assignOps = map[lexer.TokenType]string{
	lexer.ASSIGN:    "=",
	lexer.PLUSEQ:    "+=",
	lexer.MINUSEQ:   "-=",
	lexer.STAREQ:    "*=",
	lexer.SLASHEQ:   "/=",
	lexer.PERCENTEQ: "%=",
}

// parseBlockExpr parses `{ stmt... }` into a statement list. Every
// statement, the last one included, is parsed by parseStmt and must end
// with its `;`; the parser never sets the block's Tail.
func (p *Parser) parseBlockExpr() *ast.BlockExpr {
	start := p.pos()
	p.expect(lexer.LBRACE)
	var stmts []ast.Stmt
	for !p.curTokenIs(lexer.RBRACE) && !p.curTokenIs(lexer.EOF) {
		stmts = append(stmts, p.parseStmt())
	}
	p.expect(lexer.RBRACE)
	return &ast.BlockExpr{Stmts: stmts, Span: p.spanFrom(start)}
}

func (p *Parser) parseBlockStmt() *ast.BlockStmt {
	b := p.parseBlockExpr()
	return &ast.BlockStmt{Stmts: b.Stmts, Span: b.Span}
}

// parseStmt dispatches on the leading token of a statement.
func (p *Parser) parseStmt() ast.Stmt {
	switch p.curToken.Type {
	case lexer.LET:
		return p.parseLetStmt()
	case lexer.RETURN:
		return p.parseReturnStmt()
	case lexer.IF:
		return p.parseIfStmt()
	case lexer.WHILE:
		return p.parseWhileStmt()
	case lexer.FOR:
		return p.parseForStmt()
	case lexer.BREAK:
		start := p.pos()
		p.nextToken()
		p.expect(lexer.SEMI)
		return &ast.BreakStmt{Span: p.spanFrom(start)}
	case lexer.CONTINUE:
		start := p.pos()
		p.nextToken()
		p.expect(lexer.SEMI)
		return &ast.ContinueStmt{Span: p.spanFrom(start)}
	case lexer.DEFER:
		return p.parseDeferStmt()
	case lexer.MUST:
		start := p.pos()
		p.nextToken()
		body := p.parseBlockStmt()
		return &ast.MustBlockStmt{Body: body, Span: p.spanFrom(start)}
	case lexer.MATCH:
		return p.parseMatchStmt()
	case lexer.LBRACE:
		return p.parseBlockStmt()
	case lexer.IDENT:
		if p.curToken.Literal == "__llvm__" {
			return p.parseAsmStmt()
		}
		return p.parseSimpleStmt()
	default:
		return p.parseSimpleStmt()
	}
}

func (p *Parser) parseLetStmt() ast.Stmt {
	start := p.pos()
	p.expect(lexer.LET)
	name := p.curToken.Literal
	p.expect(lexer.IDENT)
	var typ ast.Type
	if p.curTokenIs(lexer.COLON) {
		p.nextToken()
		typ = p.parseType()
	}
	var init ast.Expr
	if p.curTokenIs(lexer.ASSIGN) {
		p.nextToken()
		init = p.parseExpr(LOWEST)
	}
	p.expect(lexer.SEMI)
	return &ast.LetStmt{Name: name, Type: typ, Init: init, Span: p.spanFrom(start)}
}

func (p *Parser) parseReturnStmt() ast.Stmt {
	start := p.pos()
	p.expect(lexer.RETURN)
	var val ast.Expr
	if !p.curTokenIs(lexer.SEMI) {
		val = p.parseExpr(LOWEST)
	}
	p.expect(lexer.SEMI)
	return &ast.ReturnStmt{Value: val, Span: p.spanFrom(start)}
}

func (p *Parser) parseCondHeader() ast.Expr {
	prev := p.inControlHeader
	p.inControlHeader = true
	cond := p.parseExpr(LOWEST)
	p.inControlHeader = prev
	return cond
}

func (p *Parser) parseIfStmt() ast.Stmt {
	start := p.pos()
	p.expect(lexer.IF)
	cond := p.parseCondHeader()
	then := p.parseBlockStmt()
	var els ast.Stmt
	if p.curTokenIs(lexer.ELSE) {
		p.nextToken()
		if p.curTokenIs(lexer.IF) {
			els = p.parseIfStmt()
		} else {
			els = p.parseBlockStmt()
		}
	}
	return &ast.IfStmt{Cond: cond, Then: then, Else: els, Span: p.spanFrom(start)}
}

func (p *Parser) parseWhileStmt() ast.Stmt {
	start := p.pos()
	p.expect(lexer.WHILE)
	cond := p.parseCondHeader()
	body := p.parseBlockStmt()
	return &ast.WhileStmt{Cond: cond, Body: body, Span: p.spanFrom(start)}
}

// parseForStmt parses both the C-style three-clause form
// `for (init; cond; post) { }` and the iterator form
// `for x in expr { }`.
func (p *Parser) parseForStmt() ast.Stmt {
	start := p.pos()
	p.expect(lexer.FOR)

	if p.curTokenIs(lexer.IDENT) && p.peekTokenIs(lexer.IN) {
		varName := p.curToken.Literal
		p.nextToken()
		p.expect(lexer.IN)
		iterable := p.parseCondHeader()
		body := p.parseBlockStmt()
		return &ast.ForInStmt{Var: varName, Iterable: iterable, Body: body, Span: p.spanFrom(start)}
	}

	p.expect(lexer.LPAREN)
	var init ast.Stmt
	if !p.curTokenIs(lexer.SEMI) {
		init = p.parseSimpleStmtNoSemi()
	}
	p.expect(lexer.SEMI)
	var cond ast.Expr
	if !p.curTokenIs(lexer.SEMI) {
		cond = p.parseExpr(LOWEST)
	}
	p.expect(lexer.SEMI)
	var post ast.Stmt
	if !p.curTokenIs(lexer.RPAREN) {
		post = p.parseSimpleStmtNoSemi()
	}
	p.expect(lexer.RPAREN)
	body := p.parseBlockStmt()
	return &ast.ForStmt{Init: init, Cond: cond, Post: post, Body: body, Span: p.spanFrom(start)}
}

func (p *Parser) parseDeferStmt() ast.Stmt {
	start := p.pos()
	p.expect(lexer.DEFER)
	call := p.parseExpr(LOWEST)
	p.expect(lexer.SEMI)
	return &ast.DeferStmt{Call: call, Span: p.spanFrom(start)}
}

func (p *Parser) parseMatchStmt() ast.Stmt {
	start := p.pos()
	p.expect(lexer.MATCH)
	scrutinee := p.parseCondHeader()
	arms := p.parseMatchArms()
	return &ast.MatchStmt{Scrutinee: scrutinee, Arms: arms, Span: p.spanFrom(start)}
}

func (p *Parser) parseAsmStmt() ast.Stmt {
	start := p.pos()
	p.nextToken() // consume `__llvm__`
	p.expect(lexer.LBRACE)
	template := ""
	if p.curTokenIs(lexer.STRING) || p.curTokenIs(lexer.RAWSTRING) {
		template = p.curToken.Literal
		p.nextToken()
	}
	for !p.curTokenIs(lexer.RBRACE) && !p.curTokenIs(lexer.EOF) {
		p.nextToken()
	}
	p.expect(lexer.RBRACE)
	return &ast.AsmStmt{Template: template, Span: p.spanFrom(start)}
}

// parseSimpleStmt parses an expression statement or an assignment,
// consuming the trailing `;`.
func (p *Parser) parseSimpleStmt() ast.Stmt {
	stmt := p.parseSimpleStmtNoSemi()
	p.expect(lexer.SEMI)
	return stmt
}

func (p *Parser) parseSimpleStmtNoSemi() ast.Stmt {
	start := p.pos()
	expr := p.parseExpr(LOWEST)
	if op, ok := assignOps[p.curToken.Type]; ok {
		p.nextToken()
		value := p.parseExpr(LOWEST)
		return &ast.AssignStmt{Target: expr, Op: op, Value: value, Span: p.spanFrom(start)}
	}
	return &ast.ExprStmt{X: expr, Span: p.spanFrom(start)}
}
