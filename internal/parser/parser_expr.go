package parser

import (
	"github.com/cm-lang/cmc/internal/ast"
	"github.com/cm-lang/cmc/internal/diag"
	"github.com/cm-lang/cmc/internal/lexer"
	"github.com/cm-lang/cmc/internal/sourcemap"
)

// parseExpr is the Pratt-parsing core: collect a prefix term, then fold
// in infix/postfix operators while the next operator binds tighter
// than minPrec.
func (p *Parser) parseExpr(minPrec int) ast.Expr {
	prefix, ok := p.prefixParseFns[p.curToken.Type]
	if !ok {
		p.reportf(diag.PAR001UnexpectedToken, "unexpected token in expression: %s (%q)", p.curToken.Type, p.curToken.Literal)
		tok := p.curToken
		p.nextToken()
		return &ast.Ident{Name: "<error>", Span: tokenSpan(tok)}
	}
	left := prefix()

	for !p.curTokenIs(lexer.SEMI) && minPrec < p.curPrecedence() {
		infix, ok := p.infixParseFns[p.curToken.Type]
		if !ok {
			return left
		}
		left = infix(left)
	}
	return left
}

func (p *Parser) parseGroupedExpr() ast.Expr {
	p.nextToken() // consume '('
	expr := p.parseExpr(LOWEST)
	p.expect(lexer.RPAREN)
	return expr
}

func (p *Parser) parseArrayLit() ast.Expr {
	start := p.pos()
	p.expect(lexer.LBRACKET)
	var elems []ast.Expr
	for !p.curTokenIs(lexer.RBRACKET) && !p.curTokenIs(lexer.EOF) {
		elems = append(elems, p.parseExpr(LOWEST))
		if p.curTokenIs(lexer.COMMA) {
			p.nextToken()
		}
	}
	p.expect(lexer.RBRACKET)
	return &ast.ArrayLiteralExpr{Elements: elems, Span: p.spanFrom(start)}
}

func (p *Parser) parsePrefixExpr() ast.Expr {
	tok := p.curToken
	start := p.pos()
	p.nextToken()
	operand := p.parseExpr(PREFIX)
	return &ast.UnaryExpr{Op: tok.Literal, Operand: operand, Prefix: true, Span: p.spanFrom(start)}
}

func (p *Parser) parseBinaryExpr(left ast.Expr) ast.Expr {
	tok := p.curToken
	start := left.Position().Start
	prec := p.curPrecedence()
	p.nextToken()
	right := p.parseExpr(prec)
	return &ast.BinaryExpr{Op: tok.Literal, Left: left, Right: right, Span: p.spanFrom(start)}
}

func (p *Parser) parseCastExpr(left ast.Expr) ast.Expr {
	start := left.Position().Start
	p.expect(lexer.AS)
	target := p.parseType()
	return &ast.CastExpr{Operand: left, Target: target, Span: p.spanFrom(start)}
}

func (p *Parser) parseIndexExpr(left ast.Expr) ast.Expr {
	start := left.Position().Start
	p.expect(lexer.LBRACKET)
	idx := p.parseExpr(LOWEST)
	p.expect(lexer.RBRACKET)
	return &ast.IndexExpr{Array: left, Index: idx, Span: p.spanFrom(start)}
}

func (p *Parser) parseFieldExpr(left ast.Expr) ast.Expr {
	start := left.Position().Start
	p.expect(lexer.DOT)
	name := p.curToken.Literal
	p.expect(lexer.IDENT)
	return &ast.FieldExpr{Target: left, Field: name, Span: p.spanFrom(start)}
}

func (p *Parser) parseCallExpr(callee ast.Expr) ast.Expr {
	start := callee.Position().Start
	p.expect(lexer.LPAREN)
	var args []ast.Expr
	for !p.curTokenIs(lexer.RPAREN) && !p.curTokenIs(lexer.EOF) {
		args = append(args, p.parseExpr(LOWEST))
		if p.curTokenIs(lexer.COMMA) {
			p.nextToken()
		}
	}
	p.expect(lexer.RPAREN)
	return &ast.CallExpr{Callee: callee, Args: args, Span: p.spanFrom(start)}
}

func (p *Parser) parseMoveExpr() ast.Expr {
	start := p.pos()
	p.expect(lexer.MOVE)
	p.expect(lexer.LPAREN)
	operand := p.parseExpr(LOWEST)
	p.expect(lexer.RPAREN)
	return &ast.MoveExpr{Operand: operand, Span: p.spanFrom(start)}
}

// parseIdentOrSpecialCall handles a bare identifier, a `sizeof(T)` /
// `alignof(T)` builtin (which take a type, not an expression, as their
// sole argument so they can't go through the ordinary CallExpr path),
// optional explicit type arguments (`identity<int>(5)`), and a struct
// literal when the identifier is immediately followed by `{` outside a
// control-header condition.
func (p *Parser) parseIdentOrSpecialCall() ast.Expr {
	tok := p.curToken
	start := p.pos()
	name := tok.Literal
	p.nextToken()

	if (name == "sizeof" || name == "alignof") && p.curTokenIs(lexer.LPAREN) {
		p.nextToken()
		target := p.parseType()
		p.expect(lexer.RPAREN)
		if name == "sizeof" {
			return &ast.SizeofExpr{Target: target, Span: p.spanFrom(start)}
		}
		return &ast.AlignofExpr{Target: target, Span: p.spanFrom(start)}
	}

	ident := &ast.Ident{Name: name, Span: p.spanFrom(start)}

	if p.curTokenIs(lexer.LT) && p.looksLikeTypeArgList() {
		targs := p.parseTypeArgList()
		if p.curTokenIs(lexer.LPAREN) {
			call := p.parseCallExpr(ident).(*ast.CallExpr)
			call.TypeArgs = targs
			return call
		}
	}

	if !p.inControlHeader && p.curTokenIs(lexer.LBRACE) {
		return p.parseStructLiteral(ident.Name, start)
	}

	return ident
}

// looksLikeTypeArgList is a syntactic heuristic: `<` starts a type
// argument list only when it is plausibly followed by a type and a
// closing `>`/`>>` immediately before a `(`. Grammar ambiguity between
// `<` (less-than) and a generic open is resolved the same way most
// C-family generics parsers resolve it: by this kind of bounded
// lookahead rather than a full backtracking parse.
func (p *Parser) looksLikeTypeArgList() bool {
	switch p.peekToken.Type {
	case lexer.IDENT, lexer.STAR, lexer.AMP, lexer.LBRACKET, lexer.CONST, lexer.FUNC:
		return true
	default:
		return false
	}
}

func (p *Parser) parseStructLiteral(typeName string, start sourcemap.Pos) ast.Expr {
	p.expect(lexer.LBRACE)
	var fields []ast.StructFieldInit
	for !p.curTokenIs(lexer.RBRACE) && !p.curTokenIs(lexer.EOF) {
		fname := p.curToken.Literal
		p.expect(lexer.IDENT)
		p.expect(lexer.COLON)
		fields = append(fields, ast.StructFieldInit{Name: fname, Value: p.parseExpr(LOWEST)})
		if p.curTokenIs(lexer.COMMA) {
			p.nextToken()
		}
	}
	p.expect(lexer.RBRACE)
	return &ast.StructLiteralExpr{TypeName: typeName, Fields: fields, Span: p.spanFrom(start)}
}
