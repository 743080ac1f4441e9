package parser

import (
	"github.com/cm-lang/cmc/internal/ast"
	"github.com/cm-lang/cmc/internal/lexer"
)

func (p *Parser) parseIntLit() ast.Expr {
	tok := p.curToken
	lit := &ast.IntLit{Value: tok.Payload.Int, Raw: tok.Literal, Span: tokenSpan(tok)}
	p.nextToken()
	return lit
}

func (p *Parser) parseFloatLit() ast.Expr {
	tok := p.curToken
	lit := &ast.FloatLit{Value: tok.Payload.Float, Raw: tok.Literal, Span: tokenSpan(tok)}
	p.nextToken()
	return lit
}

func (p *Parser) parseStringLit() ast.Expr {
	tok := p.curToken
	lit := &ast.StringLit{Value: tok.Literal, Span: tokenSpan(tok)}
	p.nextToken()
	return lit
}

func (p *Parser) parseRawStringLit() ast.Expr {
	tok := p.curToken
	lit := &ast.StringLit{Value: tok.Literal, Raw: true, Span: tokenSpan(tok)}
	p.nextToken()
	return lit
}

func (p *Parser) parseCharLit() ast.Expr {
	tok := p.curToken
	r := rune(0)
	if len(tok.Literal) > 0 {
		r = []rune(tok.Literal)[0]
	}
	lit := &ast.CharLit{Value: r, Span: tokenSpan(tok)}
	p.nextToken()
	return lit
}

func (p *Parser) parseBoolLit() ast.Expr {
	tok := p.curToken
	lit := &ast.BoolLit{Value: tok.Type == lexer.TRUE, Span: tokenSpan(tok)}
	p.nextToken()
	return lit
}

func (p *Parser) parseNullLit() ast.Expr {
	tok := p.curToken
	p.nextToken()
	return &ast.NullLit{Span: tokenSpan(tok)}
}
