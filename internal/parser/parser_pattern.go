package parser

import (
	"github.com/cm-lang/cmc/internal/ast"
	"github.com/cm-lang/cmc/internal/lexer"
)

// parsePattern parses one match-arm pattern: wildcard, literal, bound identifier, enum variant
// (with optional payload binding), numeric range, or an `|`-separated
// alternative group.
func (p *Parser) parsePattern() ast.Pattern {
	first := p.parseSinglePattern()
	if !p.curTokenIs(lexer.BITOR) {
		return first
	}
	alts := []ast.Pattern{first}
	for p.curTokenIs(lexer.BITOR) {
		p.nextToken()
		alts = append(alts, p.parseSinglePattern())
	}
	return &ast.OrPattern{Alternatives: alts, Span: first.Position()}
}

func (p *Parser) parseSinglePattern() ast.Pattern {
	start := p.pos()

	if p.curTokenIs(lexer.IDENT) && p.curToken.Literal == "_" {
		p.nextToken()
		return &ast.WildcardPattern{Span: p.spanFrom(start)}
	}

	switch p.curToken.Type {
	case lexer.INT, lexer.FLOAT, lexer.STRING, lexer.CHAR, lexer.TRUE, lexer.FALSE:
		lit := p.parseExpr(LOWEST)
		// A range pattern is two adjacent DOT tokens (the lexer never
		// merges "1..5" into one ELLIPSIS token — that one is reserved
		// for the "..." three-dot spelling); `..=` makes it inclusive.
		if p.curTokenIs(lexer.DOT) && p.peekTokenIs(lexer.DOT) {
			p.nextToken()
			p.nextToken()
			inclusive := false
			if p.curTokenIs(lexer.ASSIGN) {
				inclusive = true
				p.nextToken()
			}
			high := p.parseExpr(LOWEST)
			return &ast.RangePattern{Low: lit, High: high, Inclusive: inclusive, Span: p.spanFrom(start)}
		}
		return &ast.LiteralPattern{Value: lit, Span: p.spanFrom(start)}
	case lexer.IDENT:
		name := p.curToken.Literal
		p.nextToken()
		if p.curTokenIs(lexer.LPAREN) {
			p.nextToken()
			binding := ""
			hasBinding := false
			if p.curTokenIs(lexer.IDENT) {
				binding = p.curToken.Literal
				hasBinding = true
				p.nextToken()
			}
			p.expect(lexer.RPAREN)
			return &ast.VariantPattern{Variant: name, Binding: binding, HasBinding: hasBinding, Span: p.spanFrom(start)}
		}
		if isUpper(name) {
			return &ast.VariantPattern{Variant: name, Span: p.spanFrom(start)}
		}
		return &ast.IdentPattern{Name: name, Span: p.spanFrom(start)}
	default:
		p.reportf("PAR001", "unexpected token in pattern: %s", p.curToken.Type)
		p.nextToken()
		return &ast.WildcardPattern{Span: p.spanFrom(start)}
	}
}

func isUpper(s string) bool {
	return len(s) > 0 && s[0] >= 'A' && s[0] <= 'Z'
}

// parseMatchArms parses the shared `{ pattern [if guard] => { ... } , ... }`
// body for both match-as-expression and match-as-statement.
func (p *Parser) parseMatchArms() []ast.MatchArm {
	p.expect(lexer.LBRACE)
	var arms []ast.MatchArm
	for !p.curTokenIs(lexer.RBRACE) && !p.curTokenIs(lexer.EOF) {
		pat := p.parsePattern()
		var guard ast.Expr
		if p.curTokenIs(lexer.IF) {
			p.nextToken()
			guard = p.parseExpr(LOWEST)
		}
		p.expect(lexer.FARROW)
		body := p.parseArmBody()
		arms = append(arms, ast.MatchArm{Pattern: pat, Guard: guard, Body: body})
		if p.curTokenIs(lexer.COMMA) {
			p.nextToken()
		}
	}
	p.expect(lexer.RBRACE)
	return arms
}

// parseArmBody accepts either a braced block or a single statement
// terminated by `;`, both folded into a BlockExpr.
func (p *Parser) parseArmBody() *ast.BlockExpr {
	start := p.pos()
	if p.curTokenIs(lexer.LBRACE) {
		return p.parseBlockExpr()
	}
	stmt := p.parseStmt()
	return &ast.BlockExpr{Stmts: []ast.Stmt{stmt}, Span: p.spanFrom(start)}
}

func (p *Parser) parseMatchExpr() ast.Expr {
	start := p.pos()
	p.expect(lexer.MATCH)
	prevHeader := p.inControlHeader
	p.inControlHeader = true
	scrutinee := p.parseExpr(LOWEST)
	p.inControlHeader = prevHeader
	arms := p.parseMatchArms()
	return &ast.MatchExpr{Scrutinee: scrutinee, Arms: arms, Span: p.spanFrom(start)}
}
