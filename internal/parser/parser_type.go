package parser

import (
	"github.com/cm-lang/cmc/internal/ast"
	"github.com/cm-lang/cmc/internal/diag"
	"github.com/cm-lang/cmc/internal/lexer"
	"github.com/cm-lang/cmc/internal/sourcemap"
)

var primKeywords = map[string]ast.PrimKind{
	"bool": ast.PrimBool, "i8": ast.PrimI8, "i16": ast.PrimI16, "i32": ast.PrimI32,
	"i64": ast.PrimI64, "isize": ast.PrimIsize, "u8": ast.PrimU8, "u16": ast.PrimU16,
	"u32": ast.PrimU32, "u64": ast.PrimU64, "usize": ast.PrimUsize, "f32": ast.PrimF32,
	"f64": ast.PrimF64, "char": ast.PrimChar, "string": ast.PrimString,
	"cstring": ast.PrimCString, "void": ast.PrimVoid, "null": ast.PrimNull,
}

// parseType parses one type expression. The
// trailing-`>>`-splitting case for nested generics (`Box<Box<int>>`) is
// handled in parseTypeArgList, which consumes a SHR token as two
// closing angle brackets when exactly one generic nesting level needs
// closing.
func (p *Parser) parseType() ast.Type {
	start := p.pos()

	isConst := false
	if p.curTokenIs(lexer.CONST) {
		isConst = true
		p.nextToken()
	}

	var t ast.Type
	switch {
	case p.curTokenIs(lexer.STAR):
		p.nextToken()
		t = &ast.PointerType{Elem: p.parseType(), Span: p.spanFrom(start)}
	case p.curTokenIs(lexer.AMP):
		p.nextToken()
		t = &ast.ReferenceType{Elem: p.parseType(), Span: p.spanFrom(start)}
	case p.curTokenIs(lexer.LBRACKET):
		t = p.parseArrayType(start)
	case p.curTokenIs(lexer.FUNC):
		t = p.parseFunctionPointerType(start)
	case p.curTokenIs(lexer.STRING) && p.isLiteralUnionStart():
		t = p.parseLiteralUnionType(start)
	case p.curTokenIs(lexer.IDENT):
		t = p.parseNamedOrPrimType(start)
	default:
		p.reportf(diag.PAR001UnexpectedToken, "expected a type, got %s", p.curToken.Type)
		t = &ast.ErrorType{Span: p.spanFrom(start)}
	}

	if isConst {
		t.Quals().IsConst = true
	}

	return t
}

func (p *Parser) isLiteralUnionStart() bool {
	return p.peekTokenIs(lexer.BITOR)
}

func (p *Parser) parseArrayType(start sourcemap.Pos) ast.Type {
	p.expect(lexer.LBRACKET)
	elem := p.parseType()
	var size ast.Expr
	if p.curTokenIs(lexer.SEMI) {
		p.nextToken()
		size = p.parseExpr(LOWEST)
	}
	p.expect(lexer.RBRACKET)
	return &ast.ArrayType{Elem: elem, Size: size, Span: p.spanFrom(start)}
}

func (p *Parser) parseFunctionPointerType(start sourcemap.Pos) ast.Type {
	p.expect(lexer.FUNC)
	p.expect(lexer.LPAREN)
	var params []ast.Type
	for !p.curTokenIs(lexer.RPAREN) && !p.curTokenIs(lexer.EOF) {
		params = append(params, p.parseType())
		if p.curTokenIs(lexer.COMMA) {
			p.nextToken()
		}
	}
	p.expect(lexer.RPAREN)
	var ret ast.Type = &ast.PrimitiveType{Kind: ast.PrimVoid}
	if p.curTokenIs(lexer.ARROW) {
		p.nextToken()
		ret = p.parseType()
	}
	return &ast.FunctionPointerType{Params: params, Return: ret, Span: p.spanFrom(start)}
}

func (p *Parser) parseLiteralUnionType(start sourcemap.Pos) ast.Type {
	var tags []string
	for {
		if p.curTokenIs(lexer.STRING) {
			tags = append(tags, p.curToken.Literal)
			p.nextToken()
		}
		if p.curTokenIs(lexer.BITOR) {
			p.nextToken()
			continue
		}
		break
	}
	return &ast.LiteralUnionType{Tags: tags, Span: p.spanFrom(start)}
}

func (p *Parser) parseNamedOrPrimType(start sourcemap.Pos) ast.Type {
	name := p.curToken.Literal
	p.nextToken()

	if kind, ok := primKeywords[name]; ok && !p.curTokenIs(lexer.LT) {
		return &ast.PrimitiveType{Kind: kind, Span: p.spanFrom(start)}
	}

	nt := &ast.NamedType{Name: name, Span: p.spanFrom(start)}
	if p.curTokenIs(lexer.LT) {
		nt.TypeArgs = p.parseTypeArgList()
		nt.Span = p.spanFrom(start)
	}
	return nt
}

// parseTypeArgList parses `< T, U, ... >`, splitting a trailing SHR
// (`>>`) token into two closes when the nesting needs exactly that
//.
func (p *Parser) parseTypeArgList() []ast.Type {
	p.expect(lexer.LT)
	var args []ast.Type
	for !p.curTokenIs(lexer.GT) && !p.curTokenIs(lexer.SHR) && !p.curTokenIs(lexer.EOF) {
		args = append(args, p.parseType())
		if p.curTokenIs(lexer.COMMA) {
			p.nextToken()
		}
	}
	p.closeAngle()
	return args
}

// closeAngle consumes one closing `>`, splitting a `>>` token in place
// into a bare `>` left for the enclosing parseTypeArgList call.
func (p *Parser) closeAngle() {
	if p.curTokenIs(lexer.SHR) {
		p.curToken.Type = lexer.GT
		p.curToken.Literal = ">"
		p.curToken.Column++
		p.curToken.Offset++
		return
	}
	p.expect(lexer.GT)
}
