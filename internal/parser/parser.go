// Package parser turns a token stream into an ast.Program using a
// recursive-descent/Pratt-expression shape: curToken/peekToken with
// two-token lookahead, prefix/infix function tables keyed by
// lexer.TokenType, and a flat []error collected on the Parser rather
// than returned eagerly so the caller sees every syntax error in one
// pass.
package parser

import (
	"fmt"

	"github.com/cm-lang/cmc/internal/ast"
	"github.com/cm-lang/cmc/internal/diag"
	"github.com/cm-lang/cmc/internal/lexer"
	"github.com/cm-lang/cmc/internal/sourcemap"
)

type (
	prefixParseFn func() ast.Expr
	infixParseFn  func(ast.Expr) ast.Expr
)

// Precedence levels, lowest to highest.
const (
	LOWEST int = iota
	LOGICALOR
	LOGICALAND
	BITOR
	BITXOR
	BITAND
	EQUALS
	LESSGREATER
	SHIFT
	SUM
	PRODUCT
	CAST // `as`
	PREFIX
	CALL
	INDEX
	FIELD
)

var precedences = map[lexer.TokenType]int{
	lexer.OR:        LOGICALOR,
	lexer.AND:       LOGICALAND,
	lexer.BITOR:     BITOR,
	lexer.BITXOR:    BITXOR,
	lexer.BITAND:    BITAND,
	lexer.EQ:        EQUALS,
	lexer.NEQ:       EQUALS,
	lexer.LT:        LESSGREATER,
	lexer.GT:        LESSGREATER,
	lexer.LTE:       LESSGREATER,
	lexer.GTE:       LESSGREATER,
	lexer.SHL:       SHIFT,
	lexer.SHR:       SHIFT,
	lexer.PLUS:      SUM,
	lexer.MINUS:     SUM,
	lexer.STAR:      PRODUCT,
	lexer.SLASH:     PRODUCT,
	lexer.PERCENT:   PRODUCT,
	lexer.AS:        CAST,
	lexer.LPAREN:    CALL,
	lexer.LBRACKET:  INDEX,
	lexer.DOT:       FIELD,
}

// Parser parses a single unified-source token stream.
type Parser struct {
	l         *lexer.Lexer
	file      string
	curToken  lexer.Token
	peekToken lexer.Token
	errors    []*diag.Report

	prefixParseFns map[lexer.TokenType]prefixParseFn
	infixParseFns  map[lexer.TokenType]infixParseFn

	// inControlHeader suppresses struct-literal parsing while inside an
	// if/while/for condition, resolving the same `{` ambiguity Go
	// resolves by requiring parens around a composite literal there.
	inControlHeader bool
}

// New creates a Parser over l, reporting positions against file (the
// unified source's logical name, not yet back-mapped).
func New(l *lexer.Lexer, file string) *Parser {
	p := &Parser{l: l, file: file}

	p.prefixParseFns = map[lexer.TokenType]prefixParseFn{}
	p.registerPrefix(lexer.IDENT, p.parseIdentOrSpecialCall)
	p.registerPrefix(lexer.INT, p.parseIntLit)
	p.registerPrefix(lexer.FLOAT, p.parseFloatLit)
	p.registerPrefix(lexer.STRING, p.parseStringLit)
	p.registerPrefix(lexer.RAWSTRING, p.parseRawStringLit)
	p.registerPrefix(lexer.CHAR, p.parseCharLit)
	p.registerPrefix(lexer.TRUE, p.parseBoolLit)
	p.registerPrefix(lexer.FALSE, p.parseBoolLit)
	p.registerPrefix(lexer.NULL, p.parseNullLit)
	p.registerPrefix(lexer.LPAREN, p.parseGroupedExpr)
	p.registerPrefix(lexer.LBRACKET, p.parseArrayLit)
	p.registerPrefix(lexer.MINUS, p.parsePrefixExpr)
	p.registerPrefix(lexer.NOT, p.parsePrefixExpr)
	p.registerPrefix(lexer.BITNOT, p.parsePrefixExpr)
	p.registerPrefix(lexer.AMP, p.parsePrefixExpr)
	p.registerPrefix(lexer.STAR, p.parsePrefixExpr)
	p.registerPrefix(lexer.MATCH, p.parseMatchExpr)
	p.registerPrefix(lexer.MOVE, p.parseMoveExpr)
	p.registerPrefix(lexer.SELF, p.parseIdentOrSpecialCall)

	p.infixParseFns = map[lexer.TokenType]infixParseFn{}
	for _, t := range []lexer.TokenType{
		lexer.PLUS, lexer.MINUS, lexer.STAR, lexer.SLASH, lexer.PERCENT,
		lexer.EQ, lexer.NEQ, lexer.LT, lexer.GT, lexer.LTE, lexer.GTE,
		lexer.AND, lexer.OR, lexer.BITAND, lexer.BITOR, lexer.BITXOR,
		lexer.SHL, lexer.SHR,
	} {
		p.registerInfix(t, p.parseBinaryExpr)
	}
	p.registerInfix(lexer.LPAREN, p.parseCallExpr)
	p.registerInfix(lexer.LBRACKET, p.parseIndexExpr)
	p.registerInfix(lexer.DOT, p.parseFieldExpr)
	p.registerInfix(lexer.AS, p.parseCastExpr)

	p.nextToken()
	p.nextToken()
	return p
}

func (p *Parser) registerPrefix(t lexer.TokenType, fn prefixParseFn) { p.prefixParseFns[t] = fn }
func (p *Parser) registerInfix(t lexer.TokenType, fn infixParseFn)   { p.infixParseFns[t] = fn }

// Errors returns every diagnostic accumulated while parsing.
func (p *Parser) Errors() []*diag.Report { return p.errors }

func (p *Parser) nextToken() {
	p.curToken = p.peekToken
	p.peekToken = p.l.NextToken()
}

func (p *Parser) curTokenIs(t lexer.TokenType) bool  { return p.curToken.Type == t }
func (p *Parser) peekTokenIs(t lexer.TokenType) bool { return p.peekToken.Type == t }

func (p *Parser) peekPrecedence() int {
	if pr, ok := precedences[p.peekToken.Type]; ok {
		return pr
	}
	return LOWEST
}

func (p *Parser) curPrecedence() int {
	if pr, ok := precedences[p.curToken.Type]; ok {
		return pr
	}
	return LOWEST
}

// expect advances past curToken if it has type t, else reports
// diag.PAR001UnexpectedToken and leaves curToken in place so the caller
// can still make forward progress.
func (p *Parser) expect(t lexer.TokenType) bool {
	if p.curTokenIs(t) {
		p.nextToken()
		return true
	}
	p.reportf(diag.PAR001UnexpectedToken, "expected %s, got %s (%q)", t, p.curToken.Type, p.curToken.Literal)
	return false
}

func (p *Parser) pos() sourcemap.Pos {
	return sourcemap.Pos{Line: p.curToken.Line, Column: p.curToken.Column, Offset: p.curToken.Offset}
}

func tokenSpan(t lexer.Token) sourcemap.Span {
	start := sourcemap.Pos{Line: t.Line, Column: t.Column, Offset: t.Offset}
	end := sourcemap.Pos{Line: t.Line, Column: t.Column + len(t.Literal), Offset: t.Offset + len(t.Literal)}
	return sourcemap.Span{Start: start, End: end}
}

func (p *Parser) spanFrom(start sourcemap.Pos) sourcemap.Span {
	return sourcemap.Span{Start: start, End: sourcemap.Pos{
		Line: p.curToken.Line, Column: p.curToken.Column, Offset: p.curToken.Offset,
	}}
}

func (p *Parser) report(code, message string) {
	r := diag.New(diag.PhaseParse, code, message).WithSpan(tokenSpan(p.curToken)).WithFile(p.file)
	p.errors = append(p.errors, r)
}

func (p *Parser) reportf(code, format string, args ...any) {
	p.report(code, fmt.Sprintf(format, args...))
}

// ParseProgram parses the whole token stream into an ast.Program,
// recovering from a panic in any sub-parser into a single
// diag.INT002InvariantFailure report rather than crashing the process.
func (p *Parser) ParseProgram() (prog *ast.Program) {
	defer func() {
		if r := recover(); r != nil {
			p.reportf(diag.INT002InvariantFailure, "parser panic: %v", r)
			if prog == nil {
				prog = &ast.Program{Filename: p.file}
			}
		}
	}()

	prog = &ast.Program{Filename: p.file}
	for !p.curTokenIs(lexer.EOF) {
		before := p.curToken
		if d := p.parseTopLevelDecl(); d != nil {
			prog.Declarations = append(prog.Declarations, d)
		}
		if p.curToken == before && !p.curTokenIs(lexer.EOF) {
			// Parser stuck: the sub-parser consumed nothing. Force
			// progress so a single bad token can't loop forever.
			p.reportf(diag.PAR004ParserStuck, "parser made no progress at %s, skipping token", p.curToken.Type)
			p.nextToken()
		}
	}
	return prog
}
