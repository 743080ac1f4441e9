package lexer

import "fmt"

// TokenType enumerates every lexical category of the unified source
//. The keyword table below is fixed per the
// spec's invariant that keyword recognition never changes at runtime.
type TokenType int

const (
	ILLEGAL TokenType = iota
	EOF
	COMMENT

	IDENT
	INT
	FLOAT
	STRING
	RAWSTRING
	CHAR

	// Keywords
	FUNC
	STRUCT
	INTERFACE
	IMPL
	ENUM
	TYPEDEF
	CONST
	EXTERN
	USE
	MODULE
	NAMESPACE
	TEMPLATE
	MACRO
	LET
	IF
	ELSE
	MATCH
	FOR
	IN
	WHILE
	RETURN
	BREAK
	CONTINUE
	DEFER
	MUST
	MOVE
	IMPORT
	AS
	FROM
	EXPORT
	WHERE
	OPERATOR
	OVERLOAD
	SELF
	TRUE
	FALSE
	NULL

	// Operators & punctuation
	PLUS
	MINUS
	STAR
	SLASH
	PERCENT
	ASSIGN
	PLUSEQ
	MINUSEQ
	STAREQ
	SLASHEQ
	PERCENTEQ
	EQ
	NEQ
	LT
	GT
	LTE
	GTE
	AND
	OR
	NOT
	BITAND
	BITOR
	BITXOR
	BITNOT
	SHL
	SHR
	ARROW
	FARROW
	AMP // & (reference/address-of)
	QUESTION
	AT
	DOLLAR
	HASH
	COLON
	DCOLON
	SEMI
	COMMA
	DOT
	TILDE
	ELLIPSIS

	LPAREN
	RPAREN
	LBRACE
	RBRACE
	LBRACKET
	RBRACKET
)

var names = map[TokenType]string{
	ILLEGAL: "ILLEGAL", EOF: "EOF", COMMENT: "COMMENT",
	IDENT: "IDENT", INT: "INT", FLOAT: "FLOAT", STRING: "STRING",
	RAWSTRING: "RAWSTRING", CHAR: "CHAR",

	FUNC: "func", STRUCT: "struct", INTERFACE: "interface", IMPL: "impl",
	ENUM: "enum", TYPEDEF: "typedef", CONST: "const", EXTERN: "extern",
	USE: "use", MODULE: "module", NAMESPACE: "namespace", TEMPLATE: "template",
	MACRO: "macro", LET: "let", IF: "if", ELSE: "else", MATCH: "match",
	FOR: "for", IN: "in", WHILE: "while", RETURN: "return", BREAK: "break",
	CONTINUE: "continue", DEFER: "defer", MUST: "must", MOVE: "move",
	IMPORT: "import", AS: "as", FROM: "from", EXPORT: "export", WHERE: "where",
	OPERATOR: "operator", OVERLOAD: "overload", SELF: "self",
	TRUE: "true", FALSE: "false", NULL: "null",

	PLUS: "+", MINUS: "-", STAR: "*", SLASH: "/", PERCENT: "%",
	ASSIGN: "=", PLUSEQ: "+=", MINUSEQ: "-=", STAREQ: "*=", SLASHEQ: "/=",
	PERCENTEQ: "%=", EQ: "==", NEQ: "!=", LT: "<", GT: ">", LTE: "<=",
	GTE: ">=", AND: "&&", OR: "||", NOT: "!", BITAND: "&", BITOR: "|",
	BITXOR: "^", BITNOT: "~", SHL: "<<", SHR: ">>", ARROW: "->", FARROW: "=>",
	AMP: "&", QUESTION: "?", AT: "@", DOLLAR: "$", HASH: "#", COLON: ":",
	DCOLON: "::", SEMI: ";", COMMA: ",", DOT: ".", TILDE: "~", ELLIPSIS: "...",

	LPAREN: "(", RPAREN: ")", LBRACE: "{", RBRACE: "}", LBRACKET: "[", RBRACKET: "]",
}

func (t TokenType) String() string {
	if s, ok := names[t]; ok {
		return s
	}
	return fmt.Sprintf("TokenType(%d)", t)
}

var keywords = map[string]TokenType{
	"func": FUNC, "struct": STRUCT, "interface": INTERFACE, "impl": IMPL,
	"enum": ENUM, "typedef": TYPEDEF, "const": CONST, "extern": EXTERN,
	"use": USE, "module": MODULE, "namespace": NAMESPACE, "template": TEMPLATE,
	"macro": MACRO, "let": LET, "if": IF, "else": ELSE, "match": MATCH,
	"for": FOR, "in": IN, "while": WHILE, "return": RETURN, "break": BREAK,
	"continue": CONTINUE, "defer": DEFER, "must": MUST, "move": MOVE,
	"import": IMPORT, "as": AS, "from": FROM, "export": EXPORT, "where": WHERE,
	"operator": OPERATOR, "overload": OVERLOAD, "self": SELF,
	"true": TRUE, "false": FALSE, "null": NULL,
}

// LookupIdent maps an identifier to its keyword token type, or IDENT.
func LookupIdent(ident string) TokenType {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	return IDENT
}

// PayloadKind tags which field of Payload is meaningful.
type PayloadKind int

const (
	PayloadNone PayloadKind = iota
	PayloadInt
	PayloadFloat
	PayloadString
)

// Payload carries a literal's decoded value alongside its raw text
//").
type Payload struct {
	Kind   PayloadKind
	Int    int64
	Float  float64
	String string
}

// Token is a tagged kind plus span plus optional payload.
type Token struct {
	Type    TokenType
	Literal string
	Payload Payload
	Line    int
	Column  int
	Offset  int
	File    string
}

func NewToken(tokenType TokenType, literal string, line, column, offset int, file string) Token {
	return Token{Type: tokenType, Literal: literal, Line: line, Column: column, Offset: offset, File: file}
}

func (t Token) Position() string {
	return fmt.Sprintf("%s:%d:%d", t.File, t.Line, t.Column)
}

func (t Token) String() string {
	return fmt.Sprintf("Token{%s, %q, %s}", t.Type, t.Literal, t.Position())
}

func (t Token) IsKeyword() bool {
	_, ok := keywords[t.Literal]
	return ok && t.Type != IDENT
}
