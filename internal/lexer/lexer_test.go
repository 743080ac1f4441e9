package lexer

import "testing"

func TestNextTokenBasics(t *testing.T) {
	input := `func main() -> int {
		let x: int = 42;
		return x + 1;
	}`

	expected := []TokenType{
		FUNC, IDENT, LPAREN, RPAREN, ARROW, IDENT, LBRACE,
		LET, IDENT, COLON, IDENT, ASSIGN, INT, SEMI,
		RETURN, IDENT, PLUS, INT, SEMI,
		RBRACE, EOF,
	}

	l := New(input, "test.cm")
	for i, want := range expected {
		tok := l.NextToken()
		if tok.Type != want {
			t.Fatalf("token %d: want %s, got %s (%q)", i, want, tok.Type, tok.Literal)
		}
	}
}

func TestOperators(t *testing.T) {
	input := `+ - * / % == != <= >= << >> && || += -= *= /= %= -> =>`
	expected := []TokenType{
		PLUS, MINUS, STAR, SLASH, PERCENT, EQ, NEQ, LTE, GTE,
		SHL, SHR, AND, OR, PLUSEQ, MINUSEQ, STAREQ, SLASHEQ, PERCENTEQ,
		ARROW, FARROW, EOF,
	}
	l := New(input, "test.cm")
	for i, want := range expected {
		tok := l.NextToken()
		if tok.Type != want {
			t.Fatalf("token %d: want %s, got %s (%q)", i, want, tok.Type, tok.Literal)
		}
	}
}

func TestStringAndEscapes(t *testing.T) {
	l := New(`"hello\nworld"`, "test.cm")
	tok := l.NextToken()
	if tok.Type != STRING {
		t.Fatalf("want STRING, got %s", tok.Type)
	}
	if tok.Literal != "hello\nworld" {
		t.Fatalf("want %q, got %q", "hello\nworld", tok.Literal)
	}
}

func TestRawString(t *testing.T) {
	l := New("r\"line1\\nline2\"", "test.cm")
	tok := l.NextToken()
	if tok.Type != RAWSTRING {
		t.Fatalf("want RAWSTRING, got %s", tok.Type)
	}
	if tok.Literal != `line1\nline2` {
		t.Fatalf("raw string should not interpret escapes, got %q", tok.Literal)
	}
}

func TestRawStringTripleIndentStrip(t *testing.T) {
	src := "r\"\"\"\n    line1\n    line2\n    \"\"\""
	l := New(src, "test.cm")
	tok := l.NextToken()
	if tok.Type != RAWSTRING {
		t.Fatalf("want RAWSTRING, got %s", tok.Type)
	}
	want := "\nline1\nline2\n"
	if tok.Literal != want {
		t.Fatalf("want %q, got %q", want, tok.Literal)
	}
}

func TestNumericLiterals(t *testing.T) {
	cases := []struct {
		src  string
		typ  TokenType
		want int64
	}{
		{"0x1F", INT, 31},
		{"0b1010", INT, 10},
		{"017", INT, 15},
		{"42", INT, 42},
	}
	for _, c := range cases {
		l := New(c.src, "test.cm")
		tok := l.NextToken()
		if tok.Type != c.typ {
			t.Fatalf("%s: want %s, got %s", c.src, c.typ, tok.Type)
		}
		if tok.Payload.Int != c.want {
			t.Fatalf("%s: want payload %d, got %d", c.src, c.want, tok.Payload.Int)
		}
	}
}

func TestFloatLiteral(t *testing.T) {
	l := New("3.14e2", "test.cm")
	tok := l.NextToken()
	if tok.Type != FLOAT {
		t.Fatalf("want FLOAT, got %s", tok.Type)
	}
	if tok.Payload.Float != 314 {
		t.Fatalf("want 314, got %v", tok.Payload.Float)
	}
}

func TestCommentsSkipped(t *testing.T) {
	src := `// line comment
	let x = 1; /* block
	comment */ let y = 2;`
	l := New(src, "test.cm")
	var types []TokenType
	for {
		tok := l.NextToken()
		types = append(types, tok.Type)
		if tok.Type == EOF {
			break
		}
	}
	want := []TokenType{LET, IDENT, ASSIGN, INT, SEMI, LET, IDENT, ASSIGN, INT, SEMI, EOF}
	if len(types) != len(want) {
		t.Fatalf("want %d tokens, got %d: %v", len(want), len(types), types)
	}
	for i := range want {
		if types[i] != want[i] {
			t.Fatalf("token %d: want %s, got %s", i, want[i], types[i])
		}
	}
}

func TestSpanTracking(t *testing.T) {
	l := New("let x", "test.cm")
	tok := l.NextToken() // let
	if tok.Line != 1 || tok.Column != 1 {
		t.Fatalf("want 1:1, got %d:%d", tok.Line, tok.Column)
	}
	tok = l.NextToken() // x
	if tok.Column != 5 {
		t.Fatalf("want column 5, got %d", tok.Column)
	}
}

func TestGenericDoubleAngle(t *testing.T) {
	// The lexer itself does not special-case >>; splitting a trailing >>
	// into two '>' tokens for nested generics is the parser's job
	//.
	l := New("Box<Box<int>>", "test.cm")
	var types []TokenType
	for {
		tok := l.NextToken()
		types = append(types, tok.Type)
		if tok.Type == EOF {
			break
		}
	}
	want := []TokenType{IDENT, LT, IDENT, LT, IDENT, SHR, EOF}
	if len(types) != len(want) {
		t.Fatalf("want %v, got %v", want, types)
	}
}
