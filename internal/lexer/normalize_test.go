package lexer

import (
	"bytes"
	"testing"
)

func TestNormalizeStripsBOM(t *testing.T) {
	src := append([]byte{0xEF, 0xBB, 0xBF}, []byte("let x = 5;")...)
	got := Normalize(src)
	if bytes.Equal(got, src) {
		t.Fatalf("BOM was not stripped")
	}
	if !bytes.Equal(got, []byte("let x = 5;")) {
		t.Fatalf("want %q, got %q", "let x = 5;", got)
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	src := []byte("func main() -> int { return 0; }")
	once := Normalize(src)
	twice := Normalize(once)
	if !bytes.Equal(once, twice) {
		t.Fatalf("Normalize should be idempotent")
	}
}

func TestNormalizeNFC(t *testing.T) {
	// "é" as combining sequence (e + U+0301) should normalize to
	// precomposed form under NFC.
	decomposed := []byte("café")
	composed := []byte("café")
	got := Normalize(decomposed)
	if !bytes.Equal(got, composed) {
		t.Fatalf("want NFC-normalized %q, got %q", composed, got)
	}
}
