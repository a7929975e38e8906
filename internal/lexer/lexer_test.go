package lexer

import (
	"testing"

	"github.com/stratum-lang/stratum/internal/token"
)

func TestNextTokenBasics(t *testing.T) {
	input := "Nat.zero: Nat\nNat.succ: Nat -> Nat\n?x := f(?x, y)\nT :=== U"

	tests := []struct {
		wantType    token.Type
		wantLiteral string
	}{
		{token.IDENT, "Nat.zero"},
		{token.COLON, ""},
		{token.IDENT, "Nat"},
		{token.NEWLINE, ""},
		{token.IDENT, "Nat.succ"},
		{token.COLON, ""},
		{token.IDENT, "Nat"},
		{token.ARROW, ""},
		{token.IDENT, "Nat"},
		{token.NEWLINE, ""},
		{token.PATVAR, "x"},
		{token.DEFINE, ""},
		{token.IDENT, "f"},
		{token.LPAREN, ""},
		{token.PATVAR, "x"},
		{token.COMMA, ""},
		{token.IDENT, "y"},
		{token.RPAREN, ""},
		{token.NEWLINE, ""},
		{token.IDENT, "T"},
		{token.EQUALCHECK, ""},
		{token.IDENT, "U"},
		{token.EOF, ""},
	}

	l := New("test.strat", input)
	for i, tt := range tests {
		tok := l.NextToken()
		if tok.Type != tt.wantType {
			t.Fatalf("token %d: type = %v, want %v (lexeme %q)", i, tok.Type, tt.wantType, tok.Lexeme)
		}
		if tt.wantLiteral != "" && tok.Literal != tt.wantLiteral {
			t.Fatalf("token %d: literal = %q, want %q", i, tok.Literal, tt.wantLiteral)
		}
	}
}

func TestNextTokenLevelLiteral(t *testing.T) {
	l := New("test.strat", "0l 3l type(0l)")
	want := []token.Type{token.LEVEL, token.LEVEL, token.TYPE, token.LPAREN, token.LEVEL, token.RPAREN, token.EOF}
	for i, wt := range want {
		tok := l.NextToken()
		if tok.Type != wt {
			t.Fatalf("token %d: type = %v, want %v", i, tok.Type, wt)
		}
	}
}

func TestNextTokenComment(t *testing.T) {
	l := New("test.strat", "# a comment\nNat")
	tok := l.NextToken()
	if tok.Type != token.NEWLINE {
		t.Fatalf("expected newline after comment, got %v", tok.Type)
	}
	tok = l.NextToken()
	if tok.Type != token.IDENT || tok.Literal != "Nat" {
		t.Fatalf("expected ident Nat, got %v %q", tok.Type, tok.Literal)
	}
}
