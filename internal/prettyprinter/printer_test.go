package prettyprinter

import (
	"testing"

	"github.com/stratum-lang/stratum/internal/parser"
)

func parseOne(t *testing.T, src string) string {
	t.Helper()
	p := parser.New("test.st", src)
	f, diags := p.ParseFile()
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics for %q: %v", src, diags)
	}
	return New().PrintFile(f)
}

func TestPrintRoundTripsParse(t *testing.T) {
	cases := []string{
		"Nat : type(0l)\n",
		"Nat.succ : Nat -> Nat\n",
		"Vec.nil : (n: Nat) -> Vec(n)\n",
		"id : Nat -> Nat = \\x x\n",
		"Nat.add(?n, Nat.zero) := ?n\n",
		"Nat.add(Nat.zero, Nat.zero) :=== Nat.zero\n",
	}
	for _, src := range cases {
		printed := parseOne(t, src)
		reprinted := parseOne(t, printed)
		if printed != reprinted {
			t.Fatalf("print not idempotent for %q: first %q, second %q", src, printed, reprinted)
		}
	}
}

func TestPrintParenthesizesArrowNestedAsArrowInput(t *testing.T) {
	src := "f : (Nat -> Nat) -> Nat\n"
	printed := parseOne(t, src)
	if printed != src {
		t.Fatalf("expected the arrow input to stay parenthesized, got %q", printed)
	}
	reprinted := parseOne(t, printed)
	if printed != reprinted {
		t.Fatalf("print not idempotent for %q: first %q, second %q", src, printed, reprinted)
	}
}
