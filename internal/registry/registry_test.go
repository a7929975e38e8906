package registry

import (
	"testing"

	"github.com/stratum-lang/stratum/internal/term"
)

func TestCreateAndLookup(t *testing.T) {
	r := New()
	nat := r.Create("Nat")
	if got, ok := r.Lookup("Nat"); !ok || got != nat {
		t.Fatalf("Lookup(Nat) = %v, %v; want %v, true", got, ok, nat)
	}
	if _, ok := r.Lookup("Missing"); ok {
		t.Fatalf("expected Lookup to fail for unregistered name")
	}
}

func TestOwnValueRoundTrip(t *testing.T) {
	r := New()
	nat := r.Create("Nat")
	if _, ok := r.OwnValue(nat); ok {
		t.Fatalf("expected fresh symbol to have no own-value")
	}
	r.SetOwnValue(nat, term.Universe{Subscript: term.Level{Value: 0}})
	v, ok := r.OwnValue(nat)
	if !ok || !term.Equal(v, term.Universe{Subscript: term.Level{Value: 0}}) {
		t.Fatalf("got %v, %v", v, ok)
	}
}

func TestDownValuesOrderPreserved(t *testing.T) {
	r := New()
	double := r.Create("double")
	rule1 := term.Rule{Lhs: term.Level{Value: 0}, Rhs: term.Level{Value: 0}}
	rule2 := term.Rule{Lhs: term.Level{Value: 1}, Rhs: term.Level{Value: 2}}
	r.AddDownValue(double, rule1)
	r.AddDownValue(double, rule2)

	rules, ok := r.DownValues(double)
	if !ok || len(rules) != 2 {
		t.Fatalf("got %v, %v", rules, ok)
	}
	if !term.Equal(rules[0].Rhs, term.Level{Value: 0}) || !term.Equal(rules[1].Rhs, term.Level{Value: 2}) {
		t.Fatalf("down-values out of order: %v", rules)
	}
}

func TestCheckpointRollback(t *testing.T) {
	r := New()
	r.Create("Kept")
	mark := r.Checkpoint()
	r.Create("Scratch1")
	r.Create("Scratch2")
	if r.Count() != 3 {
		t.Fatalf("expected 3 symbols before rollback, got %d", r.Count())
	}

	r.RollbackTo(mark)
	if r.Count() != 1 {
		t.Fatalf("expected 1 symbol after rollback, got %d", r.Count())
	}
	if _, ok := r.Lookup("Scratch1"); ok {
		t.Fatalf("expected rolled-back name to be unregistered")
	}
	if _, ok := r.Lookup("Kept"); !ok {
		t.Fatalf("expected symbol before the checkpoint to survive rollback")
	}
}

func TestStringifyFallsBackToHandle(t *testing.T) {
	r := New()
	anon := r.Create("")
	if got := r.Stringify(anon); got != anon.String() {
		t.Fatalf("got %q, want %q", got, anon.String())
	}
	named := r.Create("Foo")
	if got := r.Stringify(named); got != "Foo" {
		t.Fatalf("got %q, want Foo", got)
	}
}
