package registry

import (
	"testing"

	"github.com/stratum-lang/stratum/internal/term"
)

func TestScratchIsTempThreshold(t *testing.T) {
	r := New()
	perm := r.Create("Nat")
	s := Open(r)
	meta := s.NewMeta("")

	if s.IsTemp(perm) {
		t.Fatalf("expected permanent handle to not be temp")
	}
	if !s.IsTemp(meta) {
		t.Fatalf("expected freshly allocated meta to be temp")
	}
}

func TestScratchUnsolved(t *testing.T) {
	r := New()
	s := Open(r)
	a := s.NewMeta("")
	b := s.NewMeta("")
	s.SetOwnValue(a, term.Level{Value: 0})

	unsolved := s.Unsolved()
	if len(unsolved) != 1 || unsolved[0] != b {
		t.Fatalf("got %v, want [%v]", unsolved, b)
	}
}

func TestScratchOwnValueDelegatesToPermanent(t *testing.T) {
	r := New()
	nat := r.Create("Nat")
	r.SetOwnValue(nat, term.Universe{Subscript: term.Level{Value: 0}})
	s := Open(r)

	v, ok := s.OwnValue(nat)
	if !ok || !term.Equal(v, term.Universe{Subscript: term.Level{Value: 0}}) {
		t.Fatalf("got %v, %v", v, ok)
	}
}

func TestScratchCommitSubstitutesIntoPermanentEntries(t *testing.T) {
	r := New()
	mark := r.Checkpoint()
	nat := r.Create("n")

	s := Open(r)
	level := s.NewMeta("?l")
	// n's own-value mentions the unsolved level metavariable.
	r.SetOwnValue(nat, term.Universe{Subscript: term.Sym{Handle: level}})

	s.SetOwnValue(level, term.Level{Value: 0})
	s.Commit(mark, nil)

	v, ok := r.OwnValue(nat)
	if !ok {
		t.Fatalf("expected n to still have an own-value after commit")
	}
	want := term.Universe{Subscript: term.Level{Value: 0}}
	if !term.Equal(v, want) {
		t.Fatalf("got %v, want %v", v, want)
	}
}

func TestScratchCommitNoOpWhenNothingSolved(t *testing.T) {
	r := New()
	mark := r.Checkpoint()
	nat := r.Create("n")
	original := term.Universe{Subscript: term.Level{Value: 3}}
	r.SetOwnValue(nat, original)

	s := Open(r)
	s.NewMeta("") // left unsolved
	s.Commit(mark, nil)

	v, _ := r.OwnValue(nat)
	if !term.Equal(v, original) {
		t.Fatalf("expected entry untouched, got %v", v)
	}
}
