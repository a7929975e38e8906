package term

import "testing"

type fakeEnv struct {
	ownValues  map[Symbol]Term
	downValues map[Symbol][]Rule
}

func newFakeEnv() *fakeEnv {
	return &fakeEnv{ownValues: map[Symbol]Term{}, downValues: map[Symbol][]Rule{}}
}

func (e *fakeEnv) OwnValue(s Symbol) (Term, bool) {
	v, ok := e.ownValues[s]
	return v, ok
}

func (e *fakeEnv) DownValues(s Symbol) ([]Rule, bool) {
	r, ok := e.downValues[s]
	return r, ok
}

func TestExpandOwnValue(t *testing.T) {
	env := newFakeEnv()
	nat := Symbol(1)
	env.ownValues[nat] = Universe{Subscript: Level{Value: 0}}

	got, changed := Expand(Sym{Handle: nat}, env)
	if !changed {
		t.Fatalf("expected own-value expansion to report changed")
	}
	if !Equal(got, Universe{Subscript: Level{Value: 0}}) {
		t.Fatalf("got %v", got)
	}
}

func TestExpandBetaReduction(t *testing.T) {
	env := newFakeEnv()
	x := Symbol(1)
	id := Lambda{Arg: x, Body: Sym{Handle: x}}
	call := Call{Fn: id, Args: []Term{Level{Value: 5}}}

	got, changed := Expand(call, env)
	if !changed {
		t.Fatalf("expected beta reduction to report changed")
	}
	if !Equal(got, Level{Value: 5}) {
		t.Fatalf("got %v", got)
	}
}

func TestExpandCurriedBetaLeavesRemainingArgs(t *testing.T) {
	env := newFakeEnv()
	x := Symbol(1)
	f := Symbol(2)
	// (\x f(x))(a, b)  ->  f(a, b): the leftover argument is appended to
	// the reduced call, not left as a separate curried application.
	lam := Lambda{Arg: x, Body: Call{Fn: Sym{Handle: f}, Args: []Term{Sym{Handle: x}}}}
	call := Call{Fn: lam, Args: []Term{Level{Value: 1}, Level{Value: 2}}}

	got, changed := Expand(call, env)
	if !changed {
		t.Fatalf("expected change")
	}
	want := Call{Fn: Sym{Handle: f}, Args: []Term{Level{Value: 1}, Level{Value: 2}}}
	if !Equal(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestExpandRewriteRuleFirstMatchWins(t *testing.T) {
	env := newFakeEnv()
	double := Symbol(1)
	n := Symbol(100)

	// double(0l) := 0l
	// double(succ(?n)) := succ(succ(double(n)))
	rules := []Rule{
		{
			Patterns: nil,
			Lhs:      Call{Fn: Sym{Handle: double}, Args: []Term{Level{Value: 0}}},
			Rhs:      Level{Value: 0},
		},
		{
			Patterns: []Symbol{n},
			Lhs:      Call{Fn: Sym{Handle: double}, Args: []Term{LevelSucc{Expr: Pattern{Variable: n}}}},
			Rhs: LevelSucc{Expr: LevelSucc{Expr: Call{
				Fn:   Sym{Handle: double},
				Args: []Term{Sym{Handle: n}},
			}}},
		},
	}
	env.downValues[double] = rules

	got, changed := Expand(Call{Fn: Sym{Handle: double}, Args: []Term{Level{Value: 2}}}, env)
	if !changed {
		t.Fatalf("expected rewrite to report changed")
	}
	if !Equal(got, Level{Value: 4}) {
		t.Fatalf("got %v, want 4l", got)
	}
}

func TestExpandClosedLevelArithmetic(t *testing.T) {
	env := newFakeEnv()
	got, changed := Expand(LevelMax{Lhs: Level{Value: 2}, Rhs: LevelSucc{Expr: Level{Value: 3}}}, env)
	if !changed {
		t.Fatalf("expected folding to report changed")
	}
	if !Equal(got, Level{Value: 4}) {
		t.Fatalf("got %v, want 4l", got)
	}
}

func TestExpandDoesNotReduceUnderLambda(t *testing.T) {
	env := newFakeEnv()
	x := Symbol(1)
	nat := Symbol(2)
	env.ownValues[nat] = Level{Value: 0}

	lam := Lambda{Arg: x, Body: Sym{Handle: nat}}
	got, changed := Expand(lam, env)
	if changed {
		t.Fatalf("expected no reduction under a lambda binder, got changed=%v term=%v", changed, got)
	}
	if !Equal(got, lam) {
		t.Fatalf("got %v", got)
	}
}
