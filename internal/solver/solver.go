package solver

import (
	"fmt"

	"github.com/stratum-lang/stratum/internal/diagnostics"
	"github.com/stratum-lang/stratum/internal/registry"
	"github.com/stratum-lang/stratum/internal/term"
	"github.com/stratum-lang/stratum/internal/token"
)

// Solver drives one elaboration's worklist against a registry/scratch pair
// to a fixed point, then runs the final-check pass (§4.5).
type Solver struct {
	reg      *registry.Registry
	scratch  *registry.Scratch
	queue    []Constraint
	affected map[term.Symbol]bool

	maxIterations int
	diags         []diagnostics.Diagnostic
	iterations    int
}

// New creates a Solver writing through scratch (which in turn wraps reg).
// maxIterations bounds the outer loop (§5's cancellation model).
func New(reg *registry.Registry, scratch *registry.Scratch, maxIterations int) *Solver {
	return &Solver{reg: reg, scratch: scratch, affected: map[term.Symbol]bool{}, maxIterations: maxIterations}
}

// Post enqueues a constraint.
func (s *Solver) Post(c Constraint) {
	s.queue = append(s.queue, c)
}

// Affected returns every permanent symbol this Solver wrote to.
func (s *Solver) Affected() map[term.Symbol]bool {
	return s.affected
}

// Solve runs the worklist to a fixed point, then one stuck pass, then the
// final check, returning every diagnostic produced along the way.
func (s *Solver) Solve() []diagnostics.Diagnostic {
	for {
		s.iterations++
		if s.iterations > s.maxIterations {
			s.diags = append(s.diags, diagnostics.Unresolved(token.Position{}, fmt.Sprintf("solver exceeded %d iterations", s.maxIterations)))
			s.queue = nil
			break
		}
		if !s.runPass(false) {
			s.runPass(true) // stuck pass: CALL-vs-CALL head equality now safe.
			break
		}
	}
	s.finalCheck()
	return s.diags
}

// Iterations reports how many worklist passes Solve ran, for driver reporting.
func (s *Solver) Iterations() int {
	return s.iterations
}

func (s *Solver) runPass(stuck bool) bool {
	batch := s.queue
	s.queue = nil
	changed := false
	for _, c := range batch {
		if s.evaluate(c, stuck) {
			changed = true
		}
	}
	return changed
}

func (s *Solver) evaluate(c Constraint, stuck bool) bool {
	switch c.Kind {
	case TYPE:
		return s.evalType(c)
	case FN:
		return s.evalFn(c)
	case EQUAL:
		return s.evalEqual(c, stuck)
	case FN_TYPE_EQUAL:
		return s.evalFnTypeEqual(c)
	default:
		panic("solver: impossible constraint kind")
	}
}

func (s *Solver) env() term.Env { return s.scratch }

func (s *Solver) isUnlocked(h term.Symbol) bool {
	if s.scratch.IsTemp(h) {
		return true
	}
	e, ok := s.reg.Entry(h)
	return ok && e.Unlocked
}

func (s *Solver) markAffected(h term.Symbol) {
	if !s.scratch.IsTemp(h) {
		s.affected[h] = true
	}
}

func (s *Solver) diag(d diagnostics.Diagnostic) {
	s.diags = append(s.diags, d)
}

// evalType implements §4.5's TYPE evaluation.
func (s *Solver) evalType(c Constraint) bool {
	switch n := c.A.(type) {
	case term.Sym:
		if existing, ok := s.scratch.Type(n.Handle); ok {
			s.Post(EqualOf(c.Pos, existing, c.B))
			return true
		}
		if s.isUnlocked(n.Handle) {
			s.scratch.SetType(n.Handle, c.B)
			s.markAffected(n.Handle)
			if ov, ok := s.scratch.OwnValue(n.Handle); ok {
				s.Post(TypeOf(c.Pos, ov, c.B))
			}
			return true
		}
		s.diag(diagnostics.UntypedExpr(c.Pos, n))
		return true

	case term.Call:
		s.Post(FnOf(c.Pos, n.Fn, n.Args, c.B))
		return true

	case term.Lambda:
		inTypeMeta := s.scratch.NewMeta("")
		outTypeMeta := s.scratch.NewMeta("")
		freshArg := s.scratch.NewLocal()
		s.scratch.SetType(freshArg, term.Sym{Handle: inTypeMeta})
		body := term.ReplaceOne(n.Body, n.Arg, term.Sym{Handle: freshArg})
		s.Post(TypeOf(c.Pos, body, term.Sym{Handle: outTypeMeta}))
		fnType := term.FnType{Arg: freshArg, Input: term.Sym{Handle: inTypeMeta}, Output: term.Sym{Handle: outTypeMeta}}
		s.Post(EqualOf(c.Pos, fnType, c.B))
		return true

	case term.FnType:
		inLevel := s.scratch.NewMeta("")
		outLevel := s.scratch.NewMeta("")
		s.scratch.SetType(inLevel, term.LevelType{})
		s.scratch.SetType(outLevel, term.LevelType{})
		s.Post(TypeOf(c.Pos, n.Input, term.Universe{Subscript: term.Sym{Handle: inLevel}}))
		out := n.Output
		if n.Arg != term.NoSymbol {
			fresh := s.scratch.NewLocal()
			s.scratch.SetType(fresh, n.Input)
			out = term.ReplaceOne(n.Output, n.Arg, term.Sym{Handle: fresh})
		}
		s.Post(TypeOf(c.Pos, out, term.Universe{Subscript: term.Sym{Handle: outLevel}}))
		s.Post(EqualOf(c.Pos, c.B, term.Universe{Subscript: term.LevelMax{Lhs: term.Sym{Handle: inLevel}, Rhs: term.Sym{Handle: outLevel}}}))
		return true

	case term.Universe:
		s.Post(TypeOf(c.Pos, n.Subscript, term.LevelType{}))
		s.Post(EqualOf(c.Pos, c.B, term.Universe{Subscript: term.LevelSucc{Expr: n.Subscript}}))
		return true

	case term.Level, term.LevelSucc, term.LevelMax:
		s.Post(EqualOf(c.Pos, c.B, term.LevelType{}))
		return true

	case term.LevelType:
		s.Post(EqualOf(c.Pos, c.B, term.Universe{Subscript: term.Level{Value: 0}}))
		return true

	case term.Placeholder:
		return true

	case term.Pattern:
		// Patterns never occur as freestanding typed expressions — only
		// inside a rewrite-rule LHS, where the elaborator never posts a
		// TYPE constraint on them directly. Treat defensively as a no-op.
		return true

	default:
		panic(fmt.Sprintf("solver: impossible tag in evalType: %T", c.A))
	}
}

// evalFn implements the FN half of §4.5: resolve Fn's declared type (via
// own-value expansion down to a bare symbol), then hand off to
// FN_TYPE_EQUAL.
func (s *Solver) evalFn(c Constraint) bool {
	expanded, changed := term.Expand(c.Fn, s.env())
	if sym, ok := expanded.(term.Sym); ok {
		if t, ok := s.scratch.Type(sym.Handle); ok {
			s.Post(FnTypeEqualOf(c.Pos, t, c.Args, c.B))
			return true
		}
	}
	// The call head may normalise to a bare Lambda rather than a symbol
	// with a declared Π-type — e.g. a parenthesized lambda applied
	// directly. Consume one argument by substitution and recurse, rather
	// than re-posting an unchanged constraint forever.
	if lam, ok := expanded.(term.Lambda); ok && len(c.Args) > 0 {
		body := term.ReplaceOne(lam.Body, lam.Arg, c.Args[0])
		if len(c.Args) == 1 {
			s.Post(TypeOf(c.Pos, body, c.B))
		} else {
			s.Post(FnOf(c.Pos, body, c.Args[1:], c.B))
		}
		return true
	}
	c.Fn = expanded
	s.Post(c)
	return changed
}

// evalFnTypeEqual implements §4.5's FN_TYPE_EQUAL evaluation.
func (s *Solver) evalFnTypeEqual(c Constraint) bool {
	f, changed := term.Expand(c.Fn, s.env())
	fnType, ok := f.(term.FnType)
	if !ok {
		c.Fn = f
		s.Post(c)
		return changed
	}
	if len(c.Args) == 0 {
		s.Post(EqualOf(c.Pos, f, c.B))
		return true
	}
	arg0 := c.Args[0]
	s.Post(TypeOf(c.Pos, arg0, fnType.Input))
	out := fnType.Output
	if fnType.Arg != term.NoSymbol {
		out = term.ReplaceOne(out, fnType.Arg, arg0)
	}
	if len(c.Args) == 1 {
		s.Post(EqualOf(c.Pos, out, c.B))
	} else {
		s.Post(FnTypeEqualOf(c.Pos, out, c.Args[1:], c.B))
	}
	return true
}

// evalEqual implements §4.5's EQUAL evaluation.
func (s *Solver) evalEqual(c Constraint, stuck bool) bool {
	a, aChanged := term.Expand(c.A, s.env())
	b, bChanged := term.Expand(c.B, s.env())
	progress := aChanged || bChanged
	if term.Equal(a, b) {
		return true
	}

	aSym, aIsSym := a.(term.Sym)
	bSym, bIsSym := b.(term.Sym)
	if !aIsSym && bIsSym {
		a, b = b, a
		aSym, aIsSym = bSym, true
		bIsSym = false
	}
	if aIsSym && bIsSym && !s.scratch.IsTemp(aSym.Handle) && s.scratch.IsTemp(bSym.Handle) {
		a, b = b, a
	}

	if aSym, ok := a.(term.Sym); ok {
		if bSym, ok := b.(term.Sym); ok && aSym.Handle == bSym.Handle {
			return true
		}
		if s.trySetOwnValue(aSym.Handle, b, c.Pos) {
			return true
		}
		s.Post(EqualOf(c.Pos, a, b))
		return progress
	}

	switch x := a.(type) {
	case term.Lambda:
		y, ok := b.(term.Lambda)
		if !ok {
			s.diag(diagnostics.Uneq(c.Pos, a, b))
			return true
		}
		fresh := s.scratch.NewLocal()
		xb := term.ReplaceOne(x.Body, x.Arg, term.Sym{Handle: fresh})
		yb := term.ReplaceOne(y.Body, y.Arg, term.Sym{Handle: fresh})
		s.Post(EqualOf(c.Pos, xb, yb))
		return true

	case term.FnType:
		y, ok := b.(term.FnType)
		if !ok {
			s.diag(diagnostics.Uneq(c.Pos, a, b))
			return true
		}
		s.Post(EqualOf(c.Pos, x.Input, y.Input))
		// A non-dependent side compares like a dependent one whose output
		// does not mention the binder.
		if x.Arg != term.NoSymbol || y.Arg != term.NoSymbol {
			fresh := s.scratch.NewLocal()
			xo := term.ReplaceOne(x.Output, x.Arg, term.Sym{Handle: fresh})
			yo := term.ReplaceOne(y.Output, y.Arg, term.Sym{Handle: fresh})
			s.Post(EqualOf(c.Pos, xo, yo))
		} else {
			s.Post(EqualOf(c.Pos, x.Output, y.Output))
		}
		return true

	case term.Universe:
		y, ok := b.(term.Universe)
		if !ok {
			s.diag(diagnostics.Uneq(c.Pos, a, b))
			return true
		}
		s.Post(EqualOf(c.Pos, x.Subscript, y.Subscript))
		return true

	case term.LevelType:
		if _, ok := b.(term.LevelType); ok {
			return true
		}
		s.diag(diagnostics.Uneq(c.Pos, a, b))
		return true

	case term.Level:
		switch y := b.(type) {
		case term.Level:
			if x.Value == y.Value {
				return true
			}
			s.diag(diagnostics.Uneq(c.Pos, a, b))
			return true
		case term.LevelSucc:
			if x.Value == 0 {
				s.diag(diagnostics.Uneq(c.Pos, a, b))
				return true
			}
			s.Post(EqualOf(c.Pos, term.Level{Value: x.Value - 1}, y.Expr))
			return true
		default:
			s.Post(EqualOf(c.Pos, a, b))
			return progress
		}

	case term.LevelSucc:
		switch y := b.(type) {
		case term.LevelSucc:
			s.Post(EqualOf(c.Pos, x.Expr, y.Expr))
			return true
		case term.Level:
			if y.Value == 0 {
				s.diag(diagnostics.Uneq(c.Pos, a, b))
				return true
			}
			s.Post(EqualOf(c.Pos, x.Expr, term.Level{Value: y.Value - 1}))
			return true
		default:
			s.Post(EqualOf(c.Pos, a, b))
			return progress
		}

	case term.LevelMax:
		if y, ok := b.(term.LevelMax); ok {
			s.Post(EqualOf(c.Pos, x.Lhs, y.Lhs))
			s.Post(EqualOf(c.Pos, x.Rhs, y.Rhs))
			return true
		}
		s.Post(EqualOf(c.Pos, a, b))
		return progress

	case term.Call:
		if stuck {
			y, ok := b.(term.Call)
			if !ok || len(x.Args) != len(y.Args) {
				s.diag(diagnostics.Uneq(c.Pos, a, b))
				return true
			}
			s.Post(EqualOf(c.Pos, x.Fn, y.Fn))
			for i := range x.Args {
				s.Post(EqualOf(c.Pos, x.Args[i], y.Args[i]))
			}
			return true
		}
		s.Post(EqualOf(c.Pos, a, b))
		return progress

	default:
		s.Post(EqualOf(c.Pos, a, b))
		return progress
	}
}

// trySetOwnValue attempts to solve sym to value, per §4.5: permitted only
// if sym has no own-value yet and is temp or unlocked, and the assignment
// survives the occurs check (§9). On success, and if sym already has a
// known type, it also posts `value : type(sym)`.
func (s *Solver) trySetOwnValue(sym term.Symbol, value term.Term, pos token.Position) bool {
	if _, ok := s.scratch.OwnValue(sym); ok {
		return false
	}
	if !s.isUnlocked(sym) {
		return false
	}
	if s.occursCheck(sym, value) {
		s.diag(diagnostics.Unresolved(pos, fmt.Sprintf("assigning %s to %s would create a cycle through own-values", value, sym)))
		return true
	}
	s.scratch.SetOwnValue(sym, value)
	s.markAffected(sym)
	if t, ok := s.scratch.Type(sym); ok {
		s.Post(TypeOf(pos, value, t))
	}
	return true
}

// occursCheck reports whether sym appears, directly or transitively
// through other symbols' own-values, inside v (§9).
func (s *Solver) occursCheck(sym term.Symbol, v term.Term) bool {
	return s.occursIn(sym, v, map[term.Symbol]bool{})
}

func (s *Solver) occursIn(sym term.Symbol, t term.Term, visited map[term.Symbol]bool) bool {
	switch n := t.(type) {
	case term.Sym:
		if n.Handle == sym {
			return true
		}
		if visited[n.Handle] {
			return false
		}
		visited[n.Handle] = true
		if ov, ok := s.scratch.OwnValue(n.Handle); ok {
			return s.occursIn(sym, ov, visited)
		}
		return false
	case term.Call:
		if s.occursIn(sym, n.Fn, visited) {
			return true
		}
		for _, a := range n.Args {
			if s.occursIn(sym, a, visited) {
				return true
			}
		}
		return false
	case term.Lambda:
		return s.occursIn(sym, n.Body, visited)
	case term.FnType:
		return s.occursIn(sym, n.Input, visited) || s.occursIn(sym, n.Output, visited)
	case term.Universe:
		return s.occursIn(sym, n.Subscript, visited)
	case term.LevelSucc:
		return s.occursIn(sym, n.Expr, visited)
	case term.LevelMax:
		return s.occursIn(sym, n.Lhs, visited) || s.occursIn(sym, n.Rhs, visited)
	default:
		return false
	}
}

// finalCheck implements §4.5's final-check pass.
func (s *Solver) finalCheck() {
	for _, h := range s.scratch.AllTemps() {
		if _, ok := s.scratch.OwnValue(h); ok {
			continue
		}
		if t, ok := s.scratch.Type(h); ok {
			if _, isLevel := t.(term.LevelType); isLevel {
				s.scratch.SetOwnValue(h, term.Level{Value: 0})
			}
		}
	}

	for _, c := range s.queue {
		s.diag(diagnostics.Unresolved(c.Pos, c.String()))
	}
	s.queue = nil

	if unsolved := s.scratch.Unsolved(); len(unsolved) > 0 {
		names := make([]string, len(unsolved))
		for i, h := range unsolved {
			e, _ := s.scratch.Entry(h)
			if e != nil && e.Name != "" {
				names[i] = e.Name
			} else {
				names[i] = h.String()
			}
		}
		s.diag(diagnostics.Uninferred(token.Position{}, names))
	}
}
