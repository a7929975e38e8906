// Package term is the core term representation of Stratum: the tagged
// expression tree (§3 of the specification), its substitution (§4.2),
// pattern matcher (§4.3) and normaliser (§4.4). These three pieces are the
// load-bearing engineering of the whole system; everything in
// internal/elaborator and internal/solver is built on top of them.
package term

import "fmt"

// Symbol is an opaque handle into the symbol registry. It is defined here,
// rather than in internal/registry, so that Term can embed bound-variable
// references without creating an import cycle — internal/registry imports
// internal/term, not the other way around.
type Symbol uint64

// NoSymbol is the zero Symbol, used to mean "no binder" — e.g. a
// non-dependent FN_TYPE's Arg, or a PATTERN with no bound variable.
const NoSymbol Symbol = 0

func (s Symbol) String() string {
	if s == NoSymbol {
		return "_"
	}
	return fmt.Sprintf("$%d", uint64(s))
}

// Tag identifies which of the term variants a Term value is.
type Tag int

const (
	SYMBOL Tag = iota
	CALL
	LAMBDA
	FN_TYPE
	UNIVERSE
	LEVEL_TYPE
	LEVEL
	LEVEL_SUCC
	LEVEL_MAX
	PATTERN
	PLACEHOLDER
)

// Term is the core expression tree. Every concrete type below implements it;
// callers dispatch with a type switch, the same way the rest of this corpus
// dispatches on typesystem.Type / typed.Expression.
type Term interface {
	fmt.Stringer
	Tag() Tag
	isTerm()
}

// Sym is a reference to a registry entry (SYMBOL).
type Sym struct{ Handle Symbol }

func (Sym) isTerm()     {}
func (Sym) Tag() Tag    { return SYMBOL }
func (s Sym) String() string { return s.Handle.String() }

// Call is n-ary application (CALL). Args has at least one element; curried
// calls are flattened into one Call by the normaliser as they are built.
type Call struct {
	Fn   Term
	Args []Term
}

func (Call) isTerm()  {}
func (Call) Tag() Tag { return CALL }
func (c Call) String() string {
	s := c.Fn.String() + "("
	for i, a := range c.Args {
		if i > 0 {
			s += ", "
		}
		s += a.String()
	}
	return s + ")"
}

// Lambda is a single-argument abstraction (LAMBDA).
type Lambda struct {
	Arg  Symbol
	Body Term
}

func (Lambda) isTerm()  {}
func (Lambda) Tag() Tag { return LAMBDA }
func (l Lambda) String() string { return "\\" + l.Arg.String() + " " + l.Body.String() }

// FnType is a Π-type (FN_TYPE). It is dependent iff Arg != NoSymbol; Output
// must then reference Arg only through that handle (invariant 1, §3).
type FnType struct {
	Input  Term
	Output Term
	Arg    Symbol
}

func (FnType) isTerm()  {}
func (FnType) Tag() Tag { return FN_TYPE }
func (f FnType) String() string {
	if f.Arg != NoSymbol {
		return "(" + f.Arg.String() + ": " + f.Input.String() + ") -> " + f.Output.String()
	}
	return f.Input.String() + " -> " + f.Output.String()
}

// Universe is `Type(n)` (UNIVERSE). Subscript must be a level-kind term
// (invariant 4, §3).
type Universe struct{ Subscript Term }

func (Universe) isTerm()  {}
func (Universe) Tag() Tag { return UNIVERSE }
func (u Universe) String() string { return "type(" + u.Subscript.String() + ")" }

// LevelType is the type of universe levels (LEVEL_TYPE).
type LevelType struct{}

func (LevelType) isTerm()       {}
func (LevelType) Tag() Tag      { return LEVEL_TYPE }
func (LevelType) String() string { return "builtin.Level" }

// Level is a closed level literal (LEVEL).
type Level struct{ Value uint64 }

func (Level) isTerm()  {}
func (Level) Tag() Tag { return LEVEL }
func (l Level) String() string { return fmt.Sprintf("%dl", l.Value) }

// LevelSucc is the successor of a level (LEVEL_SUCC).
type LevelSucc struct{ Expr Term }

func (LevelSucc) isTerm()  {}
func (LevelSucc) Tag() Tag { return LEVEL_SUCC }
func (l LevelSucc) String() string { return "succ(" + l.Expr.String() + ")" }

// LevelMax is the maximum of two levels (LEVEL_MAX).
type LevelMax struct{ Lhs, Rhs Term }

func (LevelMax) isTerm()  {}
func (LevelMax) Tag() Tag { return LEVEL_MAX }
func (l LevelMax) String() string { return "max(" + l.Lhs.String() + ", " + l.Rhs.String() + ")" }

// Pattern is a pattern hole (PATTERN), valid only inside rewrite-rule LHSs.
// Variable is NoSymbol for the anonymous pattern `?` (matches anything
// without binding).
type Pattern struct{ Variable Symbol }

func (Pattern) isTerm()  {}
func (Pattern) Tag() Tag { return PATTERN }
func (p Pattern) String() string {
	if p.Variable == NoSymbol {
		return "?"
	}
	return "?" + p.Variable.String()
}

// Placeholder is `_`, an inert type-inferred hole (PLACEHOLDER).
type Placeholder struct{}

func (Placeholder) isTerm()       {}
func (Placeholder) Tag() Tag      { return PLACEHOLDER }
func (Placeholder) String() string { return "_" }

// Equal reports whether two terms are equal up to α-equivalence (invariant
// 3, §3): binder symbols are compared after consistently renaming bound
// occurrences. It does not normalise either side first.
func Equal(a, b Term) bool {
	return equalUnder(a, b, nil)
}

// renamePair records one binder correspondence discovered while comparing
// under a LAMBDA or dependent FN_TYPE.
type renamePair struct {
	a, b Symbol
}

func equalUnder(a, b Term, renames []renamePair) bool {
	if a.Tag() != b.Tag() {
		return false
	}
	switch x := a.(type) {
	case Sym:
		y := b.(Sym)
		for _, r := range renames {
			if r.a == x.Handle {
				return r.b == y.Handle
			}
		}
		return x.Handle == y.Handle
	case Call:
		y := b.(Call)
		if len(x.Args) != len(y.Args) {
			return false
		}
		if !equalUnder(x.Fn, y.Fn, renames) {
			return false
		}
		for i := range x.Args {
			if !equalUnder(x.Args[i], y.Args[i], renames) {
				return false
			}
		}
		return true
	case Lambda:
		y := b.(Lambda)
		return equalUnder(x.Body, y.Body, append(renames, renamePair{x.Arg, y.Arg}))
	case FnType:
		y := b.(FnType)
		if !equalUnder(x.Input, y.Input, renames) {
			return false
		}
		if (x.Arg == NoSymbol) != (y.Arg == NoSymbol) {
			return false
		}
		if x.Arg == NoSymbol {
			return equalUnder(x.Output, y.Output, renames)
		}
		return equalUnder(x.Output, y.Output, append(renames, renamePair{x.Arg, y.Arg}))
	case Universe:
		y := b.(Universe)
		return equalUnder(x.Subscript, y.Subscript, renames)
	case LevelType:
		return true
	case Level:
		y := b.(Level)
		return x.Value == y.Value
	case LevelSucc:
		y := b.(LevelSucc)
		return equalUnder(x.Expr, y.Expr, renames)
	case LevelMax:
		y := b.(LevelMax)
		return equalUnder(x.Lhs, y.Lhs, renames) && equalUnder(x.Rhs, y.Rhs, renames)
	case Pattern:
		y := b.(Pattern)
		return x.Variable == y.Variable
	case Placeholder:
		return true
	default:
		panic(fmt.Sprintf("term: impossible tag in Equal: %T", a))
	}
}
