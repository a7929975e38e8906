// Package solver implements the constraint solver / unifier (§4.5): a
// worklist that evaluates typing and equality constraints to a fixed
// point, then performs a final-check pass.
package solver

import (
	"fmt"

	"github.com/stratum-lang/stratum/internal/term"
	"github.com/stratum-lang/stratum/internal/token"
)

// Kind distinguishes the four constraint shapes of §4.5.
type Kind int

const (
	// TYPE: A : B — A has type B.
	TYPE Kind = iota
	// FN: Fn(Args...) : B — the head Fn, applied to Args, returns B; used
	// when Fn's own type isn't known yet, only the call's arity.
	FN
	// EQUAL: A ≡ B — a unification constraint.
	EQUAL
	// FN_TYPE_EQUAL: Fn, Args ⇒ B — Fn must normalise to a Π chain
	// consuming Args with final output B.
	FN_TYPE_EQUAL
)

// Constraint is one pending unit of work. Which fields are meaningful
// depends on Kind, mirroring the single-struct-with-discriminant style
// used throughout this corpus for constraint/instruction records.
type Constraint struct {
	Kind Kind
	Pos  token.Position

	A, B term.Term   // TYPE: A is the term, B its asserted type. EQUAL: A ≡ B.
	Fn   term.Term   // FN, FN_TYPE_EQUAL: the call head (or its current type, for FN_TYPE_EQUAL).
	Args []term.Term // FN, FN_TYPE_EQUAL: the call's arguments.
}

func TypeOf(pos token.Position, e, t term.Term) Constraint {
	return Constraint{Kind: TYPE, Pos: pos, A: e, B: t}
}

func FnOf(pos token.Position, fn term.Term, args []term.Term, result term.Term) Constraint {
	return Constraint{Kind: FN, Pos: pos, Fn: fn, Args: args, B: result}
}

func EqualOf(pos token.Position, lhs, rhs term.Term) Constraint {
	return Constraint{Kind: EQUAL, Pos: pos, A: lhs, B: rhs}
}

func FnTypeEqualOf(pos token.Position, fnType term.Term, args []term.Term, result term.Term) Constraint {
	return Constraint{Kind: FN_TYPE_EQUAL, Pos: pos, Fn: fnType, Args: args, B: result}
}

func (c Constraint) String() string {
	switch c.Kind {
	case TYPE:
		return fmt.Sprintf("%s : %s", c.A, c.B)
	case FN:
		return fmt.Sprintf("%s(...) : %s", c.Fn, c.B)
	case EQUAL:
		return fmt.Sprintf("%s == %s", c.A, c.B)
	case FN_TYPE_EQUAL:
		return fmt.Sprintf("%s applied to %d arg(s) => %s", c.Fn, len(c.Args), c.B)
	default:
		return "<impossible constraint>"
	}
}
