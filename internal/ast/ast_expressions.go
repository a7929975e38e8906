package ast

import "github.com/stratum-lang/stratum/internal/token"

// Ident is a (possibly dotted) identifier reference, e.g. `Nat.succ`.
type Ident struct {
	Position token.Position
	Name     string
}

func (i *Ident) Pos() token.Position { return i.Position }
func (*Ident) exprNode()             {}

// Call is an n-ary application `f(a, b, c)`.
type Call struct {
	Position token.Position
	Fn       Expr
	Args     []Expr
}

func (c *Call) Pos() token.Position { return c.Position }
func (*Call) exprNode()             {}

// Lambda is a single-argument abstraction `\x body`. Multi-argument lambdas
// (`\x\y body`) are parsed as nested Lambdas, right-associatively.
type Lambda struct {
	Position token.Position
	Param    string
	Body     Expr
}

func (l *Lambda) Pos() token.Position { return l.Position }
func (*Lambda) exprNode()             {}

// FnType is a Π-type, `(x: T) -> U` (dependent, Param != nil) or `T -> U`
// (non-dependent, Param == nil).
type FnType struct {
	Position token.Position
	Param    *string
	Input    Expr
	Output   Expr
}

func (f *FnType) Pos() token.Position { return f.Position }
func (*FnType) exprNode()             {}

// Universe is `type(L)`.
type Universe struct {
	Position token.Position
	Level    Expr
}

func (u *Universe) Pos() token.Position { return u.Position }
func (*Universe) exprNode()             {}

// LevelLit is a closed level literal, e.g. `3l`.
type LevelLit struct {
	Position token.Position
	Value    uint64
}

func (l *LevelLit) Pos() token.Position { return l.Position }
func (*LevelLit) exprNode()             {}

// PatternHole is `?name`, a binder scoped to the enclosing rewrite-rule LHS.
type PatternHole struct {
	Position token.Position
	Name     string
}

func (p *PatternHole) Pos() token.Position { return p.Position }
func (*PatternHole) exprNode()             {}

// Placeholder is a bare `?` or `_`: a type-inferred hole. Unlike PatternHole
// it never binds a name and is resolved by the elaborator to a fresh
// metavariable (or, for `_`, left as an inert PLACEHOLDER core term — see
// internal/term).
type Placeholder struct {
	Position token.Position
	// Named is true for bare `?` (request a metavariable the solver must
	// infer) and false for `_` (an erased hole the solver never examines).
	Named bool
}

func (p *Placeholder) Pos() token.Position { return p.Position }
func (*Placeholder) exprNode()             {}
