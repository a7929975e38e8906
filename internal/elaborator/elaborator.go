// Package elaborator implements the two-pass AST-to-core-term walker of
// §4.6: a declare pass that allocates permanent symbols, and a
// convert-and-constrain pass that builds core terms and feeds the solver.
package elaborator

import (
	"fmt"

	"github.com/stratum-lang/stratum/internal/ast"
	"github.com/stratum-lang/stratum/internal/diagnostics"
	"github.com/stratum-lang/stratum/internal/registry"
	"github.com/stratum-lang/stratum/internal/solver"
	"github.com/stratum-lang/stratum/internal/term"
	"github.com/stratum-lang/stratum/internal/token"
)

// Elaborator runs one file's declarations against a permanent Registry,
// rolling back every symbol it created if any diagnostic survives.
type Elaborator struct {
	reg     *registry.Registry
	scratch *registry.Scratch
	solver  *solver.Solver

	mark  int
	diags []diagnostics.Diagnostic
	// skip holds declarations whose LHS failed the declare pass (e.g. a
	// name redefined from an earlier, separate elaboration) — converting
	// them further would write into a symbol this elaboration does not
	// own and cannot safely roll back.
	skip map[*ast.Declaration]bool
}

// New creates an Elaborator over reg. maxIterations bounds the solver's
// outer loop (§5).
func New(reg *registry.Registry, maxIterations int) *Elaborator {
	scratch := registry.Open(reg)
	return &Elaborator{
		reg:     reg,
		scratch: scratch,
		solver:  solver.New(reg, scratch, maxIterations),
		mark:    reg.Checkpoint(),
		skip:    map[*ast.Declaration]bool{},
	}
}

func (e *Elaborator) diag(d diagnostics.Diagnostic) {
	e.diags = append(e.diags, d)
}

// Iterations reports how many solver passes the last Elaborate call ran, for
// driver reporting.
func (e *Elaborator) Iterations() int {
	return e.solver.Iterations()
}

// Elaborate runs the declare pass, then the convert-and-constrain pass,
// then solves to a fixed point. On any diagnostic it rolls back every
// permanent symbol created since New (§7); otherwise it commits the
// solved metavariables into the permanent registry.
func (e *Elaborator) Elaborate(file *ast.File) []diagnostics.Diagnostic {
	for _, d := range file.Declarations {
		e.declare(d)
	}
	for _, d := range file.Declarations {
		e.convert(d)
	}
	e.diags = append(e.diags, e.solver.Solve()...)

	if len(e.diags) > 0 {
		e.reg.RollbackTo(e.mark)
	} else {
		e.scratch.Commit(e.mark, e.solver.Affected())
	}
	return e.diags
}

// declare implements §4.6's declare pass: allocate (or reuse) the target
// symbol for every assert/define declaration's LHS, plus any missing
// dotted prefix (`Nat` for `Nat.zero`), which is created locked and
// untyped. Rule and equality-check declarations name no new symbol — their
// LHS call head must already exist.
func (e *Elaborator) declare(d *ast.Declaration) {
	if d.Kind != ast.DeclAssert && d.Kind != ast.DeclDefine {
		return
	}
	ident, ok := d.LHS.(*ast.Ident)
	if !ok {
		e.diag(diagnostics.Syntax(d.Position, "declaration head must be a bare identifier"))
		e.skip[d] = true
		return
	}
	if h, ok := e.reg.Lookup(ident.Name); ok {
		if int(h) < e.mark {
			e.diag(diagnostics.Syntax(d.Position, fmt.Sprintf("%q redefines a symbol from an earlier elaboration", ident.Name)))
			e.skip[d] = true
			return
		}
		e.reg.MustEntry(h).Unlocked = true
		return // reuse: created earlier in this same elaboration
	}
	for i := 0; i < len(ident.Name); i++ {
		if ident.Name[i] == '.' {
			if _, ok := e.reg.Lookup(ident.Name[:i]); !ok {
				e.reg.Create(ident.Name[:i])
			}
		}
	}
	h := e.reg.Create(ident.Name)
	e.reg.MustEntry(h).Unlocked = true
}

func (e *Elaborator) convert(d *ast.Declaration) {
	if e.skip[d] {
		return
	}
	switch d.Kind {
	case ast.DeclAssert, ast.DeclDefine:
		e.convertValueDecl(d)
	case ast.DeclRule:
		e.convertRule(d)
	case ast.DeclEqualityCheck:
		e.convertEqualityCheck(d)
	}
}

// convertValueDecl handles `lhs : T`, `lhs : T = v` and `lhs = v`.
func (e *Elaborator) convertValueDecl(d *ast.Declaration) {
	ident, ok := d.LHS.(*ast.Ident)
	if !ok {
		return
	}
	h, ok := e.reg.Lookup(ident.Name)
	if !ok {
		return // declare pass already reported this; nothing to build on.
	}
	lhsTerm := term.Sym{Handle: h}
	sc := newScope()

	var typeTerm term.Term
	if d.Type != nil {
		t, ok := e.convertExpr(d.Type, sc, false)
		if !ok {
			return
		}
		levelMeta := e.scratch.NewMeta("")
		e.solver.Post(solver.TypeOf(d.Position, t, term.Universe{Subscript: term.Sym{Handle: levelMeta}}))
		typeTerm = t
	} else {
		meta := e.scratch.NewMeta("")
		typeTerm = term.Sym{Handle: meta}
	}
	e.solver.Post(solver.TypeOf(d.Position, lhsTerm, typeTerm))

	if d.Value == nil {
		return
	}
	rhs, ok := e.convertExpr(d.Value, sc, false)
	if !ok {
		return
	}
	if _, hasOwn := e.reg.OwnValue(h); !hasOwn {
		e.reg.SetOwnValue(h, rhs)
	} else {
		e.solver.Post(solver.EqualOf(d.Position, lhsTerm, rhs))
	}
}

// convertRule handles `lhs := v`, installing a rewrite rule on the call
// head. Pattern holes in lhs are materialised as fresh anonymous permanent
// symbols and collected into the rule's Patterns list in first-appearance
// order; bare identifiers in v that share a hole's name resolve to the
// same symbol (§4.6's "declaration's pattern-variable set").
func (e *Elaborator) convertRule(d *ast.Declaration) {
	call, ok := d.LHS.(*ast.Call)
	if !ok {
		e.diag(diagnostics.Syntax(d.Position, "rewrite rule LHS must be a call"))
		return
	}
	sc := newScope()
	lhsTerm, ok := e.convertExpr(call, sc, true)
	if !ok {
		return
	}
	lhsCall := lhsTerm.(term.Call)
	headSym, ok := lhsCall.Fn.(term.Sym)
	if !ok {
		e.diag(diagnostics.Syntax(d.Position, "rewrite rule head must be a plain symbol"))
		return
	}
	rhs, ok := e.convertExpr(d.Value, sc, false)
	if !ok {
		return
	}
	e.reg.AddDownValue(headSym.Handle, term.Rule{Patterns: sc.order, Lhs: lhsTerm, Rhs: rhs})
}

// convertEqualityCheck handles `lhs :=== v`: no rule is installed, just an
// EQUAL constraint the solver must resolve without a diagnostic.
func (e *Elaborator) convertEqualityCheck(d *ast.Declaration) {
	sc := newScope()
	lhs, ok := e.convertExpr(d.LHS, sc, false)
	if !ok {
		return
	}
	rhs, ok := e.convertExpr(d.Value, sc, false)
	if !ok {
		return
	}
	e.solver.Post(solver.EqualOf(d.Position, lhs, rhs))
}

// scope tracks one declaration's name resolution context: a stack of
// binder frames (innermost last) and the declaration's pattern-variable
// set, in resolution-priority order (§4.6). Stratum has no nested
// declarations, so there is no separate "enclosing declaration scope"
// layer beyond these two.
type scope struct {
	binders  []map[string]term.Symbol
	patterns map[string]term.Symbol
	order    []term.Symbol
}

func newScope() *scope {
	return &scope{patterns: map[string]term.Symbol{}}
}

func (s *scope) push(name string, h term.Symbol) {
	s.binders = append(s.binders, map[string]term.Symbol{name: h})
}

func (s *scope) pop() {
	s.binders = s.binders[:len(s.binders)-1]
}

func (s *scope) lookupBinder(name string) (term.Symbol, bool) {
	for i := len(s.binders) - 1; i >= 0; i-- {
		if h, ok := s.binders[i][name]; ok {
			return h, true
		}
	}
	return 0, false
}

func (e *Elaborator) resolveIdent(name string, sc *scope, pos token.Position) (term.Term, bool) {
	if h, ok := sc.lookupBinder(name); ok {
		return term.Sym{Handle: h}, true
	}
	if h, ok := sc.patterns[name]; ok {
		return term.Sym{Handle: h}, true
	}
	if h, ok := e.reg.Lookup(name); ok {
		return term.Sym{Handle: h}, true
	}
	e.diag(diagnostics.IdentNotFound(pos, name))
	return nil, false
}

// patternHole returns the symbol materialised for one `?name` occurrence,
// reusing it if this declaration has already seen that name.
func (e *Elaborator) patternHole(name string, sc *scope) term.Symbol {
	if h, ok := sc.patterns[name]; ok {
		return h
	}
	h := e.reg.Create("")
	sc.patterns[name] = h
	sc.order = append(sc.order, h)
	return h
}

// convertExpr converts one AST expression to a core term. inPattern marks
// conversion of a rewrite rule's LHS, where a bare `?` becomes the
// anonymous PATTERN (matches anything, binds nothing) rather than a fresh
// type metavariable.
func (e *Elaborator) convertExpr(expr ast.Expr, sc *scope, inPattern bool) (term.Term, bool) {
	switch n := expr.(type) {
	case *ast.Ident:
		return e.resolveIdent(n.Name, sc, n.Position)

	case *ast.LevelLit:
		return term.Level{Value: n.Value}, true

	case *ast.Universe:
		lvl, ok := e.convertExpr(n.Level, sc, inPattern)
		if !ok {
			return nil, false
		}
		return term.Universe{Subscript: lvl}, true

	case *ast.Lambda:
		h := e.reg.Create("")
		sc.push(n.Param, h)
		body, ok := e.convertExpr(n.Body, sc, inPattern)
		sc.pop()
		if !ok {
			return nil, false
		}
		return term.Lambda{Arg: h, Body: body}, true

	case *ast.FnType:
		input, ok := e.convertExpr(n.Input, sc, inPattern)
		if !ok {
			return nil, false
		}
		if n.Param == nil {
			output, ok := e.convertExpr(n.Output, sc, inPattern)
			if !ok {
				return nil, false
			}
			return term.FnType{Input: input, Output: output}, true
		}
		h := e.reg.Create("")
		sc.push(*n.Param, h)
		output, ok := e.convertExpr(n.Output, sc, inPattern)
		sc.pop()
		if !ok {
			return nil, false
		}
		return term.FnType{Arg: h, Input: input, Output: output}, true

	case *ast.Call:
		fn, ok := e.convertExpr(n.Fn, sc, inPattern)
		if !ok {
			return nil, false
		}
		args := make([]term.Term, len(n.Args))
		for i, a := range n.Args {
			at, ok := e.convertExpr(a, sc, inPattern)
			if !ok {
				return nil, false
			}
			args[i] = at
		}
		return term.Call{Fn: fn, Args: args}, true

	case *ast.PatternHole:
		return term.Pattern{Variable: e.patternHole(n.Name, sc)}, true

	case *ast.Placeholder:
		if !n.Named {
			return term.Placeholder{}, true
		}
		if inPattern {
			return term.Pattern{Variable: term.NoSymbol}, true
		}
		meta := e.scratch.NewMeta("")
		return term.Sym{Handle: meta}, true

	default:
		panic(fmt.Sprintf("elaborator: unhandled AST node %T", expr))
	}
}
