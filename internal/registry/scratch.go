package registry

import (
	"fmt"

	"github.com/stratum-lang/stratum/internal/term"
)

// Scratch layers temporary metavariable entries on top of a permanent
// Registry. Temp entries live only in the Scratch; SetOwnValue and SetType
// on a permanent handle write through to the base entry. A temp handle is
// any handle greater than a fixed threshold far above any permanent handle,
// so permanent symbols created after Open never collide with temps —
// isTemp(h) below is exactly that threshold test (§2).
//
// Unification variables are ordinary Scratch entries: a temp symbol with
// no own-value is "unsolved", one with an own-value is "solved" to that
// term. This is what lets substitution, matching and β-reduction share one
// mechanism with no separate metavariable representation.
type Scratch struct {
	base      *Registry
	threshold term.Symbol // every handle above this is a temp
	temps     []Entry
}

// Open starts a scratch layer over base.
func Open(base *Registry) *Scratch {
	return &Scratch{base: base, threshold: term.Symbol(1) << 32}
}

// IsTemp reports whether h names a Scratch-local entry rather than a
// permanent one.
func (s *Scratch) IsTemp(h term.Symbol) bool {
	return h > s.threshold
}

// NewMeta allocates a fresh temp symbol standing for a real inference
// unknown (a type metavariable, a level metavariable). If still unsolved at the
// final check, it is reported as UNINFERRED_VAR.
func (s *Scratch) NewMeta(name string) term.Symbol {
	return s.newTemp(name, false)
}

// NewLocal allocates a fresh temp symbol used only as an alpha-renaming
// target (e.g. the solver's fresh local introduced when comparing two
// LAMBDAs under EQUAL). It is never reported as uninferred even if it ends
// up with no own-value, since it names no user-visible inference unknown.
func (s *Scratch) NewLocal() term.Symbol {
	return s.newTemp("", true)
}

func (s *Scratch) newTemp(name string, local bool) term.Symbol {
	h := s.threshold + term.Symbol(len(s.temps)) + 1
	s.temps = append(s.temps, Entry{Name: name, Unlocked: true, Local: local})
	return h
}

// AllTemps returns every temp handle this Scratch has allocated, solved or
// not, in allocation order.
func (s *Scratch) AllTemps() []term.Symbol {
	out := make([]term.Symbol, len(s.temps))
	for i := range s.temps {
		out[i] = s.threshold + term.Symbol(i) + 1
	}
	return out
}

func (s *Scratch) tempIndex(h term.Symbol) int {
	return int(h - s.threshold - 1)
}

// Entry returns h's entry, temp or permanent.
func (s *Scratch) Entry(h term.Symbol) (*Entry, bool) {
	if s.IsTemp(h) {
		i := s.tempIndex(h)
		if i < 0 || i >= len(s.temps) {
			return nil, false
		}
		return &s.temps[i], true
	}
	return s.base.Entry(h)
}

func (s *Scratch) mustEntry(h term.Symbol) *Entry {
	e, ok := s.Entry(h)
	if !ok {
		panic(fmt.Sprintf("registry: invalid handle %v in scratch", h))
	}
	return e
}

// SetOwnValue solves a temp symbol (or, for a permanent one, stages a
// rewrite exactly like Registry.SetOwnValue).
func (s *Scratch) SetOwnValue(h term.Symbol, v term.Term) {
	s.mustEntry(h).OwnValue = v
}

// SetType assigns a type to a temp or permanent symbol.
func (s *Scratch) SetType(h term.Symbol, t term.Term) {
	s.mustEntry(h).Type = t
}

// Type returns h's type, if any.
func (s *Scratch) Type(h term.Symbol) (term.Term, bool) {
	e, ok := s.Entry(h)
	if !ok || e.Type == nil {
		return nil, false
	}
	return e.Type, true
}

// OwnValue implements term.Env over the combined permanent+scratch space.
func (s *Scratch) OwnValue(h term.Symbol) (term.Term, bool) {
	e, ok := s.Entry(h)
	if !ok || e.OwnValue == nil {
		return nil, false
	}
	return e.OwnValue, true
}

// DownValues implements term.Env over the combined permanent+scratch space.
func (s *Scratch) DownValues(h term.Symbol) ([]term.Rule, bool) {
	e, ok := s.Entry(h)
	if !ok || len(e.DownValues) == 0 {
		return nil, false
	}
	return e.DownValues, true
}

// Unsolved returns every non-local temp handle opened by this Scratch that
// has no own-value yet, in allocation order — these are exactly the
// inference unknowns the final check reports as UNINFERRED_VAR.
func (s *Scratch) Unsolved() []term.Symbol {
	var out []term.Symbol
	for i, e := range s.temps {
		if e.OwnValue == nil && !e.Local {
			out = append(out, s.threshold+term.Symbol(i)+1)
		}
	}
	return out
}

// Commit substitutes every solved temp symbol's own-value into the
// permanent entries created since mark, plus any entry named in affected
// (§7: "substitute temp own-values into permanent entries" into "every
// permanent entry touched during solving"). mark covers entries this
// elaboration pass created; affected covers pre-existing entries the
// solver wrote to (e.g. assigning an own-value to a previously-declared
// unlocked symbol). Any temp symbol left in a permanent entry after this —
// because it was never solved — is a bug in the caller, which must have
// already reported UNINFERRED_VAR/UNRESOLVED_CONSTRAINT and rolled back
// instead of committing.
func (s *Scratch) Commit(mark int, affected map[term.Symbol]bool) {
	subst := map[term.Symbol]term.Term{}
	for i, e := range s.temps {
		if e.OwnValue != nil {
			subst[s.threshold+term.Symbol(i)+1] = e.OwnValue
		}
	}
	if len(subst) == 0 {
		return
	}
	apply := func(h term.Symbol) {
		e := s.base.MustEntry(h)
		if e.Type != nil {
			e.Type = term.ReplaceMany(e.Type, subst)
		}
		if e.OwnValue != nil {
			e.OwnValue = term.ReplaceMany(e.OwnValue, subst)
		}
		for j, rule := range e.DownValues {
			e.DownValues[j] = term.Rule{
				Patterns: rule.Patterns,
				Lhs:      term.ReplaceMany(rule.Lhs, subst),
				Rhs:      term.ReplaceMany(rule.Rhs, subst),
			}
		}
	}
	for i := mark; i < len(s.base.entries); i++ {
		apply(term.Symbol(i))
	}
	for h := range affected {
		if int(h) < mark {
			apply(h)
		}
	}
}
