// Package registry implements Stratum's symbol table as a Mathematica-style
// own-value/down-value table (§2), plus a temporary "scratch" layer
// (scratch.go) used to host unification metavariables on top of it; temp
// entries reach the permanent table only when a solve commits.
package registry

import (
	"fmt"

	"github.com/stratum-lang/stratum/internal/term"
)

// Entry is one registry slot: a name, an optional own-value (its current
// definition, if any), and an ordered list of down-values (rewrite rules
// whose Lhs calls this symbol).
type Entry struct {
	Name       string
	Type       term.Term
	OwnValue   term.Term
	DownValues []term.Rule
	// Unlocked marks a symbol the solver is still allowed to refine — set
	// during the elaborator's declare pass for every symbol a declaration
	// of the current elaboration names (§5).
	Unlocked bool
	// Local marks a binder-introduced or alpha-renaming helper symbol, as
	// opposed to a real inference metavariable — only the latter is
	// reported as UNINFERRED_VAR when left unsolved (§3).
	Local bool
}

// Registry is the permanent symbol table: a dense array of entries indexed
// by term.Symbol handle. Handle 0 (term.NoSymbol) is never assigned.
type Registry struct {
	entries []Entry
	byName  map[string]term.Symbol
}

// New returns an empty Registry.
func New() *Registry {
	return &Registry{entries: []Entry{{}}, byName: map[string]term.Symbol{}}
}

// BuiltinLevel is the always-present name of the level type: its own-value
// is LEVEL_TYPE and its type is type(0l).
const BuiltinLevel = "builtin.Level"

// NewWithPrelude returns a Registry with builtin.Level already declared,
// defined as LEVEL_TYPE and typed type(0l). This is what every driver entry
// point and elaboration test setup should start from — a bare New() has no
// level type in scope, so any declaration mentioning builtin.Level fails to
// resolve.
func NewWithPrelude() *Registry {
	r := New()
	h := r.Create(BuiltinLevel)
	r.SetOwnValue(h, term.LevelType{})
	r.SetType(h, term.Universe{Subscript: term.Level{Value: 0}})
	return r
}

// Count returns the number of permanent handles currently assigned; valid
// handles are 1..Count() inclusive.
func (r *Registry) Count() int {
	return len(r.entries) - 1
}

// Create allocates a new permanent symbol. name may be empty for anonymous
// symbols (e.g. a lambda's bound variable); non-empty names are registered
// for Lookup.
func (r *Registry) Create(name string) term.Symbol {
	h := term.Symbol(len(r.entries))
	r.entries = append(r.entries, Entry{Name: name})
	if name != "" {
		r.byName[name] = h
	}
	return h
}

// Lookup finds a permanent symbol by its registered name.
func (r *Registry) Lookup(name string) (term.Symbol, bool) {
	h, ok := r.byName[name]
	return h, ok
}

// NamedHandles returns every named permanent symbol's handle, in creation
// order, for driver-level dumps. Anonymous symbols (binders, pattern holes)
// are never registered by name and so never appear here.
func (r *Registry) NamedHandles() []term.Symbol {
	handles := make([]term.Symbol, 0, len(r.entries))
	for i := 1; i < len(r.entries); i++ {
		if r.entries[i].Name != "" {
			handles = append(handles, term.Symbol(i))
		}
	}
	return handles
}

// Entry returns the entry for a permanent handle.
func (r *Registry) Entry(h term.Symbol) (*Entry, bool) {
	i := int(h)
	if i <= 0 || i >= len(r.entries) {
		return nil, false
	}
	return &r.entries[i], true
}

// MustEntry is Entry, panicking on an invalid handle — for call sites that
// already know h was produced by this Registry.
func (r *Registry) MustEntry(h term.Symbol) *Entry {
	e, ok := r.Entry(h)
	if !ok {
		panic(fmt.Sprintf("registry: invalid handle %v", h))
	}
	return e
}

// SetOwnValue installs or replaces h's own-value.
func (r *Registry) SetOwnValue(h term.Symbol, v term.Term) {
	r.MustEntry(h).OwnValue = v
}

// SetType installs or replaces h's type.
func (r *Registry) SetType(h term.Symbol, t term.Term) {
	r.MustEntry(h).Type = t
}

// Type returns h's type, if it has been assigned one.
func (r *Registry) Type(h term.Symbol) (term.Term, bool) {
	e, ok := r.Entry(h)
	if !ok || e.Type == nil {
		return nil, false
	}
	return e.Type, true
}

// AddDownValue appends a rewrite rule to h's down-value list, in
// definition order (§4.4 applies rules in this order, first match wins).
func (r *Registry) AddDownValue(h term.Symbol, rule term.Rule) {
	e := r.MustEntry(h)
	e.DownValues = append(e.DownValues, rule)
}

// OwnValue implements term.Env.
func (r *Registry) OwnValue(h term.Symbol) (term.Term, bool) {
	e, ok := r.Entry(h)
	if !ok || e.OwnValue == nil {
		return nil, false
	}
	return e.OwnValue, true
}

// DownValues implements term.Env.
func (r *Registry) DownValues(h term.Symbol) ([]term.Rule, bool) {
	e, ok := r.Entry(h)
	if !ok || len(e.DownValues) == 0 {
		return nil, false
	}
	return e.DownValues, true
}

// Stringify renders h for diagnostics: its registered name if it has one,
// else its raw handle form.
func (r *Registry) Stringify(h term.Symbol) string {
	if e, ok := r.Entry(h); ok && e.Name != "" {
		return e.Name
	}
	return h.String()
}

// Checkpoint returns a mark that RollbackTo can later return the registry
// to, for undoing every permanent symbol created since (§7: "rollback of
// newly-created permanent symbols on any semantic diagnostic").
func (r *Registry) Checkpoint() int {
	return len(r.entries)
}

// RollbackTo discards every permanent symbol created since mark.
func (r *Registry) RollbackTo(mark int) {
	for i := mark; i < len(r.entries); i++ {
		if r.entries[i].Name != "" {
			delete(r.byName, r.entries[i].Name)
		}
	}
	r.entries = r.entries[:mark]
}
