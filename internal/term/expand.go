package term

import "fmt"

// Rule is one installed rewrite rule (a down-value, §2/§4.4): Patterns
// lists every PATTERN variable's Symbol appearing in Lhs, Lhs is the call
// shape to match against, and Rhs is substituted in once Lhs matches.
type Rule struct {
	Patterns []Symbol
	Lhs      Term
	Rhs      Term
}

// Env is the registry's read surface as seen by the normaliser: own-value
// and down-value lookup by handle. internal/registry's Registry type
// satisfies this without internal/term importing internal/registry.
type Env interface {
	OwnValue(s Symbol) (Term, bool)
	DownValues(s Symbol) ([]Rule, bool)
}

// Expand reduces t to weak normal form against env: own-values are
// unfolded, CALLs of LAMBDAs β-reduce, CALLs whose head has down-values try
// each rewrite rule in definition order (first match wins), and closed
// LEVEL_SUCC/LEVEL_MAX fold to LEVEL literals. It does not reduce under
// LAMBDA or FN_TYPE binders — only the spine and call arguments. The bool
// result reports whether t changed at all.
//
// Reduction chains at one node are driven by an explicit loop rather than
// recursive self-calls, so a long chain of rewrites doesn't grow the Go
// call stack; recursion is used only to descend into subterms, whose depth
// is bounded by the term's own structural size.
func Expand(t Term, env Env) (Term, bool) {
	changed := false
	for {
		switch n := t.(type) {
		case Sym:
			if v, ok := env.OwnValue(n.Handle); ok {
				t = v
				changed = true
				continue
			}
			return t, changed

		case Call:
			fn, fnChanged := Expand(n.Fn, env)
			args := make([]Term, len(n.Args))
			argsChanged := false
			for i, a := range n.Args {
				na, ac := Expand(a, env)
				args[i] = na
				if ac {
					argsChanged = true
				}
			}
			if fnChanged || argsChanged {
				changed = true
			}
			// A curried call's head may itself expand to a stuck Call, e.g. a
			// symbol whose own-value is a partial application. Flatten it so
			// the combined argument list is visible to beta-reduction and
			// down-value matching below.
			if inner, ok := fn.(Call); ok {
				fn = inner.Fn
				args = append(append([]Term(nil), inner.Args...), args...)
				changed = true
			}
			cur := Call{Fn: fn, Args: args}

			if lam, ok := fn.(Lambda); ok && len(cur.Args) >= 1 {
				reduced := ReplaceOne(lam.Body, lam.Arg, cur.Args[0])
				if len(cur.Args) > 1 {
					t = Call{Fn: reduced, Args: append([]Term(nil), cur.Args[1:]...)}
				} else {
					t = reduced
				}
				changed = true
				continue
			}

			if sym, ok := fn.(Sym); ok {
				if rules, ok := env.DownValues(sym.Handle); ok {
					applied := false
					for _, r := range rules {
						if b, ok := Match(cur, r.Lhs); ok {
							t = ReplaceMany(r.Rhs, b)
							changed = true
							applied = true
							break
						}
					}
					if applied {
						continue
					}
				}
			}

			t = cur
			return t, changed

		case LevelSucc:
			e, ec := Expand(n.Expr, env)
			if ec {
				changed = true
			}
			if lv, ok := e.(Level); ok {
				t = Level{Value: lv.Value + 1}
				changed = true
				continue
			}
			t = LevelSucc{Expr: e}
			return t, changed

		case LevelMax:
			l, lc := Expand(n.Lhs, env)
			r, rc := Expand(n.Rhs, env)
			if lc || rc {
				changed = true
			}
			if lv, ok := l.(Level); ok {
				if rv, ok2 := r.(Level); ok2 {
					max := lv.Value
					if rv.Value > max {
						max = rv.Value
					}
					t = Level{Value: max}
					changed = true
					continue
				}
			}
			t = LevelMax{Lhs: l, Rhs: r}
			return t, changed

		case Universe:
			s, sc := Expand(n.Subscript, env)
			if sc {
				changed = true
				t = Universe{Subscript: s}
			}
			return t, changed

		case FnType:
			in, ic := Expand(n.Input, env)
			if ic {
				changed = true
				t = FnType{Input: in, Output: n.Output, Arg: n.Arg}
			}
			return t, changed

		case Lambda, LevelType, Level, Pattern, Placeholder:
			return t, changed

		default:
			panic(fmt.Sprintf("term: impossible tag in Expand: %T", t))
		}
	}
}
