package term

// Bindings maps a pattern variable's Symbol to the subterm it matched.
type Bindings map[Symbol]Term

// Match attempts to match candidate against pattern, which may contain
// PATTERN nodes (§4.3). It returns the bindings discovered for every named
// pattern variable and true on success.
//
// A PATTERN with a variable binds on first occurrence and, on any later
// occurrence of the same variable within the same pattern, requires the
// newly matched subterm to be α-equivalent (term.Equal) to the earlier one
// — a non-linear pattern like `f(?x, ?x)` only matches `f(a, a)`. A PATTERN
// with no variable (the anonymous `?`) matches anything and binds nothing.
//
// LEVEL_SUCC in pattern position against a closed LEVEL candidate recurses
// by decrementing: `succ(?n)` matches `3l` by binding `?n` to `2l`.
func Match(candidate, pattern Term) (Bindings, bool) {
	b := Bindings{}
	if matchInto(candidate, pattern, b) {
		return b, true
	}
	return nil, false
}

func matchInto(candidate, pattern Term, b Bindings) bool {
	if p, ok := pattern.(Pattern); ok {
		if p.Variable == NoSymbol {
			return true
		}
		if existing, bound := b[p.Variable]; bound {
			return Equal(existing, candidate)
		}
		b[p.Variable] = candidate
		return true
	}

	if ls, ok := pattern.(LevelSucc); ok {
		switch c := candidate.(type) {
		case Level:
			if c.Value == 0 {
				return false
			}
			return matchInto(Level{Value: c.Value - 1}, ls.Expr, b)
		case LevelSucc:
			return matchInto(c.Expr, ls.Expr, b)
		default:
			return false
		}
	}

	if candidate.Tag() != pattern.Tag() {
		return false
	}

	switch pn := pattern.(type) {
	case Sym:
		cn := candidate.(Sym)
		return cn.Handle == pn.Handle
	case Call:
		cn := candidate.(Call)
		if len(cn.Args) != len(pn.Args) {
			return false
		}
		if !matchInto(cn.Fn, pn.Fn, b) {
			return false
		}
		for i := range pn.Args {
			if !matchInto(cn.Args[i], pn.Args[i], b) {
				return false
			}
		}
		return true
	case Lambda:
		cn := candidate.(Lambda)
		// Binder symbols are freshly minted per occurrence (§4.6), so two
		// independently-built lambdas essentially never share a bound-
		// variable handle. Rename the pattern's binder to the candidate's
		// before comparing bodies, the same α-equivalent approach Equal
		// uses for LAMBDA (term.go).
		body := pn.Body
		if pn.Arg != cn.Arg {
			body = ReplaceOne(pn.Body, pn.Arg, Sym{Handle: cn.Arg})
		}
		return matchInto(cn.Body, body, b)
	case FnType:
		cn := candidate.(FnType)
		if (cn.Arg == NoSymbol) != (pn.Arg == NoSymbol) {
			return false
		}
		if !matchInto(cn.Input, pn.Input, b) {
			return false
		}
		output := pn.Output
		if pn.Arg != NoSymbol && pn.Arg != cn.Arg {
			output = ReplaceOne(pn.Output, pn.Arg, Sym{Handle: cn.Arg})
		}
		return matchInto(cn.Output, output, b)
	case Universe:
		cn := candidate.(Universe)
		return matchInto(cn.Subscript, pn.Subscript, b)
	case LevelType:
		return true
	case Level:
		cn := candidate.(Level)
		return cn.Value == pn.Value
	case LevelMax:
		cn := candidate.(LevelMax)
		return matchInto(cn.Lhs, pn.Lhs, b) && matchInto(cn.Rhs, pn.Rhs, b)
	case Placeholder:
		return true
	default:
		panic("term: impossible tag in Match")
	}
}
