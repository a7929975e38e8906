// Package diagnostics defines the typed diagnostic values produced by
// parsing and elaboration (§6, §7). Diagnostics are plain data — rendering
// to text is the driver's job — so that a caller (tests, an LSP, the CLI)
// can inspect Kind/fields directly instead of string-matching messages.
package diagnostics

import (
	"fmt"

	"github.com/stratum-lang/stratum/internal/term"
	"github.com/stratum-lang/stratum/internal/token"
)

// Kind identifies which of the diagnostic shapes a Diagnostic carries.
type Kind int

const (
	UntypedExpression Kind = iota
	Unequal
	UnmetSubscriptConstraint
	UnresolvedConstraint
	UninferredVar
	FnTypeExpected
	// SyntaxError and IdentifierNotFound are parse-stage diagnostics (§6);
	// they live in the same Kind space but are never produced by the solver.
	SyntaxError
	IdentifierNotFound
)

func (k Kind) String() string {
	switch k {
	case UntypedExpression:
		return "UNTYPED_EXPRESSION"
	case Unequal:
		return "UNEQUAL"
	case UnmetSubscriptConstraint:
		return "UNMET_SUBSCRIPT_CONSTRAINT"
	case UnresolvedConstraint:
		return "UNRESOLVED_CONSTRAINT"
	case UninferredVar:
		return "UNINFERRED_VAR"
	case FnTypeExpected:
		return "FN_TYPE_EXPECTED"
	case SyntaxError:
		return "SYNTAX_ERROR"
	case IdentifierNotFound:
		return "IDENTIFIER_NOT_FOUND"
	default:
		return "UNKNOWN_DIAGNOSTIC"
	}
}

// Diagnostic is one reported problem, with enough structure to re-render in
// any surface (§6's "typed values, each rendered as a short line").
type Diagnostic struct {
	Kind    Kind
	Pos     token.Position
	Message string
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s: %s: %s", d.Pos, d.Kind, d.Message)
}

func UntypedExpr(pos token.Position, t term.Term) Diagnostic {
	return Diagnostic{Kind: UntypedExpression, Pos: pos, Message: fmt.Sprintf("no type known for %s", t)}
}

func Uneq(pos token.Position, a, b term.Term) Diagnostic {
	return Diagnostic{Kind: Unequal, Pos: pos, Message: fmt.Sprintf("%s is not equal to %s", a, b)}
}

func UnmetSubscript(pos token.Position, a, b term.Term) Diagnostic {
	return Diagnostic{Kind: UnmetSubscriptConstraint, Pos: pos, Message: fmt.Sprintf("%s must be strictly below %s", a, b)}
}

func Unresolved(pos token.Position, description string) Diagnostic {
	return Diagnostic{Kind: UnresolvedConstraint, Pos: pos, Message: description}
}

func Uninferred(pos token.Position, names []string) Diagnostic {
	return Diagnostic{Kind: UninferredVar, Pos: pos, Message: fmt.Sprintf("could not infer: %v", names)}
}

func FnTypeExpect(pos token.Position, t term.Term) Diagnostic {
	return Diagnostic{Kind: FnTypeExpected, Pos: pos, Message: fmt.Sprintf("%s is not a function type", t)}
}

func Syntax(pos token.Position, message string) Diagnostic {
	return Diagnostic{Kind: SyntaxError, Pos: pos, Message: message}
}

func IdentNotFound(pos token.Position, name string) Diagnostic {
	return Diagnostic{Kind: IdentifierNotFound, Pos: pos, Message: fmt.Sprintf("identifier %q not found", name)}
}
