// Package ast defines the raw, pre-elaboration syntax tree produced by the
// parser. It is mechanical — the interesting engineering lives in
// internal/term, internal/registry, internal/solver and internal/elaborator,
// which consume these nodes.
package ast

import "github.com/stratum-lang/stratum/internal/token"

// Node is the base interface for every AST node.
type Node interface {
	Pos() token.Position
}

// Expr is any raw surface-syntax expression.
type Expr interface {
	Node
	exprNode()
}

// DeclKind distinguishes the four declaration forms of §6.
type DeclKind int

const (
	// DeclAssert is `lhs : T` with no value.
	DeclAssert DeclKind = iota
	// DeclDefine is `lhs = v` or `lhs : T = v`.
	DeclDefine
	// DeclRule is `lhs := v`, installing a rewrite rule.
	DeclRule
	// DeclEqualityCheck is `lhs :=== v`.
	DeclEqualityCheck
)

// Declaration is one top-level statement: a type assertion, a definition,
// a rewrite rule, or an equality check (§6).
type Declaration struct {
	Position token.Position
	LHS      Expr  // bare identifier (assert/define) or call (rule/check)
	Type     Expr  // optional
	Value    Expr  // present for Define/Rule/EqualityCheck
	Kind     DeclKind
}

func (d *Declaration) Pos() token.Position { return d.Position }

// File is the root of one parsed source file: an ordered list of
// declarations. Parse-stage diagnostics are returned separately by
// ParseFile.
type File struct {
	Path         string
	Declarations []*Declaration
}
