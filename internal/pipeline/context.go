package pipeline

import (
	"github.com/stratum-lang/stratum/internal/ast"
	"github.com/stratum-lang/stratum/internal/diagnostics"
	"github.com/stratum-lang/stratum/internal/registry"
)

// Context carries one source file through the lex/parse/elaborate/solve
// pipeline, accumulating diagnostics from every stage so later stages can
// still run (and report) after an earlier one found problems.
type Context struct {
	FilePath   string
	SourceCode string

	File *ast.File

	Registry *registry.Registry

	Errors []diagnostics.Diagnostic

	// IterationsUsed is set by the elaborate stage for driver reporting.
	IterationsUsed int
}

// Processor is one pipeline stage.
type Processor interface {
	Process(ctx *Context) *Context
}
