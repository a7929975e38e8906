package parser

import "github.com/stratum-lang/stratum/internal/pipeline"

// Processor is the parse stage of the driver's pipeline: it turns a
// Context's source text into an AST, appending any syntax diagnostics.
type Processor struct{}

func (Processor) Process(ctx *pipeline.Context) *pipeline.Context {
	p := New(ctx.FilePath, ctx.SourceCode)
	file, diags := p.ParseFile()
	ctx.File = file
	ctx.Errors = append(ctx.Errors, diags...)
	return ctx
}
