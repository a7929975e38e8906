package elaborator

import "github.com/stratum-lang/stratum/internal/pipeline"

// Processor is the elaborate-and-solve stage of the driver's pipeline. It
// requires ctx.Registry and ctx.File to already be set; a nil File (e.g.
// after a parse failure severe enough to produce none) is a no-op.
type Processor struct {
	MaxIterations int
}

func (p Processor) Process(ctx *pipeline.Context) *pipeline.Context {
	if ctx.File == nil {
		return ctx
	}
	e := New(ctx.Registry, p.MaxIterations)
	diags := e.Elaborate(ctx.File)
	ctx.Errors = append(ctx.Errors, diags...)
	ctx.IterationsUsed = e.Iterations()
	return ctx
}
