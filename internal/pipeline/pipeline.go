// Package pipeline threads a Context through an ordered list of stages —
// for the reference driver, parser.Processor then elaborator.Processor
// (internal/driver's ElaborateFile builds exactly that pipeline).
package pipeline

// Pipeline is an ordered sequence of stages run over one Context.
type Pipeline struct {
	processors []Processor
}

// New builds a Pipeline that runs processors in order.
func New(processors ...Processor) *Pipeline {
	return &Pipeline{processors: processors}
}

// Run threads ctx through every stage in order. A stage is expected to
// guard its own work on the fields an earlier stage was responsible for
// (elaborator.Processor, for instance, is a no-op when ctx.File is nil),
// so a parse failure still lets later stages run and the caller still
// gets back every diagnostic the pipeline produced, not just the first.
func (p *Pipeline) Run(initialCtx *Context) *Context {
	ctx := initialCtx
	for _, processor := range p.processors {
		ctx = processor.Process(ctx)
	}
	return ctx
}
