// Package driver glues lexer/parser/elaborator/solver into the reference
// CLI's pipeline (§6 "CLI / driver"), renders diagnostics and the registry
// dump, and records each run to the session history store.
package driver

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"

	"github.com/stratum-lang/stratum/internal/config"
	"github.com/stratum-lang/stratum/internal/diagnostics"
	"github.com/stratum-lang/stratum/internal/elaborator"
	"github.com/stratum-lang/stratum/internal/parser"
	"github.com/stratum-lang/stratum/internal/pipeline"
	"github.com/stratum-lang/stratum/internal/registry"
	"github.com/stratum-lang/stratum/internal/session"
)

// Driver owns the one Registry a sequence of ElaborateFile calls accumulates
// into, plus the configuration governing the solver and diagnostic color.
type Driver struct {
	Config   *config.Config
	Registry *registry.Registry
}

// New builds a Driver with builtin.Level pre-declared (§6) plus cfg's extra
// builtins (unlocked, with no type and no own-value; see stratum.yaml's
// builtins field).
func New(cfg *config.Config) *Driver {
	reg := registry.NewWithPrelude()
	for _, name := range cfg.Builtins {
		h := reg.Create(name)
		reg.MustEntry(h).Unlocked = true
	}
	return &Driver{Config: cfg, Registry: reg}
}

// Report is the outcome of elaborating one file.
type Report struct {
	FilePath   string
	Diagnostics []diagnostics.Diagnostic
	Iterations int
	Elapsed    time.Duration
}

// Ok reports whether the file elaborated with no diagnostics.
func (r *Report) Ok() bool {
	return len(r.Diagnostics) == 0
}

// ElaborateFile runs the parse-then-elaborate pipeline over source, adding
// any declarations to d.Registry.
func (d *Driver) ElaborateFile(filePath, source string) *Report {
	started := time.Now()

	ctx := &pipeline.Context{FilePath: filePath, SourceCode: source, Registry: d.Registry}
	p := pipeline.New(
		parser.Processor{},
		elaborator.Processor{MaxIterations: d.Config.MaxIterations},
	)
	ctx = p.Run(ctx)

	return &Report{
		FilePath:    filePath,
		Diagnostics: ctx.Errors,
		Iterations:  ctx.IterationsUsed,
		Elapsed:     time.Since(started),
	}
}

// UseColor decides whether to emit ANSI color in rendered output, honoring
// the tri-state stratum.yaml setting and otherwise auto-detecting stdout.
func (d *Driver) UseColor() bool {
	switch d.Config.Color {
	case config.ColorOn:
		return true
	case config.ColorOff:
		return false
	default:
		return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
	}
}

const (
	ansiRed   = "\x1b[31m"
	ansiGreen = "\x1b[32m"
	ansiReset = "\x1b[0m"
)

// RenderReport writes a human-readable summary: one line per diagnostic,
// then a timing/iteration footer, colorized if color is true.
func (d *Driver) RenderReport(w io.Writer, r *Report, color bool) {
	for _, diag := range r.Diagnostics {
		if color {
			fmt.Fprintf(w, "%s%s%s\n", ansiRed, diag.String(), ansiReset)
		} else {
			fmt.Fprintln(w, diag.String())
		}
	}
	if r.Ok() {
		msg := fmt.Sprintf("%s: ok (%s, %d iterations)", r.FilePath, r.Elapsed, r.Iterations)
		if color {
			fmt.Fprintf(w, "%s%s%s\n", ansiGreen, msg, ansiReset)
		} else {
			fmt.Fprintln(w, msg)
		}
		return
	}
	fmt.Fprintf(w, "%s: %d diagnostic(s) (%d iterations)\n", r.FilePath, len(r.Diagnostics), r.Iterations)
}

// DumpRegistry prints every permanent symbol's dotted path, type, own-value
// and down-values — one line per symbol, indented down-value rules below it
// (§6's registry dump, shape fixed per this driver).
func (d *Driver) DumpRegistry(w io.Writer) {
	for _, h := range d.Registry.NamedHandles() {
		name := d.Registry.Stringify(h)
		line := name
		if t, ok := d.Registry.Type(h); ok {
			line += " : " + t.String()
		}
		if ov, ok := d.Registry.OwnValue(h); ok {
			line += " = " + ov.String()
		}
		fmt.Fprintln(w, line)
		if rules, ok := d.Registry.DownValues(h); ok {
			for _, rule := range rules {
				fmt.Fprintf(w, "  %s := %s\n", rule.Lhs.String(), rule.Rhs.String())
			}
		}
	}
}

// ListHistory prints the limit most recent runs from d.Config.HistoryDB,
// newest first, with humanized relative timestamps (`stratum history`).
func (d *Driver) ListHistory(w io.Writer, limit int) error {
	store, err := session.Open(d.Config.HistoryDB)
	if err != nil {
		return err
	}
	defer store.Close()

	runs, err := store.Recent(limit)
	if err != nil {
		return err
	}
	for _, run := range runs {
		fmt.Fprintf(w, "%s  %-30s  %d diagnostic(s)  %d iterations  %s\n",
			run.ID, run.SourcePath, run.DiagnosticCount, run.Iterations, humanize.Time(run.StartedAt))
	}
	return nil
}

// RecordRun logs one completed elaboration to the session history store at
// d.Config.HistoryDB. A store-open failure is reported but not fatal — run
// history is a driver convenience, never required for elaboration itself.
func (d *Driver) RecordRun(sourceHash string, r *Report) error {
	store, err := session.Open(d.Config.HistoryDB)
	if err != nil {
		return err
	}
	defer store.Close()

	return store.Record(session.Run{
		ID:              session.NewID(),
		SourcePath:      r.FilePath,
		SourceHash:      sourceHash,
		StartedAt:       time.Now().Add(-r.Elapsed),
		DiagnosticCount: len(r.Diagnostics),
		Iterations:      r.Iterations,
	})
}
