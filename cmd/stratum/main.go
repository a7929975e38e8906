// Command stratum is the reference driver: it elaborates Stratum source
// files against the core term/registry/solver/elaborator packages and
// reports diagnostics, a registry dump, or formatted source.
package main

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"

	"github.com/stratum-lang/stratum/internal/config"
	"github.com/stratum-lang/stratum/internal/driver"
	"github.com/stratum-lang/stratum/internal/parser"
	"github.com/stratum-lang/stratum/internal/prettyprinter"
)

const usage = `Usage:
  stratum check <file.st>     elaborate a file and report diagnostics
  stratum dump <file.st>      elaborate a file, then print the registry
  stratum fmt <file.st>       reparse and pretty-print a file
  stratum history             list recent elaboration runs
`

func main() {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "internal error: %v\n", r)
			os.Exit(1)
		}
	}()

	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}

	cfg, err := config.Load("stratum.yaml")
	if err != nil {
		fmt.Fprintf(os.Stderr, "stratum: %v\n", err)
		os.Exit(1)
	}

	switch os.Args[1] {
	case "check":
		cmdCheck(cfg, requireFileArg())
	case "dump":
		cmdDump(cfg, requireFileArg())
	case "fmt":
		cmdFmt(requireFileArg())
	case "history":
		cmdHistory(cfg)
	default:
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}
}

func requireFileArg() string {
	if len(os.Args) < 3 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}
	return os.Args[2]
}

func readFile(path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "stratum: %v\n", err)
		os.Exit(1)
	}
	return string(data)
}

func cmdCheck(cfg *config.Config, path string) {
	source := readFile(path)
	d := driver.New(cfg)
	report := d.ElaborateFile(path, source)
	d.RenderReport(os.Stdout, report, d.UseColor())

	sum := sha256.Sum256([]byte(source))
	if err := d.RecordRun(hex.EncodeToString(sum[:]), report); err != nil {
		fmt.Fprintf(os.Stderr, "stratum: warning: could not record run history: %v\n", err)
	}

	if !report.Ok() {
		os.Exit(1)
	}
}

func cmdDump(cfg *config.Config, path string) {
	source := readFile(path)
	d := driver.New(cfg)
	report := d.ElaborateFile(path, source)
	d.RenderReport(os.Stdout, report, d.UseColor())
	d.DumpRegistry(os.Stdout)
	if !report.Ok() {
		os.Exit(1)
	}
}

func cmdFmt(path string) {
	source := readFile(path)
	p := parser.New(path, source)
	file, diags := p.ParseFile()
	for _, diag := range diags {
		fmt.Fprintln(os.Stderr, diag.String())
	}
	if len(diags) > 0 {
		os.Exit(1)
	}
	fmt.Print(prettyprinter.New().PrintFile(file))
}

func cmdHistory(cfg *config.Config) {
	d := driver.New(cfg)
	if err := d.ListHistory(os.Stdout, 20); err != nil {
		fmt.Fprintf(os.Stderr, "stratum: %v\n", err)
		os.Exit(1)
	}
}
