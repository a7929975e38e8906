package driver

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stratum-lang/stratum/internal/config"
)

func TestElaborateFileReportsOkForWellTypedSource(t *testing.T) {
	d := New(config.Default())
	r := d.ElaborateFile("nat.st", "Nat: type(0l)\nNat.zero: Nat\n")
	if !r.Ok() {
		t.Fatalf("expected no diagnostics, got %v", r.Diagnostics)
	}
	if r.FilePath != "nat.st" {
		t.Fatalf("expected file path to be carried through, got %s", r.FilePath)
	}
}

func TestElaborateFileReportsDiagnosticsForUntypedSymbol(t *testing.T) {
	d := New(config.Default())
	r := d.ElaborateFile("bad.st", "Nat.zero: Nat\n")
	if r.Ok() {
		t.Fatalf("expected diagnostics for an undeclared Nat")
	}
}

func TestRenderReportWritesOneLinePerDiagnostic(t *testing.T) {
	d := New(config.Default())
	r := d.ElaborateFile("bad.st", "Nat.zero: Nat\n")
	var buf bytes.Buffer
	d.RenderReport(&buf, r, false)
	if buf.Len() == 0 {
		t.Fatalf("expected non-empty rendered report")
	}
}

func TestDumpRegistryListsDeclaredSymbols(t *testing.T) {
	d := New(config.Default())
	r := d.ElaborateFile("nat.st", "Nat: type(0l)\nNat.zero: Nat\n")
	if !r.Ok() {
		t.Fatalf("unexpected diagnostics: %v", r.Diagnostics)
	}
	var buf bytes.Buffer
	d.DumpRegistry(&buf)
	out := buf.String()
	if !bytes.Contains([]byte(out), []byte("Nat")) {
		t.Fatalf("expected dump to mention Nat, got %q", out)
	}
}

func TestRecordAndListHistoryRoundTrips(t *testing.T) {
	cfg := config.Default()
	cfg.HistoryDB = filepath.Join(t.TempDir(), "history.db")
	d := New(cfg)
	r := d.ElaborateFile("nat.st", "Nat: type(0l)\n")
	if err := d.RecordRun("hash123", r); err != nil {
		t.Fatalf("RecordRun: %v", err)
	}
	var buf bytes.Buffer
	if err := d.ListHistory(&buf, 10); err != nil {
		t.Fatalf("ListHistory: %v", err)
	}
	if !bytes.Contains(buf.Bytes(), []byte("nat.st")) {
		t.Fatalf("expected history listing to mention nat.st, got %q", buf.String())
	}
}
