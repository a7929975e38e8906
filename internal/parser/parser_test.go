package parser

import (
	"testing"

	"github.com/stratum-lang/stratum/internal/ast"
)

func parseOneDecl(t *testing.T, src string) *ast.Declaration {
	t.Helper()
	p := New("test.st", src)
	f, diags := p.ParseFile()
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics for %q: %v", src, diags)
	}
	if len(f.Declarations) != 1 {
		t.Fatalf("expected exactly 1 declaration for %q, got %d", src, len(f.Declarations))
	}
	return f.Declarations[0]
}

func TestParseAssertion(t *testing.T) {
	d := parseOneDecl(t, "Nat : type(0l)")
	if d.Kind != ast.DeclAssert {
		t.Fatalf("expected DeclAssert, got %v", d.Kind)
	}
	ident, ok := d.LHS.(*ast.Ident)
	if !ok || ident.Name != "Nat" {
		t.Fatalf("expected LHS Ident Nat, got %#v", d.LHS)
	}
	univ, ok := d.Type.(*ast.Universe)
	if !ok {
		t.Fatalf("expected Universe type, got %#v", d.Type)
	}
	lvl, ok := univ.Level.(*ast.LevelLit)
	if !ok || lvl.Value != 0 {
		t.Fatalf("expected level 0l, got %#v", univ.Level)
	}
}

func TestParseDefineWithType(t *testing.T) {
	d := parseOneDecl(t, "id : Nat -> Nat = \\x x")
	if d.Kind != ast.DeclDefine {
		t.Fatalf("expected DeclDefine, got %v", d.Kind)
	}
	fn, ok := d.Type.(*ast.FnType)
	if !ok || fn.Param != nil {
		t.Fatalf("expected non-dependent FnType, got %#v", d.Type)
	}
	lam, ok := d.Value.(*ast.Lambda)
	if !ok || lam.Param != "x" {
		t.Fatalf("expected lambda \\x, got %#v", d.Value)
	}
}

func TestParseDependentFnType(t *testing.T) {
	d := parseOneDecl(t, "Vec.nil : (n: Nat) -> Vec(n)")
	fn, ok := d.Type.(*ast.FnType)
	if !ok {
		t.Fatalf("expected FnType, got %#v", d.Type)
	}
	if fn.Param == nil || *fn.Param != "n" {
		t.Fatalf("expected dependent param 'n', got %#v", fn.Param)
	}
	if _, ok := fn.Input.(*ast.Ident); !ok {
		t.Fatalf("expected Ident input, got %#v", fn.Input)
	}
	call, ok := fn.Output.(*ast.Call)
	if !ok || len(call.Args) != 1 {
		t.Fatalf("expected Vec(n) call output, got %#v", fn.Output)
	}
}

func TestParseGroupedParenDoesNotBacktrackIntoDependentForm(t *testing.T) {
	d := parseOneDecl(t, "id : (Nat) -> Nat = \\x x")
	fn, ok := d.Type.(*ast.FnType)
	if !ok {
		t.Fatalf("expected FnType, got %#v", d.Type)
	}
	if fn.Param != nil {
		t.Fatalf("expected non-dependent (plain paren) FnType, got dependent param %v", *fn.Param)
	}
	if _, ok := fn.Input.(*ast.Ident); !ok {
		t.Fatalf("expected grouped Ident input, got %#v", fn.Input)
	}
}

func TestParseArrowRightAssociative(t *testing.T) {
	d := parseOneDecl(t, "f : A -> B -> C")
	outer, ok := d.Type.(*ast.FnType)
	if !ok {
		t.Fatalf("expected FnType, got %#v", d.Type)
	}
	if _, ok := outer.Input.(*ast.Ident); !ok {
		t.Fatalf("expected outer input to be A, got %#v", outer.Input)
	}
	inner, ok := outer.Output.(*ast.FnType)
	if !ok {
		t.Fatalf("expected B -> C nested as output, got %#v", outer.Output)
	}
	if ident, ok := inner.Input.(*ast.Ident); !ok || ident.Name != "B" {
		t.Fatalf("expected inner input B, got %#v", inner.Input)
	}
}

func TestParseRewriteRule(t *testing.T) {
	d := parseOneDecl(t, "Nat.add(?n, Nat.zero) := ?n")
	if d.Kind != ast.DeclRule {
		t.Fatalf("expected DeclRule, got %v", d.Kind)
	}
	call, ok := d.LHS.(*ast.Call)
	if !ok || len(call.Args) != 2 {
		t.Fatalf("expected 2-arg call LHS, got %#v", d.LHS)
	}
	if _, ok := call.Args[0].(*ast.PatternHole); !ok {
		t.Fatalf("expected first arg to be a pattern hole, got %#v", call.Args[0])
	}
	if _, ok := d.Value.(*ast.PatternHole); !ok {
		t.Fatalf("expected rule RHS to be a pattern hole, got %#v", d.Value)
	}
}

func TestParseEqualityCheck(t *testing.T) {
	d := parseOneDecl(t, "Nat.add(Nat.zero, Nat.zero) :=== Nat.zero")
	if d.Kind != ast.DeclEqualityCheck {
		t.Fatalf("expected DeclEqualityCheck, got %v", d.Kind)
	}
}

func TestParseCurriedCallChain(t *testing.T) {
	d := parseOneDecl(t, "r = f(a)(b, c)")
	outer, ok := d.Value.(*ast.Call)
	if !ok || len(outer.Args) != 2 {
		t.Fatalf("expected outer call with 2 args, got %#v", d.Value)
	}
	inner, ok := outer.Fn.(*ast.Call)
	if !ok || len(inner.Args) != 1 {
		t.Fatalf("expected inner call f(a), got %#v", outer.Fn)
	}
}

func TestParsePlaceholderAndAnonymousPatternHole(t *testing.T) {
	d := parseOneDecl(t, "Vec.head(Vec.cons(?x, _)) := ?x")
	call := d.LHS.(*ast.Call)
	inner := call.Args[0].(*ast.Call)
	if _, ok := inner.Args[1].(*ast.Placeholder); !ok {
		t.Fatalf("expected second arg to be an underscore placeholder, got %#v", inner.Args[1])
	}
}

func TestParseQuestionPlaceholderRequestsMeta(t *testing.T) {
	d := parseOneDecl(t, "v : ? = Nat.zero")
	ph, ok := d.Type.(*ast.Placeholder)
	if !ok || !ph.Named {
		t.Fatalf("expected a named ('?') placeholder, got %#v", d.Type)
	}
}

func TestParseMultipleDeclarationsSeparatedByNewline(t *testing.T) {
	p := New("test.st", "Nat : type(0l)\nNat.zero : Nat\n")
	f, diags := p.ParseFile()
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
	if len(f.Declarations) != 2 {
		t.Fatalf("expected 2 declarations, got %d", len(f.Declarations))
	}
}

func TestParseRecoversAfterSyntaxError(t *testing.T) {
	p := New("test.st", "Nat :\nNat.zero : Nat\n")
	f, diags := p.ParseFile()
	if len(diags) == 0 {
		t.Fatalf("expected a diagnostic for the malformed first declaration")
	}
	if len(f.Declarations) != 1 {
		t.Fatalf("expected parser to recover and still parse the second declaration, got %d", len(f.Declarations))
	}
	ident, ok := f.Declarations[0].LHS.(*ast.Ident)
	if !ok || ident.Name != "Nat.zero" {
		t.Fatalf("expected recovered declaration for Nat.zero, got %#v", f.Declarations[0])
	}
}
