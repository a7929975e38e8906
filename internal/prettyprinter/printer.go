// Package prettyprinter renders parsed AST expressions back to surface
// syntax, used by `stratum fmt`'s reparse/print round trip (§8's
// idempotence property).
package prettyprinter

import (
	"bytes"
	"fmt"

	"github.com/stratum-lang/stratum/internal/ast"
)

// Printer accumulates surface syntax into a buffer, one declaration per
// line with no indentation — Stratum's grammar has no statement blocks to
// wrap.
type Printer struct {
	buf    bytes.Buffer
	indent int
}

func New() *Printer {
	return &Printer{}
}

func (p *Printer) String() string {
	return p.buf.String()
}

func (p *Printer) write(s string) {
	p.buf.WriteString(s)
}

func (p *Printer) writeIndent() {
	for i := 0; i < p.indent; i++ {
		p.buf.WriteString("  ")
	}
}

// PrintFile renders every declaration in order, one per line.
func (p *Printer) PrintFile(f *ast.File) string {
	for _, d := range f.Declarations {
		p.PrintDeclaration(d)
		p.write("\n")
	}
	return p.String()
}

func (p *Printer) PrintDeclaration(d *ast.Declaration) {
	p.PrintExpr(d.LHS)
	switch d.Kind {
	case ast.DeclAssert:
		p.write(" : ")
		p.PrintExpr(d.Type)
	case ast.DeclDefine:
		if d.Type != nil {
			p.write(" : ")
			p.PrintExpr(d.Type)
		}
		p.write(" = ")
		p.PrintExpr(d.Value)
	case ast.DeclRule:
		p.write(" := ")
		p.PrintExpr(d.Value)
	case ast.DeclEqualityCheck:
		p.write(" :=== ")
		p.PrintExpr(d.Value)
	}
}

// PrintExpr walks one expression, parenthesizing call/lambda arguments to
// arrows and lambda bodies only where the grammar requires it: an
// unparenthesized arrow or lambda nested as the input side of another arrow,
// or as a call head, would reparse differently.
func (p *Printer) PrintExpr(expr ast.Expr) {
	switch n := expr.(type) {
	case nil:
		p.write("<nil>")

	case *ast.Ident:
		p.write(n.Name)

	case *ast.LevelLit:
		p.write(fmt.Sprintf("%dl", n.Value))

	case *ast.Universe:
		p.write("type(")
		p.PrintExpr(n.Level)
		p.write(")")

	case *ast.Lambda:
		p.write("\\")
		p.write(n.Param)
		p.write(" ")
		p.printMaybeParen(n.Body, needsParenAsLambdaBody(n.Body))

	case *ast.FnType:
		if n.Param != nil {
			p.write("(")
			p.write(*n.Param)
			p.write(": ")
			p.PrintExpr(n.Input)
			p.write(")")
		} else {
			p.printMaybeParen(n.Input, needsParenAsArrowInput(n.Input))
		}
		p.write(" -> ")
		p.PrintExpr(n.Output)

	case *ast.Call:
		p.printMaybeParen(n.Fn, needsParenAsCallHead(n.Fn))
		p.write("(")
		for i, a := range n.Args {
			if i > 0 {
				p.write(", ")
			}
			p.PrintExpr(a)
		}
		p.write(")")

	case *ast.PatternHole:
		p.write("?")
		p.write(n.Name)

	case *ast.Placeholder:
		if n.Named {
			p.write("?")
		} else {
			p.write("_")
		}

	default:
		p.write(fmt.Sprintf("<unprintable %T>", expr))
	}
}

func (p *Printer) printMaybeParen(e ast.Expr, paren bool) {
	if paren {
		p.write("(")
		p.PrintExpr(e)
		p.write(")")
		return
	}
	p.PrintExpr(e)
}

func needsParenAsLambdaBody(ast.Expr) bool { return false }

func needsParenAsArrowInput(e ast.Expr) bool {
	switch e.(type) {
	case *ast.FnType, *ast.Lambda:
		return true
	default:
		return false
	}
}

func needsParenAsCallHead(e ast.Expr) bool {
	switch e.(type) {
	case *ast.Lambda, *ast.FnType:
		return true
	default:
		return false
	}
}
