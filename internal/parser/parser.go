// Package parser implements Stratum's recursive-descent parser (§6): raw
// source text in, an *ast.File out. It is mechanical front-end plumbing —
// the interesting engineering lives in internal/term, internal/registry,
// internal/solver and internal/elaborator.
package parser

import (
	"fmt"
	"strconv"

	"github.com/stratum-lang/stratum/internal/ast"
	"github.com/stratum-lang/stratum/internal/diagnostics"
	"github.com/stratum-lang/stratum/internal/lexer"
	"github.com/stratum-lang/stratum/internal/token"
)

// Parser turns one file's token stream into an *ast.File.
type Parser struct {
	lex *lexer.Lexer

	file string

	curToken  token.Token
	peekToken token.Token

	diags []diagnostics.Diagnostic
}

// New creates a Parser over src, tagging diagnostics with file.
func New(file, src string) *Parser {
	p := &Parser{lex: lexer.New(file, src), file: file}
	p.nextToken()
	p.nextToken()
	return p
}

func (p *Parser) nextToken() {
	p.curToken = p.peekToken
	p.peekToken = p.lex.NextToken()
}

func (p *Parser) curTokenIs(t token.Type) bool  { return p.curToken.Type == t }
func (p *Parser) peekTokenIs(t token.Type) bool { return p.peekToken.Type == t }

func (p *Parser) errorf(format string, args ...interface{}) {
	p.diags = append(p.diags, diagnostics.Syntax(p.curToken.Pos, fmt.Sprintf(format, args...)))
}

// ParseFile consumes the whole token stream, returning every declaration
// it could recover and every parse diagnostic encountered along the way.
// A declaration that fails to parse is skipped; the parser resynchronises
// at the next NEWLINE/SEMI/EOF, per §7's "recovers at statement
// boundaries".
func (p *Parser) ParseFile() (*ast.File, []diagnostics.Diagnostic) {
	f := &ast.File{Path: p.file}
	p.skipSeparators()
	for !p.curTokenIs(token.EOF) {
		decl := p.parseDeclaration()
		if decl != nil {
			f.Declarations = append(f.Declarations, decl)
		} else {
			p.recover()
		}
		p.skipSeparators()
	}
	return f, p.diags
}

func (p *Parser) skipSeparators() {
	for p.curTokenIs(token.NEWLINE) || p.curTokenIs(token.SEMI) {
		p.nextToken()
	}
}

func (p *Parser) recover() {
	for !p.curTokenIs(token.NEWLINE) && !p.curTokenIs(token.SEMI) && !p.curTokenIs(token.EOF) {
		p.nextToken()
	}
}

// parseDeclaration implements the four declaration forms of §6.
func (p *Parser) parseDeclaration() *ast.Declaration {
	pos := p.curToken.Pos
	lhs := p.parseExpr()
	if lhs == nil {
		return nil
	}
	decl := &ast.Declaration{Position: pos, LHS: lhs}

	switch p.curToken.Type {
	case token.COLON:
		p.nextToken()
		typ := p.parseExpr()
		if typ == nil {
			return nil
		}
		decl.Type = typ
		if p.curTokenIs(token.ASSIGN) {
			p.nextToken()
			val := p.parseExpr()
			if val == nil {
				return nil
			}
			decl.Value = val
			decl.Kind = ast.DeclDefine
		} else {
			decl.Kind = ast.DeclAssert
		}
	case token.ASSIGN:
		p.nextToken()
		val := p.parseExpr()
		if val == nil {
			return nil
		}
		decl.Value = val
		decl.Kind = ast.DeclDefine
	case token.DEFINE:
		p.nextToken()
		val := p.parseExpr()
		if val == nil {
			return nil
		}
		decl.Value = val
		decl.Kind = ast.DeclRule
	case token.EQUALCHECK:
		p.nextToken()
		val := p.parseExpr()
		if val == nil {
			return nil
		}
		decl.Value = val
		decl.Kind = ast.DeclEqualityCheck
	default:
		p.errorf("expected ':', '=', ':=' or ':===', got %q", p.curToken.Lexeme)
		return nil
	}

	if !p.curTokenIs(token.NEWLINE) && !p.curTokenIs(token.SEMI) && !p.curTokenIs(token.EOF) {
		p.errorf("unexpected trailing token %q after declaration", p.curToken.Lexeme)
		return nil
	}
	return decl
}

// parseExpr is the top-level expression grammar entry point.
func (p *Parser) parseExpr() ast.Expr {
	return p.parseLambda()
}

// parseLambda handles `\x body`, right-associative over multiple params.
func (p *Parser) parseLambda() ast.Expr {
	if !p.curTokenIs(token.BACKSLASH) {
		return p.parseArrow()
	}
	pos := p.curToken.Pos
	p.nextToken()
	if !p.curTokenIs(token.IDENT) {
		p.errorf("expected parameter name after '\\', got %q", p.curToken.Lexeme)
		return nil
	}
	param := p.curToken.Literal
	p.nextToken()
	body := p.parseLambda()
	if body == nil {
		return nil
	}
	return &ast.Lambda{Position: pos, Param: param, Body: body}
}

// parseArrow handles `T -> U` and, via tryParseDependentFnType, the
// dependent `(x: T) -> U` form — right-associative, so `A -> B -> C` is
// `A -> (B -> C)`.
func (p *Parser) parseArrow() ast.Expr {
	if dep := p.tryParseDependentFnType(); dep != nil {
		return dep
	}
	pos := p.curToken.Pos
	left := p.parseApplication()
	if left == nil {
		return nil
	}
	if p.curTokenIs(token.ARROW) {
		p.nextToken()
		right := p.parseArrow()
		if right == nil {
			return nil
		}
		return &ast.FnType{Position: pos, Input: left, Output: right}
	}
	return left
}

// tryParseDependentFnType speculatively parses `(x: T) -> U`. On any
// mismatch it restores the lexer and token lookahead to exactly where they
// started and returns nil, letting the caller fall back to an ordinary
// parenthesised expression. This works because lexer.Lexer holds only
// value fields, so copying it is a true snapshot.
func (p *Parser) tryParseDependentFnType() ast.Expr {
	if !p.curTokenIs(token.LPAREN) {
		return nil
	}

	savedLex := *p.lex
	savedCur, savedPeek := p.curToken, p.peekToken
	restore := func() {
		*p.lex = savedLex
		p.curToken, p.peekToken = savedCur, savedPeek
	}

	pos := p.curToken.Pos
	p.nextToken() // consume '('
	if !p.curTokenIs(token.IDENT) {
		restore()
		return nil
	}
	name := p.curToken.Literal
	p.nextToken()
	if !p.curTokenIs(token.COLON) {
		restore()
		return nil
	}
	p.nextToken() // consume ':'
	inputType := p.parseExpr()
	if inputType == nil || !p.curTokenIs(token.RPAREN) {
		restore()
		return nil
	}
	p.nextToken() // consume ')'
	if !p.curTokenIs(token.ARROW) {
		restore()
		return nil
	}
	p.nextToken() // consume '->'
	output := p.parseArrow()
	if output == nil {
		restore()
		return nil
	}
	return &ast.FnType{Position: pos, Param: &name, Input: inputType, Output: output}
}

// parseApplication handles left-associative n-ary calls `f(a, b)(c)`.
func (p *Parser) parseApplication() ast.Expr {
	fn := p.parsePrimary()
	if fn == nil {
		return nil
	}
	for p.curTokenIs(token.LPAREN) {
		pos := p.curToken.Pos
		p.nextToken()
		var args []ast.Expr
		if !p.curTokenIs(token.RPAREN) {
			for {
				arg := p.parseExpr()
				if arg == nil {
					return nil
				}
				args = append(args, arg)
				if p.curTokenIs(token.COMMA) {
					p.nextToken()
					continue
				}
				break
			}
		}
		if !p.curTokenIs(token.RPAREN) {
			p.errorf("expected ')' to close call, got %q", p.curToken.Lexeme)
			return nil
		}
		p.nextToken()
		fn = &ast.Call{Position: pos, Fn: fn, Args: args}
	}
	return fn
}

func (p *Parser) parsePrimary() ast.Expr {
	switch p.curToken.Type {
	case token.IDENT:
		tok := p.curToken
		p.nextToken()
		return &ast.Ident{Position: tok.Pos, Name: tok.Lexeme}

	case token.LEVEL:
		tok := p.curToken
		p.nextToken()
		v, err := strconv.ParseUint(tok.Literal, 10, 64)
		if err != nil {
			p.errorf("invalid level literal %q", tok.Lexeme)
			return nil
		}
		return &ast.LevelLit{Position: tok.Pos, Value: v}

	case token.TYPE:
		pos := p.curToken.Pos
		p.nextToken()
		if !p.curTokenIs(token.LPAREN) {
			p.errorf("expected '(' after 'type', got %q", p.curToken.Lexeme)
			return nil
		}
		p.nextToken()
		level := p.parseExpr()
		if level == nil {
			return nil
		}
		if !p.curTokenIs(token.RPAREN) {
			p.errorf("expected ')' to close 'type(...)', got %q", p.curToken.Lexeme)
			return nil
		}
		p.nextToken()
		return &ast.Universe{Position: pos, Level: level}

	case token.LPAREN:
		p.nextToken()
		inner := p.parseExpr()
		if inner == nil {
			return nil
		}
		if !p.curTokenIs(token.RPAREN) {
			p.errorf("expected ')', got %q", p.curToken.Lexeme)
			return nil
		}
		p.nextToken()
		return inner

	case token.PATVAR:
		tok := p.curToken
		p.nextToken()
		if tok.Literal == "" {
			return &ast.Placeholder{Position: tok.Pos, Named: true}
		}
		return &ast.PatternHole{Position: tok.Pos, Name: tok.Literal}

	case token.UNDERSCORE:
		tok := p.curToken
		p.nextToken()
		return &ast.Placeholder{Position: tok.Pos, Named: false}

	default:
		p.errorf("unexpected token %q", p.curToken.Lexeme)
		return nil
	}
}
