// Package parser implements the hand-written recursive-descent /
// precedence-climbing parser (§4.5): tokens to AST, with resilient-span
// error reporting and no token-level recovery in α1 — the first syntax
// error ends the pass (§4.5, §7).
package parser

import (
	"fmt"

	"github.com/karol-broda/ferrule/internal/ast"
	"github.com/karol-broda/ferrule/internal/diag"
	"github.com/karol-broda/ferrule/internal/lexer"
)

// Precedence levels, in the canonical order of §4.5. Binary operators
// are left-associative; prefix (unary) operators are right-associative,
// which in a Pratt parser just means their single operand is parsed at
// their own precedence tier.
const (
	LOWEST = iota
	RANGE_PREC
	LOGOR
	LOGAND
	EQUALITY
	COMPARISON
	BITOR
	BITXOR
	BITAND
	SHIFT
	ADDITIVE
	MULTIPLICATIVE
	UNARY
	POSTFIX
)

var infixPrecedence = map[lexer.Kind]int{
	lexer.RANGE: RANGE_PREC, lexer.RANGEI: RANGE_PREC,
	lexer.OROR:   LOGOR,
	lexer.ANDAND: LOGAND,
	lexer.EQ:     EQUALITY, lexer.NEQ: EQUALITY,
	lexer.LT: COMPARISON, lexer.LTE: COMPARISON, lexer.GT: COMPARISON, lexer.GTE: COMPARISON,
	lexer.PIPE:  BITOR,
	lexer.CARET: BITXOR,
	lexer.AMP:   BITAND,
	lexer.SHL:   SHIFT, lexer.SHR: SHIFT,
	lexer.PLUS: ADDITIVE, lexer.MINUS: ADDITIVE, lexer.APPEND: ADDITIVE,
	lexer.STAR: MULTIPLICATIVE, lexer.SLASH: MULTIPLICATIVE, lexer.PERCENT: MULTIPLICATIVE,
	lexer.LPAREN: POSTFIX, lexer.DOT: POSTFIX, lexer.LBRACKET: POSTFIX,
}

// syntaxError is the sentinel returned by every parse function on
// failure; it carries the diagnostic that was already recorded into the
// parser's report. The parser is fail-fast (§4.5): the first syntaxError
// unwinds all the way out of Parse.
type syntaxError struct{ diag diag.Diagnostic }

func (e *syntaxError) Error() string { return e.diag.Message }

// Parser turns a token stream into an *ast.File.
type Parser struct {
	lex    *lexer.Lexer
	file   string
	report *diag.Report

	cur  lexer.Token
	peek lexer.Token
}

// New creates a Parser over src, attributing diagnostics to file and
// report.
func New(src []byte, file string, report *diag.Report) *Parser {
	p := &Parser{
		lex:    lexer.New(string(lexer.Normalize(src)), file),
		file:   file,
		report: report,
	}
	p.advance()
	p.advance()
	return p
}

func (p *Parser) advance() {
	p.cur = p.peek
	p.peek = p.lex.NextToken()
}

func (p *Parser) curIs(k lexer.Kind) bool  { return p.cur.Kind == k }
func (p *Parser) peekIs(k lexer.Kind) bool { return p.peek.Kind == k }

func (p *Parser) pos() ast.Pos {
	return ast.Pos{File: p.cur.File, Line: p.cur.Line, Column: p.cur.Column, Length: len(p.cur.Lexeme)}
}

// expect consumes the current token if it has kind k, advancing past it,
// or raises PAR001 (unexpected token) and returns a *syntaxError.
func (p *Parser) expect(k lexer.Kind) (lexer.Token, error) {
	if !p.curIs(k) {
		return lexer.Token{}, p.errorf(diag.PAR001, "expected %s, found %s %q", k, p.cur.Kind, p.cur.Lexeme)
	}
	tok := p.cur
	p.advance()
	return tok, nil
}

// errorf records an Error diagnostic at the current token's position and
// returns the sentinel failure value, ending the parse.
func (p *Parser) errorf(code diag.Code, format string, args ...interface{}) error {
	d := diag.New(diag.Error, code, fmt.Sprintf(format, args...), p.pos())
	p.report.Add(d)
	return &syntaxError{diag: d}
}

func (p *Parser) errorfAt(code diag.Code, pos ast.Pos, format string, args ...interface{}) error {
	d := diag.New(diag.Error, code, fmt.Sprintf(format, args...), pos)
	p.report.Add(d)
	return &syntaxError{diag: d}
}

// Parse drives top-level parsing (§4.5): an optional package
// declaration, then imports, then top-level declarations, in that
// order. It returns the partial File built up to the first syntax
// error, alongside that error; the partial nodes are ordinary
// garbage-collected values, so nothing needs to be freed.
func (p *Parser) Parse() (*ast.File, error) {
	file := &ast.File{FilePos: p.pos()}

	if p.curIs(lexer.PACKAGE) {
		pkg, err := p.parsePackageDecl()
		if err != nil {
			return file, err
		}
		file.Package = pkg
	}

	for p.curIs(lexer.IMPORT) {
		imp, err := p.parseImportDecl()
		if err != nil {
			return file, err
		}
		file.Imports = append(file.Imports, imp)
	}

	for !p.curIs(lexer.EOF) {
		stmt, err := p.parseTopDecl()
		if err != nil {
			return file, err
		}
		file.Statements = append(file.Statements, stmt)
	}

	return file, nil
}

func (p *Parser) parsePackageDecl() (*ast.PackageDecl, error) {
	pos := p.pos()
	if _, err := p.expect(lexer.PACKAGE); err != nil {
		return nil, err
	}
	name, err := p.parseDottedName()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.SEMICOLON); err != nil {
		return nil, err
	}
	return &ast.PackageDecl{Path: name, DeclPos: pos}, nil
}

// parseDottedName parses Ident {"." Ident}, tolerating keywords as
// identifiers in package path segments (§4.5 "Keyword-as-identifier
// tolerance").
func (p *Parser) parseDottedName() (string, error) {
	name, err := p.identOrKeywordText()
	if err != nil {
		return "", err
	}
	for p.curIs(lexer.DOT) {
		p.advance()
		seg, err := p.identOrKeywordText()
		if err != nil {
			return "", err
		}
		name += "." + seg
	}
	return name, nil
}

// identOrKeywordText returns the current token's text if it is an
// identifier or any keyword, advancing past it; used only for package
// path segments, where keyword-as-identifier is tolerated.
func (p *Parser) identOrKeywordText() (string, error) {
	if p.curIs(lexer.IDENT) || p.cur.IsKeyword() {
		text := p.cur.Lexeme
		p.advance()
		return text, nil
	}
	return "", p.errorf(diag.PAR004, "expected a name segment, found %s %q", p.cur.Kind, p.cur.Lexeme)
}

func (p *Parser) parseImportDecl() (*ast.Import, error) {
	pos := p.pos()
	if _, err := p.expect(lexer.IMPORT); err != nil {
		return nil, err
	}
	source, err := p.expect(lexer.STRING)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.LBRACE); err != nil {
		return nil, err
	}
	var names []ast.ImportName
	for !p.curIs(lexer.RBRACE) {
		name, err := p.expect(lexer.IDENT)
		if err != nil {
			return nil, err
		}
		entry := ast.ImportName{Name: name.Lexeme}
		if p.curIs(lexer.AS) {
			p.advance()
			alias, err := p.expect(lexer.IDENT)
			if err != nil {
				return nil, err
			}
			entry.Alias = alias.Lexeme
		}
		names = append(names, entry)
		if p.curIs(lexer.COMMA) {
			p.advance()
			continue
		}
		break
	}
	if _, err := p.expect(lexer.RBRACE); err != nil {
		return nil, err
	}
	capability := ""
	if p.curIs(lexer.USING) {
		p.advance()
		if _, err := p.expect(lexer.CAPABILITY); err != nil {
			return nil, err
		}
		tok, err := p.expect(lexer.IDENT)
		if err != nil {
			return nil, err
		}
		capability = tok.Lexeme
	}
	if _, err := p.expect(lexer.SEMICOLON); err != nil {
		return nil, err
	}
	return &ast.Import{Source: source.Lexeme, Names: names, Capability: capability, ImportPos: pos}, nil
}

func (p *Parser) parseTopDecl() (ast.Stmt, error) {
	exported := false
	if p.curIs(lexer.PUB) || p.curIs(lexer.EXPORT) {
		exported = true
		p.advance()
	}
	switch p.cur.Kind {
	case lexer.FUNCTION:
		return p.parseFuncDecl(exported)
	case lexer.TYPE:
		return p.parseTypeDecl(exported)
	case lexer.ERROR:
		return p.parseErrorDecl()
	case lexer.DOMAIN:
		return p.parseDomainDecl()
	case lexer.CONST:
		return p.parseConstDecl(exported)
	case lexer.VAR:
		return p.parseVarDecl(exported)
	case lexer.USE:
		return p.parseUseErrorStmt()
	case lexer.COMPONENT, lexer.DISTRIBUTE:
		// α2/β declaration forms: accepted and skipped to the matching
		// top-level terminator, per §9's "accept and ignore" contract.
		return p.parseAcceptedAndIgnoredDecl()
	default:
		return nil, p.errorf(diag.PAR001, "expected a top-level declaration, found %s %q", p.cur.Kind, p.cur.Lexeme)
	}
}

// parseAcceptedAndIgnoredDecl consumes a component/distribute block
// without interpreting it: these α2/β surface forms are parsed so later
// source isn't desynchronized, but carry no semantic weight (§9).
func (p *Parser) parseAcceptedAndIgnoredDecl() (ast.Stmt, error) {
	pos := p.pos()
	p.advance() // the leading keyword
	for !p.curIs(lexer.LBRACE) && !p.curIs(lexer.SEMICOLON) && !p.curIs(lexer.EOF) {
		p.advance()
	}
	if p.curIs(lexer.SEMICOLON) {
		p.advance()
		return &ast.ExprStmt{X: &ast.UnitLit{LitPos: pos}, StmtPos: pos}, nil
	}
	if _, err := p.expect(lexer.LBRACE); err != nil {
		return nil, err
	}
	depth := 1
	for depth > 0 {
		if p.curIs(lexer.EOF) {
			return nil, p.errorf(diag.PAR002, "unterminated block in accepted-and-ignored declaration")
		}
		if p.curIs(lexer.LBRACE) {
			depth++
		}
		if p.curIs(lexer.RBRACE) {
			depth--
		}
		p.advance()
	}
	return &ast.ExprStmt{X: &ast.UnitLit{LitPos: pos}, StmtPos: pos}, nil
}
