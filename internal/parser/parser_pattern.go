package parser

import (
	"unicode"
	"unicode/utf8"

	"github.com/karol-broda/ferrule/internal/ast"
	"github.com/karol-broda/ferrule/internal/diag"
	"github.com/karol-broda/ferrule/internal/lexer"
)

// startsUpper reports whether s begins with an uppercase letter, the
// heuristic that disambiguates a variant constructor/pattern from a
// plain binding identifier (§3 AST, §4.5).
func startsUpper(s string) bool {
	r, _ := utf8.DecodeRuneInString(s)
	return unicode.IsUpper(r)
}

// parsePattern parses one match-arm pattern (§3 AST "Patterns").
func (p *Parser) parsePattern() (ast.Pattern, error) {
	pos := p.pos()

	switch p.cur.Kind {
	case lexer.OK:
		p.advance()
		binding := p.optionalBindingName()
		return &ast.OkPattern{Binding: binding, PatPos: pos}, nil

	case lexer.ERR:
		p.advance()
		binding := p.optionalBindingName()
		return &ast.ErrPattern{Binding: binding, PatPos: pos}, nil

	case lexer.MINUS:
		p.advance()
		lit, err := p.parseNumberLitPattern(true)
		if err != nil {
			return nil, err
		}
		return &ast.LiteralPattern{Value: lit, PatPos: pos}, nil

	case lexer.INT, lexer.FLOAT:
		lit, err := p.parseNumberLitPattern(false)
		if err != nil {
			return nil, err
		}
		return &ast.LiteralPattern{Value: lit, PatPos: pos}, nil

	case lexer.STRING:
		return &ast.LiteralPattern{Value: &ast.StringLit{Value: p.cur.Lexeme, LitPos: pos}, PatPos: pos}, p.advanceOK()

	case lexer.CHAR:
		r, _ := utf8.DecodeRuneInString(p.cur.Lexeme)
		return &ast.LiteralPattern{Value: &ast.CharLit{Value: r, LitPos: pos}, PatPos: pos}, p.advanceOK()

	case lexer.TRUE:
		p.advance()
		return &ast.LiteralPattern{Value: &ast.BoolLit{Value: true, LitPos: pos}, PatPos: pos}, nil

	case lexer.FALSE:
		p.advance()
		return &ast.LiteralPattern{Value: &ast.BoolLit{Value: false, LitPos: pos}, PatPos: pos}, nil

	case lexer.NULL:
		p.advance()
		return &ast.LiteralPattern{Value: &ast.NullLit{LitPos: pos}, PatPos: pos}, nil

	case lexer.IDENT:
		return p.parseIdentOrVariantPattern(pos)

	default:
		return nil, p.errorf(diag.PAR006, "invalid pattern: unexpected %s %q", p.cur.Kind, p.cur.Lexeme)
	}
}

func (p *Parser) advanceOK() error {
	p.advance()
	return nil
}

func (p *Parser) optionalBindingName() string {
	if p.curIs(lexer.IDENT) {
		name := p.cur.Lexeme
		p.advance()
		return name
	}
	return ""
}

func (p *Parser) parseNumberLitPattern(negative bool) (ast.Expr, error) {
	pos := p.pos()
	if !p.curIs(lexer.INT) && !p.curIs(lexer.FLOAT) {
		return nil, p.errorf(diag.PAR006, "invalid pattern: expected a number after '-', found %s %q", p.cur.Kind, p.cur.Lexeme)
	}
	lexeme := p.cur.Lexeme
	isFloat := p.curIs(lexer.FLOAT)
	if negative {
		lexeme = "-" + lexeme
	}
	p.advance()
	return &ast.NumberLit{Lexeme: lexeme, IsFloat: isFloat, LitPos: pos}, nil
}

// parseIdentOrVariantPattern resolves `_`, a lowercase binding, or an
// uppercase variant/Some/None pattern, per the same case-based
// heuristic used for expressions (§3 AST).
func (p *Parser) parseIdentOrVariantPattern(pos ast.Pos) (ast.Pattern, error) {
	name := p.cur.Lexeme
	p.advance()

	if name == "_" {
		return &ast.WildcardPattern{PatPos: pos}, nil
	}
	if !startsUpper(name) {
		return &ast.IdentPattern{Name: name, PatPos: pos}, nil
	}

	switch name {
	case "Some":
		return &ast.SomePattern{Binding: p.optionalBindingName(), PatPos: pos}, nil
	case "None":
		return &ast.NonePattern{PatPos: pos}, nil
	}

	variant := &ast.VariantPattern{Name: name, PatPos: pos}
	if p.curIs(lexer.LBRACE) {
		variant.HasBrace = true
		p.advance()
		for !p.curIs(lexer.RBRACE) {
			fname, err := p.expect(lexer.IDENT)
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(lexer.COLON); err != nil {
				return nil, err
			}
			fpat, err := p.parsePattern()
			if err != nil {
				return nil, err
			}
			variant.Fields = append(variant.Fields, ast.FieldPattern{Name: fname.Lexeme, Pattern: fpat})
			if p.curIs(lexer.COMMA) {
				p.advance()
				continue
			}
			break
		}
		if _, err := p.expect(lexer.RBRACE); err != nil {
			return nil, err
		}
	}
	return variant, nil
}
