package parser

import (
	"github.com/karol-broda/ferrule/internal/ast"
	"github.com/karol-broda/ferrule/internal/diag"
	"github.com/karol-broda/ferrule/internal/lexer"
)

// parseTypeExpr parses one syntactic type expression (§3 AST "type
// expressions"), including the trailing `?` nullable suffix which binds
// looser than everything else in a type position.
func (p *Parser) parseTypeExpr() (ast.TypeExpr, error) {
	base, err := p.parseTypeExprBase()
	if err != nil {
		return nil, err
	}
	for p.curIs(lexer.QUESTION) {
		pos := p.pos()
		p.advance()
		base = &ast.NullableTypeExpr{Inner: base, TypePos: pos}
	}
	return base, nil
}

func (p *Parser) parseTypeExprBase() (ast.TypeExpr, error) {
	switch p.cur.Kind {
	case lexer.IDENT:
		return p.parseNamedTypeExpr()
	case lexer.LBRACE:
		return p.parseRecordTypeExpr()
	case lexer.PIPE:
		return p.parseUnionTypeExpr()
	case lexer.UNIT:
		pos := p.pos()
		p.advance()
		return &ast.SimpleTypeExpr{Name: "unit", TypePos: pos}, nil
	default:
		return nil, p.errorf(diag.PAR007, "expected a type, found %s %q", p.cur.Kind, p.cur.Lexeme)
	}
}

// parseNamedTypeExpr parses `Name`, `Name<args>`, or the two built-in
// generic spellings `View<[mut] T>` and a nullable already handled by
// the caller.
func (p *Parser) parseNamedTypeExpr() (ast.TypeExpr, error) {
	pos := p.pos()
	name, err := p.expect(lexer.IDENT)
	if err != nil {
		return nil, err
	}
	if !p.curIs(lexer.LT) {
		return &ast.SimpleTypeExpr{Name: name.Lexeme, TypePos: pos}, nil
	}

	if name.Lexeme == "View" {
		return p.parseViewTypeExpr(pos)
	}

	p.advance() // consume '<'
	var args []ast.GenericArg
	for !p.curIs(lexer.GT) {
		arg, err := p.parseGenericArg()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
		if p.curIs(lexer.COMMA) {
			p.advance()
			continue
		}
		break
	}
	if _, err := p.expect(lexer.GT); err != nil {
		return nil, err
	}
	return &ast.GenericTypeExpr{Name: name.Lexeme, Args: args, TypePos: pos}, nil
}

func (p *Parser) parseGenericArg() (ast.GenericArg, error) {
	if p.curIs(lexer.INT) {
		tok := p.cur
		p.advance()
		return ast.GenericArg{IntLit: tok.Lexeme}, nil
	}
	t, err := p.parseTypeExpr()
	if err != nil {
		return ast.GenericArg{}, err
	}
	return ast.GenericArg{Type: t}, nil
}

// parseViewTypeExpr parses `View<T>` or `View<mut T>`. "mut" is not a
// reserved word (§6); it is recognized here only as the literal text of
// an identifier token immediately following '<'.
func (p *Parser) parseViewTypeExpr(pos ast.Pos) (ast.TypeExpr, error) {
	if _, err := p.expect(lexer.LT); err != nil {
		return nil, err
	}
	mutable := false
	if p.curIs(lexer.IDENT) && p.cur.Lexeme == "mut" {
		mutable = true
		p.advance()
	}
	inner, err := p.parseTypeExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.GT); err != nil {
		return nil, err
	}
	return &ast.ViewTypeExpr{Mutable: mutable, Inner: inner, TypePos: pos}, nil
}

func (p *Parser) parseRecordTypeExpr() (ast.TypeExpr, error) {
	pos := p.pos()
	if _, err := p.expect(lexer.LBRACE); err != nil {
		return nil, err
	}
	var fields []ast.RecordFieldType
	for !p.curIs(lexer.RBRACE) {
		fieldPos := p.pos()
		name, err := p.expect(lexer.IDENT)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.COLON); err != nil {
			return nil, err
		}
		ty, err := p.parseTypeExpr()
		if err != nil {
			return nil, err
		}
		fields = append(fields, ast.RecordFieldType{Name: name.Lexeme, Type: ty, Pos: fieldPos})
		if p.curIs(lexer.COMMA) {
			p.advance()
			continue
		}
		break
	}
	if _, err := p.expect(lexer.RBRACE); err != nil {
		return nil, err
	}
	return &ast.RecordTypeExpr{Fields: fields, TypePos: pos}, nil
}

// parseUnionTypeExpr parses `| Name [{ fields }] | Name ...` (§3 AST
// "union (variants with optional field lists)").
func (p *Parser) parseUnionTypeExpr() (ast.TypeExpr, error) {
	pos := p.pos()
	var variants []ast.UnionVariantType
	for p.curIs(lexer.PIPE) {
		p.advance()
		v, err := p.parseUnionVariantType()
		if err != nil {
			return nil, err
		}
		variants = append(variants, v)
	}
	return &ast.UnionTypeExpr{Variants: variants, TypePos: pos}, nil
}

func (p *Parser) parseUnionVariantType() (ast.UnionVariantType, error) {
	name, err := p.expect(lexer.IDENT)
	if err != nil {
		return ast.UnionVariantType{}, err
	}
	v := ast.UnionVariantType{Name: name.Lexeme}
	if p.curIs(lexer.LBRACE) {
		p.advance()
		for !p.curIs(lexer.RBRACE) {
			fieldPos := p.pos()
			fname, err := p.expect(lexer.IDENT)
			if err != nil {
				return ast.UnionVariantType{}, err
			}
			if _, err := p.expect(lexer.COLON); err != nil {
				return ast.UnionVariantType{}, err
			}
			ty, err := p.parseTypeExpr()
			if err != nil {
				return ast.UnionVariantType{}, err
			}
			v.Fields = append(v.Fields, ast.RecordFieldType{Name: fname.Lexeme, Type: ty, Pos: fieldPos})
			if p.curIs(lexer.COMMA) {
				p.advance()
				continue
			}
			break
		}
		if _, err := p.expect(lexer.RBRACE); err != nil {
			return ast.UnionVariantType{}, err
		}
	}
	return v, nil
}

// parseTypeParams parses an optional `<T, U>` list following a function
// or type name.
func (p *Parser) parseTypeParams() ([]string, error) {
	if !p.curIs(lexer.LT) {
		return nil, nil
	}
	p.advance()
	var params []string
	for !p.curIs(lexer.GT) {
		name, err := p.expect(lexer.IDENT)
		if err != nil {
			return nil, err
		}
		params = append(params, name.Lexeme)
		if p.curIs(lexer.COMMA) {
			p.advance()
			continue
		}
		break
	}
	if _, err := p.expect(lexer.GT); err != nil {
		return nil, err
	}
	return params, nil
}
