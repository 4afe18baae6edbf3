package parser

import (
	"github.com/karol-broda/ferrule/internal/ast"
	"github.com/karol-broda/ferrule/internal/diag"
	"github.com/karol-broda/ferrule/internal/lexer"
)

// parseFuncDecl parses:
//
//	function name[<T,U>](params) -> ReturnType [effects [e1, e2]] [error Name] { body }
//
// the effects and error clauses may appear in either order (§4.5).
func (p *Parser) parseFuncDecl(exported bool) (ast.Stmt, error) {
	pos := p.pos()
	if _, err := p.expect(lexer.FUNCTION); err != nil {
		return nil, err
	}
	name, err := p.expect(lexer.IDENT)
	if err != nil {
		return nil, err
	}
	typeParams, err := p.parseTypeParams()
	if err != nil {
		return nil, err
	}
	params, err := p.parseParamList()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.ARROW); err != nil {
		return nil, err
	}
	retType, err := p.parseTypeExpr()
	if err != nil {
		return nil, err
	}

	decl := &ast.FuncDecl{
		Name:       name.Lexeme,
		TypeParams: typeParams,
		Params:     params,
		ReturnType: retType,
		Exported:   exported,
		DeclPos:    pos,
	}

	for p.curIs(lexer.EFFECTS) || p.curIs(lexer.ERROR) {
		if p.curIs(lexer.EFFECTS) {
			effects, err := p.parseEffectList()
			if err != nil {
				return nil, err
			}
			decl.Effects = effects
			continue
		}
		p.advance() // 'error'
		domainName, err := p.expect(lexer.IDENT)
		if err != nil {
			return nil, err
		}
		decl.ErrorName = domainName.Lexeme
	}

	body, err := p.parseBlockExpr()
	if err != nil {
		return nil, err
	}
	decl.Body = body
	return decl, nil
}

// parseParamList parses `(param, param, ...)`. Each param is
// `[inout] [cap] name : Type`.
func (p *Parser) parseParamList() ([]*ast.Param, error) {
	if _, err := p.expect(lexer.LPAREN); err != nil {
		return nil, err
	}
	var params []*ast.Param
	for !p.curIs(lexer.RPAREN) {
		param, err := p.parseParam()
		if err != nil {
			return nil, err
		}
		params = append(params, param)
		if p.curIs(lexer.COMMA) {
			p.advance()
			continue
		}
		break
	}
	if _, err := p.expect(lexer.RPAREN); err != nil {
		return nil, err
	}
	return params, nil
}

func (p *Parser) parseParam() (*ast.Param, error) {
	pos := p.pos()
	inout := false
	capability := false
	for {
		switch p.cur.Kind {
		case lexer.INOUT:
			inout = true
			p.advance()
			continue
		case lexer.CAP:
			capability = true
			p.advance()
			continue
		}
		break
	}
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
	return &ast.Param{Name: name.Lexeme, Type: ty, Inout: inout, Capability: capability, ParamPos: pos}, nil
}

// parseTypeDecl parses `type Name[<T>] = TypeExpr;`.
func (p *Parser) parseTypeDecl(exported bool) (ast.Stmt, error) {
	pos := p.pos()
	if _, err := p.expect(lexer.TYPE); err != nil {
		return nil, err
	}
	name, err := p.expect(lexer.IDENT)
	if err != nil {
		return nil, err
	}
	typeParams, err := p.parseTypeParams()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.ASSIGN); err != nil {
		return nil, err
	}
	underlying, err := p.parseTypeExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.SEMICOLON); err != nil {
		return nil, err
	}
	return &ast.TypeDecl{Name: name.Lexeme, TypeParams: typeParams, Underlying: underlying, Exported: exported, DeclPos: pos}, nil
}

// parseErrorDecl parses `error Name { Variant [{ fields }], ... };`.
func (p *Parser) parseErrorDecl() (ast.Stmt, error) {
	pos := p.pos()
	if _, err := p.expect(lexer.ERROR); err != nil {
		return nil, err
	}
	name, err := p.expect(lexer.IDENT)
	if err != nil {
		return nil, err
	}
	variants, err := p.parseErrorVariantList()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.SEMICOLON); err != nil {
		return nil, err
	}
	return &ast.ErrorDecl{Name: name.Lexeme, Variants: variants, DeclPos: pos}, nil
}

func (p *Parser) parseErrorVariantList() ([]ast.ErrorVariant, error) {
	if _, err := p.expect(lexer.LBRACE); err != nil {
		return nil, err
	}
	var variants []ast.ErrorVariant
	for !p.curIs(lexer.RBRACE) {
		v, err := p.parseErrorVariant()
		if err != nil {
			return nil, err
		}
		variants = append(variants, v)
		if p.curIs(lexer.COMMA) {
			p.advance()
			continue
		}
		break
	}
	if _, err := p.expect(lexer.RBRACE); err != nil {
		return nil, err
	}
	return variants, nil
}

func (p *Parser) parseErrorVariant() (ast.ErrorVariant, error) {
	name, err := p.expect(lexer.IDENT)
	if err != nil {
		return ast.ErrorVariant{}, err
	}
	v := ast.ErrorVariant{Name: name.Lexeme}
	if p.curIs(lexer.LBRACE) {
		p.advance()
		for !p.curIs(lexer.RBRACE) {
			fieldPos := p.pos()
			fname, err := p.expect(lexer.IDENT)
			if err != nil {
				return ast.ErrorVariant{}, err
			}
			if _, err := p.expect(lexer.COLON); err != nil {
				return ast.ErrorVariant{}, err
			}
			ty, err := p.parseTypeExpr()
			if err != nil {
				return ast.ErrorVariant{}, err
			}
			v.Fields = append(v.Fields, &ast.Param{Name: fname.Lexeme, Type: ty, ParamPos: fieldPos})
			if p.curIs(lexer.COMMA) {
				p.advance()
				continue
			}
			break
		}
		if _, err := p.expect(lexer.RBRACE); err != nil {
			return ast.ErrorVariant{}, err
		}
	}
	return v, nil
}

// parseDomainDecl parses either the union form, `domain Name = X, Y;`,
// or the inline-variant form, `domain Name { Variant, ... };` (§3 AST
// "Error domain").
func (p *Parser) parseDomainDecl() (ast.Stmt, error) {
	pos := p.pos()
	if _, err := p.expect(lexer.DOMAIN); err != nil {
		return nil, err
	}
	name, err := p.expect(lexer.IDENT)
	if err != nil {
		return nil, err
	}
	decl := &ast.DomainDecl{Name: name.Lexeme, DeclPos: pos}
	if p.curIs(lexer.ASSIGN) {
		p.advance()
		for {
			member, err := p.expect(lexer.IDENT)
			if err != nil {
				return nil, err
			}
			decl.Unions = append(decl.Unions, member.Lexeme)
			if p.curIs(lexer.COMMA) {
				p.advance()
				continue
			}
			break
		}
		if _, err := p.expect(lexer.SEMICOLON); err != nil {
			return nil, err
		}
		return decl, nil
	}
	variants, err := p.parseErrorVariantList()
	if err != nil {
		return nil, err
	}
	decl.Variants = variants
	if _, err := p.expect(lexer.SEMICOLON); err != nil {
		return nil, err
	}
	return decl, nil
}

func (p *Parser) parseConstDecl(exported bool) (ast.Stmt, error) {
	pos := p.pos()
	if _, err := p.expect(lexer.CONST); err != nil {
		return nil, err
	}
	name, err := p.expect(lexer.IDENT)
	if err != nil {
		return nil, err
	}
	var typ ast.TypeExpr
	if p.curIs(lexer.COLON) {
		p.advance()
		typ, err = p.parseTypeExpr()
		if err != nil {
			return nil, err
		}
	}
	if _, err := p.expect(lexer.ASSIGN); err != nil {
		return nil, err
	}
	value, err := p.parseExpression(LOWEST)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.SEMICOLON); err != nil {
		return nil, err
	}
	return &ast.ConstDecl{Name: name.Lexeme, Type: typ, Value: value, Exported: exported, DeclPos: pos}, nil
}

func (p *Parser) parseVarDecl(exported bool) (ast.Stmt, error) {
	pos := p.pos()
	if _, err := p.expect(lexer.VAR); err != nil {
		return nil, err
	}
	name, err := p.expect(lexer.IDENT)
	if err != nil {
		return nil, err
	}
	var typ ast.TypeExpr
	if p.curIs(lexer.COLON) {
		p.advance()
		typ, err = p.parseTypeExpr()
		if err != nil {
			return nil, err
		}
	}
	if _, err := p.expect(lexer.ASSIGN); err != nil {
		return nil, err
	}
	value, err := p.parseExpression(LOWEST)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.SEMICOLON); err != nil {
		return nil, err
	}
	return &ast.VarDecl{Name: name.Lexeme, Type: typ, Value: value, Exported: exported, DeclPos: pos}, nil
}

func (p *Parser) parseUseErrorStmt() (ast.Stmt, error) {
	pos := p.pos()
	if _, err := p.expect(lexer.USE); err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.ERROR); err != nil {
		return nil, err
	}
	name, err := p.expect(lexer.IDENT)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.SEMICOLON); err != nil {
		return nil, err
	}
	return &ast.UseErrorStmt{Name: name.Lexeme, StmtPos: pos}, nil
}

// parseEffectList parses `effects [name, name, ...]`.
func (p *Parser) parseEffectList() ([]string, error) {
	if _, err := p.expect(lexer.EFFECTS); err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.LBRACKET); err != nil {
		return nil, err
	}
	var effects []string
	for !p.curIs(lexer.RBRACKET) {
		if !p.curIs(lexer.IDENT) {
			return nil, p.errorf(diag.PAR008, "invalid effect annotation: expected an effect name, found %s %q", p.cur.Kind, p.cur.Lexeme)
		}
		name := p.cur
		p.advance()
		effects = append(effects, name.Lexeme)
		if p.curIs(lexer.COMMA) {
			p.advance()
			continue
		}
		break
	}
	if _, err := p.expect(lexer.RBRACKET); err != nil {
		return nil, err
	}
	return effects, nil
}
