package parser

import (
	"unicode/utf8"

	"github.com/karol-broda/ferrule/internal/ast"
	"github.com/karol-broda/ferrule/internal/diag"
	"github.com/karol-broda/ferrule/internal/lexer"
)

// parserSnapshot captures enough state to rewind the token stream. The
// Lexer holds only value fields, so copying it by value is a cheap,
// complete checkpoint — used by the bounded lookahead that
// disambiguates an anonymous function's parameter list from a
// parenthesized expression (§4.5).
type parserSnapshot struct {
	lex  lexer.Lexer
	cur  lexer.Token
	peek lexer.Token
}

func (p *Parser) snapshot() parserSnapshot {
	return parserSnapshot{lex: *p.lex, cur: p.cur, peek: p.peek}
}

func (p *Parser) restore(s parserSnapshot) {
	*p.lex = s.lex
	p.cur = s.cur
	p.peek = s.peek
}

// parseExpression is the precedence-climbing entry point (§4.5): parse
// a prefix/primary expression, then repeatedly fold in postfix and
// binary operators whose precedence is at least minPrec.
func (p *Parser) parseExpression(minPrec int) (ast.Expr, error) {
	left, err := p.parsePrefixExpr()
	if err != nil {
		return nil, err
	}

	for {
		prec, ok := infixPrecedence[p.cur.Kind]
		if !ok || prec < minPrec {
			return left, nil
		}

		switch p.cur.Kind {
		case lexer.LPAREN:
			left, err = p.parseCallExpr(left)
		case lexer.DOT:
			left, err = p.parseFieldAccessExpr(left)
		case lexer.LBRACKET:
			left, err = p.parseIndexExpr(left)
		case lexer.RANGE, lexer.RANGEI:
			left, err = p.parseRangeExpr(left)
		default:
			left, err = p.parseBinaryExpr(left, prec)
		}
		if err != nil {
			return nil, err
		}
	}
}

func binaryOpFor(k lexer.Kind) (ast.BinaryOp, bool) {
	switch k {
	case lexer.OROR:
		return ast.OpOr, true
	case lexer.ANDAND:
		return ast.OpAnd, true
	case lexer.EQ:
		return ast.OpEq, true
	case lexer.NEQ:
		return ast.OpNeq, true
	case lexer.LT:
		return ast.OpLt, true
	case lexer.LTE:
		return ast.OpLte, true
	case lexer.GT:
		return ast.OpGt, true
	case lexer.GTE:
		return ast.OpGte, true
	case lexer.PIPE:
		return ast.OpBitOr, true
	case lexer.CARET:
		return ast.OpBitXor, true
	case lexer.AMP:
		return ast.OpBitAnd, true
	case lexer.SHL:
		return ast.OpShl, true
	case lexer.SHR:
		return ast.OpShr, true
	case lexer.PLUS:
		return ast.OpAdd, true
	case lexer.MINUS:
		return ast.OpSub, true
	case lexer.APPEND:
		return ast.OpConcat, true
	case lexer.STAR:
		return ast.OpMul, true
	case lexer.SLASH:
		return ast.OpDiv, true
	case lexer.PERCENT:
		return ast.OpMod, true
	default:
		return 0, false
	}
}

func (p *Parser) parseBinaryExpr(left ast.Expr, prec int) (ast.Expr, error) {
	pos := p.pos()
	op, ok := binaryOpFor(p.cur.Kind)
	if !ok {
		return nil, p.errorf(diag.PAR001, "unexpected operator %s %q", p.cur.Kind, p.cur.Lexeme)
	}
	p.advance()
	right, err := p.parseExpression(prec + 1)
	if err != nil {
		return nil, err
	}
	return &ast.BinaryExpr{Op: op, Left: left, Right: right, ExprPos: pos}, nil
}

func (p *Parser) parseRangeExpr(left ast.Expr) (ast.Expr, error) {
	pos := p.pos()
	inclusive := p.curIs(lexer.RANGEI)
	p.advance()
	end, err := p.parseExpression(RANGE_PREC + 1)
	if err != nil {
		return nil, err
	}
	return &ast.RangeExpr{Start: left, End: end, Inclusive: inclusive, RangePos: pos}, nil
}

func (p *Parser) parseCallExpr(callee ast.Expr) (ast.Expr, error) {
	pos := p.pos()
	p.advance() // '('
	var args []ast.Expr
	for !p.curIs(lexer.RPAREN) {
		arg, err := p.parseExpression(LOWEST)
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
	if _, err := p.expect(lexer.RPAREN); err != nil {
		return nil, err
	}
	return &ast.CallExpr{Callee: callee, Args: args, CallPos: pos}, nil
}

func (p *Parser) parseFieldAccessExpr(target ast.Expr) (ast.Expr, error) {
	pos := p.pos()
	p.advance() // '.'
	name, err := p.expect(lexer.IDENT)
	if err != nil {
		return nil, err
	}
	return &ast.FieldAccessExpr{Target: target, Field: name.Lexeme, FAPos: pos}, nil
}

func (p *Parser) parseIndexExpr(target ast.Expr) (ast.Expr, error) {
	pos := p.pos()
	p.advance() // '['
	idx, err := p.parseExpression(LOWEST)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.RBRACKET); err != nil {
		return nil, err
	}
	return &ast.IndexExpr{Target: target, Index: idx, IdxPos: pos}, nil
}

// parsePrefixExpr dispatches unary operators and the result/error/
// comptime/cast keyword-led forms, falling through to parsePrimaryExpr
// for everything else (§4.5 "unary" precedence tier).
func (p *Parser) parsePrefixExpr() (ast.Expr, error) {
	switch p.cur.Kind {
	case lexer.MINUS:
		pos := p.pos()
		p.advance()
		operand, err := p.parseExpression(UNARY)
		if err != nil {
			return nil, err
		}
		return &ast.UnaryExpr{Op: ast.OpNeg, Operand: operand, UnaryPos: pos}, nil

	case lexer.BANG:
		pos := p.pos()
		p.advance()
		operand, err := p.parseExpression(UNARY)
		if err != nil {
			return nil, err
		}
		return &ast.UnaryExpr{Op: ast.OpNot, Operand: operand, UnaryPos: pos}, nil

	case lexer.TILDE:
		pos := p.pos()
		p.advance()
		operand, err := p.parseExpression(UNARY)
		if err != nil {
			return nil, err
		}
		return &ast.UnaryExpr{Op: ast.OpBitNot, Operand: operand, UnaryPos: pos}, nil

	case lexer.OK:
		pos := p.pos()
		p.advance()
		operand, err := p.parseExpression(UNARY)
		if err != nil {
			return nil, err
		}
		return &ast.OkExpr{Value: operand, OkPos: pos}, nil

	case lexer.ERR:
		return p.parseErrExprNode()

	case lexer.CHECK:
		pos := p.pos()
		p.advance()
		operand, err := p.parseExpression(UNARY)
		if err != nil {
			return nil, err
		}
		return &ast.CheckExpr{Value: operand, CheckPos: pos}, nil

	case lexer.ENSURE:
		return p.parseEnsureExpr()

	case lexer.MAP_ERROR:
		return p.parseMapErrorExpr()

	case lexer.COMPTIME:
		pos := p.pos()
		p.advance()
		operand, err := p.parseExpression(UNARY)
		if err != nil {
			return nil, err
		}
		return &ast.ComptimeExpr{Value: operand, CtPos: pos}, nil

	case lexer.UNSAFE_CAST:
		return p.parseUnsafeCastExpr()

	default:
		return p.parsePrimaryExpr()
	}
}

func (p *Parser) parseErrExprNode() (*ast.ErrExpr, error) {
	pos := p.pos()
	if _, err := p.expect(lexer.ERR); err != nil {
		return nil, err
	}
	name, err := p.expect(lexer.IDENT)
	if err != nil {
		return nil, err
	}
	var fields []ast.RecordField
	if p.curIs(lexer.LBRACE) {
		fields, err = p.parseRecordFields()
		if err != nil {
			return nil, err
		}
	}
	return &ast.ErrExpr{Variant: name.Lexeme, Fields: fields, ErrPos: pos}, nil
}

func (p *Parser) parseEnsureExpr() (ast.Expr, error) {
	pos := p.pos()
	if _, err := p.expect(lexer.ENSURE); err != nil {
		return nil, err
	}
	cond, err := p.parseExpression(LOWEST)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.ELSE); err != nil {
		return nil, err
	}
	errNode, err := p.parseErrExprNode()
	if err != nil {
		return nil, err
	}
	return &ast.EnsureExpr{Cond: cond, ElseErr: errNode, EnsurePos: pos}, nil
}

func (p *Parser) parseMapErrorExpr() (ast.Expr, error) {
	pos := p.pos()
	if _, err := p.expect(lexer.MAP_ERROR); err != nil {
		return nil, err
	}
	value, err := p.parseExpression(LOWEST)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.USING); err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.LPAREN); err != nil {
		return nil, err
	}
	name, err := p.expect(lexer.IDENT)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.FARROW); err != nil {
		return nil, err
	}
	using, err := p.parseExpression(LOWEST)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.RPAREN); err != nil {
		return nil, err
	}
	return &ast.MapErrorExpr{Value: value, ParamName: name.Lexeme, Using: using, MapPos: pos}, nil
}

func (p *Parser) parseUnsafeCastExpr() (ast.Expr, error) {
	pos := p.pos()
	if _, err := p.expect(lexer.UNSAFE_CAST); err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.LT); err != nil {
		return nil, err
	}
	target, err := p.parseTypeExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.GT); err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.LPAREN); err != nil {
		return nil, err
	}
	value, err := p.parseExpression(LOWEST)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.RPAREN); err != nil {
		return nil, err
	}
	return &ast.UnsafeCastExpr{Target: target, Value: value, CastPos: pos}, nil
}

func (p *Parser) parseContextBlockExpr() (ast.Expr, error) {
	pos := p.pos()
	if _, err := p.expect(lexer.CONTEXT); err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.WITH); err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.LPAREN); err != nil {
		return nil, err
	}
	var caps []string
	for !p.curIs(lexer.RPAREN) {
		name, err := p.expect(lexer.IDENT)
		if err != nil {
			return nil, err
		}
		caps = append(caps, name.Lexeme)
		if p.curIs(lexer.COMMA) {
			p.advance()
			continue
		}
		break
	}
	if _, err := p.expect(lexer.RPAREN); err != nil {
		return nil, err
	}
	body, err := p.parseBlockExpr()
	if err != nil {
		return nil, err
	}
	return &ast.ContextBlockExpr{Capabilities: caps, Body: body, CtxPos: pos}, nil
}

// parsePrimaryExpr parses literals, identifiers/variant constructors,
// grouped expressions, anonymous functions, aggregates, and the
// keyword-led control constructs that can appear as an expression
// (match, context-with).
func (p *Parser) parsePrimaryExpr() (ast.Expr, error) {
	pos := p.pos()

	switch p.cur.Kind {
	case lexer.INT, lexer.FLOAT:
		lexeme := p.cur.Lexeme
		isFloat := p.curIs(lexer.FLOAT)
		p.advance()
		return &ast.NumberLit{Lexeme: lexeme, IsFloat: isFloat, LitPos: pos}, nil

	case lexer.STRING:
		value := p.cur.Lexeme
		p.advance()
		return &ast.StringLit{Value: value, LitPos: pos}, nil

	case lexer.BYTES:
		value := p.cur.Lexeme
		p.advance()
		return &ast.BytesLit{Value: value, LitPos: pos}, nil

	case lexer.CHAR:
		r, _ := utf8.DecodeRuneInString(p.cur.Lexeme)
		p.advance()
		return &ast.CharLit{Value: r, LitPos: pos}, nil

	case lexer.TRUE:
		p.advance()
		return &ast.BoolLit{Value: true, LitPos: pos}, nil

	case lexer.FALSE:
		p.advance()
		return &ast.BoolLit{Value: false, LitPos: pos}, nil

	case lexer.NULL:
		p.advance()
		return &ast.NullLit{LitPos: pos}, nil

	case lexer.UNIT:
		p.advance()
		return &ast.UnitLit{LitPos: pos}, nil

	case lexer.IDENT:
		return p.parseIdentOrVariantCtor(pos)

	case lexer.LPAREN:
		if p.isFuncLitAhead() {
			return p.parseFuncLit()
		}
		p.advance()
		inner, err := p.parseExpression(LOWEST)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.RPAREN); err != nil {
			return nil, err
		}
		return inner, nil

	case lexer.LBRACE:
		if p.looksLikeRecordLiteral() {
			return p.parseRecordLitExpr()
		}
		return p.parseBlockExpr()

	case lexer.LBRACKET:
		return p.parseArrayLit()

	case lexer.MATCH:
		scrutinee, arms, err := p.parseMatchHeadAndArms()
		if err != nil {
			return nil, err
		}
		return &ast.MatchExpr{Scrutinee: scrutinee, Arms: arms, MatchPos: pos}, nil

	case lexer.CONTEXT:
		return p.parseContextBlockExpr()

	default:
		return nil, p.errorf(diag.PAR001, "expected an expression, found %s %q", p.cur.Kind, p.cur.Lexeme)
	}
}

// parseIdentOrVariantCtor resolves the uppercase/lowercase heuristic
// (§3 AST, §4.5) that distinguishes a variant constructor from a plain
// identifier reference.
func (p *Parser) parseIdentOrVariantCtor(pos ast.Pos) (ast.Expr, error) {
	name := p.cur.Lexeme
	p.advance()

	if !startsUpper(name) {
		return &ast.Identifier{Name: name, IdePos: pos}, nil
	}

	ctor := &ast.VariantConstructor{Name: name, CtorPos: pos}
	if p.curIs(lexer.LBRACE) {
		fields, err := p.parseRecordFields()
		if err != nil {
			return nil, err
		}
		ctor.Fields = fields
	}
	return ctor, nil
}

// parseRecordFields parses the shared `{ name: expr, ... }` field list
// used by both bare record literals and variant constructors.
func (p *Parser) parseRecordFields() ([]ast.RecordField, error) {
	if _, err := p.expect(lexer.LBRACE); err != nil {
		return nil, err
	}
	var fields []ast.RecordField
	for !p.curIs(lexer.RBRACE) {
		name, err := p.expect(lexer.IDENT)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.COLON); err != nil {
			return nil, err
		}
		value, err := p.parseExpression(LOWEST)
		if err != nil {
			return nil, err
		}
		fields = append(fields, ast.RecordField{Name: name.Lexeme, Value: value})
		if p.curIs(lexer.COMMA) {
			p.advance()
			continue
		}
		break
	}
	if _, err := p.expect(lexer.RBRACE); err != nil {
		return nil, err
	}
	return fields, nil
}

func (p *Parser) parseRecordLitExpr() (ast.Expr, error) {
	pos := p.pos()
	fields, err := p.parseRecordFields()
	if err != nil {
		return nil, err
	}
	return &ast.RecordLit{Fields: fields, RecPos: pos}, nil
}

func (p *Parser) parseArrayLit() (ast.Expr, error) {
	pos := p.pos()
	if _, err := p.expect(lexer.LBRACKET); err != nil {
		return nil, err
	}
	var elems []ast.Expr
	for !p.curIs(lexer.RBRACKET) {
		elem, err := p.parseExpression(LOWEST)
		if err != nil {
			return nil, err
		}
		elems = append(elems, elem)
		if p.curIs(lexer.COMMA) {
			p.advance()
			continue
		}
		break
	}
	if _, err := p.expect(lexer.RBRACKET); err != nil {
		return nil, err
	}
	return &ast.ArrayLit{Elements: elems, ArrPos: pos}, nil
}

// looksLikeRecordLiteral implements the `{` disambiguation rule (§4.5):
// an identifier immediately followed by `:` opens a record literal,
// otherwise `{` opens a block expression.
func (p *Parser) looksLikeRecordLiteral() bool {
	if !p.curIs(lexer.LBRACE) || !p.peekIs(lexer.IDENT) {
		return false
	}
	snap := p.snapshot()
	defer p.restore(snap)
	p.advance() // '{' -> ident
	p.advance() // ident -> following token
	return p.curIs(lexer.COLON)
}

// isFuncLitAhead reports whether the balanced parenthesis group
// starting at the current '(' is followed by '=>' or by '->' (a return
// type before the '=>'), meaning it opens an anonymous function's
// parameter list rather than a grouped expression.
func (p *Parser) isFuncLitAhead() bool {
	if !p.curIs(lexer.LPAREN) {
		return false
	}
	snap := p.snapshot()
	defer p.restore(snap)

	depth := 0
	for {
		switch p.cur.Kind {
		case lexer.EOF:
			return false
		case lexer.LPAREN:
			depth++
		case lexer.RPAREN:
			depth--
			if depth == 0 {
				p.advance()
				return p.curIs(lexer.FARROW) || p.curIs(lexer.ARROW)
			}
		}
		p.advance()
	}
}

func (p *Parser) parseFuncLit() (ast.Expr, error) {
	pos := p.pos()
	params, err := p.parseParamList()
	if err != nil {
		return nil, err
	}
	var retType ast.TypeExpr
	if p.curIs(lexer.ARROW) {
		p.advance()
		retType, err = p.parseTypeExpr()
		if err != nil {
			return nil, err
		}
	}
	if _, err := p.expect(lexer.FARROW); err != nil {
		return nil, err
	}
	body, err := p.parseExpression(LOWEST)
	if err != nil {
		return nil, err
	}
	return &ast.FuncLit{Params: params, ReturnType: retType, Body: body, LitPos: pos}, nil
}
