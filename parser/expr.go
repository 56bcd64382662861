package parser

import (
	"github.com/ShimamotoWONQ/cwalk/ast"
	"github.com/ShimamotoWONQ/cwalk/cvalue"
	"github.com/ShimamotoWONQ/cwalk/token"
)

// parseExpr parses a full expression, topping out at assignment
// precedence (this grammar has no comma operator).
func (p *Parser) parseExpr() (ast.Expr, error) { return p.parseAssignment() }

var assignOps = map[string]bool{
	"=": true, "+=": true, "-=": true, "*=": true, "/=": true, "%=": true,
}

// parseAssignment implements right-associative assignment: "a = b = c"
// parses as "a = (b = c)".
func (p *Parser) parseAssignment() (ast.Expr, error) {
	lhs, err := p.parseTernary()
	if err != nil {
		return nil, err
	}
	if p.cur().Kind == token.PUNCT && assignOps[p.cur().Lexeme] {
		pos := p.cur().Pos
		op := p.advance().Lexeme
		rhs, err := p.parseAssignment()
		if err != nil {
			return nil, err
		}
		return &ast.AssignExpr{Base: ast.NewBase(pos), Op: op, Target: lhs, Value: rhs}, nil
	}
	return lhs, nil
}

// parseTernary implements right-associative `cond ? then : else`.
func (p *Parser) parseTernary() (ast.Expr, error) {
	cond, err := p.parseLogicalOr()
	if err != nil {
		return nil, err
	}
	if p.isPunct("?") {
		pos := p.cur().Pos
		p.advance()
		then, err := p.parseAssignment()
		if err != nil {
			return nil, err
		}
		if _, err := p.expectPunct(":"); err != nil {
			return nil, err
		}
		els, err := p.parseTernary()
		if err != nil {
			return nil, err
		}
		return &ast.TernaryExpr{Base: ast.NewBase(pos), Cond: cond, Then: then, Else: els}, nil
	}
	return cond, nil
}

// binaryLevel describes one left-associative binary precedence level.
type binaryLevel struct {
	ops  []string
	next func(*Parser) (ast.Expr, error)
}

func (p *Parser) parseLeftAssoc(ops []string, next func(*Parser) (ast.Expr, error)) (ast.Expr, error) {
	lhs, err := next(p)
	if err != nil {
		return nil, err
	}
	for {
		matched := ""
		if p.cur().Kind == token.PUNCT {
			for _, op := range ops {
				if p.cur().Lexeme == op {
					matched = op
					break
				}
			}
		}
		if matched == "" {
			return lhs, nil
		}
		pos := p.cur().Pos
		p.advance()
		rhs, err := next(p)
		if err != nil {
			return nil, err
		}
		lhs = &ast.BinaryExpr{Base: ast.NewBase(pos), Op: matched, X: lhs, Y: rhs}
	}
}

func (p *Parser) parseLogicalOr() (ast.Expr, error) {
	return p.parseLeftAssoc([]string{"||"}, (*Parser).parseLogicalAnd)
}
func (p *Parser) parseLogicalAnd() (ast.Expr, error) {
	return p.parseLeftAssoc([]string{"&&"}, (*Parser).parseBitOr)
}
func (p *Parser) parseBitOr() (ast.Expr, error) {
	return p.parseLeftAssoc([]string{"|"}, (*Parser).parseBitXor)
}
func (p *Parser) parseBitXor() (ast.Expr, error) {
	return p.parseLeftAssoc([]string{"^"}, (*Parser).parseBitAnd)
}
func (p *Parser) parseBitAnd() (ast.Expr, error) {
	return p.parseLeftAssoc([]string{"&"}, (*Parser).parseEquality)
}
func (p *Parser) parseEquality() (ast.Expr, error) {
	return p.parseLeftAssoc([]string{"==", "!="}, (*Parser).parseRelational)
}
func (p *Parser) parseRelational() (ast.Expr, error) {
	return p.parseLeftAssoc([]string{"<", "<=", ">", ">="}, (*Parser).parseShift)
}
func (p *Parser) parseShift() (ast.Expr, error) {
	return p.parseLeftAssoc([]string{"<<", ">>"}, (*Parser).parseAdditive)
}
func (p *Parser) parseAdditive() (ast.Expr, error) {
	return p.parseLeftAssoc([]string{"+", "-"}, (*Parser).parseMultiplicative)
}
func (p *Parser) parseMultiplicative() (ast.Expr, error) {
	return p.parseLeftAssoc([]string{"*", "/", "%"}, (*Parser).parseUnary)
}

var prefixOps = map[string]bool{
	"+": true, "-": true, "!": true, "~": true, "++": true, "--": true, "*": true, "&": true,
}

func (p *Parser) parseUnary() (ast.Expr, error) {
	if p.isKeyword("sizeof") {
		pos := p.cur().Pos
		p.advance()
		if p.isPunct("(") && p.peekIsTypeAt(1) {
			p.advance()
			typ, err := p.parseAbstractType()
			if err != nil {
				return nil, err
			}
			if _, err := p.expectPunct(")"); err != nil {
				return nil, err
			}
			return &ast.SizeofTypeExpr{Base: ast.NewBase(pos), Type: typ}, nil
		}
		x, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &ast.SizeofExpr{Base: ast.NewBase(pos), X: x}, nil
	}

	if p.cur().Kind == token.PUNCT && prefixOps[p.cur().Lexeme] {
		pos := p.cur().Pos
		op := p.advance().Lexeme
		x, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &ast.UnaryExpr{Base: ast.NewBase(pos), Op: op, X: x}, nil
	}

	if p.isPunct("(") && p.peekIsTypeAt(1) {
		pos := p.cur().Pos
		p.advance()
		typ, err := p.parseAbstractType()
		if err != nil {
			return nil, err
		}
		if _, err := p.expectPunct(")"); err != nil {
			return nil, err
		}
		x, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &ast.CastExpr{Base: ast.NewBase(pos), Type: typ, X: x}, nil
	}

	return p.parsePostfix()
}

// peekIsTypeAt reports whether the token at the given lookahead offset
// from the current position begins a type-specifier, used to
// disambiguate `(type)expr` casts and `sizeof(type)` from parenthesised
// expressions.
func (p *Parser) peekIsTypeAt(off int) bool {
	i := p.pos + off
	if i >= len(p.toks) {
		return false
	}
	return isTypeKeyword(p.toks[i])
}

// parseAbstractType parses a type-specifier followed by any number of
// `*` (an abstract declarator with no name), as used in casts and
// sizeof(type).
func (p *Parser) parseAbstractType() (cvalue.Type, error) {
	typ, err := p.parseBaseType()
	if err != nil {
		return cvalue.Type{}, err
	}
	for p.isPunct("*") {
		p.advance()
		typ = cvalue.Pointer(typ)
	}
	return typ, nil
}

func (p *Parser) parsePostfix() (ast.Expr, error) {
	x, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	for {
		switch {
		case p.isPunct("["):
			pos := p.cur().Pos
			p.advance()
			idx, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			if _, err := p.expectPunct("]"); err != nil {
				return nil, err
			}
			x = &ast.IndexExpr{Base: ast.NewBase(pos), X: x, Index: idx}

		case p.isPunct("("):
			pos := p.cur().Pos
			p.advance()
			var args []ast.Expr
			if !p.isPunct(")") {
				for {
					a, err := p.parseAssignment()
					if err != nil {
						return nil, err
					}
					args = append(args, a)
					if p.isPunct(",") {
						p.advance()
						continue
					}
					break
				}
			}
			if _, err := p.expectPunct(")"); err != nil {
				return nil, err
			}
			x = &ast.CallExpr{Base: ast.NewBase(pos), Callee: x, Args: args}

		case p.isPunct("++"), p.isPunct("--"):
			pos := p.cur().Pos
			op := p.advance().Lexeme
			x = &ast.UnaryExpr{Base: ast.NewBase(pos), Op: op, X: x, Postfix: true}

		default:
			return x, nil
		}
	}
}

func (p *Parser) parsePrimary() (ast.Expr, error) {
	tok := p.cur()
	pos := tok.Pos
	switch tok.Kind {
	case token.INT:
		p.advance()
		return &ast.IntLit{Base: ast.NewBase(pos), Value: tok.IVal}, nil
	case token.FLOAT:
		p.advance()
		return &ast.FloatLit{Base: ast.NewBase(pos), Value: tok.FVal}, nil
	case token.CHAR:
		p.advance()
		return &ast.CharLit{Base: ast.NewBase(pos), Value: tok.IVal}, nil
	case token.STRING:
		p.advance()
		return &ast.StringLit{Base: ast.NewBase(pos), Value: tok.SVal}, nil
	case token.IDENT:
		p.advance()
		return &ast.Ident{Base: ast.NewBase(pos), Name: tok.Lexeme}, nil
	case token.PUNCT:
		if tok.Lexeme == "(" {
			p.advance()
			e, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			if _, err := p.expectPunct(")"); err != nil {
				return nil, err
			}
			return e, nil
		}
	}
	return nil, p.errf("expression")
}
