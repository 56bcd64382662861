package parser

import "github.com/ShimamotoWONQ/cwalk/ast"

func (p *Parser) parseBlock() (*ast.BlockStmt, error) {
	pos := p.cur().Pos
	if _, err := p.expectPunct("{"); err != nil {
		return nil, err
	}
	blk := &ast.BlockStmt{Base: ast.NewBase(pos)}
	for !p.isPunct("}") {
		s, err := p.parseStmt()
		if err != nil {
			return nil, err
		}
		blk.Stmts = append(blk.Stmts, s)
	}
	if _, err := p.expectPunct("}"); err != nil {
		return nil, err
	}
	return blk, nil
}

func (p *Parser) parseStmt() (ast.Stmt, error) {
	pos := p.cur().Pos

	switch {
	case p.isPunct("{"):
		return p.parseBlock()

	case p.isPunct(";"):
		p.advance()
		return &ast.EmptyStmt{Base: ast.NewBase(pos)}, nil

	case isTypeKeyword(p.cur()):
		decl, err := p.parseLocalVarDecl()
		if err != nil {
			return nil, err
		}
		return &ast.DeclStmt{Base: ast.NewBase(pos), Decl: decl}, nil

	case p.isKeyword("if"):
		return p.parseIf()

	case p.isKeyword("while"):
		return p.parseWhile()

	case p.isKeyword("do"):
		return p.parseDoWhile()

	case p.isKeyword("for"):
		return p.parseFor()

	case p.isKeyword("return"):
		p.advance()
		if p.isPunct(";") {
			p.advance()
			return &ast.ReturnStmt{Base: ast.NewBase(pos)}, nil
		}
		e, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expectPunct(";"); err != nil {
			return nil, err
		}
		return &ast.ReturnStmt{Base: ast.NewBase(pos), X: e}, nil

	case p.isKeyword("break"):
		p.advance()
		if _, err := p.expectPunct(";"); err != nil {
			return nil, err
		}
		return &ast.BreakStmt{Base: ast.NewBase(pos)}, nil

	case p.isKeyword("continue"):
		p.advance()
		if _, err := p.expectPunct(";"); err != nil {
			return nil, err
		}
		return &ast.ContinueStmt{Base: ast.NewBase(pos)}, nil

	default:
		e, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expectPunct(";"); err != nil {
			return nil, err
		}
		return &ast.ExprStmt{Base: ast.NewBase(pos), X: e}, nil
	}
}

// parseLocalVarDecl parses a local `type decl, decl, ...;`.
func (p *Parser) parseLocalVarDecl() (ast.Decl, error) {
	pos := p.cur().Pos
	baseType, err := p.parseBaseType()
	if err != nil {
		return nil, err
	}
	ptrDepth := 0
	for p.isPunct("*") {
		p.advance()
		ptrDepth++
	}
	nameTok, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	return p.parseVarDeclRest(pos, baseType, nameTok.Lexeme, ptrDepth)
}

func (p *Parser) parseIf() (ast.Stmt, error) {
	pos := p.cur().Pos
	p.advance() // 'if'
	if _, err := p.expectPunct("("); err != nil {
		return nil, err
	}
	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expectPunct(")"); err != nil {
		return nil, err
	}
	then, err := p.parseStmt()
	if err != nil {
		return nil, err
	}
	stmt := &ast.IfStmt{Base: ast.NewBase(pos), Cond: cond, Then: then}
	if p.isKeyword("else") {
		p.advance()
		els, err := p.parseStmt()
		if err != nil {
			return nil, err
		}
		stmt.Else = els
	}
	return stmt, nil
}

func (p *Parser) parseWhile() (ast.Stmt, error) {
	pos := p.cur().Pos
	p.advance() // 'while'
	if _, err := p.expectPunct("("); err != nil {
		return nil, err
	}
	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expectPunct(")"); err != nil {
		return nil, err
	}
	body, err := p.parseStmt()
	if err != nil {
		return nil, err
	}
	return &ast.WhileStmt{Base: ast.NewBase(pos), Cond: cond, Body: body}, nil
}

func (p *Parser) parseDoWhile() (ast.Stmt, error) {
	pos := p.cur().Pos
	p.advance() // 'do'
	body, err := p.parseStmt()
	if err != nil {
		return nil, err
	}
	if !p.isKeyword("while") {
		return nil, p.errf("'while'")
	}
	p.advance()
	if _, err := p.expectPunct("("); err != nil {
		return nil, err
	}
	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expectPunct(")"); err != nil {
		return nil, err
	}
	if _, err := p.expectPunct(";"); err != nil {
		return nil, err
	}
	return &ast.DoWhileStmt{Base: ast.NewBase(pos), Body: body, Cond: cond}, nil
}

func (p *Parser) parseFor() (ast.Stmt, error) {
	pos := p.cur().Pos
	p.advance() // 'for'
	if _, err := p.expectPunct("("); err != nil {
		return nil, err
	}

	var init ast.Stmt
	if !p.isPunct(";") {
		initPos := p.cur().Pos
		if isTypeKeyword(p.cur()) {
			decl, err := p.parseLocalVarDecl()
			if err != nil {
				return nil, err
			}
			init = &ast.DeclStmt{Base: ast.NewBase(initPos), Decl: decl}
		} else {
			e, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			init = &ast.ExprStmt{Base: ast.NewBase(initPos), X: e}
			if _, err := p.expectPunct(";"); err != nil {
				return nil, err
			}
		}
	} else {
		p.advance()
	}

	var cond ast.Expr
	if !p.isPunct(";") {
		var err error
		cond, err = p.parseExpr()
		if err != nil {
			return nil, err
		}
	}
	if _, err := p.expectPunct(";"); err != nil {
		return nil, err
	}

	var step ast.Expr
	if !p.isPunct(")") {
		var err error
		step, err = p.parseExpr()
		if err != nil {
			return nil, err
		}
	}
	if _, err := p.expectPunct(")"); err != nil {
		return nil, err
	}

	body, err := p.parseStmt()
	if err != nil {
		return nil, err
	}
	return &ast.ForStmt{Base: ast.NewBase(pos), Init: init, Cond: cond, Step: step, Body: body}, nil
}
