// Package parser implements a non-recovering recursive-descent parser
// with precedence climbing for expressions, producing the AST defined
// in package ast.
package parser

import (
	"fmt"

	"github.com/ShimamotoWONQ/cwalk/ast"
	"github.com/ShimamotoWONQ/cwalk/cvalue"
	"github.com/ShimamotoWONQ/cwalk/lexer"
	"github.com/ShimamotoWONQ/cwalk/token"
)

// ParseError reports the first (and only, since the parser does not
// recover) syntax error encountered.
type ParseError struct {
	Line, Col       int
	Expected, Found string
}

func (e ParseError) Error() string {
	return fmt.Sprintf("%d:%d: expected %s, found %s", e.Line, e.Col, e.Expected, e.Found)
}

// Parser consumes a token stream and builds an AST.
type Parser struct {
	toks []token.Token
	pos  int
}

// New returns a Parser over an already-lexed token stream.
func New(toks []token.Token) *Parser { return &Parser{toks: toks} }

// ParseProgram lexes and parses src as a complete compilation unit.
func ParseProgram(src string) (*ast.Program, error) {
	toks, err := lexer.Tokenize(src)
	if err != nil {
		return nil, err
	}
	p := New(toks)
	return p.parseProgram()
}

// ParseFragment lexes and parses src in the permissive top-level mode
// used by interp's REPL (`repl_step`): src may be a declaration, a
// statement, or a bare expression, the last of which is wrapped as an
// ast.ExprStmt.
func ParseFragment(src string) (ast.Node, error) {
	toks, err := lexer.Tokenize(src)
	if err != nil {
		return nil, err
	}
	p := New(toks)
	return p.parseFragment()
}

func (p *Parser) cur() token.Token { return p.toks[p.pos] }
func (p *Parser) atEOF() bool      { return p.cur().Kind == token.EOF }

func (p *Parser) advance() token.Token {
	t := p.toks[p.pos]
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	return t
}

func (p *Parser) errf(expected string) error {
	found := p.cur().Lexeme
	if p.cur().Kind == token.EOF {
		found = "end of input"
	} else if found == "" {
		found = p.cur().Kind.String()
	}
	return ParseError{Line: p.cur().Pos.Line, Col: p.cur().Pos.Col, Expected: expected, Found: found}
}

func (p *Parser) isPunct(s string) bool {
	return p.cur().Kind == token.PUNCT && p.cur().Lexeme == s
}

func (p *Parser) isKeyword(s string) bool {
	return p.cur().Kind == token.KEYWORD && p.cur().Lexeme == s
}

func (p *Parser) expectPunct(s string) (token.Token, error) {
	if !p.isPunct(s) {
		return token.Token{}, p.errf(fmt.Sprintf("%q", s))
	}
	return p.advance(), nil
}

func (p *Parser) expectIdent() (token.Token, error) {
	if p.cur().Kind != token.IDENT {
		return token.Token{}, p.errf("identifier")
	}
	return p.advance(), nil
}

func isTypeKeyword(t token.Token) bool {
	if t.Kind != token.KEYWORD {
		return false
	}
	switch t.Lexeme {
	case "int", "float", "char", "void":
		return true
	}
	return false
}

func (p *Parser) parseProgram() (*ast.Program, error) {
	prog := &ast.Program{}
	for !p.atEOF() {
		decl, err := p.parseTopLevelDecl()
		if err != nil {
			return nil, err
		}
		prog.Decls = append(prog.Decls, decl)
	}
	return prog, nil
}

func (p *Parser) parseFragment() (ast.Node, error) {
	if isTypeKeyword(p.cur()) {
		return p.parseTopLevelDecl()
	}
	if p.atEOF() {
		return &ast.EmptyStmt{Base: ast.NewBase(p.cur().Pos)}, nil
	}
	if p.cur().Kind == token.KEYWORD || p.isPunct("{") || p.isPunct(";") {
		return p.parseStmt()
	}
	// A bare expression; the trailing semicolon is optional here so
	// `1 + 1` works as a fragment the same way `x = 1;` does.
	pos := p.cur().Pos
	e, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if p.isPunct(";") {
		p.advance()
	}
	if !p.atEOF() {
		return nil, p.errf("end of fragment")
	}
	return &ast.ExprStmt{Base: ast.NewBase(pos), X: e}, nil
}

// parseBaseType parses one of the four type-specifier keywords.
func (p *Parser) parseBaseType() (cvalue.Type, error) {
	if !isTypeKeyword(p.cur()) {
		return cvalue.Type{}, p.errf("type specifier")
	}
	tok := p.advance()
	switch tok.Lexeme {
	case "int":
		return cvalue.Int, nil
	case "float":
		return cvalue.Float, nil
	case "char":
		return cvalue.Char, nil
	case "void":
		return cvalue.Void, nil
	}
	panic("unreachable")
}

// parseTopLevelDecl parses a variable declaration or a function
// definition, both of which start with a type-specifier.
func (p *Parser) parseTopLevelDecl() (ast.Decl, error) {
	pos := p.cur().Pos
	baseType, err := p.parseBaseType()
	if err != nil {
		return nil, err
	}

	// Leading pointer stars belong to the first declarator. If the
	// declarator turns out to be `name (params) { ... }`, it is a
	// function whose return type is baseType (or *baseType, for a
	// pointer return).
	ptrDepth := 0
	for p.isPunct("*") {
		p.advance()
		ptrDepth++
	}
	retType := baseType
	for i := 0; i < ptrDepth; i++ {
		retType = cvalue.Pointer(retType)
	}

	nameTok, err := p.expectIdent()
	if err != nil {
		return nil, err
	}

	if p.isPunct("(") {
		return p.parseFuncDecl(pos, nameTok.Lexeme, retType)
	}

	return p.parseVarDeclRest(pos, baseType, nameTok.Lexeme, ptrDepth)
}

func (p *Parser) parseFuncDecl(pos token.Pos, name string, retType cvalue.Type) (ast.Decl, error) {
	if _, err := p.expectPunct("("); err != nil {
		return nil, err
	}
	var params []ast.Param
	if !p.isPunct(")") {
		for {
			pt, err := p.parseBaseType()
			if err != nil {
				return nil, err
			}
			for p.isPunct("*") {
				p.advance()
				pt = cvalue.Pointer(pt)
			}
			var pname string
			if p.cur().Kind == token.IDENT {
				pname = p.advance().Lexeme
			}
			if p.isPunct("[") {
				p.advance()
				if _, err := p.expectPunct("]"); err != nil {
					return nil, err
				}
				pt = cvalue.Pointer(pt)
			}
			params = append(params, ast.Param{Name: pname, Type: pt})
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
	// `f(void)` declares no parameters at all.
	if len(params) == 1 && params[0].Name == "" && params[0].Type.Kind == cvalue.KVoid {
		params = nil
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return &ast.FuncDecl{Base: ast.NewBase(pos), Name: name, Params: params, RetType: retType, Body: body}, nil
}

// parseVarDeclRest parses the remainder of a variable declaration
// after the base type and the first declarator's name/pointer depth
// have already been consumed.
func (p *Parser) parseVarDeclRest(pos token.Pos, baseType cvalue.Type, firstName string, firstPtrDepth int) (ast.Decl, error) {
	decl := &ast.VarDecl{Base: ast.NewBase(pos), BaseType: baseType}

	d, err := p.finishDeclarator(baseType, firstName, firstPtrDepth)
	if err != nil {
		return nil, err
	}
	decl.Declarators = append(decl.Declarators, d)

	for p.isPunct(",") {
		p.advance()
		ptrDepth := 0
		for p.isPunct("*") {
			p.advance()
			ptrDepth++
		}
		nameTok, err := p.expectIdent()
		if err != nil {
			return nil, err
		}
		d, err := p.finishDeclarator(baseType, nameTok.Lexeme, ptrDepth)
		if err != nil {
			return nil, err
		}
		decl.Declarators = append(decl.Declarators, d)
	}

	if _, err := p.expectPunct(";"); err != nil {
		return nil, err
	}
	return decl, nil
}

// finishDeclarator parses the optional array dimensions and/or
// initializer following a declarator's name.
func (p *Parser) finishDeclarator(baseType cvalue.Type, name string, ptrDepth int) (ast.Declarator, error) {
	typ := baseType
	for i := 0; i < ptrDepth; i++ {
		typ = cvalue.Pointer(typ)
	}

	var dims []int
	for p.isPunct("[") {
		p.advance()
		if p.cur().Kind != token.INT {
			return ast.Declarator{}, p.errf("array length integer literal")
		}
		n := int(p.advance().IVal)
		if _, err := p.expectPunct("]"); err != nil {
			return ast.Declarator{}, err
		}
		dims = append(dims, n)
	}
	for i := len(dims) - 1; i >= 0; i-- {
		typ = cvalue.Array(typ, dims[i])
	}

	d := ast.Declarator{Name: name, Type: typ}

	if p.isPunct("=") {
		p.advance()
		if p.isPunct("{") {
			list, err := p.parseInitList()
			if err != nil {
				return ast.Declarator{}, err
			}
			d.InitList = list
		} else {
			expr, err := p.parseAssignment()
			if err != nil {
				return ast.Declarator{}, err
			}
			d.Init = expr
		}
	}
	return d, nil
}

// parseInitList parses a (possibly nested) brace initializer; nested
// rows (2-D arrays) are represented as ast.InitListExpr elements.
func (p *Parser) parseInitList() ([]ast.Expr, error) {
	pos := p.cur().Pos
	if _, err := p.expectPunct("{"); err != nil {
		return nil, err
	}
	var elems []ast.Expr
	for !p.isPunct("}") {
		if p.isPunct("{") {
			nested, err := p.parseInitList()
			if err != nil {
				return nil, err
			}
			elems = append(elems, &ast.InitListExpr{Base: ast.NewBase(pos), Elems: nested})
		} else {
			e, err := p.parseAssignment()
			if err != nil {
				return nil, err
			}
			elems = append(elems, e)
		}
		if p.isPunct(",") {
			p.advance()
			continue
		}
		break
	}
	if _, err := p.expectPunct("}"); err != nil {
		return nil, err
	}
	return elems, nil
}
