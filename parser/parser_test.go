package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ShimamotoWONQ/cwalk/ast"
	"github.com/ShimamotoWONQ/cwalk/cvalue"
)

func TestParseSimpleFunction(t *testing.T) {
	prog, err := ParseProgram(`int main() { return 0; }`)
	require.NoError(t, err)
	require.Len(t, prog.Decls, 1)

	fn, ok := prog.Decls[0].(*ast.FuncDecl)
	require.True(t, ok)
	assert.Equal(t, "main", fn.Name)
	assert.True(t, cvalue.Int.Equal(fn.RetType))
	require.Len(t, fn.Body.Stmts, 1)
	ret, ok := fn.Body.Stmts[0].(*ast.ReturnStmt)
	require.True(t, ok)
	lit, ok := ret.X.(*ast.IntLit)
	require.True(t, ok)
	assert.EqualValues(t, 0, lit.Value)
}

func TestParseFunctionWithParams(t *testing.T) {
	prog, err := ParseProgram(`int add(int a, int b) { return a + b; }`)
	require.NoError(t, err)
	fn := prog.Decls[0].(*ast.FuncDecl)
	require.Len(t, fn.Params, 2)
	assert.Equal(t, "a", fn.Params[0].Name)
	assert.Equal(t, "b", fn.Params[1].Name)
}

func TestParseArrayParameterDecaysToPointer(t *testing.T) {
	prog, err := ParseProgram(`int sum(int a[]) { return 0; }`)
	require.NoError(t, err)
	fn := prog.Decls[0].(*ast.FuncDecl)
	require.Len(t, fn.Params, 1)
	assert.Equal(t, cvalue.KPointer, fn.Params[0].Type.Kind)
}

func TestParseGlobalVarDeclWithMultipleDeclarators(t *testing.T) {
	prog, err := ParseProgram(`int a, b = 2, c[3];`)
	require.NoError(t, err)
	decl := prog.Decls[0].(*ast.VarDecl)
	require.Len(t, decl.Declarators, 3)
	assert.Equal(t, "a", decl.Declarators[0].Name)
	assert.Nil(t, decl.Declarators[0].Init)
	assert.Equal(t, "b", decl.Declarators[1].Name)
	assert.NotNil(t, decl.Declarators[1].Init)
	assert.Equal(t, cvalue.Array(cvalue.Int, 3), decl.Declarators[2].Type)
}

func TestParseArrayInitList(t *testing.T) {
	prog, err := ParseProgram(`int xs[3] = {1, 2, 3};`)
	require.NoError(t, err)
	decl := prog.Decls[0].(*ast.VarDecl)
	require.Len(t, decl.Declarators[0].InitList, 3)
}

func TestOperatorPrecedence(t *testing.T) {
	prog, err := ParseProgram(`int main() { return 1 + 2 * 3; }`)
	require.NoError(t, err)
	fn := prog.Decls[0].(*ast.FuncDecl)
	ret := fn.Body.Stmts[0].(*ast.ReturnStmt)
	bin, ok := ret.X.(*ast.BinaryExpr)
	require.True(t, ok)
	assert.Equal(t, "+", bin.Op, "addition is the outermost (lowest-precedence) operator")
	rhs, ok := bin.Y.(*ast.BinaryExpr)
	require.True(t, ok)
	assert.Equal(t, "*", rhs.Op)
}

func TestParsePointerAndAddressOf(t *testing.T) {
	prog, err := ParseProgram(`int main() { int x; int *p; p = &x; return *p; }`)
	require.NoError(t, err)
	fn := prog.Decls[0].(*ast.FuncDecl)
	require.Len(t, fn.Body.Stmts, 4)
}

func TestParseControlFlowStatements(t *testing.T) {
	src := `int main() {
		int i;
		for (i = 0; i < 10; i = i + 1) {
			if (i == 5) { break; } else { continue; }
		}
		while (i > 0) { i = i - 1; }
		do { i = i + 1; } while (i < 1);
		return i;
	}`
	prog, err := ParseProgram(src)
	require.NoError(t, err)
	require.Len(t, prog.Decls, 1)
}

func TestParseErrorOnMissingSemicolon(t *testing.T) {
	_, err := ParseProgram(`int main() { return 0 }`)
	require.Error(t, err)
	var perr ParseError
	require.ErrorAs(t, err, &perr)
}

func TestParseFragmentBareExpression(t *testing.T) {
	node, err := ParseFragment("1 + 1")
	require.NoError(t, err)
	stmt, ok := node.(*ast.ExprStmt)
	require.True(t, ok)
	_, ok = stmt.X.(*ast.BinaryExpr)
	assert.True(t, ok)
}

func TestParseFragmentDeclaration(t *testing.T) {
	node, err := ParseFragment("int x = 5;")
	require.NoError(t, err)
	_, ok := node.(*ast.VarDecl)
	assert.True(t, ok)
}

func TestParseSizeofExprAndType(t *testing.T) {
	prog, err := ParseProgram(`int main() { return sizeof(x) + sizeof(int); }`)
	require.NoError(t, err)
	fn := prog.Decls[0].(*ast.FuncDecl)
	ret := fn.Body.Stmts[0].(*ast.ReturnStmt)
	bin := ret.X.(*ast.BinaryExpr)
	_, ok := bin.X.(*ast.SizeofExpr)
	assert.True(t, ok)
	_, ok = bin.Y.(*ast.SizeofTypeExpr)
	assert.True(t, ok)
}

func TestParseTernary(t *testing.T) {
	prog, err := ParseProgram(`int main() { return 1 ? 2 : 3; }`)
	require.NoError(t, err)
	fn := prog.Decls[0].(*ast.FuncDecl)
	ret := fn.Body.Stmts[0].(*ast.ReturnStmt)
	_, ok := ret.X.(*ast.TernaryExpr)
	assert.True(t, ok)
}
