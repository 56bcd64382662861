package lexer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ShimamotoWONQ/cwalk/token"
)

func TestTokenizeKeywordsAndIdents(t *testing.T) {
	toks, err := Tokenize("int x = 0;")
	require.NoError(t, err)
	require.Len(t, toks, 6) // int, x, =, 0, ;, EOF
	assert.Equal(t, token.KEYWORD, toks[0].Kind)
	assert.Equal(t, "int", toks[0].Lexeme)
	assert.Equal(t, token.IDENT, toks[1].Kind)
	assert.Equal(t, "x", toks[1].Lexeme)
	assert.Equal(t, token.PUNCT, toks[2].Kind)
	assert.Equal(t, "=", toks[2].Lexeme)
	assert.Equal(t, token.EOF, toks[len(toks)-1].Kind)
}

func TestTokenizeIntegerLiterals(t *testing.T) {
	toks, err := Tokenize("42 0x2A 052")
	require.NoError(t, err)
	require.Len(t, toks, 4)
	assert.EqualValues(t, 42, toks[0].IVal)
	assert.EqualValues(t, 42, toks[1].IVal)
	assert.EqualValues(t, 42, toks[2].IVal) // octal 052 == 42
}

func TestTokenizeFloatLiteral(t *testing.T) {
	toks, err := Tokenize("3.14 1e10 .5")
	require.NoError(t, err)
	require.Len(t, toks, 4)
	assert.Equal(t, token.FLOAT, toks[0].Kind)
	assert.InDelta(t, 3.14, toks[0].FVal, 1e-9)
	assert.Equal(t, token.FLOAT, toks[1].Kind)
	assert.InDelta(t, 1e10, toks[1].FVal, 1e-3)
	assert.Equal(t, token.FLOAT, toks[2].Kind)
	assert.InDelta(t, 0.5, toks[2].FVal, 1e-9)
}

func TestTokenizeStringEscapes(t *testing.T) {
	toks, err := Tokenize(`"hello\nworld"`)
	require.NoError(t, err)
	require.Len(t, toks, 2)
	assert.Equal(t, "hello\nworld", toks[0].SVal)
}

func TestTokenizeCharLiteral(t *testing.T) {
	toks, err := Tokenize(`'a' '\n' '\0'`)
	require.NoError(t, err)
	require.Len(t, toks, 4)
	assert.EqualValues(t, 'a', toks[0].IVal)
	assert.EqualValues(t, '\n', toks[1].IVal)
	assert.EqualValues(t, 0, toks[2].IVal)
}

func TestTokenizeMultiCharOperatorsGreedy(t *testing.T) {
	toks, err := Tokenize("a <<= b; a << b; a < b")
	require.NoError(t, err)
	var ops []string
	for _, tok := range toks {
		if tok.Kind == token.PUNCT {
			ops = append(ops, tok.Lexeme)
		}
	}
	assert.Equal(t, []string{"<<=", ";", "<<", ";", "<"}, ops)
}

func TestSkipsLineAndBlockComments(t *testing.T) {
	toks, err := Tokenize("1 // line comment\n2 /* block\ncomment */ 3")
	require.NoError(t, err)
	var ints []int64
	for _, tok := range toks {
		if tok.Kind == token.INT {
			ints = append(ints, tok.IVal)
		}
	}
	assert.Equal(t, []int64{1, 2, 3}, ints)
}

func TestUnterminatedBlockCommentErrors(t *testing.T) {
	_, err := Tokenize("/* never closed")
	require.Error(t, err)
	var lexErr LexError
	require.ErrorAs(t, err, &lexErr)
}

func TestUnterminatedStringErrors(t *testing.T) {
	_, err := Tokenize(`"no closing quote`)
	require.Error(t, err)
}

func TestUnrecognisedCharacterErrors(t *testing.T) {
	_, err := Tokenize("@")
	require.Error(t, err)
}

func TestPositionsTrackLinesAndColumns(t *testing.T) {
	toks, err := Tokenize("a\nb")
	require.NoError(t, err)
	require.Len(t, toks, 3)
	assert.Equal(t, 1, toks[0].Pos.Line)
	assert.Equal(t, 2, toks[1].Pos.Line)
}
