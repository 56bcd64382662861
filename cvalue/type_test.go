package cvalue

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSizeOfScalars(t *testing.T) {
	assert.Equal(t, 1, SizeOf(Char))
	assert.Equal(t, 4, SizeOf(Int))
	assert.Equal(t, 4, SizeOf(Float))
	assert.Equal(t, 8, SizeOf(Pointer(Int)))
}

func TestSizeOfArray(t *testing.T) {
	assert.Equal(t, 40, SizeOf(Array(Int, 10)))
	assert.Equal(t, 8, SizeOf(Array(Char, 8)))
}

func TestTypeEqual(t *testing.T) {
	assert.True(t, Pointer(Int).Equal(Pointer(Int)))
	assert.False(t, Pointer(Int).Equal(Pointer(Char)))
	assert.True(t, Array(Int, 3).Equal(Array(Int, 3)))
	assert.False(t, Array(Int, 3).Equal(Array(Int, 4)))
}

func TestFunctionTypeEqual(t *testing.T) {
	a := Function([]Type{Int, Char}, Int)
	b := Function([]Type{Int, Char}, Int)
	c := Function([]Type{Int}, Int)
	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
}

func TestIsNumeric(t *testing.T) {
	assert.True(t, Int.IsNumeric())
	assert.True(t, Float.IsNumeric())
	assert.True(t, Char.IsNumeric())
	assert.False(t, Pointer(Int).IsNumeric())
	assert.False(t, Void.IsNumeric())
}

func TestTypeString(t *testing.T) {
	assert.Equal(t, "int", Int.String())
	assert.Equal(t, "int*", Pointer(Int).String())
	assert.Equal(t, "char[4]", Array(Char, 4).String())
}
