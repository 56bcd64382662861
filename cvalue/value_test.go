package cvalue

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCharValWraps(t *testing.T) {
	assert.EqualValues(t, 0, CharVal(256).I)
	assert.EqualValues(t, 255, CharVal(-1).I)
	assert.EqualValues(t, 65, CharVal(65).I)
}

func TestNullPointer(t *testing.T) {
	p := NullPointer(Int)
	assert.True(t, p.IsNull())
	assert.False(t, p.Truthy())
}

func TestPointerValIsNotNull(t *testing.T) {
	p := PointerVal(Int, 8)
	assert.False(t, p.IsNull())
	assert.True(t, p.Truthy())
}

func TestArrayHandleDecay(t *testing.T) {
	arr := ArrayHandle(Int, 3, 16)
	assert.True(t, arr.IsArray)
	p := arr.Decay()
	assert.False(t, p.IsArray)
	assert.Equal(t, KPointer, p.Type.Kind)
	assert.EqualValues(t, 16, p.Addr)
}

func TestDecayIsNoopForNonArray(t *testing.T) {
	v := IntVal(5)
	assert.Equal(t, v, v.Decay())
}

func TestAsFloatAndAsInt64(t *testing.T) {
	f := FloatVal(3.9)
	assert.Equal(t, 3.9, f.AsFloat())
	assert.EqualValues(t, 3, f.AsInt64())

	i := IntVal(7)
	assert.Equal(t, 7.0, i.AsFloat())
	assert.EqualValues(t, 7, i.AsInt64())
}

func TestTruthy(t *testing.T) {
	assert.True(t, IntVal(1).Truthy())
	assert.False(t, IntVal(0).Truthy())
	assert.False(t, FloatVal(0).Truthy())
	assert.True(t, FloatVal(0.1).Truthy())
}
