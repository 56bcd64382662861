package cenv

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ShimamotoWONQ/cwalk/cvalue"
)

type fakeCallable struct{ name string }

func (f fakeCallable) Name() string           { return f.name }
func (f fakeCallable) Signature() cvalue.Type { return cvalue.Function(nil, cvalue.Int) }

func TestGlobalDeclareAndLookup(t *testing.T) {
	e := New()
	require.NoError(t, e.DeclareGlobal("g", Binding{Type: cvalue.Int, Addr: 4}))
	b, ok := e.Lookup("g")
	require.True(t, ok)
	assert.Equal(t, uint64(4), b.Addr)
}

func TestRedeclarationAtGlobalScope(t *testing.T) {
	e := New()
	require.NoError(t, e.DeclareGlobal("g", Binding{Type: cvalue.Int}))
	err := e.DeclareGlobal("g", Binding{Type: cvalue.Int})
	require.Error(t, err)
	var redecl RedeclarationError
	require.ErrorAs(t, err, &redecl)
}

func TestFrameShadowsGlobalsAndRestoresOnPop(t *testing.T) {
	e := New()
	require.NoError(t, e.DeclareGlobal("x", Binding{Type: cvalue.Int, Addr: 1}))

	f := e.PushFrame(cvalue.Int, 0)
	f.PushScope()
	require.NoError(t, f.Declare("x", Binding{Type: cvalue.Int, Addr: 99}))

	b, ok := e.Lookup("x")
	require.True(t, ok)
	assert.EqualValues(t, 99, b.Addr, "local x shadows the global")

	e.PopFrame()
	b, ok = e.Lookup("x")
	require.True(t, ok)
	assert.EqualValues(t, 1, b.Addr, "global x visible again after frame pop")
}

func TestNestedScopesWithinAFrame(t *testing.T) {
	e := New()
	f := e.PushFrame(cvalue.Void, 0)
	f.PushScope()
	require.NoError(t, f.Declare("a", Binding{Type: cvalue.Int, Addr: 1}))

	f.PushScope()
	require.NoError(t, f.Declare("b", Binding{Type: cvalue.Int, Addr: 2}))
	_, ok := f.Lookup("a")
	assert.True(t, ok, "inner scope still sees outer scope's bindings")
	f.PopScope()

	_, ok = f.Lookup("b")
	assert.False(t, ok, "b no longer visible after its scope is popped")
}

func TestUndeclaredLookupFails(t *testing.T) {
	e := New()
	_, ok := e.Lookup("nope")
	assert.False(t, ok)
}

func TestRegisterFuncRejectsDuplicate(t *testing.T) {
	e := New()
	require.NoError(t, e.RegisterFunc(fakeCallable{name: "f"}))
	err := e.RegisterFunc(fakeCallable{name: "f"})
	require.Error(t, err)
	var redecl RedeclarationError
	require.ErrorAs(t, err, &redecl)
}

func TestLookupFunc(t *testing.T) {
	e := New()
	require.NoError(t, e.RegisterFunc(fakeCallable{name: "f"}))
	c, ok := e.LookupFunc("f")
	require.True(t, ok)
	assert.Equal(t, "f", c.Name())
}

func TestCurrentFrameNilAtTopLevel(t *testing.T) {
	e := New()
	assert.Nil(t, e.CurrentFrame())
}

func TestDeclareAtTopLevelGoesToGlobals(t *testing.T) {
	e := New()
	require.NoError(t, e.Declare("x", Binding{Type: cvalue.Int, Addr: 5}))
	b, ok := e.Lookup("x")
	require.True(t, ok)
	assert.EqualValues(t, 5, b.Addr)
}
