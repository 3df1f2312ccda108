package symtab

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScopeBuckets(t *testing.T) {
	tab := New()
	assert.Equal(t, ScopeGlobal, tab.Scope())

	tab.OpenBlock() // class body
	assert.Equal(t, ScopeGlobal, tab.Scope())

	tab.EnterScope(ScopeMain)
	assert.Equal(t, ScopeMain, tab.Scope())

	tab.OpenBlock() // main body
	assert.Equal(t, ScopeLocal, tab.Scope())

	tab.OpenBlock() // nested block shares the local bucket
	assert.Equal(t, ScopeLocal, tab.Scope())
	tab.CloseBlock()
	tab.CloseBlock()
	assert.Equal(t, ScopeMain, tab.Scope())

	tab.CloseBlock() // class body closes, method is left
	assert.Equal(t, ScopeGlobal, tab.Scope())
}

func TestDeclareQualifiesNames(t *testing.T) {
	tab := New()
	field, err := tab.Declare("count", "int", 2, nil)
	require.NoError(t, err)
	assert.Equal(t, "count", field.QualifiedName)

	tab.OpenBlock()
	tab.EnterScope(ScopeMain)
	args, err := tab.Declare("args", "String[]", 3, nil)
	require.NoError(t, err)
	assert.Equal(t, "main.args", args.QualifiedName)

	tab.OpenBlock()
	x, err := tab.Declare("x", "int", 4, int64(5))
	require.NoError(t, err)
	assert.Equal(t, "local.x", x.QualifiedName)
	assert.Equal(t, ScopeLocal, x.Scope)
}

func TestDeclareCollision(t *testing.T) {
	tab := New()
	first, err := tab.Declare("x", "int", 1, nil)
	require.NoError(t, err)

	again, err := tab.Declare("x", "double", 2, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrRedeclared))
	assert.Same(t, first, again)
	assert.Equal(t, "int", again.TypeName, "first declaration must survive")
}

func TestResolveFallbacks(t *testing.T) {
	tab := New()
	tab.OpenBlock()
	tab.EnterScope(ScopeMain)
	tab.OpenBlock()
	_, err := tab.Declare("i", "int", 3, nil)
	require.NoError(t, err)

	// local is never on the scope stack, only reachable through the fallback
	sym, ok := tab.Resolve("i")
	require.True(t, ok)
	assert.Equal(t, "local.i", sym.QualifiedName)

	_, ok = tab.Resolve("missing")
	assert.False(t, ok)

	assert.True(t, tab.MarkUsed("i"))
	assert.True(t, sym.Used)
	assert.False(t, tab.MarkUsed("missing"))
}

func TestUnusedExcludesClassesMethodsAndArgs(t *testing.T) {
	tab := New()
	_, _ = tab.Declare("Main", KindClass, 1, nil)
	tab.OpenBlock()
	tab.EnterScope(ScopeMain)
	_, _ = tab.Declare("main", KindMethod, 2, nil)
	_, _ = tab.Declare("args", "String[]", 2, nil)
	tab.OpenBlock()
	_, _ = tab.Declare("x", "int", 3, nil)
	_, _ = tab.Declare("y", "int", 4, nil)
	tab.MarkUsed("y")

	unused := tab.Unused()
	require.Len(t, unused, 1)
	assert.Equal(t, "x", unused[0].Name)
}

func TestSnapshotOrderAndValues(t *testing.T) {
	tab := New()
	_, _ = tab.Declare("a", "int", 1, int64(3))
	_, _ = tab.Declare("s", "String", 2, "hi")
	_, _ = tab.Declare("c", "char", 3, 'z')
	_, _ = tab.Declare("d", "double", 4, 2.5)

	rows := tab.Snapshot()
	require.Len(t, rows, 4)
	assert.Equal(t, []string{"a", "s", "c", "d"}, []string{rows[0].QualifiedName, rows[1].QualifiedName, rows[2].QualifiedName, rows[3].QualifiedName})
	assert.Equal(t, "3", rows[0].Value)
	assert.Equal(t, `"hi"`, rows[1].Value)
	assert.Equal(t, "'z'", rows[2].Value)
	assert.Equal(t, "2.5", rows[3].Value)
}

func TestReset(t *testing.T) {
	tab := New()
	tab.OpenBlock()
	tab.EnterScope(ScopeMain)
	_, _ = tab.Declare("x", "int", 1, nil)
	tab.Reset()

	assert.Empty(t, tab.Symbols())
	assert.Equal(t, ScopeGlobal, tab.Scope())
	assert.Equal(t, 0, tab.Depth())
}

func TestExitScopeNeverPopsGlobal(t *testing.T) {
	tab := New()
	tab.ExitScope()
	tab.ExitScope()
	assert.Equal(t, ScopeGlobal, tab.Scope())
}
