package registry

import (
	stderrors "errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conneroisu/embedposts/internal/errors"
)

func TestNew(t *testing.T) {
	root := NewScope()

	reg, err := New("org.example.widget", root)
	require.NoError(t, err)
	assert.Equal(t, "org.example.widget", reg.Path())

	org, ok := root.Get("org")
	require.True(t, ok)
	example, ok := org.(*Scope).Get("example")
	require.True(t, ok)
	_, ok = example.(*Scope).Get("widget")
	assert.True(t, ok)
}

func TestNewInvalidPath(t *testing.T) {
	for _, path := range []string{"", "org..widget", ".org", "org."} {
		t.Run(path, func(t *testing.T) {
			_, err := New(path, NewScope())
			require.Error(t, err)

			var le *errors.LoaderError
			require.True(t, stderrors.As(err, &le))
			assert.Equal(t, errors.ErrCodeRegistryPath, le.Code)
		})
	}
}

func TestNewConflictingSegment(t *testing.T) {
	root := NewScope()
	reg, err := New("org", root)
	require.NoError(t, err)
	reg.Install("example", "not a scope")

	_, err = New("org.example.widget", root)
	require.Error(t, err)

	var le *errors.LoaderError
	require.True(t, stderrors.As(err, &le))
	assert.Equal(t, errors.ErrCodeRegistryConflict, le.Code)
}

func TestNewNilRootUsesDefaultScope(t *testing.T) {
	a, err := New("test.default.scope", nil)
	require.NoError(t, err)
	b, err := New("test.default.scope", DefaultScope())
	require.NoError(t, err)

	a.Install("shared", 42)
	v, ok := b.Find("shared")
	assert.True(t, ok)
	assert.Equal(t, 42, v)
}

func TestFindAbsent(t *testing.T) {
	reg, err := New("org.example", NewScope())
	require.NoError(t, err)

	v, ok := reg.Find("missing")
	assert.False(t, ok)
	assert.Nil(t, v)
}

func TestInstallOverwrites(t *testing.T) {
	reg, err := New("org.example", NewScope())
	require.NoError(t, err)

	assert.Equal(t, "first", reg.Install("name", "first"))
	assert.Equal(t, "second", reg.Install("name", "second"))

	v, ok := reg.Find("name")
	assert.True(t, ok)
	assert.Equal(t, "second", v)
}

func TestEnsureIsIdempotent(t *testing.T) {
	root := NewScope()
	builds := 0
	sideEffects := 0

	type definition struct{ n int }

	for i := 0; i < 5; i++ {
		// A fresh registry each round models a re-evaluated script.
		reg, err := New("org.example.widget", root)
		require.NoError(t, err)

		v, err := EnsureAs(reg, "Widget", func() (*definition, error) {
			builds++
			sideEffects++
			return &definition{n: builds}, nil
		})
		require.NoError(t, err)
		assert.Equal(t, 1, v.n)
	}

	assert.Equal(t, 1, builds)
	assert.Equal(t, 1, sideEffects)
}

func TestEnsureReturnsIdenticalObject(t *testing.T) {
	root := NewScope()
	first, err := New("ns", root)
	require.NoError(t, err)
	second, err := New("ns", root)
	require.NoError(t, err)

	a, err := first.Ensure("obj", func() (any, error) { return &struct{}{}, nil })
	require.NoError(t, err)
	b, err := second.Ensure("obj", func() (any, error) { return &struct{}{}, nil })
	require.NoError(t, err)

	assert.Same(t, a, b)
}

func TestEnsureBuildError(t *testing.T) {
	reg, err := New("ns", NewScope())
	require.NoError(t, err)

	boom := stderrors.New("boom")
	_, err = reg.Ensure("obj", func() (any, error) { return nil, boom })
	assert.ErrorIs(t, err, boom)

	_, ok := reg.Find("obj")
	assert.False(t, ok, "a failed build must not bind")

	v, err := reg.Ensure("obj", func() (any, error) { return "ok", nil })
	require.NoError(t, err)
	assert.Equal(t, "ok", v)
}

func TestEnsureAsTypeConflict(t *testing.T) {
	reg, err := New("ns", NewScope())
	require.NoError(t, err)
	reg.Install("obj", "a string")

	_, err = EnsureAs(reg, "obj", func() (int, error) { return 1, nil })
	require.Error(t, err)
	assert.Contains(t, err.Error(), errors.ErrCodeRegistryConflict)
}

func TestIsolatedScopes(t *testing.T) {
	a, err := New("org.example", NewScope())
	require.NoError(t, err)
	b, err := New("org.example", NewScope())
	require.NoError(t, err)

	a.Install("x", 1)
	_, ok := b.Find("x")
	assert.False(t, ok)
}

func TestNames(t *testing.T) {
	reg, err := New("ns", NewScope())
	require.NoError(t, err)
	reg.Install("b", 1)
	reg.Install("a", 2)

	assert.Equal(t, []string{"a", "b"}, reg.Names())
}

func TestWatch(t *testing.T) {
	reg, err := New("ns", NewScope())
	require.NoError(t, err)

	ch := reg.Watch()
	reg.Install("a", 1)
	reg.Install("a", 2)

	select {
	case ev := <-ch:
		assert.Equal(t, EventTypeInstalled, ev.Type)
		assert.Equal(t, "a", ev.Name)
		assert.Equal(t, "installed", ev.Type.String())
	case <-time.After(time.Second):
		t.Fatal("expected install event")
	}

	select {
	case ev := <-ch:
		assert.Equal(t, EventTypeReplaced, ev.Type)
		assert.Equal(t, 2, ev.Value)
	case <-time.After(time.Second):
		t.Fatal("expected replace event")
	}

	reg.UnWatch(ch)
	_, open := <-ch
	assert.False(t, open)
}
