package column

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/a1s/ntable/internal/params"
	"github.com/a1s/ntable/internal/testutil"
)

func newResolver(t *testing.T) *Resolver {
	return NewResolver(context.Background(), testutil.NewTestLogger(t))
}

func TestResolveFalsyRemovesCapability(t *testing.T) {
	col := Build(Decl{FilterData: func() any { return nil }}, nil)
	r := newResolver(t)

	r.Resolve(col, nil)
	require.NoError(t, r.Wait())

	assert.False(t, col.HasCapability(FilterData))
	_, ok := col.Data()
	assert.False(t, ok)
}

func TestResolvePlainValue(t *testing.T) {
	opts := []any{"a", "b"}
	col := Build(Decl{FilterData: Func(func(_ Decl, args ...any) any {
		fc := args[1].(FilterContext)
		if fc.Column == nil {
			return nil
		}
		return opts
	})}, nil)
	r := newResolver(t)

	r.Resolve(col, "scope")

	data, ok := col.Data()
	require.True(t, ok)
	assert.Equal(t, opts, data, "no blank option for plain values")
	assert.True(t, col.HasCapability(FilterData))
}

func TestResolveDeferredSequence(t *testing.T) {
	d := params.NewDeferred()
	col := Build(Decl{FilterData: func(any) any { return d }}, nil)
	r := newResolver(t)
	var resolved atomic.Int32
	r.OnResolved(func(*Accessor) { resolved.Add(1) })

	r.Resolve(col, nil)
	assert.False(t, col.HasCapability(FilterData), "removed before the deferred settles")
	_, ok := col.Data()
	assert.False(t, ok)

	d.Resolve([]FilterOption{{Title: "Old", ID: 1}})
	require.NoError(t, r.Wait())

	data, ok := col.Data()
	require.True(t, ok)
	assert.Equal(t, []FilterOption{BlankOption, {Title: "Old", ID: 1}}, data)
	assert.Equal(t, int32(1), resolved.Load())
}

func TestResolveDeferredCoercion(t *testing.T) {
	seven := 7
	uu := map[string]struct {
		v any
		e any
	}{
		"number":  {v: 42, e: []any{}},
		"string":  {v: "x", e: []any{}},
		"nil":     {v: nil, e: []any{}},
		"strings": {v: []string{"a"}, e: []any{BlankOption, "a"}},
		"map":     {v: map[string]any{"a": 1}, e: map[string]any{"a": 1}},
		"int-ptr": {v: &seven, e: []any{}},
		"nil-ptr": {v: (*int)(nil), e: []any{}},
		"struct":  {v: FilterOption{Title: "x"}, e: FilterOption{Title: "x"}},
	}

	for k := range uu {
		u := uu[k]
		t.Run(k, func(t *testing.T) {
			d := params.NewDeferred()
			col := Build(Decl{FilterData: func() any { return d }}, nil)
			r := newResolver(t)
			r.Resolve(col, nil)
			d.Resolve(u.v)
			require.NoError(t, r.Wait())

			data, _ := col.Data()
			assert.Equal(t, u.e, data)
		})
	}
}

func TestResolveTypedNilPromise(t *testing.T) {
	uu := map[string]struct {
		fn func() any
	}{
		"deferred": {fn: func() any { return (*params.Deferred)(nil) }},
		"slice":    {fn: func() any { return []FilterOption(nil) }},
		"map":      {fn: func() any { return map[string]any(nil) }},
	}

	for k := range uu {
		u := uu[k]
		t.Run(k, func(t *testing.T) {
			col := Build(Decl{FilterData: u.fn}, nil)
			r := newResolver(t)

			assert.NotPanics(t, func() { r.Resolve(col, nil) })
			require.NoError(t, r.Wait())

			assert.False(t, col.HasCapability(FilterData))
			_, ok := col.Data()
			assert.False(t, ok)
		})
	}
}

func TestResolveDeferredRejected(t *testing.T) {
	d := params.NewDeferred()
	col := Build(Decl{FilterData: func() any { return d }}, nil)
	r := newResolver(t)

	r.Resolve(col, nil)
	d.Reject(errors.New("nope"))
	require.NoError(t, r.Wait())

	_, ok := col.Data()
	assert.False(t, ok)
}

func TestResolveAllSkipsUndeclared(t *testing.T) {
	calls := 0
	cols := BuildAll([]Decl{
		{Title: "a"},
		{FilterData: func() any { calls++; return []any{1} }},
	}, nil)
	r := newResolver(t)

	r.ResolveAll(cols, nil)

	assert.Equal(t, 1, calls)
	_, ok := cols[0].Data()
	assert.False(t, ok)
}
