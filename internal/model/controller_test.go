package model

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"code.cloudfoundry.org/clock/fakeclock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/a1s/ntable/internal/column"
	"github.com/a1s/ntable/internal/params"
	"github.com/a1s/ntable/internal/testutil"
)

type loadCall struct {
	page   int
	count  int
	filter params.Filter
}

type fakeLoader struct {
	data  []any
	calls []loadCall
	mx    sync.Mutex
}

func newFakeLoader(n int) *fakeLoader {
	data := make([]any, n)
	for i := range data {
		data[i] = i + 1
	}
	return &fakeLoader{data: data}
}

func (f *fakeLoader) Load(_ context.Context, sink *params.Sink, r params.Reader) {
	f.mx.Lock()
	f.calls = append(f.calls, loadCall{page: r.Page(), count: r.Count(), filter: r.Filter()})
	f.mx.Unlock()

	page, count := r.Page(), r.Count()
	if count == 0 {
		sink.Resolve(f.data)
		return
	}
	start := min((page-1)*count, len(f.data))
	end := min(start+count, len(f.data))
	sink.Resolve(f.data[start:end])
}

func (f *fakeLoader) Calls() []loadCall {
	f.mx.Lock()
	defer f.mx.Unlock()
	return append([]loadCall(nil), f.calls...)
}

func (f *fakeLoader) Count() int {
	return len(f.Calls())
}

type tableRecorder struct {
	columns  int
	datasets [][]any
	loading  []bool
	failures []error
	mx       sync.Mutex
}

func (r *tableRecorder) TableColumnsBuilt(cols []*column.Accessor) {
	r.mx.Lock()
	defer r.mx.Unlock()
	r.columns = len(cols)
}

func (r *tableRecorder) TableDataChanged(rows []any) {
	r.mx.Lock()
	defer r.mx.Unlock()
	r.datasets = append(r.datasets, rows)
}

func (r *tableRecorder) TableLoadingChanged(b bool) {
	r.mx.Lock()
	defer r.mx.Unlock()
	r.loading = append(r.loading, b)
}

func (r *tableRecorder) TableLoadFailed(err error) {
	r.mx.Lock()
	defer r.mx.Unlock()
	r.failures = append(r.failures, err)
}

func newController(t *testing.T, opts ...Option) *Controller {
	opts = append([]Option{WithLogger(testutil.NewTestLogger(t))}, opts...)
	c := NewController(context.Background(), opts...)
	t.Cleanup(c.Close)

	return c
}

func TestControllerStartsWithNullInstance(t *testing.T) {
	c := newController(t)
	assert.True(t, c.Params().IsNullInstance())

	c.Digest()
	assert.False(t, c.Params().IsLoading())
	assert.Empty(t, c.Params().Data())
}

func TestControllerPagingScenario(t *testing.T) {
	loader := newFakeLoader(17)
	c := newController(t)
	p := params.New(params.Settings{Total: 17, Loader: loader}, params.WithPage(1), params.WithCount(10))

	c.Bind(p)
	require.Equal(t, 1, loader.Count())
	assert.Len(t, p.Data(), 10)

	c.Apply(func(p *params.Params) { p.SetPage(2) })
	require.Equal(t, 2, loader.Count())
	assert.Len(t, p.Data(), 7)

	c.Apply(func(p *params.Params) { p.SetTotal(20) })
	assert.Equal(t, 2, loader.Count())
	assert.Len(t, p.Data(), 7)
	assert.Equal(t, 20, p.Total())
}

func TestControllerFilterNoDelay(t *testing.T) {
	loader := newFakeLoader(5)
	c := newController(t)
	p := params.New(params.Settings{Loader: loader}, params.WithFilter(params.Filter{"age": 10}))
	c.Bind(p)
	require.Equal(t, 1, loader.Count())

	c.Apply(func(p *params.Params) { p.SetFilterValue("age", 12) })

	calls := loader.Calls()
	require.Len(t, calls, 2)
	assert.Equal(t, params.Filter{"age": 12}, calls[1].filter)
}

func TestControllerSameFilterValueNoReload(t *testing.T) {
	loader := newFakeLoader(5)
	c := newController(t)
	p := params.New(params.Settings{Loader: loader}, params.WithFilter(params.Filter{"age": 10}))
	c.Bind(p)

	c.Apply(func(p *params.Params) { p.SetFilterValue("age", 10) })
	c.Apply(func(p *params.Params) { p.SetFilter(params.Filter{"age": 10}) })

	assert.Equal(t, 1, loader.Count())
}

func TestControllerFilterResetsPage(t *testing.T) {
	loader := newFakeLoader(50)
	c := newController(t)
	p := params.New(params.Settings{Loader: loader}, params.WithPage(3))
	c.Bind(p)

	c.Apply(func(p *params.Params) { p.SetFilterValue("name", "jo") })

	calls := loader.Calls()
	require.Len(t, calls, 2)
	assert.Equal(t, 3, calls[0].page)
	assert.Equal(t, 1, calls[1].page)
	assert.Equal(t, 1, p.Page())
}

func TestControllerBootstrapHonorsInitialPage(t *testing.T) {
	loader := newFakeLoader(50)
	c := newController(t)
	p := params.New(params.Settings{Loader: loader, FilterDelay: time.Second},
		params.WithPage(2),
		params.WithFilter(params.Filter{"age": 5}),
	)

	c.Bind(p)

	calls := loader.Calls()
	require.Len(t, calls, 1, "bootstrap loads immediately, not debounced")
	assert.Equal(t, 2, calls[0].page)
}

func TestControllerSortAndPageReloadImmediately(t *testing.T) {
	loader := newFakeLoader(50)
	c := newController(t)
	p := params.New(params.Settings{Loader: loader, FilterDelay: time.Hour})
	c.Bind(p)

	c.Apply(func(p *params.Params) { p.SetSorting(params.Sorting{{Column: "age", Dir: params.Desc}}) })
	assert.Equal(t, 2, loader.Count())

	c.Apply(func(p *params.Params) { p.SetPage(2) })
	assert.Equal(t, 3, loader.Count())

	c.Apply(func(p *params.Params) { p.SetCount(25) })
	assert.Equal(t, 4, loader.Count())
}

func TestControllerDebounce(t *testing.T) {
	fc := fakeclock.NewFakeClock(time.Now())
	loader := newFakeLoader(50)
	c := newController(t, WithClock(fc))
	p := params.New(params.Settings{Loader: loader, FilterDelay: 100 * time.Millisecond}, params.WithPage(4))
	c.Bind(p)
	require.Equal(t, 1, loader.Count())

	for _, v := range []string{"j", "jo", "joe"} {
		c.Apply(func(p *params.Params) { p.SetFilterValue("name", v) })
		fc.Increment(50 * time.Millisecond)
	}
	assert.Equal(t, 1, loader.Count())
	assert.Equal(t, 4, p.Page(), "page is reset when the reload runs")

	fc.Increment(50 * time.Millisecond)
	require.Eventually(t, func() bool { return loader.Count() == 2 }, time.Second, 5*time.Millisecond)

	calls := loader.Calls()
	assert.Equal(t, params.Filter{"name": "joe"}, calls[1].filter)
	assert.Equal(t, 1, calls[1].page)

	fc.Increment(time.Second)
	c.Digest()
	assert.Equal(t, 2, loader.Count())
}

// heldLoader records every call and keeps its sink until released.
type heldLoader struct {
	calls []loadCall
	sinks []*params.Sink
	mx    sync.Mutex
}

func (h *heldLoader) Load(_ context.Context, sink *params.Sink, r params.Reader) {
	h.mx.Lock()
	defer h.mx.Unlock()
	h.calls = append(h.calls, loadCall{page: r.Page(), count: r.Count(), filter: r.Filter()})
	h.sinks = append(h.sinks, sink)
}

func (h *heldLoader) Calls() []loadCall {
	h.mx.Lock()
	defer h.mx.Unlock()
	return append([]loadCall(nil), h.calls...)
}

func (h *heldLoader) release(i int, rows ...any) {
	h.mx.Lock()
	sink := h.sinks[i]
	h.mx.Unlock()
	sink.Resolve(rows)
}

func TestControllerFilterFiresWhileLoading(t *testing.T) {
	fc := fakeclock.NewFakeClock(time.Now())
	loader := new(heldLoader)
	c := newController(t, WithClock(fc))
	p := params.New(params.Settings{Loader: loader, FilterDelay: 100 * time.Millisecond})
	c.Bind(p)
	loader.release(0, 1)
	require.Eventually(t, func() bool { return !p.IsLoading() }, time.Second, 5*time.Millisecond)

	c.Apply(func(p *params.Params) { p.SetFilterValue("name", "joe") })
	c.Apply(func(p *params.Params) { p.SetPage(2) })
	require.Len(t, loader.Calls(), 2)
	require.True(t, p.IsLoading())

	fc.Increment(100 * time.Millisecond)
	require.Eventually(t, c.pending.Pending, time.Second, 5*time.Millisecond)
	assert.Equal(t, 2, p.Page(), "page is kept while the page 2 load runs")
	assert.Len(t, loader.Calls(), 2)

	loader.release(1, 2)
	require.Eventually(t, func() bool { return len(loader.Calls()) == 3 }, time.Second, 5*time.Millisecond)

	call := loader.Calls()[2]
	assert.Equal(t, 1, call.page)
	assert.Equal(t, params.Filter{"name": "joe"}, call.filter)
	assert.Equal(t, 1, p.Page())
	assert.False(t, c.pending.Pending())
}

func TestControllerStaleFilterTimer(t *testing.T) {
	fc := fakeclock.NewFakeClock(time.Now())
	loader := newFakeLoader(5)
	c := newController(t, WithClock(fc))
	p := params.New(params.Settings{Loader: loader, FilterDelay: 100 * time.Millisecond})
	c.Bind(p)
	c.Apply(func(p *params.Params) { p.SetFilterValue("name", "joe") })

	// The timer passes its own check, then waits for the cycle lock while the slot is cleared.
	c.mx.Lock()
	fc.Increment(100 * time.Millisecond)
	require.Eventually(t, func() bool { return !c.scheduler.Pending() }, time.Second, time.Millisecond)
	c.scheduler.CancelAll()
	c.mx.Unlock()

	assert.Never(t, func() bool { return loader.Count() > 1 }, 50*time.Millisecond, 5*time.Millisecond)
}

func TestControllerRebindLoadsOnce(t *testing.T) {
	loader := newFakeLoader(5)
	c := newController(t)
	rec := new(tableRecorder)
	c.AddListener(rec)

	p := params.New(params.Settings{Loader: loader, Data: []any{"a", "b"}})
	c.Bind(p)
	c.Digest()
	assert.Equal(t, 1, loader.Count())

	c.Bind(p)
	assert.Equal(t, 1, loader.Count(), "same instance is not rebound")

	for i := range 3 {
		c.Bind(params.New(params.Settings{Loader: loader, Data: []any{"a"}}))
		assert.Equal(t, i+2, loader.Count())
	}

	rec.mx.Lock()
	defer rec.mx.Unlock()
	assert.Len(t, rec.datasets, 4)
	assert.Equal(t, []bool{true, false, true, false, true, false, true, false}, rec.loading)
}

func TestControllerFilterWinsOverDataPush(t *testing.T) {
	fc := fakeclock.NewFakeClock(time.Now())
	loader := newFakeLoader(5)
	c := newController(t, WithClock(fc))
	p := params.New(params.Settings{Loader: loader, FilterDelay: 100 * time.Millisecond})
	c.Bind(p)
	require.Equal(t, 1, loader.Count())

	c.Apply(func(p *params.Params) {
		p.SetFilterValue("age", 1)
		p.SetData([]any{1, 2, 3})
	})
	assert.Equal(t, 1, loader.Count())

	fc.Increment(100 * time.Millisecond)
	require.Eventually(t, func() bool { return loader.Count() == 2 }, time.Second, 5*time.Millisecond)

	c.Digest()
	assert.Equal(t, 2, loader.Count())
}

func TestControllerFilterAndDataPushNoDelay(t *testing.T) {
	loader := newFakeLoader(5)
	c := newController(t)
	p := params.New(params.Settings{Loader: loader, Counts: []int{1}}, params.WithPage(2), params.WithCount(1))
	c.Bind(p)
	require.Equal(t, 1, loader.Count())

	c.Apply(func(p *params.Params) {
		p.SetFilterValue("age", 1)
		p.SetData([]any{1, 2, 3})
	})

	assert.Equal(t, 2, loader.Count())
	assert.Equal(t, 1, p.Page())
}

func TestControllerDataPushReloadsOnce(t *testing.T) {
	loader := newFakeLoader(5)
	c := newController(t)
	p := params.New(params.Settings{Loader: loader}, params.WithPage(3))
	c.Bind(p)

	c.Apply(func(p *params.Params) { p.SetData([]any{"x"}) })

	calls := loader.Calls()
	require.Len(t, calls, 2)
	assert.Equal(t, 1, calls[1].page)

	c.Digest()
	assert.Equal(t, 2, loader.Count())
}

func TestControllerLoaderFailure(t *testing.T) {
	fail := true
	loader := params.LoaderFunc(func(_ context.Context, sink *params.Sink, _ params.Reader) {
		if fail {
			panic("kaboom")
		}
		sink.Resolve([]any{"ok"})
	})
	c := newController(t)
	rec := new(tableRecorder)
	c.AddListener(rec)

	fail = false
	p := params.New(params.Settings{Loader: loader})
	c.Bind(p)
	require.Equal(t, []any{"ok"}, p.Data())

	fail = true
	res := c.Reload()
	_, err := res.Wait(context.Background())
	require.Error(t, err)

	var lerr *params.LoadError
	require.True(t, errors.As(err, &lerr))
	assert.Equal(t, p.ID(), lerr.ParamsID)
	assert.Contains(t, err.Error(), "kaboom")
	assert.False(t, p.IsLoading())
	assert.Equal(t, []any{"ok"}, p.Data())

	rec.mx.Lock()
	defer rec.mx.Unlock()
	require.Len(t, rec.failures, 1)
	assert.Equal(t, false, rec.loading[len(rec.loading)-1])
}

func TestControllerRejectSurfacesReason(t *testing.T) {
	boom := errors.New("boom")
	c := newController(t)
	p := params.New(params.Settings{Loader: params.LoaderFunc(func(_ context.Context, sink *params.Sink, _ params.Reader) {
		sink.Reject(boom)
	})})
	c.Bind(p)

	assert.ErrorIs(t, c.Wait(context.Background()), boom)
	assert.False(t, p.IsLoading())
}

func TestControllerAsyncLoadDropsEvents(t *testing.T) {
	release := make(chan struct{})
	var calls int
	var mx sync.Mutex
	loader := params.LoaderFunc(func(_ context.Context, sink *params.Sink, r params.Reader) {
		mx.Lock()
		calls++
		mx.Unlock()
		page := r.Page()
		go func() {
			<-release
			sink.Resolve([]any{page})
		}()
	})
	c := newController(t)
	p := params.New(params.Settings{Loader: loader})
	c.Bind(p)
	require.True(t, p.IsLoading())

	c.Apply(func(p *params.Params) { p.SetPage(5) })
	dropped := c.Reload()

	close(release)
	rows, err := dropped.Wait(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []any{1}, rows, "dropped reload returns the executing one")

	require.Eventually(t, func() bool { return !p.IsLoading() }, time.Second, 5*time.Millisecond)
	mx.Lock()
	defer mx.Unlock()
	assert.Equal(t, 1, calls)
}

func TestControllerCloseRejectsPendingLoad(t *testing.T) {
	loader := params.LoaderFunc(func(context.Context, *params.Sink, params.Reader) {})
	c := newController(t)
	p := params.New(params.Settings{Loader: loader})
	c.Bind(p)

	c.Close()
	err := c.Wait(context.Background())
	assert.ErrorIs(t, err, context.Canceled)
	require.Eventually(t, func() bool { return !p.IsLoading() }, time.Second, 5*time.Millisecond)
}

func TestControllerDefaultLoader(t *testing.T) {
	loader := newFakeLoader(3)
	c := newController(t, WithDefaultLoader(loader))

	c.Bind(params.New(params.Settings{}))

	assert.Equal(t, 1, loader.Count())
}

func TestControllerSortBy(t *testing.T) {
	loader := newFakeLoader(3)
	c := newController(t)
	p := params.New(params.Settings{Loader: loader, DefaultSort: params.Desc})
	c.Bind(p)
	cols := c.SetColumns([]column.Decl{
		{"field": "name", column.Sortable: "name"},
		{"field": "age", column.Sortable: true},
		{"field": "note"},
	})

	c.SortBy(cols[0], false)
	assert.Equal(t, params.Sorting{{Column: "name", Dir: params.Desc}}, p.Sorting())

	c.SortBy(cols[0], false)
	assert.Equal(t, params.Sorting{{Column: "name", Dir: params.Asc}}, p.Sorting())

	c.SortBy(cols[1], true)
	assert.Equal(t, params.Sorting{{Column: "name", Dir: params.Asc}, {Column: "age", Dir: params.Desc}}, p.Sorting())

	c.SortBy(cols[1], false)
	assert.Equal(t, params.Sorting{{Column: "age", Dir: params.Asc}}, p.Sorting())

	before := loader.Count()
	c.SortBy(cols[2], false)
	assert.Equal(t, before, loader.Count())
}

func TestControllerSetColumns(t *testing.T) {
	c := newController(t)
	rec := new(tableRecorder)
	c.AddListener(rec)

	d := params.NewDeferred()
	cols := c.SetColumns([]column.Decl{
		{column.Title: "Name"},
		{column.FilterData: func() any { return d }},
	})
	d.Resolve([]any{"a"})
	require.NoError(t, c.Wait(context.Background()))

	assert.Len(t, c.Columns(), 2)
	data, ok := cols[1].Data()
	require.True(t, ok)
	assert.Equal(t, []any{column.BlankOption, "a"}, data)

	rec.mx.Lock()
	defer rec.mx.Unlock()
	assert.Equal(t, 2, rec.columns)
}

func TestControllerRemoveListener(t *testing.T) {
	c := newController(t)
	rec := new(tableRecorder)
	c.AddListener(rec)
	c.RemoveListener(rec)

	c.Bind(params.New(params.Settings{Loader: newFakeLoader(1)}))

	rec.mx.Lock()
	defer rec.mx.Unlock()
	assert.Empty(t, rec.datasets)
}
