package params

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/containerd/errdefs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefaults(t *testing.T) {
	p := New(Settings{})

	assert.Equal(t, 1, p.Page())
	assert.Equal(t, 10, p.Count())
	assert.Empty(t, p.Sorting())
	assert.Empty(t, p.Filter())
	assert.Equal(t, DefaultCounts, p.Counts())
	assert.Equal(t, Asc, p.DefaultSort())
	assert.Equal(t, time.Duration(0), p.FilterDelay())
	assert.False(t, p.IsLoading())
	assert.False(t, p.IsNullInstance())
	assert.NotEmpty(t, p.ID())
}

func TestNewWithOptions(t *testing.T) {
	p := New(Settings{Total: 17, DefaultSort: Desc},
		WithPage(3),
		WithCount(0),
		WithSorting(Sorting{{Column: "name", Dir: Asc}}),
		WithFilter(Filter{"age": 10}),
	)

	assert.Equal(t, 3, p.Page())
	assert.Equal(t, 0, p.Count())
	assert.Equal(t, Sorting{{Column: "name", Dir: Asc}}, p.Sorting())
	assert.Equal(t, Filter{"age": 10}, p.Filter())
	assert.Equal(t, 17, p.Total())
	assert.Equal(t, Desc, p.DefaultSort())
}

func TestSettersClamp(t *testing.T) {
	p := New(Settings{})
	p.SetPage(0)
	assert.Equal(t, 1, p.Page())
	p.SetCount(-5)
	assert.Equal(t, 0, p.Count())
	p.SetTotal(-1)
	assert.Equal(t, 0, p.Total())
}

func TestFilterIsCopied(t *testing.T) {
	nested := map[string]any{"min": 1}
	p := New(Settings{}, WithFilter(Filter{"age": nested}))

	nested["min"] = 2
	got := p.Filter()
	assert.Equal(t, 1, got["age"].(map[string]any)["min"])

	got["age"] = 99
	assert.NotEqual(t, 99, p.Filter()["age"])
}

func TestSetFilterValue(t *testing.T) {
	p := New(Settings{})
	p.SetFilterValue("age", 10)
	p.SetFilterValue("name", "jo")
	assert.Equal(t, Filter{"age": 10, "name": "jo"}, p.Filter())

	p.SetFilterValue("name", nil)
	assert.Equal(t, Filter{"age": 10}, p.Filter())
}

func TestSetParametersResetsPageOnFilterChange(t *testing.T) {
	p := New(Settings{}, WithPage(4), WithFilter(Filter{"age": 10}))

	p.SetParameters(WithFilter(Filter{"age": 10}))
	assert.Equal(t, 4, p.Page(), "same filter keeps the page")

	p.SetParameters(WithFilter(Filter{"age": 12}))
	assert.Equal(t, 1, p.Page())

	p.SetParameters(WithFilter(Filter{"age": 13}), WithPage(3))
	assert.Equal(t, 3, p.Page())
}

func TestTotalFunc(t *testing.T) {
	p := New(Settings{Total: 3, TotalFunc: func() int { return 42 }})
	assert.Equal(t, 42, p.Total())
}

func TestSetDataBumpsVersion(t *testing.T) {
	p := New(Settings{})
	assert.Equal(t, uint64(0), p.DataVersion())

	rows := []any{1, 2}
	p.SetData(rows)
	p.SetData(rows)
	assert.Equal(t, uint64(2), p.DataVersion())
	assert.Equal(t, rows, p.SettingsData())

	withData := New(Settings{Data: rows})
	assert.Equal(t, uint64(1), withData.DataVersion())
}

func TestSnapshotEqual(t *testing.T) {
	base := Snapshot{Page: 1, Count: 10, Filter: Filter{"age": 10}}

	uu := map[string]struct {
		o Snapshot
		e bool
	}{
		"same":          {o: Snapshot{Page: 1, Count: 10, Filter: Filter{"age": 10}, Sorting: Sorting{}}, e: true},
		"page":          {o: Snapshot{Page: 2, Count: 10, Filter: Filter{"age": 10}}},
		"count":         {o: Snapshot{Page: 1, Count: 25, Filter: Filter{"age": 10}}},
		"filter":        {o: Snapshot{Page: 1, Count: 10, Filter: Filter{"age": 12}}},
		"sorting":       {o: Snapshot{Page: 1, Count: 10, Filter: Filter{"age": 10}, Sorting: Sorting{{Column: "age", Dir: Asc}}}},
		"nested-filter": {o: Snapshot{Page: 1, Count: 10, Filter: Filter{"age": map[string]any{"gt": 10}}}},
	}

	for k := range uu {
		u := uu[k]
		t.Run(k, func(t *testing.T) {
			done := make(chan bool, 1)
			go func() { done <- base.Equal(u.o) }()

			select {
			case got := <-done:
				assert.Equal(t, u.e, got)
				assert.Equal(t, u.e, u.o.Equal(base))
			case <-time.After(time.Second):
				t.Fatal("Equal did not return")
			}
		})
	}

	assert.True(t, Snapshot{Filter: nil}.Equal(Snapshot{Filter: Filter{}}), "nil and empty filters are equal")
	assert.True(t, base.FilterEqual(Snapshot{Filter: Filter{"age": 10}}))
	assert.False(t, base.FilterEqual(Snapshot{Filter: Filter{"age": 12}}))
}

func TestLoadLifecycle(t *testing.T) {
	p := New(Settings{})
	p.EndLoad(PageResult{Rows: []any{"kept"}}, nil)

	res, started := p.BeginLoad()
	require.True(t, started)
	assert.True(t, p.IsLoading())

	again, started := p.BeginLoad()
	assert.False(t, started)
	assert.Same(t, res, again)

	p.EndLoad(PageResult{}, errors.New("boom"))
	assert.False(t, p.IsLoading())
	assert.Equal(t, []any{"kept"}, p.Data(), "failed load keeps the dataset")

	_, err := res.Wait(context.Background())
	assert.EqualError(t, err, "boom")

	res, _ = p.BeginLoad()
	p.EndLoad(PageResult{Rows: []any{1, 2}, Total: 7, HasTotal: true}, nil)
	rows, err := res.Wait(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []any{1, 2}, rows)
	assert.Equal(t, []any{1, 2}, p.Data())
	assert.Equal(t, 7, p.Total())
}

func TestSinkFirstOutcomeWins(t *testing.T) {
	s := NewSink()
	assert.False(t, s.Settled())
	s.Resolve([]any{1}, 5)
	s.Reject(errors.New("late"))
	require.True(t, s.Settled())

	page, err := s.Outcome()
	require.NoError(t, err)
	assert.Equal(t, PageResult{Rows: []any{1}, Total: 5, HasTotal: true}, page)
}

func TestNullInstanceLoadsNothing(t *testing.T) {
	p := NewNull()
	require.True(t, p.IsNullInstance())

	s := NewSink()
	p.Loader().Load(context.Background(), s, p)
	page, err := s.Outcome()
	require.NoError(t, err)
	assert.Empty(t, page.Rows)
}

func TestDeferredWaitHonorsContext(t *testing.T) {
	d := NewDeferred()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := d.Wait(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestParseDirection(t *testing.T) {
	uu := map[string]struct {
		s   string
		e   Direction
		err bool
	}{
		"asc":   {s: "asc", e: Asc},
		"desc":  {s: "desc", e: Desc},
		"upper": {s: "ASC", err: true},
		"empty": {s: "", err: true},
	}

	for k := range uu {
		u := uu[k]
		t.Run(k, func(t *testing.T) {
			d, err := ParseDirection(u.s)
			if u.err {
				assert.ErrorIs(t, err, errdefs.ErrInvalidArgument)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, u.e, d)
		})
	}
}
