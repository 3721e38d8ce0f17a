package column

import (
	"context"
	"log/slog"
	"reflect"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Promise is a filter-data result that becomes available later.
// *params.Deferred implements it.
type Promise interface {
	Wait(ctx context.Context) (any, error)
}

// FilterOption is one selectable filter value.
type FilterOption struct {
	Title string `json:"title" yaml:"title"`
	ID    any    `json:"id" yaml:"id"`
}

// BlankOption is prepended to asynchronously resolved option lists.
var BlankOption = FilterOption{Title: "-", ID: ""}

// FilterContext is passed to filterData functions next to the scope.
type FilterContext struct {
	Column *Accessor
}

// Resolver assigns filter options to columns.
type Resolver struct {
	ctx        context.Context
	log        *slog.Logger
	group      errgroup.Group
	onResolved func(*Accessor)
	mx         sync.RWMutex
}

// NewResolver returns a resolver whose asynchronous waits stop when ctx is done.
func NewResolver(ctx context.Context, log *slog.Logger) *Resolver {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Resolver{ctx: ctx, log: log}
}

// OnResolved registers fn to run after a column received asynchronous options.
func (r *Resolver) OnResolved(fn func(*Accessor)) {
	r.mx.Lock()
	defer r.mx.Unlock()
	r.onResolved = fn
}

// ResolveAll resolves every column declaring filterData.
func (r *Resolver) ResolveAll(cols []*Accessor, scope any) {
	for _, col := range cols {
		if col.HasCapability(FilterData) {
			r.Resolve(col, scope)
		}
	}
}

// Resolve evaluates the column's filterData capability.
// A falsy result removes the capability, a Promise is awaited in the background
// and anything else is assigned as the column data.
func (r *Resolver) Resolve(col *Accessor, scope any) {
	def := col.Call(FilterData, scope, FilterContext{Column: col})
	if !Truthy(def) || isNil(def) {
		col.Remove(FilterData)
		return
	}

	p, ok := def.(Promise)
	if !ok {
		col.SetData(def)
		return
	}

	col.Remove(FilterData)
	r.group.Go(func() error {
		v, err := p.Wait(r.ctx)
		if err != nil {
			r.log.Warn("filter data rejected", "column", col.ID(), "error", err)
			return nil
		}
		col.SetData(asOptions(v))

		r.mx.RLock()
		fn := r.onResolved
		r.mx.RUnlock()
		if fn != nil {
			fn(col)
		}

		return nil
	})
}

// Wait blocks until all background resolutions finished.
func (r *Resolver) Wait() error {
	return r.group.Wait()
}

func asOptions(v any) any {
	switch t := v.(type) {
	case nil:
		return []any{}
	case []FilterOption:
		return append([]FilterOption{BlankOption}, t...)
	case []any:
		return append([]any{BlankOption}, t...)
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		out := make([]any, 0, rv.Len()+1)
		out = append(out, BlankOption)
		for i := range rv.Len() {
			out = append(out, rv.Index(i).Interface())
		}
		return out
	case reflect.Func, reflect.Map, reflect.Struct:
		return v
	default:
		return []any{}
	}
}

// isNil reports a typed nil hidden in an interface.
func isNil(v any) bool {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Interface, reflect.Chan:
		return rv.IsNil()
	}

	return false
}
