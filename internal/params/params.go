// Package params holds the table parameters a controller observes:
// paging, sorting, filtering, settings and the current dataset.
package params

import (
	"sync"

	"github.com/google/uuid"
)

// Params is the long-lived table parameters entity.
// All methods are safe for concurrent use.
type Params struct {
	id          string
	null        bool
	page        int
	count       int
	sorting     Sorting
	filter      Filter
	settings    Settings
	dataVersion uint64
	total       int
	data        []any
	loading     bool
	inflight    *Result
	mx          sync.RWMutex
}

var _ Reader = (*Params)(nil)

// Option sets an initial parameter value.
type Option func(*values)

type values struct {
	page    *int
	count   *int
	sorting Sorting
	filter  Filter
}

// WithPage sets the page number.
func WithPage(page int) Option {
	return func(v *values) { v.page = &page }
}

// WithCount sets the number of rows per page. Zero means unlimited.
func WithCount(count int) Option {
	return func(v *values) { v.count = &count }
}

// WithSorting sets the sorting.
func WithSorting(s Sorting) Option {
	return func(v *values) { v.sorting = s.Clone() }
}

// WithFilter sets the filter.
func WithFilter(f Filter) Option {
	return func(v *values) { v.filter = f.Clone() }
}

// New returns Params with page 1, count 10 and no sorting or filter,
// modified by opts.
func New(settings Settings, opts ...Option) *Params {
	p := &Params{
		id:       uuid.NewString(),
		page:     1,
		count:    10,
		sorting:  Sorting{},
		filter:   Filter{},
		settings: settings.withDefaults(),
		total:    settings.Total,
	}
	if p.settings.Data != nil {
		p.dataVersion = 1
	}
	var v values
	for _, opt := range opts {
		opt(&v)
	}
	p.apply(v)
	return p
}

// NewNull returns the placeholder bound to a table before real parameters are.
// It loads no rows.
func NewNull() *Params {
	p := New(Settings{Loader: EmptyLoader})
	p.null = true
	return p
}

func (p *Params) apply(v values) {
	if v.page != nil {
		p.page = max(*v.page, 1)
	}
	if v.count != nil {
		p.count = max(*v.count, 0)
	}
	if v.sorting != nil {
		p.sorting = v.sorting
	}
	if v.filter != nil {
		p.filter = v.filter
	}
}

// ID identifies this instance in logs.
func (p *Params) ID() string { return p.id }

// IsNullInstance reports whether p is the placeholder from NewNull.
func (p *Params) IsNullInstance() bool { return p.null }

// Page returns the current page number.
func (p *Params) Page() int {
	p.mx.RLock()
	defer p.mx.RUnlock()
	return p.page
}

// SetPage sets the page number, values below 1 are clamped to 1.
func (p *Params) SetPage(page int) {
	p.mx.Lock()
	defer p.mx.Unlock()
	p.page = max(page, 1)
}

// Count returns the number of rows per page.
func (p *Params) Count() int {
	p.mx.RLock()
	defer p.mx.RUnlock()
	return p.count
}

// SetCount sets the number of rows per page.
func (p *Params) SetCount(count int) {
	p.mx.Lock()
	defer p.mx.Unlock()
	p.count = max(count, 0)
}

// Sorting returns a copy of the sorting.
func (p *Params) Sorting() Sorting {
	p.mx.RLock()
	defer p.mx.RUnlock()
	return p.sorting.Clone()
}

// SetSorting replaces the sorting.
func (p *Params) SetSorting(s Sorting) {
	p.mx.Lock()
	defer p.mx.Unlock()
	if s == nil {
		s = Sorting{}
	}
	p.sorting = s.Clone()
}

// Filter returns a copy of the filter.
func (p *Params) Filter() Filter {
	p.mx.RLock()
	defer p.mx.RUnlock()
	return p.filter.Clone()
}

// SetFilter replaces the filter.
func (p *Params) SetFilter(f Filter) {
	p.mx.Lock()
	defer p.mx.Unlock()
	if f == nil {
		f = Filter{}
	}
	p.filter = f.Clone()
}

// SetFilterValue sets a single filter field.
// A nil value removes the field.
func (p *Params) SetFilterValue(field string, value any) {
	p.mx.Lock()
	defer p.mx.Unlock()
	f := p.filter.Clone()
	if f == nil {
		f = Filter{}
	}
	if value == nil {
		delete(f, field)
	} else {
		f[field] = cloneValue(value)
	}
	p.filter = f
}

// SetParameters merges opts into the current values.
// If the filter changes and no page is passed the page is reset to 1.
func (p *Params) SetParameters(opts ...Option) {
	var v values
	for _, opt := range opts {
		opt(&v)
	}
	p.mx.Lock()
	defer p.mx.Unlock()
	if v.filter != nil && v.page == nil && !FiltersEqual(v.filter, p.filter) {
		one := 1
		v.page = &one
	}
	p.apply(v)
}

// Snapshot returns a detached copy of page, count, sorting and filter.
func (p *Params) Snapshot() Snapshot {
	p.mx.RLock()
	defer p.mx.RUnlock()
	return Snapshot{
		Page:    p.page,
		Count:   p.count,
		Sorting: p.sorting.Clone(),
		Filter:  p.filter.Clone(),
	}
}

// Total returns the total item count.
func (p *Params) Total() int {
	p.mx.RLock()
	fn, total := p.settings.TotalFunc, p.total
	p.mx.RUnlock()
	if fn != nil {
		return fn()
	}
	return total
}

// SetTotal sets the total item count. It does not trigger a reload.
func (p *Params) SetTotal(total int) {
	p.mx.Lock()
	defer p.mx.Unlock()
	p.total = max(total, 0)
}

// Data returns the current page of rows.
func (p *Params) Data() []any {
	p.mx.RLock()
	defer p.mx.RUnlock()
	return p.data
}

// IsLoading reports whether a reload is executing.
func (p *Params) IsLoading() bool {
	p.mx.RLock()
	defer p.mx.RUnlock()
	return p.loading
}

// BeginLoad marks p as loading and returns the Result for the new reload.
// If a reload is already executing its Result is returned with started false.
func (p *Params) BeginLoad() (res *Result, started bool) {
	p.mx.Lock()
	defer p.mx.Unlock()
	if p.loading {
		return p.inflight, false
	}
	p.loading = true
	p.inflight = NewResult()
	return p.inflight, true
}

// EndLoad finishes the executing reload.
// On success the dataset is replaced and the total updated if reported,
// on failure the dataset is left unchanged.
func (p *Params) EndLoad(page PageResult, err error) {
	p.mx.Lock()
	res := p.inflight
	p.loading = false
	p.inflight = nil
	if err == nil {
		p.data = page.Rows
		if page.HasTotal {
			p.total = max(page.Total, 0)
		}
	}
	p.mx.Unlock()

	if res == nil {
		return
	}
	if err != nil {
		res.reject(err)
		return
	}
	res.resolve(page.Rows)
}
