package model

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"code.cloudfoundry.org/clock"
	"github.com/wI2L/jsondiff"

	"github.com/a1s/ntable/internal/column"
	"github.com/a1s/ntable/internal/params"
)

// Controller observes the bound params and decides when they reload.
//
// Work happens in update cycles. Digest runs one, Apply mutates the bound
// params and then runs one. Timers and asynchronous loader results re-enter
// through the same path, so cycles never overlap. Listeners are notified after
// a cycle released its lock and may call back into the controller.
type Controller struct {
	ctx           context.Context
	cancel        context.CancelFunc
	log           *slog.Logger
	clock         clock.Clock
	scheduler     *Scheduler
	pending       *PendingGuard
	resolver      *column.Resolver
	defaultLoader params.Loader

	bound     atomic.Pointer[params.Params]
	observed  observation
	bootstrap *params.Params
	reloaded  bool
	drain     bool
	last      *params.Result
	columns   []*column.Accessor
	notes     []func(TableListener)
	mx        sync.Mutex

	listeners []TableListener
	lmx       sync.RWMutex
}

var _ TableModel = (*Controller)(nil)

type observation struct {
	params  *params.Params
	snap    params.Snapshot
	version uint64
}

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.log = l
		}
	}
}

// WithClock sets the clock used for filter debouncing.
func WithClock(cl clock.Clock) Option {
	return func(c *Controller) {
		if cl != nil {
			c.clock = cl
		}
	}
}

// WithDefaultLoader sets the loader used for params without one.
func WithDefaultLoader(l params.Loader) Option {
	return func(c *Controller) { c.defaultLoader = l }
}

// NewController returns a controller bound to the null params instance.
func NewController(ctx context.Context, opts ...Option) *Controller {
	c := &Controller{
		log:     slog.New(slog.DiscardHandler),
		clock:   clock.NewClock(),
		pending: new(PendingGuard),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.ctx, c.cancel = context.WithCancel(ctx)
	c.scheduler = NewScheduler(c.clock)
	c.resolver = column.NewResolver(c.ctx, c.log)

	null := params.NewNull()
	c.bound.Store(null)
	c.observed = c.observe(null)

	return c
}

// Close cancels the armed debounce timer and pending loads.
func (c *Controller) Close() {
	c.scheduler.CancelAll()
	c.cancel()
}

// Params returns the bound params.
func (c *Controller) Params() *params.Params {
	return c.bound.Load()
}

// Resolver returns the filter data resolver.
func (c *Controller) Resolver() *column.Resolver {
	return c.resolver
}

// AddListener registers a table listener.
func (c *Controller) AddListener(l TableListener) {
	c.lmx.Lock()
	defer c.lmx.Unlock()
	c.listeners = append(c.listeners, l)
}

// RemoveListener unregisters a table listener.
func (c *Controller) RemoveListener(l TableListener) {
	c.lmx.Lock()
	defer c.lmx.Unlock()

	for i, listener := range c.listeners {
		if listener == l {
			c.listeners = append(c.listeners[:i], c.listeners[i+1:]...)
			return
		}
	}
}

// Bind binds p, marks it bootstrapping and runs a cycle, which reloads it once.
// Binding the instance already bound is a no-op.
func (c *Controller) Bind(p *params.Params) {
	if p == nil {
		return
	}
	c.update(func() {
		if c.bound.Load() == p {
			return
		}
		c.scheduler.CancelAll()
		c.pending.Clear()
		c.bound.Store(p)
		c.bootstrap = p
		c.log.Debug("params bound", "params", p.ID())
	})
}

// Digest runs one update cycle.
func (c *Controller) Digest() {
	c.update(nil)
}

// Apply runs fn against the bound params, then an update cycle.
// fn must not call back into the controller.
func (c *Controller) Apply(fn func(*params.Params)) {
	c.update(func() {
		fn(c.bound.Load())
	})
}

// Reload reloads the bound params now.
// While a reload executes the call is dropped and its result returned.
func (c *Controller) Reload() *params.Result {
	var res *params.Result
	c.update(func() {
		res = c.reload(c.bound.Load())
	})

	return res
}

// Wait blocks until the latest reload finished and filter data resolutions are done.
// It returns the reload's error.
func (c *Controller) Wait(ctx context.Context) error {
	c.mx.Lock()
	res := c.last
	c.mx.Unlock()

	var err error
	if res != nil {
		_, err = res.Wait(ctx)
	}
	if rerr := c.resolver.Wait(); err == nil {
		err = rerr
	}

	return err
}

// SortBy sorts by col. The column's current direction is inverted, an
// unsorted column starts with the default direction. Unless multi is set the
// other sort keys are dropped. Columns without a sort key are ignored.
func (c *Controller) SortBy(col *column.Accessor, multi bool) {
	key, ok := col.SortKey()
	if !ok {
		return
	}
	c.Apply(func(p *params.Params) {
		sorting := p.Sorting()
		dir := p.DefaultSort()
		if cur, ok := sorting.Get(key); ok {
			dir = cur.Inverse()
		}
		if multi {
			sorting = sorting.With(key, dir)
		} else {
			sorting = params.Sorting{{Column: key, Dir: dir}}
		}
		p.SetSorting(sorting)
	})
}

// Columns returns the built columns.
func (c *Controller) Columns() []*column.Accessor {
	c.mx.Lock()
	defer c.mx.Unlock()
	return c.columns
}

// SetColumns builds the column accessors and starts resolving their filter data.
// The controller is the default context of every column.
func (c *Controller) SetColumns(decls []column.Decl) []*column.Accessor {
	cols := column.BuildAll(decls, c)
	c.mx.Lock()
	c.columns = cols
	c.notify(func(l TableListener) { l.TableColumnsBuilt(cols) })
	notes := c.takeNotes()
	c.mx.Unlock()

	c.dispatch(notes)
	c.resolver.ResolveAll(cols, c)

	return cols
}

func (c *Controller) update(fn func()) {
	c.mx.Lock()
	c.reloaded = false
	if fn != nil {
		fn()
	}
	if c.ctx.Err() == nil {
		c.digestLocked()
	}
	notes := c.takeNotes()
	c.mx.Unlock()

	c.dispatch(notes)
}

func (c *Controller) observe(p *params.Params) observation {
	return observation{params: p, snap: p.Snapshot(), version: p.DataVersion()}
}

func (c *Controller) digestLocked() {
	p := c.bound.Load()
	prev, cur := c.observed, c.observe(p)
	c.observed = cur

	rebound := prev.params != p
	if rebound || !prev.snap.Equal(cur.snap) {
		c.logDelta(p, prev.snap, cur.snap)
		c.paramsChanged(p, prev.snap, cur.snap)
	}

	pushed := prev.version != cur.version
	if rebound {
		pushed = p.SettingsData() != nil
	}
	if pushed {
		c.dataChanged(p)
	}

	if c.drain {
		c.drain = false
		if fn := c.pending.Take(); fn != nil {
			fn()
		}
	}
}

func (c *Controller) paramsChanged(p *params.Params, prev, cur params.Snapshot) {
	if p.IsLoading() {
		c.log.Debug("params change ignored while loading", "params", p.ID())
		return
	}
	c.pending.Clear()

	reloadNow := func() {
		if c.bootstrap == p {
			c.bootstrap = nil
		}
		c.reload(p)
	}

	if prev.FilterEqual(cur) {
		reloadNow()
		return
	}

	bootstrapping := c.bootstrap == p
	var applyFilter func()
	applyFilter = func() {
		c.pending.Clear()
		if p.IsLoading() {
			c.log.Debug("filter reload deferred until load finished", "params", p.ID())
			c.pending.QueueFunc(applyFilter)
			return
		}
		if !bootstrapping {
			p.SetPage(1)
		}
		reloadNow()
	}
	if delay := p.FilterDelay(); delay > 0 && !bootstrapping {
		c.pending.Queue()
		var gen uint64
		gen = c.scheduler.Schedule(func() {
			c.update(func() {
				if c.scheduler.Current(gen) && c.bound.Load() == p {
					applyFilter()
				}
			})
		}, delay)
		return
	}
	applyFilter()
}

func (c *Controller) dataChanged(p *params.Params) {
	if p.IsLoading() || c.reloaded || c.pending.Pending() {
		return
	}
	c.pending.QueueFunc(func() {
		p.SetPage(1)
		c.reload(p)
	})
	c.drain = true
}

func (c *Controller) reload(p *params.Params) *params.Result {
	res, started := p.BeginLoad()
	if !started {
		c.log.Debug("reload dropped, already loading", "params", p.ID())
		return res
	}
	c.reloaded = true
	c.last = res
	bound := c.bound.Load() == p
	if bound {
		c.observed = c.observe(p)
		c.notify(func(l TableListener) { l.TableLoadingChanged(true) })
	}
	c.log.Debug("reloading",
		"params", p.ID(),
		"page", p.Page(),
		"count", p.Count(),
	)

	sink := params.NewSink()
	c.runLoader(c.loaderFor(p), sink, p)
	if sink.Settled() {
		c.finish(p, sink)
		return res
	}

	go func() {
		select {
		case <-sink.Done():
		case <-c.ctx.Done():
			sink.Reject(c.ctx.Err())
		}
		c.update(func() { c.finish(p, sink) })
	}()

	return res
}

func (c *Controller) loaderFor(p *params.Params) params.Loader {
	if l := p.Loader(); l != nil {
		return l
	}
	if c.defaultLoader != nil {
		return c.defaultLoader
	}

	return params.EmptyLoader
}

func (c *Controller) runLoader(l params.Loader, sink *params.Sink, p *params.Params) {
	defer func() {
		if r := recover(); r != nil {
			sink.Reject(fmt.Errorf("loader panic: %v", r))
		}
	}()
	l.Load(c.ctx, sink, p)
}

func (c *Controller) finish(p *params.Params, sink *params.Sink) {
	page, err := sink.Outcome()
	if err != nil {
		err = &params.LoadError{ParamsID: p.ID(), Page: p.Page(), Err: err}
		c.log.Error("reload failed", "params", p.ID(), "error", err)
	}
	p.EndLoad(page, err)

	if c.bound.Load() != p {
		return
	}
	if c.pending.Pending() {
		c.drain = true
	}
	if err != nil {
		c.notify(func(l TableListener) { l.TableLoadFailed(err) })
	} else {
		rows := page.Rows
		c.notify(func(l TableListener) { l.TableDataChanged(rows) })
	}
	c.notify(func(l TableListener) { l.TableLoadingChanged(false) })
}

func (c *Controller) logDelta(p *params.Params, prev, cur params.Snapshot) {
	if !c.log.Enabled(c.ctx, slog.LevelDebug) {
		return
	}
	patch, err := jsondiff.Compare(prev, cur)
	if err != nil {
		c.log.Debug("params delta failed", "params", p.ID(), "error", err)
		return
	}
	c.log.Debug("params changed", "params", p.ID(), "delta", patch.String())
}

func (c *Controller) notify(fn func(TableListener)) {
	c.notes = append(c.notes, fn)
}

func (c *Controller) takeNotes() []func(TableListener) {
	notes := c.notes
	c.notes = nil
	return notes
}

func (c *Controller) dispatch(notes []func(TableListener)) {
	if len(notes) == 0 {
		return
	}
	c.lmx.RLock()
	listeners := make([]TableListener, len(c.listeners))
	copy(listeners, c.listeners)
	c.lmx.RUnlock()

	for _, note := range notes {
		for _, l := range listeners {
			note(l)
		}
	}
}
