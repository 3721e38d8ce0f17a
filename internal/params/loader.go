package params

import (
	"context"
	"fmt"
)

// Reader is the read-only view of Params handed to a Loader.
type Reader interface {
	Page() int
	Count() int
	Sorting() Sorting
	Filter() Filter
	// SettingsData returns the dataset supplied through the settings, if any.
	SettingsData() []any
}

// Loader fetches one page of rows for the passed parameters.
// It must call exactly one of sink.Resolve or sink.Reject, either before
// returning or later from another goroutine.
// A Loader must not call back into the controller that invoked it.
type Loader interface {
	Load(ctx context.Context, sink *Sink, r Reader)
}

// LoaderFunc adapts a function to the Loader interface.
type LoaderFunc func(ctx context.Context, sink *Sink, r Reader)

// Load implements Loader.
func (f LoaderFunc) Load(ctx context.Context, sink *Sink, r Reader) {
	f(ctx, sink, r)
}

// EmptyLoader resolves every load with the settings dataset unchanged,
// or with no rows if there is none.
var EmptyLoader = LoaderFunc(func(_ context.Context, sink *Sink, r Reader) {
	data := r.SettingsData()
	sink.Resolve(data, len(data))
})

// PageResult is the successful outcome of a Loader.
type PageResult struct {
	Rows     []any
	Total    int
	HasTotal bool
}

// Sink receives the outcome of exactly one load.
type Sink struct {
	d *Deferred
}

// NewSink returns an unsettled Sink.
func NewSink() *Sink {
	return &Sink{d: NewDeferred()}
}

// Resolve delivers rows and an optional total item count.
func (s *Sink) Resolve(rows []any, total ...int) {
	res := PageResult{Rows: rows}
	if len(total) > 0 {
		res.Total, res.HasTotal = total[0], true
	}
	s.d.Resolve(res)
}

// Reject delivers a load failure.
func (s *Sink) Reject(reason error) {
	if reason == nil {
		reason = fmt.Errorf("loader rejected without reason")
	}
	s.d.Reject(reason)
}

// Done is closed once the sink received an outcome.
func (s *Sink) Done() <-chan struct{} { return s.d.Done() }

// Settled reports whether the sink received an outcome.
func (s *Sink) Settled() bool { return s.d.Settled() }

// Outcome returns the received outcome. It must only be called once Settled is true.
func (s *Sink) Outcome() (PageResult, error) {
	v, err := s.d.Wait(context.Background())
	if err != nil {
		return PageResult{}, err
	}
	return v.(PageResult), nil
}

// Result is the pending outcome of one reload as seen by the caller.
type Result struct {
	d *Deferred
}

// NewResult returns an unsettled Result.
func NewResult() *Result {
	return &Result{d: NewDeferred()}
}

// Wait blocks until the reload finished and returns the new dataset or the load error.
func (r *Result) Wait(ctx context.Context) ([]any, error) {
	v, err := r.d.Wait(ctx)
	if err != nil {
		return nil, err
	}
	rows, _ := v.([]any)
	return rows, nil
}

// Done is closed once the reload finished.
func (r *Result) Done() <-chan struct{} { return r.d.Done() }

func (r *Result) resolve(rows []any) { r.d.Resolve(rows) }
func (r *Result) reject(err error)   { r.d.Reject(err) }

// LoadError is returned when a loader rejected or panicked.
type LoadError struct {
	ParamsID string
	Page     int
	Err      error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load page %d of params %s: %v", e.Page, e.ParamsID, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}
