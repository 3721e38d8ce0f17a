package params

import (
	"slices"
	"time"
)

// DefaultCounts are the selectable page sizes when none are configured.
var DefaultCounts = []int{10, 25, 50, 100}

// Settings configures a Params instance.
type Settings struct {
	// Loader fetches pages. If nil the controller's default loader is used.
	Loader Loader
	// FilterDelay debounces reloads caused by filter changes. Zero reloads immediately.
	FilterDelay time.Duration
	// Counts are the selectable page sizes.
	Counts []int
	// Data is an optional pre-supplied dataset.
	Data []any
	// Total is the initial total item count.
	Total int
	// TotalFunc overrides Total when set.
	TotalFunc func() int
	// DefaultSort is the direction applied when a column is first sorted.
	DefaultSort Direction
}

func (s Settings) withDefaults() Settings {
	if s.Counts == nil {
		s.Counts = slices.Clone(DefaultCounts)
	}
	if !s.DefaultSort.Valid() {
		s.DefaultSort = Asc
	}
	if s.FilterDelay < 0 {
		s.FilterDelay = 0
	}
	return s
}

// Settings returns a copy of the current settings.
func (p *Params) Settings() Settings {
	p.mx.RLock()
	defer p.mx.RUnlock()
	s := p.settings
	s.Counts = slices.Clone(s.Counts)
	return s
}

// Loader returns the configured loader or nil.
func (p *Params) Loader() Loader {
	p.mx.RLock()
	defer p.mx.RUnlock()
	return p.settings.Loader
}

// SetLoader replaces the loader.
func (p *Params) SetLoader(l Loader) {
	p.mx.Lock()
	defer p.mx.Unlock()
	p.settings.Loader = l
}

// FilterDelay returns the filter debounce delay.
func (p *Params) FilterDelay() time.Duration {
	p.mx.RLock()
	defer p.mx.RUnlock()
	return p.settings.FilterDelay
}

// SetFilterDelay sets the filter debounce delay.
func (p *Params) SetFilterDelay(d time.Duration) {
	p.mx.Lock()
	defer p.mx.Unlock()
	p.settings.FilterDelay = max(d, 0)
}

// Counts returns the selectable page sizes.
func (p *Params) Counts() []int {
	p.mx.RLock()
	defer p.mx.RUnlock()
	return slices.Clone(p.settings.Counts)
}

// DefaultSort returns the direction used when a column is first sorted.
func (p *Params) DefaultSort() Direction {
	p.mx.RLock()
	defer p.mx.RUnlock()
	return p.settings.DefaultSort
}

// SettingsData returns the pre-supplied dataset.
func (p *Params) SettingsData() []any {
	p.mx.RLock()
	defer p.mx.RUnlock()
	return p.settings.Data
}

// SetData replaces the pre-supplied dataset.
// Every call counts as a new dataset, even when rows is the same slice.
func (p *Params) SetData(rows []any) {
	p.mx.Lock()
	defer p.mx.Unlock()
	p.settings.Data = rows
	p.dataVersion++
}

// DataVersion increases with every SetData call.
func (p *Params) DataVersion() uint64 {
	p.mx.RLock()
	defer p.mx.RUnlock()
	return p.dataVersion
}
