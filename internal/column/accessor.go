// Package column normalizes raw column declarations into accessors with a
// uniform read/configure interface, and resolves their filter options.
package column

import (
	"fmt"
	"sync"
)

// Recognized capability names.
const (
	Class             = "class"
	Filter            = "filter"
	FilterData        = "filterData"
	HeaderTemplateURL = "headerTemplateURL"
	HeaderTitle       = "headerTitle"
	Sortable          = "sortable"
	Show              = "show"
	Title             = "title"
	TitleAlt          = "titleAlt"
)

// Decl is a raw column declaration. Values are literals or functions.
// Keys other than the capabilities (field, id, ...) pass through untouched.
type Decl map[string]any

// Func is a capability function. It receives the raw declaration it belongs to
// and either the default context (reads) or the caller's arguments.
type Func func(self Decl, args ...any) any

var noop Func = func(Decl, ...any) any { return nil }

var defaults = map[string]any{
	Class:             "",
	Filter:            false,
	FilterData:        noop,
	HeaderTemplateURL: false,
	HeaderTitle:       "",
	Sortable:          false,
	Show:              true,
	Title:             "",
	TitleAlt:          "",
}

// Capabilities returns the recognized capability names.
func Capabilities() []string {
	return []string{Class, Filter, FilterData, HeaderTemplateURL, HeaderTitle, Sortable, Show, Title, TitleAlt}
}

// Default returns the fallback value of a capability.
func Default(name string) (any, bool) {
	v, ok := defaults[name]
	return v, ok
}

// Accessor is the normalized view of a Decl.
// Capability reads always go through the raw declaration, so later changes
// to it are visible. The declaration is never written.
type Accessor struct {
	raw        Decl
	defaultCtx any
	removed    map[string]struct{}
	data       any
	hasData    bool
	mx         sync.RWMutex
}

// Build returns the accessor for raw. Zero-argument capability calls receive defaultCtx.
func Build(raw Decl, defaultCtx any) *Accessor {
	if raw == nil {
		raw = Decl{}
	}
	return &Accessor{
		raw:        raw,
		defaultCtx: defaultCtx,
		removed:    make(map[string]struct{}),
	}
}

// BuildAll builds an accessor per declaration.
func BuildAll(decls []Decl, defaultCtx any) []*Accessor {
	cols := make([]*Accessor, 0, len(decls))
	for _, d := range decls {
		cols = append(cols, Build(d, defaultCtx))
	}
	return cols
}

// Raw returns the underlying declaration.
func (a *Accessor) Raw() Decl { return a.raw }

// Call evaluates a capability.
// Without args a function is invoked with the default context, with args they are
// forwarded as is. A literal value is returned as is, a missing one falls back to
// its default.
func (a *Accessor) Call(name string, args ...any) any {
	a.mx.RLock()
	_, gone := a.removed[name]
	a.mx.RUnlock()
	if gone {
		return nil
	}

	v, ok := a.raw[name]
	if !ok || v == nil {
		if v, ok = defaults[name]; !ok {
			return nil
		}
	}
	if len(args) == 0 {
		args = []any{a.defaultCtx}
	}
	if out, called := invoke(a.raw, v, args); called {
		return out
	}

	return v
}

func invoke(self Decl, v any, args []any) (any, bool) {
	switch fn := v.(type) {
	case Func:
		return fn(self, args...), true
	case func(Decl, ...any) any:
		return fn(self, args...), true
	case func(...any) any:
		return fn(args...), true
	case func(any) any:
		return fn(args[0]), true
	case func() any:
		return fn(), true
	case func() string:
		return fn(), true
	case func() bool:
		return fn(), true
	}

	return nil, false
}

// HasCapability reports whether the declaration defines name and it was not removed.
func (a *Accessor) HasCapability(name string) bool {
	a.mx.RLock()
	defer a.mx.RUnlock()
	if _, gone := a.removed[name]; gone {
		return false
	}
	v, ok := a.raw[name]

	return ok && v != nil
}

// Remove drops a capability from the accessor. The declaration is left unchanged.
func (a *Accessor) Remove(name string) {
	a.mx.Lock()
	defer a.mx.Unlock()
	a.removed[name] = struct{}{}
}

// SetData assigns the resolved filter options.
func (a *Accessor) SetData(v any) {
	a.mx.Lock()
	defer a.mx.Unlock()
	a.data, a.hasData = v, true
}

// Data returns the resolved filter options.
func (a *Accessor) Data() (any, bool) {
	a.mx.RLock()
	defer a.mx.RUnlock()
	return a.data, a.hasData
}

// Get returns a non capability field of the declaration. Functions are evaluated.
func (a *Accessor) Get(key string) any {
	v, ok := a.raw[key]
	if !ok {
		return nil
	}
	if out, called := invoke(a.raw, v, []any{a.defaultCtx}); called {
		return out
	}

	return v
}

// Field returns the row field the column displays.
func (a *Accessor) Field() string {
	return toString(a.Get("field"))
}

// ID returns the column id, defaulting to its field.
func (a *Accessor) ID() string {
	if id := toString(a.Get("id")); id != "" {
		return id
	}
	return a.Field()
}

// Title returns the header title.
func (a *Accessor) Title() string { return toString(a.Call(Title)) }

// TitleAlt returns the short header title.
func (a *Accessor) TitleAlt() string { return toString(a.Call(TitleAlt)) }

// HeaderTitle returns the header tooltip.
func (a *Accessor) HeaderTitle() string { return toString(a.Call(HeaderTitle)) }

// Class returns the header class.
func (a *Accessor) Class() string { return toString(a.Call(Class)) }

// Show reports whether the column is visible.
func (a *Accessor) Show() bool { return Truthy(a.Call(Show)) }

// SortKey returns the key the column sorts by.
// A sortable of true sorts by the column field.
func (a *Accessor) SortKey() (string, bool) {
	switch v := a.Call(Sortable).(type) {
	case string:
		return v, v != ""
	case bool:
		if v && a.Field() != "" {
			return a.Field(), true
		}
	}

	return "", false
}

// FilterDef returns the filter declaration keyed by filter field.
func (a *Accessor) FilterDef() map[string]string {
	switch v := a.Call(Filter).(type) {
	case map[string]string:
		return v
	case map[string]any:
		def := make(map[string]string, len(v))
		for k, t := range v {
			def[k] = toString(t)
		}
		return def
	}

	return nil
}

// Truthy reports whether v counts as set: not nil, false, zero or an empty string.
func Truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		return t != ""
	case int:
		return t != 0
	case int64:
		return t != 0
	case int32:
		return t != 0
	case uint:
		return t != 0
	case uint64:
		return t != 0
	case float64:
		return t != 0
	case float32:
		return t != 0
	}

	return true
}

func toString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case bool:
		if !t {
			return ""
		}
	}

	return fmt.Sprint(v)
}
