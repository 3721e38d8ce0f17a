// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of a1s

package ui

import (
	"fmt"
	"strings"

	"github.com/derailed/tcell/v2"
	"github.com/derailed/tview"

	"github.com/a1s/ntable/internal/column"
)

// IndicatorFilter prefixes the prompt while a filter is edited.
const IndicatorFilter = "🔍"

// FilterPrompt edits the filter value of one column.
type FilterPrompt struct {
	*tview.TextView

	field    string
	text     string
	options  []column.FilterOption
	choice   int
	active   bool
	activeFn func(bool)
	changeFn func(field, text string)
}

// NewFilterPrompt creates a new filter prompt.
func NewFilterPrompt() *FilterPrompt {
	f := &FilterPrompt{
		TextView: tview.NewTextView(),
	}

	f.SetDynamicColors(true)
	f.SetBackgroundColor(tcell.ColorDefault)
	f.SetTextColor(tcell.ColorWhite)
	f.refresh()

	return f
}

// SetActiveFn sets the callback when active state changes.
func (f *FilterPrompt) SetActiveFn(fn func(bool)) {
	f.activeFn = fn
}

// SetChangeFn sets the callback invoked on every edit.
func (f *FilterPrompt) SetChangeFn(fn func(field, text string)) {
	f.changeFn = fn
}

// Activate starts editing field, seeded with its current value.
// Tab cycles through opts when the column has filter options.
func (f *FilterPrompt) Activate(field, current string, opts []column.FilterOption) {
	f.field = field
	f.text = current
	f.active = true
	f.SetOptions(opts)
	if f.activeFn != nil {
		f.activeFn(true)
	}
}

// SetOptions replaces the selectable filter options.
func (f *FilterPrompt) SetOptions(opts []column.FilterOption) {
	f.options, f.choice = opts, -1
	for i, o := range opts {
		if optionValue(o) == f.text {
			f.choice = i
			break
		}
	}
	f.refresh()
}

// Options returns the selectable filter options.
func (f *FilterPrompt) Options() []column.FilterOption {
	return f.options
}

// Deactivate exits input mode and keeps the filter.
func (f *FilterPrompt) Deactivate() {
	f.active = false
	f.refresh()
	if f.activeFn != nil {
		f.activeFn(false)
	}
}

// IsActive returns whether input mode is active.
func (f *FilterPrompt) IsActive() bool {
	return f.active
}

// Field returns the filtered field.
func (f *FilterPrompt) Field() string {
	return f.field
}

// Text returns the current input text.
func (f *FilterPrompt) Text() string {
	return f.text
}

// HandleKey processes keyboard input when active.
// Esc clears the filter, Enter keeps it.
func (f *FilterPrompt) HandleKey(evt *tcell.EventKey) *tcell.EventKey {
	if !f.active {
		return evt
	}

	switch evt.Key() {
	case tcell.KeyEsc:
		f.update("")
		f.Deactivate()
		return nil

	case tcell.KeyEnter:
		f.Deactivate()
		return nil

	case tcell.KeyBackspace, tcell.KeyBackspace2:
		if r := []rune(f.text); len(r) > 0 {
			f.update(string(r[:len(r)-1]))
		}
		return nil

	case tcell.KeyTab:
		if len(f.options) > 0 {
			f.choice = (f.choice + 1) % len(f.options)
			f.update(optionValue(f.options[f.choice]))
		}
		return nil

	case tcell.KeyRune:
		f.update(f.text + string(evt.Rune()))
		return nil
	}

	return evt
}

func (f *FilterPrompt) update(text string) {
	f.text = text
	f.refresh()
	if f.changeFn != nil {
		f.changeFn(f.field, f.text)
	}
}

// refresh updates the display.
func (f *FilterPrompt) refresh() {
	switch {
	case f.active:
		f.TextView.SetText(fmt.Sprintf("%s/%s: %s[black:white] [-:-]%s", IndicatorFilter, f.field, tview.Escape(f.text), f.hint()))
	case f.text != "":
		f.TextView.SetText(fmt.Sprintf("%s/%s: %s", IndicatorFilter, f.field, tview.Escape(f.text)))
	default:
		f.TextView.SetText("")
	}
}

func (f *FilterPrompt) hint() string {
	if len(f.options) == 0 {
		return ""
	}
	titles := make([]string, 0, len(f.options))
	for _, o := range f.options {
		titles = append(titles, tview.Escape(o.Title))
	}

	return "  [gray::]<tab> " + strings.Join(titles, "|") + "[-::]"
}

func optionValue(o column.FilterOption) string {
	if o.ID == nil {
		return ""
	}
	return fmt.Sprint(o.ID)
}
