package model1

import (
	"fmt"
	"reflect"
)

// Attrs represents column attributes
type Attrs struct {
	Align     int    // tview alignment
	Sortable  bool   // Column has a sort key
	Sort      string // Current sort direction, empty when unsorted
	Class     string
	Decorator DecoratorFunc
}

// HeaderColumn represents a table header column
type HeaderColumn struct {
	ID    string
	Name  string
	Title string
	Attrs
}

func (h HeaderColumn) String() string {
	return fmt.Sprintf("%s [%d::%t::%s]", h.Name, h.Align, h.Sortable, h.Sort)
}

// Label returns the header text with its sort marker.
func (h HeaderColumn) Label() string {
	switch h.Sort {
	case "asc":
		return h.Name + "↑"
	case "desc":
		return h.Name + "↓"
	default:
		return h.Name
	}
}

// Header represents a table header (slice of columns)
type Header []HeaderColumn

func (h Header) Clone() Header {
	he := make(Header, len(h))
	copy(he, h)
	return he
}

func (h Header) Diff(header Header) bool {
	if len(h) != len(header) {
		return true
	}
	return !reflect.DeepEqual(h, header)
}

func (h Header) IndexOf(id string) (int, bool) {
	for i, c := range h {
		if c.ID == id {
			return i, true
		}
	}
	return -1, false
}

// Columns returns the header names.
func (h Header) Columns() []string {
	cc := make([]string, 0, len(h))
	for _, c := range h {
		cc = append(cc, c.Name)
	}
	return cc
}
