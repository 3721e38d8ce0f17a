package model1

import "github.com/derailed/tcell/v2"

// ResEvent represents a row event type
type ResEvent int

const (
	EventUnchanged ResEvent = 1 << iota
	EventAdd
	EventUpdate
)

// DecoratorFunc decorates a string
type DecoratorFunc func(string) string

// ColorerFunc represents a row colorer
type ColorerFunc func(h Header, re RowEvent) tcell.Color
