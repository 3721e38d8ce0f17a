package model1

import "github.com/derailed/tcell/v2"

var (
	// ModColor row modified color
	ModColor tcell.Color = tcell.ColorYellow

	// AddColor row added color
	AddColor tcell.Color = tcell.ColorBlue

	// PendingColor loading color
	PendingColor tcell.Color = tcell.ColorDarkCyan

	// ErrColor error color
	ErrColor tcell.Color = tcell.ColorRed

	// StdColor row default color
	StdColor tcell.Color = tcell.ColorWhite

	// HighlightColor header color
	HighlightColor tcell.Color = tcell.ColorAqua
)

// DefaultColorer colors rows by how they changed since the previous page.
func DefaultColorer(_ Header, re RowEvent) tcell.Color {
	switch re.Kind {
	case EventAdd:
		return AddColor
	case EventUpdate:
		return ModColor
	default:
		return StdColor
	}
}
