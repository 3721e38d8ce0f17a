package params

import (
	"fmt"

	"github.com/containerd/errdefs"
)

// Direction is a sort direction.
type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// Inverse returns the opposite direction.
func (d Direction) Inverse() Direction {
	if d == Desc {
		return Asc
	}
	return Desc
}

// Valid reports whether d is asc or desc.
func (d Direction) Valid() bool {
	return d == Asc || d == Desc
}

// ParseDirection parses "asc" or "desc".
func ParseDirection(s string) (Direction, error) {
	d := Direction(s)
	if !d.Valid() {
		return "", fmt.Errorf("invalid sort direction %q, expected asc or desc: %w", s, errdefs.ErrInvalidArgument)
	}
	return d, nil
}

// SortEntry sorts by one column.
type SortEntry struct {
	Column string    `json:"column" yaml:"column"`
	Dir    Direction `json:"dir" yaml:"dir"`
}

// Sorting is an ordered mapping column -> direction.
// Earlier entries take precedence over later ones.
type Sorting []SortEntry

// Get returns the direction for col.
func (s Sorting) Get(col string) (Direction, bool) {
	for _, e := range s {
		if e.Column == col {
			return e.Dir, true
		}
	}
	return "", false
}

// With returns a copy of s where col sorts in dir.
// An existing entry keeps its position, a new one is appended.
func (s Sorting) With(col string, dir Direction) Sorting {
	out := s.Clone()
	for i := range out {
		if out[i].Column == col {
			out[i].Dir = dir
			return out
		}
	}
	return append(out, SortEntry{Column: col, Dir: dir})
}

// Columns returns the sorted columns in precedence order.
func (s Sorting) Columns() []string {
	cols := make([]string, len(s))
	for i, e := range s {
		cols[i] = e.Column
	}
	return cols
}

func (s Sorting) Clone() Sorting {
	if s == nil {
		return nil
	}
	out := make(Sorting, len(s))
	copy(out, s)
	return out
}
