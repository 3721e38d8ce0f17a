package model1

// Fields represents the cells of a row
type Fields []string

func (f Fields) Clone() Fields {
	cp := make(Fields, len(f))
	copy(cp, f)
	return cp
}

func (f Fields) Diff(o Fields) bool {
	if len(f) != len(o) {
		return true
	}
	for i := range f {
		if f[i] != o[i] {
			return true
		}
	}
	return false
}

// Row represents a collection of columns
type Row struct {
	ID     string
	Fields Fields
}

func NewRow(size int) Row {
	return Row{Fields: make(Fields, size)}
}

func (r Row) Clone() Row {
	return Row{
		ID:     r.ID,
		Fields: r.Fields.Clone(),
	}
}

func (r Row) Len() int {
	return len(r.Fields)
}

// DeltaRow holds the previous values of the cells that changed.
type DeltaRow []string

func NewDeltaRow(o, n Row) DeltaRow {
	deltas := make(DeltaRow, len(n.Fields))
	for i, old := range o.Fields {
		if i >= len(n.Fields) {
			break
		}
		if old != n.Fields[i] {
			deltas[i] = old
		}
	}
	return deltas
}

func (d DeltaRow) IsBlank() bool {
	for _, v := range d {
		if v != "" {
			return false
		}
	}
	return true
}
