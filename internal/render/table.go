package render

import (
	"fmt"
	"sync"

	"github.com/derailed/tview"

	"github.com/a1s/ntable/internal/column"
	"github.com/a1s/ntable/internal/model1"
	"github.com/a1s/ntable/internal/params"
)

// Table renders dataset pages for a set of columns.
// It keeps the previous page so rows can be marked as added or updated.
type Table struct {
	prev *model1.RowEvents
	mx   sync.Mutex
}

// NewTable returns a table renderer.
func NewTable() *Table {
	return &Table{}
}

// Reset forgets the previous page.
func (t *Table) Reset() {
	t.mx.Lock()
	defer t.mx.Unlock()
	t.prev = nil
}

// Render builds the table data of one page.
func (t *Table) Render(cols []*column.Accessor, p *params.Params, rows []any) *model1.TableData {
	visible := Visible(cols)
	out := make([]model1.Row, 0, len(rows))
	for i, r := range rows {
		row := model1.NewRow(len(visible))
		row.ID = RowID(r, i)
		for j, col := range visible {
			row.Fields[j] = Cell(col, r)
		}
		out = append(out, row)
	}

	t.mx.Lock()
	events := model1.Diff(t.prev, out)
	t.prev = events
	t.mx.Unlock()

	td := model1.NewTableData()
	td.SetHeader(Header(visible, p.Sorting()))
	td.SetRowEvents(events)
	td.SetPaging(p.Page(), p.PageCount(), p.Total())

	return td
}

// Visible returns the columns to display.
func Visible(cols []*column.Accessor) []*column.Accessor {
	out := make([]*column.Accessor, 0, len(cols))
	for _, c := range cols {
		if c.Show() {
			out = append(out, c)
		}
	}
	return out
}

// Header builds the header of the visible columns.
func Header(cols []*column.Accessor, sorting params.Sorting) model1.Header {
	h := make(model1.Header, 0, len(cols))
	for _, c := range cols {
		name := c.Title()
		if name == "" {
			name = c.Field()
		}
		hc := model1.HeaderColumn{
			ID:    c.ID(),
			Name:  upper(name),
			Title: c.HeaderTitle(),
			Attrs: model1.Attrs{
				Align: tview.AlignLeft,
				Class: c.Class(),
			},
		}
		if key, ok := c.SortKey(); ok {
			hc.Sortable = true
			if dir, ok := sorting.Get(key); ok {
				hc.Sort = string(dir)
			}
		}
		if model1.ToString(c.Get("format")) == FormatSize {
			hc.Align = tview.AlignRight
		}
		h = append(h, hc)
	}

	return h
}

// Cell renders the value a column shows for row.
// A "value" function on the declaration takes precedence over the field.
func Cell(col *column.Accessor, row any) string {
	var v any
	if fn, ok := col.Raw()["value"].(func(any) any); ok {
		v = fn(row)
	} else {
		v, _ = model1.FieldValue(row, col.Field())
	}

	return Format(model1.ToString(col.Get("format")), v)
}

// RowID identifies a row by its id field, or by position when it has none.
func RowID(row any, i int) string {
	if v, ok := model1.FieldValue(row, "id"); ok && v != nil {
		return model1.ToString(v)
	}
	return fmt.Sprintf("#%d", i)
}
