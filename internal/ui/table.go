// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of a1s

package ui

import (
	"fmt"
	"slices"
	"sort"
	"sync"

	"github.com/derailed/tcell/v2"
	"github.com/derailed/tview"

	"github.com/a1s/ntable/internal/column"
	"github.com/a1s/ntable/internal/config"
	"github.com/a1s/ntable/internal/model"
	"github.com/a1s/ntable/internal/model1"
	"github.com/a1s/ntable/internal/params"
	"github.com/a1s/ntable/internal/render"
)

// TitleFmt formats the table title with binding, page, page count and total.
const TitleFmt = " <%s>[%d/%d][%d] "

// Table renders the bound params of a table model and drives it from the keyboard.
type Table struct {
	*tview.Table

	name     string
	model    model.TableModel
	renderer *render.Table
	actions  *KeyActions
	prompt   *FilterPrompt
	colorer  model1.ColorerFunc
	queue    Queuer
	errFn    func(error)
	pagedFn  func(*params.Params)

	cols    []*column.Accessor
	rows    []any
	data    *model1.TableData
	loading bool
	failed  error
	mx      sync.RWMutex
}

var _ model.TableListener = (*Table)(nil)

// NewTable returns a new table instance.
func NewTable(name string, m model.TableModel) *Table {
	return &Table{
		Table:    tview.NewTable(),
		name:     name,
		model:    m,
		renderer: render.NewTable(),
		actions:  NewKeyActions(),
		prompt:   NewFilterPrompt(),
		colorer:  model1.DefaultColorer,
		queue:    Inline,
	}
}

// Name returns the view name.
func (t *Table) Name() string {
	return t.name
}

// Init styles the table, binds the hotkeys and registers it on the model.
func (t *Table) Init(hk *config.HotKeys) error {
	t.SetFixed(1, 0)
	t.SetBorder(true)
	t.SetBorderAttributes(tcell.AttrBold)
	t.SetBorderPadding(0, 0, 1, 1)
	t.SetSelectable(true, true)
	t.SetBackgroundColor(tcell.ColorDefault)
	t.SetBorderColor(tcell.ColorWhite)
	t.SetTitle(fmt.Sprintf(" <%s> ", t.name))
	t.showNoData("Loading...")

	t.SetInputCapture(t.keyboard)
	t.prompt.SetChangeFn(t.filterChanged)
	if err := t.bindKeys(hk); err != nil {
		return err
	}
	t.model.AddListener(t)
	t.model.Resolver().OnResolved(t.filterDataResolved)

	return nil
}

// SetQueuer sets how UI mutations reach the UI goroutine.
func (t *Table) SetQueuer(q Queuer) {
	t.queue = q
}

// SetColorer sets the row colorer.
func (t *Table) SetColorer(f model1.ColorerFunc) {
	t.colorer = f
}

// SetErrorFn sets the callback for load failures.
func (t *Table) SetErrorFn(fn func(error)) {
	t.errFn = fn
}

// SetPagedFn sets the callback invoked after every redraw.
func (t *Table) SetPagedFn(fn func(*params.Params)) {
	t.pagedFn = fn
}

// Prompt returns the filter prompt.
func (t *Table) Prompt() *FilterPrompt {
	return t.prompt
}

// Actions returns the key actions.
func (t *Table) Actions() *KeyActions {
	return t.actions
}

// Hints returns menu hints for key bindings.
func (t *Table) Hints() MenuHints {
	return t.actions.Hints()
}

// Data returns the last rendered page.
func (t *Table) Data() *model1.TableData {
	t.mx.RLock()
	defer t.mx.RUnlock()
	return t.data
}

// TableColumnsBuilt implements model.TableListener.
func (t *Table) TableColumnsBuilt(cols []*column.Accessor) {
	t.mx.Lock()
	t.cols = cols
	t.mx.Unlock()
	t.renderer.Reset()
	t.queue(t.redraw)
}

// TableDataChanged implements model.TableListener.
func (t *Table) TableDataChanged(rows []any) {
	t.mx.Lock()
	t.rows, t.failed = rows, nil
	t.mx.Unlock()
	t.queue(t.redraw)
}

// TableLoadingChanged implements model.TableListener.
func (t *Table) TableLoadingChanged(loading bool) {
	t.mx.Lock()
	t.loading = loading
	t.mx.Unlock()
	t.queue(t.updateTitle)
}

// TableLoadFailed implements model.TableListener.
func (t *Table) TableLoadFailed(err error) {
	t.mx.Lock()
	t.failed = err
	t.mx.Unlock()
	t.queue(t.updateTitle)
	if t.errFn != nil {
		t.errFn(err)
	}
}

func (t *Table) redraw() {
	t.mx.Lock()
	cols, rows := t.cols, t.rows
	p := t.model.Params()
	td := t.renderer.Render(cols, p, rows)
	t.data = td
	t.mx.Unlock()

	t.renderData(td)
	t.updateTitle()
	if t.pagedFn != nil {
		t.pagedFn(p)
	}
}

// renderData renders the given data to the table.
func (t *Table) renderData(td *model1.TableData) {
	row, col := t.GetSelection()
	t.Clear()

	header := td.Header()
	for c, h := range header {
		cell := tview.NewTableCell(h.Label())
		cell.SetTextColor(tcell.ColorYellow)
		cell.SetBackgroundColor(tcell.ColorDefault)
		cell.SetAlign(h.Align)
		cell.SetExpansion(1)
		cell.SetSelectable(false)
		if h.Sort != "" {
			cell.SetTextColor(model1.HighlightColor)
			cell.SetAttributes(tcell.AttrBold)
		}
		t.SetCell(0, c, cell)
	}

	if td.Empty() {
		cell := tview.NewTableCell("No rows")
		cell.SetTextColor(tcell.ColorGray)
		cell.SetSelectable(false)
		t.SetCell(1, 0, cell)
		return
	}

	td.RowEvents().Range(func(i int, re model1.RowEvent) bool {
		fg := t.colorer(header, re)
		for c, field := range re.Row.Fields {
			if c >= len(header) {
				break
			}
			if d := header[c].Decorator; d != nil {
				field = d(field)
			}
			cell := tview.NewTableCell(field)
			cell.SetTextColor(fg)
			cell.SetBackgroundColor(tcell.ColorDefault)
			cell.SetAlign(header[c].Align)
			cell.SetExpansion(1)
			if c == 0 {
				cell.SetReference(re.Row.ID)
			}
			t.SetCell(i+1, c, cell)
		}
		return true
	})

	t.Select(min(max(row, 1), t.GetRowCount()-1), min(col, max(len(header)-1, 0)))
}

// showNoData displays a message when there's no data.
func (t *Table) showNoData(msg string) {
	t.Clear()
	cell := tview.NewTableCell(msg)
	cell.SetTextColor(tcell.ColorGray)
	cell.SetAlign(tview.AlignCenter)
	cell.SetSelectable(false)
	t.SetCell(0, 0, cell)
}

func (t *Table) updateTitle() {
	t.mx.RLock()
	loading, failed := t.loading, t.failed
	t.mx.RUnlock()

	p := t.model.Params()
	title := fmt.Sprintf(TitleFmt, t.name, p.Page(), p.PageCount(), p.Total())
	switch {
	case failed != nil:
		title += "[red::b]failed[-::-] "
	case loading:
		title += "[gray::]Loading...[-::] "
	}
	t.SetTitle(title)
}

// keyboard handles table keyboard input.
func (t *Table) keyboard(evt *tcell.EventKey) *tcell.EventKey {
	if t.prompt.IsActive() {
		return t.prompt.HandleKey(evt)
	}

	key := evt.Key()
	if key == tcell.KeyRune {
		row, col := t.GetSelection()
		switch evt.Rune() {
		case 'j':
			if row < t.GetRowCount()-1 {
				t.Select(row+1, col)
			}
			return nil
		case 'k':
			if row > 1 {
				t.Select(row-1, col)
			}
			return nil
		case 'h':
			if col > 0 {
				t.Select(row, col-1)
			}
			return nil
		case 'l':
			if col < t.GetColumnCount()-1 {
				t.Select(row, col+1)
			}
			return nil
		}
		key = tcell.Key(evt.Rune())
	}
	if action, ok := t.actions.Get(key); ok {
		return action.Action(evt)
	}

	return evt
}

func (t *Table) bindKeys(hk *config.HotKeys) error {
	if hk == nil {
		hk = config.NewHotKeys()
	}
	handlers := map[string]ActionHandler{
		config.ActionFilter:    t.filterCmd,
		config.ActionSort:      t.sortCmd(false),
		config.ActionMultiSort: t.sortCmd(true),
		config.ActionNextPage:  t.pageCmd(1),
		config.ActionPrevPage:  t.pageCmd(-1),
		config.ActionGrow:      t.countCmd(1),
		config.ActionShrink:    t.countCmd(-1),
		config.ActionReload:    t.reloadCmd,
	}
	for name, handler := range handlers {
		k := hk.Get(name)
		if k == nil {
			continue
		}
		key, err := AsKey(k.ShortCut)
		if err != nil {
			return fmt.Errorf("hotkey %s: %w", name, err)
		}
		t.actions.Add(key, NewKeyAction(k.Description, handler, true))
	}

	return nil
}

// SelectedColumn returns the visible column under the cursor.
func (t *Table) SelectedColumn() (*column.Accessor, bool) {
	t.mx.RLock()
	visible := render.Visible(t.cols)
	t.mx.RUnlock()

	_, c := t.GetSelection()
	if c < 0 || c >= len(visible) {
		return nil, false
	}
	return visible[c], true
}

func (t *Table) filterCmd(*tcell.EventKey) *tcell.EventKey {
	col, ok := t.SelectedColumn()
	if !ok {
		return nil
	}
	field := FilterField(col)
	if field == "" {
		return nil
	}
	current, _ := t.model.Params().Filter()[field].(string)
	t.prompt.Activate(field, current, FilterOptions(col))

	return nil
}

func (t *Table) filterDataResolved(col *column.Accessor) {
	t.queue(func() {
		if t.prompt.IsActive() && t.prompt.Field() == FilterField(col) {
			t.prompt.SetOptions(FilterOptions(col))
		}
		t.redraw()
	})
}

func (t *Table) filterChanged(field, text string) {
	var v any
	if text != "" {
		v = text
	}
	t.model.Apply(func(p *params.Params) { p.SetFilterValue(field, v) })
}

func (t *Table) sortCmd(multi bool) ActionHandler {
	return func(*tcell.EventKey) *tcell.EventKey {
		if col, ok := t.SelectedColumn(); ok {
			t.model.SortBy(col, multi)
		}
		return nil
	}
}

func (t *Table) pageCmd(delta int) ActionHandler {
	return func(*tcell.EventKey) *tcell.EventKey {
		t.model.Apply(func(p *params.Params) {
			next := p.Page() + delta
			if next >= 1 && next <= p.PageCount() {
				p.SetPage(next)
			}
		})
		return nil
	}
}

func (t *Table) countCmd(dir int) ActionHandler {
	return func(*tcell.EventKey) *tcell.EventKey {
		t.model.Apply(func(p *params.Params) {
			if c, ok := NextCount(p.Counts(), p.Count(), dir); ok {
				p.SetCount(c)
			}
		})
		return nil
	}
}

func (t *Table) reloadCmd(*tcell.EventKey) *tcell.EventKey {
	if inv, ok := t.model.Params().Loader().(Invalidator); ok {
		inv.Invalidate()
	}
	t.model.Reload()
	return nil
}

// FilterOptions returns the resolved filter options of a column.
func FilterOptions(col *column.Accessor) []column.FilterOption {
	data, ok := col.Data()
	if !ok {
		return nil
	}
	switch t := data.(type) {
	case []column.FilterOption:
		return t
	case []any:
		opts := make([]column.FilterOption, 0, len(t))
		for _, v := range t {
			if o, ok := v.(column.FilterOption); ok {
				opts = append(opts, o)
				continue
			}
			opts = append(opts, column.FilterOption{Title: fmt.Sprint(v), ID: v})
		}
		return opts
	}

	return nil
}

// FilterField returns the filter key of a column: the first declared filter
// name, or the column field when the filter declares none.
func FilterField(col *column.Accessor) string {
	def := col.FilterDef()
	if len(def) == 0 {
		return col.Field()
	}
	keys := make([]string, 0, len(def))
	for k := range def {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	return keys[0]
}

// NextCount returns the page size after cur in the direction of dir.
func NextCount(counts []int, cur, dir int) (int, bool) {
	if len(counts) == 0 {
		return 0, false
	}
	counts = slices.Clone(counts)
	slices.Sort(counts)
	i, found := slices.BinarySearch(counts, cur)
	switch {
	case dir > 0 && found && i+1 < len(counts):
		return counts[i+1], true
	case dir > 0 && !found && i < len(counts):
		return counts[i], true
	case dir < 0 && i > 0:
		return counts[i-1], true
	}

	return 0, false
}
