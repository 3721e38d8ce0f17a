package model1

// RowEvent tracks how a row changed since the previous page
type RowEvent struct {
	Kind   ResEvent
	Row    Row
	Deltas DeltaRow
}

func NewRowEvent(kind ResEvent, row Row) RowEvent {
	return RowEvent{
		Kind: kind,
		Row:  row,
	}
}

// RowEvents a collection of row events
type RowEvents struct {
	events []RowEvent
	index  map[string]int
}

func NewRowEvents(size int) *RowEvents {
	return &RowEvents{
		events: make([]RowEvent, 0, size),
		index:  make(map[string]int, size),
	}
}

// Diff builds the events of rows against the rows of a previous page.
// A nil prev marks every row unchanged.
func Diff(prev *RowEvents, rows []Row) *RowEvents {
	out := NewRowEvents(len(rows))
	for _, r := range rows {
		if prev == nil {
			out.Add(NewRowEvent(EventUnchanged, r))
			continue
		}
		old, ok := prev.Get(r.ID)
		switch {
		case !ok:
			out.Add(NewRowEvent(EventAdd, r))
		case old.Row.Fields.Diff(r.Fields):
			out.Add(RowEvent{Kind: EventUpdate, Row: r, Deltas: NewDeltaRow(old.Row, r)})
		default:
			out.Add(NewRowEvent(EventUnchanged, r))
		}
	}
	return out
}

func (r *RowEvents) At(i int) (RowEvent, bool) {
	if i < 0 || i >= len(r.events) {
		return RowEvent{}, false
	}
	return r.events[i], true
}

func (r *RowEvents) Add(re RowEvent) {
	r.events = append(r.events, re)
	r.index[re.Row.ID] = len(r.events) - 1
}

func (r *RowEvents) Get(id string) (RowEvent, bool) {
	i, ok := r.index[id]
	if !ok {
		return RowEvent{}, false
	}
	return r.At(i)
}

func (r *RowEvents) Empty() bool {
	return len(r.events) == 0
}

func (r *RowEvents) Range(f func(int, RowEvent) bool) {
	for i, e := range r.events {
		if !f(i, e) {
			return
		}
	}
}

// Count returns the number of events.
func (r *RowEvents) Count() int {
	return len(r.events)
}
