package params

import (
	"reflect"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

// Snapshot is a detached copy of the parameter values that drive a reload.
type Snapshot struct {
	Page    int     `json:"page"`
	Count   int     `json:"count"`
	Sorting Sorting `json:"sorting"`
	Filter  Filter  `json:"filter"`
}

var equalOpts = cmp.Options{
	cmpopts.EquateEmpty(),
	cmp.Exporter(func(reflect.Type) bool { return true }),
}

// Equal compares two snapshots structurally.
// Nil and empty filters or sortings are equal.
// cmp calls Equal methods, so the fields are compared one by one.
func (s Snapshot) Equal(o Snapshot) bool {
	return s.Page == o.Page &&
		s.Count == o.Count &&
		cmp.Equal(s.Sorting, o.Sorting, equalOpts) &&
		FiltersEqual(s.Filter, o.Filter)
}

// FilterEqual compares only the filters of two snapshots.
func (s Snapshot) FilterEqual(o Snapshot) bool {
	return FiltersEqual(s.Filter, o.Filter)
}

// FiltersEqual compares two filters structurally.
func FiltersEqual(a, b Filter) bool {
	return cmp.Equal(a, b, equalOpts)
}
