package dao

import (
	"context"
	"reflect"
	"slices"
	"strings"

	"github.com/a1s/ntable/internal/model1"
	"github.com/a1s/ntable/internal/params"
)

// SliceLoader pages the settings dataset in memory.
var SliceLoader = params.LoaderFunc(func(_ context.Context, sink *params.Sink, r params.Reader) {
	rows, total := Slice(r.SettingsData(), r)
	sink.Resolve(rows, total)
})

// Slice filters, sorts and pages rows for r. It returns the page and the
// filtered row count. rows is never modified. A count of zero or less
// returns every filtered row.
func Slice(rows []any, r params.Reader) ([]any, int) {
	filtered := Filter(rows, r.Filter())
	Sort(filtered, r.Sorting())

	total := len(filtered)
	page, count := r.Page(), r.Count()
	if count <= 0 {
		return filtered, total
	}
	start := (max(page, 1) - 1) * count
	if start >= total {
		return []any{}, total
	}

	return filtered[start:min(start+count, total)], total
}

// Filter returns the rows matching every filter entry.
// Nil and empty string values match everything. Nested maps
// match nested fields.
func Filter(rows []any, f params.Filter) []any {
	out := make([]any, 0, len(rows))
	for _, row := range rows {
		if matchAll(row, "", f) {
			out = append(out, row)
		}
	}

	return out
}

func matchAll(row any, prefix string, f map[string]any) bool {
	for k, want := range f {
		path := k
		if prefix != "" {
			path = prefix + "." + k
		}
		if nested, ok := want.(map[string]any); ok {
			if !matchAll(row, path, nested) {
				return false
			}
			continue
		}
		if !match(row, path, want) {
			return false
		}
	}

	return true
}

func match(row any, path string, want any) bool {
	if want == nil {
		return true
	}
	if s, ok := want.(string); ok {
		if s == "" {
			return true
		}
		v, ok := model1.FieldValue(row, path)
		if !ok || v == nil {
			return false
		}
		return strings.Contains(strings.ToLower(model1.ToString(v)), strings.ToLower(s))
	}

	v, ok := model1.FieldValue(row, path)
	if !ok {
		return false
	}
	if a, ok := model1.ToFloat(want); ok {
		if b, ok := model1.ToFloat(v); ok {
			return a == b
		}
	}

	return reflect.DeepEqual(v, want)
}

// Sort sorts rows in place by the ordered sorting keys. The sort is stable.
func Sort(rows []any, s params.Sorting) {
	if len(s) == 0 {
		return
	}
	slices.SortStableFunc(rows, func(a, b any) int {
		for _, e := range s {
			va, _ := model1.FieldValue(a, e.Column)
			vb, _ := model1.FieldValue(b, e.Column)
			c := 0
			switch {
			case model1.Less(va, vb):
				c = -1
			case model1.Less(vb, va):
				c = 1
			}
			if c == 0 {
				continue
			}
			if e.Dir == params.Desc {
				return -c
			}
			return c
		}
		return 0
	})
}
