package model1

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/fvbommel/sortorder"
)

// FieldValue looks up a dot separated path in a row.
// Rows are maps keyed by string or structs, matched by exported field name or json tag.
func FieldValue(row any, path string) (any, bool) {
	if path == "" {
		return nil, false
	}
	cur := row
	for _, seg := range strings.Split(path, ".") {
		v, ok := field(cur, seg)
		if !ok {
			return nil, false
		}
		cur = v
	}
	return cur, true
}

func field(o any, name string) (any, bool) {
	switch m := o.(type) {
	case nil:
		return nil, false
	case map[string]any:
		v, ok := m[name]
		return v, ok
	case map[string]string:
		v, ok := m[name]
		return v, ok
	}

	rv := reflect.ValueOf(o)
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return nil, false
		}
		rv = rv.Elem()
	}
	switch rv.Kind() {
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return nil, false
		}
		v := rv.MapIndex(reflect.ValueOf(name).Convert(rv.Type().Key()))
		if !v.IsValid() {
			return nil, false
		}
		return v.Interface(), true
	case reflect.Struct:
		rt := rv.Type()
		for i := range rt.NumField() {
			f := rt.Field(i)
			if !f.IsExported() {
				continue
			}
			tag, _, _ := strings.Cut(f.Tag.Get("json"), ",")
			if tag == name || strings.EqualFold(f.Name, name) {
				return rv.Field(i).Interface(), true
			}
		}
	}

	return nil, false
}

// Less reports whether v1 sorts before v2.
// Numbers compare numerically, times chronologically and anything else
// in natural string order. Missing values sort first.
func Less(v1, v2 any) bool {
	if v1 == nil || v2 == nil {
		return v1 == nil && v2 != nil
	}
	if f1, ok := ToFloat(v1); ok {
		if f2, ok := ToFloat(v2); ok {
			return f1 < f2
		}
	}
	if t1, ok := v1.(time.Time); ok {
		if t2, ok := v2.(time.Time); ok {
			return t1.Before(t2)
		}
	}
	if b1, ok := v1.(bool); ok {
		if b2, ok := v2.(bool); ok {
			return !b1 && b2
		}
	}

	return sortorder.NaturalLess(ToString(v1), ToString(v2))
}

// ToFloat converts numeric values to float64.
func ToFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	}

	return 0, false
}

// ToString renders a cell value as plain text.
func ToString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case time.Time:
		return t.Format(time.RFC3339)
	case fmt.Stringer:
		return t.String()
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	}

	return fmt.Sprint(v)
}
