package render

import (
	"strings"

	"github.com/derailed/tcell/v2"

	"github.com/a1s/ntable/internal/column"
	"github.com/a1s/ntable/internal/model1"
)

// S3Objects names the built-in column set for s3 listings.
const S3Objects = "s3Objects"

// BuiltinColumns returns a built-in column set by name.
func BuiltinColumns(name string) ([]column.Decl, bool) {
	switch name {
	case S3Objects:
		return S3ObjectColumns(), true
	default:
		return nil, false
	}
}

// S3ObjectColumns returns the columns of an s3 object listing.
func S3ObjectColumns() []column.Decl {
	return []column.Decl{
		{
			"field":         "key",
			column.Title:    "Name",
			column.Sortable: "key",
			column.Filter:   map[string]any{"key": "text"},
			"value": func(row any) any {
				v, _ := model1.FieldValue(row, "key")
				return ObjectName(model1.ToString(v))
			},
		},
		{"field": "size", column.Title: "Size", column.Sortable: "size", "format": FormatSize},
		{"field": "storageClass", column.Title: "Storage Class", column.Sortable: "storageClass", column.Filter: true},
		{"field": "lastModified", column.Title: "Last Modified", column.Sortable: "lastModified", "format": FormatAge},
	}
}

// S3ObjectColorer marks archived objects, otherwise rows color by change.
func S3ObjectColorer(h model1.Header, re model1.RowEvent) tcell.Color {
	idx, ok := h.IndexOf("storageClass")
	if ok && idx < len(re.Row.Fields) {
		switch re.Row.Fields[idx] {
		case "GLACIER", "DEEP_ARCHIVE", "GLACIER_IR":
			return model1.PendingColor
		}
	}

	return model1.DefaultColorer(h, re)
}

// ObjectName returns the last segment of an object key. Folder keys keep
// their trailing slash.
func ObjectName(key string) string {
	trimmed := strings.TrimSuffix(key, "/")
	if i := strings.LastIndex(trimmed, "/"); i >= 0 {
		return key[i+1:]
	}
	return key
}
