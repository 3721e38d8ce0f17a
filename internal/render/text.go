package render

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/a1s/ntable/internal/model1"
)

// Text output formats.
const (
	TextTable    = "table"
	TextCSV      = "csv"
	TextMarkdown = "markdown"
)

// WriteText writes a rendered page as text followed by a paging summary.
func WriteText(w io.Writer, td *model1.TableData, format string) error {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)

	h := td.Header()
	header := make(table.Row, len(h))
	for i, c := range h {
		header[i] = c.Label()
	}
	t.AppendHeader(header)

	td.RowEvents().Range(func(_ int, re model1.RowEvent) bool {
		row := make(table.Row, len(re.Row.Fields))
		for i, f := range re.Row.Fields {
			row[i] = f
		}
		t.AppendRow(row)
		return true
	})

	switch format {
	case TextCSV:
		t.RenderCSV()
		return nil
	case TextMarkdown:
		t.RenderMarkdown()
	case "", TextTable:
		t.Render()
	default:
		return fmt.Errorf("unknown text format %q", format)
	}

	page, pages, total := td.Paging()
	_, err := fmt.Fprintf(w, "(page %d/%d, %d rows, %d total)\n", page, pages, td.RowCount(), total)
	return err
}
