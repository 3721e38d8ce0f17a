package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/a1s/ntable/internal/column"
	"github.com/a1s/ntable/internal/config"
	"github.com/a1s/ntable/internal/config/data"
	"github.com/a1s/ntable/internal/model"
	"github.com/a1s/ntable/internal/params"
	"github.com/a1s/ntable/internal/testutil"
)

func testTable(p *config.Preset) *config.Table {
	return &config.Table{
		Binding: model.Binding{Params: "users", Columns: "cols"},
		Preset:  p,
		Columns: []column.Decl{
			{"field": "name", column.Title: "Name", column.Sortable: "name"},
			{"field": "age", column.Title: "Age"},
		},
	}
}

func TestBuildTableInline(t *testing.T) {
	tbl := testTable(&config.Preset{
		Count: 1,
		Data: []any{
			map[string]any{"id": "b", "name": "wilma", "age": 30},
			map[string]any{"id": "a", "name": "fred", "age": 31},
		},
		Sorting: params.Sorting{{Column: "name", Dir: params.Asc}},
	})

	ctrl, p, err := buildTable(t.Context(), config.NewNtable(), tbl, testutil.NewTestLogger(t))
	require.NoError(t, err)
	t.Cleanup(ctrl.Close)

	ctrl.SetColumns(tbl.Columns)
	ctrl.Bind(p)

	var out bytes.Buffer
	require.NoError(t, printPage(t.Context(), &out, ctrl, "table"))
	assert.Contains(t, out.String(), "fred")
	assert.NotContains(t, out.String(), "wilma")
	assert.Contains(t, out.String(), "(page 1/2, 1 rows, 2 total)")
}

func TestBuildTableFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "users.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
rows:
  - {name: fred, age: 31}
  - {name: wilma, age: 30}
  - {name: barney, age: 29}
`), 0o600))

	tbl := testTable(&config.Preset{Source: "file:" + path})
	ctrl, p, err := buildTable(t.Context(), config.NewNtable(), tbl, testutil.NewTestLogger(t))
	require.NoError(t, err)
	t.Cleanup(ctrl.Close)

	ctrl.SetColumns(tbl.Columns)
	ctrl.Bind(p)
	require.NoError(t, ctrl.Wait(t.Context()))
	assert.Equal(t, 3, p.Total())

	var out bytes.Buffer
	require.NoError(t, printPage(t.Context(), &out, ctrl, "csv"))
	assert.Contains(t, out.String(), "barney")
}

func TestBuildTableMissingFile(t *testing.T) {
	tbl := testTable(&config.Preset{Source: "file:" + filepath.Join(t.TempDir(), "nope.yaml")})
	_, _, err := buildTable(t.Context(), config.NewNtable(), tbl, testutil.NewTestLogger(t))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestNewLogger(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "ntable.log")

	l, closeFn, err := newLogger(data.Logger{Level: "debug", File: path})
	require.NoError(t, err)
	l.Debug("hello", "k", "v")
	closeFn()

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "msg=hello k=v")

	_, _, err = newLogger(data.Logger{Level: "loud", File: path})
	assert.Error(t, err)
}
