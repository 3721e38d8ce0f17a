// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of a1s

package ui

import (
	"fmt"
	"sort"

	"github.com/derailed/tcell/v2"
	"github.com/derailed/tview"
)

const (
	menuFmt = " [yellow::b]<%s>[white::-] %s "
	maxRows = 2
)

// Menu presents the key hints of the table.
type Menu struct {
	*tview.Table
}

// NewMenu returns a new menu.
func NewMenu() *Menu {
	m := &Menu{
		Table: tview.NewTable(),
	}
	m.SetBackgroundColor(tcell.ColorDefault)
	m.SetBorderPadding(0, 0, 1, 1)

	return m
}

// HydrateMenu lays the visible hints out column by column.
func (m *Menu) HydrateMenu(hh MenuHints) {
	m.Clear()
	sort.Sort(hh)

	var row, col int
	for _, h := range hh {
		if !h.Visible || h.Mnemonic == "" || h.Description == "" {
			continue
		}
		c := tview.NewTableCell(fmt.Sprintf(menuFmt, h.Mnemonic, h.Description))
		c.SetBackgroundColor(tcell.ColorDefault)
		m.SetCell(row, col, c)
		row++
		if row >= maxRows {
			row, col = 0, col+1
		}
	}
}
