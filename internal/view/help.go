// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of a1s

package view

import (
	"sort"

	"github.com/derailed/tcell/v2"
	"github.com/derailed/tview"

	"github.com/a1s/ntable/internal/ui"
)

// HelpBind represents a single keybinding.
type HelpBind struct {
	Key  string
	Desc string
}

// navigationBinds are the fixed cursor keys of the table.
var navigationBinds = []HelpBind{
	{"<j>", "Down"},
	{"<k>", "Up"},
	{"<h>", "Left"},
	{"<l>", "Right"},
}

var promptBinds = []HelpBind{
	{"<enter>", "Keep Filter"},
	{"<esc>", "Clear Filter"},
	{"<bksp>", "Delete"},
}

// Help displays a full-screen help view with the table keybindings.
type Help struct {
	*tview.Table
	closeFn func()
}

// NewHelp creates a new help view listing hh.
func NewHelp(hh ui.MenuHints) *Help {
	h := &Help{
		Table: tview.NewTable(),
	}
	h.build(hh)
	return h
}

// SetCloseFn sets the callback when help is closed.
func (h *Help) SetCloseFn(fn func()) {
	h.closeFn = fn
}

func (h *Help) build(hh ui.MenuHints) {
	h.SetBorder(true)
	h.SetTitle(" Help ")
	h.SetTitleAlign(tview.AlignCenter)
	h.SetBorderColor(tcell.ColorYellow)
	h.SetBackgroundColor(tcell.ColorDefault)
	h.SetSelectable(false, false)

	h.populate(hh)

	h.SetInputCapture(func(evt *tcell.EventKey) *tcell.EventKey {
		switch {
		case evt.Key() == tcell.KeyEsc, evt.Key() == tcell.KeyEnter,
			evt.Rune() == '?', evt.Rune() == 'q':
			if h.closeFn != nil {
				h.closeFn()
			}
			return nil
		}
		return evt
	})
}

// actionBinds converts the visible hints into help rows.
func actionBinds(hh ui.MenuHints) []HelpBind {
	hh = append(ui.MenuHints(nil), hh...)
	sort.Sort(hh)

	bb := make([]HelpBind, 0, len(hh))
	for _, h := range hh {
		if !h.Visible || h.Mnemonic == "" {
			continue
		}
		bb = append(bb, HelpBind{Key: "<" + h.Mnemonic + ">", Desc: h.Description})
	}
	return bb
}

// populate lays the bindings out in k9s style, one key/desc pair per column group.
func (h *Help) populate(hh ui.MenuHints) {
	columns := [][]HelpBind{actionBinds(hh), navigationBinds, promptBinds}
	headers := []string{"TABLE", "NAVIGATION", "FILTER"}

	maxRows := 0
	for _, col := range columns {
		maxRows = max(maxRows, len(col))
	}

	// key, desc and a spacer per group
	const colWidth = 3
	for colIdx, col := range columns {
		baseCol := colIdx * colWidth

		h.SetCell(0, baseCol, tview.NewTableCell(headers[colIdx]).
			SetTextColor(tcell.ColorAqua).
			SetAttributes(tcell.AttrBold).
			SetSelectable(false))

		for rowIdx, bind := range col {
			row := rowIdx + 1
			h.SetCell(row, baseCol, tview.NewTableCell(bind.Key).
				SetTextColor(tcell.ColorYellow).
				SetSelectable(false))
			h.SetCell(row, baseCol+1, tview.NewTableCell(bind.Desc).
				SetTextColor(tcell.ColorWhite).
				SetSelectable(false).
				SetExpansion(1))
		}

		if colIdx < len(columns)-1 {
			for row := 0; row <= maxRows; row++ {
				h.SetCell(row, baseCol+2, tview.NewTableCell("").
					SetSelectable(false).
					SetExpansion(1))
			}
		}
	}

	h.SetCell(maxRows+2, 0, tview.NewTableCell("<esc> to close").
		SetTextColor(tcell.ColorGray).
		SetSelectable(false))
}
