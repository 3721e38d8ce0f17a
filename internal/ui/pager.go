// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of a1s

package ui

import (
	"fmt"
	"strings"

	"github.com/derailed/tcell/v2"
	"github.com/derailed/tview"

	"github.com/a1s/ntable/internal/params"
)

// Pager renders the pagination buttons and the page size choices.
type Pager struct {
	*tview.TextView

	maxBlocks int
}

// NewPager returns a pager showing at most maxBlocks page buttons.
func NewPager(maxBlocks int) *Pager {
	p := &Pager{
		TextView:  tview.NewTextView(),
		maxBlocks: maxBlocks,
	}
	p.SetDynamicColors(true)
	p.SetBackgroundColor(tcell.ColorDefault)
	p.SetTextAlign(tview.AlignCenter)

	return p
}

// Update redraws the pager from p.
func (p *Pager) Update(pp *params.Params) {
	p.SetText(FormatPager(pp.Pages(p.maxBlocks), pp.Count(), pp.Counts()))
}

// FormatPager renders buttons and the page size choices with tview color tags.
func FormatPager(buttons []params.PageButton, count int, counts []int) string {
	var sb strings.Builder
	for _, b := range buttons {
		label := ""
		switch b.Kind {
		case params.PagePrev:
			label = "«"
		case params.PageNext:
			label = "»"
		case params.PageMore:
			label = "…"
		default:
			label = fmt.Sprintf("%d", b.Number)
		}
		switch {
		case b.Current:
			fmt.Fprintf(&sb, "[black:aqua:b] %s [-:-:-]", label)
		case !b.Active:
			fmt.Fprintf(&sb, "[gray] %s [-]", label)
		default:
			fmt.Fprintf(&sb, " %s ", label)
		}
	}
	if len(counts) > 0 {
		if sb.Len() > 0 {
			sb.WriteString("  ")
		}
		for _, c := range counts {
			if c == count {
				fmt.Fprintf(&sb, "[black:aqua:b] %d [-:-:-]", c)
			} else {
				fmt.Fprintf(&sb, " %d ", c)
			}
		}
	}

	return sb.String()
}
