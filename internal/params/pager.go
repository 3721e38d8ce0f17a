package params

// PageKind is the type of a pager button.
type PageKind string

const (
	PagePrev  PageKind = "prev"
	PageFirst PageKind = "first"
	PageItem  PageKind = "page"
	PageMore  PageKind = "more"
	PageLast  PageKind = "last"
	PageNext  PageKind = "next"
)

// PageButton is one entry of a pager.
type PageButton struct {
	Kind    PageKind
	Number  int
	Active  bool
	Current bool
}

// DefaultMaxBlocks is the pager width used when none is given.
const DefaultMaxBlocks = 11

// PageCount returns the number of pages for the current total and count.
// An unlimited count yields a single page.
func (p *Params) PageCount() int {
	return pageCount(p.Total(), p.Count())
}

func pageCount(total, count int) int {
	if count <= 0 {
		return 1
	}
	return max((total+count-1)/count, 1)
}

// Pages returns the pager buttons for the current page.
func (p *Params) Pages(maxBlocks int) []PageButton {
	return GeneratePages(p.Page(), p.Total(), p.Count(), maxBlocks)
}

// GeneratePages lays out at most maxBlocks page buttons (plus prev and next)
// around current. Gaps are shown as PageMore. No buttons are returned for a single page.
func GeneratePages(current, total, count, maxBlocks int) []PageButton {
	if maxBlocks <= 0 {
		maxBlocks = DefaultMaxBlocks
	}
	maxBlocks = max(maxBlocks, 6)
	if count <= 0 {
		return nil
	}
	numPages := pageCount(total, count)
	if numPages <= 1 {
		return nil
	}

	pages := make([]PageButton, 0, maxBlocks+2)
	pages = append(pages,
		PageButton{Kind: PagePrev, Number: max(1, current-1), Active: current > 1},
		PageButton{Kind: PageFirst, Number: 1, Active: current > 1, Current: current == 1},
	)

	pivot := (maxBlocks - 5 + 1) / 2
	minPage := max(2, current-pivot)
	maxPage := min(numPages-1, current+pivot*2-(current-minPage))
	minPage = max(2, minPage-(pivot*2-(maxPage-minPage)))

	for i := minPage; i <= maxPage; i++ {
		if (i == minPage && i != 2) || (i == maxPage && i != numPages-1) {
			pages = append(pages, PageButton{Kind: PageMore})
			continue
		}
		pages = append(pages, PageButton{Kind: PageItem, Number: i, Active: current != i, Current: current == i})
	}

	pages = append(pages,
		PageButton{Kind: PageLast, Number: numPages, Active: current != numPages, Current: current == numPages},
		PageButton{Kind: PageNext, Number: min(numPages, current+1), Active: current < numPages},
	)
	return pages
}
