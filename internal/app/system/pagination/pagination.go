// Package pagination computes the page-number window shown under the
// file listing.
//
// The control shows at most five contiguous page numbers, keeping the
// current page centered where possible, with first/last shortcuts and
// an ellipsis next to each shortcut whenever the run is detached from
// that end of the range.
package pagination

// Window describes the pager for one listing page. All fields are
// derived from (current, total); the type carries no behavior beyond
// convenience accessors for templates.
type Window struct {
	Current int
	Total   int

	// Pages is the contiguous run of page numbers to render,
	// at most five entries.
	Pages []int

	// ShowFirst indicates a shortcut to page 1 before the run;
	// LeadingEllipsis accompanies it whenever the run does not start
	// at page 1, even when no page is actually elided.
	ShowFirst       bool
	LeadingEllipsis bool

	// ShowLast indicates a shortcut to the last page after the run;
	// TrailingEllipsis accompanies it whenever the run does not end at
	// the last page.
	ShowLast         bool
	TrailingEllipsis bool

	HasPrev bool
	HasNext bool
}

// New computes the window for the given current page and page count.
//
// The run of page numbers is:
//   - all pages when total <= 5
//   - [1..5] when current is within the first three pages
//   - [total-4..total] when current is within the last three pages
//   - [current-2..current+2] otherwise
//
// current is clamped into [1, total] first, so callers that already
// clamp get identical results.
func New(current, total int) Window {
	if total < 1 {
		total = 1
	}
	if current < 1 {
		current = 1
	}
	if current > total {
		current = total
	}

	var start, end int
	switch {
	case total <= 5:
		start, end = 1, total
	case current <= 3:
		start, end = 1, 5
	case current >= total-2:
		start, end = total-4, total
	default:
		start, end = current-2, current+2
	}

	pages := make([]int, 0, end-start+1)
	for p := start; p <= end; p++ {
		pages = append(pages, p)
	}

	return Window{
		Current:          current,
		Total:            total,
		Pages:            pages,
		ShowFirst:        start > 1,
		LeadingEllipsis:  start > 1,
		ShowLast:         end < total,
		TrailingEllipsis: end < total,
		HasPrev:          current > 1,
		HasNext:          current < total,
	}
}
