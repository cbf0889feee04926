package sheetfix

// WindowParams describes a scroll viewport over fixed-height rows
type WindowParams struct {
	TotalRows      int
	RowHeight      int
	ViewportHeight int
	ScrollOffset   int
	Overscan       int
}

// Window is the half-open row range [Start, End) to materialize, plus the
// geometry a scroll container needs to report the full extent.
type Window struct {
	Start        int
	End          int
	First        int // first row intersecting the viewport
	Last         int // one past the last row intersecting the viewport
	RowHeight    int
	TotalHeight  int // height of all rows
	ScrollOffset int // offset after clamping
}

// ComputeWindow returns the rows intersecting the viewport padded by
// overscan on both sides. It runs in constant time; the size of the result
// never exceeds ceil(viewport/rowHeight) + 1 + 2*overscan.
func ComputeWindow(p WindowParams) Window {
	rowHeight := max(p.RowHeight, 1)
	total := max(p.TotalRows, 0)
	viewport := max(p.ViewportHeight, 0)
	overscan := max(p.Overscan, 0)

	totalHeight := total * rowHeight
	maxScroll := max(totalHeight-viewport, 0)
	scroll := min(max(p.ScrollOffset, 0), maxScroll)

	first := scroll / rowHeight
	last := (scroll + viewport + rowHeight - 1) / rowHeight

	first, last = min(first, total), min(last, total)
	start := max(first-overscan, 0)
	end := min(last+overscan, total)
	if start > end {
		start = end
	}

	return Window{
		Start:        start,
		End:          end,
		First:        first,
		Last:         last,
		RowHeight:    rowHeight,
		TotalHeight:  totalHeight,
		ScrollOffset: scroll,
	}
}

// Len returns the number of materialized rows
func (w Window) Len() int {
	return w.End - w.Start
}

// Contains reports whether row i is materialized
func (w Window) Contains(i int) bool {
	return i >= w.Start && i < w.End
}

// RowOffset returns the absolute offset of row i from the top of the content
func (w Window) RowOffset(i int) int {
	return i * w.RowHeight
}

// PaddingTop is the space above the first materialized row
func (w Window) PaddingTop() int {
	return w.Start * w.RowHeight
}

// PaddingBottom is the space below the last materialized row
func (w Window) PaddingBottom() int {
	return w.TotalHeight - w.End*w.RowHeight
}

// ScrollToRow returns the smallest change to current that brings row fully
// into a viewport of the given height.
func ScrollToRow(row, rowHeight, viewportHeight, current int) int {
	rowHeight = max(rowHeight, 1)
	top := row * rowHeight
	bottom := top + rowHeight

	if top < current {
		return top
	}
	if bottom > current+viewportHeight {
		return max(bottom-viewportHeight, 0)
	}
	return current
}
