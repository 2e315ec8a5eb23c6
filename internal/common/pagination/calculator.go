package pagination

// CalculateOffset calculates the index of the first item on a 1-based page.
//
// Formula: offset = (page - 1) * pageSize
//
// Examples:
//   - Page 1, PageSize 20 -> Offset 0
//   - Page 2, PageSize 20 -> Offset 20
//   - Page 3, PageSize 10 -> Offset 20
func CalculateOffset(page, pageSize int) int {
	return (page - 1) * pageSize
}

// CalculateTotalPages calculates the number of pages needed for total items.
// Always at least 1.
func CalculateTotalPages(total, pageSize int) int {
	if total <= 0 || pageSize <= 0 {
		return 1
	}
	return (total + pageSize - 1) / pageSize
}

// Window is the slice of a result set that one page covers.
type Window struct {
	Start   int
	End     int
	HasMore bool
}

// CalculateWindow returns the [Start, End) bounds of params' page within total items,
// clamped to the available range. HasMore is true when the unclamped end of the
// page lies before total.
// Pages past the end saturate to an empty window at total, so huge page numbers
// never overflow the offset.
func CalculateWindow(params Params, total int) Window {
	if total < 0 {
		total = 0
	}
	if params.Page < 1 || params.PageSize < 1 || params.Page-1 > total/params.PageSize {
		return Window{Start: total, End: total}
	}
	start := CalculateOffset(params.Page, params.PageSize)
	end := start + params.PageSize
	w := Window{Start: start, End: end, HasMore: end < total}
	if w.Start > total {
		w.Start = total
	}
	if w.End > total {
		w.End = total
	}
	return w
}

// Slice returns the items of page params from items.
func Slice[T any](items []T, params Params) ([]T, Window) {
	w := CalculateWindow(params, len(items))
	page := make([]T, w.End-w.Start)
	copy(page, items[w.Start:w.End])
	return page, w
}
