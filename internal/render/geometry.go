package render

// Fixed row geometry, in pixels.
const (
	RowHeight  = 30
	IconSize   = 22
	IconGap    = 10
	numberGap  = 20
	searchSize = 20
	rowSize    = 16
	numberSize = 14
)

// Window computes the pagination window over a filtered view of the given
// total length: when everything fits the window starts at 0, otherwise it
// is centered on the cursor and clamped so it never runs past either end.
// Returns the half-open visible range [start, end).
func Window(cursor, total, capacity int) (start, end int) {
	if capacity <= 0 {
		return 0, 0
	}
	if total <= capacity {
		return 0, total
	}

	start = cursor - capacity/2
	if start < 0 {
		start = 0
	}
	if start > total-capacity {
		start = total - capacity
	}
	return start, start + capacity
}
