// Package allocation chooses seats for a booking request.  Both entry
// points are pure: they read a model.GridView and return a proposed seat
// list without touching seat state, so a front end can preview as often
// as it likes before anything is confirmed.
package allocation

import "github.com/iliyamo/cinema-seat-booking/internal/model"

// DefaultSeats proposes count seats starting from the back row (array
// index Rows()-1) and moving toward the screen.  Within each row seats are
// taken center-outward, see centerOut.  Rows without free seats are
// skipped.
func DefaultSeats(g model.GridView, count int) ([]model.Seat, error) {
	if count <= 0 || count > g.Capacity() {
		return nil, model.InvalidCount(count, g.Capacity())
	}
	selected := make([]model.Seat, 0, count)
	for row := g.Rows() - 1; row >= 0 && len(selected) < count; row-- {
		selected = takeCenterOut(g, row, count, selected)
	}
	if len(selected) < count {
		return nil, model.InsufficientSeats(len(selected), count)
	}
	return selected, nil
}

// CustomSeats proposes count seats anchored at (startRow, startCol).  The
// start row is scanned left to right from startCol; any remainder
// overflows into rows startRow-1 down to 0, each filled center-outward.
// Rows with an index above startRow are never considered, even when they
// have free seats.
func CustomSeats(g model.GridView, count, startRow, startCol int) ([]model.Seat, error) {
	if count <= 0 || count > g.Capacity() {
		return nil, model.InvalidCount(count, g.Capacity())
	}
	if startRow < 0 || startRow >= g.Rows() || startCol < 0 || startCol >= g.SeatsPerRow() {
		return nil, model.OutOfRange(startRow, startCol)
	}

	selected := make([]model.Seat, 0, count)
	for col := startCol; col < g.SeatsPerRow() && len(selected) < count; col++ {
		if isFree(g, startRow, col) {
			selected = append(selected, model.Seat{Row: startRow, Col: col})
		}
	}
	for row := startRow - 1; row >= 0 && len(selected) < count; row-- {
		selected = takeCenterOut(g, row, count, selected)
	}
	if len(selected) < count {
		return nil, model.InsufficientSeats(len(selected), count)
	}
	return selected, nil
}

// takeCenterOut appends free seats of row to selected, in centerOut order,
// until selected holds count seats or the row runs out.
func takeCenterOut(g model.GridView, row, count int, selected []model.Seat) []model.Seat {
	for _, col := range centerOut(g, row) {
		if len(selected) == count {
			break
		}
		selected = append(selected, model.Seat{Row: row, Col: col})
	}
	return selected
}

// centerOut lists the free columns of row ordered from the middle seat
// outward: mid, mid+1, mid-1, mid+2, mid-2, ...  mid is (n-1)/2, so even
// widths lean to the left-of-center seat.
func centerOut(g model.GridView, row int) []int {
	n := g.SeatsPerRow()
	mid := (n - 1) / 2
	cols := make([]int, 0, n)
	if isFree(g, row, mid) {
		cols = append(cols, mid)
	}
	for off := 1; mid+off < n || mid-off >= 0; off++ {
		if right := mid + off; right < n && isFree(g, row, right) {
			cols = append(cols, right)
		}
		if left := mid - off; left >= 0 && isFree(g, row, left) {
			cols = append(cols, left)
		}
	}
	return cols
}

func isFree(g model.GridView, row, col int) bool {
	free, err := g.IsFree(row, col)
	return err == nil && free
}
