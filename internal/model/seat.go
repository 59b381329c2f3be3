package model

// Seat describes a single position in a venue's seating grid.  Seats are
// never stored on their own; they always travel as part of a selection
// or a booking.
//
// Fields:
//  Row – 0-based array row.  Row 0 is printed directly under the screen
//        and row Rows()-1 carries the label "A".
//  Col – 0-based column; the human-facing seat number is Col+1.
type Seat struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// Cell is the occupancy marker of one grid position.
type Cell uint8

const (
	Free     Cell = iota // seat can be booked
	Occupied             // seat belongs to a confirmed booking
)

// String returns the chart symbol used for the cell.
func (c Cell) String() string {
	if c == Occupied {
		return "#"
	}
	return "."
}

// SeatSet builds a lookup set from a seat list.  Duplicate seats collapse
// into one entry, so len(SeatSet(s)) < len(s) reveals duplicates.
func SeatSet(seats []Seat) map[Seat]struct{} {
	set := make(map[Seat]struct{}, len(seats))
	for _, s := range seats {
		set[s] = struct{}{}
	}
	return set
}
