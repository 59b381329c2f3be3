package model

// MaxRows is the number of row letters available (A-Z).
const MaxRows = 26

// MaxSeatsPerRow bounds the row width.
const MaxSeatsPerRow = 500

// GridView is the read-only surface of a seating grid.  Allocation works
// against this interface so previews can never change seat state.
type GridView interface {
	Rows() int
	SeatsPerRow() int
	Capacity() int
	IsFree(row, col int) (bool, error)
}

// SeatGrid owns the rows x seatsPerRow occupancy matrix of one venue.  It
// holds no policy: Set, Occupy and Free only check bounds, and whether a
// seat may be taken is decided by the booking ledger.
type SeatGrid struct {
	rows        int
	seatsPerRow int
	cells       [][]Cell
}

// NewSeatGrid returns a grid with every cell Free.
func NewSeatGrid(rows, seatsPerRow int) (*SeatGrid, error) {
	if rows <= 0 || rows > MaxRows || seatsPerRow <= 0 || seatsPerRow > MaxSeatsPerRow {
		return nil, ErrInvalidDimensions
	}
	cells := make([][]Cell, rows)
	for r := range cells {
		cells[r] = make([]Cell, seatsPerRow)
	}
	return &SeatGrid{rows: rows, seatsPerRow: seatsPerRow, cells: cells}, nil
}

func (g *SeatGrid) Rows() int        { return g.rows }
func (g *SeatGrid) SeatsPerRow() int { return g.seatsPerRow }

// Capacity is the total number of seats in the grid.
func (g *SeatGrid) Capacity() int { return g.rows * g.seatsPerRow }

// InBounds reports whether (row, col) addresses a seat of this grid.
func (g *SeatGrid) InBounds(row, col int) bool {
	return row >= 0 && row < g.rows && col >= 0 && col < g.seatsPerRow
}

// IsFree reports whether the seat at (row, col) is Free.
func (g *SeatGrid) IsFree(row, col int) (bool, error) {
	if !g.InBounds(row, col) {
		return false, OutOfRange(row, col)
	}
	return g.cells[row][col] == Free, nil
}

// Cell returns the marker at (row, col).
func (g *SeatGrid) Cell(row, col int) (Cell, error) {
	if !g.InBounds(row, col) {
		return Free, OutOfRange(row, col)
	}
	return g.cells[row][col], nil
}

// Set writes one cell.
func (g *SeatGrid) Set(s Seat, c Cell) error {
	if !g.InBounds(s.Row, s.Col) {
		return OutOfRange(s.Row, s.Col)
	}
	g.cells[s.Row][s.Col] = c
	return nil
}

// Occupy marks every seat Occupied.  It stops at the first seat outside
// the grid; seats before it stay marked.
func (g *SeatGrid) Occupy(seats []Seat) error {
	return g.fill(seats, Occupied)
}

// Free marks every seat Free.  Same stopping rule as Occupy.
func (g *SeatGrid) Free(seats []Seat) error {
	return g.fill(seats, Free)
}

func (g *SeatGrid) fill(seats []Seat, c Cell) error {
	for _, s := range seats {
		if err := g.Set(s, c); err != nil {
			return err
		}
	}
	return nil
}

// OccupiedCount counts Occupied cells.
func (g *SeatGrid) OccupiedCount() int {
	n := 0
	for _, row := range g.cells {
		for _, c := range row {
			if c == Occupied {
				n++
			}
		}
	}
	return n
}

// FreeCount counts Free cells.
func (g *SeatGrid) FreeCount() int { return g.Capacity() - g.OccupiedCount() }

// Clone returns an independent copy, used to hand out snapshots.
func (g *SeatGrid) Clone() *SeatGrid {
	cp := &SeatGrid{rows: g.rows, seatsPerRow: g.seatsPerRow, cells: make([][]Cell, g.rows)}
	for r := range g.cells {
		cp.cells[r] = append([]Cell(nil), g.cells[r]...)
	}
	return cp
}
