// Package ledger keeps the booking records of one venue.  A Ledger owns
// the venue's seat grid, the map from booking identifier to seats and the
// pool of booking numbers, and it is the only code allowed to change seat
// state.  It is not safe for concurrent use; callers that share a Ledger
// across goroutines must serialize every call (see service.Venue).
package ledger

import (
	"sort"

	"github.com/iliyamo/cinema-seat-booking/internal/model"
)

// Ledger tracks confirmed bookings and the seats they hold.
type Ledger struct {
	grid     *model.SeatGrid
	bookings map[model.BookingID][]model.Seat
	numbers  *numberPool

	// mark sets one cell; the grid's Set outside tests.
	mark func(model.Seat, model.Cell) error
}

// New returns an empty ledger over a fresh rows x seatsPerRow grid.
func New(rows, seatsPerRow int) (*Ledger, error) {
	g, err := model.NewSeatGrid(rows, seatsPerRow)
	if err != nil {
		return nil, err
	}
	return &Ledger{
		grid:     g,
		bookings: make(map[model.BookingID][]model.Seat),
		numbers:  newNumberPool(),
		mark:     g.Set,
	}, nil
}

// Grid exposes the seat grid read-only, for allocation previews.
func (l *Ledger) Grid() model.GridView { return l.grid }

// Snapshot copies the current seat grid.
func (l *Ledger) Snapshot() *model.SeatGrid { return l.grid.Clone() }

// Available is the number of free seats.
func (l *Ledger) Available() int { return l.grid.FreeCount() }

// NextIdentifier reserves and returns the smallest booking number not in
// use.  The number stays reserved until the booking is cancelled or the
// identifier is handed back with Release; abandoning a booking attempt
// without Release keeps it out of circulation.
func (l *Ledger) NextIdentifier() model.BookingID {
	return model.FormatBookingID(l.numbers.take())
}

// Release returns an identifier that was reserved with NextIdentifier but
// never confirmed.  It reports false for unknown or confirmed identifiers.
func (l *Ledger) Release(id model.BookingID) bool {
	n, err := model.ParseBookingID(string(id))
	if err != nil {
		return false
	}
	if _, booked := l.bookings[model.FormatBookingID(n)]; booked {
		return false
	}
	return l.numbers.release(n)
}

// Confirm books seats under id.  The whole selection is checked before any
// cell changes: an empty selection, a seat outside the grid, a seat that
// is already occupied or listed twice all fail without side effects.
// Should marking a seat fail midway, the seats marked by this call are
// freed again before the error is returned.
func (l *Ledger) Confirm(seats []model.Seat, id model.BookingID) (model.BookingID, error) {
	if len(seats) == 0 {
		return "", &model.Error{Kind: model.KindEmptySelection, Msg: "no seats to book"}
	}
	n, err := model.ParseBookingID(string(id))
	if err != nil {
		return "", err
	}
	id = model.FormatBookingID(n)
	if _, exists := l.bookings[id]; exists {
		return "", &model.Error{Kind: model.KindIdentifierTaken, Msg: "booking " + string(id) + " is already confirmed"}
	}
	if err := l.validate(seats); err != nil {
		return "", err
	}

	for i, s := range seats {
		if err := l.mark(s, model.Occupied); err != nil {
			_ = l.grid.Free(seats[:i])
			return "", err
		}
	}
	l.bookings[id] = append([]model.Seat(nil), seats...)
	if !l.numbers.used(n) {
		l.numbers.claim(n)
	}
	return id, nil
}

func (l *Ledger) validate(seats []model.Seat) error {
	for _, s := range seats {
		if !l.grid.InBounds(s.Row, s.Col) {
			return model.OutOfRange(s.Row, s.Col)
		}
	}
	seen := make(map[model.Seat]struct{}, len(seats))
	for _, s := range seats {
		free, _ := l.grid.IsFree(s.Row, s.Col)
		if _, dup := seen[s]; dup || !free {
			return model.SeatConflict(s)
		}
		seen[s] = struct{}{}
	}
	return nil
}

// Cancel frees the seats of a live booking and returns its number to the
// pool.  Unknown identifiers are a no-op that reports false.
func (l *Ledger) Cancel(id model.BookingID) bool {
	id = id.Normalize()
	seats, ok := l.bookings[id]
	if !ok {
		return false
	}
	_ = l.grid.Free(seats)
	delete(l.bookings, id)
	if n, err := model.ParseBookingID(string(id)); err == nil {
		l.numbers.release(n)
	}
	return true
}

// Lookup returns a copy of the seats held by id.
func (l *Ledger) Lookup(id model.BookingID) ([]model.Seat, error) {
	id = id.Normalize()
	seats, ok := l.bookings[id]
	if !ok {
		return nil, model.NotFound(id)
	}
	return append([]model.Seat(nil), seats...), nil
}

// Bookings lists live bookings ordered by identifier.
func (l *Ledger) Bookings() []model.Booking {
	out := make([]model.Booking, 0, len(l.bookings))
	for id, seats := range l.bookings {
		out = append(out, model.Booking{ID: id, Seats: append([]model.Seat(nil), seats...)})
	}
	sort.Slice(out, func(i, j int) bool {
		a, _ := model.ParseBookingID(string(out[i].ID))
		b, _ := model.ParseBookingID(string(out[j].ID))
		return a < b
	})
	return out
}
