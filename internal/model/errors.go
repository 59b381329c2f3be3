// Package model defines the seating grid, seats, bookings and the error
// kinds shared by the allocation engine and the booking ledger.  Every
// engine failure is a *Error carrying a Kind, so callers can branch with
// errors.Is against the sentinel values below (ErrSeatConflict, ...) and
// recover details such as the number of seats found with errors.As.
package model

import (
	"errors"
	"fmt"
)

// Kind discriminates engine failures.
type Kind int

const (
	KindInvalidCount Kind = iota + 1
	KindOutOfRange
	KindInsufficientSeats
	KindEmptySelection
	KindSeatConflict
	KindNotFound
	KindInvalidIdentifier
	KindIdentifierTaken
)

var kindNames = map[Kind]string{
	KindInvalidCount:      "invalid seat count",
	KindOutOfRange:        "seat position out of range",
	KindInsufficientSeats: "insufficient seats",
	KindEmptySelection:    "no seats to book",
	KindSeatConflict:      "seat already occupied",
	KindNotFound:          "booking not found",
	KindInvalidIdentifier: "invalid booking id",
	KindIdentifierTaken:   "booking id already confirmed",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Error is the single error type returned by the engine.
//
// Fields:
//  Kind      – failure discriminator.
//  Found     – seats actually located (KindInsufficientSeats only).
//  Requested – seats asked for (KindInsufficientSeats, KindInvalidCount).
//  Seat      – offending seat (KindOutOfRange, KindSeatConflict), nil otherwise.
//  Msg       – human readable detail; empty on the sentinel values.
type Error struct {
	Kind      Kind
	Found     int
	Requested int
	Seat      *Seat
	Msg       string
}

func (e *Error) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	return e.Kind.String()
}

// Is matches any *Error of the same Kind, which lets the sentinels below
// stand in for every error of their kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

// Sentinels for errors.Is.  They are compared by Kind only.
var (
	ErrInvalidCount      = &Error{Kind: KindInvalidCount}
	ErrOutOfRange        = &Error{Kind: KindOutOfRange}
	ErrInsufficientSeats = &Error{Kind: KindInsufficientSeats}
	ErrEmptySelection    = &Error{Kind: KindEmptySelection}
	ErrSeatConflict      = &Error{Kind: KindSeatConflict}
	ErrNotFound          = &Error{Kind: KindNotFound}
	ErrInvalidIdentifier = &Error{Kind: KindInvalidIdentifier}
	ErrIdentifierTaken   = &Error{Kind: KindIdentifierTaken}
)

// ErrInvalidDimensions is returned when a grid is created with a row
// count outside 1..MaxRows or a row width outside 1..MaxSeatsPerRow.
var ErrInvalidDimensions = errors.New("invalid venue dimensions")

// KindOf reports the Kind of an engine error, or 0 when err is not one.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

// InvalidCount reports a non-positive request or one above capacity.
func InvalidCount(requested, capacity int) *Error {
	msg := "number of seats must be positive"
	if requested > 0 {
		msg = fmt.Sprintf("cannot book %d seats, maximum capacity is %d", requested, capacity)
	}
	return &Error{Kind: KindInvalidCount, Requested: requested, Msg: msg}
}

// OutOfRange reports a row or column outside the grid.
func OutOfRange(row, col int) *Error {
	s := Seat{Row: row, Col: col}
	return &Error{Kind: KindOutOfRange, Seat: &s, Msg: fmt.Sprintf("invalid seat position: (%d, %d)", row, col)}
}

// InsufficientSeats reports that only found of requested seats exist.
func InsufficientSeats(found, requested int) *Error {
	return &Error{
		Kind:      KindInsufficientSeats,
		Found:     found,
		Requested: requested,
		Msg:       fmt.Sprintf("only %d seats available, but %d requested", found, requested),
	}
}

// SeatConflict reports a seat that is already booked or listed twice.
func SeatConflict(s Seat) *Error {
	return &Error{Kind: KindSeatConflict, Seat: &s, Msg: fmt.Sprintf("seat (%d, %d) is already occupied", s.Row, s.Col)}
}

// NotFound reports an identifier without a live booking.
func NotFound(id BookingID) *Error {
	return &Error{Kind: KindNotFound, Msg: fmt.Sprintf("booking %s not found", id)}
}
