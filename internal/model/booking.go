package model

import (
	"fmt"
	"strconv"
	"strings"
)

// BookingIDPrefix is the fixed tag in front of every booking number.
const BookingIDPrefix = "GIC"

// BookingID is a formatted booking identifier such as GIC0001.
type BookingID string

// FormatBookingID renders n as a tagged, zero-padded identifier.
func FormatBookingID(n int) BookingID {
	return BookingID(fmt.Sprintf("%s%04d", BookingIDPrefix, n))
}

// ParseBookingID extracts the booking number.  Input is trimmed and
// upper-cased first so "gic0001 " is accepted.
func ParseBookingID(raw string) (int, error) {
	s := strings.ToUpper(strings.TrimSpace(raw))
	digits, ok := strings.CutPrefix(s, BookingIDPrefix)
	if !ok || len(digits) < 4 {
		return 0, &Error{Kind: KindInvalidIdentifier, Msg: fmt.Sprintf("invalid booking id %q", raw)}
	}
	n, err := strconv.Atoi(digits)
	if err != nil || n <= 0 {
		return 0, &Error{Kind: KindInvalidIdentifier, Msg: fmt.Sprintf("invalid booking id %q", raw)}
	}
	return n, nil
}

// Normalize returns the canonical form of a user-typed identifier, or the
// input unchanged when it does not parse.
func (id BookingID) Normalize() BookingID {
	n, err := ParseBookingID(string(id))
	if err != nil {
		return id
	}
	return FormatBookingID(n)
}

// Booking is a confirmed, non-empty set of seats under one identifier.
//
// Fields:
//  ID    – identifier handed out by the ledger.
//  Seats – seats in the order they were confirmed.
type Booking struct {
	ID    BookingID `json:"booking_id"`
	Seats []Seat    `json:"seats"`
}
