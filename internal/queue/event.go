// Package queue defines message payloads exchanged over the message broker.
package queue

import "time"

// Queue names.  Each event type has its own durable queue.
const (
	BookingConfirmedQueue = "booking.confirmed"
	BookingCancelledQueue = "booking.cancelled"
)

// BookingEvent is published after a booking is confirmed or cancelled.
// It carries enough information for downstream consumers to log or
// notify without asking the venue for anything.
type BookingEvent struct {
	EventID    string   `json:"event_id"`
	Type       string   `json:"type"` // one of the queue names above
	VenueID    string   `json:"venue_id"`
	VenueTitle string   `json:"venue_title"`
	BookingID  string   `json:"booking_id"`
	SeatLabels []string `json:"seats"`
	Available  int      `json:"available"`
	OccurredAt string   `json:"occurred_at"`
}

// Timestamp formats t the way OccurredAt expects it.
func Timestamp(t time.Time) string { return t.UTC().Format(time.RFC3339) }
