package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/iliyamo/cinema-seat-booking/internal/allocation"
	"github.com/iliyamo/cinema-seat-booking/internal/chart"
	"github.com/iliyamo/cinema-seat-booking/internal/ledger"
	"github.com/iliyamo/cinema-seat-booking/internal/model"
	q "github.com/iliyamo/cinema-seat-booking/internal/queue"
	"github.com/iliyamo/cinema-seat-booking/internal/utils"
)

// Venue is one screening with its seat map and bookings.  All methods are
// safe for concurrent use: each call holds the venue mutex for its whole
// check-then-act sequence.
type Venue struct {
	mu       sync.Mutex
	id       string
	title    string
	ledger   *ledger.Ledger
	revision uint64

	publisher      EventPublisher
	publishTimeout time.Duration
	log            *zap.Logger
	now            func() time.Time
}

// DefaultPublishTimeout bounds one booking event publish.
const DefaultPublishTimeout = 2 * time.Second

// Option configures a Venue.
type Option func(*Venue)

// WithID overrides the generated venue ID.
func WithID(id string) Option { return func(v *Venue) { v.id = id } }

// WithPublisher sets where booking events go.
func WithPublisher(p EventPublisher) Option {
	return func(v *Venue) {
		if p != nil {
			v.publisher = p
		}
	}
}

// WithLogger sets the venue logger.
func WithLogger(l *zap.Logger) Option {
	return func(v *Venue) {
		if l != nil {
			v.log = l
		}
	}
}

// WithPublishTimeout bounds each event publish; non-positive values keep
// DefaultPublishTimeout.
func WithPublishTimeout(d time.Duration) Option {
	return func(v *Venue) {
		if d > 0 {
			v.publishTimeout = d
		}
	}
}

// WithClock replaces time.Now for event timestamps.
func WithClock(now func() time.Time) Option { return func(v *Venue) { v.now = now } }

// NewVenue creates a venue with an empty rows x seatsPerRow seat map.
func NewVenue(title string, rows, seatsPerRow int, opts ...Option) (*Venue, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, ErrInvalidTitle
	}
	l, err := ledger.New(rows, seatsPerRow)
	if err != nil {
		return nil, err
	}
	v := &Venue{
		id:        uuid.NewString(),
		title:     title,
		ledger:    l,
		publisher:      NopPublisher{},
		publishTimeout: DefaultPublishTimeout,
		log:            zap.NewNop(),
		now:            time.Now,
	}
	for _, opt := range opts {
		opt(v)
	}
	v.log = v.log.With(zap.String("venue_id", v.id))
	return v, nil
}

// Summary is a point-in-time description of a venue.
type Summary struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Rows        int    `json:"rows"`
	SeatsPerRow int    `json:"seats_per_row"`
	Capacity    int    `json:"capacity"`
	Available   int    `json:"available"`
	Bookings    int    `json:"bookings"`
	Revision    uint64 `json:"revision"`
}

func (v *Venue) ID() string    { return v.id }
func (v *Venue) Title() string { return v.title }

// Summary describes the venue.
func (v *Venue) Summary() Summary {
	v.mu.Lock()
	defer v.mu.Unlock()
	g := v.ledger.Grid()
	return Summary{
		ID:          v.id,
		Title:       v.title,
		Rows:        g.Rows(),
		SeatsPerRow: g.SeatsPerRow(),
		Capacity:    g.Capacity(),
		Available:   v.ledger.Available(),
		Bookings:    len(v.ledger.Bookings()),
		Revision:    v.revision,
	}
}

// Revision increases with every committed confirm or cancel.
func (v *Venue) Revision() uint64 {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.revision
}

// Available is the number of free seats.
func (v *Venue) Available() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.ledger.Available()
}

// PreviewDefault proposes count seats with the default allocation.
func (v *Venue) PreviewDefault(count int) ([]model.Seat, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return allocation.DefaultSeats(v.ledger.Grid(), count)
}

// PreviewCustom proposes count seats anchored at array position (row, col).
func (v *Venue) PreviewCustom(count, row, col int) ([]model.Seat, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return allocation.CustomSeats(v.ledger.Grid(), count, row, col)
}

// PreviewFrom proposes count seats starting at a seat label such as "B03",
// or the default selection when position is blank.
func (v *Venue) PreviewFrom(count int, position string) ([]model.Seat, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.allocate(count, position)
}

func (v *Venue) allocate(count int, position string) ([]model.Seat, error) {
	g := v.ledger.Grid()
	if strings.TrimSpace(position) == "" {
		return allocation.DefaultSeats(g, count)
	}
	row, col, err := utils.ParseSeatPosition(position, g.Rows(), g.SeatsPerRow())
	if err != nil {
		return nil, err
	}
	return allocation.CustomSeats(g, count, row, col)
}

// NextIdentifier reserves the next booking identifier.
func (v *Venue) NextIdentifier() model.BookingID {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.ledger.NextIdentifier()
}

// Release hands back an identifier that was never confirmed.
func (v *Venue) Release(id model.BookingID) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.ledger.Release(id)
}

// Confirm books seats under id; see ledger.Ledger.Confirm.
func (v *Venue) Confirm(ctx context.Context, seats []model.Seat, id model.BookingID) (model.BookingID, error) {
	v.mu.Lock()
	got, err := v.ledger.Confirm(seats, id)
	ev := v.committed(err, q.BookingConfirmedQueue, got, seats)
	v.mu.Unlock()

	if err != nil {
		return "", err
	}
	v.log.Info("booking confirmed", zap.String("booking_id", string(got)), zap.Int("seats", len(seats)))
	v.publish(ctx, ev)
	return got, nil
}

// Book allocates count seats (default selection, or starting at position),
// reserves an identifier and confirms, all under one lock.  The identifier
// is released again when confirmation fails.
func (v *Venue) Book(ctx context.Context, count int, position string) (model.Booking, error) {
	v.mu.Lock()
	seats, err := v.allocate(count, position)
	if err != nil {
		v.mu.Unlock()
		return model.Booking{}, err
	}
	return v.confirmLocked(ctx, seats)
}

// BookSeats confirms an explicit list of seat labels under a new
// identifier.
func (v *Venue) BookSeats(ctx context.Context, labels []string) (model.Booking, error) {
	v.mu.Lock()
	g := v.ledger.Grid()
	seats, err := utils.ParseSeatLabels(labels, g.Rows(), g.SeatsPerRow())
	if err != nil {
		v.mu.Unlock()
		return model.Booking{}, err
	}
	return v.confirmLocked(ctx, seats)
}

// confirmLocked must be called with v.mu held; it releases the lock.
func (v *Venue) confirmLocked(ctx context.Context, seats []model.Seat) (model.Booking, error) {
	id := v.ledger.NextIdentifier()
	got, err := v.ledger.Confirm(seats, id)
	if err != nil {
		v.ledger.Release(id)
	}
	ev := v.committed(err, q.BookingConfirmedQueue, got, seats)
	v.mu.Unlock()

	if err != nil {
		return model.Booking{}, err
	}
	v.log.Info("booking confirmed", zap.String("booking_id", string(got)), zap.Int("seats", len(seats)))
	v.publish(ctx, ev)
	return model.Booking{ID: got, Seats: append([]model.Seat(nil), seats...)}, nil
}

// Cancel releases a booking; false when id is not a live booking.
func (v *Venue) Cancel(ctx context.Context, id model.BookingID) bool {
	v.mu.Lock()
	seats, lookupErr := v.ledger.Lookup(id)
	ok := lookupErr == nil && v.ledger.Cancel(id)
	var ev q.BookingEvent
	if ok {
		ev = v.committed(nil, q.BookingCancelledQueue, id.Normalize(), seats)
	}
	v.mu.Unlock()

	if !ok {
		return false
	}
	v.log.Info("booking cancelled", zap.String("booking_id", string(id.Normalize())))
	v.publish(ctx, ev)
	return true
}

// Lookup returns the seats of a live booking.
func (v *Venue) Lookup(id model.BookingID) ([]model.Seat, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.ledger.Lookup(id)
}

// Bookings lists live bookings.
func (v *Venue) Bookings() []model.Booking {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.ledger.Bookings()
}

// Chart renders the seat map with selected highlighted.
func (v *Venue) Chart(selected []model.Seat, st chart.Styles) string {
	v.mu.Lock()
	snap := v.ledger.Snapshot()
	v.mu.Unlock()
	return chart.Render(snap, selected, st)
}

// Labels renders seats as labels for this venue's row count.
func (v *Venue) Labels(seats []model.Seat) []string {
	return utils.SeatLabels(seats, v.ledger.Grid().Rows())
}

// committed bumps the revision and builds the event for a successful
// change.  Callers hold v.mu.
func (v *Venue) committed(err error, kind string, id model.BookingID, seats []model.Seat) q.BookingEvent {
	if err != nil {
		return q.BookingEvent{}
	}
	v.revision++
	return q.BookingEvent{
		EventID:    uuid.NewString(),
		Type:       kind,
		VenueID:    v.id,
		VenueTitle: v.title,
		BookingID:  string(id),
		SeatLabels: utils.SeatLabels(seats, v.ledger.Grid().Rows()),
		Available:  v.ledger.Available(),
		OccurredAt: q.Timestamp(v.now()),
	}
}

func (v *Venue) publish(ctx context.Context, ev q.BookingEvent) {
	ctx, cancel := context.WithTimeout(ctx, v.publishTimeout)
	defer cancel()
	if err := v.publisher.Publish(ctx, ev); err != nil {
		v.log.Warn("booking event not published", zap.String("type", ev.Type), zap.String("booking_id", ev.BookingID), zap.Error(err))
	}
}
