package service

import (
	"context"
	"errors"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/cinema-seat-booking/internal/chart"
	"github.com/iliyamo/cinema-seat-booking/internal/model"
	q "github.com/iliyamo/cinema-seat-booking/internal/queue"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []q.BookingEvent
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, ev q.BookingEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return p.err
}

func (p *recordingPublisher) all() []q.BookingEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]q.BookingEvent(nil), p.events...)
}

func newVenue(t *testing.T, rows, cols int, opts ...Option) *Venue {
	t.Helper()
	v, err := NewVenue("Inception", rows, cols, opts...)
	require.NoError(t, err)
	return v
}

func TestNewVenue_Validation(t *testing.T) {
	_, err := NewVenue("   ", 8, 10)
	assert.ErrorIs(t, err, ErrInvalidTitle)

	_, err = NewVenue("Inception", 27, 10)
	assert.ErrorIs(t, err, model.ErrInvalidDimensions)

	v, err := NewVenue("  Inception ", 8, 10, WithID("v1"))
	require.NoError(t, err)
	assert.Equal(t, "v1", v.ID())
	assert.Equal(t, "Inception", v.Title())
	assert.Equal(t, 80, v.Available())
}

func TestVenue_BookDefaultPublishesEvent(t *testing.T) {
	pub := &recordingPublisher{}
	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	v := newVenue(t, 8, 10, WithID("v1"), WithPublisher(pub), WithClock(func() time.Time { return at }))

	b, err := v.Book(context.Background(), 4, "")
	require.NoError(t, err)
	assert.Equal(t, model.BookingID("GIC0001"), b.ID)
	assert.Equal(t, []string{"A5", "A6", "A4", "A7"}, v.Labels(b.Seats))
	assert.Equal(t, 76, v.Available())
	assert.Equal(t, uint64(1), v.Revision())

	events := pub.all()
	require.Len(t, events, 1)
	ev := events[0]
	assert.Equal(t, q.BookingConfirmedQueue, ev.Type)
	assert.Equal(t, "v1", ev.VenueID)
	assert.Equal(t, "Inception", ev.VenueTitle)
	assert.Equal(t, "GIC0001", ev.BookingID)
	assert.Equal(t, []string{"A5", "A6", "A4", "A7"}, ev.SeatLabels)
	assert.Equal(t, 76, ev.Available)
	assert.Equal(t, "2026-01-02T03:04:05Z", ev.OccurredAt)
	assert.NotEmpty(t, ev.EventID)
}

func TestVenue_BookFromPosition(t *testing.T) {
	v := newVenue(t, 8, 10)

	b, err := v.Book(context.Background(), 3, "b03")
	require.NoError(t, err)
	assert.Equal(t, []string{"B3", "B4", "B5"}, v.Labels(b.Seats))

	_, err = v.Book(context.Background(), 3, "Z1")
	assert.Error(t, err)
	assert.Equal(t, uint64(1), v.Revision())
}

func TestVenue_BookFailureReleasesIdentifier(t *testing.T) {
	pub := &recordingPublisher{}
	v := newVenue(t, 1, 3, WithPublisher(pub))

	_, err := v.BookSeats(context.Background(), []string{"A1"})
	require.NoError(t, err)

	_, err = v.BookSeats(context.Background(), []string{"A2", "A1"})
	assert.ErrorIs(t, err, model.ErrSeatConflict)

	_, err = v.Book(context.Background(), 3, "")
	var me *model.Error
	require.ErrorAs(t, err, &me)
	assert.Equal(t, model.KindInsufficientSeats, me.Kind)
	assert.Equal(t, 2, me.Found)

	// The failed attempts gave their identifiers back.
	assert.Equal(t, model.BookingID("GIC0002"), v.NextIdentifier())
	assert.Len(t, pub.all(), 1)
	assert.Equal(t, 2, v.Available())
}

func TestVenue_BookSeatsValidation(t *testing.T) {
	v := newVenue(t, 3, 3)

	_, err := v.BookSeats(context.Background(), nil)
	assert.ErrorIs(t, err, model.ErrEmptySelection)

	_, err = v.BookSeats(context.Background(), []string{"D1"})
	assert.Error(t, err)
	assert.Equal(t, 9, v.Available())
}

func TestVenue_PreviewDoesNotMutate(t *testing.T) {
	v := newVenue(t, 8, 10)

	seats, err := v.PreviewDefault(5)
	require.NoError(t, err)
	assert.Len(t, seats, 5)

	custom, err := v.PreviewCustom(3, 6, 0)
	require.NoError(t, err)
	assert.Equal(t, []model.Seat{{Row: 6, Col: 0}, {Row: 6, Col: 1}, {Row: 6, Col: 2}}, custom)

	from, err := v.PreviewFrom(3, "B1")
	require.NoError(t, err)
	assert.Equal(t, custom, from)

	assert.Equal(t, 80, v.Available())
	assert.Equal(t, uint64(0), v.Revision())
}

func TestVenue_ConfirmWithReservedIdentifier(t *testing.T) {
	v := newVenue(t, 8, 10)

	id := v.NextIdentifier()
	seats, err := v.PreviewDefault(2)
	require.NoError(t, err)

	got, err := v.Confirm(context.Background(), seats, id)
	require.NoError(t, err)
	assert.Equal(t, id, got)

	looked, err := v.Lookup(id)
	require.NoError(t, err)
	assert.Equal(t, seats, looked)
}

func TestVenue_ReleaseReservedIdentifier(t *testing.T) {
	v := newVenue(t, 8, 10)

	id := v.NextIdentifier()
	assert.True(t, v.Release(id))
	assert.Equal(t, id, v.NextIdentifier())
}

func TestVenue_CancelPublishesAndReusesIdentifier(t *testing.T) {
	pub := &recordingPublisher{}
	v := newVenue(t, 8, 10, WithPublisher(pub))
	ctx := context.Background()

	b, err := v.Book(ctx, 2, "")
	require.NoError(t, err)

	assert.True(t, v.Cancel(ctx, "gic0001"))
	assert.False(t, v.Cancel(ctx, "GIC0001"))
	assert.Equal(t, 80, v.Available())
	assert.Equal(t, uint64(2), v.Revision())

	_, err = v.Lookup(b.ID)
	assert.ErrorIs(t, err, model.ErrNotFound)

	events := pub.all()
	require.Len(t, events, 2)
	assert.Equal(t, q.BookingCancelledQueue, events[1].Type)
	assert.Equal(t, "GIC0001", events[1].BookingID)
	assert.Equal(t, events[0].SeatLabels, events[1].SeatLabels)

	again, err := v.Book(ctx, 1, "")
	require.NoError(t, err)
	assert.Equal(t, model.BookingID("GIC0001"), again.ID)
}

func TestVenue_PublishFailureKeepsBooking(t *testing.T) {
	pub := &recordingPublisher{err: errors.New("broker down")}
	v := newVenue(t, 2, 2, WithPublisher(pub))

	b, err := v.Book(context.Background(), 1, "")
	require.NoError(t, err)
	_, err = v.Lookup(b.ID)
	assert.NoError(t, err)
}

func TestVenue_SummaryAndChart(t *testing.T) {
	v := newVenue(t, 2, 3, WithID("v1"))
	_, err := v.BookSeats(context.Background(), []string{"A1"})
	require.NoError(t, err)

	s := v.Summary()
	assert.Equal(t, Summary{
		ID: "v1", Title: "Inception", Rows: 2, SeatsPerRow: 3,
		Capacity: 6, Available: 5, Bookings: 1, Revision: 1,
	}, s)

	out := v.Chart([]model.Seat{{Row: 0, Col: 2}}, chart.PlainStyles())
	assert.Contains(t, out, "B      .   .   o")
	assert.Contains(t, out, "A      #   .   .")
}

func TestVenue_ConcurrentBookingsNeverOverlap(t *testing.T) {
	v := newVenue(t, 10, 10)
	ctx := context.Background()

	var wg sync.WaitGroup
	results := make(chan model.Booking, 50)
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if b, err := v.Book(ctx, 2, ""); err == nil {
				results <- b
			}
		}()
	}
	wg.Wait()
	close(results)

	seen := map[model.Seat]bool{}
	ids := map[model.BookingID]bool{}
	for b := range results {
		assert.False(t, ids[b.ID], "duplicate id %s", b.ID)
		ids[b.ID] = true
		for _, s := range b.Seats {
			assert.False(t, seen[s], "seat %v booked twice", s)
			seen[s] = true
		}
	}
	assert.Len(t, ids, 50)
	assert.Equal(t, 0, v.Available())
}

func TestRegistry_CreateGetList(t *testing.T) {
	r := NewRegistry(nil, nil)

	a, err := r.Create("Inception", 8, 10)
	require.NoError(t, err)
	b, err := r.Create("Tenet", 5, 5)
	require.NoError(t, err)
	assert.NotEqual(t, a.ID(), b.ID())

	got, err := r.Get(a.ID())
	require.NoError(t, err)
	assert.Same(t, a, got)

	_, err = r.Get("missing")
	assert.ErrorIs(t, err, ErrVenueNotFound)

	list := r.List()
	require.Len(t, list, 2)
	assert.Same(t, a, list[0])
	assert.Same(t, b, list[1])

	_, err = r.Create("", 8, 10)
	assert.ErrorIs(t, err, ErrInvalidTitle)
	assert.Len(t, r.List(), 2)
}

func TestRegistry_SharesPublisher(t *testing.T) {
	pub := &recordingPublisher{}
	r := NewRegistry(pub, nil)
	v, err := r.Create("Inception", 3, 3)
	require.NoError(t, err)

	_, err = v.Book(context.Background(), 1, "")
	require.NoError(t, err)
	require.Len(t, pub.all(), 1)
	assert.Equal(t, v.ID(), pub.all()[0].VenueID)
}

type stallingPublisher struct{}

func (stallingPublisher) Publish(ctx context.Context, _ q.BookingEvent) error {
	<-ctx.Done()
	return ctx.Err()
}

func TestVenue_PublishIsBounded(t *testing.T) {
	v := newVenue(t, 2, 4, WithPublisher(stallingPublisher{}), WithPublishTimeout(50*time.Millisecond))
	id := v.NextIdentifier()
	seats, err := v.PreviewDefault(2)
	require.NoError(t, err)

	start := time.Now()
	got, err := v.Confirm(context.Background(), seats, id)
	require.NoError(t, err)
	assert.Equal(t, id, got)
	assert.Less(t, time.Since(start), time.Second)
	assert.Equal(t, 6, v.Available())
}

func TestAMQPPublisher_SilentBrokerTimesOut(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer func() { _ = ln.Close() }()
	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			defer func() { _ = conn.Close() }()
		}
	}()

	p := NewAMQPPublisher("amqp://guest:guest@"+ln.Addr().String()+"/", nil)
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	start := time.Now()
	err = p.Publish(ctx, q.BookingEvent{Type: q.BookingConfirmedQueue, BookingID: "GIC0001"})
	assert.Error(t, err)
	assert.Less(t, time.Since(start), 2*time.Second)
}
