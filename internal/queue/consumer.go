package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// BookingLogFile is the file, inside the consumer's log directory, that
// receives one line per booking event.
const BookingLogFile = "booking.log"

// StartBookingConsumer connects to RabbitMQ, declares both booking queues
// (durable) and appends every event to <logDir>/booking.log.  It
// reconnects with exponential backoff until ctx is cancelled, which is the
// only way it returns.  Malformed messages are rejected without requeue
// so the consumer keeps running.
func StartBookingConsumer(ctx context.Context, url, logDir string, log *zap.Logger) error {
	backoff := time.Second
	for {
		conn, err := amqp.Dial(url)
		if err != nil {
			log.Warn("booking-consumer: failed to dial broker", zap.Error(err), zap.Duration("retry_in", backoff))
			if !sleepCtx(ctx, backoff) {
				return ctx.Err()
			}
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second

		err = consumeLoop(ctx, conn, logDir, log)
		_ = conn.Close()
		if ctx.Err() != nil {
			return ctx.Err()
		}
		log.Warn("booking-consumer: consume loop ended, reconnecting", zap.Error(err))
		if !sleepCtx(ctx, 2*time.Second) {
			return ctx.Err()
		}
	}
}

func consumeLoop(ctx context.Context, conn *amqp.Connection, logDir string, log *zap.Logger) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(50, 0, false); err != nil {
		log.Warn("booking-consumer: set QoS failed", zap.Error(err))
	}

	merged := make(chan amqp.Delivery)
	done := make(chan struct{})
	defer close(done)
	for _, q := range []string{BookingConfirmedQueue, BookingCancelledQueue} {
		if _, err := ch.QueueDeclare(q, true, false, false, false, nil); err != nil {
			return fmt.Errorf("queue declare %s: %w", q, err)
		}
		msgs, err := ch.Consume(q, "", false, false, false, false, nil)
		if err != nil {
			return fmt.Errorf("queue consume %s: %w", q, err)
		}
		go forward(ctx, msgs, merged, done)
	}

	closed := conn.NotifyClose(make(chan *amqp.Error, 1))
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case amqpErr := <-closed:
			if amqpErr != nil {
				return amqpErr
			}
			return errors.New("connection closed")
		case d := <-merged:
			if err := handleMessage(logDir, d.Body); err != nil {
				log.Error("booking-consumer: handle message failed", zap.Error(err))
				_ = d.Nack(false, false)
				continue
			}
			_ = d.Ack(false)
		}
	}
}

func handleMessage(logDir string, body []byte) error {
	var ev BookingEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}
	return AppendLogLine(logDir, ev)
}

// AppendLogLine writes ev to <logDir>/booking.log, creating the directory
// and file when needed.
func AppendLogLine(logDir string, ev BookingEvent) error {
	if err := os.MkdirAll(logDir, 0o755); err != nil {
		return fmt.Errorf("mkdir logs: %w", err)
	}
	f, err := os.OpenFile(filepath.Join(logDir, BookingLogFile), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer f.Close()

	if _, err := f.WriteString(FormatLogLine(ev)); err != nil {
		return fmt.Errorf("write log: %w", err)
	}
	return nil
}

// FormatLogLine renders ev as a single human-friendly line.
func FormatLogLine(ev BookingEvent) string {
	action := "Booking confirmed"
	if ev.Type == BookingCancelledQueue {
		action = "Booking cancelled"
	}
	seats := "[" + strings.Join(ev.SeatLabels, ",") + "]"
	return fmt.Sprintf("[%s] %s | booking_id=%s | venue_id=%s | venue=%q | seats=%s | available=%d\n",
		ev.OccurredAt, action, ev.BookingID, ev.VenueID, ev.VenueTitle, seats, ev.Available)
}

func sleepCtx(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

// forward copies deliveries from in to out until in closes, ctx ends or
// done is closed by the consume loop that owns out.
func forward(ctx context.Context, in <-chan amqp.Delivery, out chan<- amqp.Delivery, done <-chan struct{}) {
	for d := range in {
		select {
		case out <- d:
		case <-done:
			return
		case <-ctx.Done():
			return
		}
	}
}
