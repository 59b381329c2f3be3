package service

import (
	"context"
	"encoding/json"
	"net"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	q "github.com/iliyamo/cinema-seat-booking/internal/queue"
)

// EventPublisher receives booking events after a venue commits a change.
// Publishing happens outside the venue lock and its failures never undo a
// booking.
type EventPublisher interface {
	Publish(ctx context.Context, event q.BookingEvent) error
}

// NopPublisher drops every event.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, q.BookingEvent) error { return nil }

// AMQPPublisher publishes booking events to RabbitMQ, one durable queue per
// event type.  It dials per message.
type AMQPPublisher struct {
	URL string
	Log *zap.Logger
}

// NewAMQPPublisher returns a publisher for the broker at url.
func NewAMQPPublisher(url string, log *zap.Logger) *AMQPPublisher {
	if log == nil {
		log = zap.NewNop()
	}
	return &AMQPPublisher{URL: url, Log: log}
}

// Publish sends event to the queue named by event.Type.  Errors are logged
// and returned so the caller can choose to ignore them.  Messages are
// marked as persistent.  The dial and handshake stop at ctx's deadline.
func (p *AMQPPublisher) Publish(ctx context.Context, event q.BookingEvent) error {
	conn, err := amqp.DialConfig(p.URL, amqp.Config{
		Heartbeat: 10 * time.Second,
		Locale:    "en_US",
		Dial:      dialContext(ctx),
	})
	if err != nil {
		p.Log.Warn("rabbitmq: dial failed", zap.Error(err))
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		p.Log.Warn("rabbitmq: channel open failed", zap.Error(err))
		return err
	}
	defer func() { _ = ch.Close() }()

	if _, err := ch.QueueDeclare(
		event.Type, // name
		true,       // durable
		false,      // autoDelete
		false,      // exclusive
		false,      // noWait
		nil,        // args
	); err != nil {
		p.Log.Warn("rabbitmq: queue declare failed", zap.String("queue", event.Type), zap.Error(err))
		return err
	}

	body, err := json.Marshal(event)
	if err != nil {
		p.Log.Warn("rabbitmq: marshal event failed", zap.Error(err))
		return err
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    event.EventID,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, "", event.Type, false, false, pub); err != nil {
		p.Log.Warn("rabbitmq: publish failed", zap.String("queue", event.Type), zap.Error(err))
		return err
	}
	return nil
}

// dialContext connects within ctx and applies its deadline to the AMQP
// handshake; the client clears the deadline once the connection is open.
func dialContext(ctx context.Context) func(network, addr string) (net.Conn, error) {
	return func(network, addr string) (net.Conn, error) {
		var d net.Dialer
		conn, err := d.DialContext(ctx, network, addr)
		if err != nil {
			return nil, err
		}
		if deadline, ok := ctx.Deadline(); ok {
			if err := conn.SetDeadline(deadline); err != nil {
				_ = conn.Close()
				return nil, err
			}
		}
		return conn, nil
	}
}
