// Package queue_publisher provides functions to publish domain events to RabbitMQ.
// Errors are logged and returned to allow callers to ignore failures without
// interrupting the main request flow.
package queue_publisher

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	q "github.com/iliyamo/storefront/internal/queue"
)

// Publisher sends events to the storefront events queue. A Publisher with
// an empty URL drops every event, which is how the server runs without a
// broker.
type Publisher struct {
	URL   string
	Queue string
	Log   *zap.Logger
}

// New returns a publisher for the broker at url.
func New(url string, log *zap.Logger) *Publisher {
	if log == nil {
		log = zap.NewNop()
	}
	return &Publisher{URL: url, Queue: q.EventsQueue, Log: log}
}

// Enabled reports whether events actually leave the process.
func (p *Publisher) Enabled() bool { return p != nil && p.URL != "" }

// Publish sends event as a persistent JSON message. It dials per call;
// event volume is a handful of admin and cart writes.
func (p *Publisher) Publish(ctx context.Context, event q.Event) error {
	if !p.Enabled() {
		return nil
	}
	conn, err := amqp.Dial(p.URL)
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

	// Ensure the queue exists (idempotent). Durable so messages survive broker restarts.
	if _, err := ch.QueueDeclare(
		p.Queue, // name
		true,    // durable
		false,   // autoDelete
		false,   // exclusive
		false,   // noWait
		nil,     // args
	); err != nil {
		p.Log.Warn("rabbitmq: queue declare failed", zap.Error(err))
		return err
	}

	body, err := json.Marshal(event)
	if err != nil {
		return err
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent, // store on disk
		Timestamp:    time.Now().UTC(),
		Type:         event.Type,
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx,
		"",      // default exchange
		p.Queue, // routing key = queue name
		false,   // mandatory
		false,   // immediate
		pub,
	); err != nil {
		p.Log.Warn("rabbitmq: publish failed", zap.Error(err), zap.String("type", event.Type))
		return err
	}
	return nil
}
