package queue

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"

	"github.com/iliyamo/movie-rental/internal/model"
)

// Publisher sends rental events to RabbitMQ. Each publish opens its own
// connection, so a broker outage only costs the event, never the request.
// Errors are logged and returned; callers may ignore them.
type Publisher struct {
	url         string
	dialTimeout time.Duration
	log         logrus.FieldLogger
	now         func() time.Time
}

// DefaultDialTimeout bounds the broker connect inside a rental request.
const DefaultDialTimeout = 2 * time.Second

// NewPublisher returns a Publisher for the broker at url.
func NewPublisher(url string, log logrus.FieldLogger) *Publisher {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Publisher{
		url:         url,
		dialTimeout: DefaultDialTimeout,
		log:         log.WithField("component", "rental-publisher"),
		now:         time.Now,
	}
}

// WithDialTimeout overrides DefaultDialTimeout. Non-positive values are
// ignored.
func (p *Publisher) WithDialTimeout(d time.Duration) *Publisher {
	if d > 0 {
		p.dialTimeout = d
	}
	return p
}

// dial connects within the dial timeout, or sooner when ctx has an
// earlier deadline.
func (p *Publisher) dial(ctx context.Context) (*amqp.Connection, error) {
	timeout := p.dialTimeout
	if dl, ok := ctx.Deadline(); ok {
		if left := time.Until(dl); left < timeout {
			timeout = left
		}
	}
	if timeout <= 0 {
		return nil, context.DeadlineExceeded
	}
	return amqp.DialConfig(p.url, amqp.Config{
		Heartbeat: 10 * time.Second,
		Locale:    "en_US",
		Dial:      amqp.DefaultDial(timeout),
	})
}

// PublishRentalCreated publishes a persistent RentalCreatedEvent to the
// rental.created queue.
func (p *Publisher) PublishRentalCreated(ctx context.Context, r *model.Rental) error {
	body, err := json.Marshal(NewRentalCreatedEvent(r, p.now()))
	if err != nil {
		p.log.WithError(err).Error("marshal event failed")
		return err
	}

	conn, err := p.dial(ctx)
	if err != nil {
		p.log.WithError(err).Error("dial failed")
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		p.log.WithError(err).Error("channel open failed")
		return err
	}
	defer func() { _ = ch.Close() }()

	if err := declareRentalQueue(ch); err != nil {
		p.log.WithError(err).Error("queue declare failed")
		return err
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    p.now().UTC(),
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx,
		"",                 // default exchange
		RentalCreatedQueue, // routing key = queue name
		false,              // mandatory
		false,              // immediate
		pub,
	); err != nil {
		p.log.WithError(err).Error("publish failed")
		return err
	}
	return nil
}

// declareRentalQueue is idempotent. Durable so messages survive broker
// restarts.
func declareRentalQueue(ch *amqp.Channel) error {
	_, err := ch.QueueDeclare(
		RentalCreatedQueue, // name
		true,               // durable
		false,              // autoDelete
		false,              // exclusive
		false,              // noWait
		nil,                // args
	)
	return err
}
