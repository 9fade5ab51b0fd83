package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"
)

// Consumer listens on the rental.created queue and appends one line per
// event to a log file (logs/rental.log by default).
type Consumer struct {
	URL     string
	LogPath string
	Log     logrus.FieldLogger
}

// Run connects to RabbitMQ and consumes until ctx is cancelled. Broker
// failures are retried with exponential backoff capped at 30s; a message
// that cannot be handled is rejected without requeue so the loop keeps
// moving.
func (c *Consumer) Run(ctx context.Context) error {
	log := c.logger()
	backoff := time.Second
	for {
		conn, err := amqp.Dial(c.URL)
		if err != nil {
			log.WithError(err).Warnf("dial broker failed; retrying in %s", backoff)
			if !sleep(ctx, backoff) {
				return ctx.Err()
			}
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second

		err = c.consumeLoop(ctx, conn)
		_ = conn.Close()
		if ctx.Err() != nil {
			return ctx.Err()
		}
		log.WithError(err).Warn("consume loop ended; reconnecting")
		if !sleep(ctx, 2*time.Second) {
			return ctx.Err()
		}
	}
}

func (c *Consumer) consumeLoop(ctx context.Context, conn *amqp.Connection) error {
	log := c.logger()
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(50, 0, false); err != nil {
		log.WithError(err).Warn("set QoS failed")
	}
	if err := declareRentalQueue(ch); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}
	msgs, err := ch.Consume(RentalCreatedQueue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue consume: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-msgs:
			if !ok {
				return errors.New("deliveries channel closed")
			}
			if err := c.handle(d.Body); err != nil {
				log.WithError(err).Error("handle message failed")
				_ = d.Nack(false, false)
				continue
			}
			_ = d.Ack(false)
		}
	}
}

func (c *Consumer) handle(body []byte) error {
	path := c.LogPath
	if path == "" {
		path = filepath.Join("logs", "rental.log")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir logs: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer f.Close()
	return WriteRentalLine(f, body)
}

// WriteRentalLine decodes a RentalCreatedEvent and writes it to w as a
// single line.
func WriteRentalLine(w io.Writer, body []byte) error {
	var ev RentalCreatedEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}
	if ev.RentalID == "" {
		return errors.New("event without rental_id")
	}
	line := fmt.Sprintf("[%s] Rental created | rental_id=%s | customer_id=%s | customer=%q | movie_id=%s | movie=%q | from=%s | due=%s | fee=%s\n",
		ev.CreatedAt, ev.RentalID, ev.CustomerID, ev.CustomerName, ev.MovieID, ev.MovieTitle, ev.RentalDate, ev.ReturnDate, ev.Fee)
	if _, err := io.WriteString(w, line); err != nil {
		return fmt.Errorf("write log: %w", err)
	}
	return nil
}

func (c *Consumer) logger() logrus.FieldLogger {
	if c.Log == nil {
		return logrus.StandardLogger().WithField("component", "rental-consumer")
	}
	return c.Log
}

// sleep waits for d or until ctx is done, reporting whether the full
// duration elapsed.
func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
