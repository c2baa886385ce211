package queue

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// StartBookingConsumer connects to RabbitMQ, declares the booking.confirmed
// queue and consumes it, appending one line per confirmation to
// logs/booking.log. It runs a reconnect loop with exponential backoff and
// never returns under normal operation; failed messages are rejected without
// requeue so a poison message cannot wedge the consumer.
func StartBookingConsumer(log *slog.Logger, url string) {
	backoff := time.Second
	for {
		conn, err := amqp.Dial(url)
		if err != nil {
			log.Warn("booking consumer failed to dial broker", "err", err, "retry_in", backoff)
			time.Sleep(backoff)
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second

		if err := consumeLoop(log, conn); err != nil {
			log.Warn("booking consumer loop ended, reconnecting", "err", err)
			time.Sleep(2 * time.Second)
		}
	}
}

func consumeLoop(log *slog.Logger, conn *amqp.Connection) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(50, 0, false); err != nil {
		log.Warn("booking consumer could not set QoS", "err", err)
	}

	if _, err := ch.QueueDeclare(bookingQueueName, true, false, false, false, nil); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}

	msgs, err := ch.Consume(bookingQueueName, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue consume: %w", err)
	}

	for d := range msgs {
		if err := appendConfirmation(d.Body); err != nil {
			log.Error("booking consumer failed to handle message", "err", err)
			_ = d.Nack(false, false)
			continue
		}
		_ = d.Ack(false)
	}
	return errors.New("deliveries channel closed")
}

func appendConfirmation(body []byte) error {
	var ev BookingConfirmedEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}
	if err := os.MkdirAll("logs", 0o755); err != nil {
		return fmt.Errorf("mkdir logs: %w", err)
	}
	f, err := os.OpenFile(filepath.Join("logs", "booking.log"),
		os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer func() { _ = f.Close() }()

	line := fmt.Sprintf("%s ref=%s experience=%q slot=%s date=%s %s people=%d total=%.2f\n",
		ev.ConfirmedAt, ev.BookingReference, ev.ExperienceTitle, ev.SlotID,
		ev.Date, ev.StartTime, ev.NumberOfPeople, ev.FinalPrice)
	if _, err := f.WriteString(line); err != nil {
		return fmt.Errorf("append confirmation: %w", err)
	}
	return nil
}
