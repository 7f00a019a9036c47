package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/dmehra2102/Order-Checkout-Service/internal/checkout/domain"
	"github.com/dmehra2102/Order-Checkout-Service/pkg/tracing"
)

type Producer interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

func NewWriter(brokers []string, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		RequiredAcks: kafka.RequireAll,
	}
}

// DuplicateGuard suppresses repeat publications of the same result.
// A nil guard disables deduplication.
type DuplicateGuard interface {
	Seen(ctx context.Context, key string) (bool, error)
}

// Notifier publishes the final checkout result for a user to the
// message bus. Delivery is at most once; the caller treats failures as
// best effort.
type Notifier struct {
	log      *slog.Logger
	producer Producer
	guard    DuplicateGuard
}

func NewNotifier(log *slog.Logger, producer Producer, guard DuplicateGuard) *Notifier {
	return &Notifier{log: log, producer: producer, guard: guard}
}

type orderResultEvent struct {
	Username string    `json:"username"`
	Status   string    `json:"status"`
	At       time.Time `json:"at"`
}

func (n *Notifier) NotifyOrderResult(ctx context.Context, username domain.UserName, status domain.SessionStatus) error {
	if n.guard != nil {
		key := fmt.Sprintf("notify:%s:%s", username, status)
		seen, err := n.guard.Seen(ctx, key)
		if err != nil {
			// A broken guard must not block the publish.
			n.log.Error("notification dedupe check failed", "key", key, "err", err)
		} else if seen {
			n.log.Info("duplicate notification skipped", "key", key)
			return nil
		}
	}

	payload, err := json.Marshal(orderResultEvent{
		Username: string(username),
		Status:   string(status),
		At:       time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("marshal order result event: %w", err)
	}

	headers := []kafka.Header{{Key: "event_type", Value: []byte("OrderCheckoutResult")}}
	headers = tracing.InjectKafkaHeaders(ctx, headers)

	msg := kafka.Message{
		Key:     []byte(username),
		Value:   payload,
		Headers: headers,
	}
	if err := n.producer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("publish order result for %s: %w", username, err)
	}
	n.log.Info("order result published", "username", string(username), "status", string(status))
	return nil
}
