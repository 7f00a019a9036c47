package kafka

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmehra2102/Order-Checkout-Service/internal/checkout/domain"
	"github.com/dmehra2102/Order-Checkout-Service/test/integration"
)

func TestNotifierPublishesToBroker(t *testing.T) {
	if testing.Short() {
		t.Skip("integration test requires docker")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
	defer cancel()

	brokers, terminate, err := integration.StartKafka(ctx)
	require.NoError(t, err)
	t.Cleanup(terminate)

	const topic = "checkout.results.test"
	writer := NewWriter(brokers, topic)
	writer.AllowAutoTopicCreation = true
	t.Cleanup(func() { _ = writer.Close() })

	notifier := NewNotifier(discardLogger(), writer, nil)
	require.NoError(t, notifier.NotifyOrderResult(ctx, domain.NewUserName("alice"), domain.StatusComplete))

	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:     brokers,
		Topic:       topic,
		StartOffset: kafka.FirstOffset,
	})
	t.Cleanup(func() { _ = reader.Close() })

	msg, err := reader.ReadMessage(ctx)
	require.NoError(t, err)
	assert.Equal(t, []byte("alice"), msg.Key)

	var event orderResultEvent
	require.NoError(t, json.Unmarshal(msg.Value, &event))
	assert.Equal(t, "complete", event.Status)
}
