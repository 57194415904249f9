package kafka_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sairam-cyber/customer-churn-prediction-platform/internal/domain/event"
	"github.com/sairam-cyber/customer-churn-prediction-platform/internal/infrastructure/kafka"
	"github.com/sairam-cyber/customer-churn-prediction-platform/pkg/events"
	pkgkafka "github.com/sairam-cyber/customer-churn-prediction-platform/pkg/kafka"
)

type mockProducer struct {
	publishFunc func(ctx context.Context, topic string, messages ...pkgkafka.Message) error
	topic       string
	messages    []pkgkafka.Message
}

func (m *mockProducer) Publish(ctx context.Context, topic string, messages ...pkgkafka.Message) error {
	if m.publishFunc != nil {
		return m.publishFunc(ctx, topic, messages...)
	}
	m.topic = topic
	m.messages = append(m.messages, messages...)
	return nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestPublisher_Publish(t *testing.T) {
	producer := &mockProducer{}
	publisher := kafka.NewPublisher(producer, "churn.model.events", discardLogger())

	modelID := uuid.New()
	evt := event.NewModelTrained(modelID, "random_forest", 0.86, 1000, []string{"Age"}, time.Now())

	require.NoError(t, publisher.Publish(context.Background(), evt))

	assert.Equal(t, "churn.model.events", producer.topic)
	require.Len(t, producer.messages, 1)

	msg := producer.messages[0]
	assert.Equal(t, modelID.String(), string(msg.Key))
	assert.Equal(t, event.EventTypeModelTrained, msg.Headers["event_type"])
	assert.Equal(t, event.AggregateTypeModelArtifact, msg.Headers["aggregate_type"])

	var envelope events.Envelope
	require.NoError(t, json.Unmarshal(msg.Value, &envelope))
	assert.Equal(t, evt.EventID(), envelope.ID)
	assert.Equal(t, modelID, envelope.AggregateID)
	assert.Equal(t, event.EventTypeModelTrained, envelope.EventType)

	var payload map[string]any
	require.NoError(t, json.Unmarshal(envelope.Payload, &payload))
	assert.Equal(t, "random_forest", payload["model_type"])
}

func TestPublisher_NoEvents(t *testing.T) {
	producer := &mockProducer{
		publishFunc: func(context.Context, string, ...pkgkafka.Message) error {
			t.Fatal("producer must not be called without events")
			return nil
		},
	}
	publisher := kafka.NewPublisher(producer, "churn.model.events", discardLogger())
	require.NoError(t, publisher.Publish(context.Background()))
}

func TestPublisher_ProducerError(t *testing.T) {
	producer := &mockProducer{
		publishFunc: func(context.Context, string, ...pkgkafka.Message) error {
			return errors.New("leader not available")
		},
	}
	publisher := kafka.NewPublisher(producer, "churn.model.events", discardLogger())

	err := publisher.Publish(context.Background(), event.NewModelRetrained(uuid.New(), "logistic_regression", 0.8, 2, time.Now()))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "leader not available")
}
