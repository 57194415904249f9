package messaging

import (
	"context"
	"log/slog"

	"github.com/sairam-cyber/customer-churn-prediction-platform/pkg/events"
)

// LogPublisher implements port.EventPublisher by logging each event. It is
// wired when no Kafka brokers are configured.
type LogPublisher struct {
	logger *slog.Logger
}

// NewLogPublisher creates a new LogPublisher.
func NewLogPublisher(logger *slog.Logger) *LogPublisher {
	return &LogPublisher{logger: logger}
}

// Publish logs every event at info level.
func (p *LogPublisher) Publish(ctx context.Context, domainEvents ...events.DomainEvent) error {
	for _, evt := range domainEvents {
		p.logger.InfoContext(ctx, "domain event",
			slog.String("event_id", evt.EventID().String()),
			slog.String("event_type", evt.EventType()),
			slog.String("aggregate_type", evt.AggregateType()),
			slog.String("aggregate_id", evt.AggregateID().String()),
			slog.Time("occurred_at", evt.OccurredAt()),
		)
	}
	return nil
}
