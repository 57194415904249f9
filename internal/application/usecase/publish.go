package usecase

import (
	"context"
	"log/slog"

	"github.com/sairam-cyber/customer-churn-prediction-platform/internal/domain/port"
	"github.com/sairam-cyber/customer-churn-prediction-platform/pkg/events"
)

// publishEvents logs delivery failures instead of returning them. The
// artifact is already committed when it runs.
func publishEvents(ctx context.Context, publisher port.EventPublisher, logger *slog.Logger, evts []events.DomainEvent) {
	if len(evts) == 0 {
		return
	}
	if err := publisher.Publish(ctx, evts...); err != nil {
		logger.WarnContext(ctx, "failed to publish domain events",
			"error", err,
			"aggregate_id", evts[0].AggregateID(),
			"count", len(evts),
		)
	}
}
