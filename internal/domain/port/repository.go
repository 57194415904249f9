package port

import (
	"context"

	"github.com/google/uuid"

	"github.com/sairam-cyber/customer-churn-prediction-platform/internal/domain/model"
	"github.com/sairam-cyber/customer-churn-prediction-platform/internal/domain/service"
	"github.com/sairam-cyber/customer-churn-prediction-platform/pkg/events"
)

// ArtifactRepository defines the persistence port for trained models and
// the datasets they were fitted on.
type ArtifactRepository interface {
	// SaveDataset stores an uploaded dataset verbatim under id.
	SaveDataset(ctx context.Context, id uuid.UUID, data []byte) error

	// LoadDataset parses the dataset stored under id.
	LoadDataset(ctx context.Context, id uuid.UUID) (*model.Dataset, error)

	// Save persists the artifact metadata, fitted pipeline and feature names.
	Save(ctx context.Context, artifact *model.ModelArtifact, pipeline *service.Pipeline) error

	// Load retrieves a usable artifact. Both the pipeline and the dataset
	// must exist; otherwise model.ErrNotFound is returned.
	Load(ctx context.Context, id uuid.UUID) (*model.ModelArtifact, *service.Pipeline, error)
}

// EventPublisher defines the port for publishing domain events.
type EventPublisher interface {
	// Publish sends one or more domain events to the messaging infrastructure.
	Publish(ctx context.Context, evts ...events.DomainEvent) error
}
