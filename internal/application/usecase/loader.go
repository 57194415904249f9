package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/sairam-cyber/customer-churn-prediction-platform/internal/domain/model"
	"github.com/sairam-cyber/customer-churn-prediction-platform/internal/domain/port"
	"github.com/sairam-cyber/customer-churn-prediction-platform/internal/domain/service"
)

// parseModelID rejects blank identifiers as missing. Anything that is not a
// UUID cannot name a stored artifact and is reported as not found.
func parseModelID(raw string) (uuid.UUID, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return uuid.Nil, fmt.Errorf("%w: model_id is required", model.ErrMissingParameter)
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w for id %q", model.ErrNotFound, raw)
	}
	return id, nil
}

// loadedModel is everything a read-side use case needs for one request.
type loadedModel struct {
	artifact *model.ModelArtifact
	pipeline *service.Pipeline
	dataset  *model.Dataset
}

func loadModel(ctx context.Context, repo port.ArtifactRepository, rawID string) (loadedModel, error) {
	id, err := parseModelID(rawID)
	if err != nil {
		return loadedModel{}, err
	}

	artifact, pipeline, err := repo.Load(ctx, id)
	if err != nil {
		return loadedModel{}, fmt.Errorf("failed to load model: %w", err)
	}

	dataset, err := repo.LoadDataset(ctx, id)
	if err != nil {
		return loadedModel{}, fmt.Errorf("failed to load dataset: %w", err)
	}

	return loadedModel{artifact: artifact, pipeline: pipeline, dataset: dataset}, nil
}
