package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/sairam-cyber/customer-churn-prediction-platform/internal/application/dto"
	"github.com/sairam-cyber/customer-churn-prediction-platform/internal/domain/model"
	"github.com/sairam-cyber/customer-churn-prediction-platform/internal/domain/port"
	"github.com/sairam-cyber/customer-churn-prediction-platform/internal/domain/service"
	"github.com/sairam-cyber/customer-churn-prediction-platform/internal/domain/valueobject"
)

// RetrainModel is the use case for refitting an existing model on its stored dataset.
type RetrainModel struct {
	repo      port.ArtifactRepository
	publisher port.EventPublisher
	trainer   *service.Trainer
	logger    *slog.Logger
}

// NewRetrainModel creates a new RetrainModel use case.
func NewRetrainModel(
	repo port.ArtifactRepository,
	publisher port.EventPublisher,
	trainer *service.Trainer,
	logger *slog.Logger,
) *RetrainModel {
	return &RetrainModel{
		repo:      repo,
		publisher: publisher,
		trainer:   trainer,
		logger:    logger,
	}
}

// Execute overwrites the artifact for req.ModelID with a fresh fit.
func (uc *RetrainModel) Execute(ctx context.Context, req dto.RetrainRequest) (resp dto.RetrainResponse, err error) {
	ctx, span := startSpan(ctx, "RetrainModel",
		attribute.String("model_id", req.ModelID),
		attribute.String("model_type", req.ModelType),
	)
	defer func() { endSpan(span, err) }()

	// 1. Validate the request.
	id, err := parseModelID(req.ModelID)
	if err != nil {
		return dto.RetrainResponse{}, err
	}
	kind, err := valueobject.ModelTypeFromString(req.ModelType)
	if err != nil {
		return dto.RetrainResponse{}, fmt.Errorf("%w: %w", model.ErrInvalidParameter, err)
	}

	// 2. Load the existing artifact and its dataset.
	artifact, _, err := uc.repo.Load(ctx, id)
	if err != nil {
		return dto.RetrainResponse{}, fmt.Errorf("failed to load model: %w", err)
	}
	dataset, err := uc.repo.LoadDataset(ctx, id)
	if err != nil {
		return dto.RetrainResponse{}, fmt.Errorf("failed to load dataset: %w", err)
	}

	// 3. Refit.
	result, err := uc.trainer.Train(dataset, kind)
	if err != nil {
		return dto.RetrainResponse{}, fmt.Errorf("failed to retrain model: %w", err)
	}
	if err := artifact.RecordTraining(kind, result.Accuracy, dataset.Len(), result.FeatureNames); err != nil {
		return dto.RetrainResponse{}, fmt.Errorf("failed to record training: %w", err)
	}

	// 4. Overwrite the stored pipeline.
	if err := uc.repo.Save(ctx, artifact, result.Pipeline); err != nil {
		return dto.RetrainResponse{}, fmt.Errorf("failed to save model: %w", err)
	}

	// 5. Publish domain events.
	publishEvents(ctx, uc.publisher, uc.logger, artifact.DomainEvents())

	attrs := metric.WithAttributes(
		attribute.String("model_type", kind.String()),
		attribute.String("operation", "retrain"),
	)
	trainingsTotal.Add(ctx, 1, attrs)
	trainingAccuracy.Record(ctx, result.Accuracy, attrs)

	uc.logger.InfoContext(ctx, "model retrained",
		"model_id", artifact.ID(),
		"model_type", kind.String(),
		"accuracy", result.Accuracy,
		"version", artifact.Version(),
	)

	return dto.RetrainResponse{
		Message:  "Model retrained successfully!",
		Accuracy: result.Accuracy,
	}, nil
}
