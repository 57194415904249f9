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

// TrainModel is the use case for fitting a new model on an uploaded dataset.
type TrainModel struct {
	repo      port.ArtifactRepository
	publisher port.EventPublisher
	trainer   *service.Trainer
	logger    *slog.Logger
}

// NewTrainModel creates a new TrainModel use case.
func NewTrainModel(
	repo port.ArtifactRepository,
	publisher port.EventPublisher,
	trainer *service.Trainer,
	logger *slog.Logger,
) *TrainModel {
	return &TrainModel{
		repo:      repo,
		publisher: publisher,
		trainer:   trainer,
		logger:    logger,
	}
}

// Execute stores the dataset under a fresh identifier, fits and scores a
// pipeline, persists it and publishes ModelTrained.
func (uc *TrainModel) Execute(ctx context.Context, req dto.TrainRequest) (resp dto.TrainResponse, err error) {
	ctx, span := startSpan(ctx, "TrainModel", attribute.String("model_type", req.ModelType))
	defer func() { endSpan(span, err) }()

	// 1. Validate the request.
	if len(req.Dataset) == 0 {
		return dto.TrainResponse{}, fmt.Errorf("%w: no dataset file provided", model.ErrMissingParameter)
	}
	kind, err := valueobject.ModelTypeFromString(req.ModelType)
	if err != nil {
		return dto.TrainResponse{}, fmt.Errorf("%w: %w", model.ErrInvalidParameter, err)
	}

	// 2. Create the artifact aggregate.
	artifact, err := model.NewModelArtifact(kind)
	if err != nil {
		return dto.TrainResponse{}, fmt.Errorf("failed to create artifact: %w", err)
	}

	// 3. Store the upload verbatim, then parse it back.
	if err := uc.repo.SaveDataset(ctx, artifact.ID(), req.Dataset); err != nil {
		return dto.TrainResponse{}, fmt.Errorf("failed to save dataset: %w", err)
	}
	dataset, err := uc.repo.LoadDataset(ctx, artifact.ID())
	if err != nil {
		return dto.TrainResponse{}, fmt.Errorf("failed to load dataset: %w", err)
	}

	// 4. Fit and evaluate.
	result, err := uc.trainer.Train(dataset, kind)
	if err != nil {
		return dto.TrainResponse{}, fmt.Errorf("failed to train model: %w", err)
	}
	if err := artifact.RecordTraining(kind, result.Accuracy, dataset.Len(), result.FeatureNames); err != nil {
		return dto.TrainResponse{}, fmt.Errorf("failed to record training: %w", err)
	}

	// 5. Persist the fitted pipeline.
	if err := uc.repo.Save(ctx, artifact, result.Pipeline); err != nil {
		return dto.TrainResponse{}, fmt.Errorf("failed to save model: %w", err)
	}

	// 6. Publish domain events.
	publishEvents(ctx, uc.publisher, uc.logger, artifact.DomainEvents())

	attrs := metric.WithAttributes(
		attribute.String("model_type", kind.String()),
		attribute.String("operation", "train"),
	)
	trainingsTotal.Add(ctx, 1, attrs)
	trainingAccuracy.Record(ctx, result.Accuracy, attrs)

	uc.logger.InfoContext(ctx, "model trained",
		"model_id", artifact.ID(),
		"model_type", kind.String(),
		"accuracy", result.Accuracy,
		"rows", dataset.Len(),
	)

	return dto.TrainResponse{
		Message:  "Model trained successfully!",
		ModelID:  artifact.ID().String(),
		Accuracy: result.Accuracy,
	}, nil
}
