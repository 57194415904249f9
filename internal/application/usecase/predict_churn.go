package usecase

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/sairam-cyber/customer-churn-prediction-platform/internal/application/dto"
	"github.com/sairam-cyber/customer-churn-prediction-platform/internal/domain/model"
	"github.com/sairam-cyber/customer-churn-prediction-platform/internal/domain/port"
	"github.com/sairam-cyber/customer-churn-prediction-platform/internal/domain/service"
	"github.com/sairam-cyber/customer-churn-prediction-platform/internal/domain/valueobject"
)

// PredictChurn is the use case for scoring and explaining a single customer.
type PredictChurn struct {
	repo      port.ArtifactRepository
	explainer *service.Explainer
	schema    model.FeatureSchema
}

// NewPredictChurn creates a new PredictChurn use case.
func NewPredictChurn(
	repo port.ArtifactRepository,
	explainer *service.Explainer,
	schema model.FeatureSchema,
) *PredictChurn {
	return &PredictChurn{
		repo:      repo,
		explainer: explainer,
		schema:    schema,
	}
}

// Execute returns the churn probability, retention strategy and SHAP
// explanation for the customer in req.
func (uc *PredictChurn) Execute(ctx context.Context, req dto.PredictRequest) (resp dto.PredictResponse, err error) {
	ctx, span := startSpan(ctx, "PredictChurn", attribute.String("model_id", req.ModelID))
	defer func() { endSpan(span, err) }()

	// 1. Load the model and its background dataset.
	loaded, err := loadModel(ctx, uc.repo, req.ModelID)
	if err != nil {
		return dto.PredictResponse{}, err
	}

	// 2. Decode the customer record.
	customer, err := req.Customer(uc.schema)
	if err != nil {
		return dto.PredictResponse{}, fmt.Errorf("invalid customer record: %w", err)
	}

	// 3. Score.
	probs, err := loaded.pipeline.PredictProba([]model.Customer{customer})
	if err != nil {
		return dto.PredictResponse{}, fmt.Errorf("failed to predict: %w", err)
	}
	probability := probs[0]
	strategy := valueobject.StrategyFromProbability(probability)

	// 4. Explain.
	explanation, err := uc.explainer.Explain(loaded.pipeline, loaded.dataset.Customers, customer)
	if err != nil {
		return dto.PredictResponse{}, fmt.Errorf("failed to explain prediction: %w", err)
	}

	predictionsTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("model_type", loaded.artifact.ModelType().String()),
		attribute.String("priority", strategy.Priority()),
	))

	return dto.PredictResponse{
		ChurnProbability:    service.Round(probability, service.ProbabilityPlaces),
		RecommendedStrategy: strategy.String(),
		ShapValues:          dto.FromExplanation(explanation, loaded.artifact.FeatureNames()),
	}, nil
}
