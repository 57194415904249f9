package usecase

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"

	"github.com/sairam-cyber/customer-churn-prediction-platform/internal/application/dto"
	"github.com/sairam-cyber/customer-churn-prediction-platform/internal/domain/port"
	"github.com/sairam-cyber/customer-churn-prediction-platform/internal/domain/service"
)

// GetDashboardStats is the use case for the dataset overview of a model.
type GetDashboardStats struct {
	repo port.ArtifactRepository
}

// NewGetDashboardStats creates a new GetDashboardStats use case.
func NewGetDashboardStats(repo port.ArtifactRepository) *GetDashboardStats {
	return &GetDashboardStats{repo: repo}
}

// Execute re-scores the stored dataset and summarizes churn.
func (uc *GetDashboardStats) Execute(ctx context.Context, req dto.ModelRequest) (resp dto.DashboardResponse, err error) {
	ctx, span := startSpan(ctx, "GetDashboardStats", attribute.String("model_id", req.ModelID))
	defer func() { endSpan(span, err) }()

	loaded, err := loadModel(ctx, uc.repo, req.ModelID)
	if err != nil {
		return dto.DashboardResponse{}, err
	}

	stats, err := service.Dashboard(loaded.pipeline, loaded.dataset)
	if err != nil {
		return dto.DashboardResponse{}, fmt.Errorf("failed to compute dashboard stats: %w", err)
	}
	return dto.FromDashboard(stats), nil
}

// GetPerformanceStats is the use case for held-out model metrics.
type GetPerformanceStats struct {
	repo    port.ArtifactRepository
	trainer *service.Trainer
}

// NewGetPerformanceStats creates a new GetPerformanceStats use case.
func NewGetPerformanceStats(repo port.ArtifactRepository, trainer *service.Trainer) *GetPerformanceStats {
	return &GetPerformanceStats{repo: repo, trainer: trainer}
}

// Execute rebuilds the training split and scores the held-out rows.
func (uc *GetPerformanceStats) Execute(ctx context.Context, req dto.ModelRequest) (resp dto.PerformanceResponse, err error) {
	ctx, span := startSpan(ctx, "GetPerformanceStats", attribute.String("model_id", req.ModelID))
	defer func() { endSpan(span, err) }()

	loaded, err := loadModel(ctx, uc.repo, req.ModelID)
	if err != nil {
		return dto.PerformanceResponse{}, err
	}

	stats, err := uc.trainer.Performance(loaded.pipeline, loaded.dataset)
	if err != nil {
		return dto.PerformanceResponse{}, fmt.Errorf("failed to compute performance stats: %w", err)
	}
	return dto.FromPerformance(stats), nil
}

// GetChurnFactors is the use case for the most influential features of a model.
type GetChurnFactors struct {
	repo port.ArtifactRepository
}

// NewGetChurnFactors creates a new GetChurnFactors use case.
func NewGetChurnFactors(repo port.ArtifactRepository) *GetChurnFactors {
	return &GetChurnFactors{repo: repo}
}

// Execute ranks features by model importance.
func (uc *GetChurnFactors) Execute(ctx context.Context, req dto.ModelRequest) (resp dto.ChurnFactorsResponse, err error) {
	ctx, span := startSpan(ctx, "GetChurnFactors", attribute.String("model_id", req.ModelID))
	defer func() { endSpan(span, err) }()

	loaded, err := loadModel(ctx, uc.repo, req.ModelID)
	if err != nil {
		return dto.ChurnFactorsResponse{}, err
	}

	factors, err := service.ChurnFactors(loaded.pipeline.Classifier, loaded.pipeline.FeatureNames())
	if err != nil {
		return dto.ChurnFactorsResponse{}, fmt.Errorf("failed to compute churn factors: %w", err)
	}
	return dto.FromChurnFactors(factors), nil
}

// GetSegmentation is the use case for counting customers per risk segment.
type GetSegmentation struct {
	repo port.ArtifactRepository
}

// NewGetSegmentation creates a new GetSegmentation use case.
func NewGetSegmentation(repo port.ArtifactRepository) *GetSegmentation {
	return &GetSegmentation{repo: repo}
}

// Execute re-scores the stored dataset and buckets every row.
func (uc *GetSegmentation) Execute(ctx context.Context, req dto.ModelRequest) (resp dto.SegmentationResponse, err error) {
	ctx, span := startSpan(ctx, "GetSegmentation", attribute.String("model_id", req.ModelID))
	defer func() { endSpan(span, err) }()

	loaded, err := loadModel(ctx, uc.repo, req.ModelID)
	if err != nil {
		return dto.SegmentationResponse{}, err
	}

	counts, err := service.Segmentation(loaded.pipeline, loaded.dataset)
	if err != nil {
		return dto.SegmentationResponse{}, fmt.Errorf("failed to compute segmentation: %w", err)
	}
	return dto.FromSegmentation(counts), nil
}
