package service

import (
	"fmt"

	"github.com/sairam-cyber/customer-churn-prediction-platform/internal/domain/model"
	"github.com/sairam-cyber/customer-churn-prediction-platform/internal/domain/valueobject"
)

// DefaultSeed seeds the train/test split and the forest bootstrap.
const DefaultSeed = 42

// TrainerConfig carries every knob that influences a fit.
type TrainerConfig struct {
	Schema       model.FeatureSchema
	Forest       ForestConfig
	Seed         uint64
	TestFraction float64
}

// DefaultTrainerConfig returns the bank churn schema with default hyperparameters.
func DefaultTrainerConfig() TrainerConfig {
	return TrainerConfig{
		Schema:       model.DefaultFeatureSchema(),
		Forest:       ForestConfig{Trees: DefaultForestTrees},
		Seed:         DefaultSeed,
		TestFraction: DefaultTestFraction,
	}
}

// Trainer validates, splits, fits and evaluates churn pipelines.
type Trainer struct {
	cfg TrainerConfig
}

// NewTrainer creates a Trainer. The forest is always seeded from cfg.Seed.
func NewTrainer(cfg TrainerConfig) *Trainer {
	if cfg.TestFraction <= 0 || cfg.TestFraction >= 1 {
		cfg.TestFraction = DefaultTestFraction
	}
	cfg.Forest.Seed = cfg.Seed
	return &Trainer{cfg: cfg}
}

// Schema returns the feature schema the trainer validates against.
func (t *Trainer) Schema() model.FeatureSchema {
	return t.cfg.Schema
}

// TrainingResult is the outcome of a successful fit.
type TrainingResult struct {
	Pipeline     *Pipeline
	FeatureNames []string
	Accuracy     float64
	TrainRows    int
	TestRows     int
}

// Train fits a pipeline of the given kind on 80% of ds and scores it on the rest.
func (t *Trainer) Train(ds *model.Dataset, kind valueobject.ModelType) (*TrainingResult, error) {
	// 1. Validate schema.
	if err := ValidateColumns(t.cfg.Schema, ds.Columns); err != nil {
		return nil, err
	}

	// 2. Split.
	trainIdx, testIdx, err := TrainTestSplit(ds.Len(), t.cfg.TestFraction, t.cfg.Seed)
	if err != nil {
		return nil, model.Computation(err)
	}
	trainRows, trainLabels := ds.Subset(trainIdx)
	testRows, testLabels := ds.Subset(testIdx)

	// 3. Fit preprocessor and classifier on the training rows.
	clf, err := NewClassifier(kind, t.cfg.Forest)
	if err != nil {
		return nil, model.Computation(err)
	}
	pre, err := FitPreprocessor(t.cfg.Schema, trainRows)
	if err != nil {
		return nil, model.Computation(fmt.Errorf("failed to fit preprocessor: %w", err))
	}
	x, err := pre.Transform(trainRows)
	if err != nil {
		return nil, model.Computation(err)
	}
	if err := clf.Fit(x, trainLabels); err != nil {
		return nil, model.Computation(fmt.Errorf("failed to fit %s: %w", kind, err))
	}
	pipeline := &Pipeline{Preprocessor: pre, Classifier: clf}

	// 4. Evaluate on the held-out rows.
	preds, err := pipeline.Predict(testRows)
	if err != nil {
		return nil, err
	}
	cm, err := NewConfusionMatrix(testLabels, preds)
	if err != nil {
		return nil, model.Computation(err)
	}

	return &TrainingResult{
		Pipeline:     pipeline,
		FeatureNames: pipeline.FeatureNames(),
		Accuracy:     cm.Accuracy(),
		TrainRows:    len(trainIdx),
		TestRows:     len(testIdx),
	}, nil
}

// Evaluate rebuilds the training split and scores p on the held-out rows.
func (t *Trainer) Evaluate(p *Pipeline, ds *model.Dataset) (ConfusionMatrix, error) {
	_, testIdx, err := TrainTestSplit(ds.Len(), t.cfg.TestFraction, t.cfg.Seed)
	if err != nil {
		return ConfusionMatrix{}, model.Computation(err)
	}
	testRows, testLabels := ds.Subset(testIdx)

	preds, err := p.Predict(testRows)
	if err != nil {
		return ConfusionMatrix{}, err
	}
	cm, err := NewConfusionMatrix(testLabels, preds)
	if err != nil {
		return ConfusionMatrix{}, model.Computation(err)
	}
	return cm, nil
}
