package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/sairam-cyber/customer-churn-prediction-platform/internal/domain/event"
	"github.com/sairam-cyber/customer-churn-prediction-platform/internal/domain/valueobject"
	"github.com/sairam-cyber/customer-churn-prediction-platform/pkg/events"
)

// ModelArtifact is the aggregate root for a trained churn model and the
// dataset it was fitted on. The fitted pipeline itself lives in the domain
// service layer; this type tracks identity and training history.
type ModelArtifact struct {
	createdAt    time.Time
	trainedAt    time.Time
	modelType    valueobject.ModelType
	featureNames []string
	events.Recorder
	accuracy float64
	rows     int
	version  int
	id       uuid.UUID
}

// NewModelArtifact creates an untrained artifact with a fresh identifier.
func NewModelArtifact(modelType valueobject.ModelType) (*ModelArtifact, error) {
	if modelType.IsZero() {
		return nil, fmt.Errorf("model type is required")
	}

	return &ModelArtifact{
		id:           uuid.New(),
		modelType:    modelType,
		featureNames: make([]string, 0),
		createdAt:    time.Now().UTC(),
	}, nil
}

// RecordTraining stores the outcome of a fit. A refit may switch the model
// type. The first fit emits ModelTrained; every later fit emits ModelRetrained.
func (a *ModelArtifact) RecordTraining(
	modelType valueobject.ModelType,
	accuracy float64,
	rows int,
	featureNames []string,
) error {
	if modelType.IsZero() {
		return fmt.Errorf("model type is required")
	}
	if accuracy < 0 || accuracy > 1 {
		return fmt.Errorf("accuracy must be between 0 and 1, got %v", accuracy)
	}
	if rows <= 0 {
		return fmt.Errorf("row count must be positive, got %d", rows)
	}

	a.modelType = modelType
	a.accuracy = accuracy
	a.rows = rows
	a.featureNames = featureNames
	a.trainedAt = time.Now().UTC()
	a.version++

	if a.version == 1 {
		a.Record(event.NewModelTrained(
			a.id, a.modelType.String(), a.accuracy, a.rows, a.featureNames, a.trainedAt,
		))
		return nil
	}

	a.Record(event.NewModelRetrained(
		a.id, a.modelType.String(), a.accuracy, a.version, a.trainedAt,
	))
	return nil
}

// ReconstructModelArtifact rebuilds an artifact from persisted data (no validation, no events).
func ReconstructModelArtifact(
	id uuid.UUID,
	modelType valueobject.ModelType,
	accuracy float64,
	rows int,
	featureNames []string,
	version int,
	createdAt, trainedAt time.Time,
) *ModelArtifact {
	return &ModelArtifact{
		id:           id,
		modelType:    modelType,
		accuracy:     accuracy,
		rows:         rows,
		featureNames: featureNames,
		version:      version,
		createdAt:    createdAt,
		trainedAt:    trainedAt,
	}
}

// --- Accessors ---

func (a *ModelArtifact) ID() uuid.UUID                    { return a.id }
func (a *ModelArtifact) ModelType() valueobject.ModelType { return a.modelType }
func (a *ModelArtifact) Accuracy() float64                { return a.accuracy }
func (a *ModelArtifact) Rows() int                        { return a.rows }
func (a *ModelArtifact) FeatureNames() []string           { return a.featureNames }
func (a *ModelArtifact) Version() int                     { return a.version }
func (a *ModelArtifact) CreatedAt() time.Time             { return a.createdAt }
func (a *ModelArtifact) TrainedAt() time.Time             { return a.trainedAt }

// DomainEvents returns all accumulated domain events and clears them.
func (a *ModelArtifact) DomainEvents() []events.DomainEvent {
	return a.Drain()
}
