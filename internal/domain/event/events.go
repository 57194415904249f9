package event

import (
	"time"

	"github.com/google/uuid"

	"github.com/sairam-cyber/customer-churn-prediction-platform/pkg/events"
)

const (
	// AggregateTypeModelArtifact names the aggregate that emits model lifecycle events.
	AggregateTypeModelArtifact = "ModelArtifact"

	// EventTypeModelTrained is emitted when a model is trained on a newly uploaded dataset.
	EventTypeModelTrained = "churn.model.trained"

	// EventTypeModelRetrained is emitted when an existing model is refit on its stored dataset.
	EventTypeModelRetrained = "churn.model.retrained"
)

// ModelTrained is published once a new model artifact has been persisted.
type ModelTrained struct {
	TrainedAt    time.Time `json:"trained_at"`
	ModelType    string    `json:"model_type"`
	FeatureNames []string  `json:"feature_names"`
	events.BaseEvent
	Accuracy float64   `json:"accuracy"`
	Rows     int       `json:"rows"`
	ModelID  uuid.UUID `json:"model_id"`
}

// NewModelTrained creates a ModelTrained event for the given artifact.
func NewModelTrained(
	modelID uuid.UUID,
	modelType string,
	accuracy float64,
	rows int,
	featureNames []string,
	trainedAt time.Time,
) ModelTrained {
	return ModelTrained{
		BaseEvent:    events.NewBaseEventAt(EventTypeModelTrained, modelID, AggregateTypeModelArtifact, trainedAt),
		ModelID:      modelID,
		ModelType:    modelType,
		Accuracy:     accuracy,
		Rows:         rows,
		FeatureNames: featureNames,
		TrainedAt:    trainedAt,
	}
}

// ModelRetrained is published when an artifact has been replaced by a refit
// on the same stored dataset.
type ModelRetrained struct {
	RetrainedAt time.Time `json:"retrained_at"`
	ModelType   string    `json:"model_type"`
	events.BaseEvent
	Accuracy float64   `json:"accuracy"`
	Version  int       `json:"version"`
	ModelID  uuid.UUID `json:"model_id"`
}

// NewModelRetrained creates a ModelRetrained event for the given artifact.
func NewModelRetrained(
	modelID uuid.UUID,
	modelType string,
	accuracy float64,
	version int,
	retrainedAt time.Time,
) ModelRetrained {
	return ModelRetrained{
		BaseEvent:   events.NewBaseEventAt(EventTypeModelRetrained, modelID, AggregateTypeModelArtifact, retrainedAt),
		ModelID:     modelID,
		ModelType:   modelType,
		Accuracy:    accuracy,
		Version:     version,
		RetrainedAt: retrainedAt,
	}
}
