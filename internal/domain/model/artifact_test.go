package model_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sairam-cyber/customer-churn-prediction-platform/internal/domain/event"
	"github.com/sairam-cyber/customer-churn-prediction-platform/internal/domain/model"
	"github.com/sairam-cyber/customer-churn-prediction-platform/internal/domain/valueobject"
)

func newArtifact(t *testing.T) *model.ModelArtifact {
	t.Helper()
	a, err := model.NewModelArtifact(valueobject.ModelTypeRandomForest)
	require.NoError(t, err)
	return a
}

func TestNewModelArtifact_Valid(t *testing.T) {
	a := newArtifact(t)

	assert.NotEqual(t, uuid.Nil, a.ID())
	assert.True(t, valueobject.ModelTypeRandomForest.Equal(a.ModelType()))
	assert.Equal(t, 0, a.Version())
	assert.False(t, a.CreatedAt().IsZero())
	assert.Empty(t, a.DomainEvents())
}

func TestNewModelArtifact_RequiresModelType(t *testing.T) {
	_, err := model.NewModelArtifact(valueobject.ModelType{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "model type is required")
}

func TestModelArtifact_RecordTraining_FirstFitEmitsTrained(t *testing.T) {
	a := newArtifact(t)

	err := a.RecordTraining(valueobject.ModelTypeRandomForest, 0.86, 100, []string{"Age", "Geography_France"})
	require.NoError(t, err)

	assert.Equal(t, 1, a.Version())
	assert.InDelta(t, 0.86, a.Accuracy(), 1e-12)
	assert.Equal(t, 100, a.Rows())
	assert.False(t, a.TrainedAt().IsZero())

	evts := a.DomainEvents()
	require.Len(t, evts, 1)
	trained, ok := evts[0].(event.ModelTrained)
	require.True(t, ok)
	assert.Equal(t, event.EventTypeModelTrained, trained.EventType())
	assert.Equal(t, a.ID(), trained.AggregateID())
	assert.Equal(t, "random_forest", trained.ModelType)
	assert.Equal(t, []string{"Age", "Geography_France"}, trained.FeatureNames)

	assert.Empty(t, a.DomainEvents(), "events must be drained after read")
}

func TestModelArtifact_RecordTraining_RefitEmitsRetrained(t *testing.T) {
	a := newArtifact(t)
	require.NoError(t, a.RecordTraining(valueobject.ModelTypeRandomForest, 0.8, 50, nil))
	_ = a.DomainEvents()

	require.NoError(t, a.RecordTraining(valueobject.ModelTypeLogisticRegression, 0.9, 50, nil))

	assert.Equal(t, 2, a.Version())
	evts := a.DomainEvents()
	require.Len(t, evts, 1)
	retrained, ok := evts[0].(event.ModelRetrained)
	require.True(t, ok)
	assert.Equal(t, event.EventTypeModelRetrained, retrained.EventType())
	assert.Equal(t, 2, retrained.Version)
	assert.InDelta(t, 0.9, retrained.Accuracy, 1e-12)
	assert.Equal(t, "logistic_regression", retrained.ModelType)
	assert.True(t, valueobject.ModelTypeLogisticRegression.Equal(a.ModelType()))
}

func TestModelArtifact_RecordTraining_Validation(t *testing.T) {
	tests := []struct {
		name     string
		wantErr  string
		accuracy float64
		rows     int
	}{
		{name: "accuracy below zero", accuracy: -0.1, rows: 10, wantErr: "accuracy must be between 0 and 1"},
		{name: "accuracy above one", accuracy: 1.1, rows: 10, wantErr: "accuracy must be between 0 and 1"},
		{name: "no rows", accuracy: 0.5, rows: 0, wantErr: "row count must be positive"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := newArtifact(t)
			err := a.RecordTraining(valueobject.ModelTypeRandomForest, tt.accuracy, tt.rows, nil)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
			assert.Equal(t, 0, a.Version())
		})
	}
}

func TestReconstructModelArtifact(t *testing.T) {
	id := uuid.New()
	now := time.Now().UTC()

	a := model.ReconstructModelArtifact(
		id, valueobject.ModelTypeLogisticRegression, 0.75, 200,
		[]string{"CreditScore"}, 3, now, now,
	)

	assert.Equal(t, id, a.ID())
	assert.Equal(t, 3, a.Version())
	assert.Equal(t, 200, a.Rows())
	assert.Empty(t, a.DomainEvents(), "reconstruction must not emit events")

	require.NoError(t, a.RecordTraining(valueobject.ModelTypeLogisticRegression, 0.8, 200, nil))
	evts := a.DomainEvents()
	require.Len(t, evts, 1)
	_, ok := evts[0].(event.ModelRetrained)
	assert.True(t, ok)
}
