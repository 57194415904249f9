package service_test

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"

	"github.com/sairam-cyber/customer-churn-prediction-platform/internal/domain/model"
	"github.com/sairam-cyber/customer-churn-prediction-platform/internal/domain/service"
	"github.com/sairam-cyber/customer-churn-prediction-platform/internal/domain/valueobject"
)

func trainPipeline(t *testing.T, kind valueobject.ModelType, ds *model.Dataset) *service.Pipeline {
	t.Helper()
	cfg := service.DefaultTrainerConfig()
	cfg.Forest.Trees = 10
	result, err := service.NewTrainer(cfg).Train(ds, kind)
	require.NoError(t, err)
	return result.Pipeline
}

func TestExplainer_Linear(t *testing.T) {
	ds := syntheticDataset(250, 21)
	p := trainPipeline(t, valueobject.ModelTypeLogisticRegression, ds)
	explainer := service.NewExplainer(service.DefaultBackgroundRows)

	row := ds.Customers[7]
	exp, err := explainer.Explain(p, ds.Customers, row)
	require.NoError(t, err)
	require.Len(t, exp.Values, len(p.FeatureNames()))

	t.Run("additive in log-odds", func(t *testing.T) {
		probs, err := p.PredictProba([]model.Customer{row})
		require.NoError(t, err)
		logit := math.Log(probs[0] / (1 - probs[0]))
		assert.InDelta(t, logit, exp.BaseValue+floats.Sum(exp.Values), 1e-9)
	})

	t.Run("background limited to leading rows", func(t *testing.T) {
		limited, err := explainer.Explain(p, ds.Customers[:service.DefaultBackgroundRows], row)
		require.NoError(t, err)
		assert.InDelta(t, limited.BaseValue, exp.BaseValue, 1e-12)
		assert.InDeltaSlice(t, limited.Values, exp.Values, 1e-12)

		wider, err := service.NewExplainer(250).Explain(p, ds.Customers, row)
		require.NoError(t, err)
		assert.NotEqual(t, exp.BaseValue, wider.BaseValue)
	})
}

func TestExplainer_LinearRequiresBackground(t *testing.T) {
	ds := syntheticDataset(100, 2)
	p := trainPipeline(t, valueobject.ModelTypeLogisticRegression, ds)

	_, err := service.NewExplainer(10).Explain(p, nil, ds.Customers[0])
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrComputation)
}

func TestExplainer_Forest(t *testing.T) {
	ds := syntheticDataset(150, 4)
	p := trainPipeline(t, valueobject.ModelTypeRandomForest, ds)

	for _, row := range ds.Customers[:10] {
		exp, err := service.NewExplainer(0).Explain(p, nil, row)
		require.NoError(t, err)
		require.Len(t, exp.Values, len(p.FeatureNames()))

		probs, err := p.PredictProba([]model.Customer{row})
		require.NoError(t, err)
		assert.InDelta(t, probs[0], exp.BaseValue+floats.Sum(exp.Values), 1e-9)
	}
}

func TestExplainer_UnsupportedClassifier(t *testing.T) {
	ds := syntheticDataset(20, 1)
	pre, err := service.FitPreprocessor(model.DefaultFeatureSchema(), ds.Customers)
	require.NoError(t, err)

	var clf service.Classifier
	require.NoError(t, json.Unmarshal([]byte(`{"kind":"gradient_boosting"}`), &clf))
	p := &service.Pipeline{Preprocessor: pre, Classifier: &clf}

	exp, err := service.NewExplainer(0).Explain(p, ds.Customers, ds.Customers[0])
	require.NoError(t, err)
	assert.InDelta(t, 0.0, exp.BaseValue, 1e-12)
	assert.NotNil(t, exp.Values)
	assert.Empty(t, exp.Values)
}
