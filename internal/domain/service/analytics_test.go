package service_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sairam-cyber/customer-churn-prediction-platform/internal/domain/model"
	"github.com/sairam-cyber/customer-churn-prediction-platform/internal/domain/service"
	"github.com/sairam-cyber/customer-churn-prediction-platform/internal/domain/valueobject"
)

// constantPipeline scores every row with sigmoid(intercept).
func constantPipeline(t *testing.T, ds *model.Dataset, intercept float64) *service.Pipeline {
	t.Helper()
	pre, err := service.FitPreprocessor(model.DefaultFeatureSchema(), ds.Customers)
	require.NoError(t, err)
	return &service.Pipeline{
		Preprocessor: pre,
		Classifier: &service.Classifier{
			Kind: valueobject.ModelTypeLogisticRegression,
			Logistic: &service.LogisticRegression{
				Coef:      make([]float64, pre.Width()),
				Intercept: intercept,
			},
		},
	}
}

func TestDashboard_ChurnRate(t *testing.T) {
	ds := syntheticDataset(10, 1)
	for i := range ds.Customers {
		ds.Customers[i].Exited = 0
	}
	ds.Customers[1].Exited = 1
	ds.Customers[4].Exited = 1
	ds.Customers[8].Exited = 1

	stats, err := service.Dashboard(constantPipeline(t, ds, 0), ds)
	require.NoError(t, err)

	assert.Equal(t, 10, stats.TotalCustomers)
	assert.Equal(t, 3, stats.ChurnedCustomers)
	assert.InDelta(t, 30.0, stats.ChurnRate, 1e-12)
}

func TestDashboard_TopCustomers(t *testing.T) {
	ds := syntheticDataset(200, 5)
	p := trainPipeline(t, valueobject.ModelTypeRandomForest, ds)

	stats, err := service.Dashboard(p, ds)
	require.NoError(t, err)
	require.Len(t, stats.HighRiskCustomers, service.TopN)

	probs, err := p.PredictProba(ds.Customers)
	require.NoError(t, err)
	maxProb := 0.0
	for _, prob := range probs {
		maxProb = max(maxProb, prob)
	}
	assert.InDelta(t, service.Round(maxProb, 4), stats.HighRiskCustomers[0].ChurnProbability, 1e-12)

	for i := 1; i < len(stats.HighRiskCustomers); i++ {
		assert.GreaterOrEqual(t,
			stats.HighRiskCustomers[i-1].ChurnProbability,
			stats.HighRiskCustomers[i].ChurnProbability)
	}
}

func TestDashboard_TiesKeepDatasetOrder(t *testing.T) {
	ds := syntheticDataset(8, 2)
	stats, err := service.Dashboard(constantPipeline(t, ds, 1), ds)
	require.NoError(t, err)

	require.Len(t, stats.HighRiskCustomers, 5)
	for i, s := range stats.HighRiskCustomers {
		assert.Equal(t, ds.Customers[i].CustomerID, s.Customer.CustomerID)
		assert.InDelta(t, 0.7311, s.ChurnProbability, 1e-12)
	}
}

func TestDashboard_FewerRowsThanTopN(t *testing.T) {
	ds := syntheticDataset(3, 2)
	stats, err := service.Dashboard(constantPipeline(t, ds, 0), ds)
	require.NoError(t, err)
	assert.Len(t, stats.HighRiskCustomers, 3)
}

func TestDashboard_Empty(t *testing.T) {
	ds := syntheticDataset(3, 2)
	p := constantPipeline(t, ds, 0)

	stats, err := service.Dashboard(p, &model.Dataset{Columns: datasetColumns()})
	require.NoError(t, err)
	assert.Equal(t, 0, stats.TotalCustomers)
	assert.InDelta(t, 0.0, stats.ChurnRate, 1e-12)
	assert.Empty(t, stats.HighRiskCustomers)
}

func TestTrainer_Performance(t *testing.T) {
	ds := syntheticDataset(200, 8)
	trainer := newTestTrainer()
	result, err := trainer.Train(ds, valueobject.ModelTypeLogisticRegression)
	require.NoError(t, err)

	stats, err := trainer.Performance(result.Pipeline, ds)
	require.NoError(t, err)

	assert.Equal(t, 40, stats.Confusion.Total())
	assert.InDelta(t, service.Round(result.Accuracy, 4), stats.Accuracy, 1e-12)
	assert.InDelta(t, service.Round(stats.Confusion.Precision(), 4), stats.Precision, 1e-12)
	assert.InDelta(t, service.Round(stats.Confusion.Recall(), 4), stats.Recall, 1e-12)
	assert.InDelta(t, service.Round(stats.Confusion.F1(), 4), stats.F1, 1e-12)
}

func TestChurnFactors(t *testing.T) {
	names := []string{"a", "b", "c", "d", "e", "f", "g"}

	t.Run("linear uses absolute coefficients", func(t *testing.T) {
		c := &service.Classifier{
			Kind:     valueobject.ModelTypeLogisticRegression,
			Logistic: &service.LogisticRegression{Coef: []float64{0.1, -0.9, 0.3, 0.3, 0.05, -0.2, 0.6}},
		}
		factors, err := service.ChurnFactors(c, names)
		require.NoError(t, err)
		require.Len(t, factors, 5)

		got := make([]string, len(factors))
		for i, f := range factors {
			got[i] = f.Feature
		}
		assert.Equal(t, []string{"b", "g", "c", "d", "f"}, got)
		assert.InDelta(t, 0.9, factors[0].Importance, 1e-12)
	})

	t.Run("forest uses native importances", func(t *testing.T) {
		c := &service.Classifier{
			Kind:   valueobject.ModelTypeRandomForest,
			Forest: &service.RandomForest{FeatureImportances: []float64{0.5, 0.3, 0.2}},
		}
		factors, err := service.ChurnFactors(c, names[:3])
		require.NoError(t, err)
		assert.Equal(t, []service.ChurnFactor{
			{Feature: "a", Importance: 0.5},
			{Feature: "b", Importance: 0.3},
			{Feature: "c", Importance: 0.2},
		}, factors)
	})

	t.Run("unsupported classifier has no factors", func(t *testing.T) {
		var c service.Classifier
		require.NoError(t, json.Unmarshal([]byte(`{"kind":"svm"}`), &c))
		factors, err := service.ChurnFactors(&c, names)
		require.NoError(t, err)
		assert.Empty(t, factors)
	})

	t.Run("name mismatch", func(t *testing.T) {
		c := &service.Classifier{
			Kind:     valueobject.ModelTypeLogisticRegression,
			Logistic: &service.LogisticRegression{Coef: []float64{1, 2}},
		}
		_, err := service.ChurnFactors(c, names)
		assert.ErrorIs(t, err, model.ErrComputation)
	})
}

func TestSegmentation(t *testing.T) {
	ds := syntheticDataset(200, 6)
	p := trainPipeline(t, valueobject.ModelTypeRandomForest, ds)

	counts, err := service.Segmentation(p, ds)
	require.NoError(t, err)

	require.Len(t, counts, 3)
	total := 0
	for _, seg := range valueobject.RiskSegments() {
		n, ok := counts[seg]
		require.True(t, ok, "segment %s must be present", seg)
		total += n
	}
	assert.Equal(t, ds.Len(), total)
}

func TestSegmentation_AllKeysPresentWhenEmpty(t *testing.T) {
	ds := syntheticDataset(5, 1)
	counts, err := service.Segmentation(constantPipeline(t, ds, 0), &model.Dataset{})
	require.NoError(t, err)

	assert.Equal(t, map[valueobject.RiskSegment]int{
		valueobject.RiskSegmentLow:    0,
		valueobject.RiskSegmentMedium: 0,
		valueobject.RiskSegmentHigh:   0,
	}, counts)
}

func TestSegmentation_ConstantScore(t *testing.T) {
	ds := syntheticDataset(12, 1)
	// sigmoid(2) ≈ 0.881
	counts, err := service.Segmentation(constantPipeline(t, ds, 2), ds)
	require.NoError(t, err)
	assert.Equal(t, 12, counts[valueobject.RiskSegmentHigh])
	assert.Equal(t, 0, counts[valueobject.RiskSegmentLow])
}
