package service_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sairam-cyber/customer-churn-prediction-platform/internal/domain/model"
	"github.com/sairam-cyber/customer-churn-prediction-platform/internal/domain/service"
)

func TestFitPreprocessor(t *testing.T) {
	rows := []model.Customer{
		{Geography: "Spain", Gender: "Male", Age: 20, CreditScore: 600, Tenure: 5},
		{Geography: "France", Gender: "Female", Age: 40, CreditScore: 600, Tenure: 5},
		{Geography: "Germany", Gender: "Male", Age: 60, CreditScore: 600, Tenure: 5},
	}

	p, err := service.FitPreprocessor(model.DefaultFeatureSchema(), rows)
	require.NoError(t, err)

	t.Run("population standard deviation", func(t *testing.T) {
		// Age: mean 40, population std sqrt(800/3).
		assert.InDelta(t, 40.0, p.Means[1], 1e-9)
		assert.InDelta(t, 16.329931618554522, p.Scales[1], 1e-9)
	})

	t.Run("zero variance columns use unit scale", func(t *testing.T) {
		assert.InDelta(t, 600.0, p.Means[0], 1e-9)
		assert.InDelta(t, 1.0, p.Scales[0], 1e-12)
	})

	t.Run("categories are sorted", func(t *testing.T) {
		assert.Equal(t, []string{"France", "Germany", "Spain"}, p.Categories[0])
		assert.Equal(t, []string{"Female", "Male"}, p.Categories[1])
	})

	t.Run("feature names", func(t *testing.T) {
		assert.Equal(t, []string{
			"CreditScore", "Age", "Tenure", "Balance", "NumOfProducts", "HasCrCard",
			"IsActiveMember", "EstimatedSalary",
			"Geography_France", "Geography_Germany", "Geography_Spain",
			"Gender_Female", "Gender_Male",
		}, p.FeatureNames())
		assert.Equal(t, 13, p.Width())
	})
}

func TestPreprocessor_TransformRow(t *testing.T) {
	rows := []model.Customer{
		{Geography: "Spain", Gender: "Male", Age: 20},
		{Geography: "France", Gender: "Female", Age: 60},
	}
	p, err := service.FitPreprocessor(model.DefaultFeatureSchema(), rows)
	require.NoError(t, err)

	t.Run("known categories are one-hot", func(t *testing.T) {
		x, err := p.TransformRow(model.Customer{Geography: "Spain", Gender: "Female", Age: 60})
		require.NoError(t, err)
		require.Len(t, x, p.Width())
		assert.InDelta(t, 1.0, x[1], 1e-12)
		assert.Equal(t, []float64{0, 1, 1, 0}, x[8:])
	})

	t.Run("unknown category encodes as zeros", func(t *testing.T) {
		x, err := p.TransformRow(model.Customer{Geography: "Italy", Gender: "Male", Age: 40})
		require.NoError(t, err)
		assert.InDelta(t, 0.0, x[1], 1e-12)
		assert.Equal(t, []float64{0, 0, 0, 1}, x[8:])
	})

	t.Run("matrix transform matches row transform", func(t *testing.T) {
		m, err := p.Transform(rows)
		require.NoError(t, err)
		r, c := m.Dims()
		assert.Equal(t, 2, r)
		assert.Equal(t, p.Width(), c)

		x, err := p.TransformRow(rows[1])
		require.NoError(t, err)
		assert.Equal(t, x, m.RawRowView(1))
	})
}

func TestFitPreprocessor_NoRows(t *testing.T) {
	_, err := service.FitPreprocessor(model.DefaultFeatureSchema(), nil)
	require.Error(t, err)
}
