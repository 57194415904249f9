package usecase_test

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sairam-cyber/customer-churn-prediction-platform/internal/application/dto"
	"github.com/sairam-cyber/customer-churn-prediction-platform/internal/application/usecase"
	"github.com/sairam-cyber/customer-churn-prediction-platform/internal/domain/model"
	"github.com/sairam-cyber/customer-churn-prediction-platform/internal/domain/service"
	"github.com/sairam-cyber/customer-churn-prediction-platform/internal/domain/valueobject"
)

const customerRecord = `{
	"CreditScore": 600, "Geography": "France", "Gender": "Male", "Age": 40,
	"Tenure": 3, "Balance": 60000, "NumOfProducts": 2, "HasCrCard": 1,
	"IsActiveMember": 1, "EstimatedSalary": 50000, "model_id": %q
}`

func predictRequest(t *testing.T, body string) dto.PredictRequest {
	t.Helper()
	var req dto.PredictRequest
	require.NoError(t, json.Unmarshal([]byte(body), &req))
	return req
}

func newPredictChurn(repo *mockArtifactRepository) *usecase.PredictChurn {
	return usecase.NewPredictChurn(repo, service.NewExplainer(service.DefaultBackgroundRows), model.DefaultFeatureSchema())
}

func TestPredictChurn_Execute(t *testing.T) {
	for _, modelType := range []string{"logistic_regression", "random_forest"} {
		t.Run(modelType, func(t *testing.T) {
			repo, id := trainedRepository(t, modelType, 160)
			uc := newPredictChurn(repo)

			resp, err := uc.Execute(context.Background(), predictRequest(t, sprintf(customerRecord, id)))
			require.NoError(t, err)

			assert.GreaterOrEqual(t, resp.ChurnProbability, 0.0)
			assert.LessOrEqual(t, resp.ChurnProbability, 1.0)
			assert.Equal(t, valueobject.StrategyFromProbability(resp.ChurnProbability).String(), resp.RecommendedStrategy)

			names := repo.artifacts[uuid.MustParse(id)].FeatureNames()
			assert.Equal(t, names, resp.ShapValues.FeatureNames)
			assert.Len(t, resp.ShapValues.Values, len(names))
		})
	}

	t.Run("forest explanation is locally accurate", func(t *testing.T) {
		repo, id := trainedRepository(t, "random_forest", 160)
		resp, err := newPredictChurn(repo).Execute(context.Background(), predictRequest(t, sprintf(customerRecord, id)))
		require.NoError(t, err)

		sum := resp.ShapValues.BaseValue
		for _, v := range resp.ShapValues.Values {
			sum += v
		}
		assert.InDelta(t, resp.ChurnProbability, sum, 1e-4)
	})

	t.Run("missing features are reported", func(t *testing.T) {
		repo, id := trainedRepository(t, "logistic_regression", 80)
		body := `{"CreditScore": 600, "Geography": "France", "model_id": "` + id + `"}`

		_, err := newPredictChurn(repo).Execute(context.Background(), predictRequest(t, body))
		require.Error(t, err)

		var schemaErr *model.SchemaError
		require.True(t, errors.As(err, &schemaErr))
		assert.Contains(t, schemaErr.Missing, "Age")
		assert.NotContains(t, schemaErr.Missing, "Exited")
	})

	t.Run("malformed values are computation errors", func(t *testing.T) {
		repo, id := trainedRepository(t, "logistic_regression", 80)
		body := `{
			"CreditScore": "high", "Geography": "France", "Gender": "Male", "Age": 40,
			"Tenure": 3, "Balance": 0, "NumOfProducts": 2, "HasCrCard": 1,
			"IsActiveMember": 1, "EstimatedSalary": 50000, "model_id": "` + id + `"}`

		_, err := newPredictChurn(repo).Execute(context.Background(), predictRequest(t, body))
		assert.ErrorIs(t, err, model.ErrComputation)
	})

	t.Run("unknown model is not found before field checks", func(t *testing.T) {
		body := `{"model_id": "` + uuid.NewString() + `"}`
		_, err := newPredictChurn(newMockRepository(nil)).Execute(context.Background(), predictRequest(t, body))
		assert.ErrorIs(t, err, model.ErrNotFound)
	})

	t.Run("model id is required", func(t *testing.T) {
		_, err := newPredictChurn(newMockRepository(nil)).Execute(context.Background(), predictRequest(t, `{"Age": 40}`))
		assert.ErrorIs(t, err, model.ErrMissingParameter)
	})

	t.Run("probability is rounded", func(t *testing.T) {
		repo, id := trainedRepository(t, "logistic_regression", 100)
		resp, err := newPredictChurn(repo).Execute(context.Background(), predictRequest(t, sprintf(customerRecord, id)))
		require.NoError(t, err)
		assert.Equal(t, math.Round(resp.ChurnProbability*1e4)/1e4, resp.ChurnProbability)
	})
}
