package service

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/sairam-cyber/customer-churn-prediction-platform/internal/domain/model"
)

// Pipeline is a fitted preprocessor followed by a classifier.
type Pipeline struct {
	Preprocessor *Preprocessor `json:"preprocessor"`
	Classifier   *Classifier   `json:"classifier"`
}

// FeatureNames returns the post-transform feature names.
func (p *Pipeline) FeatureNames() []string {
	return p.Preprocessor.FeatureNames()
}

// Transform encodes rows with the fitted preprocessor.
func (p *Pipeline) Transform(rows []model.Customer) (*mat.Dense, error) {
	return p.Preprocessor.Transform(rows)
}

// PredictProba returns P(churn) for every row.
func (p *Pipeline) PredictProba(rows []model.Customer) ([]float64, error) {
	x, err := p.Transform(rows)
	if err != nil {
		return nil, model.Computation(err)
	}

	n, _ := x.Dims()
	out := make([]float64, n)
	for i := range n {
		prob, err := p.Classifier.PredictProba(x.RawRowView(i))
		if err != nil {
			return nil, model.Computation(fmt.Errorf("row %d: %w", i, err))
		}
		out[i] = prob
	}
	return out, nil
}

// Predict returns the thresholded class of every row.
func (p *Pipeline) Predict(rows []model.Customer) ([]int, error) {
	probs, err := p.PredictProba(rows)
	if err != nil {
		return nil, err
	}
	out := make([]int, len(probs))
	for i, prob := range probs {
		if prob > DecisionThreshold {
			out[i] = 1
		}
	}
	return out, nil
}
