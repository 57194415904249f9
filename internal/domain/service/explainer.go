package service

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/sairam-cyber/customer-churn-prediction-platform/internal/domain/model"
)

// DefaultBackgroundRows is how many leading dataset rows form the linear
// explainer's background sample.
const DefaultBackgroundRows = 100

// Explanation attributes a single prediction to the transformed features.
// For the forest values are in probability space; for the linear model they
// are in log-odds space.
type Explanation struct {
	Values    []float64
	BaseValue float64
}

// Explainer computes SHAP explanations for fitted pipelines.
type Explainer struct {
	BackgroundRows int
}

// NewExplainer creates an Explainer using at most backgroundRows rows of background data.
func NewExplainer(backgroundRows int) *Explainer {
	if backgroundRows <= 0 {
		backgroundRows = DefaultBackgroundRows
	}
	return &Explainer{BackgroundRows: backgroundRows}
}

// Explain attributes the prediction for row. Background rows are only read
// for the linear model. Unsupported classifiers yield an empty explanation.
func (e *Explainer) Explain(p *Pipeline, background []model.Customer, row model.Customer) (Explanation, error) {
	c := p.Classifier
	switch {
	case c.isForest():
		x, err := p.Preprocessor.TransformRow(row)
		if err != nil {
			return Explanation{}, model.Computation(err)
		}
		base, phi, err := c.Forest.SHAP(x)
		if err != nil {
			return Explanation{}, model.Computation(err)
		}
		return Explanation{BaseValue: base, Values: phi}, nil

	case c.isLogistic():
		x, err := p.Preprocessor.TransformRow(row)
		if err != nil {
			return Explanation{}, model.Computation(err)
		}
		if len(background) > e.BackgroundRows {
			background = background[:e.BackgroundRows]
		}
		bg, err := p.Preprocessor.Transform(background)
		if err != nil {
			return Explanation{}, model.Computation(fmt.Errorf("background: %w", err))
		}
		return linearSHAP(c.Logistic, bg, x)

	default:
		return Explanation{Values: []float64{}}, nil
	}
}

// linearSHAP computes φᵢ = wᵢ(xᵢ − μᵢ) with base value w·μ + b, where μ is
// the background column mean.
func linearSHAP(m *LogisticRegression, background *mat.Dense, x []float64) (Explanation, error) {
	_, d := background.Dims()
	if d != len(m.Coef) || len(x) != d {
		return Explanation{}, model.Computation(
			fmt.Errorf("feature width mismatch: background %d, row %d, model %d", d, len(x), len(m.Coef)))
	}

	mu := make([]float64, d)
	for j := range d {
		mu[j] = stat.Mean(mat.Col(nil, j, background), nil)
	}

	values := make([]float64, d)
	floats.SubTo(values, x, mu)
	floats.Mul(values, m.Coef)

	return Explanation{
		BaseValue: floats.Dot(m.Coef, mu) + m.Intercept,
		Values:    values,
	}, nil
}
