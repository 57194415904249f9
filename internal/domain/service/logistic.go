package service

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Logistic regression defaults.
const (
	DefaultLogisticC       = 1.0
	DefaultLogisticMaxIter = 100
	DefaultLogisticTol     = 1e-8
)

// LogisticRegression is an L2-regularized binary logistic model. The
// intercept is not penalized.
type LogisticRegression struct {
	Coef      []float64 `json:"coef"`
	Intercept float64   `json:"intercept"`
	C         float64   `json:"c"`
	MaxIter   int       `json:"max_iter"`
	Tol       float64   `json:"tol"`
	Iters     int       `json:"iters"`
}

// NewLogisticRegression returns an unfitted model with default hyperparameters.
func NewLogisticRegression() *LogisticRegression {
	return &LogisticRegression{
		C:       DefaultLogisticC,
		MaxIter: DefaultLogisticMaxIter,
		Tol:     DefaultLogisticTol,
	}
}

// Fit minimizes ½‖w‖² + C·Σ logloss with Newton steps (IRLS).
func (m *LogisticRegression) Fit(x mat.Matrix, y []int) error {
	n, d := x.Dims()
	if n == 0 {
		return fmt.Errorf("cannot fit logistic regression on zero rows")
	}
	if len(y) != n {
		return fmt.Errorf("label count %d does not match row count %d", len(y), n)
	}
	if !hasBothClasses(y) {
		return errors.New("logistic regression needs samples of both classes")
	}

	c := m.C
	if c <= 0 {
		c = DefaultLogisticC
	}
	maxIter := m.MaxIter
	if maxIter <= 0 {
		maxIter = DefaultLogisticMaxIter
	}
	tol := m.Tol
	if tol <= 0 {
		tol = DefaultLogisticTol
	}

	// Augment with a trailing column of ones for the intercept.
	xa := mat.NewDense(n, d+1, nil)
	xa.Copy(x)
	for i := range n {
		xa.Set(i, d, 1)
	}

	target := make([]float64, n)
	for i, v := range y {
		target[i] = float64(v)
	}

	beta := mat.NewVecDense(d+1, nil)
	p := mat.NewVecDense(n, nil)
	resid := mat.NewVecDense(n, nil)
	w := make([]float64, n)
	var z, grad, step mat.VecDense
	var weighted, hess mat.Dense

	m.Iters = 0
	for iter := 0; iter < maxIter; iter++ {
		z.MulVec(xa, beta)
		for i := range n {
			pi := sigmoid(z.AtVec(i))
			p.SetVec(i, pi)
			resid.SetVec(i, pi-target[i])
			w[i] = pi * (1 - pi)
		}

		weighted.Apply(func(i, _ int, v float64) float64 { return v * w[i] }, xa)
		hess.Mul(xa.T(), &weighted)
		hess.Scale(c, &hess)

		grad.MulVec(xa.T(), resid)
		grad.ScaleVec(c, &grad)

		for j := range d {
			hess.Set(j, j, hess.At(j, j)+1)
			grad.SetVec(j, grad.AtVec(j)+beta.AtVec(j))
		}

		if err := step.SolveVec(&hess, &grad); err != nil {
			var cond mat.Condition
			if !errors.As(err, &cond) {
				return fmt.Errorf("newton step %d: %w", iter, err)
			}
		}
		beta.SubVec(beta, &step)
		m.Iters = iter + 1

		if mat.Norm(&step, math.Inf(1)) < tol {
			break
		}
	}

	m.Coef = make([]float64, d)
	for j := range d {
		m.Coef[j] = beta.AtVec(j)
	}
	m.Intercept = beta.AtVec(d)
	return nil
}

// DecisionFunction returns the log-odds of class 1 for a transformed row.
func (m *LogisticRegression) DecisionFunction(row []float64) (float64, error) {
	if len(row) != len(m.Coef) {
		return 0, fmt.Errorf("row has %d features, model expects %d", len(row), len(m.Coef))
	}
	return floats.Dot(m.Coef, row) + m.Intercept, nil
}

// PredictProba returns P(class 1) for a transformed row.
func (m *LogisticRegression) PredictProba(row []float64) (float64, error) {
	z, err := m.DecisionFunction(row)
	if err != nil {
		return 0, err
	}
	return sigmoid(z), nil
}

// Importances returns the absolute value of each coefficient.
func (m *LogisticRegression) Importances() []float64 {
	out := make([]float64, len(m.Coef))
	for i, c := range m.Coef {
		out[i] = math.Abs(c)
	}
	return out
}

func sigmoid(z float64) float64 {
	if z >= 0 {
		return 1 / (1 + math.Exp(-z))
	}
	e := math.Exp(z)
	return e / (1 + e)
}

func hasBothClasses(y []int) bool {
	var zero, one bool
	for _, v := range y {
		switch v {
		case 0:
			zero = true
		case 1:
			one = true
		}
	}
	return zero && one
}
