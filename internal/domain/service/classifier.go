package service

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/sairam-cyber/customer-churn-prediction-platform/internal/domain/valueobject"
)

// ErrUnsupportedClassifier is returned when a classifier kind has no implementation.
var ErrUnsupportedClassifier = errors.New("unsupported classifier")

// DecisionThreshold is the class 1 probability above which Predict returns 1.
const DecisionThreshold = 0.5

// Classifier is a tagged union over the supported model families. Exactly
// one of Logistic or Forest is set for a known Kind.
type Classifier struct {
	Logistic *LogisticRegression   `json:"logistic,omitempty"`
	Forest   *RandomForest         `json:"forest,omitempty"`
	Kind     valueobject.ModelType `json:"kind"`
}

// NewClassifier returns an unfitted classifier of the given kind.
func NewClassifier(kind valueobject.ModelType, forest ForestConfig) (*Classifier, error) {
	switch {
	case kind.Equal(valueobject.ModelTypeLogisticRegression):
		return &Classifier{Kind: kind, Logistic: NewLogisticRegression()}, nil
	case kind.Equal(valueobject.ModelTypeRandomForest):
		return &Classifier{Kind: kind, Forest: NewRandomForest(forest)}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedClassifier, kind.String())
	}
}

// Fit trains the underlying model.
func (c *Classifier) Fit(x mat.Matrix, y []int) error {
	switch {
	case c.isLogistic():
		return c.Logistic.Fit(x, y)
	case c.isForest():
		return c.Forest.Fit(x, y)
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedClassifier, c.Kind.String())
	}
}

// PredictProba returns P(class 1) for a transformed row.
func (c *Classifier) PredictProba(row []float64) (float64, error) {
	switch {
	case c.isLogistic():
		return c.Logistic.PredictProba(row)
	case c.isForest():
		return c.Forest.PredictProba(row)
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnsupportedClassifier, c.Kind.String())
	}
}

// Predict thresholds PredictProba at 0.5.
func (c *Classifier) Predict(row []float64) (int, error) {
	p, err := c.PredictProba(row)
	if err != nil {
		return 0, err
	}
	if p > DecisionThreshold {
		return 1, nil
	}
	return 0, nil
}

// Importances returns one score per feature: absolute coefficients for the
// linear model, mean impurity decrease for the forest, nil otherwise.
func (c *Classifier) Importances() []float64 {
	switch {
	case c.isLogistic():
		return c.Logistic.Importances()
	case c.isForest():
		return c.Forest.Importances()
	default:
		return nil
	}
}

func (c *Classifier) isLogistic() bool {
	return c.Kind.Equal(valueobject.ModelTypeLogisticRegression) && c.Logistic != nil
}

func (c *Classifier) isForest() bool {
	return c.Kind.Equal(valueobject.ModelTypeRandomForest) && c.Forest != nil
}
