package service

import "fmt"

// ConfusionMatrix counts binary outcomes with class 1 as positive.
type ConfusionMatrix struct {
	TruePositive  int
	FalsePositive int
	TrueNegative  int
	FalseNegative int
}

// NewConfusionMatrix tallies predictions against labels.
func NewConfusionMatrix(yTrue, yPred []int) (ConfusionMatrix, error) {
	if len(yTrue) != len(yPred) {
		return ConfusionMatrix{}, fmt.Errorf("label count %d does not match prediction count %d", len(yTrue), len(yPred))
	}

	var cm ConfusionMatrix
	for i, actual := range yTrue {
		switch {
		case actual == 1 && yPred[i] == 1:
			cm.TruePositive++
		case actual == 1:
			cm.FalseNegative++
		case yPred[i] == 1:
			cm.FalsePositive++
		default:
			cm.TrueNegative++
		}
	}
	return cm, nil
}

// Total returns the number of tallied rows.
func (c ConfusionMatrix) Total() int {
	return c.TruePositive + c.FalsePositive + c.TrueNegative + c.FalseNegative
}

// Accuracy returns the share of correct predictions, 0 when empty.
func (c ConfusionMatrix) Accuracy() float64 {
	return safeDiv(float64(c.TruePositive+c.TrueNegative), float64(c.Total()))
}

// Precision returns TP/(TP+FP), 0 when nothing was predicted positive.
func (c ConfusionMatrix) Precision() float64 {
	return safeDiv(float64(c.TruePositive), float64(c.TruePositive+c.FalsePositive))
}

// Recall returns TP/(TP+FN), 0 when there are no positive labels.
func (c ConfusionMatrix) Recall() float64 {
	return safeDiv(float64(c.TruePositive), float64(c.TruePositive+c.FalseNegative))
}

// F1 returns the harmonic mean of precision and recall, 0 when both are 0.
func (c ConfusionMatrix) F1() float64 {
	p, r := c.Precision(), c.Recall()
	return safeDiv(2*p*r, p+r)
}

func safeDiv(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return num / den
}
