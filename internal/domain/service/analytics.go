package service

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/sairam-cyber/customer-churn-prediction-platform/internal/domain/model"
	"github.com/sairam-cyber/customer-churn-prediction-platform/internal/domain/valueobject"
)

// TopN bounds the high-risk customer list and the churn factor list.
const TopN = 5

// Decimal places used when reporting analytics.
const (
	RatePlaces        int32 = 2
	MetricPlaces      int32 = 4
	ProbabilityPlaces int32 = 4
)

// ScoredCustomer pairs a dataset row with its predicted churn probability.
type ScoredCustomer struct {
	Customer         model.Customer
	ChurnProbability float64
}

// DashboardStats summarizes a scored dataset.
type DashboardStats struct {
	HighRiskCustomers []ScoredCustomer
	TotalCustomers    int
	ChurnedCustomers  int
	ChurnRate         float64
}

// Dashboard counts churned rows and lists the TopN rows by predicted
// probability. Ties keep dataset order.
func Dashboard(p *Pipeline, ds *model.Dataset) (DashboardStats, error) {
	stats := DashboardStats{
		HighRiskCustomers: make([]ScoredCustomer, 0, TopN),
		TotalCustomers:    ds.Len(),
		ChurnedCustomers:  ds.Churned(),
	}
	if stats.TotalCustomers == 0 {
		return stats, nil
	}
	stats.ChurnRate = Round(float64(stats.ChurnedCustomers)/float64(stats.TotalCustomers)*100, RatePlaces)

	probs, err := p.PredictProba(ds.Customers)
	if err != nil {
		return DashboardStats{}, err
	}

	scored := make([]ScoredCustomer, len(probs))
	for i, prob := range probs {
		scored[i] = ScoredCustomer{Customer: ds.Customers[i], ChurnProbability: prob}
	}
	slices.SortStableFunc(scored, func(a, b ScoredCustomer) int {
		return cmp.Compare(b.ChurnProbability, a.ChurnProbability)
	})

	for _, s := range scored[:min(TopN, len(scored))] {
		s.ChurnProbability = Round(s.ChurnProbability, ProbabilityPlaces)
		stats.HighRiskCustomers = append(stats.HighRiskCustomers, s)
	}
	return stats, nil
}

// PerformanceStats holds held-out metrics rounded for reporting.
type PerformanceStats struct {
	Confusion ConfusionMatrix
	Accuracy  float64
	Precision float64
	Recall    float64
	F1        float64
}

// Performance re-derives the training split and reports metrics on its test rows.
func (t *Trainer) Performance(p *Pipeline, ds *model.Dataset) (PerformanceStats, error) {
	cm, err := t.Evaluate(p, ds)
	if err != nil {
		return PerformanceStats{}, err
	}
	return PerformanceStats{
		Confusion: cm,
		Accuracy:  Round(cm.Accuracy(), MetricPlaces),
		Precision: Round(cm.Precision(), MetricPlaces),
		Recall:    Round(cm.Recall(), MetricPlaces),
		F1:        Round(cm.F1(), MetricPlaces),
	}, nil
}

// ChurnFactor is a feature and its importance score.
type ChurnFactor struct {
	Feature    string
	Importance float64
}

// ChurnFactors returns the TopN features by importance, highest first.
// Unsupported classifiers yield no factors.
func ChurnFactors(c *Classifier, featureNames []string) ([]ChurnFactor, error) {
	importances := c.Importances()
	if importances == nil {
		return []ChurnFactor{}, nil
	}
	if len(importances) != len(featureNames) {
		return nil, model.Computation(fmt.Errorf(
			"model has %d importances for %d feature names", len(importances), len(featureNames)))
	}

	factors := make([]ChurnFactor, len(importances))
	for i, imp := range importances {
		factors[i] = ChurnFactor{Feature: featureNames[i], Importance: imp}
	}
	slices.SortStableFunc(factors, func(a, b ChurnFactor) int {
		return cmp.Compare(b.Importance, a.Importance)
	})
	return factors[:min(TopN, len(factors))], nil
}

// Segmentation counts rows per risk segment. Every segment is present.
func Segmentation(p *Pipeline, ds *model.Dataset) (map[valueobject.RiskSegment]int, error) {
	counts := make(map[valueobject.RiskSegment]int, 3)
	for _, seg := range valueobject.RiskSegments() {
		counts[seg] = 0
	}
	if ds.Len() == 0 {
		return counts, nil
	}

	probs, err := p.PredictProba(ds.Customers)
	if err != nil {
		return nil, err
	}
	for _, prob := range probs {
		if seg := valueobject.RiskSegmentFromProbability(prob); !seg.IsZero() {
			counts[seg]++
		}
	}
	return counts, nil
}
