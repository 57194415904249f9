package valueobject

import (
	"fmt"
	"math"
)

// Segment boundaries on churn probability. The lowest bucket includes 0.
const (
	LowRiskUpperBound    = 0.35
	MediumRiskUpperBound = 0.7
	HighRiskUpperBound   = 1.0
)

// RiskSegment is an immutable value object bucketing customers by churn probability.
type RiskSegment struct {
	value string
}

var (
	RiskSegmentLow    = RiskSegment{value: "Low Risk"}
	RiskSegmentMedium = RiskSegment{value: "Medium Risk"}
	RiskSegmentHigh   = RiskSegment{value: "High Risk"}
)

// RiskSegments lists every segment from lowest to highest risk.
func RiskSegments() []RiskSegment {
	return []RiskSegment{RiskSegmentLow, RiskSegmentMedium, RiskSegmentHigh}
}

// RiskSegmentFromString reconstructs a RiskSegment from its label.
func RiskSegmentFromString(s string) (RiskSegment, error) {
	switch s {
	case "Low Risk":
		return RiskSegmentLow, nil
	case "Medium Risk":
		return RiskSegmentMedium, nil
	case "High Risk":
		return RiskSegmentHigh, nil
	default:
		return RiskSegment{}, fmt.Errorf("invalid risk segment: %s", s)
	}
}

// RiskSegmentFromProbability buckets p into [0, 0.35], (0.35, 0.7], (0.7, 1.0].
// Probabilities outside [0, 1] fall in no bucket and yield the zero segment.
func RiskSegmentFromProbability(p float64) RiskSegment {
	switch {
	case math.IsNaN(p) || p < 0 || p > HighRiskUpperBound:
		return RiskSegment{}
	case p <= LowRiskUpperBound:
		return RiskSegmentLow
	case p <= MediumRiskUpperBound:
		return RiskSegmentMedium
	default:
		return RiskSegmentHigh
	}
}

// String returns the segment label.
func (r RiskSegment) String() string {
	return r.value
}

// IsZero returns true if the segment has not been set.
func (r RiskSegment) IsZero() bool {
	return r.value == ""
}

// Equal checks equality with another RiskSegment.
func (r RiskSegment) Equal(other RiskSegment) bool {
	return r.value == other.value
}
