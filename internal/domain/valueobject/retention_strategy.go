package valueobject

// RetentionStrategy is an immutable value object naming the recommended
// retention action for a customer.
type RetentionStrategy struct {
	priority string
	label    string
}

var (
	StrategyHighPriority = RetentionStrategy{
		priority: "HIGH",
		label:    "High Priority: premium discount + personalized loyalty bonus",
	}
	StrategyMediumPriority = RetentionStrategy{
		priority: "MEDIUM",
		label:    "Medium Priority: targeted email campaigns",
	}
	StrategyLowPriority = RetentionStrategy{
		priority: "LOW",
		label:    "Low Priority: monitor + general marketing",
	}
)

// StrategyFromProbability maps a churn probability to a retention strategy.
// Both thresholds are exclusive: 0.75 is Medium and 0.5 is Low.
func StrategyFromProbability(p float64) RetentionStrategy {
	switch {
	case p > 0.75:
		return StrategyHighPriority
	case p > 0.5:
		return StrategyMediumPriority
	default:
		return StrategyLowPriority
	}
}

// String returns the human-readable recommendation.
func (s RetentionStrategy) String() string {
	return s.label
}

// Priority returns HIGH, MEDIUM or LOW.
func (s RetentionStrategy) Priority() string {
	return s.priority
}

// Equal checks equality with another RetentionStrategy.
func (s RetentionStrategy) Equal(other RetentionStrategy) bool {
	return s.priority == other.priority
}
