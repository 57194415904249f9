package valueobject

import "fmt"

// ModelType is an immutable value object selecting the classifier family.
type ModelType struct {
	value string
}

var (
	ModelTypeLogisticRegression = ModelType{value: "logistic_regression"}
	ModelTypeRandomForest       = ModelType{value: "random_forest"}
)

// ModelTypeFromString parses a request value. An empty string selects
// logistic regression.
func ModelTypeFromString(s string) (ModelType, error) {
	switch s {
	case "", "logistic_regression":
		return ModelTypeLogisticRegression, nil
	case "random_forest":
		return ModelTypeRandomForest, nil
	default:
		return ModelType{}, fmt.Errorf("invalid model type: %s", s)
	}
}

// String returns the string representation.
func (m ModelType) String() string {
	return m.value
}

// IsZero returns true if the model type has not been set.
func (m ModelType) IsZero() bool {
	return m.value == ""
}

// Equal checks equality with another ModelType.
func (m ModelType) Equal(other ModelType) bool {
	return m.value == other.value
}

// MarshalText implements encoding.TextMarshaler.
func (m ModelType) MarshalText() ([]byte, error) {
	return []byte(m.value), nil
}

// UnmarshalText keeps unrecognised values so that persisted artifacts written
// by other classifier families load and degrade instead of failing.
func (m *ModelType) UnmarshalText(text []byte) error {
	m.value = string(text)
	return nil
}
