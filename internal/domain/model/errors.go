package model

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrMissingParameter is returned when a required request parameter is absent.
	ErrMissingParameter = errors.New("missing parameter")

	// ErrInvalidParameter is returned when a request parameter has an unsupported value.
	ErrInvalidParameter = errors.New("invalid parameter")

	// ErrNotFound is returned when no usable artifact exists for an identifier.
	ErrNotFound = errors.New("dataset or model not found")

	// ErrComputation marks failures while transforming, scoring or explaining data.
	ErrComputation = errors.New("computation failed")
)

// SchemaError reports columns or fields that a dataset or record is missing.
type SchemaError struct {
	Missing []string
}

// Error implements the error interface.
func (e *SchemaError) Error() string {
	return fmt.Sprintf("missing required columns: {%s}", strings.Join(e.Missing, ", "))
}

// NewSchemaError builds a SchemaError for the given missing columns.
func NewSchemaError(missing []string) *SchemaError {
	cols := make([]string, len(missing))
	copy(cols, missing)
	return &SchemaError{Missing: cols}
}

// Computation wraps err so that errors.Is(err, ErrComputation) holds.
func Computation(err error) error {
	if err == nil || errors.Is(err, ErrComputation) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrComputation, err)
}
