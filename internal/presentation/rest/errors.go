package rest

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sairam-cyber/customer-churn-prediction-platform/internal/domain/model"
)

const notFoundMessage = "Dataset or model not found for the given ID."

// ErrorResponse is the JSON body of every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
}

// mapError translates a use case error into an HTTP status and message.
// Server-side failures during training are prefixed with the operation.
func mapError(operation string, err error) (int, string) {
	switch {
	case errors.Is(err, model.ErrMissingParameter), errors.Is(err, model.ErrInvalidParameter):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, model.ErrNotFound):
		return http.StatusNotFound, notFoundMessage
	}

	message := err.Error()
	var schemaErr *model.SchemaError
	if errors.As(err, &schemaErr) {
		message = schemaErr.Error()
	}
	if operation != "" {
		message = "An error occurred during " + operation + ": " + message
	}
	return http.StatusInternalServerError, message
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

func writeJSONError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorResponse{Error: message})
}
