package dto

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/sairam-cyber/customer-churn-prediction-platform/internal/domain/model"
)

// PredictRequest carries a model identifier and one flat customer record.
type PredictRequest struct {
	Fields  map[string]json.RawMessage
	ModelID string
}

// UnmarshalJSON splits model_id from the customer fields.
func (r *PredictRequest) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if id, ok := raw["model_id"]; ok {
		if !isNull(id) {
			if err := json.Unmarshal(id, &r.ModelID); err != nil {
				return fmt.Errorf("model_id must be a string: %w", err)
			}
		}
		delete(raw, "model_id")
	}
	r.Fields = raw
	return nil
}

// Customer decodes the record against schema. Absent or null feature fields
// yield a *model.SchemaError; malformed values a computation error.
func (r PredictRequest) Customer(schema model.FeatureSchema) (model.Customer, error) {
	present := make([]string, 0, len(r.Fields))
	for name, raw := range r.Fields {
		if !isNull(raw) {
			present = append(present, name)
		}
	}
	if missing := schema.MissingFeatures(present); len(missing) > 0 {
		return model.Customer{}, model.NewSchemaError(missing)
	}

	var c model.Customer
	for _, col := range schema.Numeric {
		v, err := numberField(r.Fields[col])
		if err != nil {
			return model.Customer{}, model.Computation(fmt.Errorf("field %s: %w", col, err))
		}
		if err := c.SetNumeric(col, v); err != nil {
			return model.Customer{}, model.Computation(err)
		}
	}
	for _, col := range schema.Categorical {
		v, err := stringField(r.Fields[col])
		if err != nil {
			return model.Customer{}, model.Computation(fmt.Errorf("field %s: %w", col, err))
		}
		if err := c.SetCategorical(col, v); err != nil {
			return model.Customer{}, model.Computation(err)
		}
	}

	c.RowNumber, _ = stringField(r.Fields[model.ColumnRowNumber])
	c.CustomerID, _ = stringField(r.Fields[model.ColumnCustomerID])
	c.Surname, _ = stringField(r.Fields[model.ColumnSurname])
	return c, nil
}

// numberField accepts JSON numbers, booleans and numeric strings.
func numberField(raw json.RawMessage) (float64, error) {
	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return f, nil
	}
	var b bool
	if err := json.Unmarshal(raw, &b); err == nil {
		if b {
			return 1, nil
		}
		return 0, nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if f, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
			return f, nil
		}
	}
	return 0, fmt.Errorf("expected a number, got %s", raw)
}

// stringField accepts JSON strings and numbers.
func stringField(raw json.RawMessage) (string, error) {
	if len(raw) == 0 || isNull(raw) {
		return "", nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, nil
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String(), nil
	}
	return "", fmt.Errorf("expected a string, got %s", raw)
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

// Identity is a customer identifier read from a CSV cell. It marshals as a
// JSON number when the value is an integer and as a string otherwise.
type Identity string

// MarshalJSON implements json.Marshaler.
func (id Identity) MarshalJSON() ([]byte, error) {
	s := string(id)
	if _, err := strconv.ParseInt(s, 10, 64); err == nil {
		return []byte(s), nil
	}
	return json.Marshal(s)
}
