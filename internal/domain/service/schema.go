package service

import (
	"github.com/sairam-cyber/customer-churn-prediction-platform/internal/domain/model"
)

// ValidateColumns checks that header carries every column needed for
// training. It returns a *model.SchemaError listing the missing columns.
func ValidateColumns(schema model.FeatureSchema, header []string) error {
	if missing := schema.MissingColumns(header); len(missing) > 0 {
		return model.NewSchemaError(missing)
	}
	return nil
}

// ValidateFeatures checks that a single record supplies every feature field.
func ValidateFeatures(schema model.FeatureSchema, fields []string) error {
	if missing := schema.MissingFeatures(fields); len(missing) > 0 {
		return model.NewSchemaError(missing)
	}
	return nil
}
