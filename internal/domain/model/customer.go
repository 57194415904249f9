package model

import (
	"fmt"
	"slices"
)

// Column names of the customer dataset.
const (
	ColumnRowNumber       = "RowNumber"
	ColumnCustomerID      = "CustomerId"
	ColumnSurname         = "Surname"
	ColumnCreditScore     = "CreditScore"
	ColumnGeography       = "Geography"
	ColumnGender          = "Gender"
	ColumnAge             = "Age"
	ColumnTenure          = "Tenure"
	ColumnBalance         = "Balance"
	ColumnNumOfProducts   = "NumOfProducts"
	ColumnHasCrCard       = "HasCrCard"
	ColumnIsActiveMember  = "IsActiveMember"
	ColumnEstimatedSalary = "EstimatedSalary"
	ColumnExited          = "Exited"
)

// FeatureSchema describes which columns feed the model and in what order.
type FeatureSchema struct {
	// Order is the positional feature sequence handed to the preprocessor.
	Order []string
	// Numeric columns are standardized.
	Numeric []string
	// Categorical columns are one-hot encoded.
	Categorical []string
	// Identity columns are carried for display and never used as features.
	Identity []string
	// Target is the binary label column present in training data.
	Target string
}

// DefaultFeatureSchema returns the bank-customer churn schema.
func DefaultFeatureSchema() FeatureSchema {
	return FeatureSchema{
		Order: []string{
			ColumnCreditScore, ColumnGeography, ColumnGender, ColumnAge, ColumnTenure,
			ColumnBalance, ColumnNumOfProducts, ColumnHasCrCard, ColumnIsActiveMember,
			ColumnEstimatedSalary,
		},
		Numeric: []string{
			ColumnCreditScore, ColumnAge, ColumnTenure, ColumnBalance, ColumnNumOfProducts,
			ColumnHasCrCard, ColumnIsActiveMember, ColumnEstimatedSalary,
		},
		Categorical: []string{ColumnGeography, ColumnGender},
		Identity:    []string{ColumnRowNumber, ColumnCustomerID, ColumnSurname},
		Target:      ColumnExited,
	}
}

// RequiredColumns returns every column a training dataset must carry.
func (s FeatureSchema) RequiredColumns() []string {
	cols := make([]string, 0, len(s.Order)+1)
	cols = append(cols, s.Order...)
	return append(cols, s.Target)
}

// MissingColumns returns the required columns absent from header, sorted.
func (s FeatureSchema) MissingColumns(header []string) []string {
	return missingFrom(s.RequiredColumns(), header)
}

// MissingFeatures returns the feature columns absent from fields, sorted.
// The target column is not required at inference time.
func (s FeatureSchema) MissingFeatures(fields []string) []string {
	return missingFrom(s.Order, fields)
}

func missingFrom(required, present []string) []string {
	missing := make([]string, 0)
	for _, col := range required {
		if !slices.Contains(present, col) {
			missing = append(missing, col)
		}
	}
	slices.Sort(missing)
	return missing
}

// Customer is a single row of the customer dataset.
type Customer struct {
	RowNumber       string
	CustomerID      string
	Surname         string
	Geography       string
	Gender          string
	CreditScore     float64
	Age             float64
	Tenure          float64
	Balance         float64
	NumOfProducts   float64
	HasCrCard       float64
	IsActiveMember  float64
	EstimatedSalary float64
	Exited          int
}

// Numeric returns the value of a numeric feature column.
func (c Customer) Numeric(column string) (float64, error) {
	switch column {
	case ColumnCreditScore:
		return c.CreditScore, nil
	case ColumnAge:
		return c.Age, nil
	case ColumnTenure:
		return c.Tenure, nil
	case ColumnBalance:
		return c.Balance, nil
	case ColumnNumOfProducts:
		return c.NumOfProducts, nil
	case ColumnHasCrCard:
		return c.HasCrCard, nil
	case ColumnIsActiveMember:
		return c.IsActiveMember, nil
	case ColumnEstimatedSalary:
		return c.EstimatedSalary, nil
	default:
		return 0, fmt.Errorf("column %q is not numeric", column)
	}
}

// Categorical returns the value of a categorical feature column.
func (c Customer) Categorical(column string) (string, error) {
	switch column {
	case ColumnGeography:
		return c.Geography, nil
	case ColumnGender:
		return c.Gender, nil
	default:
		return "", fmt.Errorf("column %q is not categorical", column)
	}
}

// SetNumeric assigns a numeric feature column.
func (c *Customer) SetNumeric(column string, v float64) error {
	switch column {
	case ColumnCreditScore:
		c.CreditScore = v
	case ColumnAge:
		c.Age = v
	case ColumnTenure:
		c.Tenure = v
	case ColumnBalance:
		c.Balance = v
	case ColumnNumOfProducts:
		c.NumOfProducts = v
	case ColumnHasCrCard:
		c.HasCrCard = v
	case ColumnIsActiveMember:
		c.IsActiveMember = v
	case ColumnEstimatedSalary:
		c.EstimatedSalary = v
	default:
		return fmt.Errorf("column %q is not numeric", column)
	}
	return nil
}

// SetCategorical assigns a categorical feature column.
func (c *Customer) SetCategorical(column, v string) error {
	switch column {
	case ColumnGeography:
		c.Geography = v
	case ColumnGender:
		c.Gender = v
	default:
		return fmt.Errorf("column %q is not categorical", column)
	}
	return nil
}

// Dataset is a parsed customer table together with its header.
type Dataset struct {
	Columns   []string
	Customers []Customer
}

// Len returns the number of rows.
func (d *Dataset) Len() int {
	return len(d.Customers)
}

// Labels returns the Exited label of every row.
func (d *Dataset) Labels() []int {
	labels := make([]int, len(d.Customers))
	for i, c := range d.Customers {
		labels[i] = c.Exited
	}
	return labels
}

// Churned counts the rows labelled Exited=1.
func (d *Dataset) Churned() int {
	n := 0
	for _, c := range d.Customers {
		if c.Exited == 1 {
			n++
		}
	}
	return n
}

// Head returns at most the first n rows.
func (d *Dataset) Head(n int) []Customer {
	if n > len(d.Customers) {
		n = len(d.Customers)
	}
	return d.Customers[:n]
}

// Subset returns the rows at the given indices, in index order.
func (d *Dataset) Subset(indices []int) ([]Customer, []int) {
	rows := make([]Customer, len(indices))
	labels := make([]int, len(indices))
	for i, idx := range indices {
		rows[i] = d.Customers[idx]
		labels[i] = d.Customers[idx].Exited
	}
	return rows, labels
}
