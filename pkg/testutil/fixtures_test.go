package testutil_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sairam-cyber/customer-churn-prediction-platform/pkg/testutil"
)

func TestCustomerCSV(t *testing.T) {
	data := testutil.CustomerCSV(50, 1)

	lines := bytes.Split(bytes.TrimSpace(data), []byte("\n"))
	require.Len(t, lines, 51)
	assert.Equal(t,
		"RowNumber,CustomerId,Surname,CreditScore,Geography,Gender,Age,Tenure,Balance,NumOfProducts,HasCrCard,IsActiveMember,EstimatedSalary,Exited",
		string(lines[0]))

	assert.Equal(t, data, testutil.CustomerCSV(50, 1))
}

func TestCustomerRows_BothClasses(t *testing.T) {
	churned := 0
	rows := testutil.CustomerRows(300, 7)
	for _, r := range rows {
		churned += r.Exited
	}
	assert.Greater(t, churned, 0)
	assert.Less(t, churned, len(rows))
}
