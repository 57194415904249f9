package dataset

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/gocarina/gocsv"

	"github.com/sairam-cyber/customer-churn-prediction-platform/internal/domain/model"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// csvRow maps one line of the customer CSV. Columns absent from the file
// decode as zero values; the trainer reports them through the header.
type csvRow struct {
	RowNumber       string  `csv:"RowNumber"`
	CustomerID      string  `csv:"CustomerId"`
	Surname         string  `csv:"Surname"`
	Geography       string  `csv:"Geography"`
	Gender          string  `csv:"Gender"`
	Exited          string  `csv:"Exited"`
	CreditScore     float64 `csv:"CreditScore"`
	Age             float64 `csv:"Age"`
	Tenure          float64 `csv:"Tenure"`
	Balance         float64 `csv:"Balance"`
	NumOfProducts   float64 `csv:"NumOfProducts"`
	HasCrCard       float64 `csv:"HasCrCard"`
	IsActiveMember  float64 `csv:"IsActiveMember"`
	EstimatedSalary float64 `csv:"EstimatedSalary"`
}

// Decode parses a customer CSV with a header row. Malformed content is
// reported as a computation error.
func Decode(data []byte) (*model.Dataset, error) {
	data = bytes.TrimPrefix(data, utf8BOM)

	header, err := readHeader(data)
	if err != nil {
		return nil, model.Computation(err)
	}

	var rows []csvRow
	if err := gocsv.UnmarshalBytes(data, &rows); err != nil && !errors.Is(err, gocsv.ErrEmptyCSVFile) {
		return nil, model.Computation(fmt.Errorf("failed to decode dataset: %w", err))
	}

	customers := make([]model.Customer, len(rows))
	for i, row := range rows {
		exited, err := parseLabel(row.Exited)
		if err != nil {
			return nil, model.Computation(fmt.Errorf("row %d: %w", i+1, err))
		}
		customers[i] = model.Customer{
			RowNumber:       row.RowNumber,
			CustomerID:      row.CustomerID,
			Surname:         row.Surname,
			Geography:       row.Geography,
			Gender:          row.Gender,
			CreditScore:     row.CreditScore,
			Age:             row.Age,
			Tenure:          row.Tenure,
			Balance:         row.Balance,
			NumOfProducts:   row.NumOfProducts,
			HasCrCard:       row.HasCrCard,
			IsActiveMember:  row.IsActiveMember,
			EstimatedSalary: row.EstimatedSalary,
			Exited:          exited,
		}
	}

	return &model.Dataset{Columns: header, Customers: customers}, nil
}

func readHeader(data []byte) ([]string, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1
	header, err := r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("dataset is empty")
		}
		return nil, fmt.Errorf("failed to read dataset header: %w", err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}
	return header, nil
}

// parseLabel accepts 0/1 in integer, float or boolean spelling. A blank
// label decodes as 0 so inference-only files still load.
func parseLabel(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	if b, err := strconv.ParseBool(s); err == nil {
		if b {
			return 1, nil
		}
		return 0, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || (f != 0 && f != 1) {
		return 0, fmt.Errorf("invalid Exited value %q", s)
	}
	return int(f), nil
}
