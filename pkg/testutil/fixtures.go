package testutil

import (
	"math"
	"math/rand/v2"
	"strconv"

	"github.com/gocarina/gocsv"
	"github.com/google/uuid"
)

// Fixed UUIDs for deterministic testing
var (
	TestModelID1 = uuid.MustParse("00000000-0000-0000-0000-000000000001")
	TestModelID2 = uuid.MustParse("00000000-0000-0000-0000-000000000002")
)

// CustomerRow is one line of a bank customer CSV, in file column order.
type CustomerRow struct {
	RowNumber       int     `csv:"RowNumber"`
	CustomerID      int     `csv:"CustomerId"`
	Surname         string  `csv:"Surname"`
	CreditScore     float64 `csv:"CreditScore"`
	Geography       string  `csv:"Geography"`
	Gender          string  `csv:"Gender"`
	Age             float64 `csv:"Age"`
	Tenure          float64 `csv:"Tenure"`
	Balance         float64 `csv:"Balance"`
	NumOfProducts   float64 `csv:"NumOfProducts"`
	HasCrCard       float64 `csv:"HasCrCard"`
	IsActiveMember  float64 `csv:"IsActiveMember"`
	EstimatedSalary float64 `csv:"EstimatedSalary"`
	Exited          int     `csv:"Exited"`
}

// CustomerRows generates n deterministic customers. Older inactive customers
// in Germany churn more often, so both model families can learn a signal.
func CustomerRows(n int, seed uint64) []CustomerRow {
	rng := rand.New(rand.NewPCG(seed, 0x5eed))
	geos := []string{"France", "Germany", "Spain"}
	genders := []string{"Female", "Male"}

	rows := make([]CustomerRow, n)
	for i := range rows {
		age := math.Round(18 + rng.Float64()*62)
		active := float64(rng.IntN(2))
		geo := geos[rng.IntN(len(geos))]

		logit := -5.5 + 0.11*age - 1.1*active + rng.NormFloat64()*0.6
		if geo == "Germany" {
			logit += 0.8
		}
		exited := 0
		if logit > 0 {
			exited = 1
		}

		rows[i] = CustomerRow{
			RowNumber:       i + 1,
			CustomerID:      15600000 + i,
			Surname:         "Customer" + strconv.Itoa(i+1),
			CreditScore:     math.Round(350 + rng.Float64()*500),
			Geography:       geo,
			Gender:          genders[rng.IntN(len(genders))],
			Age:             age,
			Tenure:          float64(rng.IntN(11)),
			Balance:         math.Round(rng.Float64()*250000*100) / 100,
			NumOfProducts:   float64(1 + rng.IntN(4)),
			HasCrCard:       float64(rng.IntN(2)),
			IsActiveMember:  active,
			EstimatedSalary: math.Round(rng.Float64()*200000*100) / 100,
			Exited:          exited,
		}
	}
	return rows
}

// CustomerCSV renders CustomerRows as a CSV file with a header row.
func CustomerCSV(n int, seed uint64) []byte {
	data, err := gocsv.MarshalBytes(CustomerRows(n, seed))
	if err != nil {
		panic("testutil: marshal customer csv: " + err.Error())
	}
	return data
}
