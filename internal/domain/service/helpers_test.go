package service_test

import (
	"fmt"
	"math"
	"math/rand/v2"
	"strconv"

	"github.com/sairam-cyber/customer-churn-prediction-platform/internal/domain/model"
)

var (
	geographies = []string{"France", "Germany", "Spain"}
	genders     = []string{"Female", "Male"}
)

// syntheticDataset builds n customers whose churn depends mostly on age,
// activity and geography.
func syntheticDataset(n int, seed uint64) *model.Dataset {
	rng := rand.New(rand.NewPCG(seed, 7))
	customers := make([]model.Customer, n)
	for i := range n {
		age := math.Round(18 + rng.Float64()*60)
		active := float64(rng.IntN(2))
		geo := geographies[rng.IntN(len(geographies))]

		score := -6 + 0.12*age - 1.2*active + rng.NormFloat64()*0.5
		if geo == "Germany" {
			score += 0.8
		}
		exited := 0
		if score > 0 {
			exited = 1
		}

		customers[i] = model.Customer{
			RowNumber:       strconv.Itoa(i + 1),
			CustomerID:      strconv.Itoa(15600000 + i),
			Surname:         fmt.Sprintf("Customer%d", i),
			CreditScore:     math.Round(350 + rng.Float64()*500),
			Geography:       geo,
			Gender:          genders[rng.IntN(len(genders))],
			Age:             age,
			Tenure:          float64(rng.IntN(11)),
			Balance:         math.Round(rng.Float64() * 200000),
			NumOfProducts:   float64(1 + rng.IntN(4)),
			HasCrCard:       float64(rng.IntN(2)),
			IsActiveMember:  active,
			EstimatedSalary: math.Round(rng.Float64() * 200000),
			Exited:          exited,
		}
	}
	return &model.Dataset{Columns: datasetColumns(), Customers: customers}
}

func datasetColumns() []string {
	schema := model.DefaultFeatureSchema()
	cols := append([]string{}, schema.Identity...)
	return append(cols, schema.RequiredColumns()...)
}
