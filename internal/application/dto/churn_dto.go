package dto

import (
	"github.com/sairam-cyber/customer-churn-prediction-platform/internal/domain/model"
	"github.com/sairam-cyber/customer-churn-prediction-platform/internal/domain/service"
	"github.com/sairam-cyber/customer-churn-prediction-platform/internal/domain/valueobject"
)

// TrainRequest is the input DTO for the TrainModel use case.
type TrainRequest struct {
	ModelType string
	Dataset   []byte
}

// TrainResponse is returned after a model is trained on a new dataset.
type TrainResponse struct {
	Message  string  `json:"message"`
	ModelID  string  `json:"model_id"`
	Accuracy float64 `json:"accuracy"`
}

// RetrainRequest is the input DTO for the RetrainModel use case.
type RetrainRequest struct {
	ModelID   string `json:"model_id"`
	ModelType string `json:"modelType"`
}

// RetrainResponse is returned after a model is refit on its stored dataset.
type RetrainResponse struct {
	Message  string  `json:"message"`
	Accuracy float64 `json:"accuracy"`
}

// ModelRequest identifies the model an analytics query runs against.
type ModelRequest struct {
	ModelID string `json:"model_id"`
}

// ShapValues is the wire form of a prediction explanation.
type ShapValues struct {
	Values       []float64 `json:"values"`
	FeatureNames []string  `json:"featureNames"`
	BaseValue    float64   `json:"baseValue"`
}

// PredictResponse is the output DTO for a single prediction.
type PredictResponse struct {
	RecommendedStrategy string     `json:"recommendedStrategy"`
	ShapValues          ShapValues `json:"shapValues"`
	ChurnProbability    float64    `json:"churnProbability"`
}

// HighRiskCustomer is a dashboard row with the columns the predictor form needs.
type HighRiskCustomer struct {
	CustomerID       Identity `json:"CustomerId"`
	Surname          string   `json:"Surname"`
	Geography        string   `json:"Geography"`
	Gender           string   `json:"Gender"`
	CreditScore      float64  `json:"CreditScore"`
	Age              float64  `json:"Age"`
	Tenure           float64  `json:"Tenure"`
	Balance          float64  `json:"Balance"`
	NumOfProducts    float64  `json:"NumOfProducts"`
	HasCrCard        float64  `json:"HasCrCard"`
	IsActiveMember   float64  `json:"IsActiveMember"`
	EstimatedSalary  float64  `json:"EstimatedSalary"`
	ChurnProbability float64  `json:"ChurnProbability"`
}

// DashboardResponse summarizes the stored dataset of a model.
type DashboardResponse struct {
	HighRiskCustomers []HighRiskCustomer `json:"highRiskCustomers"`
	TotalCustomers    int                `json:"totalCustomers"`
	ChurnedCustomers  int                `json:"churnedCustomers"`
	ChurnRate         float64            `json:"churnRate"`
}

// Metrics holds held-out classification metrics.
type Metrics struct {
	Accuracy  float64 `json:"accuracy"`
	Precision float64 `json:"precision"`
	Recall    float64 `json:"recall"`
	F1Score   float64 `json:"f1_score"`
}

// ConfusionMatrix is the wire form of a binary confusion matrix.
type ConfusionMatrix struct {
	TruePositive  int `json:"truePositive"`
	FalsePositive int `json:"falsePositive"`
	TrueNegative  int `json:"trueNegative"`
	FalseNegative int `json:"falseNegative"`
}

// PerformanceResponse is the output DTO for performance statistics.
type PerformanceResponse struct {
	Metrics         Metrics         `json:"metrics"`
	ConfusionMatrix ConfusionMatrix `json:"confusionMatrix"`
}

// ChurnFactorsResponse maps the top features to their importance.
type ChurnFactorsResponse struct {
	ChurnFactors map[string]float64 `json:"churnFactors"`
}

// SegmentationResponse maps each risk segment label to a row count.
type SegmentationResponse struct {
	Segmentation map[string]int `json:"segmentation"`
}

// FromExplanation maps an explanation and its feature names to the wire form.
func FromExplanation(exp service.Explanation, featureNames []string) ShapValues {
	values := exp.Values
	if values == nil {
		values = []float64{}
	}
	names := featureNames
	if names == nil {
		names = []string{}
	}
	return ShapValues{BaseValue: exp.BaseValue, Values: values, FeatureNames: names}
}

// FromDashboard maps dashboard statistics to the response DTO.
func FromDashboard(stats service.DashboardStats) DashboardResponse {
	rows := make([]HighRiskCustomer, len(stats.HighRiskCustomers))
	for i, s := range stats.HighRiskCustomers {
		rows[i] = fromCustomer(s.Customer, s.ChurnProbability)
	}
	return DashboardResponse{
		TotalCustomers:    stats.TotalCustomers,
		ChurnedCustomers:  stats.ChurnedCustomers,
		ChurnRate:         stats.ChurnRate,
		HighRiskCustomers: rows,
	}
}

func fromCustomer(c model.Customer, probability float64) HighRiskCustomer {
	return HighRiskCustomer{
		CustomerID:       Identity(c.CustomerID),
		Surname:          c.Surname,
		CreditScore:      c.CreditScore,
		Geography:        c.Geography,
		Gender:           c.Gender,
		Age:              c.Age,
		Tenure:           c.Tenure,
		Balance:          c.Balance,
		NumOfProducts:    c.NumOfProducts,
		HasCrCard:        c.HasCrCard,
		IsActiveMember:   c.IsActiveMember,
		EstimatedSalary:  c.EstimatedSalary,
		ChurnProbability: probability,
	}
}

// FromPerformance maps performance statistics to the response DTO.
func FromPerformance(stats service.PerformanceStats) PerformanceResponse {
	return PerformanceResponse{
		Metrics: Metrics{
			Accuracy:  stats.Accuracy,
			Precision: stats.Precision,
			Recall:    stats.Recall,
			F1Score:   stats.F1,
		},
		ConfusionMatrix: ConfusionMatrix{
			TruePositive:  stats.Confusion.TruePositive,
			FalsePositive: stats.Confusion.FalsePositive,
			TrueNegative:  stats.Confusion.TrueNegative,
			FalseNegative: stats.Confusion.FalseNegative,
		},
	}
}

// FromChurnFactors maps ranked churn factors to the response DTO.
func FromChurnFactors(factors []service.ChurnFactor) ChurnFactorsResponse {
	out := make(map[string]float64, len(factors))
	for _, f := range factors {
		out[f.Feature] = f.Importance
	}
	return ChurnFactorsResponse{ChurnFactors: out}
}

// FromSegmentation maps segment counts to the response DTO.
func FromSegmentation(counts map[valueobject.RiskSegment]int) SegmentationResponse {
	out := make(map[string]int, len(counts))
	for seg, n := range counts {
		out[seg.String()] = n
	}
	return SegmentationResponse{Segmentation: out}
}
