package usecase_test

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math"
	"math/rand/v2"
	"strconv"

	"github.com/google/uuid"

	"github.com/sairam-cyber/customer-churn-prediction-platform/internal/domain/model"
	"github.com/sairam-cyber/customer-churn-prediction-platform/internal/domain/service"
	"github.com/sairam-cyber/customer-churn-prediction-platform/pkg/events"
)

// --- Mock implementations ---

type mockArtifactRepository struct {
	// upload is what LoadDataset returns for datasets saved through SaveDataset.
	upload    *model.Dataset
	datasets  map[uuid.UUID]*model.Dataset
	artifacts map[uuid.UUID]*model.ModelArtifact
	pipelines map[uuid.UUID]*service.Pipeline
	saveFunc  func(ctx context.Context, artifact *model.ModelArtifact, pipeline *service.Pipeline) error
	saves     int
}

func newMockRepository(upload *model.Dataset) *mockArtifactRepository {
	return &mockArtifactRepository{
		upload:    upload,
		datasets:  make(map[uuid.UUID]*model.Dataset),
		artifacts: make(map[uuid.UUID]*model.ModelArtifact),
		pipelines: make(map[uuid.UUID]*service.Pipeline),
	}
}

func (m *mockArtifactRepository) SaveDataset(_ context.Context, id uuid.UUID, _ []byte) error {
	m.datasets[id] = m.upload
	return nil
}

func (m *mockArtifactRepository) LoadDataset(_ context.Context, id uuid.UUID) (*model.Dataset, error) {
	ds, ok := m.datasets[id]
	if !ok {
		return nil, model.ErrNotFound
	}
	return ds, nil
}

func (m *mockArtifactRepository) Save(ctx context.Context, artifact *model.ModelArtifact, pipeline *service.Pipeline) error {
	if m.saveFunc != nil {
		return m.saveFunc(ctx, artifact, pipeline)
	}
	m.saves++
	m.artifacts[artifact.ID()] = artifact
	m.pipelines[artifact.ID()] = pipeline
	return nil
}

func (m *mockArtifactRepository) Load(_ context.Context, id uuid.UUID) (*model.ModelArtifact, *service.Pipeline, error) {
	artifact, ok := m.artifacts[id]
	if !ok {
		return nil, nil, fmt.Errorf("%w for id %s", model.ErrNotFound, id)
	}
	if _, ok := m.datasets[id]; !ok {
		return nil, nil, fmt.Errorf("%w for id %s", model.ErrNotFound, id)
	}
	return artifact, m.pipelines[id], nil
}

type mockEventPublisher struct {
	publishedEvents []events.DomainEvent
	publishFunc     func(ctx context.Context, evts ...events.DomainEvent) error
}

func (m *mockEventPublisher) Publish(ctx context.Context, evts ...events.DomainEvent) error {
	if m.publishFunc != nil {
		return m.publishFunc(ctx, evts...)
	}
	m.publishedEvents = append(m.publishedEvents, evts...)
	return nil
}

// --- Fixtures ---

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testTrainer() *service.Trainer {
	cfg := service.DefaultTrainerConfig()
	cfg.Forest.Trees = 10
	return service.NewTrainer(cfg)
}

func datasetColumns() []string {
	schema := model.DefaultFeatureSchema()
	cols := append([]string{}, schema.Identity...)
	return append(cols, schema.RequiredColumns()...)
}

func customerDataset(n int, seed uint64) *model.Dataset {
	rng := rand.New(rand.NewPCG(seed, 3))
	geos := []string{"France", "Germany", "Spain"}
	customers := make([]model.Customer, n)
	for i := range n {
		age := math.Round(18 + rng.Float64()*60)
		active := float64(rng.IntN(2))
		exited := 0
		if -6+0.12*age-1.2*active+rng.NormFloat64()*0.5 > 0 {
			exited = 1
		}
		customers[i] = model.Customer{
			RowNumber:       strconv.Itoa(i + 1),
			CustomerID:      strconv.Itoa(15600000 + i),
			Surname:         "Customer" + strconv.Itoa(i),
			CreditScore:     math.Round(350 + rng.Float64()*500),
			Geography:       geos[rng.IntN(len(geos))],
			Gender:          []string{"Female", "Male"}[rng.IntN(2)],
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
