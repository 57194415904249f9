package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/sairam-cyber/customer-churn-prediction-platform/internal/domain/model"
	"github.com/sairam-cyber/customer-churn-prediction-platform/internal/domain/service"
	"github.com/sairam-cyber/customer-churn-prediction-platform/internal/domain/valueobject"
	"github.com/sairam-cyber/customer-churn-prediction-platform/internal/infrastructure/dataset"
)

// File names inside a model directory.
const (
	ModelFile    = "churn_model.json"
	DatasetFile  = "dataset.csv"
	FeaturesFile = "churn_model_features.json"
)

const (
	dirPerm  = 0o755
	filePerm = 0o644
)

// artifactRecord is the on-disk form of churn_model.json.
type artifactRecord struct {
	Metadata artifactMetadata  `json:"metadata"`
	Pipeline *service.Pipeline `json:"pipeline"`
}

type artifactMetadata struct {
	CreatedAt time.Time             `json:"created_at"`
	TrainedAt time.Time             `json:"trained_at"`
	ModelType valueobject.ModelType `json:"model_type"`
	Accuracy  float64               `json:"accuracy"`
	Rows      int                   `json:"rows"`
	Version   int                   `json:"version"`
	ID        uuid.UUID             `json:"id"`
}

// ArtifactRepository implements port.ArtifactRepository on the local
// filesystem, one directory per model identifier.
type ArtifactRepository struct {
	root string
}

// NewArtifactRepository creates a repository rooted at dir, creating it if needed.
func NewArtifactRepository(dir string) (*ArtifactRepository, error) {
	if err := os.MkdirAll(dir, dirPerm); err != nil {
		return nil, fmt.Errorf("failed to create models directory: %w", err)
	}
	return &ArtifactRepository{root: dir}, nil
}

// Root returns the models directory.
func (r *ArtifactRepository) Root() string {
	return r.root
}

// Ready reports whether the models directory is present and writable.
func (r *ArtifactRepository) Ready(_ context.Context) error {
	info, err := os.Stat(r.root)
	if err != nil {
		return fmt.Errorf("models directory unavailable: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("models path %s is not a directory", r.root)
	}
	probe, err := os.CreateTemp(r.root, ".ready-*")
	if err != nil {
		return fmt.Errorf("models directory not writable: %w", err)
	}
	name := probe.Name()
	probe.Close()
	return os.Remove(name)
}

// SaveDataset writes the uploaded dataset verbatim.
func (r *ArtifactRepository) SaveDataset(_ context.Context, id uuid.UUID, data []byte) error {
	dir := r.dir(id)
	if err := os.MkdirAll(dir, dirPerm); err != nil {
		return fmt.Errorf("failed to create model directory: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, DatasetFile), data, filePerm); err != nil {
		return fmt.Errorf("failed to write dataset: %w", err)
	}
	return nil
}

// LoadDataset reads and decodes the stored dataset.
func (r *ArtifactRepository) LoadDataset(_ context.Context, id uuid.UUID) (*model.Dataset, error) {
	data, err := os.ReadFile(filepath.Join(r.dir(id), DatasetFile))
	if err != nil {
		return nil, notFound(err, "dataset", id)
	}
	ds, err := dataset.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode dataset: %w", err)
	}
	return ds, nil
}

// Save writes the fitted pipeline with its metadata and the feature names.
func (r *ArtifactRepository) Save(_ context.Context, artifact *model.ModelArtifact, pipeline *service.Pipeline) error {
	dir := r.dir(artifact.ID())
	if err := os.MkdirAll(dir, dirPerm); err != nil {
		return fmt.Errorf("failed to create model directory: %w", err)
	}

	record := artifactRecord{
		Metadata: artifactMetadata{
			ID:        artifact.ID(),
			ModelType: artifact.ModelType(),
			Accuracy:  artifact.Accuracy(),
			Rows:      artifact.Rows(),
			Version:   artifact.Version(),
			CreatedAt: artifact.CreatedAt(),
			TrainedAt: artifact.TrainedAt(),
		},
		Pipeline: pipeline,
	}
	if err := writeJSON(filepath.Join(dir, ModelFile), record); err != nil {
		return fmt.Errorf("failed to write model: %w", err)
	}
	if err := writeJSON(filepath.Join(dir, FeaturesFile), artifact.FeatureNames()); err != nil {
		return fmt.Errorf("failed to write feature names: %w", err)
	}
	return nil
}

// Load reads a model. It fails with model.ErrNotFound unless both the model
// and its dataset are present. Feature names come from the features file,
// or from the fitted preprocessor when that file is missing or unreadable.
func (r *ArtifactRepository) Load(_ context.Context, id uuid.UUID) (*model.ModelArtifact, *service.Pipeline, error) {
	dir := r.dir(id)

	data, err := os.ReadFile(filepath.Join(dir, ModelFile))
	if err != nil {
		return nil, nil, notFound(err, "model", id)
	}
	if _, err := os.Stat(filepath.Join(dir, DatasetFile)); err != nil {
		return nil, nil, notFound(err, "dataset", id)
	}

	var record artifactRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, nil, model.Computation(fmt.Errorf("failed to decode model %s: %w", id, err))
	}
	if record.Pipeline == nil || record.Pipeline.Preprocessor == nil || record.Pipeline.Classifier == nil {
		return nil, nil, model.Computation(fmt.Errorf("model %s has no fitted pipeline", id))
	}

	names, err := readFeatureNames(filepath.Join(dir, FeaturesFile))
	if err != nil {
		names = record.Pipeline.FeatureNames()
	}

	meta := record.Metadata
	artifact := model.ReconstructModelArtifact(
		id,
		meta.ModelType,
		meta.Accuracy,
		meta.Rows,
		names,
		meta.Version,
		meta.CreatedAt,
		meta.TrainedAt,
	)
	return artifact, record.Pipeline, nil
}

func (r *ArtifactRepository) dir(id uuid.UUID) string {
	return filepath.Join(r.root, id.String())
}

func readFeatureNames(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var names []string
	if err := json.Unmarshal(data, &names); err != nil {
		return nil, err
	}
	if len(names) == 0 {
		return nil, errors.New("empty feature list")
	}
	return names, nil
}

func writeJSON(path string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, filePerm)
}

func notFound(err error, what string, id uuid.UUID) error {
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %s for id %s", model.ErrNotFound, what, id)
	}
	return fmt.Errorf("failed to read %s for id %s: %w", what, id, err)
}
