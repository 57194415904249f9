package service

import (
	"fmt"
	"slices"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/sairam-cyber/customer-churn-prediction-platform/internal/domain/model"
)

// Preprocessor standardizes numeric columns and one-hot encodes categorical
// columns. It is fitted once on training rows and reused unchanged for
// evaluation and inference.
type Preprocessor struct {
	Numeric     []string   `json:"numeric"`
	Categorical []string   `json:"categorical"`
	Means       []float64  `json:"means"`
	Scales      []float64  `json:"scales"`
	Categories  [][]string `json:"categories"`
}

// FitPreprocessor learns means, population standard deviations and sorted
// category sets from rows.
func FitPreprocessor(schema model.FeatureSchema, rows []model.Customer) (*Preprocessor, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("cannot fit preprocessor on zero rows")
	}

	p := &Preprocessor{
		Numeric:     slices.Clone(schema.Numeric),
		Categorical: slices.Clone(schema.Categorical),
		Means:       make([]float64, len(schema.Numeric)),
		Scales:      make([]float64, len(schema.Numeric)),
		Categories:  make([][]string, len(schema.Categorical)),
	}

	col := make([]float64, len(rows))
	for j, name := range p.Numeric {
		for i, row := range rows {
			v, err := row.Numeric(name)
			if err != nil {
				return nil, err
			}
			col[i] = v
		}
		mean, std := stat.PopMeanStdDev(col, nil)
		p.Means[j] = mean
		p.Scales[j] = std
		if std == 0 {
			p.Scales[j] = 1
		}
	}

	for j, name := range p.Categorical {
		seen := make(map[string]struct{})
		for _, row := range rows {
			v, err := row.Categorical(name)
			if err != nil {
				return nil, err
			}
			seen[v] = struct{}{}
		}
		cats := make([]string, 0, len(seen))
		for v := range seen {
			cats = append(cats, v)
		}
		slices.Sort(cats)
		p.Categories[j] = cats
	}

	return p, nil
}

// Width returns the number of output features.
func (p *Preprocessor) Width() int {
	w := len(p.Numeric)
	for _, cats := range p.Categories {
		w += len(cats)
	}
	return w
}

// FeatureNames returns output names: numeric columns first, then
// <column>_<category> for every learned category.
func (p *Preprocessor) FeatureNames() []string {
	names := make([]string, 0, p.Width())
	names = append(names, p.Numeric...)
	for j, name := range p.Categorical {
		for _, cat := range p.Categories[j] {
			names = append(names, name+"_"+cat)
		}
	}
	return names
}

// TransformRow encodes a single customer. Unknown categories encode as all zeros.
func (p *Preprocessor) TransformRow(c model.Customer) ([]float64, error) {
	out := make([]float64, p.Width())
	if err := p.transformInto(c, out); err != nil {
		return nil, err
	}
	return out, nil
}

// Transform encodes rows into an n x Width matrix.
func (p *Preprocessor) Transform(rows []model.Customer) (*mat.Dense, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("cannot transform zero rows")
	}

	width := p.Width()
	data := make([]float64, len(rows)*width)
	for i, row := range rows {
		if err := p.transformInto(row, data[i*width:(i+1)*width]); err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
	}
	return mat.NewDense(len(rows), width, data), nil
}

func (p *Preprocessor) transformInto(c model.Customer, out []float64) error {
	if len(p.Means) != len(p.Numeric) || len(p.Scales) != len(p.Numeric) ||
		len(p.Categories) != len(p.Categorical) {
		return fmt.Errorf("preprocessor state is inconsistent")
	}

	for j, name := range p.Numeric {
		v, err := c.Numeric(name)
		if err != nil {
			return err
		}
		out[j] = (v - p.Means[j]) / p.Scales[j]
	}

	offset := len(p.Numeric)
	for j, name := range p.Categorical {
		v, err := c.Categorical(name)
		if err != nil {
			return err
		}
		cats := p.Categories[j]
		for k := range cats {
			out[offset+k] = 0
		}
		if k, ok := slices.BinarySearch(cats, v); ok {
			out[offset+k] = 1
		}
		offset += len(cats)
	}
	return nil
}
