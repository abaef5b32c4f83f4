// Package dataset loads and generates regression datasets for gdlinear
// models.
//
// Two sources are supported: numeric CSV files (LoadCSV, ReadCSV) and a
// synthetic generator for noisy linear data (Synthetic). Both return a
// Dataset holding the feature matrix and target vector in the shapes the
// linear package expects.
package dataset

import (
	"gonum.org/v1/gonum/mat"

	"github.com/ezoic/gdlinear/pkg/errors"
)

// Dataset is a feature matrix with its target vector.
type Dataset struct {
	// X has one row per sample and one column per feature.
	X *mat.Dense
	// Y has one entry per row of X.
	Y *mat.VecDense

	FeatureNames []string
	TargetName   string

	// TrueWeights and TrueBias are the generating parameters of a
	// synthetic dataset. They are nil and zero for loaded data.
	TrueWeights []float64
	TrueBias    float64
}

// NumSamples returns the number of rows.
func (d *Dataset) NumSamples() int {
	r, _ := d.X.Dims()
	return r
}

// NumFeatures returns the number of feature columns.
func (d *Dataset) NumFeatures() int {
	_, c := d.X.Dims()
	return c
}

// Split returns the first ⌊fraction·N⌋ rows as the training set and the
// rest as the test set. Both parts must contain at least one row. The
// returned datasets copy their data.
func (d *Dataset) Split(fraction float64) (train, test *Dataset, err error) {
	if fraction <= 0 || fraction >= 1 {
		return nil, nil, errors.NewValueError("Dataset.Split", "fraction must be in (0, 1)")
	}

	n, c := d.X.Dims()
	nTrain := int(fraction * float64(n))
	if nTrain == 0 || nTrain == n {
		return nil, nil, errors.NewValueError("Dataset.Split",
			"split leaves one side empty")
	}

	part := func(from, to int) *Dataset {
		return &Dataset{
			X:            mat.DenseCopyOf(d.X.Slice(from, to, 0, c)),
			Y:            mat.VecDenseCopyOf(d.Y.SliceVec(from, to)),
			FeatureNames: d.FeatureNames,
			TargetName:   d.TargetName,
			TrueWeights:  d.TrueWeights,
			TrueBias:     d.TrueBias,
		}
	}
	return part(0, nTrain), part(nTrain, n), nil
}
