// Package preprocessing provides feature scaling for gdlinear models.
//
// Gradient descent converges only when the learning rate is small relative to
// the curvature of the loss, and that curvature grows with the squared scale
// of the features. Standardizing features to zero mean and unit variance
// lets one learning rate work across datasets.
//
// Example usage:
//
//	scaler := preprocessing.NewStandardScaler(true, true)
//	XScaled, err := scaler.FitTransform(XTrain)
//	if err != nil {
//		log.Fatal(err)
//	}
//	XTestScaled, err := scaler.Transform(XTest)
package preprocessing

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/ezoic/gdlinear/core/model"
	"github.com/ezoic/gdlinear/pkg/errors"
	"github.com/ezoic/gdlinear/pkg/log"
)

// StandardScaler standardizes features to zero mean and unit variance using
// the population standard deviation of the training data.
type StandardScaler struct {
	State *model.StateManager

	// Mean holds the per-feature mean (zero when WithMean is false).
	Mean []float64

	// Scale holds the per-feature standard deviation (one when WithStd is
	// false or the feature is constant).
	Scale []float64

	NFeatures int

	WithMean bool
	WithStd  bool
}

// NewStandardScaler creates a StandardScaler.
//
// Parameters:
//   - withMean: center the data by subtracting the mean
//   - withStd: divide by the standard deviation
//
// Example:
//
//	// scale only, keep the original mean
//	scaler := preprocessing.NewStandardScaler(false, true)
func NewStandardScaler(withMean, withStd bool) *StandardScaler {
	return &StandardScaler{
		State:    model.NewStateManager(),
		WithMean: withMean,
		WithStd:  withStd,
	}
}

// NewStandardScalerDefault creates a StandardScaler that centers and scales.
func NewStandardScalerDefault() *StandardScaler {
	return NewStandardScaler(true, true)
}

// Fit computes the per-feature mean and standard deviation of X. Features
// whose standard deviation is below 1e-8 get a scale of 1.
func (s *StandardScaler) Fit(X mat.Matrix) (err error) {
	defer errors.Recover(&err, "StandardScaler.Fit")

	r, c := X.Dims()
	if r == 0 || c == 0 {
		return errors.NewModelError("StandardScaler.Fit", "empty data", errors.ErrEmptyData)
	}

	s.NFeatures = c
	s.Mean = make([]float64, c)
	s.Scale = make([]float64, c)

	col := make([]float64, r)
	for j := 0; j < c; j++ {
		mat.Col(col, j, X)
		mean, variance := stat.PopMeanVariance(col, nil)

		if s.WithMean {
			s.Mean[j] = mean
		}

		s.Scale[j] = 1.0
		if s.WithStd {
			if !s.WithMean {
				// spread around zero rather than the mean
				variance += mean * mean
			}
			if std := math.Sqrt(variance); std >= 1e-8 {
				s.Scale[j] = std
			}
		}
	}

	s.state().RecordTraining(c, r, 0)
	log.GetLoggerWithName("preprocessing").Debug("Scaler fitted",
		log.OperationKey, log.OperationTransform,
		log.PhaseKey, log.PhasePreprocessing,
		log.SamplesKey, r,
		log.FeaturesKey, c,
	)
	return nil
}

// Transform returns (X − Mean) / Scale as a new matrix.
func (s *StandardScaler) Transform(X mat.Matrix) (_ mat.Matrix, err error) {
	defer errors.Recover(&err, "StandardScaler.Transform")
	return s.apply("StandardScaler.Transform", X, func(v float64, j int) float64 {
		return (v - s.Mean[j]) / s.Scale[j]
	})
}

// FitTransform fits on X and returns X transformed.
func (s *StandardScaler) FitTransform(X mat.Matrix) (_ mat.Matrix, err error) {
	defer errors.Recover(&err, "StandardScaler.FitTransform")
	if err := s.Fit(X); err != nil {
		return nil, err
	}
	return s.Transform(X)
}

// InverseTransform returns X·Scale + Mean, undoing Transform.
func (s *StandardScaler) InverseTransform(X mat.Matrix) (_ mat.Matrix, err error) {
	defer errors.Recover(&err, "StandardScaler.InverseTransform")
	return s.apply("StandardScaler.InverseTransform", X, func(v float64, j int) float64 {
		return v*s.Scale[j] + s.Mean[j]
	})
}

func (s *StandardScaler) apply(op string, X mat.Matrix, fn func(v float64, j int) float64) (mat.Matrix, error) {
	if !s.IsFitted() {
		return nil, errors.NewModelError(op, "not fitted", errors.ErrNotFitted)
	}

	r, c := X.Dims()
	if c != s.NFeatures {
		return nil, errors.NewDimensionMismatch(op, s.NFeatures, c, "feature count")
	}

	result := mat.NewDense(r, c, nil)
	result.Apply(func(i, j int, _ float64) float64 {
		return fn(X.At(i, j), j)
	}, result)
	return result, nil
}

// IsFitted returns whether Fit has completed.
func (s *StandardScaler) IsFitted() bool {
	return s.State != nil && s.State.IsFitted()
}

// GetParams returns the scaler's settings.
func (s *StandardScaler) GetParams() map[string]interface{} {
	return map[string]interface{}{
		"with_mean": s.WithMean,
		"with_std":  s.WithStd,
	}
}

func (s *StandardScaler) String() string {
	if !s.IsFitted() {
		return fmt.Sprintf("StandardScaler(with_mean=%t, with_std=%t)", s.WithMean, s.WithStd)
	}
	return fmt.Sprintf("StandardScaler(with_mean=%t, with_std=%t, n_features=%d)",
		s.WithMean, s.WithStd, s.NFeatures)
}

func (s *StandardScaler) state() *model.StateManager {
	if s.State == nil {
		s.State = model.NewStateManager()
	}
	return s.State
}
