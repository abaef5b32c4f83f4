// Package model provides the estimator interfaces, fitted-state tracking and
// weight serialization shared by gdlinear models.
//
// Trained parameters travel as ModelWeights, a JSON-friendly record that can
// be written with ModelWeights.WriteJSON or embedded in gob streams through
// SaveModel/LoadModel.
package model

import "gonum.org/v1/gonum/mat"

// Fitter is a model that can be trained on a feature matrix and a target
// column.
type Fitter interface {
	Fit(X, y mat.Matrix) error
}

// Predictor produces one prediction per row of X.
type Predictor interface {
	Predict(X mat.Matrix) (*mat.VecDense, error)
}

// LinearModel exposes the parameters of a model of the form X·w + b.
type LinearModel interface {
	GetWeights() []float64
	GetBias() float64
}

// WeightExporter moves trained parameters in and out of a model.
type WeightExporter interface {
	ExportWeights() (*ModelWeights, error)
	ImportWeights(weights *ModelWeights) error
}
