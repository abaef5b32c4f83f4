// Package linear provides a linear regression estimator trained with batch
// gradient descent.
//
// The model holds one weight per feature and a bias. Training runs a fixed
// number of full-batch epochs; every epoch predicts on the whole training
// set, computes the mean-squared-error gradient and takes one step of size
// learningRate. There is no regularization, momentum or early stopping.
//
// Example usage:
//
//	lr := linear.NewLinearRegression(2, 0.01)
//	history, err := lr.Train(X, y, 100) // X: N×2 features, y: N targets
//	if err != nil {
//		log.Fatal(err)
//	}
//	predictions, err := lr.Predict(XTest)
//	fmt.Println(lr.RSquared(predictions, yTest))
//
// Inputs are validated before any epoch runs, so a failed Train never leaves
// the model half-updated by bad shapes. Divergence (NaN or Inf in the
// residuals) stops training with a *errors.NumericalError that carries the
// losses recorded so far.
//
// Feature scaling is the caller's job; see the preprocessing package.
package linear

import (
	"bytes"
	"encoding/gob"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/ezoic/gdlinear/core/model"
	"github.com/ezoic/gdlinear/core/parallel"
	"github.com/ezoic/gdlinear/metrics"
	"github.com/ezoic/gdlinear/pkg/errors"
	"github.com/ezoic/gdlinear/pkg/log"
)

const (
	modelType = "LinearRegression"

	// DefaultEpochs is the number of epochs Fit runs unless WithEpochs is given.
	DefaultEpochs = 1000

	// Rows above this count are predicted in parallel.
	parallelThreshold = 1000
)

var (
	_ model.Fitter         = (*LinearRegression)(nil)
	_ model.Predictor      = (*LinearRegression)(nil)
	_ model.LinearModel    = (*LinearRegression)(nil)
	_ model.WeightExporter = (*LinearRegression)(nil)
)

// LinearRegression is a linear model y = X·Weights + Bias trained by batch
// gradient descent.
type LinearRegression struct {
	// Weights has one entry per feature. Its length is fixed at
	// construction.
	Weights *mat.VecDense
	Bias    float64

	// State tracks whether training has completed.
	State *model.StateManager

	learningRate float64
	epochs       int
	history      []float64
	logger       log.Logger
}

// Option configures a LinearRegression.
type Option func(*LinearRegression)

// WithEpochs sets the number of epochs Fit runs. Train takes its epoch count
// as an argument and ignores this setting.
func WithEpochs(epochs int) Option {
	return func(lr *LinearRegression) {
		lr.epochs = epochs
	}
}

// WithLogger replaces the default "linear" logger.
func WithLogger(logger log.Logger) Option {
	return func(lr *LinearRegression) {
		if logger != nil {
			lr.logger = logger
		}
	}
}

// NewLinearRegression creates a model for nFeatures features with all
// weights and the bias set to zero. The learning rate is stored as given and
// never changes afterwards.
//
// Example:
//
//	lr := linear.NewLinearRegression(3, 0.05, linear.WithEpochs(500))
func NewLinearRegression(nFeatures int, learningRate float64, opts ...Option) *LinearRegression {
	weights := &mat.VecDense{}
	if nFeatures > 0 {
		weights = mat.NewVecDense(nFeatures, nil)
	}

	lr := &LinearRegression{
		Weights:      weights,
		State:        model.NewStateManager(),
		learningRate: learningRate,
		epochs:       DefaultEpochs,
		logger:       log.GetLoggerWithName("linear"),
	}
	for _, opt := range opts {
		opt(lr)
	}

	lr.logger = lr.logger.With(log.ModelNameKey, modelType)
	return lr
}

// Predict returns X·Weights + Bias, one value per row of X. X must have
// exactly as many columns as the model has weights. A matrix without rows
// yields an empty vector.
//
// Example:
//
//	pred, err := lr.Predict(mat.NewDense(2, 2, []float64{1, 2, 3, 4}))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(pred.AtVec(0))
func (lr *LinearRegression) Predict(X mat.Matrix) (_ *mat.VecDense, err error) {
	defer errors.Recover(&err, "LinearRegression.Predict")

	r, c := X.Dims()
	if c != lr.nFeatures() {
		return nil, errors.NewDimensionMismatch("LinearRegression.Predict", lr.nFeatures(), c, "prediction")
	}
	if r == 0 {
		return &mat.VecDense{}, nil
	}

	out := make([]float64, r)
	lr.predictInto(out, X, lr.GetWeights())

	lr.log().Debug("Prediction completed",
		log.OperationKey, log.OperationPredict,
		log.PhaseKey, log.PhaseInference,
		log.PredsKey, r,
	)
	return mat.NewVecDense(r, out), nil
}

// PredictMatrix is Predict returning an N×1 matrix.
func (lr *LinearRegression) PredictMatrix(X mat.Matrix) (mat.Matrix, error) {
	pred, err := lr.Predict(X)
	if err != nil {
		return nil, err
	}
	if pred.Len() == 0 {
		return &mat.Dense{}, nil
	}
	return mat.NewDense(pred.Len(), 1, pred.RawVector().Data), nil
}

// predictInto writes one prediction per row of X into dst. The caller has
// already checked the shapes.
func (lr *LinearRegression) predictInto(dst []float64, X mat.Matrix, w []float64) {
	bias := lr.Bias
	_, c := X.Dims()

	if d, ok := X.(*mat.Dense); ok {
		parallel.ParallelizeWithThreshold(len(dst), parallelThreshold, func(start, end int) {
			for i := start; i < end; i++ {
				dst[i] = floats.Dot(d.RawRowView(i), w) + bias
			}
		})
		return
	}

	parallel.ParallelizeWithThreshold(len(dst), parallelThreshold, func(start, end int) {
		for i := start; i < end; i++ {
			sum := 0.0
			for j := 0; j < c; j++ {
				sum += X.At(i, j) * w[j]
			}
			dst[i] = sum + bias
		}
	})
}

// Train runs exactly epochs epochs of batch gradient descent on (X, y) and
// returns the mean squared error of the predictions made at the start of
// each epoch.
//
// Inputs are checked before anything is updated, in this order:
//   - rows(X) must equal len(y) (DimensionMismatchError, "sample count")
//   - columns(X) must equal len(Weights) (DimensionMismatchError, "feature count")
//   - X must have at least one row (ErrEmptyData)
//
// If the residuals or the updated parameters become NaN or Inf, training
// stops with a *errors.NumericalError and a nil history; the error carries
// the losses of the epochs that completed. Weights and bias then hold the values from the
// last completed epoch. epochs <= 0 returns an empty history and leaves the
// model unchanged.
//
// Example:
//
//	history, err := lr.Train(X, y, 100)
//	var numErr *errors.NumericalError
//	if errors.As(err, &numErr) {
//	    fmt.Println("diverged at epoch", numErr.Epoch)
//	}
func (lr *LinearRegression) Train(X mat.Matrix, y *mat.VecDense, epochs int) (_ []float64, err error) {
	defer errors.Recover(&err, "LinearRegression.Train")

	r, c := X.Dims()
	yLen := 0
	if y != nil {
		yLen = y.Len()
	}

	if r != yLen {
		return nil, errors.NewDimensionMismatch("LinearRegression.Train", r, yLen, "sample count")
	}
	if c != lr.nFeatures() {
		return nil, errors.NewDimensionMismatch("LinearRegression.Train", lr.nFeatures(), c, "feature count")
	}
	if r == 0 {
		return nil, errors.NewModelError("LinearRegression.Train", "empty data", errors.ErrEmptyData)
	}

	startTime := time.Now()
	logger := lr.log()
	logger.Debug("Training started",
		log.OperationKey, log.OperationTrain,
		log.PhaseKey, log.PhaseTraining,
		log.SamplesKey, r,
		log.FeaturesKey, c,
		log.EpochsKey, epochs,
		log.LearningRateKey, lr.learningRate,
	)

	history := make([]float64, 0, max(epochs, 0))
	if epochs <= 0 {
		return history, nil
	}

	target := vecData(y)
	n := float64(r)

	// Buffers reused across epochs.
	pred := make([]float64, r)
	residuals := mat.NewVecDense(r, nil)
	resData := residuals.RawVector().Data
	var grad *mat.VecDense
	if c > 0 {
		grad = mat.NewVecDense(c, nil)
	}
	w := lr.GetWeights()
	next := make([]float64, c)

	for epoch := 0; epoch < epochs; epoch++ {
		lr.predictInto(pred, X, w)
		floats.SubTo(resData, pred, target)

		if err := errors.CheckNumericalStability("LinearRegression.Train", resData, epoch, history); err != nil {
			return nil, lr.diverged(logger, epoch, err)
		}

		if grad != nil {
			grad.MulVec(X.T(), residuals)
			for j := range w {
				next[j] = w[j] - lr.learningRate*(grad.AtVec(j)/n)
			}
		}
		bias := lr.Bias - lr.learningRate*(floats.Sum(resData)/n)

		// An overflowing step is rejected before it reaches the model.
		if err := errors.CheckNumericalStability("LinearRegression.Train", next, epoch, history); err != nil {
			return nil, lr.diverged(logger, epoch, err)
		}
		if err := errors.CheckScalar("LinearRegression.Train", bias, epoch, history); err != nil {
			return nil, lr.diverged(logger, epoch, err)
		}

		for j, v := range next {
			w[j] = v
			lr.Weights.SetVec(j, v)
		}
		lr.Bias = bias

		history = append(history, metrics.MSELoss(pred, target))
	}

	lr.history = append([]float64(nil), history...)
	lr.State.RecordTraining(c, r, epochs)

	logger.Debug("Training completed",
		log.OperationKey, log.OperationTrain,
		log.PhaseKey, log.PhaseTraining,
		log.EpochsKey, epochs,
		log.LossKey, history[len(history)-1],
		log.DurationMsKey, time.Since(startTime).Milliseconds(),
	)
	return history, nil
}

func (lr *LinearRegression) diverged(logger log.Logger, epoch int, err error) error {
	logger.Warn("Training diverged",
		log.OperationKey, log.OperationTrain,
		log.EpochKey, epoch,
		log.ErrorCodeKey, log.ErrorNumerical,
	)
	return err
}

// Fit trains for the configured number of epochs (WithEpochs, default
// DefaultEpochs). y may be a *mat.VecDense or any single-column matrix. The
// loss history is available afterwards from LossHistory.
func (lr *LinearRegression) Fit(X, y mat.Matrix) (err error) {
	defer errors.Recover(&err, "LinearRegression.Fit")

	yVec, err := toVec(y)
	if err != nil {
		return err
	}
	_, err = lr.Train(X, yVec, lr.epochs)
	return err
}

// Score returns R² of the model's predictions on X against y.
func (lr *LinearRegression) Score(X mat.Matrix, y *mat.VecDense) (_ float64, err error) {
	defer errors.Recover(&err, "LinearRegression.Score")

	pred, err := lr.Predict(X)
	if err != nil {
		return 0, err
	}
	score, err := metrics.R2Score(y, pred)
	if err != nil {
		return 0, err
	}

	lr.log().Debug("Score computed",
		log.OperationKey, log.OperationScore,
		log.R2ScoreKey, score,
	)
	return score, nil
}

// MSELoss returns the mean squared error between predictions and targets.
// See metrics.MSELoss.
func (lr *LinearRegression) MSELoss(predictions, targets *mat.VecDense) float64 {
	return metrics.MSELoss(vecData(predictions), vecData(targets))
}

// RSquared returns the coefficient of determination of predictions against
// targets. See metrics.RSquared.
func (lr *LinearRegression) RSquared(predictions, targets *mat.VecDense) float64 {
	return metrics.RSquared(vecData(predictions), vecData(targets))
}

// GetWeights returns a copy of the weights.
func (lr *LinearRegression) GetWeights() []float64 {
	return vecData(lr.Weights)
}

// GetBias returns the bias.
func (lr *LinearRegression) GetBias() float64 {
	return lr.Bias
}

// LearningRate returns the step size given at construction.
func (lr *LinearRegression) LearningRate() float64 {
	return lr.learningRate
}

// LossHistory returns a copy of the history of the last successful training
// run, or nil if there was none.
func (lr *LinearRegression) LossHistory() []float64 {
	if lr.history == nil {
		return nil
	}
	return append([]float64(nil), lr.history...)
}

// IsFitted returns whether Train or Fit has completed successfully.
func (lr *LinearRegression) IsFitted() bool {
	return lr.State != nil && lr.State.IsFitted()
}

// GetParams returns the model's hyperparameters.
func (lr *LinearRegression) GetParams() map[string]interface{} {
	return map[string]interface{}{
		"n_features":    lr.nFeatures(),
		"learning_rate": lr.learningRate,
		"epochs":        lr.epochs,
		"fitted":        lr.IsFitted(),
	}
}

// ExportWeights returns the model parameters in serializable form.
func (lr *LinearRegression) ExportWeights() (*model.ModelWeights, error) {
	state := model.ModelState{}
	if lr.State != nil {
		state = lr.State.GetState()
	}
	return &model.ModelWeights{
		ModelType:    modelType,
		Version:      model.WeightsFormatVersion,
		Coefficients: lr.GetWeights(),
		Intercept:    lr.Bias,
		Hyperparameters: map[string]float64{
			"learning_rate": lr.learningRate,
			"epochs":        float64(lr.epochs),
		},
		State: state,
	}, nil
}

// ImportWeights overwrites weights, bias and fitted state with w. The number
// of coefficients must match the model's feature count. The learning rate is
// not imported.
func (lr *LinearRegression) ImportWeights(w *model.ModelWeights) error {
	if err := w.Validate(lr.nFeatures()); err != nil {
		return err
	}
	if w.ModelType != modelType {
		return errors.NewValueError("LinearRegression.ImportWeights",
			"model type mismatch: expected "+modelType+", got "+w.ModelType)
	}

	for j, v := range w.Coefficients {
		lr.Weights.SetVec(j, v)
	}
	lr.Bias = w.Intercept
	if lr.State == nil {
		lr.State = model.NewStateManager()
	}
	lr.State.SetState(w.State)
	return nil
}

// GobEncode implements gob.GobEncoder so the model can be stored with
// model.SaveModel.
func (lr *LinearRegression) GobEncode() ([]byte, error) {
	w, err := lr.ExportWeights()
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(w); err != nil {
		return nil, errors.Wrap(err, "failed to encode weights")
	}
	return buf.Bytes(), nil
}

// GobDecode implements gob.GobDecoder. Decoding replaces the whole model,
// including its feature count and learning rate.
func (lr *LinearRegression) GobDecode(data []byte) error {
	var w model.ModelWeights
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&w); err != nil {
		return errors.Wrap(err, "failed to decode weights")
	}
	if err := w.Validate(-1); err != nil {
		return err
	}

	lr.Weights = &mat.VecDense{}
	if len(w.Coefficients) > 0 {
		lr.Weights = mat.NewVecDense(len(w.Coefficients), append([]float64(nil), w.Coefficients...))
	}
	lr.Bias = w.Intercept
	lr.learningRate = w.Hyperparameters["learning_rate"]
	lr.epochs = DefaultEpochs
	if e, ok := w.Hyperparameters["epochs"]; ok {
		lr.epochs = int(e)
	}
	lr.history = nil
	if lr.State == nil {
		lr.State = model.NewStateManager()
	}
	lr.State.SetState(w.State)
	return nil
}

func (lr *LinearRegression) nFeatures() int {
	if lr.Weights == nil {
		return 0
	}
	return lr.Weights.Len()
}

func (lr *LinearRegression) log() log.Logger {
	if lr.logger == nil {
		lr.logger = log.GetLoggerWithName("linear").With(log.ModelNameKey, modelType)
	}
	return lr.logger
}

// vecData copies v into a new slice. A nil or empty vector gives an empty
// slice.
func vecData(v *mat.VecDense) []float64 {
	if v == nil {
		return []float64{}
	}
	out := make([]float64, v.Len())
	for i := range out {
		out[i] = v.AtVec(i)
	}
	return out
}

func toVec(y mat.Matrix) (*mat.VecDense, error) {
	if v, ok := y.(*mat.VecDense); ok {
		return v, nil
	}
	r, c := y.Dims()
	if c != 1 {
		return nil, errors.NewValueError("LinearRegression.Fit", "y must be a column vector")
	}
	if r == 0 {
		return &mat.VecDense{}, nil
	}
	return mat.NewVecDense(r, mat.Col(nil, 0, y)), nil
}
