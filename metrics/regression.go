// Package metrics provides evaluation metrics for regression models.
//
// Two layers are offered:
//
//   - MSELoss and RSquared work on plain slices and never return an error.
//     Like gonum/floats they panic when the two inputs differ in length, and
//     they encode degenerate inputs in the returned value (+Inf for the MSE
//     of nothing, NaN for the R² of nothing).
//   - MSE, RMSE, MAE, R2Score, MAPE and ExplainedVarianceScore take
//     *mat.VecDense and report empty or mismatched inputs as errors.
//
// Example usage:
//
//	loss := metrics.MSELoss(pred, y)
//	r2 := metrics.RSquared(pred, y)
//
//	// checked variants
//	mse, err := metrics.MSE(yTrue, yPred)
//	r2, err := metrics.R2Score(yTrue, yPred)
//
// When the targets have zero variance R² is undefined. RSquared and R2Score
// then return 1.0 for a perfect fit and 0.0 otherwise, raising an
// UndefinedMetricWarning through errors.Warn in the second case.
package metrics

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/ezoic/gdlinear/pkg/errors"
)

// MSELoss returns the mean of the squared element-wise differences between
// yPred and yTrue. Empty inputs give +Inf. It panics with a
// *errors.DimensionMismatchError if the lengths differ.
func MSELoss(yPred, yTrue []float64) float64 {
	mustSameLength("MSELoss", yPred, yTrue)
	if len(yPred) == 0 {
		return math.Inf(1)
	}

	var sum float64
	for i, p := range yPred {
		diff := p - yTrue[i]
		sum += diff * diff
	}
	return sum / float64(len(yPred))
}

// RSquared returns the coefficient of determination 1 − SS_res/SS_tot of
// yPred against yTrue. Empty inputs give NaN. It panics with a
// *errors.DimensionMismatchError if the lengths differ.
//
// If yTrue is constant, the result is 1.0 when every prediction matches and
// 0.0 otherwise; the latter also raises an UndefinedMetricWarning.
func RSquared(yPred, yTrue []float64) float64 {
	mustSameLength("RSquared", yPred, yTrue)
	if len(yTrue) == 0 {
		return math.NaN()
	}

	mean := stat.Mean(yTrue, nil)
	var ssRes, ssTot float64
	for i, t := range yTrue {
		res := t - yPred[i]
		dev := t - mean
		ssRes += res * res
		ssTot += dev * dev
	}

	if ssTot == 0 {
		if ssRes == 0 {
			return 1.0
		}
		errors.Warn(errors.NewUndefinedMetricWarning("R^2", "constant target values", 0.0))
		return 0.0
	}
	return 1 - ssRes/ssTot
}

// MSE calculates the Mean Squared Error between true and predicted values.
//
// Errors:
//   - ValueError: if the vectors are empty
//   - DimensionMismatchError: if yTrue and yPred have different lengths
//
// Example:
//
//	mse, err := metrics.MSE(yTrue, yPred)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("MSE: %.4f\n", mse)
func MSE(yTrue, yPred *mat.VecDense) (_ float64, err error) {
	defer errors.Recover(&err, "MSE")

	t, p, err := checkedPair("MSE", yTrue, yPred)
	if err != nil {
		return 0, err
	}
	return MSELoss(p, t), nil
}

// MSEMatrix is MSE for n×1 matrices.
func MSEMatrix(yTrue, yPred mat.Matrix) (float64, error) {
	rTrue, cTrue := yTrue.Dims()
	rPred, cPred := yPred.Dims()

	if rTrue == 0 || cTrue == 0 {
		return 0, errors.NewValueError("MSEMatrix", "empty matrix")
	}
	if cTrue != 1 || cPred != 1 {
		return 0, errors.NewValueError("MSEMatrix", "must be a column vector (n×1 matrix)")
	}
	if rTrue != rPred {
		return 0, errors.NewDimensionMismatch("MSEMatrix", rTrue, rPred, "predictions and targets")
	}

	return MSE(
		mat.NewVecDense(rTrue, mat.Col(nil, 0, yTrue)),
		mat.NewVecDense(rPred, mat.Col(nil, 0, yPred)),
	)
}

// RMSE is the square root of MSE, in the units of the target.
func RMSE(yTrue, yPred *mat.VecDense) (float64, error) {
	mse, err := MSE(yTrue, yPred)
	if err != nil {
		return 0, err
	}
	return math.Sqrt(mse), nil
}

// MAE calculates the Mean Absolute Error between true and predicted values.
// It is less sensitive to outliers than MSE.
func MAE(yTrue, yPred *mat.VecDense) (_ float64, err error) {
	defer errors.Recover(&err, "MAE")

	t, p, err := checkedPair("MAE", yTrue, yPred)
	if err != nil {
		return 0, err
	}
	diff := make([]float64, len(t))
	floats.SubTo(diff, t, p)
	return floats.Norm(diff, 1) / float64(len(t)), nil
}

// R2Score calculates the coefficient of determination (R²).
//
// Values range from negative infinity to 1, where 1 indicates perfect
// predictions and 0 indicates predictions no better than the mean. A
// constant yTrue is handled as in RSquared.
//
// Errors:
//   - ValueError: if the vectors are empty
//   - DimensionMismatchError: if yTrue and yPred have different lengths
//
// Example:
//
//	r2, err := metrics.R2Score(yTrue, yPred)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("R² Score: %.4f\n", r2)
func R2Score(yTrue, yPred *mat.VecDense) (_ float64, err error) {
	defer errors.Recover(&err, "R2Score")

	t, p, err := checkedPair("R2Score", yTrue, yPred)
	if err != nil {
		return 0, err
	}
	return RSquared(p, t), nil
}

// MAPE calculates the Mean Absolute Percentage Error as a percentage.
// Samples whose true value is zero are skipped; an error is returned if all
// of them are zero.
func MAPE(yTrue, yPred *mat.VecDense) (_ float64, err error) {
	defer errors.Recover(&err, "MAPE")

	t, p, err := checkedPair("MAPE", yTrue, yPred)
	if err != nil {
		return 0, err
	}

	var sum float64
	validCount := 0
	for i, tv := range t {
		if tv == 0 {
			continue
		}
		sum += math.Abs(tv-p[i]) / math.Abs(tv)
		validCount++
	}

	if validCount == 0 {
		return 0, errors.NewValueError("MAPE", "all yTrue values are zero")
	}
	return (sum / float64(validCount)) * 100, nil
}

// ExplainedVarianceScore returns 1 − Var(yTrue − yPred)/Var(yTrue). Unlike
// R² it ignores a constant offset in the predictions. A constant yTrue is
// handled as in RSquared.
func ExplainedVarianceScore(yTrue, yPred *mat.VecDense) (_ float64, err error) {
	defer errors.Recover(&err, "ExplainedVarianceScore")

	t, p, err := checkedPair("ExplainedVarianceScore", yTrue, yPred)
	if err != nil {
		return 0, err
	}

	diff := make([]float64, len(t))
	floats.SubTo(diff, t, p)

	// population variances
	_, varTrue := stat.PopMeanVariance(t, nil)
	_, varDiff := stat.PopMeanVariance(diff, nil)

	if varTrue == 0 {
		if varDiff == 0 {
			return 1.0, nil
		}
		errors.Warn(errors.NewUndefinedMetricWarning("explained variance", "constant target values", 0.0))
		return 0.0, nil
	}
	return 1 - varDiff/varTrue, nil
}

func mustSameLength(op string, yPred, yTrue []float64) {
	if len(yPred) != len(yTrue) {
		panic(&errors.DimensionMismatchError{
			Op:       op,
			Expected: len(yTrue),
			Found:    len(yPred),
			Context:  "predictions and targets",
		})
	}
}

// checkedPair validates a (yTrue, yPred) pair and returns copies of both.
func checkedPair(op string, yTrue, yPred *mat.VecDense) ([]float64, []float64, error) {
	t, p := vecData(yTrue), vecData(yPred)
	if len(t) == 0 {
		return nil, nil, errors.NewValueError(op, "empty vector")
	}
	if len(p) != len(t) {
		return nil, nil, errors.NewDimensionMismatch(op, len(t), len(p), "predictions and targets")
	}
	return t, p, nil
}

func vecData(v *mat.VecDense) []float64 {
	if v == nil {
		return nil
	}
	out := make([]float64, v.Len())
	for i := range out {
		out[i] = v.AtVec(i)
	}
	return out
}
