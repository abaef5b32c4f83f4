package metrics

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/ezoic/gdlinear/pkg/errors"
)

func TestMSELoss(t *testing.T) {
	tests := []struct {
		name  string
		pred  []float64
		truth []float64
		want  float64
	}{
		{"perfect", []float64{1, 2, 3}, []float64{1, 2, 3}, 0},
		{"single error", []float64{1, 2, 4}, []float64{1, 2, 3}, 1.0 / 3.0},
		{"symmetric", []float64{0, 0}, []float64{1, -1}, 1},
		{"empty", []float64{}, []float64{}, math.Inf(1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MSELoss(tt.pred, tt.truth)
			if math.IsInf(tt.want, 1) {
				assert.True(t, math.IsInf(got, 1))
				return
			}
			assert.InDelta(t, tt.want, got, 1e-12)
		})
	}
}

func TestMSELoss_LengthMismatchPanics(t *testing.T) {
	defer func() {
		r := recover()
		require.NotNil(t, r)
		dimErr, ok := r.(*errors.DimensionMismatchError)
		require.True(t, ok, "panic value should be a DimensionMismatchError, got %T", r)
		assert.Equal(t, 3, dimErr.Expected)
		assert.Equal(t, 2, dimErr.Found)
	}()
	MSELoss([]float64{1, 2}, []float64{1, 2, 3})
}

func TestRSquared(t *testing.T) {
	t.Run("perfect fit", func(t *testing.T) {
		assert.Equal(t, 1.0, RSquared([]float64{2, 4, 6}, []float64{2, 4, 6}))
	})

	t.Run("mean predictor", func(t *testing.T) {
		assert.InDelta(t, 0.0, RSquared([]float64{4, 4, 4}, []float64{2, 4, 6}), 1e-12)
	})

	t.Run("worse than mean", func(t *testing.T) {
		assert.Less(t, RSquared([]float64{6, 4, 2}, []float64{2, 4, 6}), 0.0)
	})

	t.Run("empty", func(t *testing.T) {
		assert.True(t, math.IsNaN(RSquared(nil, nil)))
	})

	t.Run("constant target exact", func(t *testing.T) {
		assert.Equal(t, 1.0, RSquared([]float64{3, 3}, []float64{3, 3}))
	})

	t.Run("constant target warns", func(t *testing.T) {
		var warnings []error
		prev := errors.SetWarningHandler(func(w error) { warnings = append(warnings, w) })
		t.Cleanup(func() { errors.SetWarningHandler(prev) })

		got := RSquared([]float64{1, 2}, []float64{3, 3})
		assert.Equal(t, 0.0, got)
		require.Len(t, warnings, 1)

		var undefined *errors.UndefinedMetricWarning
		assert.True(t, errors.As(warnings[0], &undefined))
	})
}

func TestMetricsAreIdempotent(t *testing.T) {
	pred := []float64{1.5, 2.5, 2.9}
	truth := []float64{1, 2, 3}
	predCopy := append([]float64(nil), pred...)

	assert.Equal(t, MSELoss(pred, truth), MSELoss(pred, truth))
	assert.Equal(t, RSquared(pred, truth), RSquared(pred, truth))
	assert.Equal(t, predCopy, pred)
}

func TestCheckedMetrics_Errors(t *testing.T) {
	a := mat.NewVecDense(3, []float64{1, 2, 3})
	b := mat.NewVecDense(2, []float64{1, 2})

	checked := map[string]func(yTrue, yPred *mat.VecDense) (float64, error){
		"MSE":                    MSE,
		"RMSE":                   RMSE,
		"MAE":                    MAE,
		"R2Score":                R2Score,
		"MAPE":                   MAPE,
		"ExplainedVarianceScore": ExplainedVarianceScore,
	}

	for name, fn := range checked {
		t.Run(name+" mismatch", func(t *testing.T) {
			_, err := fn(a, b)
			require.Error(t, err)
			var dimErr *errors.DimensionMismatchError
			assert.True(t, errors.As(err, &dimErr))
		})

		t.Run(name+" empty", func(t *testing.T) {
			_, err := fn(&mat.VecDense{}, &mat.VecDense{})
			require.Error(t, err)
			var valErr *errors.ValueError
			assert.True(t, errors.As(err, &valErr))
		})
	}
}

func TestMAE(t *testing.T) {
	got, err := MAE(
		mat.NewVecDense(3, []float64{1, 2, 3}),
		mat.NewVecDense(3, []float64{2, 2, 1}),
	)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, got, 1e-12)
}

func TestMAPE_AllZeroTargets(t *testing.T) {
	_, err := MAPE(mat.NewVecDense(2, []float64{0, 0}), mat.NewVecDense(2, []float64{1, 1}))
	assert.Error(t, err)
}

func TestExplainedVarianceScore_Offset(t *testing.T) {
	// a constant offset is fully explained
	got, err := ExplainedVarianceScore(
		mat.NewVecDense(3, []float64{1, 2, 3}),
		mat.NewVecDense(3, []float64{2, 3, 4}),
	)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, got, 1e-12)
}

func TestMSEMatrix_NotColumn(t *testing.T) {
	m := mat.NewDense(2, 2, []float64{1, 2, 3, 4})
	_, err := MSEMatrix(m, m)
	assert.Error(t, err)
}

func TestRSquared_WarningHandlerRestored(t *testing.T) {
	var outer int
	prev := errors.SetWarningHandler(func(error) { outer++ })
	t.Cleanup(func() { errors.SetWarningHandler(prev) })

	t.Run("inner", func(t *testing.T) {
		inner := errors.SetWarningHandler(func(error) {})
		t.Cleanup(func() { errors.SetWarningHandler(inner) })
		RSquared([]float64{1, 2}, []float64{3, 3})
	})

	RSquared([]float64{1, 2}, []float64{3, 3})
	assert.Equal(t, 1, outer)
}
