package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/ezoic/gdlinear/core/model"
	"github.com/ezoic/gdlinear/linear"
	"github.com/ezoic/gdlinear/preprocessing"
)

func TestArgs_Validate(t *testing.T) {
	tests := []struct {
		name    string
		args    args
		wantErr bool
	}{
		{"defaults", args{LogLevel: "info"}, false},
		{"upper case level", args{LogLevel: "DEBUG"}, false},
		{"unknown level", args{LogLevel: "verbose"}, true},
		{"empty level", args{LogLevel: ""}, true},
		{"hold-out", args{LogLevel: "warn", TestFraction: 0.2}, false},
		{"hold-out everything", args{LogLevel: "warn", TestFraction: 1}, true},
		{"negative hold-out", args{LogLevel: "warn", TestFraction: -0.1}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.args.validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSaveWeights(t *testing.T) {
	m := linear.NewLinearRegression(2, 0.1)
	m.Weights.SetVec(0, 1.5)
	m.Bias = -2

	path := filepath.Join(t.TempDir(), "weights.json")
	require.NoError(t, saveWeights(m, []string{"a", "b"}, path))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	w, err := model.ReadWeightsJSON(f)
	require.NoError(t, err)
	assert.Equal(t, []float64{1.5, 0}, w.Coefficients)
	assert.Equal(t, -2.0, w.Intercept)
	assert.Equal(t, []string{"a", "b"}, w.Features)
}

func TestSaveWeights_BadPath(t *testing.T) {
	m := linear.NewLinearRegression(1, 0.1)
	err := saveWeights(m, nil, filepath.Join(t.TempDir(), "missing", "weights.json"))
	assert.Error(t, err)
}

func TestUnscale(t *testing.T) {
	// y = 2x + 1 on raw x; standardized x = (x - 2) / 1
	s := preprocessing.NewStandardScalerDefault()
	require.NoError(t, s.Fit(mat.NewDense(3, 1, []float64{1, 2, 3})))
	s.Scale[0] = 1

	w, b := unscale([]float64{2}, 5, s)
	assert.InDelta(t, 2.0, w[0], 1e-12)
	assert.InDelta(t, 1.0, b, 1e-12)
}
