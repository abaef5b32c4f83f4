package dataset

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ezoic/gdlinear/pkg/errors"
)

func TestReadCSV(t *testing.T) {
	input := "x1, x2, y\n1, 2, 5\n2, 1, 4\n3, 4, 11\n"

	d, err := ReadCSV(strings.NewReader(input))
	require.NoError(t, err)

	assert.Equal(t, 3, d.NumSamples())
	assert.Equal(t, 2, d.NumFeatures())
	assert.Equal(t, []string{"x1", "x2"}, d.FeatureNames)
	assert.Equal(t, "y", d.TargetName)
	assert.Equal(t, []float64{1, 2, 2, 1, 3, 4}, d.X.RawMatrix().Data)
	assert.Equal(t, []float64{5, 4, 11}, d.Y.RawVector().Data)
	assert.Nil(t, d.TrueWeights)
}

func TestReadCSV_TargetSelection(t *testing.T) {
	input := "y,a,b\n1,2,3\n4,5,6\n"

	t.Run("by name", func(t *testing.T) {
		d, err := ReadCSV(strings.NewReader(input), WithTargetColumn("y"))
		require.NoError(t, err)
		assert.Equal(t, []float64{1, 4}, d.Y.RawVector().Data)
		assert.Equal(t, []string{"a", "b"}, d.FeatureNames)
		assert.Equal(t, []float64{2, 3, 5, 6}, d.X.RawMatrix().Data)
	})

	t.Run("by index", func(t *testing.T) {
		d, err := ReadCSV(strings.NewReader(input), WithTargetIndex(1))
		require.NoError(t, err)
		assert.Equal(t, []float64{2, 5}, d.Y.RawVector().Data)
		assert.Equal(t, "a", d.TargetName)
	})

	t.Run("unknown name", func(t *testing.T) {
		_, err := ReadCSV(strings.NewReader(input), WithTargetColumn("z"))
		var valErr *errors.ValueError
		assert.True(t, errors.As(err, &valErr))
	})

	t.Run("index out of range", func(t *testing.T) {
		_, err := ReadCSV(strings.NewReader(input), WithTargetIndex(7))
		assert.Error(t, err)
	})
}

func TestReadCSV_NoHeader(t *testing.T) {
	d, err := ReadCSV(strings.NewReader("1;2\n3;4\n"), WithHeader(false), WithComma(';'))
	require.NoError(t, err)
	assert.Equal(t, []string{"x0"}, d.FeatureNames)
	assert.Equal(t, "x1", d.TargetName)
	assert.Equal(t, []float64{2, 4}, d.Y.RawVector().Data)

	_, err = ReadCSV(strings.NewReader("1,2\n"), WithHeader(false), WithTargetColumn("y"))
	assert.Error(t, err)
}

func TestReadCSV_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		empty bool
	}{
		{"empty input", "", true},
		{"header only", "x,y\n", true},
		{"single column", "y\n1\n", false},
		{"not a number", "x,y\n1,abc\n", false},
		{"ragged rows", "x,y\n1,2\n3\n", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadCSV(strings.NewReader(tt.input))
			require.Error(t, err)
			assert.Equal(t, tt.empty, errors.Is(err, errors.ErrEmptyData))
		})
	}
}

func TestReadCSV_ParseErrorLine(t *testing.T) {
	_, err := ReadCSV(strings.NewReader("x,y\n1,2\n3,oops\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 3")
	assert.Contains(t, err.Error(), `"y"`)
}

func TestLoadCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.csv")
	require.NoError(t, os.WriteFile(path, []byte("x,y\n1,2\n2,4\n"), 0o600))

	d, err := LoadCSV(path)
	require.NoError(t, err)
	assert.Equal(t, 2, d.NumSamples())

	_, err = LoadCSV(filepath.Join(t.TempDir(), "missing.csv"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to open dataset")
}

func TestSynthetic(t *testing.T) {
	d, err := Synthetic(50, 3, WithSeed(7))
	require.NoError(t, err)

	assert.Equal(t, 50, d.NumSamples())
	assert.Equal(t, 3, d.NumFeatures())
	require.Len(t, d.TrueWeights, 3)

	// without noise every target is exactly X·w + b
	for i := 0; i < d.NumSamples(); i++ {
		want := d.TrueBias
		for j, w := range d.TrueWeights {
			v := d.X.At(i, j)
			assert.GreaterOrEqual(t, v, -5.0)
			assert.Less(t, v, 5.0)
			want += v * w
		}
		assert.InDelta(t, want, d.Y.AtVec(i), 1e-9)
	}
}

func TestSynthetic_Deterministic(t *testing.T) {
	a, err := Synthetic(20, 2, WithSeed(3), WithNoise(0.5))
	require.NoError(t, err)
	b, err := Synthetic(20, 2, WithSeed(3), WithNoise(0.5))
	require.NoError(t, err)
	c, err := Synthetic(20, 2, WithSeed(4), WithNoise(0.5))
	require.NoError(t, err)

	assert.Equal(t, a.X.RawMatrix().Data, b.X.RawMatrix().Data)
	assert.Equal(t, a.Y.RawVector().Data, b.Y.RawVector().Data)
	assert.NotEqual(t, a.Y.RawVector().Data, c.Y.RawVector().Data)
}

func TestSynthetic_FixedParameters(t *testing.T) {
	d, err := Synthetic(10, 2, WithWeights([]float64{2, -1}), WithBias(0.5), WithFeatureRange(0, 1))
	require.NoError(t, err)
	assert.Equal(t, []float64{2, -1}, d.TrueWeights)
	assert.Equal(t, 0.5, d.TrueBias)
	assert.InDelta(t, 2*d.X.At(0, 0)-d.X.At(0, 1)+0.5, d.Y.AtVec(0), 1e-12)
}

func TestSynthetic_Errors(t *testing.T) {
	_, err := Synthetic(0, 2)
	assert.True(t, errors.Is(err, errors.ErrEmptyData))

	_, err = Synthetic(10, 0)
	assert.Error(t, err)

	_, err = Synthetic(10, 2, WithNoise(-1))
	assert.Error(t, err)

	_, err = Synthetic(10, 2, WithFeatureRange(1, 1))
	assert.Error(t, err)

	_, err = Synthetic(10, 2, WithWeights([]float64{1}))
	var dimErr *errors.DimensionMismatchError
	assert.True(t, errors.As(err, &dimErr))
}

func TestDataset_Split(t *testing.T) {
	d, err := Synthetic(10, 2, WithSeed(1))
	require.NoError(t, err)

	train, test, err := d.Split(0.8)
	require.NoError(t, err)
	assert.Equal(t, 8, train.NumSamples())
	assert.Equal(t, 2, test.NumSamples())
	assert.Equal(t, d.X.At(8, 1), test.X.At(0, 1))
	assert.Equal(t, d.Y.AtVec(9), test.Y.AtVec(1))

	// copies, not views
	train.X.Set(0, 0, 1000)
	assert.NotEqual(t, 1000.0, d.X.At(0, 0))

	_, _, err = d.Split(1)
	assert.Error(t, err)
	_, _, err = d.Split(0.01)
	assert.Error(t, err)
}
