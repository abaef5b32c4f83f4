package report

import (
	"bytes"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/plot"

	"github.com/ezoic/gdlinear/pkg/errors"
)

type fixedModel struct {
	weights []float64
	bias    float64
}

func (m fixedModel) GetWeights() []float64 { return m.weights }
func (m fixedModel) GetBias() float64      { return m.bias }

func TestSummary_Write(t *testing.T) {
	s := NewSummary(fixedModel{weights: []float64{2, -0.5}, bias: 1}, []string{"size", "age"}, []float64{10, 1, 0.25})
	s.AddScore("train R²", 0.98766)

	var buf bytes.Buffer
	require.NoError(t, s.Write(&buf))

	want := "parameter  learned\n" +
		"size       2.000000\n" +
		"age        -0.500000\n" +
		"bias       1.000000\n" +
		"\nepochs: 3\n" +
		"initial loss: 10\n" +
		"final loss: 0.25\n" +
		"\ntrain R²: 0.9877\n"
	assert.Equal(t, want, buf.String())
}

func TestSummary_WithTruth(t *testing.T) {
	s := NewSummary(fixedModel{weights: []float64{1.9}, bias: 0.1}, nil, nil).WithTruth([]float64{2}, 0)

	var buf bytes.Buffer
	require.NoError(t, s.Write(&buf))

	out := buf.String()
	assert.Contains(t, out, "parameter  learned   true")
	assert.Contains(t, out, "x0         1.900000  2.000000")
	assert.NotContains(t, out, "epochs")
}

func TestLossCurve(t *testing.T) {
	p, err := LossCurve([]float64{4, 2, 1, 0.5}, "loss")
	require.NoError(t, err)
	assert.Equal(t, "loss", p.Title.Text)
	assert.IsType(t, plot.LinearScale{}, p.Y.Scale)

	p, err = LossCurve([]float64{1e4, 10, 1e-2}, "steep")
	require.NoError(t, err)
	assert.IsType(t, plot.LogScale{}, p.Y.Scale)
}

func TestLossCurve_Errors(t *testing.T) {
	_, err := LossCurve(nil, "")
	assert.True(t, errors.Is(err, errors.ErrEmptyData))

	_, err = LossCurve([]float64{1, math.NaN()}, "")
	var valErr *errors.ValueError
	assert.True(t, errors.As(err, &valErr))
}

func TestSaveLossCurve(t *testing.T) {
	for _, name := range []string{"loss.png", "loss.svg"} {
		path := filepath.Join(t.TempDir(), name)
		require.NoError(t, SaveLossCurve([]float64{3, 2, 1}, "loss", path))

		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Greater(t, info.Size(), int64(0))
	}
}

func TestLossChart_SkipsNonFinite(t *testing.T) {
	line := LossChart([]float64{3, math.Inf(1), 1}, "loss")
	require.Len(t, line.MultiSeries, 1)
	assert.Equal(t, "loss", line.MultiSeries[0].Name)
	assert.Len(t, line.MultiSeries[0].Data, 2)
}

func TestWriteLossChartHTML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteLossChartHTML(&buf, []float64{3, 2, 1}, "Training loss"))
	assert.Contains(t, buf.String(), "Training loss")

	err := WriteLossChartHTML(&buf, nil, "")
	assert.True(t, errors.Is(err, errors.ErrEmptyData))
}

func TestSaveLossChartHTML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "loss.html")
	require.NoError(t, SaveLossChartHTML([]float64{3, 2, 1}, "Training loss", path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Training loss")

	err = SaveLossChartHTML([]float64{1}, "", filepath.Join(t.TempDir(), "missing", "loss.html"))
	assert.Error(t, err)
}
