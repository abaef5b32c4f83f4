package linear

import (
	"fmt"
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/ezoic/gdlinear/dataset"
)

func benchData(b *testing.B, samples, features int) *dataset.Dataset {
	b.Helper()
	d, err := dataset.Synthetic(samples, features, dataset.WithSeed(42), dataset.WithNoise(0.1))
	if err != nil {
		b.Fatal(err)
	}
	return d
}

func BenchmarkTrain(b *testing.B) {
	sizes := []struct {
		samples  int
		features int
	}{
		{100, 5},
		{1_000, 10},
		{10_000, 50},
	}

	for _, size := range sizes {
		b.Run(fmt.Sprintf("%dx%d", size.samples, size.features), func(b *testing.B) {
			d := benchData(b, size.samples, size.features)
			b.ReportAllocs()
			b.ResetTimer()

			for i := 0; i < b.N; i++ {
				lr := NewLinearRegression(size.features, 0.01)
				if _, err := lr.Train(d.X, d.Y, 100); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

func BenchmarkPredict(b *testing.B) {
	for _, samples := range []int{500, 5_000, 50_000} {
		b.Run(fmt.Sprintf("Dense_%d", samples), func(b *testing.B) {
			d := benchData(b, samples, 20)
			lr := NewLinearRegression(20, 0.01)
			b.ReportAllocs()
			b.ResetTimer()

			for i := 0; i < b.N; i++ {
				if _, err := lr.Predict(d.X); err != nil {
					b.Fatal(err)
				}
			}
		})

		b.Run(fmt.Sprintf("Generic_%d", samples), func(b *testing.B) {
			d := benchData(b, samples, 20)
			lr := NewLinearRegression(20, 0.01)
			X := mat.Matrix(opaque{d.X})
			b.ReportAllocs()
			b.ResetTimer()

			for i := 0; i < b.N; i++ {
				if _, err := lr.Predict(X); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}
