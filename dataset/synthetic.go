package dataset

import (
	"fmt"
	"math/rand/v2"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/ezoic/gdlinear/pkg/errors"
	"github.com/ezoic/gdlinear/pkg/log"
)

type syntheticConfig struct {
	seed    uint64
	noise   float64
	weights []float64
	bias    *float64
	low     float64
	high    float64
}

// SyntheticOption configures Synthetic.
type SyntheticOption func(*syntheticConfig)

// WithSeed sets the random seed. The same seed and options always produce
// the same dataset. Default 42.
func WithSeed(seed uint64) SyntheticOption {
	return func(c *syntheticConfig) {
		c.seed = seed
	}
}

// WithNoise sets the standard deviation of the Gaussian noise added to each
// target. Default 0.
func WithNoise(sigma float64) SyntheticOption {
	return func(c *syntheticConfig) {
		c.noise = sigma
	}
}

// WithWeights fixes the generating weights instead of drawing them.
func WithWeights(weights []float64) SyntheticOption {
	return func(c *syntheticConfig) {
		c.weights = append([]float64(nil), weights...)
	}
}

// WithBias fixes the generating bias instead of drawing it.
func WithBias(bias float64) SyntheticOption {
	return func(c *syntheticConfig) {
		c.bias = &bias
	}
}

// WithFeatureRange sets the interval features are drawn from uniformly.
// Default [-5, 5).
func WithFeatureRange(low, high float64) SyntheticOption {
	return func(c *syntheticConfig) {
		c.low, c.high = low, high
	}
}

// Synthetic generates nSamples rows of y = X·w + b + ε. Features are drawn
// uniformly from the feature range, w and b uniformly from [-3, 3) unless
// fixed, and ε from N(0, noise²). The generating parameters are returned in
// TrueWeights and TrueBias.
//
// Example:
//
//	d, err := dataset.Synthetic(200, 3, dataset.WithSeed(7), dataset.WithNoise(0.1))
func Synthetic(nSamples, nFeatures int, opts ...SyntheticOption) (*Dataset, error) {
	cfg := syntheticConfig{seed: 42, low: -5, high: 5}
	for _, opt := range opts {
		opt(&cfg)
	}

	switch {
	case nSamples <= 0:
		return nil, errors.NewModelError("Synthetic", "no samples requested", errors.ErrEmptyData)
	case nFeatures <= 0:
		return nil, errors.NewValueError("Synthetic", "need at least one feature")
	case cfg.noise < 0:
		return nil, errors.NewValueError("Synthetic", "noise must be non-negative")
	case cfg.high <= cfg.low:
		return nil, errors.NewValueError("Synthetic", "feature range is empty")
	case cfg.weights != nil && len(cfg.weights) != nFeatures:
		return nil, errors.NewDimensionMismatch("Synthetic", nFeatures, len(cfg.weights), "generating weights")
	}

	src := rand.NewPCG(cfg.seed, cfg.seed^0x9e3779b97f4a7c15)
	param := distuv.Uniform{Min: -3, Max: 3, Src: src}
	feature := distuv.Uniform{Min: cfg.low, Max: cfg.high, Src: src}
	noise := distuv.Normal{Mu: 0, Sigma: cfg.noise, Src: src}

	weights := cfg.weights
	if weights == nil {
		weights = make([]float64, nFeatures)
		for j := range weights {
			weights[j] = param.Rand()
		}
	}
	var bias float64
	if cfg.bias != nil {
		bias = *cfg.bias
	} else {
		bias = param.Rand()
	}

	X := mat.NewDense(nSamples, nFeatures, nil)
	y := mat.NewVecDense(nSamples, nil)
	for i := 0; i < nSamples; i++ {
		target := bias
		for j := 0; j < nFeatures; j++ {
			v := feature.Rand()
			X.Set(i, j, v)
			target += v * weights[j]
		}
		if cfg.noise > 0 {
			target += noise.Rand()
		}
		y.SetVec(i, target)
	}

	names := make([]string, nFeatures)
	for j := range names {
		names[j] = fmt.Sprintf("x%d", j)
	}

	log.GetLoggerWithName("dataset").Debug("Synthetic dataset generated",
		log.SourceKey, "synthetic",
		log.SamplesKey, nSamples,
		log.FeaturesKey, nFeatures,
		log.RandomSeedKey, cfg.seed,
	)

	return &Dataset{
		X:            X,
		Y:            y,
		FeatureNames: names,
		TargetName:   "y",
		TrueWeights:  append([]float64(nil), weights...),
		TrueBias:     bias,
	}, nil
}
