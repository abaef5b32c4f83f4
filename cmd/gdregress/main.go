// Command gdregress fits a linear regression by batch gradient descent on a
// CSV file or a synthetic dataset and prints the learned parameters.
package main

import (
	"fmt"
	"os"

	"github.com/alexflint/go-arg"
	"github.com/pkg/profile"
	"gonum.org/v1/gonum/mat"

	"github.com/ezoic/gdlinear/dataset"
	"github.com/ezoic/gdlinear/linear"
	"github.com/ezoic/gdlinear/metrics"
	"github.com/ezoic/gdlinear/pkg/errors"
	"github.com/ezoic/gdlinear/pkg/log"
	"github.com/ezoic/gdlinear/preprocessing"
	"github.com/ezoic/gdlinear/report"
)

var (
	name    = "gdregress"
	version = "0.3.0"
)

type args struct {
	CSV          string  `help:"CSV file with a header row; the target is the last column unless --target is set" arg:"--csv"`
	Target       string  `help:"name of the target column" arg:"--target"`
	Epochs       int     `help:"number of gradient descent epochs" arg:"-e,--epochs" default:"1000"`
	LearningRate float64 `help:"gradient descent step size" arg:"-l,--learning-rate" default:"0.01"`
	Samples      int     `help:"synthetic samples when no CSV is given" arg:"--samples" default:"200"`
	Features     int     `help:"synthetic features when no CSV is given" arg:"--features" default:"3"`
	Noise        float64 `help:"standard deviation of synthetic target noise" arg:"--noise" default:"0.1"`
	Seed         uint64  `help:"seed for synthetic data" arg:"--seed" default:"42"`
	TestFraction float64 `help:"hold out this fraction of rows for evaluation (0 disables)" arg:"--test-fraction"`
	NoNormalize  bool    `help:"train on raw features instead of standardized ones" arg:"--no-normalize"`
	Plot         string  `help:"write the loss curve to this file (.png, .svg or .pdf)" arg:"--plot"`
	Chart        string  `help:"write an interactive HTML loss chart to this file" arg:"--chart"`
	SaveWeights  string  `help:"write the learned weights as JSON to this file" arg:"--save-weights"`
	LogLevel     string  `help:"debug, info, warn or error" arg:"--log-level" default:"info"`
	CPUProfile   string  `help:"write a CPU profile into this directory" arg:"--cpu-profile"`
}

func (args) Version() string {
	return fmt.Sprintf("%s %s", name, version)
}

func (args) Description() string {
	return "Linear regression by batch gradient descent on mean squared error."
}

func main() {
	var a args
	p := arg.MustParse(&a)
	if err := a.validate(); err != nil {
		p.Fail(err.Error())
	}

	log.SetupLogger(a.LogLevel)

	if err := run(a); err != nil {
		log.LogError(err, "gdregress failed")
		os.Exit(1)
	}
}

// validate rejects flag values that would otherwise fail deep inside run.
func (a args) validate() error {
	if _, err := log.ParseLevel(a.LogLevel); err != nil {
		return err
	}
	if a.TestFraction < 0 || a.TestFraction >= 1 {
		return errors.Newf("--test-fraction must be in [0, 1), got %g", a.TestFraction)
	}
	return nil
}

func run(a args) error {
	logger := log.GetLoggerWithName(name)

	if a.CPUProfile != "" {
		defer profile.Start(profile.CPUProfile, profile.ProfilePath(a.CPUProfile), profile.Quiet).Stop()
	}

	data, err := loadData(a)
	if err != nil {
		return err
	}

	train, test := data, (*dataset.Dataset)(nil)
	if a.TestFraction > 0 {
		if train, test, err = data.Split(1 - a.TestFraction); err != nil {
			return err
		}
	}

	var scaler *preprocessing.StandardScaler
	trainX := mat.Matrix(train.X)
	if !a.NoNormalize {
		scaler = preprocessing.NewStandardScalerDefault()
		if trainX, err = scaler.FitTransform(train.X); err != nil {
			return errors.Wrap(err, "scaling features")
		}
	}

	model := linear.NewLinearRegression(train.NumFeatures(), a.LearningRate)
	logger.Info("Training",
		log.SamplesKey, train.NumSamples(),
		log.FeaturesKey, train.NumFeatures(),
		log.EpochsKey, a.Epochs,
		log.LearningRateKey, a.LearningRate,
	)

	history, err := model.Train(trainX, train.Y, a.Epochs)
	if err != nil {
		var numErr *errors.NumericalError
		if errors.As(err, &numErr) {
			fmt.Fprintf(os.Stderr, "diverged at epoch %d; try a smaller --learning-rate\n", numErr.Epoch)
		}
		return err
	}

	pred, err := model.Predict(trainX)
	if err != nil {
		return err
	}

	weights, bias := model.GetWeights(), model.GetBias()
	if scaler != nil {
		weights, bias = unscale(weights, bias, scaler)
	}

	summary := report.NewSummary(staticModel{weights, bias}, train.FeatureNames, history)
	summary.AddScore("train MSE", model.MSELoss(pred, train.Y))
	summary.AddScore("train R²", model.RSquared(pred, train.Y))
	if train.TrueWeights != nil {
		summary.WithTruth(train.TrueWeights, train.TrueBias)
	}

	if test != nil {
		testX := mat.Matrix(test.X)
		if scaler != nil {
			if testX, err = scaler.Transform(test.X); err != nil {
				return err
			}
		}
		r2, err := model.Score(testX, test.Y)
		if err != nil {
			return err
		}
		testPred, err := model.Predict(testX)
		if err != nil {
			return err
		}
		rmse, err := metrics.RMSE(test.Y, testPred)
		if err != nil {
			return err
		}
		summary.AddScore("test RMSE", rmse)
		summary.AddScore("test R²", r2)
	}

	if err := summary.Write(os.Stdout); err != nil {
		return err
	}

	if a.Plot != "" {
		if err := report.SaveLossCurve(history, "Training loss", a.Plot); err != nil {
			return err
		}
		logger.Info("Loss curve written", log.SourceKey, a.Plot)
	}

	if a.Chart != "" {
		if err := report.SaveLossChartHTML(history, "Training loss", a.Chart); err != nil {
			return err
		}
		logger.Info("Loss chart written", log.SourceKey, a.Chart)
	}

	if a.SaveWeights != "" {
		if err := saveWeights(model, train.FeatureNames, a.SaveWeights); err != nil {
			return err
		}
		logger.Info("Weights written", log.SourceKey, a.SaveWeights)
	}
	return nil
}

func loadData(a args) (*dataset.Dataset, error) {
	if a.CSV != "" {
		var opts []dataset.CSVOption
		if a.Target != "" {
			opts = append(opts, dataset.WithTargetColumn(a.Target))
		}
		return dataset.LoadCSV(a.CSV, opts...)
	}
	return dataset.Synthetic(a.Samples, a.Features,
		dataset.WithSeed(a.Seed),
		dataset.WithNoise(a.Noise),
	)
}

func saveWeights(model *linear.LinearRegression, names []string, filename string) error {
	w, err := model.ExportWeights()
	if err != nil {
		return err
	}
	w.Features = names

	f, err := os.Create(filename)
	if err != nil {
		return errors.Wrapf(err, "failed to create file: %s", filename)
	}
	if err := w.WriteJSON(f); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// unscale maps parameters learned on standardized features back to the
// original feature space.
func unscale(weights []float64, bias float64, s *preprocessing.StandardScaler) ([]float64, float64) {
	out := make([]float64, len(weights))
	for j, w := range weights {
		out[j] = w / s.Scale[j]
		bias -= out[j] * s.Mean[j]
	}
	return out, bias
}

type staticModel struct {
	weights []float64
	bias    float64
}

func (m staticModel) GetWeights() []float64 { return m.weights }
func (m staticModel) GetBias() float64      { return m.bias }
