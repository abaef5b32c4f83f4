// Package report renders training results: a plain-text summary of a
// trained model and a plot of its loss history.
package report

import (
	"fmt"
	"io"
	"math"
	"text/tabwriter"

	"github.com/ezoic/gdlinear/core/model"
)

// Score is a named evaluation result, e.g. "train R²".
type Score struct {
	Name  string
	Value float64
}

// Summary collects what is printed after training.
type Summary struct {
	FeatureNames []string
	Weights      []float64
	Bias         float64
	History      []float64
	Scores       []Score

	// TrueWeights and TrueBias, when set, are printed next to the learned
	// parameters.
	TrueWeights []float64
	TrueBias    float64
}

// NewSummary reads the parameters of m. names may be nil, in which case
// features are called x0, x1, ...
func NewSummary(m model.LinearModel, names []string, history []float64) *Summary {
	weights := m.GetWeights()
	if len(names) != len(weights) {
		names = make([]string, len(weights))
		for j := range names {
			names[j] = fmt.Sprintf("x%d", j)
		}
	}
	return &Summary{
		FeatureNames: names,
		Weights:      weights,
		Bias:         m.GetBias(),
		History:      history,
	}
}

// AddScore appends a named score.
func (s *Summary) AddScore(name string, value float64) *Summary {
	s.Scores = append(s.Scores, Score{Name: name, Value: value})
	return s
}

// WithTruth records the generating parameters of synthetic data.
func (s *Summary) WithTruth(weights []float64, bias float64) *Summary {
	s.TrueWeights = weights
	s.TrueBias = bias
	return s
}

// Write prints the summary as aligned columns.
func (s *Summary) Write(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	withTruth := len(s.TrueWeights) == len(s.Weights) && s.TrueWeights != nil

	if withTruth {
		fmt.Fprintln(tw, "parameter\tlearned\ttrue")
	} else {
		fmt.Fprintln(tw, "parameter\tlearned")
	}
	for j, name := range s.FeatureNames {
		if withTruth {
			fmt.Fprintf(tw, "%s\t%.6f\t%.6f\n", name, s.Weights[j], s.TrueWeights[j])
		} else {
			fmt.Fprintf(tw, "%s\t%.6f\n", name, s.Weights[j])
		}
	}
	if withTruth {
		fmt.Fprintf(tw, "bias\t%.6f\t%.6f\n", s.Bias, s.TrueBias)
	} else {
		fmt.Fprintf(tw, "bias\t%.6f\n", s.Bias)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if len(s.History) > 0 {
		fmt.Fprintf(w, "\nepochs: %d\n", len(s.History))
		fmt.Fprintf(w, "initial loss: %s\n", formatLoss(s.History[0]))
		fmt.Fprintf(w, "final loss: %s\n", formatLoss(s.History[len(s.History)-1]))
	}

	if len(s.Scores) > 0 {
		fmt.Fprintln(w)
	}
	for _, sc := range s.Scores {
		if _, err := fmt.Fprintf(w, "%s: %.4f\n", sc.Name, sc.Value); err != nil {
			return err
		}
	}
	return nil
}

func formatLoss(v float64) string {
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return fmt.Sprint(v)
	}
	return fmt.Sprintf("%.6g", v)
}
