package model

import (
	"fmt"
	"io"
	"math"

	"github.com/goccy/go-json"

	"github.com/ezoic/gdlinear/pkg/errors"
)

// WeightsFormatVersion is written into every exported ModelWeights.
const WeightsFormatVersion = "1.0"

// ModelWeights is the serializable form of a trained linear model.
type ModelWeights struct {
	// ModelType names the estimator that produced the weights.
	ModelType string `json:"model_type"`

	// Version is the serialization format version.
	Version string `json:"version"`

	Coefficients []float64 `json:"coefficients"`
	Intercept    float64   `json:"intercept"`

	// Features optionally names each coefficient.
	Features []string `json:"features,omitempty"`

	// Hyperparameters holds numeric settings such as the learning rate.
	Hyperparameters map[string]float64 `json:"hyperparameters,omitempty"`

	State ModelState `json:"state"`
}

// Validate checks that the weights can be imported into a model with
// nFeatures features. A negative nFeatures skips the length check.
func (w *ModelWeights) Validate(nFeatures int) error {
	if w == nil {
		return errors.NewValueError("ModelWeights.Validate", "weights cannot be nil")
	}
	if w.Version != WeightsFormatVersion {
		return errors.NewValueError("ModelWeights.Validate",
			fmt.Sprintf("unsupported format version: %q", w.Version))
	}
	if nFeatures >= 0 && len(w.Coefficients) != nFeatures {
		return errors.NewDimensionMismatch("ModelWeights.Validate", nFeatures, len(w.Coefficients), "feature count")
	}
	if len(w.Features) > 0 && len(w.Features) != len(w.Coefficients) {
		return errors.NewDimensionMismatch("ModelWeights.Validate", len(w.Coefficients), len(w.Features), "feature names")
	}
	for i, c := range w.Coefficients {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return errors.NewValueError("ModelWeights.Validate",
				fmt.Sprintf("coefficient %d is not finite", i))
		}
	}
	if math.IsNaN(w.Intercept) || math.IsInf(w.Intercept, 0) {
		return errors.NewValueError("ModelWeights.Validate", "intercept is not finite")
	}
	return nil
}

// Clone returns a deep copy.
func (w *ModelWeights) Clone() *ModelWeights {
	if w == nil {
		return nil
	}
	c := *w
	c.Coefficients = append([]float64(nil), w.Coefficients...)
	if w.Features != nil {
		c.Features = append([]string(nil), w.Features...)
	}
	if w.Hyperparameters != nil {
		c.Hyperparameters = make(map[string]float64, len(w.Hyperparameters))
		for k, v := range w.Hyperparameters {
			c.Hyperparameters[k] = v
		}
	}
	return &c
}

// ToJSON serializes the weights.
func (w *ModelWeights) ToJSON() ([]byte, error) {
	data, err := json.Marshal(w)
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal weights")
	}
	return data, nil
}

// FromJSON replaces w with the weights encoded in data.
func (w *ModelWeights) FromJSON(data []byte) error {
	if err := json.Unmarshal(data, w); err != nil {
		return errors.Wrap(err, "failed to unmarshal weights")
	}
	return nil
}

// WriteJSON writes indented JSON to out.
func (w *ModelWeights) WriteJSON(out io.Writer) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(w); err != nil {
		return errors.Wrap(err, "failed to encode weights")
	}
	return nil
}

// ReadWeightsJSON decodes weights from r and validates them without a
// feature-count constraint.
func ReadWeightsJSON(r io.Reader) (*ModelWeights, error) {
	var w ModelWeights
	if err := json.NewDecoder(r).Decode(&w); err != nil {
		return nil, errors.Wrap(err, "failed to decode weights")
	}
	if err := w.Validate(-1); err != nil {
		return nil, err
	}
	return &w, nil
}
