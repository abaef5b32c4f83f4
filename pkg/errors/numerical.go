package errors

import (
	"math"
)

// IsFinite reports whether v is neither NaN nor ±Inf.
func IsFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// AllFinite reports whether every value is finite.
func AllFinite(values []float64) bool {
	for _, v := range values {
		if !IsFinite(v) {
			return false
		}
	}
	return true
}

// CheckNumericalStability returns a NumericalError when values contain NaN or
// Inf. epoch and history are attached to the error unchanged.
func CheckNumericalStability(op string, values []float64, epoch int, history []float64) error {
	if AllFinite(values) {
		return nil
	}
	return NewNumericalError(op, "non-finite values during training", epoch, history)
}

// CheckScalar is CheckNumericalStability for a single value.
func CheckScalar(op string, value float64, epoch int, history []float64) error {
	if IsFinite(value) {
		return nil
	}
	return NewNumericalError(op, "non-finite values during training", epoch, history)
}
