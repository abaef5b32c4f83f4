// Package errors provides the error taxonomy and warning system shared by
// every gdlinear package.
//
// Errors returned by the estimator fall into three kinds:
//
//   - DimensionMismatchError: a shape contract between the model and its
//     inputs was violated. Fix the inputs and retry.
//   - ErrEmptyData: training was asked to run on zero samples.
//   - NumericalError: training diverged (NaN or Inf appeared). Usually the
//     learning rate is too large for the scale of the data.
//
// All structured errors carry a stack trace (github.com/cockroachdb/errors)
// and implement zerolog.LogObjectMarshaler so they can be logged as objects.
package errors

import (
	"fmt"
	"log"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
)

// ===========================================================================
//
//	Global warning handling
//
// ===========================================================================
var (
	warningMutex   sync.Mutex
	warningHandler = func(w error) {
		log.Printf("gdlinear-Warning: %v\n", w)
	}
	// set by pkg/log to avoid an import cycle
	zerologWarnFunc func(warning error)
)

// SetWarningHandler replaces the handler used by Warn and returns the
// previous one.
//
// Example:
//
//	prev := errors.SetWarningHandler(func(w error) {
//	    // ignore all warnings
//	})
//	defer errors.SetWarningHandler(prev)
func SetWarningHandler(handler func(w error)) func(w error) {
	warningMutex.Lock()
	defer warningMutex.Unlock()
	prev := warningHandler
	warningHandler = handler
	return prev
}

// SetZerologWarnFunc installs a structured warning sink. When set it takes
// precedence over the plain handler. Passing nil removes it.
func SetZerologWarnFunc(warnFunc func(warning error)) {
	warningMutex.Lock()
	defer warningMutex.Unlock()
	zerologWarnFunc = warnFunc
}

// Warn reports a non-fatal condition.
func Warn(w error) {
	warningMutex.Lock()
	defer warningMutex.Unlock()

	if zerologWarnFunc != nil {
		zerologWarnFunc(w)
		return
	}

	if warningHandler != nil {
		warningHandler(w)
	}
}

// ===========================================================================
//
//	Warnings
//
// ===========================================================================

// UndefinedMetricWarning is raised when a metric cannot be computed from its
// inputs and a conventional value is returned instead, e.g. R² on a constant
// target vector.
type UndefinedMetricWarning struct {
	Metric    string
	Condition string
	Result    float64 // value returned under this condition
}

func (w *UndefinedMetricWarning) Error() string {
	return fmt.Sprintf("'%s' is ill-defined and being set to %f due to %s.", w.Metric, w.Result, w.Condition)
}

// MarshalZerologObject adds the warning fields to a zerolog event.
func (w *UndefinedMetricWarning) MarshalZerologObject(e *zerolog.Event) {
	e.Str("metric", w.Metric).
		Str("condition", w.Condition).
		Float64("result", w.Result).
		Str("type", "UndefinedMetricWarning")
}

// NewUndefinedMetricWarning creates a new UndefinedMetricWarning.
func NewUndefinedMetricWarning(metric, condition string, result float64) *UndefinedMetricWarning {
	return &UndefinedMetricWarning{Metric: metric, Condition: condition, Result: result}
}

// ===========================================================================
//
//	Estimator errors
//
// ===========================================================================

// DimensionMismatchError reports a violated shape contract. Context names
// which contract was checked ("prediction", "sample count", "feature count").
type DimensionMismatchError struct {
	Op       string
	Expected int
	Found    int
	Context  string
}

func (e *DimensionMismatchError) Error() string {
	return fmt.Sprintf("gdlinear: %s: dimension mismatch in %s: expected %d, found %d",
		e.Op, e.Context, e.Expected, e.Found)
}

// MarshalZerologObject adds the error fields to a zerolog event.
func (e *DimensionMismatchError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("operation", e.Op).
		Str("context", e.Context).
		Int("expected", e.Expected).
		Int("found", e.Found).
		Str("type", "DimensionMismatchError")
}

// NewDimensionMismatch creates a DimensionMismatchError with a stack trace.
func NewDimensionMismatch(op string, expected, found int, context string) error {
	err := &DimensionMismatchError{Op: op, Expected: expected, Found: found, Context: context}
	return errors.WithStack(err)
}

// NumericalError reports that training produced non-finite values. History
// holds the per-epoch losses recorded before the failing epoch; Epoch is the
// zero-based index of that epoch.
type NumericalError struct {
	Op      string
	Reason  string
	Epoch   int
	History []float64
}

func (e *NumericalError) Error() string {
	return fmt.Sprintf("gdlinear: %s: numerical error: %s (epoch %d)", e.Op, e.Reason, e.Epoch)
}

// MarshalZerologObject adds the error fields to a zerolog event.
func (e *NumericalError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("operation", e.Op).
		Str("reason", e.Reason).
		Int("epoch", e.Epoch).
		Int("completed_epochs", len(e.History)).
		Str("type", "NumericalError")
}

// NewNumericalError creates a NumericalError with a stack trace. The history
// slice is retained as is.
func NewNumericalError(op, reason string, epoch int, history []float64) error {
	err := &NumericalError{Op: op, Reason: reason, Epoch: epoch, History: history}
	return errors.WithStack(err)
}

// ValueError is returned when an argument has an unusable value, such as an
// unparsable CSV cell or an unknown target column.
type ValueError struct {
	Op      string
	Message string
}

func (e *ValueError) Error() string {
	return fmt.Sprintf("gdlinear: %s: %s", e.Op, e.Message)
}

// MarshalZerologObject adds the error fields to a zerolog event.
func (e *ValueError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("operation", e.Op).
		Str("message", e.Message).
		Str("type", "ValueError")
}

// NewValueError creates a ValueError with a stack trace.
func NewValueError(op, message string) error {
	err := &ValueError{Op: op, Message: message}
	return errors.WithStack(err)
}

// ModelError is a general estimator failure wrapping an underlying cause.
type ModelError struct {
	Op   string
	Kind string
	Err  error
}

func (e *ModelError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("gdlinear: %s: %s: %v", e.Op, e.Kind, e.Err)
	}
	return fmt.Sprintf("gdlinear: %s: %s", e.Op, e.Kind)
}

func (e *ModelError) Unwrap() error {
	return e.Err
}

// NewModelError creates a ModelError with a stack trace.
func NewModelError(op, kind string, err error) error {
	modelErr := &ModelError{Op: op, Kind: kind, Err: err}
	return errors.WithStack(modelErr)
}

// ===========================================================================
//
//	cockroachdb/errors wrappers
//
// ===========================================================================

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// Wrap annotates err with a message.
func Wrap(err error, message string) error {
	return errors.Wrap(err, message)
}

// Wrapf annotates err with a formatted message.
func Wrapf(err error, format string, args ...interface{}) error {
	return errors.Wrapf(err, format, args...)
}

// New creates an error with a stack trace.
func New(message string) error {
	return errors.New(message)
}

// Newf creates a formatted error with a stack trace.
func Newf(format string, args ...interface{}) error {
	return errors.Newf(format, args...)
}

// WithStack annotates err with the current stack trace.
func WithStack(err error) error {
	return errors.WithStack(err)
}

// ===========================================================================
//
//	Sentinels
//
// ===========================================================================

var (
	// ErrEmptyData is returned when training receives zero samples.
	ErrEmptyData = New("empty data")

	// ErrNotFitted is returned when a transformer is used before Fit.
	ErrNotFitted = New("not fitted")
)
