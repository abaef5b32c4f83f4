package log

import (
	"log/slog"
	"os"
	"strings"

	"github.com/rs/zerolog"

	gdErrors "github.com/ezoic/gdlinear/pkg/errors"
)

const (
	ErrAttrKey        = "error"
	StacktraceAttrKey = "stacktrace"
)

// SetupLogger configures process-wide logging for command-line programs:
// a JSON slog default handler that expands cockroachdb stack traces, the
// level of the zerolog provider, and routing of errors.Warn into zerolog.
func SetupLogger(loglevel string) {
	level := ToLogLevel(loglevel)

	ops := slog.HandlerOptions{
		AddSource: true,
		Level:     slog.Level(level),
		ReplaceAttr: func(groups []string, attr slog.Attr) slog.Attr {
			switch attr.Key {
			case slog.LevelKey:
				attr = slog.Attr{Key: "severity", Value: attr.Value}
			case slog.MessageKey:
				attr = slog.Attr{Key: "message", Value: attr.Value}
			}
			return attr
		},
	}
	handler := slog.NewJSONHandler(os.Stdout, &ops)
	slog.SetDefault(slog.New(WrapByErrFmtHandler(handler)))

	SetLevel(level)

	warnLogger := GetLoggerWithName("warnings")
	gdErrors.SetZerologWarnFunc(func(w error) {
		warnLogger.Warn(w.Error(), w)
	})
}

// ParseLevel converts "debug", "info", "warn" or "error" to a Level.
func ParseLevel(level string) (Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return LevelDebug, nil
	case "info":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	default:
		return LevelInfo, gdErrors.Newf("invalid log level: %s", level)
	}
}

// ToLogLevel is ParseLevel for trusted input; it panics on an unknown level.
func ToLogLevel(level string) Level {
	l, err := ParseLevel(level)
	if err != nil {
		panic(err.Error())
	}
	return l
}

// ErrAttr is a wrapper to pass err to slog.
func ErrAttr(err error) slog.Attr {
	return slog.Any(ErrAttrKey, err)
}

// LogError logs err at error level on the default logger, tagging it with an
// error code when it belongs to the estimator taxonomy.
func LogError(err error, msg string, fields ...any) {
	if err == nil {
		return
	}
	if code := ErrorCode(err); code != "" {
		fields = append(fields, ErrorCodeKey, code)
	}
	GetLogger().Error(msg, append([]any{err}, fields...)...)
}

// ErrorCode maps an estimator error to its ErrorCodeKey value, or "".
func ErrorCode(err error) string {
	var dimErr *gdErrors.DimensionMismatchError
	var numErr *gdErrors.NumericalError
	switch {
	case gdErrors.As(err, &dimErr):
		return ErrorDimensionMismatch
	case gdErrors.As(err, &numErr):
		return ErrorNumerical
	case gdErrors.Is(err, gdErrors.ErrEmptyData):
		return ErrorEmptyData
	default:
		return ""
	}
}

// Zerolog returns the event-style zerolog logger of the default provider, or
// a disabled logger when a non-zerolog provider is installed.
func Zerolog() *zerolog.Logger {
	providerMu.RLock()
	defer providerMu.RUnlock()
	if zp, ok := provider.(*ZerologProvider); ok {
		return zp.Zerolog()
	}
	nop := zerolog.Nop()
	return &nop
}
