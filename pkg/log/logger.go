// Package log provides the structured logging setup shared by the library.
// It is a thin layer over log/slog with a handler that knows how to render
// stack traces carried by cockroachdb/errors, plus an optional zerolog sink
// for library warnings.
package log

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/rs/zerolog"

	"github.com/HelenLiGit/POT/pkg/errors"
)

// SetupLogger function setup logger.
func SetupLogger(loglevel string) {
	ops := slog.HandlerOptions{
		AddSource: true,
		Level:     ToLogLevel(loglevel),
		ReplaceAttr: func(groups []string, attr slog.Attr) slog.Attr {
			switch attr.Key {
			case slog.LevelKey:
				attr = slog.Attr{
					Key:   "severity",
					Value: attr.Value,
				}
			case slog.MessageKey:
				attr = slog.Attr{
					Key:   "message",
					Value: attr.Value,
				}
			}
			return attr
		},
	}
	handler := slog.NewJSONHandler(os.Stdout, &ops)
	errFmtHandler := WrapByErrFmtHandler(handler)
	slog.SetDefault(slog.New(errFmtHandler))
}

func ToLogLevel(level string) slog.Level {
	switch level {
	case "info":
		return slog.LevelInfo
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		panic(fmt.Sprintf("invalid log level :%s", level))
	}
}

const (
	ErrAttrKey        = "error"
	StacktraceAttrKey = "stacktrace"
)

// ErrAttr is a wrapper to pass err to slog.
func ErrAttr(err error) slog.Attr {
	return slog.Any(ErrAttrKey, err)
}

// EnableStructuredWarnings routes library warnings (DeprecationWarning and
// friends) through a zerolog logger writing to stderr. Warning types that
// implement zerolog.LogObjectMarshaler are emitted with their structured
// fields.
func EnableStructuredWarnings() {
	logger := zerolog.New(os.Stderr).With().Timestamp().Logger()
	errors.SetZerologWarnFunc(func(warning error) {
		event := logger.Warn()
		if marshaler, ok := warning.(zerolog.LogObjectMarshaler); ok {
			event = event.EmbedObject(marshaler)
		}
		event.Msg(warning.Error())
	})
}
