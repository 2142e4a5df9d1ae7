package slogx

import (
	"log/slog"

	"github.com/google/uuid"
)

const (
	// KeyLoggerName is the attribute key naming the component that logged.
	KeyLoggerName = "logger"
	// KeyError is the attribute key for errors.
	KeyError = "error"
)

// Error returns an attribute with the error's message under KeyError.
// A nil error is rendered as "<nil>".
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "<nil>")
	}
	return slog.String(KeyError, err.Error())
}

// LoggerName returns an attribute naming the logger.
func LoggerName(name string) slog.Attr {
	return slog.String(KeyLoggerName, name)
}

// ID returns an attribute carrying a UUID in its canonical form.
func ID(key string, id uuid.UUID) slog.Attr {
	return slog.String(key, id.String())
}

// Type returns an attribute with the dynamic Go type of v, which helps when
// logging about generic publishers.
func Type(key string, v any) slog.Attr {
	return slog.String(key, typeName(v))
}
