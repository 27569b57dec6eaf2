// Package logging configures the process-wide slog logger and provides
// attribute helpers so every package logs the same keys.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// Common log attribute keys.
const (
	KeyOperation    = "operation"
	KeyNamespace    = "namespace"
	KeyKind         = "kind"
	KeyResourceName = "resource_name"
	KeyStatus       = "status"
	KeyError        = "error"
	KeyRunID        = "run_id"
)

// Status values.
const (
	StatusSuccess = "success"
	StatusError   = "error"
	StatusUnknown = "unknown"
)

// EnvLogLevel is the environment variable consulted for the default level.
const EnvLogLevel = "LOG_LEVEL"

// ParseLevel converts a level name (debug, info, warn, error) to a slog.Level.
// Empty input means info.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "info":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q, valid levels are: debug, info, warn, error", s)
	}
}

// SetDefaultLoggerWithLevel installs a logger with an explicit level as the slog default.
// When asJSON is false a human readable text handler is used.
func SetDefaultLoggerWithLevel(name, version string, level slog.Level, asJSON bool) {
	slog.SetDefault(NewLogger(os.Stderr, name, version, level, asJSON))
}

// NewLogger builds a logger writing to w, tagged with the module name and version.
func NewLogger(w io.Writer, name, version string, level slog.Level, asJSON bool) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: level == slog.LevelDebug,
	}

	var h slog.Handler
	if asJSON {
		h = slog.NewJSONHandler(w, opts)
	} else {
		h = slog.NewTextHandler(w, opts)
	}

	return slog.New(h).With(
		slog.String("module", name),
		slog.String("version", version),
	)
}

// Operation returns an attribute for the operation name.
func Operation(op string) slog.Attr {
	return slog.String(KeyOperation, op)
}

// Namespace returns an attribute for the namespace.
func Namespace(ns string) slog.Attr {
	return slog.String(KeyNamespace, ns)
}

// Kind returns an attribute for the resource kind.
func Kind(kind string) slog.Attr {
	return slog.String(KeyKind, kind)
}

// ResourceName returns an attribute for the resource name.
func ResourceName(name string) slog.Attr {
	return slog.String(KeyResourceName, name)
}

// Status returns an attribute for an outcome.
func Status(status string) slog.Attr {
	return slog.String(KeyStatus, status)
}

// RunID returns an attribute for the run identifier.
func RunID(id string) slog.Attr {
	return slog.String(KeyRunID, id)
}

// Err returns an attribute for an error. A nil error yields an empty value.
func Err(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}

// MaskSecret hides a credential, keeping only its length.
func MaskSecret(s string) string {
	if s == "" {
		return "<empty>"
	}
	return fmt.Sprintf("[secret:%d chars]", len(s))
}
