// Package observability carries structured logging context through hook calls.
package observability

import (
	"context"
	"log/slog"

	"git.home.luguber.info/inful/htmltags/internal/logfields"
)

// LogContext holds structured logging context information.
type LogContext struct {
	BuildID  string
	Document string
	Phase    string
	Instance string
}

type logContextKeyType string

const logContextKey logContextKeyType = "log-context"

// WithBuildID adds a build ID to the context.
func WithBuildID(ctx context.Context, buildID string) context.Context {
	lc := extractLogContext(ctx)
	lc.BuildID = buildID
	return context.WithValue(ctx, logContextKey, lc)
}

// WithDocument adds the output document name to the context.
func WithDocument(ctx context.Context, document string) context.Context {
	lc := extractLogContext(ctx)
	lc.Document = document
	return context.WithValue(ctx, logContextKey, lc)
}

// WithPhase adds the hook phase (before/after) to the context.
func WithPhase(ctx context.Context, phase string) context.Context {
	lc := extractLogContext(ctx)
	lc.Phase = phase
	return context.WithValue(ctx, logContextKey, lc)
}

// WithInstance adds the plugin instance name to the context.
func WithInstance(ctx context.Context, instance string) context.Context {
	lc := extractLogContext(ctx)
	lc.Instance = instance
	return context.WithValue(ctx, logContextKey, lc)
}

func extractLogContext(ctx context.Context) LogContext {
	if lc, ok := ctx.Value(logContextKey).(LogContext); ok {
		return lc
	}
	return LogContext{}
}

// GetContext returns the structured log context from the provided context.
func GetContext(ctx context.Context) LogContext {
	return extractLogContext(ctx)
}

func getLogAttrs(ctx context.Context) []slog.Attr {
	lc := extractLogContext(ctx)
	attrs := []slog.Attr{}

	if lc.BuildID != "" {
		attrs = append(attrs, slog.String(logfields.KeyBuildID, lc.BuildID))
	}
	if lc.Document != "" {
		attrs = append(attrs, slog.String(logfields.KeyDocument, lc.Document))
	}
	if lc.Phase != "" {
		attrs = append(attrs, slog.String(logfields.KeyPhase, lc.Phase))
	}
	if lc.Instance != "" {
		attrs = append(attrs, slog.String(logfields.KeyInstance, lc.Instance))
	}
	return attrs
}

// Logger returns base annotated with the context's log attributes.
func Logger(ctx context.Context, base *slog.Logger) *slog.Logger {
	if base == nil {
		base = slog.Default()
	}
	attrs := getLogAttrs(ctx)
	if len(attrs) == 0 {
		return base
	}
	args := make([]any, len(attrs))
	for i, a := range attrs {
		args[i] = a
	}
	return base.With(args...)
}
