package observability

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func TestWithBuildID(t *testing.T) {
	ctx := WithBuildID(context.Background(), "build-123")

	if lc := GetContext(ctx); lc.BuildID != "build-123" {
		t.Errorf("expected build-123, got %s", lc.BuildID)
	}
}

func TestMultipleContextValues(t *testing.T) {
	ctx := context.Background()
	ctx = WithBuildID(ctx, "b1")
	ctx = WithDocument(ctx, "index.html")
	ctx = WithPhase(ctx, "before")
	ctx = WithInstance(ctx, "htmltags#0")

	lc := GetContext(ctx)
	if lc.BuildID != "b1" || lc.Document != "index.html" || lc.Phase != "before" || lc.Instance != "htmltags#0" {
		t.Errorf("unexpected log context %+v", lc)
	}
}

func TestLogger(t *testing.T) {
	var buf bytes.Buffer
	base := slog.New(slog.NewTextHandler(&buf, nil))

	ctx := WithPhase(WithDocument(context.Background(), "about.html"), "after")
	Logger(ctx, base).Info("merged attributes")

	out := buf.String()
	if !strings.Contains(out, "document=about.html") || !strings.Contains(out, "phase=after") {
		t.Errorf("expected context attributes in %q", out)
	}
}

func TestLoggerWithoutContext(t *testing.T) {
	base := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	if Logger(context.Background(), base) != base {
		t.Error("expected base logger when context carries no attributes")
	}
}
