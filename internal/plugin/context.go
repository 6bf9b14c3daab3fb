package plugin

import (
	"log/slog"

	"git.home.luguber.info/inful/htmltags/internal/metrics"
)

// PluginContext provides plugins with access to the pipeline and build state.
type PluginContext struct {
	// Registry is the registry the pipeline runs from. Tag plugins look up
	// their HTML generator here.
	Registry *Registry

	// Logger provides structured logging for plugin operations.
	Logger *slog.Logger

	// Recorder receives plugin metrics.
	Recorder metrics.Recorder

	// OutputDir is where generated documents and assets are written.
	OutputDir string

	// BuildID uniquely identifies this build.
	BuildID string
}

// NewPluginContext creates a new plugin context. A nil logger or recorder
// falls back to slog.Default and a no-op recorder.
func NewPluginContext(reg *Registry, logger *slog.Logger, recorder metrics.Recorder, outputDir, buildID string) *PluginContext {
	if logger == nil {
		logger = slog.Default()
	}
	if recorder == nil {
		recorder = metrics.NoopRecorder{}
	}
	return &PluginContext{
		Registry:  reg,
		Logger:    logger,
		Recorder:  recorder,
		OutputDir: outputDir,
		BuildID:   buildID,
	}
}
