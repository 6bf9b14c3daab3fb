// Package tagsplugin is the htmltags plugin entry point. It validates the
// raw options once, then attaches a planner to an HTML generator's tag
// generation hooks.
package tagsplugin

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	ferrors "git.home.luguber.info/inful/htmltags/internal/foundation/errors"
	"git.home.luguber.info/inful/htmltags/internal/host"
	"git.home.luguber.info/inful/htmltags/internal/logfields"
	"git.home.luguber.info/inful/htmltags/internal/metrics"
	"git.home.luguber.info/inful/htmltags/internal/observability"
	"git.home.luguber.info/inful/htmltags/internal/options"
	"git.home.luguber.info/inful/htmltags/internal/planner"
	"git.home.luguber.info/inful/htmltags/internal/plugin"
)

const (
	// DefaultName is the hook and registry name of an unnamed instance.
	DefaultName = "htmltags"

	// Version is reported in plugin metadata.
	Version = "v1.0.0"
)

// Plugin is one configured htmltags instance.
type Plugin struct {
	name    string
	opts    *options.Options
	planner *planner.Planner
	logger  *slog.Logger

	mu       sync.Mutex
	attached bool
}

type settings struct {
	name        string
	prefix      string
	logger      *slog.Logger
	recorder    metrics.Recorder
	concurrency int
}

// Option configures New.
type Option func(*settings)

// WithName sets the instance name used for hook registration and logging.
func WithName(name string) Option {
	return func(s *settings) { s.name = name }
}

// WithPrefix sets the field prefix used in validation messages.
func WithPrefix(prefix string) Option {
	return func(s *settings) { s.prefix = prefix }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *settings) { s.logger = l }
}

// WithRecorder sets the metrics recorder.
func WithRecorder(r metrics.Recorder) Option {
	return func(s *settings) { s.recorder = r }
}

// WithConcurrency limits concurrent asset registrations per document.
func WithConcurrency(n int) Option {
	return func(s *settings) { s.concurrency = n }
}

// New validates raw and returns a plugin instance. Invalid options yield a
// fatal validation ClassifiedError wrapping the *options.ValidationError.
func New(raw any, opts ...Option) (*Plugin, error) {
	s := settings{name: DefaultName, logger: slog.Default()}
	for _, o := range opts {
		o(&s)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}

	validated, err := options.Validate(raw, s.prefix).Get()
	if err != nil {
		b := ferrors.WrapError(err, ferrors.CategoryValidation, "invalid htmltags options").
			Fatal().
			WithContext("plugin", s.name)
		var verr *options.ValidationError
		if errors.As(err, &verr) {
			b = b.WithContext("field", verr.Field)
		}
		return nil, b.Build()
	}

	logger := s.logger.With(logfields.Plugin(s.name))
	return &Plugin{
		name: s.name,
		opts: validated,
		planner: planner.New(validated,
			planner.WithLogger(logger),
			planner.WithRecorder(s.recorder),
			planner.WithConcurrency(s.concurrency)),
		logger: logger,
	}, nil
}

// Name returns the instance name.
func (p *Plugin) Name() string { return p.name }

// Options returns the validated options.
func (p *Plugin) Options() *options.Options { return p.opts }

// Metadata implements plugin.Plugin.
func (p *Plugin) Metadata() plugin.PluginMetadata {
	return plugin.PluginMetadata{
		Name:        p.name,
		Version:     Version,
		Type:        plugin.PluginTypeTags,
		Description: "Adds script, link and meta tags to generated HTML documents",
	}
}

// Execute implements plugin.Plugin by attaching to the registry's generator.
func (p *Plugin) Execute(_ context.Context, pluginCtx *plugin.PluginContext) error {
	return p.Attach(pluginCtx.Registry)
}

// Attach taps the hooks of the first HTML generator in reg that exposes a
// hook surface. It fails when there is none. An attached instance is left
// as is, so running the same registry again does not tap twice.
func (p *Plugin) Attach(reg *plugin.Registry) error {
	if p.isAttached() {
		return nil
	}
	if reg != nil {
		for _, gen := range reg.ListByType(plugin.PluginTypeHTML) {
			if surface, ok := host.AsHookSurface(gen); ok {
				p.AttachTo(surface)
				p.logger.Debug("Attached to HTML generator", slog.String("generator", gen.Metadata().String()))
				return nil
			}
		}
	}
	return ferrors.HostError("htmltags requires an HTML generator plugin that exposes tag generation hooks").
		WithContext("plugin", p.name).
		Build()
}

// AttachTo taps both tag generation hooks of surface. Only the first call
// has an effect.
func (p *Plugin) AttachTo(surface host.HookSurface) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.attached {
		return
	}
	surface.TapBeforeTagGeneration(p.name, p.beforeTagGeneration)
	surface.TapAfterTagGeneration(p.name, p.afterTagGeneration)
	p.attached = true
}

func (p *Plugin) isAttached() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.attached
}

// planKey identifies this instance's plan among the values stored on a document.
type planKey struct{ p *Plugin }

func (p *Plugin) beforeTagGeneration(ctx context.Context, doc *host.Document, assets *host.AssetLists, comp host.Compilation) error {
	plan, err := p.planner.BeforeTagGeneration(observability.WithInstance(ctx, p.name), doc, assets, comp)
	if err != nil {
		return err
	}
	doc.SetValue(planKey{p}, plan)
	return nil
}

func (p *Plugin) afterTagGeneration(ctx context.Context, doc *host.Document, head, body []*host.Tag, comp host.Compilation) error {
	plan, _ := doc.Value(planKey{p}).(*planner.DocumentPlan)
	return p.planner.AfterTagGeneration(observability.WithInstance(ctx, p.name), plan, head, body, comp)
}
