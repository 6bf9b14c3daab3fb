package refhost

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	ferrors "git.home.luguber.info/inful/htmltags/internal/foundation/errors"
	"git.home.luguber.info/inful/htmltags/internal/host"
	"git.home.luguber.info/inful/htmltags/internal/metrics"
	"git.home.luguber.info/inful/htmltags/internal/observability"
	"git.home.luguber.info/inful/htmltags/internal/plugin"
	"git.home.luguber.info/inful/htmltags/internal/retry"
)

const (
	// Name is the generator's registry name.
	Name = "refhost"

	// Version is reported in plugin metadata.
	Version = "v1.0.0"

	hashLength = 20
)

// DocumentSpec describes one document to generate.
type DocumentSpec struct {
	// Template is the path of the HTML template.
	Template string

	// Output is the output name relative to the output directory.
	Output string

	// Scripts, Styles and Metas are the generator's own entries. Script and
	// style URLs are used as given.
	Scripts []string
	Styles  []string
	Metas   []map[string]any
}

// Config configures a Generator.
type Config struct {
	OutputDir  string
	PublicPath string

	// AssetRoot resolves relative asset sources and the generator's own
	// script and style files when computing the build hash.
	AssetRoot string

	// CopyRetry governs retries of transient asset copy failures. The zero
	// value copies once.
	CopyRetry retry.Policy

	Documents []DocumentSpec
}

// Result summarizes a build.
type Result struct {
	BuildID    string
	Hash       string
	Documents  []string
	Registered []string
	Externals  map[string]string
	Errors     []error
}

type beforeTap struct {
	name string
	fn   host.BeforeHook
}

type afterTap struct {
	name string
	fn   host.AfterHook
}

// Generator renders documents and runs the tag generation hooks.
type Generator struct {
	cfg      Config
	logger   *slog.Logger
	recorder metrics.Recorder

	mu     sync.Mutex
	before []beforeTap
	after  []afterTap
	result *Result
}

// Option configures a Generator.
type Option func(*Generator)

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(g *Generator) {
		if l != nil {
			g.logger = l
		}
	}
}

// WithRecorder sets the metrics recorder.
func WithRecorder(r metrics.Recorder) Option {
	return func(g *Generator) {
		if r != nil {
			g.recorder = r
		}
	}
}

// New returns a Generator for cfg.
func New(cfg Config, opts ...Option) *Generator {
	g := &Generator{
		cfg:      cfg,
		logger:   slog.Default(),
		recorder: metrics.NoopRecorder{},
	}
	for _, o := range opts {
		o(g)
	}
	return g
}

// Metadata implements plugin.Plugin.
func (g *Generator) Metadata() plugin.PluginMetadata {
	return plugin.PluginMetadata{
		Name:        Name,
		Version:     Version,
		Type:        plugin.PluginTypeHTML,
		Description: "Reference HTML generator with tag generation hooks",
	}
}

// Init creates the output directory.
func (g *Generator) Init(*plugin.PluginContext) error {
	if err := os.MkdirAll(g.cfg.OutputDir, 0o750); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryFileSystem, "failed to create output directory").
			WithContext("output_dir", g.cfg.OutputDir).
			Build()
	}
	return nil
}

// Cleanup implements plugin.PluginLifecycle.
func (g *Generator) Cleanup() error { return nil }

// Execute implements plugin.Plugin by building all documents.
func (g *Generator) Execute(ctx context.Context, pluginCtx *plugin.PluginContext) error {
	_, err := g.Build(ctx, pluginCtx.BuildID)
	return err
}

// Result returns the last build result, or nil.
func (g *Generator) Result() *Result {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.result
}

// TapBeforeTagGeneration implements host.HookSurface.
func (g *Generator) TapBeforeTagGeneration(name string, fn host.BeforeHook) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.before = append(g.before, beforeTap{name: name, fn: fn})
}

// TapAfterTagGeneration implements host.HookSurface.
func (g *Generator) TapAfterTagGeneration(name string, fn host.AfterHook) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.after = append(g.after, afterTap{name: name, fn: fn})
}

// Build renders every configured document. An empty buildID gets a fresh one.
func (g *Generator) Build(ctx context.Context, buildID string) (*Result, error) {
	if buildID == "" {
		buildID = uuid.NewString()
	}
	ctx = observability.WithBuildID(ctx, buildID)
	log := observability.Logger(ctx, g.logger)

	hash, err := g.buildHash()
	if err != nil {
		return nil, err
	}
	comp := NewCompilation(g.cfg.AssetRoot, g.cfg.OutputDir, g.cfg.CopyRetry)

	res := &Result{BuildID: buildID, Hash: hash}
	for _, spec := range g.cfg.Documents {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		start := time.Now()
		if err := g.renderDocument(ctx, spec, hash, comp); err != nil {
			return nil, err
		}
		g.recorder.ObservePhaseDuration("render", time.Since(start))
		res.Documents = append(res.Documents, spec.Output)
	}
	res.Registered = comp.Registered()
	res.Externals = comp.Externals()
	res.Errors = comp.Errors()

	log.Info("Build complete",
		slog.Int("documents", len(res.Documents)),
		slog.Int("assets", len(res.Registered)),
		slog.Int("errors", len(res.Errors)))

	g.mu.Lock()
	g.result = res
	g.mu.Unlock()
	return res, nil
}

// buildHash digests every template and the generator's own asset files.
// Missing asset files are skipped.
func (g *Generator) buildHash() (string, error) {
	h := sha256.New()
	for _, spec := range g.cfg.Documents {
		data, err := os.ReadFile(filepath.Clean(spec.Template))
		if err != nil {
			return "", ferrors.WrapError(err, ferrors.CategoryFileSystem, "failed to read template").
				WithContext("template", spec.Template).
				Build()
		}
		h.Write(data)
		for _, name := range slices.Concat(spec.Scripts, spec.Styles) {
			if data, err := os.ReadFile(filepath.Join(g.cfg.AssetRoot, filepath.FromSlash(name))); err == nil {
				h.Write(data)
			}
		}
	}
	return hex.EncodeToString(h.Sum(nil))[:hashLength], nil
}

func (g *Generator) hooks() ([]beforeTap, []afterTap) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return slices.Clone(g.before), slices.Clone(g.after)
}

func (g *Generator) renderDocument(ctx context.Context, spec DocumentSpec, hash string, comp *Compilation) error {
	ctx = observability.WithDocument(ctx, spec.Output)

	page, err := parseTemplate(spec.Template)
	if err != nil {
		return err
	}

	doc := &host.Document{OutputName: spec.Output, PublicPath: g.cfg.PublicPath, Hash: hash}
	assets := &host.AssetLists{
		JS:    slices.Clone(spec.Scripts),
		CSS:   slices.Clone(spec.Styles),
		Metas: cloneMetas(spec.Metas),
	}

	before, after := g.hooks()
	for _, tap := range before {
		if err := tap.fn(ctx, doc, assets, comp); err != nil {
			return ferrors.WrapError(err, ferrors.CategoryHost, "before tag generation hook failed").
				Fatal().
				WithContext("hook", tap.name).
				WithContext("document", spec.Output).
				Build()
		}
	}

	head, body := generateTags(assets)

	for _, tap := range after {
		if err := tap.fn(ctx, doc, head, body, comp); err != nil {
			return ferrors.WrapError(err, ferrors.CategoryHost, "after tag generation hook failed").
				Fatal().
				WithContext("hook", tap.name).
				WithContext("document", spec.Output).
				Build()
		}
	}

	injectTags(page, head, body)
	return writeDocument(page, filepath.Join(g.cfg.OutputDir, filepath.FromSlash(spec.Output)))
}

// generateTags materializes the asset lists: metas and stylesheets in the
// head, scripts in the body.
func generateTags(assets *host.AssetLists) (head, body []*host.Tag) {
	for _, m := range assets.Metas {
		head = append(head, host.MetaTag(m))
	}
	for _, href := range assets.CSS {
		head = append(head, host.StylesheetTag(href))
	}
	for _, src := range assets.JS {
		body = append(body, host.ScriptTag(src))
	}
	return head, body
}

func cloneMetas(metas []map[string]any) []map[string]any {
	out := make([]map[string]any, len(metas))
	for i, m := range metas {
		cp := make(map[string]any, len(m))
		for k, v := range m {
			cp[k] = v
		}
		out[i] = cp
	}
	return out
}
