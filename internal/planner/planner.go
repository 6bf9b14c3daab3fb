// Package planner turns validated htmltags options into per-document plans.
//
// The before phase splices the planned JS and CSS URLs and meta attribute
// sets into the host's asset lists and registers local sources as build
// assets. The after phase locates the tags the host generated for those
// entries and merges the configured attributes into them.
package planner

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	ferrors "git.home.luguber.info/inful/htmltags/internal/foundation/errors"
	"git.home.luguber.info/inful/htmltags/internal/host"
	"git.home.luguber.info/inful/htmltags/internal/logfields"
	"git.home.luguber.info/inful/htmltags/internal/metrics"
	"git.home.luguber.info/inful/htmltags/internal/observability"
	"git.home.luguber.info/inful/htmltags/internal/options"
	"git.home.luguber.info/inful/htmltags/internal/util/sets"
)

// GlobFunc lists the files matching pattern under dir.
type GlobFunc func(dir, pattern string) ([]string, error)

// Planner plans the tags of one plugin instance.
type Planner struct {
	opts        *options.Options
	logger      *slog.Logger
	recorder    metrics.Recorder
	glob        GlobFunc
	concurrency int
}

// Option configures a Planner.
type Option func(*Planner)

// WithLogger sets the base logger.
func WithLogger(l *slog.Logger) Option {
	return func(p *Planner) {
		if l != nil {
			p.logger = l
		}
	}
}

// WithRecorder sets the metrics recorder.
func WithRecorder(r metrics.Recorder) Option {
	return func(p *Planner) {
		if r != nil {
			p.recorder = r
		}
	}
}

// WithGlob replaces the filesystem glob used at build time.
func WithGlob(fn GlobFunc) Option {
	return func(p *Planner) {
		if fn != nil {
			p.glob = fn
		}
	}
}

// WithConcurrency limits concurrent asset registrations. Zero or less means no limit.
func WithConcurrency(n int) Option {
	return func(p *Planner) { p.concurrency = n }
}

// New returns a Planner for opts. opts must come from options.Validate.
func New(opts *options.Options, optFns ...Option) *Planner {
	p := &Planner{
		opts:     opts,
		logger:   slog.Default(),
		recorder: metrics.NoopRecorder{},
		glob:     options.ExpandGlob,
	}
	for _, fn := range optFns {
		fn(p)
	}
	return p
}

// Options returns the options the planner was built from.
func (p *Planner) Options() *options.Options {
	return p.opts
}

// BeforeTagGeneration plans doc and edits assets in place. It returns a nil
// plan when the files filter excludes the document. Asset registration
// failures are reported to comp and do not fail the hook.
func (p *Planner) BeforeTagGeneration(ctx context.Context, doc *host.Document, assets *host.AssetLists, comp host.Compilation) (*DocumentPlan, error) {
	start := time.Now()
	defer func() { p.recorder.ObservePhaseDuration("before", time.Since(start)) }()

	ctx = observability.WithPhase(observability.WithDocument(ctx, doc.OutputName), "before")
	log := observability.Logger(ctx, p.logger)

	if !options.MatchFiles(p.opts.Files, doc.OutputName) {
		p.recorder.IncDocumentSkipped()
		log.Debug("Document excluded by files filter")
		return nil, nil
	}

	var js, css []*Entry
	for _, spec := range p.opts.AllTags() {
		entries, err := p.expandTag(doc, spec)
		if err != nil {
			comp.ReportError(err)
			continue
		}
		if spec.Kind == options.KindJS {
			js = append(js, entries...)
		} else {
			css = append(css, entries...)
		}
	}

	plan := &DocumentPlan{
		Document: doc.OutputName,
		JS:       partition(js, p.opts.PrependExternals),
		CSS:      partition(css, p.opts.PrependExternals),
	}
	plan.MetasPrepend, plan.MetasAppend = p.planMetas(doc, comp)

	for _, spec := range p.opts.AllTags() {
		if spec.External != nil {
			comp.AddExternal(spec.External.PackageName, spec.External.VariableName)
			p.recorder.IncExternalRegistered()
		}
	}

	assets.JS = splice(urls(plan.JS.Prepend), assets.JS, urls(plan.JS.Append))
	assets.CSS = splice(urls(plan.CSS.Prepend), assets.CSS, urls(plan.CSS.Append))
	assets.Metas = splice(plan.MetasPrepend, assets.Metas, plan.MetasAppend)

	p.recorder.IncTagsPlanned(string(options.KindJS), "prepend", len(plan.JS.Prepend))
	p.recorder.IncTagsPlanned(string(options.KindJS), "append", len(plan.JS.Append))
	p.recorder.IncTagsPlanned(string(options.KindCSS), "prepend", len(plan.CSS.Prepend))
	p.recorder.IncTagsPlanned(string(options.KindCSS), "append", len(plan.CSS.Append))

	log.Debug("Planned tags",
		slog.Int("js", plan.JS.Len()),
		slog.Int("css", plan.CSS.Len()),
		slog.Int("metas", len(plan.MetasPrepend)+len(plan.MetasAppend)))

	if err := p.registerAssets(ctx, doc, append(js, css...), comp); err != nil {
		return nil, err
	}
	return plan, nil
}

// expandTag resolves spec into concrete entries, one per glob match.
func (p *Planner) expandTag(doc *host.Document, spec *options.TagSpec) ([]*Entry, error) {
	publicPath := spec.PublicPath.Or(p.opts.PublicPath)
	hash := spec.Hash.Or(p.opts.Hash)
	appendTag := spec.Append.UnwrapOr(p.opts.Append)

	newEntry := func(dest, source string) *Entry {
		return &Entry{
			Spec:   spec,
			Path:   dest,
			URL:    ResolveURL(dest, publicPath, hash, doc.PublicPath, doc.Hash),
			Source: source,
			Append: appendTag,
		}
	}

	if !spec.HasGlob() {
		return []*Entry{newEntry(spec.Path, spec.SourcePath)}, nil
	}

	matches, err := p.glob(spec.GlobPath, spec.Glob)
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryFileSystem, "failed to expand glob").
			WithContext("glob", spec.Glob).
			WithContext("globPath", spec.GlobPath).
			Build()
	}
	entries := make([]*Entry, 0, len(matches))
	for _, m := range matches {
		source := ""
		if spec.SourcePath != "" {
			source = prefixPath(spec.SourcePath, m)
		}
		entries = append(entries, newEntry(globDest(spec.Path, m, spec.GlobFlatten), source))
	}
	return entries, nil
}

// planMetas builds the meta attribute sets for the prepend and append
// buckets. Metas append unless configured otherwise.
func (p *Planner) planMetas(doc *host.Document, comp host.Compilation) (prepend, appendList []map[string]any) {
	for _, spec := range p.opts.Metas {
		publicPath := spec.PublicPath.Or(p.opts.PublicPath)
		hash := spec.Hash.Or(p.opts.Hash)

		var attrSets []map[string]any
		switch {
		case spec.HasGlob():
			matches, err := p.glob(spec.GlobPath, spec.Glob)
			if err != nil {
				comp.ReportError(ferrors.WrapError(err, ferrors.CategoryFileSystem, "failed to expand meta glob").
					WithContext("glob", spec.Glob).
					WithContext("globPath", spec.GlobPath).
					Build())
				continue
			}
			for _, m := range matches {
				dest := globDest(spec.Path, m, spec.GlobFlatten)
				attrSets = append(attrSets, metaAttributes(spec.Attributes, ResolveURL(dest, publicPath, hash, doc.PublicPath, doc.Hash)))
			}
		case spec.Path != "":
			attrSets = append(attrSets, metaAttributes(spec.Attributes, ResolveURL(spec.Path, publicPath, hash, doc.PublicPath, doc.Hash)))
		default:
			attrSets = append(attrSets, metaAttributes(spec.Attributes, ""))
		}

		if spec.Append.UnwrapOr(true) {
			appendList = append(appendList, attrSets...)
		} else {
			prepend = append(prepend, attrSets...)
		}
	}
	return prepend, appendList
}

func metaAttributes(attrs map[string]any, content string) map[string]any {
	out := make(map[string]any, len(attrs)+1)
	for k, v := range attrs {
		out[k] = v
	}
	if content != "" {
		out["content"] = content
	}
	return out
}

// registerAssets registers every entry that has a local source and waits for
// all registrations. Failures are reported to comp.
func (p *Planner) registerAssets(ctx context.Context, doc *host.Document, entries []*Entry, comp host.Compilation) error {
	log := observability.Logger(ctx, p.logger)

	g, gctx := errgroup.WithContext(ctx)
	if p.concurrency > 0 {
		g.SetLimit(p.concurrency)
	}
	seen := sets.New[[2]string]()
	for _, e := range entries {
		if e.Source == "" || !seen.Insert([2]string{e.Source, e.Path}) {
			continue
		}

		source, dest := e.Source, e.Path
		g.Go(func() error {
			if err := comp.RegisterAsset(gctx, source, dest); err != nil {
				p.recorder.IncAssetRegistration(metrics.ResultFailed)
				log.Warn("Asset registration failed",
					logfields.Source(source),
					logfields.Dest(dest),
					logfields.Error(err))
				comp.ReportError(ferrors.WrapError(err, ferrors.CategoryAsset, "failed to register asset").
					WithContext("source", source).
					WithContext("dest", dest).
					WithContext("document", doc.OutputName).
					Build())
				return nil
			}
			p.recorder.IncAssetRegistration(metrics.ResultSuccess)
			return nil
		})
	}
	return g.Wait()
}

// AfterTagGeneration merges configured attributes into the tags the host
// generated for plan. head holds the generated head tags and body the
// generated body tags. A nil plan is a no-op.
func (p *Planner) AfterTagGeneration(ctx context.Context, plan *DocumentPlan, head, body []*host.Tag, comp host.Compilation) error {
	if plan == nil {
		return nil
	}
	start := time.Now()
	defer func() { p.recorder.ObservePhaseDuration("after", time.Since(start)) }()

	ctx = observability.WithPhase(observability.WithDocument(ctx, plan.Document), "after")
	log := observability.Logger(ctx, p.logger)

	var links, scripts []*host.Tag
	for _, t := range head {
		if t.IsStylesheet() {
			links = append(links, t)
		}
	}
	for _, t := range body {
		if t.Name == "script" {
			scripts = append(scripts, t)
		}
	}

	missing := p.mergeAttributes(log, plan.CSS, links)
	missing = append(missing, p.mergeAttributes(log, plan.JS, scripts)...)
	for _, url := range missing {
		comp.ReportError(ferrors.NewError(ferrors.CategoryHost, "generated tag not found").
			WithContext("url", url).
			WithContext("document", plan.Document).
			Build())
	}
	return nil
}

// mergeAttributes matches the bucket entries to nodes and copies their
// attributes. It returns the URLs of entries without a node.
func (p *Planner) mergeAttributes(log *slog.Logger, b Buckets, nodes []*host.Tag) []string {
	var missing []string
	claimed := make([]bool, len(nodes))

	prependSlice := min(len(b.Prepend), len(nodes))
	appendStart := max(len(nodes)-len(b.Append), 0)

	match := func(e *Entry, pos int) *host.Tag {
		if pos >= 0 && pos < len(nodes) && !claimed[pos] && nodes[pos].URL() == e.URL {
			claimed[pos] = true
			return nodes[pos]
		}
		for i, n := range nodes {
			if !claimed[i] && n.URL() == e.URL {
				p.recorder.IncAttributeMismatch()
				log.Debug("Generated tag found outside its expected slice",
					logfields.URL(e.URL),
					slog.Int("expected", pos),
					slog.Int("found", i))
				claimed[i] = true
				return n
			}
		}
		return nil
	}

	apply := func(e *Entry, pos int) {
		node := match(e, pos)
		if node == nil {
			missing = append(missing, e.URL)
			return
		}
		if len(e.Spec.Attributes) == 0 {
			return
		}
		if node.Attributes == nil {
			node.Attributes = make(map[string]any, len(e.Spec.Attributes))
		}
		for k, v := range e.Spec.Attributes {
			node.Attributes[k] = v
		}
	}

	for i, e := range b.Prepend {
		pos := -1
		if i < prependSlice {
			pos = i
		}
		apply(e, pos)
	}
	for i, e := range b.Append {
		apply(e, appendStart+i)
	}
	return missing
}
