package commands

import (
	"fmt"
	"log/slog"
	"maps"
	"slices"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/htmltags/internal/config"
	ferrors "git.home.luguber.info/inful/htmltags/internal/foundation/errors"
	"git.home.luguber.info/inful/htmltags/internal/logfields"
	"git.home.luguber.info/inful/htmltags/internal/metrics"
	"git.home.luguber.info/inful/htmltags/internal/plugin"
	"git.home.luguber.info/inful/htmltags/internal/refhost"
	"git.home.luguber.info/inful/htmltags/internal/tagsplugin"
)

// InjectCmd implements the 'inject' command.
type InjectCmd struct {
	Output          string `short:"o" help:"Output directory (overrides output.directory)"`
	MetricsTextfile string `name:"metrics-textfile" help:"Write Prometheus metrics to this file after the build"`
	Concurrency     int    `help:"Maximum concurrent asset copies per document (0 = unlimited)" default:"0"`
}

func (c *InjectCmd) Run(g *Global, root *CLI) error {
	cfg, err := loadConfig(g, root)
	if err != nil {
		return err
	}
	logger := g.Logger()

	var (
		recorder metrics.Recorder = metrics.NoopRecorder{}
		promReg  *prometheus.Registry
	)
	if c.MetricsTextfile != "" {
		promReg = prometheus.NewRegistry()
		recorder = metrics.NewPrometheusRecorder(promReg)
	}

	outputDir := cfg.Output.Directory
	if c.Output != "" {
		outputDir = c.Output
	}

	gen := refhost.New(hostConfig(cfg, outputDir), refhost.WithLogger(logger), refhost.WithRecorder(recorder))
	reg := plugin.NewRegistry()
	if err := reg.Register(gen); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryInternal, "failed to register generator").Build()
	}
	for i, pc := range cfg.Plugins {
		p, err := tagsplugin.New(pc.Options,
			tagsplugin.WithName(cfg.PluginName(i)),
			tagsplugin.WithPrefix(fmt.Sprintf("plugins[%d].options", i)),
			tagsplugin.WithLogger(logger),
			tagsplugin.WithRecorder(recorder),
			tagsplugin.WithConcurrency(c.Concurrency))
		if err != nil {
			return err
		}
		if err := reg.Register(p); err != nil {
			return ferrors.WrapError(err, ferrors.CategoryConfig, "failed to register plugin").
				WithContext("plugin", cfg.PluginName(i)).
				Build()
		}
	}

	buildID := uuid.NewString()
	logger.Info("Starting build",
		logfields.BuildID(buildID),
		logfields.Path(outputDir),
		slog.Int("documents", len(cfg.Documents)),
		slog.Int("plugins", len(cfg.Plugins)))

	runErr := reg.Run(g.ctx(), plugin.NewPluginContext(reg, logger, recorder, outputDir, buildID))

	if promReg != nil {
		if err := metrics.WriteTextfile(c.MetricsTextfile, promReg); err != nil {
			logger.Warn("Failed to write metrics textfile", logfields.Path(c.MetricsTextfile), logfields.Error(err))
		}
	}
	if runErr != nil {
		return runErr
	}

	res := gen.Result()
	out := g.stdout()
	for _, doc := range res.Documents {
		_, _ = fmt.Fprintf(out, "wrote %s\n", doc)
	}
	for _, pkg := range slices.Sorted(maps.Keys(res.Externals)) {
		_, _ = fmt.Fprintf(out, "external %s => %s\n", pkg, res.Externals[pkg])
	}
	for _, e := range res.Errors {
		logger.Error("Build error", logfields.Error(e))
	}
	if len(res.Errors) > 0 {
		return ferrors.AssetError(fmt.Sprintf("build completed with %d error(s)", len(res.Errors))).
			WithContext("build.id", res.BuildID).
			Build()
	}
	return nil
}

func hostConfig(cfg *config.Config, outputDir string) refhost.Config {
	docs := make([]refhost.DocumentSpec, len(cfg.Documents))
	for i, d := range cfg.Documents {
		docs[i] = refhost.DocumentSpec{
			Template: d.Template,
			Output:   d.Output,
			Scripts:  d.Scripts,
			Styles:   d.Styles,
			Metas:    d.Metas,
		}
	}
	return refhost.Config{
		OutputDir:  outputDir,
		PublicPath: cfg.Output.PublicPath,
		AssetRoot:  cfg.Output.AssetRoot,
		CopyRetry:  cfg.Output.RetryPolicy(),
		Documents:  docs,
	}
}
