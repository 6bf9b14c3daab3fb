// Package commands implements the htmltags command line.
package commands

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/htmltags/internal/config"
)

// Global is shared state passed to every command.
type Global struct {
	Context context.Context
	Stdout  io.Writer

	logger *slog.Logger
}

// Logger returns the configured logger, or slog.Default.
func (g *Global) Logger() *slog.Logger {
	if g == nil || g.logger == nil {
		return slog.Default()
	}
	return g.logger
}

func (g *Global) ctx() context.Context {
	if g.Context == nil {
		return context.Background()
	}
	return g.Context
}

func (g *Global) stdout() io.Writer {
	if g.Stdout == nil {
		return os.Stdout
	}
	return g.Stdout
}

// CLI definition & global flags.
type CLI struct {
	Config  string           `short:"c" help:"Configuration file path" default:"htmltags.yaml"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Inject   InjectCmd   `cmd:"" help:"Render the configured documents with all htmltags instances applied"`
	Validate ValidateCmd `cmd:"" help:"Validate plugin options and print them normalized"`
	Init     InitCmd     `cmd:"" help:"Write a starter configuration file"`
}

// AfterApply runs after flag parsing; setup logging once.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply() error {
	level := slog.LevelInfo
	if c.Verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	return nil
}

// loadConfig loads the configuration and switches logging to its settings.
func loadConfig(g *Global, root *CLI) (*config.Config, error) {
	cfg, err := config.Load(root.Config)
	if err != nil {
		return nil, err
	}
	g.logger = cfg.Logging.NewLogger(os.Stderr, root.Verbose)
	return cfg, nil
}
