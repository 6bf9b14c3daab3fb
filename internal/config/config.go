// Package config loads the htmltags project file: the documents the
// reference generator renders and the raw options of each htmltags instance.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	ferrors "git.home.luguber.info/inful/htmltags/internal/foundation/errors"
	"git.home.luguber.info/inful/htmltags/internal/retry"
	"git.home.luguber.info/inful/htmltags/internal/util/sets"
)

// Version is the only supported configuration version.
const Version = "1.0"

// DefaultPath is the configuration file name used when none is given.
const DefaultPath = "htmltags.yaml"

// envFiles are loaded in order when present. Existing variables win.
var envFiles = []string{".env", ".env.local"}

// Config is the project configuration.
type Config struct {
	Version   string           `yaml:"version"`
	Output    OutputConfig     `yaml:"output"`
	Logging   LoggingConfig    `yaml:"logging,omitempty"`
	Documents []DocumentConfig `yaml:"documents"`
	Plugins   []PluginConfig   `yaml:"plugins"`
}

// OutputConfig controls where and how documents are written.
type OutputConfig struct {
	Directory  string `yaml:"directory"`   // Output directory for documents and assets
	PublicPath string `yaml:"public_path"` // Base public path handed to plugins
	AssetRoot  string `yaml:"asset_root"`  // Relative asset sources resolve here

	// CopyRetries bounds retries of transient asset copy failures; unset uses
	// the default policy.
	CopyRetries *int   `yaml:"copy_retries,omitempty"`
	CopyBackoff string `yaml:"copy_backoff,omitempty"` // fixed, linear or exponential
}

// RetryPolicy returns the asset copy retry policy.
func (o OutputConfig) RetryPolicy() retry.Policy {
	maxRetries := -1
	if o.CopyRetries != nil {
		maxRetries = *o.CopyRetries
	}
	return retry.NewPolicy(retry.ParseMode(o.CopyBackoff), 0, 0, maxRetries)
}

// DocumentConfig is one document to render.
type DocumentConfig struct {
	Template string           `yaml:"template"`
	Output   string           `yaml:"output,omitempty"`
	Scripts  []string         `yaml:"scripts,omitempty"`
	Styles   []string         `yaml:"styles,omitempty"`
	Metas    []map[string]any `yaml:"metas,omitempty"`
}

// PluginConfig is one htmltags instance. Options are passed to the option
// validator unchanged.
type PluginConfig struct {
	Name    string         `yaml:"name,omitempty"`
	Options map[string]any `yaml:"options"`
}

// PluginName returns the configured name of the i-th plugin or a positional default.
func (c *Config) PluginName(i int) string {
	if i < len(c.Plugins) && c.Plugins[i].Name != "" {
		return c.Plugins[i].Name
	}
	return fmt.Sprintf("htmltags.%d", i)
}

// Load reads, expands and validates a configuration file.
func Load(configPath string) (*Config, error) {
	loadEnvFiles()

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ferrors.ConfigError("configuration file not found").
				WithContext("path", configPath).
				Build()
		}
		return nil, ferrors.WrapError(err, ferrors.CategoryFileSystem, "failed to read config file").
			WithContext("path", configPath).
			Build()
	}
	return Parse(bytes.NewReader(data))
}

// Parse decodes a configuration from r after environment expansion.
func Parse(r io.Reader) (*Config, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryFileSystem, "failed to read config").Build()
	}

	expanded := os.ExpandEnv(string(data))
	dec := yaml.NewDecoder(strings.NewReader(expanded))
	dec.KnownFields(true)

	var cfg Config
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, ferrors.WrapError(err, ferrors.CategoryConfig, "failed to unmarshal config").Build()
	}

	if cfg.Version != Version {
		return nil, ferrors.ConfigError(fmt.Sprintf("unsupported configuration version: %q (expected %s)", cfg.Version, Version)).Build()
	}

	applyDefaults(&cfg)
	if err := validateConfig(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func loadEnvFiles() {
	for _, f := range envFiles {
		if _, err := os.Stat(f); err != nil {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			slog.Warn("Failed to load environment file", "file", f, "error", err)
			continue
		}
		slog.Debug("Loaded environment variables", "file", f)
	}
}

func applyDefaults(cfg *Config) {
	if cfg.Output.Directory == "" {
		cfg.Output.Directory = "dist"
	}
	if cfg.Output.AssetRoot == "" {
		cfg.Output.AssetRoot = "."
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = LogLevelInfo
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = LogFormatText
	}
	for i := range cfg.Documents {
		if cfg.Documents[i].Output == "" && cfg.Documents[i].Template != "" {
			cfg.Documents[i].Output = filepath.ToSlash(filepath.Base(cfg.Documents[i].Template))
		}
	}
	for i := range cfg.Plugins {
		if cfg.Plugins[i].Options == nil {
			cfg.Plugins[i].Options = map[string]any{}
		}
	}
}

func validateConfig(cfg *Config) error {
	if !cfg.Logging.Level.IsValid() {
		return ferrors.ConfigError(fmt.Sprintf("invalid logging level: %s", cfg.Logging.Level)).Build()
	}
	if !cfg.Logging.Format.IsValid() {
		return ferrors.ConfigError(fmt.Sprintf("invalid logging format: %s", cfg.Logging.Format)).Build()
	}
	if cfg.Output.CopyBackoff != "" && retry.ParseMode(cfg.Output.CopyBackoff) == "" {
		return ferrors.ConfigError(fmt.Sprintf("invalid output.copy_backoff: %s", cfg.Output.CopyBackoff)).Build()
	}
	if cfg.Output.CopyRetries != nil && *cfg.Output.CopyRetries < 0 {
		return ferrors.ConfigError("output.copy_retries must not be negative").Build()
	}
	if len(cfg.Documents) == 0 {
		return ferrors.ConfigError("at least one document must be configured").Build()
	}

	outputs := make(map[string]int, len(cfg.Documents))
	for i, d := range cfg.Documents {
		if d.Template == "" {
			return ferrors.ConfigError(fmt.Sprintf("documents[%d].template is required", i)).Build()
		}
		if prev, dup := outputs[d.Output]; dup {
			return ferrors.ConfigError(fmt.Sprintf("documents[%d] and documents[%d] both write %s", prev, i, d.Output)).Build()
		}
		outputs[d.Output] = i
	}

	names := sets.New[string]()
	for i := range cfg.Plugins {
		if name := cfg.PluginName(i); !names.Insert(name) {
			return ferrors.ConfigError(fmt.Sprintf("duplicate plugin name: %s", name)).Build()
		}
	}
	return nil
}
