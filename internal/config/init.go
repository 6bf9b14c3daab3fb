package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	ferrors "git.home.luguber.info/inful/htmltags/internal/foundation/errors"
)

// Example returns the starter configuration written by Init.
func Example() *Config {
	return &Config{
		Version: Version,
		Output: OutputConfig{
			Directory:  "dist",
			PublicPath: "/",
			AssetRoot:  ".",
		},
		Logging: LoggingConfig{Level: LogLevelInfo, Format: LogFormatText},
		Documents: []DocumentConfig{{
			Template: "src/index.html",
			Output:   "index.html",
			Scripts:  []string{"/app.js"},
			Styles:   []string{"/app.css"},
		}},
		Plugins: []PluginConfig{{
			Name: "vendor",
			Options: map[string]any{
				"append": false,
				"hash":   true,
				"links":  []any{"css/reset.css"},
				"scripts": []any{map[string]any{
					"path":       "js/vendor.js",
					"sourcePath": "node_modules/vendor/dist/vendor.js",
					"attributes": map[string]any{"defer": true},
				}},
			},
		}},
	}
}

// Init writes the example configuration to configPath.
func Init(configPath string, force bool) error {
	if _, err := os.Stat(configPath); err == nil && !force {
		return ferrors.ConfigError(fmt.Sprintf("configuration file already exists: %s (use --force to overwrite)", configPath)).Build()
	}

	data, err := yaml.Marshal(Example())
	if err != nil {
		return ferrors.WrapError(err, ferrors.CategoryInternal, "failed to marshal example config").Build()
	}
	if dir := filepath.Dir(configPath); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return ferrors.WrapError(err, ferrors.CategoryFileSystem, "failed to create config directory").
				WithContext("path", dir).
				Build()
		}
	}
	if err := os.WriteFile(configPath, data, 0o600); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryFileSystem, "failed to write config file").
			WithContext("path", configPath).
			Build()
	}
	return nil
}
