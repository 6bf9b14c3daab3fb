// Package plugin provides the build pipeline that HTML generators and the
// plugins extending them are registered with.
package plugin

import (
	"context"
	"fmt"
)

// Plugin represents a pipeline plugin with metadata and an execution step.
type Plugin interface {
	// Metadata returns the plugin's metadata (name, version, type).
	Metadata() PluginMetadata

	// Execute runs the plugin with the given context.
	// The context provides access to the registry, logger and build state.
	Execute(ctx context.Context, pluginCtx *PluginContext) error
}

// PluginLifecycle extends Plugin with optional lifecycle hooks.
type PluginLifecycle interface {
	Plugin

	// Init is called once before any plugin executes.
	Init(pluginCtx *PluginContext) error

	// Cleanup is called after the pipeline finished, also on failure.
	Cleanup() error
}

// PluginMetadata describes a plugin's identity.
type PluginMetadata struct {
	// Name is the unique plugin identifier (e.g., "refhost", "htmltags.0").
	Name string

	// Version is the semantic version (e.g., "v1.0.0").
	Version string

	// Type identifies the plugin category.
	Type PluginType

	// Description provides a human-readable summary of the plugin's purpose.
	Description string
}

// String returns a human-readable representation of the plugin metadata.
func (m PluginMetadata) String() string {
	return fmt.Sprintf("%s@%s (%s)", m.Name, m.Version, m.Type)
}

// Validate checks if the plugin metadata is valid.
func (m PluginMetadata) Validate() error {
	if m.Name == "" {
		return fmt.Errorf("plugin name is required")
	}
	if m.Version == "" {
		return fmt.Errorf("plugin version is required")
	}
	if !m.Type.IsValid() {
		return fmt.Errorf("invalid plugin type: %s", m.Type)
	}
	return nil
}
