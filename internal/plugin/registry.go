package plugin

import (
	"fmt"
	"sync"
)

type entry struct {
	key    string
	plugin Plugin
}

// Registry manages plugin registration and discovery. Listing preserves
// registration order.
type Registry struct {
	mu      sync.RWMutex
	entries []entry
	index   map[string]int // map[name@version]position
}

// NewRegistry creates a new empty plugin registry.
func NewRegistry() *Registry {
	return &Registry{
		index: make(map[string]int),
	}
}

func registryKey(name, version string) string {
	return name + "@" + version
}

// Register adds a plugin to the registry.
// Returns an error if a plugin with the same name and version already exists.
func (r *Registry) Register(plugin Plugin) error {
	if plugin == nil {
		return fmt.Errorf("cannot register nil plugin")
	}

	metadata := plugin.Metadata()
	if err := metadata.Validate(); err != nil {
		return fmt.Errorf("invalid plugin metadata: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	key := registryKey(metadata.Name, metadata.Version)
	if _, exists := r.index[key]; exists {
		return fmt.Errorf("plugin %s already registered", key)
	}

	r.index[key] = len(r.entries)
	r.entries = append(r.entries, entry{key: key, plugin: plugin})
	return nil
}

// Get retrieves a specific plugin by name and version.
func (r *Registry) Get(name, version string) (Plugin, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i, ok := r.index[registryKey(name, version)]
	if !ok {
		return nil, fmt.Errorf("plugin %s@%s not found", name, version)
	}
	return r.entries[i].plugin, nil
}

// List returns all registered plugins in registration order.
func (r *Registry) List() []Plugin {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]Plugin, 0, len(r.entries))
	for _, e := range r.entries {
		result = append(result, e.plugin)
	}
	return result
}

// ListByType returns all plugins of a specific type in registration order.
func (r *Registry) ListByType(pluginType PluginType) []Plugin {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []Plugin
	for _, e := range r.entries {
		if e.plugin.Metadata().Type == pluginType {
			result = append(result, e.plugin)
		}
	}
	return result
}

// Has checks if a plugin with the given name and version exists.
func (r *Registry) Has(name, version string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.index[registryKey(name, version)]
	return ok
}

// Count returns the total number of registered plugins.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.entries)
}
