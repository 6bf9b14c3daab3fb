package plugin

import (
	"context"
	"errors"
	"testing"
)

// mockPluginForRegistry is a test plugin for registry tests.
type mockPluginForRegistry struct {
	metadata PluginMetadata
	executed *[]string
	err      error
}

func (m *mockPluginForRegistry) Metadata() PluginMetadata {
	return m.metadata
}

func (m *mockPluginForRegistry) Execute(ctx context.Context, pluginCtx *PluginContext) error {
	if m.executed != nil {
		*m.executed = append(*m.executed, m.metadata.Name)
	}
	return m.err
}

func newMockPlugin(name, version string, pluginType PluginType) *mockPluginForRegistry {
	return &mockPluginForRegistry{
		metadata: PluginMetadata{
			Name:    name,
			Version: version,
			Type:    pluginType,
		},
	}
}

// TestRegistryRegister tests plugin registration.
func TestRegistryRegister(t *testing.T) {
	registry := NewRegistry()

	plugin := newMockPlugin("refhost", "v1.0.0", PluginTypeHTML)

	if err := registry.Register(plugin); err != nil {
		t.Fatalf("Register() failed: %v", err)
	}

	if !registry.Has("refhost", "v1.0.0") {
		t.Error("Plugin should be registered")
	}

	if err := registry.Register(plugin); err == nil {
		t.Error("Should not allow duplicate registration")
	}
}

// TestRegistryRegisterNil tests registering nil plugin.
func TestRegistryRegisterNil(t *testing.T) {
	registry := NewRegistry()

	if err := registry.Register(nil); err == nil {
		t.Error("Should not allow registering nil plugin")
	}
}

// TestRegistryRegisterInvalidMetadata tests registering plugins with invalid metadata.
func TestRegistryRegisterInvalidMetadata(t *testing.T) {
	tests := []struct {
		name     string
		metadata PluginMetadata
	}{
		{name: "missing name", metadata: PluginMetadata{Version: "v1.0.0", Type: PluginTypeHTML}},
		{name: "missing version", metadata: PluginMetadata{Name: "x", Type: PluginTypeHTML}},
		{name: "unknown type", metadata: PluginMetadata{Name: "x", Version: "v1", Type: "theme"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			registry := NewRegistry()
			if err := registry.Register(&mockPluginForRegistry{metadata: tt.metadata}); err == nil {
				t.Error("Should not allow plugin with invalid metadata")
			}
		})
	}
}

// TestRegistryGet tests retrieving plugins.
func TestRegistryGet(t *testing.T) {
	registry := NewRegistry()
	plugin := newMockPlugin("htmltags.0", "v1.0.0", PluginTypeTags)
	if err := registry.Register(plugin); err != nil {
		t.Fatalf("Register() failed: %v", err)
	}

	got, err := registry.Get("htmltags.0", "v1.0.0")
	if err != nil {
		t.Fatalf("Get() failed: %v", err)
	}
	if got != plugin {
		t.Error("Get() returned a different plugin")
	}

	if _, err := registry.Get("htmltags.0", "v2.0.0"); err == nil {
		t.Error("Get() should fail for unknown version")
	}
}

// TestRegistryListByTypeKeepsOrder tests that listing follows registration order.
func TestRegistryListByTypeKeepsOrder(t *testing.T) {
	registry := NewRegistry()
	names := []string{"htmltags.2", "htmltags.0", "htmltags.1"}
	for _, name := range names {
		if err := registry.Register(newMockPlugin(name, "v1", PluginTypeTags)); err != nil {
			t.Fatalf("Register() failed: %v", err)
		}
	}
	if err := registry.Register(newMockPlugin("refhost", "v1", PluginTypeHTML)); err != nil {
		t.Fatalf("Register() failed: %v", err)
	}

	tags := registry.ListByType(PluginTypeTags)
	if len(tags) != len(names) {
		t.Fatalf("ListByType() returned %d plugins, want %d", len(tags), len(names))
	}
	for i, p := range tags {
		if p.Metadata().Name != names[i] {
			t.Errorf("ListByType()[%d] = %s, want %s", i, p.Metadata().Name, names[i])
		}
	}
	if registry.Count() != 4 {
		t.Errorf("Count() = %d, want 4", registry.Count())
	}
	if len(registry.ListByType(PluginTypeHTML)) != 1 {
		t.Error("Expected exactly one HTML generator")
	}
}

// TestRegistryRunOrder tests that tag plugins execute before generators.
func TestRegistryRunOrder(t *testing.T) {
	registry := NewRegistry()
	var executed []string

	for _, p := range []*mockPluginForRegistry{
		newMockPlugin("refhost", "v1", PluginTypeHTML),
		newMockPlugin("htmltags.0", "v1", PluginTypeTags),
		newMockPlugin("htmltags.1", "v1", PluginTypeTags),
	} {
		p.executed = &executed
		if err := registry.Register(p); err != nil {
			t.Fatalf("Register() failed: %v", err)
		}
	}

	if err := registry.Run(context.Background(), NewPluginContext(registry, nil, nil, "", "")); err != nil {
		t.Fatalf("Run() failed: %v", err)
	}

	want := []string{"htmltags.0", "htmltags.1", "refhost"}
	if len(executed) != len(want) {
		t.Fatalf("executed %v, want %v", executed, want)
	}
	for i := range want {
		if executed[i] != want[i] {
			t.Errorf("executed[%d] = %s, want %s", i, executed[i], want[i])
		}
	}
}

// TestRegistryRunWrapsErrors tests that execution failures name the plugin.
func TestRegistryRunWrapsErrors(t *testing.T) {
	registry := NewRegistry()
	cause := errors.New("boom")
	p := newMockPlugin("htmltags.0", "v1", PluginTypeTags)
	p.err = cause
	if err := registry.Register(p); err != nil {
		t.Fatalf("Register() failed: %v", err)
	}

	err := registry.Run(context.Background(), NewPluginContext(registry, nil, nil, "", ""))
	var pluginErr *PluginError
	if !errors.As(err, &pluginErr) {
		t.Fatalf("Run() error = %v, want *PluginError", err)
	}
	if pluginErr.PluginName != "htmltags.0" || pluginErr.Operation != "execute" {
		t.Errorf("unexpected plugin error: %v", pluginErr)
	}
	if !errors.Is(err, cause) {
		t.Error("Run() error should wrap the cause")
	}
}
