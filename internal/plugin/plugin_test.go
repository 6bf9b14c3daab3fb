package plugin

import (
	"context"
	"errors"
	"testing"
)

// TestPluginMetadataString tests the metadata display form.
func TestPluginMetadataString(t *testing.T) {
	m := PluginMetadata{Name: "htmltags.0", Version: "v1.0.0", Type: PluginTypeTags}
	if got, want := m.String(), "htmltags.0@v1.0.0 (tags)"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

// TestPluginTypeIsValid tests recognized plugin types.
func TestPluginTypeIsValid(t *testing.T) {
	for _, pt := range []PluginType{PluginTypeHTML, PluginTypeTags} {
		if !pt.IsValid() {
			t.Errorf("%s should be valid", pt)
		}
	}
	if PluginType("publisher").IsValid() {
		t.Error("publisher should not be valid")
	}
}

// TestPluginError tests error formatting and unwrapping.
func TestPluginError(t *testing.T) {
	cause := errors.New("no generator")
	err := NewPluginError("htmltags.0", "attach", cause)

	if got, want := err.Error(), "plugin htmltags.0 failed during attach: no generator"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	if !errors.Is(err, cause) {
		t.Error("PluginError should unwrap to its cause")
	}
}

type lifecyclePlugin struct {
	mockPluginForRegistry
	events  *[]string
	initErr error
}

func (p *lifecyclePlugin) Init(*PluginContext) error {
	*p.events = append(*p.events, "init:"+p.metadata.Name)
	return p.initErr
}

func (p *lifecyclePlugin) Cleanup() error {
	*p.events = append(*p.events, "cleanup:"+p.metadata.Name)
	return nil
}

// TestRunLifecycle tests that lifecycle hooks bracket execution.
func TestRunLifecycle(t *testing.T) {
	var events []string
	registry := NewRegistry()
	gen := &lifecyclePlugin{mockPluginForRegistry: *newMockPlugin("refhost", "v1", PluginTypeHTML), events: &events}
	gen.executed = &events
	if err := registry.Register(gen); err != nil {
		t.Fatalf("Register() failed: %v", err)
	}

	if err := registry.Run(context.Background(), NewPluginContext(registry, nil, nil, "", "")); err != nil {
		t.Fatalf("Run() failed: %v", err)
	}

	want := []string{"init:refhost", "refhost", "cleanup:refhost"}
	if len(events) != len(want) {
		t.Fatalf("events = %v, want %v", events, want)
	}
	for i := range want {
		if events[i] != want[i] {
			t.Errorf("events[%d] = %s, want %s", i, events[i], want[i])
		}
	}
}

// TestRunInitFailure tests that a failing Init stops the pipeline.
func TestRunInitFailure(t *testing.T) {
	var events []string
	registry := NewRegistry()
	gen := &lifecyclePlugin{
		mockPluginForRegistry: *newMockPlugin("refhost", "v1", PluginTypeHTML),
		events:                &events,
		initErr:               errors.New("template missing"),
	}
	gen.executed = &events
	if err := registry.Register(gen); err != nil {
		t.Fatalf("Register() failed: %v", err)
	}

	err := registry.Run(context.Background(), NewPluginContext(registry, nil, nil, "", ""))
	if err == nil {
		t.Fatal("Run() should fail when Init fails")
	}
	if len(events) != 1 || events[0] != "init:refhost" {
		t.Errorf("events = %v, want only init", events)
	}
}
