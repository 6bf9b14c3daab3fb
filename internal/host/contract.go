// Package host defines the contract between htmltags and the HTML generator
// it extends: the document context, the planned asset lists, the
// materialized tag nodes, the compilation services and the hook surface.
package host

import (
	"context"
	"strconv"
	"sync"
)

// Document describes one HTML document the host is generating.
type Document struct {
	// OutputName is the document's output file name, matched against the files filter.
	OutputName string

	// PublicPath is the effective base public path for the document.
	PublicPath string

	// Hash is the current build-wide hash.
	Hash string

	mu     sync.RWMutex
	values map[any]any
}

// SetValue stores per-document data shared between the two hook phases.
func (d *Document) SetValue(key, value any) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.values == nil {
		d.values = make(map[any]any)
	}
	d.values[key] = value
}

// Value returns data stored with SetValue, or nil.
func (d *Document) Value(key any) any {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.values[key]
}

// AssetLists are the entries the host plans to turn into tags. JS and CSS
// hold URLs; Metas hold complete attribute sets.
type AssetLists struct {
	JS    []string
	CSS   []string
	Metas []map[string]any
}

// Tag is a materialized tag node. Attributes may be mutated in place.
type Tag struct {
	Name       string
	Attributes map[string]any
	Void       bool
}

// ScriptTag builds the node the host generates for a JS entry.
func ScriptTag(src string) *Tag {
	return &Tag{Name: "script", Attributes: map[string]any{"src": src}}
}

// StylesheetTag builds the node the host generates for a CSS entry.
func StylesheetTag(href string) *Tag {
	return &Tag{Name: "link", Attributes: map[string]any{"href": href, "rel": "stylesheet"}, Void: true}
}

// MetaTag builds the node the host generates for a meta entry.
func MetaTag(attrs map[string]any) *Tag {
	cp := make(map[string]any, len(attrs))
	for k, v := range attrs {
		cp[k] = v
	}
	return &Tag{Name: "meta", Attributes: cp, Void: true}
}

// URL returns the src of a script, the href of a link or the content of a meta.
func (t *Tag) URL() string {
	var key string
	switch t.Name {
	case "script":
		key = "src"
	case "link":
		key = "href"
	case "meta":
		key = "content"
	default:
		return ""
	}
	s, _ := t.Attributes[key].(string)
	return s
}

// IsStylesheet reports whether the node is a <link rel="stylesheet">.
func (t *Tag) IsStylesheet() bool {
	rel, _ := t.Attributes["rel"].(string)
	return t.Name == "link" && rel == "stylesheet"
}

// AttributeString renders an attribute value. ok is false for boolean false,
// which means the attribute is omitted.
func AttributeString(v any) (s string, ok bool) {
	switch val := v.(type) {
	case string:
		return val, true
	case bool:
		return "", val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64), true
	case int:
		return strconv.Itoa(val), true
	case nil:
		return "", false
	default:
		return "", false
	}
}

// Compilation exposes the host's per-build services.
type Compilation interface {
	// RegisterAsset copies the local file source into the build output at
	// dest. It blocks until done and is safe for concurrent use.
	RegisterAsset(ctx context.Context, source, dest string) error

	// AddExternal maps a package name to a runtime global variable.
	AddExternal(packageName, variableName string)

	// ReportError adds a non-fatal error to the compilation's error list.
	ReportError(err error)
}

// BeforeHook runs before tags are generated and may edit assets in place.
type BeforeHook func(ctx context.Context, doc *Document, assets *AssetLists, comp Compilation) error

// AfterHook runs after tags are generated and may edit tag attributes.
type AfterHook func(ctx context.Context, doc *Document, head, body []*Tag, comp Compilation) error

// HookSurface is the registration API of a host that calls hooks and waits
// for their returned error.
type HookSurface interface {
	TapBeforeTagGeneration(name string, fn BeforeHook)
	TapAfterTagGeneration(name string, fn AfterHook)
}
