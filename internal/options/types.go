// Package options validates and normalizes the loosely typed htmltags plugin
// configuration into an immutable Options value.
package options

import "git.home.luguber.info/inful/htmltags/internal/foundation"

// Kind is the resolved asset kind of a tag.
type Kind string

const (
	KindJS  Kind = "js"
	KindCSS Kind = "css"
)

// PathTransform rewrites an asset path. The second argument is the build hash
// for the hash axis and the document base public path for the publicPath axis.
type PathTransform func(path, value string) string

// AxisMode enumerates the forms a hash or publicPath setting can take.
type AxisMode int

const (
	// AxisInherit means the scope did not configure the axis; only valid per tag.
	AxisInherit AxisMode = iota
	AxisOff
	AxisOn
	AxisLiteral
	AxisTransform
)

func (m AxisMode) String() string {
	switch m {
	case AxisOff:
		return "off"
	case AxisOn:
		return "on"
	case AxisLiteral:
		return "literal"
	case AxisTransform:
		return "transform"
	default:
		return "inherit"
	}
}

// Axis is the normalized form of the hash/useHash/addHash and
// publicPath/usePublicPath/addPublicPath option triples.
type Axis struct {
	Mode      AxisMode
	Literal   string
	Transform PathTransform
}

func Off() Axis                       { return Axis{Mode: AxisOff} }
func On() Axis                        { return Axis{Mode: AxisOn} }
func Literal(s string) Axis           { return Axis{Mode: AxisLiteral, Literal: s} }
func Transform(fn PathTransform) Axis { return Axis{Mode: AxisTransform, Transform: fn} }

// IsSet reports whether the axis was configured at its scope.
func (a Axis) IsSet() bool {
	return a.Mode != AxisInherit
}

// Or returns a when it is set, otherwise fallback.
func (a Axis) Or(fallback Axis) Axis {
	if a.IsSet() {
		return a
	}
	return fallback
}

// MarshalYAML renders the axis the way it is written in configuration.
func (a Axis) MarshalYAML() (any, error) {
	switch a.Mode {
	case AxisOff:
		return false, nil
	case AxisOn:
		return true, nil
	case AxisLiteral:
		return a.Literal, nil
	case AxisTransform:
		return "<function>", nil
	default:
		return nil, nil
	}
}

// External declares that a script is provided by a runtime global instead of
// being bundled.
type External struct {
	PackageName  string `yaml:"packageName"`
	VariableName string `yaml:"variableName"`
}

// TagSpec is one requested script or link tag.
type TagSpec struct {
	Path        string                  `yaml:"path"`
	Kind        Kind                    `yaml:"type"`
	Attributes  map[string]any          `yaml:"attributes,omitempty"`
	Append      foundation.Option[bool] `yaml:"append,omitempty"`
	Hash        Axis                    `yaml:"hash,omitempty"`
	PublicPath  Axis                    `yaml:"publicPath,omitempty"`
	Glob        string                  `yaml:"glob,omitempty"`
	GlobPath    string                  `yaml:"globPath,omitempty"`
	GlobFlatten bool                    `yaml:"globFlatten,omitempty"`
	SourcePath  string                  `yaml:"sourcePath,omitempty"`
	External    *External               `yaml:"external,omitempty"`
}

// HasGlob reports whether the tag expands to several concrete paths.
func (t *TagSpec) HasGlob() bool {
	return t.Glob != ""
}

// MetaSpec is one requested meta tag. When Path is set it becomes the
// content attribute after publicPath and hash resolution.
type MetaSpec struct {
	Path        string                  `yaml:"path,omitempty"`
	Attributes  map[string]any          `yaml:"attributes"`
	Append      foundation.Option[bool] `yaml:"append,omitempty"`
	Hash        Axis                    `yaml:"hash,omitempty"`
	PublicPath  Axis                    `yaml:"publicPath,omitempty"`
	Glob        string                  `yaml:"glob,omitempty"`
	GlobPath    string                  `yaml:"globPath,omitempty"`
	GlobFlatten bool                    `yaml:"globFlatten,omitempty"`
}

// HasGlob reports whether the meta expands to several concrete paths.
func (m *MetaSpec) HasGlob() bool {
	return m.Glob != ""
}

// Options is the validated, defaulted plugin configuration. It is never
// mutated after Validate returns.
type Options struct {
	Append           bool        `yaml:"append"`
	PrependExternals bool        `yaml:"prependExternals"`
	Hash             Axis        `yaml:"hash"`
	PublicPath       Axis        `yaml:"publicPath"`
	JSExtensions     []string    `yaml:"jsExtensions"`
	CSSExtensions    []string    `yaml:"cssExtensions"`
	Files            []string    `yaml:"files,omitempty"`
	Tags             []*TagSpec  `yaml:"tags,omitempty"`
	Links            []*TagSpec  `yaml:"links,omitempty"`
	Scripts          []*TagSpec  `yaml:"scripts,omitempty"`
	Metas            []*MetaSpec `yaml:"metas,omitempty"`
}

// AllTags returns tags, links and scripts in declaration order.
func (o *Options) AllTags() []*TagSpec {
	all := make([]*TagSpec, 0, len(o.Tags)+len(o.Links)+len(o.Scripts))
	all = append(all, o.Tags...)
	all = append(all, o.Links...)
	all = append(all, o.Scripts...)
	return all
}
