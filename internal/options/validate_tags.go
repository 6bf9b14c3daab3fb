package options

import (
	"maps"
	"slices"
	"strings"
)

var tagKeys = []string{
	"path", "type", "attributes", "append",
	"hash", "useHash", "addHash",
	"publicPath", "usePublicPath", "addPublicPath",
	"glob", "globPath", "globFlatten",
	"sourcePath", "external",
}

var metaKeys = []string{
	"path", "attributes", "append",
	"hash", "useHash", "addHash",
	"publicPath", "usePublicPath", "addPublicPath",
	"glob", "globPath", "globFlatten",
}

// classifier maps a path to an asset kind by suffix.
type classifier struct {
	js, css []string
}

func (c classifier) classify(p string) (Kind, bool) {
	if i := strings.IndexAny(p, "?#"); i >= 0 {
		p = p[:i]
	}
	for _, ext := range c.js {
		if strings.HasSuffix(p, ext) {
			return KindJS, true
		}
	}
	for _, ext := range c.css {
		if strings.HasSuffix(p, ext) {
			return KindCSS, true
		}
	}
	return "", false
}

// tagCollection validates one of tags, links or scripts. forced is the kind
// imposed by links/scripts and empty for tags.
func tagCollection(root map[string]any, prefix, name string, forced Kind, c classifier) ([]*TagSpec, *ValidationError) {
	v, ok := lookup(root, name)
	if !ok {
		return nil, nil
	}
	field := prefix + "." + name
	items, err := collectionItems(v, field)
	if err != nil {
		return nil, err
	}
	specs := make([]*TagSpec, 0, len(items))
	for i, item := range items {
		spec, err := tagSpec(item, itemField(prefix, name, i), forced, c)
		if err != nil {
			return nil, err
		}
		specs = append(specs, spec)
	}
	return specs, nil
}

func tagSpec(item any, field string, forced Kind, c classifier) (*TagSpec, *ValidationError) {
	if s, ok := item.(string); ok {
		item = map[string]any{"path": s}
	}
	m, _ := asMap(item)
	if err := checkKeys(m, field, tagKeys); err != nil {
		return nil, err
	}

	spec := &TagSpec{}
	var err *ValidationError
	if spec.Path, spec.Glob, spec.GlobPath, spec.GlobFlatten, err = pathAndGlob(m, field); err != nil {
		return nil, err
	}
	if spec.Path == "" && !spec.HasGlob() {
		return nil, newError(ErrMissingField, field, item, "%s object must have a string path property (got %s)", field, describe(item))
	}
	if spec.Kind, err = resolveKind(m, field, forced, spec, c); err != nil {
		return nil, err
	}
	if v, ok := lookup(m, "attributes"); ok {
		if spec.Attributes, err = attributes(v, field+".attributes"); err != nil {
			return nil, err
		}
	} else {
		spec.Attributes = map[string]any{}
	}
	if spec.Append, err = optionalBool(m, field, "append"); err != nil {
		return nil, err
	}
	if spec.Hash, err = parseAxis(m, field, hashNames); err != nil {
		return nil, err
	}
	if spec.PublicPath, err = parseAxis(m, field, publicPathNames); err != nil {
		return nil, err
	}
	if spec.SourcePath, err = optionalString(m, field, "sourcePath"); err != nil {
		return nil, err
	}
	if v, ok := lookup(m, "external"); ok {
		if spec.Kind != KindJS {
			return nil, newError(ErrInvalidExternal, field+".external", v,
				"%s.external should not be used on non script tags", field)
		}
		if spec.External, err = external(v, field+".external"); err != nil {
			return nil, err
		}
	}
	if spec.HasGlob() {
		if err := requireGlobMatches(field, spec.GlobPath, spec.Glob); err != nil {
			return nil, err
		}
	}
	return spec, nil
}

// pathAndGlob reads path, glob, globPath and globFlatten. glob and globPath
// must be given together.
func pathAndGlob(m map[string]any, field string) (path, glob, globPath string, flatten bool, err *ValidationError) {
	if v, ok := lookup(m, "path"); ok {
		s, isString := v.(string)
		if !isString {
			return "", "", "", false, malformed(field+".path", v, "a string")
		}
		path = s
	}
	if glob, err = optionalString(m, field, "glob"); err != nil {
		return
	}
	if globPath, err = optionalString(m, field, "globPath"); err != nil {
		return
	}
	if (glob == "") != (globPath == "") {
		missing := "glob"
		if globPath == "" {
			missing = "globPath"
		}
		err = newError(ErrMissingField, field+"."+missing, nil,
			"%s should specify both glob and globPath (missing %s)", field, missing)
		return
	}
	v, ok := lookup(m, "globFlatten")
	if !ok {
		return
	}
	b, isBool := v.(bool)
	if !isBool {
		err = malformed(field+".globFlatten", v, "a boolean")
		return
	}
	flatten = b
	return
}

func resolveKind(m map[string]any, field string, forced Kind, spec *TagSpec, c classifier) (Kind, *ValidationError) {
	if v, ok := lookup(m, "type"); ok {
		s, _ := v.(string)
		kind := Kind(s)
		if kind != KindJS && kind != KindCSS {
			return "", malformed(field+".type", v, `"js" or "css"`)
		}
		if forced != "" && kind != forced {
			return "", newError(ErrMalformedType, field+".type", v, "%s.type should be %q here (got %q)", field, forced, s)
		}
		return kind, nil
	}
	if forced != "" {
		return forced, nil
	}
	subject := spec.Path
	if spec.HasGlob() {
		subject = spec.Glob
	}
	if kind, ok := c.classify(subject); ok {
		return kind, nil
	}
	return "", newError(ErrUnresolvableKind, field, subject, "%s could not determine asset type for (%s)", field, subject)
}

// attributes copies an attribute map, normalizing numbers to float64.
func attributes(v any, field string) (map[string]any, *ValidationError) {
	m, ok := asMap(v)
	if !ok {
		return nil, malformed(field, v, "an object")
	}
	out := make(map[string]any, len(m))
	for _, k := range slices.Sorted(maps.Keys(m)) {
		val := m[k]
		switch a := val.(type) {
		case string, bool:
			out[k] = a
		default:
			f, isNumber := toFloat(val)
			if !isNumber {
				return nil, malformed(field+"."+k, val, "a string, boolean or number")
			}
			out[k] = f
		}
	}
	return out, nil
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}

func external(v any, field string) (*External, *ValidationError) {
	m, ok := asMap(v)
	if !ok {
		return nil, newError(ErrInvalidExternal, field, v,
			"%s should be an object with string packageName and variableName properties (got %s)", field, describe(v))
	}
	if err := checkKeys(m, field, []string{"packageName", "variableName"}); err != nil {
		return nil, err
	}
	ext := &External{}
	for _, p := range []struct {
		key string
		dst *string
	}{{"packageName", &ext.PackageName}, {"variableName", &ext.VariableName}} {
		val, _ := lookup(m, p.key)
		s, isString := val.(string)
		if !isString || s == "" {
			return nil, newError(ErrInvalidExternal, field+"."+p.key, val,
				"%s should be an object with string packageName and variableName properties (%s is %s)",
				field, p.key, describe(val))
		}
		*p.dst = s
	}
	return ext, nil
}

func requireGlobMatches(field, globPath, glob string) *ValidationError {
	files, err := ExpandGlob(globPath, glob)
	if err != nil {
		return malformed(field+".glob", glob, "a valid glob pattern")
	}
	if len(files) == 0 {
		return newError(ErrEmptyGlob, field+".glob", glob,
			"%s.glob glob found no files (%s in %s)", field, glob, globPath)
	}
	return nil
}

func metaCollection(root map[string]any, prefix string) ([]*MetaSpec, *ValidationError) {
	v, ok := lookup(root, "metas")
	if !ok {
		return nil, nil
	}
	items, err := collectionItems(v, prefix+".metas")
	if err != nil {
		return nil, err
	}
	specs := make([]*MetaSpec, 0, len(items))
	for i, item := range items {
		spec, err := metaSpec(item, itemField(prefix, "metas", i))
		if err != nil {
			return nil, err
		}
		specs = append(specs, spec)
	}
	return specs, nil
}

func metaSpec(item any, field string) (*MetaSpec, *ValidationError) {
	if s, ok := item.(string); ok {
		item = map[string]any{"path": s}
	}
	m, _ := asMap(item)
	if err := checkKeys(m, field, metaKeys); err != nil {
		return nil, err
	}

	spec := &MetaSpec{}
	var err *ValidationError
	if spec.Path, spec.Glob, spec.GlobPath, spec.GlobFlatten, err = pathAndGlob(m, field); err != nil {
		return nil, err
	}
	if spec.HasGlob() && spec.Path == "" {
		return nil, newError(ErrMissingField, field+".path", nil, "%s object with glob must have a path property", field)
	}
	v, ok := lookup(m, "attributes")
	if !ok {
		return nil, newError(ErrMissingField, field+".attributes", nil, "%s object must have an attributes property", field)
	}
	if spec.Attributes, err = attributes(v, field+".attributes"); err != nil {
		return nil, err
	}
	if len(spec.Attributes) == 0 {
		return nil, newError(ErrMissingField, field+".attributes", v, "%s.attributes should not be empty", field)
	}
	if spec.Append, err = optionalBool(m, field, "append"); err != nil {
		return nil, err
	}
	if spec.Hash, err = parseAxis(m, field, hashNames); err != nil {
		return nil, err
	}
	if spec.PublicPath, err = parseAxis(m, field, publicPathNames); err != nil {
		return nil, err
	}
	if spec.HasGlob() {
		if err := requireGlobMatches(field, spec.GlobPath, spec.Glob); err != nil {
			return nil, err
		}
	}
	return spec, nil
}
