package options

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"git.home.luguber.info/inful/htmltags/internal/foundation"
)

// DefaultPrefix is the field path root used in validation messages.
const DefaultPrefix = "htmltags.options"

var rootKeys = []string{
	"append", "prependExternals",
	"hash", "useHash", "addHash",
	"publicPath", "usePublicPath", "addPublicPath",
	"jsExtensions", "cssExtensions", "files",
	"tags", "links", "scripts", "metas",
}

type axisNames struct {
	bare, use, add string
}

var (
	hashNames       = axisNames{bare: "hash", use: "useHash", add: "addHash"}
	publicPathNames = axisNames{bare: "publicPath", use: "usePublicPath", add: "addPublicPath"}
)

// Validate checks raw against the option schema and returns the normalized
// options, or the first violation found. raw is never modified. An empty
// prefix selects DefaultPrefix.
func Validate(raw any, prefix string) foundation.Result[*Options, *ValidationError] {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	opts, err := validateRoot(raw, prefix)
	if err != nil {
		return foundation.Err[*Options](err)
	}
	return foundation.Ok[*Options, *ValidationError](opts)
}

func validateRoot(raw any, prefix string) (*Options, *ValidationError) {
	root, ok := asMap(raw)
	if !ok {
		return nil, malformed(prefix, raw, "an object")
	}
	if err := checkKeys(root, prefix, rootKeys); err != nil {
		return nil, err
	}

	opts := &Options{
		Hash:          Off(),
		PublicPath:    On(),
		JSExtensions:  []string{".js"},
		CSSExtensions: []string{".css"},
	}

	var err *ValidationError
	if opts.Append, err = boolField(root, prefix, "append", true); err != nil {
		return nil, err
	}
	if opts.PrependExternals, err = boolField(root, prefix, "prependExternals", true); err != nil {
		return nil, err
	}

	hash, err := parseAxis(root, prefix, hashNames)
	if err != nil {
		return nil, err
	}
	opts.Hash = hash.Or(opts.Hash)

	publicPath, err := parseAxis(root, prefix, publicPathNames)
	if err != nil {
		return nil, err
	}
	opts.PublicPath = publicPath.Or(opts.PublicPath)

	if v, ok := lookup(root, "jsExtensions"); ok {
		if opts.JSExtensions, err = stringList(v, prefix+".jsExtensions"); err != nil {
			return nil, err
		}
	}
	if v, ok := lookup(root, "cssExtensions"); ok {
		if opts.CSSExtensions, err = stringList(v, prefix+".cssExtensions"); err != nil {
			return nil, err
		}
	}
	if v, ok := lookup(root, "files"); ok {
		if opts.Files, err = stringList(v, prefix+".files"); err != nil {
			return nil, err
		}
	}

	c := classifier{js: opts.JSExtensions, css: opts.CSSExtensions}
	if opts.Tags, err = tagCollection(root, prefix, "tags", "", c); err != nil {
		return nil, err
	}
	if opts.Links, err = tagCollection(root, prefix, "links", KindCSS, c); err != nil {
		return nil, err
	}
	if opts.Scripts, err = tagCollection(root, prefix, "scripts", KindJS, c); err != nil {
		return nil, err
	}
	if opts.Metas, err = metaCollection(root, prefix); err != nil {
		return nil, err
	}
	return opts, nil
}

// parseAxis reads one of the hash or publicPath triples at a single scope.
// An unconfigured axis comes back as AxisInherit.
func parseAxis(m map[string]any, prefix string, names axisNames) (Axis, *ValidationError) {
	var set []string
	for _, key := range []string{names.bare, names.use, names.add} {
		if _, ok := lookup(m, key); ok {
			set = append(set, key)
		}
	}
	switch len(set) {
	case 0:
		return Axis{}, nil
	case 1:
	default:
		return Axis{}, newError(ErrMutuallyExclusive, prefix, set,
			"%s should specify only one of %s, %s or %s (got %s)",
			prefix, names.bare, names.use, names.add, strings.Join(set, " and "))
	}

	key := set[0]
	v := m[key]
	field := prefix + "." + key
	switch key {
	case names.bare:
		if b, ok := v.(bool); ok {
			return boolAxis(b), nil
		}
		if s, ok := v.(string); ok {
			return Literal(s), nil
		}
		if fn, ok := asTransform(v); ok {
			return Transform(fn), nil
		}
		return Axis{}, malformed(field, v, "a boolean, a string or a function")
	case names.use:
		b, ok := v.(bool)
		if !ok {
			return Axis{}, malformed(field, v, "a boolean")
		}
		return boolAxis(b), nil
	default:
		fn, ok := asTransform(v)
		if !ok {
			return Axis{}, malformed(field, v, "a function")
		}
		return Transform(fn), nil
	}
}

func boolAxis(b bool) Axis {
	if b {
		return On()
	}
	return Off()
}

func asTransform(v any) (PathTransform, bool) {
	switch fn := v.(type) {
	case PathTransform:
		return fn, fn != nil
	case func(string, string) string:
		return fn, fn != nil
	}
	return nil, false
}

// lookup treats a missing key and an explicit null the same way.
func lookup(m map[string]any, key string) (any, bool) {
	v, ok := m[key]
	if !ok || v == nil {
		return nil, false
	}
	return v, true
}

func asMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, m != nil
	case map[string]string:
		if m == nil {
			return nil, false
		}
		out := make(map[string]any, len(m))
		for k, s := range m {
			out[k] = s
		}
		return out, true
	}
	return nil, false
}

func checkKeys(m map[string]any, field string, allowed []string) *ValidationError {
	for _, k := range slices.Sorted(maps.Keys(m)) {
		if !slices.Contains(allowed, k) {
			name := field + "." + k
			return newError(ErrMalformedType, name, m[k], "%s is not a supported option (got %s)", name, describe(m[k]))
		}
	}
	return nil
}

func boolField(m map[string]any, prefix, key string, fallback bool) (bool, *ValidationError) {
	v, ok := lookup(m, key)
	if !ok {
		return fallback, nil
	}
	b, isBool := v.(bool)
	if !isBool {
		return false, malformed(prefix+"."+key, v, "a boolean")
	}
	return b, nil
}

func optionalBool(m map[string]any, prefix, key string) (foundation.Option[bool], *ValidationError) {
	v, ok := lookup(m, key)
	if !ok {
		return foundation.None[bool](), nil
	}
	b, isBool := v.(bool)
	if !isBool {
		return foundation.None[bool](), malformed(prefix+"."+key, v, "a boolean")
	}
	return foundation.Some(b), nil
}

func optionalString(m map[string]any, prefix, key string) (string, *ValidationError) {
	v, ok := lookup(m, key)
	if !ok {
		return "", nil
	}
	s, isString := v.(string)
	if !isString || s == "" {
		return "", malformed(prefix+"."+key, v, "a non-empty string")
	}
	return s, nil
}

// stringList accepts a bare string or an array of strings.
func stringList(v any, field string) ([]string, *ValidationError) {
	const want = "a string or a non-empty array of strings"
	switch val := v.(type) {
	case string:
		if val == "" {
			return nil, malformed(field, v, "a non-empty string")
		}
		return []string{val}, nil
	case []string:
		if len(val) == 0 {
			return nil, malformed(field, v, want)
		}
		for _, s := range val {
			if s == "" {
				return nil, malformed(field, v, want)
			}
		}
		return slices.Clone(val), nil
	case []any:
		if len(val) == 0 {
			return nil, malformed(field, v, want)
		}
		out := make([]string, 0, len(val))
		for _, item := range val {
			s, ok := item.(string)
			if !ok || s == "" {
				return nil, malformed(field, v, want)
			}
			out = append(out, s)
		}
		return out, nil
	default:
		return nil, malformed(field, v, want)
	}
}

// collectionItems normalizes a tags/links/scripts/metas value to a list of
// strings and objects.
func collectionItems(v any, field string) ([]any, *ValidationError) {
	switch val := v.(type) {
	case string:
		return []any{val}, nil
	case []string:
		return toItems(val), nil
	case []map[string]any:
		return toItems(val), nil
	case []map[string]string:
		return toItems(val), nil
	case []any:
		for _, item := range val {
			if _, ok := item.(string); ok {
				continue
			}
			if _, ok := asMap(item); ok {
				continue
			}
			return nil, newError(ErrMalformedType, field, item, "%s items must be an object or string (got %s)", field, describe(item))
		}
		return val, nil
	}
	if _, ok := asMap(v); ok {
		return []any{v}, nil
	}
	return nil, malformed(field, v, "a string, an object or an array of strings and objects")
}

func toItems[T any](vals []T) []any {
	items := make([]any, len(vals))
	for i, v := range vals {
		items[i] = v
	}
	return items
}

func itemField(prefix, name string, i int) string {
	return fmt.Sprintf("%s.%s[%d]", prefix, name, i)
}
