package planner

import (
	"path"
	"strings"

	"git.home.luguber.info/inful/htmltags/internal/options"
)

// ResolveURL applies the publicPath axis and then the hash axis to p.
func ResolveURL(p string, publicPath, hash options.Axis, basePublicPath, buildHash string) string {
	return applyHash(applyPublicPath(p, publicPath, basePublicPath), hash, buildHash)
}

func applyPublicPath(p string, axis options.Axis, base string) string {
	switch axis.Mode {
	case options.AxisOn:
		return prefixPath(base, p)
	case options.AxisLiteral:
		return prefixPath(axis.Literal, p)
	case options.AxisTransform:
		return axis.Transform(p, base)
	default:
		return p
	}
}

func applyHash(p string, axis options.Axis, buildHash string) string {
	switch axis.Mode {
	case options.AxisOn:
		return appendQuery(p, buildHash)
	case options.AxisLiteral:
		return appendQuery(p, axis.Literal)
	case options.AxisTransform:
		return axis.Transform(p, buildHash)
	default:
		return p
	}
}

func prefixPath(prefix, p string) string {
	if prefix == "" {
		return p
	}
	if !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	return prefix + p
}

func appendQuery(p, value string) string {
	if value == "" {
		return p
	}
	if strings.Contains(p, "?") {
		return p + "&" + value
	}
	return p + "?" + value
}

// globDest builds the destination of a globbed file under dir.
func globDest(dir, match string, flatten bool) string {
	name := match
	if flatten {
		name = path.Base(match)
	}
	return prefixPath(dir, name)
}
