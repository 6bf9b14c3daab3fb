// Package logfields holds the canonical structured log keys.
package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyBuildID  = "build.id"
	KeyDocument = "document"
	KeyPhase    = "phase"
	KeyInstance = "instance"
	KeyPlugin   = "plugin"
	KeySource   = "source"
	KeyDest     = "dest"
	KeyURL      = "url"
	KeyPath     = "path"
	KeyError    = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func BuildID(id string) slog.Attr { return slog.String(KeyBuildID, id) }
func Document(n string) slog.Attr { return slog.String(KeyDocument, n) }
func Phase(p string) slog.Attr    { return slog.String(KeyPhase, p) }
func Instance(n string) slog.Attr { return slog.String(KeyInstance, n) }
func Plugin(n string) slog.Attr   { return slog.String(KeyPlugin, n) }
func Source(s string) slog.Attr   { return slog.String(KeySource, s) }
func Dest(d string) slog.Attr     { return slog.String(KeyDest, d) }
func URL(u string) slog.Attr      { return slog.String(KeyURL, u) }
func Path(p string) slog.Attr     { return slog.String(KeyPath, p) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
