// Package refhost is a small reference HTML generator. It renders HTML
// templates, exposes the before/after tag generation hooks that htmltags
// attaches to, and implements the compilation services (asset copying,
// externals and error collection) for one build.
package refhost
