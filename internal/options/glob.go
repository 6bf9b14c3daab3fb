package options

import (
	"errors"
	"io/fs"
	"os"

	"github.com/bmatcuk/doublestar/v4"
)

// ExpandGlob lists the files matching pattern under root, in directory
// listing order. Directories are skipped and unreadable paths are ignored.
func ExpandGlob(root, pattern string) ([]string, error) {
	return expandGlobFS(os.DirFS(root), pattern)
}

func expandGlobFS(fsys fs.FS, pattern string) ([]string, error) {
	if !doublestar.ValidatePattern(pattern) {
		return nil, doublestar.ErrBadPattern
	}
	matches, err := doublestar.Glob(fsys, pattern)
	if errors.Is(err, doublestar.ErrBadPattern) {
		return nil, err
	}
	files := matches[:0]
	for _, m := range matches {
		info, statErr := fs.Stat(fsys, m)
		if statErr != nil || info.IsDir() {
			continue
		}
		files = append(files, m)
	}
	return files, nil
}

// MatchFiles reports whether name matches any of the doublestar patterns.
// An empty pattern list matches everything.
func MatchFiles(patterns []string, name string) bool {
	if len(patterns) == 0 {
		return true
	}
	for _, p := range patterns {
		if ok, _ := doublestar.Match(p, name); ok {
			return true
		}
	}
	return false
}
