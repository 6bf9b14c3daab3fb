package testing

import (
	"os"
	"path/filepath"
	"testing"
)

// Workspace is a temporary project directory.
type Workspace struct {
	t    *testing.T
	Root string
}

// NewWorkspace creates an empty workspace below t.TempDir.
func NewWorkspace(t *testing.T) *Workspace {
	t.Helper()
	return &Workspace{t: t, Root: t.TempDir()}
}

// Path joins slash-separated rel onto the workspace root.
func (w *Workspace) Path(rel string) string {
	return filepath.Join(w.Root, filepath.FromSlash(rel))
}

// WriteFile writes content to rel, creating parent directories.
func (w *Workspace) WriteFile(rel, content string) *Workspace {
	w.t.Helper()
	path := w.Path(rel)
	if err := os.MkdirAll(filepath.Dir(path), testDirPermissions); err != nil {
		w.t.Fatalf("create directory for %s: %v", rel, err)
	}
	if err := os.WriteFile(path, []byte(content), testFilePermissions); err != nil {
		w.t.Fatalf("write %s: %v", rel, err)
	}
	return w
}

// WriteFiles writes every rel path to its content.
func (w *Workspace) WriteFiles(files map[string]string) *Workspace {
	w.t.Helper()
	for rel, content := range files {
		w.WriteFile(rel, content)
	}
	return w
}

// Assert returns file assertions rooted at rel.
func (w *Workspace) Assert(rel string) *FileAssertions {
	return NewFileAssertions(w.t, w.Path(rel))
}
