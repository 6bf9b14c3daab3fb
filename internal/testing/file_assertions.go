package testing

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// FileAssertions provides utilities for asserting file system state in tests.
type FileAssertions struct {
	t       *testing.T
	baseDir string
}

// NewFileAssertions creates a new file assertions helper.
func NewFileAssertions(t *testing.T, baseDir string) *FileAssertions {
	return &FileAssertions{
		t:       t,
		baseDir: baseDir,
	}
}

// AssertFileExists validates that a file exists.
func (fa *FileAssertions) AssertFileExists(relativePath string) *FileAssertions {
	fa.t.Helper()
	fullPath := filepath.Join(fa.baseDir, relativePath)
	if _, err := os.Stat(fullPath); os.IsNotExist(err) {
		fa.t.Errorf("Expected file to exist: %s", fullPath)
	}
	return fa
}

// AssertFileNotExists validates that a file does not exist.
func (fa *FileAssertions) AssertFileNotExists(relativePath string) *FileAssertions {
	fa.t.Helper()
	fullPath := filepath.Join(fa.baseDir, relativePath)
	if _, err := os.Stat(fullPath); err == nil {
		fa.t.Errorf("Expected file to not exist: %s", fullPath)
	}
	return fa
}

// AssertFileContains validates that a file contains expected content.
func (fa *FileAssertions) AssertFileContains(relativePath, expected string) *FileAssertions {
	fa.t.Helper()
	if content := fa.FileContent(relativePath); !strings.Contains(content, expected) {
		fa.t.Errorf("Expected %s to contain %q, got:\n%s", relativePath, expected, content)
	}
	return fa
}

// AssertFileEquals validates the exact content of a file.
func (fa *FileAssertions) AssertFileEquals(relativePath, expected string) *FileAssertions {
	fa.t.Helper()
	if content := fa.FileContent(relativePath); content != expected {
		fa.t.Errorf("Expected %s to equal %q, got %q", relativePath, expected, content)
	}
	return fa
}

// FileContent returns the content of a file, failing the test when it
// cannot be read.
func (fa *FileAssertions) FileContent(relativePath string) string {
	fa.t.Helper()
	data, err := os.ReadFile(filepath.Join(fa.baseDir, relativePath))
	if err != nil {
		fa.t.Fatalf("Failed to read %s: %v", relativePath, err)
	}
	return string(data)
}
