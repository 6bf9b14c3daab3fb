package refhost

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	ferrors "git.home.luguber.info/inful/htmltags/internal/foundation/errors"
	"git.home.luguber.info/inful/htmltags/internal/retry"
)

// Compilation implements host.Compilation for one build.
type Compilation struct {
	assetRoot string
	outputDir string
	policy    retry.Policy

	mu         sync.Mutex
	externals  map[string]string
	registered map[string]string
	errs       []error
}

// NewCompilation returns a Compilation that resolves relative asset sources
// against assetRoot and writes registered assets below outputDir. Transient
// copy failures are retried according to policy.
func NewCompilation(assetRoot, outputDir string, policy retry.Policy) *Compilation {
	return &Compilation{
		assetRoot:  assetRoot,
		outputDir:  outputDir,
		policy:     policy,
		externals:  make(map[string]string),
		registered: make(map[string]string),
	}
}

// RegisterAsset copies source into the output directory at dest.
func (c *Compilation) RegisterAsset(ctx context.Context, source, dest string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	src := source
	if !filepath.IsAbs(src) {
		src = filepath.Join(c.assetRoot, filepath.FromSlash(src))
	}
	target, err := c.outputPath(dest)
	if err != nil {
		return err
	}

	if err := c.policy.Do(ctx, func() error { return copyFile(src, target) }, transient); err != nil {
		return err
	}

	c.mu.Lock()
	c.registered[dest] = source
	c.mu.Unlock()
	return nil
}

// transient reports whether a copy failure may succeed on retry.
func transient(err error) bool {
	return !errors.Is(err, fs.ErrNotExist) && !errors.Is(err, fs.ErrPermission)
}

func copyFile(src, target string) error {
	in, err := os.Open(filepath.Clean(src))
	if err != nil {
		return ferrors.WrapError(err, ferrors.CategoryFileSystem, "failed to open asset source").
			WithContext("source", src).
			Build()
	}
	defer func() {
		_ = in.Close()
	}()

	if err := os.MkdirAll(filepath.Dir(target), 0o750); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryFileSystem, "failed to create asset directory").
			WithContext("dest", target).
			Build()
	}
	out, err := os.Create(target)
	if err != nil {
		return ferrors.WrapError(err, ferrors.CategoryFileSystem, "failed to create asset").
			WithContext("dest", target).
			Build()
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return ferrors.WrapError(err, ferrors.CategoryFileSystem, "failed to copy asset").
			WithContext("source", src).
			WithContext("dest", target).
			Build()
	}
	if err := out.Close(); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryFileSystem, "failed to write asset").
			WithContext("dest", target).
			Build()
	}
	return nil
}

// outputPath maps dest below the output directory, refusing paths that escape it.
func (c *Compilation) outputPath(dest string) (string, error) {
	clean := filepath.Clean(filepath.FromSlash(strings.TrimPrefix(dest, "/")))
	if clean == "." || clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return "", ferrors.AssetError("asset destination escapes the output directory").
			WithContext("dest", dest).
			Build()
	}
	return filepath.Join(c.outputDir, clean), nil
}

// AddExternal records a package provided by a runtime global.
func (c *Compilation) AddExternal(packageName, variableName string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.externals[packageName] = variableName
}

// ReportError collects a non-fatal build error.
func (c *Compilation) ReportError(err error) {
	if err == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.errs = append(c.errs, err)
}

// Externals returns a copy of the recorded externals.
func (c *Compilation) Externals() map[string]string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return maps.Clone(c.externals)
}

// Registered returns the registered destinations, sorted.
func (c *Compilation) Registered() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Sorted(maps.Keys(c.registered))
}

// Errors returns the reported errors in report order.
func (c *Compilation) Errors() []error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.errs)
}
