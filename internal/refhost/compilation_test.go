package refhost

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	ferrors "git.home.luguber.info/inful/htmltags/internal/foundation/errors"
	"git.home.luguber.info/inful/htmltags/internal/retry"
	fixtures "git.home.luguber.info/inful/htmltags/internal/testing"
)

func TestCompilation_RegisterAsset(t *testing.T) {
	ws := fixtures.NewWorkspace(t).WriteFile("assets/lib.js", "lib")
	c := NewCompilation(ws.Path("assets"), ws.Path("dist"), retry.Policy{})

	require.NoError(t, c.RegisterAsset(context.Background(), "lib.js", "js/lib.js"))
	ws.Assert("dist").AssertFileEquals("js/lib.js", "lib")
	require.Equal(t, []string{"js/lib.js"}, c.Registered())
}

func TestCompilation_RegisterAssetErrors(t *testing.T) {
	ws := fixtures.NewWorkspace(t).WriteFile("assets/lib.js", "lib")
	c := NewCompilation(ws.Path("assets"), ws.Path("dist"), retry.DefaultPolicy())

	err := c.RegisterAsset(context.Background(), "missing.js", "missing.js")
	require.True(t, ferrors.HasCategory(err, ferrors.CategoryFileSystem))

	err = c.RegisterAsset(context.Background(), "lib.js", "../outside.js")
	require.True(t, ferrors.HasCategory(err, ferrors.CategoryAsset))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err = c.RegisterAsset(ctx, "lib.js", "lib.js")
	require.True(t, errors.Is(err, context.Canceled))
	require.Empty(t, c.Registered())
}

func TestCompilation_ExternalsAndErrors(t *testing.T) {
	c := NewCompilation("", "", retry.Policy{})
	c.AddExternal("react", "React")
	c.AddExternal("react", "ReactGlobal")
	c.ReportError(nil)
	c.ReportError(errors.New("first"))

	require.Equal(t, map[string]string{"react": "ReactGlobal"}, c.Externals())
	require.Len(t, c.Errors(), 1)
}

func TestCompilation_MissingSourceIsNotRetried(t *testing.T) {
	policy := retry.NewPolicy(retry.Fixed, time.Hour, time.Hour, 3)
	c := NewCompilation(t.TempDir(), t.TempDir(), policy)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err := c.RegisterAsset(ctx, "missing.js", "missing.js")
	require.Error(t, err)
	require.ErrorIs(t, err, os.ErrNotExist)
	require.NoError(t, ctx.Err())
}
