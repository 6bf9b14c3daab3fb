package refhost

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	ferrors "git.home.luguber.info/inful/htmltags/internal/foundation/errors"
	"git.home.luguber.info/inful/htmltags/internal/host"
	"git.home.luguber.info/inful/htmltags/internal/plugin"
	"git.home.luguber.info/inful/htmltags/internal/tagsplugin"
	fixtures "git.home.luguber.info/inful/htmltags/internal/testing"
)

const template = `<!DOCTYPE html>
<html><head><title>Test</title></head><body><main>hi</main></body></html>`

func setup(t *testing.T) (Config, string) {
	t.Helper()
	ws := fixtures.NewWorkspace(t).WriteFiles(map[string]string{
		"src/index.html":       template,
		"assets/app.js":        "console.log('app')",
		"assets/vendor/lib.js": "window.lib = 1",
	})
	out := ws.Path("dist")
	return Config{
		OutputDir:  out,
		PublicPath: "/",
		AssetRoot:  ws.Path("assets"),
		Documents: []DocumentSpec{{
			Template: ws.Path("src/index.html"),
			Output:   "index.html",
			Scripts:  []string{"/app.js"},
			Styles:   []string{"/app.css"},
		}},
	}, out
}

func TestGenerator_RunsTagPlugins(t *testing.T) {
	cfg, out := setup(t)
	gen := New(cfg)

	tags, err := tagsplugin.New(map[string]any{
		"append": false,
		"scripts": []any{map[string]any{
			"path":       "vendor/lib.js",
			"sourcePath": "vendor/lib.js",
			"attributes": map[string]any{"defer": true, "crossorigin": false},
		}},
		"links": []any{map[string]any{"path": "print.css", "append": true, "attributes": map[string]any{"media": "print"}}},
		"metas": []any{map[string]any{"attributes": map[string]any{"name": "robots", "content": "noindex"}}},
	})
	require.NoError(t, err)

	reg := plugin.NewRegistry()
	require.NoError(t, reg.Register(gen))
	require.NoError(t, reg.Register(tags))
	require.NoError(t, reg.Run(context.Background(), plugin.NewPluginContext(reg, nil, nil, out, "build-1")))

	res := gen.Result()
	require.NotNil(t, res)
	require.Equal(t, "build-1", res.BuildID)
	require.Len(t, res.Hash, hashLength)
	require.Equal(t, []string{"index.html"}, res.Documents)
	require.Equal(t, []string{"vendor/lib.js"}, res.Registered)
	require.Empty(t, res.Errors)

	files := fixtures.NewFileAssertions(t, out).AssertFileEquals("vendor/lib.js", "window.lib = 1")
	page := files.FileContent("index.html")

	require.Contains(t, page, `<meta content="noindex" name="robots"/>`)
	require.Contains(t, page, `<link href="/app.css" rel="stylesheet"/><link href="/print.css" media="print" rel="stylesheet"/>`)
	require.Contains(t, page, `<script defer="" src="/vendor/lib.js"></script><script src="/app.js"></script>`)
	require.NotContains(t, page, "crossorigin")
	require.Less(t, strings.Index(page, "<main>"), strings.Index(page, `src="/vendor/lib.js"`))
}

func TestGenerator_BuildHashIsStable(t *testing.T) {
	cfg, _ := setup(t)
	first, err := New(cfg).buildHash()
	require.NoError(t, err)
	second, err := New(cfg).buildHash()
	require.NoError(t, err)
	require.Equal(t, first, second)

	require.NoError(t, os.WriteFile(filepath.Join(cfg.AssetRoot, "app.js"), []byte("console.log('changed')"), 0o600))
	third, err := New(cfg).buildHash()
	require.NoError(t, err)
	require.NotEqual(t, first, third)
}

func TestGenerator_HashReachesTags(t *testing.T) {
	cfg, out := setup(t)
	gen := New(cfg)
	tags, err := tagsplugin.New(map[string]any{"hash": true, "tags": []any{"extra.css"}})
	require.NoError(t, err)
	tags.AttachTo(gen)

	require.NoError(t, gen.Init(nil))
	res, err := gen.Build(context.Background(), "")
	require.NoError(t, err)
	require.NotEmpty(t, res.BuildID)

	fixtures.NewFileAssertions(t, out).AssertFileContains("index.html", `href="/extra.css?`+res.Hash+`"`)
}

func TestGenerator_MissingTemplate(t *testing.T) {
	cfg, _ := setup(t)
	cfg.Documents[0].Template = filepath.Join(t.TempDir(), "missing.html")
	_, err := New(cfg).Build(context.Background(), "")
	require.Error(t, err)
	require.True(t, ferrors.HasCategory(err, ferrors.CategoryFileSystem))
}

func TestGenerator_HookFailureIsFatal(t *testing.T) {
	cfg, _ := setup(t)
	gen := New(cfg)
	gen.TapBeforeTagGeneration("broken", func(context.Context, *host.Document, *host.AssetLists, host.Compilation) error {
		return os.ErrPermission
	})
	_, err := gen.Build(context.Background(), "")
	require.Error(t, err)
	ce, ok := ferrors.AsClassified(err)
	require.True(t, ok)
	require.Equal(t, ferrors.CategoryHost, ce.Category())
	hook, _ := ce.Context().GetString("hook")
	require.Equal(t, "broken", hook)
}
