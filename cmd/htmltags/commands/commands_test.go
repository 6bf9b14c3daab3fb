package commands

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	ferrors "git.home.luguber.info/inful/htmltags/internal/foundation/errors"
	fixtures "git.home.luguber.info/inful/htmltags/internal/testing"
)

const projectConfig = `version: "1.0"
output:
  directory: dist
  public_path: /
  asset_root: assets
documents:
  - template: src/index.html
    scripts: [/app.js]
plugins:
  - name: vendor
    options:
      append: false
      scripts:
        - path: vendor/react.js
          sourcePath: react.js
          external:
            packageName: react
            variableName: React
          attributes:
            crossorigin: anonymous
      links:
        - path: theme.css
          append: true
`

// project creates a workspace with a config, template and assets and
// changes into it.
func project(t *testing.T, cfg string) *CLI {
	t.Helper()
	ws := fixtures.NewWorkspace(t).WriteFiles(map[string]string{
		"htmltags.yaml":   cfg,
		"src/index.html":  "<html><head></head><body></body></html>",
		"assets/react.js": "window.React = {}",
	})
	t.Chdir(ws.Root)
	return &CLI{Config: "htmltags.yaml"}
}

func TestInjectCmd(t *testing.T) {
	root := project(t, projectConfig)
	var out bytes.Buffer
	g := &Global{Context: context.Background(), Stdout: &out}

	cmd := &InjectCmd{MetricsTextfile: "metrics.prom"}
	require.NoError(t, cmd.Run(g, root))

	require.Contains(t, out.String(), "wrote index.html")
	require.Contains(t, out.String(), "external react => React")

	fixtures.NewFileAssertions(t, "dist").
		AssertFileContains("index.html", `<link href="/theme.css" rel="stylesheet"/>`).
		AssertFileContains("index.html", `<script crossorigin="anonymous" src="/vendor/react.js"></script><script src="/app.js"></script>`).
		AssertFileEquals("vendor/react.js", "window.React = {}")
	fixtures.NewFileAssertions(t, ".").AssertFileContains("metrics.prom", "htmltags_")
}

func TestInjectCmd_OutputOverride(t *testing.T) {
	root := project(t, projectConfig)
	g := &Global{Stdout: &bytes.Buffer{}}

	require.NoError(t, (&InjectCmd{Output: "public"}).Run(g, root))
	fixtures.NewFileAssertions(t, ".").
		AssertFileExists("public/index.html").
		AssertFileNotExists("dist/index.html")
}

func TestInjectCmd_AssetErrorsFailBuild(t *testing.T) {
	root := project(t, `version: "1.0"
documents:
  - template: src/index.html
plugins:
  - options:
      scripts:
        - path: lib.js
          sourcePath: missing.js
`)
	g := &Global{Stdout: &bytes.Buffer{}}

	err := (&InjectCmd{}).Run(g, root)
	require.Error(t, err)
	require.True(t, ferrors.HasCategory(err, ferrors.CategoryAsset))
	require.Equal(t, 11, ferrors.NewCLIErrorAdapter(false, nil).ExitCodeFor(err))

	// The document is still written.
	fixtures.NewFileAssertions(t, "dist").AssertFileExists("index.html")
}

func TestValidateCmd(t *testing.T) {
	root := project(t, projectConfig)
	var out bytes.Buffer
	g := &Global{Stdout: &out}

	require.NoError(t, (&ValidateCmd{}).Run(g, root))

	var decoded []map[string]any
	require.NoError(t, yaml.Unmarshal(out.Bytes(), &decoded))
	require.Len(t, decoded, 1)
	require.Equal(t, "vendor", decoded[0]["name"])

	opts, ok := decoded[0]["options"].(map[string]any)
	require.True(t, ok)
	require.Equal(t, false, opts["append"])
	require.Equal(t, true, opts["publicPath"])
	require.Equal(t, false, opts["hash"])
	require.Equal(t, []any{".js"}, opts["jsExtensions"])

	scripts, ok := opts["scripts"].([]any)
	require.True(t, ok)
	script := scripts[0].(map[string]any)
	require.Equal(t, "js", script["type"])
	require.Equal(t, "react.js", script["sourcePath"])
}

func TestValidateCmd_InvalidOptions(t *testing.T) {
	root := project(t, `version: "1.0"
documents:
  - template: src/index.html
plugins:
  - options:
      tags:
        - path: style.scss
`)
	err := (&ValidateCmd{Quiet: true}).Run(&Global{Stdout: &bytes.Buffer{}}, root)
	require.Error(t, err)
	require.True(t, ferrors.HasCategory(err, ferrors.CategoryValidation))
	require.Contains(t, err.Error(), "plugins[0].options.tags[0]")
	require.Equal(t, 2, ferrors.NewCLIErrorAdapter(false, nil).ExitCodeFor(err))
}

func TestValidateCmd_MissingConfig(t *testing.T) {
	t.Chdir(t.TempDir())
	err := (&ValidateCmd{}).Run(&Global{Stdout: &bytes.Buffer{}}, &CLI{Config: "htmltags.yaml"})
	require.Error(t, err)
	require.Equal(t, 7, ferrors.NewCLIErrorAdapter(false, nil).ExitCodeFor(err))
}

func TestInitCmd(t *testing.T) {
	t.Chdir(t.TempDir())
	var out bytes.Buffer
	root := &CLI{Config: "htmltags.yaml"}

	require.NoError(t, (&InitCmd{}).Run(&Global{Stdout: &out}, root))
	require.Contains(t, out.String(), "initialized successfully")
	require.Error(t, (&InitCmd{}).Run(&Global{Stdout: &out}, root))
	require.NoError(t, (&InitCmd{Force: true}).Run(&Global{Stdout: &out}, root))
}
