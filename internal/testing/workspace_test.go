package testing

import "testing"

func TestWorkspace(t *testing.T) {
	ws := NewWorkspace(t).WriteFiles(map[string]string{
		"src/index.html":     "<html></html>",
		"assets/vendor/a.js": "a",
	})

	ws.Assert(".").
		AssertFileExists("src/index.html").
		AssertFileNotExists("dist/index.html").
		AssertFileContains("src/index.html", "<html>").
		AssertFileEquals("assets/vendor/a.js", "a")

	ws.Assert("assets").AssertFileEquals("vendor/a.js", "a")
}
