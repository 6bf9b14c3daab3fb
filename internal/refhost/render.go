package refhost

import (
	"maps"
	"os"
	"path/filepath"
	"slices"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	ferrors "git.home.luguber.info/inful/htmltags/internal/foundation/errors"
	"git.home.luguber.info/inful/htmltags/internal/host"
)

func parseTemplate(path string) (*html.Node, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryFileSystem, "failed to open template").
			WithContext("template", path).
			Build()
	}
	defer func() {
		_ = f.Close()
	}()

	page, err := html.Parse(f)
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryHost, "failed to parse template").
			WithContext("template", path).
			Build()
	}
	return page, nil
}

// findElement returns the first element with the given atom in document order.
func findElement(n *html.Node, a atom.Atom) *html.Node {
	if n.Type == html.ElementNode && n.DataAtom == a {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findElement(c, a); found != nil {
			return found
		}
	}
	return nil
}

// injectTags appends head tags to <head> and body tags to <body>. The
// parser always synthesizes both elements.
func injectTags(page *html.Node, head, body []*host.Tag) {
	if h := findElement(page, atom.Head); h != nil {
		for _, t := range head {
			h.AppendChild(tagNode(t))
		}
	}
	if b := findElement(page, atom.Body); b != nil {
		for _, t := range body {
			b.AppendChild(tagNode(t))
		}
	}
}

// tagNode converts a tag to an element node. Attributes are sorted by name;
// boolean false values are omitted.
func tagNode(t *host.Tag) *html.Node {
	n := &html.Node{
		Type:     html.ElementNode,
		Data:     t.Name,
		DataAtom: atom.Lookup([]byte(t.Name)),
	}
	for _, k := range slices.Sorted(maps.Keys(t.Attributes)) {
		val, ok := host.AttributeString(t.Attributes[k])
		if !ok {
			continue
		}
		n.Attr = append(n.Attr, html.Attribute{Key: k, Val: val})
	}
	return n
}

func writeDocument(page *html.Node, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryFileSystem, "failed to create document directory").
			WithContext("path", path).
			Build()
	}
	f, err := os.Create(filepath.Clean(path))
	if err != nil {
		return ferrors.WrapError(err, ferrors.CategoryFileSystem, "failed to create document").
			WithContext("path", path).
			Build()
	}
	if err := html.Render(f, page); err != nil {
		_ = f.Close()
		return ferrors.WrapError(err, ferrors.CategoryFileSystem, "failed to render document").
			WithContext("path", path).
			Build()
	}
	if err := f.Close(); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryFileSystem, "failed to write document").
			WithContext("path", path).
			Build()
	}
	return nil
}
