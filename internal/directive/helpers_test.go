package directive

import (
	"strings"
	"testing"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// element parses src and returns its single top-level element.
func element(t *testing.T, src string) *html.Node {
	t.Helper()
	nodes, err := html.ParseFragment(strings.NewReader(src), &html.Node{
		Type:     html.ElementNode,
		Data:     "template",
		DataAtom: atom.Template,
	})
	if err != nil {
		t.Fatalf("ParseFragment(%q) error = %v", src, err)
	}
	for _, n := range nodes {
		if n.Type == html.ElementNode {
			return n
		}
	}
	t.Fatalf("no element in %q", src)
	return nil
}
