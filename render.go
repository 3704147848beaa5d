package livedom

import (
	"golang.org/x/net/html"

	"github.com/livefir/livedom/internal/reconcile"
)

// Render reconciles the children of root, a node owned by doc, against tmpl
// evaluated with data. Rendering the same data twice performs no mutation the
// second time. A render that fails stops at the first error; mutations
// already made stay in place.
func Render(tmpl *Template, doc *Document, root *html.Node, data Data) error {
	return reconcile.New(doc).Render(tmpl.content, root, data)
}
