package dom

import (
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// RenderChildren writes the markup of n's children to w.
func RenderChildren(w io.Writer, n *html.Node) error {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(w, c); err != nil {
			return err
		}
	}
	return nil
}

// InnerHTML returns the markup of n's children exactly as they are in the
// tree. Properties and shadow roots are not part of it.
func InnerHTML(n *html.Node) string {
	var b strings.Builder
	_ = RenderChildren(&b, n)
	return b.String()
}

// OuterHTML returns the markup of n itself.
func OuterHTML(n *html.Node) string {
	var b strings.Builder
	_ = html.Render(&b, n)
	return b.String()
}

// Snapshot returns the markup of n's children as a client would see it:
// written value and checked properties are reflected into attributes, and
// shadow roots are emitted as declarative <template shadowrootmode> children
// of their hosts.
func (d *Document) Snapshot(n *html.Node) string {
	var b strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		_ = html.Render(&b, d.reflect(c))
	}
	return b.String()
}

func (d *Document) reflect(n *html.Node) *html.Node {
	out := d.Clone(n)

	if n.Type == html.ElementNode {
		if s, ok := d.shadows[n]; ok {
			tmpl := d.CreateElement("template")
			tmpl.Attr = []html.Attribute{{Key: "shadowrootmode", Val: string(s.mode)}}
			for c := s.root.FirstChild; c != nil; c = c.NextSibling {
				tmpl.AppendChild(d.reflect(c))
			}
			out.AppendChild(tmpl)
		}
	}

	c, dirty := d.controls[n]
	if dirty && n.DataAtom == atom.Textarea && c.valueSet {
		out.AppendChild(d.CreateTextNode(c.value))
		return out
	}

	for child := n.FirstChild; child != nil; child = child.NextSibling {
		out.AppendChild(d.reflect(child))
	}

	if !dirty {
		return out
	}
	switch n.DataAtom {
	case atom.Input:
		if c.valueSet {
			setAttr(out, "value", c.value)
		}
		if c.checkedSet {
			if c.checked {
				setAttr(out, "checked", "")
			} else {
				removeAttr(out, "checked")
			}
		}
	case atom.Select:
		if c.valueSet {
			markSelected(out, c.value)
		}
	}
	return out
}

func markSelected(sel *html.Node, value string) {
	var visit func(*html.Node)
	visit = func(n *html.Node) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type != html.ElementNode {
				continue
			}
			if c.DataAtom == atom.Option {
				if optionValue(c) == value {
					setAttr(c, "selected", "")
				} else {
					removeAttr(c, "selected")
				}
				continue
			}
			visit(c)
		}
	}
	visit(sel)
}

func setAttr(n *html.Node, key, value string) {
	for i := range n.Attr {
		if n.Attr[i].Namespace == "" && n.Attr[i].Key == key {
			n.Attr[i].Val = value
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: value})
}

func removeAttr(n *html.Node, key string) {
	for i, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			n.Attr = append(n.Attr[:i], n.Attr[i+1:]...)
			return
		}
	}
}

// FindByID returns the first element under root, shadow trees included, whose
// id attribute equals id.
func (d *Document) FindByID(root *html.Node, id string) *html.Node {
	var found *html.Node
	var visit func(*html.Node)
	visit = func(n *html.Node) {
		for c := n.FirstChild; c != nil && found == nil; c = c.NextSibling {
			if c.Type != html.ElementNode {
				continue
			}
			if v, ok := Attribute(c, "id"); ok && v == id {
				found = c
				return
			}
			if s, ok := d.shadows[c]; ok {
				visit(s.root)
			}
			visit(c)
		}
	}
	visit(root)
	return found
}
