package dom

import (
	"strings"

	"golang.org/x/net/html"
)

// Attribute returns the value of the attribute named key.
func Attribute(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

// SetAttribute sets the attribute named key, adding it when absent.
func (d *Document) SetAttribute(n *html.Node, key, value string) {
	set := false
	for i := range n.Attr {
		if n.Attr[i].Namespace == "" && n.Attr[i].Key == key {
			n.Attr[i].Val = value
			set = true
			break
		}
	}
	if !set {
		n.Attr = append(n.Attr, html.Attribute{Key: key, Val: value})
	}
	d.notify(Mutation{Kind: AttributeChanged, Target: n, Name: key, Value: value})
}

// RemoveAttribute removes the attribute named key if present.
func (d *Document) RemoveAttribute(n *html.Node, key string) {
	for i, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			n.Attr = append(n.Attr[:i], n.Attr[i+1:]...)
			d.notify(Mutation{Kind: AttributeRemoved, Target: n, Name: key})
			return
		}
	}
}

// SetData replaces the character data of a text or comment node.
func (d *Document) SetData(n *html.Node, data string) {
	n.Data = data
	d.notify(Mutation{Kind: CharacterDataChanged, Target: n, Value: data})
}

// TextContent concatenates the text of every text node under n.
func TextContent(n *html.Node) string {
	if n.Type == html.TextNode || n.Type == html.CommentNode {
		return n.Data
	}

	var b strings.Builder
	var visit func(*html.Node)
	visit = func(n *html.Node) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			switch c.Type {
			case html.TextNode:
				b.WriteString(c.Data)
			case html.ElementNode:
				visit(c)
			}
		}
	}
	visit(n)
	return b.String()
}

// SetTextContent replaces all children of n with a single text node, or with
// nothing when text is empty.
func (d *Document) SetTextContent(n *html.Node, text string) error {
	if n.Type == html.TextNode || n.Type == html.CommentNode {
		d.SetData(n, text)
		return nil
	}

	for c := n.FirstChild; c != nil; c = n.FirstChild {
		if err := d.RemoveChild(n, c); err != nil {
			return err
		}
		d.Release(c)
	}
	if text == "" {
		return nil
	}
	return d.AppendChild(n, d.CreateTextNode(text))
}
