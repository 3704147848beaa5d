// Package dom owns live html.Node trees.
//
// A Document creates nodes, performs every structural mutation on them and
// keeps all per-node state the engine needs (memoized directive values,
// form-control properties, event listeners, shadow roots) in side tables keyed
// by node pointer. Nodes stay plain *html.Node values, so a live tree can be
// serialized with html.Render at any time.
//
// A Document is not safe for concurrent use.
package dom

import (
	"fmt"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Document is the owner of a live tree and its side tables.
type Document struct {
	root *html.Node
	body *html.Node

	memos     map[*html.Node]map[string]any
	controls  map[*html.Node]*control
	listeners map[*html.Node]map[string][]*Registration
	shadows   map[*html.Node]*shadow
	hosts     map[*html.Node]*html.Node

	registry  *Registry
	observers []Observer
}

// Option configures a Document.
type Option func(*Document)

// WithRegistry sets the custom element registry consulted when elements
// enter or leave the connected tree.
func WithRegistry(r *Registry) Option {
	return func(d *Document) {
		d.registry = r
	}
}

// WithObserver adds an observer that receives every mutation.
func WithObserver(o Observer) Option {
	return func(d *Document) {
		if o != nil {
			d.observers = append(d.observers, o)
		}
	}
}

// NewDocument returns an empty document with a <html><head><body> skeleton.
func NewDocument(opts ...Option) *Document {
	d := &Document{
		root:      &html.Node{Type: html.DocumentNode},
		memos:     make(map[*html.Node]map[string]any),
		controls:  make(map[*html.Node]*control),
		listeners: make(map[*html.Node]map[string][]*Registration),
		shadows:   make(map[*html.Node]*shadow),
		hosts:     make(map[*html.Node]*html.Node),
	}
	for _, opt := range opts {
		opt(d)
	}

	htmlEl := d.CreateElement("html")
	d.body = d.CreateElement("body")
	htmlEl.AppendChild(d.CreateElement("head"))
	htmlEl.AppendChild(d.body)
	d.root.AppendChild(htmlEl)

	return d
}

// Root returns the document node.
func (d *Document) Root() *html.Node { return d.root }

// Body returns the <body> element. Nodes under it are connected.
func (d *Document) Body() *html.Node { return d.body }

// Registry returns the configured registry, or nil.
func (d *Document) Registry() *Registry { return d.registry }

// CreateElement returns a detached element named tag.
func (d *Document) CreateElement(tag string) *html.Node {
	return &html.Node{
		Type:     html.ElementNode,
		Data:     tag,
		DataAtom: atom.Lookup([]byte(tag)),
	}
}

// CreateTextNode returns a detached text node.
func (d *Document) CreateTextNode(data string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: data}
}

// CreateComment returns a detached comment node.
func (d *Document) CreateComment(data string) *html.Node {
	return &html.Node{Type: html.CommentNode, Data: data}
}

// Clone returns a shallow copy of n: same type, name and attributes, no
// children, no parent and none of n's side-table state.
func (d *Document) Clone(n *html.Node) *html.Node {
	c := &html.Node{
		Type:      n.Type,
		DataAtom:  n.DataAtom,
		Data:      n.Data,
		Namespace: n.Namespace,
	}
	if len(n.Attr) > 0 {
		c.Attr = make([]html.Attribute, len(n.Attr))
		copy(c.Attr, n.Attr)
	}
	return c
}

// AppendChild appends child to parent, moving it if it is already attached.
func (d *Document) AppendChild(parent, child *html.Node) error {
	return d.InsertBefore(parent, child, nil)
}

// InsertBefore inserts child into parent before ref, or at the end when ref is
// nil. An attached child is moved: it is detached from its current position
// first and reported to observers as a single move.
func (d *Document) InsertBefore(parent, child, ref *html.Node) error {
	if ref == child {
		ref = child.NextSibling
	}
	if ref != nil && ref.Parent != parent {
		return fmt.Errorf("%w: reference node", ErrNotChild)
	}
	for p := parent; p != nil; p = p.Parent {
		if p == child {
			return ErrHierarchy
		}
	}

	moved := child.Parent != nil
	if moved {
		d.detach(child)
	}

	parent.InsertBefore(child, ref)

	kind := NodeAdded
	if moved {
		kind = NodeMoved
	}
	d.notify(Mutation{Kind: kind, Target: parent, Node: child})

	if d.isConnected(parent) {
		d.connected(child)
	}
	return nil
}

// RemoveChild detaches child from parent.
func (d *Document) RemoveChild(parent, child *html.Node) error {
	if child.Parent != parent {
		return fmt.Errorf("%w: %s", ErrNotChild, describe(child))
	}
	d.detach(child)
	d.notify(Mutation{Kind: NodeRemoved, Target: parent, Node: child})
	return nil
}

func (d *Document) detach(child *html.Node) {
	wasConnected := d.isConnected(child)
	child.Parent.RemoveChild(child)
	if wasConnected {
		d.disconnected(child)
	}
}

// IsConnected reports whether n is reachable from the document node, either
// directly or through the shadow root of a connected host.
func (d *Document) IsConnected(n *html.Node) bool {
	return d.isConnected(n)
}

func (d *Document) isConnected(n *html.Node) bool {
	for n != nil {
		if n == d.root {
			return true
		}
		if n.Parent == nil {
			host, ok := d.hosts[n]
			if !ok {
				return false
			}
			n = host
			continue
		}
		n = n.Parent
	}
	return false
}

// Release drops every side-table entry held for n and its descendants,
// including shadow trees. Call it for subtrees that will never be reattached.
func (d *Document) Release(n *html.Node) {
	var visit func(*html.Node)
	visit = func(n *html.Node) {
		delete(d.memos, n)
		delete(d.controls, n)
		delete(d.listeners, n)
		if s, ok := d.shadows[n]; ok {
			visit(s.root)
			delete(d.hosts, s.root)
			delete(d.shadows, n)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			visit(c)
		}
	}
	visit(n)
}

func describe(n *html.Node) string {
	switch n.Type {
	case html.ElementNode:
		return "<" + n.Data + ">"
	case html.TextNode:
		return "#text"
	case html.CommentNode:
		return "#comment"
	default:
		return "node"
	}
}
