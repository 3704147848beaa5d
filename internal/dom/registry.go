package dom

import (
	"fmt"

	"golang.org/x/net/html"
)

// Definition holds the lifecycle callbacks of a custom element.
type Definition struct {
	// Connected runs after the element enters a connected tree.
	Connected func(el *html.Node)
	// Disconnected runs after the element leaves a connected tree.
	Disconnected func(el *html.Node)
}

// Registry maps custom element names to their definitions.
type Registry struct {
	definitions map[string]Definition
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{definitions: make(map[string]Definition)}
}

// Define registers def under name. Names must start with a lowercase ASCII
// letter and contain a hyphen.
func (r *Registry) Define(name string, def Definition) error {
	if !validElementName(name) {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	if _, exists := r.definitions[name]; exists {
		return fmt.Errorf("%w: %q", ErrAlreadyDefined, name)
	}
	r.definitions[name] = def
	return nil
}

// Lookup returns the definition registered under name.
func (r *Registry) Lookup(name string) (Definition, bool) {
	if r == nil {
		return Definition{}, false
	}
	def, ok := r.definitions[name]
	return def, ok
}

func validElementName(name string) bool {
	if name == "" || name[0] < 'a' || name[0] > 'z' {
		return false
	}
	hyphen := false
	for i := 0; i < len(name); i++ {
		c := name[i]
		switch {
		case c == '-':
			hyphen = true
		case c >= 'A' && c <= 'Z', c == ' ', c == '\t', c == '\n', c == '/', c == '>':
			return false
		}
	}
	return hyphen
}

func (d *Document) connected(n *html.Node) {
	d.eachCustom(n, func(el *html.Node, def Definition) {
		if def.Connected != nil {
			def.Connected(el)
		}
	})
}

func (d *Document) disconnected(n *html.Node) {
	d.eachCustom(n, func(el *html.Node, def Definition) {
		if def.Disconnected != nil {
			def.Disconnected(el)
		}
	})
}

// eachCustom collects the defined custom elements in n's shadow-including
// subtree in tree order, then calls fn for each. Collecting first keeps
// callbacks that mutate the tree from disturbing the walk.
func (d *Document) eachCustom(n *html.Node, fn func(*html.Node, Definition)) {
	if d.registry == nil {
		return
	}

	type match struct {
		el  *html.Node
		def Definition
	}
	var matches []match

	var visit func(*html.Node)
	visit = func(n *html.Node) {
		if n.Type == html.ElementNode {
			if def, ok := d.registry.Lookup(n.Data); ok {
				matches = append(matches, match{el: n, def: def})
			}
			if s, ok := d.shadows[n]; ok {
				visit(s.root)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			visit(c)
		}
	}
	visit(n)

	for _, m := range matches {
		fn(m.el, m.def)
	}
}
