package dom

import (
	"fmt"

	"golang.org/x/net/html"
)

// ShadowMode controls whether a shadow root is reachable from its host.
type ShadowMode string

const (
	ShadowOpen   ShadowMode = "open"
	ShadowClosed ShadowMode = "closed"
)

type shadow struct {
	root *html.Node
	mode ShadowMode
}

// AttachShadow creates a shadow root for host and returns it. The root is a
// document-type node with no parent; nodes inside it are connected whenever
// host is.
func (d *Document) AttachShadow(host *html.Node, mode ShadowMode) (*html.Node, error) {
	if host.Type != html.ElementNode {
		return nil, fmt.Errorf("%w: %s", ErrShadowHost, describe(host))
	}
	if _, ok := d.shadows[host]; ok {
		return nil, fmt.Errorf("%w: %s", ErrShadowAttached, describe(host))
	}

	root := &html.Node{Type: html.DocumentNode}
	d.shadows[host] = &shadow{root: root, mode: mode}
	d.hosts[root] = host
	return root, nil
}

// ShadowRoot returns host's shadow root when it was attached in open mode.
func (d *Document) ShadowRoot(host *html.Node) *html.Node {
	s, ok := d.shadows[host]
	if !ok || s.mode != ShadowOpen {
		return nil
	}
	return s.root
}

// Host returns the host of a shadow root, or nil when root is not one.
func (d *Document) Host(root *html.Node) *html.Node {
	return d.hosts[root]
}
