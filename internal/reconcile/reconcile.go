// Package reconcile mutates a live tree in place so that it matches a
// template evaluated against data.
//
// Template children and live children are walked in lockstep. Static nodes
// map one to one; every structural directive ($for, $if) owns a marker
// comment followed by the live instances it rendered last time. Nodes are
// reused whenever the directive state allows it, so identity survives
// re-renders.
package reconcile

import (
	"errors"
	"fmt"

	"golang.org/x/net/html"

	"github.com/livefir/livedom/internal/directive"
	"github.com/livefir/livedom/internal/dom"
	"github.com/livefir/livedom/internal/expr"
)

// ErrTreeMismatch is returned when the live tree no longer has the items a
// marker says it rendered, typically because it was edited behind the
// reconciler's back.
var ErrTreeMismatch = errors.New("reconcile: live tree does not match marker state")

// Reconciler renders templates into live trees owned by one document.
type Reconciler struct {
	doc *dom.Document
}

// New returns a reconciler for trees owned by doc.
func New(doc *dom.Document) *Reconciler {
	return &Reconciler{doc: doc}
}

// Render reconciles the children of liveRoot against the children of
// template. Rendering the same data twice performs no mutation the second
// time. On error the render stops; mutations already applied stay applied.
func (r *Reconciler) Render(template, liveRoot *html.Node, data expr.Scope) error {
	return r.children(template, liveRoot, data)
}

func (r *Reconciler) children(src, target *html.Node, scope expr.Scope) error {
	current := target.FirstChild

	for s := src.FirstChild; s != nil; s = s.NextSibling {
		var err error

		switch s.Type {
		case html.TextNode, html.CommentNode:
			current, err = r.character(s, target, current)
		case html.ElementNode:
			switch {
			case hasAttr(s, directive.For):
				plan, perr := directive.PlanFor(r.doc, s, current, scope)
				if perr != nil {
					return perr
				}
				current, err = r.structural(s, target, current, plan)
			case hasAttr(s, directive.If):
				plan, perr := directive.PlanIf(r.doc, s, current, scope)
				if perr != nil {
					return perr
				}
				current, err = r.structural(s, target, current, plan)
			default:
				current, err = r.static(s, target, current, scope)
			}
		}

		if err != nil {
			return err
		}
	}
	return nil
}

// character reconciles a text or comment node and returns the next live node.
func (r *Reconciler) character(s, target, current *html.Node) (*html.Node, error) {
	if current == nil {
		current = r.doc.Clone(s)
		if err := r.doc.AppendChild(target, current); err != nil {
			return nil, err
		}
	}
	if current.Data != s.Data {
		r.doc.SetData(current, s.Data)
	}
	return current.NextSibling, nil
}

// static reconciles an element without structural directives.
func (r *Reconciler) static(s, target, current *html.Node, scope expr.Scope) (*html.Node, error) {
	if current == nil {
		current = r.doc.Clone(s)
		if err := r.doc.AppendChild(target, current); err != nil {
			return nil, err
		}
	}
	if err := r.element(s, current, scope); err != nil {
		return nil, err
	}
	return current.NextSibling, nil
}

// element brings one live element up to date with its template element.
func (r *Reconciler) element(s, live *html.Node, scope expr.Scope) error {
	if !hasAttr(s, directive.Text) {
		if err := r.children(s, live, scope); err != nil {
			return err
		}
	}
	return directive.Bind(r.doc, s, live, scope)
}

// structural carries out a $for or $if plan and returns the live node that
// follows the directive's items.
func (r *Reconciler) structural(s, target, current *html.Node, plan *directive.Plan) (*html.Node, error) {
	marker := current
	if plan.CreateReference != nil {
		marker = plan.CreateReference()
		if err := r.doc.InsertBefore(target, marker, current); err != nil {
			return nil, err
		}
	}

	old := make([]*html.Node, plan.OldCount)
	n := marker.NextSibling
	for i := range old {
		if n == nil {
			return nil, fmt.Errorf("%w: %s expects %d items, found %d",
				ErrTreeMismatch, marker.Data, plan.OldCount, i)
		}
		old[i] = n
		n = n.NextSibling
	}
	plan.UpdateReference(marker)

	for _, u := range plan.Updates {
		if !u.Delete {
			continue
		}
		if err := r.doc.RemoveChild(target, old[u.OldOffset]); err != nil {
			return nil, err
		}
		r.doc.Release(old[u.OldOffset])
	}

	cursor := marker.NextSibling
	for _, u := range plan.Updates {
		if u.Delete {
			continue
		}

		var item *html.Node
		if u.Create {
			item = r.doc.Clone(s)
			if err := r.doc.InsertBefore(target, item, cursor); err != nil {
				return nil, err
			}
		} else {
			item = old[u.OldOffset]
			if item != cursor {
				if err := r.doc.InsertBefore(target, item, cursor); err != nil {
					return nil, err
				}
			}
		}

		if err := r.element(s, item, u.Data); err != nil {
			return nil, err
		}
		cursor = item.NextSibling
	}

	return cursor, nil
}

func hasAttr(n *html.Node, key string) bool {
	_, ok := dom.Attribute(n, key)
	return ok
}
