// Package directive plans structural directives and applies binding
// directives.
//
// Structural directives ($if, $for) are planned: a planner compares the
// template element against the marker comment that precedes its live
// instances and returns a Plan the reconciler carries out. Binding directives
// (:attr, @event, $text, $model) are applied directly to an already placed
// live element, memoizing the last written value on the node.
package directive

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"

	"github.com/livefir/livedom/internal/dom"
	"github.com/livefir/livedom/internal/expr"
)

// Directive attribute names and prefixes.
const (
	If    = "$if"
	For   = "$for"
	Key   = "$key"
	Text  = "$text"
	Model = "$model"

	AttrPrefix  = ":"
	EventPrefix = "@"

	// SelfKey as a key expression keys each item by the item itself.
	SelfKey = "$self"
)

// ItemUpdate is one entry of a Plan.
//
// A create entry renders a new item with Data. An update entry reuses the live
// item found at OldOffset among the previously rendered items. A delete entry
// removes the live item at OldOffset.
type ItemUpdate struct {
	Create    bool
	Delete    bool
	Data      expr.Scope
	OldOffset int
}

// Plan describes how to turn the previously rendered instances of a
// structural directive into the current ones.
//
// Non-delete entries appear in their new order; delete entries follow, in old
// order.
type Plan struct {
	Updates  []ItemUpdate
	OldCount int
	NewCount int

	// CreateReference builds the marker comment. It is nil when the marker
	// already exists.
	CreateReference func() *html.Node
	// UpdateReference stores the new state on the marker.
	UpdateReference func(marker *html.Node)
}

// IsMarker reports whether n is the marker of the given structural
// directive.
func IsMarker(doc *dom.Document, n *html.Node, directive string) bool {
	return n != nil && doc.HasMemo(n, directive)
}

// memo returns the memoized value for key, or Undefined when there is none.
func memo(doc *dom.Document, n *html.Node, key string) any {
	if v, ok := doc.Memo(n, key); ok {
		return v
	}
	return expr.Undefined
}

// markerText renders a directive as it appears in a marker comment.
func markerText(directive, value string) string {
	return directive + `="` + value + `"`
}

func evaluate(attr, expression string, scope expr.Scope) (any, error) {
	v, err := expr.Evaluate(expression, scope)
	if err != nil {
		return nil, fmt.Errorf("failed to evaluate %s=%q: %w", attr, expression, err)
	}
	return v, nil
}

// Bindings reports the binding directives carried by a template element.
func Bindings(src *html.Node) (attrs, events []html.Attribute, behaviors map[string]string) {
	for _, a := range src.Attr {
		switch {
		case strings.HasPrefix(a.Key, AttrPrefix):
			attrs = append(attrs, a)
		case strings.HasPrefix(a.Key, EventPrefix):
			events = append(events, a)
		case a.Key == Text || a.Key == Model:
			if behaviors == nil {
				behaviors = make(map[string]string)
			}
			behaviors[a.Key] = a.Val
		}
	}
	return attrs, events, behaviors
}

// Bind applies the binding directives of src to target: attributes first,
// then behaviors, then events.
func Bind(doc *dom.Document, src, target *html.Node, scope expr.Scope) error {
	attrs, events, behaviors := Bindings(src)

	if err := BindAttributes(doc, attrs, target, scope); err != nil {
		return err
	}
	if err := BindBehaviors(doc, behaviors, src, target, scope); err != nil {
		return err
	}
	return BindEvents(doc, events, target, scope)
}
