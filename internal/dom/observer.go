package dom

import "golang.org/x/net/html"

// MutationKind classifies a Mutation.
type MutationKind int

const (
	NodeAdded MutationKind = iota
	NodeRemoved
	NodeMoved
	AttributeChanged
	AttributeRemoved
	CharacterDataChanged
	PropertyChanged
	ListenerAdded
	ListenerRemoved
)

var mutationKindNames = [...]string{
	NodeAdded:            "node-added",
	NodeRemoved:          "node-removed",
	NodeMoved:            "node-moved",
	AttributeChanged:     "attribute-changed",
	AttributeRemoved:     "attribute-removed",
	CharacterDataChanged: "character-data-changed",
	PropertyChanged:      "property-changed",
	ListenerAdded:        "listener-added",
	ListenerRemoved:      "listener-removed",
}

func (k MutationKind) String() string {
	if k < 0 || int(k) >= len(mutationKindNames) {
		return "unknown"
	}
	return mutationKindNames[k]
}

// Mutation describes one change made through a Document.
//
// For structural kinds Target is the parent and Node the child. For the
// other kinds Target is the changed node, Name the attribute, property or
// event type and Value the new value where it has a string form.
type Mutation struct {
	Kind   MutationKind
	Target *html.Node
	Node   *html.Node
	Name   string
	Value  string
}

// Observer receives mutations synchronously, in the order they happen.
type Observer interface {
	Observe(m Mutation)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(m Mutation)

// Observe implements Observer.
func (f ObserverFunc) Observe(m Mutation) { f(m) }

func (d *Document) notify(m Mutation) {
	for _, o := range d.observers {
		o.Observe(m)
	}
}
