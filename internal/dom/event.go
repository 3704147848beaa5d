package dom

import (
	"reflect"

	"golang.org/x/net/html"
)

// Event is dispatched to listeners by Document.Dispatch.
type Event struct {
	Type string
	// Target is the node the event was dispatched on.
	Target *html.Node
	// CurrentTarget is the node whose listener is running.
	CurrentTarget *html.Node
	// Detail carries arbitrary dispatcher data.
	Detail any

	stopped bool
}

// StopPropagation prevents the event from reaching further ancestors. The
// remaining listeners on the current node still run.
func (e *Event) StopPropagation() { e.stopped = true }

// Stopped reports whether StopPropagation was called.
func (e *Event) Stopped() bool { return e.stopped }

// EventListener handles events. Listener identity decides whether an event
// binding changed, so implementations should be pointers or other comparable
// values.
type EventListener interface {
	HandleEvent(e *Event)
}

// Listener wraps a function as an EventListener with pointer identity.
type Listener struct {
	fn func(*Event)
}

// NewListener returns a listener calling fn.
func NewListener(fn func(e *Event)) *Listener {
	return &Listener{fn: fn}
}

// HandleEvent implements EventListener.
func (l *Listener) HandleEvent(e *Event) {
	if l != nil && l.fn != nil {
		l.fn(e)
	}
}

// SameListener reports whether a and b are the same listener. Listeners of
// non-comparable dynamic types are never the same.
func SameListener(a, b EventListener) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	ta := reflect.TypeOf(a)
	if ta != reflect.TypeOf(b) || !ta.Comparable() {
		return false
	}
	return a == b
}

// Registration is one listener attached to one node for one event type.
type Registration struct {
	node     *html.Node
	typ      string
	listener EventListener
}

// Listener returns the registered listener.
func (r *Registration) Listener() EventListener { return r.listener }

// Listen attaches l to n for events of type typ and returns the
// registration. Unlike AddEventListener it never deduplicates, so it also
// works for listeners without a usable identity.
func (d *Document) Listen(n *html.Node, typ string, l EventListener) *Registration {
	byType, ok := d.listeners[n]
	if !ok {
		byType = make(map[string][]*Registration)
		d.listeners[n] = byType
	}
	r := &Registration{node: n, typ: typ, listener: l}
	byType[typ] = append(byType[typ], r)
	d.notify(Mutation{Kind: ListenerAdded, Target: n, Name: typ})
	return r
}

// Unlisten detaches a registration returned by Listen. Detaching twice has no
// effect.
func (d *Document) Unlisten(r *Registration) {
	if r == nil {
		return
	}
	byType, ok := d.listeners[r.node]
	if !ok {
		return
	}
	list := byType[r.typ]
	for i, existing := range list {
		if existing != r {
			continue
		}
		list = append(list[:i:i], list[i+1:]...)
		if len(list) == 0 {
			delete(byType, r.typ)
		} else {
			byType[r.typ] = list
		}
		if len(byType) == 0 {
			delete(d.listeners, r.node)
		}
		d.notify(Mutation{Kind: ListenerRemoved, Target: r.node, Name: r.typ})
		return
	}
}

// AddEventListener registers l for events of type typ on n. Adding the same
// listener twice has no effect.
func (d *Document) AddEventListener(n *html.Node, typ string, l EventListener) {
	if l == nil {
		return
	}
	for _, existing := range d.listeners[n][typ] {
		if SameListener(existing.listener, l) {
			return
		}
	}
	d.Listen(n, typ, l)
}

// RemoveEventListener unregisters l for events of type typ on n.
func (d *Document) RemoveEventListener(n *html.Node, typ string, l EventListener) {
	for _, existing := range d.listeners[n][typ] {
		if SameListener(existing.listener, l) {
			d.Unlisten(existing)
			return
		}
	}
}

// Listeners returns the listeners registered for typ on n, in registration
// order.
func (d *Document) Listeners(n *html.Node, typ string) []EventListener {
	list := d.listeners[n][typ]
	out := make([]EventListener, len(list))
	for i, r := range list {
		out[i] = r.listener
	}
	return out
}

// Dispatch delivers e to target and then to each ancestor until propagation
// is stopped. Events cross from a shadow root to its host. Target is set to
// target when unset.
func (d *Document) Dispatch(target *html.Node, e *Event) {
	if e.Target == nil {
		e.Target = target
	}

	for n := target; n != nil; n = d.parentForEvent(n) {
		e.CurrentTarget = n
		for _, l := range d.Listeners(n, e.Type) {
			l.HandleEvent(e)
		}
		if e.stopped {
			break
		}
	}
	e.CurrentTarget = nil
}

func (d *Document) parentForEvent(n *html.Node) *html.Node {
	if n.Parent != nil {
		return n.Parent
	}
	return d.hosts[n]
}
