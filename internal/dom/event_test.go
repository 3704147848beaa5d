package dom

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

type valueListener struct{ name string }

func (valueListener) HandleEvent(*Event) {}

type sliceListener []string

func (sliceListener) HandleEvent(*Event) {}

func TestDispatchBubbles(t *testing.T) {
	doc := NewDocument()
	outer := doc.CreateElement("div")
	inner := doc.CreateElement("button")
	_ = doc.AppendChild(outer, inner)

	var calls []string
	doc.AddEventListener(inner, "click", NewListener(func(e *Event) {
		if e.CurrentTarget != inner || e.Target != inner {
			t.Errorf("inner listener got wrong targets")
		}
		calls = append(calls, "inner")
	}))
	doc.AddEventListener(outer, "click", NewListener(func(e *Event) {
		if e.CurrentTarget != outer || e.Target != inner {
			t.Errorf("outer listener got wrong targets")
		}
		calls = append(calls, "outer")
	}))
	doc.AddEventListener(outer, "input", NewListener(func(*Event) {
		calls = append(calls, "wrong type")
	}))

	doc.Dispatch(inner, &Event{Type: "click"})

	if diff := cmp.Diff([]string{"inner", "outer"}, calls); diff != "" {
		t.Errorf("calls mismatch (-want +got):\n%s", diff)
	}
}

func TestDispatchStopPropagation(t *testing.T) {
	doc := NewDocument()
	outer := doc.CreateElement("div")
	inner := doc.CreateElement("button")
	_ = doc.AppendChild(outer, inner)

	var calls []string
	doc.AddEventListener(inner, "click", NewListener(func(e *Event) {
		calls = append(calls, "first")
		e.StopPropagation()
	}))
	doc.AddEventListener(inner, "click", NewListener(func(*Event) {
		calls = append(calls, "second")
	}))
	doc.AddEventListener(outer, "click", NewListener(func(*Event) {
		calls = append(calls, "outer")
	}))

	e := &Event{Type: "click"}
	doc.Dispatch(inner, e)

	if diff := cmp.Diff([]string{"first", "second"}, calls); diff != "" {
		t.Errorf("calls mismatch (-want +got):\n%s", diff)
	}
	if !e.Stopped() {
		t.Errorf("Stopped() = false after StopPropagation")
	}
}

func TestDispatchCrossesShadowRoot(t *testing.T) {
	doc := NewDocument()
	host := doc.CreateElement("div")
	root, _ := doc.AttachShadow(host, ShadowOpen)
	button := doc.CreateElement("button")
	_ = doc.AppendChild(root, button)

	reached := false
	doc.AddEventListener(host, "click", NewListener(func(*Event) { reached = true }))
	doc.Dispatch(button, &Event{Type: "click"})

	if !reached {
		t.Errorf("event did not reach the shadow host")
	}
}

func TestAddEventListenerDeduplicates(t *testing.T) {
	rec := &recorder{}
	doc := NewDocument(WithObserver(rec))
	n := doc.CreateElement("button")
	l := NewListener(func(*Event) {})

	doc.AddEventListener(n, "click", l)
	doc.AddEventListener(n, "click", l)
	if got := len(doc.Listeners(n, "click")); got != 1 {
		t.Fatalf("listeners = %d, want 1", got)
	}

	doc.RemoveEventListener(n, "click", NewListener(func(*Event) {}))
	if got := len(doc.Listeners(n, "click")); got != 1 {
		t.Fatalf("removing another listener changed the list")
	}
	doc.RemoveEventListener(n, "click", l)
	if got := len(doc.Listeners(n, "click")); got != 0 {
		t.Fatalf("listeners = %d after removal, want 0", got)
	}

	want := []MutationKind{ListenerAdded, ListenerRemoved}
	if diff := cmp.Diff(want, rec.kinds); diff != "" {
		t.Errorf("mutations mismatch (-want +got):\n%s", diff)
	}
}

func TestSameListener(t *testing.T) {
	l := NewListener(nil)

	tests := []struct {
		name string
		a, b EventListener
		want bool
	}{
		{name: "same pointer", a: l, b: l, want: true},
		{name: "different pointers", a: l, b: NewListener(nil), want: false},
		{name: "equal values", a: valueListener{"a"}, b: valueListener{"a"}, want: true},
		{name: "different values", a: valueListener{"a"}, b: valueListener{"b"}, want: false},
		{name: "different types", a: l, b: valueListener{"a"}, want: false},
		{name: "non-comparable", a: sliceListener{"a"}, b: sliceListener{"a"}, want: false},
		{name: "both nil", want: true},
		{name: "one nil", a: l, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SameListener(tt.a, tt.b); got != tt.want {
				t.Errorf("SameListener() = %v, want %v", got, tt.want)
			}
		})
	}
}
