package directive

import (
	"reflect"

	"golang.org/x/net/html"

	"github.com/livefir/livedom/internal/dom"
	"github.com/livefir/livedom/internal/expr"
)

// BindEvents applies @name directives to target. The registration in use is
// memoized per event so that an unchanged listener is never re-attached.
func BindEvents(doc *dom.Document, events []html.Attribute, target *html.Node, scope expr.Scope) error {
	for _, a := range events {
		name := a.Key[len(EventPrefix):]

		v, err := evaluate(a.Key, a.Val, scope)
		if err != nil {
			return err
		}

		inUse, _ := memo(doc, target, a.Key).(*dom.Registration)

		if expr.IsUndefined(v) {
			if inUse != nil {
				doc.Unlisten(inUse)
				doc.DeleteMemo(target, a.Key)
			}
			continue
		}

		listener, ok := v.(dom.EventListener)
		if !ok || isNil(listener) {
			return &InvalidEventHandlerError{Event: name, Expression: a.Val, Value: v}
		}

		if inUse != nil && dom.SameListener(inUse.Listener(), listener) {
			continue
		}
		doc.Unlisten(inUse)
		doc.SetMemo(target, a.Key, doc.Listen(target, name, listener))
	}
	return nil
}

// isNil reports whether l is nil or a typed nil pointer, map, func, chan or
// slice.
func isNil(l dom.EventListener) bool {
	if l == nil {
		return true
	}
	switch v := reflect.ValueOf(l); v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Func, reflect.Chan, reflect.Slice, reflect.Interface:
		return v.IsNil()
	}
	return false
}
