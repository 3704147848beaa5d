package directive

import (
	"golang.org/x/net/html"

	"github.com/livefir/livedom/internal/dom"
	"github.com/livefir/livedom/internal/expr"
)

// BindAttributes applies :name directives to target. An undefined value
// removes the attribute; any other value is written as its string form when
// it differs from the memoized one.
func BindAttributes(doc *dom.Document, attrs []html.Attribute, target *html.Node, scope expr.Scope) error {
	for _, a := range attrs {
		name := a.Key[len(AttrPrefix):]

		v, err := evaluate(a.Key, a.Val, scope)
		if err != nil {
			return err
		}

		if expr.IsUndefined(v) {
			doc.RemoveAttribute(target, name)
			doc.DeleteMemo(target, a.Key)
			continue
		}

		if !expr.StrictEqual(memo(doc, target, a.Key), v) {
			doc.SetAttribute(target, name, expr.ToString(v))
			doc.SetMemo(target, a.Key, v)
		}
	}
	return nil
}
