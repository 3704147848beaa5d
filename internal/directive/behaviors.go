package directive

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/livefir/livedom/internal/dom"
	"github.com/livefir/livedom/internal/expr"
)

// BindBehaviors applies $text and $model to target. behaviors maps directive
// names to expressions, as returned by Bindings.
func BindBehaviors(doc *dom.Document, behaviors map[string]string, src, target *html.Node, scope expr.Scope) error {
	if expression, ok := behaviors[Text]; ok {
		if err := bindText(doc, expression, target, scope); err != nil {
			return err
		}
	}
	if expression, ok := behaviors[Model]; ok {
		if err := bindModel(doc, expression, src, target, scope); err != nil {
			return err
		}
	}
	return nil
}

func bindText(doc *dom.Document, expression string, target *html.Node, scope expr.Scope) error {
	v, err := evaluate(Text, expression, scope)
	if err != nil {
		return err
	}
	if expr.StrictEqual(memo(doc, target, Text), v) {
		return nil
	}
	if err := doc.SetTextContent(target, displayString(v)); err != nil {
		return err
	}
	doc.SetMemo(target, Text, v)
	return nil
}

func bindModel(doc *dom.Document, expression string, src, target *html.Node, scope expr.Scope) error {
	v, err := evaluate(Model, expression, scope)
	if err != nil {
		return err
	}

	var write func()
	switch src.DataAtom {
	case atom.Input:
		// :type has already been applied to target
		inputType, _ := dom.Attribute(target, "type")
		switch strings.ToLower(inputType) {
		case "checkbox":
			write = func() { doc.SetChecked(target, expr.Truthy(v)) }
		case "radio":
			write = func() { doc.SetChecked(target, expr.StrictEqual(doc.Value(target), v)) }
		default:
			write = func() { doc.SetValue(target, displayString(v)) }
		}
	case atom.Textarea, atom.Select:
		write = func() { doc.SetValue(target, displayString(v)) }
	default:
		return &UnsupportedModelTargetError{Tag: src.Data}
	}

	if !expr.StrictEqual(memo(doc, target, Model), v) {
		write()
		doc.SetMemo(target, Model, v)
	}
	return nil
}

// displayString renders v for text and form values: null and undefined
// render as nothing.
func displayString(v any) string {
	if v == nil || expr.IsUndefined(v) {
		return ""
	}
	return expr.ToString(v)
}
