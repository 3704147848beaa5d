package dom

import (
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// control holds the dirty form-control properties of a node. A property that
// was never written falls back to the node's markup.
type control struct {
	value      string
	valueSet   bool
	checked    bool
	checkedSet bool
}

func (d *Document) control(n *html.Node) *control {
	c, ok := d.controls[n]
	if !ok {
		c = &control{}
		d.controls[n] = c
	}
	return c
}

// Value returns the value property of n.
//
// Until SetValue is called it derives from markup: the value attribute ("on"
// for checkboxes and radios without one), the text of a textarea, or the
// selected option of a select.
func (d *Document) Value(n *html.Node) string {
	if c, ok := d.controls[n]; ok && c.valueSet {
		return c.value
	}
	return defaultValue(n)
}

// SetValue writes the value property of n.
func (d *Document) SetValue(n *html.Node, value string) {
	c := d.control(n)
	c.value, c.valueSet = value, true
	d.notify(Mutation{Kind: PropertyChanged, Target: n, Name: "value", Value: value})
}

// Checked returns the checked property of n, which defaults to the presence
// of the checked attribute.
func (d *Document) Checked(n *html.Node) bool {
	if c, ok := d.controls[n]; ok && c.checkedSet {
		return c.checked
	}
	_, ok := Attribute(n, "checked")
	return ok
}

// SetChecked writes the checked property of n.
func (d *Document) SetChecked(n *html.Node, checked bool) {
	c := d.control(n)
	c.checked, c.checkedSet = checked, true
	d.notify(Mutation{Kind: PropertyChanged, Target: n, Name: "checked", Value: strconv.FormatBool(checked)})
}

func defaultValue(n *html.Node) string {
	switch n.DataAtom {
	case atom.Textarea:
		return TextContent(n)
	case atom.Select:
		return selectedOptionValue(n)
	case atom.Input:
		if v, ok := Attribute(n, "value"); ok {
			return v
		}
		switch t, _ := Attribute(n, "type"); strings.ToLower(t) {
		case "checkbox", "radio":
			return "on"
		}
		return ""
	}
	v, _ := Attribute(n, "value")
	return v
}

func selectedOptionValue(sel *html.Node) string {
	var first, selected *html.Node
	var visit func(*html.Node)
	visit = func(n *html.Node) {
		for c := n.FirstChild; c != nil && selected == nil; c = c.NextSibling {
			if c.Type != html.ElementNode {
				continue
			}
			if c.DataAtom == atom.Option {
				if first == nil {
					first = c
				}
				if _, ok := Attribute(c, "selected"); ok {
					selected = c
				}
				continue
			}
			visit(c)
		}
	}
	visit(sel)

	if selected == nil {
		selected = first
	}
	if selected == nil {
		return ""
	}
	return optionValue(selected)
}

func optionValue(opt *html.Node) string {
	if v, ok := Attribute(opt, "value"); ok {
		return v
	}
	return strings.TrimSpace(TextContent(opt))
}
