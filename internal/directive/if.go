package directive

import (
	"golang.org/x/net/html"

	"github.com/livefir/livedom/internal/dom"
	"github.com/livefir/livedom/internal/expr"
)

// PlanIf plans the $if directive of src. current is the live node at the
// position where the marker is, or should be, and may be nil.
func PlanIf(doc *dom.Document, src, current *html.Node, scope expr.Scope) (*Plan, error) {
	expression, _ := dom.Attribute(src, If)

	v, err := evaluate(If, expression, scope)
	if err != nil {
		return nil, err
	}
	isNewOn := expr.Truthy(v)

	hasMarker := IsMarker(doc, current, If)
	isOldOn := false
	if hasMarker {
		isOldOn, _ = memo(doc, current, If).(bool)
	}

	plan := &Plan{
		UpdateReference: func(marker *html.Node) {
			doc.SetMemo(marker, If, isNewOn)
		},
	}
	if !hasMarker {
		plan.CreateReference = func() *html.Node {
			marker := doc.CreateComment(markerText(If, expression))
			doc.SetMemo(marker, If, isNewOn)
			return marker
		}
	}

	switch {
	case isNewOn && !isOldOn:
		plan.Updates = []ItemUpdate{{Create: true, Data: scope}}
	case isNewOn && isOldOn:
		plan.Updates = []ItemUpdate{{Data: scope, OldOffset: 0}}
	case !isNewOn && isOldOn:
		plan.Updates = []ItemUpdate{{Delete: true, OldOffset: 0}}
	}

	if isOldOn {
		plan.OldCount = 1
	}
	if isNewOn {
		plan.NewCount = 1
	}
	return plan, nil
}
