package directive

import (
	"fmt"
	"math"
	"reflect"
	"strings"

	"golang.org/x/net/html"

	"github.com/livefir/livedom/internal/dom"
	"github.com/livefir/livedom/internal/expr"
)

// ForExpression is a parsed $for value: "item in list" or
// "item:keyExpr in list".
type ForExpression struct {
	Item  string
	Key   string
	Array string
}

// ParseFor splits a $for value. A missing " in " yields an empty Array,
// which evaluates to an empty list.
func ParseFor(value string) ForExpression {
	head, array, _ := strings.Cut(strings.TrimSpace(value), " in ")
	item, key, _ := strings.Cut(head, ":")
	return ForExpression{
		Item:  strings.TrimSpace(item),
		Key:   strings.TrimSpace(key),
		Array: strings.TrimSpace(array),
	}
}

// PlanFor plans the $for directive of src. current is the live node at the
// position where the marker is, or should be, and may be nil.
//
// No mutation happens in PlanFor; a duplicate key is reported before the
// caller touches the tree.
func PlanFor(doc *dom.Document, src, current *html.Node, scope expr.Scope) (*Plan, error) {
	source, _ := dom.Attribute(src, For)
	fe := ParseFor(source)

	keyExpr := fe.Key
	keyAttr, hasKeyAttr := dom.Attribute(src, Key)
	if keyExpr == "" && hasKeyAttr {
		keyExpr = strings.TrimSpace(keyAttr)
	}

	v, err := evaluate(For, fe.Array, scope)
	if err != nil {
		return nil, err
	}
	items, err := toItems(v)
	if err != nil {
		return nil, fmt.Errorf("%w: %s=%q evaluated to %T", err, For, source, v)
	}

	hasMarker := IsMarker(doc, current, For)
	var previous []any
	if hasMarker {
		previous, _ = memo(doc, current, For).([]any)
	}

	keyOf := func(item any, index int) (any, error) {
		switch keyExpr {
		case "":
			return index, nil
		case SelfKey:
			return normalizeKey(item), nil
		}
		k, err := evaluate(Key, keyExpr, itemScope{name: fe.Item, item: item})
		if err != nil {
			return nil, err
		}
		return normalizeKey(k), nil
	}

	oldOffsets := make(map[any]int, len(previous))
	for i, item := range previous {
		k, err := keyOf(item, i)
		if err != nil {
			return nil, err
		}
		oldOffsets[k] = i
	}

	plan := &Plan{
		Updates:  make([]ItemUpdate, 0, len(items)),
		OldCount: len(previous),
		NewCount: len(items),
		UpdateReference: func(marker *html.Node) {
			doc.SetMemo(marker, For, items)
		},
	}
	if !hasMarker {
		text := markerText(For, source)
		if hasKeyAttr {
			text += " " + markerText(Key, keyAttr)
		}
		plan.CreateReference = func() *html.Node {
			marker := doc.CreateComment(text)
			doc.SetMemo(marker, For, items)
			return marker
		}
	}

	seen := make(map[any]struct{}, len(items))
	for i, item := range items {
		k, err := keyOf(item, i)
		if err != nil {
			return nil, err
		}
		if _, dup := seen[k]; dup {
			return nil, &DuplicateKeyError{
				Key:       displayKey(item, k),
				Directive: fmt.Sprintf("%s=\"%s:%s in %s\"", For, fe.Item, keyExpr, fe.Array),
			}
		}
		seen[k] = struct{}{}

		update := ItemUpdate{Data: expr.With(scope, fe.Item, item)}
		if offset, ok := oldOffsets[k]; ok {
			update.OldOffset = offset
			delete(oldOffsets, k)
		} else {
			update.Create = true
		}
		plan.Updates = append(plan.Updates, update)
	}

	// Deletions in old order.
	for i, item := range previous {
		k, _ := keyOf(item, i)
		if offset, ok := oldOffsets[k]; ok && offset == i {
			plan.Updates = append(plan.Updates, ItemUpdate{Delete: true, OldOffset: offset})
		}
	}

	return plan, nil
}

// itemScope is the scope of a key expression. The item variable resolves to
// the item; any other name resolves to a field of the item, so "item:id" and
// $key="item.id" select the same key.
type itemScope struct {
	name string
	item any
}

func (s itemScope) Lookup(name string) (any, bool) {
	if name == s.name {
		return s.item, true
	}
	v := expr.Property(s.item, name)
	return v, !expr.IsUndefined(v)
}

// toItems copies any slice or array into a fresh []any. Undefined and nil
// produce an empty list.
func toItems(v any) ([]any, error) {
	switch t := v.(type) {
	case nil, expr.UndefinedType:
		return []any{}, nil
	case []any:
		return append([]any{}, t...), nil
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		items := make([]any, rv.Len())
		for i := range items {
			items[i] = rv.Index(i).Interface()
		}
		return items, nil
	case reflect.Pointer:
		if rv.IsNil() {
			return []any{}, nil
		}
		if rv.Elem().Kind() == reflect.Array {
			return toItems(rv.Elem().Interface())
		}
	}
	return nil, ErrNotIterable
}

type nanKey struct{}

type identityKey struct {
	typ reflect.Type
	ptr uintptr
	len int
}

type printedKey struct {
	typ reflect.Type
	s   string
}

// normalizeKey turns an evaluated key into a usable map key. All numeric
// kinds collapse to float64, maps/slices/functions key by identity, and
// other non-comparable values key by their printed form.
func normalizeKey(k any) any {
	if k == nil {
		return nil
	}

	rv := reflect.ValueOf(k)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return float64(rv.Uint())
	case reflect.Float32, reflect.Float64:
		f := rv.Float()
		if math.IsNaN(f) {
			return nanKey{}
		}
		return f
	case reflect.Map, reflect.Func, reflect.Chan:
		return identityKey{typ: rv.Type(), ptr: rv.Pointer()}
	case reflect.Slice:
		return identityKey{typ: rv.Type(), ptr: rv.Pointer(), len: rv.Len()}
	}

	if rv.Comparable() {
		return k
	}
	return printedKey{typ: rv.Type(), s: fmt.Sprintf("%#v", k)}
}

// displayKey picks a readable value for error messages.
func displayKey(item, k any) any {
	switch k.(type) {
	case identityKey, printedKey:
		return expr.ToString(item)
	case nanKey:
		return "NaN"
	}
	return expr.ToString(k)
}
