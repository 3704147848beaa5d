package expr

import (
	"reflect"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Scope resolves the first segment of a variable path.
type Scope interface {
	Lookup(name string) (any, bool)
}

// Data is the plain key/value mapping handed to a render call.
type Data map[string]any

// Lookup implements Scope.
func (d Data) Lookup(name string) (any, bool) {
	v, ok := d[name]
	return v, ok
}

type binding struct {
	parent Scope
	name   string
	value  any
}

// With returns a scope where name resolves to value and every other name is
// looked up in parent. The binding shadows a parent entry of the same name.
func With(parent Scope, name string, value any) Scope {
	return &binding{parent: parent, name: name, value: value}
}

func (b *binding) Lookup(name string) (any, bool) {
	if name == b.name {
		return b.value, true
	}
	if b.parent == nil {
		return nil, false
	}
	return b.parent.Lookup(name)
}

// Resolve walks a dotted path starting at scope. Any missing or nil
// intermediate value yields Undefined.
func Resolve(scope Scope, path string) any {
	segments := strings.Split(path, ".")

	if scope == nil {
		return Undefined
	}
	head, ok := scope.Lookup(segments[0])
	if !ok {
		return Undefined
	}

	current := head
	for _, segment := range segments[1:] {
		current = Property(current, segment)
		if IsUndefined(current) {
			return Undefined
		}
	}
	return current
}

// Property returns the named member of value: a map entry, an exported
// struct field (or json tag), a slice index or length, or a string length.
// Anything else is Undefined.
func Property(value any, name string) any {
	switch v := value.(type) {
	case nil, UndefinedType:
		return Undefined
	case Data:
		return lookupOrUndefined(v, name)
	case map[string]any:
		return lookupOrUndefined(Data(v), name)
	case Scope:
		return lookupOrUndefined(v, name)
	case string:
		if name == "length" {
			return float64(utf8.RuneCountInString(v))
		}
		return Undefined
	}

	rv := reflect.ValueOf(value)
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return Undefined
		}
		rv = rv.Elem()
	}

	switch rv.Kind() {
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return Undefined
		}
		item := rv.MapIndex(reflect.ValueOf(name).Convert(rv.Type().Key()))
		if !item.IsValid() {
			return Undefined
		}
		return item.Interface()
	case reflect.Struct:
		return structField(rv, name)
	case reflect.Slice, reflect.Array:
		if name == "length" {
			return float64(rv.Len())
		}
		i, err := strconv.Atoi(name)
		if err != nil || i < 0 || i >= rv.Len() {
			return Undefined
		}
		return rv.Index(i).Interface()
	case reflect.String:
		if name == "length" {
			return float64(utf8.RuneCountInString(rv.String()))
		}
	}
	return Undefined
}

func lookupOrUndefined(scope Scope, name string) any {
	if v, ok := scope.Lookup(name); ok {
		return v
	}
	return Undefined
}

// structField matches an exported field by name first, then by json tag.
func structField(rv reflect.Value, name string) any {
	t := rv.Type()
	if f, ok := t.FieldByName(name); ok && f.IsExported() {
		fv, err := rv.FieldByIndexErr(f.Index)
		if err != nil {
			return Undefined
		}
		return fv.Interface()
	}
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		tag := f.Tag.Get("json")
		if comma := strings.Index(tag, ","); comma >= 0 {
			tag = tag[:comma]
		}
		if tag != "" && tag != "-" && tag == name {
			return rv.Field(i).Interface()
		}
	}
	return Undefined
}
