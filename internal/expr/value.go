package expr

import (
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
)

// UndefinedType is the type of Undefined.
type UndefinedType struct{}

func (UndefinedType) String() string { return "undefined" }

// Undefined is the value of a missing variable. It is distinct from nil,
// which plays the role of null.
var Undefined = UndefinedType{}

// IsUndefined reports whether v is Undefined.
func IsUndefined(v any) bool {
	_, ok := v.(UndefinedType)
	return ok
}

func isNullish(v any) bool {
	return v == nil || IsUndefined(v)
}

// Truthy applies boolean coercion: Undefined, nil, false, 0, NaN, "" and nil
// pointers/functions are false, everything else (including empty slices and
// maps) is true.
func Truthy(v any) bool {
	switch t := v.(type) {
	case nil, UndefinedType:
		return false
	case bool:
		return t
	case string:
		return t != ""
	}

	if n, ok := asNumber(v); ok {
		return n != 0 && !math.IsNaN(n)
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Func, reflect.Chan:
		return !rv.IsNil()
	}
	return true
}

// asNumber reports whether v holds any Go numeric kind and returns it as a
// float64.
func asNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case float32:
		return float64(n), true
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return float64(rv.Uint()), true
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	}
	return 0, false
}

// StrictEqual compares without type coercion. Numbers compare by value
// regardless of their Go kind; maps, slices, pointers and functions compare by
// identity.
func StrictEqual(a, b any) bool {
	if IsUndefined(a) || IsUndefined(b) {
		return IsUndefined(a) && IsUndefined(b)
	}
	if a == nil || b == nil {
		return a == nil && b == nil
	}

	na, aNum := asNumber(a)
	nb, bNum := asNumber(b)
	if aNum || bNum {
		return aNum && bNum && na == nb
	}

	va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
	if va.Type() != vb.Type() {
		return false
	}

	switch va.Kind() {
	case reflect.Map, reflect.Pointer, reflect.Func, reflect.Chan, reflect.UnsafePointer:
		return va.Pointer() == vb.Pointer()
	case reflect.Slice:
		return va.Pointer() == vb.Pointer() && va.Len() == vb.Len()
	}

	if va.Comparable() && vb.Comparable() {
		return va.Equal(vb)
	}
	return false
}

// LooseEqual follows abstract equality: null and undefined equal each other
// and nothing else, booleans and numeric strings are coerced to numbers.
func LooseEqual(a, b any) bool {
	if isNullish(a) || isNullish(b) {
		return isNullish(a) && isNullish(b)
	}

	if ba, ok := a.(bool); ok {
		return LooseEqual(boolNumber(ba), b)
	}
	if bb, ok := b.(bool); ok {
		return LooseEqual(a, boolNumber(bb))
	}

	na, aNum := asNumber(a)
	nb, bNum := asNumber(b)
	sa, aStr := a.(string)
	sb, bStr := b.(string)

	switch {
	case aNum && bStr:
		return na == ToNumber(sb)
	case aStr && bNum:
		return ToNumber(sa) == nb
	case aNum || bNum:
		if aNum && bNum {
			return na == nb
		}
		// object vs number: compare the object's string form numerically.
		return ToNumber(ToString(a)) == ToNumber(ToString(b))
	case aStr != bStr:
		return ToString(a) == ToString(b)
	}

	return StrictEqual(a, b)
}

func boolNumber(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

// compare orders two values the way relational operators do: two strings
// lexicographically, anything else numerically. ok is false when either side
// is NaN after coercion.
func compare(a, b any) (int, bool) {
	sa, aStr := a.(string)
	sb, bStr := b.(string)
	if aStr && bStr {
		return strings.Compare(sa, sb), true
	}

	na, nb := ToNumber(a), ToNumber(b)
	if math.IsNaN(na) || math.IsNaN(nb) {
		return 0, false
	}
	switch {
	case na < nb:
		return -1, true
	case na > nb:
		return 1, true
	default:
		return 0, true
	}
}

// ToNumber coerces v to a number. Undefined and unparsable strings become NaN,
// nil becomes 0.
func ToNumber(v any) float64 {
	switch t := v.(type) {
	case nil:
		return 0
	case UndefinedType:
		return math.NaN()
	case bool:
		return boolNumber(t)
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return 0
		}
		n, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return math.NaN()
		}
		return n
	}
	if n, ok := asNumber(v); ok {
		return n
	}
	return math.NaN()
}

// ToString renders v the way String(v) would: integral numbers print without
// a fraction, nil is "null", Undefined is "undefined" and slices join their
// elements with commas.
func ToString(v any) string {
	switch t := v.(type) {
	case nil:
		return "null"
	case UndefinedType:
		return "undefined"
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case fmt.Stringer:
		return t.String()
	}

	if n, ok := asNumber(v); ok {
		return formatNumber(n)
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		parts := make([]string, rv.Len())
		for i := range parts {
			item := rv.Index(i).Interface()
			if !isNullish(item) {
				parts[i] = ToString(item)
			}
		}
		return strings.Join(parts, ",")
	case reflect.Map, reflect.Struct:
		return "[object Object]"
	}
	return fmt.Sprint(v)
}

func formatNumber(n float64) string {
	switch {
	case math.IsNaN(n):
		return "NaN"
	case math.IsInf(n, 1):
		return "Infinity"
	case math.IsInf(n, -1):
		return "-Infinity"
	case n == 0:
		return "0"
	}

	abs := math.Abs(n)
	if abs >= 1e21 || abs < 1e-6 {
		return strconv.FormatFloat(n, 'g', -1, 64)
	}
	return strconv.FormatFloat(n, 'f', -1, 64)
}
