package expr

import (
	"errors"
	"math"
	"testing"
)

type profile struct {
	Name     string
	Nickname string `json:"nick,omitempty"`
	hidden   string
}

func TestEvaluate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		expression string
		data       Data
		want       any
	}{
		{name: "blank", expression: "", want: Undefined},
		{name: "whitespace only", expression: "   ", want: Undefined},
		{name: "missing variable", expression: "myVar", want: Undefined},
		{name: "string variable", expression: "myVar", data: Data{"myVar": "hello"}, want: "hello"},
		{name: "number variable", expression: "myVar", data: Data{"myVar": 42}, want: 42},
		{name: "boolean variable", expression: "myVar", data: Data{"myVar": true}, want: true},
		{name: "negation", expression: "!myVar", data: Data{"myVar": false}, want: true},
		{name: "negation of missing", expression: "!missing", want: true},
		{name: "double negation coerces", expression: "!!myVar", data: Data{"myVar": "x"}, want: true},
		{name: "triple negation", expression: "!!!myVar", data: Data{"myVar": "x"}, want: false},
		{name: "chaining", expression: "container.child", data: Data{"container": map[string]any{"child": "test"}}, want: "test"},
		{name: "chaining negation", expression: "!container.child", data: Data{"container": map[string]any{"child": false}}, want: true},
		{name: "missing path", expression: "missing.path", want: Undefined},
		{name: "missing intermediate", expression: "a.b.c", data: Data{"a": map[string]any{}}, want: Undefined},
		{name: "nil intermediate", expression: "a.b", data: Data{"a": nil}, want: Undefined},
		{name: "literal true", expression: "true", want: true},
		{name: "literal false", expression: "false", want: false},
		{name: "literal null", expression: "null", want: nil},
		{name: "literal undefined", expression: "undefined", want: Undefined},
		{name: "integer", expression: "42", want: float64(42)},
		{name: "negative integer", expression: "-1", want: float64(-1)},
		{name: "signed integer", expression: "+7", want: float64(7)},
		{name: "double quoted", expression: `"hello world"`, want: "hello world"},
		{name: "single quoted", expression: `'hello'`, want: "hello"},
		{name: "empty string literal", expression: `""`, want: ""},
		{name: "no escape processing", expression: `'a\nb'`, want: `a\nb`},
		{name: "strict equal", expression: "true === true", want: true},
		{name: "strict not equal", expression: "1 !== 2", want: true},
		{name: "strict int and literal", expression: "count === 3", data: Data{"count": 3}, want: true},
		{name: "strict string and number", expression: "count === '3'", data: Data{"count": 3}, want: false},
		{name: "loose string and number", expression: "count == '3'", data: Data{"count": 3}, want: true},
		{name: "loose null undefined", expression: "null == undefined", want: true},
		{name: "strict null undefined", expression: "null === undefined", want: false},
		{name: "loose not equal", expression: "missing != null", want: false},
		{name: "greater than", expression: "1 > 0", want: true},
		{name: "greater than equal values", expression: "1 > 1", want: false},
		{name: "greater or equal", expression: "1 >= 1", want: true},
		{name: "less than", expression: "0 < 1", want: true},
		{name: "less or equal negative", expression: "myVar <= -1", data: Data{"myVar": -1}, want: true},
		{name: "string ordering", expression: "'a' < 'b'", want: true},
		{name: "undefined ordering", expression: "missing < 1", want: false},
		{name: "and returns right operand", expression: "a && b", data: Data{"a": true, "b": "yes"}, want: "yes"},
		{name: "and short circuits", expression: "a && b", data: Data{"a": 0, "b": "yes"}, want: 0},
		{name: "or returns left operand", expression: "a || b", data: Data{"a": "first", "b": "second"}, want: "first"},
		{name: "or falls through", expression: "a || b", data: Data{"a": "", "b": "second"}, want: "second"},
		{name: "negated operand", expression: "!a === true", data: Data{"a": false}, want: true},
		{name: "slice length", expression: "items.length > 0", data: Data{"items": []string{"x"}}, want: true},
		{name: "slice index", expression: "items.1", data: Data{"items": []string{"x", "y"}}, want: "y"},
		{name: "struct field", expression: "user.Name", data: Data{"user": profile{Name: "ada"}}, want: "ada"},
		{name: "struct json tag", expression: "user.nick", data: Data{"user": &profile{Nickname: "al"}}, want: "al"},
		{name: "unexported field", expression: "user.hidden", data: Data{"user": profile{hidden: "x"}}, want: Undefined},
		{name: "nil pointer", expression: "user.Name", data: Data{"user": (*profile)(nil)}, want: Undefined},
		{name: "string length", expression: "name.length", data: Data{"name": "héllo"}, want: float64(5)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := Evaluate(tt.expression, tt.data)
			if err != nil {
				t.Fatalf("Evaluate(%q) error = %v", tt.expression, err)
			}
			if !StrictEqual(got, tt.want) {
				t.Errorf("Evaluate(%q) = %#v, want %#v", tt.expression, got, tt.want)
			}
		})
	}
}

func TestEvaluateNilScope(t *testing.T) {
	t.Parallel()

	got, err := Evaluate("a.b", nil)
	if err != nil {
		t.Fatalf("Evaluate returned error: %v", err)
	}
	if !IsUndefined(got) {
		t.Fatalf("got %#v, want undefined", got)
	}
}

func TestEvaluateOperandContainingOperator(t *testing.T) {
	t.Parallel()

	// The first operator wins, even inside quotes.
	got := MustEvaluate(`'a<b' === label`, Data{"label": "a<b"})
	if got != false {
		t.Errorf("got %#v, want false from the leftmost split", got)
	}

	got = MustEvaluate(`label === 'a<b'`, Data{"label": "a<b"})
	if got != true {
		t.Errorf("got %#v, want true", got)
	}
}

func TestWithShadowsParent(t *testing.T) {
	t.Parallel()

	parent := Data{"item": "parent", "title": "list"}
	scope := With(parent, "item", "child")

	if got := MustEvaluate("item", scope); got != "child" {
		t.Errorf("item = %#v, want child", got)
	}
	if got := MustEvaluate("title", scope); got != "list" {
		t.Errorf("title = %#v, want list", got)
	}
	if got := MustEvaluate("other", With(nil, "item", 1)); !IsUndefined(got) {
		t.Errorf("other = %#v, want undefined", got)
	}
}

func TestEvaluateBinaryInvalidOperator(t *testing.T) {
	t.Parallel()

	_, err := evaluateBinary("<>", 1, 2)
	if !errors.Is(err, ErrInvalidOperator) {
		t.Fatalf("error = %v, want ErrInvalidOperator", err)
	}
}

func TestToString(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   any
		want string
	}{
		{in: nil, want: "null"},
		{in: Undefined, want: "undefined"},
		{in: float64(3), want: "3"},
		{in: 2.5, want: "2.5"},
		{in: -0.0, want: "0"},
		{in: math.NaN(), want: "NaN"},
		{in: 12, want: "12"},
		{in: uint8(7), want: "7"},
		{in: true, want: "true"},
		{in: []any{1, "a", nil}, want: "1,a,"},
		{in: map[string]any{}, want: "[object Object]"},
	}

	for _, tt := range tests {
		if got := ToString(tt.in); got != tt.want {
			t.Errorf("ToString(%#v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestTruthy(t *testing.T) {
	t.Parallel()

	var nilPtr *profile
	tests := []struct {
		in   any
		want bool
	}{
		{in: nil, want: false},
		{in: Undefined, want: false},
		{in: 0, want: false},
		{in: math.NaN(), want: false},
		{in: "", want: false},
		{in: nilPtr, want: false},
		{in: 1, want: true},
		{in: "0", want: true},
		{in: []int{}, want: true},
		{in: map[string]any{}, want: true},
		{in: &profile{}, want: true},
	}

	for _, tt := range tests {
		if got := Truthy(tt.in); got != tt.want {
			t.Errorf("Truthy(%#v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestStrictEqualIdentity(t *testing.T) {
	t.Parallel()

	m := map[string]any{"id": 1}
	other := map[string]any{"id": 1}
	s := []int{1, 2}

	if !StrictEqual(m, m) {
		t.Error("same map should be strictly equal")
	}
	if StrictEqual(m, other) {
		t.Error("distinct maps should not be strictly equal")
	}
	if !StrictEqual(s, s) {
		t.Error("same slice should be strictly equal")
	}
	if StrictEqual(s, s[:1]) {
		t.Error("resliced slice should not be strictly equal")
	}
	if !StrictEqual(int64(5), 5.0) {
		t.Error("numbers of different kinds should compare by value")
	}
	if StrictEqual(math.NaN(), math.NaN()) {
		t.Error("NaN should not equal itself")
	}
}

func FuzzEvaluate(f *testing.F) {
	f.Add("myVar")
	f.Add("!missing")
	f.Add("a.b.c === 'x'")
	f.Add("items.length > 0")
	f.Add("1 <= -1")
	f.Add(`"unterminated`)
	f.Add("!!!")
	f.Add("=== ===")

	data := Data{
		"myVar": "hello",
		"items": []any{1, "two", nil},
		"a":     map[string]any{"b": map[string]any{"c": "x"}},
	}

	f.Fuzz(func(t *testing.T, expression string) {
		if _, err := Evaluate(expression, data); err != nil {
			t.Errorf("Evaluate(%q) error = %v", expression, err)
		}
	})
}
