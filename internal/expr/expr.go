// Package expr evaluates directive expressions.
//
// The language is intentionally tiny: an expression is either a single unary
// operand or exactly one binary operator between two unary operands. There is
// no operator precedence and no grouping.
//
//	expression := unary | unary OP unary
//	OP         := === | !== | == | != | && | || | <= | < | >= | >
//	unary      := "!"* primary
//	primary    := true | false | null | undefined | int | 'str' | "str" | path
//	path       := ident ("." ident)*
//
// Binary forms are split with a leftmost-first match, so operand text that
// itself contains an operator (for example a quoted "a<b") is split at the
// first operator found.
package expr

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// ErrInvalidOperator is returned when a binary form carries an operator
// outside the fixed set.
var ErrInvalidOperator = errors.New("expr: invalid operator")

var (
	binaryPattern = regexp.MustCompile(`^(.+?)(===?|!==?|&&|\|\||<=?|>=?)(.+)$`)
	intPattern    = regexp.MustCompile(`^(-|\+)?\d+$`)
	stringPattern = regexp.MustCompile(`^(?:"(.*)"|'(.*)')$`)
)

// Evaluate parses expression and evaluates it against scope. A nil scope is
// treated as empty. Missing variables evaluate to Undefined and never produce
// an error.
func Evaluate(expression string, scope Scope) (any, error) {
	raw := strings.TrimSpace(expression)
	if raw == "" {
		return Undefined, nil
	}

	m := binaryPattern.FindStringSubmatch(raw)
	if m == nil {
		return evaluateUnary(raw, scope), nil
	}

	return evaluateBinary(m[2], evaluateUnary(m[1], scope), evaluateUnary(m[3], scope))
}

// MustEvaluate is like Evaluate but panics on error. Intended for tests and
// static expressions.
func MustEvaluate(expression string, scope Scope) any {
	v, err := Evaluate(expression, scope)
	if err != nil {
		panic(err)
	}
	return v
}

func evaluateUnary(expression string, scope Scope) any {
	raw := strings.TrimSpace(expression)

	negations := 0
	for negations < len(raw) && raw[negations] == '!' {
		negations++
	}

	return negate(evaluatePrimary(raw[negations:], scope), negations)
}

func evaluatePrimary(expression string, scope Scope) any {
	switch expression {
	case "true":
		return true
	case "false":
		return false
	case "null":
		return nil
	case "undefined":
		return Undefined
	}

	if intPattern.MatchString(expression) {
		// Overflowing literals keep the ±Inf ParseFloat returns.
		n, _ := strconv.ParseFloat(expression, 64)
		return n
	}

	if loc := stringPattern.FindStringSubmatchIndex(expression); loc != nil {
		if loc[2] >= 0 {
			return expression[loc[2]:loc[3]]
		}
		return expression[loc[4]:loc[5]]
	}

	return Resolve(scope, expression)
}

func negate(value any, count int) any {
	switch {
	case count == 0:
		return value
	case count%2 == 1:
		return !Truthy(value)
	default:
		return Truthy(value)
	}
}

func evaluateBinary(operator string, left, right any) (any, error) {
	switch operator {
	case "===":
		return StrictEqual(left, right), nil
	case "!==":
		return !StrictEqual(left, right), nil
	case "==":
		return LooseEqual(left, right), nil
	case "!=":
		return !LooseEqual(left, right), nil
	case "&&":
		if !Truthy(left) {
			return left, nil
		}
		return right, nil
	case "||":
		if Truthy(left) {
			return left, nil
		}
		return right, nil
	case "<=":
		c, ok := compare(left, right)
		return ok && c <= 0, nil
	case "<":
		c, ok := compare(left, right)
		return ok && c < 0, nil
	case ">=":
		c, ok := compare(left, right)
		return ok && c >= 0, nil
	case ">":
		c, ok := compare(left, right)
		return ok && c > 0, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidOperator, operator)
	}
}
