package directive

import (
	"errors"
	"fmt"
)

var (
	// ErrDuplicateKey is returned when two items of one $for render share a
	// key.
	ErrDuplicateKey = errors.New("duplicate key")

	// ErrUnsupportedModelTarget is returned when $model is placed on an element
	// that is not a form control.
	ErrUnsupportedModelTarget = errors.New("unsupported $model target")

	// ErrInvalidEventHandler is returned when an @event expression evaluates
	// to something other than an event listener.
	ErrInvalidEventHandler = errors.New("invalid event handler")

	// ErrNotIterable is returned when a $for source is neither a slice nor an
	// array.
	ErrNotIterable = errors.New("$for source is not iterable")
)

// DuplicateKeyError reports the key that occurred twice.
type DuplicateKeyError struct {
	Key       any
	Directive string
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("duplicated key value %q found in %s", fmt.Sprint(e.Key), e.Directive)
}

// Is makes errors.Is(err, ErrDuplicateKey) succeed.
func (e *DuplicateKeyError) Is(target error) bool { return target == ErrDuplicateKey }

// UnsupportedModelTargetError reports the offending tag.
type UnsupportedModelTargetError struct {
	Tag string
}

func (e *UnsupportedModelTargetError) Error() string {
	return fmt.Sprintf("%s does not support the $model directive; use one of input, select, textarea", e.Tag)
}

func (e *UnsupportedModelTargetError) Is(target error) bool { return target == ErrUnsupportedModelTarget }

// InvalidEventHandlerError reports an @event binding whose value cannot
// handle events.
type InvalidEventHandlerError struct {
	Event      string
	Expression string
	Value      any
}

func (e *InvalidEventHandlerError) Error() string {
	return fmt.Sprintf("the event handler in @%s=%q is not an event listener (got %T)", e.Event, e.Expression, e.Value)
}

func (e *InvalidEventHandlerError) Is(target error) bool { return target == ErrInvalidEventHandler }
