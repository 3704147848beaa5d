package livedom

import (
	"errors"

	"github.com/livefir/livedom/internal/directive"
	"github.com/livefir/livedom/internal/dom"
	"github.com/livefir/livedom/internal/expr"
	"github.com/livefir/livedom/internal/reconcile"
)

// Render errors. Typed errors match their sentinel with errors.Is.
var (
	ErrDuplicateKey           = directive.ErrDuplicateKey
	ErrUnsupportedModelTarget = directive.ErrUnsupportedModelTarget
	ErrInvalidEventHandler    = directive.ErrInvalidEventHandler
	ErrNotIterable            = directive.ErrNotIterable
	ErrInvalidOperator        = expr.ErrInvalidOperator
	ErrTreeMismatch           = reconcile.ErrTreeMismatch
)

// Document errors.
var (
	ErrNotChild       = dom.ErrNotChild
	ErrHierarchy      = dom.ErrHierarchy
	ErrAlreadyDefined = dom.ErrAlreadyDefined
	ErrInvalidName    = dom.ErrInvalidName
	ErrShadowAttached = dom.ErrShadowAttached
	ErrShadowHost     = dom.ErrShadowHost
)

// ErrInvalidMode is returned for a component mode other than open, closed or
// none.
var ErrInvalidMode = errors.New("livedom: invalid component mode")

type (
	DuplicateKeyError           = directive.DuplicateKeyError
	UnsupportedModelTargetError = directive.UnsupportedModelTargetError
	InvalidEventHandlerError    = directive.InvalidEventHandlerError
)
