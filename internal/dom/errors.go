package dom

import "errors"

var (
	// ErrNotChild is returned when a reference or removed node is not a child
	// of the given parent.
	ErrNotChild = errors.New("dom: node is not a child of parent")

	// ErrHierarchy is returned when inserting a node into its own subtree.
	ErrHierarchy = errors.New("dom: node would become its own ancestor")

	// ErrAlreadyDefined is returned by Registry.Define for a taken name.
	ErrAlreadyDefined = errors.New("dom: custom element already defined")

	// ErrInvalidName is returned by Registry.Define for names that are not
	// valid custom element names.
	ErrInvalidName = errors.New("dom: invalid custom element name")

	// ErrShadowAttached is returned when a host already has a shadow root.
	ErrShadowAttached = errors.New("dom: shadow root already attached")

	// ErrShadowHost is returned when the node cannot host a shadow root.
	ErrShadowHost = errors.New("dom: node cannot host a shadow root")
)
