package livedom

import (
	"github.com/livefir/livedom/internal/dom"
	"github.com/livefir/livedom/internal/expr"
	"github.com/livefir/livedom/internal/memory"
	"github.com/livefir/livedom/internal/metrics"
)

type (
	// Data is a render context: a flat map of names to values.
	Data = expr.Data
	// Scope resolves identifiers during expression evaluation.
	Scope = expr.Scope

	Document       = dom.Document
	DocumentOption = dom.Option
	Event          = dom.Event
	EventListener  = dom.EventListener
	Listener       = dom.Listener
	Registry       = dom.Registry
	Definition     = dom.Definition
	Observer       = dom.Observer
	ObserverFunc   = dom.ObserverFunc
	Mutation       = dom.Mutation
	MutationKind   = dom.MutationKind

	// Collector aggregates render, session and mutation counts.
	Collector = metrics.Collector
	// RenderMetrics is a snapshot of a Collector.
	RenderMetrics = metrics.RenderMetrics

	// MemoryBudget bounds the markup held by live views.
	MemoryBudget   = memory.Manager
	MemoryConfig   = memory.Config
	MemoryStatus   = memory.Status
	ViewMemoryInfo = memory.ViewMemoryInfo
)

// Undefined is the value of a missing identifier or property.
var Undefined = expr.Undefined

// Document construction and options.
var (
	NewDocument  = dom.NewDocument
	NewListener  = dom.NewListener
	NewRegistry  = dom.NewRegistry
	WithRegistry = dom.WithRegistry
	WithObserver = dom.WithObserver
	NewCollector = metrics.NewCollector
	InnerHTML    = dom.InnerHTML
	OuterHTML    = dom.OuterHTML
	TextContent  = dom.TextContent
	Attribute    = dom.Attribute

	// NewMemoryBudget builds a budget from a config, nil for the defaults.
	NewMemoryBudget = memory.NewManager
)

// Evaluate evaluates a directive expression against data.
func Evaluate(expression string, data Scope) (any, error) {
	return expr.Evaluate(expression, data)
}
