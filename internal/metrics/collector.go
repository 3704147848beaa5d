package metrics

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/livefir/livedom/internal/dom"
)

// Collector counts renders, live sessions and the tree mutations they cause.
// It implements dom.Observer, so it can be attached to a document with
// dom.WithObserver.
type Collector struct {
	renderMetrics *RenderMetrics
	eventCounters map[string]*int64
	mu            sync.RWMutex
	startTime     time.Time
}

// RenderMetrics is a point-in-time copy of the collector's counters.
type RenderMetrics struct {
	// Renders
	Renders      int64 `json:"renders"`
	RenderErrors int64 `json:"render_errors"`

	// Sessions
	SessionsOpened        int64 `json:"sessions_opened"`
	SessionsClosed        int64 `json:"sessions_closed"`
	ActiveSessions        int64 `json:"active_sessions"`
	MaxConcurrentSessions int64 `json:"max_concurrent_sessions"`

	// Tree mutations
	NodesAdded       int64 `json:"nodes_added"`
	NodesRemoved     int64 `json:"nodes_removed"`
	NodesMoved       int64 `json:"nodes_moved"`
	AttributeWrites  int64 `json:"attribute_writes"`
	TextWrites       int64 `json:"text_writes"`
	PropertyWrites   int64 `json:"property_writes"`
	ListenersAdded   int64 `json:"listeners_added"`
	ListenersRemoved int64 `json:"listeners_removed"`

	// Uptime
	StartTime time.Time     `json:"start_time"`
	Uptime    time.Duration `json:"uptime"`
}

// NewCollector creates a new metrics collector
func NewCollector() *Collector {
	now := time.Now()
	return &Collector{
		renderMetrics: &RenderMetrics{StartTime: now},
		eventCounters: make(map[string]*int64),
		startTime:     now,
	}
}

// Observe records one tree mutation.
func (c *Collector) Observe(m dom.Mutation) {
	rm := c.renderMetrics
	switch m.Kind {
	case dom.NodeAdded:
		atomic.AddInt64(&rm.NodesAdded, 1)
	case dom.NodeRemoved:
		atomic.AddInt64(&rm.NodesRemoved, 1)
	case dom.NodeMoved:
		atomic.AddInt64(&rm.NodesMoved, 1)
	case dom.AttributeChanged, dom.AttributeRemoved:
		atomic.AddInt64(&rm.AttributeWrites, 1)
	case dom.CharacterDataChanged:
		atomic.AddInt64(&rm.TextWrites, 1)
	case dom.PropertyChanged:
		atomic.AddInt64(&rm.PropertyWrites, 1)
	case dom.ListenerAdded:
		atomic.AddInt64(&rm.ListenersAdded, 1)
	case dom.ListenerRemoved:
		atomic.AddInt64(&rm.ListenersRemoved, 1)
	}
}

// IncrementRender records a completed render
func (c *Collector) IncrementRender() {
	atomic.AddInt64(&c.renderMetrics.Renders, 1)
}

// IncrementRenderError records a render that returned an error
func (c *Collector) IncrementRenderError() {
	atomic.AddInt64(&c.renderMetrics.RenderErrors, 1)
}

// IncrementSessionOpened records a new live session
func (c *Collector) IncrementSessionOpened() {
	atomic.AddInt64(&c.renderMetrics.SessionsOpened, 1)
	active := atomic.AddInt64(&c.renderMetrics.ActiveSessions, 1)

	for {
		max := atomic.LoadInt64(&c.renderMetrics.MaxConcurrentSessions)
		if active <= max {
			break
		}
		if atomic.CompareAndSwapInt64(&c.renderMetrics.MaxConcurrentSessions, max, active) {
			break
		}
	}
}

// IncrementSessionClosed records the end of a live session
func (c *Collector) IncrementSessionClosed() {
	atomic.AddInt64(&c.renderMetrics.SessionsClosed, 1)
	atomic.AddInt64(&c.renderMetrics.ActiveSessions, -1)
}

// IncrementEvent increments the counter for a dispatched event type
func (c *Collector) IncrementEvent(typ string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if counter, exists := c.eventCounters[typ]; exists {
		atomic.AddInt64(counter, 1)
	} else {
		var n int64 = 1
		c.eventCounters[typ] = &n
	}
}

// GetMetrics returns current render metrics
func (c *Collector) GetMetrics() RenderMetrics {
	rm := c.renderMetrics
	return RenderMetrics{
		Renders:               atomic.LoadInt64(&rm.Renders),
		RenderErrors:          atomic.LoadInt64(&rm.RenderErrors),
		SessionsOpened:        atomic.LoadInt64(&rm.SessionsOpened),
		SessionsClosed:        atomic.LoadInt64(&rm.SessionsClosed),
		ActiveSessions:        atomic.LoadInt64(&rm.ActiveSessions),
		MaxConcurrentSessions: atomic.LoadInt64(&rm.MaxConcurrentSessions),
		NodesAdded:            atomic.LoadInt64(&rm.NodesAdded),
		NodesRemoved:          atomic.LoadInt64(&rm.NodesRemoved),
		NodesMoved:            atomic.LoadInt64(&rm.NodesMoved),
		AttributeWrites:       atomic.LoadInt64(&rm.AttributeWrites),
		TextWrites:            atomic.LoadInt64(&rm.TextWrites),
		PropertyWrites:        atomic.LoadInt64(&rm.PropertyWrites),
		ListenersAdded:        atomic.LoadInt64(&rm.ListenersAdded),
		ListenersRemoved:      atomic.LoadInt64(&rm.ListenersRemoved),
		StartTime:             rm.StartTime,
		Uptime:                time.Since(c.startTime),
	}
}

// GetEventCounters returns the dispatched event counts by type
func (c *Collector) GetEventCounters() map[string]int64 {
	c.mu.RLock()
	defer c.mu.RUnlock()

	result := make(map[string]int64, len(c.eventCounters))
	for typ, counter := range c.eventCounters {
		result[typ] = atomic.LoadInt64(counter)
	}
	return result
}

// GetErrorRate returns the percentage of renders that failed
func (c *Collector) GetErrorRate() float64 {
	renders := atomic.LoadInt64(&c.renderMetrics.Renders)
	errors := atomic.LoadInt64(&c.renderMetrics.RenderErrors)

	if renders+errors == 0 {
		return 0.0
	}
	return float64(errors) / float64(renders+errors) * 100.0
}

// GetMutationsPerRender returns the average number of tree mutations caused
// by one successful render.
func (c *Collector) GetMutationsPerRender() float64 {
	m := c.GetMetrics()
	if m.Renders == 0 {
		return 0.0
	}
	total := m.NodesAdded + m.NodesRemoved + m.NodesMoved +
		m.AttributeWrites + m.TextWrites + m.PropertyWrites +
		m.ListenersAdded + m.ListenersRemoved
	return float64(total) / float64(m.Renders)
}
