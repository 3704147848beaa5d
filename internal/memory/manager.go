// Package memory bounds the markup held by live views.
package memory

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

// ErrLimitExceeded is returned when an allocation would exceed the budget
var ErrLimitExceeded = errors.New("memory: limit exceeded")

// Manager tracks an estimated size per live view against a fixed budget
type Manager struct {
	maxBytes     int64
	currentUsage int64
	viewUsage    map[string]int64 // viewID -> bytes
	thresholds   Thresholds
	mu           sync.RWMutex
}

// Config defines memory manager configuration
type Config struct {
	MaxMemoryMB          int // Maximum memory in MB
	WarningThresholdPct  int // Warning threshold percentage
	CriticalThresholdPct int // Critical threshold percentage
}

// Thresholds defines memory usage thresholds
type Thresholds struct {
	WarningBytes  int64
	CriticalBytes int64
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		MaxMemoryMB:          100,
		WarningThresholdPct:  75,
		CriticalThresholdPct: 90,
	}
}

// NewManager creates a new memory manager
func NewManager(config *Config) *Manager {
	if config == nil {
		config = DefaultConfig()
	}
	return newManager(int64(config.MaxMemoryMB)*1024*1024, config)
}

// NewManagerBytes creates a manager with a budget given in bytes and default
// thresholds.
func NewManagerBytes(maxBytes int64) *Manager {
	return newManager(maxBytes, DefaultConfig())
}

func newManager(maxBytes int64, config *Config) *Manager {
	return &Manager{
		maxBytes:  maxBytes,
		viewUsage: make(map[string]int64),
		thresholds: Thresholds{
			WarningBytes:  maxBytes * int64(config.WarningThresholdPct) / 100,
			CriticalBytes: maxBytes * int64(config.CriticalThresholdPct) / 100,
		},
	}
}

// Allocate records size bytes for a new view
func (m *Manager) Allocate(viewID string, size int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.viewUsage[viewID]; exists {
		return fmt.Errorf("view already allocated: %s", viewID)
	}
	if m.currentUsage+size > m.maxBytes {
		return fmt.Errorf("%w: %d + %d > %d", ErrLimitExceeded, m.currentUsage, size, m.maxBytes)
	}

	m.viewUsage[viewID] = size
	m.currentUsage += size
	return nil
}

// Update changes the recorded size of an allocated view. On error the old
// size is kept.
func (m *Manager) Update(viewID string, size int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	old, exists := m.viewUsage[viewID]
	if !exists {
		return fmt.Errorf("view not found: %s", viewID)
	}

	delta := size - old
	if m.currentUsage+delta > m.maxBytes {
		return fmt.Errorf("%w: %d + %d > %d", ErrLimitExceeded, m.currentUsage, delta, m.maxBytes)
	}

	m.viewUsage[viewID] = size
	m.currentUsage += delta
	return nil
}

// Release forgets a view. Releasing an unknown view is a no-op.
func (m *Manager) Release(viewID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if usage, exists := m.viewUsage[viewID]; exists {
		m.currentUsage -= usage
		delete(m.viewUsage, viewID)
	}
}

// Status contains memory usage information
type Status struct {
	CurrentUsage      int64   `json:"current_usage"`
	MaxMemory         int64   `json:"max_memory"`
	UsagePercentage   float64 `json:"usage_percentage"`
	Level             string  `json:"level"` // "OK", "WARNING", "CRITICAL"
	ActiveViews       int     `json:"active_views"`
	AverageViewMemory int64   `json:"average_view_memory"`
}

// GetMemoryStatus returns current memory usage status
func (m *Manager) GetMemoryStatus() Status {
	m.mu.RLock()
	defer m.mu.RUnlock()

	status := Status{
		CurrentUsage: m.currentUsage,
		MaxMemory:    m.maxBytes,
		ActiveViews:  len(m.viewUsage),
		Level:        "OK",
	}
	if m.maxBytes > 0 {
		status.UsagePercentage = float64(m.currentUsage) / float64(m.maxBytes) * 100
	}

	switch {
	case m.currentUsage >= m.thresholds.CriticalBytes:
		status.Level = "CRITICAL"
	case m.currentUsage >= m.thresholds.WarningBytes:
		status.Level = "WARNING"
	}

	if len(m.viewUsage) > 0 {
		status.AverageViewMemory = m.currentUsage / int64(len(m.viewUsage))
	}
	return status
}

// ViewMemoryInfo is the recorded size of one view
type ViewMemoryInfo struct {
	ViewID string `json:"view_id"`
	Usage  int64  `json:"usage"`
}

// TopViews returns up to limit views ordered by usage, largest first
func (m *Manager) TopViews(limit int) []ViewMemoryInfo {
	m.mu.RLock()
	views := make([]ViewMemoryInfo, 0, len(m.viewUsage))
	for id, usage := range m.viewUsage {
		views = append(views, ViewMemoryInfo{ViewID: id, Usage: usage})
	}
	m.mu.RUnlock()

	sort.Slice(views, func(i, j int) bool {
		if views[i].Usage != views[j].Usage {
			return views[i].Usage > views[j].Usage
		}
		return views[i].ViewID < views[j].ViewID
	})

	if limit >= 0 && limit < len(views) {
		views = views[:limit]
	}
	return views
}
