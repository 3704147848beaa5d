// Package session keeps the accumulated render data of HTTP clients that talk
// to a mount handler without a websocket.
package session

import (
	"crypto/rand"
	"encoding/hex"
	"maps"
	"sort"
	"sync"
	"time"

	"github.com/livefir/livedom/internal/expr"
)

// Session holds one client's render data
type Session struct {
	ID         string
	CreatedAt  time.Time
	LastAccess time.Time

	mu   sync.Mutex
	data expr.Data
}

// Data returns a copy of the session data
func (s *Session) Data() expr.Data {
	s.mu.Lock()
	defer s.mu.Unlock()
	return maps.Clone(s.data)
}

// Patch merges patch into the session data and returns the merged copy
func (s *Session) Patch(patch expr.Data) expr.Data {
	s.mu.Lock()
	defer s.mu.Unlock()
	maps.Copy(s.data, patch)
	return maps.Clone(s.data)
}

// Manager handles session lifecycle
type Manager struct {
	sessions    map[string]*Session
	mu          sync.RWMutex
	ttl         time.Duration
	maxSessions int
	lastSweep   time.Time
}

// Option configures a Manager
type Option func(*Manager)

// WithMaxSessions caps the number of stored sessions. When the cap is
// reached, creating a session evicts the least recently accessed one.
func WithMaxSessions(n int) Option {
	return func(m *Manager) {
		m.maxSessions = n
	}
}

// NewManager creates a new session manager
func NewManager(ttl time.Duration, opts ...Option) *Manager {
	if ttl == 0 {
		ttl = 24 * time.Hour // Default 24 hours
	}

	m := &Manager{
		sessions:  make(map[string]*Session),
		ttl:       ttl,
		lastSweep: time.Now(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// CreateSession creates a new session seeded with a copy of initial. Expired
// sessions are swept at most once per tenth of the TTL.
func (m *Manager) CreateSession(initial expr.Data) (*Session, error) {
	sessionID, err := generateSessionID()
	if err != nil {
		return nil, err
	}

	data := maps.Clone(initial)
	if data == nil {
		data = expr.Data{}
	}
	now := time.Now()
	session := &Session{
		ID:         sessionID,
		CreatedAt:  now,
		LastAccess: now,
		data:       data,
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if now.Sub(m.lastSweep) >= m.ttl/10 {
		m.removeExpired(now)
		m.lastSweep = now
	}
	if m.maxSessions > 0 && len(m.sessions) >= m.maxSessions {
		m.evictOldest(len(m.sessions) - m.maxSessions + 1)
	}
	m.sessions[sessionID] = session

	return session, nil
}

// evictOldest removes the n least recently accessed sessions
func (m *Manager) evictOldest(n int) {
	ids := make([]string, 0, len(m.sessions))
	for id := range m.sessions {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		return m.sessions[ids[i]].LastAccess.Before(m.sessions[ids[j]].LastAccess)
	})
	for _, id := range ids[:n] {
		delete(m.sessions, id)
	}
}

// GetSession retrieves a session by ID
func (m *Manager) GetSession(sessionID string) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	session, exists := m.sessions[sessionID]
	if !exists {
		return nil, false
	}

	if time.Since(session.LastAccess) > m.ttl {
		delete(m.sessions, sessionID)
		return nil, false
	}

	session.LastAccess = time.Now()
	return session, true
}

// DeleteSession removes a session
func (m *Manager) DeleteSession(sessionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, sessionID)
}

// CleanupExpiredSessions removes expired sessions
func (m *Manager) CleanupExpiredSessions() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.removeExpired(time.Now())
}

func (m *Manager) removeExpired(now time.Time) int {
	count := 0
	cutoff := now.Add(-m.ttl)

	for sessionID, session := range m.sessions {
		if session.LastAccess.Before(cutoff) {
			delete(m.sessions, sessionID)
			count++
		}
	}

	return count
}

// Len returns the number of stored sessions
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// generateSessionID creates a cryptographically secure session ID
func generateSessionID() (string, error) {
	bytes := make([]byte, 32) // 256-bit session ID
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}
