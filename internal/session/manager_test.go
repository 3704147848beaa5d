package session

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/livefir/livedom/internal/expr"
)

func TestNewManager(t *testing.T) {
	tests := []struct {
		name string
		ttl  time.Duration
		want time.Duration
	}{
		{
			name: "with custom TTL",
			ttl:  12 * time.Hour,
			want: 12 * time.Hour,
		},
		{
			name: "with zero TTL uses default",
			ttl:  0,
			want: 24 * time.Hour,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewManager(tt.ttl)
			if m == nil {
				t.Fatal("expected manager, got nil")
			}
			if m.ttl != tt.want {
				t.Errorf("ttl = %v, want %v", m.ttl, tt.want)
			}
			if m.sessions == nil {
				t.Error("sessions map not initialized")
			}
		})
	}
}

func TestCreateSession(t *testing.T) {
	m := NewManager(1 * time.Hour)

	initial := expr.Data{"count": 1}
	sess, err := m.CreateSession(initial)
	if err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}

	if sess.ID == "" {
		t.Error("expected session ID, got empty string")
	}
	if diff := cmp.Diff(expr.Data{"count": 1}, sess.Data()); diff != "" {
		t.Errorf("Data() mismatch (-want +got):\n%s", diff)
	}
	initial["count"] = 2
	if sess.Data()["count"] != 1 {
		t.Error("session shares the initial map")
	}
	if sess.CreatedAt.IsZero() {
		t.Error("CreatedAt not set")
	}
	if sess.LastAccess.IsZero() {
		t.Error("LastAccess not set")
	}

	// Verify session is stored
	stored, exists := m.sessions[sess.ID]
	if !exists {
		t.Error("session not stored in manager")
	}
	if stored != sess {
		t.Error("stored session doesn't match returned session")
	}
}

func TestGetSession(t *testing.T) {
	m := NewManager(1 * time.Hour)

	// Create a session
	sess, err := m.CreateSession(nil)
	if err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}

	// Test getting existing session
	retrieved, exists := m.GetSession(sess.ID)
	if !exists {
		t.Error("expected session to exist")
	}
	if retrieved.ID != sess.ID {
		t.Errorf("retrieved ID = %s, want %s", retrieved.ID, sess.ID)
	}
	if retrieved != sess {
		t.Error("retrieved a different session")
	}

	// Test getting non-existent session
	_, exists = m.GetSession("nonexistent")
	if exists {
		t.Error("expected no session for non-existent ID")
	}
}

func TestSessionExpiration(t *testing.T) {
	// Use very short TTL for testing
	m := NewManager(50 * time.Millisecond)

	sess, err := m.CreateSession(nil)
	if err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}

	// Session should exist immediately
	_, exists := m.GetSession(sess.ID)
	if !exists {
		t.Error("session should exist immediately after creation")
	}

	// Wait for expiration
	time.Sleep(100 * time.Millisecond)

	// Session should be expired and removed
	_, exists = m.GetSession(sess.ID)
	if exists {
		t.Error("session should be expired and removed")
	}

	// Verify it's actually removed from the map
	m.mu.RLock()
	_, stillInMap := m.sessions[sess.ID]
	m.mu.RUnlock()
	if stillInMap {
		t.Error("expired session still in map")
	}
}

func TestSessionLastAccessUpdate(t *testing.T) {
	m := NewManager(1 * time.Hour)

	sess, err := m.CreateSession(nil)
	if err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}

	originalAccess := sess.LastAccess

	// Wait a bit to ensure time difference
	time.Sleep(10 * time.Millisecond)

	// Get session should update LastAccess
	retrieved, exists := m.GetSession(sess.ID)
	if !exists {
		t.Fatal("session should exist")
	}

	if !retrieved.LastAccess.After(originalAccess) {
		t.Error("LastAccess should be updated after GetSession")
	}
}

func TestDeleteSession(t *testing.T) {
	m := NewManager(1 * time.Hour)

	sess, err := m.CreateSession(nil)
	if err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}

	// Verify session exists
	_, exists := m.GetSession(sess.ID)
	if !exists {
		t.Error("session should exist before deletion")
	}

	// Delete the session
	m.DeleteSession(sess.ID)

	// Verify session is deleted
	_, exists = m.GetSession(sess.ID)
	if exists {
		t.Error("session should not exist after deletion")
	}
}

func TestCleanupExpiredSessions(t *testing.T) {
	m := NewManager(100 * time.Millisecond) // Longer TTL to avoid race conditions

	// Create multiple sessions
	sess1, _ := m.CreateSession(nil)
	sess2, _ := m.CreateSession(nil)
	sess3, _ := m.CreateSession(nil)

	// Access sess1 to keep it fresh
	m.GetSession(sess1.ID)

	// Wait for some time, but not enough to expire sess1
	time.Sleep(60 * time.Millisecond)

	// Access sess1 again to update its LastAccess - keeps it fresh
	m.GetSession(sess1.ID)

	// Wait for sess2 and sess3 to expire (they weren't accessed)
	time.Sleep(60 * time.Millisecond) // Now sess2 and sess3 are over 120ms old, sess1 is ~60ms

	// Run cleanup
	count := m.CleanupExpiredSessions()

	// Should have cleaned up 2 sessions (sess2 and sess3)
	if count != 2 {
		t.Errorf("CleanupExpiredSessions returned %d, want 2", count)
	}

	// sess1 should still exist
	_, exists := m.GetSession(sess1.ID)
	if !exists {
		t.Error("sess1 should still exist after cleanup")
	}

	// sess2 and sess3 should not exist
	_, exists = m.GetSession(sess2.ID)
	if exists {
		t.Error("sess2 should not exist after cleanup")
	}

	_, exists = m.GetSession(sess3.ID)
	if exists {
		t.Error("sess3 should not exist after cleanup")
	}
}

func TestConcurrentAccess(t *testing.T) {
	m := NewManager(1 * time.Hour)

	// Create initial session
	sess, err := m.CreateSession(nil)
	if err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}

	done := make(chan bool)

	// Concurrent reads
	for i := 0; i < 10; i++ {
		go func() {
			for j := 0; j < 100; j++ {
				_, _ = m.GetSession(sess.ID)
			}
			done <- true
		}()
	}

	// Concurrent writes
	for i := 0; i < 5; i++ {
		go func(id int) {
			for j := 0; j < 100; j++ {
				_, _ = m.CreateSession(nil)
			}
			done <- true
		}(i)
	}

	// Wait for all goroutines
	for i := 0; i < 15; i++ {
		<-done
	}

	// Should not panic or deadlock
	_, exists := m.GetSession(sess.ID)
	if !exists {
		t.Error("original session should still exist")
	}
}

func TestGenerateSessionID(t *testing.T) {
	ids := make(map[string]bool)

	// Generate multiple IDs and check for uniqueness
	for i := 0; i < 100; i++ {
		id, err := generateSessionID()
		if err != nil {
			t.Fatalf("generateSessionID failed: %v", err)
		}

		if id == "" {
			t.Error("generated empty session ID")
		}

		// Check length (32 bytes = 64 hex characters)
		if len(id) != 64 {
			t.Errorf("session ID length = %d, want 64", len(id))
		}

		// Check uniqueness
		if ids[id] {
			t.Errorf("duplicate session ID generated: %s", id)
		}
		ids[id] = true
	}
}

func TestSessionPatch(t *testing.T) {
	m := NewManager(1 * time.Hour)

	sess, err := m.CreateSession(nil)
	if err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}
	if got := sess.Data(); got == nil || len(got) != 0 {
		t.Errorf("Data() = %v, want empty", got)
	}

	tests := []struct {
		patch expr.Data
		want  expr.Data
	}{
		{patch: expr.Data{"a": 1}, want: expr.Data{"a": 1}},
		{patch: expr.Data{"b": "x"}, want: expr.Data{"a": 1, "b": "x"}},
		{patch: expr.Data{"a": 2}, want: expr.Data{"a": 2, "b": "x"}},
		{patch: nil, want: expr.Data{"a": 2, "b": "x"}},
	}

	for i, tt := range tests {
		got := sess.Patch(tt.patch)
		if diff := cmp.Diff(tt.want, got); diff != "" {
			t.Errorf("step %d: Patch() mismatch (-want +got):\n%s", i, diff)
		}
	}

	got := sess.Data()
	got["a"] = 100
	if sess.Data()["a"] != 2 {
		t.Error("Data() returned the live map")
	}
}

func TestLen(t *testing.T) {
	m := NewManager(1 * time.Hour)

	for i := 0; i < 3; i++ {
		if _, err := m.CreateSession(nil); err != nil {
			t.Fatalf("CreateSession failed: %v", err)
		}
	}
	if got := m.Len(); got != 3 {
		t.Errorf("Len() = %d, want 3", got)
	}
}

func TestCreateSessionSweepsExpired(t *testing.T) {
	m := NewManager(50 * time.Millisecond)

	for i := 0; i < 10; i++ {
		if _, err := m.CreateSession(nil); err != nil {
			t.Fatalf("CreateSession failed: %v", err)
		}
	}
	if m.Len() != 10 {
		t.Fatalf("expected 10 sessions, got %d", m.Len())
	}

	time.Sleep(100 * time.Millisecond)

	// Nothing reads the old IDs back; creating must still drop them
	sess, err := m.CreateSession(nil)
	if err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}
	if m.Len() != 1 {
		t.Errorf("expected expired sessions swept, got %d sessions", m.Len())
	}
	if _, exists := m.GetSession(sess.ID); !exists {
		t.Error("new session should exist after sweep")
	}
}

func TestMaxSessions(t *testing.T) {
	m := NewManager(time.Hour, WithMaxSessions(3))

	first, _ := m.CreateSession(nil)
	time.Sleep(time.Millisecond)
	second, _ := m.CreateSession(nil)
	time.Sleep(time.Millisecond)
	third, _ := m.CreateSession(nil)
	time.Sleep(time.Millisecond)

	// Touch the first so the second becomes the oldest
	m.GetSession(first.ID)

	fourth, err := m.CreateSession(nil)
	if err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}
	if m.Len() != 3 {
		t.Errorf("expected 3 sessions, got %d", m.Len())
	}
	if _, exists := m.GetSession(second.ID); exists {
		t.Error("least recently accessed session should be evicted")
	}
	for _, id := range []string{first.ID, third.ID, fourth.ID} {
		if _, exists := m.GetSession(id); !exists {
			t.Errorf("session %s should survive eviction", id)
		}
	}
}
