// Package session tracks which node a viewer has selected in a graph.
//
// Selection follows toggle semantics: selecting a node highlights its
// paths, selecting the same node again clears the highlight, and Reset
// clears it unconditionally.
//
// Stores are provided for different deployments:
//   - memory: a single server process
//   - redis: several server instances behind a load balancer
//   - file: the CLI explorer, which remembers the last selection per graph
//
// # Usage
//
//	sess := session.New(graphID, session.DefaultTTL)
//	sess.Toggle("warfarin")  // selected
//	sess.Toggle("warfarin")  // cleared
//	if err := store.Set(ctx, sess); err != nil {
//	    return err
//	}
package session

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Sentinel errors for session operations.
var (
	// ErrNotFound is returned when a session does not exist.
	ErrNotFound = errors.New("session not found")

	// ErrGraphMismatch is returned when a session is used with another graph.
	ErrGraphMismatch = errors.New("session belongs to another graph")
)

// DefaultTTL is the default session lifetime.
const DefaultTTL = 30 * time.Minute

// Session is one viewer's selection state for one graph.
type Session struct {
	ID        string    `json:"id"`
	GraphID   string    `json:"graph_id"`
	Selected  string    `json:"selected,omitempty"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

// New creates a session for graphID with a random ID.
func New(graphID string, ttl time.Duration) *Session {
	now := time.Now()
	return &Session{
		ID:        uuid.NewString(),
		GraphID:   graphID,
		ExpiresAt: now.Add(ttl),
		CreatedAt: now,
	}
}

// IsExpired returns true if the session has expired.
func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}

// Touch extends the session by ttl from now.
func (s *Session) Touch(ttl time.Duration) {
	s.ExpiresAt = time.Now().Add(ttl)
}

// Toggle selects node, or clears the selection if node is already
// selected. An empty node clears it too. It returns the new selection.
func (s *Session) Toggle(node string) string {
	if node == s.Selected {
		s.Selected = ""
	} else {
		s.Selected = node
	}
	return s.Selected
}

// Reset clears the selection.
func (s *Session) Reset() {
	s.Selected = ""
}

// Store is the interface for session storage backends.
type Store interface {
	// Get retrieves a session by ID.
	// Returns nil, nil if the session doesn't exist or has expired.
	Get(ctx context.Context, sessionID string) (*Session, error)

	// Set stores a session.
	Set(ctx context.Context, session *Session) error

	// Delete removes a session.
	Delete(ctx context.Context, sessionID string) error

	// Cleanup removes expired sessions (no-op for Redis).
	Cleanup(ctx context.Context) error

	// Close releases the store's resources.
	Close() error
}
