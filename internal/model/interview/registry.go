package interview

import (
	"errors"
	"sync"
)

var ErrSessionNotFound = errors.New("session not found")

// Registry owns the set of live sessions. It is the only component allowed
// to add or remove entries; the critical section covers map access only and
// never suspends.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewRegistry bootstraps an empty in-memory registry.
func NewRegistry() *Registry {
	return &Registry{sessions: make(map[string]*Session)}
}

// Insert adds a session keyed by its identifier.
func (r *Registry) Insert(s *Session) {
	r.mu.Lock()
	r.sessions[s.ID] = s
	r.mu.Unlock()
}

// Lookup retrieves a live session by identifier.
func (r *Registry) Lookup(id string) (*Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

// Remove retires a session. Removing an unknown id is a no-op.
func (r *Registry) Remove(id string) {
	r.mu.Lock()
	delete(r.sessions, id)
	r.mu.Unlock()
}

// All returns a snapshot of the live sessions for sweeps.
func (r *Registry) All() []*Session {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Session, 0, len(r.sessions))
	for _, s := range r.sessions {
		out = append(out, s)
	}
	return out
}

// Len reports the number of live sessions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
