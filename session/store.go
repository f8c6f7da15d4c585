package session

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Store holds all live sessions, keyed by id. Sessions inactive past the
// TTL are evicted by a background goroutine running every 5 minutes.
type Store struct {
	sessions sync.Map
	ttl      time.Duration
	factory  func(id string) *Session
}

// NewStore creates a session registry. factory builds a session wired with
// the analyzer and terminal hooks for a given id.
func NewStore(factory func(id string) *Session, ttl time.Duration) *Store {
	st := &Store{
		ttl:     ttl,
		factory: factory,
	}
	go st.cleanupLoop()
	return st
}

// Create registers a new idle session and returns it.
func (st *Store) Create() *Session {
	s := st.factory(uuid.NewString())
	st.sessions.Store(s.ID(), s)
	return s
}

// Get returns the session with the given id, if present.
func (st *Store) Get(id string) (*Session, bool) {
	v, ok := st.sessions.Load(id)
	if !ok {
		return nil, false
	}
	return v.(*Session), true
}

// cleanupLoop evicts expired sessions every 5 minutes.
func (st *Store) cleanupLoop() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()
	for range ticker.C {
		cutoff := time.Now().Add(-st.ttl)
		st.sessions.Range(func(key, value any) bool {
			if value.(*Session).expired(cutoff) {
				st.sessions.Delete(key)
			}
			return true
		})
	}
}
