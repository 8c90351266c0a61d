package session

import (
	"sync"

	"github.com/google/uuid"
)

// Store maps opaque session tokens to usernames. Sessions live only in
// memory: they are created on login and destroyed on logout or restart.
type Store struct {
	mu       sync.RWMutex
	byToken map[string]string
}

// NewStore constructs an empty session store.
func NewStore() *Store {
	return &Store{byToken: make(map[string]string)}
}

// Create registers a new session for username and returns its token.
func (s *Store) Create(username string) string {
	token := uuid.NewString()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.byToken[token] = username

	return token
}

// Lookup resolves a token to its username.
func (s *Store) Lookup(token string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	username, ok := s.byToken[token]
	return username, ok
}

// Destroy removes a session. Destroying an unknown token is a no-op.
func (s *Store) Destroy(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.byToken, token)
}
