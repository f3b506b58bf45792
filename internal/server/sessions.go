package server

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// SessionStore holds bearer tokens issued after a successful password
// check. Tokens live in memory only: a restart logs the operator out,
// which is fine for a single-operator tool.
type SessionStore struct {
	mu     sync.Mutex
	tokens map[string]time.Time // token → expiry
	ttl    time.Duration
	now    func() time.Time
}

func NewSessionStore(ttl time.Duration) *SessionStore {
	return &SessionStore{
		tokens: make(map[string]time.Time),
		ttl:    ttl,
		now:    time.Now,
	}
}

// Issue creates a fresh session token.
func (s *SessionStore) Issue() string {
	token := uuid.NewString()
	s.mu.Lock()
	s.tokens[token] = s.now().Add(s.ttl)
	s.mu.Unlock()
	return token
}

// Valid reports whether a token is live, sliding its expiry on use.
func (s *SessionStore) Valid(token string) bool {
	if token == "" {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	expiry, ok := s.tokens[token]
	if !ok {
		return false
	}
	if s.now().After(expiry) {
		delete(s.tokens, token)
		return false
	}
	s.tokens[token] = s.now().Add(s.ttl)
	return true
}
