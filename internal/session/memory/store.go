package memory

import (
	"context"
	"sync"

	"github.com/userdash/userdash/internal/model"
	"github.com/userdash/userdash/internal/session"
)

// Store is an in-process implementation of the session store
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*session.Session
}

// New creates a new in-memory session store
func New() *Store {
	return &Store{
		sessions: make(map[string]*session.Session),
	}
}

// Ensure Store implements the interface
var _ session.Store = (*Store)(nil)

func (s *Store) Save(ctx context.Context, sess *session.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := *sess
	s.sessions[sess.Token] = &stored
	return nil
}

func (s *Store) Get(ctx context.Context, token string) (*session.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[token]
	if !ok {
		return nil, model.ErrSessionNotFound
	}
	copied := *sess
	return &copied, nil
}

// Delete removes a session. Unknown tokens are a no-op.
func (s *Store) Delete(ctx context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, token)
	return nil
}
