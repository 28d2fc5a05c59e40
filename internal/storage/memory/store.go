package memory

import (
	"context"
	"sync"

	"github.com/userdash/userdash/internal/model"
	"github.com/userdash/userdash/internal/storage"
)

// Store is an in-memory implementation of the user store
type Store struct {
	mu sync.RWMutex

	nextID     model.UserID
	users      map[model.UserID]*model.User
	byUsername map[string]model.UserID
	byEmail    map[string]model.UserID
}

// New creates a new in-memory user store
func New() *Store {
	return &Store{
		nextID:     1,
		users:      make(map[model.UserID]*model.User),
		byUsername: make(map[string]model.UserID),
		byEmail:    make(map[string]model.UserID),
	}
}

// Ensure Store implements the interface
var _ storage.UserStore = (*Store)(nil)

// Insert adds a user, assigning its ID. Usernames and emails are unique.
func (s *Store) Insert(ctx context.Context, user *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byUsername[user.Username]; ok {
		return model.ErrUsernameTaken
	}
	if _, ok := s.byEmail[user.Email]; ok {
		return model.ErrEmailTaken
	}

	user.ID = s.nextID
	s.nextID++

	stored := *user
	s.users[user.ID] = &stored
	s.byUsername[user.Username] = user.ID
	s.byEmail[user.Email] = user.ID
	return nil
}

func (s *Store) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.byUsername[username]
	if !ok {
		return nil, model.ErrUserNotFound
	}
	return s.get(id)
}

func (s *Store) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.byEmail[email]
	if !ok {
		return nil, model.ErrUserNotFound
	}
	return s.get(id)
}

func (s *Store) get(id model.UserID) (*model.User, error) {
	user, ok := s.users[id]
	if !ok {
		return nil, model.ErrUserNotFound
	}
	copied := *user
	return &copied, nil
}
