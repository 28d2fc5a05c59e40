package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/userdash/userdash/internal/dependencies/clock"
	"github.com/userdash/userdash/internal/model"
	"github.com/userdash/userdash/internal/session"
	"github.com/userdash/userdash/internal/storage"
)

// Errors
var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrInvalidSession     = errors.New("invalid or expired session")
	ErrUsernameExists     = errors.New("username already exists")
	ErrEmailExists        = errors.New("email already registered")
)

// Service handles registration, login and session management
type Service struct {
	users    storage.UserStore
	sessions session.Store
	clock    clock.Clock

	sessionDuration time.Duration
}

// Config holds configuration for the auth service
type Config struct {
	SessionDuration time.Duration
}

// DefaultConfig returns default auth configuration
func DefaultConfig() Config {
	return Config{
		SessionDuration: 24 * time.Hour,
	}
}

// New creates a new auth Service
func New(users storage.UserStore, sessions session.Store, clk clock.Clock, cfg Config) *Service {
	if cfg.SessionDuration == 0 {
		cfg.SessionDuration = DefaultConfig().SessionDuration
	}
	return &Service{
		users:           users,
		sessions:        sessions,
		clock:           clk,
		sessionDuration: cfg.SessionDuration,
	}
}

// Register creates a user account with a hashed password. It does not
// establish a session; the caller sends the user through the login flow.
func (s *Service) Register(ctx context.Context, username, email, password string) (*model.User, error) {
	if _, err := s.users.FindByUsername(ctx, username); err == nil {
		return nil, ErrUsernameExists
	} else if !errors.Is(err, model.ErrUserNotFound) {
		return nil, err
	}

	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return nil, ErrEmailExists
	} else if !errors.Is(err, model.ErrUserNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    s.clock.Now(),
	}

	if err := s.users.Insert(ctx, user); err != nil {
		// The store enforces uniqueness too; a concurrent insert can
		// still lose the race after the checks above.
		switch {
		case errors.Is(err, model.ErrUsernameTaken):
			return nil, ErrUsernameExists
		case errors.Is(err, model.ErrEmailTaken):
			return nil, ErrEmailExists
		}
		return nil, err
	}

	return user, nil
}

// Login authenticates a user and creates a session. Unknown usernames
// and wrong passwords fail with the same error.
func (s *Service) Login(ctx context.Context, username, password string) (*session.Session, error) {
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return s.createSession(ctx, user)
}

// ValidateSession checks if a session token is valid and returns the session
func (s *Service) ValidateSession(ctx context.Context, token string) (*session.Session, error) {
	sess, err := s.sessions.Get(ctx, token)
	if err != nil {
		if errors.Is(err, model.ErrSessionNotFound) {
			return nil, ErrInvalidSession
		}
		return nil, err
	}

	if s.clock.Now().After(sess.ExpiresAt) {
		_ = s.sessions.Delete(ctx, token)
		return nil, ErrInvalidSession
	}

	return sess, nil
}

// Logout removes the session. Unknown tokens are a no-op.
func (s *Service) Logout(ctx context.Context, token string) error {
	return s.sessions.Delete(ctx, token)
}

// createSession creates a new session for a user
func (s *Service) createSession(ctx context.Context, user *model.User) (*session.Session, error) {
	now := s.clock.Now()

	sess := &session.Session{
		Token:     s.generateToken(),
		UserID:    user.ID,
		Username:  user.Username,
		CreatedAt: now,
		ExpiresAt: now.Add(s.sessionDuration),
	}

	if err := s.sessions.Save(ctx, sess); err != nil {
		return nil, err
	}

	return sess, nil
}

// generateToken generates an opaque random session token
func (s *Service) generateToken() string {
	b := make([]byte, 16)
	_, _ = rand.Read(b)
	return "sess_" + base64.RawURLEncoding.EncodeToString(b)
}
