package session

import (
	"context"
	"time"

	"github.com/userdash/userdash/internal/model"
)

// Session is the server-trusted state tied to one browser. The browser
// only ever holds the opaque token in a cookie.
type Session struct {
	Token     string
	UserID    model.UserID
	Username  string
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Store defines the interface for session persistence
type Store interface {
	Save(ctx context.Context, sess *Session) error
	Get(ctx context.Context, token string) (*Session, error)
	Delete(ctx context.Context, token string) error
}
