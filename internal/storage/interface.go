package storage

import (
	"context"

	"github.com/userdash/userdash/internal/model"
)

// UserStore defines the interface for durable user persistence.
// Uniqueness of username and email is enforced by the implementation.
type UserStore interface {
	Insert(ctx context.Context, user *model.User) error
	FindByUsername(ctx context.Context, username string) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
}
