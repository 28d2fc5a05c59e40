package sqlite

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/userdash/userdash/internal/model"
	"github.com/userdash/userdash/internal/storage"
)

// Config holds SQLite connection settings
type Config struct {
	// Path is the database file path (":memory:" for an in-memory database)
	Path string
}

// DefaultConfig returns default SQLite configuration
func DefaultConfig() Config {
	return Config{
		Path: "users.db",
	}
}

// Store is a SQLite-backed implementation of the user store
type Store struct {
	db *gorm.DB
}

// New opens the database and creates the users table if absent
func New(cfg Config) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(cfg.Path), &gorm.Config{
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	return NewWithDB(db)
}

// NewWithDB creates a SQLite store around an existing gorm connection
// (for testing). Runs migrations on the connection.
func NewWithDB(db *gorm.DB) (*Store, error) {
	if err := db.AutoMigrate(&model.User{}); err != nil {
		return nil, fmt.Errorf("migrate users table: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database connection
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Ensure Store implements the interface
var _ storage.UserStore = (*Store)(nil)

// Insert adds a user row, assigning its ID. The unique indexes on
// username and email are the final arbiter of uniqueness.
func (s *Store) Insert(ctx context.Context, user *model.User) error {
	if err := s.db.WithContext(ctx).Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// Figure out which unique index fired
			if _, lookupErr := s.FindByUsername(ctx, user.Username); lookupErr == nil {
				return model.ErrUsernameTaken
			}
			return model.ErrEmailTaken
		}
		return err
	}
	return nil
}

func (s *Store) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	var user model.User
	if err := s.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, model.ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (s *Store) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, model.ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}
