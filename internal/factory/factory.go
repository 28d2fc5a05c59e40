package factory

import (
	"errors"
	"io"
	"log/slog"

	"github.com/userdash/userdash/internal/dependencies/clock"
	"github.com/userdash/userdash/internal/services/auth"
	"github.com/userdash/userdash/internal/session"
	sessionmemory "github.com/userdash/userdash/internal/session/memory"
	sessionredis "github.com/userdash/userdash/internal/session/redis"
	"github.com/userdash/userdash/internal/storage"
	storagememory "github.com/userdash/userdash/internal/storage/memory"
	storagesqlite "github.com/userdash/userdash/internal/storage/sqlite"
)

// Store type constants
const (
	UserStoreTypeMemory = "memory"
	UserStoreTypeSQLite = "sqlite"

	SessionStoreTypeMemory = "memory"
	SessionStoreTypeRedis  = "redis"
)

// App contains all wired application components
type App struct {
	// Storage
	Users    storage.UserStore
	Sessions session.Store

	// External dependencies
	Clock clock.Clock

	// Services
	AuthService *auth.Service

	closers []io.Closer
}

// Config holds configuration for the application factory
type Config struct {
	// UserStoreType selects the user store backend ("sqlite" or "memory")
	// If empty, defaults to "sqlite"
	UserStoreType string
	// SQLiteConfig holds SQLite settings (used when UserStoreType is "sqlite")
	// If zero value, defaults to storagesqlite.DefaultConfig()
	SQLiteConfig storagesqlite.Config
	// SessionStoreType selects the session store backend ("memory" or "redis")
	// If empty, defaults to "memory"
	SessionStoreType string
	// RedisConfig holds Redis connection settings (required if SessionStoreType is "redis")
	RedisConfig *sessionredis.Config
	// AuthConfig holds configuration for the auth service (optional)
	// If zero value, defaults to auth.DefaultConfig()
	AuthConfig auth.Config
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
	// Use no-op logger if not provided
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	var closers []io.Closer

	// Create user store based on type
	var users storage.UserStore
	userStoreType := cfg.UserStoreType
	if userStoreType == "" {
		userStoreType = UserStoreTypeSQLite
	}

	switch userStoreType {
	case UserStoreTypeMemory:
		users = storagememory.New()
	case UserStoreTypeSQLite:
		sqliteCfg := cfg.SQLiteConfig
		if sqliteCfg.Path == "" {
			sqliteCfg = storagesqlite.DefaultConfig()
		}
		sqliteStore, err := storagesqlite.New(sqliteCfg)
		if err != nil {
			return nil, err
		}
		users = sqliteStore
		closers = append(closers, sqliteStore)
	default:
		return nil, errors.New("invalid UserStoreType: must be 'sqlite' or 'memory'")
	}

	// Create session store based on type
	var sessions session.Store
	sessionStoreType := cfg.SessionStoreType
	if sessionStoreType == "" {
		sessionStoreType = SessionStoreTypeMemory
	}

	switch sessionStoreType {
	case SessionStoreTypeMemory:
		sessions = sessionmemory.New()
	case SessionStoreTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when SessionStoreType is redis")
		}
		redisStore, err := sessionredis.New(*cfg.RedisConfig)
		if err != nil {
			return nil, err
		}
		sessions = redisStore
		closers = append(closers, redisStore)
	default:
		return nil, errors.New("invalid SessionStoreType: must be 'memory' or 'redis'")
	}

	// Create external dependencies
	clk := clock.New()

	// Use default auth config if not provided
	authCfg := cfg.AuthConfig
	if authCfg.SessionDuration == 0 {
		authCfg = auth.DefaultConfig()
	}

	app := newWithDependencies(users, sessions, clk, authCfg)
	app.closers = closers
	return app, nil
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(users storage.UserStore, sessions session.Store, clk clock.Clock, authCfg auth.Config) *App {
	authService := auth.New(users, sessions, clk, authCfg)

	return &App{
		Users:       users,
		Sessions:    sessions,
		Clock:       clk,
		AuthService: authService,
	}
}

// Close releases backing store resources
func (a *App) Close() error {
	var firstErr error
	for _, c := range a.closers {
		if err := c.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
