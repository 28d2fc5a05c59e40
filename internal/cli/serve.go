package cli

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/userdash/userdash/internal/factory"
	"github.com/userdash/userdash/internal/services/auth"
	sessionredis "github.com/userdash/userdash/internal/session/redis"
	storagesqlite "github.com/userdash/userdash/internal/storage/sqlite"
	"github.com/userdash/userdash/internal/web"
)

// serveOptions holds flag values for the serve command
type serveOptions struct {
	Host             string
	Port             int
	DBPath           string
	UserStoreType    string
	SessionStoreType string
	RedisURL         string
	SessionTTL       time.Duration
}

func defaultServeOptions() *serveOptions {
	return &serveOptions{
		Host:             os.Getenv("USERDASH_HOST"),
		Port:             getEnvIntOrDefault("USERDASH_PORT", 8080),
		DBPath:           getEnvOrDefault("USERDASH_DB", storagesqlite.DefaultConfig().Path),
		UserStoreType:    getEnvOrDefault("USERDASH_USER_STORE", factory.UserStoreTypeSQLite),
		SessionStoreType: getEnvOrDefault("USERDASH_SESSION_STORE", factory.SessionStoreTypeMemory),
		RedisURL:         os.Getenv("USERDASH_REDIS_URL"),
		SessionTTL:       24 * time.Hour,
	}
}

func newServeCmd() *cobra.Command {
	opts := defaultServeOptions()

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the web server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(opts)
		},
	}

	serveCmd.Flags().StringVar(&opts.Host, "host", opts.Host, "Listen host (env: USERDASH_HOST)")
	serveCmd.Flags().IntVar(&opts.Port, "port", opts.Port, "Listen port (env: USERDASH_PORT)")
	serveCmd.Flags().StringVar(&opts.DBPath, "db", opts.DBPath, "SQLite database path (env: USERDASH_DB)")
	serveCmd.Flags().StringVar(&opts.UserStoreType, "user-store", opts.UserStoreType, "User store backend: sqlite, memory (env: USERDASH_USER_STORE)")
	serveCmd.Flags().StringVar(&opts.SessionStoreType, "session-store", opts.SessionStoreType, "Session store backend: memory, redis (env: USERDASH_SESSION_STORE)")
	serveCmd.Flags().StringVar(&opts.RedisURL, "redis-url", opts.RedisURL, "Redis URL for the session store (env: USERDASH_REDIS_URL)")
	serveCmd.Flags().DurationVar(&opts.SessionTTL, "session-ttl", opts.SessionTTL, "Session lifetime")

	return serveCmd
}

func runServe(opts *serveOptions) error {
	// Set up logging with JSON output
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	// Build factory config
	cfg := factory.Config{
		UserStoreType:    opts.UserStoreType,
		SQLiteConfig:     storagesqlite.Config{Path: opts.DBPath},
		SessionStoreType: opts.SessionStoreType,
		AuthConfig:       auth.Config{SessionDuration: opts.SessionTTL},
		Logger:           logger,
	}

	// Configure Redis if the session store is redis
	if cfg.SessionStoreType == factory.SessionStoreTypeRedis {
		if opts.RedisURL == "" {
			logger.Error("--redis-url required when session store is redis")
			os.Exit(1)
		}
		redisCfg := sessionredis.DefaultConfig()
		redisCfg.URL = opts.RedisURL
		redisCfg.SessionTTL = opts.SessionTTL
		cfg.RedisConfig = &redisCfg
	}

	// Create application factory
	app, err := factory.New(cfg)
	if err != nil {
		logger.Error("failed to create application", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer func() {
		if err := app.Close(); err != nil {
			logger.Error("close error", slog.String("error", err.Error()))
		}
	}()

	// Create web router
	router := web.NewRouter(web.RouterConfig{
		Logger:      logger,
		AuthService: app.AuthService,
	})

	// Create server
	serverConfig := web.DefaultServerConfig()
	serverConfig.Host = opts.Host
	serverConfig.Port = opts.Port
	server := web.NewServer(router, serverConfig, logger)

	// Handle graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		logger.Info("shutdown signal received")
		cancel()
	}()

	// Start server in goroutine
	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	logger.Info("server started", slog.String("addr", server.Addr()))

	// Wait for shutdown or error
	select {
	case err := <-errCh:
		if err != nil {
			logger.Error("server error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	case <-ctx.Done():
		if err := server.Shutdown(context.Background()); err != nil {
			logger.Error("shutdown error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	logger.Info("server stopped")
	return nil
}

func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvIntOrDefault(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			return n
		}
	}
	return defaultVal
}
