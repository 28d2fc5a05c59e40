package web

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/userdash/userdash/internal/services/auth"
	"github.com/userdash/userdash/internal/web/handler"
	"github.com/userdash/userdash/internal/web/middleware"
)

// RouterConfig holds configuration for the web router
type RouterConfig struct {
	Logger      *slog.Logger
	AuthService *auth.Service
}

// NewRouter creates a new web router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	// Create middleware
	loggingMiddleware := middleware.Logging(cfg.Logger)
	recoveryMiddleware := middleware.Recovery(cfg.Logger)
	flashMiddleware := middleware.Flash()
	authMiddleware := middleware.Auth(cfg.AuthService)
	optionalAuthMiddleware := middleware.OptionalAuth(cfg.AuthService)

	// Apply global middleware to all routes
	r.Use(recoveryMiddleware)
	r.Use(loggingMiddleware)

	// Create handlers
	homeHandler := handler.NewHomeHandler()
	authHandler := handler.NewAuthHandler(cfg.AuthService)
	dashboardHandler := handler.NewDashboardHandler()

	// Public routes (optional auth so forms can bounce logged-in users)
	public := r.NewRoute().Subrouter()
	public.Use(flashMiddleware)
	public.Use(optionalAuthMiddleware)
	public.HandleFunc("/", homeHandler.Home).Methods(http.MethodGet)
	public.HandleFunc("/register", authHandler.RegisterPage).Methods(http.MethodGet)
	public.HandleFunc("/register", authHandler.Register).Methods(http.MethodPost)
	public.HandleFunc("/login", authHandler.LoginPage).Methods(http.MethodGet)
	public.HandleFunc("/login", authHandler.Login).Methods(http.MethodPost)
	public.HandleFunc("/logout", authHandler.Logout).Methods(http.MethodGet)

	// Protected routes (require an active session)
	protected := r.NewRoute().Subrouter()
	protected.Use(flashMiddleware)
	protected.Use(authMiddleware)
	protected.HandleFunc("/dashboard", dashboardHandler.Dashboard).Methods(http.MethodGet)

	return r
}
