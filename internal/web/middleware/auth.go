package middleware

import (
	"context"
	"net/http"

	"github.com/userdash/userdash/internal/services/auth"
	"github.com/userdash/userdash/internal/session"
)

type contextKey string

const (
	sessionContextKey contextKey = "session"
)

// GetSession retrieves the authenticated session from the request context
// Returns nil if the request is anonymous
func GetSession(ctx context.Context) *session.Session {
	sess, _ := ctx.Value(sessionContextKey).(*session.Session)
	return sess
}

// Auth returns middleware that requires an authenticated session.
// Anonymous requests are flashed a warning and redirected to the login page.
func Auth(authService *auth.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess := sessionFromRequest(r, authService)
			if sess == nil {
				SetFlash(w, "warning", "Please log in first.")
				http.Redirect(w, r, "/login", http.StatusSeeOther)
				return
			}

			ctx := context.WithValue(r.Context(), sessionContextKey, sess)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OptionalAuth returns middleware that attempts authentication but doesn't require it
// Sets the session in context if authenticated, nil otherwise
func OptionalAuth(authService *auth.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess := sessionFromRequest(r, authService)
			ctx := context.WithValue(r.Context(), sessionContextKey, sess)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func sessionFromRequest(r *http.Request, authService *auth.Service) *session.Session {
	cookie, err := r.Cookie("session")
	if err != nil {
		return nil
	}

	sess, err := authService.ValidateSession(r.Context(), cookie.Value)
	if err != nil {
		return nil
	}

	return sess
}
