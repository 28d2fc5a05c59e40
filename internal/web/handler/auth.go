package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/userdash/userdash/internal/services/auth"
	"github.com/userdash/userdash/internal/web/middleware"
	"github.com/userdash/userdash/internal/web/templates/layout"
	"github.com/userdash/userdash/internal/web/templates/pages"
)

// AuthHandler handles registration, login and logout
type AuthHandler struct {
	authService *auth.Service
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(authService *auth.Service) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// RegisterPage renders the registration form
func (h *AuthHandler) RegisterPage(w http.ResponseWriter, r *http.Request) {
	if middleware.GetSession(r.Context()) != nil {
		// Already logged in
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}

	data := pages.RegisterData{
		PageData: layout.PageData{
			Title: "Register",
			Flash: middleware.GetFlash(r.Context()),
		},
	}
	render(w, r, pages.Register(data))
}

// Register handles the registration form submission. Every failure
// redirects back to the form with a one-time notice; nothing is
// written to the store unless all checks pass.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		middleware.SetFlash(w, "error", "Invalid form data.")
		http.Redirect(w, r, "/register", http.StatusSeeOther)
		return
	}

	username := strings.TrimSpace(r.FormValue("username"))
	email := strings.TrimSpace(r.FormValue("email"))
	password := r.FormValue("password")
	confirm := r.FormValue("confirm")

	if username == "" || email == "" || password == "" || confirm == "" {
		middleware.SetFlash(w, "error", "Please fill in all fields.")
		http.Redirect(w, r, "/register", http.StatusSeeOther)
		return
	}

	if password != confirm {
		middleware.SetFlash(w, "error", "Passwords do not match.")
		http.Redirect(w, r, "/register", http.StatusSeeOther)
		return
	}

	_, err := h.authService.Register(r.Context(), username, email, password)
	switch {
	case errors.Is(err, auth.ErrUsernameExists):
		middleware.SetFlash(w, "warning", "Username already exists.")
		http.Redirect(w, r, "/register", http.StatusSeeOther)
		return
	case errors.Is(err, auth.ErrEmailExists):
		middleware.SetFlash(w, "warning", "Email already registered.")
		http.Redirect(w, r, "/register", http.StatusSeeOther)
		return
	case err != nil:
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	middleware.SetFlash(w, "success", "Registration successful! Please log in.")
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// LoginPage renders the login form
func (h *AuthHandler) LoginPage(w http.ResponseWriter, r *http.Request) {
	if middleware.GetSession(r.Context()) != nil {
		// Already logged in
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}

	data := pages.LoginData{
		PageData: layout.PageData{
			Title: "Login",
			Flash: middleware.GetFlash(r.Context()),
		},
	}
	render(w, r, pages.Login(data))
}

// Login handles the login form submission. Unknown usernames and wrong
// passwords produce the same notice, so the response does not reveal
// which accounts exist.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		middleware.SetFlash(w, "error", "Invalid form data.")
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	username := strings.TrimSpace(r.FormValue("username"))
	password := r.FormValue("password")

	sess, err := h.authService.Login(r.Context(), username, password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			middleware.SetFlash(w, "error", "Invalid username or password.")
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	h.setSessionCookie(w, sess.Token)
	middleware.SetFlash(w, "success", "Welcome back, "+sess.Username+"!")
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

// Logout clears the session and sends the user back to the login page.
// Idempotent: logging out without a session still redirects.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie("session"); err == nil {
		_ = h.authService.Logout(r.Context(), cookie.Value)
	}

	// Clear session cookie
	http.SetCookie(w, &http.Cookie{
		Name:     "session",
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	middleware.SetFlash(w, "info", "You have been logged out.")
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

func (h *AuthHandler) setSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     "session",
		Value:    token,
		Path:     "/",
		MaxAge:   86400,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
