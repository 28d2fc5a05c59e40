package handler

import (
	"net/http"

	"github.com/userdash/userdash/internal/web/middleware"
	"github.com/userdash/userdash/internal/web/templates/layout"
	"github.com/userdash/userdash/internal/web/templates/pages"
)

// DashboardHandler handles the gated dashboard page
type DashboardHandler struct{}

// NewDashboardHandler creates a new DashboardHandler
func NewDashboardHandler() *DashboardHandler {
	return &DashboardHandler{}
}

// Dashboard renders the dashboard for the authenticated user.
// The username comes from the session, not the store.
func (h *DashboardHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	sess := middleware.GetSession(r.Context())

	data := pages.DashboardData{
		PageData: layout.PageData{
			Title:    "Dashboard",
			Username: sess.Username,
			Flash:    middleware.GetFlash(r.Context()),
		},
	}
	render(w, r, pages.Dashboard(data))
}
