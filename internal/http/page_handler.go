package http

import (
	"embed"
	"html/template"
	"log/slog"
	"net/http"
)

//go:embed templates/*.html
var templatesFS embed.FS

var pageTemplates = template.Must(template.ParseFS(templatesFS, "templates/*.html"))

// PageHandler renders the landing and dashboard pages.
type PageHandler struct {
	logger *slog.Logger
}

// NewPageHandler creates a new PageHandler.
func NewPageHandler(logger *slog.Logger) *PageHandler {
	return &PageHandler{logger: logger}
}

// Landing handles GET /. It renders regardless of authentication state.
func (h *PageHandler) Landing(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pageTemplates.ExecuteTemplate(w, "landing.html", nil); err != nil {
		h.logger.Error("render landing page", "error", err)
	}
}

// Dashboard handles GET /dashboard. Unauthenticated requests get a soft
// redirect to the landing page rather than a 401.
func (h *PageHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	if user == nil {
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}

	data := struct {
		DisplayName string
		PhotoURL    string
	}{
		DisplayName: user.DisplayName,
		PhotoURL:    user.PhotoURL,
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pageTemplates.ExecuteTemplate(w, "dashboard.html", data); err != nil {
		h.logger.Error("render dashboard page", "error", err)
	}
}
