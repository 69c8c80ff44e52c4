package http

import (
	"context"
	"crypto/subtle"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"gatehouse/internal/auth"
)

const (
	sessionCookieName    = "gatehouse_session"
	oauthStateCookieName = "gatehouse_oauth_state"
	oauthStateCookieTTL  = 10 * time.Minute
)

type googleAuthenticator interface {
	AuthURL(state string) string
	Exchange(ctx context.Context, code string) (*auth.GoogleClaims, error)
}

// OAuthHandler handles the Google login flow: initiate, callback, logout.
type OAuthHandler struct {
	google       googleAuthenticator
	authService  *auth.Service
	logger       *slog.Logger
	secureCookie bool
}

// NewOAuthHandler creates a new OAuthHandler.
func NewOAuthHandler(google googleAuthenticator, authService *auth.Service, env string, logger *slog.Logger) *OAuthHandler {
	return &OAuthHandler{
		google:       google,
		authService:  authService,
		logger:       logger,
		secureCookie: !strings.EqualFold(env, "development"),
	}
}

// InitiateGoogle handles GET /auth/google.
// Redirects the user to Google's OAuth consent screen.
func (h *OAuthHandler) InitiateGoogle(w http.ResponseWriter, r *http.Request) {
	state, err := auth.GenerateState()
	if err != nil {
		h.logger.Error("failed to generate state", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	// Store state in cookie for CSRF protection
	http.SetCookie(w, &http.Cookie{
		Name:     oauthStateCookieName,
		Value:    state,
		Path:     "/auth",
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(oauthStateCookieTTL.Seconds()),
	})

	http.Redirect(w, r, h.google.AuthURL(state), http.StatusFound)
}

// CallbackGoogle handles GET /auth/google/callback.
// Exchanges the authorization code for a profile, resolves the local user,
// and establishes a session. Every failure redirects back to the landing
// page with no user created and no session established.
func (h *OAuthHandler) CallbackGoogle(w http.ResponseWriter, r *http.Request) {
	stateCookie, err := r.Cookie(oauthStateCookieName)
	if err != nil {
		h.logger.Warn("oauth callback: missing state cookie")
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}

	h.clearStateCookie(w)

	state := r.URL.Query().Get("state")
	if subtle.ConstantTimeCompare([]byte(state), []byte(stateCookie.Value)) != 1 {
		h.logger.Warn("oauth callback: state mismatch")
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}

	// Check for OAuth error from Google (denied consent, provider error)
	if errParam := r.URL.Query().Get("error"); errParam != "" {
		h.logger.Warn("oauth callback: provider error", "error", errParam)
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}

	code := r.URL.Query().Get("code")
	if code == "" {
		h.logger.Warn("oauth callback: missing authorization code")
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}

	claims, err := h.google.Exchange(r.Context(), code)
	if err != nil {
		h.logger.Error("oauth callback: exchange failed", "error", err)
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}

	user, err := h.authService.ResolveUser(r.Context(), claims)
	if err != nil {
		h.logger.Error("oauth callback: user resolution failed", "error", err)
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}

	token, err := h.authService.EstablishSession(r.Context(), user.ID)
	if err != nil {
		h.logger.Error("oauth callback: session creation failed", "error", err)
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(h.authService.SessionTTL().Seconds()),
	})

	h.logger.Info("login successful", "user_id", user.ID, "email", user.Email)

	http.Redirect(w, r, "/dashboard", http.StatusFound)
}

// Logout handles GET /logout.
// Destroys the session and redirects to the landing page. Destroying an
// absent or invalid session is a no-op; a storage failure is not swallowed.
func (h *OAuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(sessionCookieName); err == nil && cookie.Value != "" {
		if err := h.authService.DestroySession(r.Context(), cookie.Value); err != nil {
			h.logger.Error("logout: session destruction failed", "error", err)
			writeError(w, http.StatusInternalServerError, "failed to log out")
			return
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})

	http.Redirect(w, r, "/", http.StatusFound)
}

func (h *OAuthHandler) clearStateCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     oauthStateCookieName,
		Value:    "",
		Path:     "/auth",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secureCookie,
	})
}
