package auth

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"

	"cardsync/internal/contextutil"
)

const stateCookieName = "cardsync_oauth_state"

// Handler serves the OAuth login/callback/session endpoints.
type Handler struct {
	oauth    *oauth2.Config
	sessions *SessionManager
	// redirect target after a completed login
	postLoginURL string
}

// NewHandler creates the auth endpoint handler.
func NewHandler(oauthConfig *oauth2.Config, sessions *SessionManager, postLoginURL string) *Handler {
	if postLoginURL == "" {
		postLoginURL = "/"
	}
	return &Handler{oauth: oauthConfig, sessions: sessions, postLoginURL: postLoginURL}
}

// Login starts the OAuth flow: a random state nonce is stored in a
// short-lived cookie and the browser is redirected to Google.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	state := uuid.NewString()

	http.SetCookie(w, &http.Cookie{
		Name:     stateCookieName,
		Value:    state,
		Path:     "/",
		MaxAge:   int((10 * time.Minute).Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	authURL := h.oauth.AuthCodeURL(state,
		oauth2.AccessTypeOffline,
		oauth2.SetAuthURLParam("prompt", "consent"),
	)
	http.Redirect(w, r, authURL, http.StatusFound)
}

// Callback completes the OAuth flow: the state nonce is checked, the code
// exchanged, the user's identity fetched, and a session cookie issued.
func (h *Handler) Callback(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	stateCookie, err := r.Cookie(stateCookieName)
	if err != nil || stateCookie.Value == "" || stateCookie.Value != r.URL.Query().Get("state") {
		logger.WarnContext(ctx, "oauth state mismatch")
		writeJSONError(w, http.StatusBadRequest, "OAuth state mismatch")
		return
	}

	code := r.URL.Query().Get("code")
	if code == "" {
		writeJSONError(w, http.StatusBadRequest, "missing authorization code")
		return
	}

	token, err := h.oauth.Exchange(ctx, code)
	if err != nil {
		logger.ErrorContext(ctx, "oauth code exchange failed", "error", err)
		writeJSONError(w, http.StatusBadGateway, "failed to exchange authorization code")
		return
	}

	info, err := FetchUserInfo(ctx, h.oauth, token)
	if err != nil {
		logger.ErrorContext(ctx, "userinfo fetch failed", "error", err)
		writeJSONError(w, http.StatusBadGateway, "failed to fetch user identity")
		return
	}

	signed, err := h.sessions.Issue(Session{
		UserID:      info.ID,
		Email:       info.Email,
		AccessToken: token.AccessToken,
	})
	if err != nil {
		logger.ErrorContext(ctx, "session issue failed", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "failed to create session")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    signed,
		Path:     "/",
		MaxAge:   int(DefaultSessionTTL.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	// Drop the consumed state cookie.
	http.SetCookie(w, &http.Cookie{Name: stateCookieName, Value: "", Path: "/", MaxAge: -1})

	logger.InfoContext(ctx, "user logged in", "user_id", info.ID, "email", info.Email)
	http.Redirect(w, r, h.postLoginURL, http.StatusFound)
}

// Logout clears the session cookie.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"message": "logged out"})
}

// SessionInfo returns the identity behind the current session. The route is
// reachable without the session middleware, so the cookie is verified here.
func (h *Handler) SessionInfo(w http.ResponseWriter, r *http.Request) {
	var session *Session
	if cookie, err := r.Cookie(SessionCookieName); err == nil {
		session, _ = h.sessions.Verify(cookie.Value)
	}
	if session == nil {
		writeJSONError(w, http.StatusUnauthorized, "認証されていません。")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{
		"userId": session.UserID,
		"email":  session.Email,
	})
}

func writeJSONError(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}
