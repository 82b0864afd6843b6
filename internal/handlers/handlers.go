// Package handlers contains the JSON API handlers for the card service.
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"cardsync/internal/auth"
	"cardsync/internal/cards"
	"cardsync/internal/contextutil"
	"cardsync/internal/drive"
	"cardsync/internal/service"
	"cardsync/internal/storage"
)

// Page size for Drive folder listings served to the gallery client.
const driveListPageSize = 50

// SyncerFactory builds a card Syncer acting on behalf of the user who owns
// the given OAuth access token.
type SyncerFactory func(ctx context.Context, accessToken string) (cards.Syncer, error)

// DriveFactory builds a Drive gateway acting on behalf of the user who owns
// the given OAuth access token.
type DriveFactory func(ctx context.Context, accessToken string) (drive.Gateway, error)

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// writeError writes an error response.
func writeError(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: message})
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(payload)
}

// statusFromError maps service errors to HTTP status codes. Upstream
// permission failures keep the provider's status; everything else is 500.
func statusFromError(err error) int {
	switch {
	case errors.Is(err, service.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, service.ErrInvalidInput), errors.Is(err, service.ErrNotConfigured):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrExternalService):
		return http.StatusBadGateway
	}
	if code := service.UpstreamStatus(err); code == http.StatusForbidden || code == http.StatusUnauthorized {
		return code
	}
	return http.StatusInternalServerError
}

// handleServiceError logs err and writes it with the upstream message when
// one is available, otherwise the given fallback.
func handleServiceError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	ctx := r.Context()
	contextutil.LoggerFromContext(ctx).ErrorContext(ctx, "request failed", "error", err)

	message := fallback
	var ue *service.UpstreamError
	if errors.As(err, &ue) {
		message = ue.Describe(fallback)
	}
	writeError(w, statusFromError(err), message)
}

// requireSettings loads the Drive settings for the session user and writes a
// guidance error when they are absent or incomplete.
func requireSettings(w http.ResponseWriter, r *http.Request, store storage.SettingsStore) (*storage.UserDriveSettings, *auth.Session, bool) {
	ctx := r.Context()
	session := auth.SessionFromContext(ctx)
	if session == nil || session.AccessToken == "" {
		writeError(w, http.StatusUnauthorized, "認証されていません、またはアクセストークンがありません。")
		return nil, nil, false
	}

	settings, err := store.Get(ctx, session.UserID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeError(w, http.StatusBadRequest, "Google DriveのフォルダIDまたはスプレッドシートIDが設定されていません。")
			return nil, nil, false
		}
		contextutil.LoggerFromContext(ctx).ErrorContext(ctx, "failed to load drive settings", "error", err)
		writeError(w, http.StatusInternalServerError, "設定の取得中にデータベースエラーが発生しました。")
		return nil, nil, false
	}
	if settings.GoogleFolderID == "" || settings.GoogleSpreadsheetID == "" {
		writeError(w, http.StatusBadRequest, "Google DriveのフォルダIDまたはスプレッドシートIDが設定されていません。")
		return nil, nil, false
	}
	return settings, session, true
}
