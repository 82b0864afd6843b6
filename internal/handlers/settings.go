package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"cardsync/internal/auth"
	"cardsync/internal/contextutil"
	"cardsync/internal/storage"
)

// SettingsHandler handles HTTP requests for reading and saving the user's
// Drive folder and spreadsheet ids.
type SettingsHandler struct {
	settings storage.SettingsStore
}

// NewSettingsHandler creates a new SettingsHandler.
func NewSettingsHandler(settings storage.SettingsStore) *SettingsHandler {
	return &SettingsHandler{settings: settings}
}

// SettingsPayload is the JSON shape of the Drive settings, both directions.
type SettingsPayload struct {
	FolderID      string `json:"folderId"`
	SpreadsheetID string `json:"spreadsheetId"`
}

// Get returns the stored settings, or empty ids when none are saved yet.
func (h *SettingsHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	session := auth.SessionFromContext(ctx)
	if session == nil {
		writeError(w, http.StatusUnauthorized, "認証されていません。")
		return
	}

	settings, err := h.settings.Get(ctx, session.UserID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeJSON(w, http.StatusOK, SettingsPayload{})
			return
		}
		contextutil.LoggerFromContext(ctx).ErrorContext(ctx, "failed to load drive settings", "error", err)
		writeError(w, http.StatusInternalServerError, "設定の取得中にデータベースエラーが発生しました。")
		return
	}
	writeJSON(w, http.StatusOK, SettingsPayload{
		FolderID:      settings.GoogleFolderID,
		SpreadsheetID: settings.GoogleSpreadsheetID,
	})
}

// Save upserts the settings row for the session user.
func (h *SettingsHandler) Save(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	session := auth.SessionFromContext(ctx)
	if session == nil {
		writeError(w, http.StatusUnauthorized, "認証されていません。")
		return
	}

	var req SettingsPayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.WarnContext(ctx, "invalid request body", "error", err)
		writeError(w, http.StatusBadRequest, "リクエストの形式が不正です。")
		return
	}
	if req.FolderID == "" || req.SpreadsheetID == "" {
		writeError(w, http.StatusBadRequest, "フォルダIDとスプレッドシートIDは必須です。")
		return
	}

	err := h.settings.Upsert(ctx, &storage.UserDriveSettings{
		UserID:              session.UserID,
		GoogleFolderID:      req.FolderID,
		GoogleSpreadsheetID: req.SpreadsheetID,
	})
	if err != nil {
		logger.ErrorContext(ctx, "failed to save drive settings", "error", err)
		writeError(w, http.StatusInternalServerError, "データベースエラーが発生しました。")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "設定が正常に保存されました。"})
}
