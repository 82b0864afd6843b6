package handlers

import (
	"encoding/json"
	"net/http"

	"cardsync/internal/contextutil"
	"cardsync/internal/storage"
)

// UpdateCardHandler handles HTTP requests to rename a card and edit its memo.
type UpdateCardHandler struct {
	settings  storage.SettingsStore
	newSyncer SyncerFactory
}

// NewUpdateCardHandler creates a new UpdateCardHandler.
func NewUpdateCardHandler(settings storage.SettingsStore, newSyncer SyncerFactory) *UpdateCardHandler {
	return &UpdateCardHandler{settings: settings, newSyncer: newSyncer}
}

// UpdateCardRequest represents the HTTP request payload for a card edit.
type UpdateCardRequest struct {
	FileID  string `json:"fileId"`
	NewName string `json:"newName"`
	NewMemo string `json:"newMemo"`
}

// ServeHTTP renames the Drive file (best effort) and updates the changed
// cells of the matching sheet row.
func (h *UpdateCardHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	var req UpdateCardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.WarnContext(ctx, "invalid request body", "error", err)
		writeError(w, http.StatusBadRequest, "リクエストの形式が不正です。")
		return
	}
	if req.FileID == "" || req.NewName == "" {
		writeError(w, http.StatusBadRequest, "必要な情報（fileId, newName, newMemo）が不足しています。")
		return
	}

	settings, session, ok := requireSettings(w, r, h.settings)
	if !ok {
		return
	}

	syncer, err := h.newSyncer(ctx, session.AccessToken)
	if err != nil {
		handleServiceError(w, r, err, "Google APIクライアントの初期化に失敗しました。")
		return
	}

	if err := syncer.UpdateRow(ctx, settings.GoogleSpreadsheetID, req.FileID, req.NewName, req.NewMemo); err != nil {
		handleServiceError(w, r, err, "情報の更新中にエラーが発生しました。")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "情報が正常に更新されました。"})
}

// DeleteCardHandler handles HTTP requests to delete a card.
type DeleteCardHandler struct {
	settings  storage.SettingsStore
	newSyncer SyncerFactory
}

// NewDeleteCardHandler creates a new DeleteCardHandler.
func NewDeleteCardHandler(settings storage.SettingsStore, newSyncer SyncerFactory) *DeleteCardHandler {
	return &DeleteCardHandler{settings: settings, newSyncer: newSyncer}
}

// DeleteCardRequest represents the HTTP request payload for a card deletion.
type DeleteCardRequest struct {
	FileID string `json:"fileId"`
}

// ServeHTTP trashes the Drive file and blanks the matching sheet row.
func (h *DeleteCardHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	var req DeleteCardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.WarnContext(ctx, "invalid request body", "error", err)
		writeError(w, http.StatusBadRequest, "リクエストの形式が不正です。")
		return
	}
	if req.FileID == "" {
		writeError(w, http.StatusBadRequest, "ファイルIDが指定されていません。")
		return
	}

	settings, session, ok := requireSettings(w, r, h.settings)
	if !ok {
		return
	}

	syncer, err := h.newSyncer(ctx, session.AccessToken)
	if err != nil {
		handleServiceError(w, r, err, "Google APIクライアントの初期化に失敗しました。")
		return
	}

	result, err := syncer.DeleteRow(ctx, settings.GoogleSpreadsheetID, req.FileID)
	if err != nil {
		handleServiceError(w, r, err, "名刺の削除中にエラーが発生しました。")
		return
	}

	message := "名刺を削除しました。"
	if !result.SheetRowFound {
		message = "スプレッドシートに該当するデータがないため、Driveのファイルのみ削除しました。"
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": message})
}
