package handlers

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"cardsync/internal/contextutil"
	"cardsync/internal/storage"
)

// ProcessCardsHandler handles HTTP requests for a full folder resync.
type ProcessCardsHandler struct {
	settings  storage.SettingsStore
	newSyncer SyncerFactory
}

// NewProcessCardsHandler creates a new ProcessCardsHandler.
func NewProcessCardsHandler(settings storage.SettingsStore, newSyncer SyncerFactory) *ProcessCardsHandler {
	return &ProcessCardsHandler{settings: settings, newSyncer: newSyncer}
}

// ProcessCardsRequest represents the HTTP request payload for a resync.
type ProcessCardsRequest struct {
	// KeepMemos carries existing memos over to the rewritten rows,
	// matched by file id.
	KeepMemos bool `json:"keepMemos"`
}

// ProcessCardsResponse represents the HTTP response payload for a resync.
type ProcessCardsResponse struct {
	Message     string `json:"message"`
	FileCount   int    `json:"fileCount"`
	SkippedHEIC int    `json:"skippedHeic,omitempty"`
}

// ServeHTTP runs OCR over the configured Drive folder and rewrites the
// spreadsheet's data rows.
func (h *ProcessCardsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	var req ProcessCardsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && err != io.EOF {
		logger.WarnContext(ctx, "invalid request body", "error", err)
		writeError(w, http.StatusBadRequest, "リクエストの形式が不正です。")
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

	result, err := syncer.Resync(ctx, settings.GoogleFolderID, settings.GoogleSpreadsheetID, req.KeepMemos)
	if err != nil {
		handleServiceError(w, r, err, "名刺処理中にエラーが発生しました。")
		return
	}

	resp := ProcessCardsResponse{
		FileCount:   result.FileCount,
		SkippedHEIC: result.SkippedHEIC,
	}
	if result.FileCount == 0 {
		resp.Message = "処理対象の新しいJPEG/PNG画像ファイルが見つかりませんでした。ヘッダー行は確認・作成されました。"
	} else {
		resp.Message = fmt.Sprintf("%d件の名刺データが処理され、スプレッドシートに書き込まれました。", result.FileCount)
	}
	writeJSON(w, http.StatusOK, resp)
}
