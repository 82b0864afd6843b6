package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"cardsync/internal/contextutil"
	"cardsync/internal/storage"
)

// ProcessSingleCardHandler handles HTTP requests to OCR one Drive file and
// append its row to the spreadsheet.
type ProcessSingleCardHandler struct {
	settings  storage.SettingsStore
	newSyncer SyncerFactory
}

// NewProcessSingleCardHandler creates a new ProcessSingleCardHandler.
func NewProcessSingleCardHandler(settings storage.SettingsStore, newSyncer SyncerFactory) *ProcessSingleCardHandler {
	return &ProcessSingleCardHandler{settings: settings, newSyncer: newSyncer}
}

// ProcessSingleCardRequest represents the HTTP request payload.
type ProcessSingleCardRequest struct {
	FileID   string `json:"fileId"`
	FileName string `json:"fileName"`
	Memo     string `json:"memo"`
}

// ServeHTTP appends one card row. Repeated calls with the same file append
// duplicate rows; the resync endpoint is the reconciliation path.
func (h *ProcessSingleCardHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	var req ProcessSingleCardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.WarnContext(ctx, "invalid request body", "error", err)
		writeError(w, http.StatusBadRequest, "リクエストの形式が不正です。")
		return
	}
	if req.FileID == "" || req.FileName == "" {
		writeError(w, http.StatusBadRequest, "ファイルIDまたはファイル名が不足しています。")
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

	if err := syncer.ProcessOne(ctx, settings.GoogleSpreadsheetID, req.FileID, req.FileName, req.Memo); err != nil {
		handleServiceError(w, r, err, "名刺処理中にエラーが発生しました。")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"message": fmt.Sprintf("名刺「%s」の情報が処理され、スプレッドシートに書き込まれました。", req.FileName),
	})
}
