package handlers

import (
	"net/http"

	"cardsync/internal/storage"
)

// SheetMemosHandler handles HTTP requests for the filename-keyed memo map
// used by the client-side gallery join.
type SheetMemosHandler struct {
	settings  storage.SettingsStore
	newSyncer SyncerFactory
}

// NewSheetMemosHandler creates a new SheetMemosHandler.
func NewSheetMemosHandler(settings storage.SettingsStore, newSyncer SyncerFactory) *SheetMemosHandler {
	return &SheetMemosHandler{settings: settings, newSyncer: newSyncer}
}

// CardInfo is the memo and sheet timestamp attached to one filename.
type CardInfo struct {
	Memo              string `json:"memo"`
	SheetModifiedDate string `json:"sheetModifiedDate"`
}

// SheetMemosResponse represents the memo map response.
type SheetMemosResponse struct {
	CardInfoMap map[string]CardInfo `json:"cardInfoMap"`
}

// ServeHTTP reads the sheet rows and returns filename -> {memo, date}.
// Later rows win when two share a filename.
func (h *SheetMemosHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	settings, session, ok := requireSettings(w, r, h.settings)
	if !ok {
		return
	}

	syncer, err := h.newSyncer(ctx, session.AccessToken)
	if err != nil {
		handleServiceError(w, r, err, "Google APIクライアントの初期化に失敗しました。")
		return
	}

	rows, err := syncer.ReadRows(ctx, settings.GoogleSpreadsheetID)
	if err != nil {
		handleServiceError(w, r, err, "名刺情報の取得中にエラーが発生しました。")
		return
	}

	cardInfoMap := make(map[string]CardInfo, len(rows))
	for _, row := range rows {
		if row.FileName == "" {
			continue
		}
		cardInfoMap[row.FileName] = CardInfo{
			Memo:              row.Memo,
			SheetModifiedDate: row.UpdatedAt,
		}
	}
	writeJSON(w, http.StatusOK, SheetMemosResponse{CardInfoMap: cardInfoMap})
}
