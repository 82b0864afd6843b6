package handlers

import (
	"net/http"
	"strconv"

	"cardsync/internal/gallery"
	"cardsync/internal/storage"
)

// GalleryHandler handles HTTP requests for the server-side gallery view:
// the Drive listing joined with sheet rows, filtered, sorted and paginated.
type GalleryHandler struct {
	settings  storage.SettingsStore
	newSyncer SyncerFactory
	newDrive  DriveFactory
}

// NewGalleryHandler creates a new GalleryHandler.
func NewGalleryHandler(settings storage.SettingsStore, newSyncer SyncerFactory, newDrive DriveFactory) *GalleryHandler {
	return &GalleryHandler{settings: settings, newSyncer: newSyncer, newDrive: newDrive}
}

// ServeHTTP builds one gallery page. Query parameters: q (substring filter
// on the filename) and page (1-based).
func (h *GalleryHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	settings, session, ok := requireSettings(w, r, h.settings)
	if !ok {
		return
	}

	gw, err := h.newDrive(ctx, session.AccessToken)
	if err != nil {
		handleServiceError(w, r, err, "Google APIクライアントの初期化に失敗しました。")
		return
	}
	syncer, err := h.newSyncer(ctx, session.AccessToken)
	if err != nil {
		handleServiceError(w, r, err, "Google APIクライアントの初期化に失敗しました。")
		return
	}

	files, err := gw.ListImages(ctx, settings.GoogleFolderID, driveListPageSize)
	if err != nil {
		handleServiceError(w, r, err, "Driveファイルの取得中にエラーが発生しました。")
		return
	}
	rows, err := syncer.ReadRows(ctx, settings.GoogleSpreadsheetID)
	if err != nil {
		handleServiceError(w, r, err, "名刺情報の取得中にエラーが発生しました。")
		return
	}

	page := 1
	if p, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil && p > 0 {
		page = p
	}

	items := gallery.Build(files, rows)
	items = gallery.Filter(items, r.URL.Query().Get("q"))
	writeJSON(w, http.StatusOK, gallery.Paginate(items, page, gallery.PageSize))
}
