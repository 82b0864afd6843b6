package handlers

import (
	"net/http"

	"cardsync/internal/drive"
	"cardsync/internal/storage"
)

// DriveFilesHandler handles HTTP requests for the raw Drive image listing.
type DriveFilesHandler struct {
	settings storage.SettingsStore
	newDrive DriveFactory
}

// NewDriveFilesHandler creates a new DriveFilesHandler.
func NewDriveFilesHandler(settings storage.SettingsStore, newDrive DriveFactory) *DriveFilesHandler {
	return &DriveFilesHandler{settings: settings, newDrive: newDrive}
}

// DriveFilesResponse represents the Drive listing response.
type DriveFilesResponse struct {
	Files []drive.File `json:"files"`
}

// ServeHTTP lists the JPEG/PNG files in the user's configured folder.
func (h *DriveFilesHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
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

	files, err := gw.ListImages(ctx, settings.GoogleFolderID, driveListPageSize)
	if err != nil {
		handleServiceError(w, r, err, "Driveファイルの取得中にエラーが発生しました。")
		return
	}
	if files == nil {
		files = []drive.File{}
	}
	writeJSON(w, http.StatusOK, DriveFilesResponse{Files: files})
}
