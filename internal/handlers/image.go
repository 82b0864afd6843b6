package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"cardsync/internal/auth"
	"cardsync/internal/contextutil"
	"cardsync/internal/storage"
)

// Uploads larger than this are rejected before touching Drive.
const maxUploadBytes = 10 << 20

// ImageHandler handles streaming card images out of Drive and uploading new
// ones into the configured folder.
type ImageHandler struct {
	settings storage.SettingsStore
	newDrive DriveFactory
}

// NewImageHandler creates a new ImageHandler.
func NewImageHandler(settings storage.SettingsStore, newDrive DriveFactory) *ImageHandler {
	return &ImageHandler{settings: settings, newDrive: newDrive}
}

// Get streams the image bytes with the Drive-reported MIME type and a short
// private cache lifetime.
func (h *ImageHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	fileID := chi.URLParam(r, "fileId")
	if fileID == "" {
		writeError(w, http.StatusBadRequest, "ファイルIDが指定されていません。")
		return
	}

	session := auth.SessionFromContext(ctx)
	if session == nil || session.AccessToken == "" {
		writeError(w, http.StatusUnauthorized, "認証されていません、またはアクセストークンがありません。")
		return
	}

	gw, err := h.newDrive(ctx, session.AccessToken)
	if err != nil {
		handleServiceError(w, r, err, "Google APIクライアントの初期化に失敗しました。")
		return
	}

	meta, err := gw.GetMetadata(ctx, fileID)
	if err != nil {
		handleServiceError(w, r, err, "画像の取得中にエラーが発生しました。")
		return
	}
	data, err := gw.Download(ctx, fileID)
	if err != nil {
		handleServiceError(w, r, err, "画像の取得中にエラーが発生しました。")
		return
	}

	mimeType := meta.MimeType
	if mimeType == "" {
		mimeType = "image/jpeg"
	}
	w.Header().Set("Content-Type", mimeType)
	w.Header().Set("Cache-Control", "private, max-age=600")
	if _, err := w.Write(data); err != nil {
		contextutil.LoggerFromContext(ctx).WarnContext(ctx, "failed to stream image", "file_id", fileID, "error", err)
	}
}

// UploadResponse represents the upload response payload.
type UploadResponse struct {
	Message     string `json:"message"`
	FileID      string `json:"fileId"`
	FileName    string `json:"fileName"`
	WebViewLink string `json:"webViewLink,omitempty"`
}

// Upload stores a multipart image ("file" field, named by "newFileName") in
// the user's configured Drive folder.
func (h *ImageHandler) Upload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	settings, session, ok := requireSettings(w, r, h.settings)
	if !ok {
		return
	}

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		logger.WarnContext(ctx, "invalid multipart form", "error", err)
		writeError(w, http.StatusBadRequest, "リクエストの形式が不正です。")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "ファイルまたはファイル名がありません。")
		return
	}
	defer file.Close()

	newFileName := r.FormValue("newFileName")
	if newFileName == "" {
		writeError(w, http.StatusBadRequest, "ファイルまたはファイル名がありません。")
		return
	}

	mimeType := header.Header.Get("Content-Type")
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}

	gw, err := h.newDrive(ctx, session.AccessToken)
	if err != nil {
		handleServiceError(w, r, err, "Google APIクライアントの初期化に失敗しました。")
		return
	}

	uploaded, err := gw.Upload(ctx, settings.GoogleFolderID, newFileName, mimeType, file)
	if err != nil {
		handleServiceError(w, r, err, "Google Driveへのアップロード中にエラーが発生しました。")
		return
	}

	writeJSON(w, http.StatusOK, UploadResponse{
		Message:     "ファイルがGoogle Driveにアップロードされました。",
		FileID:      uploaded.ID,
		FileName:    uploaded.Name,
		WebViewLink: uploaded.WebViewLink,
	})
}
