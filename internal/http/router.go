// Package http wires the API handlers into the chi router.
package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"gorm.io/gorm"

	"cardsync/internal/auth"
	"cardsync/internal/handlers"
	"cardsync/internal/storage"
)

// Deps holds dependencies for the HTTP router.
type Deps struct {
	Settings  storage.SettingsStore
	Sessions  *auth.SessionManager
	Auth      *auth.Handler
	NewSyncer handlers.SyncerFactory
	NewDrive  handlers.DriveFactory
	DB        *gorm.DB
}

// NewRouter creates a new HTTP router with the provided dependencies.
func NewRouter(deps *Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(LoggerMiddleware)
	r.Use(CORS)

	processCards := handlers.NewProcessCardsHandler(deps.Settings, deps.NewSyncer)
	singleCard := handlers.NewProcessSingleCardHandler(deps.Settings, deps.NewSyncer)
	updateCard := handlers.NewUpdateCardHandler(deps.Settings, deps.NewSyncer)
	deleteCard := handlers.NewDeleteCardHandler(deps.Settings, deps.NewSyncer)
	driveFiles := handlers.NewDriveFilesHandler(deps.Settings, deps.NewDrive)
	sheetMemos := handlers.NewSheetMemosHandler(deps.Settings, deps.NewSyncer)
	galleryView := handlers.NewGalleryHandler(deps.Settings, deps.NewSyncer, deps.NewDrive)
	settings := handlers.NewSettingsHandler(deps.Settings)
	images := handlers.NewImageHandler(deps.Settings, deps.NewDrive)
	docs := handlers.NewDocsHandler()
	health := handlers.NewHealthHandler(deps.DB)

	r.Route("/api", func(r chi.Router) {
		r.Method(http.MethodGet, "/health", health)

		r.Route("/auth", func(r chi.Router) {
			r.Get("/login", deps.Auth.Login)
			r.Get("/callback", deps.Auth.Callback)
			r.Post("/logout", deps.Auth.Logout)
			r.Get("/session", deps.Auth.SessionInfo)
		})

		// Everything below requires a valid session.
		r.Group(func(r chi.Router) {
			r.Use(auth.RequireSession(deps.Sessions))

			r.Method(http.MethodPost, "/process-cards", processCards)
			r.Method(http.MethodPost, "/process-single-card", singleCard)
			r.Method(http.MethodPost, "/update-card-info", updateCard)
			r.Method(http.MethodPost, "/delete-card", deleteCard)
			r.Method(http.MethodGet, "/get-drive-files", driveFiles)
			r.Method(http.MethodGet, "/get-sheet-memos", sheetMemos)
			r.Method(http.MethodGet, "/cards", galleryView)
			r.Get("/get-drive-settings", settings.Get)
			r.Post("/save-drive-settings", settings.Save)
			r.Get("/get-image/{fileId}", images.Get)
			r.Post("/upload-image-to-drive", images.Upload)
		})
	})

	r.Method(http.MethodGet, "/docs/{page}", docs)

	return r
}
