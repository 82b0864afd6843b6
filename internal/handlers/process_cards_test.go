package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/mock/gomock"
	"google.golang.org/api/googleapi"

	"cardsync/internal/auth"
	"cardsync/internal/cards"
	cards_mocks "cardsync/internal/cards/mocks"
	"cardsync/internal/service"
	"cardsync/internal/storage"
	storage_mocks "cardsync/internal/storage/mocks"
)

func withSession(r *http.Request) *http.Request {
	ctx := auth.WithSession(r.Context(), &auth.Session{
		UserID:      "user-1",
		Email:       "user@example.com",
		AccessToken: "tok",
	})
	return r.WithContext(ctx)
}

func settingsFor(userID string) *storage.UserDriveSettings {
	return &storage.UserDriveSettings{
		UserID:              userID,
		GoogleFolderID:      "folder-1",
		GoogleSpreadsheetID: "sheet-1",
	}
}

func syncerFactory(s cards.Syncer) SyncerFactory {
	return func(ctx context.Context, accessToken string) (cards.Syncer, error) {
		return s, nil
	}
}

func TestProcessCardsHandler(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		withSession    bool
		setupMocks     func(store *storage_mocks.MockSettingsStore, syncer *cards_mocks.MockSyncer)
		expectedStatus int
		expectedBody   map[string]any
	}{
		{
			name:        "successful resync",
			body:        `{"keepMemos": true}`,
			withSession: true,
			setupMocks: func(store *storage_mocks.MockSettingsStore, syncer *cards_mocks.MockSyncer) {
				store.EXPECT().Get(gomock.Any(), "user-1").Return(settingsFor("user-1"), nil)
				syncer.EXPECT().Resync(gomock.Any(), "folder-1", "sheet-1", true).
					Return(&cards.ResyncResult{FileCount: 3}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody: map[string]any{
				"message":   "3件の名刺データが処理され、スプレッドシートに書き込まれました。",
				"fileCount": float64(3),
			},
		},
		{
			name:        "empty folder message",
			body:        `{}`,
			withSession: true,
			setupMocks: func(store *storage_mocks.MockSettingsStore, syncer *cards_mocks.MockSyncer) {
				store.EXPECT().Get(gomock.Any(), "user-1").Return(settingsFor("user-1"), nil)
				syncer.EXPECT().Resync(gomock.Any(), "folder-1", "sheet-1", false).
					Return(&cards.ResyncResult{FileCount: 0}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody: map[string]any{
				"message":   "処理対象の新しいJPEG/PNG画像ファイルが見つかりませんでした。ヘッダー行は確認・作成されました。",
				"fileCount": float64(0),
			},
		},
		{
			name:           "missing session",
			body:           `{}`,
			withSession:    false,
			setupMocks:     func(store *storage_mocks.MockSettingsStore, syncer *cards_mocks.MockSyncer) {},
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   map[string]any{"error": "認証されていません、またはアクセストークンがありません。"},
		},
		{
			name:        "settings not configured",
			body:        `{}`,
			withSession: true,
			setupMocks: func(store *storage_mocks.MockSettingsStore, syncer *cards_mocks.MockSyncer) {
				store.EXPECT().Get(gomock.Any(), "user-1").Return(nil, storage.ErrNotFound)
			},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   map[string]any{"error": "Google DriveのフォルダIDまたはスプレッドシートIDが設定されていません。"},
		},
		{
			name:        "upstream failure surfaces provider message",
			body:        `{}`,
			withSession: true,
			setupMocks: func(store *storage_mocks.MockSettingsStore, syncer *cards_mocks.MockSyncer) {
				store.EXPECT().Get(gomock.Any(), "user-1").Return(settingsFor("user-1"), nil)
				syncer.EXPECT().Resync(gomock.Any(), "folder-1", "sheet-1", false).
					Return(nil, service.WrapUpstream("sheets.values.update",
						&googleapi.Error{Code: 500, Message: "Backend Error"}))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   map[string]any{"error": "Backend Error"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			store := storage_mocks.NewMockSettingsStore(ctrl)
			syncer := cards_mocks.NewMockSyncer(ctrl)
			tt.setupMocks(store, syncer)

			handler := NewProcessCardsHandler(store, syncerFactory(syncer))

			req := httptest.NewRequest(http.MethodPost, "/api/process-cards", bytes.NewBufferString(tt.body))
			if tt.withSession {
				req = withSession(req)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != tt.expectedStatus {
				t.Fatalf("expected status %d, got %d (%s)", tt.expectedStatus, rec.Code, rec.Body.String())
			}

			var got map[string]any
			if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
				t.Fatalf("failed to decode response: %v", err)
			}
			for key, want := range tt.expectedBody {
				if got[key] != want {
					t.Errorf("response[%q] = %v, want %v", key, got[key], want)
				}
			}
		})
	}
}
