package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/mock/gomock"
	"google.golang.org/api/googleapi"

	"cardsync/internal/cards"
	cards_mocks "cardsync/internal/cards/mocks"
	"cardsync/internal/service"
	storage_mocks "cardsync/internal/storage/mocks"
)

func TestUpdateCardHandler(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		setupMocks     func(store *storage_mocks.MockSettingsStore, syncer *cards_mocks.MockSyncer)
		expectedStatus int
		expectedError  string
	}{
		{
			name: "successful update",
			body: `{"fileId": "f1", "newName": "tanaka.jpg", "newMemo": "met at expo"}`,
			setupMocks: func(store *storage_mocks.MockSettingsStore, syncer *cards_mocks.MockSyncer) {
				store.EXPECT().Get(gomock.Any(), "user-1").Return(settingsFor("user-1"), nil)
				syncer.EXPECT().UpdateRow(gomock.Any(), "sheet-1", "f1", "tanaka.jpg", "met at expo").Return(nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "missing fields",
			body:           `{"fileId": "f1"}`,
			setupMocks:     func(store *storage_mocks.MockSettingsStore, syncer *cards_mocks.MockSyncer) {},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "必要な情報（fileId, newName, newMemo）が不足しています。",
		},
		{
			name: "row not found",
			body: `{"fileId": "gone", "newName": "x.jpg", "newMemo": ""}`,
			setupMocks: func(store *storage_mocks.MockSettingsStore, syncer *cards_mocks.MockSyncer) {
				store.EXPECT().Get(gomock.Any(), "user-1").Return(settingsFor("user-1"), nil)
				syncer.EXPECT().UpdateRow(gomock.Any(), "sheet-1", "gone", "x.jpg", "").
					Return(service.ErrNotFound)
			},
			expectedStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			store := storage_mocks.NewMockSettingsStore(ctrl)
			syncer := cards_mocks.NewMockSyncer(ctrl)
			tt.setupMocks(store, syncer)

			handler := NewUpdateCardHandler(store, syncerFactory(syncer))

			req := withSession(httptest.NewRequest(http.MethodPost, "/api/update-card-info", bytes.NewBufferString(tt.body)))
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != tt.expectedStatus {
				t.Fatalf("expected status %d, got %d (%s)", tt.expectedStatus, rec.Code, rec.Body.String())
			}
			if tt.expectedError != "" {
				var got ErrorResponse
				if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
					t.Fatalf("failed to decode response: %v", err)
				}
				if got.Error != tt.expectedError {
					t.Errorf("error = %q, want %q", got.Error, tt.expectedError)
				}
			}
		})
	}
}

func TestDeleteCardHandler(t *testing.T) {
	tests := []struct {
		name            string
		body            string
		setupMocks      func(store *storage_mocks.MockSettingsStore, syncer *cards_mocks.MockSyncer)
		expectedStatus  int
		expectedMessage string
	}{
		{
			name: "delete with sheet row",
			body: `{"fileId": "f1"}`,
			setupMocks: func(store *storage_mocks.MockSettingsStore, syncer *cards_mocks.MockSyncer) {
				store.EXPECT().Get(gomock.Any(), "user-1").Return(settingsFor("user-1"), nil)
				syncer.EXPECT().DeleteRow(gomock.Any(), "sheet-1", "f1").
					Return(&cards.DeleteResult{SheetRowFound: true}, nil)
			},
			expectedStatus:  http.StatusOK,
			expectedMessage: "名刺を削除しました。",
		},
		{
			name: "delete without sheet row",
			body: `{"fileId": "f2"}`,
			setupMocks: func(store *storage_mocks.MockSettingsStore, syncer *cards_mocks.MockSyncer) {
				store.EXPECT().Get(gomock.Any(), "user-1").Return(settingsFor("user-1"), nil)
				syncer.EXPECT().DeleteRow(gomock.Any(), "sheet-1", "f2").
					Return(&cards.DeleteResult{SheetRowFound: false}, nil)
			},
			expectedStatus:  http.StatusOK,
			expectedMessage: "スプレッドシートに該当するデータがないため、Driveのファイルのみ削除しました。",
		},
		{
			name:           "missing file id",
			body:           `{}`,
			setupMocks:     func(store *storage_mocks.MockSettingsStore, syncer *cards_mocks.MockSyncer) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "drive forbids deletion",
			body: `{"fileId": "f3"}`,
			setupMocks: func(store *storage_mocks.MockSettingsStore, syncer *cards_mocks.MockSyncer) {
				store.EXPECT().Get(gomock.Any(), "user-1").Return(settingsFor("user-1"), nil)
				syncer.EXPECT().DeleteRow(gomock.Any(), "sheet-1", "f3").
					Return(nil, service.WrapUpstream("drive.files.update",
						&googleapi.Error{Code: 403, Message: "The user does not have sufficient permissions"}))
			},
			expectedStatus: http.StatusForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			store := storage_mocks.NewMockSettingsStore(ctrl)
			syncer := cards_mocks.NewMockSyncer(ctrl)
			tt.setupMocks(store, syncer)

			handler := NewDeleteCardHandler(store, syncerFactory(syncer))

			req := withSession(httptest.NewRequest(http.MethodPost, "/api/delete-card", bytes.NewBufferString(tt.body)))
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != tt.expectedStatus {
				t.Fatalf("expected status %d, got %d (%s)", tt.expectedStatus, rec.Code, rec.Body.String())
			}
			if tt.expectedMessage != "" {
				var got map[string]string
				if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
					t.Fatalf("failed to decode response: %v", err)
				}
				if got["message"] != tt.expectedMessage {
					t.Errorf("message = %q, want %q", got["message"], tt.expectedMessage)
				}
			}
		})
	}
}
