package storage

import (
	"context"
	"errors"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open sqlite database: %v", err)
	}
	if err := Migrate(db); err != nil {
		t.Fatalf("failed to migrate schema: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to access underlying DB: %v", err)
	}
	t.Cleanup(func() {
		if err := sqlDB.Close(); err != nil {
			t.Fatalf("failed to close database: %v", err)
		}
	})

	return db
}

func TestSettingsRepo_GetNotFound(t *testing.T) {
	repo := NewSettingsRepo(setupTestDB(t))

	_, err := repo.Get(context.Background(), "user-1")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Get() error = %v, want ErrNotFound", err)
	}
}

func TestSettingsRepo_UpsertAndGet(t *testing.T) {
	repo := NewSettingsRepo(setupTestDB(t))
	ctx := context.Background()

	err := repo.Upsert(ctx, &UserDriveSettings{
		UserID:              "user-1",
		GoogleFolderID:      "folder-a",
		GoogleSpreadsheetID: "sheet-a",
	})
	if err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}

	got, err := repo.Get(ctx, "user-1")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.GoogleFolderID != "folder-a" || got.GoogleSpreadsheetID != "sheet-a" {
		t.Errorf("Get() = %+v, want folder-a/sheet-a", got)
	}
	if got.UpdatedAt.IsZero() {
		t.Error("Get() UpdatedAt should be set")
	}
}

func TestSettingsRepo_UpsertReplacesExisting(t *testing.T) {
	repo := NewSettingsRepo(setupTestDB(t))
	ctx := context.Background()

	if err := repo.Upsert(ctx, &UserDriveSettings{
		UserID:              "user-1",
		GoogleFolderID:      "folder-a",
		GoogleSpreadsheetID: "sheet-a",
	}); err != nil {
		t.Fatalf("first Upsert() error = %v", err)
	}

	if err := repo.Upsert(ctx, &UserDriveSettings{
		UserID:              "user-1",
		GoogleFolderID:      "folder-b",
		GoogleSpreadsheetID: "sheet-b",
	}); err != nil {
		t.Fatalf("second Upsert() error = %v", err)
	}

	got, err := repo.Get(ctx, "user-1")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.GoogleFolderID != "folder-b" || got.GoogleSpreadsheetID != "sheet-b" {
		t.Errorf("Get() after second upsert = %+v, want folder-b/sheet-b", got)
	}

	var count int64
	if err := repo.db.Model(&UserDriveSettings{}).Count(&count).Error; err != nil {
		t.Fatalf("count error = %v", err)
	}
	if count != 1 {
		t.Errorf("row count = %d, want 1 (upsert must not duplicate)", count)
	}
}

func TestSettingsRepo_SeparateUsers(t *testing.T) {
	repo := NewSettingsRepo(setupTestDB(t))
	ctx := context.Background()

	for _, s := range []UserDriveSettings{
		{UserID: "user-1", GoogleFolderID: "f1", GoogleSpreadsheetID: "s1"},
		{UserID: "user-2", GoogleFolderID: "f2", GoogleSpreadsheetID: "s2"},
	} {
		settings := s
		if err := repo.Upsert(ctx, &settings); err != nil {
			t.Fatalf("Upsert(%s) error = %v", s.UserID, err)
		}
	}

	got, err := repo.Get(ctx, "user-2")
	if err != nil {
		t.Fatalf("Get(user-2) error = %v", err)
	}
	if got.GoogleFolderID != "f2" {
		t.Errorf("Get(user-2).GoogleFolderID = %q, want f2", got.GoogleFolderID)
	}
}
