package storage

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_settings_store.go -package=mocks cardsync/internal/storage SettingsStore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrNotFound is returned when a record is not found.
var ErrNotFound = errors.New("record not found")

// SettingsStore defines the interface for user settings storage operations.
type SettingsStore interface {
	// Get returns the settings for a user, or ErrNotFound.
	Get(ctx context.Context, userID string) (*UserDriveSettings, error)
	// Upsert inserts or updates the settings row for settings.UserID.
	Upsert(ctx context.Context, settings *UserDriveSettings) error
}

// SettingsRepo provides methods for user drive settings operations.
// It implements the SettingsStore interface.
type SettingsRepo struct {
	db *gorm.DB
}

// NewSettingsRepo creates a new SettingsRepo.
func NewSettingsRepo(db *gorm.DB) *SettingsRepo {
	return &SettingsRepo{db: db}
}

// Get returns the settings for a user, or ErrNotFound when the user has not
// configured a folder/spreadsheet yet.
func (r *SettingsRepo) Get(ctx context.Context, userID string) (*UserDriveSettings, error) {
	var settings UserDriveSettings
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&settings).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query user settings: %w", err)
	}
	return &settings, nil
}

// Upsert inserts a new settings row or updates the existing one for the user.
func (r *SettingsRepo) Upsert(ctx context.Context, settings *UserDriveSettings) error {
	settings.UpdatedAt = time.Now().UTC()
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"google_folder_id", "google_spreadsheet_id", "updated_at"}),
	}).Create(settings).Error
	if err != nil {
		return fmt.Errorf("failed to upsert user settings: %w", err)
	}
	return nil
}
