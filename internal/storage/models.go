package storage

import "time"

// UserDriveSettings maps an authenticated user to their chosen Drive folder
// and Sheets spreadsheet. One row per user.
type UserDriveSettings struct {
	ID                  uint   `gorm:"primaryKey"`
	UserID              string `gorm:"uniqueIndex;not null"`
	GoogleFolderID      string `gorm:"not null"`
	GoogleSpreadsheetID string `gorm:"not null"`
	UpdatedAt           time.Time
}

// TableName pins the table name for settings rows.
func (UserDriveSettings) TableName() string {
	return "user_drive_settings"
}
