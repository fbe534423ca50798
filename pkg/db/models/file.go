package models

import "time"

// File represents metadata for an imported file. The extension is
// derived once from the original name at import time and stays fixed
// across renames. GPS coordinates are deliberately not part of the
// schema; they are re-read from the stored content on demand.
type File struct {
	ID        uint   `gorm:"primaryKey"`
	Name      string `gorm:"type:text;not null"`
	Extension string `gorm:"type:text;not null"`

	CreatedAt time.Time
	UpdatedAt time.Time
}
