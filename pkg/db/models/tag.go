package models

import "time"

// Tag represents a free-form label shared across all files. Content is
// stored with its original casing but must stay unique case-insensitively;
// the NOCASE unique index lives in the migrations package since GORM tags
// cannot express a collated index.
type Tag struct {
	ID      uint   `gorm:"primaryKey"`
	Content string `gorm:"type:text;not null"`

	CreatedAt time.Time
}
