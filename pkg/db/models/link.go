package models

import "time"

// FileTag links a file to a tag. The composite primary key keeps the
// pair unique, and both columns carry their own index to keep the
// tag-combination joins cheap as the collection grows. Deleting either
// side cascades into this table.
type FileTag struct {
	FileID uint `gorm:"primaryKey;index:idx_file_tags_file"`
	TagID  uint `gorm:"primaryKey;index:idx_file_tags_tag"`

	CreatedAt time.Time

	// Relationships
	File File `gorm:"foreignKey:FileID;references:ID;constraint:OnDelete:CASCADE"`
	Tag  Tag  `gorm:"foreignKey:TagID;references:ID;constraint:OnDelete:CASCADE"`
}
