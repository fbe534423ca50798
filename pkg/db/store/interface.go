package store

import (
	"context"

	"github.com/mwantia/gostash/pkg/db/models"
)

// MetadataStore defines the interface for database operations. Query
// methods never mutate state; mutating methods publish a change event to
// the notification hub after the transaction commits.
type MetadataStore interface {
	// Lifecycle
	Connect(ctx context.Context) error
	Close() error
	Migrate(ctx context.Context) error
	Health(ctx context.Context) error

	// File operations
	CreateFile(ctx context.Context, file *models.File) error
	GetFile(ctx context.Context, id uint) (*models.File, error)
	ListFiles(ctx context.Context) ([]models.File, error)
	RenameFile(ctx context.Context, id uint, name string) error
	DeleteFile(ctx context.Context, id uint) error
	SearchFiles(ctx context.Context, req FileRequest) ([]uint, error)
	ListExtensions(ctx context.Context) ([]string, error)

	// Tag operations
	FindTagByContent(ctx context.Context, content string) (*models.Tag, error)
	CreateTagIfAbsent(ctx context.Context, content string) (uint, error)
	LinkFileTag(ctx context.Context, fileID, tagID uint) error
	AttachTag(ctx context.Context, fileID uint, content string) error
	ReplaceFileTags(ctx context.Context, fileID uint, contents []string) error
	GetFileTags(ctx context.Context, fileID uint) ([]string, error)
	DeleteFileTags(ctx context.Context, fileID uint) error
	DeleteTag(ctx context.Context, id uint) error
	ListTags(ctx context.Context) ([]string, error)
}
