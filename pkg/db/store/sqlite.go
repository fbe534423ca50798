package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/mwantia/gostash/pkg/db/migrations"
	"github.com/mwantia/gostash/pkg/db/models"
	"github.com/mwantia/gostash/pkg/notify"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// SQLiteStore implements MetadataStore using SQLite
type SQLiteStore struct {
	db   *gorm.DB
	hub  *notify.Hub
	path string
}

// DB returns the underlying GORM database instance
func (s *SQLiteStore) DB() *gorm.DB {
	return s.db
}

// SQLiteConfig holds SQLite-specific configuration
type SQLiteConfig struct {
	Path         string
	MaxOpenConns int
	LogLevel     logger.LogLevel
}

// NewSQLiteStore creates a new SQLite-backed metadata store. Committed
// mutations are announced on the given hub.
func NewSQLiteStore(cfg SQLiteConfig, hub *notify.Hub) (*SQLiteStore, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("sqlite path is required")
	}

	// Default to silent logging
	if cfg.LogLevel == 0 {
		cfg.LogLevel = logger.Silent
	}

	db, err := gorm.Open(sqlite.Open(cfg.Path), &gorm.Config{
		Logger: logger.Default.LogMode(cfg.LogLevel),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}

	return &SQLiteStore{
		db:   db,
		hub:  hub,
		path: cfg.Path,
	}, nil
}

// Connect initializes the database connection
func (s *SQLiteStore) Connect(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}

	// Configure connection pool
	sqlDB.SetMaxOpenConns(1) // SQLite only supports 1 writer
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetConnMaxLifetime(time.Hour)

	// Cascading deletes depend on foreign key enforcement
	if err := s.db.WithContext(ctx).Exec("PRAGMA foreign_keys = ON").Error; err != nil {
		return fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	return sqlDB.PingContext(ctx)
}

// Close closes the database connection
func (s *SQLiteStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}
	return sqlDB.Close()
}

// Migrate runs database migrations
func (s *SQLiteStore) Migrate(ctx context.Context) error {
	return migrations.NewMigrator(s.db).Migrate(ctx)
}

// Health checks database connectivity
func (s *SQLiteStore) Health(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}
	return sqlDB.PingContext(ctx)
}

func (s *SQLiteStore) publish(change notify.Change) {
	if s.hub != nil {
		s.hub.Publish(change)
	}
}

// File operations

func (s *SQLiteStore) CreateFile(ctx context.Context, file *models.File) error {
	if err := s.db.WithContext(ctx).Create(file).Error; err != nil {
		return err
	}

	s.publish(notify.Change{Entity: notify.EntityFiles, FileID: file.ID})
	return nil
}

func (s *SQLiteStore) GetFile(ctx context.Context, id uint) (*models.File, error) {
	var file models.File
	err := s.db.WithContext(ctx).First(&file, id).Error
	if err != nil {
		return nil, translate(err)
	}
	return &file, nil
}

func (s *SQLiteStore) ListFiles(ctx context.Context) ([]models.File, error) {
	var files []models.File
	err := s.db.WithContext(ctx).Order("id").Find(&files).Error
	return files, err
}

// RenameFile updates the display name only; the extension derived at
// import time is left untouched.
func (s *SQLiteStore) RenameFile(ctx context.Context, id uint, name string) error {
	result := s.db.WithContext(ctx).
		Model(&models.File{}).
		Where("id = ?", id).
		Update("name", name)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}

	s.publish(notify.Change{Entity: notify.EntityFiles, FileID: id})
	return nil
}

func (s *SQLiteStore) DeleteFile(ctx context.Context, id uint) error {
	result := s.db.WithContext(ctx).Delete(&models.File{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}

	s.publish(notify.Change{Entity: notify.EntityFiles, FileID: id})
	s.publish(notify.Change{Entity: notify.EntityTags, FileID: id})
	return nil
}

// SearchFiles resolves a FileRequest into an ordered list of file ids.
// Tag content matching is case-insensitive, consistent with the NOCASE
// uniqueness of stored tags. The AND branch counts distinct matching
// contents per file so that a file only qualifies once every requested
// tag is present; extra tags on the file are allowed.
func (s *SQLiteStore) SearchFiles(ctx context.Context, req FileRequest) ([]uint, error) {
	db := s.db.WithContext(ctx)
	search := "%" + req.Search + "%"

	var ids []uint
	tags := req.NormalizedTags()

	if len(tags) == 0 {
		err := db.Model(&models.File{}).
			Where("name LIKE ?", search).
			Order("id").
			Pluck("id", &ids).Error
		return ids, err
	}

	switch req.Operator {
	case Or:
		err := db.Raw(`
			SELECT DISTINCT f.id FROM files f
			JOIN file_tags ft ON ft.file_id = f.id
			JOIN tags t ON t.id = ft.tag_id
			WHERE LOWER(t.content) IN ? AND f.name LIKE ?
			ORDER BY f.id`, tags, search).Scan(&ids).Error
		return ids, err

	case And:
		err := db.Raw(`
			SELECT f.id FROM files f
			JOIN file_tags ft ON ft.file_id = f.id
			JOIN tags t ON t.id = ft.tag_id
			WHERE LOWER(t.content) IN ? AND f.name LIKE ?
			GROUP BY f.id
			HAVING COUNT(DISTINCT LOWER(t.content)) = ?
			ORDER BY f.id`, tags, search, len(tags)).Scan(&ids).Error
		return ids, err
	}

	return nil, fmt.Errorf("unknown logical operator: %d", req.Operator)
}

func (s *SQLiteStore) ListExtensions(ctx context.Context) ([]string, error) {
	var extensions []string
	err := s.db.WithContext(ctx).Raw(`
		SELECT DISTINCT extension FROM files
		WHERE extension != ''
		ORDER BY extension`).Scan(&extensions).Error
	return extensions, err
}

// Tag operations

// FindTagByContent looks a tag up case-insensitively.
func (s *SQLiteStore) FindTagByContent(ctx context.Context, content string) (*models.Tag, error) {
	var tag models.Tag
	err := s.db.WithContext(ctx).
		Where("content = ? COLLATE NOCASE", strings.TrimSpace(content)).
		First(&tag).Error
	if err != nil {
		return nil, translate(err)
	}
	return &tag, nil
}

// CreateTagIfAbsent returns the id of the existing tag matching content
// case-insensitively, creating it first when absent.
func (s *SQLiteStore) CreateTagIfAbsent(ctx context.Context, content string) (uint, error) {
	var id uint
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		id, err = getOrCreateTag(tx, content)
		return err
	})
	return id, err
}

// getOrCreateTag implements the atomic get-or-create idiom on top of the
// NOCASE unique index: a concurrent writer racing on a differently-cased
// duplicate loses the insert and falls back to the winner's row.
func getOrCreateTag(tx *gorm.DB, content string) (uint, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return 0, fmt.Errorf("tag content must not be blank")
	}

	var tag models.Tag
	err := tx.Where("content = ? COLLATE NOCASE", content).First(&tag).Error
	if err == nil {
		return tag.ID, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, err
	}

	tag = models.Tag{Content: content}
	if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&tag).Error; err != nil {
		return 0, err
	}
	if tag.ID != 0 {
		return tag.ID, nil
	}

	// Lost the insert race; the winning row must exist now.
	if err := tx.Where("content = ? COLLATE NOCASE", content).First(&tag).Error; err != nil {
		return 0, err
	}
	return tag.ID, nil
}

// LinkFileTag associates a file with a tag; re-linking an existing pair
// is a no-op.
func (s *SQLiteStore) LinkFileTag(ctx context.Context, fileID, tagID uint) error {
	link := models.FileTag{FileID: fileID, TagID: tagID}
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&link).Error
	if err != nil {
		return err
	}

	s.publish(notify.Change{Entity: notify.EntityTags, FileID: fileID})
	return nil
}

// AttachTag combines get-or-create and link in a single transaction.
func (s *SQLiteStore) AttachTag(ctx context.Context, fileID uint, content string) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		tagID, err := getOrCreateTag(tx, content)
		if err != nil {
			return err
		}

		link := models.FileTag{FileID: fileID, TagID: tagID}
		return tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&link).Error
	})
	if err != nil {
		return err
	}

	s.publish(notify.Change{Entity: notify.EntityTags, FileID: fileID})
	return nil
}

// ReplaceFileTags swaps the file's tag set for the given contents. The
// delete and the inserts run in one transaction, so no reader observes
// the intermediate zero-tag state. Blank entries and case-insensitive
// duplicates within contents are skipped.
func (s *SQLiteStore) ReplaceFileTags(ctx context.Context, fileID uint, contents []string) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("file_id = ?", fileID).Delete(&models.FileTag{}).Error; err != nil {
			return err
		}

		seen := make(map[string]struct{}, len(contents))
		for _, content := range contents {
			content = strings.TrimSpace(content)
			if content == "" {
				continue
			}
			lower := strings.ToLower(content)
			if _, ok := seen[lower]; ok {
				continue
			}
			seen[lower] = struct{}{}

			tagID, err := getOrCreateTag(tx, content)
			if err != nil {
				return err
			}

			link := models.FileTag{FileID: fileID, TagID: tagID}
			if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&link).Error; err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return err
	}

	s.publish(notify.Change{Entity: notify.EntityTags, FileID: fileID})
	return nil
}

func (s *SQLiteStore) GetFileTags(ctx context.Context, fileID uint) ([]string, error) {
	var contents []string
	err := s.db.WithContext(ctx).Raw(`
		SELECT t.content FROM tags t
		JOIN file_tags ft ON ft.tag_id = t.id
		WHERE ft.file_id = ?
		ORDER BY t.id`, fileID).Scan(&contents).Error
	return contents, err
}

func (s *SQLiteStore) DeleteFileTags(ctx context.Context, fileID uint) error {
	err := s.db.WithContext(ctx).
		Where("file_id = ?", fileID).
		Delete(&models.FileTag{}).Error
	if err != nil {
		return err
	}

	s.publish(notify.Change{Entity: notify.EntityTags, FileID: fileID})
	return nil
}

func (s *SQLiteStore) DeleteTag(ctx context.Context, id uint) error {
	result := s.db.WithContext(ctx).Delete(&models.Tag{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}

	s.publish(notify.Change{Entity: notify.EntityTags})
	return nil
}

func (s *SQLiteStore) ListTags(ctx context.Context) ([]string, error) {
	var contents []string
	err := s.db.WithContext(ctx).Raw(`
		SELECT content FROM tags
		ORDER BY content COLLATE NOCASE`).Scan(&contents).Error
	return contents, err
}
