package content

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// LocalStore keeps file content on the local filesystem, one directory
// per file id below the configured data directory.
type LocalStore struct {
	dataDir string
}

func NewLocalStore(dataDir string) *LocalStore {
	return &LocalStore{dataDir: dataDir}
}

// Store copies the source file into the id's directory, replacing any
// previous content for that id.
func (ls *LocalStore) Store(ctx context.Context, sourcePath string, fileID uint) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	source, err := os.Open(sourcePath)
	if err != nil {
		return fmt.Errorf("failed to open source file: %w", err)
	}
	defer source.Close()

	dir := ls.fileDir(fileID)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create content directory: %w", err)
	}

	destPath := filepath.Join(dir, filepath.Base(sourcePath))
	dest, err := os.Create(destPath)
	if err != nil {
		return fmt.Errorf("failed to create destination file: %w", err)
	}
	defer dest.Close()

	if _, err := io.Copy(dest, source); err != nil {
		return fmt.Errorf("failed to copy file content: %w", err)
	}

	return nil
}

// Locate resolves a file id back to the absolute path of its stored
// content.
func (ls *LocalStore) Locate(fileID uint) (string, error) {
	entries, err := os.ReadDir(ls.fileDir(fileID))
	if err != nil {
		return "", ErrNotFound
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		path, err := filepath.Abs(filepath.Join(ls.fileDir(fileID), entry.Name()))
		if err != nil {
			return "", fmt.Errorf("failed to resolve content path: %w", err)
		}
		return path, nil
	}

	return "", ErrNotFound
}

func (ls *LocalStore) fileDir(fileID uint) string {
	return filepath.Join(ls.dataDir, fmt.Sprintf("%d", fileID))
}
