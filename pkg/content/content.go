package content

import (
	"context"
	"errors"
)

// ErrNotFound is returned when no content has been stored for a file id.
var ErrNotFound = errors.New("no content stored for file")

// Store persists file bytes keyed by file id and resolves them back to a
// readable path. Metadata stays in the metadata store; this interface
// only moves and finds bytes.
type Store interface {
	Store(ctx context.Context, sourcePath string, fileID uint) error
	Locate(fileID uint) (string, error)
}
