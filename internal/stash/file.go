package stash

import (
	"context"

	"github.com/mwantia/gostash/pkg/geo"
	"github.com/mwantia/gostash/pkg/query"
)

// File is a non-owning view onto a stored file: an id plus the stash it
// belongs to. Accessors re-fetch current state on every call instead of
// caching it.
type File struct {
	id    uint
	stash *Stash
}

func (f *File) ID() uint {
	return f.id
}

func (f *File) Name(ctx context.Context) (string, error) {
	record, err := f.stash.store.GetFile(ctx, f.id)
	if err != nil {
		return "", err
	}
	return record.Name, nil
}

// SetName renames the file. The extension recorded at import time is
// not re-derived, even if the new name carries a different suffix.
func (f *File) SetName(ctx context.Context, name string) error {
	return f.stash.store.RenameFile(ctx, f.id, name)
}

func (f *File) Extension(ctx context.Context) (string, error) {
	record, err := f.stash.store.GetFile(ctx, f.id)
	if err != nil {
		return "", err
	}
	return record.Extension, nil
}

func (f *File) Tags(ctx context.Context) ([]string, error) {
	return f.stash.store.GetFileTags(ctx, f.id)
}

// WatchTags subscribes to this file's tag list.
func (f *File) WatchTags(ctx context.Context) *query.Subscription[[]string] {
	return f.stash.engine.WatchFileTags(ctx, f.id)
}

// AddTag attaches a single tag, reusing an existing tag row differing
// only in casing or padding.
func (f *File) AddTag(ctx context.Context, tag string) error {
	return f.stash.store.AttachTag(ctx, f.id, tag)
}

// SetTags replaces the file's tags with the given set.
func (f *File) SetTags(ctx context.Context, tags []string) error {
	return f.stash.store.ReplaceFileTags(ctx, f.id, tags)
}

// Path resolves the file's stored content to an absolute path.
func (f *File) Path() (string, error) {
	return f.stash.content.Locate(f.id)
}

// Location re-reads the GPS position embedded in the stored content.
// False means the file has none; that is not an error.
func (f *File) Location(ctx context.Context) (geo.Location, bool) {
	if err := ctx.Err(); err != nil {
		return geo.Location{}, false
	}

	path, err := f.stash.content.Locate(f.id)
	if err != nil {
		return geo.Location{}, false
	}
	return f.stash.metadata.Location(path)
}
