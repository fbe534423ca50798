package store

import (
	"context"
	"testing"

	"github.com/mwantia/gostash/pkg/db/models"
	"github.com/mwantia/gostash/pkg/notify"
	"github.com/stretchr/testify/require"
)

func setupTestStore(t *testing.T) *SQLiteStore {
	t.Helper()

	s, err := NewSQLiteStore(SQLiteConfig{Path: ":memory:"}, notify.NewHub())
	require.NoError(t, err, "failed to create in-memory store")

	ctx := context.Background()
	require.NoError(t, s.Connect(ctx), "failed to connect store")
	require.NoError(t, s.Migrate(ctx), "failed to migrate store")

	t.Cleanup(func() {
		require.NoError(t, s.Close())
	})

	return s
}

func createFile(t *testing.T, s *SQLiteStore, name, extension string, tags ...string) uint {
	t.Helper()

	ctx := context.Background()
	file := &models.File{Name: name, Extension: extension}
	require.NoError(t, s.CreateFile(ctx, file))

	for _, tag := range tags {
		require.NoError(t, s.AttachTag(ctx, file.ID, tag))
	}

	return file.ID
}

func TestTagDedup(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	id := createFile(t, s, "report.pdf", "pdf")

	require.NoError(t, s.AttachTag(ctx, id, "Paris"))
	require.NoError(t, s.AttachTag(ctx, id, "PARIS"))
	require.NoError(t, s.AttachTag(ctx, id, "  paris  "))

	tags, err := s.GetFileTags(ctx, id)
	require.NoError(t, err)
	require.Equal(t, []string{"Paris"}, tags, "differently cased duplicates must reuse the first tag")

	all, err := s.ListTags(ctx)
	require.NoError(t, err)
	require.Equal(t, []string{"Paris"}, all, "only a single tag row may exist")
}

func TestFindTagByContent(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	id, err := s.CreateTagIfAbsent(ctx, "Berlin")
	require.NoError(t, err)

	tag, err := s.FindTagByContent(ctx, "berlin")
	require.NoError(t, err)
	require.Equal(t, id, tag.ID)
	require.Equal(t, "Berlin", tag.Content)

	_, err = s.FindTagByContent(ctx, "unknown")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestCreateTagIfAbsentIsIdempotent(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	first, err := s.CreateTagIfAbsent(ctx, "vacation")
	require.NoError(t, err)

	second, err := s.CreateTagIfAbsent(ctx, "Vacation")
	require.NoError(t, err)
	require.Equal(t, first, second)
}

func TestLinkFileTagIsIdempotent(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	fileID := createFile(t, s, "photo.jpg", "jpg")
	tagID, err := s.CreateTagIfAbsent(ctx, "beach")
	require.NoError(t, err)

	require.NoError(t, s.LinkFileTag(ctx, fileID, tagID))
	require.NoError(t, s.LinkFileTag(ctx, fileID, tagID))

	tags, err := s.GetFileTags(ctx, fileID)
	require.NoError(t, err)
	require.Len(t, tags, 1)
}

func TestSearchFilesAnd(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	f1 := createFile(t, s, "one.txt", "txt", "a", "b")
	createFile(t, s, "two.txt", "txt", "a")
	f3 := createFile(t, s, "three.txt", "txt", "a", "b", "c")

	ids, err := s.SearchFiles(ctx, FileRequest{
		Tags:     []string{"a", "b"},
		Operator: And,
	})
	require.NoError(t, err)
	require.Equal(t, []uint{f1, f3}, ids, "only files carrying every requested tag may match")
}

func TestSearchFilesAndIgnoresCaseAndDuplicates(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	f1 := createFile(t, s, "one.txt", "txt", "a", "b")

	ids, err := s.SearchFiles(ctx, FileRequest{
		Tags:     []string{"A", "b", "a"},
		Operator: And,
	})
	require.NoError(t, err)
	require.Equal(t, []uint{f1}, ids, "a repeated tag in different casing must not inflate the required count")
}

func TestSearchFilesOr(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	f1 := createFile(t, s, "one.txt", "txt", "a", "b")
	f2 := createFile(t, s, "two.txt", "txt", "a")
	f3 := createFile(t, s, "three.txt", "txt", "a", "b", "c")
	createFile(t, s, "four.txt", "txt", "d")

	ids, err := s.SearchFiles(ctx, FileRequest{
		Tags:     []string{"a", "b"},
		Operator: Or,
	})
	require.NoError(t, err)
	require.Equal(t, []uint{f1, f2, f3}, ids, "a file matching multiple tags must appear once")
}

func TestSearchFilesEmptyTagSet(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	f1 := createFile(t, s, "report.pdf", "pdf", "work")
	createFile(t, s, "photo.jpg", "jpg")
	f3 := createFile(t, s, "trip-report.txt", "txt")

	ids, err := s.SearchFiles(ctx, FileRequest{Search: "rep"})
	require.NoError(t, err)
	require.Equal(t, []uint{f1, f3}, ids, "empty tag set must only filter by name substring")

	all, err := s.SearchFiles(ctx, FileRequest{})
	require.NoError(t, err)
	require.Len(t, all, 3, "empty search must match everything")
}

func TestSearchFilesCombinesTagsAndName(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	f1 := createFile(t, s, "summer.jpg", "jpg", "beach")
	createFile(t, s, "winter.jpg", "jpg", "beach")

	ids, err := s.SearchFiles(ctx, FileRequest{
		Tags:     []string{"beach"},
		Operator: Or,
		Search:   "summ",
	})
	require.NoError(t, err)
	require.Equal(t, []uint{f1}, ids)
}

func TestReplaceFileTagsReplay(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	id := createFile(t, s, "notes.md", "md", "old")

	require.NoError(t, s.ReplaceFileTags(ctx, id, []string{"x", "y"}))
	require.NoError(t, s.ReplaceFileTags(ctx, id, []string{"x", "y"}))

	tags, err := s.GetFileTags(ctx, id)
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"x", "y"}, tags, "replaying the same replacement must not duplicate tags")
}

func TestRenameKeepsExtension(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	id := createFile(t, s, "a.txt", "txt")
	require.NoError(t, s.RenameFile(ctx, id, "b"))

	file, err := s.GetFile(ctx, id)
	require.NoError(t, err)
	require.Equal(t, "b", file.Name)
	require.Equal(t, "txt", file.Extension, "renaming must not re-derive the extension")
}

func TestRenameMissingFile(t *testing.T) {
	s := setupTestStore(t)

	err := s.RenameFile(context.Background(), 9999, "ghost")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteFileCascades(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	id := createFile(t, s, "photo.jpg", "jpg", "beach", "sunset")
	require.NoError(t, s.DeleteFile(ctx, id))

	var links int64
	require.NoError(t, s.DB().Raw("SELECT COUNT(*) FROM file_tags WHERE file_id = ?", id).Scan(&links).Error)
	require.Zero(t, links, "deleting a file must remove its associations")

	_, err := s.GetFile(ctx, id)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteTagCascades(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	fileID := createFile(t, s, "photo.jpg", "jpg", "beach")
	tag, err := s.FindTagByContent(ctx, "beach")
	require.NoError(t, err)

	require.NoError(t, s.DeleteTag(ctx, tag.ID))

	tags, err := s.GetFileTags(ctx, fileID)
	require.NoError(t, err)
	require.Empty(t, tags, "deleting a tag must remove its associations")

	_, err = s.GetFile(ctx, fileID)
	require.NoError(t, err, "the file itself must survive tag deletion")
}

func TestListExtensions(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	createFile(t, s, "a.txt", "txt")
	createFile(t, s, "b.txt", "txt")
	createFile(t, s, "c.jpg", "jpg")
	createFile(t, s, "noext", "")

	extensions, err := s.ListExtensions(ctx)
	require.NoError(t, err)
	require.Equal(t, []string{"jpg", "txt"}, extensions)
}
