package stash

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/mwantia/gostash/internal/config"
	"github.com/mwantia/gostash/pkg/content"
	"github.com/mwantia/gostash/pkg/db/store"
	"github.com/mwantia/gostash/pkg/geo"
	"github.com/mwantia/gostash/pkg/geocode"
	"github.com/mwantia/gostash/pkg/log"
	"github.com/mwantia/gostash/pkg/notify"
	"github.com/mwantia/gostash/pkg/query"
	"github.com/stretchr/testify/require"
)

type stubExtractor struct {
	location geo.Location
	found    bool
}

func (s stubExtractor) Location(path string) (geo.Location, bool) {
	return s.location, s.found
}

type stubGeocoder struct {
	address *geocode.Address
	err     error
	calls   int
}

func (s *stubGeocoder) Reverse(ctx context.Context, location geo.Location) (*geocode.Address, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.address, nil
}

func setupTestStash(t *testing.T, extractor stubExtractor, geocoder Geocoder) (*Stash, *store.SQLiteStore) {
	t.Helper()

	hub := notify.NewHub()
	metadataStore, err := store.NewSQLiteStore(store.SQLiteConfig{Path: ":memory:"}, hub)
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, metadataStore.Connect(ctx))
	require.NoError(t, metadataStore.Migrate(ctx))
	t.Cleanup(func() {
		require.NoError(t, metadataStore.Close())
	})

	logger := log.NewLoggerService("test", config.LogConfig{
		Level:      "ERROR",
		TimeFormat: "15:04:05",
	})

	return New(Options{
		Store:    metadataStore,
		Content:  content.NewLocalStore(t.TempDir()),
		Engine:   query.NewEngine(metadataStore, hub, logger),
		Metadata: extractor,
		Geocoder: geocoder,
		Logger:   logger,
	}), metadataStore
}

func writeSource(t *testing.T, name string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte("content"), 0644))
	return path
}

func TestAddFileDerivesNameAndExtension(t *testing.T) {
	st, _ := setupTestStash(t, stubExtractor{}, nil)
	ctx := context.Background()

	file, err := st.AddFile(ctx, writeSource(t, "holiday.jpg"))
	require.NoError(t, err)
	st.Wait()

	name, err := file.Name(ctx)
	require.NoError(t, err)
	require.Equal(t, "holiday.jpg", name)

	extension, err := file.Extension(ctx)
	require.NoError(t, err)
	require.Equal(t, "jpg", extension)

	path, err := file.Path()
	require.NoError(t, err)
	require.FileExists(t, path)
}

func TestAddFileEnrichesWithPlaceTags(t *testing.T) {
	geocoder := &stubGeocoder{address: &geocode.Address{City: "Berlin", Country: "Deutschland"}}
	st, _ := setupTestStash(t, stubExtractor{
		location: geo.Location{Latitude: 52.52, Longitude: 13.405},
		found:    true,
	}, geocoder)
	ctx := context.Background()

	file, err := st.AddFile(ctx, writeSource(t, "berlin.jpg"))
	require.NoError(t, err)
	st.Wait()

	tags, err := file.Tags(ctx)
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"Berlin", "Deutschland"}, tags)
	require.Equal(t, 1, geocoder.calls)
}

func TestAddFileWithoutGpsSkipsGeocoding(t *testing.T) {
	geocoder := &stubGeocoder{address: &geocode.Address{City: "Nowhere"}}
	st, _ := setupTestStash(t, stubExtractor{found: false}, geocoder)
	ctx := context.Background()

	file, err := st.AddFile(ctx, writeSource(t, "scan.pdf"))
	require.NoError(t, err)
	st.Wait()

	tags, err := file.Tags(ctx)
	require.NoError(t, err)
	require.Empty(t, tags)
	require.Zero(t, geocoder.calls, "no coordinates means no lookup")
}

func TestAddFileSwallowsGeocodeFailure(t *testing.T) {
	geocoder := &stubGeocoder{err: errors.New("network down")}
	st, _ := setupTestStash(t, stubExtractor{
		location: geo.Location{Latitude: 1, Longitude: 1},
		found:    true,
	}, geocoder)
	ctx := context.Background()

	file, err := st.AddFile(ctx, writeSource(t, "photo.jpg"))
	require.NoError(t, err, "enrichment failures must never surface to the importer")
	st.Wait()

	tags, err := file.Tags(ctx)
	require.NoError(t, err)
	require.Empty(t, tags)
}

func TestAddFileUnreadableSource(t *testing.T) {
	st, metadataStore := setupTestStash(t, stubExtractor{}, nil)
	ctx := context.Background()

	_, err := st.AddFile(ctx, "/nonexistent/path.jpg")
	require.Error(t, err, "a failed content copy must surface to the importer")
	st.Wait()

	files, err := metadataStore.ListFiles(ctx)
	require.NoError(t, err)
	require.Empty(t, files, "the metadata row must not outlive the failed import")
}

func TestSetTagsReplaysCleanly(t *testing.T) {
	st, _ := setupTestStash(t, stubExtractor{}, nil)
	ctx := context.Background()

	file, err := st.AddFile(ctx, writeSource(t, "notes.md"))
	require.NoError(t, err)
	st.Wait()

	require.NoError(t, file.SetTags(ctx, []string{"x", "y"}))
	require.NoError(t, file.SetTags(ctx, []string{"x", "y"}))

	tags, err := file.Tags(ctx)
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"x", "y"}, tags)
}

func TestRenameKeepsExtension(t *testing.T) {
	st, _ := setupTestStash(t, stubExtractor{}, nil)
	ctx := context.Background()

	file, err := st.AddFile(ctx, writeSource(t, "a.txt"))
	require.NoError(t, err)
	st.Wait()

	require.NoError(t, file.SetName(ctx, "b"))

	name, err := file.Name(ctx)
	require.NoError(t, err)
	require.Equal(t, "b", name)

	extension, err := file.Extension(ctx)
	require.NoError(t, err)
	require.Equal(t, "txt", extension)
}

func TestFilesNear(t *testing.T) {
	st, _ := setupTestStash(t, stubExtractor{
		location: geo.Location{Latitude: 0, Longitude: 1},
		found:    true,
	}, nil)
	ctx := context.Background()

	file, err := st.AddFile(ctx, writeSource(t, "east.jpg"))
	require.NoError(t, err)
	st.Wait()

	center := geo.Location{Latitude: 0, Longitude: 0}

	near, err := st.FilesNear(ctx, center, 50)
	require.NoError(t, err)
	require.Empty(t, near, "111 km away is outside a 50 km radius")

	wide, err := st.FilesNear(ctx, center, 150)
	require.NoError(t, err)
	require.Len(t, wide, 1)
	require.Equal(t, file.ID(), wide[0].ID())
}

func TestWatchSeesImports(t *testing.T) {
	st, _ := setupTestStash(t, stubExtractor{}, nil)

	sub := st.Watch(context.Background(), store.FileRequest{Search: "holiday"})
	defer sub.Close()

	initial := <-sub.Updates()
	require.Empty(t, initial)

	file, err := st.AddFile(context.Background(), writeSource(t, "holiday.jpg"))
	require.NoError(t, err)
	st.Wait()

	ids := <-sub.Updates()
	require.Equal(t, []uint{file.ID()}, ids)
}
