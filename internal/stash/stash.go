package stash

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/mwantia/gostash/pkg/content"
	"github.com/mwantia/gostash/pkg/db/models"
	"github.com/mwantia/gostash/pkg/db/store"
	"github.com/mwantia/gostash/pkg/geo"
	"github.com/mwantia/gostash/pkg/geocode"
	"github.com/mwantia/gostash/pkg/log"
	"github.com/mwantia/gostash/pkg/metadata"
	"github.com/mwantia/gostash/pkg/query"
)

// Geocoder resolves coordinates into place names.
type Geocoder interface {
	Reverse(ctx context.Context, location geo.Location) (*geocode.Address, error)
}

// Stash ties the metadata store, the content store and the enrichment
// collaborators together behind the surface the CLI and HTTP API
// consume.
type Stash struct {
	store    store.MetadataStore
	content  content.Store
	engine   *query.Engine
	metadata metadata.Extractor
	geocoder Geocoder
	log      log.LoggerService
	wait     sync.WaitGroup
}

type Options struct {
	Store    store.MetadataStore
	Content  content.Store
	Engine   *query.Engine
	Metadata metadata.Extractor
	Geocoder Geocoder
	Logger   log.LoggerService
}

func New(opts Options) *Stash {
	return &Stash{
		store:    opts.Store,
		content:  opts.Content,
		engine:   opts.Engine,
		metadata: opts.Metadata,
		geocoder: opts.Geocoder,
		log:      opts.Logger.Named("stash"),
	}
}

// AddFile imports a file: a metadata row is created, the bytes are
// copied into the content store and the enrichment pipeline is kicked
// off in the background. The returned handle is valid as soon as this
// call returns; place-name tags may arrive later.
func (s *Stash) AddFile(ctx context.Context, sourcePath string) (*File, error) {
	name := filepath.Base(sourcePath)
	extension := strings.TrimPrefix(filepath.Ext(name), ".")

	record := &models.File{Name: name, Extension: extension}
	if err := s.store.CreateFile(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to create file record: %w", err)
	}

	if err := s.content.Store(ctx, sourcePath, record.ID); err != nil {
		// Without content the record is useless; drop it again so the
		// import either fully succeeds or leaves nothing behind.
		if derr := s.store.DeleteFile(ctx, record.ID); derr != nil {
			s.log.Warn("Failed to clean up record %d after content error: %v", record.ID, derr)
		}
		return nil, fmt.Errorf("failed to store file content: %w", err)
	}

	s.wait.Add(1)
	go s.autoTag(record.ID)

	return s.File(record.ID), nil
}

// File returns a non-owning handle; every accessor re-fetches current
// state from the store.
func (s *Stash) File(id uint) *File {
	return &File{id: id, stash: s}
}

// DeleteFile removes a file record; its tag associations cascade away
// with it. Stored content is left behind for now, which keeps deletion
// cheap but leaks the bytes until a cleanup pass exists.
func (s *Stash) DeleteFile(ctx context.Context, id uint) error {
	return s.store.DeleteFile(ctx, id)
}

// Files resolves a request into handles.
func (s *Stash) Files(ctx context.Context, req store.FileRequest) ([]*File, error) {
	ids, err := s.engine.Files(ctx, req)
	if err != nil {
		return nil, err
	}

	files := make([]*File, 0, len(ids))
	for _, id := range ids {
		files = append(files, s.File(id))
	}
	return files, nil
}

// Watch subscribes to the live result set of a request.
func (s *Stash) Watch(ctx context.Context, req store.FileRequest) *query.Subscription[[]uint] {
	return s.engine.Watch(ctx, req)
}

// AllTags lists every known tag content.
func (s *Stash) AllTags(ctx context.Context) ([]string, error) {
	return s.store.ListTags(ctx)
}

// WatchAllTags subscribes to the tag listing.
func (s *Stash) WatchAllTags(ctx context.Context) *query.Subscription[[]string] {
	return s.engine.WatchAllTags(ctx)
}

// Extensions lists every distinct file extension.
func (s *Stash) Extensions(ctx context.Context) ([]string, error) {
	return s.store.ListExtensions(ctx)
}

// WatchExtensions subscribes to the extension listing.
func (s *Stash) WatchExtensions(ctx context.Context) *query.Subscription[[]string] {
	return s.engine.WatchExtensions(ctx)
}

// FilesNear returns the files whose embedded GPS position lies within
// radiusKm of center. Files without a position never match. The check
// runs over a fresh snapshot; imports racing with the evaluation show up
// on the next call.
func (s *Stash) FilesNear(ctx context.Context, center geo.Location, radiusKm float64) ([]*File, error) {
	records, err := s.store.ListFiles(ctx)
	if err != nil {
		return nil, err
	}

	files := make([]*File, 0, len(records))
	for _, record := range records {
		files = append(files, s.File(record.ID))
	}

	return geo.WithinRadius(files, func(f *File) (geo.Location, bool) {
		return f.Location(ctx)
	}, center, radiusKm), nil
}

// Wait blocks until all in-flight enrichment pipelines finished. Used
// by one-shot CLI commands and by shutdown; a process exit before Wait
// returns simply abandons the remaining enrichment.
func (s *Stash) Wait() {
	s.wait.Wait()
}

// autoTag is the best-effort enrichment pipeline: locate the content,
// read embedded GPS coordinates, reverse-geocode them and attach the
// resulting place names as tags. Every failure ends the pipeline
// silently; enrichment never surfaces an error to the importer.
func (s *Stash) autoTag(fileID uint) {
	defer s.wait.Done()

	// Deliberately detached from the import's context: dismissing the
	// caller must not cancel enrichment, only process shutdown may.
	ctx := context.Background()
	run := uuid.NewString()[:8]

	path, err := s.content.Locate(fileID)
	if err != nil {
		s.log.Debug("[%s] No content for file %d, skipping enrichment: %v", run, fileID, err)
		return
	}

	location, ok := s.metadata.Location(path)
	if !ok {
		s.log.Debug("[%s] File %d carries no GPS metadata", run, fileID)
		return
	}

	if s.geocoder == nil {
		return
	}

	address, err := s.geocoder.Reverse(ctx, location)
	if err != nil {
		s.log.Warn("[%s] Reverse geocoding failed for file %d: %v", run, fileID, err)
		return
	}

	for _, place := range address.PlaceNames() {
		if err := s.store.AttachTag(ctx, fileID, place); err != nil {
			s.log.Warn("[%s] Failed to attach tag %q to file %d: %v", run, place, fileID, err)
		}
	}
}
