package client

import (
	"context"
	"fmt"

	"github.com/mwantia/gostash/internal/config"
	"github.com/mwantia/gostash/internal/stash"
	"github.com/mwantia/gostash/pkg/content"
	"github.com/mwantia/gostash/pkg/db/store"
	"github.com/mwantia/gostash/pkg/geocode"
	"github.com/mwantia/gostash/pkg/log"
	"github.com/mwantia/gostash/pkg/metadata"
	"github.com/mwantia/gostash/pkg/notify"
	"github.com/mwantia/gostash/pkg/query"
)

// openStash wires a stash against the local configuration for one-shot
// commands. The returned cleanup closes the metadata store.
func openStash(ctx context.Context) (*stash.Stash, func(), error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger := log.NewLoggerService("gostash", cfg.Log)
	hub := notify.NewHub()

	metadataStore, err := store.NewSQLiteStore(store.SQLiteConfig{
		Path: cfg.Metadata.SQLite.Path,
	}, hub)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open metadata store: %w", err)
	}
	if err := metadataStore.Connect(ctx); err != nil {
		metadataStore.Close()
		return nil, nil, fmt.Errorf("failed to connect metadata store: %w", err)
	}
	if err := metadataStore.Migrate(ctx); err != nil {
		metadataStore.Close()
		return nil, nil, fmt.Errorf("failed to migrate metadata store: %w", err)
	}

	var geocoder stash.Geocoder
	if !cfg.Geocode.Disabled {
		client, err := geocode.NewClient(cfg.Geocode)
		if err != nil {
			metadataStore.Close()
			return nil, nil, err
		}
		geocoder = client
	}

	st := stash.New(stash.Options{
		Store:    metadataStore,
		Content:  content.NewLocalStore(cfg.Content.DataDir),
		Engine:   query.NewEngine(metadataStore, hub, logger),
		Metadata: metadata.NewExifExtractor(),
		Geocoder: geocoder,
		Logger:   logger,
	})

	cleanup := func() {
		metadataStore.Close()
	}

	return st, cleanup, nil
}
