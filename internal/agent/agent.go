package agent

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"time"

	"github.com/mwantia/fabric/pkg/container"
	"github.com/mwantia/gostash/internal/api"
	"github.com/mwantia/gostash/internal/config"
	"github.com/mwantia/gostash/internal/stash"
	"github.com/mwantia/gostash/internal/watcher"
	"github.com/mwantia/gostash/pkg/content"
	"github.com/mwantia/gostash/pkg/db/store"
	"github.com/mwantia/gostash/pkg/geocode"
	"github.com/mwantia/gostash/pkg/log"
	"github.com/mwantia/gostash/pkg/metadata"
	"github.com/mwantia/gostash/pkg/notify"
	"github.com/mwantia/gostash/pkg/query"
)

type GoStashAgent struct {
	mutex sync.RWMutex
	wait  sync.WaitGroup

	cfg *config.BaseConfig
	sc  *container.ServiceContainer
	log log.LoggerService

	store store.MetadataStore
	stash *stash.Stash
}

func NewAgent(cfg *config.BaseConfig) *GoStashAgent {
	return &GoStashAgent{
		cfg: cfg,
		sc:  container.NewServiceContainer(),
		log: log.NewLoggerService("gostash", cfg.Log),
	}
}

func (gsa *GoStashAgent) setupServices(ctx context.Context) error {
	errs := container.Errors{}

	gsa.log.Debug("Registering 'LoggerService'...")
	errs.Add(container.Register[log.LoggerServiceImpl](gsa.sc,
		container.With[log.LoggerService](),
		container.WithInstance(gsa.log)))

	hub := notify.NewHub()

	gsa.log.Debug("Opening metadata store at '%s'...", gsa.cfg.Metadata.SQLite.Path)
	metadataStore, err := store.NewSQLiteStore(store.SQLiteConfig{
		Path: gsa.cfg.Metadata.SQLite.Path,
	}, hub)
	if err != nil {
		return fmt.Errorf("failed to open metadata store: %w", err)
	}
	if err := metadataStore.Connect(ctx); err != nil {
		return fmt.Errorf("failed to connect metadata store: %w", err)
	}
	if err := metadataStore.Migrate(ctx); err != nil {
		return fmt.Errorf("failed to migrate metadata store: %w", err)
	}
	gsa.store = metadataStore

	gsa.log.Debug("Registering 'MetadataStore'...")
	errs.Add(container.Register[store.SQLiteStore](gsa.sc,
		container.With[store.MetadataStore](),
		container.WithInstance(metadataStore)))

	engine := query.NewEngine(metadataStore, hub, gsa.log)
	contentStore := content.NewLocalStore(gsa.cfg.Content.DataDir)

	var geocoder stash.Geocoder
	if !gsa.cfg.Geocode.Disabled {
		client, err := geocode.NewClient(gsa.cfg.Geocode)
		if err != nil {
			return fmt.Errorf("failed to create geocode client: %w", err)
		}
		geocoder = client
	}

	gsa.stash = stash.New(stash.Options{
		Store:    metadataStore,
		Content:  contentStore,
		Engine:   engine,
		Metadata: metadata.NewExifExtractor(),
		Geocoder: geocoder,
		Logger:   gsa.log,
	})

	gsa.log.Debug("Registering 'Stash'...")
	errs.Add(container.Register[stash.Stash](gsa.sc,
		container.WithInstance(gsa.stash)))

	return errs.Errors()
}

func (gsa *GoStashAgent) Serve(ctx context.Context) error {
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt)
	defer cancel()

	gsa.mutex.Lock()

	if err := gsa.setupServices(ctx); err != nil {
		gsa.mutex.Unlock()
		return err
	}

	server := api.NewServer(gsa.cfg.API, gsa.stash, gsa.log)
	gsa.wait.Add(1)
	go func() {
		defer gsa.wait.Done()
		if err := server.Serve(ctx); err != nil {
			gsa.log.Error("HTTP server stopped: %v", err)
			cancel()
		}
	}()

	if dir := gsa.cfg.Import.WatchDir; dir != "" {
		importWatcher, err := watcher.New(dir, gsa.stash, gsa.log)
		if err != nil {
			gsa.mutex.Unlock()
			return err
		}

		gsa.wait.Add(1)
		go func() {
			defer gsa.wait.Done()
			if err := importWatcher.Run(ctx); err != nil {
				gsa.log.Error("Import watcher stopped: %v", err)
			}
		}()
	}

	gsa.mutex.Unlock()
	<-ctx.Done()

	timeout, err := time.ParseDuration(gsa.cfg.ShutdownTimeout)
	if err != nil {
		// Set default of 60 seconds if error
		timeout = 60 * time.Second
	}

	shutdown, cancelShutdown := context.WithTimeout(context.Background(), timeout)
	defer cancelShutdown()

	// In-flight enrichment is abandoned if it outlives the timeout
	done := make(chan struct{})
	go func() {
		gsa.stash.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-shutdown.Done():
		gsa.log.Warn("Shutdown timeout reached, abandoning background enrichment")
	}

	if err := gsa.sc.Cleanup(shutdown); err != nil {
		return fmt.Errorf("failed to complete service container cleanup: %w", err)
	}

	if err := gsa.store.Close(); err != nil {
		gsa.log.Warn("Failed to close metadata store: %v", err)
	}

	gsa.wait.Wait()
	return nil
}
