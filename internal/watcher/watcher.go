package watcher

import (
	"context"
	"fmt"
	"os"

	"github.com/fsnotify/fsnotify"
	"github.com/mwantia/gostash/internal/stash"
	"github.com/mwantia/gostash/pkg/log"
)

// Watcher imports files dropped into a watched directory. Imports are
// best-effort: a file that cannot be imported is logged and skipped,
// the watcher keeps running.
type Watcher struct {
	dir      string
	stash    *stash.Stash
	log      log.LoggerService
	fsevents *fsnotify.Watcher
}

func New(dir string, st *stash.Stash, logger log.LoggerService) (*Watcher, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create watch directory: %w", err)
	}

	fsevents, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create filesystem watcher: %w", err)
	}

	if err := fsevents.Add(dir); err != nil {
		fsevents.Close()
		return nil, fmt.Errorf("failed to watch directory %s: %w", dir, err)
	}

	return &Watcher{
		dir:      dir,
		stash:    st,
		log:      logger.Named("watcher"),
		fsevents: fsevents,
	}, nil
}

// Run consumes filesystem events until the context ends.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.fsevents.Close()

	w.log.Info("Watching %s for new files", w.dir)

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.fsevents.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Create) {
				continue
			}

			info, err := os.Stat(event.Name)
			if err != nil || info.IsDir() {
				continue
			}

			if _, err := w.stash.AddFile(ctx, event.Name); err != nil {
				w.log.Warn("Failed to import %s: %v", event.Name, err)
				continue
			}
			w.log.Info("Imported %s", event.Name)

		case err, ok := <-w.fsevents.Errors:
			if !ok {
				return nil
			}
			w.log.Warn("Filesystem watcher error: %v", err)
		}
	}
}
