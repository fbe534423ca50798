package query

import (
	"context"
	"sync"

	"github.com/mwantia/gostash/pkg/db/store"
	"github.com/mwantia/gostash/pkg/log"
	"github.com/mwantia/gostash/pkg/notify"
)

// Engine resolves file requests against the metadata store and keeps
// live subscriptions fed with fresh snapshots whenever the store
// changes.
type Engine struct {
	store store.MetadataStore
	hub   *notify.Hub
	log   log.LoggerService
}

func NewEngine(st store.MetadataStore, hub *notify.Hub, logger log.LoggerService) *Engine {
	return &Engine{
		store: st,
		hub:   hub,
		log:   logger.Named("query"),
	}
}

// Files is the one-shot variant of Watch.
func (e *Engine) Files(ctx context.Context, req store.FileRequest) ([]uint, error) {
	return e.store.SearchFiles(ctx, req)
}

// Subscription delivers immutable snapshots to a single observer. The
// channel carries the latest snapshot only; an observer that falls
// behind skips intermediate states instead of queueing them. Close is
// idempotent and stops all further evaluation for this subscription.
type Subscription[T any] struct {
	updates chan T
	cancel  func()
	once    sync.Once
}

// Updates returns the snapshot channel. It is closed after Close, or
// once the subscription's context ends.
func (s *Subscription[T]) Updates() <-chan T {
	return s.updates
}

func (s *Subscription[T]) Close() {
	s.once.Do(s.cancel)
}

func (s *Subscription[T]) push(snapshot T) {
	select {
	case s.updates <- snapshot:
	default:
		select {
		case <-s.updates:
		default:
		}
		select {
		case s.updates <- snapshot:
		default:
		}
	}
}

// Watch subscribes to the result set of a file request. The first
// snapshot is delivered immediately; every store mutation afterwards
// triggers a re-evaluation. Replacing the filter parameters means
// closing this subscription and opening a new one.
func (e *Engine) Watch(ctx context.Context, req store.FileRequest) *Subscription[[]uint] {
	return watch(ctx, e, func(ctx context.Context) ([]uint, error) {
		return e.store.SearchFiles(ctx, req)
	}, func(notify.Change) bool { return true })
}

// WatchFileTags subscribes to the tag list of a single file.
func (e *Engine) WatchFileTags(ctx context.Context, fileID uint) *Subscription[[]string] {
	return watch(ctx, e, func(ctx context.Context) ([]string, error) {
		return e.store.GetFileTags(ctx, fileID)
	}, func(change notify.Change) bool {
		return change.Entity == notify.EntityTags &&
			(change.FileID == 0 || change.FileID == fileID)
	})
}

// WatchAllTags subscribes to the full tag listing.
func (e *Engine) WatchAllTags(ctx context.Context) *Subscription[[]string] {
	return watch(ctx, e, e.store.ListTags, func(change notify.Change) bool {
		return change.Entity == notify.EntityTags
	})
}

// WatchExtensions subscribes to the distinct extension listing.
func (e *Engine) WatchExtensions(ctx context.Context) *Subscription[[]string] {
	return watch(ctx, e, e.store.ListExtensions, func(change notify.Change) bool {
		return change.Entity == notify.EntityFiles
	})
}

func watch[T any](ctx context.Context, e *Engine, fetch func(context.Context) (T, error), relevant func(notify.Change) bool) *Subscription[T] {
	events, unsubscribe := e.hub.Subscribe()
	ctx, cancel := context.WithCancel(ctx)

	sub := &Subscription[T]{
		updates: make(chan T, 1),
		cancel: func() {
			unsubscribe()
			cancel()
		},
	}

	go func() {
		defer close(sub.updates)
		defer sub.Close()

		evaluate := func() {
			snapshot, err := fetch(ctx)
			if err != nil {
				if ctx.Err() == nil {
					e.log.Warn("Failed to evaluate subscription: %v", err)
				}
				return
			}
			sub.push(snapshot)
		}

		evaluate()

		for {
			select {
			case <-ctx.Done():
				return
			case change, ok := <-events:
				if !ok {
					return
				}
				if relevant(change) {
					evaluate()
				}
			}
		}
	}()

	return sub
}
