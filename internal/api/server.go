package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/mwantia/gostash/internal/config"
	"github.com/mwantia/gostash/internal/stash"
	"github.com/mwantia/gostash/pkg/log"
)

// Server exposes the stash over HTTP for local UI frontends.
type Server struct {
	stash  *stash.Stash
	log    log.LoggerService
	router *chi.Mux
	server *http.Server
}

func NewServer(cfg config.APIConfig, st *stash.Stash, logger log.LoggerService) *Server {
	s := &Server{
		stash: st,
		log:   logger.Named("api"),
	}

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Recoverer)

	router.Get("/health", s.handleHealth)

	router.Route("/api", func(r chi.Router) {
		r.Post("/files", s.handleAddFile)
		r.Get("/files", s.handleListFiles)
		r.Get("/files/watch", s.handleWatchFiles)
		r.Get("/files/{id}", s.handleGetFile)
		r.Patch("/files/{id}", s.handleRenameFile)
		r.Delete("/files/{id}", s.handleDeleteFile)
		r.Get("/files/{id}/tags", s.handleGetTags)
		r.Put("/files/{id}/tags", s.handleSetTags)
		r.Post("/files/{id}/tags", s.handleAddTag)

		r.Get("/tags", s.handleListTags)
		r.Get("/extensions", s.handleListExtensions)
		r.Get("/geo/files", s.handleGeoFiles)
	})

	s.router = router
	s.server = &http.Server{
		Addr:              cfg.Listen,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return s
}

// Router returns the configured routes, mainly for tests.
func (s *Server) Router() http.Handler {
	return s.router
}

// Serve runs the HTTP server until the context ends.
func (s *Server) Serve(ctx context.Context) error {
	errs := make(chan error, 1)

	go func() {
		s.log.Info("Listening on %s", s.server.Addr)
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errs <- err
		}
	}()

	select {
	case err := <-errs:
		return fmt.Errorf("http server failed: %w", err)
	case <-ctx.Done():
	}

	shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return s.server.Shutdown(shutdown)
}
