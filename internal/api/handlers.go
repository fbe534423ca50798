package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/mwantia/gostash/internal/stash"
	"github.com/mwantia/gostash/pkg/db/store"
	"github.com/mwantia/gostash/pkg/geo"
)

type fileResponse struct {
	ID        uint     `json:"id"`
	Name      string   `json:"name"`
	Extension string   `json:"extension"`
	Tags      []string `json:"tags"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) fileResponse(ctx context.Context, file *stash.File) (*fileResponse, error) {
	name, err := file.Name(ctx)
	if err != nil {
		return nil, err
	}
	extension, err := file.Extension(ctx)
	if err != nil {
		return nil, err
	}
	tags, err := file.Tags(ctx)
	if err != nil {
		return nil, err
	}

	resp := &fileResponse{
		ID:        file.ID(),
		Name:      name,
		Extension: extension,
		Tags:      tags,
	}
	if location, ok := file.Location(ctx); ok {
		resp.Latitude = &location.Latitude
		resp.Longitude = &location.Longitude
	}
	return resp, nil
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	if errors.Is(err, store.ErrNotFound) {
		status = http.StatusNotFound
	}
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func fileID(r *http.Request) (uint, error) {
	id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid file id: %w", err)
	}
	return uint(id), nil
}

// parseRequest builds a FileRequest from query parameters: tags is a
// comma-separated list, op is "and" or "or" (default or), search is the
// name substring.
func parseRequest(r *http.Request) (store.FileRequest, error) {
	req := store.FileRequest{
		Search: r.URL.Query().Get("search"),
	}

	if raw := r.URL.Query().Get("tags"); raw != "" {
		for _, tag := range strings.Split(raw, ",") {
			if tag = strings.TrimSpace(tag); tag != "" {
				req.Tags = append(req.Tags, tag)
			}
		}
	}

	switch op := strings.ToLower(r.URL.Query().Get("op")); op {
	case "", "or":
		req.Operator = store.Or
	case "and":
		req.Operator = store.And
	default:
		return req, fmt.Errorf("unknown operator %q", op)
	}

	return req, nil
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleAddFile(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Path string `json:"path"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Path == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "a source path is required"})
		return
	}

	file, err := s.stash.AddFile(r.Context(), body.Path)
	if err != nil {
		s.writeError(w, err)
		return
	}

	resp, err := s.fileResponse(r.Context(), file)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleListFiles(w http.ResponseWriter, r *http.Request) {
	req, err := parseRequest(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	files, err := s.stash.Files(r.Context(), req)
	if err != nil {
		s.writeError(w, err)
		return
	}

	responses := make([]*fileResponse, 0, len(files))
	for _, file := range files {
		resp, err := s.fileResponse(r.Context(), file)
		if err != nil {
			s.writeError(w, err)
			return
		}
		responses = append(responses, resp)
	}
	writeJSON(w, http.StatusOK, responses)
}

// handleWatchFiles streams live result snapshots as server-sent events.
// Each event carries the full id list matching the request at that
// moment; the stream ends when the client disconnects.
func (s *Server) handleWatchFiles(w http.ResponseWriter, r *http.Request) {
	req, err := parseRequest(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "streaming unsupported"})
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	sub := s.stash.Watch(r.Context(), req)
	defer sub.Close()

	for {
		select {
		case <-r.Context().Done():
			return
		case ids, ok := <-sub.Updates():
			if !ok {
				return
			}
			payload, err := json.Marshal(ids)
			if err != nil {
				return
			}
			fmt.Fprintf(w, "data: %s\n\n", payload)
			flusher.Flush()
		}
	}
}

func (s *Server) handleGetFile(w http.ResponseWriter, r *http.Request) {
	id, err := fileID(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	resp, err := s.fileResponse(r.Context(), s.stash.File(id))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleRenameFile(w http.ResponseWriter, r *http.Request) {
	id, err := fileID(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	var body struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Name == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "a name is required"})
		return
	}

	if err := s.stash.File(id).SetName(r.Context(), body.Name); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDeleteFile(w http.ResponseWriter, r *http.Request) {
	id, err := fileID(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	if err := s.stash.DeleteFile(r.Context(), id); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleGetTags(w http.ResponseWriter, r *http.Request) {
	id, err := fileID(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	tags, err := s.stash.File(id).Tags(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tags)
}

func (s *Server) handleSetTags(w http.ResponseWriter, r *http.Request) {
	id, err := fileID(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	var body struct {
		Tags []string `json:"tags"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "a tag list is required"})
		return
	}

	if err := s.stash.File(id).SetTags(r.Context(), body.Tags); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleAddTag(w http.ResponseWriter, r *http.Request) {
	id, err := fileID(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	var body struct {
		Tag string `json:"tag"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || strings.TrimSpace(body.Tag) == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "a tag is required"})
		return
	}

	if err := s.stash.File(id).AddTag(r.Context(), body.Tag); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListTags(w http.ResponseWriter, r *http.Request) {
	tags, err := s.stash.AllTags(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tags)
}

func (s *Server) handleListExtensions(w http.ResponseWriter, r *http.Request) {
	extensions, err := s.stash.Extensions(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, extensions)
}

func (s *Server) handleGeoFiles(w http.ResponseWriter, r *http.Request) {
	lat, latErr := strconv.ParseFloat(r.URL.Query().Get("lat"), 64)
	lon, lonErr := strconv.ParseFloat(r.URL.Query().Get("lon"), 64)
	radius, radiusErr := strconv.ParseFloat(r.URL.Query().Get("radius_km"), 64)
	if latErr != nil || lonErr != nil || radiusErr != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "lat, lon and radius_km are required"})
		return
	}

	files, err := s.stash.FilesNear(r.Context(), geo.Location{Latitude: lat, Longitude: lon}, radius)
	if err != nil {
		s.writeError(w, err)
		return
	}

	responses := make([]*fileResponse, 0, len(files))
	for _, file := range files {
		resp, err := s.fileResponse(r.Context(), file)
		if err != nil {
			s.writeError(w, err)
			return
		}
		responses = append(responses, resp)
	}
	writeJSON(w, http.StatusOK, responses)
}
