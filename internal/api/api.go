// Package api implements the HTTP API over the movie service.
package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/movieflix/movieflix/internal/movies"
)

// Config holds API server configuration.
type Config struct {
	// AdminKey gates the export endpoint; empty disables the check.
	AdminKey     string
	DefaultLimit int
	MaxLimit     int
}

// Server is the HTTP API server.
type Server struct {
	movies *movies.Service
	cfg    Config
	log    *slog.Logger
}

// New creates an API server over the movie service.
func New(svc *movies.Service, cfg Config, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	return &Server{movies: svc, cfg: cfg, log: log}
}

// RegisterRoutes registers API routes on the given mux.
func (s *Server) RegisterRoutes(mux *http.ServeMux) {
	// Fixed paths must be registered before the {id} wildcard
	mux.HandleFunc("GET /api/v1/movies", s.searchMovies)
	mux.HandleFunc("GET /api/v1/movies/stats", s.getStats)
	mux.HandleFunc("GET /api/v1/movies/export", s.requireAdminKey(s.exportMovies))
	mux.HandleFunc("GET /api/v1/movies/{id}", s.getMovie)

	mux.HandleFunc("GET /api/v1/status", s.getStatus)
}

func (s *Server) searchMovies(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()
	q, err := movies.ParseQuery(movies.RawQuery{
		Search: params.Get("search"),
		Sort:   params.Get("sort"),
		Filter: params.Get("filter"),
		Limit:  params.Get("limit"),
		Page:   params.Get("page"),
		Offset: params.Get("offset"),
	}, movies.Limits{DefaultLimit: s.cfg.DefaultLimit, MaxLimit: s.cfg.MaxLimit})
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_QUERY", err.Error())
		return
	}

	result, info, err := s.movies.Search(r.Context(), q)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, searchResponse{
		Success:    true,
		Message:    "Movies retrieved successfully",
		Data:       result,
		Pagination: info,
	})
}

func (s *Server) getMovie(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "INVALID_ID", "Movie ID is required")
		return
	}

	m, err := s.movies.GetByID(r.Context(), id)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dataResponse{
		Success: true,
		Message: "Movie retrieved successfully",
		Data:    m,
	})
}

func (s *Server) getStats(w http.ResponseWriter, r *http.Request) {
	a, err := s.movies.Analytics(r.Context())
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dataResponse{
		Success: true,
		Message: "Analytics computed successfully",
		Data:    a,
	})
}

func (s *Server) getStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// writeServiceError maps the service error taxonomy to HTTP responses.
func (s *Server) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, movies.ErrNotFound):
		writeError(w, http.StatusNotFound, "NOT_FOUND", "Movie not found")
	case errors.Is(err, movies.ErrInvalidQuery):
		writeError(w, http.StatusBadRequest, "INVALID_QUERY", err.Error())
	case errors.Is(err, movies.ErrUpstream):
		s.log.Error("upstream failure", "path", r.URL.Path, "error", err)
		writeError(w, http.StatusBadGateway, "UPSTREAM_ERROR", "External movie provider failed")
	default:
		s.log.Error("internal error", "path", r.URL.Path, "error", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL", "Internal server error")
	}
}

func writeJSON(w http.ResponseWriter, code int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, code int, errCode, message string) {
	writeJSON(w, code, errorResponse{
		Success: false,
		Error:   errorBody{Message: message, Code: errCode},
	})
}
