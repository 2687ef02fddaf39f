// Package server implements the HTTP API for layout computation.
//
// Two endpoints cover the pipeline: POST /layout computes (or fetches from
// cache) a final layout document, and POST /layout/stream streams every
// snapshot of the computation as newline-delimited JSON so clients can
// animate the layout as it anneals.
package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/matzehuels/forcegraph/pkg/errors"
	"github.com/matzehuels/forcegraph/pkg/graph"
	"github.com/matzehuels/forcegraph/pkg/pipeline"
)

// Server routes layout requests to a pipeline runner.
type Server struct {
	runner *pipeline.Runner
	logger *log.Logger
	router chi.Router
}

// New creates a server around the given runner.
func New(runner *pipeline.Runner, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{
		runner: runner,
		logger: logger,
	}

	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(s.requestLogger)

	r.Get("/healthz", s.handleHealthz)
	r.Post("/layout", s.handleLayout)
	r.Post("/layout/stream", s.handleLayoutStream)

	s.router = r
	return s
}

// Handler returns the HTTP handler for mounting or testing.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe runs the server until ctx is canceled, then drains
// in-flight requests.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	s.logger.Info("server listening", "addr", addr)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

// layoutRequest is the body of both layout endpoints.
type layoutRequest struct {
	Graph   graph.Graph      `json:"graph"`
	Options pipeline.Options `json:"options"`
}

// layoutResponse is the body of POST /layout.
type layoutResponse struct {
	RunID  string       `json:"run_id"`
	Cached bool         `json:"cached"`
	Layout graph.Layout `json:"layout"`
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// handleLayout handles POST /layout.
func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	req, runID, ok := s.decodeRequest(w, r)
	if !ok {
		return
	}

	l, hit, err := s.runner.ComputeLayoutWithCacheInfo(r.Context(), req.Graph, req.Options)
	if err != nil {
		s.writeError(w, statusFor(err), err)
		return
	}

	s.logger.Info("layout computed",
		"run_id", runID,
		"nodes", req.Graph.NodeCount(),
		"cached", hit)

	s.writeJSON(w, http.StatusOK, layoutResponse{
		RunID:  runID,
		Cached: hit,
		Layout: l,
	})
}

// handleLayoutStream handles POST /layout/stream. Each snapshot is written
// as one NDJSON line and flushed immediately; a disconnecting client stops
// the computation via the request context.
func (s *Server) handleLayoutStream(w http.ResponseWriter, r *http.Request) {
	req, runID, ok := s.decodeRequest(w, r)
	if !ok {
		return
	}

	stream, err := s.runner.StreamLayout(r.Context(), req.Graph, req.Options)
	if err != nil {
		s.writeError(w, statusFor(err), err)
		return
	}

	w.Header().Set("Content-Type", "application/x-ndjson")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("X-Accel-Buffering", "no") // Disable nginx buffering
	w.WriteHeader(http.StatusOK)

	flusher, _ := w.(http.Flusher)
	enc := json.NewEncoder(w)
	ctx := r.Context()

	sent := 0
	for snap := range stream.All() {
		if ctx.Err() != nil {
			break
		}
		if err := enc.Encode(graph.FrameFromSnapshot(snap)); err != nil {
			break
		}
		if flusher != nil {
			flusher.Flush()
		}
		sent++
	}

	s.logger.Info("layout streamed",
		"run_id", runID,
		"nodes", req.Graph.NodeCount(),
		"frames", sent)
}

// decodeRequest parses and validates the request body. It writes the error
// response itself and reports success through the bool.
func (s *Server) decodeRequest(w http.ResponseWriter, r *http.Request) (layoutRequest, string, bool) {
	runID := uuid.NewString()

	var req layoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest,
			errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid request body"))
		return layoutRequest{}, runID, false
	}
	if err := req.Graph.Validate(); err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return layoutRequest{}, runID, false
	}
	return req, runID, true
}

// statusFor maps error codes to HTTP status codes.
func statusFor(err error) int {
	switch errors.GetCode(err) {
	case errors.ErrCodeInvalidInput,
		errors.ErrCodeInvalidShape,
		errors.ErrCodeInvalidGraph,
		errors.ErrCodeInvalidFormat,
		errors.ErrCodeInvalidConfig:
		return http.StatusBadRequest
	case errors.ErrCodeNotFound, errors.ErrCodeRunNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error("failed to encode response", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, err error) {
	s.writeJSON(w, status, map[string]any{
		"error": errors.UserMessage(err),
		"code":  string(errors.GetCode(err)),
	})
}

// requestLogger logs one line per request with latency.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start))
	})
}
