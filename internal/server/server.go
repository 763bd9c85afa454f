// Package server exposes sessions over an HTTP JSON API.
//
// Every route under /api/sessions/{id} works on one session: submitting
// prompts, merging payloads or free text, editing nodes and edges by hand,
// and exporting the diagram. Errors are returned as
//
//	{"error": {"code": "NODE_NOT_FOUND", "message": "node \"x\" not found"}}
//
// with the HTTP status derived from the code.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/archsketch/pkg/assistant"
	"github.com/matzehuels/archsketch/pkg/render/nodelink"
)

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 1 << 20

// Server serves the API.
type Server struct {
	svc      *assistant.Service
	renderer *nodelink.Renderer
	logger   *log.Logger

	// PromptTimeout bounds a single generation. Zero means no limit beyond
	// the client's connection.
	PromptTimeout time.Duration
}

// New creates a server. A nil renderer renders without caching.
func New(svc *assistant.Service, renderer *nodelink.Renderer, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	if renderer == nil {
		renderer = nodelink.NewRenderer(nil, nil, logger)
	}
	return &Server{svc: svc, renderer: renderer, logger: logger}
}

// Handler returns the routed API.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)
	r.Use(cors)

	r.Get("/healthz", s.handleHealth)

	r.Route("/api/sessions", func(r chi.Router) {
		r.Get("/", s.handleListSessions)
		r.Post("/", s.handleCreateSession)

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.handleGetSession)
			r.Delete("/", s.handleDeleteSession)

			r.Post("/prompt", s.handlePrompt)
			r.Post("/apply", s.handleApply)
			r.Post("/ingest", s.handleIngest)

			r.Get("/diagram", s.handleGetDiagram)
			r.Put("/diagram", s.handleReplaceDiagram)
			r.Delete("/diagram", s.handleClearDiagram)
			r.Get("/export", s.handleExport)

			r.Post("/nodes", s.handleAddNode)
			r.Patch("/nodes/{nodeID}", s.handleUpdateNode)
			r.Put("/nodes/{nodeID}/position", s.handleMoveNode)
			r.Delete("/nodes/{nodeID}", s.handleDeleteNode)

			r.Post("/edges", s.handleAddEdge)
			r.Delete("/edges/{edgeID}", s.handleDeleteEdge)
		})
	})
	return r
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		s.logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
