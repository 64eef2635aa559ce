// Package server provides the HTTP API for InsightForge.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/insightforge/insightforge/internal/config"
	"github.com/insightforge/insightforge/internal/keyword"
	"github.com/insightforge/insightforge/internal/pipeline"
	"github.com/insightforge/insightforge/internal/storage"
	"github.com/insightforge/insightforge/internal/vector"
	"go.uber.org/zap"
)

// Server is the HTTP server for the InsightForge API.
type Server struct {
	pipeline     *pipeline.Pipeline
	storage      storage.Storage
	keywordIndex keyword.KeywordIndex
	vectorStore  *vector.Store // nil when the embedding path is disabled
	config       *config.Config
	logger       *zap.Logger
	server       *http.Server
}

// NewServer creates a server with the given dependencies. vectorStore may be
// nil; the find-similar endpoint then reports the capability as absent.
func NewServer(
	pipe *pipeline.Pipeline,
	store storage.Storage,
	kwIdx keyword.KeywordIndex,
	vectorStore *vector.Store,
	cfg *config.Config,
	logger *zap.Logger,
) *Server {
	return &Server{
		pipeline:     pipe,
		storage:      store,
		keywordIndex: kwIdx,
		vectorStore:  vectorStore,
		config:       cfg,
		logger:       logger,
	}
}

// Routes builds the chi router with all API endpoints.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(middleware.Compress(5))

	r.Post("/api/v1/process", s.handleProcess)
	r.Get("/api/v1/insights", s.handleListInsights)
	r.Get("/api/v1/insights/{id}", s.handleGetInsight)
	r.Get("/api/v1/insights/{id}/similar", s.handleSimilar)
	r.Get("/api/v1/epics", s.handleListEpics)
	r.Get("/api/v1/clusters", s.handleListClusters)
	r.Post("/api/v1/search", s.handleSearch)
	r.Get("/health", s.handleHealth)
	r.Get("/status", s.handleStatus)

	return r
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Server.Host, s.config.Server.Port)
	s.server = &http.Server{
		Addr:    addr,
		Handler: s.Routes(),
	}
	s.logger.Info("Starting server", zap.String("addr", addr))
	return s.server.ListenAndServe()
}

// Stop gracefully shuts down the server.
func (s *Server) Stop(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}
