// Package server exposes the scoring engine over HTTP.
package server

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"

	"jobgate/internal/classifier"
	"jobgate/internal/store"
)

// Config holds the HTTP server settings.
type Config struct {
	Addr string
	// ExcludeApplied removes postings the candidate already applied to
	// from recommendations.
	ExcludeApplied bool
}

// Server wires the store and the classifier into HTTP handlers.
type Server struct {
	store      *store.Store
	classifier *classifier.Classifier
	logger     *zap.Logger
	cfg        Config
}

func New(cfg Config, st *store.Store, cl *classifier.Classifier, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{store: st, classifier: cl, logger: logger, cfg: cfg}
}

// Handler returns the full route table wrapped in request logging.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("POST /api/classify", s.handleClassify)

	mux.HandleFunc("POST /api/postings", s.handleCreatePosting)
	mux.HandleFunc("GET /api/postings", s.handleListPostings)
	mux.HandleFunc("GET /api/postings/{id}", s.handleGetPosting)
	mux.HandleFunc("PUT /api/postings/{id}", s.handleUpdatePosting)
	mux.HandleFunc("DELETE /api/postings/{id}", s.handleDeletePosting)
	mux.HandleFunc("POST /api/postings/{id}/applications", s.handleApply)

	mux.HandleFunc("POST /api/profiles", s.handleCreateProfile)
	mux.HandleFunc("GET /api/profiles/{id}", s.handleGetProfile)
	mux.HandleFunc("GET /api/profiles/{id}/recommendations", s.handleRecommendations)

	return s.withRequestLogging(mux)
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.cfg.Addr,
		Handler:      s.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", zap.String("addr", s.cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down http server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}
