// Package server exposes the cat service over HTTP. Handlers translate
// requests into coordinator calls and JSON responses; all caching policy
// lives below this layer.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/catops/catsvc/cache"
	"github.com/catops/catsvc/cats"
)

// Server hosts the HTTP API.
type Server struct {
	svc   *cats.Service
	cache *cache.Client
	log   *zap.Logger
	http  *http.Server
}

// New returns a Server listening on addr once ListenAndServe is called.
func New(addr string, svc *cats.Service, cacheClient *cache.Client, log *zap.Logger) *Server {
	s := &Server{svc: svc, cache: cacheClient, log: log}
	s.http = &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
	}
	return s
}

// Handler returns the route table. Exposed so tests can drive the API
// through httptest without binding a socket.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleList)
	mux.HandleFunc("POST /cats", s.handleCreate)
	mux.HandleFunc("GET /cats/search", s.handleSearch)
	mux.HandleFunc("GET /cats/{id}", s.handleGet)
	mux.HandleFunc("PATCH /cats/{id}", s.handleUpdate)
	mux.HandleFunc("DELETE /cats/{id}", s.handleDelete)
	mux.HandleFunc("GET /cache/status", s.handleCacheStatus)
	mux.HandleFunc("DELETE /cache/flush", s.handleCacheFlush)
	return mux
}

// ListenAndServe blocks until the server is shut down or fails.
func (s *Server) ListenAndServe() error {
	s.log.Info("http server listening", zap.String("addr", s.http.Addr))
	if err := s.http.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}
