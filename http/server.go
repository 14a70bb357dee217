// Package http exposes document extraction over HTTP.
package http

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/fwojciec/docmerge"
	"github.com/fwojciec/docmerge/crawl"
)

// DefaultAddr is the address the service listens on when none is given.
const DefaultAddr = "127.0.0.1:8000"

// ShutdownTimeout bounds how long Close waits for in-flight requests.
const ShutdownTimeout = 30 * time.Second

// Server serves the extraction API.
// Extraction runs are serialized because they share one browser.
type Server struct {
	ln     net.Listener
	server *http.Server
	router *http.ServeMux

	mu sync.Mutex

	// Addr is the bind address, e.g. "127.0.0.1:8000".
	Addr string

	Merger *crawl.Merger

	// Extractions backs the ledger endpoints. Optional.
	Extractions docmerge.ExtractionService

	Logger *slog.Logger
}

// NewServer returns a new Server with its routes registered.
func NewServer() *Server {
	s := &Server{
		router: http.NewServeMux(),
		Addr:   DefaultAddr,
	}
	s.server = &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	s.router.HandleFunc("POST /extract", s.handleExtract)
	s.router.HandleFunc("GET /extractions", s.handleExtractions)
	s.router.HandleFunc("GET /extractions/{id}", s.handleExtraction)
	s.router.HandleFunc("GET /healthz", s.handleHealth)
	return s
}

// Open binds the listener. Call Serve to start accepting requests.
func (s *Server) Open() (err error) {
	if s.ln, err = net.Listen("tcp", s.Addr); err != nil {
		return err
	}
	return nil
}

// Serve accepts requests until Close is called.
func (s *Server) Serve() error {
	if s.ln == nil {
		return docmerge.Errorf(docmerge.EINVALID, "server is not open")
	}
	if err := s.server.Serve(s.ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Close gracefully shuts down the server.
func (s *Server) Close(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, ShutdownTimeout)
	defer cancel()
	return s.server.Shutdown(ctx)
}

// URL returns the base URL of the open listener.
func (s *Server) URL() string {
	if s.ln == nil {
		return ""
	}
	return "http://" + s.ln.Addr().String()
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) logger() *slog.Logger {
	if s.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return s.Logger
}
