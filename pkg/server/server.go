// Package server runs the libraryql HTTP server: the GraphQL endpoint, health
// probes and the middleware chain in front of them.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/getmockd/libraryql/pkg/api"
	"github.com/getmockd/libraryql/pkg/config"
	"github.com/getmockd/libraryql/pkg/graphql"
	"github.com/getmockd/libraryql/pkg/library"
	"github.com/getmockd/libraryql/pkg/logging"
)

// Server serves the library store over HTTP.
type Server struct {
	cfg        config.ServerConfig
	store      *library.Store
	graphql    *graphql.Handler
	httpServer *http.Server
	log        *slog.Logger

	mu        sync.Mutex
	listener  net.Listener
	startTime time.Time
}

// New builds a server for store. It fails when the GraphQL resolvers do not
// match the schema.
func New(cfg *config.Config, store *library.Store) (*Server, error) {
	if cfg == nil {
		cfg = config.Default()
	}

	gql, err := api.NewHandler(store, api.Options{
		Path:          cfg.Server.Path,
		Introspection: cfg.GraphQL.Introspection,
		GraphiQL:      cfg.GraphQL.GraphiQL,
		MaxBodySize:   cfg.Server.MaxBodySize,
	})
	if err != nil {
		return nil, fmt.Errorf("build graphql handler: %w", err)
	}

	s := &Server{
		cfg:     cfg.Server,
		store:   store,
		graphql: gql,
		log:     logging.Nop(),
	}
	s.httpServer = &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           s.Handler(),
		ReadTimeout:       cfg.Server.ReadTimeout,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      cfg.Server.WriteTimeout,
	}
	return s, nil
}

// SetLogger sets the operational logger for the server and its handlers.
func (s *Server) SetLogger(log *slog.Logger) {
	if log == nil {
		log = logging.Nop()
	}
	s.log = log
	s.graphql.SetLogger(logging.Component(log, "graphql"))
	s.httpServer.ErrorLog = slog.NewLogLogger(log.Handler(), slog.LevelWarn)
}

// Handler returns the full middleware chain. The chain reads the logger at
// request time so SetLogger may be called after Handler.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle(s.graphql.Pattern(), s.graphql)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)

	var h http.Handler = mux
	h = NewCORSMiddleware(h, s.cfg.CORS)
	h = s.accessLog(h)
	h = s.requestID(h)
	return h
}

// Start binds the listen address and serves in the background.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.httpServer.Addr, err)
	}
	s.mu.Lock()
	s.listener = ln
	s.startTime = time.Now()
	s.mu.Unlock()

	s.log.Info("starting server", "addr", ln.Addr().String(), "graphql", s.graphql.Pattern())
	go func() {
		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.Error("server error", "error", err)
		}
	}()
	return nil
}

// Addr returns the bound address once started, or the configured one.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return s.httpServer.Addr
}

// Shutdown gracefully stops the server, waiting for in-flight requests until
// ctx expires.
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info("stopping server")
	return s.httpServer.Shutdown(ctx)
}

// Run starts the server and blocks until ctx is cancelled, then shuts down
// within the configured shutdown timeout.
func (s *Server) Run(ctx context.Context) error {
	if err := s.Start(); err != nil {
		return err
	}
	<-ctx.Done()

	timeout := s.cfg.ShutdownTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := s.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	s.log.Info("server stopped", "uptime", s.uptime().Round(time.Second).String())
	return nil
}

func (s *Server) uptime() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.startTime.IsZero() {
		return 0
	}
	return time.Since(s.startTime)
}
