package server

import (
	"net/http"

	"github.com/getmockd/libraryql/pkg/httputil"
)

// HealthResponse is the body of GET /healthz.
type HealthResponse struct {
	Status string `json:"status"`
	Uptime int    `json:"uptime"`
}

// ReadyResponse is the body of GET /readyz.
type ReadyResponse struct {
	Status  string `json:"status"`
	Authors int    `json:"authors"`
	Books   int    `json:"books"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	httputil.WriteOK(w, HealthResponse{Status: "healthy", Uptime: int(s.uptime().Seconds())})
}

func (s *Server) handleReady(w http.ResponseWriter, _ *http.Request) {
	if s.store == nil {
		httputil.WriteServiceUnavailable(w, "not_ready", "store not loaded")
		return
	}
	authors, books := s.store.Counts()
	httputil.WriteOK(w, ReadyResponse{Status: "ready", Authors: authors, Books: books})
}
