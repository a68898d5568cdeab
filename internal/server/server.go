package server

import (
	"net/http"

	"github.com/charmbracelet/log"
)

// Server is the HTTP front-end for running and watching sweeps.
type Server struct {
	mux     *http.ServeMux
	handler *Handlers
	addr    string
}

// NewServer wires the API routes over the given handlers.
func NewServer(addr string, handler *Handlers) *Server {
	s := &Server{
		mux:     http.NewServeMux(),
		handler: handler,
		addr:    addr,
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.mux.HandleFunc("/api/scenarios", s.handler.HandleScenarios)
	s.mux.HandleFunc("/api/sweep", s.handler.HandleSweep)
	s.mux.HandleFunc("/api/job", s.handler.HandleJob)
	s.mux.HandleFunc("/ws", s.handler.HandleWebSocket)
}

// Handler exposes the route table (used by tests).
func (s *Server) Handler() http.Handler {
	return s.mux
}

// Start blocks serving the API.
func (s *Server) Start() error {
	log.Info("server listening", "addr", s.addr)
	return http.ListenAndServe(s.addr, s.mux)
}
