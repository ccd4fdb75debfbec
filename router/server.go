package router

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/opskit/actuator/logging"
)

// Server binds a Router to a TCP listener. One server owns exactly one
// listener; Start with port 0 asks the OS for an ephemeral port and
// returns the one actually bound.
type Server struct {
	router *Router
	logger logging.Logger

	mu       sync.Mutex
	listener net.Listener
	httpSrv  *http.Server
}

// NewServer creates a server for the given router.
func NewServer(r *Router, logger logging.Logger) *Server {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Server{router: r, logger: logger}
}

// Start binds the listener and begins serving. It returns the bound port.
func (s *Server) Start(port int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.listener != nil {
		return 0, errors.New("router: server already started")
	}

	listener, err := net.Listen("tcp", fmt.Sprintf(":%d", port))
	if err != nil {
		return 0, fmt.Errorf("router: listen on port %d: %w", port, err)
	}

	s.listener = listener
	s.httpSrv = &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := s.httpSrv.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error(context.Background(), "serve failed", logging.F("error", err.Error()))
		}
	}()

	bound := listener.Addr().(*net.TCPAddr).Port
	s.logger.Info(context.Background(), "server started",
		logging.F("port", bound),
		logging.F("base_path", s.router.BasePath()),
	)
	return bound, nil
}

// Port returns the bound port, or 0 before Start.
func (s *Server) Port() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return 0
	}
	return s.listener.Addr().(*net.TCPAddr).Port
}

// Stop closes the listener and drains in-flight requests until the context
// expires.
func (s *Server) Stop(ctx context.Context) error {
	s.mu.Lock()
	srv := s.httpSrv
	s.mu.Unlock()

	if srv == nil {
		return nil
	}
	return srv.Shutdown(ctx)
}

// Close closes the listener without waiting for in-flight requests.
func (s *Server) Close() error {
	s.mu.Lock()
	srv := s.httpSrv
	s.mu.Unlock()

	if srv == nil {
		return nil
	}
	return srv.Close()
}
