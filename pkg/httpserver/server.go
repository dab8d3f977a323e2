package httpserver

import (
	"fmt"
	"net"

	"github.com/aunnnn/simple-http-server/internal/date"
	"github.com/aunnnn/simple-http-server/internal/docroot"
	"github.com/aunnnn/simple-http-server/internal/h1"
	"github.com/aunnnn/simple-http-server/internal/transport"
)

// Server serves files from a restricted docroot over the HTTP/1.1 GET
// subset. A registered Handler replaces file serving entirely.
type Server struct {
	config    Config
	handler   Handler
	resolver  *docroot.Resolver
	transport *transport.Server
	stopDate  func()
}

// New creates a new Server with the provided configuration.
func New(config Config) *Server {
	if err := config.Validate(); err != nil {
		panic(err)
	}
	return &Server{config: config}
}

// NewWithDefaults creates a new Server with default configuration.
func NewWithDefaults() *Server {
	return New(DefaultConfig())
}

// Handler registers the per-request hook and returns the server for
// method chaining.
func (s *Server) Handler(handler Handler) *Server {
	s.handler = handler
	return s
}

// ListenAndServe binds the listener and blocks in the accept loop until
// Close is called. Either a docroot or a handler must be configured.
func (s *Server) ListenAndServe() error {
	if err := s.setup(); err != nil {
		return err
	}
	return s.transport.Serve()
}

// Listen binds the listening socket without serving yet. Useful with
// Addr when configured with port 0.
func (s *Server) Listen() error {
	if err := s.setup(); err != nil {
		return err
	}
	return s.transport.Listen()
}

// Serve runs the accept loop on a listener prepared by Listen.
func (s *Server) Serve() error {
	if s.transport == nil {
		return fmt.Errorf("server not listening")
	}
	return s.transport.Serve()
}

// Addr returns the bound listen address, or nil before Listen.
func (s *Server) Addr() net.Addr {
	if s.transport == nil {
		return nil
	}
	return s.transport.Addr()
}

// Close stops accepting connections and, unless daemon workers are
// configured, waits for in-flight sessions to finish.
func (s *Server) Close() error {
	if s.stopDate != nil {
		s.stopDate()
		s.stopDate = nil
	}
	if s.transport == nil {
		return nil
	}
	return s.transport.Close()
}

func (s *Server) setup() error {
	if s.transport != nil {
		return nil
	}
	if s.config.Docroot == "" && s.handler == nil {
		return fmt.Errorf("no docroot configured and no handler registered")
	}

	if s.config.Docroot != "" {
		resolver, err := docroot.NewResolver(s.config.Docroot, s.config.Pages)
		if err != nil {
			return err
		}
		s.resolver = resolver
	}

	s.stopDate = date.StartTicker()

	var hook h1.Handler
	if s.handler != nil {
		hook = s.handler.ServeRequest
	}
	sessionCfg := h1.SessionConfig{
		BufferSize:  s.config.BufferSize,
		RecvTimeout: s.config.RecvTimeout,
	}
	logger := s.config.Logger

	s.transport = transport.NewServer(transport.Config{
		Addr:          s.config.Addr,
		MaxActive:     s.config.MaxActive,
		DaemonWorkers: s.config.Daemon,
		Logger:        logger,
	}, func(id string, conn net.Conn) {
		h1.NewSession(conn, id, s.resolver, hook, sessionCfg, logger).Run()
	})
	return nil
}
