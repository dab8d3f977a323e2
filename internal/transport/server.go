// Package transport provides the TCP listener and connection dispatcher:
// one blocking accept loop, one goroutine per accepted connection, an
// optional bounded-concurrency gate and a registry of tracked workers for
// graceful shutdown.
package transport

import (
	"errors"
	"fmt"
	"log"
	"net"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
)

// HandlerFunc handles one accepted connection. id is a correlation token
// shared with the session logs. The handler owns the connection and must
// close it.
type HandlerFunc func(id string, conn net.Conn)

// Config holds the dispatcher configuration.
type Config struct {
	// Addr is the listen address, e.g. ":8080". The listener is dual-stack
	// and address reuse follows the platform default for Go listeners.
	Addr string

	// MaxActive caps simultaneously running handlers. Zero means unlimited.
	// The cap bounds handlers, not accepts: new connections are still
	// accepted and their workers block on the gate.
	MaxActive int

	// DaemonWorkers makes dispatched workers fire-and-forget: they are not
	// tracked and Close does not wait for them.
	DaemonWorkers bool

	Logger *log.Logger
}

// Server accepts connections and dispatches them to workers.
type Server struct {
	handler HandlerFunc
	logger  *log.Logger
	daemon  bool
	addr    string

	ln   net.Listener
	gate chan struct{}

	// workers is the registry of tracked (non-daemon) workers, added on
	// dispatch and removed on completion; wg joins them during shutdown.
	mu      sync.Mutex
	workers map[string]net.Conn
	wg      sync.WaitGroup

	closed atomic.Bool
}

// NewServer creates a dispatcher. Call Listen before Serve.
func NewServer(cfg Config, handler HandlerFunc) *Server {
	if cfg.Logger == nil {
		cfg.Logger = log.Default()
	}
	s := &Server{
		handler: handler,
		logger:  cfg.Logger,
		daemon:  cfg.DaemonWorkers,
		workers: make(map[string]net.Conn),
	}
	if cfg.MaxActive > 0 {
		s.gate = make(chan struct{}, cfg.MaxActive)
	}
	s.addr = cfg.Addr
	return s
}

// Listen binds the listening socket. A bind failure is fatal to startup and
// returned to the caller.
func (s *Server) Listen() error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.addr, err)
	}
	s.ln = ln
	s.logger.Printf("listening on %s", ln.Addr())
	return nil
}

// Addr returns the bound address, useful when listening on port 0.
func (s *Server) Addr() net.Addr {
	if s.ln == nil {
		return nil
	}
	return s.ln.Addr()
}

// Serve runs the blocking accept loop. Each accepted connection is handed
// to a new worker goroutine immediately; accept is never blocked behind
// handler completion. Serve returns nil after Close.
func (s *Server) Serve() error {
	if s.ln == nil {
		if err := s.Listen(); err != nil {
			return err
		}
	}
	for {
		conn, err := s.ln.Accept()
		if err != nil {
			if s.closed.Load() || errors.Is(err, net.ErrClosed) {
				return nil
			}
			return fmt.Errorf("accept: %w", err)
		}
		s.dispatch(conn)
	}
}

// dispatch registers a worker for the connection and starts it. The gate is
// acquired inside the worker so a full gate queues workers, not accepts.
func (s *Server) dispatch(conn net.Conn) {
	id := uuid.NewString()[:8]
	if !s.daemon {
		s.mu.Lock()
		s.workers[id] = conn
		s.mu.Unlock()
		s.wg.Add(1)
	}

	go func() {
		defer func() {
			if !s.daemon {
				s.mu.Lock()
				delete(s.workers, id)
				s.mu.Unlock()
				s.wg.Done()
			}
		}()

		if s.gate != nil {
			s.gate <- struct{}{}
			defer func() { <-s.gate }()
		}
		s.handler(id, conn)
	}()
}

// ActiveWorkers returns the number of tracked workers. Always zero in
// daemon mode.
func (s *Server) ActiveWorkers() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.workers)
}

// Close stops accepting by closing the listening socket and, unless workers
// are daemons, blocks until every tracked worker finishes.
func (s *Server) Close() error {
	if s.closed.Swap(true) {
		return nil
	}
	var err error
	if s.ln != nil {
		err = s.ln.Close()
	}
	if !s.daemon {
		s.wg.Wait()
	}
	return err
}
