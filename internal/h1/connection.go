package h1

import (
	"errors"
	"log"
	"net"
	"strconv"
	"sync"
	"time"

	"github.com/aunnnn/simple-http-server/internal/date"
	"github.com/aunnnn/simple-http-server/internal/docroot"
	"github.com/aunnnn/simple-http-server/internal/metrics"
)

// Handler is the optional per-request hook. When set on a session it is
// invoked with each parsed request in place of file serving.
type Handler func(w *ResponseWriter, req *Request) error

// SessionConfig carries the per-session tunables.
type SessionConfig struct {
	BufferSize  int
	RecvTimeout time.Duration
}

// Session orchestrates one accepted connection: it pulls frames, parses
// them, dispatches to the file resolver or the registered handler, and
// writes responses until the client closes, a non-keep-alive request
// completes, or a timeout or parse failure ends the loop. Each session
// owns its connection and buffers exclusively.
type Session struct {
	conn      net.Conn
	id        string
	framer    *Framer
	writer    *ResponseWriter
	resolver  *docroot.Resolver
	handler   Handler
	logger    *log.Logger
	closeOnce sync.Once
}

// NewSession creates a session for conn. resolver may be nil when a handler
// is registered; id is a correlation token for logs.
func NewSession(conn net.Conn, id string, resolver *docroot.Resolver, handler Handler, cfg SessionConfig, logger *log.Logger) *Session {
	return &Session{
		conn:     conn,
		id:       id,
		framer:   NewFramer(conn, cfg.BufferSize, cfg.RecvTimeout),
		writer:   NewResponseWriter(conn),
		resolver: resolver,
		handler:  handler,
		logger:   logger,
	}
}

// Run drives the session to completion and always closes the connection
// exactly once, whichever path terminates the loop.
func (s *Session) Run() {
	metrics.ActiveConnections.Inc()
	defer metrics.ActiveConnections.Dec()
	defer s.Close()

	for {
		frame, err := s.framer.Next()
		if err != nil {
			s.finishOnReadError(err)
			return
		}

		start := time.Now()
		req, err := ParseRequest(frame)
		if err != nil {
			s.logger.Printf("[%s] %v", s.id, err)
			if werr := s.sendError(400, false); werr != nil {
				s.logger.Printf("[%s] %v", s.id, werr)
			}
			return
		}

		if s.handler != nil {
			err = s.handler(s.writer, req)
		} else {
			err = s.serveFile(req)
		}
		metrics.RequestDuration.Observe(time.Since(start).Seconds())
		if err != nil {
			s.logger.Printf("[%s] session aborted: %v", s.id, err)
			return
		}
		if !req.KeepAlive() {
			return
		}
	}
}

// finishOnReadError applies the termination rules for a failed frame read:
// peer close ends the session cleanly, a timeout with buffered bytes is an
// abandoned request and gets a 400, a timeout with nothing buffered is an
// idle close with no response.
func (s *Session) finishOnReadError(err error) {
	var timeout *RecvTimeoutError
	switch {
	case errors.Is(err, ErrConnectionClosed):
	case errors.As(err, &timeout):
		if timeout.Pending > 0 {
			s.logger.Printf("[%s] %v", s.id, timeout)
			if werr := s.sendError(400, false); werr != nil {
				s.logger.Printf("[%s] %v", s.id, werr)
			}
		}
	default:
		s.logger.Printf("[%s] transport failure: %v", s.id, err)
	}
}

// serveFile resolves the request path and sends exactly one response.
// A 400 or 404 outcome is a complete response, not a session error; only
// transport failures and short writes propagate.
func (s *Session) serveFile(req *Request) error {
	result := s.resolver.Resolve(req.Path)
	switch result.Status {
	case docroot.StatusBadRequest:
		s.logger.Printf("[%s] path escapes docroot: %s", s.id, req.Path)
		return s.sendError(400, true)
	case docroot.StatusNotFound:
		return s.sendError(404, true)
	}

	connection := "close"
	if req.KeepAlive() {
		connection = "keep-alive"
	}
	resp := NewResponse(200, [][2]string{
		{"Content-Type", result.ContentType},
		{"Content-Length", strconv.FormatInt(result.Size, 10)},
		{"Last-Modified", date.Format(result.ModTime)},
		{"Connection", connection},
	})
	if err := s.writer.WriteResponse(resp); err != nil {
		return err
	}
	if err := s.writer.SendFile(result.Path, result.Size); err != nil {
		return err
	}
	metrics.RequestsTotal.WithLabelValues("200").Inc()
	metrics.BodyBytesSent.Add(float64(result.Size))
	return nil
}

// sendError sends a 400 or 404 response, optionally streaming the
// configured custom error page as its body.
func (s *Session) sendError(code int, withPage bool) error {
	resp := ClientError()
	page := docroot.PageBadRequest
	if code == 404 {
		resp = NotFound()
		page = docroot.PageNotFound
	}

	var body *docroot.Result
	if withPage && s.resolver != nil {
		if res, ok := s.resolver.ErrorPage(page); ok {
			body = &res
			resp.Headers = append(resp.Headers,
				[2]string{"Content-Type", res.ContentType},
				[2]string{"Content-Length", strconv.FormatInt(res.Size, 10)},
			)
		}
	}

	if err := s.writer.WriteResponse(resp); err != nil {
		return err
	}
	if body != nil {
		if err := s.writer.SendFile(body.Path, body.Size); err != nil {
			return err
		}
		metrics.BodyBytesSent.Add(float64(body.Size))
	}
	metrics.RequestsTotal.WithLabelValues(strconv.Itoa(code)).Inc()
	return nil
}

// Close closes the underlying connection. Safe to call more than once.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		_ = s.conn.Close()
	})
}
