package h1

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net"
	"time"
)

// terminator delimits a complete request frame on the wire.
var terminator = []byte("\r\n\r\n")

const (
	// DefaultBufferSize is how much is read from the socket at a time.
	DefaultBufferSize = 4096

	// DefaultRecvTimeout bounds each individual socket read.
	DefaultRecvTimeout = 3 * time.Second
)

// Framer incrementally detects complete request frames on a connection.
// Bytes that arrive past a frame terminator are retained for the next call,
// so a single read may satisfy several frames and a frame may span many
// reads. A Framer is owned by exactly one session.
type Framer struct {
	conn    net.Conn
	timeout time.Duration
	chunk   []byte
	pending []byte
}

// NewFramer creates a framer over conn. Zero values select the defaults.
func NewFramer(conn net.Conn, bufferSize int, timeout time.Duration) *Framer {
	if bufferSize <= 0 {
		bufferSize = DefaultBufferSize
	}
	if timeout <= 0 {
		timeout = DefaultRecvTimeout
	}
	return &Framer{
		conn:    conn,
		timeout: timeout,
		chunk:   make([]byte, bufferSize),
	}
}

// Pending returns the number of buffered bytes not yet part of a frame.
func (f *Framer) Pending() int {
	return len(f.pending)
}

// Next blocks until one complete frame is available and returns it without
// the terminator. It returns ErrConnectionClosed when the peer closes before
// a terminator is seen, and *RecvTimeoutError when a single read exceeds the
// receive timeout. Next is resumable: buffered state survives across calls
// and across errors.
func (f *Framer) Next() ([]byte, error) {
	for {
		if i := bytes.Index(f.pending, terminator); i >= 0 {
			frame := make([]byte, i)
			copy(frame, f.pending[:i])
			f.pending = append(f.pending[:0], f.pending[i+len(terminator):]...)
			return frame, nil
		}

		if err := f.conn.SetReadDeadline(time.Now().Add(f.timeout)); err != nil {
			return nil, fmt.Errorf("set read deadline: %w", err)
		}
		n, err := f.conn.Read(f.chunk)
		if n > 0 {
			f.pending = append(f.pending, f.chunk[:n]...)
			continue
		}
		if err == nil {
			continue
		}

		if errors.Is(err, io.EOF) {
			return nil, ErrConnectionClosed
		}
		var nerr net.Error
		if errors.As(err, &nerr) && nerr.Timeout() {
			return nil, &RecvTimeoutError{Pending: len(f.pending)}
		}
		return nil, fmt.Errorf("read: %w", err)
	}
}
