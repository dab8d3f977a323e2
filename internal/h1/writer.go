package h1

import (
	"fmt"
	"io"
	"net"
	"os"
	"strconv"
)

// ResponseWriter renders response heads and streams bodies to a connection.
// Writes have no explicit deadline; they rely on transport-level blocking.
type ResponseWriter struct {
	conn net.Conn
}

// NewResponseWriter creates a writer over conn.
func NewResponseWriter(conn net.Conn) *ResponseWriter {
	return &ResponseWriter{conn: conn}
}

// WriteResponse sends a rendered response head. A partial write is a
// *ShortWriteError and fatal to the session.
func (w *ResponseWriter) WriteResponse(resp *Response) error {
	b := resp.Bytes()
	n, err := w.conn.Write(b)
	if err != nil {
		return fmt.Errorf("write response: %w", err)
	}
	if n != len(b) {
		return &ShortWriteError{Wrote: int64(n), Want: int64(len(b))}
	}
	return nil
}

// SendFile streams the file at path to the connection. The number of bytes
// sent must equal size, the value already declared in Content-Length;
// anything else is a *ShortWriteError.
func (w *ResponseWriter) SendFile(path string, size int64) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	// io.Copy lets the runtime use sendfile(2) on TCP connections.
	n, err := io.Copy(w.conn, f)
	if err != nil {
		return fmt.Errorf("send %s: %w", path, err)
	}
	if n != size {
		return &ShortWriteError{Wrote: n, Want: size}
	}
	return nil
}

// Text sends a complete plain-text response in one call. It is a convenience
// for registered request handlers.
func (w *ResponseWriter) Text(code int, body string) error {
	resp := NewResponse(code, [][2]string{
		{"Content-Type", "text/plain; charset=utf-8"},
		{"Content-Length", strconv.Itoa(len(body))},
	})
	if err := w.WriteResponse(resp); err != nil {
		return err
	}
	n, err := io.WriteString(w.conn, body)
	if err != nil {
		return fmt.Errorf("write body: %w", err)
	}
	if n != len(body) {
		return &ShortWriteError{Wrote: int64(n), Want: int64(len(body))}
	}
	return nil
}
