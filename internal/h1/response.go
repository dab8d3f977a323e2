package h1

import (
	"strconv"

	"github.com/aunnnn/simple-http-server/internal/date"
)

// ServerName is sent in the Server header of every response.
const ServerName = "simple-http-server"

// Response is a status code plus ordered header pairs. Bodies are streamed
// separately by the ResponseWriter, so a Response only ever describes the
// head of the reply.
type Response struct {
	Code    int
	Headers [][2]string
}

// NewResponse creates a response with the given status and headers.
func NewResponse(code int, headers [][2]string) *Response {
	return &Response{Code: code, Headers: headers}
}

// ClientError returns the canonical 400 response head.
func ClientError() *Response {
	return NewResponse(400, [][2]string{{"Connection", "close"}})
}

// NotFound returns the canonical 404 response head.
func NotFound() *Response {
	return NewResponse(404, [][2]string{{"Connection", "close"}})
}

// Bytes renders the response head in wire format: status line, the fixed
// Server and Date headers, the caller-supplied headers, and a blank line.
func (r *Response) Bytes() []byte {
	size := 64 + len(ServerName)
	for _, h := range r.Headers {
		size += len(h[0]) + 2 + len(h[1]) + 2
	}

	buf := make([]byte, 0, size)
	buf = append(buf, "HTTP/1.1 "...)
	buf = strconv.AppendInt(buf, int64(r.Code), 10)
	buf = append(buf, ' ')
	buf = append(buf, statusText(r.Code)...)
	buf = append(buf, "\r\nServer: "...)
	buf = append(buf, ServerName...)
	buf = append(buf, "\r\nDate: "...)
	buf = append(buf, date.Current()...)
	buf = append(buf, '\r', '\n')
	for _, h := range r.Headers {
		buf = append(buf, h[0]...)
		buf = append(buf, ':', ' ')
		buf = append(buf, h[1]...)
		buf = append(buf, '\r', '\n')
	}
	buf = append(buf, '\r', '\n')
	return buf
}

// statusText returns the reason phrase for the supported status codes.
func statusText(code int) string {
	switch code {
	case 200:
		return "OK"
	case 400:
		return "Bad Request"
	case 404:
		return "Not Found"
	default:
		return "Unknown"
	}
}
