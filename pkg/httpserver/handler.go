package httpserver

import (
	"github.com/aunnnn/simple-http-server/internal/h1"
)

// Request is a parsed HTTP/1.1 request as seen by a registered handler.
type Request = h1.Request

// ResponseWriter renders response heads and streams bodies to the client.
type ResponseWriter = h1.ResponseWriter

// Response is a status code plus ordered header pairs.
type Response = h1.Response

// Handler is invoked with each parsed request in place of file serving.
// Returning an error aborts the connection.
type Handler interface {
	ServeRequest(w *ResponseWriter, req *Request) error
}

// HandlerFunc is an adapter to allow ordinary functions to be used as
// request handlers.
type HandlerFunc func(w *ResponseWriter, req *Request) error

// ServeRequest calls f(w, req).
func (f HandlerFunc) ServeRequest(w *ResponseWriter, req *Request) error {
	return f(w, req)
}
