// Package h1 implements the HTTP/1.1 GET subset: frame detection on a raw
// TCP stream, request parsing, response rendering and the per-connection
// session loop.
package h1

import (
	"strings"
)

// requiredHeaders must all be present for a request to be accepted.
var requiredHeaders = []string{"Host"}

// Request is a parsed HTTP/1.1 request. It is immutable once parsed and
// consumed exactly once by the dispatch logic.
type Request struct {
	Method  string
	Path    string
	Headers map[string]string
}

// KeepAlive reports whether the client asked to reuse the connection for
// another request.
func (r *Request) KeepAlive() bool {
	return strings.EqualFold(r.Headers["Connection"], "keep-alive")
}

// ParseRequest parses one complete frame into a Request. It returns a
// *BadRequestError when the frame deviates from the supported subset:
// the request line must be exactly METHOD SP PATH SP VERSION with method
// "GET" and version "HTTP/1.1", every header line must split on a single
// ": " into key and value, and the Host header must be present.
//
// Duplicate headers silently overwrite, last occurrence wins. Header
// values are not validated further.
func ParseRequest(frame []byte) (*Request, error) {
	lines := strings.Split(string(frame), "\r\n")

	parts := strings.Split(lines[0], " ")
	if len(parts) != 3 {
		return nil, &BadRequestError{Reason: "request line must have 3 parts: " + lines[0]}
	}
	method, path, version := parts[0], parts[1], parts[2]
	if method != "GET" {
		return nil, &BadRequestError{Reason: "only GET is supported: " + method}
	}
	if version != "HTTP/1.1" {
		return nil, &BadRequestError{Reason: "only HTTP/1.1 is supported: " + version}
	}

	headers := make(map[string]string, len(lines)-1)
	for _, line := range lines[1:] {
		kv := strings.Split(line, ": ")
		if len(kv) != 2 {
			return nil, &BadRequestError{Reason: "malformed header line: " + line}
		}
		headers[kv[0]] = kv[1]
	}
	for _, key := range requiredHeaders {
		if _, ok := headers[key]; !ok {
			return nil, &BadRequestError{Reason: "missing required header: " + key}
		}
	}

	return &Request{Method: method, Path: path, Headers: headers}, nil
}
