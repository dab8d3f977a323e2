package h1

import (
	"errors"
	"fmt"
)

// ErrConnectionClosed is returned by the framer when the peer closes the
// connection before a complete frame arrives.
var ErrConnectionClosed = errors.New("connection closed by peer")

// BadRequestError reports a request that violates the supported HTTP/1.1
// subset. The reason is human-readable and never sent on the wire.
type BadRequestError struct {
	Reason string
}

func (e *BadRequestError) Error() string {
	return "bad request: " + e.Reason
}

// RecvTimeoutError reports that a socket read exceeded the receive timeout
// before a complete frame was found. Pending is the number of buffered bytes
// belonging to the unfinished frame; zero means the connection was simply idle.
type RecvTimeoutError struct {
	Pending int
}

func (e *RecvTimeoutError) Error() string {
	return fmt.Sprintf("receive timed out with %d buffered bytes", e.Pending)
}

// ShortWriteError reports that fewer bytes reached the connection than the
// response declared. This violates the Content-Length contract and is fatal
// to the session.
type ShortWriteError struct {
	Wrote int64
	Want  int64
}

func (e *ShortWriteError) Error() string {
	return fmt.Sprintf("short write: sent %d of %d bytes", e.Wrote, e.Want)
}
