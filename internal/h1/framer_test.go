package h1

import (
	"errors"
	"net"
	"testing"
	"time"
)

// writeAll writes b to conn in the background, in pieces of at most chunk
// bytes, so framing can be exercised against arbitrary read boundaries.
func writeAll(t *testing.T, conn net.Conn, b []byte, chunk int) {
	t.Helper()
	go func() {
		for len(b) > 0 {
			n := chunk
			if n > len(b) {
				n = len(b)
			}
			if _, err := conn.Write(b[:n]); err != nil {
				return
			}
			b = b[n:]
		}
	}()
}

func TestFramer_SingleFrame(t *testing.T) {
	client, server := net.Pipe()
	defer client.Close()
	defer server.Close()

	framer := NewFramer(server, 0, time.Second)
	writeAll(t, client, []byte("GET / HTTP/1.1\r\nHost: x\r\n\r\n"), 4096)

	frame, err := framer.Next()
	if err != nil {
		t.Fatalf("Next failed: %v", err)
	}
	if string(frame) != "GET / HTTP/1.1\r\nHost: x" {
		t.Errorf("Unexpected frame: %q", frame)
	}
	if framer.Pending() != 0 {
		t.Errorf("Expected empty buffer after frame, got %d bytes", framer.Pending())
	}
}

func TestFramer_ChunkingInvariance(t *testing.T) {
	raw := []byte("GET /some/path.html HTTP/1.1\r\nHost: example.com\r\nAccept: */*\r\n\r\n")
	want := "GET /some/path.html HTTP/1.1\r\nHost: example.com\r\nAccept: */*"

	for _, chunk := range []int{1, 2, 3, 7, 16, len(raw)} {
		client, server := net.Pipe()

		framer := NewFramer(server, 0, time.Second)
		writeAll(t, client, raw, chunk)

		frame, err := framer.Next()
		if err != nil {
			t.Fatalf("chunk=%d: Next failed: %v", chunk, err)
		}
		if string(frame) != want {
			t.Errorf("chunk=%d: frame %q, want %q", chunk, frame, want)
		}

		client.Close()
		server.Close()
	}
}

func TestFramer_PipelinedFramesInOneRead(t *testing.T) {
	client, server := net.Pipe()
	defer client.Close()
	defer server.Close()

	two := []byte("GET /a HTTP/1.1\r\nHost: x\r\n\r\nGET /b HTTP/1.1\r\nHost: x\r\n\r\n")
	writeAll(t, client, two, len(two))

	framer := NewFramer(server, 0, time.Second)

	first, err := framer.Next()
	if err != nil {
		t.Fatalf("first Next failed: %v", err)
	}
	if string(first) != "GET /a HTTP/1.1\r\nHost: x" {
		t.Errorf("Unexpected first frame: %q", first)
	}

	// The second frame must come from the retained buffer, no further read.
	second, err := framer.Next()
	if err != nil {
		t.Fatalf("second Next failed: %v", err)
	}
	if string(second) != "GET /b HTTP/1.1\r\nHost: x" {
		t.Errorf("Unexpected second frame: %q", second)
	}
}

func TestFramer_PeerClose(t *testing.T) {
	client, server := net.Pipe()
	defer server.Close()

	framer := NewFramer(server, 0, time.Second)
	go func() {
		_, _ = client.Write([]byte("GET / HT"))
		client.Close()
	}()

	_, err := framer.Next()
	if !errors.Is(err, ErrConnectionClosed) {
		t.Fatalf("Expected ErrConnectionClosed, got %v", err)
	}
}

func TestFramer_TimeoutCarriesPending(t *testing.T) {
	client, server := net.Pipe()
	defer client.Close()
	defer server.Close()

	framer := NewFramer(server, 0, 50*time.Millisecond)
	writeAll(t, client, []byte("GET / HTTP/1.1\r\n"), 4096)

	// Give the partial request time to arrive before the deadline fires.
	time.Sleep(10 * time.Millisecond)

	_, err := framer.Next()
	var timeout *RecvTimeoutError
	if !errors.As(err, &timeout) {
		t.Fatalf("Expected *RecvTimeoutError, got %v", err)
	}
	if timeout.Pending == 0 {
		t.Error("Expected pending bytes on timeout with partial request")
	}
}

func TestFramer_IdleTimeoutHasNoPending(t *testing.T) {
	client, server := net.Pipe()
	defer client.Close()
	defer server.Close()

	framer := NewFramer(server, 0, 50*time.Millisecond)

	_, err := framer.Next()
	var timeout *RecvTimeoutError
	if !errors.As(err, &timeout) {
		t.Fatalf("Expected *RecvTimeoutError, got %v", err)
	}
	if timeout.Pending != 0 {
		t.Errorf("Expected no pending bytes on idle timeout, got %d", timeout.Pending)
	}
}

func TestFramer_ResumableAfterTimeout(t *testing.T) {
	client, server := net.Pipe()
	defer client.Close()
	defer server.Close()

	framer := NewFramer(server, 0, 50*time.Millisecond)
	writeAll(t, client, []byte("GET / HTTP/1.1\r\nHost: x"), 4096)
	time.Sleep(10 * time.Millisecond)

	if _, err := framer.Next(); err == nil {
		t.Fatal("Expected timeout on incomplete frame")
	}

	// Finishing the frame after a timeout must still produce it whole.
	writeAll(t, client, []byte("\r\n\r\n"), 4096)
	frame, err := framer.Next()
	if err != nil {
		t.Fatalf("Next after resume failed: %v", err)
	}
	if string(frame) != "GET / HTTP/1.1\r\nHost: x" {
		t.Errorf("Unexpected frame after resume: %q", frame)
	}
}
