package h1

import (
	"strconv"
	"strings"
	"testing"
)

func TestResponse_Bytes_RoundTrip(t *testing.T) {
	tests := []struct {
		code   int
		reason string
	}{
		{200, "OK"},
		{400, "Bad Request"},
		{404, "Not Found"},
	}

	for _, tt := range tests {
		t.Run(tt.reason, func(t *testing.T) {
			resp := NewResponse(tt.code, [][2]string{{"Content-Length", "12"}})
			head := string(resp.Bytes())

			lines := strings.Split(head, "\r\n")
			parts := strings.SplitN(lines[0], " ", 3)
			if len(parts) != 3 {
				t.Fatalf("Malformed status line: %q", lines[0])
			}
			if parts[0] != "HTTP/1.1" {
				t.Errorf("Expected HTTP/1.1, got %s", parts[0])
			}
			code, err := strconv.Atoi(parts[1])
			if err != nil || code != tt.code {
				t.Errorf("Expected code %d, got %s", tt.code, parts[1])
			}
			if parts[2] != tt.reason {
				t.Errorf("Expected reason %q, got %q", tt.reason, parts[2])
			}
		})
	}
}

func TestResponse_Bytes_Headers(t *testing.T) {
	resp := NewResponse(200, [][2]string{
		{"Content-Type", "text/html"},
		{"Content-Length", "5"},
	})
	head := string(resp.Bytes())

	if !strings.HasSuffix(head, "\r\n\r\n") {
		t.Error("Response head must end with a blank line")
	}
	if !strings.Contains(head, "Server: "+ServerName+"\r\n") {
		t.Error("Missing fixed Server header")
	}
	if !strings.Contains(head, "Date: ") {
		t.Error("Missing Date header")
	}
	if !strings.Contains(head, "Content-Type: text/html\r\n") {
		t.Error("Missing Content-Type header")
	}
	if !strings.Contains(head, "Content-Length: 5\r\n") {
		t.Error("Missing Content-Length header")
	}
}

func TestClientErrorAndNotFound(t *testing.T) {
	if got := ClientError().Code; got != 400 {
		t.Errorf("ClientError code = %d, want 400", got)
	}
	if got := NotFound().Code; got != 404 {
		t.Errorf("NotFound code = %d, want 404", got)
	}
	for _, resp := range []*Response{ClientError(), NotFound()} {
		if !strings.Contains(string(resp.Bytes()), "Connection: close\r\n") {
			t.Errorf("Error response %d missing Connection: close", resp.Code)
		}
	}
}
