// Package date provides cached, thread-safe HTTP date strings.
package date

import (
	"sync/atomic"
	"time"
)

// httpTimeFormat is RFC1123 in UTC, used for the Date and Last-Modified headers.
const httpTimeFormat = time.RFC1123

// currentDate caches the formatted date bytes to avoid time.Now().Format()
// on every response.
var currentDate atomic.Pointer[[]byte]

// StartTicker starts a ticker that refreshes the cached date string every
// 500ms. It returns a stop function.
func StartTicker() func() {
	update()

	ticker := time.NewTicker(500 * time.Millisecond)
	done := make(chan struct{})

	go func() {
		for {
			select {
			case <-ticker.C:
				update()
			case <-done:
				ticker.Stop()
				return
			}
		}
	}()

	return func() {
		close(done)
	}
}

func update() {
	b := []byte(time.Now().UTC().Format(httpTimeFormat))
	currentDate.Store(&b)
}

// Current returns the cached date header value.
func Current() []byte {
	p := currentDate.Load()
	if p == nil {
		// Fallback when the ticker was never started.
		return []byte(time.Now().UTC().Format(httpTimeFormat))
	}
	return *p
}

// Format renders a file modification time for the Last-Modified header.
func Format(t time.Time) string {
	return t.UTC().Format(httpTimeFormat)
}
