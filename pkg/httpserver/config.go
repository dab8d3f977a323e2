// Package httpserver provides a minimal single-protocol static file server:
// an HTTP/1.1 GET subset served over raw TCP with per-connection keep-alive,
// bounded-concurrency dispatch and docroot containment.
package httpserver

import (
	"fmt"
	"io"
	"log"
	"os"
	"time"

	jsoniter "github.com/json-iterator/go"
)

// Config holds the server configuration options.
type Config struct {
	Addr        string        // Listen address, e.g. ":8080"
	Docroot     string        // Root directory served files must resolve under
	Pages       map[string]string // Overrides for "index", "400", "404" (relative to Docroot)
	BufferSize  int           // Socket read chunk size
	RecvTimeout time.Duration // Per-read timeout while waiting for a frame
	MaxActive   int           // Cap on concurrently running sessions (0 = unlimited)
	Daemon      bool          // Fire-and-forget workers, not joined on Close
	Logger      *log.Logger   // Logger for server events
}

// newSilentLogger creates a logger that discards all output.
func newSilentLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() Config {
	return Config{
		Addr:        ":8080",
		BufferSize:  4096,
		RecvTimeout: 3 * time.Second,
		Logger:      newSilentLogger(),
	}
}

// Validate checks and normalizes the configuration values.
func (c *Config) Validate() error {
	if c.Addr == "" {
		c.Addr = ":8080"
	}
	if c.BufferSize <= 0 {
		c.BufferSize = 4096
	}
	if c.RecvTimeout <= 0 {
		c.RecvTimeout = 3 * time.Second
	}
	if c.MaxActive < 0 {
		c.MaxActive = 0
	}
	if c.Logger == nil {
		c.Logger = newSilentLogger()
	}
	return nil
}

// fileConfig is the JSON shape of an on-disk configuration file.
type fileConfig struct {
	Addr               string            `json:"addr"`
	Docroot            string            `json:"docroot"`
	Pages              map[string]string `json:"pages"`
	BufferSize         int               `json:"buffer_size"`
	RecvTimeoutSeconds float64           `json:"recv_timeout_seconds"`
	MaxActive          int               `json:"max_active"`
	Daemon             bool              `json:"daemon"`
}

// LoadConfig reads a JSON configuration file and merges it over the
// defaults. Fields absent from the file keep their default values.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	var fc fileConfig
	if err := jsoniter.Unmarshal(data, &fc); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}

	if fc.Addr != "" {
		cfg.Addr = fc.Addr
	}
	if fc.Docroot != "" {
		cfg.Docroot = fc.Docroot
	}
	if len(fc.Pages) > 0 {
		cfg.Pages = fc.Pages
	}
	if fc.BufferSize > 0 {
		cfg.BufferSize = fc.BufferSize
	}
	if fc.RecvTimeoutSeconds > 0 {
		cfg.RecvTimeout = time.Duration(fc.RecvTimeoutSeconds * float64(time.Second))
	}
	if fc.MaxActive > 0 {
		cfg.MaxActive = fc.MaxActive
	}
	cfg.Daemon = fc.Daemon
	return cfg, nil
}
