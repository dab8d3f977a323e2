// Package docroot resolves request paths to files under a restricted root
// directory. All served files must canonicalize to a location below the
// root; traversal escapes are rejected, not cleaned up.
package docroot

import (
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
)

// Logical page names recognized in the overrides map.
const (
	PageIndex      = "index"
	PageBadRequest = "400"
	PageNotFound   = "404"
)

const defaultIndex = "index.html"

// Status classifies a resolution outcome.
type Status int

const (
	// StatusOK means the path resolved to a servable regular file.
	StatusOK Status = iota
	// StatusBadRequest means the path escaped the docroot.
	StatusBadRequest
	// StatusNotFound means the path stayed inside the docroot but does not
	// name an existing regular file.
	StatusNotFound
)

// Result describes the dispatch decision for one request path. File metadata
// is only populated for StatusOK.
type Result struct {
	Status      Status
	Path        string
	Size        int64
	ModTime     time.Time
	ContentType string
}

// Resolver maps request paths to files below a canonicalized docroot.
// It is read-only after construction and safe to share across sessions.
type Resolver struct {
	root  string
	pages map[string]string
}

// NewResolver canonicalizes root and validates that it is a directory.
// pages optionally overrides the logical "index", "400" and "404" pages
// with paths relative to root.
func NewResolver(root string, pages map[string]string) (*Resolver, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve docroot %s: %w", root, err)
	}
	abs, err = filepath.EvalSymlinks(abs)
	if err != nil {
		return nil, fmt.Errorf("resolve docroot %s: %w", root, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("stat docroot %s: %w", abs, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("docroot %s is not a directory", abs)
	}

	r := &Resolver{root: abs, pages: make(map[string]string, len(pages))}
	for name, rel := range pages {
		r.pages[name] = rel
	}
	return r, nil
}

// Root returns the canonicalized docroot.
func (r *Resolver) Root() string {
	return r.root
}

// Resolve maps one request path to a dispatch decision. "/" is substituted
// with the configured index page, a single leading "/" is stripped, and the
// result is joined with the docroot and canonicalized before the containment
// and existence checks.
func (r *Resolver) Resolve(reqPath string) Result {
	p := reqPath
	if p == "/" {
		p = "/" + r.page(PageIndex)
	}
	p = strings.TrimPrefix(p, "/")

	abs, ok := r.resolve(p)
	if !ok {
		return Result{Status: StatusBadRequest}
	}

	info, err := os.Stat(abs)
	if err != nil || !info.Mode().IsRegular() {
		return Result{Status: StatusNotFound}
	}

	return Result{
		Status:      StatusOK,
		Path:        abs,
		Size:        info.Size(),
		ModTime:     info.ModTime(),
		ContentType: guessContentType(abs),
	}
}

// ErrorPage returns the resolved custom page for a logical error name
// ("400" or "404"). ok is false when no page is configured or the
// configured page is itself unservable.
func (r *Resolver) ErrorPage(name string) (Result, bool) {
	rel, configured := r.pages[name]
	if !configured {
		return Result{}, false
	}
	res := r.Resolve("/" + rel)
	if res.Status != StatusOK {
		return Result{}, false
	}
	return res, true
}

// page returns the configured override for a logical name, or its default.
func (r *Resolver) page(name string) string {
	if rel, ok := r.pages[name]; ok {
		return rel
	}
	if name == PageIndex {
		return defaultIndex
	}
	return ""
}

// resolve joins rel with the docroot, canonicalizes and applies the
// containment check. Symlinks are followed for the longest existing prefix
// of the target, so a link pointing outside the docroot is caught even
// though the lexical join stays inside.
func (r *Resolver) resolve(rel string) (string, bool) {
	abs, err := filepath.Abs(filepath.Join(r.root, rel))
	if err != nil {
		return "", false
	}
	if !r.contains(abs) {
		return "", false
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		abs = resolved
		if !r.contains(abs) {
			return "", false
		}
	}
	return abs, true
}

// contains reports whether abs is the docroot itself or below it. The check
// is boundary-aware: /srv/doc does not contain /srv/docs.
func (r *Resolver) contains(abs string) bool {
	if abs == r.root {
		return true
	}
	return strings.HasPrefix(abs, r.root+string(filepath.Separator))
}

// guessContentType guesses from the file extension first and falls back to
// content sniffing for unknown extensions.
func guessContentType(path string) string {
	if ct := mime.TypeByExtension(filepath.Ext(path)); ct != "" {
		return ct
	}
	if mt, err := mimetype.DetectFile(path); err == nil {
		return mt.String()
	}
	return "application/octet-stream"
}
