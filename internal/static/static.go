// Package static maps URL paths to files under a public asset directory.
//
// The [Table] is built once by walking the directory tree and is read-only afterwards, so it is safe to
// share between request goroutines without locking. Only .html, .css and .js files are routable.
// HTML routes drop the extension, and a final "index" segment collapses onto its directory:
//
//	index.html        -> /
//	about.html        -> /about
//	notes/index.html  -> /notes
//	styles/main.css   -> /styles/main.css
package static

import (
	"fmt"
	"io/fs"
	"path"
	"path/filepath"
	"sort"
	"strings"
)

// Route is a single static file and the Content-Type it is served with.
type Route struct {
	FilePath    string
	ContentType string
}

// Table is an immutable URL path to [Route] mapping.
type Table struct {
	routes map[string]Route
}

var contentTypes = map[string]string{
	".html": "text/html",
	".css":  "text/css",
	".js":   "application/javascript",
}

// Build walks root recursively and returns the route table for it.
//
// Files with other extensions are skipped. When two files flatten to the same route
// (for example about.html and about/index.html) the error reports both.
func Build(root string) (*Table, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve static root: %w", err)
	}

	routes := make(map[string]Route)

	err = filepath.WalkDir(absRoot, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		ext := strings.ToLower(filepath.Ext(p))
		contentType, ok := contentTypes[ext]
		if !ok {
			return nil
		}

		rel, err := filepath.Rel(absRoot, p)
		if err != nil {
			return err
		}

		urlPath := RoutePath(filepath.ToSlash(rel))
		if existing, dup := routes[urlPath]; dup {
			return fmt.Errorf("route %s maps to both %s and %s", urlPath, existing.FilePath, p)
		}

		routes[urlPath] = Route{FilePath: p, ContentType: contentType}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build static routes: %w", err)
	}

	return &Table{routes: routes}, nil
}

// Empty returns a table with no routes.
func Empty() *Table {
	return &Table{routes: map[string]Route{}}
}

// RoutePath converts a slash-separated path relative to the public root into its URL path.
func RoutePath(rel string) string {
	urlPath := "/" + strings.TrimPrefix(rel, "/")

	if strings.EqualFold(path.Ext(urlPath), ".html") {
		urlPath = urlPath[:len(urlPath)-len(".html")]
		if path.Base(urlPath) == "index" {
			urlPath = strings.TrimSuffix(urlPath, "index")
		}
	}

	if len(urlPath) > 1 {
		urlPath = strings.TrimSuffix(urlPath, "/")
	}

	return urlPath
}

// Lookup returns the route registered for an exact URL path.
func (t *Table) Lookup(urlPath string) (Route, bool) {
	route, ok := t.routes[urlPath]
	return route, ok
}

// Len reports the number of routes.
func (t *Table) Len() int {
	return len(t.routes)
}

// Paths returns every registered URL path in sorted order.
func (t *Table) Paths() []string {
	paths := make([]string, 0, len(t.routes))
	for p := range t.routes {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}
