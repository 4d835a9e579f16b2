package server

import (
	"net/http"
	"os"
	"sort"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/scroll/internal/static"
)

// Dispatcher is an exact-path [Router] that serves static routes before API routes.
//
// Unknown paths get a 404 and known paths with an unregistered method get a 405, so every request is
// answered exactly once.
type Dispatcher struct {
	static *static.Table
	routes map[string]map[string]http.Handler
	logger *log.Logger
}

var _ Router = (*Dispatcher)(nil)

// NewDispatcher creates a [Dispatcher] serving files from table. A nil table serves no static routes.
func NewDispatcher(table *static.Table, logger *log.Logger) *Dispatcher {
	if table == nil {
		table = static.Empty()
	}
	return &Dispatcher{
		static: table,
		routes: make(map[string]map[string]http.Handler),
		logger: logger,
	}
}

// Handle registers a handler for the specified method and exact path.
func (d *Dispatcher) Handle(method, path string, handler http.Handler) {
	methods, ok := d.routes[path]
	if !ok {
		methods = make(map[string]http.Handler)
		d.routes[path] = methods
	}
	methods[strings.ToUpper(method)] = handler
}

// HandleFunc registers a handler function for the specified method and exact path.
func (d *Dispatcher) HandleFunc(method, path string, handler http.HandlerFunc) {
	d.Handle(method, path, handler)
}

// ServeHTTP implements [http.Handler] for the entire dispatcher.
func (d *Dispatcher) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if route, ok := d.static.Lookup(r.URL.Path); ok {
		if r.Method != http.MethodGet {
			w.Header().Set("Allow", http.MethodGet)
			writeError(w, http.StatusMethodNotAllowed, "Method not allowed.")
			return
		}
		d.serveFile(w, r, route)
		return
	}

	methods, ok := d.routes[r.URL.Path]
	if !ok {
		writeError(w, http.StatusNotFound, "Route not found.")
		return
	}

	handler, ok := methods[r.Method]
	if !ok {
		w.Header().Set("Allow", allowed(methods))
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed.")
		return
	}

	handler.ServeHTTP(w, r)
}

func (d *Dispatcher) serveFile(w http.ResponseWriter, r *http.Request, route static.Route) {
	content, err := os.ReadFile(route.FilePath)
	if err != nil {
		d.logger.Error("error serving static file", "path", route.FilePath, "request_id", RequestIDFrom(r.Context()), "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to serve static files.")
		return
	}

	w.Header().Set("Content-Type", route.ContentType)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(content)
}

func allowed(methods map[string]http.Handler) string {
	names := make([]string, 0, len(methods))
	for m := range methods {
		names = append(names, m)
	}
	sort.Strings(names)
	return strings.Join(names, ", ")
}
