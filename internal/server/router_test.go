package server

import (
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/desertthunder/scroll/internal/shared"
	"github.com/desertthunder/scroll/internal/static"
	tu "github.com/desertthunder/scroll/internal/testing"
)

func TestDispatcher(t *testing.T) {
	root := tu.WriteTree(t, map[string]string{
		"index.html":       "<h1>home</h1>",
		"notes.html":       "<h1>notes</h1>",
		"css/style.css":    "body{}",
		"js/app.js":        "console.log(1)",
		"images/logo.png":  "png",
		"docs/index.html":  "<h1>docs</h1>",
		"docs/readme.html": "<h1>readme</h1>",
	})
	table, err := static.Build(root)
	if err != nil {
		t.Fatalf("failed to build static table: %v", err)
	}
	app := newTestApp(t, testSecret, table)

	t.Run("serves static routes", func(t *testing.T) {
		tests := []struct {
			path        string
			contentType string
			body        string
		}{
			{"/", "text/html", "<h1>home</h1>"},
			{"/notes", "text/html", "<h1>notes</h1>"},
			{"/docs", "text/html", "<h1>docs</h1>"},
			{"/docs/readme", "text/html", "<h1>readme</h1>"},
			{"/css/style.css", "text/css", "body{}"},
			{"/js/app.js", "application/javascript", "console.log(1)"},
		}

		for _, tt := range tests {
			rec := do(app.handler, http.MethodGet, tt.path, "")
			if rec.Code != http.StatusOK {
				t.Errorf("%s: expected 200, got %d", tt.path, rec.Code)
				continue
			}
			if got := rec.Header().Get("Content-Type"); got != tt.contentType {
				t.Errorf("%s: expected content type %q, got %q", tt.path, tt.contentType, got)
			}
			if rec.Body.String() != tt.body {
				t.Errorf("%s: expected body %q, got %q", tt.path, tt.body, rec.Body.String())
			}
		}
	})

	t.Run("html suffix and unknown extensions are not routed", func(t *testing.T) {
		for _, path := range []string{"/notes.html", "/index.html", "/images/logo.png", "/index"} {
			expectError(t, do(app.handler, http.MethodGet, path, ""), http.StatusNotFound, "Route not found.")
		}
	})

	t.Run("static routes accept GET only", func(t *testing.T) {
		rec := do(app.handler, http.MethodPost, "/notes", `{}`)
		expectError(t, rec, http.StatusMethodNotAllowed, "Method not allowed.")
		if rec.Header().Get("Allow") != http.MethodGet {
			t.Errorf("expected Allow: GET, got %q", rec.Header().Get("Allow"))
		}
	})

	t.Run("unknown path", func(t *testing.T) {
		rec := do(app.handler, http.MethodGet, "/api/missing", "")
		expectError(t, rec, http.StatusNotFound, "Route not found.")
		if rec.Header().Get("Content-Type") != "application/json" {
			t.Errorf("expected JSON 404, got %q", rec.Header().Get("Content-Type"))
		}
	})

	t.Run("wrong method on api route", func(t *testing.T) {
		rec := do(app.handler, http.MethodGet, PathSignup, "")
		expectError(t, rec, http.StatusMethodNotAllowed, "Method not allowed.")
		if rec.Header().Get("Allow") != http.MethodPost {
			t.Errorf("expected Allow: POST, got %q", rec.Header().Get("Allow"))
		}

		rec = do(app.handler, http.MethodDelete, PathNotes, "")
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("protected path should be gated before dispatch, got %d", rec.Code)
		}
	})

	t.Run("query string is ignored for matching", func(t *testing.T) {
		if rec := do(app.handler, http.MethodGet, "/notes?page=2", ""); rec.Code != http.StatusOK {
			t.Errorf("expected 200, got %d", rec.Code)
		}
	})

	t.Run("unreadable file", func(t *testing.T) {
		if err := os.Remove(filepath.Join(root, "notes.html")); err != nil {
			t.Fatalf("failed to remove file: %v", err)
		}
		expectError(t, do(app.handler, http.MethodGet, "/notes", ""), http.StatusInternalServerError, "Failed to serve static files.")
	})
}

func TestAllowed(t *testing.T) {
	d := NewDispatcher(nil, shared.NewLogger(io.Discard))
	noop := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})
	d.HandleFunc("post", "/x", noop)
	d.HandleFunc(http.MethodGet, "/x", noop)

	rec := do(d, http.MethodPut, "/x", "")
	if got := rec.Header().Get("Allow"); got != strings.Join([]string{http.MethodGet, http.MethodPost}, ", ") {
		t.Errorf("expected sorted methods, got %q", got)
	}
}
