package server

import (
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/scroll/internal/auth"
	"github.com/desertthunder/scroll/internal/models"
	"github.com/desertthunder/scroll/internal/static"
)

const (
	PathSignup = "/api/auth/signup"
	PathLogin  = "/api/auth/login"
	PathLogout = "/api/auth/logout"
	PathStatus = "/api/auth/status"
	PathNotes  = "/api/notes"
)

// Middleware wraps an http.Handler and returns a new http.Handler with additional behavior.
//
// A middleware may change the request (attach parsed body, identity) before calling next, or write a
// complete response and return without calling next to end the chain early.
type Middleware func(http.Handler) http.Handler

// Router defines the interface for exact-path routing.
type Router interface {
	Handle(method, path string, handler http.Handler) // Handle registers a handler for the specified method and path
	ServeHTTP(w http.ResponseWriter, r *http.Request) // ServeHTTP implements http.Handler for the entire router
}

// Pipeline is an ordered list of [Middleware] composed around a terminal handler.
type Pipeline struct {
	middlewares []Middleware
}

// NewPipeline creates a [Pipeline] from middleware listed outermost first.
func NewPipeline(middleware ...Middleware) *Pipeline {
	p := &Pipeline{}
	p.Use(middleware...)
	return p
}

// Use appends middleware to the pipeline. Earlier middleware wraps later middleware.
func (p *Pipeline) Use(middleware ...Middleware) {
	for _, m := range middleware {
		if m != nil {
			p.middlewares = append(p.middlewares, m)
		}
	}
}

// Len reports the number of middleware in the pipeline.
func (p *Pipeline) Len() int {
	return len(p.middlewares)
}

// Then wraps handler with every middleware in the pipeline and returns the single entry point.
//
// Middleware is applied in reverse order so the first one added runs first.
func (p *Pipeline) Then(handler http.Handler) http.Handler {
	wrapped := handler

	for i := len(p.middlewares) - 1; i >= 0; i-- {
		wrapped = p.middlewares[i](wrapped)
	}

	return wrapped
}

// Options are the collaborators and limits for [New]. Users, Notes, Hasher and Tokens are required.
type Options struct {
	Logger       *log.Logger
	Static       *static.Table
	Users        models.UserRepository
	Notes        models.NoteRepository
	Hasher       *auth.Hasher
	Tokens       *auth.TokenCodec
	CookieName   string
	SecureCookie bool
	MaxBodyBytes int64
	RateLimit    float64
	RateBurst    int
}

// New assembles the application handler:
//
//	Logger -> RequestID -> RateLimit -> BodyParser -> AuthGate -> Dispatcher
func New(opts Options) http.Handler {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}

	cookieName := opts.CookieName
	if cookieName == "" {
		cookieName = "token"
	}

	h := &Handlers{
		users:        opts.Users,
		notes:        opts.Notes,
		hasher:       opts.Hasher,
		tokens:       opts.Tokens,
		cookieName:   cookieName,
		secureCookie: opts.SecureCookie,
		logger:       logger,
	}

	d := NewDispatcher(opts.Static, logger)
	d.HandleFunc(http.MethodPost, PathSignup, h.Signup)
	d.HandleFunc(http.MethodPost, PathLogin, h.Login)
	d.HandleFunc(http.MethodPost, PathLogout, h.Logout)
	d.HandleFunc(http.MethodGet, PathStatus, h.Status)
	d.HandleFunc(http.MethodGet, PathNotes, h.ListNotes)
	d.HandleFunc(http.MethodPost, PathNotes, h.CreateNote)

	pipeline := NewPipeline(
		Logger(logger),
		RequestID,
		RateLimit(opts.RateLimit, opts.RateBurst, PathSignup, PathLogin),
		BodyParser(opts.MaxBodyBytes),
		AuthGate(opts.Tokens, cookieName, PathStatus, PathNotes),
	)

	return pipeline.Then(d)
}
