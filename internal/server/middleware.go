package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net"
	"net/http"
	"regexp"
	"slices"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/scroll/internal/auth"
	"github.com/desertthunder/scroll/internal/shared"
	"golang.org/x/time/rate"
)

// statusRecorder remembers the status code written through it.
type statusRecorder struct {
	http.ResponseWriter
	status  int
	written bool
}

func (s *statusRecorder) WriteHeader(status int) {
	if !s.written {
		s.status = status
		s.written = true
	}
	s.ResponseWriter.WriteHeader(status)
}

func (s *statusRecorder) Write(b []byte) (int, error) {
	if !s.written {
		s.status = http.StatusOK
		s.written = true
	}
	return s.ResponseWriter.Write(b)
}

func (s *statusRecorder) Unwrap() http.ResponseWriter {
	return s.ResponseWriter
}

// Logger emits one entry per request once the rest of the chain has returned, so the logged status is
// the one the client received. It never writes a response itself.
func Logger(logger *log.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(rec, r)

			logger.Info("request",
				"method", r.Method,
				"url", r.URL.RequestURI(),
				"status", rec.status,
				"duration", time.Since(start),
				"request_id", rec.Header().Get(RequestIDHeader),
			)
		})
	}
}

const (
	RequestIDHeader    = "X-Request-ID"
	maxRequestIDLength = 128
)

var validRequestID = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// RequestID propagates a well-formed inbound X-Request-ID or generates a new one, echoing it on the
// response and attaching it to the request context.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if len(id) == 0 || len(id) > maxRequestIDLength || !validRequestID.MatchString(id) {
			id = shared.GenerateID()
		}
		w.Header().Set(RequestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(WithRequestID(r.Context(), id)))
	})
}

// BodyParser decodes JSON bodies of POST requests sent as application/json and attaches the result to
// the request context. Other requests pass through untouched.
//
// Malformed JSON is answered with 400 and bodies over maxBytes with 413. maxBytes <= 0 disables the cap.
func BodyParser(maxBytes int64) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost || !isJSON(r.Header.Get("Content-Type")) {
				next.ServeHTTP(w, r)
				return
			}

			body := r.Body
			if maxBytes > 0 {
				body = http.MaxBytesReader(w, r.Body, maxBytes)
			}

			data, err := io.ReadAll(body)
			if err != nil {
				var tooLarge *http.MaxBytesError
				if errors.As(err, &tooLarge) {
					writeError(w, http.StatusRequestEntityTooLarge, "Request body too large.")
					return
				}
				writeError(w, http.StatusBadRequest, "Failed to read request body.")
				return
			}

			var parsed any
			if err := json.Unmarshal(bytes.TrimSpace(data), &parsed); err != nil {
				writeError(w, http.StatusBadRequest, "Invalid JSON body.")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithBody(r.Context(), parsed)))
		})
	}
}

func isJSON(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	return err == nil && mediaType == "application/json"
}

// AuthGate requires a valid session cookie on the protected paths and attaches the user ID it carries.
// Requests for any other path pass through.
//
// Failures are answered with 401, distinguishing a request with no cookies at all, a request without the
// session cookie and a cookie that fails verification. A codec without a secret is a 500.
func AuthGate(tokens *auth.TokenCodec, cookieName string, protected ...string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !slices.Contains(protected, r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			if r.Header.Get("Cookie") == "" {
				writeError(w, http.StatusUnauthorized, "Missing cookie.")
				return
			}

			cookie, err := r.Cookie(cookieName)
			if err != nil || cookie.Value == "" {
				writeError(w, http.StatusUnauthorized, "Missing token.")
				return
			}

			userID, err := tokens.Verify(cookie.Value)
			if errors.Is(err, shared.ErrMissingSecret) {
				writeError(w, http.StatusInternalServerError, "Failed to get JWT_SECRET.")
				return
			}
			if err != nil {
				writeError(w, http.StatusUnauthorized, "Failed to verify token.")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), userID)))
		})
	}
}

// clientLimiter is a token bucket for one client address.
type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// limiterSet hands out one [rate.Limiter] per client and forgets idle clients.
type limiterSet struct {
	mu      sync.Mutex
	clients map[string]*clientLimiter
	limit   rate.Limit
	burst   int
	idle    time.Duration
	now     func() time.Time
}

const (
	limiterIdleTimeout = 10 * time.Minute
	limiterPruneSize   = 1024
)

func newLimiterSet(perSecond float64, burst int) *limiterSet {
	if burst <= 0 {
		burst = 1
	}
	return &limiterSet{
		clients: make(map[string]*clientLimiter),
		limit:   rate.Limit(perSecond),
		burst:   burst,
		idle:    limiterIdleTimeout,
		now:     time.Now,
	}
}

func (s *limiterSet) allow(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if len(s.clients) >= limiterPruneSize {
		for k, c := range s.clients {
			if now.Sub(c.lastSeen) > s.idle {
				delete(s.clients, k)
			}
		}
	}

	c, ok := s.clients[key]
	if !ok {
		c = &clientLimiter{limiter: rate.NewLimiter(s.limit, s.burst)}
		s.clients[key] = c
	}
	c.lastSeen = now

	return c.limiter.AllowN(now, 1)
}

// RateLimit applies a per-client token bucket to the listed paths and answers 429 when it is empty.
// A non-positive perSecond returns nil, which [Pipeline.Use] skips.
func RateLimit(perSecond float64, burst int, paths ...string) Middleware {
	if perSecond <= 0 {
		return nil
	}
	limiters := newLimiterSet(perSecond, burst)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !slices.Contains(paths, r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			if !limiters.allow(clientIP(r)) {
				w.Header().Set("Retry-After", "1")
				writeError(w, http.StatusTooManyRequests, "Too many requests.")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
