package server

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/scroll/internal/auth"
	"github.com/desertthunder/scroll/internal/models"
	"github.com/desertthunder/scroll/internal/shared"
)

// Handlers implements the auth and notes endpoints.
type Handlers struct {
	users        models.UserRepository
	notes        models.NoteRepository
	hasher       *auth.Hasher
	tokens       *auth.TokenCodec
	cookieName   string
	secureCookie bool
	logger       *log.Logger
}

// Signup creates a user from {"email", "password"}.
func (h *Handlers) Signup(w http.ResponseWriter, r *http.Request) {
	fields, ok := requireStrings(w, r, "email", "password")
	if !ok {
		return
	}

	salt, err := auth.GenerateSalt(auth.SaltBytes)
	if err != nil {
		h.log(r).Error("failed to generate salt", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to create user.")
		return
	}

	user := models.NewUser(fields["email"], h.hasher.Hash(fields["password"], salt), salt)
	if err := h.users.Create(r.Context(), user); err != nil {
		if errors.Is(err, shared.ErrConflict) {
			writeError(w, http.StatusConflict, "Email address already exists.")
			return
		}
		h.log(r).Error("failed to create user", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to create user.")
		return
	}

	writeMessage(w, http.StatusCreated, "User created successfully.")
}

// Login checks {"email", "password"} and sets the session cookie.
func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	fields, ok := requireStrings(w, r, "email", "password")
	if !ok {
		return
	}

	user, err := h.users.GetByEmail(r.Context(), fields["email"])
	if errors.Is(err, shared.ErrNotFound) {
		writeError(w, http.StatusUnauthorized, "Failed to find user.")
		return
	}
	if err != nil {
		h.log(r).Error("failed to look up user", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to find user.")
		return
	}

	if !h.hasher.Verify(fields["password"], user.Salt, user.PasswordHash) {
		writeError(w, http.StatusUnauthorized, "Invalid password.")
		return
	}

	token, err := h.tokens.Issue(user.ID)
	if errors.Is(err, shared.ErrMissingSecret) {
		h.log(r).Error("JWT_SECRET is not set")
		writeError(w, http.StatusInternalServerError, "Failed to get JWT_SECRET.")
		return
	}
	if err != nil {
		h.log(r).Error("failed to issue token", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to issue token.")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     h.cookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.tokens.TTL().Seconds()),
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
	writeMessage(w, http.StatusOK, "User logged in.")
}

// Logout expires the session cookie. The token itself stays valid until it expires.
func (h *Handlers) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     h.cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
	writeMessage(w, http.StatusOK, "User logged out.")
}

// StatusResponse reports the identity behind a valid session.
type StatusResponse struct {
	Message string `json:"message"`
	UserID  int64  `json:"user_id"`
	Email   string `json:"email"`
}

// Status answers 200 when the session passed the auth gate and its user still exists.
func (h *Handlers) Status(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserIDFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Missing token.")
		return
	}

	user, err := h.users.Get(r.Context(), userID)
	if errors.Is(err, shared.ErrNotFound) {
		writeError(w, http.StatusUnauthorized, "Failed to find user.")
		return
	}
	if err != nil {
		h.log(r).Error("failed to look up user", "user_id", userID, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to find user.")
		return
	}

	writeJSON(w, http.StatusOK, StatusResponse{Message: "Authenticated.", UserID: user.ID, Email: user.Email})
}

// NotesResponse is the body of GET /api/notes.
type NotesResponse struct {
	Notes []*models.Note `json:"notes"`
}

// ListNotes returns the caller's notes.
func (h *Handlers) ListNotes(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserIDFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Missing token.")
		return
	}

	notes, err := h.notes.ListByUser(r.Context(), userID)
	if err != nil {
		h.log(r).Error("failed to list notes", "user_id", userID, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch notes.")
		return
	}

	writeJSON(w, http.StatusOK, NotesResponse{Notes: notes})
}

// NoteCreatedResponse is the body of a successful POST /api/notes.
type NoteCreatedResponse struct {
	Message string       `json:"message"`
	Note    *models.Note `json:"note"`
}

// CreateNote stores {"title", "content"} for the caller.
func (h *Handlers) CreateNote(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserIDFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Missing token.")
		return
	}

	fields, ok := requireStrings(w, r, "title", "content")
	if !ok {
		return
	}

	if strings.TrimSpace(fields["title"]) == "" {
		writeError(w, http.StatusBadRequest, "Title and content are required.")
		return
	}
	if utf8.RuneCountInString(fields["title"]) > models.MaxTitleLength {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Title must be at most %d characters.", models.MaxTitleLength))
		return
	}

	note := models.NewNote(userID, fields["title"], fields["content"])
	if err := h.notes.Create(r.Context(), note); err != nil {
		h.log(r).Error("failed to create note", "user_id", userID, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to create note.")
		return
	}

	writeJSON(w, http.StatusCreated, NoteCreatedResponse{Message: "Note created successfully.", Note: note})
}

// log tags the handler logger with the request ID.
func (h *Handlers) log(r *http.Request) *log.Logger {
	return shared.WithLogger(h.logger, "request_id", RequestIDFrom(r.Context()))
}

// requireStrings pulls the named string fields out of the parsed body, writing a 400 and returning
// false when the body is absent, a field is missing or empty, or a field is not a string.
func requireStrings(w http.ResponseWriter, r *http.Request, names ...string) (map[string]string, bool) {
	body, ok := BodyFrom(r.Context())
	if !ok {
		writeError(w, http.StatusBadRequest, "Request body missing.")
		return nil, false
	}

	object, _ := body.(map[string]any)
	label := fieldLabel(names)

	for _, name := range names {
		if isEmpty(object[name]) {
			writeError(w, http.StatusBadRequest, label+" are required.")
			return nil, false
		}
	}

	fields := make(map[string]string, len(names))
	for _, name := range names {
		s, ok := object[name].(string)
		if !ok {
			writeError(w, http.StatusBadRequest, label+" must be string.")
			return nil, false
		}
		fields[name] = s
	}

	return fields, true
}

// isEmpty reports whether a decoded JSON value counts as not provided.
func isEmpty(v any) bool {
	switch v := v.(type) {
	case nil:
		return true
	case string:
		return v == ""
	case bool:
		return !v
	case float64:
		return v == 0
	}
	return false
}

// fieldLabel renders ["email", "password"] as "Email and password".
func fieldLabel(names []string) string {
	var label string
	switch len(names) {
	case 0:
		return ""
	case 1:
		label = names[0]
	default:
		label = strings.Join(names[:len(names)-1], ", ") + " and " + names[len(names)-1]
	}

	first, size := utf8.DecodeRuneInString(label)
	return string(unicode.ToUpper(first)) + label[size:]
}
