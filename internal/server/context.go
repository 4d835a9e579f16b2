package server

import "context"

type contextKey int

const (
	bodyKey contextKey = iota
	userIDKey
	requestIDKey
)

// WithBody attaches a decoded JSON request body to ctx.
func WithBody(ctx context.Context, body any) context.Context {
	return context.WithValue(ctx, bodyKey, body)
}

// BodyFrom returns the decoded JSON body attached by [BodyParser].
// ok is false when no body was parsed or the body was JSON null.
func BodyFrom(ctx context.Context) (body any, ok bool) {
	body = ctx.Value(bodyKey)
	return body, body != nil
}

// WithUserID attaches the authenticated user ID to ctx.
func WithUserID(ctx context.Context, userID int64) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// UserIDFrom returns the user ID attached by [AuthGate].
func UserIDFrom(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(userIDKey).(int64)
	return id, ok && id > 0
}

// WithRequestID attaches a request ID to ctx.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestIDFrom returns the request ID attached by [RequestID].
func RequestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}
