// Package server implements the HTTP surface of the notes service.
//
// # Pipeline
//
// Every request flows through a [Pipeline] of [Middleware] ending in a [Dispatcher]. A middleware either
// enriches the request and calls the next stage, or writes a complete response and stops. [New] assembles
// the production chain:
//
//	Logger -> RequestID -> RateLimit -> BodyParser -> AuthGate -> Dispatcher
//
// [BodyParser] attaches the decoded JSON body and [AuthGate] attaches the user ID from the session
// cookie. Handlers read both back with [BodyFrom] and [UserIDFrom].
//
// # Routing
//
// The [Dispatcher] matches the request path exactly. Files discovered under the public directory are
// served first, then the API routes. Unmatched paths get a JSON 404 and known paths with the wrong method
// get a 405 with an Allow header.
//
// # Errors
//
// Error replies share one shape:
//
//	{"error": "Bad Request", "message": "Email and password are required."}
//
// # Listening
//
// [Listen] binds the configured port, moving to the next port while the address is in use, and [Serve]
// runs the server until its context is cancelled.
package server
