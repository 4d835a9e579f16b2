// Package repositories implements SQLite persistence for users and notes.
//
// Key Implementations:
//   - [UserRepository] : login identities with email lookups
//   - [NoteRepository] : notes scoped to their owning user
//
// Both implement the contracts in internal/models and accept a shared *sql.DB opened by
// shared.NewDatabase. Uniqueness of users.email is enforced by the schema: a duplicate insert is
// reported as shared.ErrConflict rather than checked up front, so concurrent signups cannot both
// succeed.
package repositories
