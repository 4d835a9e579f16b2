// Package models defines the records persisted by scroll and the repository contracts the HTTP layer
// depends on.
//
// The package contains two categories of types:
//   - Records: [User] and [Note], plain structs with JSON tags and a Validate method
//   - Contracts: [UserRepository] and [NoteRepository], implemented by internal/repositories
//
// Records carry integer IDs assigned by the database. A User's PasswordHash and Salt are never
// serialized.
package models
