// Package session provides the server-side session collaborator: a
// per-request store of session fields keyed by a session id, with id
// regeneration to mitigate session fixation.
package session

import "context"

// Store is a single browser session's server-side state. Implementations
// are request-scoped: they carry the current session id and read/write
// fields under it.
type Store interface {
	// Get returns the value stored under key, or common.ErrNotFound.
	Get(ctx context.Context, key string) (string, error)

	Set(ctx context.Context, key, value string) error

	Delete(ctx context.Context, key string) error

	// RegenerateID mints a new session id and moves the session data
	// under it, invalidating the old id.
	RegenerateID(ctx context.Context) error

	// Destroy tears down the whole session context.
	Destroy(ctx context.Context) error

	// ID returns the current session id, for transports that echo it
	// back to the client.
	ID() string
}
