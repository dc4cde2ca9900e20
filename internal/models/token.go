package models

import "time"

// AuthToken is a persisted remember-me token. At most one generation of
// tokens is valid per account: issuing a new token deletes all prior ones.
type AuthToken struct {
	Token string

	UserID int64

	// UserAgent is the SHA-1 hex fingerprint of the user-agent string of
	// the browser the token was issued to.
	UserAgent string

	Expires   time.Time
	CreatedAt time.Time
}

// Expired reports whether the token is past its expiry at the given time.
func (t *AuthToken) Expired(now time.Time) bool {
	return now.After(t.Expires)
}
