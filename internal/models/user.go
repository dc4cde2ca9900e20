package models

import "time"

// User is the persisted account record. An ID of zero means the record is
// not loaded, i.e. "not found".
type User struct {
	ID       int64
	Email    string
	Username string

	// Password holds the stored digest, never the raw secret.
	Password string

	// Flags holds the configured role flags (admin, active, moderator by
	// default) as 0/1 integers. The "active" flag gates authentication.
	Flags map[string]int64

	// ActiveTo is the end of the account's validity window in
	// timex.Layout format. Empty means no expiry.
	ActiveTo string

	Logins        int64
	IPAddress     string
	LastIPAddress string
	TimeStamp     string
	LastTimeStamp string
	CreatedAt     time.Time
}

// Loaded reports whether the record was resolved from storage.
func (u *User) Loaded() bool {
	return u != nil && u.ID != 0
}

// IsActive reports whether the account's active flag is exactly 1.
func (u *User) IsActive() bool {
	return u != nil && u.Flags["active"] == 1
}
