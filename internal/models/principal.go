package models

// Principal is the denormalized account snapshot cached in the session for
// the duration of a browser session. It is not authoritative: the User
// record remains the source of truth, and staleness is tolerated until the
// next reload or login.
type Principal struct {
	ID            int64            `json:"id"`
	Email         string           `json:"email"`
	Username      string           `json:"username"`
	Flags         map[string]int64 `json:"flags"`
	ActiveTo      string           `json:"active_to"`
	Logins        int64            `json:"logins"`
	IPAddress     string           `json:"ip_address"`
	LastIPAddress string           `json:"last_ip_address"`
	TimeStamp     string           `json:"time_stamp"`
	LastTimeStamp string           `json:"last_time_stamp"`
}

// PrincipalFromUser builds a session snapshot from a loaded account.
func PrincipalFromUser(u *User) *Principal {
	flags := make(map[string]int64, len(u.Flags))
	for k, v := range u.Flags {
		flags[k] = v
	}
	return &Principal{
		ID:            u.ID,
		Email:         u.Email,
		Username:      u.Username,
		Flags:         flags,
		ActiveTo:      u.ActiveTo,
		Logins:        u.Logins,
		IPAddress:     u.IPAddress,
		LastIPAddress: u.LastIPAddress,
		TimeStamp:     u.TimeStamp,
		LastTimeStamp: u.LastTimeStamp,
	}
}

// Loaded reports whether the snapshot refers to a persisted account.
func (p *Principal) Loaded() bool {
	return p != nil && p.ID != 0
}
