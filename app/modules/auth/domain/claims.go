package authdomain

import "time"

// Claims represents the domain model for authentication claims.
type Claims struct {
	Subject   string // account email
	Role      Role
	ExpiresAt time.Time
	IssuedAt  time.Time
}

// IsExpired checks if the claims have expired.
func (c *Claims) IsExpired() bool {
	return time.Now().After(c.ExpiresAt)
}

// Session returns the signed-in session the claims describe.
func (c *Claims) Session() Session {
	return Session{SignedIn: true, Subject: c.Subject, Role: c.Role}
}
