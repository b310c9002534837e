package authdomain

import "context"

// Session is the caller's sign-in state. The zero value is a signed-out visitor.
type Session struct {
	SignedIn bool   `json:"signedIn"`
	Subject  string `json:"subject,omitempty"`
	Role     Role   `json:"role,omitempty"`
}

func (s Session) IsSignedIn() bool {
	return s.SignedIn
}

// IsAdmin reports whether the session may change tournament data.
func (s Session) IsAdmin() bool {
	return s.SignedIn && s.Role == RoleAdmin
}

type sessionKey struct{}

// WithSession stores the session on the context.
func WithSession(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, s)
}

// SessionFromContext returns the stored session, or a signed-out one.
func SessionFromContext(ctx context.Context) Session {
	s, _ := ctx.Value(sessionKey{}).(Session)
	return s
}
