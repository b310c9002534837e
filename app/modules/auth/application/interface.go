package authservice

import (
	"context"
	"time"

	authdomain "github.com/ahalia-sports/tournament-admin/app/modules/auth/domain"
)

// Service defines the authentication service interface.
type Service interface {
	// SignIn checks the credentials against the configured accounts and issues a token.
	SignIn(ctx context.Context, email, password string) (*SignInResponse, error)

	// SessionFromToken validates a bearer token and returns the session it grants.
	SessionFromToken(ctx context.Context, tokenString string) (authdomain.Session, error)
}

// SignInRequest is the login form.
type SignInRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type SignInResponse struct {
	Token     string             `json:"token"`
	ExpiresAt time.Time          `json:"expiresAt"`
	Session   authdomain.Session `json:"session"`
}

// Account is a sign-in identity. PasswordHash is a bcrypt hash.
type Account struct {
	Email        string
	PasswordHash string
	Role         authdomain.Role
}
