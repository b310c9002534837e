package authjwt

import (
	"time"

	authdomain "github.com/ahalia-sports/tournament-admin/app/modules/auth/domain"
)

// Provider defines the interface for JWT token operations.
type Provider interface {
	// GenerateToken creates a signed JWT token carrying the subject and role.
	GenerateToken(claims *authdomain.Claims, ttl time.Duration) (string, error)

	// ValidateToken validates a JWT token and returns the claims if valid.
	ValidateToken(tokenString string) (*authdomain.Claims, error)
}
