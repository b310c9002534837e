package authjwt

import (
	"errors"
	"fmt"
	"time"

	authdomain "github.com/ahalia-sports/tournament-admin/app/modules/auth/domain"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// sessionClaims represents the JWT claims structure.
type sessionClaims struct {
	jwt.RegisteredClaims
	Role string `json:"role"`
}

// provider implements the Provider interface.
type provider struct {
	secret []byte
	issuer string
}

// NewProvider creates a new HS256 JWT provider.
func NewProvider(secret, issuer string) Provider {
	return &provider{
		secret: []byte(secret),
		issuer: issuer,
	}
}

// GenerateToken creates a signed JWT token from the given claims.
func (p *provider) GenerateToken(domainClaims *authdomain.Claims, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := &sessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Issuer:    p.issuer,
			Subject:   domainClaims.Subject,
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		Role: string(domainClaims.Role),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString(p.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return signedToken, nil
}

// ValidateToken validates a JWT token and returns the domain claims if valid.
func (p *provider) ValidateToken(tokenString string) (*authdomain.Claims, error) {
	var opts []jwt.ParserOption
	if p.issuer != "" {
		opts = append(opts, jwt.WithIssuer(p.issuer))
	}

	token, err := jwt.ParseWithClaims(tokenString, &sessionClaims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidSignature
		}
		return p.secret, nil
	}, opts...)

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		if errors.Is(err, jwt.ErrTokenSignatureInvalid) {
			return nil, ErrInvalidSignature
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*sessionClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	role := authdomain.Role(claims.Role)
	if !role.IsValid() || claims.Subject == "" {
		return nil, ErrInvalidToken
	}

	domainClaims := &authdomain.Claims{
		Subject: claims.Subject,
		Role:    role,
	}
	if claims.ExpiresAt != nil {
		domainClaims.ExpiresAt = claims.ExpiresAt.Time
	}
	if claims.IssuedAt != nil {
		domainClaims.IssuedAt = claims.IssuedAt.Time
	}

	return domainClaims, nil
}
