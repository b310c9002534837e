package authservice

import (
	"time"

	authdomain "github.com/ahalia-sports/tournament-admin/app/modules/auth/domain"
)

// ------------------------
// Fake JWT Provider
// ------------------------

type FakeJWTProvider struct {
	trace []string

	GenerateTokenFunc func(claims *authdomain.Claims, ttl time.Duration) (string, error)
	ValidateTokenFunc func(tokenString string) (*authdomain.Claims, error)
}

func (f *FakeJWTProvider) Trace() []string {
	return f.trace
}

func (f *FakeJWTProvider) record(step string) {
	f.trace = append(f.trace, step)
}

func (f *FakeJWTProvider) GenerateToken(claims *authdomain.Claims, ttl time.Duration) (string, error) {
	f.record("GenerateToken")
	if f.GenerateTokenFunc != nil {
		return f.GenerateTokenFunc(claims, ttl)
	}
	return "fake-token", nil
}

func (f *FakeJWTProvider) ValidateToken(tokenString string) (*authdomain.Claims, error) {
	f.record("ValidateToken")
	if f.ValidateTokenFunc != nil {
		return f.ValidateTokenFunc(tokenString)
	}
	return &authdomain.Claims{
		Subject: "user@college.edu",
		Role:    authdomain.RoleUser,
	}, nil
}
