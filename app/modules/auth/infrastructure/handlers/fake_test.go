package authhandlers

import (
	"context"

	authservice "github.com/ahalia-sports/tournament-admin/app/modules/auth/application"
	authdomain "github.com/ahalia-sports/tournament-admin/app/modules/auth/domain"
)

// ------------------------
// Fake Service
// ------------------------

type FakeService struct {
	trace []string

	SignInFunc           func(ctx context.Context, email, password string) (*authservice.SignInResponse, error)
	SessionFromTokenFunc func(ctx context.Context, tokenString string) (authdomain.Session, error)
}

func (f *FakeService) Trace() []string {
	return f.trace
}

func (f *FakeService) record(step string) {
	f.trace = append(f.trace, step)
}

func (f *FakeService) SignIn(ctx context.Context, email, password string) (*authservice.SignInResponse, error) {
	f.record("SignIn")
	if f.SignInFunc != nil {
		return f.SignInFunc(ctx, email, password)
	}
	return &authservice.SignInResponse{
		Token:   "fake-token",
		Session: authdomain.Session{SignedIn: true, Subject: email, Role: authdomain.RoleUser},
	}, nil
}

func (f *FakeService) SessionFromToken(ctx context.Context, tokenString string) (authdomain.Session, error) {
	f.record("SessionFromToken")
	if f.SessionFromTokenFunc != nil {
		return f.SessionFromTokenFunc(ctx, tokenString)
	}
	return authdomain.Session{SignedIn: true, Subject: "fan@college.edu", Role: authdomain.RoleUser}, nil
}
