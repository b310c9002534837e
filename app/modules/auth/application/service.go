package authservice

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	authdomain "github.com/ahalia-sports/tournament-admin/app/modules/auth/domain"
	authjwt "github.com/ahalia-sports/tournament-admin/app/modules/auth/infrastructure/jwt"
	"github.com/go-playground/validator/v10"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/crypto/bcrypt"
)

const DefaultTokenTTL = 24 * time.Hour

// Config holds the configuration for the auth service.
type Config struct {
	DefaultTTL time.Duration
}

// service implements the Service interface.
type service struct {
	accounts    map[string]Account
	jwtProvider authjwt.Provider
	validate    *validator.Validate
	config      Config
	logger      *slog.Logger
	tracer      trace.Tracer
}

// NewService creates a new auth service. Account emails match case-insensitively.
func NewService(
	jwtProvider authjwt.Provider,
	accounts []Account,
	config Config,
	logger *slog.Logger,
	tracer trace.Tracer,
) Service {
	byEmail := make(map[string]Account, len(accounts))
	for _, a := range accounts {
		byEmail[normalizeEmail(a.Email)] = a
	}
	if config.DefaultTTL == 0 {
		config.DefaultTTL = DefaultTokenTTL
	}
	return &service{
		accounts:    byEmail,
		jwtProvider: jwtProvider,
		validate:    validator.New(validator.WithRequiredStructEnabled()),
		config:      config,
		logger:      logger,
		tracer:      tracer,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// SignIn checks the credentials against the configured accounts and issues a token.
func (s *service) SignIn(ctx context.Context, email, password string) (*SignInResponse, error) {
	ctx, span := s.tracer.Start(ctx, "AuthService.SignIn")
	defer span.End()

	req := SignInRequest{Email: strings.TrimSpace(email), Password: password}
	if err := s.validate.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return nil, fmt.Errorf("%w: %s failed on %q", ErrInvalidRequest, strings.ToLower(verrs[0].Field()), verrs[0].Tag())
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}

	account, ok := s.accounts[normalizeEmail(req.Email)]
	if !ok {
		s.logger.WarnContext(ctx, "Sign-in for unknown account")
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(req.Password)); err != nil {
		s.logger.WarnContext(ctx, "Sign-in with wrong password",
			slog.String("email", account.Email),
		)
		return nil, ErrInvalidCredentials
	}

	role := account.Role
	if !role.IsValid() {
		role = authdomain.RoleUser
	}
	claims := &authdomain.Claims{
		Subject: normalizeEmail(account.Email),
		Role:    role,
	}
	span.SetAttributes(attribute.String("role", role.String()))

	token, err := s.jwtProvider.GenerateToken(claims, s.config.DefaultTTL)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to generate token",
			slog.Any("error", err),
			slog.String("email", account.Email),
		)
		return nil, fmt.Errorf("%w: %v", ErrGenerateToken, err)
	}

	s.logger.InfoContext(ctx, "User signed in",
		slog.String("email", claims.Subject),
		slog.String("role", role.String()),
	)

	return &SignInResponse{
		Token:     token,
		ExpiresAt: time.Now().Add(s.config.DefaultTTL).UTC(),
		Session:   claims.Session(),
	}, nil
}

// SessionFromToken validates a bearer token and returns the session it grants.
func (s *service) SessionFromToken(ctx context.Context, tokenString string) (authdomain.Session, error) {
	ctx, span := s.tracer.Start(ctx, "AuthService.SessionFromToken")
	defer span.End()

	if tokenString == "" {
		return authdomain.Session{}, ErrMissingToken
	}

	claims, err := s.jwtProvider.ValidateToken(tokenString)
	if err != nil {
		s.logger.WarnContext(ctx, "Token validation failed",
			slog.Any("error", err),
		)
		if errors.Is(err, authjwt.ErrExpiredToken) {
			return authdomain.Session{}, ErrExpiredToken
		}
		return authdomain.Session{}, ErrInvalidToken
	}

	s.logger.DebugContext(ctx, "Token validated successfully",
		slog.String("subject", claims.Subject),
		slog.String("role", claims.Role.String()),
	)

	return claims.Session(), nil
}
