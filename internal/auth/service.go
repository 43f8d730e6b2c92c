package auth

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/haingladys/jsdc-accounting/internal"
	"github.com/haingladys/jsdc-accounting/internal/user"
)

// UserFinder is the slice of the user service that authentication needs.
type UserFinder interface {
	Get(ctx context.Context, id string) (*user.User, error)
	GetByUsername(ctx context.Context, username string) (*user.User, error)
}

type Service struct {
	users          UserFinder
	tokenGenerator TokenGenerator
	accessTTL      time.Duration
	logger         *slog.Logger
}

func NewService(users UserFinder, tokenGen *JWTTokenGenerator, logger *slog.Logger) *Service {
	return &Service{
		users:          users,
		tokenGenerator: tokenGen,
		accessTTL:      tokenGen.AccessTokenTTL,
		logger:         logger,
	}
}

// Authenticate validates credentials and returns tokens
func (s *Service) Authenticate(ctx context.Context, dto LoginDTO) (AuthTokens, error) {
	if err := dto.Validate(); err != nil {
		return AuthTokens{}, err
	}

	u, err := s.users.GetByUsername(ctx, dto.Username)
	if err != nil {
		if errors.Is(err, internal.ErrUserNotFound) {
			s.logger.Warn("login for unknown user", "username", dto.Username)
			return AuthTokens{}, internal.ErrInvalidCredentials
		}
		return AuthTokens{}, err
	}

	if !u.CheckPassword(dto.Password) {
		s.logger.Warn("login with wrong password", "username", u.Username)
		return AuthTokens{}, internal.ErrInvalidCredentials
	}
	if !u.Active {
		return AuthTokens{}, internal.ErrUserInactive
	}

	s.logger.Info("user logged in", "user_id", u.ID, "username", u.Username)
	return s.issue(u)
}

// RefreshTokens validates refresh token and returns new tokens
func (s *Service) RefreshTokens(ctx context.Context, refreshToken string) (AuthTokens, error) {
	claims, err := s.tokenGenerator.ValidateRefreshToken(refreshToken)
	if err != nil {
		return AuthTokens{}, err
	}

	// role or active flag may have changed since the refresh token was issued
	u, err := s.users.Get(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, internal.ErrUserNotFound) {
			return AuthTokens{}, internal.ErrInvalidToken
		}
		return AuthTokens{}, err
	}
	if !u.Active {
		return AuthTokens{}, internal.ErrUserInactive
	}

	return s.issue(u)
}

func (s *Service) ValidateAccessToken(tokenString string) (*Claims, error) {
	return s.tokenGenerator.ValidateAccessToken(tokenString)
}

// CurrentUser resolves the token subject to a live, active user.
func (s *Service) CurrentUser(ctx context.Context, claims *Claims) (*internal.CurrentUser, error) {
	u, err := s.users.Get(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, internal.ErrUserNotFound) {
			return nil, internal.ErrInvalidToken
		}
		return nil, err
	}
	if !u.Active {
		return nil, internal.ErrUserInactive
	}
	return u.Current(), nil
}

func (s *Service) issue(u *user.User) (AuthTokens, error) {
	subject := Subject{UserID: u.ID, Username: u.Username, Role: u.Role}

	accessToken, err := s.tokenGenerator.GenerateAccessToken(subject)
	if err != nil {
		return AuthTokens{}, internal.NewInternalError("failed to sign access token", err)
	}
	refreshToken, err := s.tokenGenerator.GenerateRefreshToken(subject)
	if err != nil {
		return AuthTokens{}, internal.NewInternalError("failed to sign refresh token", err)
	}

	return AuthTokens{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "Bearer",
		ExpiresAt:    time.Now().Add(s.accessTTL),
	}, nil
}
