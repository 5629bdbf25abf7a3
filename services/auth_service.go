// Package services orchestrates the auth protocol over the repositories.
package services

import (
	"context"

	"github.com/seekrhq/auth-service/domain"
)

const bearerTokenType = "Bearer"

// AuthService implements domain.AuthService.
type AuthService struct {
	repo domain.AuthRepository
}

// NewAuthService creates the auth service.
func NewAuthService(repo domain.AuthRepository) *AuthService {
	return &AuthService{repo: repo}
}

// CreateAuthCode implements domain.AuthService.
func (s *AuthService) CreateAuthCode(ctx context.Context, userID string) (string, error) {
	return s.repo.CreateAuthCode(ctx, userID)
}

// VerifyAuthCode implements domain.AuthService. Single use is not
// enforced here; callers either sequence verify then delete, or use
// RedeemAuthCode.
func (s *AuthService) VerifyAuthCode(ctx context.Context, code string) (*domain.AuthCode, error) {
	return s.repo.VerifyAuthCode(ctx, code)
}

// RedeemAuthCode implements domain.AuthService: atomic fetch-and-remove.
func (s *AuthService) RedeemAuthCode(ctx context.Context, code string) (*domain.AuthCode, error) {
	return s.repo.RedeemAuthCode(ctx, code)
}

// DeleteAuthCode implements domain.AuthService.
func (s *AuthService) DeleteAuthCode(ctx context.Context, code string) error {
	return s.repo.DeleteAuthCode(ctx, code)
}

// CreateTokenPair implements domain.AuthService. The refresh token write
// and the access token mint are independent; a crash between the two
// leaves an orphaned refresh token record that expires on its own TTL.
func (s *AuthService) CreateTokenPair(ctx context.Context, userID string) (*domain.TokenPair, error) {
	refreshToken, err := s.repo.CreateRefreshToken(ctx, userID)
	if err != nil {
		return nil, err
	}

	accessToken, err := s.repo.CreateAccessToken(userID)
	if err != nil {
		return nil, err
	}

	return &domain.TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken.Token,
		ExpiresIn:    int64(domain.AccessTokenTTL.Seconds()),
		TokenType:    bearerTokenType,
	}, nil
}

// RefreshAccessToken implements domain.AuthService. The lookup is the
// only expiry mechanism for refresh tokens; a live token stays usable
// afterward, with no rotation.
func (s *AuthService) RefreshAccessToken(ctx context.Context, refreshToken string) (*domain.RefreshResponse, error) {
	rt, err := s.repo.GetRefreshToken(ctx, refreshToken)
	if err != nil {
		return nil, err
	}

	accessToken, err := s.repo.CreateAccessToken(rt.UserID)
	if err != nil {
		return nil, err
	}

	return &domain.RefreshResponse{
		AccessToken: accessToken,
		ExpiresIn:   int64(domain.AccessTokenTTL.Seconds()),
		TokenType:   bearerTokenType,
	}, nil
}

// VerifyAccessToken implements domain.AuthService. ErrTokenInvalid
// propagates as-is; it is never coerced into an expired result.
func (s *AuthService) VerifyAccessToken(_ context.Context, accessToken string) (domain.VerifyResult, error) {
	return s.repo.VerifyAccessToken(accessToken)
}

var _ domain.AuthService = (*AuthService)(nil)
