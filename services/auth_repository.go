package services

import (
	"context"

	"github.com/seekrhq/auth-service/domain"
	"github.com/seekrhq/auth-service/internal/token"
)

// AuthRepository composes the code store, the refresh token store and the
// access token codec behind domain.AuthRepository.
type AuthRepository struct {
	codes   domain.CodeStore
	refresh domain.RefreshTokenStore
	codec   *token.Codec
}

// NewAuthRepository wires the two stores and the codec together.
func NewAuthRepository(codes domain.CodeStore, refresh domain.RefreshTokenStore, codec *token.Codec) *AuthRepository {
	return &AuthRepository{codes: codes, refresh: refresh, codec: codec}
}

func (r *AuthRepository) CreateAuthCode(ctx context.Context, userID string) (string, error) {
	return r.codes.Create(ctx, userID)
}

func (r *AuthRepository) VerifyAuthCode(ctx context.Context, code string) (*domain.AuthCode, error) {
	return r.codes.Verify(ctx, code)
}

func (r *AuthRepository) RedeemAuthCode(ctx context.Context, code string) (*domain.AuthCode, error) {
	return r.codes.Redeem(ctx, code)
}

func (r *AuthRepository) DeleteAuthCode(ctx context.Context, code string) error {
	return r.codes.Delete(ctx, code)
}

func (r *AuthRepository) CreateAccessToken(userID string) (string, error) {
	return r.codec.Create(userID)
}

func (r *AuthRepository) VerifyAccessToken(accessToken string) (domain.VerifyResult, error) {
	return r.codec.Verify(accessToken)
}

func (r *AuthRepository) CreateRefreshToken(ctx context.Context, userID string) (*domain.RefreshToken, error) {
	return r.refresh.Create(ctx, userID)
}

func (r *AuthRepository) GetRefreshToken(ctx context.Context, tok string) (*domain.RefreshToken, error) {
	return r.refresh.Get(ctx, tok)
}

func (r *AuthRepository) DeleteRefreshToken(ctx context.Context, tok string) error {
	return r.refresh.Delete(ctx, tok)
}

var _ domain.AuthRepository = (*AuthRepository)(nil)
