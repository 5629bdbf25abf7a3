package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2"

	"github.com/seekrhq/auth-service/domain"
	"github.com/seekrhq/auth-service/internal/federation"
)

// AccountService maps a provider-native identity to a local user,
// creating both on first login.
type AccountService struct {
	users    domain.UserRepository
	accounts domain.AccountRepository
}

// NewAccountService creates the account linking service.
func NewAccountService(users domain.UserRepository, accounts domain.AccountRepository) *AccountService {
	return &AccountService{users: users, accounts: accounts}
}

// LinkOrCreate resolves a provider profile to a local user. First login
// creates the user from the profile and links the account; repeat logins
// reuse the linked user without refreshing cached profile fields, only
// the stored provider tokens are replaced.
func (s *AccountService) LinkOrCreate(
	ctx context.Context,
	providerName string,
	info *federation.UserInfo,
	providerToken *oauth2.Token,
) (*domain.User, error) {
	account, err := s.accounts.FindByProviderID(ctx, providerName, info.ProviderUserID)
	switch {
	case err == nil:
		if err := s.accounts.UpdateTokens(ctx, account.ID, providerToken.AccessToken, providerToken.RefreshToken); err != nil {
			// Best-effort side write: stale provider tokens must not fail
			// the login.
			log.Warn().Err(err).Str("account_id", account.ID).Msg("failed to update provider tokens")
		}
		return s.users.FindByID(ctx, account.UserID)
	case !errors.Is(err, domain.ErrNotFound):
		return nil, fmt.Errorf("account lookup failed: %w", err)
	}

	user := &domain.User{
		Name:        info.Username,
		DisplayName: info.DisplayName,
		AvatarURL:   info.AvatarURL,
	}
	if user.DisplayName == "" {
		user.DisplayName = info.Username
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("user creation failed: %w", err)
	}

	log.Info().
		Str("user_id", user.ID).
		Str("provider", providerName).
		Msg("created user for first provider login")

	err = s.accounts.Create(ctx, &domain.Account{
		UserID:       user.ID,
		AccountType:  providerName,
		AccountID:    info.ProviderUserID,
		Email:        info.Email,
		AccessToken:  providerToken.AccessToken,
		RefreshToken: providerToken.RefreshToken,
	})
	if errors.Is(err, domain.ErrDuplicateAccount) {
		// Lost a first-login race; the winner's link is authoritative.
		winner, ferr := s.accounts.FindByProviderID(ctx, providerName, info.ProviderUserID)
		if ferr != nil {
			return nil, fmt.Errorf("account re-read after duplicate failed: %w", ferr)
		}
		return s.users.FindByID(ctx, winner.UserID)
	}
	if err != nil {
		return nil, fmt.Errorf("account creation failed: %w", err)
	}

	return user, nil
}
