package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"github.com/seekrhq/auth-service/domain"
	"github.com/seekrhq/auth-service/internal/federation"
)

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) Create(ctx context.Context, account *domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) FindByProviderID(ctx context.Context, accountType, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, accountType, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) UpdateTokens(ctx context.Context, id, accessToken, refreshToken string) error {
	args := m.Called(ctx, id, accessToken, refreshToken)
	return args.Error(0)
}

var discordInfo = &federation.UserInfo{
	ProviderUserID: "111222333",
	Username:       "player",
	DisplayName:    "Player One",
	Email:          "player@example.com",
	AvatarURL:      "https://cdn.discordapp.com/avatars/111222333/abc.png",
}

var providerToken = &oauth2.Token{AccessToken: "prov-access", RefreshToken: "prov-refresh"}

func TestAccountService_FirstLoginCreatesUserAndAccount(t *testing.T) {
	users := new(MockUserRepository)
	accounts := new(MockAccountRepository)
	svc := NewAccountService(users, accounts)
	ctx := context.Background()

	accounts.On("FindByProviderID", ctx, "discord", "111222333").Return(nil, domain.ErrNotFound).Once()
	users.On("Create", ctx, mock.MatchedBy(func(u *domain.User) bool {
		return u.Name == "player" && u.DisplayName == "Player One" && u.AvatarURL == discordInfo.AvatarURL
	})).Run(func(args mock.Arguments) {
		args.Get(1).(*domain.User).ID = "u1"
	}).Return(nil).Once()
	accounts.On("Create", ctx, mock.MatchedBy(func(a *domain.Account) bool {
		return a.UserID == "u1" &&
			a.AccountType == "discord" &&
			a.AccountID == "111222333" &&
			a.Email == "player@example.com" &&
			a.AccessToken == "prov-access" &&
			a.RefreshToken == "prov-refresh"
	})).Return(nil).Once()

	user, err := svc.LinkOrCreate(ctx, "discord", discordInfo, providerToken)
	require.NoError(t, err)
	assert.Equal(t, "u1", user.ID)

	users.AssertExpectations(t)
	accounts.AssertExpectations(t)
}

func TestAccountService_RepeatLoginReusesUser(t *testing.T) {
	users := new(MockUserRepository)
	accounts := new(MockAccountRepository)
	svc := NewAccountService(users, accounts)
	ctx := context.Background()

	existing := &domain.Account{ID: "a1", UserID: "u1", AccountType: "discord", AccountID: "111222333"}
	cached := &domain.User{ID: "u1", Name: "player", DisplayName: "Old Name"}

	accounts.On("FindByProviderID", ctx, "discord", "111222333").Return(existing, nil).Once()
	accounts.On("UpdateTokens", ctx, "a1", "prov-access", "prov-refresh").Return(nil).Once()
	users.On("FindByID", ctx, "u1").Return(cached, nil).Once()

	user, err := svc.LinkOrCreate(ctx, "discord", discordInfo, providerToken)
	require.NoError(t, err)

	// Cached profile fields are not refreshed on repeat login.
	assert.Equal(t, "Old Name", user.DisplayName)

	users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	accounts.AssertExpectations(t)
}

func TestAccountService_TokenUpdateFailureDoesNotFailLogin(t *testing.T) {
	users := new(MockUserRepository)
	accounts := new(MockAccountRepository)
	svc := NewAccountService(users, accounts)
	ctx := context.Background()

	existing := &domain.Account{ID: "a1", UserID: "u1"}
	accounts.On("FindByProviderID", ctx, "discord", "111222333").Return(existing, nil).Once()
	accounts.On("UpdateTokens", ctx, "a1", "prov-access", "prov-refresh").Return(assert.AnError).Once()
	users.On("FindByID", ctx, "u1").Return(&domain.User{ID: "u1"}, nil).Once()

	user, err := svc.LinkOrCreate(ctx, "discord", discordInfo, providerToken)
	require.NoError(t, err)
	assert.Equal(t, "u1", user.ID)
}

func TestAccountService_FirstLoginRaceReadsWinner(t *testing.T) {
	users := new(MockUserRepository)
	accounts := new(MockAccountRepository)
	svc := NewAccountService(users, accounts)
	ctx := context.Background()

	winner := &domain.Account{ID: "a2", UserID: "u2", AccountType: "discord", AccountID: "111222333"}

	accounts.On("FindByProviderID", ctx, "discord", "111222333").Return(nil, domain.ErrNotFound).Once()
	users.On("Create", ctx, mock.Anything).Run(func(args mock.Arguments) {
		args.Get(1).(*domain.User).ID = "u-loser"
	}).Return(nil).Once()
	accounts.On("Create", ctx, mock.Anything).Return(domain.ErrDuplicateAccount).Once()
	accounts.On("FindByProviderID", ctx, "discord", "111222333").Return(winner, nil).Once()
	users.On("FindByID", ctx, "u2").Return(&domain.User{ID: "u2"}, nil).Once()

	user, err := svc.LinkOrCreate(ctx, "discord", discordInfo, providerToken)
	require.NoError(t, err)
	assert.Equal(t, "u2", user.ID)
}

func TestAccountService_DisplayNameFallsBackToUsername(t *testing.T) {
	users := new(MockUserRepository)
	accounts := new(MockAccountRepository)
	svc := NewAccountService(users, accounts)
	ctx := context.Background()

	info := &federation.UserInfo{ProviderUserID: "999", Username: "player"}

	accounts.On("FindByProviderID", ctx, "discord", "999").Return(nil, domain.ErrNotFound).Once()
	users.On("Create", ctx, mock.MatchedBy(func(u *domain.User) bool {
		return u.DisplayName == "player"
	})).Return(nil).Once()
	accounts.On("Create", ctx, mock.Anything).Return(nil).Once()

	_, err := svc.LinkOrCreate(ctx, "discord", info, providerToken)
	require.NoError(t, err)
	users.AssertExpectations(t)
}
