// Package federation adapts external OAuth2 identity providers behind a
// single interface: exchange an authorization code for the provider's
// token, then fetch a standardized profile.
package federation

import (
	"context"
	"errors"
	"net/http"

	"golang.org/x/oauth2"
)

var (
	// ErrProviderNotFound is returned for providers with no configured
	// credentials.
	ErrProviderNotFound = errors.New("identity provider not found")

	// ErrProviderMisconfigured is returned when a provider's client
	// credentials are incomplete.
	ErrProviderMisconfigured = errors.New("identity provider misconfigured")
)

// UserInfo holds standardized profile information retrieved from an
// external provider.
type UserInfo struct {
	// ProviderUserID is the user's unique id within the provider.
	ProviderUserID string
	Username       string
	DisplayName    string
	Email          string
	AvatarURL      string
}

// Provider is an external OAuth2 identity source.
type Provider interface {
	// Name returns the unique provider identifier, e.g. "discord".
	Name() string

	// AuthCodeURL builds the consent URL the browser is redirected to,
	// carrying state for CSRF correlation.
	AuthCodeURL(state string) string

	// Exchange trades the provider-returned authorization code for the
	// provider's token.
	Exchange(ctx context.Context, code string) (*oauth2.Token, error)

	// FetchUserInfo retrieves the user's profile with the provider token.
	FetchUserInfo(ctx context.Context, tok *oauth2.Token) (*UserInfo, error)
}

// BaseProvider carries the oauth2 configuration shared by all providers.
type BaseProvider struct {
	name   string
	config *oauth2.Config
}

// NewBaseProvider creates the shared provider core.
func NewBaseProvider(name string, config *oauth2.Config) *BaseProvider {
	return &BaseProvider{name: name, config: config}
}

// Name implements Provider.
func (b *BaseProvider) Name() string {
	return b.name
}

// AuthCodeURL implements Provider.
func (b *BaseProvider) AuthCodeURL(state string) string {
	return b.config.AuthCodeURL(state)
}

// Exchange implements Provider.
func (b *BaseProvider) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	return b.config.Exchange(ctx, code)
}

// httpClient returns a client authenticated with the provider token,
// honoring the context's deadline.
func (b *BaseProvider) httpClient(ctx context.Context, tok *oauth2.Token) *http.Client {
	return b.config.Client(ctx, tok)
}
