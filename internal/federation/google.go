package federation

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"golang.org/x/oauth2"
	googleoauth2 "golang.org/x/oauth2/google"

	"github.com/seekrhq/auth-service/config"
	"github.com/seekrhq/auth-service/domain"
)

// GoogleUserInfoEndpoint is overridable in tests.
var GoogleUserInfoEndpoint = "https://www.googleapis.com/oauth2/v3/userinfo"

// GoogleProvider implements Provider for Google.
type GoogleProvider struct {
	*BaseProvider
}

// NewGoogleProvider creates a Google provider from client credentials.
func NewGoogleProvider(creds config.ProviderCredentials) (*GoogleProvider, error) {
	if creds.ClientID == "" || creds.ClientSecret == "" || creds.RedirectURL == "" {
		return nil, ErrProviderMisconfigured
	}

	conf := &oauth2.Config{
		ClientID:     creds.ClientID,
		ClientSecret: creds.ClientSecret,
		RedirectURL:  creds.RedirectURL,
		Scopes:       []string{"openid", "profile", "email"},
		Endpoint:     googleoauth2.Endpoint,
	}

	return &GoogleProvider{BaseProvider: NewBaseProvider("google", conf)}, nil
}

// Exchange implements Provider, tagging transport failures as upstream.
func (g *GoogleProvider) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	tok, err := g.BaseProvider.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("%w: google code exchange failed: %w", domain.ErrUpstream, err)
	}
	return tok, nil
}

// FetchUserInfo implements Provider.
func (g *GoogleProvider) FetchUserInfo(ctx context.Context, tok *oauth2.Token) (*UserInfo, error) {
	resp, err := g.httpClient(ctx, tok).Get(GoogleUserInfoEndpoint)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to fetch google profile: %w", domain.ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("%w: google profile fetch returned %d: %s",
			domain.ErrUpstream, resp.StatusCode, string(body))
	}

	var raw struct {
		Sub     string `json:"sub"`
		Name    string `json:"name"`
		Email   string `json:"email"`
		Picture string `json:"picture"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: failed to decode google profile: %w", domain.ErrUpstream, err)
	}

	return &UserInfo{
		ProviderUserID: raw.Sub,
		// Google has no distinct username; fall back to the email.
		Username:    raw.Email,
		DisplayName: raw.Name,
		Email:       raw.Email,
		AvatarURL:   raw.Picture,
	}, nil
}

var _ Provider = (*GoogleProvider)(nil)
