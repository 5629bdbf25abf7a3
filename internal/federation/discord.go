package federation

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"golang.org/x/oauth2"

	"github.com/seekrhq/auth-service/config"
	"github.com/seekrhq/auth-service/domain"
)

var (
	// DiscordUserEndpoint is overridable in tests.
	DiscordUserEndpoint = "https://discord.com/api/v10/users/@me"

	discordEndpoint = oauth2.Endpoint{
		AuthURL:  "https://discord.com/oauth2/authorize",
		TokenURL: "https://discord.com/api/oauth2/token",
	}
)

// DiscordProvider implements Provider for Discord.
type DiscordProvider struct {
	*BaseProvider
}

// NewDiscordProvider creates a Discord provider from client credentials.
func NewDiscordProvider(creds config.ProviderCredentials) (*DiscordProvider, error) {
	if creds.ClientID == "" || creds.ClientSecret == "" || creds.RedirectURL == "" {
		return nil, ErrProviderMisconfigured
	}

	conf := &oauth2.Config{
		ClientID:     creds.ClientID,
		ClientSecret: creds.ClientSecret,
		RedirectURL:  creds.RedirectURL,
		Scopes:       []string{"identify", "email"},
		Endpoint:     discordEndpoint,
	}

	return &DiscordProvider{BaseProvider: NewBaseProvider("discord", conf)}, nil
}

// Exchange implements Provider, tagging transport failures as upstream.
func (d *DiscordProvider) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	tok, err := d.BaseProvider.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("%w: discord code exchange failed: %w", domain.ErrUpstream, err)
	}
	return tok, nil
}

// FetchUserInfo implements Provider.
func (d *DiscordProvider) FetchUserInfo(ctx context.Context, tok *oauth2.Token) (*UserInfo, error) {
	resp, err := d.httpClient(ctx, tok).Get(DiscordUserEndpoint)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to fetch discord profile: %w", domain.ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("%w: discord profile fetch returned %d: %s",
			domain.ErrUpstream, resp.StatusCode, string(body))
	}

	var raw struct {
		ID         string `json:"id"`
		Username   string `json:"username"`
		GlobalName string `json:"global_name"`
		Email      string `json:"email"`
		Avatar     string `json:"avatar"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: failed to decode discord profile: %w", domain.ErrUpstream, err)
	}

	displayName := raw.GlobalName
	if displayName == "" {
		displayName = raw.Username
	}

	var avatarURL string
	if raw.Avatar != "" {
		avatarURL = fmt.Sprintf("https://cdn.discordapp.com/avatars/%s/%s.png", raw.ID, raw.Avatar)
	}

	return &UserInfo{
		ProviderUserID: raw.ID,
		Username:       raw.Username,
		DisplayName:    displayName,
		Email:          raw.Email,
		AvatarURL:      avatarURL,
	}, nil
}

var _ Provider = (*DiscordProvider)(nil)
