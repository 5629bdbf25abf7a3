// Package echo exposes the OAuth2 HTTP surface: authorize, provider
// callback, token grant and the authenticated user endpoint.
package echo

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"github.com/seekrhq/auth-service/domain"
	ssoerrors "github.com/seekrhq/auth-service/errors"
	"github.com/seekrhq/auth-service/internal/federation"
	"github.com/seekrhq/auth-service/services"
)

// Cookie names binding a provider round trip to its originating browser
// flow.
const (
	redirectURICookie   = "redirect_uri"
	clientStateCookie   = "state"
	providerStateCookie = "provider_state"
)

// Flow cookies outlive the provider round trip but not much more.
const flowCookieTTL = 5 * time.Minute

// OAuth2API holds the handlers' dependencies.
type OAuth2API struct {
	auth      domain.AuthService
	accounts  *services.AccountService
	providers *federation.Registry
	users     domain.UserRepository
}

// NewOAuth2API initializes the OAuth2 API.
func NewOAuth2API(
	auth domain.AuthService,
	accounts *services.AccountService,
	providers *federation.Registry,
	users domain.UserRepository,
) *OAuth2API {
	return &OAuth2API{
		auth:      auth,
		accounts:  accounts,
		providers: providers,
		users:     users,
	}
}

// RegisterRoutes registers the OAuth2 routes.
func (oa *OAuth2API) RegisterRoutes(e *echo.Echo) {
	e.GET("/oauth2/authorize", oa.AuthorizeHandler)
	e.GET("/oauth2/:provider/callback", oa.CallbackHandler)
	e.POST("/api/v1/oauth2/token", oa.TokenHandler)

	protected := e.Group("/api/v1", RequireAuth(oa.auth))
	protected.GET("/users/@me", oa.MeHandler)
}

// AuthorizeHandler starts the provider handshake: it validates the
// request, pins the flow to the browser with cookies and redirects to the
// provider's consent endpoint.
func (oa *OAuth2API) AuthorizeHandler(c echo.Context) error {
	responseType := c.QueryParam("response_type")
	if responseType != "code" {
		return c.JSON(http.StatusBadRequest, ssoerrors.NewInvalidRequest(
			fmt.Sprintf("Invalid response type! Expected 'code', got '%s'", responseType)))
	}

	redirectURI := c.QueryParam("redirect_uri")
	if redirectURI == "" {
		return c.JSON(http.StatusBadRequest, ssoerrors.NewInvalidRequest("Missing redirect_uri"))
	}

	provider, err := oa.providers.Get(c.QueryParam("provider"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, ssoerrors.NewInvalidRequest("Unknown provider"))
	}

	setFlowCookie(c, redirectURICookie, redirectURI)
	if state := c.QueryParam("state"); state != "" {
		setFlowCookie(c, clientStateCookie, state)
	}

	providerState, err := newFlowState()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, ssoerrors.NewServerError("Failed to generate state"))
	}
	setFlowCookie(c, providerStateCookie, providerState)

	return c.Redirect(http.StatusFound, provider.AuthCodeURL(providerState))
}

// CallbackHandler completes the handshake: it correlates the provider's
// state with the cookie set at authorize time, exchanges the provider
// code, links the account and redirects back to the client carrying a
// fresh auth code.
func (oa *OAuth2API) CallbackHandler(c echo.Context) error {
	stateCookie, err := c.Cookie(providerStateCookie)
	if err != nil || stateCookie.Value == "" {
		return c.JSON(http.StatusBadRequest, ssoerrors.NewInvalidRequest("Missing state"))
	}
	if c.QueryParam("state") != stateCookie.Value {
		return c.JSON(http.StatusBadRequest, ssoerrors.NewInvalidRequest("State mismatch"))
	}

	code := c.QueryParam("code")
	if code == "" {
		return c.JSON(http.StatusBadRequest, ssoerrors.NewInvalidRequest("Missing code"))
	}

	redirectCookie, err := c.Cookie(redirectURICookie)
	if err != nil || redirectCookie.Value == "" {
		return c.JSON(http.StatusBadRequest, ssoerrors.NewInvalidRequest("Missing redirect_uri"))
	}

	provider, err := oa.providers.Get(c.Param("provider"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, ssoerrors.NewInvalidRequest("Unknown provider"))
	}

	ctx := c.Request().Context()

	providerToken, err := provider.Exchange(ctx, code)
	if err != nil {
		log.Error().Err(err).Str("provider", provider.Name()).Msg("provider code exchange failed")
		return c.JSON(http.StatusInternalServerError, ssoerrors.NewServerError("Provider exchange failed"))
	}

	info, err := provider.FetchUserInfo(ctx, providerToken)
	if err != nil {
		log.Error().Err(err).Str("provider", provider.Name()).Msg("provider profile fetch failed")
		return c.JSON(http.StatusInternalServerError, ssoerrors.NewServerError("Provider profile fetch failed"))
	}

	user, err := oa.accounts.LinkOrCreate(ctx, provider.Name(), info, providerToken)
	if err != nil {
		log.Error().Err(err).Str("provider", provider.Name()).Msg("account linking failed")
		return c.JSON(http.StatusInternalServerError, ssoerrors.NewServerError("Account linking failed"))
	}

	authCode, err := oa.auth.CreateAuthCode(ctx, user.ID)
	if err != nil {
		log.Error().Err(err).Str("user_id", user.ID).Msg("auth code creation failed")
		return c.JSON(http.StatusInternalServerError, ssoerrors.NewServerError("Failed to create auth code"))
	}

	location := fmt.Sprintf("%s?code=%s", redirectCookie.Value, url.QueryEscape(authCode))
	if clientState, err := c.Cookie(clientStateCookie); err == nil && clientState.Value != "" {
		location += "&state=" + url.QueryEscape(clientState.Value)
	}

	return c.Redirect(http.StatusFound, location)
}

// TokenRequest is the token endpoint request body.
type TokenRequest struct {
	GrantType    string `json:"grant_type"`
	Code         string `json:"code,omitempty"`
	RefreshToken string `json:"refresh_token,omitempty"`
}

// TokenHandler exchanges an auth code for a token pair, or a refresh
// token for a fresh access token. Missing required fields short-circuit
// before any store call.
func (oa *OAuth2API) TokenHandler(c echo.Context) error {
	var req TokenRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ssoerrors.NewInvalidRequest("Malformed request body"))
	}

	ctx := c.Request().Context()

	switch req.GrantType {
	case "authorization_code":
		if req.Code == "" {
			return c.JSON(http.StatusBadRequest, ssoerrors.NewInvalidRequest("Missing code"))
		}

		// Redemption deletes the code in the same store operation, so a
		// code yields at most one token pair.
		authCode, err := oa.auth.RedeemAuthCode(ctx, req.Code)
		if err != nil {
			return oa.grantFailure(c, err, "auth code redemption failed")
		}

		pair, err := oa.auth.CreateTokenPair(ctx, authCode.UserID)
		if err != nil {
			log.Error().Err(err).Str("user_id", authCode.UserID).Msg("token pair creation failed")
			return c.JSON(http.StatusInternalServerError, ssoerrors.NewServerError("Failed to create token pair"))
		}

		return c.JSON(http.StatusOK, pair)

	case "refresh_token":
		if req.RefreshToken == "" {
			return c.JSON(http.StatusBadRequest, ssoerrors.NewInvalidRequest("Missing refresh_token"))
		}

		resp, err := oa.auth.RefreshAccessToken(ctx, req.RefreshToken)
		if err != nil {
			return oa.grantFailure(c, err, "access token refresh failed")
		}

		return c.JSON(http.StatusOK, resp)

	default:
		return c.JSON(http.StatusBadRequest, ssoerrors.NewUnsupportedGrantType())
	}
}

// MeHandler returns the authenticated user.
func (oa *OAuth2API) MeHandler(c echo.Context) error {
	userID := UserID(c)

	user, err := oa.users.FindByID(c.Request().Context(), userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.JSON(http.StatusUnauthorized, ssoerrors.NewInvalidGrant("Unknown user"))
		}
		return c.JSON(http.StatusInternalServerError, ssoerrors.NewServerError("Failed to load user"))
	}

	return c.JSON(http.StatusOK, user)
}

// grantFailure maps a store failure into the wire taxonomy: lookup misses
// become 401 invalid_grant (never 404, so clients cannot probe for token
// existence), everything else is a retryable 500.
func (oa *OAuth2API) grantFailure(c echo.Context, err error, msg string) error {
	if errors.Is(err, domain.ErrNotFound) {
		return c.JSON(http.StatusUnauthorized, ssoerrors.NewInvalidGrant("Invalid or expired grant"))
	}
	log.Error().Err(err).Msg(msg)
	return c.JSON(http.StatusInternalServerError, ssoerrors.NewServerError("Temporary failure, retry"))
}

func setFlowCookie(c echo.Context, name, value string) {
	c.SetCookie(&http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		Expires:  time.Now().Add(flowCookieTTL),
		SameSite: http.SameSiteLaxMode,
		HttpOnly: true,
	})
}

func newFlowState() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(buf), nil
}
