package echo

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/seekrhq/auth-service/domain"
	ssoerrors "github.com/seekrhq/auth-service/errors"
)

const userIDContextKey = "auth.user_id"

// RequireAuth verifies the Bearer access token on every request. An
// invalid token and an expired one answer with different error codes so
// clients know whether to re-authenticate or refresh.
func RequireAuth(auth domain.AuthService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			tok, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || tok == "" {
				return c.JSON(http.StatusUnauthorized, ssoerrors.NewInvalidRequest("Missing bearer token"))
			}

			result, err := auth.VerifyAccessToken(c.Request().Context(), tok)
			if err != nil {
				if errors.Is(err, domain.ErrTokenInvalid) {
					return c.JSON(http.StatusUnauthorized, ssoerrors.NewInvalidToken())
				}
				return c.JSON(http.StatusInternalServerError, ssoerrors.NewServerError("Token verification failed"))
			}
			if result.Status == domain.TokenExpired {
				return c.JSON(http.StatusUnauthorized, ssoerrors.NewTokenExpired())
			}

			c.Set(userIDContextKey, result.UserID)
			return next(c)
		}
	}
}

// UserID returns the authenticated user id stashed by RequireAuth.
func UserID(c echo.Context) string {
	id, _ := c.Get(userIDContextKey).(string)
	return id
}
