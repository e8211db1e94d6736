package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/nguyentranbao-ct/shopping-search/internal/identity"
	"github.com/nguyentranbao-ct/shopping-search/internal/models"
)

const ContextIdentity = "identity"

// Authenticate resolves an optional bearer token. Requests without an
// Authorization header pass through anonymously; a header that does not
// verify is rejected.
func Authenticate(verifier identity.Verifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
			if authHeader == "" {
				// browser WebSocket handshakes carry the token in the query
				token := c.QueryParam("access_token")
				if token == "" {
					return next(c)
				}
				authHeader = "Bearer " + token
			}

			token, ok := strings.CutPrefix(authHeader, "Bearer ")
			if !ok || token == "" {
				return NewResponseError(http.StatusUnauthorized, "invalid_authorization", "invalid authorization header format")
			}

			user, err := verifier.Verify(token)
			if errors.Is(err, identity.ErrVerifierDisabled) {
				return NewResponseError(http.StatusUnauthorized, "auth_disabled", err.Error())
			}
			if err != nil {
				return &ResponseError{
					Status:       http.StatusUnauthorized,
					Err:          err,
					ErrorCode:    "invalid_token",
					ErrorMessage: "invalid token",
				}
			}

			c.Set(ContextIdentity, user)
			return next(c)
		}
	}
}

// GetIdentity returns the identity resolved by Authenticate, or nil.
func GetIdentity(c echo.Context) *models.Identity {
	user, _ := c.Get(ContextIdentity).(*models.Identity)
	return user
}

func GetUserID(c echo.Context) string {
	if user := GetIdentity(c); user != nil {
		return user.UserID
	}
	return ""
}
