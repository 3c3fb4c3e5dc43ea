package auth

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

// Require returns middleware that rejects any request not carrying a valid
// bearer token of the given principal kind. A doctor token on a patient
// route fails the same way a missing token does.
func Require(issuer *Issuer, kind Kind) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get("Authorization")
			if header == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "Not authenticated")
			}

			parts := strings.SplitN(header, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return echo.NewHTTPError(http.StatusUnauthorized, "Not authenticated")
			}

			principal, err := issuer.Verify(parts[1])
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "Could not validate credentials")
			}
			if principal.Kind != kind {
				return echo.NewHTTPError(http.StatusUnauthorized, "Could not validate credentials")
			}

			ctx := WithPrincipal(c.Request().Context(), principal)
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	}
}
