package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// RoleBoxOffice is the role carried by tokens issued for the box-office
// passcode.  Only it may create venues, book or cancel.
const RoleBoxOffice = "BOX_OFFICE"

// RequireRole rejects requests whose role claim (stored by JWTAuth) is not
// one of roles with 403 Forbidden.  With enabled false it is a no-op, to
// pair with JWTAuth("").
func RequireRole(enabled bool, roles ...string) echo.MiddlewareFunc {
	allowed := make(map[string]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		if !enabled {
			return next
		}
		return func(c echo.Context) error {
			role, ok := c.Get(ContextRole).(string)
			if !ok || !allowed[role] {
				return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
			}
			return next(c)
		}
	}
}
