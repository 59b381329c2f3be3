package middleware

// identity.go holds the request identity helpers shared by the rate limiter
// and the request logger.

import (
	"github.com/labstack/echo/v4"
)

// subject returns the token subject stored by JWTAuth, or "anon" when the
// request carries none.
func subject(c echo.Context) string {
	if s, ok := c.Get(ContextSubject).(string); ok && s != "" {
		return s
	}
	return "anon"
}

// venueID returns the :id path parameter of venue routes, or "-" elsewhere.
func venueID(c echo.Context) string {
	for i, name := range c.ParamNames() {
		if name == "id" {
			if v := c.ParamValues()[i]; v != "" {
				return v
			}
		}
	}
	return "-"
}

// requestID is the X-Request-ID assigned by echo's RequestID middleware.
func requestID(c echo.Context) string {
	if id := c.Response().Header().Get(echo.HeaderXRequestID); id != "" {
		return id
	}
	return c.Request().Header.Get(echo.HeaderXRequestID)
}
