package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// RequireAdmin aborts with 403 unless the caller's admin level is at least
// min.  It must run after JWTAuth.
func RequireAdmin(min int) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			actor, ok := Actor(c)
			if !ok || actor.AdminLevel < min {
				return deny(c, http.StatusForbidden, "forbidden")
			}
			return next(c)
		}
	}
}
