package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hall-venue-booking/internal/utils"
)

// JWTAuth validates a Bearer access token and stores the caller's user ID,
// email and admin level in the context for Actor and UserID.
func JWTAuth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") {
				return deny(c, http.StatusUnauthorized, "missing bearer token")
			}
			id, err := utils.ParseAccessToken(secret, strings.TrimPrefix(auth, "Bearer "))
			if err != nil {
				return deny(c, http.StatusUnauthorized, "invalid token")
			}
			c.Set(ctxUserID, id.UserID)
			c.Set(ctxEmail, id.Email)
			c.Set(ctxAdminLevel, id.AdminLevel)
			return next(c)
		}
	}
}
