package middleware

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hall-venue-booking/internal/model"
)

// Context keys written by JWTAuth.
const (
	ctxUserID     = "user_id"
	ctxEmail      = "email"
	ctxAdminLevel = "admin_level"
)

// Actor returns the authenticated caller.  ok is false on routes that are
// not behind JWTAuth.
func Actor(c echo.Context) (model.Actor, bool) {
	email, _ := c.Get(ctxEmail).(string)
	if email == "" {
		return model.Actor{}, false
	}
	level, _ := c.Get(ctxAdminLevel).(int)
	return model.Actor{Email: email, AdminLevel: level}, true
}

// UserID returns the numeric user ID of the caller, or 0.
func UserID(c echo.Context) uint64 {
	id, _ := c.Get(ctxUserID).(uint64)
	return id
}

// rateSubject identifies the caller for rate limiting: the user ID when
// authenticated, "guest" otherwise.
func rateSubject(c echo.Context) string {
	if id := UserID(c); id != 0 {
		return strconv.FormatUint(id, 10)
	}
	return "guest"
}

// deny writes the API envelope with a transport-level status code.
func deny(c echo.Context, code int, msg string) error {
	return c.JSON(code, echo.Map{"status": false, "error": msg, "msg": nil})
}
