package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hall-venue-booking/internal/apperr"
	"github.com/iliyamo/hall-venue-booking/internal/middleware"
	"github.com/iliyamo/hall-venue-booking/internal/model"
)

// requestTimeout bounds the database work of one API call.
const requestTimeout = 5 * time.Second

// Envelope is the body of every /api response.  Exactly one of Error and
// Msg is meaningful, selected by Status.
type Envelope struct {
	Status bool    `json:"status"`
	Error  *string `json:"error"`
	Msg    any     `json:"msg"`
}

// Responder writes envelopes.  With Strict unset domain failures are sent
// with HTTP 200 and only the body reports them; with Strict set each
// failure kind maps to its HTTP status.
type Responder struct {
	Strict bool
}

func (r Responder) ok(c echo.Context, msg any) error {
	return c.JSON(http.StatusOK, Envelope{Status: true, Msg: msg})
}

func (r Responder) fail(c echo.Context, err error) error {
	code := http.StatusOK
	if r.Strict {
		code = apperr.KindOf(err).HTTPStatus()
	}
	msg := apperr.Message(err)
	return c.JSON(code, Envelope{Status: false, Error: &msg})
}

func (r Responder) invalid(c echo.Context, msg string) error {
	return r.fail(c, apperr.New(apperr.Validation, msg))
}

// actor reads the caller set by JWTAuth.  Routes using it are always
// behind that middleware, so a missing actor means a wiring bug.
func actor(c echo.Context) model.Actor {
	a, _ := middleware.Actor(c)
	return a
}

func reqCtx(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), requestTimeout)
}
