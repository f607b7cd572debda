// Package router registers the HTTP routes and their middleware.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/iliyamo/hall-venue-booking/internal/handler"
	"github.com/iliyamo/hall-venue-booking/internal/middleware"
)

// RegisterRoutes registers routes that do not require authentication:
// the health check and the Prometheus scrape endpoint.
func RegisterRoutes(e *echo.Echo, db handler.Pinger, gatherer prometheus.Gatherer) {
	e.GET("/healthz", handler.Health(db))
	if gatherer != nil {
		e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	}
}

// RegisterAuth registers the account endpoints.  Register, login, refresh
// and logout live under /v1/auth and need no session; /v1/me and
// /v1/terms require an access token.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	g.POST("/refresh", a.Refresh)
	g.POST("/logout", a.Logout)

	auth := e.Group("/v1", middleware.JWTAuth(jwtSecret))
	auth.GET("/me", a.Me)
	auth.POST("/terms", a.AcceptTerms)
}
