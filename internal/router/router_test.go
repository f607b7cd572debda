package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/iliyamo/hall-venue-booking/internal/config"
	"github.com/iliyamo/hall-venue-booking/internal/handler"
	"github.com/iliyamo/hall-venue-booking/internal/metrics"
)

func TestRoutesRegistered(t *testing.T) {
	e := echo.New()
	reg := prometheus.NewRegistry()
	metrics.New(reg)
	RegisterRoutes(e, nil, reg)
	RegisterAuth(e, &handler.AuthHandler{}, "s")
	RegisterAPI(e, API{
		JWTSecret: "s",
		RateLimit: config.RateLimitConfig{Capacity: 1, MutationCapacity: 1, RefillTokens: 1},
		Bookings:  &handler.BookingHandler{},
		Venues:    &handler.VenueHandler{},
		Export:    &handler.ExportHandler{},
		CCAs:      &handler.CCAHandler{},
	})

	have := map[string]bool{}
	for _, r := range e.Routes() {
		have[r.Method+" "+r.Path] = true
	}
	for _, want := range []string{
		"GET /healthz",
		"GET /metrics",
		"POST /v1/auth/register",
		"POST /v1/auth/login",
		"POST /v1/auth/refresh",
		"POST /v1/auth/logout",
		"GET /v1/me",
		"POST /api/bookingReq/create",
		"POST /api/bookingReq/approve",
		"POST /api/bookingReq/reject",
		"POST /api/bookingReq/cancel",
		"GET /api/bookingReq/fetch",
		"GET /api/venue/fetch",
		"GET /api/venue/slots",
		"POST /api/venue/create",
		"POST /api/venue/visibility",
		"GET /api/venueBooking/export",
		"GET /api/cca/fetch",
		"POST /api/cca/session/create",
		"POST /api/cca/session/update",
		"POST /api/cca/session/attendance",
		"GET /api/cca/session/fetch",
	} {
		if !have[want] {
			t.Errorf("route %s not registered", want)
		}
	}
}

func TestAPIRequiresToken(t *testing.T) {
	e := echo.New()
	RegisterAPI(e, API{
		JWTSecret: "s",
		Bookings:  &handler.BookingHandler{},
		Venues:    &handler.VenueHandler{},
		Export:    &handler.ExportHandler{},
		CCAs:      &handler.CCAHandler{},
	})
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/venue/fetch", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("code = %d", rec.Code)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	e := echo.New()
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	m.Transition("PENDING")
	RegisterRoutes(e, nil, reg)

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("code = %d", rec.Code)
	}
}
