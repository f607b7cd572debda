package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/hall-venue-booking/internal/config"
	"github.com/iliyamo/hall-venue-booking/internal/handler"
	"github.com/iliyamo/hall-venue-booking/internal/middleware"
	"github.com/iliyamo/hall-venue-booking/internal/model"
)

// API groups what RegisterAPI needs.  Redis may be nil.
type API struct {
	JWTSecret string
	RateLimit config.RateLimitConfig
	Cache     config.CacheConfig
	Redis     *redis.Client

	Bookings *handler.BookingHandler
	Venues   *handler.VenueHandler
	Export   *handler.ExportHandler
	CCAs     *handler.CCAHandler
}

// RegisterAPI registers the /api endpoints.  Every route needs a session;
// booking mutations draw from the smaller mutation bucket and admin-only
// routes check the admin level before reaching the handler.
func RegisterAPI(e *echo.Echo, a API) {
	g := e.Group("/api",
		middleware.JWTAuth(a.JWTSecret),
		middleware.NewTokenBucket(a.RateLimit, a.Redis),
	)
	admin := middleware.RequireAdmin(model.AdminStaff)
	mutation := middleware.NewTokenBucket(a.RateLimit.ForMutations(), a.Redis)

	br := g.Group("/bookingReq")
	br.POST("/create", a.Bookings.Create, mutation)
	br.POST("/approve", a.Bookings.Approve, admin)
	br.POST("/reject", a.Bookings.Reject, admin)
	br.POST("/cancel", a.Bookings.Cancel, mutation)
	br.GET("/fetch", a.Bookings.Fetch)

	v := g.Group("/venue")
	v.GET("/fetch", a.Venues.Fetch, middleware.NewRedisCache(a.Cache, a.Redis))
	v.GET("/slots", a.Venues.Slots)
	v.POST("/create", a.Venues.Create, admin)
	v.POST("/visibility", a.Venues.Visibility, admin)

	g.GET("/venueBooking/export", a.Export.Export, admin)

	c := g.Group("/cca")
	c.GET("/fetch", a.CCAs.Fetch)
	c.POST("/session/create", a.CCAs.CreateSession)
	c.POST("/session/update", a.CCAs.UpdateSession)
	c.POST("/session/attendance", a.CCAs.RecordAttendance)
	c.GET("/session/attendance", a.CCAs.Attendance)
	c.GET("/session/fetch", a.CCAs.Sessions)
}
