package handler

import (
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hall-venue-booking/internal/booking"
	"github.com/iliyamo/hall-venue-booking/internal/slot"
)

// BookingHandler serves /api/bookingReq.
type BookingHandler struct {
	Svc  *booking.Service
	Resp Responder
}

func NewBookingHandler(svc *booking.Service, resp Responder) *BookingHandler {
	return &BookingHandler{Svc: svc, Resp: resp}
}

type createBookingReq struct {
	Venue     string         `json:"venue"`
	Date      string         `json:"date"`
	TimeSlots []slot.SlotRef `json:"timeSlots"`
	CCA       string         `json:"cca"`
	Purpose   string         `json:"purpose"`
}

type bookingIDReq struct {
	ID     string `json:"id"`
	Reason string `json:"reason"`
}

// Create: POST /api/bookingReq/create
func (h *BookingHandler) Create(c echo.Context) error {
	var req createBookingReq
	if err := c.Bind(&req); err != nil {
		return h.Resp.invalid(c, "Invalid request body")
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	r, err := h.Svc.Create(ctx, actor(c), booking.CreateInput{
		VenueID:   req.Venue,
		Date:      req.Date,
		TimeSlots: req.TimeSlots,
		CCA:       req.CCA,
		Purpose:   req.Purpose,
	})
	if err != nil {
		return h.Resp.fail(c, err)
	}
	return h.Resp.ok(c, echo.Map{"id": r.ID, "status": r.Status()})
}

// Approve: POST /api/bookingReq/approve
func (h *BookingHandler) Approve(c echo.Context) error {
	var req bookingIDReq
	if err := c.Bind(&req); err != nil {
		return h.Resp.invalid(c, "Invalid request body")
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	r, err := h.Svc.Approve(ctx, actor(c), strings.TrimSpace(req.ID))
	if err != nil {
		return h.Resp.fail(c, err)
	}
	return h.Resp.ok(c, echo.Map{"id": r.ID, "status": r.Status()})
}

// Reject: POST /api/bookingReq/reject
func (h *BookingHandler) Reject(c echo.Context) error {
	var req bookingIDReq
	if err := c.Bind(&req); err != nil {
		return h.Resp.invalid(c, "Invalid request body")
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	r, err := h.Svc.Reject(ctx, actor(c), strings.TrimSpace(req.ID), req.Reason)
	if err != nil {
		return h.Resp.fail(c, err)
	}
	return h.Resp.ok(c, echo.Map{"id": r.ID, "status": r.Status()})
}

// Cancel: POST /api/bookingReq/cancel
func (h *BookingHandler) Cancel(c echo.Context) error {
	var req bookingIDReq
	if err := c.Bind(&req); err != nil {
		return h.Resp.invalid(c, "Invalid request body")
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	r, err := h.Svc.Cancel(ctx, actor(c), strings.TrimSpace(req.ID))
	if err != nil {
		return h.Resp.fail(c, err)
	}
	return h.Resp.ok(c, echo.Map{"id": r.ID, "status": r.Status()})
}

// Fetch: GET /api/bookingReq/fetch
//
// id returns one request.  Otherwise q filters by status (ALL, PENDING,
// APPROVED, REJECTED, CANCELLED), venue and email narrow the list, and
// merge=true coalesces back to back requests.
func (h *BookingHandler) Fetch(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	if id := strings.TrimSpace(c.QueryParam("id")); id != "" {
		v, err := h.Svc.Get(ctx, actor(c), id)
		if err != nil {
			return h.Resp.fail(c, err)
		}
		return h.Resp.ok(c, v)
	}

	views, err := h.Svc.List(ctx, actor(c), booking.Filter{
		Status:  c.QueryParam("q"),
		VenueID: strings.TrimSpace(c.QueryParam("venue")),
		Email:   strings.TrimSpace(c.QueryParam("email")),
	})
	if err != nil {
		return h.Resp.fail(c, err)
	}
	if merge, _ := strconv.ParseBool(c.QueryParam("merge")); merge {
		views = booking.MergeAdjacent(views)
	}
	return h.Resp.ok(c, views)
}
