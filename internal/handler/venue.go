package handler

import (
	"context"
	"log"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hall-venue-booking/internal/venue"
)

// VenueHandler serves /api/venue.
type VenueHandler struct {
	Svc  *venue.Service
	Resp Responder
	// Purge drops cached catalogue responses after a change.  May be nil.
	Purge func(ctx context.Context) error
}

func NewVenueHandler(svc *venue.Service, resp Responder, purge func(context.Context) error) *VenueHandler {
	return &VenueHandler{Svc: svc, Resp: resp, Purge: purge}
}

type createVenueReq struct {
	Name          string `json:"name"`
	Description   string `json:"description"`
	Capacity      int    `json:"capacity"`
	OpeningHours  string `json:"openingHours"`
	IsInstantBook bool   `json:"isInstantBook"`
	Visible       bool   `json:"visible"`
	ParentVenue   string `json:"parentVenue"`
}

type visibilityReq struct {
	ID      string `json:"id"`
	Visible bool   `json:"visible"`
}

// Fetch: GET /api/venue/fetch
//
// Residents get visible venues; admins get all of them.  id selects one.
func (h *VenueHandler) Fetch(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	if id := strings.TrimSpace(c.QueryParam("id")); id != "" {
		v, err := h.Svc.Get(ctx, id)
		if err != nil {
			return h.Resp.fail(c, err)
		}
		return h.Resp.ok(c, v)
	}
	a := actor(c)
	if a.IsAdmin() {
		vs, err := h.Svc.ListAll(ctx, a)
		if err != nil {
			return h.Resp.fail(c, err)
		}
		return h.Resp.ok(c, vs)
	}
	vs, err := h.Svc.ListVisible(ctx)
	if err != nil {
		return h.Resp.fail(c, err)
	}
	return h.Resp.ok(c, vs)
}

// Slots: GET /api/venue/slots?venue=&date=
func (h *VenueHandler) Slots(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	slots, err := h.Svc.TimeSlots(ctx, strings.TrimSpace(c.QueryParam("venue")), c.QueryParam("date"))
	if err != nil {
		return h.Resp.fail(c, err)
	}
	return h.Resp.ok(c, slots)
}

// Create: POST /api/venue/create
func (h *VenueHandler) Create(c echo.Context) error {
	var req createVenueReq
	if err := c.Bind(&req); err != nil {
		return h.Resp.invalid(c, "Invalid request body")
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	v, err := h.Svc.Create(ctx, actor(c), venue.CreateInput(req))
	if err != nil {
		return h.Resp.fail(c, err)
	}
	h.purge(ctx)
	return h.Resp.ok(c, v)
}

// Visibility: POST /api/venue/visibility
func (h *VenueHandler) Visibility(c echo.Context) error {
	var req visibilityReq
	if err := c.Bind(&req); err != nil {
		return h.Resp.invalid(c, "Invalid request body")
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Svc.SetVisibility(ctx, actor(c), strings.TrimSpace(req.ID), req.Visible); err != nil {
		return h.Resp.fail(c, err)
	}
	h.purge(ctx)
	return h.Resp.ok(c, echo.Map{"id": req.ID, "visible": req.Visible})
}

func (h *VenueHandler) purge(ctx context.Context) {
	if h.Purge == nil {
		return
	}
	if err := h.Purge(ctx); err != nil {
		log.Printf("[venue] purge cache: %v", err)
	}
}
