package handler

import (
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hall-venue-booking/internal/cca"
	"github.com/iliyamo/hall-venue-booking/internal/model"
)

// CCAHandler serves /api/cca.
type CCAHandler struct {
	Svc  *cca.Service
	Resp Responder
}

func NewCCAHandler(svc *cca.Service, resp Responder) *CCAHandler {
	return &CCAHandler{Svc: svc, Resp: resp}
}

type sessionReq struct {
	ID       string `json:"id"`
	CCA      string `json:"cca"`
	Date     string `json:"date"`
	Start    string `json:"start"`
	End      string `json:"end"`
	Optional bool   `json:"optional"`
	Remarks  string `json:"remarks"`
}

func (r sessionReq) input() cca.SessionInput {
	return cca.SessionInput{
		CCAID: strings.TrimSpace(r.CCA), Date: r.Date, Start: r.Start, End: r.End,
		Optional: r.Optional, Remarks: r.Remarks,
	}
}

type attendanceReq struct {
	SessionID string                `json:"sessionID"`
	Records   []model.CCAAttendance `json:"records"`
}

// Fetch: GET /api/cca/fetch
func (h *CCAHandler) Fetch(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	ccas, err := h.Svc.ListForUser(ctx, actor(c))
	if err != nil {
		return h.Resp.fail(c, err)
	}
	return h.Resp.ok(c, ccas)
}

// CreateSession: POST /api/cca/session/create
func (h *CCAHandler) CreateSession(c echo.Context) error {
	var req sessionReq
	if err := c.Bind(&req); err != nil {
		return h.Resp.invalid(c, "Invalid request body")
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	cs, err := h.Svc.CreateSession(ctx, actor(c), req.input())
	if err != nil {
		return h.Resp.fail(c, err)
	}
	return h.Resp.ok(c, cs)
}

// UpdateSession: POST /api/cca/session/update
func (h *CCAHandler) UpdateSession(c echo.Context) error {
	var req sessionReq
	if err := c.Bind(&req); err != nil {
		return h.Resp.invalid(c, "Invalid request body")
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	cs, err := h.Svc.UpdateSession(ctx, actor(c), strings.TrimSpace(req.ID), req.input())
	if err != nil {
		return h.Resp.fail(c, err)
	}
	return h.Resp.ok(c, cs)
}

// RecordAttendance: POST /api/cca/session/attendance
func (h *CCAHandler) RecordAttendance(c echo.Context) error {
	var req attendanceReq
	if err := c.Bind(&req); err != nil {
		return h.Resp.invalid(c, "Invalid request body")
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Svc.RecordAttendance(ctx, actor(c), strings.TrimSpace(req.SessionID), req.Records); err != nil {
		return h.Resp.fail(c, err)
	}
	return h.Resp.ok(c, echo.Map{"sessionID": req.SessionID, "recorded": len(req.Records)})
}

// Attendance: GET /api/cca/session/attendance?id=
func (h *CCAHandler) Attendance(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	out, err := h.Svc.Attendance(ctx, actor(c), strings.TrimSpace(c.QueryParam("id")))
	if err != nil {
		return h.Resp.fail(c, err)
	}
	return h.Resp.ok(c, out)
}

// Sessions: GET /api/cca/session/fetch?cca=
func (h *CCAHandler) Sessions(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	out, err := h.Svc.ListSessions(ctx, strings.TrimSpace(c.QueryParam("cca")))
	if err != nil {
		return h.Resp.fail(c, err)
	}
	return h.Resp.ok(c, out)
}
