package handler

import (
	"bytes"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hall-venue-booking/internal/export"
)

const xlsxMIME = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ExportHandler serves /api/venueBooking/export.
type ExportHandler struct {
	Svc  *export.Service
	Resp Responder
}

func NewExportHandler(svc *export.Service, resp Responder) *ExportHandler {
	return &ExportHandler{Svc: svc, Resp: resp}
}

// Export: GET /api/venueBooking/export?start=&end=
//
// The workbook is built in memory so a failure can still be reported in
// the envelope.
func (h *ExportHandler) Export(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	start, end := c.QueryParam("start"), c.QueryParam("end")
	var buf bytes.Buffer
	if err := h.Svc.Write(ctx, &buf, start, end); err != nil {
		return h.Resp.fail(c, err)
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+export.Filename(start, end)+`"`)
	return c.Blob(http.StatusOK, xlsxMIME, buf.Bytes())
}
