// Package export renders confirmed venue bookings as an xlsx workbook.
package export

import (
	"context"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/iliyamo/hall-venue-booking/internal/apperr"
	"github.com/iliyamo/hall-venue-booking/internal/dates"
	"github.com/iliyamo/hall-venue-booking/internal/repository"
	"github.com/iliyamo/hall-venue-booking/internal/slot"
)

const (
	SheetName = "Bookings"
	// MaxRangeDays caps a single export.
	MaxRangeDays = 366
)

var header = []string{"Date", "Venue", "Timings", "Email", "CCA", "Purpose", "Request ID"}

// Bookings is satisfied by repository.VenueBookingRepo.
type Bookings interface {
	ListRange(ctx context.Context, from, to int64) ([]repository.ExportRow, error)
}

type Service struct {
	bookings Bookings
	cal      *dates.Calendar
}

func NewService(bookings Bookings, cal *dates.Calendar) *Service {
	return &Service{bookings: bookings, cal: cal}
}

// Row is one request's bookings on one day, with consecutive slots merged.
type Row struct {
	Date      int64
	Venue     string
	Timings   []string
	Email     string
	CCA       string
	Purpose   string
	RequestID string
}

// Rows loads bookings between start and end (inclusive) and groups them by
// request.  Input order is preserved.
func (s *Service) Rows(ctx context.Context, start, end string) ([]Row, error) {
	from, to := s.cal.ToUnix(start), s.cal.ToUnix(end)
	if from == 0 || to == 0 {
		return nil, apperr.New(apperr.Validation, "Invalid date range")
	}
	if to < from {
		return nil, apperr.New(apperr.Validation, "End date is before start date")
	}
	ft, _ := s.cal.FromUnix(from)
	if tt, _ := s.cal.FromUnix(to); tt.After(ft.AddDate(0, 0, MaxRangeDays)) {
		return nil, apperr.New(apperr.Validation, fmt.Sprintf("Exports are limited to %d days", MaxRangeDays))
	}

	raw, err := s.bookings.ListRange(ctx, from, to)
	if err != nil {
		return nil, apperr.Store("list bookings for export", err)
	}

	type key struct {
		date int64
		req  string
	}
	index := map[key]int{}
	slots := map[key][]int{}
	var rows []Row
	for _, b := range raw {
		k := key{b.Date, b.BookingRequestID}
		if _, ok := index[k]; !ok {
			index[k] = len(rows)
			rows = append(rows, Row{
				Date: b.Date, Venue: b.VenueName, Email: b.Email,
				CCA: b.CCA, Purpose: b.Purpose, RequestID: b.BookingRequestID,
			})
		}
		slots[k] = append(slots[k], b.TimingSlot)
	}
	for k, i := range index {
		rows[i].Timings = slot.MergeTimings(slots[k])
	}
	return rows, nil
}

// Write streams the workbook for the range to w.
func (s *Service) Write(ctx context.Context, w io.Writer, start, end string) error {
	rows, err := s.Rows(ctx, start, end)
	if err != nil {
		return err
	}
	f, err := s.workbook(rows, start, end)
	if err != nil {
		return apperr.Store("build workbook", err)
	}
	defer func() {
		if err := f.Close(); err != nil {
			log.Printf("[export] close workbook: %v", err)
		}
	}()
	if _, err := f.WriteTo(w); err != nil {
		return apperr.Store("write workbook", err)
	}
	return nil
}

// Filename is the attachment name for a range.
func Filename(start, end string) string {
	return fmt.Sprintf("venue_bookings_%s_to_%s.xlsx", strings.TrimSpace(start), strings.TrimSpace(end))
}

func (s *Service) workbook(rows []Row, start, end string) (*excelize.File, error) {
	f := excelize.NewFile()
	idx, err := f.NewSheet(SheetName)
	if err != nil {
		return nil, err
	}
	f.SetActiveSheet(idx)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, err
	}

	title := fmt.Sprintf("Venue bookings: %s to %s", s.cal.UnixToPretty(s.cal.ToUnix(start)), s.cal.UnixToPretty(s.cal.ToUnix(end)))
	if err := f.SetCellValue(SheetName, "A1", title); err != nil {
		return nil, err
	}
	last, _ := excelize.CoordinatesToCellName(len(header), 1)
	if err := f.MergeCell(SheetName, "A1", last); err != nil {
		return nil, err
	}
	if st, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 14},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	}); err == nil {
		f.SetCellStyle(SheetName, "A1", "A1", st)
	}

	headStyle, err := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#DDEBF7"}, Pattern: 1},
		Font: &excelize.Font{Bold: true},
	})
	if err != nil {
		return nil, err
	}
	for i, h := range header {
		cell, _ := excelize.CoordinatesToCellName(i+1, 2)
		if err := f.SetCellValue(SheetName, cell, h); err != nil {
			return nil, err
		}
	}
	hEnd, _ := excelize.CoordinatesToCellName(len(header), 2)
	f.SetCellStyle(SheetName, "A2", hEnd, headStyle)

	wrap, err := f.NewStyle(&excelize.Style{Alignment: &excelize.Alignment{Vertical: "top", WrapText: true}})
	if err != nil {
		return nil, err
	}
	for r, row := range rows {
		values := []any{
			s.cal.UnixToISO(row.Date), row.Venue, strings.Join(row.Timings, "\n"),
			row.Email, row.CCA, row.Purpose, row.RequestID,
		}
		for c, v := range values {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+3)
			if err := f.SetCellValue(SheetName, cell, v); err != nil {
				return nil, err
			}
		}
	}
	if len(rows) > 0 {
		bEnd, _ := excelize.CoordinatesToCellName(len(header), len(rows)+2)
		f.SetCellStyle(SheetName, "A3", bEnd, wrap)
	}

	widths := []float64{12, 24, 14, 28, 16, 36, 38}
	for i, wd := range widths {
		col, _ := excelize.ColumnNumberToName(i + 1)
		f.SetColWidth(SheetName, col, col, wd)
	}
	return f, nil
}
