package export

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/iliyamo/hall-venue-booking/internal/apperr"
	"github.com/iliyamo/hall-venue-booking/internal/dates"
	"github.com/iliyamo/hall-venue-booking/internal/model"
	"github.com/iliyamo/hall-venue-booking/internal/repository"
)

type fakeBookings struct {
	rows     []repository.ExportRow
	from, to int64
}

func (f *fakeBookings) ListRange(_ context.Context, from, to int64) ([]repository.ExportRow, error) {
	f.from, f.to = from, to
	return f.rows, nil
}

func booking(cal *dates.Calendar, date, req, venue string, s int) repository.ExportRow {
	return repository.ExportRow{
		VenueBooking: model.VenueBooking{
			BookingRequestID: req, VenueID: venue, Date: cal.ToUnix(date), TimingSlot: s,
			Email: "r@hall.test", CCA: "Band", Purpose: "practice",
		},
		VenueName: "Hall " + venue,
	}
}

func setup(t *testing.T) (*Service, *fakeBookings, *dates.Calendar) {
	t.Helper()
	cal, err := dates.NewCalendar("", dates.FixedClock(time.Date(2024, 5, 1, 2, 0, 0, 0, time.UTC)))
	if err != nil {
		t.Fatal(err)
	}
	fb := &fakeBookings{rows: []repository.ExportRow{
		booking(cal, "2024-05-10", "r1", "a", 16),
		booking(cal, "2024-05-10", "r1", "a", 17),
		booking(cal, "2024-05-10", "r1", "a", 20),
		booking(cal, "2024-05-11", "r2", "b", 30),
	}}
	return NewService(fb, cal), fb, cal
}

func TestRowsGroupsByRequest(t *testing.T) {
	svc, fb, cal := setup(t)
	rows, err := svc.Rows(context.Background(), "2024-05-10", "2024-05-11")
	if err != nil {
		t.Fatal(err)
	}
	if fb.from != cal.ToUnix("2024-05-10") || fb.to != cal.ToUnix("2024-05-11") {
		t.Fatalf("range = %d..%d", fb.from, fb.to)
	}
	if len(rows) != 2 {
		t.Fatalf("got %d rows", len(rows))
	}
	want := []string{"0800 - 0900", "1000 - 1030"}
	if len(rows[0].Timings) != 2 || rows[0].Timings[0] != want[0] || rows[0].Timings[1] != want[1] {
		t.Fatalf("timings = %v, want %v", rows[0].Timings, want)
	}
	if rows[1].RequestID != "r2" || rows[1].Timings[0] != "1500 - 1530" {
		t.Fatalf("second row = %+v", rows[1])
	}
}

func TestRowsRejectsBadRange(t *testing.T) {
	svc, _, _ := setup(t)
	cases := []struct{ name, start, end string }{
		{"garbage", "x", "2024-05-11"},
		{"backwards", "2024-05-11", "2024-05-10"},
		{"too long", "2024-01-01", "2025-06-01"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Rows(context.Background(), tc.start, tc.end)
			if !apperr.Is(err, apperr.Validation) {
				t.Fatalf("err = %v", err)
			}
		})
	}
}

func TestWriteWorkbook(t *testing.T) {
	svc, _, _ := setup(t)
	var buf bytes.Buffer
	if err := svc.Write(context.Background(), &buf, "2024-05-10", "2024-05-11"); err != nil {
		t.Fatal(err)
	}
	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	if sheets := f.GetSheetList(); len(sheets) != 1 || sheets[0] != SheetName {
		t.Fatalf("sheets = %v", sheets)
	}
	rows, err := f.GetRows(SheetName)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 4 {
		t.Fatalf("got %d rows", len(rows))
	}
	if rows[1][0] != "Date" || rows[2][0] != "2024-05-10" || rows[2][2] != "0800 - 0900\n1000 - 1030" {
		t.Fatalf("unexpected rows %q", rows)
	}
}

func TestFilename(t *testing.T) {
	if got := Filename(" 2024-05-10", "2024-05-11 "); got != "venue_bookings_2024-05-10_to_2024-05-11.xlsx" {
		t.Fatal(got)
	}
}
