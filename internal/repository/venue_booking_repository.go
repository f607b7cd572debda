package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/hall-venue-booking/internal/model"
)

// VenueBookingRepo manages confirmed slot rows.  Each row is one
// (venue, date, slot) triple, unique across the table.
type VenueBookingRepo struct{ db DBTX }

func NewVenueBookingRepo(db DBTX) *VenueBookingRepo { return &VenueBookingRepo{db: db} }

// SlotBooked reports whether any of venueIDs holds slot on date.  It is a
// locking read so that, inside a transaction, rows committed by a
// concurrent approval are seen even after the snapshot was taken.
func (r *VenueBookingRepo) SlotBooked(ctx context.Context, venueIDs []string, date int64, slotID int) (bool, error) {
	if len(venueIDs) == 0 {
		return false, nil
	}
	args := make([]any, 0, len(venueIDs)+2)
	for _, id := range venueIDs {
		args = append(args, id)
	}
	args = append(args, date, slotID)
	var one int
	err := r.db.QueryRowContext(ctx,
		"SELECT 1 FROM venue_bookings WHERE venue_id IN ("+placeholders(len(venueIDs))+") AND date = ? AND timing_slot = ? LIMIT 1 LOCK IN SHARE MODE",
		args...).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// BookedSlots returns the slots held on date by any of venueIDs.
func (r *VenueBookingRepo) BookedSlots(ctx context.Context, venueIDs []string, date int64) (map[int]bool, error) {
	out := map[int]bool{}
	if len(venueIDs) == 0 {
		return out, nil
	}
	args := make([]any, 0, len(venueIDs)+1)
	for _, id := range venueIDs {
		args = append(args, id)
	}
	args = append(args, date)
	rows, err := r.db.QueryContext(ctx,
		"SELECT timing_slot FROM venue_bookings WHERE venue_id IN ("+placeholders(len(venueIDs))+") AND date = ?",
		args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var s int
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		out[s] = true
	}
	return out, rows.Err()
}

// InsertBatch writes all rows in one statement.  A unique-key collision
// yields ErrSlotTaken and nothing is written.
func (r *VenueBookingRepo) InsertBatch(ctx context.Context, rows []model.VenueBooking) error {
	if len(rows) == 0 {
		return nil
	}
	query := "INSERT INTO venue_bookings (id, booking_request_id, venue_id, date, timing_slot, email, cca, purpose) VALUES "
	args := make([]any, 0, len(rows)*8)
	for i, b := range rows {
		if i > 0 {
			query += ","
		}
		query += "(?,?,?,?,?,?,?,?)"
		args = append(args, b.ID, b.BookingRequestID, b.VenueID, b.Date, b.TimingSlot, b.Email, b.CCA, b.Purpose)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		if isDuplicate(err) {
			return ErrSlotTaken
		}
		return err
	}
	return nil
}

// DeleteByRequest removes every row written for a request.
func (r *VenueBookingRepo) DeleteByRequest(ctx context.Context, requestID string) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM venue_bookings WHERE booking_request_id = ?", requestID)
	return err
}

// ExportRow is a venue booking joined with its venue name.
type ExportRow struct {
	model.VenueBooking
	VenueName string
}

// ListRange returns bookings with from <= date <= to ordered by date,
// venue and slot.
func (r *VenueBookingRepo) ListRange(ctx context.Context, from, to int64) ([]ExportRow, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT b.id, b.booking_request_id, b.venue_id, v.name, b.date, b.timing_slot, b.email, b.cca, b.purpose, b.created_at
		 FROM venue_bookings b JOIN venues v ON v.id = b.venue_id
		 WHERE b.date >= ? AND b.date <= ?
		 ORDER BY b.date, v.name, b.timing_slot`, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []ExportRow
	for rows.Next() {
		var e ExportRow
		if err := rows.Scan(&e.ID, &e.BookingRequestID, &e.VenueID, &e.VenueName, &e.Date, &e.TimingSlot,
			&e.Email, &e.CCA, &e.Purpose, &e.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
