package repository

import (
	"context"
	"strings"

	"github.com/iliyamo/hall-venue-booking/internal/model"
)

// RequestFilter narrows ListRequests.  Zero values match everything.
type RequestFilter struct {
	ID      string
	Email   string
	VenueID string
	Status  model.Status
	From    int64 // inclusive, unix seconds
	To      int64 // inclusive, unix seconds
}

// BookingRequestRepo reads and writes venue_booking_requests.
type BookingRequestRepo struct{ db DBTX }

func NewBookingRequestRepo(db DBTX) *BookingRequestRepo { return &BookingRequestRepo{db: db} }

const requestSelect = `SELECT r.id, r.email, r.venue_id, v.name, r.date, r.time_slots, r.cca, r.purpose,
	r.is_approved, r.is_rejected, r.is_cancelled, COALESCE(r.reason, ''), r.created_at, r.updated_at
	FROM venue_booking_requests r JOIN venues v ON v.id = r.venue_id`

func scanRequest(s rowScanner) (model.BookingRequest, error) {
	var b model.BookingRequest
	err := s.Scan(&b.ID, &b.Email, &b.VenueID, &b.VenueName, &b.Date, &b.TimeSlots, &b.CCA, &b.Purpose,
		&b.IsApproved, &b.IsRejected, &b.IsCancelled, &b.Reason, &b.CreatedAt, &b.UpdatedAt)
	return b, err
}

// Get fetches a request by ID.  With forUpdate the row is locked until the
// surrounding transaction ends; it must then run inside Store.WithTx.
func (r *BookingRequestRepo) Get(ctx context.Context, id string, forUpdate bool) (model.BookingRequest, error) {
	q := requestSelect + " WHERE r.id = ? LIMIT 1"
	if forUpdate {
		q += " FOR UPDATE"
	}
	b, err := scanRequest(r.db.QueryRowContext(ctx, q, id))
	return b, notFound(err)
}

// Insert stores a new request.  The flags are written as given so an
// instant-book request can be inserted and approved in one transaction.
func (r *BookingRequestRepo) Insert(ctx context.Context, b model.BookingRequest) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO venue_booking_requests
		 (id, email, venue_id, date, time_slots, cca, purpose, is_approved, is_rejected, is_cancelled, reason)
		 VALUES (?,?,?,?,?,?,?,?,?,?,?)`,
		b.ID, b.Email, b.VenueID, b.Date, b.TimeSlots, b.CCA, b.Purpose,
		b.IsApproved, b.IsRejected, b.IsCancelled, nullIfEmpty(b.Reason))
	return err
}

// UpdateState persists the three state flags and the reason.
func (r *BookingRequestRepo) UpdateState(ctx context.Context, b model.BookingRequest) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE venue_booking_requests
		 SET is_approved = ?, is_rejected = ?, is_cancelled = ?, reason = ?
		 WHERE id = ?`,
		b.IsApproved, b.IsRejected, b.IsCancelled, nullIfEmpty(b.Reason), b.ID)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		if _, err := r.Get(ctx, b.ID, false); err != nil {
			return err
		}
	}
	return nil
}

// Pending returns pending requests for one venue and date.
func (r *BookingRequestRepo) Pending(ctx context.Context, venueID string, date int64) ([]model.BookingRequest, error) {
	return r.List(ctx, RequestFilter{VenueID: venueID, Status: model.StatusPending, From: date, To: date})
}

// List returns requests matching f, newest date first.
func (r *BookingRequestRepo) List(ctx context.Context, f RequestFilter) ([]model.BookingRequest, error) {
	var (
		where []string
		args  []any
	)
	if f.ID != "" {
		where = append(where, "r.id = ?")
		args = append(args, f.ID)
	}
	if f.Email != "" {
		where = append(where, "r.email = ?")
		args = append(args, f.Email)
	}
	if f.VenueID != "" {
		where = append(where, "r.venue_id = ?")
		args = append(args, f.VenueID)
	}
	if f.From != 0 {
		where = append(where, "r.date >= ?")
		args = append(args, f.From)
	}
	if f.To != 0 {
		where = append(where, "r.date <= ?")
		args = append(args, f.To)
	}
	switch f.Status {
	case model.StatusPending:
		where = append(where, "r.is_approved = FALSE AND r.is_rejected = FALSE AND r.is_cancelled = FALSE")
	case model.StatusApproved:
		where = append(where, "r.is_approved = TRUE")
	case model.StatusRejected:
		where = append(where, "r.is_rejected = TRUE")
	case model.StatusCancelled:
		where = append(where, "r.is_cancelled = TRUE")
	}

	q := requestSelect
	if len(where) > 0 {
		q += " WHERE " + strings.Join(where, " AND ")
	}
	q += " ORDER BY r.date DESC, r.created_at DESC"

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.BookingRequest
	for rows.Next() {
		b, err := scanRequest(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}
