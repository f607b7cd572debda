package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/iliyamo/hall-venue-booking/internal/model"
)

// VenueRepo reads and writes the venues table.
type VenueRepo struct{ db DBTX }

func NewVenueRepo(db DBTX) *VenueRepo { return &VenueRepo{db: db} }

const venueCols = `id, name, description, capacity, opening_hours, is_instant_book, visible, is_child_venue, parent_venue, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanVenue(s rowScanner) (model.Venue, error) {
	var (
		v      model.Venue
		parent sql.NullString
	)
	err := s.Scan(&v.ID, &v.Name, &v.Description, &v.Capacity, &v.OpeningHours,
		&v.IsInstantBook, &v.Visible, &v.IsChildVenue, &parent, &v.CreatedAt, &v.UpdatedAt)
	if err != nil {
		return model.Venue{}, err
	}
	if parent.Valid {
		p := parent.String
		v.ParentVenue = &p
	}
	return v, nil
}

// Get fetches a venue by ID.
func (r *VenueRepo) Get(ctx context.Context, id string) (model.Venue, error) {
	v, err := scanVenue(r.db.QueryRowContext(ctx,
		"SELECT "+venueCols+" FROM venues WHERE id = ? LIMIT 1", id))
	return v, notFound(err)
}

// List returns venues ordered by name.  When visibleOnly is set hidden
// venues are skipped.
func (r *VenueRepo) List(ctx context.Context, visibleOnly bool) ([]model.Venue, error) {
	q := "SELECT " + venueCols + " FROM venues"
	if visibleOnly {
		q += " WHERE visible = TRUE"
	}
	q += " ORDER BY name"
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Venue
	for rows.Next() {
		v, err := scanVenue(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

// Create inserts v.  A duplicate name yields ErrConflict.
func (r *VenueRepo) Create(ctx context.Context, v model.Venue) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO venues (id, name, description, capacity, opening_hours, is_instant_book, visible, is_child_venue, parent_venue)
		 VALUES (?,?,?,?,?,?,?,?,?)`,
		v.ID, v.Name, v.Description, v.Capacity, v.OpeningHours, v.IsInstantBook, v.Visible, v.IsChildVenue, v.ParentVenue)
	if err != nil {
		if isDuplicate(err) {
			return fmt.Errorf("venue %q: %w", v.Name, ErrConflict)
		}
		return err
	}
	return nil
}

// SetVisibility toggles whether residents may see and book the venue.
func (r *VenueRepo) SetVisibility(ctx context.Context, id string, visible bool) error {
	res, err := r.db.ExecContext(ctx, "UPDATE venues SET visible = ? WHERE id = ?", visible, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		// MySQL reports 0 for an unchanged row, so confirm it exists.
		if _, err := r.Get(ctx, id); err != nil {
			return err
		}
	}
	return nil
}

// LockFamily takes row locks on id, its parent and its children, in ID
// order.  It must run inside a transaction; approvals on related venues
// then serialise on the shared rows.
func (r *VenueRepo) LockFamily(ctx context.Context, id string) error {
	rows, err := r.db.QueryContext(ctx, `SELECT id FROM venues
		WHERE id = ?
		   OR id = (SELECT parent_venue FROM venues WHERE id = ?)
		   OR parent_venue = ?
		ORDER BY id FOR UPDATE`, id, id, id)
	if err != nil {
		return err
	}
	defer rows.Close()
	n := 0
	for rows.Next() {
		n++
	}
	if err := rows.Err(); err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// RelatedIDs returns id, its parent if it is a child venue, and its
// children if it has any.  Bookings on any of them block each other.
func (r *VenueRepo) RelatedIDs(ctx context.Context, id string) ([]string, error) {
	v, err := r.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	ids := []string{v.ID}
	if v.IsChildVenue && v.ParentVenue != nil {
		ids = append(ids, *v.ParentVenue)
	}
	rows, err := r.db.QueryContext(ctx, "SELECT id FROM venues WHERE parent_venue = ?", v.ID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var child string
		if err := rows.Scan(&child); err != nil {
			return nil, err
		}
		ids = append(ids, child)
	}
	return ids, rows.Err()
}
