package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/iliyamo/hall-venue-booking/internal/model"
)

// Store bundles the booking repositories over one handle, either the pool
// or an open transaction.
type Store struct {
	db       *sql.DB // nil inside a transaction
	Venues   *VenueRepo
	Requests *BookingRequestRepo
	Bookings *VenueBookingRepo
	CCAs     *CCARepo
	Sessions *CCASessionRepo
}

func NewStore(db *sql.DB) *Store {
	s := bind(db)
	s.db = db
	return s
}

func bind(h DBTX) *Store {
	return &Store{
		Venues:   NewVenueRepo(h),
		Requests: NewBookingRequestRepo(h),
		Bookings: NewVenueBookingRepo(h),
		CCAs:     NewCCARepo(h),
		Sessions: NewCCASessionRepo(h),
	}
}

// WithTx runs fn against a Store bound to a new transaction.  The
// transaction commits when fn returns nil and rolls back otherwise.
// Calling WithTx on a Store that is already transactional runs fn in the
// same transaction.
func (s *Store) WithTx(ctx context.Context, fn func(*Store) error) error {
	if s.db == nil {
		return fn(s)
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	if err := fn(bind(tx)); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	committed = true
	return nil
}

func (s *Store) GetVenue(ctx context.Context, id string) (model.Venue, error) {
	return s.Venues.Get(ctx, id)
}

func (s *Store) LockVenueFamily(ctx context.Context, id string) error {
	return s.Venues.LockFamily(ctx, id)
}

func (s *Store) RelatedVenueIDs(ctx context.Context, id string) ([]string, error) {
	return s.Venues.RelatedIDs(ctx, id)
}

func (s *Store) IsCCALeader(ctx context.Context, ccaName, email string) (bool, error) {
	return s.CCAs.IsLeaderByName(ctx, ccaName, email)
}

func (s *Store) GetRequest(ctx context.Context, id string, forUpdate bool) (model.BookingRequest, error) {
	return s.Requests.Get(ctx, id, forUpdate)
}

func (s *Store) InsertRequest(ctx context.Context, b model.BookingRequest) error {
	return s.Requests.Insert(ctx, b)
}

func (s *Store) UpdateRequestState(ctx context.Context, b model.BookingRequest) error {
	return s.Requests.UpdateState(ctx, b)
}

func (s *Store) PendingRequests(ctx context.Context, venueID string, date int64) ([]model.BookingRequest, error) {
	return s.Requests.Pending(ctx, venueID, date)
}

func (s *Store) ListRequests(ctx context.Context, f RequestFilter) ([]model.BookingRequest, error) {
	return s.Requests.List(ctx, f)
}

func (s *Store) SlotBooked(ctx context.Context, venueIDs []string, date int64, slotID int) (bool, error) {
	return s.Bookings.SlotBooked(ctx, venueIDs, date, slotID)
}

func (s *Store) InsertVenueBookings(ctx context.Context, rows []model.VenueBooking) error {
	return s.Bookings.InsertBatch(ctx, rows)
}

func (s *Store) DeleteVenueBookings(ctx context.Context, requestID string) error {
	return s.Bookings.DeleteByRequest(ctx, requestID)
}

// IsNotFound reports whether err wraps ErrNotFound.
func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }
