package booking

import (
	"context"

	"github.com/iliyamo/hall-venue-booking/internal/model"
	"github.com/iliyamo/hall-venue-booking/internal/queue"
	"github.com/iliyamo/hall-venue-booking/internal/repository"
)

// Store is the persistence the state machine needs.  Lookups that find
// nothing return repository.ErrNotFound; venue booking inserts that hit the
// unique key return repository.ErrSlotTaken.
type Store interface {
	// WithTx runs fn in a transaction bound Store.
	WithTx(ctx context.Context, fn func(Store) error) error

	GetVenue(ctx context.Context, id string) (model.Venue, error)
	RelatedVenueIDs(ctx context.Context, id string) ([]string, error)
	// LockVenueFamily locks the venue together with its parent and
	// children until the transaction ends.
	LockVenueFamily(ctx context.Context, id string) error
	IsCCALeader(ctx context.Context, ccaName, email string) (bool, error)

	GetRequest(ctx context.Context, id string, forUpdate bool) (model.BookingRequest, error)
	InsertRequest(ctx context.Context, b model.BookingRequest) error
	UpdateRequestState(ctx context.Context, b model.BookingRequest) error
	PendingRequests(ctx context.Context, venueID string, date int64) ([]model.BookingRequest, error)
	ListRequests(ctx context.Context, f repository.RequestFilter) ([]model.BookingRequest, error)

	SlotBooked(ctx context.Context, venueIDs []string, date int64, slotID int) (bool, error)
	InsertVenueBookings(ctx context.Context, rows []model.VenueBooking) error
	DeleteVenueBookings(ctx context.Context, requestID string) error
}

// Notifier receives booking events after their transaction commits.
type Notifier interface {
	Notify(ctx context.Context, ev queue.BookingEvent) error
}

type sqlStore struct{ *repository.Store }

// NewSQLStore adapts the MySQL repositories to Store.
func NewSQLStore(s *repository.Store) Store { return sqlStore{s} }

func (s sqlStore) WithTx(ctx context.Context, fn func(Store) error) error {
	return s.Store.WithTx(ctx, func(tx *repository.Store) error { return fn(sqlStore{tx}) })
}
