package model

import (
	"time"

	"github.com/iliyamo/hall-venue-booking/internal/slot"
)

// Status is the derived state of a booking request.
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusApproved  Status = "APPROVED"
	StatusRejected  Status = "REJECTED"
	StatusCancelled Status = "CANCELLED"
)

// ParseStatus maps a query value onto a Status.  The second result is false
// for unknown values.
func ParseStatus(s string) (Status, bool) {
	switch Status(s) {
	case StatusPending, StatusApproved, StatusRejected, StatusCancelled:
		return Status(s), true
	}
	return "", false
}

// PersonalCCA marks a request that is not made on behalf of any CCA.
const PersonalCCA = "PERSONAL"

// BookingRequest records a resident's request for one or more slots of a
// venue on one date.  State lives in three flags of which at most one is
// true; a request with none set is pending.  Requests are never deleted in
// normal operation.
type BookingRequest struct {
	ID          string    // venue_booking_requests.id
	Email       string    // venue_booking_requests.email
	VenueID     string    // venue_booking_requests.venue_id
	VenueName   string    // joined from venues.name, read only
	Date        int64     // venue_booking_requests.date (unix seconds)
	TimeSlots   string    // venue_booking_requests.time_slots (comma-joined slot IDs)
	CCA         string    // venue_booking_requests.cca
	Purpose     string    // venue_booking_requests.purpose
	IsApproved  bool      // venue_booking_requests.is_approved
	IsRejected  bool      // venue_booking_requests.is_rejected
	IsCancelled bool      // venue_booking_requests.is_cancelled
	Reason      string    // venue_booking_requests.reason
	CreatedAt   time.Time // venue_booking_requests.created_at
	UpdatedAt   time.Time // venue_booking_requests.updated_at
}

// Status derives the request's state from its flags.
func (b BookingRequest) Status() Status {
	switch {
	case b.IsCancelled:
		return StatusCancelled
	case b.IsRejected:
		return StatusRejected
	case b.IsApproved:
		return StatusApproved
	}
	return StatusPending
}

// Slots parses TimeSlots.
func (b BookingRequest) Slots() ([]int, bool) { return slot.ParseIDs(b.TimeSlots) }
