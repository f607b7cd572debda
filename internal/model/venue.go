package model

import "time"

// Venue is a bookable room or area of the hall.  Child venues are sections
// of a parent venue (e.g. half of the sports hall); a booking on either
// blocks the other.
//
// Fields:
//  ID            – primary key identifier.
//  Name          – display name, unique.
//  Description   – optional free text.
//  Capacity      – maximum occupancy, 0 when unknown.
//  OpeningHours  – bookable window as "HHMM - HHMM".
//  IsInstantBook – requests are approved on creation.
//  Visible       – whether residents may see and book the venue.
//  IsChildVenue  – whether ParentVenue is set.
//  ParentVenue   – ID of the parent venue (nil for top-level venues).
type Venue struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	Capacity      int       `json:"capacity"`
	OpeningHours  string    `json:"openingHours"`
	IsInstantBook bool      `json:"isInstantBook"`
	Visible       bool      `json:"visible"`
	IsChildVenue  bool      `json:"isChildVenue"`
	ParentVenue   *string   `json:"parentVenue,omitempty"`
	CreatedAt     time.Time `json:"-"`
	UpdatedAt     time.Time `json:"-"`
}

// TimeSlot is the per venue/date availability view of a single slot.  It
// is computed on demand and never stored.
type TimeSlot struct {
	ID     int    `json:"id"`
	Slot   string `json:"slot"`
	Booked bool   `json:"booked"`
}

// VenueBooking is one confirmed (venue, date, slot) triple.  Rows are
// written when a request is approved and removed when that request is later
// rejected or cancelled.  The `venue_bookings` table carries a unique key
// on (venue_id, date, timing_slot).
type VenueBooking struct {
	ID               string    // venue_bookings.id
	BookingRequestID string    // venue_bookings.booking_request_id
	VenueID          string    // venue_bookings.venue_id
	Date             int64     // venue_bookings.date (unix seconds, local midnight)
	TimingSlot       int       // venue_bookings.timing_slot
	Email            string    // venue_bookings.email
	CCA              string    // venue_bookings.cca
	Purpose          string    // venue_bookings.purpose
	CreatedAt        time.Time // venue_bookings.created_at
}
