// Package queue publishes booking notifications to RabbitMQ and consumes
// them into an append-only booking log.  Delivery is best effort; the
// booking flow never waits on it.
package queue

import "time"

// Routing keys, one per notification.
const (
	EventCreated        = "booking.created"
	EventApproved       = "booking.approved"
	EventRejected       = "booking.rejected"
	EventCancelled      = "booking.cancelled"
	EventConflictNotice = "booking.conflict_notice"
)

// BookingEvent carries enough about a request for a mailer or the log
// consumer to act without reading the database.
type BookingEvent struct {
	Type       string    `json:"type"`
	RequestID  string    `json:"request_id"`
	Email      string    `json:"email"`
	VenueID    string    `json:"venue_id"`
	VenueName  string    `json:"venue_name"`
	Date       string    `json:"date"`
	Timings    []string  `json:"timings"`
	CCA        string    `json:"cca"`
	Purpose    string    `json:"purpose"`
	Reason     string    `json:"reason,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}
