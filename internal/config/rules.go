package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

// BookingRules are the day thresholds that gate booking and session
// changes, plus the timezone all dates are interpreted in.  Every value has
// a default so a bare environment yields a working service.
type BookingRules struct {
	ApproveMinDay      int    `envconfig:"APPROVE_MIN_DAY" default:"3"`
	CancelMinDay       int    `envconfig:"CANCEL_MIN_DAY" default:"3"`
	SessionEditableDay int    `envconfig:"SESSION_EDITABLE_DAY" default:"2"`
	CalendarMinDay     int    `envconfig:"CALENDAR_MIN_DAY" default:"0"`
	CalendarMaxDay     int    `envconfig:"CALENDAR_MAX_DAY" default:"30"`
	Timezone           string `envconfig:"APP_TIMEZONE" default:"Asia/Singapore"`

	// StrictStatus switches API errors from HTTP 200 envelopes to status
	// codes derived from the error kind.
	StrictStatus bool `envconfig:"API_STRICT_STATUS" default:"false"`
}

// LoadBookingRules reads BookingRules from the environment.
func LoadBookingRules() (BookingRules, error) {
	var r BookingRules
	if err := envconfig.Process("", &r); err != nil {
		return BookingRules{}, err
	}
	if err := r.Validate(); err != nil {
		return BookingRules{}, err
	}
	return r, nil
}

// DefaultBookingRules returns the rules with every default applied.
func DefaultBookingRules() BookingRules {
	return BookingRules{
		ApproveMinDay:      3,
		CancelMinDay:       3,
		SessionEditableDay: 2,
		CalendarMinDay:     0,
		CalendarMaxDay:     30,
		Timezone:           "Asia/Singapore",
	}
}

// Validate rejects negative thresholds and an inverted calendar window.
func (r BookingRules) Validate() error {
	for name, v := range map[string]int{
		"APPROVE_MIN_DAY":      r.ApproveMinDay,
		"CANCEL_MIN_DAY":       r.CancelMinDay,
		"SESSION_EDITABLE_DAY": r.SessionEditableDay,
		"CALENDAR_MIN_DAY":     r.CalendarMinDay,
		"CALENDAR_MAX_DAY":     r.CalendarMaxDay,
	} {
		if v < 0 {
			return fmt.Errorf("%s must not be negative, got %d", name, v)
		}
	}
	if r.CalendarMaxDay < r.CalendarMinDay {
		return fmt.Errorf("CALENDAR_MAX_DAY (%d) is before CALENDAR_MIN_DAY (%d)", r.CalendarMaxDay, r.CalendarMinDay)
	}
	return nil
}
