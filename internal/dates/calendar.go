// Package dates converts between the date strings clients send, the Unix
// second timestamps stored with bookings and the formats shown back to
// users.  Every conversion happens in one fixed location so that results do
// not depend on the host's timezone.
package dates

import (
	"strings"
	"time"
	_ "time/tzdata" // the fixed timezone must resolve on hosts without zoneinfo
)

// UnknownDate is returned by the formatting helpers when they are handed a
// missing or invalid date.  Callers compare against it rather than treating
// it as an error.
const UnknownDate = "Unknown Date"

// DefaultTimezone is used when no timezone is configured.
const DefaultTimezone = "Asia/Singapore"

// Clock abstracts time.Now so date gating can be tested.
type Clock interface {
	Now() time.Time
}

// RealClock reads the system clock.
type RealClock struct{}

func (RealClock) Now() time.Time { return time.Now() }

// FixedClock always returns the same instant.
type FixedClock time.Time

func (f FixedClock) Now() time.Time { return time.Time(f) }

// Bounds outside of which a timestamp is treated as garbage rather than a
// calendar date.
var (
	minValid = time.Date(1900, 1, 1, 0, 0, 0, 0, time.UTC).Unix()
	maxValid = time.Date(9999, 12, 31, 23, 59, 59, 0, time.UTC).Unix()
)

// layouts accepted by ToUnix, tried in order.
var layouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006/01/02",
	"02/01/2006",
	"2 January 2006",
	"Monday, 2 January 2006",
	"Mon, 2 Jan 2006",
	"Jan 2, 2006",
	"January 2, 2006",
}

// Calendar performs date conversions in a single location.
type Calendar struct {
	loc   *time.Location
	clock Clock
}

// NewCalendar loads the named timezone.  An empty name selects
// DefaultTimezone.  A nil clock selects RealClock.
func NewCalendar(tz string, clock Clock) (*Calendar, error) {
	if tz == "" {
		tz = DefaultTimezone
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, err
	}
	if clock == nil {
		clock = RealClock{}
	}
	return &Calendar{loc: loc, clock: clock}, nil
}

// Location returns the calendar's timezone.
func (c *Calendar) Location() *time.Location { return c.loc }

// Now returns the current instant in the calendar's location.
func (c *Calendar) Now() time.Time { return c.clock.Now().In(c.loc) }

// StartOfDay truncates t to midnight in the calendar's location.
func (c *Calendar) StartOfDay(t time.Time) time.Time {
	t = t.In(c.loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, c.loc)
}

// ToUnix parses dateStr as a calendar date and returns midnight of that day
// as Unix seconds.  It returns 0 for anything it cannot parse.
func (c *Calendar) ToUnix(dateStr string) int64 {
	s := strings.TrimSpace(dateStr)
	if s == "" {
		return 0
	}
	for _, layout := range layouts {
		t, err := time.ParseInLocation(layout, s, c.loc)
		if err != nil {
			continue
		}
		secs := c.StartOfDay(t).Unix()
		if secs < minValid || secs > maxValid {
			return 0
		}
		return secs
	}
	return 0
}

// FromUnix converts seconds back into a time in the calendar's location.
// The boolean is false for 0, which ToUnix returns on failure, and for
// timestamps outside a plausible range.
func (c *Calendar) FromUnix(seconds int64) (time.Time, bool) {
	if seconds == 0 || seconds < minValid || seconds > maxValid {
		return time.Time{}, false
	}
	return time.Unix(seconds, 0).In(c.loc), true
}

// ISODate formats t as YYYY-MM-DD, or UnknownDate for the zero time.
func (c *Calendar) ISODate(t time.Time) string {
	if t.IsZero() {
		return UnknownDate
	}
	return t.In(c.loc).Format("2006-01-02")
}

// PrettyDate formats t as "Monday, 2 January 2006", or UnknownDate for the
// zero time.
func (c *Calendar) PrettyDate(t time.Time) string {
	if t.IsZero() {
		return UnknownDate
	}
	return t.In(c.loc).Format("Monday, 2 January 2006")
}

// UnixToISO is FromUnix followed by ISODate.
func (c *Calendar) UnixToISO(seconds int64) string {
	t, ok := c.FromUnix(seconds)
	if !ok {
		return UnknownDate
	}
	return c.ISODate(t)
}

// UnixToPretty is FromUnix followed by PrettyDate.
func (c *Calendar) UnixToPretty(seconds int64) string {
	t, ok := c.FromUnix(seconds)
	if !ok {
		return UnknownDate
	}
	return c.PrettyDate(t)
}

// Today is midnight of the current day.
func (c *Calendar) Today() time.Time { return c.StartOfDay(c.clock.Now()) }

// DaysFromNow is midnight of today plus the given number of days.
func (c *Calendar) DaysFromNow(days int) time.Time {
	return c.Today().AddDate(0, 0, days)
}

// IsAtLeastNDaysOut reports whether the date at target (Unix seconds) is on
// or after today + n days.
func (c *Calendar) IsAtLeastNDaysOut(target int64, n int) bool {
	t, ok := c.FromUnix(target)
	if !ok {
		return false
	}
	return !c.StartOfDay(t).Before(c.DaysFromNow(n))
}
