package booking

import (
	"context"
	"errors"
	"sort"
	"strings"

	"github.com/iliyamo/hall-venue-booking/internal/apperr"
	"github.com/iliyamo/hall-venue-booking/internal/model"
	"github.com/iliyamo/hall-venue-booking/internal/repository"
	"github.com/iliyamo/hall-venue-booking/internal/slot"
)

// View is a booking request as returned by the fetch endpoint.
type View struct {
	ID          string   `json:"id"`
	Email       string   `json:"email"`
	VenueID     string   `json:"venueID"`
	Venue       string   `json:"venue"`
	Date        int64    `json:"date"`
	DateStr     string   `json:"dateStr"`
	PrettyDate  string   `json:"prettyDate"`
	TimeSlots   []int    `json:"timeSlots"`
	Timings     []string `json:"timings"`
	CCA         string   `json:"cca"`
	Purpose     string   `json:"purpose"`
	Status      string   `json:"status"`
	Reason      string   `json:"reason,omitempty"`
	Cancellable bool     `json:"cancellable"`
	MergedIDs   []string `json:"mergedIDs,omitempty"`
}

// Filter selects requests for List.  Status "" or "ALL" matches every
// state.
type Filter struct {
	Status  string
	VenueID string
	Email   string // honoured for admins only
}

func (s *Service) toView(r model.BookingRequest) View {
	ids, _ := r.Slots()
	st := r.Status()
	return View{
		ID:          r.ID,
		Email:       r.Email,
		VenueID:     r.VenueID,
		Venue:       r.VenueName,
		Date:        r.Date,
		DateStr:     s.cal.UnixToISO(r.Date),
		PrettyDate:  s.cal.UnixToPretty(r.Date),
		TimeSlots:   ids,
		Timings:     slot.MergeTimings(ids),
		CCA:         r.CCA,
		Purpose:     r.Purpose,
		Status:      string(st),
		Reason:      r.Reason,
		Cancellable: (st == model.StatusPending || st == model.StatusApproved) && s.cal.IsAtLeastNDaysOut(r.Date, s.rules.CancelMinDay),
	}
}

// Get returns one request.  Residents may only read their own.
func (s *Service) Get(ctx context.Context, actor model.Actor, id string) (View, error) {
	if strings.TrimSpace(id) == "" {
		return View{}, apperr.New(apperr.Validation, "A booking ID is required")
	}
	r, err := s.store.GetRequest(ctx, id, false)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return View{}, apperr.New(apperr.NotFound, "Booking request not found")
		}
		return View{}, apperr.Store("get request", err)
	}
	if !actor.IsAdmin() && r.Email != actor.Email {
		return View{}, apperr.New(apperr.Authorization, "You may only view your own bookings")
	}
	return s.toView(r), nil
}

// List returns requests matching f.  Residents only see their own.
func (s *Service) List(ctx context.Context, actor model.Actor, f Filter) ([]View, error) {
	rf := repository.RequestFilter{VenueID: f.VenueID}
	switch q := strings.ToUpper(strings.TrimSpace(f.Status)); q {
	case "", "ALL":
	default:
		st, ok := model.ParseStatus(q)
		if !ok {
			return nil, apperr.New(apperr.Validation, "Unknown status filter")
		}
		rf.Status = st
	}
	if actor.IsAdmin() {
		rf.Email = f.Email
	} else {
		rf.Email = actor.Email
	}
	rows, err := s.store.ListRequests(ctx, rf)
	if err != nil {
		return nil, apperr.Store("list requests", err)
	}
	out := make([]View, 0, len(rows))
	for _, r := range rows {
		out = append(out, s.toView(r))
	}
	return out, nil
}

type mergeKey struct {
	email, venue, cca, purpose, status string
	date                               int64
}

// less orders keys by date first so merged output stays chronological.
func (k mergeKey) less(o mergeKey) bool {
	switch {
	case k.date != o.date:
		return k.date < o.date
	case k.email != o.email:
		return k.email < o.email
	case k.venue != o.venue:
		return k.venue < o.venue
	case k.cca != o.cca:
		return k.cca < o.cca
	case k.purpose != o.purpose:
		return k.purpose < o.purpose
	}
	return k.status < o.status
}

func touchesAny(a, b []string) bool {
	for _, x := range a {
		for _, y := range b {
			if slot.Touching(x, y) {
				return true
			}
		}
	}
	return false
}

// MergeAdjacent coalesces views that share owner, venue, date, CCA,
// purpose and status and whose timings touch, so a run of back to back
// requests reads as one row.  It does not modify its input.
func MergeAdjacent(views []View) []View {
	sorted := append([]View(nil), views...)
	first := func(v View) int {
		if len(v.TimeSlots) == 0 {
			return -1
		}
		return v.TimeSlots[0]
	}
	key := func(v View) mergeKey {
		return mergeKey{v.Email, v.VenueID, v.CCA, v.Purpose, v.Status, v.Date}
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		ka, kb := key(sorted[i]), key(sorted[j])
		if ka != kb {
			return ka.less(kb)
		}
		return first(sorted[i]) < first(sorted[j])
	})

	var out []View
	for _, v := range sorted {
		if n := len(out); n > 0 {
			prev := &out[n-1]
			if key(*prev) == key(v) && touchesAny(prev.Timings, v.Timings) {
				if len(prev.MergedIDs) == 0 {
					prev.MergedIDs = []string{prev.ID}
				}
				prev.MergedIDs = append(prev.MergedIDs, v.ID)
				prev.TimeSlots = append(append([]int(nil), prev.TimeSlots...), v.TimeSlots...)
				prev.Timings = slot.MergeRanges(append(append([]string(nil), prev.Timings...), v.Timings...))
				prev.Cancellable = prev.Cancellable && v.Cancellable
				continue
			}
		}
		out = append(out, v)
	}
	return out
}
