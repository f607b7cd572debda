// Package booking implements the booking request state machine.  A request
// starts PENDING and moves once to APPROVED, REJECTED or CANCELLED.
// Approval writes one venue booking row per slot and rejects every other
// pending request that overlaps it.
package booking

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/iliyamo/hall-venue-booking/internal/apperr"
	"github.com/iliyamo/hall-venue-booking/internal/config"
	"github.com/iliyamo/hall-venue-booking/internal/dates"
	"github.com/iliyamo/hall-venue-booking/internal/metrics"
	"github.com/iliyamo/hall-venue-booking/internal/model"
	"github.com/iliyamo/hall-venue-booking/internal/queue"
	"github.com/iliyamo/hall-venue-booking/internal/repository"
	"github.com/iliyamo/hall-venue-booking/internal/slot"
)

// CascadeReason is stored on requests rejected by the conflict cascade.
const CascadeReason = "Conflicting booking approved"

var errBadSlots = apperr.New(apperr.Validation, "Invalid time slots")

// Service runs booking transitions against a Store.
type Service struct {
	store   Store
	cal     *dates.Calendar
	rules   config.BookingRules
	notify  Notifier
	metrics *metrics.Metrics
	newID   func() string
}

// NewService wires a Service.  notifier and m may be nil.
func NewService(st Store, cal *dates.Calendar, rules config.BookingRules, notifier Notifier, m *metrics.Metrics) *Service {
	if notifier == nil {
		notifier = queue.LogNotifier{}
	}
	return &Service{store: st, cal: cal, rules: rules, notify: notifier, metrics: m, newID: uuid.NewString}
}

// CreateInput is a resident's booking submission.
type CreateInput struct {
	VenueID   string
	Date      string
	TimeSlots []slot.SlotRef
	CCA       string
	Purpose   string
}

// Create validates and stores a request.  For instant-book venues the
// request is approved in the same transaction.
func (s *Service) Create(ctx context.Context, actor model.Actor, in CreateInput) (model.BookingRequest, error) {
	defer s.observe("create", time.Now())

	req, venue, err := s.validateCreate(ctx, actor, in)
	if err != nil {
		return model.BookingRequest{}, s.fail("create", err)
	}

	var (
		events   []queue.BookingEvent
		rejected []model.BookingRequest
	)
	err = s.store.WithTx(ctx, func(tx Store) error {
		pending, err := tx.PendingRequests(ctx, req.VenueID, req.Date)
		if err != nil {
			return apperr.Store("list pending", err)
		}
		for _, p := range pending {
			// Both sides hold sorted, de-duplicated slot lists, so equal
			// strings mean the same slots; overlapping but different sets
			// are left to approval.
			if p.Email == req.Email && p.TimeSlots == req.TimeSlots {
				return apperr.New(apperr.StateConflict, "You already have a pending request for these slots")
			}
		}
		conflict, err := HasBookingConflict(ctx, tx, req)
		if err != nil {
			return classify("check conflict", err)
		}
		if conflict {
			return apperr.New(apperr.StateConflict, "Some of the selected slots are already booked")
		}
		if err := tx.InsertRequest(ctx, req); err != nil {
			return apperr.Store("insert request", err)
		}
		if !venue.IsInstantBook {
			return nil
		}
		rejected, err = s.approveTx(ctx, tx, &req)
		return err
	})
	if err != nil {
		return model.BookingRequest{}, s.fail("create", classify("create tx", err))
	}

	if req.IsApproved {
		s.metrics.Transition(string(model.StatusApproved))
		events = append(events, s.event(queue.EventApproved, req))
	} else {
		s.metrics.Transition(string(model.StatusPending))
		events = append(events, s.event(queue.EventCreated, req))
	}
	events = append(events, s.cascadeEvents(rejected)...)
	s.publish(ctx, events...)
	return req, nil
}

func (s *Service) validateCreate(ctx context.Context, actor model.Actor, in CreateInput) (model.BookingRequest, model.Venue, error) {
	if actor.Email == "" {
		return model.BookingRequest{}, model.Venue{}, apperr.New(apperr.Authorization, "Please sign in to make a booking")
	}
	venueID := strings.TrimSpace(in.VenueID)
	if venueID == "" {
		return model.BookingRequest{}, model.Venue{}, apperr.New(apperr.Validation, "A venue is required")
	}
	venue, err := s.store.GetVenue(ctx, venueID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return model.BookingRequest{}, model.Venue{}, apperr.New(apperr.NotFound, "Venue not found")
		}
		return model.BookingRequest{}, model.Venue{}, apperr.Store("get venue", err)
	}
	if !venue.Visible {
		return model.BookingRequest{}, model.Venue{}, apperr.New(apperr.Validation, "Venue is not available for booking")
	}

	date := s.cal.ToUnix(in.Date)
	if date == 0 {
		return model.BookingRequest{}, model.Venue{}, apperr.New(apperr.Validation, "Invalid date")
	}
	if !s.withinCalendar(date) {
		return model.BookingRequest{}, model.Venue{}, apperr.New(apperr.LeadTime,
			fmt.Sprintf("Bookings can only be made %d to %d day(s) in advance", s.rules.CalendarMinDay, s.rules.CalendarMaxDay))
	}

	ids, ok := slot.ParseIDs(slot.JoinIDs(in.TimeSlots))
	if !ok {
		return model.BookingRequest{}, model.Venue{}, errBadSlots
	}
	hours, err := slot.ParseOpeningHours(venue.OpeningHours)
	if err != nil {
		log.Printf("[booking] venue %s opening hours %q: %v", venue.ID, venue.OpeningHours, err)
		return model.BookingRequest{}, model.Venue{}, apperr.New(apperr.Validation, "Venue opening hours are misconfigured")
	}
	ids = normalizeSlots(ids)
	for _, id := range ids {
		if !slot.Valid(id) || !hours.Contains(id) {
			return model.BookingRequest{}, model.Venue{}, apperr.New(apperr.Validation,
				fmt.Sprintf("Slot %d is outside the venue's opening hours", id))
		}
	}

	purpose := strings.TrimSpace(in.Purpose)
	if purpose == "" {
		return model.BookingRequest{}, model.Venue{}, apperr.New(apperr.Validation, "A purpose is required")
	}
	cca := strings.TrimSpace(in.CCA)
	if cca == "" {
		return model.BookingRequest{}, model.Venue{}, apperr.New(apperr.Validation, "A CCA is required")
	}
	if cca != model.PersonalCCA && !actor.IsAdmin() {
		leader, err := s.store.IsCCALeader(ctx, cca, actor.Email)
		if err != nil {
			return model.BookingRequest{}, model.Venue{}, apperr.Store("check leader", err)
		}
		if !leader {
			return model.BookingRequest{}, model.Venue{}, apperr.New(apperr.Authorization,
				fmt.Sprintf("You are not a leader of %s", cca))
		}
	}

	req := model.BookingRequest{
		ID:        s.newID(),
		Email:     actor.Email,
		VenueID:   venue.ID,
		VenueName: venue.Name,
		Date:      date,
		TimeSlots: slot.FormatIDs(ids),
		CCA:       cca,
		Purpose:   purpose,
	}
	return req, venue, nil
}

// withinCalendar reports whether date lies in the bookable window.
func (s *Service) withinCalendar(date int64) bool {
	if !s.cal.IsAtLeastNDaysOut(date, s.rules.CalendarMinDay) {
		return false
	}
	return date <= s.cal.DaysFromNow(s.rules.CalendarMaxDay).Unix()
}

// normalizeSlots sorts and dedups ids so equal selections compare equal.
func normalizeSlots(ids []int) []int {
	out := append([]int(nil), ids...)
	sort.Ints(out)
	n := 0
	for i, v := range out {
		if i > 0 && v == out[n-1] {
			continue
		}
		out[n] = v
		n++
	}
	return out[:n]
}

// Approve confirms a pending request.
func (s *Service) Approve(ctx context.Context, actor model.Actor, id string) (model.BookingRequest, error) {
	defer s.observe("approve", time.Now())

	if !actor.IsAdmin() {
		return model.BookingRequest{}, s.fail("approve", apperr.New(apperr.Authorization, "Only administrators can approve requests"))
	}
	var (
		req      model.BookingRequest
		rejected []model.BookingRequest
	)
	err := s.store.WithTx(ctx, func(tx Store) error {
		var err error
		if req, err = s.load(ctx, tx, id); err != nil {
			return err
		}
		if st := req.Status(); st != model.StatusPending {
			return apperr.New(apperr.StateConflict, fmt.Sprintf("Request is already %s", strings.ToLower(string(st))))
		}
		if !s.cal.IsAtLeastNDaysOut(req.Date, s.rules.ApproveMinDay) {
			return apperr.New(apperr.LeadTime, fmt.Sprintf("Approval only possible %d day(s) before", s.rules.ApproveMinDay))
		}
		rejected, err = s.approveTx(ctx, tx, &req)
		return err
	})
	if err != nil {
		return model.BookingRequest{}, s.fail("approve", classify("approve tx", err))
	}
	s.metrics.Transition(string(model.StatusApproved))
	s.publish(ctx, append([]queue.BookingEvent{s.event(queue.EventApproved, req)}, s.cascadeEvents(rejected)...)...)
	return req, nil
}

// approveTx writes the venue bookings for req, marks it approved and
// rejects the pending requests it overlaps.  It returns those requests.
func (s *Service) approveTx(ctx context.Context, tx Store, req *model.BookingRequest) ([]model.BookingRequest, error) {
	ids, ok := req.Slots()
	if !ok {
		return nil, errBadSlots
	}
	// The unique key only covers one venue; parent and child approvals
	// are serialised here instead.
	if err := tx.LockVenueFamily(ctx, req.VenueID); err != nil {
		return nil, classify("lock venues", err)
	}
	conflict, err := HasBookingConflict(ctx, tx, *req)
	if err != nil {
		return nil, classify("check conflict", err)
	}
	if conflict {
		return nil, apperr.New(apperr.StateConflict, "Request conflicts with an existing booking")
	}

	rows := make([]model.VenueBooking, 0, len(ids))
	for _, sl := range ids {
		rows = append(rows, model.VenueBooking{
			ID:               s.newID(),
			BookingRequestID: req.ID,
			VenueID:          req.VenueID,
			Date:             req.Date,
			TimingSlot:       sl,
			Email:            req.Email,
			CCA:              req.CCA,
			Purpose:          req.Purpose,
		})
	}
	if err := tx.InsertVenueBookings(ctx, rows); err != nil {
		if errors.Is(err, repository.ErrSlotTaken) {
			return nil, apperr.New(apperr.StateConflict, "Request conflicts with an existing booking")
		}
		return nil, apperr.Store("insert venue bookings", err)
	}

	req.IsApproved, req.IsRejected, req.IsCancelled = true, false, false
	if err := tx.UpdateRequestState(ctx, *req); err != nil {
		return nil, apperr.Store("update request", err)
	}

	conflicting, err := FindConflictingRequests(ctx, tx, *req)
	if err != nil {
		return nil, apperr.Store("find conflicting", err)
	}
	for i := range conflicting {
		c := &conflicting[i]
		c.IsApproved, c.IsRejected, c.IsCancelled = false, true, false
		c.Reason = CascadeReason
		if err := tx.UpdateRequestState(ctx, *c); err != nil {
			return nil, apperr.Store("cascade reject", err)
		}
	}
	return conflicting, nil
}

// Reject refuses a request.  An approved request may still be rejected
// while it is outside the approval lead time; its venue bookings are
// released.
func (s *Service) Reject(ctx context.Context, actor model.Actor, id, reason string) (model.BookingRequest, error) {
	defer s.observe("reject", time.Now())

	if !actor.IsAdmin() {
		return model.BookingRequest{}, s.fail("reject", apperr.New(apperr.Authorization, "Only administrators can reject requests"))
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return model.BookingRequest{}, s.fail("reject", apperr.New(apperr.Validation, "A reason is required"))
	}
	var req model.BookingRequest
	err := s.store.WithTx(ctx, func(tx Store) error {
		var err error
		if req, err = s.load(ctx, tx, id); err != nil {
			return err
		}
		switch req.Status() {
		case model.StatusCancelled, model.StatusRejected:
			return apperr.New(apperr.StateConflict, fmt.Sprintf("Request is already %s", strings.ToLower(string(req.Status()))))
		case model.StatusApproved:
			if !s.cal.IsAtLeastNDaysOut(req.Date, s.rules.ApproveMinDay) {
				return apperr.New(apperr.LeadTime, fmt.Sprintf("Rejection only possible %d day(s) before", s.rules.ApproveMinDay))
			}
			if err := tx.DeleteVenueBookings(ctx, req.ID); err != nil {
				return apperr.Store("delete venue bookings", err)
			}
		}
		req.IsApproved, req.IsRejected, req.IsCancelled = false, true, false
		req.Reason = reason
		if err := tx.UpdateRequestState(ctx, req); err != nil {
			return apperr.Store("update request", err)
		}
		return nil
	})
	if err != nil {
		return model.BookingRequest{}, s.fail("reject", classify("reject tx", err))
	}
	s.metrics.Transition(string(model.StatusRejected))
	s.publish(ctx, s.event(queue.EventRejected, req))
	return req, nil
}

// Cancel withdraws a request on behalf of its owner.
func (s *Service) Cancel(ctx context.Context, actor model.Actor, id string) (model.BookingRequest, error) {
	defer s.observe("cancel", time.Now())

	var (
		req     model.BookingRequest
		waiting []model.BookingRequest
	)
	err := s.store.WithTx(ctx, func(tx Store) error {
		var err error
		if req, err = s.load(ctx, tx, id); err != nil {
			return err
		}
		if req.Email != actor.Email {
			return apperr.New(apperr.Authorization, "Only the requester can cancel this booking")
		}
		switch req.Status() {
		case model.StatusCancelled, model.StatusRejected:
			return apperr.New(apperr.StateConflict, fmt.Sprintf("Request is already %s", strings.ToLower(string(req.Status()))))
		}
		if !s.cal.IsAtLeastNDaysOut(req.Date, s.rules.CancelMinDay) {
			return apperr.New(apperr.LeadTime, fmt.Sprintf("Cancellation only possible %d day(s) before", s.rules.CancelMinDay))
		}
		if req.IsApproved {
			if err := tx.DeleteVenueBookings(ctx, req.ID); err != nil {
				return apperr.Store("delete venue bookings", err)
			}
			if waiting, err = FindConflictingRequests(ctx, tx, req); err != nil {
				return apperr.Store("find conflicting", err)
			}
		}
		req.IsApproved, req.IsRejected, req.IsCancelled = false, false, true
		if err := tx.UpdateRequestState(ctx, req); err != nil {
			return apperr.Store("update request", err)
		}
		return nil
	})
	if err != nil {
		return model.BookingRequest{}, s.fail("cancel", classify("cancel tx", err))
	}
	s.metrics.Transition(string(model.StatusCancelled))
	events := []queue.BookingEvent{s.event(queue.EventCancelled, req)}
	for _, w := range waiting {
		events = append(events, s.event(queue.EventConflictNotice, w))
	}
	s.publish(ctx, events...)
	return req, nil
}

// load reads and locks a request inside a transaction.
func (s *Service) load(ctx context.Context, tx Store, id string) (model.BookingRequest, error) {
	if strings.TrimSpace(id) == "" {
		return model.BookingRequest{}, apperr.New(apperr.Validation, "A booking ID is required")
	}
	req, err := tx.GetRequest(ctx, id, true)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return model.BookingRequest{}, apperr.New(apperr.NotFound, "Booking request not found")
		}
		return model.BookingRequest{}, apperr.Store("get request", err)
	}
	return req, nil
}

func (s *Service) cascadeEvents(rejected []model.BookingRequest) []queue.BookingEvent {
	s.metrics.Cascade(len(rejected))
	out := make([]queue.BookingEvent, 0, len(rejected))
	for _, r := range rejected {
		out = append(out, s.event(queue.EventRejected, r))
	}
	return out
}

func (s *Service) event(kind string, r model.BookingRequest) queue.BookingEvent {
	ids, _ := r.Slots()
	return queue.BookingEvent{
		Type:       kind,
		RequestID:  r.ID,
		Email:      r.Email,
		VenueID:    r.VenueID,
		VenueName:  r.VenueName,
		Date:       s.cal.UnixToISO(r.Date),
		Timings:    slot.MergeTimings(ids),
		CCA:        r.CCA,
		Purpose:    r.Purpose,
		Reason:     r.Reason,
		OccurredAt: s.cal.Now(),
	}
}

// publish delivers events without blocking the caller on the broker for
// long and without surfacing failures.
func (s *Service) publish(ctx context.Context, events ...queue.BookingEvent) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 3*time.Second)
	defer cancel()
	for _, ev := range events {
		if err := s.notify.Notify(ctx, ev); err != nil {
			s.metrics.NotifyFailed()
			log.Printf("[booking] notify %s for %s failed: %v", ev.Type, ev.RequestID, err)
		}
	}
}

func (s *Service) fail(op string, err error) error {
	s.metrics.Failure(op, apperr.KindOf(err).String())
	return err
}

func (s *Service) observe(op string, start time.Time) {
	s.metrics.Observe(op, time.Since(start).Seconds())
}

// classify keeps classified errors and hides everything else behind a
// Persistence error.
func classify(op string, err error) error {
	var ae *apperr.Error
	if errors.As(err, &ae) {
		return ae
	}
	return apperr.Store(op, err)
}
