// Package venue serves the venue catalogue and per-day slot availability.
package venue

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/iliyamo/hall-venue-booking/internal/apperr"
	"github.com/iliyamo/hall-venue-booking/internal/dates"
	"github.com/iliyamo/hall-venue-booking/internal/model"
	"github.com/iliyamo/hall-venue-booking/internal/repository"
	"github.com/iliyamo/hall-venue-booking/internal/slot"
)

// Store is the venue persistence used by Service.
type Store interface {
	Get(ctx context.Context, id string) (model.Venue, error)
	List(ctx context.Context, visibleOnly bool) ([]model.Venue, error)
	Create(ctx context.Context, v model.Venue) error
	SetVisibility(ctx context.Context, id string, visible bool) error
	RelatedIDs(ctx context.Context, id string) ([]string, error)
}

// Bookings reports which slots are taken.
type Bookings interface {
	BookedSlots(ctx context.Context, venueIDs []string, date int64) (map[int]bool, error)
}

type Service struct {
	venues   Store
	bookings Bookings
	cal      *dates.Calendar
}

func NewService(venues Store, bookings Bookings, cal *dates.Calendar) *Service {
	return &Service{venues: venues, bookings: bookings, cal: cal}
}

// ListVisible returns the venues residents may book.
func (s *Service) ListVisible(ctx context.Context) ([]model.Venue, error) {
	vs, err := s.venues.List(ctx, true)
	if err != nil {
		return nil, apperr.Store("list venues", err)
	}
	return vs, nil
}

// ListAll includes hidden venues and is restricted to admins.
func (s *Service) ListAll(ctx context.Context, actor model.Actor) ([]model.Venue, error) {
	if !actor.IsAdmin() {
		return nil, apperr.New(apperr.Authorization, "Only administrators can see hidden venues")
	}
	vs, err := s.venues.List(ctx, false)
	if err != nil {
		return nil, apperr.Store("list venues", err)
	}
	return vs, nil
}

func (s *Service) Get(ctx context.Context, id string) (model.Venue, error) {
	v, err := s.venues.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return model.Venue{}, apperr.New(apperr.NotFound, "Venue not found")
		}
		return model.Venue{}, apperr.Store("get venue", err)
	}
	return v, nil
}

// CreateInput describes a new venue.
type CreateInput struct {
	Name          string
	Description   string
	Capacity      int
	OpeningHours  string
	IsInstantBook bool
	Visible       bool
	ParentVenue   string
}

// Create adds a venue.  Child venues must name an existing top-level
// parent.
func (s *Service) Create(ctx context.Context, actor model.Actor, in CreateInput) (model.Venue, error) {
	if !actor.IsAdmin() {
		return model.Venue{}, apperr.New(apperr.Authorization, "Only administrators can create venues")
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return model.Venue{}, apperr.New(apperr.Validation, "A venue name is required")
	}
	if in.Capacity < 0 {
		return model.Venue{}, apperr.New(apperr.Validation, "Capacity cannot be negative")
	}
	if _, err := slot.ParseOpeningHours(in.OpeningHours); err != nil {
		return model.Venue{}, apperr.New(apperr.Validation, "Opening hours must look like 0700 - 2300")
	}
	v := model.Venue{
		ID:            uuid.NewString(),
		Name:          name,
		Description:   strings.TrimSpace(in.Description),
		Capacity:      in.Capacity,
		OpeningHours:  strings.TrimSpace(in.OpeningHours),
		IsInstantBook: in.IsInstantBook,
		Visible:       in.Visible,
	}
	if p := strings.TrimSpace(in.ParentVenue); p != "" {
		parent, err := s.Get(ctx, p)
		if err != nil {
			return model.Venue{}, err
		}
		if parent.IsChildVenue {
			return model.Venue{}, apperr.New(apperr.Validation, "A child venue cannot have children")
		}
		v.IsChildVenue = true
		v.ParentVenue = &parent.ID
	}
	if err := s.venues.Create(ctx, v); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return model.Venue{}, apperr.New(apperr.StateConflict, "A venue with that name already exists")
		}
		return model.Venue{}, apperr.Store("create venue", err)
	}
	return v, nil
}

// SetVisibility shows or hides a venue.
func (s *Service) SetVisibility(ctx context.Context, actor model.Actor, id string, visible bool) error {
	if !actor.IsAdmin() {
		return apperr.New(apperr.Authorization, "Only administrators can change venue visibility")
	}
	if err := s.venues.SetVisibility(ctx, id, visible); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperr.New(apperr.NotFound, "Venue not found")
		}
		return apperr.Store("set visibility", err)
	}
	return nil
}

// TimeSlots lists every slot inside the venue's opening hours on the given
// date, marking those already booked on it or a related venue.
func (s *Service) TimeSlots(ctx context.Context, venueID, dateStr string) ([]model.TimeSlot, error) {
	v, err := s.Get(ctx, venueID)
	if err != nil {
		return nil, err
	}
	if !v.Visible {
		return nil, apperr.New(apperr.Validation, "Venue is not available for booking")
	}
	date := s.cal.ToUnix(dateStr)
	if date == 0 {
		return nil, apperr.New(apperr.Validation, "Invalid date")
	}
	hours, err := slot.ParseOpeningHours(v.OpeningHours)
	if err != nil {
		return nil, apperr.New(apperr.Validation, "Venue opening hours are misconfigured")
	}
	related, err := s.venues.RelatedIDs(ctx, v.ID)
	if err != nil {
		return nil, apperr.Store("related venues", err)
	}
	booked, err := s.bookings.BookedSlots(ctx, related, date)
	if err != nil {
		return nil, apperr.Store("booked slots", err)
	}
	ids := hours.Slots()
	out := make([]model.TimeSlot, 0, len(ids))
	for _, id := range ids {
		out = append(out, model.TimeSlot{ID: id, Slot: slot.ToTiming(id), Booked: booked[id]})
	}
	return out, nil
}
