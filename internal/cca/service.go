// Package cca manages CCA leadership, sessions and attendance.
package cca

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/iliyamo/hall-venue-booking/internal/apperr"
	"github.com/iliyamo/hall-venue-booking/internal/config"
	"github.com/iliyamo/hall-venue-booking/internal/dates"
	"github.com/iliyamo/hall-venue-booking/internal/model"
	"github.com/iliyamo/hall-venue-booking/internal/repository"
	"github.com/iliyamo/hall-venue-booking/internal/slot"
)

// CCAStore reads CCAs and their leaders.
type CCAStore interface {
	Get(ctx context.Context, id string) (model.CCA, error)
	ListAll(ctx context.Context) ([]model.CCA, error)
	ListByLeader(ctx context.Context, email string) ([]model.CCA, error)
	IsLeader(ctx context.Context, ccaID, email string) (bool, error)
}

// SessionStore persists sessions and attendance.
type SessionStore interface {
	Get(ctx context.Context, id string) (model.CCASession, error)
	Create(ctx context.Context, cs model.CCASession) error
	Update(ctx context.Context, cs model.CCASession) error
	ListByCCA(ctx context.Context, ccaID string) ([]model.CCASession, error)
	UpsertAttendance(ctx context.Context, records []model.CCAAttendance) error
	Attendance(ctx context.Context, sessionID string) ([]model.CCAAttendance, error)
}

type Service struct {
	ccas     CCAStore
	sessions SessionStore
	cal      *dates.Calendar
	rules    config.BookingRules
}

func NewService(ccas CCAStore, sessions SessionStore, cal *dates.Calendar, rules config.BookingRules) *Service {
	return &Service{ccas: ccas, sessions: sessions, cal: cal, rules: rules}
}

// ListForUser returns the CCAs the actor leads, or every CCA for admins.
func (s *Service) ListForUser(ctx context.Context, actor model.Actor) ([]model.CCA, error) {
	var (
		out []model.CCA
		err error
	)
	if actor.IsAdmin() {
		out, err = s.ccas.ListAll(ctx)
	} else {
		out, err = s.ccas.ListByLeader(ctx, actor.Email)
	}
	if err != nil {
		return nil, apperr.Store("list ccas", err)
	}
	return out, nil
}

// SessionInput is the editable part of a session.
type SessionInput struct {
	CCAID    string
	Date     string
	Start    string // HHMM
	End      string // HHMM
	Optional bool
	Remarks  string
}

// CreateSession schedules a session for a CCA the actor leads.
func (s *Service) CreateSession(ctx context.Context, actor model.Actor, in SessionInput) (model.CCASession, error) {
	if err := s.authorize(ctx, actor, in.CCAID); err != nil {
		return model.CCASession{}, err
	}
	cs := model.CCASession{ID: uuid.NewString(), CCAID: in.CCAID}
	if err := s.apply(&cs, in); err != nil {
		return model.CCASession{}, err
	}
	if err := s.sessions.Create(ctx, cs); err != nil {
		return model.CCASession{}, apperr.Store("create session", err)
	}
	cs.Editable = s.editable(cs.Date)
	return cs, nil
}

// UpdateSession reschedules a session.  Sessions closer than
// SESSION_EDITABLE_DAY days, before or after the change, are locked.
func (s *Service) UpdateSession(ctx context.Context, actor model.Actor, id string, in SessionInput) (model.CCASession, error) {
	cs, err := s.session(ctx, id)
	if err != nil {
		return model.CCASession{}, err
	}
	if err := s.authorize(ctx, actor, cs.CCAID); err != nil {
		return model.CCASession{}, err
	}
	if !s.editable(cs.Date) {
		return model.CCASession{}, s.lockedErr()
	}
	if err := s.apply(&cs, in); err != nil {
		return model.CCASession{}, err
	}
	if !s.editable(cs.Date) {
		return model.CCASession{}, s.lockedErr()
	}
	if err := s.sessions.Update(ctx, cs); err != nil {
		return model.CCASession{}, apperr.Store("update session", err)
	}
	cs.Editable = true
	return cs, nil
}

// RecordAttendance stores attendance for a session.  Unknown statuses are
// rejected before anything is written.
func (s *Service) RecordAttendance(ctx context.Context, actor model.Actor, sessionID string, records []model.CCAAttendance) error {
	cs, err := s.session(ctx, sessionID)
	if err != nil {
		return err
	}
	if err := s.authorize(ctx, actor, cs.CCAID); err != nil {
		return err
	}
	if len(records) == 0 {
		return apperr.New(apperr.Validation, "No attendance records given")
	}
	clean := make([]model.CCAAttendance, 0, len(records))
	for _, r := range records {
		email := repository.NormalizeEmail(r.Email)
		if email == "" {
			return apperr.New(apperr.Validation, "Every record needs an email")
		}
		status := strings.ToUpper(strings.TrimSpace(r.Status))
		switch status {
		case model.AttendancePresent, model.AttendanceAbsent, model.AttendanceExcused:
		default:
			return apperr.New(apperr.Validation, fmt.Sprintf("Unknown attendance status %q", r.Status))
		}
		clean = append(clean, model.CCAAttendance{SessionID: cs.ID, Email: email, Status: status, Remarks: strings.TrimSpace(r.Remarks)})
	}
	if err := s.sessions.UpsertAttendance(ctx, clean); err != nil {
		return apperr.Store("record attendance", err)
	}
	return nil
}

// Attendance lists the records of one session.
func (s *Service) Attendance(ctx context.Context, actor model.Actor, sessionID string) ([]model.CCAAttendance, error) {
	cs, err := s.session(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(ctx, actor, cs.CCAID); err != nil {
		return nil, err
	}
	out, err := s.sessions.Attendance(ctx, cs.ID)
	if err != nil {
		return nil, apperr.Store("list attendance", err)
	}
	return out, nil
}

// ListSessions returns a CCA's sessions with Editable filled in.
func (s *Service) ListSessions(ctx context.Context, ccaID string) ([]model.CCASession, error) {
	if _, err := s.ccas.Get(ctx, ccaID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.New(apperr.NotFound, "CCA not found")
		}
		return nil, apperr.Store("get cca", err)
	}
	out, err := s.sessions.ListByCCA(ctx, ccaID)
	if err != nil {
		return nil, apperr.Store("list sessions", err)
	}
	for i := range out {
		out[i].Editable = s.editable(out[i].Date)
	}
	return out, nil
}

func (s *Service) session(ctx context.Context, id string) (model.CCASession, error) {
	cs, err := s.sessions.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return model.CCASession{}, apperr.New(apperr.NotFound, "Session not found")
		}
		return model.CCASession{}, apperr.Store("get session", err)
	}
	return cs, nil
}

func (s *Service) authorize(ctx context.Context, actor model.Actor, ccaID string) error {
	if strings.TrimSpace(ccaID) == "" {
		return apperr.New(apperr.Validation, "A CCA is required")
	}
	if _, err := s.ccas.Get(ctx, ccaID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperr.New(apperr.NotFound, "CCA not found")
		}
		return apperr.Store("get cca", err)
	}
	if actor.IsAdmin() {
		return nil
	}
	ok, err := s.ccas.IsLeader(ctx, ccaID, actor.Email)
	if err != nil {
		return apperr.Store("check leader", err)
	}
	if !ok {
		return apperr.New(apperr.Authorization, "Only leaders of this CCA can manage its sessions")
	}
	return nil
}

// apply validates in and copies it onto cs.
func (s *Service) apply(cs *model.CCASession, in SessionInput) error {
	date := s.cal.ToUnix(in.Date)
	if date == 0 {
		return apperr.New(apperr.Validation, "Invalid date")
	}
	start, ok := slot.FindByBoundary(in.Start, true)
	if !ok {
		return apperr.New(apperr.Validation, "Start time must be on a half hour, e.g. 1930")
	}
	end, ok := slot.FindByBoundary(in.End, false)
	if !ok {
		return apperr.New(apperr.Validation, "End time must be on a half hour, e.g. 2100")
	}
	if end < start {
		return apperr.New(apperr.Validation, "Session must end after it starts")
	}
	cs.Date = date
	cs.Start = strings.TrimSpace(in.Start)
	cs.End = strings.TrimSpace(in.End)
	cs.Optional = in.Optional
	cs.Remarks = strings.TrimSpace(in.Remarks)
	return nil
}

func (s *Service) editable(date int64) bool {
	return s.cal.IsAtLeastNDaysOut(date, s.rules.SessionEditableDay)
}

func (s *Service) lockedErr() error {
	return apperr.New(apperr.LeadTime, fmt.Sprintf("Sessions can only be changed %d day(s) before", s.rules.SessionEditableDay))
}
