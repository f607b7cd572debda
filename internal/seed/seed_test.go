package seed

import (
	"context"
	"strings"
	"testing"

	"github.com/iliyamo/hall-venue-booking/internal/dates"
	"github.com/iliyamo/hall-venue-booking/internal/model"
	"github.com/iliyamo/hall-venue-booking/internal/repository"
	"github.com/iliyamo/hall-venue-booking/internal/venue"
)

const doc = `
venues:
  - name: Hall A
    opening_hours: "0700 - 2300"
    visible: true
    parent: Sports Hall
  - name: Sports Hall
    capacity: 200
    opening_hours: "0700 - 2300"
    visible: true
ccas:
  - name: Band
    category: Arts
    leaders: [" Lead@Hall.test "]
admins:
  - email: office@hall.test
    name: Office
    password: ${SEED_ADMIN_PASSWORD}
    level: 1
`

type memVenues struct{ byID map[string]model.Venue }

func (m *memVenues) Get(_ context.Context, id string) (model.Venue, error) {
	v, ok := m.byID[id]
	if !ok {
		return model.Venue{}, repository.ErrNotFound
	}
	return v, nil
}

func (m *memVenues) List(context.Context, bool) ([]model.Venue, error) {
	var out []model.Venue
	for _, v := range m.byID {
		out = append(out, v)
	}
	return out, nil
}

func (m *memVenues) Create(_ context.Context, v model.Venue) error {
	m.byID[v.ID] = v
	return nil
}

func (m *memVenues) SetVisibility(context.Context, string, bool) error { return nil }

func (m *memVenues) RelatedIDs(_ context.Context, id string) ([]string, error) {
	return []string{id}, nil
}

type noBookings struct{}

func (noBookings) BookedSlots(context.Context, []string, int64) (map[int]bool, error) {
	return nil, nil
}

type memCCAs struct {
	byName  map[string]model.CCA
	leaders map[model.CCALeader]bool
}

func (m *memCCAs) Upsert(_ context.Context, c model.CCA) error {
	if old, ok := m.byName[c.Name]; ok {
		c.ID = old.ID
	}
	m.byName[c.Name] = c
	return nil
}

func (m *memCCAs) IDByName(_ context.Context, name string) (string, error) {
	c, ok := m.byName[name]
	if !ok {
		return "", repository.ErrNotFound
	}
	return c.ID, nil
}

func (m *memCCAs) AddLeader(_ context.Context, l model.CCALeader) error {
	m.leaders[l] = true
	return nil
}

type memUsers struct {
	levels    map[string]int
	passwords map[string]string
}

func (m *memUsers) Create(_ context.Context, email, _, password string, level, _ int) (uint64, error) {
	if _, ok := m.levels[email]; ok {
		return 0, repository.ErrEmailExists
	}
	m.levels[email] = level
	m.passwords[email] = password
	return uint64(len(m.levels)), nil
}

func (m *memUsers) SetAdminLevel(_ context.Context, email string, level int) error {
	m.levels[email] = level
	return nil
}

func TestParse(t *testing.T) {
	t.Setenv("SEED_ADMIN_PASSWORD", "from-env-123")
	f, err := Parse(strings.NewReader(doc))
	if err != nil {
		t.Fatal(err)
	}
	if len(f.Venues) != 2 || f.Venues[0].Parent != "Sports Hall" || f.Venues[1].Capacity != 200 {
		t.Fatalf("venues = %+v", f.Venues)
	}
	if f.Admins[0].Password != "from-env-123" {
		t.Fatalf("password = %q", f.Admins[0].Password)
	}
}

func TestParseRejects(t *testing.T) {
	cases := []struct{ name, doc string }{
		{"unknown key", "venues:\n  - name: X\n    colour: red\n"},
		{"bad level", "admins:\n  - email: a@b.c\n    level: 7\n"},
		{"not yaml", "venues: [\n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Parse(strings.NewReader(tc.doc)); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestApplyIsIdempotent(t *testing.T) {
	t.Setenv("SEED_ADMIN_PASSWORD", "from-env-123")
	f, err := Parse(strings.NewReader(doc))
	if err != nil {
		t.Fatal(err)
	}
	cal, err := dates.NewCalendar("", nil)
	if err != nil {
		t.Fatal(err)
	}
	venues := &memVenues{byID: map[string]model.Venue{}}
	ccas := &memCCAs{byName: map[string]model.CCA{}, leaders: map[model.CCALeader]bool{}}
	users := &memUsers{levels: map[string]int{}, passwords: map[string]string{}}
	s := &Seeder{Venues: venue.NewService(venues, noBookings{}, cal), CCAs: ccas, Users: users, BcryptCost: 4}

	rep, err := s.Apply(context.Background(), f)
	if err != nil {
		t.Fatal(err)
	}
	if rep.VenuesCreated != 2 || rep.CCAs != 1 || rep.Leaders != 1 || rep.AdminsCreated != 1 {
		t.Fatalf("first run = %+v", rep)
	}
	var child model.Venue
	for _, v := range venues.byID {
		if v.Name == "Hall A" {
			child = v
		}
	}
	if !child.IsChildVenue || child.ParentVenue == nil || venues.byID[*child.ParentVenue].Name != "Sports Hall" {
		t.Fatalf("child = %+v", child)
	}
	bandID := ccas.byName["Band"].ID
	if !ccas.leaders[model.CCALeader{CCAID: bandID, Email: "lead@hall.test"}] {
		t.Fatalf("leaders = %v", ccas.leaders)
	}

	rep, err = s.Apply(context.Background(), f)
	if err != nil {
		t.Fatal(err)
	}
	if rep.VenuesCreated != 0 || rep.VenuesExisting != 2 || rep.AdminsUpdated != 1 || len(venues.byID) != 2 {
		t.Fatalf("second run = %+v", rep)
	}
	if ccas.byName["Band"].ID != bandID {
		t.Fatal("cca id changed on re-seed")
	}
}

func TestApplyUnknownParent(t *testing.T) {
	cal, _ := dates.NewCalendar("", nil)
	s := &Seeder{
		Venues: venue.NewService(&memVenues{byID: map[string]model.Venue{}}, noBookings{}, cal),
		CCAs:   &memCCAs{byName: map[string]model.CCA{}, leaders: map[model.CCALeader]bool{}},
		Users:  &memUsers{levels: map[string]int{}, passwords: map[string]string{}},
	}
	_, err := s.Apply(context.Background(), File{Venues: []Venue{{Name: "Orphan", OpeningHours: "0700 - 2300", Parent: "Nowhere"}}})
	if err == nil || !strings.Contains(err.Error(), "unknown parent") {
		t.Fatalf("err = %v", err)
	}
}
