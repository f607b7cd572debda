// Package seed loads venues, CCAs and staff accounts from a YAML file.
// Applying the same file twice leaves the database unchanged.
package seed

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/iliyamo/hall-venue-booking/internal/apperr"
	"github.com/iliyamo/hall-venue-booking/internal/model"
	"github.com/iliyamo/hall-venue-booking/internal/repository"
	"github.com/iliyamo/hall-venue-booking/internal/venue"
)

// File is the seed document.
type File struct {
	Venues []Venue `yaml:"venues"`
	CCAs   []CCA   `yaml:"ccas"`
	Admins []Admin `yaml:"admins"`
}

type Venue struct {
	Name          string `yaml:"name"`
	Description   string `yaml:"description"`
	Capacity      int    `yaml:"capacity"`
	OpeningHours  string `yaml:"opening_hours"`
	IsInstantBook bool   `yaml:"instant_book"`
	Visible       bool   `yaml:"visible"`
	Parent        string `yaml:"parent"` // name of the parent venue
}

type CCA struct {
	Name     string   `yaml:"name"`
	Category string   `yaml:"category"`
	Leaders  []string `yaml:"leaders"`
}

type Admin struct {
	Email    string `yaml:"email"`
	Name     string `yaml:"name"`
	Password string `yaml:"password"`
	Level    int    `yaml:"level"`
}

// Parse expands ${VAR} references from the environment and decodes r.
// Unknown keys are an error.
func Parse(r io.Reader) (File, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return File{}, err
	}
	dec := yaml.NewDecoder(bytes.NewReader([]byte(os.ExpandEnv(string(raw)))))
	dec.KnownFields(true)
	var f File
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return File{}, fmt.Errorf("decode seed: %w", err)
	}
	for _, a := range f.Admins {
		if a.Level < model.AdminNone || a.Level > model.AdminOwner {
			return File{}, fmt.Errorf("admin %s: level %d out of range", a.Email, a.Level)
		}
	}
	return f, nil
}

// CCAWriter is satisfied by repository.CCARepo.
type CCAWriter interface {
	Upsert(ctx context.Context, c model.CCA) error
	IDByName(ctx context.Context, name string) (string, error)
	AddLeader(ctx context.Context, l model.CCALeader) error
}

// UserWriter is satisfied by repository.UserRepo.
type UserWriter interface {
	Create(ctx context.Context, email, name, password string, adminLevel, cost int) (uint64, error)
	SetAdminLevel(ctx context.Context, email string, level int) error
}

// Seeder applies a File.  Venues go through venue.Service so they get the
// same validation as venues created over the API.
type Seeder struct {
	Venues     *venue.Service
	CCAs       CCAWriter
	Users      UserWriter
	BcryptCost int
}

// Report counts what Apply changed.
type Report struct {
	VenuesCreated, VenuesExisting int
	CCAs, Leaders                 int
	AdminsCreated, AdminsUpdated  int
}

var owner = model.Actor{Email: "seed@localhost", AdminLevel: model.AdminOwner}

// Apply writes f.  Top-level venues are created before child venues so
// parents can be referenced by name.
func (s *Seeder) Apply(ctx context.Context, f File) (Report, error) {
	var rep Report
	if err := s.venues(ctx, f.Venues, &rep); err != nil {
		return rep, err
	}
	for _, c := range f.CCAs {
		name := strings.TrimSpace(c.Name)
		if name == "" {
			return rep, errors.New("cca without a name")
		}
		if err := s.CCAs.Upsert(ctx, model.CCA{ID: uuid.NewString(), Name: name, Category: c.Category}); err != nil {
			return rep, fmt.Errorf("upsert cca %s: %w", name, err)
		}
		id, err := s.CCAs.IDByName(ctx, name)
		if err != nil {
			return rep, fmt.Errorf("resolve cca %s: %w", name, err)
		}
		rep.CCAs++
		for _, email := range c.Leaders {
			email = repository.NormalizeEmail(email)
			if email == "" {
				continue
			}
			if err := s.CCAs.AddLeader(ctx, model.CCALeader{CCAID: id, Email: email}); err != nil {
				return rep, err
			}
			rep.Leaders++
		}
	}
	for _, a := range f.Admins {
		if strings.TrimSpace(a.Email) == "" {
			log.Printf("[seed] skipping admin %q without an email", a.Name)
			continue
		}
		_, err := s.Users.Create(ctx, a.Email, a.Name, a.Password, a.Level, s.BcryptCost)
		switch {
		case err == nil:
			rep.AdminsCreated++
		case errors.Is(err, repository.ErrEmailExists):
			if err := s.Users.SetAdminLevel(ctx, a.Email, a.Level); err != nil {
				return rep, fmt.Errorf("update admin %s: %w", a.Email, err)
			}
			rep.AdminsUpdated++
		default:
			return rep, fmt.Errorf("create admin %s: %w", a.Email, err)
		}
	}
	return rep, nil
}

func (s *Seeder) venues(ctx context.Context, vs []Venue, rep *Report) error {
	existing, err := s.Venues.ListAll(ctx, owner)
	if err != nil {
		return err
	}
	ids := make(map[string]string, len(existing))
	for _, v := range existing {
		ids[v.Name] = v.ID
	}

	ordered := make([]Venue, 0, len(vs))
	for _, v := range vs {
		if v.Parent == "" {
			ordered = append(ordered, v)
		}
	}
	for _, v := range vs {
		if v.Parent != "" {
			ordered = append(ordered, v)
		}
	}

	for _, v := range ordered {
		name := strings.TrimSpace(v.Name)
		if _, ok := ids[name]; ok {
			rep.VenuesExisting++
			continue
		}
		in := venue.CreateInput{
			Name: name, Description: v.Description, Capacity: v.Capacity,
			OpeningHours: v.OpeningHours, IsInstantBook: v.IsInstantBook, Visible: v.Visible,
		}
		if v.Parent != "" {
			pid, ok := ids[strings.TrimSpace(v.Parent)]
			if !ok {
				return fmt.Errorf("venue %s: unknown parent %q", name, v.Parent)
			}
			in.ParentVenue = pid
		}
		created, err := s.Venues.Create(ctx, owner, in)
		if err != nil {
			return fmt.Errorf("venue %s: %s", name, apperr.Message(err))
		}
		ids[name] = created.ID
		rep.VenuesCreated++
		log.Printf("[seed] venue %s (%s)", created.Name, created.ID)
	}
	return nil
}
