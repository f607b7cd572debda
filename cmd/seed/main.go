package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/iliyamo/hall-venue-booking/internal/config"
	"github.com/iliyamo/hall-venue-booking/internal/database"
	"github.com/iliyamo/hall-venue-booking/internal/dates"
	"github.com/iliyamo/hall-venue-booking/internal/repository"
	"github.com/iliyamo/hall-venue-booking/internal/seed"
	"github.com/iliyamo/hall-venue-booking/internal/venue"
)

func main() {
	path := flag.String("file", "configs/seed.yaml", "seed file")
	flag.Parse()

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("load .env: %v", err)
	}
	cfg := config.Load()
	rules, err := config.LoadBookingRules()
	if err != nil {
		log.Fatalf("booking rules: %v", err)
	}
	cal, err := dates.NewCalendar(rules.Timezone, nil)
	if err != nil {
		log.Fatalf("timezone %q: %v", rules.Timezone, err)
	}

	fh, err := os.Open(*path)
	if err != nil {
		log.Fatalf("open seed: %v", err)
	}
	f, err := seed.Parse(fh)
	fh.Close()
	if err != nil {
		log.Fatal(err)
	}

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	if err := database.Migrate(ctx, db); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	store := repository.NewStore(db)
	s := &seed.Seeder{
		Venues:     venue.NewService(store.Venues, store.Bookings, cal),
		CCAs:       store.CCAs,
		Users:      repository.NewUserRepo(db),
		BcryptCost: cfg.BcryptCost,
	}
	rep, err := s.Apply(ctx, f)
	if err != nil {
		log.Fatalf("seed: %v", err)
	}
	log.Printf("[seed] venues created=%d existing=%d ccas=%d leaders=%d admins created=%d updated=%d",
		rep.VenuesCreated, rep.VenuesExisting, rep.CCAs, rep.Leaders, rep.AdminsCreated, rep.AdminsUpdated)
}
