package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/iliyamo/hall-venue-booking/internal/booking"
	"github.com/iliyamo/hall-venue-booking/internal/cca"
	"github.com/iliyamo/hall-venue-booking/internal/config"
	"github.com/iliyamo/hall-venue-booking/internal/database"
	"github.com/iliyamo/hall-venue-booking/internal/dates"
	"github.com/iliyamo/hall-venue-booking/internal/export"
	"github.com/iliyamo/hall-venue-booking/internal/handler"
	"github.com/iliyamo/hall-venue-booking/internal/metrics"
	"github.com/iliyamo/hall-venue-booking/internal/middleware"
	"github.com/iliyamo/hall-venue-booking/internal/queue"
	"github.com/iliyamo/hall-venue-booking/internal/repository"
	"github.com/iliyamo/hall-venue-booking/internal/router"
	"github.com/iliyamo/hall-venue-booking/internal/venue"
)

func main() {
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

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	migrateCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	err = database.Migrate(migrateCtx, db)
	cancel()
	if err != nil {
		log.Fatalf("migrate: %v", err)
	}

	rdb := config.NewRedisClient()
	if rdb != nil {
		defer rdb.Close()
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	qcfg := config.LoadQueueConfig()
	var notifier booking.Notifier = queue.LogNotifier{}
	if qcfg.URL != "" {
		pub, err := queue.NewPublisher(qcfg.URL, qcfg.Exchange)
		if err != nil {
			log.Printf("[queue] publisher unavailable, logging events instead: %v", err)
		} else {
			defer pub.Close()
			notifier = pub
		}
		consumer := queue.Consumer{URL: qcfg.URL, Exchange: qcfg.Exchange, Queue: qcfg.Queue, LogPath: qcfg.LogPath}
		go func() {
			if err := consumer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				log.Printf("[booking-consumer] stopped: %v", err)
			}
		}()
	}

	store := repository.NewStore(db)
	resp := handler.Responder{Strict: rules.StrictStatus}
	cacheCfg := config.LoadCacheConfig()

	bookingSvc := booking.NewService(booking.NewSQLStore(store), cal, rules, notifier, m)
	venueSvc := venue.NewService(store.Venues, store.Bookings, cal)
	ccaSvc := cca.NewService(store.CCAs, store.Sessions, cal, rules)
	exportSvc := export.NewService(store.Bookings, cal)

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			log.Printf("[http] %s %s %d %s id=%s", v.Method, v.URI, v.Status, v.Latency, v.RequestID)
			return nil
		},
	}))

	router.RegisterRoutes(e, db, reg)
	router.RegisterAuth(e, handler.NewAuthHandler(cfg, repository.NewUserRepo(db), repository.NewTokenRepo(db)), cfg.JWTSecret)
	router.RegisterAPI(e, router.API{
		JWTSecret: cfg.JWTSecret,
		RateLimit: config.LoadRateLimitConfig(),
		Cache:     cacheCfg,
		Redis:     rdb,
		Bookings:  handler.NewBookingHandler(bookingSvc, resp),
		Venues: handler.NewVenueHandler(venueSvc, resp, func(ctx context.Context) error {
			return middleware.PurgeCache(ctx, cacheCfg, rdb)
		}),
		Export: handler.NewExportHandler(exportSvc, resp),
		CCAs:   handler.NewCCAHandler(ccaSvc, resp),
	})

	addr := ":" + cfg.Port
	go func() {
		log.Printf("listening on %s (env=%s, tz=%s)", addr, cfg.Env, cal.Location())
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(err)
		}
	}()

	<-ctx.Done()
	log.Println("shutdown signal received")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown: %v", err)
	}
}
