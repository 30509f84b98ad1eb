package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"

	"github.com/example/salon-scheduler/internal/application"
	"github.com/example/salon-scheduler/internal/config"
	"github.com/example/salon-scheduler/internal/logging"
	"github.com/example/salon-scheduler/internal/persistence/sqlite"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.New(os.Stderr, slog.LevelInfo).Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := logging.New(os.Stdout, cfg.LogLevel)
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := sqlite.Open(ctx, cfg.SQLiteDSN)
	if err != nil {
		logger.Error("failed to open storage", "error", err)
		os.Exit(1)
	}
	defer func() {
		if cerr := pool.Close(); cerr != nil {
			logger.Error("failed to close storage", "error", cerr)
		}
	}()

	if err := sqlite.Migrate(ctx, pool); err != nil {
		logger.Error("failed to apply migrations", "error", err)
		os.Exit(1)
	}

	employees := sqlite.NewEmployeeRepository(pool)
	workingHours := sqlite.NewWorkingHoursRepository(pool)
	unavailability := sqlite.NewUnavailabilityRepository(pool)
	bookings := sqlite.NewBookingRepository(pool)
	clients := sqlite.NewClientRepository(pool)

	idGenerator := uuid.NewString
	now := time.Now

	availability := application.NewAvailabilityService(
		employees, workingHours, unavailability, bookings,
		cfg.Location, cfg.MinSlotMinutes, now, logger)
	bookingService := application.NewBookingService(
		employees, workingHours, unavailability, bookings, availability,
		cfg.Location, idGenerator, now, logger)
	workingHoursService := application.NewWorkingHoursService(employees, workingHours, availability, logger)
	unavailabilityService := application.NewUnavailabilityService(employees, unavailability, availability, idGenerator, logger)
	suggestionService := application.NewSuggestionService(
		employees, bookings, clients, availability,
		cfg.Location, cfg.SuggestionThresholdDays, now, logger)

	engine := application.Engine{
		Availability:   availability,
		Bookings:       bookingService,
		WorkingHours:   workingHoursService,
		Unavailability: unavailabilityService,
		Suggestions:    suggestionService,
	}

	// The engine itself is trigger-agnostic; the binary drives the periodic
	// suggestion sweep. The sweep is read-only and books nothing.
	scheduler := cron.New(cron.WithLocation(cfg.Location))
	_, err = scheduler.AddFunc(cfg.SuggestionCron, func() {
		runCtx := logging.ContextWithLogger(context.Background(), logger)
		sweepSuggestions(runCtx, engine.Suggestions, cfg.Location, logger)
	})
	if err != nil {
		logger.Error("invalid suggestion cron expression", "spec", cfg.SuggestionCron, "error", err)
		os.Exit(1)
	}
	scheduler.Start()
	defer scheduler.Stop()

	logger.Info("salon scheduler running",
		"dsn", cfg.SQLiteDSN, "timezone", cfg.Timezone, "suggestion_cron", cfg.SuggestionCron)

	<-ctx.Done()
	logger.Info("shutting down")
}

// sweepSuggestions computes win-back suggestions for tomorrow and logs them
// for downstream notification tooling to pick up.
func sweepSuggestions(ctx context.Context, service *application.SuggestionService, loc *time.Location, logger *slog.Logger) {
	tomorrow := time.Now().In(loc).AddDate(0, 0, 1).Format(application.DateLayout)

	candidates, err := service.SuggestBookings(ctx, tomorrow, 20)
	if err != nil {
		logger.Error("suggestion sweep failed", "date", tomorrow, "error", err)
		return
	}

	for _, candidate := range candidates {
		logger.Info("win-back suggestion",
			"client_id", candidate.ClientID,
			"employee_id", candidate.EmployeeID,
			"slot_start", candidate.SlotStart,
			"service", candidate.Service,
			"confidence", candidate.Confidence,
			"reason", candidate.Reason)
	}
}
