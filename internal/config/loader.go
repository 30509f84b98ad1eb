package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config captures environment driven configuration for the salon scheduler.
type Config struct {
	SQLiteDSN               string
	Timezone                string
	Location                *time.Location
	MinSlotMinutes          int
	SuggestionThresholdDays int
	SuggestionCron          string
	LogLevel                slog.Level
}

// Load parses configuration from a .env file (when present) and the process
// environment, applying defaults for optional fields and validating the rest.
func Load() (Config, error) {
	// A missing .env file is fine; explicit environment always wins.
	_ = godotenv.Load()

	cfg := Config{
		SQLiteDSN:               "file:salon-scheduler.db",
		Timezone:                "UTC",
		MinSlotMinutes:          30,
		SuggestionThresholdDays: 21,
		SuggestionCron:          "0 7 * * *",
		LogLevel:                slog.LevelInfo,
	}

	invalid := make([]string, 0, 2)

	if dsn := strings.TrimSpace(os.Getenv("SALON_SQLITE_DSN")); dsn != "" {
		cfg.SQLiteDSN = dsn
	}

	if tz := strings.TrimSpace(os.Getenv("SALON_TIMEZONE")); tz != "" {
		cfg.Timezone = tz
	}
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		invalid = append(invalid, "SALON_TIMEZONE")
	} else {
		cfg.Location = loc
	}

	if value := strings.TrimSpace(os.Getenv("SALON_MIN_SLOT_MINUTES")); value != "" {
		minutes, err := strconv.Atoi(value)
		if err != nil || minutes <= 0 {
			invalid = append(invalid, "SALON_MIN_SLOT_MINUTES")
		} else {
			cfg.MinSlotMinutes = minutes
		}
	}

	if value := strings.TrimSpace(os.Getenv("SALON_SUGGESTION_THRESHOLD_DAYS")); value != "" {
		days, err := strconv.Atoi(value)
		if err != nil || days <= 0 {
			invalid = append(invalid, "SALON_SUGGESTION_THRESHOLD_DAYS")
		} else {
			cfg.SuggestionThresholdDays = days
		}
	}

	if spec := strings.TrimSpace(os.Getenv("SALON_SUGGESTION_CRON")); spec != "" {
		cfg.SuggestionCron = spec
	}

	if value := strings.TrimSpace(os.Getenv("SALON_LOG_LEVEL")); value != "" {
		switch strings.ToLower(value) {
		case "debug":
			cfg.LogLevel = slog.LevelDebug
		case "info":
			cfg.LogLevel = slog.LevelInfo
		case "warn":
			cfg.LogLevel = slog.LevelWarn
		case "error":
			cfg.LogLevel = slog.LevelError
		default:
			invalid = append(invalid, "SALON_LOG_LEVEL")
		}
	}

	if len(invalid) > 0 {
		return Config{}, fmt.Errorf("invalid environment values: %s", strings.Join(invalid, ", "))
	}

	return cfg, nil
}
