// Package config reads runtime settings from the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
)

// Config is the process-wide configuration loaded at startup.
type Config struct {
	Port string

	DatabaseURL string

	JWTSecret string
	JWTTTL    time.Duration

	// BusinessLocation defines calendar days for reports.
	BusinessLocation *time.Location
	// ReportSchedule is a standard 5-field cron spec evaluated in BusinessLocation.
	ReportSchedule  string
	ReportRangeDays int

	LogLevel    string
	Development bool

	CORSOrigins  string
	RateLimitMax int

	// Initial admin account created on first start.
	AdminEmail    string
	AdminPassword string
}

// Load reads .env (if present) and the process environment.
func Load() (*Config, error) {
	// .env is optional; the process environment wins
	_ = godotenv.Load()
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config using getenv for lookups.
func FromEnv(getenv func(string) string) (*Config, error) {
	get := func(key, def string) string {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			return v
		}
		return def
	}

	cfg := &Config{
		Port:           get("PORT", "3000"),
		JWTSecret:      getenv("JWT_SECRET"),
		ReportSchedule: get("REPORT_SCHEDULE", "5 0 * * *"),
		LogLevel:       get("LOG_LEVEL", "info"),
		Development:    get("APP_ENV", "development") == "development",
		CORSOrigins:    get("CORS_ORIGINS", "http://localhost:3000"),
		AdminEmail:     get("ADMIN_EMAIL", "admin@example.com"),
		AdminPassword:  get("ADMIN_PASSWORD", "admin123"),
	}

	if cfg.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET is required")
	}

	cfg.DatabaseURL = getenv("DATABASE_URL")
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = fmt.Sprintf(
			"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
			get("DB_HOST", "localhost"),
			get("DB_USER", "postgres"),
			getenv("DB_PASSWORD"),
			get("DB_NAME", "pos"),
			get("DB_PORT", "5432"),
		)
	}

	ttl, err := time.ParseDuration(get("JWT_TTL", "1h"))
	if err != nil || ttl <= 0 {
		return nil, fmt.Errorf("invalid JWT_TTL %q", getenv("JWT_TTL"))
	}
	cfg.JWTTTL = ttl

	loc, err := time.LoadLocation(get("BUSINESS_TIMEZONE", "America/Argentina/Buenos_Aires"))
	if err != nil {
		return nil, fmt.Errorf("invalid BUSINESS_TIMEZONE: %w", err)
	}
	cfg.BusinessLocation = loc

	if _, err := cron.ParseStandard(cfg.ReportSchedule); err != nil {
		return nil, fmt.Errorf("invalid REPORT_SCHEDULE %q: %w", cfg.ReportSchedule, err)
	}

	if cfg.ReportRangeDays, err = positiveInt(get("REPORT_RANGE_DAYS", "20")); err != nil {
		return nil, fmt.Errorf("invalid REPORT_RANGE_DAYS: %w", err)
	}
	if cfg.RateLimitMax, err = positiveInt(get("RATE_LIMIT_MAX", "100")); err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_MAX: %w", err)
	}

	return cfg, nil
}

func positiveInt(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	if n <= 0 {
		return 0, fmt.Errorf("must be positive, got %d", n)
	}
	return n, nil
}
