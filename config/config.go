package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all configuration for the application.
type Config struct {
	Port        string
	Origin      string
	Environment string

	JWTSecret          string
	JWTExpirationHours int

	Mongo MongoConfig
	Redis RedisConfig
	SMTP  SMTPConfig

	DefaultTotalBeds int
	SweepSchedule    string
	TimeZone         string
	Location         *time.Location
}

type MongoConfig struct {
	URI      string
	Database string
}

type RedisConfig struct {
	Addr     string
	Password string
}

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// LoadConfig loads configuration from environment variables.
func LoadConfig() (*Config, error) {
	jwtExpHours, err := strconv.Atoi(getEnv("JWT_EXPIRATION_HOURS", "24"))
	if err != nil {
		return nil, fmt.Errorf("invalid JWT_EXPIRATION_HOURS: %w", err)
	}

	smtpPort, err := strconv.Atoi(getEnv("SMTP_PORT", "587"))
	if err != nil {
		return nil, fmt.Errorf("invalid SMTP_PORT: %w", err)
	}

	defaultBeds, err := strconv.Atoi(getEnv("DEFAULT_TOTAL_BEDS", "100"))
	if err != nil {
		return nil, fmt.Errorf("invalid DEFAULT_TOTAL_BEDS: %w", err)
	}
	if defaultBeds < 0 {
		return nil, fmt.Errorf("DEFAULT_TOTAL_BEDS cannot be negative")
	}

	tz := getEnv("TIME_ZONE", "UTC")
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("invalid TIME_ZONE %q: %w", tz, err)
	}

	return &Config{
		Port:               getEnv("PORT", "8080"),
		Origin:             getEnv("ORIGIN", "http://localhost:3000"),
		Environment:        getEnv("ENVIRONMENT", "development"),
		JWTSecret:          getEnv("JWT_SECRET", "default_jwt_secret"),
		JWTExpirationHours: jwtExpHours,
		Mongo: MongoConfig{
			URI:      getEnv("MONGODB_URI", "mongodb://localhost:27017"),
			Database: getEnv("MONGODB_DB", "carewell"),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
		},
		SMTP: SMTPConfig{
			Host:     getEnv("SMTP_HOST", ""),
			Port:     smtpPort,
			Username: getEnv("SMTP_USER", ""),
			Password: getEnv("SMTP_PASSWORD", ""),
			From:     getEnv("MAIL_FROM", "no-reply@carewell.local"),
		},
		DefaultTotalBeds: defaultBeds,
		// Every 15 minutes; the sweep is idempotent so overlap is harmless.
		SweepSchedule: getEnv("SWEEP_SCHEDULE", "*/15 * * * *"),
		TimeZone:      tz,
		Location:      loc,
	}, nil
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
