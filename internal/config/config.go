// Package config loads runtime configuration from environment variables.
package config

import (
	"log"
	"os"
	"strconv"
)

// Config holds every runtime setting the availability service needs. Each
// field corresponds to one environment variable; required variables are
// enforced by must() and abort startup when missing.
type Config struct {
	Env        string // application environment (e.g. "dev", "prod")
	Port       string // HTTP port to listen on
	DBUser     string // MySQL username
	DBPass     string // MySQL password (optional)
	DBHost     string // MySQL host address
	DBPort     string // MySQL port number
	DBName     string // MySQL database name
	JWTSecret  string // secret used to verify access tokens
	HoldTTLMin int    // reservation hold time-to-live in minutes
}

// defaultHoldTTLMin matches the checkout window the marketplace UI counts
// down from.
const defaultHoldTTLMin = 15

// Load reads configuration from the environment. Missing required variables
// cause a fatal log message; HOLD_TTL_MIN falls back to 15 minutes.
func Load() Config {
	return Config{
		Env:        must("APP_ENV"),
		Port:       must("APP_PORT"),
		DBUser:     must("DB_USER"),
		DBPass:     os.Getenv("DB_PASS"),
		DBHost:     must("DB_HOST"),
		DBPort:     must("DB_PORT"),
		DBName:     must("DB_NAME"),
		JWTSecret:  must("JWT_SECRET"),
		HoldTTLMin: optInt("HOLD_TTL_MIN", defaultHoldTTLMin),
	}
}

// must retrieves a required environment variable or exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

// optInt retrieves an optional integer variable, falling back to def when
// unset and exiting on values that do not parse.
func optInt(key string, def int) int {
	s := os.Getenv(key)
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		log.Fatalf("invalid int for %s: %q", key, s)
	}
	return n
}
