// Package config loads runtime configuration from the environment.
// cmd/server calls godotenv.Load first so a local .env works in dev.
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/grindhub/shift-engine/shift"
)

// Config holds everything the server needs to start.
type Config struct {
	ServerPort string
	DBPath     string
	RedisAddr  string // empty = use sqlite

	// AdminToken gates mutations; ModToken additionally unlocks the
	// status-text endpoint. An empty token disables that tier entirely,
	// matching the reference dashboard's behavior.
	AdminToken string
	ModToken   string

	Roster     shift.Roster
	EventStart time.Time
	EventDays  int

	// AllowedOrigins for the dashboard and overlay frontends.
	AllowedOrigins []string
}

// New reads env vars with development defaults.
func New() *Config {
	cfg := &Config{
		ServerPort:     getenv("SERVER_PORT", "8080"),
		DBPath:         getenv("DB_PATH", "shift.db"),
		RedisAddr:      os.Getenv("REDIS_ADDR"),
		AdminToken:     os.Getenv("ADMIN_TOKEN"),
		ModToken:       os.Getenv("MOD_TOKEN"),
		Roster:         shift.DefaultRoster(),
		EventDays:      30,
		AllowedOrigins: []string{"http://localhost:3000", "http://localhost:5173"},
	}

	if id := os.Getenv("OPERATOR_A_ID"); id != "" {
		cfg.Roster.A = shift.Operator{ID: shift.OperatorID(id), Name: getenv("OPERATOR_A_NAME", id)}
	}
	if id := os.Getenv("OPERATOR_B_ID"); id != "" {
		cfg.Roster.B = shift.Operator{ID: shift.OperatorID(id), Name: getenv("OPERATOR_B_NAME", id)}
	}

	if raw := os.Getenv("EVENT_START"); raw != "" {
		if t, err := time.Parse(time.RFC3339, raw); err == nil {
			cfg.EventStart = t
		}
	}
	if cfg.EventStart.IsZero() {
		// Midnight of the current day keeps the day counter at 1.
		now := time.Now()
		cfg.EventStart = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	}

	if raw := os.Getenv("EVENT_DAYS"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			cfg.EventDays = n
		}
	}

	return cfg
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
