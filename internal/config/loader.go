// Package config loads service configuration from the process environment,
// with an optional .env file for local development.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Store selects the persistence backend.
type Store string

const (
	// StoreMemory keeps all state in process memory.
	StoreMemory Store = "memory"
	// StoreSQLite persists state in a SQLite database file.
	StoreSQLite Store = "sqlite"
)

// Config captures environment driven configuration values for the
// timetable service.
type Config struct {
	HTTPPort  int
	Store     Store
	SQLiteDSN string
	MaxPerDay int
	SeedFile  string
}

// Load parses configuration values from the current process environment.
// A .env file in the working directory is read first when present.
//
// The loader applies defaults for optional fields while validating the
// values it does find and reporting every invalid entry at once.
func Load() (Config, error) {
	// Missing .env is the normal production case.
	_ = godotenv.Load()

	cfg := Config{
		HTTPPort:  8080,
		Store:     StoreMemory,
		SQLiteDSN: "file:timetable.db?_foreign_keys=on",
		MaxPerDay: 0,
	}

	invalid := make([]string, 0, 2)

	if portValue := strings.TrimSpace(os.Getenv("TIMETABLE_HTTP_PORT")); portValue != "" {
		port, err := strconv.Atoi(portValue)
		if err != nil || port <= 0 {
			invalid = append(invalid, "TIMETABLE_HTTP_PORT")
		} else {
			cfg.HTTPPort = port
		}
	}

	if storeValue := strings.TrimSpace(os.Getenv("TIMETABLE_STORE")); storeValue != "" {
		switch Store(storeValue) {
		case StoreMemory, StoreSQLite:
			cfg.Store = Store(storeValue)
		default:
			invalid = append(invalid, "TIMETABLE_STORE")
		}
	}

	if dsn := strings.TrimSpace(os.Getenv("TIMETABLE_SQLITE_DSN")); dsn != "" {
		cfg.SQLiteDSN = dsn
	}

	if limitValue := strings.TrimSpace(os.Getenv("TIMETABLE_MAX_PER_DAY")); limitValue != "" {
		limit, err := strconv.Atoi(limitValue)
		if err != nil || limit < 0 {
			invalid = append(invalid, "TIMETABLE_MAX_PER_DAY")
		} else {
			cfg.MaxPerDay = limit
		}
	}

	cfg.SeedFile = strings.TrimSpace(os.Getenv("TIMETABLE_SEED_FILE"))

	if len(invalid) > 0 {
		return Config{}, fmt.Errorf("invalid environment values: %s", strings.Join(invalid, ", "))
	}

	return cfg, nil
}
