package config

import (
	"os"
	"testing"
)

func TestLoader_ParseEnvironment(t *testing.T) {

	t.Run("applies defaults when variables are missing", func(t *testing.T) {
		unset := []string{
			"TIMETABLE_HTTP_PORT",
			"TIMETABLE_STORE",
			"TIMETABLE_SQLITE_DSN",
			"TIMETABLE_MAX_PER_DAY",
			"TIMETABLE_SEED_FILE",
		}
		for _, key := range unset {
			if err := os.Unsetenv(key); err != nil {
				t.Fatalf("failed to unset %s: %v", key, err)
			}
		}

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load returned error: %v", err)
		}

		if cfg.HTTPPort != 8080 {
			t.Fatalf("expected default HTTP port 8080, got %d", cfg.HTTPPort)
		}
		if cfg.Store != StoreMemory {
			t.Fatalf("expected memory store default, got %q", cfg.Store)
		}
		if cfg.SQLiteDSN != "file:timetable.db?_foreign_keys=on" {
			t.Fatalf("unexpected default DSN: %q", cfg.SQLiteDSN)
		}
		if cfg.MaxPerDay != 0 {
			t.Fatalf("expected unset per-day limit, got %d", cfg.MaxPerDay)
		}
	})

	t.Run("reads explicit values", func(t *testing.T) {
		t.Setenv("TIMETABLE_HTTP_PORT", "9090")
		t.Setenv("TIMETABLE_STORE", "sqlite")
		t.Setenv("TIMETABLE_SQLITE_DSN", "file:test.db")
		t.Setenv("TIMETABLE_MAX_PER_DAY", "3")
		t.Setenv("TIMETABLE_SEED_FILE", "testdata/seed.json")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load returned error: %v", err)
		}

		if cfg.HTTPPort != 9090 {
			t.Fatalf("expected port 9090, got %d", cfg.HTTPPort)
		}
		if cfg.Store != StoreSQLite {
			t.Fatalf("expected sqlite store, got %q", cfg.Store)
		}
		if cfg.SQLiteDSN != "file:test.db" {
			t.Fatalf("unexpected DSN: %q", cfg.SQLiteDSN)
		}
		if cfg.MaxPerDay != 3 {
			t.Fatalf("expected per-day limit 3, got %d", cfg.MaxPerDay)
		}
		if cfg.SeedFile != "testdata/seed.json" {
			t.Fatalf("unexpected seed file: %q", cfg.SeedFile)
		}
	})

	t.Run("errors on invalid values", func(t *testing.T) {
		t.Setenv("TIMETABLE_HTTP_PORT", "not-a-port")
		t.Setenv("TIMETABLE_STORE", "postgres")

		_, err := Load()
		if err == nil {
			t.Fatalf("expected error for invalid values")
		}
		expected := "invalid environment values: TIMETABLE_HTTP_PORT, TIMETABLE_STORE"
		if err.Error() != expected {
			t.Fatalf("unexpected error message: %q", err.Error())
		}
	})
}
