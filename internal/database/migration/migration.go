package migration

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed sql/*.sql
var migrationsFS embed.FS

// ErrDirty is returned when a previous migration failed halfway and needs manual repair.
var ErrDirty = errors.New("database schema is dirty")

// Source returns the embedded migration files as a golang-migrate source driver.
func Source() (source.Driver, error) {
	return iofs.New(migrationsFS, "sql")
}

// EnsureMigrated applies every pending migration to the database at dsn.
// It is a no-op when the schema is already at the latest version.
func EnsureMigrated(ctx context.Context, dsn string, loc *time.Location, dbHost string) error {
	start := time.Now()

	logJSON(loc, map[string]any{
		"component": "database",
		"event":     "db_migration_check",
		"status":    "starting",
		"db_host":   dbHost,
	})

	fail := func(msg string, err error) error {
		logJSON(loc, map[string]any{
			"component":     "database",
			"event":         "db_migration_failed",
			"status":        "error",
			"error_message": fmt.Sprintf("%s: %v", msg, err),
			"db_host":       dbHost,
			"duration_ms":   time.Since(start).Milliseconds(),
		})
		return fmt.Errorf("%s: %w", msg, err)
	}

	src, err := Source()
	if err != nil {
		return fail("failed to open migration source", err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", src, dsn)
	if err != nil {
		return fail("failed to create migrate instance", err)
	}
	defer m.Close()

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			m.GracefulStop <- true
		case <-done:
		}
	}()

	before, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return fail("failed to read schema version", err)
	}
	if dirty {
		return fail(fmt.Sprintf("version %d", before), ErrDirty)
	}

	logJSON(loc, map[string]any{
		"component":    "database",
		"event":        "db_migration_start",
		"status":       "in_progress",
		"from_version": before,
		"db_host":      dbHost,
	})

	if err := m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			logJSON(loc, map[string]any{
				"component":   "database",
				"event":       "db_migration_skip",
				"status":      "success",
				"msg":         "schema already up to date, skipping migration",
				"version":     before,
				"db_host":     dbHost,
				"duration_ms": time.Since(start).Milliseconds(),
			})
			return nil
		}
		return fail("failed to apply migrations", err)
	}

	after, _, err := m.Version()
	if err != nil {
		return fail("failed to read schema version", err)
	}

	logJSON(loc, map[string]any{
		"component":    "database",
		"event":        "db_migration_success",
		"status":       "success",
		"from_version": before,
		"version":      after,
		"db_host":      dbHost,
		"duration_ms":  time.Since(start).Milliseconds(),
	})

	return nil
}

func logJSON(loc *time.Location, data map[string]any) {
	if loc == nil {
		loc = time.UTC
	}
	data["ts"] = time.Now().In(loc).Format(time.RFC3339Nano)
	if _, ok := data["level"]; !ok {
		if data["status"] == "error" {
			data["level"] = "error"
		} else {
			data["level"] = "info"
		}
	}

	b, err := json.Marshal(data)
	if err != nil {
		log.Printf("failed to marshal migration log: %v", err)
		return
	}
	log.SetFlags(0)
	log.Println(string(b))
}
