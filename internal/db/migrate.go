package db

import (
	"errors"
	"fmt"
	"path/filepath"

	"CompanyAPI/internal/logger"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

func newMigrate(dir, dsn string) (*migrate.Migrate, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("abs migrations: %w", err)
	}
	// file:// needs an absolute path with forward slashes
	m, err := migrate.New("file://"+filepath.ToSlash(abs), dsn)
	if err != nil {
		return nil, fmt.Errorf("migrate.New: %w", err)
	}
	return m, nil
}

// MigrateUp applies all pending migrations from dir.
func MigrateUp(dir, dsn string) error {
	m, err := newMigrate(dir, dsn)
	if err != nil {
		return err
	}
	defer func() { _, _ = m.Close() }()

	if err := m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			logger.Info("migrations_up_to_date", nil)
			return nil
		}
		return fmt.Errorf("migrate up: %w", err)
	}
	logVersion(m)
	return nil
}

// MigrateDown rolls back steps migrations; steps <= 0 rolls back everything.
func MigrateDown(dir, dsn string, steps int) error {
	m, err := newMigrate(dir, dsn)
	if err != nil {
		return err
	}
	defer func() { _, _ = m.Close() }()

	if steps > 0 {
		err = m.Steps(-steps)
	} else {
		err = m.Down()
	}
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migrate down: %w", err)
	}
	logVersion(m)
	return nil
}

func logVersion(m *migrate.Migrate) {
	version, dirty, err := m.Version()
	if err != nil {
		if errors.Is(err, migrate.ErrNilVersion) {
			logger.Info("migrations_version", map[string]any{"version": 0})
			return
		}
		logger.Warn("migrations_version_unknown", map[string]any{"error": err.Error()})
		return
	}
	logger.Info("migrations_version", map[string]any{"version": version, "dirty": dirty})
}
