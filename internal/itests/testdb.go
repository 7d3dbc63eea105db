package itests

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"CompanyAPI/internal"
	"CompanyAPI/internal/db"

	"github.com/jackc/pgx/v5"
)

const testDBName = "companies_test"

// DeriveTestDSN points baseDSN at the test database and at the "postgres"
// maintenance database used to create and drop it.
func DeriveTestDSN(baseDSN string) (testDSN, adminDSN string, err error) {
	u, err := url.Parse(baseDSN)
	if err != nil {
		return "", "", fmt.Errorf("parse DSN: %w", err)
	}
	if u.Scheme != "postgres" && u.Scheme != "postgresql" {
		return "", "", errors.New("only URL DSN supported: postgres://...")
	}
	if host := u.Hostname(); host != "localhost" && host != "127.0.0.1" {
		return "", "", fmt.Errorf("refuse non-local host for tests: %s", host)
	}

	u.Path = "/" + testDBName
	testDSN = u.String()
	u.Path = "/postgres"
	adminDSN = u.String()
	return testDSN, adminDSN, nil
}

func withAdmin(adminDSN string, timeout time.Duration, fn func(ctx context.Context, conn *pgx.Conn) error) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	conn, err := pgx.Connect(ctx, adminDSN)
	if err != nil {
		return err
	}
	defer conn.Close(ctx)
	return fn(ctx, conn)
}

func CreateTestDatabase(adminDSN, dbName string) error {
	return withAdmin(adminDSN, 10*time.Second, func(ctx context.Context, conn *pgx.Conn) error {
		var exists bool
		if err := conn.QueryRow(ctx,
			`SELECT EXISTS(SELECT 1 FROM pg_database WHERE datname=$1)`, dbName,
		).Scan(&exists); err != nil {
			return err
		}
		if exists {
			return nil
		}
		_, err := conn.Exec(ctx, `CREATE DATABASE `+pgx.Identifier{dbName}.Sanitize())
		return err
	})
}

func DropTestDatabase(adminDSN, dbName string) error {
	return withAdmin(adminDSN, 15*time.Second, func(ctx context.Context, conn *pgx.Conn) error {
		// open pool connections block DROP DATABASE
		_, _ = conn.Exec(ctx, `
			SELECT pg_terminate_backend(pid)
			FROM pg_stat_activity
			WHERE datname = $1 AND pid <> pg_backend_pid()
		`, dbName)
		_, err := conn.Exec(ctx, `DROP DATABASE IF EXISTS `+pgx.Identifier{dbName}.Sanitize())
		return err
	})
}

func migrationsDir() (string, error) {
	root, err := internal.FindRepoRoot()
	if err != nil {
		return "", fmt.Errorf("repo root not found: %w", err)
	}
	return filepath.Join(root, "migrations"), nil
}

// SetupTestDB creates a fresh test database, migrates it and hands its DSN to
// initFunc. The returned teardown drops the database.
func SetupTestDB(baseDSN string, initFunc func(dsn string) error) (teardown func() error, err error) {
	testDSN, adminDSN, err := DeriveTestDSN(baseDSN)
	if err != nil {
		return nil, err
	}
	if strings.EqualFold(os.Getenv("APP_ENV"), "production") {
		return nil, errors.New("APP_ENV=production, aborting tests")
	}

	// start from scratch so seed rows are always present
	_ = DropTestDatabase(adminDSN, testDBName)
	if err := CreateTestDatabase(adminDSN, testDBName); err != nil {
		return nil, fmt.Errorf("create DB %q: %w (POSTGRES_DSN -> %s)", testDBName, err, redactDSN(baseDSN))
	}
	log.Printf("test DB %q created", testDBName)

	dir, err := migrationsDir()
	if err != nil {
		_ = DropTestDatabase(adminDSN, testDBName)
		return nil, err
	}
	if err := db.MigrateUp(dir, testDSN); err != nil {
		_ = DropTestDatabase(adminDSN, testDBName)
		return nil, err
	}
	if initFunc != nil {
		if err := initFunc(testDSN); err != nil {
			_ = DropTestDatabase(adminDSN, testDBName)
			return nil, fmt.Errorf("init: %w (POSTGRES_DSN -> %s)", err, redactDSN(baseDSN))
		}
	}

	return func() error {
		return DropTestDatabase(adminDSN, testDBName)
	}, nil
}

func redactDSN(dsn string) string {
	u, err := url.Parse(dsn)
	if err != nil || u.User == nil {
		return dsn
	}
	username := u.User.Username()
	if username == "" {
		return dsn
	}
	u.User = url.UserPassword(username, "******")
	return u.String()
}
