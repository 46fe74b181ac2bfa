// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"strings"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	_ "github.com/doug-martin/goqu/v9/dialect/sqlite3"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// Database types
const (
	TypePostgres = "postgres"
	TypeSQLite   = "sqlite"
)

//go:embed migrations
var migrationsFS embed.FS

// Dialect returns the goqu dialect matching the database type.
func Dialect(dbType string) goqu.DialectWrapper {
	if dbType == TypePostgres {
		return goqu.Dialect("postgres")
	}
	return goqu.Dialect("sqlite3")
}

// Open migrates the schema and returns a ready connection pool.
// SQLite pools are limited to one connection so writers are serialized.
func Open(ctx context.Context, dbType, databaseURL string) (*sql.DB, error) {
	const op = "db.Open"

	if err := Migrate(dbType, databaseURL); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var (
		conn *sql.DB
		err  error
	)
	switch dbType {
	case TypePostgres:
		conn, err = sql.Open("postgres", databaseURL)
	case TypeSQLite:
		conn, err = sql.Open("sqlite", sqliteDSN(databaseURL))
		if err == nil {
			conn.SetMaxOpenConns(1)
		}
	default:
		return nil, fmt.Errorf("%s: unsupported database type %q", op, dbType)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := conn.PingContext(ctx); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("%s: ping: %w", op, err)
	}

	return conn, nil
}

// Migrate applies the embedded migrations for dbType.
// Safe to call multiple times - an up-to-date schema is not an error.
func Migrate(dbType, databaseURL string) error {
	const op = "db.Migrate"

	src, err := iofs.New(migrationsFS, "migrations/"+dbType)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", src, migrationURL(dbType, databaseURL))
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// migrationURL turns the configured URL into one golang-migrate can route.
// SQLite is configured with a plain file path.
func migrationURL(dbType, databaseURL string) string {
	if dbType == TypeSQLite && !strings.HasPrefix(databaseURL, "sqlite://") {
		return "sqlite://" + databaseURL
	}
	return databaseURL
}

func sqliteDSN(databaseURL string) string {
	path := strings.TrimPrefix(databaseURL, "sqlite://")
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
}
