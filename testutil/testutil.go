// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	"github.com/lib/pq"

	"github.com/danielhkuo/pollbot/db"
	"github.com/danielhkuo/pollbot/store"
)

// TestServerID is the scope used for polls created by the helpers
const TestServerID = "100000000000000001"

// PostgresURLEnv names the variable holding the PostgreSQL test database URL.
// PostgreSQL tests are skipped when it is unset.
const PostgresURLEnv = "TEST_DATABASE_URL"

// SetupTestDB creates a fresh SQLite database file with the full schema.
// The pool is closed when the test ends.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "polls.db")
	conn, err := db.Open(context.Background(), db.TypeSQLite, path)
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	return conn
}

// SetupTestStore returns a store backed by a fresh database, plus the raw pool
// for assertions.
func SetupTestStore(t *testing.T) (*store.Store, *sql.DB) {
	t.Helper()

	conn := SetupTestDB(t)
	return store.New(conn, db.TypeSQLite), conn
}

// SetupPostgresDB connects to the database named by TEST_DATABASE_URL, applies
// the migrations, and empties every table. Tests sharing the database must
// not run in parallel.
func SetupPostgresDB(t *testing.T) *sql.DB {
	t.Helper()

	url := os.Getenv(PostgresURLEnv)
	if url == "" {
		t.Skipf("%s not set", PostgresURLEnv)
	}

	conn, err := db.Open(context.Background(), db.TypePostgres, url)
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	// Clean up tables before each test
	_, err = conn.Exec(`TRUNCATE votes, options, poll_servers, polls RESTART IDENTITY CASCADE`)
	if err != nil {
		t.Fatalf("Failed to clean database: %v", err)
	}

	return conn
}

// SetupPostgresStore is SetupTestStore on PostgreSQL.
func SetupPostgresStore(t *testing.T) (*store.Store, *sql.DB) {
	t.Helper()

	conn := SetupPostgresDB(t)
	return store.New(conn, db.TypePostgres), conn
}

// ForEachDatabase runs fn as a subtest against a fresh SQLite store and, when
// TEST_DATABASE_URL is set, against PostgreSQL.
func ForEachDatabase(t *testing.T, fn func(t *testing.T, st *store.Store, conn *sql.DB)) {
	t.Helper()

	t.Run(db.TypeSQLite, func(t *testing.T) {
		st, conn := SetupTestStore(t)
		fn(t, st, conn)
	})
	t.Run(db.TypePostgres, func(t *testing.T) {
		st, conn := SetupPostgresStore(t)
		fn(t, st, conn)
	})
}

// CreateTestPoll creates a poll bound to TestServerID and returns its ID
func CreateTestPoll(t *testing.T, st *store.Store, question string, options ...string) int64 {
	t.Helper()

	pollID, err := st.CreatePoll(context.Background(), question, options, TestServerID)
	if err != nil {
		t.Fatalf("Failed to create test poll: %v", err)
	}

	return pollID
}

// OptionIDs returns the option IDs of a poll in display order
func OptionIDs(t *testing.T, st *store.Store, pollID int64) []int64 {
	t.Helper()

	data, err := st.GetPoll(context.Background(), pollID)
	if err != nil {
		t.Fatalf("Failed to load test poll: %v", err)
	}

	ids := make([]int64, 0, len(data.Options))
	for _, opt := range data.Options {
		ids = append(ids, opt.ID)
	}
	return ids
}

// CountRows counts rows of table belonging to pollID
func CountRows(t *testing.T, conn *sql.DB, table string, pollID int64) int {
	t.Helper()

	var n int
	err := conn.QueryRow(`SELECT COUNT(*) FROM `+table+` WHERE poll_id = `+placeholder(conn), pollID).Scan(&n)
	if err != nil {
		t.Fatalf("Failed to count %s rows: %v", table, err)
	}
	return n
}

// SumOptionVotes sums the denormalized vote counts of a poll's options
func SumOptionVotes(t *testing.T, conn *sql.DB, pollID int64) int {
	t.Helper()

	var n int
	err := conn.QueryRow(`SELECT COALESCE(SUM(votes), 0) FROM options WHERE poll_id = `+placeholder(conn), pollID).Scan(&n)
	if err != nil {
		t.Fatalf("Failed to sum option votes: %v", err)
	}
	return n
}

// AssertVoteCounts fails the test unless every option's count matches its vote rows
func AssertVoteCounts(t *testing.T, conn *sql.DB, pollID int64) {
	t.Helper()

	rows, err := conn.Query(`
		SELECT o.option_id, o.votes, COUNT(v.vote_id)
		FROM options o
		LEFT JOIN votes v ON v.option_id = o.option_id
		WHERE o.poll_id = `+placeholder(conn)+`
		GROUP BY o.option_id, o.votes
	`, pollID)
	if err != nil {
		t.Fatalf("Failed to query vote counts: %v", err)
	}
	defer rows.Close()

	for rows.Next() {
		var optionID int64
		var stored, actual int
		if err := rows.Scan(&optionID, &stored, &actual); err != nil {
			t.Fatalf("Failed to scan vote counts: %v", err)
		}
		if stored != actual {
			t.Errorf("option %d: stored votes %d, vote rows %d", optionID, stored, actual)
		}
	}
	if err := rows.Err(); err != nil {
		t.Fatalf("Failed to iterate vote counts: %v", err)
	}
}

// placeholder returns the first positional parameter in the pool's dialect.
func placeholder(conn *sql.DB) string {
	if _, ok := conn.Driver().(*pq.Driver); ok {
		return "$1"
	}
	return "?"
}
