package testdb

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/phrazzld/flashnotes/internal/platform/database"
	"github.com/phrazzld/flashnotes/internal/platform/logger"
)

// EnvDatabaseURL names the PostgreSQL database used by integration tests.
const EnvDatabaseURL = "FLASHNOTES_TEST_DATABASE_URL"

// setupTimeout bounds connection and migration during test setup.
const setupTimeout = 30 * time.Second

// ShouldSkipDatabaseTest reports whether no PostgreSQL test database is configured.
func ShouldSkipDatabaseTest() bool {
	return os.Getenv(EnvDatabaseURL) == ""
}

// NewSQLite opens a fresh SQLite database in a temporary directory and
// migrates it to the latest schema. The database is closed when the test ends.
func NewSQLite(t *testing.T) *database.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "flashcards.db")
	return open(t, "sqlite:///"+path)
}

// NewPostgres connects to the database named by FLASHNOTES_TEST_DATABASE_URL
// and migrates it, or skips the test when the variable is not set.
func NewPostgres(t *testing.T) *database.DB {
	t.Helper()

	if ShouldSkipDatabaseTest() {
		t.Skip(EnvDatabaseURL + " not set - skipping PostgreSQL test")
	}
	return open(t, os.Getenv(EnvDatabaseURL))
}

func open(t *testing.T, url string) *database.DB {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), setupTimeout)
	defer cancel()

	log, _ := logger.NewTestLogger()

	db, err := database.Open(ctx, url, log)
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Errorf("failed to close test database: %v", err)
		}
	})

	if _, err := database.Migrate(ctx, db, database.CommandUp, log); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

// WithTx runs fn inside a transaction that is rolled back afterwards.
func WithTx(t *testing.T, db *sql.DB, fn func(t *testing.T, tx *sql.Tx)) {
	t.Helper()

	tx, err := db.BeginTx(context.Background(), nil)
	if err != nil {
		t.Fatalf("failed to begin transaction: %v", err)
	}
	defer func() {
		if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
			t.Errorf("failed to roll back transaction: %v", err)
		}
	}()

	fn(t, tx)
}
