// Package database is the SQL storage backend of the service.
//
// A single database URL selects the engine: sqlite:// (the default, backed by
// github.com/mattn/go-sqlite3) or postgres:// (backed by the pgx stdlib
// driver). The schema of each engine is kept as embedded goose migrations,
// and FlashcardStore implements store.FlashcardStore on top of either.
package database
