package database

import (
	"errors"
	"fmt"
	"strings"
)

// Dialect identifies the SQL engine behind a connection.
type Dialect string

// Supported dialects. The values double as goose dialect names.
const (
	DialectSQLite   Dialect = "sqlite3"
	DialectPostgres Dialect = "postgres"
)

// memoryPath is the SQLite name of a private in-memory database.
const memoryPath = ":memory:"

// sqliteParams are appended to every file-backed SQLite DSN.
const sqliteParams = "_journal_mode=WAL&_foreign_keys=on&_busy_timeout=5000"

// ErrUnsupportedURL is returned for URLs whose scheme selects no known engine.
var ErrUnsupportedURL = errors.New("unsupported database URL")

// Target is a parsed database URL.
type Target struct {
	Dialect Dialect
	// Driver is the database/sql driver name.
	Driver string
	// DSN is passed to sql.Open.
	DSN string
	// Path is the SQLite file path, empty for in-memory and PostgreSQL targets.
	Path string
}

// ParseURL maps a database URL to a driver and DSN.
//
// SQLite URLs follow the SQLAlchemy convention: sqlite:///relative.db,
// sqlite:////absolute/path.db, and a bare sqlite:// for an in-memory
// database. sqlite3:// is accepted as an alias, and file: URLs are passed to
// the driver unchanged.
func ParseURL(raw string) (Target, error) {
	raw = strings.TrimSpace(raw)
	lower := strings.ToLower(raw)

	switch {
	case strings.HasPrefix(lower, "postgres://"), strings.HasPrefix(lower, "postgresql://"):
		return Target{Dialect: DialectPostgres, Driver: "pgx", DSN: raw}, nil

	case strings.HasPrefix(lower, "sqlite3://"):
		return sqliteTarget(raw[len("sqlite3://"):]), nil

	case strings.HasPrefix(lower, "sqlite://"):
		return sqliteTarget(raw[len("sqlite://"):]), nil

	case strings.HasPrefix(lower, "file:"):
		path := raw[len("file:"):]
		if i := strings.IndexByte(path, '?'); i >= 0 {
			path = path[:i]
		}
		return Target{Dialect: DialectSQLite, Driver: "sqlite3", DSN: raw, Path: path}, nil
	}

	if raw == "" {
		return Target{}, fmt.Errorf("%w: empty URL", ErrUnsupportedURL)
	}
	scheme := raw
	if i := strings.Index(raw, "://"); i >= 0 {
		scheme = raw[:i]
	}
	return Target{}, fmt.Errorf("%w: scheme %q", ErrUnsupportedURL, scheme)
}

// sqliteTarget builds a SQLite target from the part of the URL after the
// scheme separator.
func sqliteTarget(rest string) Target {
	query := ""
	if i := strings.IndexByte(rest, '?'); i >= 0 {
		rest, query = rest[:i], rest[i+1:]
	}

	// The first slash separates the empty host from the path.
	path := strings.TrimPrefix(rest, "/")
	if path == "" || path == memoryPath {
		dsn := memoryPath
		if query != "" {
			dsn += "?" + query
		}
		return Target{Dialect: DialectSQLite, Driver: "sqlite3", DSN: dsn}
	}

	params := sqliteParams
	if query != "" {
		params = query + "&" + sqliteParams
	}
	return Target{
		Dialect: DialectSQLite,
		Driver:  "sqlite3",
		DSN:     path + "?" + params,
		Path:    path,
	}
}

