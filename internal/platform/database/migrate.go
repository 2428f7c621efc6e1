package database

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/pressly/goose/v3"
)

//go:embed migrations
var migrationsFS embed.FS

// Migration commands understood by Migrate.
const (
	CommandUp      = "up"
	CommandDown    = "down"
	CommandReset   = "reset"
	CommandStatus  = "status"
	CommandVersion = "version"
)

// Commands lists every migration command in help order.
var Commands = []string{CommandUp, CommandDown, CommandReset, CommandStatus, CommandVersion}

// ErrUnknownCommand is returned by Migrate for an unrecognized command.
var ErrUnknownCommand = errors.New("unknown migration command")

// slogGooseLogger adapts the goose logger interface to slog.
type slogGooseLogger struct {
	logger *slog.Logger
}

// Printf forwards goose progress messages at info level.
func (l *slogGooseLogger) Printf(format string, v ...any) {
	l.logger.Info(fmt.Sprintf(format, v...))
}

// Fatalf logs at error level. It does not exit; goose errors are returned
// to the caller.
func (l *slogGooseLogger) Fatalf(format string, v ...any) {
	l.logger.Error(fmt.Sprintf(format, v...))
}

// MigrationsFS returns the embedded migrations of dialect.
func MigrationsFS(dialect Dialect) (fs.FS, error) {
	sub, err := fs.Sub(migrationsFS, "migrations/"+string(dialect))
	if err != nil {
		return nil, fmt.Errorf("no migrations for dialect %s: %w", dialect, err)
	}
	return sub, nil
}

// Migrate runs a goose migration command against db and returns the schema
// version afterwards.
func Migrate(ctx context.Context, db *DB, command string, logger *slog.Logger) (int64, error) {
	if logger == nil {
		logger = slog.Default()
	}
	log := logger.With(
		slog.String("component", "migrations"),
		slog.String("correlation_id", uuid.New().String()),
		slog.String("command", command),
		slog.String("dialect", string(db.Dialect())),
	)

	migrations, err := MigrationsFS(db.Dialect())
	if err != nil {
		return 0, err
	}

	provider, err := goose.NewProvider(goose.Dialect(db.Dialect()), db.DB, migrations,
		goose.WithLogger(&slogGooseLogger{logger: log}))
	if err != nil {
		return 0, fmt.Errorf("failed to create migration provider: %w", err)
	}

	start := time.Now()
	log.InfoContext(ctx, "starting migration command")

	switch command {
	case CommandUp:
		results, upErr := provider.Up(ctx)
		logResults(ctx, log, results)
		err = upErr
	case CommandDown:
		result, downErr := provider.Down(ctx)
		if errors.Is(downErr, goose.ErrNoNextVersion) {
			log.InfoContext(ctx, "no migration to roll back")
			downErr = nil
		}
		if result != nil {
			logResults(ctx, log, []*goose.MigrationResult{result})
		}
		err = downErr
	case CommandReset:
		results, resetErr := provider.DownTo(ctx, 0)
		logResults(ctx, log, results)
		err = resetErr
	case CommandStatus:
		statuses, statusErr := provider.Status(ctx)
		for _, s := range statuses {
			log.InfoContext(ctx, "migration status",
				slog.Int64("version", s.Source.Version),
				slog.String("path", s.Source.Path),
				slog.String("state", string(s.State)),
				slog.Time("applied_at", s.AppliedAt))
		}
		err = statusErr
	case CommandVersion:
		// Reported below.
	default:
		return 0, fmt.Errorf("%w: %s (expected one of %v)", ErrUnknownCommand, command, Commands)
	}
	if err != nil {
		log.ErrorContext(ctx, "migration command failed",
			slog.String("error", err.Error()),
			slog.Int64("duration_ms", time.Since(start).Milliseconds()))
		return 0, fmt.Errorf("migration command '%s' failed: %w", command, err)
	}

	version, err := provider.GetDBVersion(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to read schema version: %w", err)
	}

	log.InfoContext(ctx, "migration command completed",
		slog.Int64("version", version),
		slog.Int64("duration_ms", time.Since(start).Milliseconds()))
	return version, nil
}

func logResults(ctx context.Context, log *slog.Logger, results []*goose.MigrationResult) {
	for _, r := range results {
		if r == nil || r.Source == nil {
			continue
		}
		log.InfoContext(ctx, "migration applied",
			slog.Int64("version", r.Source.Version),
			slog.String("direction", r.Direction),
			slog.Int64("duration_ms", r.Duration.Milliseconds()))
	}
}
