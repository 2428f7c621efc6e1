package database

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"
	"github.com/phrazzld/flashnotes/internal/store"
	"github.com/stretchr/testify/assert"
)

func TestMapError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		err     error
		wantIs  error
		wantNil bool
	}{
		{name: "nil", err: nil, wantNil: true},
		{name: "no rows", err: sql.ErrNoRows, wantIs: store.ErrNotFound},
		{name: "wrapped no rows", err: fmt.Errorf("scan: %w", sql.ErrNoRows), wantIs: store.ErrNotFound},
		{
			name:   "postgres check violation",
			err:    &pgconn.PgError{Code: checkViolationCode, ConstraintName: "flashcards_question_not_blank"},
			wantIs: store.ErrInvalidEntity,
		},
		{
			name:   "postgres not null violation",
			err:    &pgconn.PgError{Code: notNullViolationCode, ColumnName: "answer"},
			wantIs: store.ErrInvalidEntity,
		},
		{
			name:   "postgres other error",
			err:    &pgconn.PgError{Code: "42P01"},
			wantIs: store.ErrStorage,
		},
		{
			name:   "sqlite check violation",
			err:    sqlite3.Error{Code: sqlite3.ErrConstraint, ExtendedCode: sqlite3.ErrConstraintCheck},
			wantIs: store.ErrInvalidEntity,
		},
		{
			name:   "sqlite not null violation",
			err:    sqlite3.Error{Code: sqlite3.ErrConstraint, ExtendedCode: sqlite3.ErrConstraintNotNull},
			wantIs: store.ErrInvalidEntity,
		},
		{
			name:   "sqlite busy",
			err:    sqlite3.Error{Code: sqlite3.ErrBusy},
			wantIs: store.ErrStorage,
		},
		{name: "generic", err: errors.New("boom"), wantIs: store.ErrStorage},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := MapError(tc.err)
			if tc.wantNil {
				assert.NoError(t, got)
				return
			}
			assert.ErrorIs(t, got, tc.wantIs)
			assert.ErrorIs(t, got, tc.err, "original error must stay in the chain")
		})
	}
}
