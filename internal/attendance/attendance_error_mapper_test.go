package attendance

import (
	"errors"
	"fmt"
	"testing"

	attendanceerrors "rollcall/internal/attendance/errors"
	"rollcall/internal/shared/apperror"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestMapInsertError(t *testing.T) {
	t.Run("nil passes through", func(t *testing.T) {
		assert.NoError(t, mapInsertError(nil))
	})

	t.Run("unique violation on the dedup constraint", func(t *testing.T) {
		// What the driver returns when two racing check-ins both pass the
		// pre-check and the second insert loses.
		pgErr := &pgconn.PgError{
			Code:           "23505",
			ConstraintName: uniqueSessionStudent,
		}
		err := mapInsertError(pgErr)
		assert.ErrorIs(t, err, attendanceerrors.ErrAlreadyCheckedIn)
	})

	t.Run("wrapped unique violation still maps", func(t *testing.T) {
		pgErr := &pgconn.PgError{
			Code:           "23505",
			ConstraintName: uniqueSessionStudent,
		}
		err := mapInsertError(fmt.Errorf("insert attendance: %w", pgErr))
		assert.ErrorIs(t, err, attendanceerrors.ErrAlreadyCheckedIn)
	})

	t.Run("unique violation on another constraint stays a storage error", func(t *testing.T) {
		pgErr := &pgconn.PgError{
			Code:           "23505",
			ConstraintName: "attendances_pkey",
		}
		err := mapInsertError(pgErr)
		assert.NotErrorIs(t, err, attendanceerrors.ErrAlreadyCheckedIn)
		assert.Equal(t, apperror.CodeStorageError, apperror.ToHTTP(err).Code)
	})

	t.Run("textual fallback without a typed error", func(t *testing.T) {
		err := mapInsertError(errors.New(
			`ERROR: duplicate key value violates unique constraint "` + uniqueSessionStudent + `" (SQLSTATE 23505)`,
		))
		assert.ErrorIs(t, err, attendanceerrors.ErrAlreadyCheckedIn)
	})

	t.Run("generic failure stays a storage error", func(t *testing.T) {
		err := mapInsertError(errors.New("connection reset by peer"))
		assert.Equal(t, apperror.CodeStorageError, apperror.ToHTTP(err).Code)
	})
}
