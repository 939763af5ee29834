package attendance

import (
	"errors"
	"strings"

	attendanceerrors "rollcall/internal/attendance/errors"
	"rollcall/internal/shared/apperror"

	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueSessionStudent = "uq_attendance_session_student"

// mapInsertError translates the storage-level duplicate guard into the
// business error. Two racing check-ins both pass the in-process pre-check;
// the unique constraint decides the loser and it must surface as
// ALREADY_CHECKED_IN, not as a storage failure.
func mapInsertError(err error) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == "23505" && pgErr.ConstraintName == uniqueSessionStudent {
			return attendanceerrors.ErrAlreadyCheckedIn
		}
	}

	errMsg := strings.ToLower(err.Error())
	if strings.Contains(errMsg, "duplicate key value") && strings.Contains(errMsg, uniqueSessionStudent) {
		return attendanceerrors.ErrAlreadyCheckedIn
	}

	return apperror.Storage(err)
}
