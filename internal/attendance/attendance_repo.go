package attendance

import (
	"context"
	"database/sql"
	"errors"
)

//go:generate mockgen -source=attendance_repo.go -destination=mock/attendance_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Insert(ctx context.Context, rec *Record) error
	FindByID(ctx context.Context, id string) (*Record, error)
	// FindBySessionAndStudent returns (nil, nil) when no record exists.
	FindBySessionAndStudent(ctx context.Context, sessionID, studentID string) (*Record, error)
	ListBySession(ctx context.Context, sessionID string) ([]Record, error)
	UpdateStatusReverified(ctx context.Context, id string, status Status, isReverified bool) error
	UpdateOverride(ctx context.Context, id string, status Status, recordedBy string) error
	// InsertAbsentees backfills Absent rows for the given students,
	// skipping anyone who already has a record via the session/student
	// unique constraint. Returns the number of rows actually created.
	InsertAbsentees(ctx context.Context, sessionID, classID string, studentIDs []string) (int64, error)
}

type repository struct {
	db *sql.DB
	tx *sql.Tx
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: r.db, tx: tx}
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (r *repository) execer() execer {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}

const recordColumns = `
	id::text, session_id::text, class_id::text, student_id::text,
	check_in_time, check_in_lat, check_in_lon, status,
	is_reverified, is_manual_override, recorded_by::text, created_at
`

func scanRecord(row interface{ Scan(...any) error }) (*Record, error) {
	var rec Record
	var status string
	err := row.Scan(
		&rec.ID, &rec.SessionID, &rec.ClassID, &rec.StudentID,
		&rec.CheckInTime, &rec.CheckInLat, &rec.CheckInLon, &status,
		&rec.IsReverified, &rec.IsManualOverride, &rec.RecordedBy, &rec.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	rec.Status, err = ParseStatus(status)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *repository) Insert(ctx context.Context, rec *Record) error {
	_, err := r.execer().ExecContext(ctx, `
		INSERT INTO attendances (
			id, session_id, class_id, student_id,
			check_in_time, check_in_lat, check_in_lon,
			status, is_reverified, is_manual_override, recorded_by
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`,
		rec.ID, rec.SessionID, rec.ClassID, rec.StudentID,
		rec.CheckInTime, rec.CheckInLat, rec.CheckInLon,
		rec.Status.String(), rec.IsReverified, rec.IsManualOverride, rec.RecordedBy,
	)
	return err
}

func (r *repository) FindByID(ctx context.Context, id string) (*Record, error) {
	row := r.execer().QueryRowContext(ctx, `
		SELECT `+recordColumns+`
		FROM attendances WHERE id = $1
	`, id)
	rec, err := scanRecord(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return rec, nil
}

func (r *repository) FindBySessionAndStudent(ctx context.Context, sessionID, studentID string) (*Record, error) {
	row := r.execer().QueryRowContext(ctx, `
		SELECT `+recordColumns+`
		FROM attendances
		WHERE session_id = $1 AND student_id = $2
	`, sessionID, studentID)
	rec, err := scanRecord(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return rec, nil
}

func (r *repository) ListBySession(ctx context.Context, sessionID string) ([]Record, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+recordColumns+`
		FROM attendances
		WHERE session_id = $1
		ORDER BY check_in_time ASC NULLS LAST, created_at ASC
	`, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, *rec)
	}
	return res, rows.Err()
}

func (r *repository) UpdateStatusReverified(ctx context.Context, id string, status Status, isReverified bool) error {
	_, err := r.execer().ExecContext(ctx, `
		UPDATE attendances
		SET status = $2, is_reverified = $3
		WHERE id = $1
	`, id, status.String(), isReverified)
	return err
}

func (r *repository) UpdateOverride(ctx context.Context, id string, status Status, recordedBy string) error {
	_, err := r.execer().ExecContext(ctx, `
		UPDATE attendances
		SET status = $2, is_manual_override = TRUE, recorded_by = $3
		WHERE id = $1
	`, id, status.String(), recordedBy)
	return err
}

func (r *repository) InsertAbsentees(ctx context.Context, sessionID, classID string, studentIDs []string) (int64, error) {
	var created int64
	for _, studentID := range studentIDs {
		res, err := r.execer().ExecContext(ctx, `
			INSERT INTO attendances (id, session_id, class_id, student_id, status, is_reverified)
			VALUES (gen_random_uuid(), $1, $2, $3, $4, FALSE)
			ON CONFLICT (session_id, student_id) DO NOTHING
		`, sessionID, classID, studentID, StatusAbsent.String())
		if err != nil {
			return created, err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return created, err
		}
		created += n
	}
	return created, nil
}
