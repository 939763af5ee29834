package finalizer

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"rollcall/internal/attendance"
	attendanceerrors "rollcall/internal/attendance/errors"
	"rollcall/internal/classroom"
	"rollcall/internal/messaging/kafka"
	"rollcall/internal/session"
	sessionerrors "rollcall/internal/session/errors"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type fakeRecordRepo struct {
	insertAbsFn func(ctx context.Context, sessionID, classID string, studentIDs []string) (int64, error)
}

func (f *fakeRecordRepo) WithTx(tx *sql.Tx) attendance.Repository            { return f }
func (f *fakeRecordRepo) Insert(ctx context.Context, rec *attendance.Record) error { return nil }
func (f *fakeRecordRepo) FindByID(ctx context.Context, id string) (*attendance.Record, error) {
	return nil, nil
}
func (f *fakeRecordRepo) FindBySessionAndStudent(ctx context.Context, sessionID, studentID string) (*attendance.Record, error) {
	return nil, nil
}
func (f *fakeRecordRepo) ListBySession(ctx context.Context, sessionID string) ([]attendance.Record, error) {
	return nil, nil
}
func (f *fakeRecordRepo) UpdateStatusReverified(ctx context.Context, id string, status attendance.Status, isReverified bool) error {
	return nil
}
func (f *fakeRecordRepo) UpdateOverride(ctx context.Context, id string, status attendance.Status, recordedBy string) error {
	return nil
}
func (f *fakeRecordRepo) InsertAbsentees(ctx context.Context, sessionID, classID string, studentIDs []string) (int64, error) {
	return f.insertAbsFn(ctx, sessionID, classID, studentIDs)
}

type fakeSessionRepo struct {
	findByIDFn    func(ctx context.Context, id string) (*session.Session, error)
	closeIfOpenFn func(ctx context.Context, id string, closedAt time.Time) (bool, error)
	expiredFn     func(ctx context.Context, now time.Time, limit int) ([]session.Session, error)
}

func (f *fakeSessionRepo) Create(ctx context.Context, s *session.Session) error { return nil }
func (f *fakeSessionRepo) FindByID(ctx context.Context, id string) (*session.Session, error) {
	return f.findByIDFn(ctx, id)
}
func (f *fakeSessionRepo) FindActive(ctx context.Context, now time.Time) ([]session.Session, error) {
	return nil, nil
}
func (f *fakeSessionRepo) SetReverifyEnabled(ctx context.Context, id string, enabled bool) error {
	return nil
}
func (f *fakeSessionRepo) CloseIfOpen(ctx context.Context, id string, closedAt time.Time) (bool, error) {
	return f.closeIfOpenFn(ctx, id, closedAt)
}
func (f *fakeSessionRepo) FindExpiredOpen(ctx context.Context, now time.Time, limit int) ([]session.Session, error) {
	if f.expiredFn != nil {
		return f.expiredFn(ctx, now, limit)
	}
	return nil, nil
}

type fakeClassService struct {
	rosterFn func(ctx context.Context, classID string) ([]string, error)
}

func (f *fakeClassService) Create(ctx context.Context, teacherID string, req classroom.CreateClassRequest) (classroom.ClassResponse, error) {
	return classroom.ClassResponse{}, nil
}
func (f *fakeClassService) GetAllByTeacher(ctx context.Context, teacherID string) ([]classroom.ClassResponse, error) {
	return nil, nil
}
func (f *fakeClassService) Exists(ctx context.Context, classID string) (bool, error) {
	return true, nil
}
func (f *fakeClassService) IsTeacherOf(ctx context.Context, classID, userID string) (bool, error) {
	return true, nil
}
func (f *fakeClassService) Enroll(ctx context.Context, classID, studentID string) error { return nil }
func (f *fakeClassService) EnrolledStudentIDs(ctx context.Context, classID string) ([]string, error) {
	return f.rosterFn(ctx, classID)
}

type fakeOutbox struct {
	created []kafka.OutboxEvent
}

func (f *fakeOutbox) WithTx(tx *sql.Tx) kafka.OutboxRepository { return f }
func (f *fakeOutbox) Create(ctx context.Context, event kafka.OutboxEvent) error {
	f.created = append(f.created, event)
	return nil
}
func (f *fakeOutbox) ListPending(ctx context.Context, limit int) ([]kafka.OutboxEvent, error) {
	return nil, nil
}
func (f *fakeOutbox) MarkSent(ctx context.Context, id string) error                  { return nil }
func (f *fakeOutbox) MarkFailed(ctx context.Context, id string, reason string) error { return nil }

var testNow = time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)

func expiredSession() *session.Session {
	return &session.Session{
		ID:             uuid.New(),
		ClassID:        uuid.New(),
		TeacherID:      uuid.New(),
		StartTime:      testNow.Add(-30 * time.Minute),
		LateCutoffTime: testNow.Add(-20 * time.Minute),
		EndTime:        testNow.Add(-15 * time.Minute),
	}
}

func TestFinalize(t *testing.T) {
	t.Run("backfills absentees and emits event", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		assert.NoError(t, err)
		defer db.Close()

		sess := expiredSession()
		roster := []string{uuid.NewString(), uuid.NewString(), uuid.NewString()}

		var backfilled []string
		records := &fakeRecordRepo{
			insertAbsFn: func(ctx context.Context, sessionID, classID string, studentIDs []string) (int64, error) {
				backfilled = studentIDs
				return 2, nil
			},
		}
		outbox := &fakeOutbox{}
		svc := &service{
			db:      db,
			records: records,
			sessions: &fakeSessionRepo{
				findByIDFn: func(ctx context.Context, id string) (*session.Session, error) {
					return sess, nil
				},
				closeIfOpenFn: func(ctx context.Context, id string, closedAt time.Time) (bool, error) {
					return true, nil
				},
			},
			classes: &fakeClassService{
				rosterFn: func(ctx context.Context, classID string) ([]string, error) {
					return roster, nil
				},
			},
			outbox: outbox,
			logger: zap.NewNop(),
			now:    func() time.Time { return testNow },
		}

		mock.ExpectBegin()
		mock.ExpectCommit()

		summary, err := svc.Finalize(context.Background(), sess.ID.String())
		assert.NoError(t, err)
		assert.True(t, summary.Closed)
		assert.Equal(t, int64(2), summary.AbsentCreated)
		assert.Equal(t, roster, backfilled)
		assert.Len(t, outbox.created, 1)
		assert.Equal(t, "session.finalized", outbox.created[0].EventType)
	})

	t.Run("second call is a no-op", func(t *testing.T) {
		db, _, err := sqlmock.New()
		assert.NoError(t, err)
		defer db.Close()

		sess := expiredSession()
		sess.Closed = true

		backfillCalls := 0
		svc := &service{
			db: db,
			records: &fakeRecordRepo{
				insertAbsFn: func(ctx context.Context, sessionID, classID string, studentIDs []string) (int64, error) {
					backfillCalls++
					return 0, nil
				},
			},
			sessions: &fakeSessionRepo{
				findByIDFn: func(ctx context.Context, id string) (*session.Session, error) {
					return sess, nil
				},
				closeIfOpenFn: func(ctx context.Context, id string, closedAt time.Time) (bool, error) {
					return false, nil
				},
			},
			classes: &fakeClassService{},
			outbox:  &fakeOutbox{},
			logger:  zap.NewNop(),
			now:     func() time.Time { return testNow },
		}

		summary, err := svc.Finalize(context.Background(), sess.ID.String())
		assert.NoError(t, err)
		assert.True(t, summary.Closed)
		assert.Zero(t, summary.AbsentCreated)
		assert.Zero(t, backfillCalls)
	})

	t.Run("open window rejects", func(t *testing.T) {
		db, _, err := sqlmock.New()
		assert.NoError(t, err)
		defer db.Close()

		sess := expiredSession()
		sess.EndTime = testNow.Add(5 * time.Minute)

		svc := &service{
			db:      db,
			records: &fakeRecordRepo{},
			sessions: &fakeSessionRepo{
				findByIDFn: func(ctx context.Context, id string) (*session.Session, error) {
					return sess, nil
				},
			},
			classes: &fakeClassService{},
			outbox:  &fakeOutbox{},
			logger:  zap.NewNop(),
			now:     func() time.Time { return testNow },
		}

		_, err = svc.Finalize(context.Background(), sess.ID.String())
		assert.ErrorIs(t, err, attendanceerrors.ErrSessionStillOpen)
	})

	t.Run("unknown session", func(t *testing.T) {
		db, _, err := sqlmock.New()
		assert.NoError(t, err)
		defer db.Close()

		svc := &service{
			db:      db,
			records: &fakeRecordRepo{},
			sessions: &fakeSessionRepo{
				findByIDFn: func(ctx context.Context, id string) (*session.Session, error) {
					return nil, gorm.ErrRecordNotFound
				},
			},
			classes: &fakeClassService{},
			outbox:  &fakeOutbox{},
			logger:  zap.NewNop(),
			now:     func() time.Time { return testNow },
		}

		_, err = svc.Finalize(context.Background(), uuid.NewString())
		assert.ErrorIs(t, err, sessionerrors.ErrSessionNotFound)
	})
}

func TestFinalizeExpired(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	first := expiredSession()
	second := expiredSession()

	sessions := map[string]*session.Session{
		first.ID.String():  first,
		second.ID.String(): second,
	}

	svc := &service{
		db: db,
		records: &fakeRecordRepo{
			insertAbsFn: func(ctx context.Context, sessionID, classID string, studentIDs []string) (int64, error) {
				return 0, nil
			},
		},
		sessions: &fakeSessionRepo{
			findByIDFn: func(ctx context.Context, id string) (*session.Session, error) {
				return sessions[id], nil
			},
			closeIfOpenFn: func(ctx context.Context, id string, closedAt time.Time) (bool, error) {
				return true, nil
			},
			expiredFn: func(ctx context.Context, now time.Time, limit int) ([]session.Session, error) {
				return []session.Session{*first, *second}, nil
			},
		},
		classes: &fakeClassService{
			rosterFn: func(ctx context.Context, classID string) ([]string, error) {
				return nil, nil
			},
		},
		outbox: &fakeOutbox{},
		logger: zap.NewNop(),
		now:    func() time.Time { return testNow },
	}

	mock.ExpectBegin()
	mock.ExpectCommit()
	mock.ExpectBegin()
	mock.ExpectCommit()

	done, err := svc.FinalizeExpired(context.Background(), 10)
	assert.NoError(t, err)
	assert.Equal(t, 2, done)
}
