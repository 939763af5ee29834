// Package finalizer closes expired roll-call windows and backfills Absent
// rows for every enrolled student who never produced a record. It runs both
// on demand, when a teacher closes a session early from the API, and as a
// periodic sweep in the worker.
package finalizer

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"rollcall/internal/attendance"
	attendanceerrors "rollcall/internal/attendance/errors"
	"rollcall/internal/classroom"
	"rollcall/internal/events"
	"rollcall/internal/messaging/kafka"
	"rollcall/internal/session"
	sessionerrors "rollcall/internal/session/errors"
	"rollcall/internal/shared/apperror"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:generate mockgen -source=finalizer_service.go -destination=mock/finalizer_service_mock.go -package=mock
type Service interface {
	// Finalize closes one session and backfills absentees. Calling it on an
	// already-closed session is a successful no-op.
	Finalize(ctx context.Context, sessionID string) (Summary, error)
	// FinalizeExpired sweeps sessions whose window ended but were never
	// closed, finalizing up to limit of them.
	FinalizeExpired(ctx context.Context, limit int) (int, error)
}

type Summary struct {
	SessionID     string `json:"session_id"`
	Closed        bool   `json:"closed"`
	AbsentCreated int64  `json:"absent_created"`
}

type service struct {
	db       *sql.DB
	records  attendance.Repository
	sessions session.Repository
	classes  classroom.Service
	outbox   kafka.OutboxRepository
	logger   *zap.Logger
	now      func() time.Time
}

func NewService(
	db *sql.DB,
	records attendance.Repository,
	sessions session.Repository,
	classes classroom.Service,
	outbox kafka.OutboxRepository,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("finalizer.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("finalizer.service")
	}
	return &service{
		db:       db,
		records:  records,
		sessions: sessions,
		classes:  classes,
		outbox:   outbox,
		logger:   l,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (s *service) Finalize(ctx context.Context, sessionID string) (Summary, error) {
	sess, err := s.sessions.FindByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Summary{}, sessionerrors.ErrSessionNotFound
		}
		return Summary{}, apperror.Storage(err)
	}

	now := s.now()
	if !sess.Closed && now.Before(sess.EndTime) {
		return Summary{}, attendanceerrors.ErrSessionStillOpen
	}

	// The closed flag is the claim. Exactly one caller flips it; everyone
	// else sees a no-op, which keeps concurrent finalization idempotent.
	claimed, err := s.sessions.CloseIfOpen(ctx, sessionID, now)
	if err != nil {
		return Summary{}, apperror.Storage(err)
	}
	if !claimed {
		return Summary{SessionID: sessionID, Closed: true}, nil
	}

	created, err := s.backfillAbsentees(ctx, sess)
	if err != nil {
		// The session stays closed; absentees for it must be repaired by a
		// manual override. Surfacing the error beats silently losing it.
		s.logger.Error("absent backfill failed after close",
			zap.String("session_id", sessionID),
			zap.Error(err),
		)
		return Summary{}, err
	}

	s.logger.Info("session finalized",
		zap.String("session_id", sessionID),
		zap.String("class_id", sess.ClassID.String()),
		zap.Int64("absent_created", created),
	)
	return Summary{SessionID: sessionID, Closed: true, AbsentCreated: created}, nil
}

// backfillAbsentees reads the roster at finalize time, so students enrolled
// mid-session are still covered, and inserts Absent rows in one transaction
// together with the finalized event.
func (s *service) backfillAbsentees(ctx context.Context, sess *session.Session) (int64, error) {
	roster, err := s.classes.EnrolledStudentIDs(ctx, sess.ClassID.String())
	if err != nil {
		return 0, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, apperror.Storage(err)
	}
	defer tx.Rollback()

	created, err := s.records.WithTx(tx).InsertAbsentees(ctx, sess.ID.String(), sess.ClassID.String(), roster)
	if err != nil {
		return 0, apperror.Storage(err)
	}

	payload, err := json.Marshal(events.SessionFinalizedEvent{
		EventType:     "session.finalized",
		SessionID:     sess.ID.String(),
		ClassID:       sess.ClassID.String(),
		AbsentCreated: created,
		OccurredAt:    s.now(),
	})
	if err != nil {
		return 0, apperror.Storage(err)
	}
	if err := s.outbox.WithTx(tx).Create(ctx, kafka.OutboxEvent{
		ID:            uuid.NewString(),
		AggregateType: "session",
		AggregateID:   sess.ID.String(),
		EventType:     "session.finalized",
		Topic:         events.SessionFinalizedTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	}); err != nil {
		return 0, apperror.Storage(err)
	}

	if err := tx.Commit(); err != nil {
		return 0, apperror.Storage(err)
	}
	return created, nil
}

func (s *service) FinalizeExpired(ctx context.Context, limit int) (int, error) {
	rows, err := s.sessions.FindExpiredOpen(ctx, s.now(), limit)
	if err != nil {
		return 0, apperror.Storage(err)
	}

	done := 0
	for _, sess := range rows {
		if _, err := s.Finalize(ctx, sess.ID.String()); err != nil {
			s.logger.Error("sweep finalize failed",
				zap.String("session_id", sess.ID.String()),
				zap.Error(err),
			)
			continue
		}
		done++
	}
	return done, nil
}
