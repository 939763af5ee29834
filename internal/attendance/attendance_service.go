package attendance

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	attendanceerrors "rollcall/internal/attendance/errors"
	"rollcall/internal/classroom"
	"rollcall/internal/events"
	"rollcall/internal/face"
	"rollcall/internal/geofence"
	"rollcall/internal/messaging/kafka"
	"rollcall/internal/rbac"
	"rollcall/internal/session"
	sessionerrors "rollcall/internal/session/errors"
	"rollcall/internal/shared/apperror"
	"rollcall/internal/shared/contextutil"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:generate mockgen -source=attendance_service.go -destination=mock/attendance_service_mock.go -package=mock
type Service interface {
	CheckIn(ctx context.Context, studentID string, req CheckInRequest, image []byte) (RecordResponse, error)
	Reverify(ctx context.Context, studentID string, req ReverifyRequest, image []byte) (RecordResponse, error)
	Override(ctx context.Context, actorID string, req OverrideRequest) (RecordResponse, error)
	ListBySession(ctx context.Context, actorID, sessionID string) ([]RecordResponse, error)
}

type service struct {
	db       *sql.DB
	repo     Repository
	sessions session.Repository
	faces    face.Gateway
	classes  classroom.Service
	rbac     rbac.Service
	outbox   kafka.OutboxRepository
	logger   *zap.Logger
	now      func() time.Time
}

func NewService(
	db *sql.DB,
	repo Repository,
	sessions session.Repository,
	faces face.Gateway,
	classes classroom.Service,
	rbacService rbac.Service,
	outbox kafka.OutboxRepository,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("attendance.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("attendance.service")
	}
	return &service{
		db:       db,
		repo:     repo,
		sessions: sessions,
		faces:    faces,
		classes:  classes,
		rbac:     rbacService,
		outbox:   outbox,
		logger:   l,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (s *service) CheckIn(ctx context.Context, studentID string, req CheckInRequest, image []byte) (RecordResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	now := s.now()

	sess, err := s.loadSession(ctx, req.SessionID)
	if err != nil {
		return RecordResponse{}, err
	}

	// Only the end of the window gates admission; an early arrival is fine
	// and classifies as Present. The check runs before any expensive work,
	// so a late request never costs a face-service round trip.
	if sess.Closed || !now.Before(sess.EndTime) {
		return RecordResponse{}, attendanceerrors.ErrWindowClosed
	}

	if req.Latitude == nil || req.Longitude == nil {
		return RecordResponse{}, apperror.RequiredField("latitude/longitude")
	}
	inRange, err := geofence.WithinRadius(*req.Latitude, *req.Longitude, sess.AnchorLat, sess.AnchorLon, sess.RadiusMeters)
	if err != nil {
		return RecordResponse{}, err
	}
	if !inRange {
		s.logger.Info("check-in rejected outside geofence",
			zap.String("request_id", rid),
			zap.String("session_id", req.SessionID),
			zap.String("student_id", studentID),
		)
		return RecordResponse{}, attendanceerrors.ErrTooFar
	}

	// Cheap pre-check. The unique constraint is still the real guard; two
	// racing requests both pass here and the insert decides.
	existing, err := s.repo.FindBySessionAndStudent(ctx, req.SessionID, studentID)
	if err != nil {
		return RecordResponse{}, apperror.Storage(err)
	}
	if existing != nil {
		return RecordResponse{}, attendanceerrors.ErrAlreadyCheckedIn
	}

	matched, dist, err := s.verifyFace(ctx, studentID, image)
	if err != nil {
		return RecordResponse{}, err
	}

	status := s.classify(sess, now, matched)

	rec := &Record{
		ID:          uuid.NewString(),
		SessionID:   req.SessionID,
		ClassID:     sess.ClassID.String(),
		StudentID:   studentID,
		CheckInTime: &now,
		CheckInLat:  req.Latitude,
		CheckInLon:  req.Longitude,
		Status:      status,
		CreatedAt:   now,
	}

	if err := s.persistWithEvent(ctx, rec, func(tx *sql.Tx) error {
		return mapInsertError(s.repo.WithTx(tx).Insert(ctx, rec))
	}); err != nil {
		return RecordResponse{}, err
	}

	s.logger.Info("check-in recorded",
		zap.String("request_id", rid),
		zap.String("session_id", req.SessionID),
		zap.String("student_id", studentID),
		zap.String("status", status.String()),
		zap.Float64("face_distance", dist),
	)
	return mapToResponse(*rec), nil
}

func (s *service) Reverify(ctx context.Context, studentID string, req ReverifyRequest, image []byte) (RecordResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	now := s.now()

	sess, err := s.loadSession(ctx, req.SessionID)
	if err != nil {
		return RecordResponse{}, err
	}
	if !sess.ReverifyEnabled {
		return RecordResponse{}, attendanceerrors.ErrReverifyDisabled
	}
	if sess.Closed || !now.Before(sess.EndTime) {
		return RecordResponse{}, attendanceerrors.ErrWindowClosed
	}

	rec, err := s.repo.FindBySessionAndStudent(ctx, req.SessionID, studentID)
	if err != nil {
		return RecordResponse{}, apperror.Storage(err)
	}
	// Absent means the student never showed up during the window, so there
	// is nothing to spot-check. Anything else, an unverified check-in
	// included, can still be confirmed or downgraded.
	if rec == nil || rec.Status == StatusAbsent {
		return RecordResponse{}, attendanceerrors.ErrNothingToReverify
	}

	passed, dist, err := s.reverifyOutcome(ctx, studentID, sess, req, image)
	if err != nil {
		return RecordResponse{}, err
	}

	// The attempt itself is recorded either way. A failed spot check means
	// the student is no longer where they checked in, so the original
	// status is replaced, never the check-in time.
	status := rec.Status
	if !passed {
		status = StatusLeftEarly
	}

	rec.Status = status
	rec.IsReverified = true
	if err := s.persistWithEvent(ctx, rec, func(tx *sql.Tx) error {
		return s.repo.WithTx(tx).UpdateStatusReverified(ctx, rec.ID, status, true)
	}); err != nil {
		return RecordResponse{}, err
	}

	s.logger.Info("reverification processed",
		zap.String("request_id", rid),
		zap.String("session_id", req.SessionID),
		zap.String("student_id", studentID),
		zap.Bool("passed", passed),
		zap.String("status", status.String()),
		zap.Float64("face_distance", dist),
	)
	return mapToResponse(*rec), nil
}

// reverifyOutcome runs the same geofence and biometric checks as check-in.
// Only a biometric mismatch counts as a failed spot check; an out-of-range
// probe is rejected outright and leaves the record untouched.
func (s *service) reverifyOutcome(ctx context.Context, studentID string, sess *session.Session, req ReverifyRequest, image []byte) (bool, float64, error) {
	if req.Latitude == nil || req.Longitude == nil {
		return false, 0, apperror.RequiredField("latitude/longitude")
	}
	inRange, err := geofence.WithinRadius(*req.Latitude, *req.Longitude, sess.AnchorLat, sess.AnchorLon, sess.RadiusMeters)
	if err != nil {
		return false, 0, err
	}
	if !inRange {
		return false, 0, attendanceerrors.ErrTooFar
	}

	matched, dist, err := s.verifyFace(ctx, studentID, image)
	if err != nil {
		return false, 0, err
	}
	return matched, dist, nil
}

// Override corrects an existing record in place. Rows only ever come from a
// check-in or the finalize backfill, so an unknown id is a plain not-found,
// never an implicit create.
func (s *service) Override(ctx context.Context, actorID string, req OverrideRequest) (RecordResponse, error) {
	status, err := ParseStatus(req.Status)
	if err != nil {
		return RecordResponse{}, attendanceerrors.ErrInvalidStatus
	}

	rec, err := s.repo.FindByID(ctx, req.AttendanceID)
	if err != nil {
		return RecordResponse{}, apperror.Storage(err)
	}
	if rec == nil {
		return RecordResponse{}, attendanceerrors.ErrRecordNotFound
	}

	if err := s.authorizeTeacher(ctx, rec.ClassID, actorID); err != nil {
		return RecordResponse{}, err
	}

	rec.Status = status
	rec.IsManualOverride = true
	rec.RecordedBy = &actorID
	if err := s.persistWithEvent(ctx, rec, func(tx *sql.Tx) error {
		return s.repo.WithTx(tx).UpdateOverride(ctx, rec.ID, status, actorID)
	}); err != nil {
		return RecordResponse{}, err
	}

	s.logger.Info("attendance overridden",
		zap.String("attendance_id", rec.ID),
		zap.String("session_id", rec.SessionID),
		zap.String("student_id", rec.StudentID),
		zap.String("actor_id", actorID),
		zap.String("status", status.String()),
	)
	return mapToResponse(*rec), nil
}

func (s *service) ListBySession(ctx context.Context, actorID, sessionID string) ([]RecordResponse, error) {
	sess, err := s.loadSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if err := s.authorizeTeacher(ctx, sess.ClassID.String(), actorID); err != nil {
		return nil, err
	}

	rows, err := s.repo.ListBySession(ctx, sessionID)
	if err != nil {
		return nil, apperror.Storage(err)
	}
	res := make([]RecordResponse, len(rows))
	for i, r := range rows {
		res[i] = mapToResponse(r)
	}
	return res, nil
}

func (s *service) loadSession(ctx context.Context, sessionID string) (*session.Session, error) {
	sess, err := s.sessions.FindByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, sessionerrors.ErrSessionNotFound
		}
		return nil, apperror.Storage(err)
	}
	return sess, nil
}

// verifyFace turns the probe image into an embedding and compares it to the
// student's enrolled samples. A student with no samples errors out instead of
// being recorded unverified: once a row exists the dedup guard would block
// every retry, so enrollment must come first.
func (s *service) verifyFace(ctx context.Context, studentID string, image []byte) (bool, float64, error) {
	probe, err := s.faces.Embed(ctx, image)
	if err != nil {
		return false, 0, err
	}
	return s.faces.BestMatch(ctx, studentID, probe)
}

// classify decides the stored status from the verification outcome and the
// instant of arrival. A failed face match wins over timing; arriving before
// the nominal start just counts as Present.
func (s *service) classify(sess *session.Session, at time.Time, faceMatched bool) Status {
	if !faceMatched {
		return StatusUnverifiedFace
	}
	if at.Before(sess.LateCutoffTime) {
		return StatusPresent
	}
	if at.Before(sess.EndTime) {
		return StatusLate
	}
	return StatusAbsent
}

// persistWithEvent runs the mutation and the outbox append in one
// transaction, so a recorded attendance always has its event and vice versa.
func (s *service) persistWithEvent(ctx context.Context, rec *Record, mutate func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return apperror.Storage(err)
	}
	defer tx.Rollback()

	if err := mutate(tx); err != nil {
		return err
	}

	payload, err := json.Marshal(events.AttendanceRecordedEvent{
		EventType:    "attendance.recorded",
		AttendanceID: rec.ID,
		SessionID:    rec.SessionID,
		ClassID:      rec.ClassID,
		StudentID:    rec.StudentID,
		Status:       rec.Status.String(),
		OccurredAt:   s.now(),
	})
	if err != nil {
		return apperror.Storage(err)
	}

	if err := s.outbox.WithTx(tx).Create(ctx, kafka.OutboxEvent{
		ID:            uuid.NewString(),
		RequestID:     contextutil.GetRequestID(ctx),
		AggregateType: "attendance",
		AggregateID:   rec.ID,
		EventType:     "attendance.recorded",
		Topic:         events.AttendanceRecordedTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	}); err != nil {
		return apperror.Storage(err)
	}

	if err := tx.Commit(); err != nil {
		return apperror.Storage(err)
	}
	return nil
}

func (s *service) authorizeTeacher(ctx context.Context, classID, actorID string) error {
	owns, err := s.classes.IsTeacherOf(ctx, classID, actorID)
	if err != nil {
		return err
	}
	if owns {
		return nil
	}
	isAdmin, err := s.rbac.HasRole(ctx, actorID, rbac.RoleAdmin)
	if err != nil {
		return err
	}
	if !isAdmin {
		return apperror.ErrForbidden
	}
	return nil
}
