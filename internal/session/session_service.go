package session

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"rollcall/internal/classroom"
	"rollcall/internal/geofence"
	"rollcall/internal/rbac"
	sessionerrors "rollcall/internal/session/errors"
	"rollcall/internal/shared/apperror"
	"rollcall/internal/shared/contextutil"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

const (
	DefaultLateCutoff = 10 * time.Minute
	DefaultDuration   = 15 * time.Minute

	MinRadiusMeters = 10
	MaxRadiusMeters = 2000

	ActiveSessionsCacheKey = "sessions:active"
	activeSessionsCacheTTL = 10 * time.Second
)

//go:generate mockgen -source=session_service.go -destination=mock/session_service_mock.go -package=mock
type Service interface {
	Open(ctx context.Context, teacherID string, req OpenSessionRequest) (SessionResponse, error)
	GetActive(ctx context.Context) ([]SessionResponse, error)
	ToggleReverify(ctx context.Context, sessionID, actorID string, enabled bool) (SessionResponse, error)
}

type service struct {
	repo      Repository
	classes   classroom.Service
	rbac      rbac.Service
	rdb       *redis.Client
	sf        *singleflight.Group
	logger    *zap.Logger
	now       func() time.Time
}

func NewService(repo Repository, classes classroom.Service, rbacService rbac.Service, rdb *redis.Client, logger ...*zap.Logger) Service {
	l := zap.L().Named("session.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("session.service")
	}
	return &service{
		repo:    repo,
		classes: classes,
		rbac:    rbacService,
		rdb:     rdb,
		sf:      &singleflight.Group{},
		logger:  l,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

func (s *service) Open(ctx context.Context, teacherID string, req OpenSessionRequest) (SessionResponse, error) {
	rid := contextutil.GetRequestID(ctx)

	if req.RadiusMeters < MinRadiusMeters || req.RadiusMeters > MaxRadiusMeters {
		return SessionResponse{}, sessionerrors.ErrInvalidRadius
	}
	if req.Latitude == nil || req.Longitude == nil {
		return SessionResponse{}, apperror.RequiredField("latitude/longitude")
	}
	if err := geofence.ValidateCoordinates(*req.Latitude, *req.Longitude); err != nil {
		return SessionResponse{}, err
	}

	ok, err := s.classes.Exists(ctx, req.ClassID)
	if err != nil {
		return SessionResponse{}, err
	}
	if !ok {
		return SessionResponse{}, apperror.ErrNotFound
	}

	if err := s.authorizeTeacher(ctx, req.ClassID, teacherID); err != nil {
		return SessionResponse{}, err
	}

	now := s.now()
	start := now
	if req.StartTime != nil {
		start = req.StartTime.UTC()
	}
	lateCutoff := start.Add(DefaultLateCutoff)
	if req.LateCutoffTime != nil {
		lateCutoff = req.LateCutoffTime.UTC()
	}
	end := start.Add(DefaultDuration)
	if req.EndTime != nil {
		end = req.EndTime.UTC()
	}

	if start.After(lateCutoff) || lateCutoff.After(end) {
		return SessionResponse{}, sessionerrors.ErrInvalidWindow
	}

	// Anchor is frozen here. Check-ins are judged against these
	// coordinates for the whole session.
	row := &Session{
		ID:             uuid.New(),
		ClassID:        uuid.MustParse(req.ClassID),
		TeacherID:      uuid.MustParse(teacherID),
		StartTime:      start,
		LateCutoffTime: lateCutoff,
		EndTime:        end,
		AnchorLat:      *req.Latitude,
		AnchorLon:      *req.Longitude,
		RadiusMeters:   req.RadiusMeters,
	}

	if err := s.repo.Create(ctx, row); err != nil {
		s.logger.Error("open session persist failed",
			zap.String("request_id", rid),
			zap.String("class_id", req.ClassID),
			zap.Error(err),
		)
		return SessionResponse{}, apperror.Storage(err)
	}

	s.invalidateActiveCache(ctx)

	s.logger.Info("session opened",
		zap.String("request_id", rid),
		zap.String("session_id", row.ID.String()),
		zap.String("class_id", req.ClassID),
		zap.Time("start_time", start),
		zap.Time("end_time", end),
		zap.Int("radius_meters", req.RadiusMeters),
	)
	return mapToResponse(*row), nil
}

func (s *service) GetActive(ctx context.Context) ([]SessionResponse, error) {
	if s.rdb != nil {
		if val, err := s.rdb.Get(ctx, ActiveSessionsCacheKey).Result(); err == nil {
			var cached []SessionResponse
			if err := json.Unmarshal([]byte(val), &cached); err == nil {
				return cached, nil
			}
		}
	}

	v, err, _ := s.sf.Do(ActiveSessionsCacheKey, func() (interface{}, error) {
		rows, err := s.repo.FindActive(ctx, s.now())
		if err != nil {
			return nil, apperror.Storage(err)
		}
		res := make([]SessionResponse, len(rows))
		for i, r := range rows {
			res[i] = mapToResponse(r)
		}
		if s.rdb != nil {
			if payload, err := json.Marshal(res); err == nil {
				s.rdb.Set(ctx, ActiveSessionsCacheKey, payload, activeSessionsCacheTTL)
			}
		}
		return res, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]SessionResponse), nil
}

func (s *service) ToggleReverify(ctx context.Context, sessionID, actorID string, enabled bool) (SessionResponse, error) {
	row, err := s.repo.FindByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return SessionResponse{}, sessionerrors.ErrSessionNotFound
		}
		return SessionResponse{}, apperror.Storage(err)
	}

	if err := s.authorizeTeacher(ctx, row.ClassID.String(), actorID); err != nil {
		return SessionResponse{}, err
	}

	// Spot checks can only be switched on inside the window. Switching
	// them off is always allowed.
	if enabled && (row.Closed || !row.ActiveAt(s.now())) {
		return SessionResponse{}, sessionerrors.ErrSessionNotActive
	}

	if err := s.repo.SetReverifyEnabled(ctx, sessionID, enabled); err != nil {
		return SessionResponse{}, apperror.Storage(err)
	}
	row.ReverifyEnabled = enabled

	s.invalidateActiveCache(ctx)

	s.logger.Info("session reverify toggled",
		zap.String("session_id", sessionID),
		zap.Bool("enabled", enabled),
	)
	return mapToResponse(*row), nil
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

func (s *service) invalidateActiveCache(ctx context.Context) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Del(ctx, ActiveSessionsCacheKey).Err(); err != nil {
		s.logger.Warn("active sessions cache invalidation failed", zap.Error(err))
	}
}
