package session

import (
	"context"
	"time"

	"gorm.io/gorm"
)

//go:generate mockgen -source=session_repo.go -destination=mock/session_repo_mock.go -package=mock
type Repository interface {
	Create(ctx context.Context, s *Session) error
	FindByID(ctx context.Context, id string) (*Session, error)
	FindActive(ctx context.Context, now time.Time) ([]Session, error)
	SetReverifyEnabled(ctx context.Context, id string, enabled bool) error
	// CloseIfOpen atomically flips the closed flag and reports whether this
	// call was the one that closed the session. Finalization relies on this
	// to stay idempotent under concurrent invocation.
	CloseIfOpen(ctx context.Context, id string, closedAt time.Time) (bool, error)
	FindExpiredOpen(ctx context.Context, now time.Time, limit int) ([]Session, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, s *Session) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *repository) FindByID(ctx context.Context, id string) (*Session, error) {
	var s Session
	err := r.db.WithContext(ctx).First(&s, "id = ?", id).Error
	return &s, err
}

func (r *repository) FindActive(ctx context.Context, now time.Time) ([]Session, error) {
	var rows []Session
	err := r.db.WithContext(ctx).
		Where("start_time <= ?", now).
		Where("end_time >= ?", now).
		Where("closed = ?", false).
		Order("start_time DESC").
		Find(&rows).Error
	return rows, err
}

func (r *repository) SetReverifyEnabled(ctx context.Context, id string, enabled bool) error {
	return r.db.WithContext(ctx).
		Model(&Session{}).
		Where("id = ?", id).
		Update("reverify_enabled", enabled).Error
}

func (r *repository) CloseIfOpen(ctx context.Context, id string, closedAt time.Time) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&Session{}).
		Where("id = ?", id).
		Where("closed = ?", false).
		Updates(map[string]interface{}{
			"closed":           true,
			"closed_at":        closedAt,
			"reverify_enabled": false,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *repository) FindExpiredOpen(ctx context.Context, now time.Time, limit int) ([]Session, error) {
	if limit <= 0 {
		limit = 50
	}
	var rows []Session
	err := r.db.WithContext(ctx).
		Where("end_time < ?", now).
		Where("closed = ?", false).
		Order("end_time ASC").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}
