package face

import (
	"context"

	"gorm.io/gorm"
)

//go:generate mockgen -source=face_sample_repo.go -destination=mock/face_sample_repo_mock.go -package=mock
type SampleRepository interface {
	Create(ctx context.Context, s *Sample) error
	FindByID(ctx context.Context, id string) (*Sample, error)
	FindAllByUser(ctx context.Context, userID string) ([]Sample, error)
	Delete(ctx context.Context, id string) error
}

type sampleRepository struct {
	db *gorm.DB
}

func NewSampleRepository(db *gorm.DB) SampleRepository {
	return &sampleRepository{db: db}
}

func (r *sampleRepository) Create(ctx context.Context, s *Sample) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *sampleRepository) FindByID(ctx context.Context, id string) (*Sample, error) {
	var s Sample
	err := r.db.WithContext(ctx).First(&s, "id = ?", id).Error
	return &s, err
}

func (r *sampleRepository) FindAllByUser(ctx context.Context, userID string) ([]Sample, error) {
	var rows []Sample
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&rows).Error
	return rows, err
}

func (r *sampleRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&Sample{}, "id = ?", id).Error
}
