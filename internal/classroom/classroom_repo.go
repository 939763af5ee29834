package classroom

import (
	"context"

	"gorm.io/gorm"
)

//go:generate mockgen -source=classroom_repo.go -destination=mock/classroom_repo_mock.go -package=mock
type Repository interface {
	Create(ctx context.Context, c *Class) error
	FindByID(ctx context.Context, id string) (*Class, error)
	FindAllByTeacher(ctx context.Context, teacherID string) ([]Class, error)
	Enroll(ctx context.Context, classID, studentID string) error
	EnrolledStudentIDs(ctx context.Context, classID string) ([]string, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, c *Class) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *repository) FindByID(ctx context.Context, id string) (*Class, error) {
	var c Class
	err := r.db.WithContext(ctx).First(&c, "id = ?", id).Error
	return &c, err
}

func (r *repository) FindAllByTeacher(ctx context.Context, teacherID string) ([]Class, error) {
	var rows []Class
	err := r.db.WithContext(ctx).
		Where("teacher_id = ?", teacherID).
		Order("created_at DESC").
		Find(&rows).Error
	return rows, err
}

func (r *repository) Enroll(ctx context.Context, classID, studentID string) error {
	return r.db.WithContext(ctx).
		Exec(`
			INSERT INTO class_students (class_id, student_id, created_at)
			VALUES (?, ?, now())
			ON CONFLICT (class_id, student_id) DO NOTHING
		`, classID, studentID).Error
}

func (r *repository) EnrolledStudentIDs(ctx context.Context, classID string) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).
		Table("class_students").
		Select("student_id::text").
		Where("class_id = ?", classID).
		Scan(&ids).Error
	return ids, err
}
