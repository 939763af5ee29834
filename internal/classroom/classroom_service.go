package classroom

import (
	"context"
	"errors"

	classroomerrors "rollcall/internal/classroom/errors"
	"rollcall/internal/shared/apperror"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

//go:generate mockgen -source=classroom_service.go -destination=mock/classroom_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, teacherID string, req CreateClassRequest) (ClassResponse, error)
	GetAllByTeacher(ctx context.Context, teacherID string) ([]ClassResponse, error)
	Exists(ctx context.Context, classID string) (bool, error)
	IsTeacherOf(ctx context.Context, classID, userID string) (bool, error)
	Enroll(ctx context.Context, classID, studentID string) error
	EnrolledStudentIDs(ctx context.Context, classID string) ([]string, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Create(ctx context.Context, teacherID string, req CreateClassRequest) (ClassResponse, error) {
	row := &Class{
		ID:        uuid.New(),
		Name:      req.Name,
		TeacherID: uuid.MustParse(teacherID),
	}
	if err := s.repo.Create(ctx, row); err != nil {
		return ClassResponse{}, apperror.Storage(err)
	}
	return mapToResponse(*row), nil
}

func (s *service) GetAllByTeacher(ctx context.Context, teacherID string) ([]ClassResponse, error) {
	rows, err := s.repo.FindAllByTeacher(ctx, teacherID)
	if err != nil {
		return nil, apperror.Storage(err)
	}
	res := make([]ClassResponse, len(rows))
	for i, r := range rows {
		res[i] = mapToResponse(r)
	}
	return res, nil
}

func (s *service) Exists(ctx context.Context, classID string) (bool, error) {
	if _, err := uuid.Parse(classID); err != nil {
		return false, classroomerrors.ErrInvalidClassID
	}
	_, err := s.repo.FindByID(ctx, classID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, apperror.Storage(err)
	}
	return true, nil
}

func (s *service) IsTeacherOf(ctx context.Context, classID, userID string) (bool, error) {
	c, err := s.repo.FindByID(ctx, classID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, classroomerrors.ErrClassNotFound
		}
		return false, apperror.Storage(err)
	}
	return c.TeacherID.String() == userID, nil
}

func (s *service) Enroll(ctx context.Context, classID, studentID string) error {
	ok, err := s.Exists(ctx, classID)
	if err != nil {
		return err
	}
	if !ok {
		return classroomerrors.ErrClassNotFound
	}
	if err := s.repo.Enroll(ctx, classID, studentID); err != nil {
		return apperror.Storage(err)
	}
	return nil
}

func (s *service) EnrolledStudentIDs(ctx context.Context, classID string) ([]string, error) {
	ids, err := s.repo.EnrolledStudentIDs(ctx, classID)
	if err != nil {
		return nil, apperror.Storage(err)
	}
	return ids, nil
}
