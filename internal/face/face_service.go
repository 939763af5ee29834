package face

import (
	"context"
	"errors"

	faceerrors "rollcall/internal/face/errors"
	"rollcall/internal/rbac"
	"rollcall/internal/shared/apperror"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:generate mockgen -source=face_service.go -destination=mock/face_service_mock.go -package=mock
type Service interface {
	EnrollSample(ctx context.Context, userID string, image []byte) (SampleResponse, error)
	ListSamples(ctx context.Context, userID string) ([]SampleResponse, error)
	DeleteSample(ctx context.Context, sampleID, actorID string) error
}

type service struct {
	embedder Embedder
	samples  SampleRepository
	rbac     rbac.Service
	logger   *zap.Logger
}

func NewService(embedder Embedder, samples SampleRepository, rbacService rbac.Service, logger ...*zap.Logger) Service {
	l := zap.L().Named("face.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("face.service")
	}
	return &service{
		embedder: embedder,
		samples:  samples,
		rbac:     rbacService,
		logger:   l,
	}
}

func (s *service) EnrollSample(ctx context.Context, userID string, image []byte) (SampleResponse, error) {
	vec, err := s.embedder.Embed(ctx, image)
	if err != nil {
		return SampleResponse{}, err
	}

	row := &Sample{
		ID:        uuid.New(),
		UserID:    uuid.MustParse(userID),
		Embedding: EncodeEmbedding(vec),
	}
	if err := s.samples.Create(ctx, row); err != nil {
		return SampleResponse{}, apperror.Storage(err)
	}

	s.logger.Info("face sample enrolled",
		zap.String("user_id", userID),
		zap.String("sample_id", row.ID.String()),
	)
	return mapToResponse(*row), nil
}

func (s *service) ListSamples(ctx context.Context, userID string) ([]SampleResponse, error) {
	rows, err := s.samples.FindAllByUser(ctx, userID)
	if err != nil {
		return nil, apperror.Storage(err)
	}
	res := make([]SampleResponse, len(rows))
	for i, r := range rows {
		res[i] = mapToResponse(r)
	}
	return res, nil
}

// DeleteSample allows the owner or an admin to remove an enrolled sample.
func (s *service) DeleteSample(ctx context.Context, sampleID, actorID string) error {
	row, err := s.samples.FindByID(ctx, sampleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return faceerrors.ErrSampleNotFound
		}
		return apperror.Storage(err)
	}

	if row.UserID.String() != actorID {
		isAdmin, err := s.rbac.HasRole(ctx, actorID, rbac.RoleAdmin)
		if err != nil {
			return err
		}
		if !isAdmin {
			return apperror.ErrForbidden
		}
	}

	if err := s.samples.Delete(ctx, sampleID); err != nil {
		return apperror.Storage(err)
	}
	return nil
}
