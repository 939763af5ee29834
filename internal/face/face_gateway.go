package face

import (
	"context"
	"errors"

	faceerrors "rollcall/internal/face/errors"
	"rollcall/internal/shared/apperror"

	"go.uber.org/zap"
)

// DefaultTolerance is the maximum embedding distance still considered the
// same person.
const DefaultTolerance = 0.6

//go:generate mockgen -source=face_gateway.go -destination=mock/face_gateway_mock.go -package=mock
type Gateway interface {
	Embed(ctx context.Context, image []byte) ([]float32, error)
	// BestMatch compares the probe against every enrolled sample of the
	// user and reports whether the closest one is within tolerance.
	BestMatch(ctx context.Context, userID string, probe []float32) (bool, float64, error)
}

type gateway struct {
	embedder  Embedder
	samples   SampleRepository
	tolerance float64
	logger    *zap.Logger
}

func NewGateway(embedder Embedder, samples SampleRepository, tolerance float64, logger ...*zap.Logger) Gateway {
	l := zap.L().Named("face.gateway")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("face.gateway")
	}
	if tolerance <= 0 {
		tolerance = DefaultTolerance
	}
	return &gateway{
		embedder:  embedder,
		samples:   samples,
		tolerance: tolerance,
		logger:    l,
	}
}

func (g *gateway) Embed(ctx context.Context, image []byte) ([]float32, error) {
	return g.embedder.Embed(ctx, image)
}

func (g *gateway) BestMatch(ctx context.Context, userID string, probe []float32) (bool, float64, error) {
	rows, err := g.samples.FindAllByUser(ctx, userID)
	if err != nil {
		return false, 0, apperror.Storage(err)
	}
	if len(rows) == 0 {
		return false, 0, faceerrors.ErrNoEnrolledSamples
	}

	best := -1.0
	for _, row := range rows {
		ref, err := DecodeEmbedding(row.Embedding)
		if err != nil {
			g.logger.Warn("skipping undecodable sample",
				zap.String("sample_id", row.ID.String()),
				zap.Error(err),
			)
			continue
		}
		dist, err := EuclideanDistance(ref, probe)
		if err != nil {
			g.logger.Warn("skipping incomparable sample",
				zap.String("sample_id", row.ID.String()),
				zap.Error(err),
			)
			continue
		}
		if best < 0 || dist < best {
			best = dist
		}
	}
	if best < 0 {
		return false, 0, errors.New("no comparable samples for user " + userID)
	}

	// Embeddings are float32, so a sample at exactly the tolerance distance
	// lands a hair above it in float64 round-off. The boundary comparison
	// stays in float32 to keep it inclusive.
	return float32(best) <= float32(g.tolerance), best, nil
}
