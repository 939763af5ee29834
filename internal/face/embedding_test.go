package face

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEmbeddingCodec(t *testing.T) {
	vec := []float32{0.125, -3.5, 0, math.MaxFloat32}

	decoded, err := DecodeEmbedding(EncodeEmbedding(vec))
	assert.NoError(t, err)
	assert.Equal(t, vec, decoded)
}

func TestDecodeEmbedding_Malformed(t *testing.T) {
	_, err := DecodeEmbedding([]byte{1, 2, 3})
	assert.Error(t, err)
}

func TestEuclideanDistance(t *testing.T) {
	d, err := EuclideanDistance([]float32{0, 0}, []float32{3, 4})
	assert.NoError(t, err)
	assert.InDelta(t, 5.0, d, 1e-9)

	d, err = EuclideanDistance([]float32{1, 2, 3}, []float32{1, 2, 3})
	assert.NoError(t, err)
	assert.Zero(t, d)

	_, err = EuclideanDistance([]float32{1}, []float32{1, 2})
	assert.Error(t, err)
}
