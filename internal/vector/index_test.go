package vector

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToLiteral(t *testing.T) {
	assert.Equal(t, "[0.5,-1,0.25]", ToLiteral([]float32{0.5, -1, 0.25}))
	assert.Equal(t, "[]", ToLiteral(nil))
}

func TestSimilarity(t *testing.T) {
	assert.Equal(t, 100.0, Similarity(0))
	assert.Equal(t, 0.0, Similarity(1))
	// Opposite-direction vectors clamp instead of going negative.
	assert.Equal(t, 0.0, Similarity(2))
	assert.InDelta(t, 85.0, Similarity(0.15), 1e-9)
}
