package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()
	assert.Equal(t, 100, cfg.ChunkSize)
	assert.Equal(t, 20, cfg.ChunkOverlap)
	assert.Equal(t, 90.0, cfg.ExactMatchThreshold)
	assert.Equal(t, 85.0, cfg.SemanticSimilarityThreshold)
	assert.Equal(t, "duckduckgo", cfg.SearchProviders)
	require.NoError(t, cfg.Validate())
}

func TestValidateRejectsBadGeometry(t *testing.T) {
	cfg := Load()
	cfg.ChunkOverlap = cfg.ChunkSize
	err := cfg.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidConfig)

	cfg = Load()
	cfg.ChunkSize = 0
	assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)

	cfg = Load()
	cfg.ExactMatchThreshold = 140
	assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)

	cfg = Load()
	cfg.EmbedDim = -1
	assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
}

func TestGetenvHelpers(t *testing.T) {
	t.Setenv("ORIGINCHECK_CHUNK_SIZE", "250")
	t.Setenv("ORIGINCHECK_STRIP_CITATIONS", "true")
	t.Setenv("ORIGINCHECK_EXACT_MATCH_THRESHOLD", "92.5")
	cfg := Load()
	assert.Equal(t, 250, cfg.ChunkSize)
	assert.True(t, cfg.StripCitations)
	assert.Equal(t, 92.5, cfg.ExactMatchThreshold)
}

func TestGetenvHelpersIgnoreGarbage(t *testing.T) {
	t.Setenv("ORIGINCHECK_CHUNK_SIZE", "not-a-number")
	cfg := Load()
	assert.Equal(t, 100, cfg.ChunkSize)
}
