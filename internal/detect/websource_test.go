package detect

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"origincheck/internal/config"
	"origincheck/internal/models"
	"origincheck/internal/providers"
	"origincheck/internal/textproc"
)

func newWebSource(t *testing.T, cfg config.Config) *WebSource {
	t.Helper()
	cfg.EmbedProviders = "mock"
	cfg.AIProviders = "mock"
	m, err := providers.NewManager(cfg)
	require.NoError(t, err)
	return NewWebSource(m, providers.NewPageFetcher(1, 1000), cfg)
}

func TestScoreHitVerbatimCopyIsExact(t *testing.T) {
	cfg := testConfig()
	cfg.MaxSegmentTargetWords = 300
	src := newWebSource(t, cfg)

	chunk := textproc.Chunk{
		Index: 1, Start: 10, End: 20,
		Text: "alpha beta gamma delta epsilon zeta eta theta iota kappa",
	}
	hit := providers.SearchResult{Title: "page", URL: "https://example.com/p"}

	candidate, ok := src.scoreHit(context.Background(), chunk, hit, chunk.Text)
	require.True(t, ok)
	assert.Equal(t, models.MatchExact, candidate.MatchKind)
	assert.Equal(t, models.SourceWeb, candidate.SourceKind)
	assert.Equal(t, 10, candidate.StartWord)
	assert.Equal(t, 20, candidate.EndWord)
	assert.Equal(t, "https://example.com/p", candidate.SourceURL)
	assert.GreaterOrEqual(t, candidate.Similarity, 95.0)
}

func TestScoreHitUnrelatedPageRejected(t *testing.T) {
	src := newWebSource(t, testConfig())

	chunk := textproc.Chunk{
		Index: 0, Start: 0, End: 10,
		Text: "alpha beta gamma delta epsilon zeta eta theta iota kappa",
	}
	hit := providers.SearchResult{URL: "https://example.com/q"}

	_, ok := src.scoreHit(context.Background(), chunk, hit, "completely different subject matter with no shared vocabulary at all whatsoever")
	assert.False(t, ok)
}

func TestScoreHitLongTargetKeepsChunkSpan(t *testing.T) {
	cfg := testConfig()
	cfg.MaxSegmentTargetWords = 5
	src := newWebSource(t, cfg)

	chunk := textproc.Chunk{
		Index: 2, Start: 40, End: 50,
		Text: "alpha beta gamma delta epsilon zeta eta theta iota kappa",
	}
	hit := providers.SearchResult{URL: "https://example.com/r"}

	// Target exceeds the segment scan cap, so the span is not narrowed.
	candidate, ok := src.scoreHit(context.Background(), chunk, hit, chunk.Text)
	require.True(t, ok)
	assert.Equal(t, 40, candidate.StartWord)
	assert.Equal(t, 50, candidate.EndWord)
	assert.NotContains(t, candidate.Metadata, "matched_segments")
}

func TestWebSourceNoProvidersYieldsNoMatches(t *testing.T) {
	src := newWebSource(t, testConfig())
	got, err := src.FindMatches(context.Background(), models.Document{DocumentID: "d"}, []textproc.Chunk{
		{Index: 0, Start: 0, End: 3, Text: "some words here"},
	})
	require.NoError(t, err)
	assert.Empty(t, got)
}
