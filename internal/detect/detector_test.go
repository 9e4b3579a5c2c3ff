package detect

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"origincheck/internal/config"
	"origincheck/internal/models"
	"origincheck/internal/textproc"
)

type fakeSource struct {
	kind       models.SourceKind
	candidates []models.MatchCandidate
	err        error
	calls      int
	gotChunks  []textproc.Chunk
}

func (f *fakeSource) Kind() models.SourceKind { return f.kind }

func (f *fakeSource) FindMatches(_ context.Context, _ models.Document, chunks []textproc.Chunk) ([]models.MatchCandidate, error) {
	f.calls++
	f.gotChunks = chunks
	return f.candidates, f.err
}

func testConfig() config.Config {
	return config.Config{
		ChunkSize:                   100,
		ChunkOverlap:                20,
		MinMatchLength:              8,
		ExactMatchThreshold:         90,
		SemanticSimilarityThreshold: 85,
		VectorTopK:                  5,
		EmbedDim:                    8,
	}
}

func TestRunCheckNoMatchesIsFullyOriginal(t *testing.T) {
	d := NewDetector(testConfig(), &fakeSource{kind: models.SourceDatabase})
	doc := models.Document{DocumentID: "doc-1", Content: strings.Repeat("every word here is original ", 10)}

	res, err := d.RunCheck(context.Background(), doc, AllChecks())
	require.NoError(t, err)
	assert.Equal(t, 100.0, res.OriginalityScore)
	assert.Equal(t, 0.0, res.PlagiarismPct)
	assert.Empty(t, res.Matches)
}

func TestRunCheckFullCoverageIsZeroOriginality(t *testing.T) {
	content := "one two three four five six seven eight nine ten"
	src := &fakeSource{
		kind: models.SourceWeb,
		candidates: []models.MatchCandidate{
			{MatchKind: models.MatchExact, SourceKind: models.SourceWeb, StartWord: 0, EndWord: 10, Similarity: 99},
		},
	}
	d := NewDetector(testConfig(), src)

	res, err := d.RunCheck(context.Background(), models.Document{DocumentID: "doc-2", Content: content}, AllChecks())
	require.NoError(t, err)
	assert.Equal(t, 0.0, res.OriginalityScore)
	assert.Equal(t, 100.0, res.PlagiarismPct)
}

func TestRunCheckPartialCoverage(t *testing.T) {
	// Ten words, matches cover positions [2,5): 30% plagiarized.
	content := "one two three four five six seven eight nine ten"
	src := &fakeSource{
		kind: models.SourceDatabase,
		candidates: []models.MatchCandidate{
			{MatchKind: models.MatchSemantic, SourceKind: models.SourceDatabase, StartWord: 2, EndWord: 5, Similarity: 90},
		},
	}
	d := NewDetector(testConfig(), src)

	res, err := d.RunCheck(context.Background(), models.Document{DocumentID: "doc-3", Content: content}, AllChecks())
	require.NoError(t, err)
	assert.InDelta(t, 70.0, res.OriginalityScore, 1e-9)
	assert.InDelta(t, 30.0, res.PlagiarismPct, 1e-9)
	assert.InDelta(t, 100.0, res.OriginalityScore+res.PlagiarismPct, 1e-9)
}

func TestRunCheckOverlappingMatchesDoNotDoubleCount(t *testing.T) {
	content := "one two three four five six seven eight nine ten"
	src := &fakeSource{
		kind: models.SourceWeb,
		candidates: []models.MatchCandidate{
			{SourceKind: models.SourceWeb, StartWord: 0, EndWord: 5, Similarity: 95},
			{SourceKind: models.SourceWeb, StartWord: 3, EndWord: 7, Similarity: 92},
		},
	}
	d := NewDetector(testConfig(), src)

	res, err := d.RunCheck(context.Background(), models.Document{DocumentID: "doc-4", Content: content}, AllChecks())
	require.NoError(t, err)
	// Union of [0,5) and [3,7) is 7 positions, not 9.
	assert.InDelta(t, 70.0, res.PlagiarismPct, 1e-9)
	assert.Equal(t, 2, res.SourceCounts[models.SourceWeb])
}

func TestRunCheckFailingSourceContributesNothing(t *testing.T) {
	content := "one two three four five six seven eight nine ten"
	failing := &fakeSource{kind: models.SourceWeb, err: errors.New("search engines unreachable")}
	working := &fakeSource{
		kind: models.SourceDatabase,
		candidates: []models.MatchCandidate{
			{SourceKind: models.SourceDatabase, StartWord: 0, EndWord: 2, Similarity: 88},
		},
	}
	d := NewDetector(testConfig(), working, failing)

	res, err := d.RunCheck(context.Background(), models.Document{DocumentID: "doc-5", Content: content}, AllChecks())
	require.NoError(t, err)
	assert.InDelta(t, 20.0, res.PlagiarismPct, 1e-9)
	assert.Equal(t, 1, res.SourceCounts[models.SourceDatabase])
	assert.Zero(t, res.SourceCounts[models.SourceWeb])
	assert.Contains(t, res.SourceErrors[models.SourceWeb], "unreachable")
}

func TestRunCheckMatchOffsetsStayInBounds(t *testing.T) {
	content := "one two three four five"
	src := &fakeSource{
		kind: models.SourceWeb,
		candidates: []models.MatchCandidate{
			{SourceKind: models.SourceWeb, StartWord: 3, EndWord: 50, Similarity: 99},
		},
	}
	d := NewDetector(testConfig(), src)

	res, err := d.RunCheck(context.Background(), models.Document{DocumentID: "doc-6", Content: content}, AllChecks())
	require.NoError(t, err)
	// Only positions [3,5) count.
	assert.InDelta(t, 40.0, res.PlagiarismPct, 1e-9)
	assert.LessOrEqual(t, res.PlagiarismPct, 100.0)
}

func TestRunCheckEmptyDocumentIsFullyOriginal(t *testing.T) {
	src := &fakeSource{kind: models.SourceDatabase}
	d := NewDetector(testConfig(), src)
	res, err := d.RunCheck(context.Background(), models.Document{DocumentID: "doc-7", Content: "   "}, AllChecks())
	require.NoError(t, err)
	assert.Equal(t, 100.0, res.OriginalityScore)
	assert.Equal(t, 0.0, res.PlagiarismPct)
	assert.Empty(t, res.Matches)
	// No words means no source adapter is consulted.
	assert.Zero(t, src.calls)
}

func TestRunCheckShortDocumentUsesSingleWindow(t *testing.T) {
	src := &fakeSource{kind: models.SourceDatabase}
	d := NewDetector(testConfig(), src)

	_, err := d.RunCheck(context.Background(), models.Document{DocumentID: "doc-8", Content: "just a small handful of plain words written here"}, AllChecks())
	require.NoError(t, err)
	require.Len(t, src.gotChunks, 1)
	assert.Equal(t, 0, src.gotChunks[0].Start)
	assert.Equal(t, 9, src.gotChunks[0].End)
}

func TestRunCheckDisabledSourceIsNotInvoked(t *testing.T) {
	content := "one two three four five six seven eight nine ten"
	web := &fakeSource{
		kind: models.SourceWeb,
		candidates: []models.MatchCandidate{
			{SourceKind: models.SourceWeb, StartWord: 0, EndWord: 10, Similarity: 99},
		},
	}
	db := &fakeSource{kind: models.SourceDatabase}
	d := NewDetector(testConfig(), db, web)

	res, err := d.RunCheck(context.Background(), models.Document{DocumentID: "doc-10", Content: content}, EnabledChecks{Database: true})
	require.NoError(t, err)
	assert.Equal(t, 100.0, res.OriginalityScore)
	assert.Nil(t, web.gotChunks)
	assert.NotNil(t, db.gotChunks)
}

func TestRunCheckFiltersShortChunks(t *testing.T) {
	cfg := testConfig()
	cfg.MinMatchLength = 8
	src := &fakeSource{kind: models.SourceDatabase}
	d := NewDetector(cfg, src)

	// Six words: too short for any similarity search, so sources see no
	// chunks but the check still completes as fully original.
	res, err := d.RunCheck(context.Background(), models.Document{DocumentID: "doc-11", Content: "only six words right over here"}, AllChecks())
	require.NoError(t, err)
	assert.Empty(t, src.gotChunks)
	assert.Equal(t, 100.0, res.OriginalityScore)
}

func TestRunCheckStripsCitationsWhenConfigured(t *testing.T) {
	cfg := testConfig()
	cfg.StripCitations = true
	src := &fakeSource{kind: models.SourceDatabase}
	d := NewDetector(cfg, src)

	_, err := d.RunCheck(context.Background(), models.Document{
		DocumentID: "doc-9",
		Content:    "novel findings (Smith, 2020) confirmed the hypothesis [12] in trials again",
	}, AllChecks())
	require.NoError(t, err)
	require.Len(t, src.gotChunks, 1)
	assert.NotContains(t, src.gotChunks[0].Text, "Smith")
	assert.NotContains(t, src.gotChunks[0].Text, "12")
}

func TestSelectImportantChunks(t *testing.T) {
	chunks := []textproc.Chunk{
		{Index: 0, Text: "repeat repeat repeat repeat repeat"},
		{Index: 1, Text: "unique varied vocabulary across many different tokens here today"},
		{Index: 2, Text: "another highly distinctive passage with plenty of separate words"},
	}
	got := selectImportantChunks(chunks, 2)
	require.Len(t, got, 2)
	// Highest-scoring chunks survive, returned in document order.
	assert.Equal(t, 1, got[0].Index)
	assert.Equal(t, 2, got[1].Index)
}

func TestSelectImportantChunksNoLimit(t *testing.T) {
	chunks := make([]textproc.Chunk, 3)
	for i := range chunks {
		chunks[i] = textproc.Chunk{Index: i, Text: fmt.Sprintf("chunk number %d", i)}
	}
	assert.Len(t, selectImportantChunks(chunks, 0), 3)
	assert.Len(t, selectImportantChunks(chunks, 5), 3)
}

func TestAggregateEmpty(t *testing.T) {
	res := Aggregate(0, nil)
	assert.Equal(t, 100.0, res.OriginalityScore)
	assert.Equal(t, 0.0, res.PlagiarismPct)
}
