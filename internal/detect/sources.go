package detect

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"origincheck/internal/config"
	"origincheck/internal/models"
	"origincheck/internal/providers"
	"origincheck/internal/similarity"
	"origincheck/internal/textproc"
	"origincheck/internal/vector"
)

// Source is one place plagiarized text can come from. FindMatches inspects
// the document's chunks and returns candidates; offsets in every candidate
// are word positions in the submitted document.
type Source interface {
	Kind() models.SourceKind
	FindMatches(ctx context.Context, doc models.Document, chunks []textproc.Chunk) ([]models.MatchCandidate, error)
}

// exactVerdictThreshold is the similarity above which a web hit counts as a
// verbatim copy without consulting the paraphrase judge.
const exactVerdictThreshold = 95

// sourceTextCap bounds stored source excerpts so match rows stay readable.
const sourceTextCap = 500

// DatabaseSource matches chunks against the embedded corpus of previously
// ingested documents via nearest-neighbor search.
type DatabaseSource struct {
	manager *providers.Manager
	index   *vector.Index
	cfg     config.Config
}

func NewDatabaseSource(manager *providers.Manager, index *vector.Index, cfg config.Config) *DatabaseSource {
	return &DatabaseSource{manager: manager, index: index, cfg: cfg}
}

func (s *DatabaseSource) Kind() models.SourceKind { return models.SourceDatabase }

func (s *DatabaseSource) FindMatches(ctx context.Context, doc models.Document, chunks []textproc.Chunk) ([]models.MatchCandidate, error) {
	var out []models.MatchCandidate
	for _, chunk := range chunks {
		// A missing embedding or an unreachable index skips semantic
		// matching for the chunk; it never fails the source.
		embedding, _, err := s.manager.EmbedOne(ctx, chunk.Text)
		if err != nil {
			continue
		}
		entries, err := s.index.Query(ctx, embedding, s.cfg.VectorTopK)
		if err != nil {
			continue
		}
		for _, e := range entries {
			if e.DocumentID == doc.DocumentID {
				continue
			}
			sim := vector.Similarity(e.Distance)
			if sim < s.cfg.SemanticSimilarityThreshold {
				continue
			}
			out = append(out, models.MatchCandidate{
				MatchKind:        models.MatchSemantic,
				SourceKind:       models.SourceDatabase,
				MatchedText:      chunk.Text,
				SourceText:       truncate(e.Text, sourceTextCap),
				Similarity:       sim,
				StartWord:        chunk.Start,
				EndWord:          chunk.End,
				SourceDocumentID: e.DocumentID,
				Metadata: map[string]string{
					"source_chunk_index": strconv.Itoa(e.ChunkIndex),
				},
			})
		}
	}
	return out, nil
}

// WebSource searches the open web for each important chunk, fetches the hit
// pages and scores the chunk against their visible text.
type WebSource struct {
	manager *providers.Manager
	fetcher *providers.PageFetcher
	cfg     config.Config
}

func NewWebSource(manager *providers.Manager, fetcher *providers.PageFetcher, cfg config.Config) *WebSource {
	return &WebSource{manager: manager, fetcher: fetcher, cfg: cfg}
}

func (s *WebSource) Kind() models.SourceKind { return models.SourceWeb }

func (s *WebSource) FindMatches(ctx context.Context, _ models.Document, chunks []textproc.Chunk) ([]models.MatchCandidate, error) {
	if s.manager.SearchCount() == 0 {
		return nil, nil
	}
	var out []models.MatchCandidate
	for _, chunk := range selectImportantChunks(chunks, s.cfg.MaxSearchedChunks) {
		keywords := textproc.ExtractKeywords(chunk.Text, 3)
		if len(keywords) == 0 {
			continue
		}
		query := strings.Join(keywords, " ")
		// All engines failing for one query yields no evidence for that
		// chunk, not a source failure.
		results, _, err := s.manager.Search(ctx, query, s.cfg.SearchResultsPerQuery)
		if err != nil {
			continue
		}
		for _, hit := range results {
			pageText, err := s.fetcher.FetchText(ctx, hit.URL)
			if err != nil || pageText == "" {
				// Unreachable page: fall back to the engine's snippet.
				pageText = hit.Snippet
			}
			if pageText == "" {
				continue
			}
			if candidate, ok := s.scoreHit(ctx, chunk, hit, pageText); ok {
				out = append(out, candidate)
			}
		}
	}
	return out, nil
}

func (s *WebSource) scoreHit(ctx context.Context, chunk textproc.Chunk, hit providers.SearchResult, pageText string) (models.MatchCandidate, bool) {
	sim := similarity.Combined(chunk.Text, pageText)
	if sim < s.cfg.ExactMatchThreshold {
		return models.MatchCandidate{}, false
	}
	kind := models.MatchExact
	meta := map[string]string{}
	if sim < exactVerdictThreshold {
		verdict, info := s.manager.JudgeParaphrase(ctx, chunk.Text, pageText)
		if verdict.IsParaphrase {
			kind = models.MatchParaphrase
			meta["judge_confidence"] = strconv.FormatFloat(verdict.Confidence, 'f', 1, 64)
			meta["judge_provider"] = info.Name
		} else {
			kind = models.MatchSemantic
		}
	}

	// Narrow the flagged span to the words that actually align with the
	// page; the whole chunk stays flagged when the scan refuses the target
	// or finds nothing tighter.
	start, end := chunk.Start, chunk.End
	segs := similarity.FindMatchingSegments(chunk.Text, pageText, s.cfg.MinMatchLength, s.cfg.ExactMatchThreshold, s.cfg.MaxSegmentTargetWords)
	if len(segs) > 0 {
		start = chunk.Start + segs[0].Start
		end = chunk.Start + segs[len(segs)-1].End
		meta["matched_segments"] = strconv.Itoa(len(segs))
	}

	return models.MatchCandidate{
		MatchKind:   kind,
		SourceKind:  models.SourceWeb,
		MatchedText: chunk.Text,
		SourceText:  truncate(pageText, sourceTextCap),
		Similarity:  sim,
		StartWord:   start,
		EndWord:     end,
		SourceURL:   hit.URL,
		SourceTitle: hit.Title,
		Metadata:    meta,
	}, true
}

// InstitutionSource compares chunks against other documents submitted to the
// same institution.
type InstitutionSource struct {
	docs DocumentLister
	cfg  config.Config
}

// DocumentLister is the storage surface the institution source needs.
type DocumentLister interface {
	ListByInstitution(ctx context.Context, institutionID, excludeDocumentID string) ([]models.Document, error)
}

func NewInstitutionSource(docs DocumentLister, cfg config.Config) *InstitutionSource {
	return &InstitutionSource{docs: docs, cfg: cfg}
}

func (s *InstitutionSource) Kind() models.SourceKind { return models.SourceInstitution }

func (s *InstitutionSource) FindMatches(ctx context.Context, doc models.Document, chunks []textproc.Chunk) ([]models.MatchCandidate, error) {
	if doc.InstitutionID == "" {
		return nil, nil
	}
	peers, err := s.docs.ListByInstitution(ctx, doc.InstitutionID, doc.DocumentID)
	if err != nil {
		return nil, fmt.Errorf("list institution peers: %w", err)
	}
	var out []models.MatchCandidate
	for _, chunk := range chunks {
		for _, peer := range peers {
			sim := similarity.Combined(chunk.Text, peer.Content)
			if sim < s.cfg.ExactMatchThreshold {
				continue
			}
			out = append(out, models.MatchCandidate{
				MatchKind:        models.MatchExact,
				SourceKind:       models.SourceInstitution,
				MatchedText:      chunk.Text,
				SourceText:       truncate(peer.Content, sourceTextCap),
				Similarity:       sim,
				StartWord:        chunk.Start,
				EndWord:          chunk.End,
				SourceTitle:      peer.Title,
				SourceDocumentID: peer.DocumentID,
			})
		}
	}
	return out, nil
}

// selectImportantChunks picks the chunks most worth a web query: long chunks
// with a high share of distinct words score highest. The selection is
// returned in original chunk order.
func selectImportantChunks(chunks []textproc.Chunk, limit int) []textproc.Chunk {
	if limit <= 0 || len(chunks) <= limit {
		return chunks
	}
	type scored struct {
		chunk textproc.Chunk
		score float64
	}
	ranked := make([]scored, 0, len(chunks))
	for _, c := range chunks {
		words := strings.Fields(strings.ToLower(c.Text))
		if len(words) == 0 {
			continue
		}
		distinct := make(map[string]struct{}, len(words))
		for _, w := range words {
			distinct[w] = struct{}{}
		}
		uniqueness := float64(len(distinct)) / float64(len(words))
		ranked = append(ranked, scored{chunk: c, score: float64(len(words)) * uniqueness})
	}
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].score > ranked[j].score })
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	out := make([]textproc.Chunk, 0, len(ranked))
	for _, r := range ranked {
		out = append(out, r.chunk)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Index < out[j].Index })
	return out
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
