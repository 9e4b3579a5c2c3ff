package detect

import (
	"context"
	"fmt"

	"origincheck/internal/config"
	"origincheck/internal/models"
	"origincheck/internal/textproc"
)

// EnabledChecks selects which source adapters a check consults.
type EnabledChecks struct {
	Web         bool `json:"web"`
	Database    bool `json:"database"`
	Institution bool `json:"institution"`
}

// AllChecks enables every source adapter.
func AllChecks() EnabledChecks {
	return EnabledChecks{Web: true, Database: true, Institution: true}
}

func (e EnabledChecks) enabled(kind models.SourceKind) bool {
	switch kind {
	case models.SourceWeb:
		return e.Web
	case models.SourceDatabase:
		return e.Database
	case models.SourceInstitution:
		return e.Institution
	default:
		return false
	}
}

// Detector runs the full pipeline for one document: normalize, chunk once,
// walk the enabled source adapters in a fixed order and aggregate their
// candidates.
type Detector struct {
	cfg     config.Config
	sources []Source
}

// NewDetector wires the adapters. Order matters: database, then web, then
// institution, so match rows group predictably.
func NewDetector(cfg config.Config, sources ...Source) *Detector {
	return &Detector{cfg: cfg, sources: sources}
}

// RunCheck scores one document. An individual adapter failing is recorded and
// skipped; the check only fails when the document itself is unusable.
func (d *Detector) RunCheck(ctx context.Context, doc models.Document, enabled EnabledChecks) (models.DetectionResult, error) {
	// Citations are stripped before normalization: Normalize drops the
	// parentheses and brackets the citation patterns anchor on.
	text := doc.Content
	if d.cfg.StripCitations {
		text = textproc.RemoveCitations(text)
	}
	text = textproc.Normalize(text)
	totalWords := textproc.WordCount(text)
	if totalWords == 0 {
		// Nothing to score: an empty document is fully original.
		return Aggregate(0, nil), nil
	}

	chunks, err := textproc.ChunkWords(text, d.cfg.ChunkSize, d.cfg.ChunkOverlap)
	if err != nil {
		return models.DetectionResult{}, fmt.Errorf("chunk document %s: %w", doc.DocumentID, err)
	}
	if len(chunks) == 0 {
		// Shorter than one chunk: compare the whole text as a single window.
		chunks = []textproc.Chunk{{Index: 0, Start: 0, End: totalWords, Text: text}}
	}
	chunks = filterSearchable(chunks, d.cfg.MinMatchLength)

	var all []models.MatchCandidate
	sourceErrors := make(map[models.SourceKind]string)
	for _, src := range d.sources {
		if !enabled.enabled(src.Kind()) {
			continue
		}
		candidates, err := src.FindMatches(ctx, doc, chunks)
		if err != nil {
			sourceErrors[src.Kind()] = err.Error()
			continue
		}
		all = append(all, candidates...)
	}

	result := Aggregate(totalWords, all)
	if len(sourceErrors) > 0 {
		result.SourceErrors = sourceErrors
	}
	return result, nil
}

// filterSearchable drops chunks too short to be worth a similarity search.
func filterSearchable(chunks []textproc.Chunk, minWords int) []textproc.Chunk {
	if minWords <= 0 {
		return chunks
	}
	out := chunks[:0]
	for _, c := range chunks {
		if c.WordCount() >= minWords {
			out = append(out, c)
		}
	}
	return out
}
