package detect

import (
	"origincheck/internal/models"
)

// Aggregate merges per-source candidates into the final result. Coverage is
// computed over the union of matched word positions so overlapping matches
// from different sources never double-count.
func Aggregate(totalWords int, matches []models.MatchCandidate) models.DetectionResult {
	counts := make(map[models.SourceKind]int)
	covered := make(map[int]struct{})
	for _, m := range matches {
		counts[m.SourceKind]++
		start := m.StartWord
		if start < 0 {
			start = 0
		}
		end := m.EndWord
		if totalWords > 0 && end > totalWords {
			end = totalWords
		}
		for p := start; p < end; p++ {
			covered[p] = struct{}{}
		}
	}

	var plagiarismPct float64
	if totalWords > 0 {
		plagiarismPct = float64(len(covered)) / float64(totalWords) * 100
	}
	if plagiarismPct > 100 {
		plagiarismPct = 100
	}
	originality := 100 - plagiarismPct

	return models.DetectionResult{
		OriginalityScore: originality,
		PlagiarismPct:    plagiarismPct,
		Matches:          matches,
		SourceCounts:     counts,
	}
}
