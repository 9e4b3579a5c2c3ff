package models

import "time"

type MatchKind string

const (
	MatchExact      MatchKind = "exact"
	MatchParaphrase MatchKind = "paraphrase"
	MatchSemantic   MatchKind = "semantic"
)

type SourceKind string

const (
	SourceWeb         SourceKind = "web"
	SourceDatabase    SourceKind = "database"
	SourceInstitution SourceKind = "institution"
)

type CheckStatus string

const (
	CheckPending    CheckStatus = "pending"
	CheckProcessing CheckStatus = "processing"
	CheckCompleted  CheckStatus = "completed"
	CheckFailed     CheckStatus = "failed"
)

type Document struct {
	DocumentID    string    `json:"document_id"`
	InstitutionID string    `json:"institution_id,omitempty"`
	Title         string    `json:"title,omitempty"`
	Filename      string    `json:"filename,omitempty"`
	Content       string    `json:"content"`
	Fingerprint   string    `json:"fingerprint"`
	WordCount     int       `json:"word_count"`
	CharCount     int       `json:"char_count"`
	CreatedAt     time.Time `json:"created_at"`
}

// MatchCandidate is one similarity finding against one source. StartWord/EndWord
// are word offsets (inclusive-exclusive) into the submitted document's
// normalized word sequence.
type MatchCandidate struct {
	MatchKind        MatchKind         `json:"match_kind"`
	SourceKind       SourceKind        `json:"source_kind"`
	MatchedText      string            `json:"matched_text"`
	SourceText       string            `json:"source_text"`
	Similarity       float64           `json:"similarity"`
	StartWord        int               `json:"start_word"`
	EndWord          int               `json:"end_word"`
	SourceURL        string            `json:"source_url,omitempty"`
	SourceTitle      string            `json:"source_title,omitempty"`
	SourceDocumentID string            `json:"source_document_id,omitempty"`
	Metadata         map[string]string `json:"metadata,omitempty"`
}

type DetectionResult struct {
	OriginalityScore float64            `json:"originality_score"`
	PlagiarismPct    float64            `json:"plagiarism_percentage"`
	Matches          []MatchCandidate   `json:"matches"`
	SourceCounts     map[SourceKind]int `json:"source_counts"`
	// SourceErrors records adapters that failed; a failed adapter contributes
	// no matches but never fails the whole check.
	SourceErrors map[SourceKind]string `json:"source_errors,omitempty"`
}

type Check struct {
	CheckID            string      `json:"check_id"`
	DocumentID         string      `json:"document_id"`
	Status             CheckStatus `json:"status"`
	OriginalityScore   float64     `json:"originality_score"`
	PlagiarismPct      float64     `json:"plagiarism_percentage"`
	TotalMatches       int         `json:"total_matches"`
	WebMatches         int         `json:"web_matches"`
	DatabaseMatches    int         `json:"database_matches"`
	InstitutionMatches int         `json:"institution_matches"`
	CachedFromCheckID  string      `json:"cached_from_check_id,omitempty"`
	ErrorMessage       string      `json:"error_message,omitempty"`
	ProcessingSecs     float64     `json:"processing_seconds"`
	CreatedAt          time.Time   `json:"created_at"`
	CompletedAt        *time.Time  `json:"completed_at,omitempty"`
}

// CachedSummary is the identifying slice of a completed check kept in the
// result cache; callers fetch the full persisted result by CheckID.
type CachedSummary struct {
	CheckID          string  `json:"check_id"`
	OriginalityScore float64 `json:"originality_score"`
	PlagiarismPct    float64 `json:"plagiarism_percentage"`
	TotalMatches     int     `json:"total_matches"`
}
