package activities

import (
	"origincheck/internal/detect"
	"origincheck/internal/models"
)

type MarkCheckProcessingInput struct {
	CheckID string `json:"check_id"`
}

type LoadDocumentInput struct {
	DocumentID string `json:"document_id"`
}

type LoadDocumentOutput struct {
	Document models.Document `json:"document"`
}

type CacheLookupInput struct {
	Fingerprint string `json:"fingerprint"`
}

type CacheLookupOutput struct {
	Hit     bool                 `json:"hit"`
	Summary models.CachedSummary `json:"summary"`
}

type CompleteCheckFromCacheInput struct {
	CheckID        string               `json:"check_id"`
	Summary        models.CachedSummary `json:"summary"`
	ProcessingSecs float64              `json:"processing_secs"`
}

type DetectInput struct {
	Document models.Document      `json:"document"`
	Enabled  detect.EnabledChecks `json:"enabled"`
}

type DetectOutput struct {
	Result models.DetectionResult `json:"result"`
}

type PersistResultInput struct {
	CheckID        string                 `json:"check_id"`
	Result         models.DetectionResult `json:"result"`
	ProcessingSecs float64                `json:"processing_secs"`
}

type CacheStoreInput struct {
	Fingerprint string               `json:"fingerprint"`
	Summary     models.CachedSummary `json:"summary"`
}

type FailCheckInput struct {
	CheckID        string  `json:"check_id"`
	ErrorMessage   string  `json:"error_message"`
	ProcessingSecs float64 `json:"processing_secs"`
}

type IndexDocumentInput struct {
	DocumentID string `json:"document_id"`
}

type IndexDocumentOutput struct {
	ChunkCount int `json:"chunk_count"`
}
