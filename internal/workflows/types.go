package workflows

import "origincheck/internal/detect"

type CheckInput struct {
	CheckID    string               `json:"check_id"`
	DocumentID string               `json:"document_id"`
	Checks     detect.EnabledChecks `json:"checks"`
}

// CheckProgress is served through the status query while a check runs.
type CheckProgress struct {
	CheckID    string `json:"check_id"`
	DocumentID string `json:"document_id"`
	Stage      string `json:"stage"`
	CacheHit   bool   `json:"cache_hit"`
	Error      string `json:"error,omitempty"`
}

type DocumentIndexInput struct {
	DocumentID string `json:"document_id"`
}
