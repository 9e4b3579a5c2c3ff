package storage

import (
	"context"
	"fmt"
)

// EnsureSchema creates the tables the engine needs. Keeps a fresh deployment
// working even if the operator forgot to run migrations.
func EnsureSchema(ctx context.Context, db *DB, embedDim int) error {
	if embedDim <= 0 {
		embedDim = 384
	}
	ddl := fmt.Sprintf(`
CREATE EXTENSION IF NOT EXISTS vector;

CREATE TABLE IF NOT EXISTS documents (
  document_id TEXT PRIMARY KEY,
  institution_id TEXT,
  title TEXT,
  filename TEXT,
  content TEXT NOT NULL,
  fingerprint TEXT NOT NULL,
  word_count INT NOT NULL DEFAULT 0,
  char_count INT NOT NULL DEFAULT 0,
  created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_documents_fingerprint ON documents(fingerprint);
CREATE INDEX IF NOT EXISTS idx_documents_institution ON documents(institution_id, created_at);

CREATE TABLE IF NOT EXISTS checks (
  check_id TEXT PRIMARY KEY,
  document_id TEXT NOT NULL REFERENCES documents(document_id) ON DELETE CASCADE,
  status TEXT NOT NULL CHECK (status IN ('pending','processing','completed','failed')),
  originality_score DOUBLE PRECISION NOT NULL DEFAULT 0,
  plagiarism_pct DOUBLE PRECISION NOT NULL DEFAULT 0,
  total_matches INT NOT NULL DEFAULT 0,
  web_matches INT NOT NULL DEFAULT 0,
  database_matches INT NOT NULL DEFAULT 0,
  institution_matches INT NOT NULL DEFAULT 0,
  cached_from_check_id TEXT,
  error_message TEXT,
  processing_secs DOUBLE PRECISION NOT NULL DEFAULT 0,
  created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
  completed_at TIMESTAMPTZ
);

CREATE INDEX IF NOT EXISTS idx_checks_document ON checks(document_id, created_at DESC);

CREATE TABLE IF NOT EXISTS check_matches (
  check_id TEXT NOT NULL REFERENCES checks(check_id) ON DELETE CASCADE,
  match_index INT NOT NULL,
  match_kind TEXT NOT NULL CHECK (match_kind IN ('exact','paraphrase','semantic')),
  source_kind TEXT NOT NULL CHECK (source_kind IN ('web','database','institution')),
  matched_text TEXT NOT NULL,
  source_text TEXT NOT NULL,
  similarity DOUBLE PRECISION NOT NULL,
  start_word INT NOT NULL,
  end_word INT NOT NULL,
  source_url TEXT,
  source_title TEXT,
  source_document_id TEXT,
  metadata JSONB,
  PRIMARY KEY (check_id, match_index)
);

CREATE TABLE IF NOT EXISTS document_vectors (
  document_id TEXT NOT NULL REFERENCES documents(document_id) ON DELETE CASCADE,
  chunk_index INT NOT NULL,
  chunk_text TEXT NOT NULL,
  embedding vector(%d),
  metadata JSONB,
  PRIMARY KEY (document_id, chunk_index)
);
`, embedDim)
	if _, err := db.Pool.Exec(ctx, ddl); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}
