package vector

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DB is the pool surface the index needs. *pgxpool.Pool satisfies it; tests
// can swap in a stub.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// Index stores and queries chunk embeddings in the document_vectors table
// using pgvector cosine distance.
type Index struct {
	db DB
}

func NewIndex(db DB) *Index {
	return &Index{db: db}
}

// Entry is one nearest-neighbor hit. Distance is pgvector cosine distance,
// 0 for identical direction and 2 for opposite.
type Entry struct {
	DocumentID string
	ChunkIndex int
	Distance   float64
	Text       string
	Metadata   map[string]string
}

// Upsert replaces the embedding row for (documentID, chunkIndex).
func (ix *Index) Upsert(ctx context.Context, documentID string, chunkIndex int, text string, embedding []float32, metadata map[string]string) error {
	meta, err := json.Marshal(metadata)
	if err != nil {
		return fmt.Errorf("marshal vector metadata: %w", err)
	}
	_, err = ix.db.Exec(ctx, `
		INSERT INTO document_vectors (document_id, chunk_index, chunk_text, embedding, metadata)
		VALUES ($1, $2, $3, $4::vector, $5)
		ON CONFLICT (document_id, chunk_index)
		DO UPDATE SET chunk_text = EXCLUDED.chunk_text, embedding = EXCLUDED.embedding, metadata = EXCLUDED.metadata`,
		documentID, chunkIndex, text, ToLiteral(embedding), string(meta))
	if err != nil {
		return fmt.Errorf("upsert vector for document %s chunk %d: %w", documentID, chunkIndex, err)
	}
	return nil
}

// Query returns the k nearest chunks to the embedding across all documents.
func (ix *Index) Query(ctx context.Context, embedding []float32, k int) ([]Entry, error) {
	if k <= 0 {
		k = 5
	}
	rows, err := ix.db.Query(ctx, `
		SELECT document_id, chunk_index, chunk_text, embedding <=> $1::vector AS distance, metadata
		FROM document_vectors
		ORDER BY embedding <=> $1::vector
		LIMIT $2`,
		ToLiteral(embedding), k)
	if err != nil {
		return nil, fmt.Errorf("query vectors: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		var meta string
		if err := rows.Scan(&e.DocumentID, &e.ChunkIndex, &e.Text, &e.Distance, &meta); err != nil {
			return nil, fmt.Errorf("scan vector row: %w", err)
		}
		if meta != "" {
			if err := json.Unmarshal([]byte(meta), &e.Metadata); err != nil {
				return nil, fmt.Errorf("decode vector metadata: %w", err)
			}
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate vector rows: %w", err)
	}
	return out, nil
}

// Delete retracts every vector of a document. Used when a document is removed
// so stale chunks stop matching future checks.
func (ix *Index) Delete(ctx context.Context, documentID string) error {
	if _, err := ix.db.Exec(ctx, `DELETE FROM document_vectors WHERE document_id = $1`, documentID); err != nil {
		return fmt.Errorf("delete vectors for document %s: %w", documentID, err)
	}
	return nil
}

// ToLiteral renders a pgvector literal like "[0.1,0.2,0.3]".
func ToLiteral(v []float32) string {
	var sb strings.Builder
	sb.WriteByte('[')
	for i, f := range v {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(strconv.FormatFloat(float64(f), 'f', -1, 32))
	}
	sb.WriteByte(']')
	return sb.String()
}

// Similarity converts cosine distance into the 0-100 percent scale the rest
// of the engine speaks.
func Similarity(distance float64) float64 {
	s := (1 - distance) * 100
	if s < 0 {
		return 0
	}
	if s > 100 {
		return 100
	}
	return s
}
