package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"origincheck/internal/models"
)

var ErrNotFound = errors.New("not found")

type DocumentRepo struct {
	db *DB
}

func NewDocumentRepo(db *DB) *DocumentRepo {
	return &DocumentRepo{db: db}
}

func (r *DocumentRepo) CreateDocument(ctx context.Context, d models.Document) error {
	_, err := r.db.Pool.Exec(ctx, `
INSERT INTO documents (document_id, institution_id, title, filename, content, fingerprint, word_count, char_count)
VALUES ($1, NULLIF($2,''), NULLIF($3,''), NULLIF($4,''), $5, $6, $7, $8)`,
		d.DocumentID, d.InstitutionID, d.Title, d.Filename, d.Content, d.Fingerprint, d.WordCount, d.CharCount,
	)
	if err != nil {
		return fmt.Errorf("create document: %w", err)
	}
	return nil
}

func (r *DocumentRepo) GetDocument(ctx context.Context, documentID string) (models.Document, error) {
	var d models.Document
	err := r.db.Pool.QueryRow(ctx, `
SELECT document_id, COALESCE(institution_id,''), COALESCE(title,''), COALESCE(filename,''),
       content, fingerprint, word_count, char_count, created_at
FROM documents
WHERE document_id=$1`, documentID).
		Scan(&d.DocumentID, &d.InstitutionID, &d.Title, &d.Filename, &d.Content, &d.Fingerprint, &d.WordCount, &d.CharCount, &d.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Document{}, fmt.Errorf("get document %s: %w", documentID, ErrNotFound)
	}
	if err != nil {
		return models.Document{}, fmt.Errorf("get document %s: %w", documentID, err)
	}
	return d, nil
}

// FindByFingerprint returns the earliest stored document with this content
// fingerprint. Used to reject duplicate uploads.
func (r *DocumentRepo) FindByFingerprint(ctx context.Context, fingerprint string) (models.Document, error) {
	var d models.Document
	err := r.db.Pool.QueryRow(ctx, `
SELECT document_id, COALESCE(institution_id,''), COALESCE(title,''), COALESCE(filename,''),
       content, fingerprint, word_count, char_count, created_at
FROM documents
WHERE fingerprint=$1
ORDER BY created_at ASC
LIMIT 1`, fingerprint).
		Scan(&d.DocumentID, &d.InstitutionID, &d.Title, &d.Filename, &d.Content, &d.Fingerprint, &d.WordCount, &d.CharCount, &d.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Document{}, ErrNotFound
	}
	if err != nil {
		return models.Document{}, fmt.Errorf("find document by fingerprint: %w", err)
	}
	return d, nil
}

// ListByInstitution returns the institution's documents excluding the one
// being checked, oldest first so earlier submissions count as the source.
func (r *DocumentRepo) ListByInstitution(ctx context.Context, institutionID, excludeDocumentID string) ([]models.Document, error) {
	rows, err := r.db.Pool.Query(ctx, `
SELECT document_id, COALESCE(institution_id,''), COALESCE(title,''), COALESCE(filename,''),
       content, fingerprint, word_count, char_count, created_at
FROM documents
WHERE institution_id=$1 AND document_id<>$2
ORDER BY created_at ASC`, institutionID, excludeDocumentID)
	if err != nil {
		return nil, fmt.Errorf("list institution documents: %w", err)
	}
	defer rows.Close()

	out := make([]models.Document, 0)
	for rows.Next() {
		var d models.Document
		if err := rows.Scan(&d.DocumentID, &d.InstitutionID, &d.Title, &d.Filename, &d.Content, &d.Fingerprint, &d.WordCount, &d.CharCount, &d.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan institution document: %w", err)
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate institution documents: %w", err)
	}
	return out, nil
}

func (r *DocumentRepo) DeleteDocument(ctx context.Context, documentID string) error {
	tag, err := r.db.Pool.Exec(ctx, `DELETE FROM documents WHERE document_id=$1`, documentID)
	if err != nil {
		return fmt.Errorf("delete document %s: %w", documentID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("delete document %s: %w", documentID, ErrNotFound)
	}
	return nil
}
