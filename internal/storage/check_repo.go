package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"origincheck/internal/models"
)

type CheckRepo struct {
	db *DB
}

func NewCheckRepo(db *DB) *CheckRepo {
	return &CheckRepo{db: db}
}

func (r *CheckRepo) CreateCheck(ctx context.Context, checkID, documentID string) error {
	_, err := r.db.Pool.Exec(ctx, `
INSERT INTO checks (check_id, document_id, status)
VALUES ($1, $2, $3)`,
		checkID, documentID, models.CheckPending,
	)
	if err != nil {
		return fmt.Errorf("create check: %w", err)
	}
	return nil
}

func (r *CheckRepo) MarkProcessing(ctx context.Context, checkID string) error {
	_, err := r.db.Pool.Exec(ctx, `UPDATE checks SET status=$2 WHERE check_id=$1`, checkID, models.CheckProcessing)
	if err != nil {
		return fmt.Errorf("mark check processing: %w", err)
	}
	return nil
}

// CompleteCheck records the final scores. cachedFrom is the earlier check
// this one reused, empty when the detection actually ran.
func (r *CheckRepo) CompleteCheck(ctx context.Context, c models.Check) error {
	_, err := r.db.Pool.Exec(ctx, `
UPDATE checks SET
  status=$2,
  originality_score=$3,
  plagiarism_pct=$4,
  total_matches=$5,
  web_matches=$6,
  database_matches=$7,
  institution_matches=$8,
  cached_from_check_id=NULLIF($9,''),
  processing_secs=$10,
  completed_at=NOW()
WHERE check_id=$1`,
		c.CheckID, models.CheckCompleted, c.OriginalityScore, c.PlagiarismPct,
		c.TotalMatches, c.WebMatches, c.DatabaseMatches, c.InstitutionMatches,
		c.CachedFromCheckID, c.ProcessingSecs,
	)
	if err != nil {
		return fmt.Errorf("complete check: %w", err)
	}
	return nil
}

// FailCheck stores the failure and removes any matches a partial run wrote,
// so a failed check never exposes half a result.
func (r *CheckRepo) FailCheck(ctx context.Context, checkID, errorMessage string, processingSecs float64) error {
	tx, err := r.db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin fail check tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	if _, err := tx.Exec(ctx, `DELETE FROM check_matches WHERE check_id=$1`, checkID); err != nil {
		return fmt.Errorf("delete partial matches: %w", err)
	}
	if _, err := tx.Exec(ctx, `
UPDATE checks SET status=$2, error_message=NULLIF($3,''), processing_secs=$4, completed_at=NOW()
WHERE check_id=$1`,
		checkID, models.CheckFailed, errorMessage, processingSecs,
	); err != nil {
		return fmt.Errorf("mark check failed: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit fail check tx: %w", err)
	}
	return nil
}

func (r *CheckRepo) GetCheck(ctx context.Context, checkID string) (models.Check, error) {
	var c models.Check
	err := r.db.Pool.QueryRow(ctx, `
SELECT check_id, document_id, status, originality_score, plagiarism_pct,
       total_matches, web_matches, database_matches, institution_matches,
       COALESCE(cached_from_check_id,''), COALESCE(error_message,''),
       processing_secs, created_at, completed_at
FROM checks
WHERE check_id=$1`, checkID).
		Scan(&c.CheckID, &c.DocumentID, &c.Status, &c.OriginalityScore, &c.PlagiarismPct,
			&c.TotalMatches, &c.WebMatches, &c.DatabaseMatches, &c.InstitutionMatches,
			&c.CachedFromCheckID, &c.ErrorMessage, &c.ProcessingSecs, &c.CreatedAt, &c.CompletedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Check{}, fmt.Errorf("get check %s: %w", checkID, ErrNotFound)
	}
	if err != nil {
		return models.Check{}, fmt.Errorf("get check %s: %w", checkID, err)
	}
	return c, nil
}

// InsertMatches writes the check's matches in one transaction, keeping the
// aggregator's order as match_index.
func (r *CheckRepo) InsertMatches(ctx context.Context, checkID string, matches []models.MatchCandidate) error {
	if len(matches) == 0 {
		return nil
	}
	tx, err := r.db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx insert matches: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	for i, m := range matches {
		meta, err := json.Marshal(m.Metadata)
		if err != nil {
			return fmt.Errorf("marshal match metadata: %w", err)
		}
		_, err = tx.Exec(ctx, `
INSERT INTO check_matches (check_id, match_index, match_kind, source_kind, matched_text, source_text,
                           similarity, start_word, end_word, source_url, source_title, source_document_id, metadata)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NULLIF($10,''), NULLIF($11,''), NULLIF($12,''), $13)`,
			checkID, i, m.MatchKind, m.SourceKind, m.MatchedText, m.SourceText,
			m.Similarity, m.StartWord, m.EndWord, m.SourceURL, m.SourceTitle, m.SourceDocumentID, string(meta),
		)
		if err != nil {
			return fmt.Errorf("insert match %d: %w", i, err)
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit matches tx: %w", err)
	}
	return nil
}

func (r *CheckRepo) ListMatches(ctx context.Context, checkID string) ([]models.MatchCandidate, error) {
	rows, err := r.db.Pool.Query(ctx, `
SELECT match_kind, source_kind, matched_text, source_text, similarity, start_word, end_word,
       COALESCE(source_url,''), COALESCE(source_title,''), COALESCE(source_document_id,''), COALESCE(metadata,'{}')
FROM check_matches
WHERE check_id=$1
ORDER BY match_index ASC`, checkID)
	if err != nil {
		return nil, fmt.Errorf("list check matches: %w", err)
	}
	defer rows.Close()

	out := make([]models.MatchCandidate, 0)
	for rows.Next() {
		var m models.MatchCandidate
		var meta string
		if err := rows.Scan(&m.MatchKind, &m.SourceKind, &m.MatchedText, &m.SourceText, &m.Similarity,
			&m.StartWord, &m.EndWord, &m.SourceURL, &m.SourceTitle, &m.SourceDocumentID, &meta); err != nil {
			return nil, fmt.Errorf("scan check match: %w", err)
		}
		if meta != "" && meta != "null" {
			if err := json.Unmarshal([]byte(meta), &m.Metadata); err != nil {
				return nil, fmt.Errorf("decode match metadata: %w", err)
			}
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate check matches: %w", err)
	}
	return out, nil
}
