package analyses

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

const selectColumns = `id, session_id, resume_filename, resume_text, job_description,
       score, similarity_score, keyword_match_score, skills_match_score,
       matching_keywords, missing_keywords, suggestions, created_at`

// Save inserts a record.
func (r *PGRepo) Save(ctx context.Context, record Record) error {
	const query = `
INSERT INTO resume_analyses (
	id, session_id, resume_filename, resume_text, job_description,
	score, similarity_score, keyword_match_score, skills_match_score,
	matching_keywords, missing_keywords, suggestions, created_at
)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	record = record.forStorage()
	matching, err := marshalJSONB(record.MatchingKeywords)
	if err != nil {
		return err
	}
	missing, err := marshalJSONB(record.MissingKeywords)
	if err != nil {
		return err
	}
	suggestions, err := marshalJSONB(record.Suggestions)
	if err != nil {
		return err
	}
	_, err = r.DB.ExecContext(ctx, query,
		record.ID,
		record.SessionID,
		record.ResumeFilename,
		record.ResumeText,
		record.JobDescription,
		record.Score,
		record.SimilarityScore,
		record.KeywordMatchScore,
		record.SkillsMatchScore,
		matching,
		missing,
		suggestions,
		record.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert analysis: %w", err)
	}
	return nil
}

// GetByID returns a record owned by sessionID.
func (r *PGRepo) GetByID(ctx context.Context, sessionID, id string) (Record, error) {
	query := `
SELECT ` + selectColumns + `
FROM resume_analyses
WHERE id = $1 AND session_id = $2
LIMIT 1`
	record, err := scanRecord(r.DB.QueryRowContext(ctx, query, id, sessionID))
	if errors.Is(err, sql.ErrNoRows) {
		return Record{}, ErrNotFound
	}
	if err != nil {
		return Record{}, err
	}
	return record, nil
}

// ListBySession returns the newest records for sessionID.
func (r *PGRepo) ListBySession(ctx context.Context, sessionID string, limit int) ([]Record, error) {
	query := `
SELECT ` + selectColumns + `
FROM resume_analyses
WHERE session_id = $1
ORDER BY created_at DESC
LIMIT $2`
	rows, err := r.DB.QueryContext(ctx, query, sessionID, limit)
	if err != nil {
		return nil, fmt.Errorf("list analyses: %w", err)
	}
	defer rows.Close()

	out := make([]Record, 0, limit)
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, record)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Stats aggregates all stored records.
func (r *PGRepo) Stats(ctx context.Context) (Stats, error) {
	const query = `
SELECT COUNT(*), COALESCE(AVG(score), 0), COUNT(DISTINCT session_id)
FROM resume_analyses`
	var stats Stats
	if err := r.DB.QueryRowContext(ctx, query).Scan(&stats.TotalAnalyses, &stats.AverageScore, &stats.TotalSessions); err != nil {
		return Stats{}, fmt.Errorf("analysis stats: %w", err)
	}
	stats.AverageScore = round1(stats.AverageScore)
	return stats, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (Record, error) {
	var rec Record
	var matching, missing, suggestions []byte
	err := row.Scan(
		&rec.ID,
		&rec.SessionID,
		&rec.ResumeFilename,
		&rec.ResumeText,
		&rec.JobDescription,
		&rec.Score,
		&rec.SimilarityScore,
		&rec.KeywordMatchScore,
		&rec.SkillsMatchScore,
		&matching,
		&missing,
		&suggestions,
		&rec.CreatedAt,
	)
	if err != nil {
		return Record{}, err
	}
	if rec.MatchingKeywords, err = unmarshalList(matching); err != nil {
		return Record{}, err
	}
	if rec.MissingKeywords, err = unmarshalList(missing); err != nil {
		return Record{}, err
	}
	if rec.Suggestions, err = unmarshalList(suggestions); err != nil {
		return Record{}, err
	}
	rec.CreatedAt = rec.CreatedAt.UTC()
	return rec, nil
}

func marshalJSONB(value []string) ([]byte, error) {
	if value == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(value)
}

func unmarshalList(raw []byte) ([]string, error) {
	out := []string{}
	if len(raw) == 0 {
		return out, nil
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decode jsonb list: %w", err)
	}
	return out, nil
}
